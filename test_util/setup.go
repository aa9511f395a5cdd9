package testutil

import (
	"errors"
	"io/fs"
	"os"
	"testing"

	"cosmossdk.io/log"
	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/strangelove-ventures/omnibridge-engine/cmd"
	"github.com/strangelove-ventures/omnibridge-engine/types"
)

var Logger log.Logger
var EnvFile = os.ExpandEnv("$GOPATH/src/github.com/strangelove-ventures/omnibridge-engine/.env")

const SampleConfigPath = "../config/sample-config.yaml"

// fixture direction: gnosis chain is home, ethereum mainnet is foreign
const (
	Direction      = "eth-xdai"
	HomeChainID    = uint64(100)
	ForeignChainID = uint64(1)
)

var (
	HomeMediator    = common.HexToAddress("0xf6A78083ca3e2a662D6dd1703c939c8aCE2e268d")
	ForeignMediator = common.HexToAddress("0x88ad09518695c6c3712AC10a214bE5109a655671")
	FeeManager      = common.HexToAddress("0x5dbC897aEf6B18394D845A922BF107FA98E3AC55")

	// WETH and its bridged representation on gnosis chain
	WrappedForeignCurrency     = common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")
	HomeWrappedForeignCurrency = common.HexToAddress("0x6A023CCd1ff6F2045C3309768eAd9E68F978f6e1")

	HomeHelper    = common.HexToAddress("0x0000000000000000000000000000000000000a11")
	ForeignHelper = common.HexToAddress("0xa6439Ca0FCbA1d0F80df0bE6A17220feD9c9038a")
)

func init() {
	Logger = log.NewLogger(os.Stdout, log.LevelOption(zerolog.ErrorLevel))

	// the env file is optional, tests never reach a live node
	if err := godotenv.Load(EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		Logger.Error("error loading env file", "err", err)
		os.Exit(1)
	}
}

// Networks returns the two fixture chains.
func Networks() []types.Network {
	homeHelper, foreignHelper := HomeHelper, ForeignHelper
	return []types.Network{
		{
			ChainID:        HomeChainID,
			Name:           "Gnosis Chain",
			Label:          "xDai",
			HelperContract: &homeHelper,
			NativeCurrency: types.NativeCurrency{Name: "xDai", Symbol: "XDAI", Decimals: 18},
		},
		{
			ChainID:        ForeignChainID,
			Name:           "Ethereum Mainnet",
			Label:          "ETH",
			HelperContract: &foreignHelper,
			NativeCurrency: types.NativeCurrency{Name: "Ether", Symbol: "ETH", Decimals: 18},
		},
	}
}

// DirectionConfig returns the fixture direction with native bridging enabled.
func DirectionConfig() types.BridgeDirectionConfig {
	wrapped, homeWrapped, feeManager := WrappedForeignCurrency, HomeWrappedForeignCurrency, FeeManager
	return types.BridgeDirectionConfig{
		Label:                             "ETH ⥊ GC",
		HomeChainID:                       HomeChainID,
		ForeignChainID:                    ForeignChainID,
		HomeMediatorAddress:               HomeMediator,
		ForeignMediatorAddress:            ForeignMediator,
		HomeWrappedForeignCurrencyAddress: &homeWrapped,
		WrappedForeignCurrencyAddress:     &wrapped,
		EnableForeignCurrencyBridge:       true,
		FeeManagerAddress:                 &feeManager,
	}
}

// DirectorySetup builds a directory holding the fixture direction, modified
// by opts.
func DirectorySetup(t *testing.T, opts ...func(*types.BridgeDirectionConfig)) *types.Directory {
	t.Helper()

	cfg := DirectionConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	d, err := types.NewDirectory(map[string]types.BridgeDirectionConfig{Direction: cfg}, Networks())
	require.NoError(t, err, "Error creating directory")
	return d
}

// ConfigSetup loads the sample config and its overrides into a fresh AppState.
func ConfigSetup(t *testing.T) *cmd.AppState {
	t.Helper()

	cfg, err := cmd.ParseConfig(SampleConfigPath)
	require.NoError(t, err, "Error parsing config")

	a := cmd.NewAppState()
	a.LogLevel = "debug"
	a.InitLogger()
	a.Config = cfg
	a.ConfigPath = SampleConfigPath

	require.NoError(t, a.LoadDirectory(), "Error loading directory")

	return a
}
