package types_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/strangelove-ventures/omnibridge-engine/types"
)

var (
	homeMediator    = common.HexToAddress("0xf6A78083ca3e2a662D6dd1703c939c8aCE2e268d")
	foreignMediator = common.HexToAddress("0x88ad09518695c6c3712AC10a214bE5109a655671")
	homeWrapped     = common.HexToAddress("0x6A023CCd1ff6F2045C3309768eAd9E68F978f6e1")
	foreignWrapped  = common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")
	foreignHelper   = common.HexToAddress("0xa6439Ca0FCbA1d0F80df0bE6A17220feD9c9038a")
)

func networks() []types.Network {
	helper := foreignHelper
	return []types.Network{
		{ChainID: 1, Name: "Ethereum Mainnet", Label: "ETH", HelperContract: &helper,
			NativeCurrency: types.NativeCurrency{Name: "Ether", Symbol: "ETH", Decimals: 18}},
		{ChainID: 100, Name: "Gnosis Chain",
			NativeCurrency: types.NativeCurrency{Name: "xDai", Symbol: "XDAI", Decimals: 18}},
	}
}

func ethXdai() types.BridgeDirectionConfig {
	hw, fw := homeWrapped, foreignWrapped
	return types.BridgeDirectionConfig{
		HomeChainID:                       100,
		ForeignChainID:                    1,
		HomeMediatorAddress:               homeMediator,
		ForeignMediatorAddress:            foreignMediator,
		HomeWrappedForeignCurrencyAddress: &hw,
		WrappedForeignCurrencyAddress:     &fw,
	}
}

func TestDirectionSides(t *testing.T) {
	dir := ethXdai()

	require.True(t, dir.Contains(1))
	require.True(t, dir.Contains(100))
	require.False(t, dir.Contains(56))

	require.True(t, dir.IsHome(100))
	require.Equal(t, homeMediator, dir.MediatorFor(100))
	require.Equal(t, foreignMediator, dir.MediatorFor(1))
	require.Equal(t, uint64(1), dir.BridgeChainID(100))
	require.Equal(t, uint64(100), dir.BridgeChainID(1))
	require.Equal(t, homeWrapped, *dir.WrappedCurrencyOn(100))
	require.Equal(t, foreignWrapped, *dir.WrappedCurrencyOn(1))
}

func TestNewDirectory(t *testing.T) {
	d, err := types.NewDirectory(map[string]types.BridgeDirectionConfig{"eth-xdai": ethXdai()}, networks())
	require.NoError(t, err)

	require.Equal(t, []string{"eth-xdai"}, d.Directions())

	_, err = d.Direction("bsc-xdai")
	require.ErrorIs(t, err, types.ErrUnknownDirection)

	require.Equal(t, "Gnosis Chain", d.NetworkName(100))
	require.Equal(t, "Unknown Network", d.NetworkName(56))
	require.Equal(t, "Unknown", d.NetworkLabel(100))

	helper, ok := d.HelperContract(1)
	require.True(t, ok)
	require.Equal(t, foreignHelper, helper)
	_, ok = d.HelperContract(100)
	require.False(t, ok)

	native, ok := d.NativeToken(1)
	require.True(t, ok)
	require.Equal(t, types.ModeNative, native.Mode)
	require.Equal(t, types.ZeroAddress, native.Address)
	require.Equal(t, "ETH", native.Symbol)
	require.Equal(t, foreignHelper, *native.HelperContractAddress)
	require.NoError(t, native.Validate())
}

func TestNewDirectoryInvalid(t *testing.T) {
	for _, tc := range []struct {
		name   string
		modify func(*types.BridgeDirectionConfig)
	}{
		{"same chain", func(d *types.BridgeDirectionConfig) { d.ForeignChainID = 100 }},
		{"unknown chain", func(d *types.BridgeDirectionConfig) { d.ForeignChainID = 56 }},
		{"missing mediator", func(d *types.BridgeDirectionConfig) { d.HomeMediatorAddress = types.ZeroAddress }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			dir := ethXdai()
			tc.modify(&dir)
			_, err := types.NewDirectory(map[string]types.BridgeDirectionConfig{"eth-xdai": dir}, networks())
			require.Error(t, err)
		})
	}

	_, err := types.NewDirectory(nil, append(networks(), types.Network{ChainID: 1}))
	require.Error(t, err)
}
