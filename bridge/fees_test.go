package bridge_test

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/strangelove-ventures/omnibridge-engine/bridge"
	testutil "github.com/strangelove-ventures/omnibridge-engine/test_util"
	"github.com/strangelove-ventures/omnibridge-engine/types"
)

func newFees(t *testing.T, client types.ChainClient) *bridge.Fees {
	t.Helper()
	return bridge.NewFees(testutil.DirectorySetup(t), client, testutil.Logger, nil)
}

func feeManager() *common.Address {
	fm := testutil.FeeManager
	return &fm
}

func TestEstimateNetAmountZeroInputs(t *testing.T) {
	client := testutil.NewMockChainClient()
	f := newFees(t, client)
	from, to := usdcPair()
	ctx := context.Background()

	require.Zero(t, f.EstimateNetAmount(ctx, testutil.Direction, bridge.ForeignToHomeFee, &from, &to, big.NewInt(0), feeManager()).Sign())
	require.Zero(t, f.EstimateNetAmount(ctx, testutil.Direction, bridge.ForeignToHomeFee, &from, &to, big.NewInt(-5), feeManager()).Sign())
	require.Zero(t, f.EstimateNetAmount(ctx, testutil.Direction, bridge.ForeignToHomeFee, nil, &to, big.NewInt(10), feeManager()).Sign())
	require.Zero(t, f.EstimateNetAmount(ctx, testutil.Direction, bridge.ForeignToHomeFee, &from, nil, big.NewInt(10), feeManager()).Sign())
	require.Empty(t, client.Calls())
}

func TestEstimateNetAmountNativeRescales(t *testing.T) {
	client := testutil.NewMockChainClient()
	f := newFees(t, client)

	from := types.Token{ChainID: testutil.ForeignChainID, Mode: types.ModeNative, Decimals: 18}
	to := types.Token{ChainID: testutil.HomeChainID, Address: usdcOnGnosis, Mode: types.ModeErc677, Decimals: 6, Mediator: testutil.HomeMediator}
	oneEther := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

	net := f.EstimateNetAmount(context.Background(), testutil.Direction, bridge.ForeignToHomeFee, &from, &to, oneEther, feeManager())
	require.Equal(t, "1000000", net.String())

	// and back up
	net = f.EstimateNetAmount(context.Background(), testutil.Direction, bridge.HomeToForeignFee, &to, &from, big.NewInt(1_000_000), feeManager())
	require.Equal(t, oneEther.String(), net.String())
	require.Empty(t, client.Calls())
}

func TestEstimateNetAmountSkipsFeeManager(t *testing.T) {
	ctx := context.Background()
	amount := big.NewInt(1_000_000)

	t.Run("no fee manager", func(t *testing.T) {
		client := testutil.NewMockChainClient()
		from, to := usdcPair()
		net := newFees(t, client).EstimateNetAmount(ctx, testutil.Direction, bridge.ForeignToHomeFee, &from, &to, amount, nil)
		require.Equal(t, amount.String(), net.String())
		require.Empty(t, client.Calls())

		var zero common.Address
		net = newFees(t, client).EstimateNetAmount(ctx, testutil.Direction, bridge.ForeignToHomeFee, &from, &to, amount, &zero)
		require.Equal(t, amount.String(), net.String())
		require.Empty(t, client.Calls())
	})

	t.Run("counterpart not deployed", func(t *testing.T) {
		client := testutil.NewMockChainClient()
		from, to := usdcPair()
		to.Address = types.ZeroAddress
		net := newFees(t, client).EstimateNetAmount(ctx, testutil.Direction, bridge.ForeignToHomeFee, &from, &to, amount, feeManager())
		require.Equal(t, amount.String(), net.String())
		require.Empty(t, client.Calls())
	})

	t.Run("dedicated mediator", func(t *testing.T) {
		client := testutil.NewMockChainClient()
		from, to := usdcPair()
		to.Mediator = common.HexToAddress("0x0000000000000000000000000000000000000dd2")
		net := newFees(t, client).EstimateNetAmount(ctx, testutil.Direction, bridge.ForeignToHomeFee, &from, &to, amount, feeManager())
		require.Equal(t, amount.String(), net.String())
		require.Empty(t, client.Calls())
	})
}

func TestEstimateNetAmountSubtractsFee(t *testing.T) {
	client := testutil.NewMockChainClient().
		OnCall(testutil.HomeChainID, testutil.FeeManager, "calculateFee", big.NewInt(1_000))
	f := newFees(t, client)

	from, to := usdcPair()
	net := f.EstimateNetAmount(context.Background(), testutil.Direction, bridge.ForeignToHomeFee, &from, &to, big.NewInt(1_000_000), feeManager())
	require.Equal(t, "999000", net.String())

	calls := client.Calls()
	require.Len(t, calls, 1)
	require.Equal(t, testutil.HomeChainID, calls[0].ChainID)
	require.Equal(t, [32]byte(bridge.ForeignToHomeFee), calls[0].Args[0])
	// the home side token is charged
	require.Equal(t, usdcOnGnosis, calls[0].Args[1])
}

func TestEstimateNetAmountHomeToForeign(t *testing.T) {
	client := testutil.NewMockChainClient().
		OnCall(testutil.HomeChainID, testutil.FeeManager, "calculateFee", big.NewInt(5))
	f := newFees(t, client)

	to, from := usdcPair()
	net := f.EstimateNetAmount(context.Background(), testutil.Direction, bridge.HomeToForeignFee, &from, &to, big.NewInt(100), feeManager())
	require.Equal(t, "95", net.String())
	require.Equal(t, usdcOnGnosis, client.Calls()[0].Args[1])
}

func TestEstimateNetAmountFeeAboveAmount(t *testing.T) {
	client := testutil.NewMockChainClient().
		OnCall(testutil.HomeChainID, testutil.FeeManager, "calculateFee", big.NewInt(500))
	from, to := usdcPair()
	net := newFees(t, client).EstimateNetAmount(context.Background(), testutil.Direction, bridge.ForeignToHomeFee, &from, &to, big.NewInt(100), feeManager())
	require.Zero(t, net.Sign())
}

func TestEstimateNetAmountDegradesToAmount(t *testing.T) {
	client := testutil.NewMockChainClient().
		FailCall(testutil.HomeChainID, testutil.FeeManager, "calculateFee", errors.New("execution reverted"))
	from, to := usdcPair()
	amount := big.NewInt(1_000_000)

	net := newFees(t, client).EstimateNetAmount(context.Background(), testutil.Direction, bridge.ForeignToHomeFee, &from, &to, amount, feeManager())
	require.Equal(t, amount.String(), net.String())
	// the caller's amount is not aliased
	net.SetInt64(1)
	require.Equal(t, int64(1_000_000), amount.Int64())
}

func TestFeeTypes(t *testing.T) {
	require.Equal(t, crypto.Keccak256Hash([]byte("homeToForeignFee")), bridge.HomeToForeignFee)
	require.NotEqual(t, bridge.HomeToForeignFee, bridge.ForeignToHomeFee)

	dir := testutil.DirectionConfig()
	require.Equal(t, bridge.HomeToForeignFee, bridge.FeeTypeFor(dir, testutil.HomeChainID))
	require.Equal(t, bridge.ForeignToHomeFee, bridge.FeeTypeFor(dir, testutil.ForeignChainID))
}
