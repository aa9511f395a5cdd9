package bridge_test

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/strangelove-ventures/omnibridge-engine/bridge"
	testutil "github.com/strangelove-ventures/omnibridge-engine/test_util"
	"github.com/strangelove-ventures/omnibridge-engine/types"
)

func newLimits(t *testing.T, client types.ChainClient) *bridge.Limits {
	t.Helper()
	return bridge.NewLimits(testutil.DirectorySetup(t), client, testutil.Logger, nil)
}

func usdcPair() (types.Token, types.Token) {
	from := types.Token{
		ChainID: testutil.ForeignChainID, Address: usdcOnEthereum, Mode: types.ModeErc20,
		Decimals: 6, Mediator: testutil.ForeignMediator,
	}
	to := types.Token{
		ChainID: testutil.HomeChainID, Address: usdcOnGnosis, Mode: types.ModeErc677,
		Decimals: 6, Mediator: testutil.HomeMediator,
	}
	return from, to
}

// scriptLimits scripts the six reads of a registered pair.
func scriptLimits(
	client *testutil.MockChainClient,
	fromMediator, toMediator common.Address,
	minPerTx, dailyLimit, spent, maxPerTx, executionDailyLimit, executed int64,
) {
	client.
		OnCall(testutil.ForeignChainID, fromMediator, "minPerTx", big.NewInt(minPerTx)).
		OnCall(testutil.ForeignChainID, fromMediator, "dailyLimit", big.NewInt(dailyLimit)).
		OnCall(testutil.ForeignChainID, fromMediator, "totalSpentPerDay", big.NewInt(spent)).
		OnCall(testutil.HomeChainID, toMediator, "executionMaxPerTx", big.NewInt(maxPerTx)).
		OnCall(testutil.HomeChainID, toMediator, "executionDailyLimit", big.NewInt(executionDailyLimit)).
		OnCall(testutil.HomeChainID, toMediator, "totalExecutedPerDay", big.NewInt(executed))
}

func requireLimits(t *testing.T, l types.LimitsSnapshot, minPerTx, maxPerTx, remaining, daily int64) {
	t.Helper()
	require.Equal(t, big.NewInt(minPerTx).String(), l.MinPerTx.String(), "minPerTx")
	require.Equal(t, big.NewInt(maxPerTx).String(), l.MaxPerTx.String(), "maxPerTx")
	require.Equal(t, big.NewInt(remaining).String(), l.RemainingLimit.String(), "remainingLimit")
	require.Equal(t, big.NewInt(daily).String(), l.DailyLimit.String(), "dailyLimit")
}

func TestComputeLimitsRegisteredPair(t *testing.T) {
	client := testutil.NewMockChainClient()
	scriptLimits(client, testutil.ForeignMediator, testutil.HomeMediator, 10, 1000, 300, 500, 800, 200)
	l := newLimits(t, client)

	from, to := usdcPair()
	snapshot := l.ComputeLimits(context.Background(), testutil.Direction, from, to, big.NewInt(19700))

	// remaining is the smaller of 1000-300 and 800-200
	requireLimits(t, snapshot, 10, 500, 600, 800)
	require.Len(t, client.Calls(), 6)
	for _, c := range client.Calls() {
		if c.Method == "totalSpentPerDay" || c.Method == "totalExecutedPerDay" {
			require.Equal(t, big.NewInt(19700), c.Args[len(c.Args)-1])
		}
	}
}

func TestComputeLimitsRemainingNeverExceedsDaily(t *testing.T) {
	from, to := usdcPair()
	for _, tc := range []struct {
		name                                   string
		dailyLimit, spent, execDaily, executed int64
		remaining, daily                       int64
	}{
		{"request side binds", 1000, 900, 5000, 0, 100, 1000},
		{"execution side binds", 5000, 0, 1000, 950, 50, 1000},
		{"overspent clamps to zero", 1000, 1200, 1000, 0, 0, 1000},
		{"overexecuted clamps to zero", 1000, 0, 800, 900, 0, 800},
		{"untouched", 2000, 0, 3000, 0, 2000, 2000},
	} {
		t.Run(tc.name, func(t *testing.T) {
			client := testutil.NewMockChainClient()
			scriptLimits(client, testutil.ForeignMediator, testutil.HomeMediator, 1, tc.dailyLimit, tc.spent, 100, tc.execDaily, tc.executed)

			snapshot := newLimits(t, client).ComputeLimits(context.Background(), testutil.Direction, from, to, big.NewInt(1))
			requireLimits(t, snapshot, 1, 100, tc.remaining, tc.daily)
			require.LessOrEqual(t, snapshot.RemainingLimit.Cmp(snapshot.DailyLimit), 0)
			require.GreaterOrEqual(t, snapshot.RemainingLimit.Sign(), 0)
		})
	}
}

func TestComputeLimitsDedicatedMediator(t *testing.T) {
	fromMediator := common.HexToAddress("0x0000000000000000000000000000000000000dd1")
	toMediator := common.HexToAddress("0x0000000000000000000000000000000000000dd2")

	// the mock packs every call, so a token argument would fail against the
	// dedicated abi
	client := testutil.NewMockChainClient()
	scriptLimits(client, fromMediator, toMediator, 10, 1000, 0, 500, 1000, 0)

	from, to := usdcPair()
	from.Mediator, from.Mode = fromMediator, types.ModeDedicatedErc20
	to.Mediator = toMediator

	snapshot := newLimits(t, client).ComputeLimits(context.Background(), testutil.Direction, from, to, big.NewInt(3))
	requireLimits(t, snapshot, 10, 500, 1000, 1000)
	for _, c := range client.Calls() {
		if c.Method == "totalSpentPerDay" {
			require.Len(t, c.Args, 1)
		}
	}
}

func TestComputeLimitsFailedReadGivesZeros(t *testing.T) {
	client := testutil.NewMockChainClient()
	scriptLimits(client, testutil.ForeignMediator, testutil.HomeMediator, 10, 1000, 0, 500, 1000, 0)
	client.FailCall(testutil.HomeChainID, testutil.HomeMediator, "totalExecutedPerDay", errors.New("execution reverted"))

	from, to := usdcPair()
	snapshot := newLimits(t, client).ComputeLimits(context.Background(), testutil.Direction, from, to, big.NewInt(3))
	require.True(t, snapshot.IsZero())
	requireLimits(t, snapshot, 0, 0, 0, 0)
}

func TestComputeLimitsWithoutCurrentDayGivesZeros(t *testing.T) {
	client := testutil.NewMockChainClient()
	from, to := usdcPair()
	snapshot := newLimits(t, client).ComputeLimits(context.Background(), testutil.Direction, from, to, nil)
	require.True(t, snapshot.IsZero())
	require.Empty(t, client.Calls())
}

func TestComputeLimitsUnknownDirectionGivesZeros(t *testing.T) {
	from, to := usdcPair()
	snapshot := newLimits(t, testutil.NewMockChainClient()).ComputeLimits(context.Background(), "unknown", from, to, big.NewInt(1))
	require.True(t, snapshot.IsZero())
}

func TestComputeLimitsNativeLegUsesDefaults(t *testing.T) {
	oneEther := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	client := testutil.NewMockChainClient().
		OnCall(testutil.ForeignChainID, testutil.ForeignMediator, "minPerTx", new(big.Int).Div(oneEther, big.NewInt(1000))).
		OnCall(testutil.HomeChainID, testutil.HomeMediator, "executionMaxPerTx", new(big.Int).Mul(oneEther, big.NewInt(100))).
		OnCall(testutil.ForeignChainID, testutil.ForeignMediator, "executionDailyLimit", new(big.Int).Mul(oneEther, big.NewInt(10000)))

	from := types.Token{ChainID: testutil.ForeignChainID, Mode: types.ModeNative, Decimals: 18}
	to := types.Token{
		ChainID: testutil.HomeChainID, Address: testutil.HomeWrappedForeignCurrency,
		Mode: types.ModeErc677, Decimals: 18, Mediator: testutil.HomeMediator,
	}

	// no current day is needed for defaults
	snapshot := newLimits(t, client).ComputeLimits(context.Background(), testutil.Direction, from, to, nil)

	require.Equal(t, "1000000000000000", snapshot.MinPerTx.String())
	require.Equal(t, "100000000000000000000", snapshot.MaxPerTx.String())
	require.Equal(t, "10000000000000000000000", snapshot.DailyLimit.String())
	require.Equal(t, snapshot.DailyLimit.String(), snapshot.RemainingLimit.String())
	require.Len(t, client.Calls(), 3)
	for _, c := range client.Calls() {
		require.Equal(t, []any{types.ZeroAddress}, c.Args)
	}
}

func TestScaleDefaultLimits(t *testing.T) {
	e := func(exp int64) *big.Int {
		return new(big.Int).Exp(big.NewInt(10), big.NewInt(exp), nil)
	}
	half := func(exp int64) *big.Int {
		return new(big.Int).Div(e(exp), big.NewInt(2))
	}

	for _, tc := range []struct {
		name                           string
		decimals                       uint8
		minPerTx, maxPerTx, dailyLimit *big.Int
		wantMin, wantMax, wantDaily    string
	}{
		{
			name:     "six decimals scale down",
			decimals: 6, minPerTx: e(16), maxPerTx: e(20), dailyLimit: e(22),
			wantMin: "10000", wantMax: "100000000", wantDaily: "10000000000",
		},
		{
			name:     "all collapse to floors",
			decimals: 6, minPerTx: half(12), maxPerTx: half(12), dailyLimit: e(13),
			wantMin: "1", wantMax: "100", wantDaily: "10000",
		},
		{
			name:     "min collapses, max survives",
			decimals: 6, minPerTx: half(12), maxPerTx: e(18), dailyLimit: e(19),
			wantMin: "1", wantMax: "1000000", wantDaily: "10000000",
		},
		{
			name:     "max floored, daily survives",
			decimals: 6, minPerTx: half(12), maxPerTx: e(12), dailyLimit: e(20),
			wantMin: "1", wantMax: "100", wantDaily: "100000000",
		},
		{
			name:     "eighteen decimals unchanged",
			decimals: 18, minPerTx: big.NewInt(0), maxPerTx: big.NewInt(0), dailyLimit: big.NewInt(0),
			wantMin: "0", wantMax: "0", wantDaily: "0",
		},
		{
			name:     "more than eighteen decimals scale up",
			decimals: 24, minPerTx: big.NewInt(1), maxPerTx: big.NewInt(2), dailyLimit: big.NewInt(3),
			wantMin: "1000000", wantMax: "2000000", wantDaily: "3000000",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := bridge.ScaleDefaultLimits(tc.decimals, tc.minPerTx, tc.maxPerTx, tc.dailyLimit)
			require.Equal(t, tc.wantMin, got.MinPerTx.String())
			require.Equal(t, tc.wantMax, got.MaxPerTx.String())
			require.Equal(t, tc.wantDaily, got.DailyLimit.String())
			require.Equal(t, tc.wantDaily, got.RemainingLimit.String())
		})
	}
}

func TestCurrentDay(t *testing.T) {
	client := testutil.NewMockChainClient().
		OnCall(testutil.HomeChainID, testutil.HomeMediator, "getCurrentDay", big.NewInt(19700))
	l := newLimits(t, client)

	_, to := usdcPair()
	day, err := l.CurrentDay(context.Background(), testutil.Direction, to)
	require.NoError(t, err)
	require.Equal(t, int64(19700), day.Int64())

	client.FailCall(testutil.HomeChainID, testutil.HomeMediator, "getCurrentDay", errors.New("timeout"))
	_, err = l.CurrentDay(context.Background(), testutil.Direction, to)
	require.Error(t, err)
}
