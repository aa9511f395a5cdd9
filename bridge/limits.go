package bridge

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"cosmossdk.io/log"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"

	"github.com/strangelove-ventures/omnibridge-engine/relayer"
	"github.com/strangelove-ventures/omnibridge-engine/types"
)

// mediator limits are stored with 18 decimals for unregistered tokens
const defaultLimitsDecimals = 18

// floors applied when default limits collapse to zero after down-scaling
var (
	minPerTxFloor   = big.NewInt(1)
	maxPerTxFloor   = big.NewInt(100)
	dailyLimitFloor = big.NewInt(10000)
)

// Limits computes the enforceable transfer limits of a token pair.
type Limits struct {
	directory *types.Directory
	client    types.ChainClient
	logger    log.Logger
	metrics   *relayer.PromMetrics
}

func NewLimits(
	directory *types.Directory,
	client types.ChainClient,
	logger log.Logger,
	metrics *relayer.PromMetrics,
) *Limits {
	return &Limits{
		directory: directory,
		client:    client,
		logger:    logger.With("component", "limits"),
		metrics:   metrics,
	}
}

// ComputeLimits returns the current limits of from -> to in from's smallest
// unit. It never fails: when any read fails the all-zero snapshot is
// returned, which blocks transfers.
func (l *Limits) ComputeLimits(
	ctx context.Context,
	direction string,
	from, to types.Token,
	currentDay *big.Int,
) types.LimitsSnapshot {
	snapshot, err := l.computeLimits(ctx, direction, from, to, currentDay)
	if err != nil {
		l.metrics.IncDegradedEstimates(direction, "limits")
		l.logger.Error("Unable to fetch token limits",
			"direction", direction, "chain_id", from.ChainID, "token", from.Address.Hex(),
			"err", errors.Join(types.ErrLimitsUnavailable, err))
		return types.ZeroLimits()
	}

	token := from.Address.Hex()
	l.metrics.SetLimit(direction, from.ChainID, token, "min_per_tx", snapshot.MinPerTx)
	l.metrics.SetLimit(direction, from.ChainID, token, "max_per_tx", snapshot.MaxPerTx)
	l.metrics.SetLimit(direction, from.ChainID, token, "remaining", snapshot.RemainingLimit)
	l.metrics.SetLimit(direction, from.ChainID, token, "daily", snapshot.DailyLimit)
	return snapshot
}

// CurrentDay reads the daily-limit bucket index from the token's mediator.
func (l *Limits) CurrentDay(ctx context.Context, direction string, token types.Token) (*big.Int, error) {
	dir, err := l.directory.Direction(direction)
	if err != nil {
		return nil, err
	}
	return callBig(ctx, l.client, token.ChainID, mediatorOf(dir, token), mediatorLimitsABI, methodGetCurrentDay)
}

func (l *Limits) computeLimits(
	ctx context.Context,
	direction string,
	from, to types.Token,
	currentDay *big.Int,
) (types.LimitsSnapshot, error) {
	dir, err := l.directory.Direction(direction)
	if err != nil {
		return types.LimitsSnapshot{}, err
	}

	fromMediator := mediatorOf(dir, from)
	toMediator := mediatorOf(dir, to)

	if from.Address == types.ZeroAddress || to.Address == types.ZeroAddress {
		return l.defaultLimits(ctx, from, to, fromMediator, toMediator)
	}

	if currentDay == nil {
		return types.LimitsSnapshot{}, fmt.Errorf("current day is required")
	}

	// dedicated mediators serve one token and take no token argument
	dedicated := fromMediator != dir.MediatorFor(from.ChainID)
	limitsABI := mediatorLimitsABI
	fromArgs := func(extra ...any) []any { return append([]any{from.Address}, extra...) }
	toArgs := func(extra ...any) []any { return append([]any{to.Address}, extra...) }
	if dedicated {
		limitsABI = dedicatedMediatorLimitsABI
		fromArgs = func(extra ...any) []any { return extra }
		toArgs = func(extra ...any) []any { return extra }
	}

	var (
		minPerTx, dailyLimit, totalSpent             *big.Int
		maxPerTx, executionDailyLimit, totalExecuted *big.Int
	)

	g, gctx := errgroup.WithContext(ctx)
	read := func(dst **big.Int, chainID uint64, mediator common.Address, contractABI *abi.ABI, method string, args []any) {
		g.Go(func() error {
			v, err := callBig(gctx, l.client, chainID, mediator, contractABI, method, args...)
			if err != nil {
				return err
			}
			*dst = v
			return nil
		})
	}
	read(&minPerTx, from.ChainID, fromMediator, limitsABI, methodMinPerTx, fromArgs())
	read(&dailyLimit, from.ChainID, fromMediator, limitsABI, methodDailyLimit, fromArgs())
	read(&totalSpent, from.ChainID, fromMediator, limitsABI, methodTotalSpentPerDay, fromArgs(currentDay))
	read(&maxPerTx, to.ChainID, toMediator, limitsABI, methodExecutionMaxPerTx, toArgs())
	read(&executionDailyLimit, to.ChainID, toMediator, limitsABI, methodExecutionDailyLimit, toArgs())
	read(&totalExecuted, to.ChainID, toMediator, limitsABI, methodTotalExecutedPerDay, toArgs(currentDay))
	if err := g.Wait(); err != nil {
		return types.LimitsSnapshot{}, err
	}

	remainingExecutionLimit := clampedSub(executionDailyLimit, totalExecuted)
	remainingRequestLimit := clampedSub(dailyLimit, totalSpent)
	daily := minBig(dailyLimit, executionDailyLimit)

	return types.LimitsSnapshot{
		MinPerTx:       minPerTx,
		MaxPerTx:       maxPerTx,
		RemainingLimit: minBig(minBig(remainingRequestLimit, remainingExecutionLimit), daily),
		DailyLimit:     daily,
	}, nil
}

// defaultLimits reads the zero-address keyed limits that apply to tokens not
// yet registered on the bridge.
func (l *Limits) defaultLimits(
	ctx context.Context,
	from, to types.Token,
	fromMediator, toMediator common.Address,
) (types.LimitsSnapshot, error) {
	var minPerTx, maxPerTx, dailyLimit *big.Int

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		minPerTx, err = callBig(gctx, l.client, from.ChainID, fromMediator, mediatorLimitsABI, methodMinPerTx, types.ZeroAddress)
		return err
	})
	g.Go(func() (err error) {
		maxPerTx, err = callBig(gctx, l.client, to.ChainID, toMediator, mediatorLimitsABI, methodExecutionMaxPerTx, types.ZeroAddress)
		return err
	})
	g.Go(func() (err error) {
		dailyLimit, err = callBig(gctx, l.client, from.ChainID, fromMediator, mediatorLimitsABI, methodExecutionDailyLimit, types.ZeroAddress)
		return err
	})
	if err := g.Wait(); err != nil {
		return types.LimitsSnapshot{}, err
	}

	return ScaleDefaultLimits(from.Decimals, minPerTx, maxPerTx, dailyLimit), nil
}

// ScaleDefaultLimits converts 18-decimal default limits to a token's
// precision. When down-scaling collapses minPerTx to zero the fixed floors
// 1, 100 and 10000 are substituted in cascade.
func ScaleDefaultLimits(decimals uint8, minPerTx, maxPerTx, dailyLimit *big.Int) types.LimitsSnapshot {
	minPerTx = Rescale(minPerTx, defaultLimitsDecimals, decimals)
	maxPerTx = Rescale(maxPerTx, defaultLimitsDecimals, decimals)
	dailyLimit = Rescale(dailyLimit, defaultLimitsDecimals, decimals)

	if decimals < defaultLimitsDecimals && minPerTx.Sign() == 0 {
		minPerTx = new(big.Int).Set(minPerTxFloor)
		if maxPerTx.Cmp(minPerTx) <= 0 {
			maxPerTx = new(big.Int).Set(maxPerTxFloor)
			if dailyLimit.Cmp(maxPerTx) <= 0 {
				dailyLimit = new(big.Int).Set(dailyLimitFloor)
			}
		}
	}

	return types.LimitsSnapshot{
		MinPerTx:       minPerTx,
		MaxPerTx:       maxPerTx,
		RemainingLimit: new(big.Int).Set(dailyLimit),
		DailyLimit:     dailyLimit,
	}
}

// mediatorOf falls back to the direction's shared mediator for tokens that
// carry none, such as native currencies.
func mediatorOf(dir types.BridgeDirectionConfig, token types.Token) common.Address {
	if token.Mediator != types.ZeroAddress {
		return token.Mediator
	}
	return dir.MediatorFor(token.ChainID)
}

func clampedSub(a, b *big.Int) *big.Int {
	d := new(big.Int).Sub(a, b)
	if d.Sign() < 0 {
		return d.SetInt64(0)
	}
	return d
}

func minBig(a, b *big.Int) *big.Int {
	if a.Cmp(b) < 0 {
		return new(big.Int).Set(a)
	}
	return new(big.Int).Set(b)
}
