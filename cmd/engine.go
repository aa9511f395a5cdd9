package cmd

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"cosmossdk.io/log"
	"github.com/ethereum/go-ethereum/common"

	"github.com/strangelove-ventures/omnibridge-engine/bridge"
	"github.com/strangelove-ventures/omnibridge-engine/ethereum"
	"github.com/strangelove-ventures/omnibridge-engine/types"
)

// engine wires the bridge components to live chains.
type engine struct {
	directory *types.Directory
	logger    log.Logger

	readTimeout  time.Duration
	relayTimeout time.Duration

	client     types.ChainClient
	resolver   *bridge.Resolver
	limits     *bridge.Limits
	fees       *bridge.Fees
	dispatcher *bridge.Dispatcher

	close func()
}

// newEngine dials every configured chain. Callers close the engine.
func (a *AppState) newEngine(ctx context.Context) (*engine, error) {
	client, err := a.dialClient(ctx)
	if err != nil {
		return nil, err
	}

	e := a.engineWith(client)
	e.close = client.Close
	return e, nil
}

// dialClient connects to every configured chain.
func (a *AppState) dialClient(ctx context.Context) (*ethereum.Client, error) {
	chains := make([]*ethereum.Chain, 0, len(a.Config.Chains))
	for name, cfg := range a.Config.Chains {
		c, err := cfg.(*ethereum.ChainConfig).Chain(name)
		if err != nil {
			return nil, fmt.Errorf("error creating chain %s: %w", name, err)
		}
		chains = append(chains, c)
	}

	client, err := ethereum.NewClient(a.Logger, chains...)
	if err != nil {
		return nil, err
	}
	if err := client.InitializeClients(ctx); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

// engineWith builds the bridge components on top of client.
func (a *AppState) engineWith(client types.ChainClient) *engine {
	return &engine{
		directory:    a.Directory,
		logger:       a.Logger,
		readTimeout:  a.Config.ReadTimeout,
		relayTimeout: a.Config.RelayTimeout,
		client:       client,
		resolver:     bridge.NewResolver(a.Directory, a.Overrides, client, a.Logger, a.Metrics),
		limits:       bridge.NewLimits(a.Directory, client, a.Logger, a.Metrics),
		fees:         bridge.NewFees(a.Directory, client, a.Logger, a.Metrics),
		dispatcher:   bridge.NewDispatcher(a.Directory, a.Logger, a.Metrics),
		close:        func() {},
	}
}

func (e *engine) Close() {
	e.close()
}

// tokenPair reads a token and resolves its counterpart on the other side of
// direction.
func (e *engine) tokenPair(ctx context.Context, direction string, chainID uint64, address common.Address) (types.TokenPair, error) {
	dir, err := e.directory.Direction(direction)
	if err != nil {
		return types.TokenPair{}, err
	}

	from, err := bridge.WithTimeout(ctx, e.readTimeout, func(ctx context.Context) (types.Token, error) {
		return e.resolver.FetchTokenDetails(ctx, direction, chainID, address)
	})
	if err != nil {
		return types.TokenPair{}, err
	}

	to, err := bridge.WithTimeout(ctx, e.readTimeout, func(ctx context.Context) (types.Token, error) {
		return e.resolver.ResolveCounterpart(ctx, direction, from, dir.BridgeChainID(chainID))
	})
	if err != nil {
		return types.TokenPair{}, err
	}

	return types.TokenPair{From: from, To: to}, nil
}

// tokenLimits reads the current day from the destination mediator and
// computes the pair's limits. Any failure yields zero limits.
func (e *engine) tokenLimits(ctx context.Context, direction string, pair types.TokenPair) types.LimitsSnapshot {
	snapshot, err := bridge.WithTimeout(ctx, e.readTimeout, func(ctx context.Context) (types.LimitsSnapshot, error) {
		var currentDay *big.Int
		if pair.From.Address != types.ZeroAddress && pair.To.Address != types.ZeroAddress {
			day, err := e.limits.CurrentDay(ctx, direction, pair.To)
			if err != nil {
				e.logger.Error("Unable to read current day", "direction", direction, "chain_id", pair.To.ChainID, "err", err)
			}
			currentDay = day
		}
		return e.limits.ComputeLimits(ctx, direction, pair.From, pair.To, currentDay), nil
	})
	if err != nil {
		e.logger.Error("Unable to fetch token limits", "direction", direction, "err", err)
		return types.ZeroLimits()
	}
	return snapshot
}

// netAmount estimates what the receiver gets for amount of pair.From.
func (e *engine) netAmount(ctx context.Context, direction string, pair types.TokenPair, amount *big.Int) (*big.Int, error) {
	dir, err := e.directory.Direction(direction)
	if err != nil {
		return nil, err
	}

	net, err := bridge.WithTimeout(ctx, e.readTimeout, func(ctx context.Context) (*big.Int, error) {
		feeType := bridge.FeeTypeFor(dir, pair.From.ChainID)
		return e.fees.EstimateNetAmount(ctx, direction, feeType, &pair.From, &pair.To, amount, dir.FeeManagerAddress), nil
	})
	if err != nil {
		e.logger.Error("Unable to estimate bridge fee", "direction", direction, "err", err)
		return new(big.Int).Set(amount), nil
	}
	return net, nil
}

// relay submits the transfer of amount to receiver.
func (e *engine) relay(
	ctx context.Context,
	direction string,
	pair types.TokenPair,
	receiver common.Address,
	amount *big.Int,
	shouldReceiveNativeCurrency bool,
) (types.TxHandle, error) {
	dir, err := e.directory.Direction(direction)
	if err != nil {
		return types.TxHandle{}, err
	}
	relayCtx := bridge.RelayContext{
		ShouldReceiveNativeCurrency: shouldReceiveNativeCurrency,
		ForeignChainID:              dir.ForeignChainID,
	}
	return bridge.WithTimeout(ctx, e.relayTimeout, func(ctx context.Context) (types.TxHandle, error) {
		return e.dispatcher.Relay(ctx, e.client, pair.From, receiver, amount, relayCtx, pair.To)
	})
}
