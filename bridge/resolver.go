package bridge

import (
	"context"
	"fmt"

	"cosmossdk.io/log"
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"

	"github.com/strangelove-ventures/omnibridge-engine/relayer"
	"github.com/strangelove-ventures/omnibridge-engine/types"
)

// gnosis chain is labelled "GC" in synthesized counterpart names
const gnosisChainID = 100

// Resolver discovers the counterpart of a token on the other side of a
// bridge direction.
type Resolver struct {
	directory *types.Directory
	overrides *types.OverrideRegistry
	client    types.ChainClient
	logger    log.Logger
	metrics   *relayer.PromMetrics
}

func NewResolver(
	directory *types.Directory,
	overrides *types.OverrideRegistry,
	client types.ChainClient,
	logger log.Logger,
	metrics *relayer.PromMetrics,
) *Resolver {
	return &Resolver{
		directory: directory,
		overrides: overrides,
		client:    client,
		logger:    logger.With("component", "resolver"),
		metrics:   metrics,
	}
}

// ResolveCounterpart returns the representation of from on toChainID.
// Failures wrap ErrResolutionFailure, or ErrUnsupportedDirection when native
// currency bridging is disabled.
func (r *Resolver) ResolveCounterpart(
	ctx context.Context,
	direction string,
	from types.Token,
	toChainID uint64,
) (types.Token, error) {
	to, err := r.resolveCounterpart(ctx, direction, from, toChainID)
	if err != nil {
		r.metrics.IncResolutionFailures(direction)
		r.logger.Error("Unable to resolve counterpart token",
			"direction", direction, "chain_id", from.ChainID, "token", from.Address.Hex(), "err", err)
		return types.Token{}, err
	}
	r.logger.Debug("Resolved counterpart token",
		"direction", direction, "from", from.Address.Hex(), "to", to.Address.Hex(), "mode", to.Mode.String())
	return to, nil
}

func (r *Resolver) resolveCounterpart(
	ctx context.Context,
	direction string,
	from types.Token,
	toChainID uint64,
) (types.Token, error) {
	dir, err := r.directory.Direction(direction)
	if err != nil {
		return types.Token{}, fmt.Errorf("%w: %w", types.ErrResolutionFailure, err)
	}
	if err := from.Validate(); err != nil {
		return types.Token{}, fmt.Errorf("%w: %w", types.ErrResolutionFailure, err)
	}
	if !dir.Contains(from.ChainID) || !dir.Contains(toChainID) || from.ChainID == toChainID {
		return types.Token{}, fmt.Errorf("%w: chains %d -> %d are not the two sides of %s",
			types.ErrResolutionFailure, from.ChainID, toChainID, direction)
	}

	if o, ok := r.overrides.Lookup(direction, from.ChainID, from.Address); ok {
		return pinnedCounterpart(dir, o, toChainID)
	}

	fromMediator := dir.MediatorFor(from.ChainID)
	toMediator := dir.MediatorFor(toChainID)

	if from.IsNative() {
		if !dir.EnableForeignCurrencyBridge {
			return types.Token{}, fmt.Errorf("%w: %s", types.ErrUnsupportedDirection, direction)
		}
		wrapped := dir.WrappedCurrencyOn(toChainID)
		if wrapped == nil || *wrapped == types.ZeroAddress {
			return types.Token{}, fmt.Errorf("%w: no wrapped currency configured on chain %d in %s",
				types.ErrResolutionFailure, toChainID, direction)
		}
		meta, err := r.readMetadata(ctx, toChainID, *wrapped)
		if err != nil {
			return types.Token{}, fmt.Errorf("%w: %w", types.ErrResolutionFailure, err)
		}
		return types.Token{
			ChainID:  toChainID,
			Address:  *wrapped,
			Mode:     types.ModeErc677,
			Decimals: meta.decimals,
			Mediator: toMediator,
			Name:     meta.name,
			Symbol:   meta.symbol,
		}, nil
	}

	isNativeToken, err := callOne[bool](ctx, r.client, from.ChainID, fromMediator, mediatorABI,
		methodIsRegisteredAsNativeToken, from.Address)
	if err != nil {
		return types.Token{}, fmt.Errorf("%w: %w", types.ErrResolutionFailure, err)
	}

	var (
		toAddress common.Address
		mode      types.Mode
	)
	if isNativeToken {
		toAddress, err = callOne[common.Address](ctx, r.client, toChainID, toMediator, mediatorABI,
			methodBridgedTokenAddress, from.Address)
		mode = types.ModeErc677
	} else {
		toAddress, err = callOne[common.Address](ctx, r.client, from.ChainID, fromMediator, mediatorABI,
			methodNativeTokenAddress, from.Address)
		mode = types.ModeErc20
	}
	if err != nil {
		return types.Token{}, fmt.Errorf("%w: %w", types.ErrResolutionFailure, err)
	}

	to := types.Token{
		ChainID:  toChainID,
		Address:  toAddress,
		Mode:     mode,
		Mediator: toMediator,
	}

	// not yet deployed on the other side
	if toAddress == types.ZeroAddress {
		fromName := from.Name
		if fromName == "" {
			fromName, err = callOne[string](ctx, r.client, from.ChainID, from.Address, erc20ABI, methodName)
			if err != nil {
				return types.Token{}, fmt.Errorf("%w: %w", types.ErrResolutionFailure, err)
			}
		}
		to.Name = fmt.Sprintf("%s on %s", fromName, r.counterpartLabel(toChainID))
		to.Symbol = from.Symbol
		to.Decimals = from.Decimals
		return to, nil
	}

	meta, err := r.readMetadata(ctx, toChainID, toAddress)
	if err != nil {
		return types.Token{}, fmt.Errorf("%w: %w", types.ErrResolutionFailure, err)
	}
	to.Name = meta.name
	to.Symbol = meta.symbol
	to.Decimals = meta.decimals
	return to, nil
}

func pinnedCounterpart(dir types.BridgeDirectionConfig, o types.Override, toChainID uint64) (types.Token, error) {
	to := o.Counterpart
	if to.ChainID != toChainID {
		return types.Token{}, fmt.Errorf("%w: override for %s pins chain %d, requested %d",
			types.ErrResolutionFailure, o.Address.Hex(), to.ChainID, toChainID)
	}
	if to.Mediator == types.ZeroAddress {
		to.Mediator = dir.MediatorFor(toChainID)
	}
	return to, nil
}

func (r *Resolver) counterpartLabel(chainID uint64) string {
	if chainID == gnosisChainID {
		return "GC"
	}
	return r.directory.NetworkLabel(chainID)
}

type tokenMetadata struct {
	name     string
	symbol   string
	decimals uint8
}

// readMetadata reads name and decimals concurrently. The symbol is optional,
// some tokens encode it as bytes32.
func (r *Resolver) readMetadata(ctx context.Context, chainID uint64, address common.Address) (tokenMetadata, error) {
	var meta tokenMetadata

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		meta.name, err = callOne[string](gctx, r.client, chainID, address, erc20ABI, methodName)
		return err
	})
	g.Go(func() (err error) {
		meta.decimals, err = callOne[uint8](gctx, r.client, chainID, address, erc20ABI, methodDecimals)
		return err
	})
	g.Go(func() error {
		symbol, err := callOne[string](gctx, r.client, chainID, address, erc20ABI, methodSymbol)
		if err != nil {
			r.logger.Debug("Unable to read token symbol", "chain_id", chainID, "token", address.Hex(), "err", err)
			return nil
		}
		meta.symbol = symbol
		return nil
	})
	if err := g.Wait(); err != nil {
		return tokenMetadata{}, err
	}
	return meta, nil
}
