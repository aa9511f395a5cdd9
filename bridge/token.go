package bridge

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/strangelove-ventures/omnibridge-engine/types"
)

// MediatorFor returns the mediator responsible for a token, honouring
// overrides.
func (r *Resolver) MediatorFor(direction string, chainID uint64, address common.Address) (common.Address, error) {
	dir, err := r.directory.Direction(direction)
	if err != nil {
		return common.Address{}, err
	}
	if o, ok := r.overrides.Lookup(direction, chainID, address); ok && o.Mediator != types.ZeroAddress {
		return o.Mediator, nil
	}
	return dir.MediatorFor(chainID), nil
}

// FetchTokenDetails reads name, symbol and decimals of a token and detects
// how it takes part in the bridge.
func (r *Resolver) FetchTokenDetails(
	ctx context.Context,
	direction string,
	chainID uint64,
	address common.Address,
) (types.Token, error) {
	dir, err := r.directory.Direction(direction)
	if err != nil {
		return types.Token{}, err
	}
	if !dir.Contains(chainID) {
		return types.Token{}, fmt.Errorf("%w: chain %d is not part of %s", types.ErrUnknownChain, chainID, direction)
	}

	if address == types.ZeroAddress {
		native, ok := r.directory.NativeToken(chainID)
		if !ok {
			return types.Token{}, fmt.Errorf("%w: %d", types.ErrUnknownChain, chainID)
		}
		native.Mediator = dir.MediatorFor(chainID)
		return native, nil
	}

	mediator, err := r.MediatorFor(direction, chainID, address)
	if err != nil {
		return types.Token{}, err
	}

	meta, err := r.readMetadata(ctx, chainID, address)
	if err != nil {
		return types.Token{}, fmt.Errorf("unable to read token %s on chain %d: %w", address.Hex(), chainID, err)
	}

	mode, err := r.detectMode(ctx, dir, direction, chainID, address, mediator)
	if err != nil {
		return types.Token{}, err
	}

	return types.Token{
		ChainID:  chainID,
		Address:  address,
		Mode:     mode,
		Decimals: meta.decimals,
		Mediator: mediator,
		Name:     meta.name,
		Symbol:   meta.symbol,
	}, nil
}

func (r *Resolver) detectMode(
	ctx context.Context,
	dir types.BridgeDirectionConfig,
	direction string,
	chainID uint64,
	address common.Address,
	mediator common.Address,
) (types.Mode, error) {
	if o, ok := r.overrides.Lookup(direction, chainID, address); ok && o.Mode != 0 {
		return o.Mode, nil
	}
	if mediator != dir.MediatorFor(chainID) {
		return types.ModeDedicatedErc20, nil
	}

	nativeAddress, err := callOne[common.Address](ctx, r.client, chainID, mediator, mediatorABI,
		methodNativeTokenAddress, address)
	if err != nil {
		return 0, fmt.Errorf("unable to detect mode of %s on chain %d: %w", address.Hex(), chainID, err)
	}
	// bridged representations know their native address and are erc677
	if nativeAddress != types.ZeroAddress {
		return types.ModeErc677, nil
	}
	return types.ModeErc20, nil
}
