package bridge

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/strangelove-ventures/omnibridge-engine/types"
)

// callOne performs a read returning a single output of type T.
func callOne[T any](
	ctx context.Context,
	client types.ChainClient,
	chainID uint64,
	contract common.Address,
	contractABI *abi.ABI,
	method string,
	args ...any,
) (T, error) {
	var zero T
	out, err := client.Call(ctx, chainID, contract, contractABI, method, args...)
	if err != nil {
		return zero, err
	}
	if len(out) == 0 {
		return zero, fmt.Errorf("%s on %s returned no value", method, contract.Hex())
	}
	v, ok := out[0].(T)
	if !ok {
		return zero, fmt.Errorf("%s on %s returned unexpected %T", method, contract.Hex(), out[0])
	}
	return v, nil
}

func callBig(
	ctx context.Context,
	client types.ChainClient,
	chainID uint64,
	contract common.Address,
	contractABI *abi.ABI,
	method string,
	args ...any,
) (*big.Int, error) {
	v, err := callOne[*big.Int](ctx, client, chainID, contract, contractABI, method, args...)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, fmt.Errorf("%s on %s returned nil", method, contract.Hex())
	}
	return v, nil
}
