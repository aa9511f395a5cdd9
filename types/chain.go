package types

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// ChainClient reads from and submits transactions to the chains of the
// configured bridge directions.
type ChainClient interface {
	// Call performs a read-only contract call and returns the unpacked outputs.
	Call(
		ctx context.Context,
		chainID uint64,
		contract common.Address,
		contractABI *abi.ABI,
		method string,
		args ...any,
	) ([]any, error)

	// SendTransaction signs and submits a contract call with the connected
	// account, attaching value (may be nil) as native currency.
	SendTransaction(
		ctx context.Context,
		chainID uint64,
		contract common.Address,
		contractABI *abi.ABI,
		method string,
		value *big.Int,
		args ...any,
	) (TxHandle, error)
}

// TxHandle identifies a submitted transaction.
type TxHandle struct {
	ChainID uint64         `json:"chainId"`
	Hash    common.Hash    `json:"hash"`
	From    common.Address `json:"from"`
}
