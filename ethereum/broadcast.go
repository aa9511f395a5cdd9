package ethereum

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"

	"github.com/strangelove-ventures/omnibridge-engine/types"
)

// SendTransaction signs a contract call with the chain's signer and submits
// it exactly once.
func (c *Client) SendTransaction(
	ctx context.Context,
	chainID uint64,
	contract common.Address,
	contractABI *abi.ABI,
	method string,
	value *big.Int,
	args ...any,
) (types.TxHandle, error) {
	ch, err := c.Chain(chainID)
	if err != nil {
		return types.TxHandle{}, err
	}
	if ch.privateKey == nil {
		return types.TxHandle{}, fmt.Errorf("chain %s has no signer configured", ch.name)
	}

	logger := c.logger.With("chain", ch.name, "chain_id", ch.chainID)

	auth, err := bind.NewKeyedTransactorWithChainID(ch.privateKey, new(big.Int).SetUint64(ch.chainID))
	if err != nil {
		return types.TxHandle{}, fmt.Errorf("unable to create auth: %w", err)
	}
	auth.Context = ctx
	if value != nil && value.Sign() > 0 {
		auth.Value = value
	}

	backend := NewContractBackendWrapper(ch.rpcClient, logger)
	bound := bind.NewBoundContract(contract, *contractABI, backend, backend, backend)

	ch.mu.Lock()
	defer ch.mu.Unlock()

	if err := ch.wait(ctx); err != nil {
		return types.TxHandle{}, err
	}

	logger.Info(fmt.Sprintf("Broadcasting %s to %s", method, contract.Hex()), "from", ch.signerAddress.Hex())

	tx, err := bound.Transact(auth, method, args...)
	if err != nil {
		logger.Error(fmt.Sprintf("error during broadcast: %s", err.Error()))
		var parsedErr JsonError
		if errors.As(err, &parsedErr) {
			return types.TxHandle{}, fmt.Errorf("%s rejected by node (code %d): %w", method, parsedErr.ErrorCode(), err)
		}
		return types.TxHandle{}, fmt.Errorf("%s rejected: %w", method, err)
	}

	logger.Info(fmt.Sprintf("Successfully broadcast %s.  Tx hash: %s", method, tx.Hash().Hex()))

	return types.TxHandle{
		ChainID: ch.chainID,
		Hash:    tx.Hash(),
		From:    ch.signerAddress,
	}, nil
}
