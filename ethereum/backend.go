package ethereum

import (
	"context"

	"cosmossdk.io/log"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

// ContractBackendWrapper logs every raw transaction before sending it.
type ContractBackendWrapper struct {
	*ethclient.Client
	logger log.Logger
}

func NewContractBackendWrapper(client *ethclient.Client, logger log.Logger) *ContractBackendWrapper {
	return &ContractBackendWrapper{
		Client: client,
		logger: logger,
	}
}

func (c *ContractBackendWrapper) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	json, err := tx.MarshalJSON()
	if err != nil {
		return err
	}
	c.logger.Debug("SendTransaction", "hash", tx.Hash().Hex(), "nonce", tx.Nonce(), "raw", string(json))
	return c.Client.SendTransaction(ctx, tx)
}
