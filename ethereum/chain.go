package ethereum

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"sync"

	"cosmossdk.io/log"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"golang.org/x/time/rate"
)

// Chain is a single EVM chain reachable over JSON-RPC.
type Chain struct {
	// from config
	name          string
	chainID       uint64
	rpcURL        string
	privateKey    *ecdsa.PrivateKey
	signerAddress common.Address

	limiter *rate.Limiter

	// serializes transaction submission so nonces are not reused
	mu sync.Mutex

	rpcClient *ethclient.Client
}

func NewChain(
	name string,
	chainID uint64,
	rpcURL string,
	requestsPerSecond float64,
	requestBurst int,
	privateKey string,
) (*Chain, error) {
	c := &Chain{
		name:    name,
		chainID: chainID,
		rpcURL:  rpcURL,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), requestBurst),
	}
	// read-only chains carry no signer
	if privateKey != "" {
		privEcdsaKey, address, err := GetEcdsaKeyAddress(privateKey)
		if err != nil {
			return nil, fmt.Errorf("chain %s: %w", name, err)
		}
		c.privateKey = privEcdsaKey
		c.signerAddress = address
	}
	return c, nil
}

func (c *Chain) Name() string {
	return c.name
}

func (c *Chain) ChainID() uint64 {
	return c.chainID
}

// SignerAddress returns the connected account, or false for read-only chains.
func (c *Chain) SignerAddress() (common.Address, bool) {
	return c.signerAddress, c.privateKey != nil
}

func (c *Chain) InitializeClients(ctx context.Context, logger log.Logger) error {
	var err error

	c.rpcClient, err = ethclient.DialContext(ctx, c.rpcURL)
	if err != nil {
		return fmt.Errorf("unable to initialize rpc ethereum client; err: %w", err)
	}

	remoteChainID, err := c.rpcClient.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("unable to query chain id of %s: %w", c.name, err)
	}
	if remoteChainID.Uint64() != c.chainID {
		return fmt.Errorf("rpc of %s serves chain %d, expected %d", c.name, remoteChainID.Uint64(), c.chainID)
	}

	logger.Debug("Initialized rpc client", "chain", c.name, "chain_id", c.chainID)
	return nil
}

func (c *Chain) CloseClients() error {
	if c.rpcClient != nil {
		c.rpcClient.Close()
	}
	return nil
}

// wait blocks until the rate limiter admits another request.
func (c *Chain) wait(ctx context.Context) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait on %s: %w", c.name, err)
	}
	return nil
}
