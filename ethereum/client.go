package ethereum

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"cosmossdk.io/log"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"

	"github.com/strangelove-ventures/omnibridge-engine/types"
)

var _ types.ChainClient = (*Client)(nil)

// Client dispatches contract calls to the chain they target.
type Client struct {
	logger log.Logger
	chains map[uint64]*Chain
}

func NewClient(logger log.Logger, chains ...*Chain) (*Client, error) {
	c := &Client{
		logger: logger.With("component", "chain-client"),
		chains: make(map[uint64]*Chain, len(chains)),
	}
	for _, ch := range chains {
		if existing, ok := c.chains[ch.chainID]; ok {
			return nil, fmt.Errorf("chains %s and %s share chain id %d", existing.name, ch.name, ch.chainID)
		}
		c.chains[ch.chainID] = ch
	}
	return c, nil
}

// InitializeClients dials every chain.
func (c *Client) InitializeClients(ctx context.Context) error {
	var errs error
	for _, id := range c.ChainIDs() {
		if err := c.chains[id].InitializeClients(ctx, c.logger); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	return errs
}

func (c *Client) Close() {
	for _, ch := range c.chains {
		_ = ch.CloseClients()
	}
}

// ChainIDs returns the sorted ids of the configured chains.
func (c *Client) ChainIDs() []uint64 {
	ids := make([]uint64, 0, len(c.chains))
	for id := range c.chains {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Chain returns the configured chain with the given id.
func (c *Client) Chain(chainID uint64) (*Chain, error) {
	ch, ok := c.chains[chainID]
	if !ok {
		return nil, fmt.Errorf("%w: %d", types.ErrUnknownChain, chainID)
	}
	if ch.rpcClient == nil {
		return nil, fmt.Errorf("rpc client of %s is not initialized", ch.name)
	}
	return ch, nil
}

func (c *Client) Call(
	ctx context.Context,
	chainID uint64,
	contract common.Address,
	contractABI *abi.ABI,
	method string,
	args ...any,
) ([]any, error) {
	ch, err := c.Chain(chainID)
	if err != nil {
		return nil, err
	}
	if err := ch.wait(ctx); err != nil {
		return nil, err
	}

	bound := bind.NewBoundContract(contract, *contractABI, ch.rpcClient, ch.rpcClient, ch.rpcClient)

	var out []any
	if err := bound.Call(&bind.CallOpts{Context: ctx}, &out, method, args...); err != nil {
		return nil, fmt.Errorf("call %s on %s (chain %d): %w", method, contract.Hex(), chainID, err)
	}

	c.logger.Debug("Contract call", "chain", ch.name, "contract", contract.Hex(), "method", method)
	return out, nil
}
