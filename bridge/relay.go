package bridge

import (
	"context"
	"fmt"
	"math/big"

	"cosmossdk.io/log"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/strangelove-ventures/omnibridge-engine/relayer"
	"github.com/strangelove-ventures/omnibridge-engine/types"
)

// RelayContext carries the receiver-side preferences of a transfer.
type RelayContext struct {
	// ShouldReceiveNativeCurrency unwraps on the foreign chain through its
	// helper contract.
	ShouldReceiveNativeCurrency bool
	ForeignChainID              uint64
}

// Dispatcher issues the on-chain call that starts a transfer.
type Dispatcher struct {
	directory *types.Directory
	logger    log.Logger
	metrics   *relayer.PromMetrics
}

func NewDispatcher(directory *types.Directory, logger log.Logger, metrics *relayer.PromMetrics) *Dispatcher {
	return &Dispatcher{
		directory: directory,
		logger:    logger.With("component", "relay"),
		metrics:   metrics,
	}
}

// relayCall is the single transaction a relay submits.
type relayCall struct {
	contract    common.Address
	contractABI *abi.ABI
	method      string
	value       *big.Int
	args        []any
}

// Relay submits exactly one transaction moving amount of from to receiver
// on the other side. It is not retried.
func (d *Dispatcher) Relay(
	ctx context.Context,
	client types.ChainClient,
	from types.Token,
	receiver common.Address,
	amount *big.Int,
	relayCtx RelayContext,
	to types.Token,
) (types.TxHandle, error) {
	if amount == nil || amount.Sign() <= 0 {
		return types.TxHandle{}, fmt.Errorf("%w: amount must be positive", types.ErrRelayFailure)
	}

	call, err := d.buildCall(from, receiver, amount, relayCtx, to)
	if err != nil {
		return types.TxHandle{}, fmt.Errorf("%w: %w", types.ErrRelayFailure, err)
	}

	mode := from.Mode.String()
	d.logger.Info("Relaying tokens",
		"chain_id", from.ChainID, "mode", mode, "token", from.Address.Hex(),
		"contract", call.contract.Hex(), "method", call.method, "receiver", receiver.Hex(), "amount", amount.String())

	tx, err := client.SendTransaction(ctx, from.ChainID, call.contract, call.contractABI, call.method, call.value, call.args...)
	if err != nil {
		d.metrics.IncRelayErrors(from.ChainID, mode)
		d.logger.Error("Relay transaction failed", "chain_id", from.ChainID, "mode", mode, "err", err)
		return types.TxHandle{}, fmt.Errorf("%w: %w", types.ErrRelayFailure, err)
	}

	d.metrics.IncRelaySubmissions(from.ChainID, mode)
	d.logger.Info("Relay transaction submitted", "chain_id", from.ChainID, "tx", tx.Hash.Hex())
	return tx, nil
}

func (d *Dispatcher) buildCall(
	from types.Token,
	receiver common.Address,
	amount *big.Int,
	relayCtx RelayContext,
	to types.Token,
) (relayCall, error) {
	switch from.Mode {
	case types.ModeNative:
		helper, ok := d.helperFor(from)
		if !ok {
			return relayCall{}, fmt.Errorf("no helper contract for chain %d", from.ChainID)
		}
		return relayCall{
			contract:    helper,
			contractABI: nativeHelperABI,
			method:      methodWrapAndRelayTokens,
			value:       new(big.Int).Set(amount),
			args:        []any{receiver},
		}, nil

	case types.ModeErc677:
		if from.Mediator == types.ZeroAddress {
			return relayCall{}, fmt.Errorf("token %s has no mediator", from.Address.Hex())
		}
		data := receiver.Bytes()
		if relayCtx.ShouldReceiveNativeCurrency {
			if helper, ok := d.directory.HelperContract(relayCtx.ForeignChainID); ok {
				data = append(helper.Bytes(), receiver.Bytes()...)
			}
		}
		return relayCall{
			contract:    from.Address,
			contractABI: erc677ABI,
			method:      methodTransferAndCall,
			args:        []any{from.Mediator, amount, data},
		}, nil

	case types.ModeDedicatedErc20:
		if from.Mediator == types.ZeroAddress {
			return relayCall{}, fmt.Errorf("token %s has no mediator", from.Address.Hex())
		}
		return relayCall{
			contract:    from.Mediator,
			contractABI: dedicatedMediatorABI,
			method:      methodRelayTokens,
			args:        []any{receiver, amount},
		}, nil

	case types.ModeErc20:
		if from.Mediator == types.ZeroAddress {
			return relayCall{}, fmt.Errorf("token %s has no mediator", from.Address.Hex())
		}
		if to.IsNative() {
			helper, ok := d.directory.HelperContract(to.ChainID)
			if !ok {
				return relayCall{}, fmt.Errorf("no helper contract for chain %d", to.ChainID)
			}
			return relayCall{
				contract:    from.Mediator,
				contractABI: mediatorABI,
				method:      methodRelayTokensAndCall,
				args:        []any{from.Address, helper, amount, receiver.Bytes()},
			}, nil
		}
		return relayCall{
			contract:    from.Mediator,
			contractABI: mediatorABI,
			method:      methodRelayTokens,
			args:        []any{from.Address, receiver, amount},
		}, nil

	default:
		return relayCall{}, fmt.Errorf("unknown token mode %s", from.Mode)
	}
}

func (d *Dispatcher) helperFor(token types.Token) (common.Address, bool) {
	if token.HelperContractAddress != nil && *token.HelperContractAddress != types.ZeroAddress {
		return *token.HelperContractAddress, true
	}
	return d.directory.HelperContract(token.ChainID)
}
