package testutil

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/strangelove-ventures/omnibridge-engine/types"
)

var _ types.ChainClient = (*MockChainClient)(nil)

// Call is a recorded read or transaction.
type Call struct {
	ChainID  uint64
	Contract common.Address
	Method   string
	Value    *big.Int
	Args     []any
}

type callKey struct {
	chainID  uint64
	contract common.Address
	method   string
}

type scripted struct {
	out []any
	err error
}

// MockChainClient answers contract reads from a script and records every
// call it receives. Unscripted reads fail.
type MockChainClient struct {
	mu      sync.Mutex
	script  map[callKey]scripted
	calls   []Call
	txs     []Call
	sendErr error
	from    common.Address
}

func NewMockChainClient() *MockChainClient {
	return &MockChainClient{
		script: make(map[callKey]scripted),
		from:   common.HexToAddress("0x00000000000000000000000000000000000000f0"),
	}
}

// OnCall scripts the outputs of method on contract.
func (m *MockChainClient) OnCall(chainID uint64, contract common.Address, method string, out ...any) *MockChainClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script[callKey{chainID, contract, method}] = scripted{out: out}
	return m
}

// FailCall makes method on contract return err.
func (m *MockChainClient) FailCall(chainID uint64, contract common.Address, method string, err error) *MockChainClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script[callKey{chainID, contract, method}] = scripted{err: err}
	return m
}

// FailSend makes every SendTransaction return err.
func (m *MockChainClient) FailSend(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sendErr = err
}

func (m *MockChainClient) Call(
	_ context.Context,
	chainID uint64,
	contract common.Address,
	contractABI *abi.ABI,
	method string,
	args ...any,
) ([]any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, Call{ChainID: chainID, Contract: contract, Method: method, Args: args})

	if _, err := contractABI.Pack(method, args...); err != nil {
		return nil, err
	}
	s, ok := m.script[callKey{chainID, contract, method}]
	if !ok {
		return nil, fmt.Errorf("unexpected call %s on %s (chain %d)", method, contract.Hex(), chainID)
	}
	return s.out, s.err
}

// SendTransaction packs the call to check its arguments against the abi and
// records it.
func (m *MockChainClient) SendTransaction(
	_ context.Context,
	chainID uint64,
	contract common.Address,
	contractABI *abi.ABI,
	method string,
	value *big.Int,
	args ...any,
) (types.TxHandle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := contractABI.Pack(method, args...); err != nil {
		return types.TxHandle{}, err
	}

	m.txs = append(m.txs, Call{ChainID: chainID, Contract: contract, Method: method, Value: value, Args: args})
	if m.sendErr != nil {
		return types.TxHandle{}, m.sendErr
	}
	return types.TxHandle{
		ChainID: chainID,
		Hash:    crypto.Keccak256Hash([]byte(fmt.Sprintf("%d/%d", chainID, len(m.txs)))),
		From:    m.from,
	}, nil
}

// Calls returns the recorded reads.
func (m *MockChainClient) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}

// CallCount returns how many reads of method were made.
func (m *MockChainClient) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

// CallsTo returns how many reads hit contract.
func (m *MockChainClient) CallsTo(contract common.Address) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c.Contract == contract {
			n++
		}
	}
	return n
}

// Transactions returns the recorded transactions.
func (m *MockChainClient) Transactions() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.txs...)
}
