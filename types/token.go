package types

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// ZeroAddress denotes a chain's native currency.
var ZeroAddress = common.Address{}

// Mode is how a token takes part in the bridge.
type Mode uint8

const (
	ModeNative Mode = iota + 1
	ModeErc677
	ModeErc20
	ModeDedicatedErc20
)

// Modes lists every declared mode.
var Modes = []Mode{ModeNative, ModeErc677, ModeErc20, ModeDedicatedErc20}

func (m Mode) String() string {
	switch m {
	case ModeNative:
		return "NATIVE"
	case ModeErc677:
		return "erc677"
	case ModeErc20:
		return "erc20"
	case ModeDedicatedErc20:
		return "dedicated-erc20"
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

func ParseMode(s string) (Mode, error) {
	for _, m := range Modes {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown token mode %q", s)
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Token is a token on one side of a bridge direction. It is recomputed on
// every resolution.
type Token struct {
	ChainID  uint64         `json:"chainId" yaml:"chain-id"`
	Address  common.Address `json:"address" yaml:"address"`
	Mode     Mode           `json:"mode" yaml:"mode"`
	Decimals uint8          `json:"decimals" yaml:"decimals"`
	Mediator common.Address `json:"mediator" yaml:"mediator"`
	Name     string         `json:"name,omitempty" yaml:"name,omitempty"`
	Symbol   string         `json:"symbol,omitempty" yaml:"symbol,omitempty"`

	// HelperContractAddress wraps native currency before relaying.
	HelperContractAddress *common.Address `json:"helperContractAddress,omitempty" yaml:"helper-contract,omitempty"`
}

// IsNative reports whether the token is the chain's native currency.
func (t Token) IsNative() bool {
	return t.Mode == ModeNative
}

// Validate checks that native tokens carry the zero address.
func (t Token) Validate() error {
	if t.ChainID == 0 {
		return fmt.Errorf("%w: chain id must be set", ErrInvalidToken)
	}
	if t.Mode == ModeNative && t.Address != ZeroAddress {
		return fmt.Errorf("%w: native token on chain %d must use the zero address, got %s", ErrInvalidToken, t.ChainID, t.Address.Hex())
	}
	return nil
}

// TokenPair is a resolved source/destination pair.
type TokenPair struct {
	From Token `json:"from"`
	To   Token `json:"to"`
}
