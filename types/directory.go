package types

import (
	"errors"
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/common"
)

// BridgeDirectionConfig describes one pair of chains connected by AMB
// mediators. Which side is home is a configuration choice.
type BridgeDirectionConfig struct {
	Label          string `yaml:"label" json:"label"`
	HomeChainID    uint64 `yaml:"home-chain-id" json:"homeChainId"`
	ForeignChainID uint64 `yaml:"foreign-chain-id" json:"foreignChainId"`

	HomeMediatorAddress    common.Address `yaml:"home-mediator" json:"homeMediatorAddress"`
	ForeignMediatorAddress common.Address `yaml:"foreign-mediator" json:"foreignMediatorAddress"`

	// wrapped foreign-chain native currency living on the home chain
	HomeWrappedForeignCurrencyAddress *common.Address `yaml:"home-wrapped-foreign-currency,omitempty" json:"homeWrappedForeignCurrencyAddress,omitempty"`
	// wrapped native currency of the foreign chain (e.g. WETH)
	WrappedForeignCurrencyAddress *common.Address `yaml:"wrapped-foreign-currency,omitempty" json:"wrappedForeignCurrencyAddress,omitempty"`

	EnableForeignCurrencyBridge bool `yaml:"enable-foreign-currency-bridge" json:"enableForeignCurrencyBridge"`

	FeeManagerAddress *common.Address `yaml:"fee-manager,omitempty" json:"feeManagerAddress,omitempty"`
	HomeAmbAddress    *common.Address `yaml:"home-amb,omitempty" json:"homeAmbAddress,omitempty"`
	ForeignAmbAddress *common.Address `yaml:"foreign-amb,omitempty" json:"foreignAmbAddress,omitempty"`
}

// Contains reports whether chainID is either side of the direction.
func (d BridgeDirectionConfig) Contains(chainID uint64) bool {
	return chainID == d.HomeChainID || chainID == d.ForeignChainID
}

func (d BridgeDirectionConfig) IsHome(chainID uint64) bool {
	return chainID == d.HomeChainID
}

// MediatorFor returns the shared mediator of chainID, ignoring overrides.
func (d BridgeDirectionConfig) MediatorFor(chainID uint64) common.Address {
	if d.IsHome(chainID) {
		return d.HomeMediatorAddress
	}
	return d.ForeignMediatorAddress
}

// BridgeChainID returns the chain on the other side of chainID.
func (d BridgeDirectionConfig) BridgeChainID(chainID uint64) uint64 {
	if d.IsHome(chainID) {
		return d.ForeignChainID
	}
	return d.HomeChainID
}

// WrappedCurrencyOn returns the wrapped foreign currency living on chainID,
// or nil if none is configured.
func (d BridgeDirectionConfig) WrappedCurrencyOn(chainID uint64) *common.Address {
	if d.IsHome(chainID) {
		return d.HomeWrappedForeignCurrencyAddress
	}
	return d.WrappedForeignCurrencyAddress
}

// NativeCurrency describes a chain's base currency.
type NativeCurrency struct {
	Name     string `yaml:"name" json:"name"`
	Symbol   string `yaml:"symbol" json:"symbol"`
	Decimals uint8  `yaml:"decimals" json:"decimals"`
}

// Network is the static description of one chain.
type Network struct {
	ChainID        uint64          `yaml:"chain-id" json:"chainId"`
	Name           string          `yaml:"name" json:"name"`
	Label          string          `yaml:"label" json:"label"`
	HelperContract *common.Address `yaml:"helper-contract,omitempty" json:"helperContract,omitempty"`
	NativeCurrency NativeCurrency  `yaml:"native-currency" json:"nativeCurrency"`
}

// Directory maps bridge direction ids to their configuration. It is
// read-only once constructed.
type Directory struct {
	directions map[string]BridgeDirectionConfig
	networks   map[uint64]Network
}

// NewDirectory validates and indexes the given directions and networks.
func NewDirectory(directions map[string]BridgeDirectionConfig, networks []Network) (*Directory, error) {
	d := &Directory{
		directions: make(map[string]BridgeDirectionConfig, len(directions)),
		networks:   make(map[uint64]Network, len(networks)),
	}
	for _, n := range networks {
		if n.ChainID == 0 {
			return nil, fmt.Errorf("network %q has no chain id", n.Name)
		}
		if _, ok := d.networks[n.ChainID]; ok {
			return nil, fmt.Errorf("duplicate network for chain %d", n.ChainID)
		}
		d.networks[n.ChainID] = n
	}

	var errs error
	for id, cfg := range directions {
		if err := d.validateDirection(id, cfg); err != nil {
			errs = errors.Join(errs, err)
			continue
		}
		d.directions[id] = cfg
	}
	if errs != nil {
		return nil, errs
	}
	return d, nil
}

func (d *Directory) validateDirection(id string, cfg BridgeDirectionConfig) error {
	if id == "" {
		return fmt.Errorf("bridge direction id must be set")
	}
	if cfg.HomeChainID == cfg.ForeignChainID {
		return fmt.Errorf("direction %s: home and foreign chain ids must differ (both %d)", id, cfg.HomeChainID)
	}
	for _, chainID := range []uint64{cfg.HomeChainID, cfg.ForeignChainID} {
		if _, ok := d.networks[chainID]; !ok {
			return fmt.Errorf("direction %s: %w %d", id, ErrUnknownChain, chainID)
		}
	}
	if cfg.HomeMediatorAddress == ZeroAddress || cfg.ForeignMediatorAddress == ZeroAddress {
		return fmt.Errorf("direction %s: home and foreign mediator addresses must be set", id)
	}
	return nil
}

// Direction looks up a bridge direction.
func (d *Directory) Direction(id string) (BridgeDirectionConfig, error) {
	cfg, ok := d.directions[id]
	if !ok {
		return BridgeDirectionConfig{}, fmt.Errorf("%w: %s", ErrUnknownDirection, id)
	}
	return cfg, nil
}

// Directions returns the sorted direction ids.
func (d *Directory) Directions() []string {
	ids := make([]string, 0, len(d.directions))
	for id := range d.directions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (d *Directory) Network(chainID uint64) (Network, bool) {
	n, ok := d.networks[chainID]
	return n, ok
}

func (d *Directory) NetworkName(chainID uint64) string {
	if n, ok := d.networks[chainID]; ok && n.Name != "" {
		return n.Name
	}
	return "Unknown Network"
}

func (d *Directory) NetworkLabel(chainID uint64) string {
	if n, ok := d.networks[chainID]; ok && n.Label != "" {
		return n.Label
	}
	return "Unknown"
}

// HelperContract returns the native currency helper of chainID.
func (d *Directory) HelperContract(chainID uint64) (common.Address, bool) {
	n, ok := d.networks[chainID]
	if !ok || n.HelperContract == nil || *n.HelperContract == ZeroAddress {
		return common.Address{}, false
	}
	return *n.HelperContract, true
}

// NativeToken returns the native currency of chainID as a token.
func (d *Directory) NativeToken(chainID uint64) (Token, bool) {
	n, ok := d.networks[chainID]
	if !ok {
		return Token{}, false
	}
	t := Token{
		ChainID:  chainID,
		Address:  ZeroAddress,
		Mode:     ModeNative,
		Decimals: n.NativeCurrency.Decimals,
		Name:     n.NativeCurrency.Name,
		Symbol:   n.NativeCurrency.Symbol,
	}
	if helper, ok := d.HelperContract(chainID); ok {
		t.HelperContractAddress = &helper
	}
	return t, true
}
