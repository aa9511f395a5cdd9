package types

import (
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"
)

// Override pins the counterpart of a token, bypassing on-chain discovery.
type Override struct {
	ChainID     uint64         `yaml:"chain-id"`
	Address     common.Address `yaml:"address"`
	Mediator    common.Address `yaml:"mediator"`
	Mode        Mode           `yaml:"mode"`
	Counterpart Token          `yaml:"counterpart"`
}

type overrideKey struct {
	chainID uint64
	address common.Address
}

// OverrideRegistry holds the per-direction override tables. It is read-only
// once constructed.
type OverrideRegistry struct {
	tables map[string]map[overrideKey]Override
}

// NewOverrideRegistry indexes overrides by direction id. A nil map yields an
// empty registry.
func NewOverrideRegistry(entries map[string][]Override) (*OverrideRegistry, error) {
	r := &OverrideRegistry{tables: make(map[string]map[overrideKey]Override, len(entries))}
	for direction, list := range entries {
		table := make(map[overrideKey]Override, len(list))
		for _, o := range list {
			if o.ChainID == 0 || o.Counterpart.ChainID == 0 {
				return nil, fmt.Errorf("override %s in %s: chain ids must be set", o.Address.Hex(), direction)
			}
			if o.ChainID == o.Counterpart.ChainID {
				return nil, fmt.Errorf("override %s in %s: counterpart must live on the other chain", o.Address.Hex(), direction)
			}
			if o.Counterpart.Mode == 0 {
				return nil, fmt.Errorf("override %s in %s: counterpart mode must be set", o.Address.Hex(), direction)
			}
			if err := o.Counterpart.Validate(); err != nil {
				return nil, fmt.Errorf("override %s in %s: %w", o.Address.Hex(), direction, err)
			}
			key := overrideKey{chainID: o.ChainID, address: o.Address}
			if _, ok := table[key]; ok {
				return nil, fmt.Errorf("duplicate override for %s on chain %d in %s", o.Address.Hex(), o.ChainID, direction)
			}
			table[key] = o
		}
		r.tables[direction] = table
	}
	return r, nil
}

// ParseOverrides reads an override file keyed by direction id.
func ParseOverrides(file string) (*OverrideRegistry, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read overrides file %w", err)
	}
	var entries map[string][]Override
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("error unmarshalling overrides: %w", err)
	}
	return NewOverrideRegistry(entries)
}

// Lookup returns the override for a token, if any.
func (r *OverrideRegistry) Lookup(direction string, chainID uint64, address common.Address) (Override, bool) {
	if r == nil {
		return Override{}, false
	}
	o, ok := r.tables[direction][overrideKey{chainID: chainID, address: address}]
	return o, ok
}

// IsOverridden reports whether a token has a pinned counterpart.
func (r *OverrideRegistry) IsOverridden(direction string, chainID uint64, address common.Address) bool {
	_, ok := r.Lookup(direction, chainID, address)
	return ok
}

// Len returns the number of overrides of a direction.
func (r *OverrideRegistry) Len(direction string) int {
	if r == nil {
		return 0
	}
	return len(r.tables[direction])
}
