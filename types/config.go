package types

import (
	"time"
)

type Config struct {
	Chains           map[string]ChainConfig           `yaml:"chains"`
	Directions       map[string]BridgeDirectionConfig `yaml:"directions"`
	DefaultDirection string                           `yaml:"default-direction"`
	OverridesFile    string                           `yaml:"overrides-file"`
	ReadTimeout      time.Duration                    `yaml:"read-timeout"`
	RelayTimeout     time.Duration                    `yaml:"relay-timeout"`
	Api              ApiSettings                      `yaml:"api"`
}

type ConfigWrapper struct {
	Chains           map[string]map[string]any        `yaml:"chains"`
	Directions       map[string]BridgeDirectionConfig `yaml:"directions"`
	DefaultDirection string                           `yaml:"default-direction"`
	OverridesFile    string                           `yaml:"overrides-file"`
	ReadTimeout      time.Duration                    `yaml:"read-timeout"`
	RelayTimeout     time.Duration                    `yaml:"relay-timeout"`
	Api              ApiSettings                      `yaml:"api"`
}

type ApiSettings struct {
	ListenAddress  string   `yaml:"listen-address"`
	TrustedProxies []string `yaml:"trusted-proxies"`
}

// ChainConfig is implemented by every chain section of the config file.
type ChainConfig interface {
	// Network returns the static description of the chain.
	Network() Network
}

// Networks collects the static descriptions of every configured chain.
func (c *Config) Networks() []Network {
	networks := make([]Network, 0, len(c.Chains))
	for _, cc := range c.Chains {
		networks = append(networks, cc.Network())
	}
	return networks
}
