package ethereum

import (
	"os"
	"strings"

	"github.com/strangelove-ventures/omnibridge-engine/types"
)

var _ types.ChainConfig = (*ChainConfig)(nil)

const defaultRequestsPerSecond = 10

type ChainConfig struct {
	Meta types.Network `yaml:",inline" json:"network"`

	RPC string `yaml:"rpc" json:"rpc"`

	// RequestsPerSecond throttles calls to the RPC endpoint. Zero uses the default.
	RequestsPerSecond float64 `yaml:"requests-per-second" json:"requestsPerSecond"`
	RequestBurst      int     `yaml:"request-burst" json:"requestBurst"`

	// TODO move to keyring
	SignerPrivateKey string `yaml:"signer-private-key" json:"-"`
}

func (c *ChainConfig) Network() types.Network {
	return c.Meta
}

// Chain builds the chain from its config. The signer key may be supplied via
// the <NAME>_PRIV_KEY environment variable, which takes precedence.
func (c *ChainConfig) Chain(name string) (*Chain, error) {
	envKey := strings.ToUpper(strings.ReplaceAll(name, "-", "_")) + "_PRIV_KEY"
	privKey := c.SignerPrivateKey
	if envPrivKey := os.Getenv(envKey); envPrivKey != "" {
		privKey = envPrivKey
	}

	rps := c.RequestsPerSecond
	if rps <= 0 {
		rps = defaultRequestsPerSecond
	}
	burst := c.RequestBurst
	if burst <= 0 {
		burst = max(int(rps), 1)
	}

	return NewChain(
		name,
		c.Meta.ChainID,
		os.ExpandEnv(c.RPC),
		rps,
		burst,
		privKey,
	)
}
