package ethereum

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestChainConfigRateLimits(t *testing.T) {
	for _, tc := range []struct {
		name          string
		rps           float64
		burst         int
		expectedLimit rate.Limit
		expectedBurst int
	}{
		{"defaults", 0, 0, defaultRequestsPerSecond, defaultRequestsPerSecond},
		{"burst follows rate", 25, 0, 25, 25},
		{"explicit burst", 25, 50, 25, 50},
		{"fractional rate", 0.5, 0, 0.5, 1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &ChainConfig{RPC: "http://localhost:8545", RequestsPerSecond: tc.rps, RequestBurst: tc.burst}
			chain, err := cfg.Chain("gnosis")
			require.NoError(t, err)
			require.Equal(t, tc.expectedLimit, chain.limiter.Limit())
			require.Equal(t, tc.expectedBurst, chain.limiter.Burst())
		})
	}
}

func TestChainConfigExpandsRPC(t *testing.T) {
	t.Setenv("XDAI_RPC", "https://rpc.gnosischain.com")

	cfg := &ChainConfig{RPC: "${XDAI_RPC}"}
	chain, err := cfg.Chain("gnosis")
	require.NoError(t, err)
	require.Equal(t, "https://rpc.gnosischain.com", chain.rpcURL)
}
