package types

import "math/big"

// LimitsSnapshot holds the enforceable limits of a token pair, in the source
// token's smallest unit.
type LimitsSnapshot struct {
	MinPerTx       *big.Int `json:"minPerTx"`
	MaxPerTx       *big.Int `json:"maxPerTx"`
	RemainingLimit *big.Int `json:"remainingLimit"`
	DailyLimit     *big.Int `json:"dailyLimit"`
}

// ZeroLimits blocks all transfers.
func ZeroLimits() LimitsSnapshot {
	return LimitsSnapshot{
		MinPerTx:       new(big.Int),
		MaxPerTx:       new(big.Int),
		RemainingLimit: new(big.Int),
		DailyLimit:     new(big.Int),
	}
}

// IsZero reports whether every limit is zero.
func (l LimitsSnapshot) IsZero() bool {
	for _, v := range []*big.Int{l.MinPerTx, l.MaxPerTx, l.RemainingLimit, l.DailyLimit} {
		if v != nil && v.Sign() != 0 {
			return false
		}
	}
	return true
}

// Allows reports whether amount can be transferred under these limits.
func (l LimitsSnapshot) Allows(amount *big.Int) bool {
	if amount == nil || amount.Sign() <= 0 || l.IsZero() {
		return false
	}
	return amount.Cmp(l.MinPerTx) >= 0 &&
		amount.Cmp(l.MaxPerTx) <= 0 &&
		amount.Cmp(l.RemainingLimit) <= 0
}
