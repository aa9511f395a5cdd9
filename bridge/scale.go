package bridge

import "math/big"

// Rescale converts amount between two decimal precisions. Scaling down
// truncates toward zero.
func Rescale(amount *big.Int, fromDecimals, toDecimals uint8) *big.Int {
	if amount == nil {
		return new(big.Int)
	}
	switch {
	case toDecimals > fromDecimals:
		return new(big.Int).Mul(amount, pow10(toDecimals-fromDecimals))
	case toDecimals < fromDecimals:
		return new(big.Int).Quo(amount, pow10(fromDecimals-toDecimals))
	default:
		return new(big.Int).Set(amount)
	}
}

func pow10(n uint8) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}
