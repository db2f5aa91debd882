package utils

import (
	"math/big"
	"strings"
)

// Uint256Bits is the width of every amount and id passed to a contract.
const Uint256Bits = 256

// FitsUint256 reports whether v is non-negative and encodes as a uint256
// without wrapping.
func FitsUint256(v *big.Int) bool {
	return v != nil && v.Sign() >= 0 && v.BitLen() <= Uint256Bits
}

// Pow10 returns 10^decimals.
func Pow10(decimals uint8) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
}

// MulDivDown returns floor(a * b / 10^decimals). Inputs are never negative.
func MulDivDown(a, b *big.Int, decimals uint8) *big.Int {
	product := new(big.Int).Mul(a, b)
	return product.Quo(product, Pow10(decimals))
}

// FormatUnits renders an integer amount in the smallest unit as a decimal
// string with the given number of decimals, trimming trailing zeros.
func FormatUnits(amount *big.Int, decimals uint8) string {
	if amount == nil {
		return "0"
	}
	neg := amount.Sign() < 0
	abs := new(big.Int).Abs(amount)

	quo, rem := new(big.Int).QuoRem(abs, Pow10(decimals), new(big.Int))
	out := quo.String()
	if rem.Sign() != 0 {
		frac := rem.String()
		frac = strings.Repeat("0", int(decimals)-len(frac)) + frac
		out += "." + strings.TrimRight(frac, "0")
	}
	if neg {
		out = "-" + out
	}
	return out
}
