// Package bignum supplies the higher-precision arithmetic the generator
// needs when estimating a table's error: working in the table's own
// scalar type would let the subtraction f(x)-LUT(x) cancel away exactly
// the digits the estimate cares about. This mirrors how
// utils/bignum.Float in the teacher repository backs its minimax/Remez
// machinery with math/big and github.com/ALTree/bigfloat rather than
// plain float64.
package bignum

import (
	"math/big"

	"github.com/ALTree/bigfloat"
)

// Prec is the working precision, in bits, used for error estimation.
// float64 carries 53 bits of mantissa; this gives comfortable headroom
// against cancellation without the cost of arbitrary-precision
// transcendental evaluation everywhere.
const Prec = 128

// NewFloat lifts a float64 into a Prec-bit big.Float.
func NewFloat(x float64) *big.Float {
	return new(big.Float).SetPrec(Prec).SetFloat64(x)
}

// RelativeError computes the spec's error functor,
// -2*|f-lut| / (|f|+|lut|), at Prec bits of precision and returns the
// result rounded back to float64. The factor of 2 and the leading minus
// sign match the original's convention that the functor is always
// nonpositive, so a scalar minimizer finds the point of maximum
// relative disagreement.
func RelativeError(f, lut float64) float64 {
	bf := NewFloat(f)
	bl := NewFloat(lut)

	diff := new(big.Float).SetPrec(Prec).Sub(bf, bl)
	diff.Abs(diff)

	denom := new(big.Float).SetPrec(Prec).Add(new(big.Float).Abs(bf), new(big.Float).Abs(bl))
	if denom.Sign() == 0 {
		return 0
	}

	ratio := new(big.Float).SetPrec(Prec).Quo(diff, denom)
	ratio.Mul(ratio, big.NewFloat(-2))

	out, _ := ratio.Float64()
	return out
}

// Exp returns e^x at Prec bits, used by tests that need a reference
// value more accurate than the float64 table under test.
func Exp(x *big.Float) *big.Float {
	return bigfloat.Exp(x)
}

// Pow returns x^y at Prec bits.
func Pow(x, y *big.Float) *big.Float {
	return bigfloat.Pow(x, y)
}
