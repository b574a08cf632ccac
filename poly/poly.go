// Package poly implements the fixed-degree polynomial block shared by
// every table family: coefficient storage in rising-degree order, a
// Horner evaluator, and the analytic formal derivative.
package poly

import "golang.org/x/exp/constraints"

// Float is the scalar type a table is built over. Keeping it generic
// lets float32 and float64 tables coexist, per the working-type
// parameter of the original implementation.
type Float interface {
	constraints.Float
}

// MaxCoefs bounds the number of coefficients any supported family needs
// (the high-degree interpolation family tops out at 8). A Block stores
// its coefficients inline in an array of this capacity so that
// evaluation never allocates, and carries its own logical length in N.
const MaxCoefs = 8

// Block is a single subinterval's polynomial, p(u) = C[0] + u*(C[1] +
// u*(C[2] + ... + u*C[N-1])), coefficients in rising-degree order.
//
// Padé blocks reuse the same storage: C[0..M] hold P's coefficients and
// C[M+1..M+N] hold Q's coefficients (Q's implicit leading 1 is never
// stored); Eval/Diff are not meaningful for a Padé block and its
// evaluator lives in package lut instead.
type Block[T Float] struct {
	N int
	C [MaxCoefs]T
}

// NewBlock returns a Block with the first len(coefs) entries set from
// coefs, in rising-degree order.
func NewBlock[T Float](coefs ...T) Block[T] {
	var b Block[T]
	b.N = len(coefs)
	copy(b.C[:b.N], coefs)
	return b
}

// Eval evaluates the polynomial at local via Horner's method, high
// index to low.
func (b *Block[T]) Eval(local T) T {
	if b.N == 0 {
		return 0
	}
	sum := b.C[b.N-1]
	for k := b.N - 2; k >= 0; k-- {
		sum = b.C[k] + sum*local
	}
	return sum
}

// perm is the falling factorial k*(k-1)*...*(k-s+1), used to
// differentiate a monomial u^k analytically s times.
func perm(k, s int) int {
	p := 1
	for i := 0; i < s; i++ {
		p *= k - i
	}
	return p
}

// Diff evaluates the s-th formal derivative of the polynomial at local.
// s=0 is equivalent to Eval.
func (b *Block[T]) Diff(s int, local T) T {
	var sum T
	for k := b.N; k > s; k-- {
		sum = b.C[k-1]*T(perm(k-1, s)) + sum*local
	}
	return sum
}
