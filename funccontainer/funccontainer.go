// Package funccontainer implements the function-container contract from
// the external-interfaces section of the design: a target function f
// plus, on demand, its forward-derivatives up to whatever order a table
// family needs to build its coefficients.
package funccontainer

import (
	"fmt"

	"github.com/shawn-mcadam/func/lutdomain"
	"github.com/shawn-mcadam/func/poly"
)

// Container bundles a scalar function with zero or more derivative
// providers. Table family constructors call DerivativesUpTo for the
// maximum order they require; a Container borrowed for construction is
// never retained afterwards.
type Container[T poly.Float] struct {
	F func(T) T

	derivs map[int]func(T) []T
}

// New wraps f. Use WithDerivatives to add a derivative provider before
// passing the container to a family constructor that needs one.
func New[T poly.Float](f func(T) T) *Container[T] {
	if f == nil {
		panic("funccontainer: nil function")
	}
	return &Container[T]{F: f}
}

// WithDerivatives registers a provider for derivatives 0..k: calling
// deriv(x) must return a slice of length k+1 whose i-th entry is
// f^(i)(x). Families declare the maximum k they need; if no provider
// covers that order, DerivativesUpTo fails with an argument error.
func (c *Container[T]) WithDerivatives(k int, deriv func(T) []T) *Container[T] {
	if c.derivs == nil {
		c.derivs = make(map[int]func(T) []T)
	}
	c.derivs[k] = deriv
	return c
}

// DerivativesUpTo returns [f(x), f'(x), ..., f^(k)(x)]. It looks for an
// exact-order provider first, then any provider registered for a higher
// order (and truncates), since a provider for order k also supplies
// every derivative below k.
func (c *Container[T]) DerivativesUpTo(k int, x T) ([]T, error) {
	if d, ok := c.derivs[k]; ok {
		v := d(x)
		if len(v) < k+1 {
			return nil, fmt.Errorf("funccontainer: derivative provider for order %d returned %d values, want %d", k, len(v), k+1)
		}
		return v[:k+1], nil
	}
	best := -1
	for order := range c.derivs {
		if order >= k && (best == -1 || order < best) {
			best = order
		}
	}
	if best == -1 {
		if k == 0 {
			// No provider needed just to evaluate f itself.
			return []T{c.F(x)}, nil
		}
		return nil, fmt.Errorf("%w: funccontainer: no derivative provider registered for order >= %d", lutdomain.ErrInvalidArgument, k)
	}
	return c.derivs[best](x)[:k+1], nil
}

// FiniteDifference builds a derivative provider for orders 0..maxOrder
// using central finite differences with step h. This is the
// lowest-dependency default a caller can reach for when it has no
// autodiff backend available; families that need exact derivatives
// (e.g. Taylor tables built on an analytic f) should register a more
// accurate provider instead.
func FiniteDifference[T poly.Float](f func(T) T, maxOrder int, h T) func(T) []T {
	return func(x T) []T {
		out := make([]T, maxOrder+1)
		out[0] = f(x)
		for order := 1; order <= maxOrder; order++ {
			out[order] = nthCentralDifference(f, x, order, h)
		}
		return out
	}
}

// nthCentralDifference approximates f^(order)(x) via repeated central
// differencing of f on a stencil of step h.
func nthCentralDifference[T poly.Float](f func(T) T, x T, order int, h T) T {
	// f^(n)(x) ~= (1/h^n) * sum_{i=0}^{n} (-1)^i C(n,i) f(x + (n/2 - i)h)
	n := order
	var sum T
	for i := 0; i <= n; i++ {
		coef := T(binomial(n, i))
		offset := (T(n)/2 - T(i)) * h
		term := coef * f(x+offset)
		if i%2 == 1 {
			term = -term
		}
		sum += term
	}
	hn := T(1)
	for i := 0; i < n; i++ {
		hn *= h
	}
	return sum / hn
}

func binomial(n, k int) int {
	if k < 0 || k > n {
		return 0
	}
	r := 1
	for i := 0; i < k; i++ {
		r = r * (n - i) / (i + 1)
	}
	return r
}
