package lut

import (
	"fmt"
	"math"
	"sync"

	"github.com/shawn-mcadam/func/funccontainer"
	"github.com/shawn-mcadam/func/internal/linalg"
	"github.com/shawn-mcadam/func/poly"
)

// NewPade builds a piecewise Padé table: each subinterval holds a
// degree-M/degree-N rational function matching f's Taylor series about
// the subinterval's left endpoint to order M+N. Grounded on
// src/table_types/UniformPadeTable.cpp.
//
// The pole guard that rejects a Padé block whose denominator has a root
// inside the subinterval, falling back to the plain degree-M Taylor
// polynomial, is implemented for N=1 (directly) and N=2 (the natural
// quadratic-formula extension spec.md §9 calls for). The original
// implementation leaves its N=3 guard commented out, and func preserves
// that gap for N>=3 rather than inventing an untested one (see
// DESIGN.md).
func NewPade[T poly.Float](fc *funccontainer.Container[T], p Parameters[T], m, n int) (*Table[T], error) {
	if n < 1 {
		return nil, errInvalid("Padé denominator degree N must be >= 1, got %d", n)
	}
	if m < 0 {
		return nil, errInvalid("Padé numerator degree M must be >= 0, got %d", m)
	}
	if m+1+n > poly.MaxCoefs {
		return nil, errInvalid("Padé(%d,%d) needs %d coefficient slots, only %d available", m, n, m+1+n, poly.MaxCoefs)
	}

	t, err := NewTable[T](fmt.Sprintf("Pade%dx%d", m, n), p, m+1, nil, Full)
	if err != nil {
		return nil, err
	}
	t.padeN = n
	t.dataSize = t.numTableEntries * (t.order + n) * int(sizeofScalar[T]())
	t.Blocks = make([]poly.Block[T], t.numTableEntries)
	t.padeFallback = make([]bool, t.numTableEntries)

	errs := make([]error, t.numTableEntries)
	var wg sync.WaitGroup
	sem := make(chan struct{}, BuildParallelism)
	for i := 0; i < t.numTableEntries; i++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			x0 := t.minArg + T(i)*t.stepSize
			if i == t.numIntervals {
				// Guard entry: spec.md §3 requires its nonconstant
				// coefficients to be zero, so it is stored as a plain
				// Block[f(x0),0,...,0] (Q implicitly [1,0,...,0]) and
				// marked as a fallback rather than fit as a genuine
				// rational function over a nonexistent trailing interval.
				block, err := guardBlock(fc, x0, m+1+n)
				if err != nil {
					errs[i] = fmt.Errorf("guard entry: %w", err)
					return
				}
				t.Blocks[i] = block
				t.padeFallback[i] = true
				return
			}
			block, fallback, err := buildPadeBlock(fc, x0, t.stepSize, m, n)
			if err != nil {
				errs[i] = fmt.Errorf("subinterval %d: %w", i, err)
				return
			}
			t.Blocks[i] = block
			t.padeFallback[i] = fallback
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return t, nil
}

// buildPadeBlock computes the Taylor coefficients of f about x0 to
// order M+N, solves the Toeplitz nullspace system for the denominator
// Q, normalizes Q so its constant term is 1, derives the numerator P by
// convolution, and applies the pole guard.
func buildPadeBlock[T poly.Float](fc *funccontainer.Container[T], x0, h T, m, n int) (poly.Block[T], bool, error) {
	derivs, err := fc.DerivativesUpTo(m+n, x0)
	if err != nil {
		return poly.Block[T]{}, false, err
	}
	a := make([]float64, m+n+1)
	fact := 1.0
	for k := 0; k <= m+n; k++ {
		if k > 0 {
			fact *= float64(k)
		}
		a[k] = float64(derivs[k]) / fact
	}

	// taylorFallback is spec.md §4.4 step 5's pole-guard rejection: Q
	// becomes [1,0,...,0] and P becomes the degree-M Taylor polynomial
	// t_{0..M}, stored in the same [p0..pM, q1..qN] layout the accepted
	// case uses (q1..qN explicitly zero) so that both a direct Horner
	// eval (the trailing zero terms vanish) and evalPade's P/Q division
	// (Q=1 identically) agree, and so spec.md §8's detection rule — "the
	// last N coefficients are zero" — holds on the stored block.
	taylorFallback := func() poly.Block[T] {
		coefs := make([]T, m+1+n)
		for i := 0; i <= m; i++ {
			coefs[i] = T(a[i])
		}
		return poly.NewBlock(coefs...)
	}

	toeplitz := linalg.NewMatrix(n, n+1)
	for r := 0; r < n; r++ {
		k := m + 1 + r
		for j := 0; j <= n; j++ {
			idx := k - j
			if idx >= 0 && idx < len(a) {
				toeplitz[r][j] = a[idx]
			}
		}
	}

	q, err := linalg.Nullspace(toeplitz)
	if err != nil || len(q) != n+1 || q[0] == 0 {
		return taylorFallback(), true, nil
	}
	q0 := q[0]
	for i := range q {
		q[i] /= q0
	}

	p := make([]float64, m+1)
	for i := 0; i <= m; i++ {
		sum := 0.0
		for j := 0; j <= n && j <= i; j++ {
			sum += q[j] * a[i-j]
		}
		p[i] = sum
	}

	if poleInInterval(q[1:], float64(h)) {
		return taylorFallback(), true, nil
	}

	coefs := make([]T, m+1+n)
	for i, v := range p {
		coefs[i] = T(v)
	}
	for j := 1; j <= n; j++ {
		coefs[m+j] = T(q[j])
	}
	return poly.NewBlock(coefs...), false, nil
}

// poleInInterval reports whether Q(u)=1+q[0]*u+q[1]*u^2+...+q[len(q)-1]*u^len(q)
// has a real root in (0,h). len(q)==1 is the N=1 pole guard from
// UniformPadeTable.cpp's switch(N){case 1: ...}; len(q)==2 is spec.md
// §9's "natural extension" of that guard to N=2 via the quadratic
// formula, needed by scenarios like UniformPade(2,2) on tan(x) near its
// pole. N>=3 has no guard, matching the original's commented-out
// switch(N){case 3: ...} branches and spec.md §9's "preserve the
// present partial behavior and document it" option (see DESIGN.md):
// a higher-order Padé block with a pole inside its subinterval is
// returned ungated rather than silently gaining an untested guard.
func poleInInterval(q []float64, h float64) bool {
	switch len(q) {
	case 1:
		q1 := q[0]
		if q1 == 0 {
			return false
		}
		root := -1 / q1
		return root > 0 && root < h
	case 2:
		q1, q2 := q[0], q[1]
		if q2 == 0 {
			return poleInInterval(q[:1], h)
		}
		disc := q1*q1 - 4*q2
		if disc < 0 {
			return false
		}
		sqrtDisc := math.Sqrt(disc)
		r1 := (-q1 - sqrtDisc) / (2 * q2)
		r2 := (-q1 + sqrtDisc) / (2 * q2)
		return (r1 > 0 && r1 < h) || (r2 > 0 && r2 < h)
	default:
		return false
	}
}

// evalPade evaluates the rational function stored at Blocks[idx] at the
// local coordinate local, assuming the pole guard did not mark this
// subinterval as a Taylor fallback.
func (t *Table[T]) evalPade(idx int, local T) T {
	block := t.Blocks[idx]
	m := t.order - 1
	n := t.padeN

	pNum := poly.NewBlock(block.C[:m+1]...)
	p := pNum.Eval(local)

	q := T(1)
	if n > 0 {
		qCoefs := make([]T, n+1)
		qCoefs[0] = 1
		copy(qCoefs[1:], block.C[m+1:m+1+n])
		qBlock := poly.NewBlock(qCoefs...)
		q = qBlock.Eval(local)
	}
	return p / q
}
