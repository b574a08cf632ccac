// Package lut implements the piecewise-polynomial lookup table family
// described in spec.md §4: a shared MetaTable core (grid, hash,
// evaluation, JSON persistence) specialized by construction into the
// Taylor, interpolation, Hermite, and Padé families in families.go and
// pade.go. Grounded on
// include/table_types/MetaTable.hpp.
package lut

import (
	"fmt"

	"github.com/shawn-mcadam/func/poly"
	"github.com/shawn-mcadam/func/transfer"
)

// GridType selects between an implicit uniform grid (hashed by an
// affine map) and an explicit nonuniform grid (hashed through a
// transfer function).
type GridType int

const (
	Uniform GridType = iota
	Nonuniform
)

func (g GridType) String() string {
	if g == Uniform {
		return "UNIFORM"
	}
	return "NONUNIFORM"
}

// HashMode selects how a nonuniform-grid table turns x into the local
// coordinate a block is evaluated at, per spec.md §4.2's two
// sub-variants. It has no effect on a uniform-grid table, whose hash is
// already exact and cheap.
type HashMode int

const (
	// Full inverts the transfer function to find the subinterval index,
	// then calls the transfer function's forward map a second time to
	// find that subinterval's exact real-valued left endpoint and
	// subtracts it from x. This is what table.go implemented before
	// HashMode existed.
	Full HashMode = iota
	// Pseudo skips that second transfer-function call: g⁻¹(x) is built
	// so that its integer part is the subinterval index and its
	// fractional part already approximates how far across the
	// subinterval x falls, so Pseudo reuses that fractional part
	// directly (scaled by the nominal stepSize) instead of recovering
	// the subinterval's exact real width. It is cheaper — one fewer
	// transfer-function evaluation and subtraction per lookup — at a
	// minor loss of accuracy, matching
	// original_source/include/table_types/MetaTable.hpp's NONUNIFORM
	// hash<GT>, which never subtracts grid[i]: "don't subtract dx by x0
	// because every polynomial must be rescaled accordingly".
	Pseudo
)

func (h HashMode) String() string {
	if h == Pseudo {
		return "PSEUDO"
	}
	return "FULL"
}

// Evaluator is the common read interface every table family, and
// package composite's children, satisfy.
type Evaluator[T poly.Float] interface {
	Evaluate(x T) T
	MinArg() T
	MaxArg() T
	Order() int
	DataSize() int
}

// Table is the shared representation of a single piecewise-polynomial
// lookup table: a name, a domain, a grid (implicit or explicit), and a
// slice of per-subinterval polynomial blocks. Family constructors in
// families.go and pade.go are responsible for filling Blocks with the
// right coefficients; Table itself only knows how to hash an x into a
// block index and evaluate the result.
type Table[T poly.Float] struct {
	name string

	minArg, maxArg, stepSize, tableMaxArg T

	// order is the number of coefficients a non-Padé block carries. For
	// a Padé table it is M+1, the number of numerator coefficients; padeN
	// holds the denominator degree N, and is 0 for every other family.
	order int
	padeN int

	dataSize int

	numIntervals    int
	numTableEntries int

	grid     GridType
	hashMode HashMode // only meaningful when grid == Nonuniform
	Blocks   []poly.Block[T]
	transfer *transfer.Function[T] // nil when grid == Uniform

	// padeFallback marks, per subinterval, that the pole guard rejected
	// a genuine Padé block and the degree-(order-1) Taylor polynomial
	// stored in Blocks[i] (its trailing padeN coefficients are zero)
	// should be evaluated directly
	// instead of split into P/Q. Only populated when padeN > 0.
	padeFallback []bool
}

// Name is the identifier persisted in JSON and used by
// package composite/registry to look a table back up by name.
func (t *Table[T]) Name() string { return t.name }

func (t *Table[T]) MinArg() T { return t.minArg }
func (t *Table[T]) MaxArg() T { return t.maxArg }
func (t *Table[T]) StepSize() T { return t.stepSize }
func (t *Table[T]) TableMaxArg() T { return t.tableMaxArg }
func (t *Table[T]) Order() int  { return t.order }
func (t *Table[T]) DataSize() int { return t.dataSize }
func (t *Table[T]) NumIntervals() int    { return t.numIntervals }
func (t *Table[T]) NumTableEntries() int { return t.numTableEntries }
func (t *Table[T]) Grid() GridType       { return t.grid }
func (t *Table[T]) HashMode() HashMode   { return t.hashMode }

var _ Evaluator[float64] = (*Table[float64])(nil)

// subintervalLeftEdge returns the x-coordinate the idx-th block's local
// coordinate is measured from. Uniform grids use minArg+idx*stepSize;
// nonuniform grids invert the transfer function's forward map at the
// uniform hash-space grid point idx*stepSize, since the stored blocks
// are laid out in hash space, not x space.
func (t *Table[T]) subintervalLeftEdge(idx int) T {
	if t.grid == Uniform {
		return t.minArg + T(idx)*t.stepSize
	}
	return t.transfer.G(t.minArg + T(idx)*t.stepSize)
}

// Evaluate locates x's subinterval and evaluates that subinterval's
// polynomial block at x's local coordinate within it. It makes no
// domain check: an x below MinArg is evaluated with block 0's
// polynomial, an x in (MaxArg, TableMaxArg) with the last subinterval's
// polynomial, and an x at or past TableMaxArg with the guard entry.
func (t *Table[T]) Evaluate(x T) T {
	idx, local := t.hashLocal(x)

	if t.padeN > 0 && !t.padeFallback[idx] {
		return t.evalPade(idx, local)
	}
	return t.Blocks[idx].Eval(local)
}

// hashLocal maps x to its subinterval index and local coordinate within
// that subinterval, per spec.md §4.2. A uniform grid always uses the
// exact affine hash; a nonuniform grid uses Full or Pseudo depending on
// t.hashMode.
func (t *Table[T]) hashLocal(x T) (int, T) {
	if t.grid == Uniform {
		u := (x - t.minArg) / t.stepSize
		idx := clampInterval(int(u), t.numIntervals)
		return idx, x - (t.minArg + T(idx)*t.stepSize)
	}

	u := t.transfer.Inverse(x)
	idx := clampInterval(int(u), t.numIntervals)
	if t.hashMode == Pseudo {
		return idx, (u - T(idx)) * t.stepSize
	}
	return idx, x - t.subintervalLeftEdge(idx)
}

func clampInterval(idx, numIntervals int) int {
	if idx < 0 {
		return 0
	}
	if idx > numIntervals {
		return numIntervals
	}
	return idx
}

// NewTable validates the parameters and lays out the common fields of a
// table; family constructors call it before filling in Blocks. A nil tf
// produces a uniform-grid table; a non-nil tf produces a nonuniform one
// hashed through tf using mode (ignored when tf is nil).
func NewTable[T poly.Float](name string, p Parameters[T], order int, tf *transfer.Function[T], mode HashMode) (*Table[T], error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	n := p.NumIntervals()
	t := &Table[T]{
		name:            name,
		minArg:          p.MinArg,
		maxArg:          p.MaxArg,
		stepSize:        p.StepSize,
		tableMaxArg:     p.TableMaxArg(),
		order:           order,
		numIntervals:    n,
		numTableEntries: n + 1, // +1 guard entry, per spec.md §4.2
		grid:            Uniform,
	}
	if tf != nil {
		t.grid = Nonuniform
		t.transfer = tf
		t.hashMode = mode
	}
	t.dataSize = (n + 1) * order * int(sizeofScalar[T]())
	return t, nil
}

// sizeofScalar avoids importing unsafe at every call site; every
// supported T is a fixed-width IEEE float.
func sizeofScalar[T poly.Float]() uintptr {
	var x T
	switch any(x).(type) {
	case float32:
		return 4
	default:
		return 8
	}
}

// errInvalid is a convenience wrapper used throughout families.go and
// pade.go.
func errInvalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidArgument}, args...)...)
}
