// Package composite implements spec.md §5's composite lookup table: an
// ordered sequence of child tables, each covering its own subdomain,
// evaluated through a hybrid most-recently-used linear/binary search.
// Grounded on src/table_types/CompositeLookupTable.cpp.
package composite

import (
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/shawn-mcadam/func/funccontainer"
	"github.com/shawn-mcadam/func/lut"
	"github.com/shawn-mcadam/func/lutdomain"
	"github.com/shawn-mcadam/func/poly"
	"github.com/shawn-mcadam/func/registry"
)

// DomainError reports an evaluation outside the union of every child
// table's domain.
type DomainError[T poly.Float] struct {
	X        T
	MinArg   T
	MaxArg   T
}

func (e *DomainError[T]) Error() string {
	return fmt.Sprintf("func: %v outside composite domain [%v, %v]", e.X, e.MinArg, e.MaxArg)
}

func (e *DomainError[T]) Unwrap() error { return lutdomain.ErrDomain }

// Table is an ordered run of child tables covering disjoint,
// contiguous subdomains. mru is an atomically-updated hint (not a lock)
// pointing at the child most recently used for a successful lookup, per
// spec.md §5 option (a): composite reads are expected to be hot and
// concurrent, and a stale hint only costs an extra search step, never
// correctness.
type Table[T poly.Float] struct {
	children     []lut.Evaluator[T]
	breakpoints  []T // breakpoints[i] is children[i+1]'s min arg
	mru          atomic.Int64
	minArg, maxArg T
}

// New builds a composite table from children ordered by domain. Each
// children[i+1].MinArg() must equal children[i].MaxArg() (the original
// implementation's "special_points" are exactly these shared
// breakpoints), or New returns an error wrapping ErrInvalidArgument.
func New[T poly.Float](children []lut.Evaluator[T]) (*Table[T], error) {
	if len(children) == 0 {
		return nil, fmt.Errorf("%w: composite table needs at least one child", lutdomain.ErrInvalidArgument)
	}
	for i, c := range children {
		if c == nil {
			return nil, fmt.Errorf("%w: child %d is nil", lutdomain.ErrInvalidArgument, i)
		}
	}
	for i := 1; i < len(children); i++ {
		prev, cur := children[i-1], children[i]
		if cur.MinArg() != prev.MaxArg() {
			return nil, fmt.Errorf("%w: child %d's domain [%v,%v] does not start where child %d's domain [%v,%v] ends",
				lutdomain.ErrInvalidArgument, i, cur.MinArg(), cur.MaxArg(), i-1, prev.MinArg(), prev.MaxArg())
		}
	}

	t := &Table[T]{
		children: append([]lut.Evaluator[T](nil), children...),
		minArg:   children[0].MinArg(),
		maxArg:   children[len(children)-1].MaxArg(),
	}
	t.breakpoints = make([]T, len(children)-1)
	for i := 1; i < len(children); i++ {
		t.breakpoints[i-1] = children[i].MinArg()
	}
	return t, nil
}

// BuildFromNames constructs a composite table the way
// CompositeLookupTable.cpp's constructor does: from a vector of child
// family names, a parallel vector of step sizes, and a vector of
// breakpoint abscissae one longer than either (breakpoints[0] is the
// overall minArg, breakpoints[len(names)] is the overall maxArg), each
// child built via r.Build(names[i], fc, Parameters{breakpoints[i],
// breakpoints[i+1], stepSizes[i]}). Returns an ArgumentError-wrapped
// error if the lengths disagree or breakpoints are not strictly
// increasing, before building a single child.
func BuildFromNames[T poly.Float](r *registry.Registry[T], fc *funccontainer.Container[T], names []string, stepSizes []T, breakpoints []T) (*Table[T], error) {
	if len(names) != len(stepSizes) {
		return nil, fmt.Errorf("%w: composite needs #names (%d) == #stepSizes (%d)", lutdomain.ErrInvalidArgument, len(names), len(stepSizes))
	}
	if len(breakpoints) != len(names)+1 {
		return nil, fmt.Errorf("%w: composite needs #specialPoints (%d) == #names+1 (%d)", lutdomain.ErrInvalidArgument, len(breakpoints), len(names)+1)
	}
	for i := 1; i < len(breakpoints); i++ {
		if breakpoints[i] <= breakpoints[i-1] {
			return nil, fmt.Errorf("%w: breakpoints must be strictly increasing, got %v then %v", lutdomain.ErrInvalidArgument, breakpoints[i-1], breakpoints[i])
		}
	}

	children := make([]lut.Evaluator[T], len(names))
	for i, name := range names {
		child, err := r.Build(name, fc, lut.Parameters[T]{MinArg: breakpoints[i], MaxArg: breakpoints[i+1], StepSize: stepSizes[i]})
		if err != nil {
			return nil, fmt.Errorf("building child %d (%q): %w", i, name, err)
		}
		children[i] = child
	}
	return New(children)
}

func (t *Table[T]) MinArg() T { return t.minArg }
func (t *Table[T]) MaxArg() T { return t.maxArg }

// Order and DataSize report the most recently used child's, matching
// the original's behavior of exposing per-child metadata rather than a
// single composite figure; callers that need every child's figures
// should range over Children() directly.
func (t *Table[T]) Order() int    { return t.children[t.mru.Load()].Order() }
func (t *Table[T]) DataSize() int { return t.children[t.mru.Load()].DataSize() }

// Children returns the ordered child tables.
func (t *Table[T]) Children() []lut.Evaluator[T] { return t.children }

// Evaluate locates x's child via a hybrid most-recently-used search
// (checking the MRU child, then walking from it toward x over up to
// linearSearchSpan children, before falling back to binary search over
// the full breakpoint vector) and evaluates
// it, or returns a *DomainError if x falls outside every child's
// domain.
func (t *Table[T]) Evaluate(x T) (T, error) {
	if x < t.minArg || x > t.maxArg {
		var zero T
		return zero, &DomainError[T]{X: x, MinArg: t.minArg, MaxArg: t.maxArg}
	}

	mru := int(t.mru.Load())
	recent := t.children[mru]

	var idx int
	switch {
	case x >= recent.MinArg() && x <= recent.MaxArg():
		idx = mru
	case x < recent.MinArg():
		idx = t.linearSearchLeft(mru, x)
	default:
		idx = t.linearSearchRight(mru, x)
	}

	t.mru.Store(int64(idx))
	return t.children[idx].Evaluate(x), nil
}

// linearSearchLeft and linearSearchRight walk outward from the MRU
// hint a few steps before handing off to binary search, mirroring
// CompositeLookupTable.cpp's assumption that consecutive lookups tend
// to be spatially local.
const linearSearchSpan = 4

func (t *Table[T]) linearSearchLeft(from int, x T) int {
	for i := from; i >= 0 && i > from-linearSearchSpan; i-- {
		if x >= t.children[i].MinArg() {
			return i
		}
	}
	return t.binarySearch(x)
}

func (t *Table[T]) linearSearchRight(from int, x T) int {
	for i := from; i < len(t.children) && i < from+linearSearchSpan; i++ {
		if x <= t.children[i].MaxArg() {
			return i
		}
	}
	return t.binarySearch(x)
}

// binarySearch finds the child whose domain contains x via a search
// over the breakpoint vector.
func (t *Table[T]) binarySearch(x T) int {
	idx := sort.Search(len(t.breakpoints), func(i int) bool {
		return x < t.breakpoints[i]
	})
	if idx >= len(t.children) {
		idx = len(t.children) - 1
	}
	return idx
}
