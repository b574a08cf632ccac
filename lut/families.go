package lut

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/shawn-mcadam/func/funccontainer"
	"github.com/shawn-mcadam/func/internal/linalg"
	"github.com/shawn-mcadam/func/poly"
	"github.com/shawn-mcadam/func/transfer"
)

// BuildParallelism is the number of subintervals built concurrently by
// each family constructor below. It defaults to GOMAXPROCS and may be
// lowered by callers building many small tables at once.
var BuildParallelism = runtime.GOMAXPROCS(0)

// blockBuilder computes a single subinterval's polynomial block given
// the subinterval's left endpoint and width.
type blockBuilder[T poly.Float] func(x0, h T) (poly.Block[T], error)

// buildGrid lays out a table (uniform if tf is nil, nonuniform
// otherwise) and fills every subinterval's block by calling build
// concurrently across BuildParallelism goroutines, mirroring the
// teacher's plain goroutine-plus-WaitGroup fan-out (see utils/bignum's
// Remez scan loop) rather than a generic worker-pool library, since
// none appears in the retrieved corpus.
//
// The guard entry (index numIntervals) is never handed to build: it has
// zero width, so a builder that samples distinct points across
// [x0,x0+h] (interpolationBlock) or divides by h (hermiteBlock) cannot
// run on it, and spec.md §3 requires its nonconstant coefficients to be
// zero regardless of family. buildGrid fills it directly from fc,
// matching QuadraticInterpolationTable.hpp's explicit "special case to
// make lut(tableMaxArg) work" block.
func buildGrid[T poly.Float](fc *funccontainer.Container[T], name string, p Parameters[T], order int, build blockBuilder[T], tf *transfer.Function[T], mode HashMode) (*Table[T], error) {
	t, err := NewTable(name, p, order, tf, mode)
	if err != nil {
		return nil, err
	}
	t.Blocks = make([]poly.Block[T], t.numTableEntries)

	errs := make([]error, t.numTableEntries)
	var wg sync.WaitGroup
	sem := make(chan struct{}, BuildParallelism)
	for i := 0; i < t.numTableEntries; i++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			x0 := t.subintervalLeftEdge(i)
			if i == t.numIntervals {
				block, err := guardBlock(fc, x0, order)
				if err != nil {
					errs[i] = fmt.Errorf("guard entry: %w", err)
					return
				}
				t.Blocks[i] = block
				return
			}
			x1 := t.subintervalLeftEdge(i + 1)
			block, err := build(x0, x1-x0)
			if err != nil {
				errs[i] = fmt.Errorf("subinterval %d: %w", i, err)
				return
			}
			t.Blocks[i] = block
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

// guardBlock builds the sentinel entry at x0 (== tableMaxArg): f's value
// in the constant coefficient, every other coefficient left at zero, per
// spec.md §3's guard-entry invariant.
func guardBlock[T poly.Float](fc *funccontainer.Container[T], x0 T, order int) (poly.Block[T], error) {
	d, err := fc.DerivativesUpTo(0, x0)
	if err != nil {
		return poly.Block[T]{}, err
	}
	coefs := make([]T, order)
	coefs[0] = d[0]
	return poly.NewBlock(coefs...), nil
}

// buildUniform is the common case of buildGrid with an implicit grid.
func buildUniform[T poly.Float](fc *funccontainer.Container[T], name string, p Parameters[T], order int, build blockBuilder[T]) (*Table[T], error) {
	return buildGrid(fc, name, p, order, build, nil, Full)
}

// BuildNonuniform builds a transfer function for p's domain and lays
// out a nonuniform-grid table with it, using build to compute each
// subinterval's block and mode to select the Full or Pseudo hash of
// spec.md §4.2. It is the general entry point nonuniform tables of any
// family go through; NewLinearInterpolationNonuniform,
// NewCubicHermiteNonuniform, NewQuadraticTaylorNonuniform and their
// Pseudo-suffixed counterparts below wrap it for the families spec.md
// §8 exercises nonuniform grids against. Grid type is a MetaTable-level
// concern orthogonal to polynomial family (see
// include/table_types/MetaTable.hpp's GridTypes template parameter), so
// every other family can reach the same nonuniform construction through
// this one function rather than ten duplicated constructors.
func BuildNonuniform[T poly.Float](fc *funccontainer.Container[T], name string, p Parameters[T], order int, build blockBuilder[T], mode HashMode) (*Table[T], error) {
	tf, err := transfer.Build(fc, p.MinArg, p.TableMaxArg(), p.StepSize)
	if err != nil {
		return nil, err
	}
	return buildGrid(fc, name, p, order, build, tf, mode)
}

// taylorBlock builds a degree-(order-1) Taylor polynomial of f about x0
// from derivatives 0..order-1, matching the coefs[k] = f^(k)(x0)/k!
// loop in src/table_types/UniformCubicTaylorTable.hpp's constructor
// (QuadraticTaylorTable.hpp does the same thing one order down).
func taylorBlock[T poly.Float](fc *funccontainer.Container[T], order int) blockBuilder[T] {
	return func(x0, _ T) (poly.Block[T], error) {
		derivs, err := fc.DerivativesUpTo(order-1, x0)
		if err != nil {
			return poly.Block[T]{}, err
		}
		coefs := make([]T, order)
		fact := 1.0
		for k := 0; k < order; k++ {
			if k > 0 {
				fact *= float64(k)
			}
			coefs[k] = derivs[k] / T(fact)
		}
		return poly.NewBlock(coefs...), nil
	}
}

// interpolationBlock samples f at order equally spaced points across
// the subinterval [x0, x0+h] and solves the resulting order x order
// Vandermonde system for the interpolating polynomial's coefficients in
// the local coordinate u = x - x0.
func interpolationBlock[T poly.Float](fc *funccontainer.Container[T], order int) blockBuilder[T] {
	return func(x0, h T) (poly.Block[T], error) {
		locals := make([]float64, order)
		values := make([]float64, order)
		for i := 0; i < order; i++ {
			u := T(0)
			if order > 1 {
				u = h * T(i) / T(order-1)
			}
			locals[i] = float64(u)
			d, err := fc.DerivativesUpTo(0, x0+u)
			if err != nil {
				return poly.Block[T]{}, err
			}
			values[i] = float64(d[0])
		}

		m := linalg.NewMatrix(order, order)
		for i := 0; i < order; i++ {
			m[i][0] = 1
			for c := 1; c < order; c++ {
				m[i][c] = m[i][c-1] * locals[i]
			}
		}
		coefs, err := linalg.SolveRefined(m, values)
		if err != nil {
			return poly.Block[T]{}, fmt.Errorf("%w: interpolation Vandermonde solve failed: %v", ErrInvalidArgument, err)
		}
		return poly.NewBlock(toScalars[T](coefs)...), nil
	}
}

// hermiteBlock matches value and first derivative at both endpoints of
// [x0, x0+h], giving the unique cubic Hermite interpolant.
func hermiteBlock[T poly.Float](fc *funccontainer.Container[T]) blockBuilder[T] {
	return func(x0, h T) (poly.Block[T], error) {
		d0, err := fc.DerivativesUpTo(1, x0)
		if err != nil {
			return poly.Block[T]{}, err
		}
		d1, err := fc.DerivativesUpTo(1, x0+h)
		if err != nil {
			return poly.Block[T]{}, err
		}
		f0, fp0 := d0[0], d0[1]
		f1, fp1 := d1[0], d1[1]

		// Solve the 4x4 system directly: p(u)=c0+c1 u+c2 u^2+c3 u^3 on
		// [0,h] with p(0)=f0, p'(0)=fp0, p(h)=f1, p'(h)=fp1.
		c0 := f0
		c1 := fp0
		h2, h3 := h*h, h*h*h
		// From p(h)=f1 and p'(h)=fp1:
		//   c2 h^2 + c3 h^3 = f1 - c0 - c1 h
		//   2 c2 h + 3 c3 h^2 = fp1 - c1
		a := f1 - c0 - c1*h
		b := fp1 - c1
		c3 := (b - 2*a/h) / h2
		c2 := (a - c3*h3) / h2
		return poly.NewBlock(c0, c1, c2, c3), nil
	}
}

func toScalars[T poly.Float](xs []float64) []T {
	out := make([]T, len(xs))
	for i, x := range xs {
		out[i] = T(x)
	}
	return out
}

// NewConstantTaylor builds a piecewise-constant table: each subinterval
// holds f evaluated at its left endpoint.
func NewConstantTaylor[T poly.Float](fc *funccontainer.Container[T], p Parameters[T]) (*Table[T], error) {
	return buildUniform(fc, "ConstantTaylor", p, 1, taylorBlock[T](fc, 1))
}

// NewLinearTaylor builds a piecewise-linear table from f and f' at each
// subinterval's left endpoint.
func NewLinearTaylor[T poly.Float](fc *funccontainer.Container[T], p Parameters[T]) (*Table[T], error) {
	return buildUniform(fc, "LinearTaylor", p, 2, taylorBlock[T](fc, 2))
}

// NewLinearInterpolation builds a piecewise-linear table that
// interpolates f at each subinterval's two endpoints.
func NewLinearInterpolation[T poly.Float](fc *funccontainer.Container[T], p Parameters[T]) (*Table[T], error) {
	return buildUniform(fc, "LinearInterpolation", p, 2, interpolationBlock[T](fc, 2))
}

// NewQuadraticTaylor builds a piecewise-quadratic table from f, f', f''
// at each subinterval's left endpoint.
func NewQuadraticTaylor[T poly.Float](fc *funccontainer.Container[T], p Parameters[T]) (*Table[T], error) {
	return buildUniform(fc, "QuadraticTaylor", p, 3, taylorBlock[T](fc, 3))
}

// NewQuadraticInterpolation builds a piecewise-quadratic table that
// interpolates f at three equally spaced points per subinterval.
func NewQuadraticInterpolation[T poly.Float](fc *funccontainer.Container[T], p Parameters[T]) (*Table[T], error) {
	return buildUniform(fc, "QuadraticInterpolation", p, 3, interpolationBlock[T](fc, 3))
}

// NewCubicTaylor builds a piecewise-cubic table from f, f', f'', f''' at
// each subinterval's left endpoint.
func NewCubicTaylor[T poly.Float](fc *funccontainer.Container[T], p Parameters[T]) (*Table[T], error) {
	return buildUniform(fc, "CubicTaylor", p, 4, taylorBlock[T](fc, 4))
}

// NewCubicInterpolation builds a piecewise-cubic table that interpolates
// f at four equally spaced points per subinterval.
func NewCubicInterpolation[T poly.Float](fc *funccontainer.Container[T], p Parameters[T]) (*Table[T], error) {
	return buildUniform(fc, "CubicInterpolation", p, 4, interpolationBlock[T](fc, 4))
}

// NewCubicHermite builds a piecewise-cubic table matching f and f' at
// both endpoints of each subinterval.
func NewCubicHermite[T poly.Float](fc *funccontainer.Container[T], p Parameters[T]) (*Table[T], error) {
	return buildUniform(fc, "CubicHermite", p, 4, hermiteBlock[T](fc))
}

// NewHighDegreeInterpolation builds a piecewise-degree-(order-1) table
// that interpolates f at order equally spaced points per subinterval.
// order must be in [5,8]; the lower orders have their own dedicated
// constructors above. Grounded on
// src/table_types/UniformArmadilloPrecomputedInterpolationTable.hpp,
// which builds the same equally spaced Vandermonde system for
// polynomial degrees 4 through 7 (our order = degree+1).
func NewHighDegreeInterpolation[T poly.Float](fc *funccontainer.Container[T], p Parameters[T], order int) (*Table[T], error) {
	if order < 5 || order > poly.MaxCoefs {
		return nil, errInvalid("high degree interpolation order must be in [5,%d], got %d", poly.MaxCoefs, order)
	}
	return buildUniform(fc, fmt.Sprintf("HighDegreeInterpolation%d", order), p, order, interpolationBlock[T](fc, order))
}

// NewLinearInterpolationNonuniform builds a nonuniform-grid counterpart
// to NewLinearInterpolation, concentrating subintervals where f's
// derivative is changing fastest, hashed with the exact Full scheme of
// spec.md §4.2.
func NewLinearInterpolationNonuniform[T poly.Float](fc *funccontainer.Container[T], p Parameters[T]) (*Table[T], error) {
	return BuildNonuniform(fc, "LinearInterpolationNonuniform", p, 2, interpolationBlock[T](fc, 2), Full)
}

// NewLinearInterpolationNonuniformPseudo is NewLinearInterpolationNonuniform
// hashed with the cheaper, slightly less accurate Pseudo scheme of
// spec.md §4.2, matching
// original_source/src/table_types/RegistrarDefinitionsStandard.cpp's
// NonUniformPseudoLinearInterpolationTable registration.
func NewLinearInterpolationNonuniformPseudo[T poly.Float](fc *funccontainer.Container[T], p Parameters[T]) (*Table[T], error) {
	return BuildNonuniform(fc, "LinearInterpolationNonuniformPseudo", p, 2, interpolationBlock[T](fc, 2), Pseudo)
}

// NewCubicHermiteNonuniform builds a nonuniform-grid counterpart to
// NewCubicHermite, hashed with the Full scheme.
func NewCubicHermiteNonuniform[T poly.Float](fc *funccontainer.Container[T], p Parameters[T]) (*Table[T], error) {
	return BuildNonuniform(fc, "CubicHermiteNonuniform", p, 4, hermiteBlock[T](fc), Full)
}

// NewCubicHermiteNonuniformPseudo is NewCubicHermiteNonuniform hashed
// with the Pseudo scheme.
func NewCubicHermiteNonuniformPseudo[T poly.Float](fc *funccontainer.Container[T], p Parameters[T]) (*Table[T], error) {
	return BuildNonuniform(fc, "CubicHermiteNonuniformPseudo", p, 4, hermiteBlock[T](fc), Pseudo)
}

// NewQuadraticTaylorNonuniform builds a nonuniform-grid counterpart to
// NewQuadraticTaylor, hashed with the Full scheme.
func NewQuadraticTaylorNonuniform[T poly.Float](fc *funccontainer.Container[T], p Parameters[T]) (*Table[T], error) {
	return BuildNonuniform(fc, "QuadraticTaylorNonuniform", p, 3, taylorBlock[T](fc, 3), Full)
}

// NewQuadraticTaylorNonuniformPseudo is NewQuadraticTaylorNonuniform
// hashed with the Pseudo scheme.
func NewQuadraticTaylorNonuniformPseudo[T poly.Float](fc *funccontainer.Container[T], p Parameters[T]) (*Table[T], error) {
	return BuildNonuniform(fc, "QuadraticTaylorNonuniformPseudo", p, 3, taylorBlock[T](fc, 3), Pseudo)
}
