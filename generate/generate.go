// Package generate implements spec.md §6's automatic step-size
// generator: given a target function, a table family, and either an
// error tolerance or a memory budget, it searches for the step size
// that meets it. Grounded on src/LookupTableGenerator.hpp.
package generate

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"github.com/shawn-mcadam/func/funccontainer"
	"github.com/shawn-mcadam/func/internal/bignum"
	"github.com/shawn-mcadam/func/internal/quad"
	"github.com/shawn-mcadam/func/lut"
	"github.com/shawn-mcadam/func/lutdomain"
	"github.com/shawn-mcadam/func/poly"
)

// bracketMaxIterations is the cap on BracketAndSolve's bisection
// refinement, matching LookupTableGenerator.hpp's BRACKET_MAX_IT.
const bracketMaxIterations = 50

// brentMaxIterations is max_it in OptimalStepSizeFunctor's call to
// brent_find_minima.
const brentMaxIterations = 20

// Builder constructs a table at a given step size; every family
// constructor in package lut (NewLinearInterpolation, NewCubicHermite,
// NewPade-bound-to-(M,N), ...) has this shape once its non-Parameters
// arguments are closed over.
type Builder[T poly.Float] func(fc *funccontainer.Container[T], p lut.Parameters[T]) (lut.Evaluator[T], error)

// ConvergenceError reports that GenerateByTolerance's bracket search
// did not close within bracketMaxIterations.
type ConvergenceError struct {
	LastBracket [2]float64
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("func: step-size search did not converge, last bracket [%v, %v]", e.LastBracket[0], e.LastBracket[1])
}

func (e *ConvergenceError) Unwrap() error { return lutdomain.ErrConvergence }

// Generator searches for a step size over [minArg, maxArg] for a single
// table family, built via build.
type Generator[T poly.Float] struct {
	fc             *funccontainer.Container[T]
	build          Builder[T]
	minArg, maxArg T
}

// New returns a Generator for f over [minArg, maxArg] using build to
// construct candidate tables.
func New[T poly.Float](fc *funccontainer.Container[T], build Builder[T], minArg, maxArg T) *Generator[T] {
	return &Generator[T]{fc: fc, build: build, minArg: minArg, maxArg: maxArg}
}

// ErrorAtStepSize builds a table at the given step size and returns the
// worst-case (largest magnitude) relative error, found by running
// internal/quad.BrentMinimize over each subinterval's negated absolute
// relative error, computed at bignum.Prec bits of precision so the
// estimate itself is not swamped by float64 cancellation. This is the
// LookupTableErrorFunctor/OptimalStepSizeFunctor pair from the original
// implementation.
//
// Every subinterval that lies inside [minArg, maxArg] is measured; the
// loop stops at the first one whose right end passes maxArg, mirroring
// OptimalStepSizeFunctor's `if (xtop > m_parent.m_max) break;`:
// rounding in ceil((maxArg-minArg)/step) can make the last subinterval
// extend past maxArg, and error is never sampled beyond the requested
// domain.
func (g *Generator[T]) ErrorAtStepSize(step T) (float64, error) {
	table, err := g.build(g.fc, lut.Parameters[T]{MinArg: g.minArg, MaxArg: g.maxArg, StepSize: step})
	if err != nil {
		return 0, err
	}

	worst := 0.0
	numIntervals := int(math.Ceil(float64((g.maxArg - g.minArg) / step)))
	for i := 0; i < numIntervals; i++ {
		x0 := g.minArg + T(i)*step
		xtop := x0 + step
		if float64(xtop) > float64(g.maxArg) {
			break
		}

		negErr := func(x float64) float64 {
			fx := float64(g.fc.F(T(x)))
			lx := float64(table.Evaluate(T(x)))
			return -math.Abs(bignum.RelativeError(fx, lx))
		}
		_, fStar := quad.BrentMinimize(negErr, float64(x0), float64(xtop), brentMaxIterations)
		if -fStar > math.Abs(worst) {
			worst = -fStar
		}
	}
	return worst, nil
}

// GenerateByTolerance searches for the largest step size whose
// ErrorAtStepSize magnitude does not exceed tol, via bisection over
// log(step) space (log-log Newton in the original; func's bracket
// search plays the same role without needing an analytic derivative of
// the error functor).
func (g *Generator[T]) GenerateByTolerance(tol float64) (lut.Evaluator[T], error) {
	width := float64(g.maxArg - g.minArg)
	logLo, logHi := math.Log(width/1e6), math.Log(width)

	errAt := func(logStep float64) (float64, error) {
		step := math.Exp(logStep)
		e, err := g.ErrorAtStepSize(T(step))
		if err != nil {
			return 0, err
		}
		return math.Abs(e) - tol, nil
	}

	gLo, err := errAt(logLo)
	if err != nil {
		return nil, err
	}
	gHi, err := errAt(logHi)
	if err != nil {
		return nil, err
	}

	result := quad.BracketAndSolve(func(l float64) float64 {
		v, _ := errAt(l)
		return v
	}, logLo, logHi, gLo, gHi, 1e-6, bracketMaxIterations)

	if !result.Converged {
		return nil, &ConvergenceError{LastBracket: [2]float64{math.Exp(result.Lo), math.Exp(result.Hi)}}
	}

	step := T(math.Exp(result.Lo))
	return g.build(g.fc, lut.Parameters[T]{MinArg: g.minArg, MaxArg: g.maxArg, StepSize: step})
}

// GenerateByImplSize searches for the step size whose built table's
// DataSize is as close as possible to targetBytes without exceeding
// it, via a two-probe affine solve: size is (to good approximation)
// linear in the number of subintervals, so two builds at N1 and N2
// intervals are enough to extrapolate the right N directly, matching
// LookupTableGenerator.hpp's generate_by_impl_size.
func (g *Generator[T]) GenerateByImplSize(targetBytes int) (lut.Evaluator[T], error) {
	const n1, n2 = 2, 10
	width := float64(g.maxArg - g.minArg)

	size1, err := g.dataSizeAtIntervals(n1, width)
	if err != nil {
		return nil, err
	}
	size2, err := g.dataSizeAtIntervals(n2, width)
	if err != nil {
		return nil, err
	}

	if size2 == size1 {
		return nil, fmt.Errorf("%w: table size does not vary with step size, cannot solve for a target size", lutdomain.ErrConvergence)
	}
	slope := float64(size2-size1) / float64(n2-n1)
	intercept := float64(size1) - slope*float64(n1)

	n := int(math.Floor((float64(targetBytes) - intercept) / slope))
	if n < 1 {
		n = 1
	}
	step := T(width / float64(n))
	return g.build(g.fc, lut.Parameters[T]{MinArg: g.minArg, MaxArg: g.maxArg, StepSize: step})
}

func (g *Generator[T]) dataSizeAtIntervals(n int, width float64) (int, error) {
	step := T(width / float64(n))
	table, err := g.build(g.fc, lut.Parameters[T]{MinArg: g.minArg, MaxArg: g.maxArg, StepSize: step})
	if err != nil {
		return 0, err
	}
	return table.DataSize(), nil
}

// ErrorStats summarizes a table's relative error over evenly spaced
// samples across its domain, using montanaflynn/stats for the summary
// statistics.
type ErrorStats struct {
	Mean, StdDev, Max float64
}

// Stats samples a built table at n evenly spaced points and summarizes
// its relative error against f.
func Stats[T poly.Float](fc *funccontainer.Container[T], table lut.Evaluator[T], n int) (ErrorStats, error) {
	samples := make([]float64, 0, n)
	width := float64(table.MaxArg() - table.MinArg())
	for i := 0; i < n; i++ {
		x := table.MinArg() + T(width*float64(i)/float64(n-1))
		fx := float64(fc.F(x))
		lx := float64(table.Evaluate(x))
		samples = append(samples, math.Abs(bignum.RelativeError(fx, lx)))
	}

	mean, err := stats.Mean(samples)
	if err != nil {
		return ErrorStats{}, fmt.Errorf("func: computing error mean: %w", err)
	}
	sd, err := stats.StandardDeviation(samples)
	if err != nil {
		return ErrorStats{}, fmt.Errorf("func: computing error standard deviation: %w", err)
	}
	max, err := stats.Max(samples)
	if err != nil {
		return ErrorStats{}, fmt.Errorf("func: computing error max: %w", err)
	}
	return ErrorStats{Mean: mean, StdDev: sd, Max: max}, nil
}
