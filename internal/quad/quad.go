// Package quad provides the adaptive quadrature and bracketed
// root-finding primitives the transfer function and generator need. No
// quadrature or root-finding library appears in the retrieved example
// corpus, so these follow the algorithm descriptions in the original
// implementation (Gauss-Kronrod integration, Newton's method with a
// bisection fallback capped at 54 steps) directly against the standard
// library (see DESIGN.md).
package quad

import "math"

// gk15Nodes/gk15Weights are the abscissae and weights of the 7-point
// Gauss / 15-point Kronrod rule on [-1, 1], the same order the original
// implementation requests from Boost's gauss_kronrod<T, 15>.
var gk15Nodes = [8]float64{
	0.991455371120813, 0.949107912342759, 0.864864423359769,
	0.741531185599394, 0.586087235467691, 0.405845151377397,
	0.207784955007898, 0.0,
}

var gk15Weights = [8]float64{
	0.022935322010529, 0.063092092629979, 0.104790010322250,
	0.140653259715525, 0.169004726639267, 0.190350578064785,
	0.204432940075298, 0.209482141084728,
}

// kronrod15 integrates f over [a,b] with the 15-point Kronrod rule,
// symmetric about the midpoint.
func kronrod15(f func(float64) float64, a, b float64) float64 {
	mid := 0.5 * (a + b)
	halfLen := 0.5 * (b - a)

	sum := gk15Weights[7] * f(mid)
	for i := 0; i < 7; i++ {
		x := halfLen * gk15Nodes[i]
		sum += gk15Weights[i] * (f(mid-x) + f(mid+x))
	}
	return sum * halfLen
}

// GaussKronrod15 adaptively integrates f over [a,b]: it refines by
// bisection until successive whole-interval and split-interval
// estimates agree within tol or maxDepth is reached, mirroring Boost's
// adaptive gauss_kronrod::integrate.
func GaussKronrod15(f func(float64) float64, a, b float64) float64 {
	return adaptiveKronrod(f, a, b, kronrod15(f, a, b), 1e-10, 30)
}

func adaptiveKronrod(f func(float64) float64, a, b, whole float64, tol float64, depth int) float64 {
	if depth == 0 {
		return whole
	}
	mid := 0.5 * (a + b)
	left := kronrod15(f, a, mid)
	right := kronrod15(f, mid, b)
	if math.Abs(left+right-whole) <= tol*math.Abs(left+right) || math.Abs(left+right-whole) < tol {
		return left + right
	}
	return adaptiveKronrod(f, a, mid, left, tol/2, depth-1) + adaptiveKronrod(f, mid, b, right, tol/2, depth-1)
}

// MaxBisectionSteps is the iteration cap the original implementation
// uses for its toms748-based bisection fallback.
const MaxBisectionSteps = 54

const maxNewtonIterations = 20

// NewtonInverse returns a function that, given z, finds x in [a,b] with
// g(x) = z, using Newton's method seeded at z and falling back to
// bisection (capped at MaxBisectionSteps) whenever the derivative
// vanishes, is unavailable, the iterate leaves [a,b], or Newton has not
// converged within maxNewtonIterations steps. g must be monotone
// increasing on [a,b].
func NewtonInverse(g, gPrime func(float64) float64, a, b float64, tol float64) func(z float64) float64 {
	return func(z float64) float64 {
		x := z
		if x < a {
			x = a
		}
		if x > b {
			x = b
		}

		for it := 0; it < maxNewtonIterations; it++ {
			x0 := x
			gp := gPrime(x)
			if gp == 0 {
				break
			}
			x = x - (g(x)-z)/gp
			if x < a || x > b {
				break
			}
			if math.Abs(x-x0) <= tol {
				return x
			}
		}
		return Bisect(func(h float64) float64 { return g(h) - z }, a, b, tol, MaxBisectionSteps)
	}
}

// Bisect brackets a root of f in [a,b] (f(a) and f(b) must have
// opposite signs, or one of them must already be ~0) and refines it by
// bisection until the bracket is narrower than tol or maxIter steps
// have run, returning the midpoint of the final bracket.
func Bisect(f func(float64) float64, a, b, tol float64, maxIter int) float64 {
	fa, fb := f(a), f(b)
	if fa == 0 {
		return a
	}
	if fb == 0 {
		return b
	}
	if (fa > 0) == (fb > 0) {
		// Not a valid bracket; return whichever endpoint is closer to a root.
		if math.Abs(fa) < math.Abs(fb) {
			return a
		}
		return b
	}
	for i := 0; i < maxIter && (b-a) > tol; i++ {
		mid := 0.5 * (a + b)
		fm := f(mid)
		if fm == 0 {
			return mid
		}
		if (fm > 0) == (fa > 0) {
			a, fa = mid, fm
		} else {
			b, fb = mid, fm
		}
	}
	return 0.5 * (a + b)
}

// goldenRatio is (3-sqrt(5))/2, the fraction Brent's method and plain
// golden-section search step in from whichever end of the bracket is
// wider.
const goldenRatio = 0.3819660112501051

// BrentMinimize finds a local minimum of f on [a,b], mirroring Boost's
// brent_find_minima (see LookupTableGenerator.hpp's
// OptimalStepSizeFunctor, which calls it per subinterval to find the
// worst-case error point). It combines golden-section bisection with a
// parabolic interpolation step whenever the parabola fit through the
// three best points so far lands strictly inside the bracket and
// shrinks it by at least half; maxIter caps the number of refinements.
// Returns the minimizing x and f(x).
func BrentMinimize(f func(float64) float64, a, b float64, maxIter int) (float64, float64) {
	x := a + goldenRatio*(b-a)
	w, v := x, x
	fx := f(x)
	fw, fv := fx, fx
	d, e := 0.0, 0.0

	for i := 0; i < maxIter; i++ {
		mid := 0.5 * (a + b)
		tol := 1e-10*math.Abs(x) + 1e-12
		if math.Abs(x-mid) <= 2*tol-0.5*(b-a) {
			break
		}

		useGolden := true
		if math.Abs(e) > tol {
			r := (x - w) * (fx - fv)
			q := (x - v) * (fx - fw)
			p := (x-v)*q - (x-w)*r
			q = 2 * (q - r)
			if q > 0 {
				p = -p
			}
			q = math.Abs(q)
			eTmp := e
			e = d
			if math.Abs(p) < math.Abs(0.5*q*eTmp) && p > q*(a-x) && p < q*(b-x) {
				d = p / q
				u := x + d
				if u-a < 2*tol || b-u < 2*tol {
					if x < mid {
						d = tol
					} else {
						d = -tol
					}
				}
				useGolden = false
			}
		}
		if useGolden {
			if x < mid {
				e = b - x
			} else {
				e = a - x
			}
			d = goldenRatio * e
		}

		var u float64
		if math.Abs(d) >= tol {
			u = x + d
		} else if d > 0 {
			u = x + tol
		} else {
			u = x - tol
		}
		fu := f(u)

		if fu <= fx {
			if u < x {
				b = x
			} else {
				a = x
			}
			v, fv = w, fw
			w, fw = x, fx
			x, fx = u, fu
		} else {
			if u < x {
				a = u
			} else {
				b = u
			}
			if fu <= fw || w == x {
				v, fv = w, fw
				w, fw = u, fu
			} else if fu <= fv || v == x || v == w {
				v, fv = u, fu
			}
		}
	}
	return x, fx
}

// BracketResult is the outcome of BracketAndSolve: the bracket the
// search ended on, and whether it genuinely straddled a sign change
// (Converged=false means g was already positive at lo, or the iteration
// cap was hit before a tight bracket was found; the generator treats
// either as a soft failure per
// spec.md's "iteration caps are soft" propagation policy).
type BracketResult struct {
	Lo, Hi         float64
	Converged      bool
	IterationsUsed int
}

// BracketAndSolve narrows [lo, hi] around a root of g via bisection
// (g is assumed monotone increasing, as the generator's error-minus-
// tolerance functor is), given the values of g already known at the
// endpoints (gLo, gHi) to avoid a redundant evaluation, stopping once
// the bracket width is at most relTol*max(1,|hi end|) or maxIter
// iterations have run.
func BracketAndSolve(g func(float64) float64, lo, hi, gLo, gHi float64, relTol float64, maxIter int) BracketResult {
	if gLo > 0 {
		// g is positive even at lo, so no point of [lo, hi] has g<=0.
		return BracketResult{Lo: lo, Hi: lo, Converged: false}
	}
	if gHi <= 0 {
		return BracketResult{Lo: hi, Hi: hi, Converged: true}
	}

	a, b := lo, hi
	fa := gLo
	iterations := 0
	for iterations < maxIter && (b-a) > relTol*math.Max(1, math.Abs(b)) {
		mid := 0.5 * (a + b)
		fm := g(mid)
		iterations++
		if fm == 0 {
			return BracketResult{Lo: mid, Hi: mid, Converged: true, IterationsUsed: iterations}
		}
		if (fm > 0) == (fa > 0) {
			a, fa = mid, fm
		} else {
			b = mid
		}
	}
	return BracketResult{Lo: a, Hi: b, Converged: iterations < maxIter, IterationsUsed: iterations}
}
