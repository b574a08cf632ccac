package quad

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGaussKronrod15Polynomial(t *testing.T) {
	// Integral of x^2 over [0,3] is 9.
	got := GaussKronrod15(func(x float64) float64 { return x * x }, 0, 3)
	require.InDelta(t, 9.0, got, 1e-9)
}

func TestGaussKronrod15Sine(t *testing.T) {
	got := GaussKronrod15(math.Sin, 0, math.Pi)
	require.InDelta(t, 2.0, got, 1e-9)
}

func TestNewtonInverseOfSquare(t *testing.T) {
	g := func(x float64) float64 { return x * x }
	gp := func(x float64) float64 { return 2 * x }
	inv := NewtonInverse(g, gp, 0, 10, 1e-10)
	require.InDelta(t, 3.0, inv(9), 1e-6)
}

func TestNewtonInverseFallsBackToBisectionWhenDerivativeVanishes(t *testing.T) {
	g := func(x float64) float64 { return x * x * x }
	gp := func(x float64) float64 { return 0 } // pretend the derivative is unavailable
	inv := NewtonInverse(g, gp, 0, 10, 1e-6)
	require.InDelta(t, 2.0, inv(8), 1e-3)
}

func TestBisectFindsRoot(t *testing.T) {
	root := Bisect(func(x float64) float64 { return x - 2 }, 0, 10, 1e-10, MaxBisectionSteps)
	require.InDelta(t, 2.0, root, 1e-9)
}

func TestBracketAndSolveConverges(t *testing.T) {
	g := func(x float64) float64 { return x - 5 }
	result := BracketAndSolve(g, 0, 10, g(0), g(10), 1e-9, 50)
	require.True(t, result.Converged)
	require.InDelta(t, 5.0, 0.5*(result.Lo+result.Hi), 1e-6)
}
