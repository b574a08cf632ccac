package funccontainer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewPanicsOnNilFunction(t *testing.T) {
	require.Panics(t, func() {
		New[float64](nil)
	})
}

func TestDerivativesUpToOrderZeroFallsBackToF(t *testing.T) {
	c := New(func(x float64) float64 { return x * x })
	d, err := c.DerivativesUpTo(0, 3)
	require.NoError(t, err)
	require.Equal(t, []float64{9}, d)
}

func TestDerivativesUpToMissingProviderErrors(t *testing.T) {
	c := New(func(x float64) float64 { return x })
	_, err := c.DerivativesUpTo(1, 2)
	require.Error(t, err)
}

func TestDerivativesUpToExactProvider(t *testing.T) {
	c := New(func(x float64) float64 { return x * x }).
		WithDerivatives(2, func(x float64) []float64 { return []float64{x * x, 2 * x, 2} })
	d, err := c.DerivativesUpTo(2, 5)
	require.NoError(t, err)
	require.Equal(t, []float64{25, 10, 2}, d)
}

func TestDerivativesUpToPicksSmallestSufficientProvider(t *testing.T) {
	calledOrder := 0
	c := New(func(x float64) float64 { return x }).
		WithDerivatives(3, func(x float64) []float64 {
			calledOrder = 3
			return []float64{x, 1, 0, 0}
		}).
		WithDerivatives(5, func(x float64) []float64 {
			calledOrder = 5
			return []float64{x, 1, 0, 0, 0, 0}
		})
	_, err := c.DerivativesUpTo(1, 2)
	require.NoError(t, err)
	require.Equal(t, 3, calledOrder)
}

func TestFiniteDifferenceApproximatesKnownDerivatives(t *testing.T) {
	f := func(x float64) float64 { return math.Sin(x) }
	deriv := FiniteDifference(f, 2, 1e-4)
	out := deriv(1.0)
	require.InDelta(t, math.Sin(1), out[0], 1e-9)
	require.InDelta(t, math.Cos(1), out[1], 1e-4)
	require.InDelta(t, -math.Sin(1), out[2], 1e-2)
}
