package transfer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/shawn-mcadam/func/funccontainer"
)

func sineContainer() *funccontainer.Container[float64] {
	return funccontainer.New(math.Sin).
		WithDerivatives(1, func(x float64) []float64 { return []float64{math.Sin(x), math.Cos(x)} })
}

func TestBuildMapsEndpointsToThemselves(t *testing.T) {
	fn, err := Build(sineContainer(), 0, 2*math.Pi, 0.1)
	require.NoError(t, err)

	require.InDelta(t, 0, fn.G(0), EndpointTolerance)
	require.InDelta(t, 2*math.Pi, fn.G(2*math.Pi), EndpointTolerance)
}

func TestBuildGIsMonotoneIncreasing(t *testing.T) {
	fn, err := Build(sineContainer(), 0, 2*math.Pi, 0.1)
	require.NoError(t, err)

	prev := fn.G(0)
	for x := 0.01; x <= 2*math.Pi; x += 0.05 {
		cur := fn.G(x)
		require.GreaterOrEqual(t, cur, prev-1e-9)
		prev = cur
	}
}

func TestInverseIsIncreasingAcrossHashSpace(t *testing.T) {
	fn, err := Build(sineContainer(), 0, 2*math.Pi, 0.1)
	require.NoError(t, err)

	prev := fn.Inverse(0)
	for x := 0.01; x <= 2*math.Pi; x += 0.05 {
		cur := fn.Inverse(x)
		require.GreaterOrEqual(t, cur, prev-1e-6)
		prev = cur
	}
}

func TestFromCoefsReconstructsEquivalentFunction(t *testing.T) {
	fn, err := Build(sineContainer(), 0, 2*math.Pi, 0.1)
	require.NoError(t, err)

	reconstructed := FromCoefs(fn.Coefs(), 0, 2*math.Pi, 0.1)
	for x := 0.1; x < 2*math.Pi; x += 0.3 {
		require.InDelta(t, fn.G(x), reconstructed.G(x), 1e-6)
		require.InDelta(t, fn.Inverse(x), reconstructed.Inverse(x), 1e-9)
	}
}

func TestBuildRejectsNothingForWellBehavedFunction(t *testing.T) {
	// exp is monotone and smooth, so Build finds a strategy that validates.
	fc := funccontainer.New(math.Exp).
		WithDerivatives(1, func(x float64) []float64 { return []float64{math.Exp(x), math.Exp(x)} })
	_, err := Build(fc, 0, 3, 0.1)
	require.NoError(t, err)
}
