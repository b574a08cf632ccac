package registry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/shawn-mcadam/func/funccontainer"
	"github.com/shawn-mcadam/func/lut"
)

func TestStandardRegistryBuildsEveryListedFamily(t *testing.T) {
	r := Standard[float64]()
	fc := funccontainer.New(math.Sin).
		WithDerivatives(1, func(x float64) []float64 { return []float64{math.Sin(x), math.Cos(x)} }).
		WithDerivatives(3, func(x float64) []float64 { return []float64{math.Sin(x), math.Cos(x), -math.Sin(x), -math.Cos(x)} })

	for _, name := range []string{
		"UniformConstantTaylorTable", "UniformLinearTaylorTable", "UniformLinearInterpolationTable",
		"UniformCubicHermiteTable", "NonUniformLinearInterpolationTable",
		"NonUniformPseudoLinearInterpolationTable", "UniformHighDegreeInterpolation6Table",
		"UniformPade2x1Table",
	} {
		table, err := r.Build(name, fc, lut.Parameters[float64]{MinArg: 0, MaxArg: math.Pi, StepSize: 0.1})
		require.NoError(t, err, name)
		require.NotZero(t, table.Order(), name)
	}
}

func TestStandardRegistryListsNamesInCorpusConvention(t *testing.T) {
	r := Standard[float64]()
	names := r.Names()
	require.Contains(t, names, "UniformCubicHermiteTable")
	require.Contains(t, names, "NonUniformPseudoQuadraticTaylorTable")
	require.Contains(t, names, "UniformHighDegreeInterpolation8Table")
	require.Contains(t, names, "UniformPade1x1Table")
}

func TestBuildUnknownFamilyErrors(t *testing.T) {
	r := New[float64]()
	fc := funccontainer.New(func(x float64) float64 { return x })
	_, err := r.Build("NoSuchFamily", fc, lut.Parameters[float64]{MinArg: 0, MaxArg: 1, StepSize: 0.1})
	require.Error(t, err)
}

func TestRegisterOverridesExistingName(t *testing.T) {
	r := New[float64]()
	calls := 0
	r.Register("Custom", func(fc *funccontainer.Container[float64], p lut.Parameters[float64]) (lut.Evaluator[float64], error) {
		calls++
		return lut.NewLinearInterpolation(fc, p)
	})
	fc := funccontainer.New(func(x float64) float64 { return x })
	_, err := r.Build("Custom", fc, lut.Parameters[float64]{MinArg: 0, MaxArg: 1, StepSize: 0.5})
	require.NoError(t, err)
	require.Equal(t, 1, calls)
}
