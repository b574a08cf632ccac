package lut

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/shawn-mcadam/func/funccontainer"
)

func TestUniformTableJSONRoundTrip(t *testing.T) {
	fc := funccontainer.New(math.Sin).
		WithDerivatives(1, func(x float64) []float64 { return []float64{math.Sin(x), math.Cos(x)} })
	table, err := NewCubicHermite(fc, Parameters[float64]{MinArg: 0, MaxArg: math.Pi, StepSize: 0.25})
	require.NoError(t, err)

	data, err := json.Marshal(table)
	require.NoError(t, err)

	var loaded Table[float64]
	require.NoError(t, json.Unmarshal(data, &loaded))

	require.Equal(t, table.name, loaded.name)
	require.Equal(t, table.numIntervals, loaded.numIntervals)
	require.Equal(t, len(table.Blocks), len(loaded.Blocks))
	for i := range table.Blocks {
		require.Equal(t, table.Blocks[i].C, loaded.Blocks[i].C)
	}

	for x := 0.0; x < math.Pi; x += 0.2 {
		require.Equal(t, table.Evaluate(x), loaded.Evaluate(x))
	}
}

func TestNonuniformTableJSONRoundTrip(t *testing.T) {
	fc := funccontainer.New(math.Sin).
		WithDerivatives(1, func(x float64) []float64 { return []float64{math.Sin(x), math.Cos(x)} })
	table, err := NewLinearInterpolationNonuniform(fc, Parameters[float64]{MinArg: 0, MaxArg: math.Pi, StepSize: 0.25})
	require.NoError(t, err)

	data, err := json.Marshal(table)
	require.NoError(t, err)

	var loaded Table[float64]
	require.NoError(t, json.Unmarshal(data, &loaded))
	require.Equal(t, "NONUNIFORM", loaded.grid.String())

	for x := 0.05; x < math.Pi; x += 0.2 {
		require.InDelta(t, table.Evaluate(x), loaded.Evaluate(x), 1e-9)
	}
}

func TestNonuniformPseudoTableJSONRoundTripPreservesHashMode(t *testing.T) {
	fc := funccontainer.New(math.Sin).
		WithDerivatives(1, func(x float64) []float64 { return []float64{math.Sin(x), math.Cos(x)} })
	table, err := NewLinearInterpolationNonuniformPseudo(fc, Parameters[float64]{MinArg: 0, MaxArg: math.Pi, StepSize: 0.25})
	require.NoError(t, err)

	data, err := json.Marshal(table)
	require.NoError(t, err)

	var loaded Table[float64]
	require.NoError(t, json.Unmarshal(data, &loaded))
	require.Equal(t, Pseudo, loaded.HashMode())

	for x := 0.05; x < math.Pi; x += 0.2 {
		require.Equal(t, table.Evaluate(x), loaded.Evaluate(x))
	}
}

func TestUnmarshalRejectsUnknownGridType(t *testing.T) {
	var loaded Table[float64]
	err := json.Unmarshal([]byte(`{"name":"x","gridType":"WEIRD"}`), &loaded)
	require.ErrorIs(t, err, ErrInvalidArgument)
}
