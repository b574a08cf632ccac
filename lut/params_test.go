package lut

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParametersDerivedFields(t *testing.T) {
	p := Parameters[float64]{MinArg: 0, MaxArg: 1, StepSize: 0.3}
	require.NoError(t, p.Validate())
	require.Equal(t, 4, p.NumIntervals())
	require.InDelta(t, 1.2, p.TableMaxArg(), 1e-9)
}

func TestParametersValidateRejectsNonPositiveStep(t *testing.T) {
	p := Parameters[float64]{MinArg: 0, MaxArg: 1, StepSize: 0}
	require.ErrorIs(t, p.Validate(), ErrInvalidArgument)

	p.StepSize = -0.1
	require.ErrorIs(t, p.Validate(), ErrInvalidArgument)
}

func TestParametersEqual(t *testing.T) {
	a := Parameters[float64]{MinArg: 0, MaxArg: 1, StepSize: 0.1}
	b := Parameters[float64]{MinArg: 0, MaxArg: 1, StepSize: 0.1}
	c := Parameters[float64]{MinArg: 0, MaxArg: 1, StepSize: 0.2}

	require.True(t, a.Equal(b))
	require.False(t, a.Equal(c))
}
