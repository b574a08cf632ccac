package linalg

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSolveIdentity(t *testing.T) {
	m := Matrix{{1, 0}, {0, 1}}
	x, err := Solve(m, []float64{3, 4})
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{3, 4}, x, 1e-12)
}

func TestSolveVandermonde(t *testing.T) {
	// Interpolate p(u)=1+2u+3u^2 at u=0,1,2.
	m := Matrix{{1, 0, 0}, {1, 1, 1}, {1, 2, 4}}
	b := []float64{1, 6, 17}
	x, err := SolveRefined(m, b)
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{1, 2, 3}, x, 1e-9)
}

func TestSolveSingularErrors(t *testing.T) {
	m := Matrix{{1, 1}, {1, 1}}
	_, err := Solve(m, []float64{1, 1})
	require.Error(t, err)
}

func TestNullspaceOfSingleRow(t *testing.T) {
	// a x + b y = 0, written as a 1x2 matrix [a b].
	m := Matrix{{2, -4}}
	v, err := Nullspace(m)
	require.NoError(t, err)
	require.InDelta(t, 0, 2*v[0]-4*v[1], 1e-9)
}

func TestNullspaceRejectsWrongShape(t *testing.T) {
	m := Matrix{{1, 2}, {3, 4}}
	_, err := Nullspace(m)
	require.Error(t, err)
}
