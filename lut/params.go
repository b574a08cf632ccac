package lut

import (
	"fmt"
	"math"

	"github.com/google/go-cmp/cmp"

	"github.com/shawn-mcadam/func/poly"
)

// Parameters is the input triple (MinArg, MaxArg, StepSize) every table
// family is built from.
type Parameters[T poly.Float] struct {
	MinArg, MaxArg, StepSize T
}

// Validate checks the precondition StepSize > 0.
func (p Parameters[T]) Validate() error {
	if p.StepSize <= 0 {
		return fmt.Errorf("%w: stepSize must be positive, got %v", ErrInvalidArgument, p.StepSize)
	}
	return nil
}

// NumIntervals returns ceil((MaxArg-MinArg)/StepSize).
func (p Parameters[T]) NumIntervals() int {
	return int(math.Ceil(float64((p.MaxArg - p.MinArg) / p.StepSize)))
}

// TableMaxArg returns MinArg + StepSize*NumIntervals, which is >= MaxArg
// by construction and equal to it only when StepSize evenly divides the
// requested domain.
func (p Parameters[T]) TableMaxArg() T {
	return p.MinArg + p.StepSize*T(p.NumIntervals())
}

// Equal checks two Parameters structs for equality, matching the
// rlwe.Parameters.Equal pattern of comparing value structs field-by-field
// with cmp.Equal rather than a bare ==, so the comparison keeps working
// if a field is ever widened to a slice.
func (p Parameters[T]) Equal(other Parameters[T]) bool {
	return cmp.Equal(p.MinArg, other.MinArg) &&
		cmp.Equal(p.MaxArg, other.MaxArg) &&
		cmp.Equal(p.StepSize, other.StepSize)
}
