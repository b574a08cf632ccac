// Package lutdomain holds the sentinel errors shared across package lut
// and package transfer. It exists purely to break the import cycle that
// would otherwise result from lut depending on transfer (for nonuniform
// grid support) while also wanting to own these sentinels directly; see
// DESIGN.md.
package lutdomain

import "errors"

var (
	// ErrInvalidArgument covers non-positive step sizes, nil function
	// slots, mismatched vector lengths, non-monotone breakpoints, and a
	// serialized name mismatch on load.
	ErrInvalidArgument = errors.New("func: invalid argument")

	// ErrDomain covers composite evaluation outside the union of its
	// children's domains.
	ErrDomain = errors.New("func: x outside table domain")

	// ErrRange covers a transfer function whose every inverse-
	// approximation strategy failed the monotonicity/endpoint checks.
	ErrRange = errors.New("func: no transfer function approximation passed validation")

	// ErrConvergence covers a generator that could not find a step size
	// meeting its tolerance within the bracket iteration cap.
	ErrConvergence = errors.New("func: generator did not converge")

	// ErrNotSupported covers a family that needs a backend capability
	// the caller did not supply. A missing derivative order is reported
	// as ErrInvalidArgument by funccontainer, not as this error.
	ErrNotSupported = errors.New("func: required capability not supplied")
)
