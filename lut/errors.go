package lut

import "github.com/shawn-mcadam/func/lutdomain"

// Sentinel errors for the taxonomy in spec.md §7, re-exported from
// lutdomain so that package transfer (which lut itself depends on for
// nonuniform grid support) can return the same sentinels without lut and
// transfer importing each other. Concrete errors returned by the table
// families and by package composite/generate wrap one of these with
// fmt.Errorf("...: %w", ...) so callers can test with errors.Is.
var (
	// ErrInvalidArgument covers non-positive step sizes, nil function
	// slots, mismatched vector lengths, non-monotone breakpoints, and
	// a serialized name mismatch on load.
	ErrInvalidArgument = lutdomain.ErrInvalidArgument

	// ErrDomain covers composite evaluation outside the union of its
	// children's domains.
	ErrDomain = lutdomain.ErrDomain

	// ErrRange covers a transfer function whose every inverse-
	// approximation strategy failed the monotonicity/endpoint checks.
	ErrRange = lutdomain.ErrRange

	// ErrConvergence covers a generator that could not find a step
	// size meeting its tolerance within the bracket iteration cap.
	ErrConvergence = lutdomain.ErrConvergence

	// ErrNotSupported covers a family that needs a backend capability
	// the caller did not supply. A missing derivative order is reported
	// as ErrInvalidArgument by funccontainer, not as this error.
	ErrNotSupported = lutdomain.ErrNotSupported
)
