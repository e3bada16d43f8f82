package engine

import "errors"

// Error kinds (spec §7). Callers match with errors.Is; the SW core only
// ever returns the first four — Unknown is reserved for back-ends with
// no software fallback (GPU context loss and similar) and is exposed
// here only so the trait's error space is complete.
var (
	// ErrInvalidArguments covers null buffers, zero dimensions, an
	// unrecognised colorspace, an unrecognised flag combination, or a
	// CUBIC_CONTROL tag at the start of a contour.
	ErrInvalidArguments = errors.New("engine: invalid arguments")
	// ErrNonSupport covers requests this back-end does not implement,
	// e.g. an 8-bit-grayscale target or an unknown fill kind.
	ErrNonSupport = errors.New("engine: not supported")
	// ErrInsufficientCondition covers a draw requested before a target
	// is attached, or before a previous draw has been synced.
	ErrInsufficientCondition = errors.New("engine: insufficient condition")
	// ErrMemoryCorruption signals an internal invariant violation that
	// should be unreachable given well-formed inputs; callers should
	// treat it as fatal.
	ErrMemoryCorruption = errors.New("engine: memory corruption")
	// ErrUnknown is reserved for back-end-specific failures outside the
	// software core's own error space.
	ErrUnknown = errors.New("engine: unknown failure")
)
