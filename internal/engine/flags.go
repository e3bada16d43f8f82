package engine

// Flags is the update bitmask passed to prepare (spec §6/§4.8): it
// drives which parts of a Task's pipeline re-run rather than reuse the
// previous job's RLE/color-table output.
type Flags uint8

const (
	FlagNone Flags = 0
	FlagPath Flags = 1 << iota
	FlagTransform
	FlagColor
	FlagGradient
	FlagStroke
	FlagGradientStroke
	FlagImage
)

func (f Flags) has(bit Flags) bool { return f&bit != 0 }

// CompositeMethod selects how a rendered mask modulates a subsequent
// composite operation (spec §6).
type CompositeMethod int

const (
	CompositeNone CompositeMethod = iota
	CompositeAlphaMask
	CompositeInvAlphaMask
)

// DisableAAStrokeWidthThreshold is the full stroke width, in Q26.6
// units, above which a fully opaque, dash-free stroke is assumed to cover
// the jaggies of its own fill and anti-aliasing is skipped on that fill
// (spec §4.8 step 3, §9 open question — the source gives no rationale
// for "2", so this is kept as a named constant rather than an inline
// literal).
const DisableAAStrokeWidthThreshold = 2 * 64
