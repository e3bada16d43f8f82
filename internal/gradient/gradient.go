// Package gradient builds the 1024-entry pre-multiplied color table for
// a linear or radial fill and fetches per-scanline spans from it (spec
// §4.3). Table construction runs once per fill rebuild; fetch runs on
// every scanline, so the fixed-point fast path matters.
package gradient

import (
	"errors"
	"math"

	"github.com/agg-go/rasterix/internal/pixel"
)

// StopCount is the resolution of the pre-computed color table.
const StopCount = 1024

const (
	fixptBits = 8
	fixptSize = 1 << fixptBits
)

// ErrNoStops is returned by BuildTable when the stop list is empty.
var ErrNoStops = errors.New("gradient: color stop list is empty")

// Spread selects how a sample position outside [0,1) maps back into the
// table (spec §4.3's clamp).
type Spread int

const (
	Pad Spread = iota
	Repeat
	Reflect
)

// ColorStop is one entry of a gradient's stop list, in straight alpha.
type ColorStop struct {
	Offset  float64
	R, G, B uint8
	A       uint8
}

// Table is the pre-multiplied color lookup table shared by every
// sampler; Table[0] and Table[StopCount-1] always hold the exact
// pre-multiplied first/last stop colors (spec §8 invariant).
type Table [StopCount]uint32

// BuildTable constructs ctable from a sorted stop list, scaling every
// stop's alpha by opacity (0-255) and pre-multiplying through cs's
// channel order. translucent is true if any entry's alpha is below 255
// (spec §4.3 steps 1-6, grounded on tvgSwFill.cpp's _updateColorTable).
func BuildTable(stops []ColorStop, opacity uint8, cs pixel.ColorSpace) (table Table, translucent bool, err error) {
	if len(stops) == 0 {
		return table, false, ErrNoStops
	}

	// rgba carries the stop's straight (non-premultiplied) color with
	// its real alpha in the top byte; premultiplication happens only
	// once a table entry's final color (possibly interpolated) is
	// known, matching tvgSwFill.cpp's _updateColorTable exactly.
	rgba := func(r, g, b, a uint8) uint32 { return pixel.Join(cs, r, g, b, a) }
	premul := func(straight uint32) uint32 {
		return pixel.AlphaBlend(straight|0xFF000000, uint8(straight>>24))
	}

	first := stops[0]
	a0 := uint8(uint32(first.A) * uint32(opacity) / 255)
	if a0 < 255 {
		translucent = true
	}
	curColor := rgba(first.R, first.G, first.B, a0)
	table[0] = premul(curColor)

	const inc = 1.0 / float64(StopCount)
	pos := 1.5 * inc
	i := 1
	for pos <= first.Offset && i < StopCount {
		table[i] = table[i-1]
		i++
		pos += inc
	}

	for j := 0; j+1 < len(stops); j++ {
		curr, next := stops[j], stops[j+1]
		span := next.Offset - curr.Offset
		if span <= 0 {
			span = 1e-6
		}
		a2 := uint8(uint32(next.A) * uint32(opacity) / 255)
		if a2 < 255 {
			translucent = true
		}
		nextColor := rgba(next.R, next.G, next.B, a2)

		for pos < next.Offset && i < StopCount {
			t := (pos - curr.Offset) / span
			dist := uint8(clampByte(255 * t))
			dist2 := uint8(255 - int(dist))
			interp := pixel.ColorInterpolate(curColor, dist2, nextColor, dist)
			table[i] = premul(interp)
			i++
			pos += inc
		}
		curColor = nextColor
	}

	last := premul(curColor)
	for ; i < StopCount; i++ {
		table[i] = last
	}
	table[StopCount-1] = last

	return table, translucent, nil
}

func clampByte(v float64) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return int(v)
}

// Clamp maps an integer table index into [0, StopCount) per spread mode
// (spec §4.3): Pad saturates, Repeat wraps modulo StopCount, Reflect
// wraps modulo 2*StopCount and mirrors the upper half.
func Clamp(pos int, spread Spread) int {
	switch spread {
	case Repeat:
		pos %= StopCount
		if pos < 0 {
			pos += StopCount
		}
		return pos
	case Reflect:
		const limit = StopCount * 2
		pos %= limit
		if pos < 0 {
			pos += limit
		}
		if pos >= StopCount {
			pos = limit - pos - 1
		}
		return pos
	default: // Pad
		if pos >= StopCount {
			return StopCount - 1
		}
		if pos < 0 {
			return 0
		}
		return pos
	}
}

func fixedPixel(table *Table, spread Spread, pos int32) uint32 {
	i := int((pos + fixptSize/2) >> fixptBits)
	return table[Clamp(i, spread)]
}

func floatPixel(table *Table, spread Spread, pos float64) uint32 {
	i := int(pos*(StopCount-1) + 0.5)
	return table[Clamp(i, spread)]
}

// Linear holds the prepared state of a linear gradient after its
// transform has been applied (tvgSwFill.cpp's _prepareLinear): a
// direction vector (the endpoint difference divided by its squared
// length) and a scalar offset, so that projecting a point onto the
// gradient axis yields 0 at the first endpoint and 1 at the second.
type Linear struct {
	Dx, Dy, Offset float64
	Degenerate     bool // true when the endpoints coincide (len < eps)
}

// NewLinear prepares a linear gradient from its two (already
// transformed) endpoints.
func NewLinear(x1, y1, x2, y2 float64) Linear {
	dx, dy := x2-x1, y2-y1
	length := dx*dx + dy*dy
	if length < 1e-7 {
		return Linear{Degenerate: true}
	}
	dx /= length
	dy /= length
	return Linear{Dx: dx, Dy: dy, Offset: -dx*x1 - dy*y1}
}

// FetchLinear fills dst with StopCount-space samples along lin starting
// at pixel (x,y), one sample per successive pixel to the right (spec
// §4.3's fetch_linear). A degenerate gradient fills dst with table[0];
// a negligible per-pixel increment (inc) gives one constant sample;
// otherwise it uses Q24.8 integer stepping while the values stay within
// the fixed-point safe window, and per-pixel float math when they do not.
func FetchLinear(table *Table, spread Spread, lin Linear, dst []uint32, x, y int) {
	if lin.Degenerate {
		c := table[0]
		for i := range dst {
			dst[i] = c
		}
		return
	}

	rx, ry := float64(x)+0.5, float64(y)+0.5
	t := (lin.Dx*rx + lin.Dy*ry + lin.Offset) * (StopCount - 1)
	inc := lin.Dx * (StopCount - 1)

	if math.Abs(inc) < 1e-7 {
		c := fixedPixel(table, spread, int32(t*fixptSize))
		for i := range dst {
			dst[i] = c
		}
		return
	}

	const vMax = float64(int32(math.MaxInt32) >> (fixptBits + 1))
	v := t + inc*float64(len(dst))
	if v < vMax && v > -vMax {
		t2 := int32(t * fixptSize)
		inc2 := int32(inc * fixptSize)
		for i := range dst {
			dst[i] = fixedPixel(table, spread, t2)
			t2 += inc2
		}
		return
	}

	for i := range dst {
		dst[i] = floatPixel(table, spread, t/StopCount)
		t += inc
	}
}

// Radial holds the prepared state of a radial gradient after its
// transform has been applied (tvgSwFill.cpp's _prepareRadial): centre,
// squared radius and its reciprocal, and a non-uniform scale pair used
// when the transform isn't isotropic.
type Radial struct {
	Cx, Cy     float64
	A, InvA    float64
	Sx, Sy     float64
	Degenerate bool // true when radius < eps
}

// NewRadial prepares a radial gradient from its (already transformed)
// centre and radius, plus the axis scale factors extracted from the
// transform (1,1 for an isotropic transform).
func NewRadial(cx, cy, radius, sx, sy float64) Radial {
	if radius < 1e-7 {
		return Radial{Degenerate: true}
	}
	a := radius * radius
	return Radial{Cx: cx, Cy: cy, A: a, InvA: 1 / a, Sx: sx, Sy: sy}
}

// FetchRadial fills dst with samples of rad starting at pixel (x,y),
// walking len pixels to the right using the incremental det/delta
// recurrence from spec §4.3 (two additions plus one sqrt per pixel).
func FetchRadial(table *Table, spread Spread, rad Radial, dst []uint32, x, y int) {
	if rad.Degenerate {
		c := table[0]
		for i := range dst {
			dst[i] = c
		}
		return
	}

	rx := (float64(x) + 0.5 - rad.Cx) * rad.Sy
	ry := (float64(y) + 0.5 - rad.Cy) * rad.Sx
	rxy := rx*rx + ry*ry
	det := rxy * rad.InvA
	detDelta := (2*rx + 1) * rad.InvA
	detDelta2 := 2 * rad.InvA

	for i := range dst {
		dst[i] = floatPixel(table, spread, math.Sqrt(det))
		det += detDelta
		detDelta += detDelta2
	}
}
