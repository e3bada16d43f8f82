// Package rle defines the run-length-encoded coverage mask produced by
// the rasterizer (internal/raster) and consumed by the compositor
// (internal/composite): Span, RleData, and the two clip operations
// needed for clip-path support (spec §4.6).
package rle

import "math"

// Span covers Len horizontally adjacent pixels at row Y starting at
// column X, all sharing Coverage in [0,255].
type Span struct {
	X        int16
	Y        int16
	Len      uint16
	Coverage uint8
}

// Data is a sorted, row-merged run-length coverage mask. Invariants
// (spec §3): spans sorted by (Y asc, X asc); same-row spans never
// overlap; adjacent same-row spans with equal coverage are already
// merged; no span has Len == 0.
type Data struct {
	Spans []Span
}

// Size returns the number of spans.
func (d *Data) Size() int { return len(d.Spans) }

// Reset empties the span list while retaining capacity.
func (d *Data) Reset() { d.Spans = d.Spans[:0] }

// BBox is an axis-aligned integer box used to clip spans, expressed in
// the same pixel-coordinate space as Span.X/Y (not Q26.6 — this is the
// integer viewport/band box of spec §4.5/§4.6).
type BBox struct {
	MinX, MinY, MaxX, MaxY int16 // MaxX/MaxY exclusive
}

// ClipRect intersects every span in d with box in place (spec §4.6):
// spans wholly outside are dropped, spans straddling an edge are
// truncated with their coverage preserved.
func ClipRect(d *Data, box BBox) {
	if len(d.Spans) == 0 {
		return
	}
	out := d.Spans[:0:0]
	minX, minY, maxX, maxY := box.MinX, box.MinY, box.MaxX-1, box.MaxY-1

	for _, s := range d.Spans {
		if s.Y > maxY {
			break
		}
		if s.Y < minY || int32(s.X) > int32(maxX) || int32(s.X)+int32(s.Len) <= int32(minX) {
			continue
		}
		var nx int16
		var nlen uint16
		if s.X < minX {
			avail := int32(s.Len) - int32(minX-s.X)
			room := int32(maxX) - int32(minX) + 1
			if avail < room {
				nlen = uint16(avail)
			} else {
				nlen = uint16(room)
			}
			nx = minX
		} else {
			room := int32(maxX) - int32(s.X) + 1
			if int32(s.Len) < room {
				nlen = s.Len
			} else {
				nlen = uint16(room)
			}
			nx = s.X
		}
		if nlen == 0 {
			continue
		}
		out = append(out, Span{X: nx, Y: s.Y, Len: nlen, Coverage: s.Coverage})
	}
	d.Spans = out
}

// ClipPath intersects d's spans with clip's spans in place, per row,
// producing coverage (a.cov*b.cov)>>8 over each overlap interval (spec
// §4.6). Complexity is linear in |d|+|clip|; both lists must already be
// sorted by (Y,X), which Data always maintains.
func ClipPath(d *Data, clip *Data) {
	if len(d.Spans) == 0 || len(clip.Spans) == 0 {
		d.Spans = d.Spans[:0]
		return
	}
	out := make([]Span, 0, maxInt(len(d.Spans), len(clip.Spans)))

	spans := d.Spans
	cspans := clip.Spans
	i, j := 0, 0
	for i < len(spans) && j < len(cspans) {
		s, c := spans[i], cspans[j]
		if c.Y > s.Y {
			i++
			continue
		}
		if s.Y != c.Y {
			j++
			continue
		}
		sx1, sx2 := int32(s.X), int32(s.X)+int32(s.Len)
		cx1, cx2 := int32(c.X), int32(c.X)+int32(c.Len)

		if cx1 < sx1 && cx2 < sx1 {
			j++
			continue
		}
		if sx1 < cx1 && sx2 < cx1 {
			i++
			continue
		}
		x := sx1
		if cx1 > x {
			x = cx1
		}
		endX := sx2
		if cx2 < endX {
			endX = cx2
		}
		if length := endX - x; length > 0 {
			out = append(out, Span{
				X:        int16(x),
				Y:        s.Y,
				Len:      uint16(length),
				Coverage: uint8((uint16(s.Coverage) * uint16(c.Coverage)) >> 8),
			})
		}
		if sx2 < cx2 {
			i++
		} else {
			j++
		}
	}
	d.Spans = out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// ClipToSurface clips d to [0,w) x [0,h), saturating coordinates to
// math.MaxInt16 as spec §4.5 requires ("x and y are also clipped to
// i16::MAX with a log warning"). warn is invoked (if non-nil) whenever
// a saturation actually occurred, so callers can surface the warning
// through their own logging.
func ClipToSurface(d *Data, w, h int, warn func()) {
	limX, limY := int16(math.MaxInt16), int16(math.MaxInt16)
	if w-1 < int(limX) {
		limX = int16(w - 1)
	} else if warn != nil {
		warn()
	}
	if h-1 < int(limY) {
		limY = int16(h - 1)
	} else if warn != nil {
		warn()
	}
	ClipRect(d, BBox{MinX: 0, MinY: 0, MaxX: limX + 1, MaxY: limY + 1})
}
