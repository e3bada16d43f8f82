package stroke

import (
	"github.com/agg-go/rasterix/internal/fixedmath"
	"github.com/agg-go/rasterix/internal/outline"
)

// Dash describes an on/off pattern applied to a centreline before
// stroking: Pattern alternates on-length, off-length, on-length, ...
// (an even number of non-negative entries), and Offset shifts where the
// pattern starts along the path.
type Dash struct {
	Pattern []fixedmath.Coord
	Offset  fixedmath.Coord
}

const maxDashFlattenDepth = 24

// ApplyDash walks o (flattening any cubics first) and emits a new,
// always-open outline containing only the "on" spans of the pattern,
// each as its own sub-path, ready to feed into Stroker.ParseOutline
// (spec §4.4's dashing pre-pass).
func ApplyDash(o *outline.Outline, d Dash) *outline.Outline {
	if len(d.Pattern) < 2 {
		return o
	}

	flat := flattenOutline(o)
	result := &outline.Outline{FillRule: o.FillRule, Opened: true}

	for c := 0; c < flat.NumContours(); c++ {
		start, end := flat.ContourRange(c)
		if end <= start {
			continue
		}
		dashContour(result, flat.Points[start:end+1], d, !o.Opened)
	}
	return result
}

// dashContour walks one already-flattened polyline, emitting "on"
// spans into dst as separate sub-paths. closed treats the last point as
// connected back to the first.
func dashContour(dst *outline.Outline, pts []fixedmath.Point, d Dash, closed bool) {
	n := len(pts)
	if n < 2 {
		return
	}

	total := fixedmath.Coord(0)
	for _, l := range d.Pattern {
		total += l
	}
	if total <= 0 {
		return
	}

	curIdx := 0
	curPos := fixedmath.Coord(0)
	rem := d.Offset % total
	if rem < 0 {
		rem += total
	}
	for rem > 0 {
		if rem < d.Pattern[curIdx] {
			curPos = rem
			rem = 0
		} else {
			rem -= d.Pattern[curIdx]
			curIdx = (curIdx + 1) % len(d.Pattern)
		}
	}

	on := curIdx%2 == 0
	open := false

	segCount := n - 1
	if closed {
		segCount = n
	}

	for i := 0; i < segCount; i++ {
		a := pts[i%n]
		b := pts[(i+1)%n]
		segLen := fixedmath.Coord(fixedmath.Length(subPt(b, a)))
		if segLen == 0 {
			continue
		}

		walked := fixedmath.Coord(0)
		for walked < segLen {
			remaining := d.Pattern[curIdx] - curPos
			step := segLen - walked
			atBoundary := false
			if step >= remaining {
				step = remaining
				atBoundary = true
			}
			walked += step
			curPos += step

			if on {
				if !open {
					dst.MoveTo(lerp(a, b, walked-step, segLen))
					open = true
				}
				dst.LineTo(lerp(a, b, walked, segLen))
			}

			if atBoundary {
				curPos = 0
				curIdx = (curIdx + 1) % len(d.Pattern)
				wasOn := on
				on = curIdx%2 == 0
				if wasOn && !on && open {
					dst.Close()
					open = false
				}
			}
		}
	}
	if open {
		dst.Close()
	}
}

func lerp(a, b fixedmath.Point, t, total fixedmath.Coord) fixedmath.Point {
	if total == 0 {
		return a
	}
	dx := int64(b.X-a.X) * int64(t) / int64(total)
	dy := int64(b.Y-a.Y) * int64(t) / int64(total)
	return fixedmath.Point{X: a.X + fixedmath.Coord(dx), Y: a.Y + fixedmath.Coord(dy)}
}

// flattenOutline replaces every cubic segment of o with a line-segment
// approximation, using the same SmallCubic flatness test and
// SplitCubic halving the stroker uses, so dash-length
// accounting walks (approximately) the true curve length rather than
// the control polygon.
func flattenOutline(o *outline.Outline) *outline.Outline {
	out := &outline.Outline{FillRule: o.FillRule, Opened: o.Opened}
	for c := 0; c < o.NumContours(); c++ {
		start, end := o.ContourRange(c)
		if end < start {
			continue
		}
		out.MoveTo(o.Points[start])
		i := start
		for i < end {
			i++
			switch o.Tags[i] {
			case outline.OnPoint:
				out.LineTo(o.Points[i])
			case outline.CubicControl:
				c1, c2 := o.Points[i], o.Points[i+1]
				i += 2
				to := o.Points[i]
				p0 := out.Points[len(out.Points)-1]
				flattenCubic(out, p0, c1, c2, to, 0)
			}
		}
		out.Close()
	}
	return out
}

func flattenCubic(out *outline.Outline, p0, c1, c2, p3 fixedmath.Point, depth int) {
	base := [4]fixedmath.Point{p0, c1, c2, p3}
	_, _, _, flat := fixedmath.SmallCubic(base)
	if flat || depth >= maxDashFlattenDepth {
		out.LineTo(p3)
		return
	}
	var full [7]fixedmath.Point
	full[0], full[1], full[2], full[3] = base[0], base[1], base[2], base[3]
	fixedmath.SplitCubic(&full)
	flattenCubic(out, full[0], full[1], full[2], full[3], depth+1)
	flattenCubic(out, full[3], full[4], full[5], full[6], depth+1)
}
