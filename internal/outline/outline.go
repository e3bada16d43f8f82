// Package outline implements the canonical path representation consumed
// by both the stroker and the rasterizer, plus the per-thread memory
// pool that lets render jobs reuse Outline storage across shapes without
// contending on a shared allocator.
//
// The growable-array discipline here (never shrink, grow by
// max(cap+16, cap*3/2)) follows the geometric growth policy used
// throughout the teacher's internal/array package, adapted to the
// spec's own explicit growth formula rather than array.PodBVector's
// block-deque scheme: a fixed-point point/tag array benefits from
// contiguous storage (the rasterizer and stroker both want slice
// access), so a classic grow-in-place slice is the right shape here.
package outline

import "github.com/agg-go/rasterix/internal/fixedmath"

// Tag marks the role of an outline point.
type Tag uint8

const (
	// OnPoint is a point that lies on the curve.
	OnPoint Tag = iota
	// CubicControl is one of the two control points of a cubic segment.
	CubicControl
)

// FillRule selects how overlapping sub-paths combine.
type FillRule uint8

const (
	NonZero FillRule = iota
	EvenOdd
)

// Outline is an ordered sequence of points and tags split into
// contours, in Q26.6 pixel units. See spec §3 for the invariants:
// every contour has at least one point, a contour may not begin with a
// CubicControl tag, a CubicControl tag is always followed by another
// CubicControl then an OnPoint, and Contours is strictly increasing.
type Outline struct {
	Points   []fixedmath.Point
	Tags     []Tag
	Contours []int // inclusive end-point index of each sub-path
	FillRule FillRule
	Opened   bool // true: last point of each contour need not equal first
}

// Reset empties the outline while retaining its backing capacity, the
// mempool's "release" operation (§4.2): lengths go to zero, slices keep
// their underlying arrays.
func (o *Outline) Reset() {
	o.Points = o.Points[:0]
	o.Tags = o.Tags[:0]
	o.Contours = o.Contours[:0]
	o.FillRule = NonZero
	o.Opened = false
}

// growPoints and growTags extend a points or tags slice by n elements
// for the caller to overwrite (reused spare capacity is not zeroed),
// growing the backing array by the spec's geometric policy when capacity is
// exhausted: cap_new = max(cap_old+16, cap_old*3/2).
func growPoints(s []fixedmath.Point, n int) []fixedmath.Point {
	if cap(s)-len(s) >= n {
		return s[:len(s)+n]
	}
	need := len(s) + n
	newCap := growCap(cap(s), need)
	ns := make([]fixedmath.Point, len(s), newCap)
	copy(ns, s)
	return ns[:need]
}

func growTags(s []Tag, n int) []Tag {
	if cap(s)-len(s) >= n {
		return s[:len(s)+n]
	}
	need := len(s) + n
	newCap := growCap(cap(s), need)
	ns := make([]Tag, len(s), newCap)
	copy(ns, s)
	return ns[:need]
}

func growCap(oldCap, need int) int {
	c := oldCap + 16
	if grown := oldCap * 3 / 2; grown > c {
		c = grown
	}
	if c < need {
		c = need
	}
	return c
}

// MoveTo starts a new contour at p.
func (o *Outline) MoveTo(p fixedmath.Point) {
	if n := len(o.Points); n > 0 && (len(o.Contours) == 0 || o.Contours[len(o.Contours)-1] != n-1) {
		o.Contours = append(o.Contours, n-1)
	}
	o.Points = growPoints(o.Points, 1)
	o.Tags = growTags(o.Tags, 1)
	o.Points[len(o.Points)-1] = p
	o.Tags[len(o.Tags)-1] = OnPoint
}

// LineTo appends an on-curve point to the current contour.
func (o *Outline) LineTo(p fixedmath.Point) {
	o.Points = growPoints(o.Points, 1)
	o.Tags = growTags(o.Tags, 1)
	o.Points[len(o.Points)-1] = p
	o.Tags[len(o.Tags)-1] = OnPoint
}

// CubicTo appends a cubic Bezier segment (two controls + an end point)
// to the current contour.
func (o *Outline) CubicTo(c1, c2, end fixedmath.Point) {
	o.Points = growPoints(o.Points, 3)
	o.Tags = growTags(o.Tags, 3)
	n := len(o.Points)
	o.Points[n-3], o.Points[n-2], o.Points[n-1] = c1, c2, end
	o.Tags[n-3], o.Tags[n-2], o.Tags[n-1] = CubicControl, CubicControl, OnPoint
}

// Close finalizes the current (last) contour, recording its end index.
// A no-op if there is no open contour or the contour was already closed.
func (o *Outline) Close() {
	if len(o.Points) == 0 {
		return
	}
	if len(o.Contours) > 0 && o.Contours[len(o.Contours)-1] == len(o.Points)-1 {
		return
	}
	o.Contours = append(o.Contours, len(o.Points)-1)
}

// ContourRange returns the [start, end] inclusive point index range of
// contour i.
func (o *Outline) ContourRange(i int) (start, end int) {
	if i == 0 {
		start = 0
	} else {
		start = o.Contours[i-1] + 1
	}
	end = o.Contours[i]
	return
}

// NumContours returns the number of complete contours recorded so far.
func (o *Outline) NumContours() int { return len(o.Contours) }

// Validate checks the invariants from spec §3, returning an error
// instead of panicking so a malformed caller-provided outline degrades
// to "no draw" rather than crashing the renderer.
func (o *Outline) Validate() error {
	if len(o.Contours) == 0 {
		if len(o.Points) == 0 {
			return nil
		}
		return errEmptyOutlineHasContourlessPoints
	}
	prevEnd := -1
	for _, end := range o.Contours {
		if end <= prevEnd {
			return errContoursNotIncreasing
		}
		start := prevEnd + 1
		if start > end {
			return errEmptyContour
		}
		if o.Tags[start] == CubicControl {
			return errContourStartsWithControl
		}
		i := start
		for i <= end {
			if o.Tags[i] == CubicControl {
				if i+2 > end || o.Tags[i+1] != CubicControl || o.Tags[i+2] != OnPoint {
					return errMalformedCubic
				}
				i += 3
				continue
			}
			i++
		}
		prevEnd = end
	}
	return nil
}
