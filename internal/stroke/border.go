package stroke

import (
	"github.com/agg-go/rasterix/internal/fixedmath"
	"github.com/agg-go/rasterix/internal/outline"
)

// borderLineTo appends to to b's working contour, honouring the
// movable-last-point convention: when the previous point was emitted by
// a plain segment end (movable), a caller closing a corner at that same
// spot rewrites it in place instead of appending a duplicate. Points
// within borderEpsilon of the last one are dropped as degenerate.
func borderLineTo(b *border, to fixedmath.Point, movable bool) {
	n := len(b.out.Points)
	if b.movable && n > 0 {
		b.out.Points[n-1] = to
		b.movable = movable
		return
	}
	if n > 0 {
		last := b.out.Points[n-1]
		if abs32(int32(last.X-to.X)) < borderEpsilon && abs32(int32(last.Y-to.Y)) < borderEpsilon {
			b.movable = movable
			return
		}
	}
	b.out.Points = append(b.out.Points, to)
	b.out.Tags = append(b.out.Tags, outline.OnPoint)
	b.movable = movable
}

// closeBorder finalizes border b's current sub-path: the last point
// (which holds the adjusted starting coordinates written by the second
// cap/join) is moved to the sub-path's start slot, the rest of the
// sub-path is optionally reversed, and the sub-path is recorded in
// b.out.Contours. A sub-path with at most one point is discarded.
func closeBorder(b *border, reverse bool) {
	start := b.start
	count := len(b.out.Points)
	if count <= start+1 {
		b.out.Points = b.out.Points[:start]
		b.out.Tags = b.out.Tags[:start]
		b.start = -1
		b.movable = false
		return
	}

	count--
	b.out.Points[start] = b.out.Points[count]
	b.out.Points = b.out.Points[:count]
	b.out.Tags = b.out.Tags[:count]

	if reverse {
		reversePoints(b.out.Points[start+1:])
	}

	b.out.Contours = append(b.out.Contours, count-1)
	b.start = -1
	b.movable = false
}

func reversePoints(pts []fixedmath.Point) {
	for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
		pts[i], pts[j] = pts[j], pts[i]
	}
}

// addReverseLeft moves left's in-progress sub-path onto the end of
// right's, in reverse point order, then empties left back to its
// sub-path start. Used to splice an opened path's left border into the
// right border so the whole stroke outline is a single contour (spec
// §4.4's end_sub_path for open paths).
func addReverseLeft(right, left *border) {
	n := len(left.out.Points) - left.start
	if n <= 0 {
		return
	}
	for i := len(left.out.Points) - 1; i >= left.start; i-- {
		right.out.Points = append(right.out.Points, left.out.Points[i])
		right.out.Tags = append(right.out.Tags, outline.OnPoint)
	}
	left.out.Points = left.out.Points[:left.start]
	left.out.Tags = left.out.Tags[:left.start]
	right.movable = false
	left.movable = false
}
