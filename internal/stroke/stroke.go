// Package stroke expands an open or closed Outline into a pair of
// "border" contours that tile the stroked region, ready for the
// rasterizer to fill.
//
// The border-builder control flow (begin_sub_path / line_to / cubic_to /
// end_sub_path, the movable-last-point trick in borderLineTo, the
// addReverseLeft splice, closeBorder's copy-last-to-start shuffle) is
// ported from the structurally complete parts of the reference engine's
// stroker. Its _lineTo/_cubicTo/_arcTo bodies were stubs in the
// reference, so the segment and join math here is built directly from
// the corner-angle algebra already proven out in internal/fixedmath
// (Atan/Rotate/Cos/Tan/Diff/Mean, the same CORDIC core the reference
// engine uses for its own stroker).
package stroke

import (
	"math"

	"github.com/agg-go/rasterix/internal/fixedmath"
	"github.com/agg-go/rasterix/internal/outline"
)

// Cap selects how an open sub-path's ends are terminated.
type Cap int

const (
	CapButt Cap = iota
	CapRound
	CapSquare
)

// Join selects how two segments meet at a corner.
type Join int

const (
	JoinMiter Join = iota
	JoinRound
	JoinBevel
)

// borderEpsilon is the minimum point separation (Q26.6 units) below
// which borderLineTo treats a line-to as a zero-length degenerate and
// drops it rather than appending a near-duplicate point.
const borderEpsilon = 2

// border accumulates one side (left or right of the centreline) of the
// stroke outline as an ordinary Outline, so the rasterizer never has to
// know it's looking at stroke geometry.
type border struct {
	out     outline.Outline
	start   int
	movable bool
}

// Stroker turns a centreline Outline into two border Outlines. It holds
// no per-shape allocation once warmed up: Reset reuses existing border
// backing arrays the same way outline.Pool reuses Outline backing
// arrays.
type Stroker struct {
	halfWidth  fixedmath.Coord
	cap        Cap
	join       Join
	miterLimit fixedmath.Coord

	borders [2]border

	center            fixedmath.Point
	angleIn           fixedmath.Fixed
	angleOut          fixedmath.Fixed
	subPathAngle      fixedmath.Fixed
	subPathStart      fixedmath.Point
	firstPt           bool
	subPathOpen       bool
	handleWideStrokes bool
	lineLength        fixedmath.Coord
}

// NewStroker creates a Stroker for the given full stroke width (Q26.6).
// miterLimit of 0 defaults to 4x the half-width, matching the reference
// engine's default.
func NewStroker(width fixedmath.Coord, cap Cap, join Join, miterLimit fixedmath.Coord) *Stroker {
	s := &Stroker{}
	s.Reset(width, cap, join, miterLimit)
	return s
}

// Reset reconfigures the Stroker for a new shape, discarding any
// in-progress border geometry but retaining backing-array capacity.
func (s *Stroker) Reset(width fixedmath.Coord, cap Cap, join Join, miterLimit fixedmath.Coord) {
	s.halfWidth = width / 2
	s.cap = cap
	s.join = join
	if miterLimit <= 0 {
		miterLimit = 4 * s.halfWidth
	}
	s.miterLimit = miterLimit

	for side := range s.borders {
		s.borders[side].out.Reset()
		s.borders[side].start = -1
		s.borders[side].movable = false
	}
	s.handleWideStrokes = false
}

// HandleWideStrokes reports whether any sub-path parsed since the last
// Reset may have a self-intersecting border: it is set for every
// sub-path whose join is not JoinRound, or that is open with CapButt,
// and for any corner too tight for the configured join relative to the
// stroke width. The caller should rasterize the
// result with the even-odd fill rule when this is true (spec's
// wide-stroke degeneracy rule): the self-overlap then cancels out
// instead of darkening.
func (s *Stroker) HandleWideStrokes() bool { return s.handleWideStrokes }

// ParseOutline strokes every contour of o and returns the combined
// border outline (right borders first, then the reversed left borders),
// ready to hand to the rasterizer. o must not begin a contour with a
// CubicControl tag.
func (s *Stroker) ParseOutline(o *outline.Outline) (*outline.Outline, error) {
	for c := 0; c < o.NumContours(); c++ {
		start, end := o.ContourRange(c)
		if end < start {
			continue
		}
		if o.Tags[start] == outline.CubicControl {
			return nil, ErrInvalidStart
		}

		startPt := o.Points[start]
		s.beginSubPath(startPt, o.Opened)

		i := start
		for i < end {
			i++
			switch o.Tags[i] {
			case outline.OnPoint:
				if err := s.lineTo(o.Points[i]); err != nil {
					return nil, err
				}
			case outline.CubicControl:
				if i+1 > end || o.Tags[i+1] != outline.CubicControl {
					return nil, ErrMalformedCubic
				}
				c1, c2 := o.Points[i], o.Points[i+1]
				i += 2
				closing := i > end
				to := startPt
				if !closing {
					to = o.Points[i]
				}
				if err := s.cubicTo(c1, c2, to); err != nil {
					return nil, err
				}
				if closing {
					i = end
				}
			}
		}

		if !s.firstPt {
			if err := s.endSubPath(); err != nil {
				return nil, err
			}
		}
	}

	return mergeBorders(&s.borders[0].out, &s.borders[1].out, s.handleWideStrokes), nil
}

func mergeBorders(right, left *outline.Outline, evenOdd bool) *outline.Outline {
	result := &outline.Outline{Opened: false}
	result.Points = append(result.Points, right.Points...)
	result.Tags = append(result.Tags, right.Tags...)
	result.Contours = append(result.Contours, right.Contours...)

	offset := len(right.Points)
	result.Points = append(result.Points, left.Points...)
	result.Tags = append(result.Tags, left.Tags...)
	for _, c := range left.Contours {
		result.Contours = append(result.Contours, c+offset)
	}

	if evenOdd {
		result.FillRule = outline.EvenOdd
	} else {
		result.FillRule = outline.NonZero
	}
	return result
}

func (s *Stroker) beginSubPath(p fixedmath.Point, opened bool) {
	s.firstPt = true
	s.center = p
	s.subPathOpen = opened
	s.handleWideStrokes = s.handleWideStrokes || s.join != JoinRound || (opened && s.cap == CapButt)
	s.subPathStart = p
	s.angleIn = 0
	s.lineLength = 0

	for side := range s.borders {
		s.borders[side].start = len(s.borders[side].out.Points)
		s.borders[side].movable = false
	}
}

func (s *Stroker) endSubPath() error {
	if s.subPathOpen {
		s.addCap(s.angleIn, 0)
		addReverseLeft(&s.borders[0], &s.borders[1])
		s.center = s.subPathStart
		s.addCap(s.subPathAngle+fixedmath.AnglePi, 0)
		closeBorder(&s.borders[0], false)
		closeBorder(&s.borders[1], false)
		return nil
	}

	if !fixedmath.IsZero(subPt(s.center, s.subPathStart)) {
		if err := s.lineTo(s.subPathStart); err != nil {
			return err
		}
	}

	s.angleOut = s.subPathAngle
	s.closeCorner(s.lineLength)

	closeBorder(&s.borders[0], false)
	closeBorder(&s.borders[1], true)
	return nil
}

// lineTo advances the stroke centreline to to with a straight segment.
func (s *Stroker) lineTo(to fixedmath.Point) error {
	d := subPt(to, s.center)
	if fixedmath.IsSmall(d) {
		return nil
	}
	return s.advanceTo(to, fixedmath.Atan(d), fixedmath.Coord(fixedmath.Length(d)))
}

const maxCubicRecursion = 24

// cubicTo advances the stroke centreline through a cubic Bezier,
// subdividing with fixedmath's SmallCubic flatness test and SplitCubic
// de Casteljau halving, then emitting the two
// resulting chords as ordinary line-to segments (spec §4.4).
func (s *Stroker) cubicTo(c1, c2, to fixedmath.Point) error {
	if fixedmath.IsSmall(subPt(to, s.center)) && fixedmath.IsSmall(subPt(c1, s.center)) && fixedmath.IsSmall(subPt(c2, s.center)) {
		return nil
	}
	return s.subdivideCubic([4]fixedmath.Point{s.center, c1, c2, to}, 0)
}

func (s *Stroker) subdivideCubic(base [4]fixedmath.Point, depth int) error {
	_, angleMid, angleOut, flat := fixedmath.SmallCubic(base)

	var full [7]fixedmath.Point
	full[0], full[1], full[2], full[3] = base[0], base[1], base[2], base[3]
	fixedmath.SplitCubic(&full)
	mid := full[3]

	if !flat && depth < maxCubicRecursion {
		if err := s.subdivideCubic([4]fixedmath.Point{full[0], full[1], full[2], full[3]}, depth+1); err != nil {
			return err
		}
		return s.subdivideCubic([4]fixedmath.Point{full[3], full[4], full[5], full[6]}, depth+1)
	}

	if err := s.advanceTo(mid, angleMid, fixedmath.Coord(fixedmath.Length(subPt(mid, s.center)))); err != nil {
		return err
	}
	return s.advanceTo(base[3], angleOut, fixedmath.Coord(fixedmath.Length(subPt(base[3], mid))))
}

// advanceTo is the shared tail of lineTo and cubicTo's flattened
// chords: close the corner at the old centre (unless this is the first
// point of the sub-path, which is deferred until its angle is known),
// then emit the two new border points at the segment's end.
func (s *Stroker) advanceTo(to fixedmath.Point, angle fixedmath.Fixed, segLen fixedmath.Coord) error {
	if s.firstPt {
		s.subPathAngle = angle
		s.angleIn = angle
		s.firstPt = false
		s.emitBorderPoints(angle, false)
	} else {
		s.angleOut = angle
		s.closeCorner(segLen)
		s.angleIn = angle
	}
	s.center = to
	s.lineLength = segLen
	s.emitBorderPoints(angle, true)
	return nil
}

func (s *Stroker) emitBorderPoints(angle fixedmath.Fixed, movable bool) {
	for side := range s.borders {
		delta := fixedmath.Rotate(fixedmath.Point{X: s.halfWidth}, angle+sideRotate(side))
		borderLineTo(&s.borders[side], addPt(s.center, delta), movable)
	}
}

// closeCorner joins the border at center from angleIn to angleOut,
// dispatching the inside border to the intersect-or-corner rule and the
// outside border to the configured Join. curLen is the length of the
// segment leading into this corner (used, together with the previous
// segment's length, to decide whether the inside border may intersect
// or must fall back to a plain corner).
func (s *Stroker) closeCorner(curLen fixedmath.Coord) {
	turn := fixedmath.Diff(s.angleIn, s.angleOut)
	if turn == 0 {
		return
	}
	theta := turn / 2
	inside := 0
	if turn < 0 {
		inside = 1
	}

	outsideJoin := s.join
	minLen := fixedmath.Coord(abs64(fixedmath.Mul(int64(s.halfWidth), int64(fixedmath.Tan(theta)))))
	if outsideJoin != JoinRound && (s.lineLength < minLen || curLen < minLen) {
		s.handleWideStrokes = true
		outsideJoin = JoinBevel
	}

	s.insideBorder(inside, theta, s.lineLength, curLen)
	s.outsideBorder(1-inside, theta, outsideJoin)
}

func (s *Stroker) insideBorder(side int, theta fixedmath.Fixed, prevLen, curLen fixedmath.Coord) {
	b := &s.borders[side]
	rotate := sideRotate(side)

	intersect := false
	if b.movable && prevLen != 0 && curLen != 0 {
		minLen := fixedmath.Coord(abs64(fixedmath.Mul(int64(s.halfWidth), int64(fixedmath.Tan(theta)))))
		if prevLen >= minLen && curLen >= minLen {
			intersect = true
		}
	}

	var p fixedmath.Point
	if intersect {
		r := fixedmath.Coord(fixedmath.Div(int64(s.halfWidth), int64(fixedmath.Cos(theta))))
		delta := fixedmath.Rotate(fixedmath.Point{X: r}, s.angleIn+theta+rotate)
		p = addPt(s.center, delta)
	} else {
		delta := fixedmath.Rotate(fixedmath.Point{X: s.halfWidth}, s.angleOut+rotate)
		p = addPt(s.center, delta)
		b.movable = false
	}
	borderLineTo(b, p, false)
}

func (s *Stroker) outsideBorder(side int, theta fixedmath.Fixed, join Join) {
	b := &s.borders[side]
	rotate := sideRotate(side)

	switch join {
	case JoinRound:
		s.arcJoin(side)
	case JoinMiter:
		r := fixedmath.Div(int64(s.halfWidth), int64(fixedmath.Cos(theta)))
		if fixedmath.Coord(abs64(r)) <= s.miterLimit {
			delta := fixedmath.Rotate(fixedmath.Point{X: fixedmath.Coord(r)}, s.angleIn+theta+rotate)
			borderLineTo(b, addPt(s.center, delta), false)
			return
		}
		fallthrough
	default: // JoinBevel, or a miter that exceeded its limit
		d1 := fixedmath.Rotate(fixedmath.Point{X: s.halfWidth}, s.angleIn+rotate)
		borderLineTo(b, addPt(s.center, d1), false)
		d2 := fixedmath.Rotate(fixedmath.Point{X: s.halfWidth}, s.angleOut+rotate)
		borderLineTo(b, addPt(s.center, d2), false)
	}
}

// arcJoin fills the exterior angle at center on the given border with a
// CORDIC-rotated fan, stepping finely enough to keep the chord error
// within one Q26.6 unit (see arcSteps).
func (s *Stroker) arcJoin(side int) {
	rotate := sideRotate(side)
	total := fixedmath.Diff(s.angleIn, s.angleOut)
	if total == 0 {
		return
	}
	n := arcSteps(s.halfWidth, total)
	step := total / fixedmath.Fixed(n)
	angle := s.angleIn
	for i := 0; i < n; i++ {
		angle += step
		delta := fixedmath.Rotate(fixedmath.Point{X: s.halfWidth}, angle+rotate)
		borderLineTo(&s.borders[side], addPt(s.center, delta), false)
	}
}

// addCap terminates an open sub-path's end at center/angle on the given
// border side, per the three cap styles of spec §4.4.
func (s *Stroker) addCap(angle fixedmath.Fixed, side int) {
	switch s.cap {
	case CapSquare:
		rotate := sideRotate(side)
		d1 := fixedmath.Rotate(fixedmath.Point{X: s.halfWidth}, angle)
		d2 := fixedmath.Rotate(fixedmath.Point{X: s.halfWidth}, angle+rotate)
		borderLineTo(&s.borders[side], addPt(addPt(s.center, d1), d2), false)

		d1 = fixedmath.Rotate(fixedmath.Point{X: s.halfWidth}, angle)
		d2 = fixedmath.Rotate(fixedmath.Point{X: s.halfWidth}, angle-rotate)
		borderLineTo(&s.borders[side], addPt(addPt(s.center, d1), d2), false)

	case CapRound:
		savedIn, savedOut := s.angleIn, s.angleOut
		s.angleIn = angle
		s.angleOut = angle + fixedmath.AnglePi
		s.arcJoin(side)
		s.angleIn, s.angleOut = savedIn, savedOut

	default: // CapButt
		rotate := sideRotate(side)
		d := fixedmath.Rotate(fixedmath.Point{X: s.halfWidth}, angle+rotate)
		borderLineTo(&s.borders[side], addPt(s.center, d), false)
		d = fixedmath.Rotate(fixedmath.Point{X: s.halfWidth}, angle-rotate)
		borderLineTo(&s.borders[side], addPt(s.center, d), false)
	}
}

// sideRotate returns the rotation applied to (w,0) to reach side's
// border point: +90 degrees for the right border (side 0), -90 for the
// left (side 1).
func sideRotate(side int) fixedmath.Fixed {
	if side == 0 {
		return fixedmath.AnglePi2
	}
	return -fixedmath.AnglePi2
}

// arcSteps returns the number of equal-angle sub-steps needed to keep
// the sagitta of a halfWidth-radius arc spanning total below one Q26.6
// unit (1/64 pixel): sagitta ~= r*(1-cos(halfstep)) ~= r*halfstep^2/2
// for small angles, so halfstep <= sqrt(2/(64*r)).
func arcSteps(halfWidth fixedmath.Coord, total fixedmath.Fixed) int {
	r := float64(halfWidth) / 64.0
	if r <= 0 {
		return 1
	}
	angle := math.Abs(float64(total)) / 65536.0 * (math.Pi / 180.0)
	if angle == 0 {
		return 1
	}
	maxHalfStep := math.Sqrt(2.0 / (64.0 * r))
	n := int(math.Ceil(angle / (2 * maxHalfStep)))
	if n < 1 {
		n = 1
	}
	if n > 4096 {
		n = 4096
	}
	return n
}

func addPt(a, b fixedmath.Point) fixedmath.Point {
	return fixedmath.Point{X: a.X + b.X, Y: a.Y + b.Y}
}

func subPt(a, b fixedmath.Point) fixedmath.Point {
	return fixedmath.Point{X: a.X - b.X, Y: a.Y - b.Y}
}

func abs32(x int32) int32 {
	if x < 0 {
		return -x
	}
	return x
}

func abs64(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}
