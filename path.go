package rasterix

import (
	"github.com/agg-go/rasterix/internal/fixedmath"
	"github.com/agg-go/rasterix/internal/outline"
)

// FillRule selects how overlapping sub-paths of a Path combine.
type FillRule = outline.FillRule

const (
	NonZero = outline.NonZero
	EvenOdd = outline.EvenOdd
)

// Path is a caller-built outline in local (pre-transform) floating
// point coordinates, built with the same verbs a canvas path builder
// exposes. Passing the zero value's address to PrepareShape draws
// nothing; call MoveTo first.
type Path struct {
	o    outline.Outline
	x, y float64
}

// NewPath returns an empty path with the given fill rule.
func NewPath(rule FillRule) *Path {
	p := &Path{}
	p.o.FillRule = rule
	return p
}

// MoveTo starts a new contour at (x,y).
func (p *Path) MoveTo(x, y float64) *Path {
	p.o.MoveTo(pointAt(x, y))
	p.x, p.y = x, y
	return p
}

// LineTo appends a straight segment to (x,y).
func (p *Path) LineTo(x, y float64) *Path {
	p.o.LineTo(pointAt(x, y))
	p.x, p.y = x, y
	return p
}

// CubicTo appends a cubic Bezier segment through two control points to
// (x,y).
func (p *Path) CubicTo(x1, y1, x2, y2, x, y float64) *Path {
	p.o.CubicTo(pointAt(x1, y1), pointAt(x2, y2), pointAt(x, y))
	p.x, p.y = x, y
	return p
}

// Close finalizes the current contour, connecting back to its start.
func (p *Path) Close() *Path {
	p.o.Close()
	return p
}

// Open marks the path's contours as not implicitly closed (an open
// sub-path's start and end need not coincide), relevant to dash/cap
// rendering of a stroke built over this path.
func (p *Path) Open() *Path {
	p.o.Opened = true
	return p
}

func pointAt(x, y float64) fixedmath.Point {
	return fixedmath.Point{X: fixedmath.ToCoord(x), Y: fixedmath.ToCoord(y)}
}

// Rect returns a closed rectangular path from (x0,y0) to (x1,y1).
func Rect(x0, y0, x1, y1 float64) *Path {
	return NewPath(NonZero).MoveTo(x0, y0).LineTo(x1, y0).LineTo(x1, y1).LineTo(x0, y1).Close()
}
