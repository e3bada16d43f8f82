package engine

import (
	"math"

	"seehuhn.de/go/geom/matrix"

	"github.com/agg-go/rasterix/internal/composite"
	"github.com/agg-go/rasterix/internal/fixedmath"
)

// toComposite converts a geom matrix into the compositor's own 2x3
// affine type (see DESIGN.md: matrix.Matrix's field layout could not be
// confirmed against any vendored source, so it is treated as
// array-indexable in the PDF a,b,c,d,e,f order its constructors use).
func toComposite(m matrix.Matrix) composite.Transform {
	return composite.Transform{A: m[0], B: m[1], C: m[2], D: m[3], E: m[4], F: m[5]}
}

// applyFloat maps a local-space point through m.
func applyFloat(m matrix.Matrix, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// transformPoint maps a Q26.6 outline point through m.
func transformPoint(m matrix.Matrix, p fixedmath.Point) fixedmath.Point {
	x, y := applyFloat(m, float64(p.X)/64, float64(p.Y)/64)
	return fixedmath.Point{X: fixedmath.Coord(math.Round(x * 64)), Y: fixedmath.Coord(math.Round(y * 64))}
}

// axisScales returns the reciprocals of the lengths of m's column
// vectors: FetchRadial multiplies a sampled point's offset from centre
// by these before squaring, so an axis stretched by k in device space
// is compressed back by 1/k, keeping the gradient circular in local
// space under anisotropic transforms (tvgSwFill.cpp's _prepareRadial
// sx/sy).
func axisScales(m matrix.Matrix) (sx, sy float64) {
	lx := math.Hypot(m[0], m[1])
	ly := math.Hypot(m[2], m[3])
	if lx < 1e-9 {
		lx = 1
	}
	if ly < 1e-9 {
		ly = 1
	}
	return 1 / lx, 1 / ly
}
