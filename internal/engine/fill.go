package engine

import (
	"github.com/agg-go/rasterix/internal/gradient"
	"github.com/agg-go/rasterix/internal/stroke"
)

// FillKind selects which member of FillDesc is populated.
type FillKind int

const (
	FillSolid FillKind = iota
	FillLinear
	FillRadial
)

// FillDesc is the caller-facing paint description handed to Prepare; it
// is expressed in the shape's own local coordinate space and is
// transformed into device space (and, for gradients, into a color
// table and sampler) by the engine on each rebuild (spec §4.3/§4.8).
type FillDesc struct {
	Kind FillKind

	// Solid
	R, G, B, A uint8

	// Linear / Radial
	Stops  []gradient.ColorStop
	Spread gradient.Spread

	// Linear endpoints, local space.
	X1, Y1, X2, Y2 float64

	// Radial centre/radius, local space.
	Cx, Cy, Radius float64
}

// StrokeDesc is the caller-facing stroke description: geometry plus the
// paint used to fill the resulting border outline.
type StrokeDesc struct {
	Width      float64
	Cap        stroke.Cap
	Join       stroke.Join
	MiterLimit float64
	Dash       stroke.Dash // zero value (nil Pattern) means no dashing
	Fill       FillDesc
}
