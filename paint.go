package rasterix

import (
	"github.com/agg-go/rasterix/internal/engine"
	"github.com/agg-go/rasterix/internal/gradient"
	"github.com/agg-go/rasterix/internal/stroke"
)

// Spread selects how a gradient sample position outside [0,1) maps
// back into its color table.
type Spread = gradient.Spread

const (
	Pad     = gradient.Pad
	Repeat  = gradient.Repeat
	Reflect = gradient.Reflect
)

// ColorStop is one entry of a gradient's stop list, in straight alpha.
type ColorStop = gradient.ColorStop

// Cap selects the shape a stroke's open endpoints are capped with.
type Cap = stroke.Cap

const (
	CapButt   = stroke.CapButt
	CapRound  = stroke.CapRound
	CapSquare = stroke.CapSquare
)

// Join selects the shape a stroke's corners are joined with.
type Join = stroke.Join

const (
	JoinMiter = stroke.JoinMiter
	JoinRound = stroke.JoinRound
	JoinBevel = stroke.JoinBevel
)

// Dash describes a stroke's on/off pattern; a zero value (nil Pattern)
// means no dashing.
type Dash = stroke.Dash

// Fill is a caller-facing paint description, expressed in the shape's
// own local coordinate space; it is transformed into device space (and,
// for gradients, into a color table and sampler) by the engine on each
// rebuild whose flags mark it stale.
type Fill struct {
	d engine.FillDesc
}

// SolidFill returns an opaque or translucent flat color paint.
func SolidFill(r, g, b, a uint8) *Fill {
	return &Fill{d: engine.FillDesc{Kind: engine.FillSolid, R: r, G: g, B: b, A: a}}
}

// LinearGradientFill returns a paint that varies along the line from
// (x1,y1) to (x2,y2), local space.
func LinearGradientFill(x1, y1, x2, y2 float64, stops []ColorStop, spread Spread) *Fill {
	return &Fill{d: engine.FillDesc{
		Kind: engine.FillLinear, Stops: stops, Spread: spread,
		X1: x1, Y1: y1, X2: x2, Y2: y2,
	}}
}

// RadialGradientFill returns a paint that varies radially outward from
// (cx,cy) with the given radius, local space.
func RadialGradientFill(cx, cy, radius float64, stops []ColorStop, spread Spread) *Fill {
	return &Fill{d: engine.FillDesc{
		Kind: engine.FillRadial, Stops: stops, Spread: spread,
		Cx: cx, Cy: cy, Radius: radius,
	}}
}

func (f *Fill) desc() *engine.FillDesc {
	if f == nil {
		return nil
	}
	return &f.d
}

// Stroke is a caller-facing stroke description: geometry plus the paint
// used to fill the resulting border outline.
type Stroke struct {
	d engine.StrokeDesc
}

// NewStroke returns a Stroke of the given full width, cap, join, miter
// limit, dash pattern, and fill paint.
func NewStroke(width float64, cap Cap, join Join, miterLimit float64, dash Dash, fill *Fill) *Stroke {
	s := &Stroke{d: engine.StrokeDesc{
		Width: width, Cap: cap, Join: join, MiterLimit: miterLimit, Dash: dash,
	}}
	if fill != nil {
		s.d.Fill = fill.d
	}
	return s
}

func (s *Stroke) desc() *engine.StrokeDesc {
	if s == nil {
		return nil
	}
	return &s.d
}
