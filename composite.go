package rasterix

import "github.com/agg-go/rasterix/internal/engine"

// CompositeMethod selects how a rendered mask modulates a subsequent
// composite operation (spec §6).
type CompositeMethod = engine.CompositeMethod

const (
	CompositeNone         = engine.CompositeNone
	CompositeAlphaMask    = engine.CompositeAlphaMask
	CompositeInvAlphaMask = engine.CompositeInvAlphaMask
)

// BeginComposite pushes a scratch off-screen surface that subsequent
// RenderShape/RenderImage calls draw into, to be flattened back onto
// the previous surface by EndComposite at opacity, using method to
// decide whether (and how) the scratch's own coverage modulates the
// blend (spec §6/§3's Compositor).
func (r *Engine) BeginComposite(method CompositeMethod, opacity uint8) (int, error) {
	return r.e.BeginComposite(method, opacity)
}

// EndComposite flattens the composite layer identified by id, returned
// by the matching BeginComposite, back onto the surface it was pushed
// from.
func (r *Engine) EndComposite(id int) error { return r.e.EndComposite(id) }
