// Package rasterix is a software 2D vector-graphics rasterizer core: a
// path-to-RLE rasterizer, stroker, gradient color-table sampler, and
// compositor/blender, driven through the single render trait described
// below. It renders paths and images onto a caller-owned pixel buffer;
// it does not parse SVG or Lottie, has no scene graph, and does not
// touch the GPU — those are outer layers built on top of this core.
//
// The package is organized into focused, domain-specific files:
//
//   - rasterix.go   - Engine construction, target/viewport/sync (this file)
//   - path.go       - Path construction (MoveTo/LineTo/CubicTo/Close)
//   - task.go       - Task preparation (prepare(shape, ...), prepare(picture, ...)) and region queries
//   - paint.go      - Fill and stroke paint descriptors
//   - composite.go  - Begin/end composite
//
// Basic usage:
//
//	r := rasterix.New(1, nil)
//	_ = r.Target(buf, w, w, h, rasterix.ARGB8888)
//	square := rasterix.Rect(10, 10, 90, 90)
//	task, _ := r.PrepareShape(square, rasterix.SolidFill(255, 0, 0, 255), nil, 0, rasterix.Identity, 255, nil, rasterix.FlagNone)
//	_ = r.PreRender()
//	_ = r.RenderShape(task)
//	_ = r.PostRender()
//	_ = r.Sync()
package rasterix

import (
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"

	"github.com/agg-go/rasterix/internal/engine"
	"github.com/agg-go/rasterix/internal/pixel"
)

// ColorSpace selects the channel order and premultiplication state of
// an attached target (spec §6's target colorspace).
type ColorSpace = pixel.ColorSpace

const (
	ABGR8888  = pixel.ABGR8888
	ARGB8888  = pixel.ARGB8888
	ABGR8888S = pixel.ABGR8888S
	ARGB8888S = pixel.ARGB8888S
)

// Identity is the no-op transform, re-exported for callers that don't
// otherwise depend on seehuhn.de/go/geom/matrix.
var Identity = matrix.Identity

// Transform is the affine map every prepared task carries.
type Transform = matrix.Matrix

// Viewport is the caller-facing clip rectangle (PDF-style, lower-left
// origin, y-up), re-exported for callers that don't otherwise depend on
// seehuhn.de/go/geom/rect.
type Viewport = rect.Rect

// Logger receives non-fatal render diagnostics (spec §7's warning-only
// failure modes: saturated spans, degenerate fills, dropped images). A
// nil Logger passed to New installs a no-op default.
type Logger = engine.Logger

// NewStdLogger returns a Logger that writes through the standard
// library's log.Default().
func NewStdLogger() Logger { return engine.NewStdLogger() }

// Sentinel error kinds (spec §7); callers match with errors.Is.
var (
	ErrInvalidArguments      = engine.ErrInvalidArguments
	ErrNonSupport            = engine.ErrNonSupport
	ErrInsufficientCondition = engine.ErrInsufficientCondition
	ErrMemoryCorruption      = engine.ErrMemoryCorruption
	ErrUnknown               = engine.ErrUnknown
)

// Engine is the render context exposed to the outer canvas (spec §6's
// "single render method trait"): one attached target Surface, the
// prepared-task registry, and the active compositor stack.
type Engine struct {
	e *engine.Engine
}

// New creates an Engine with a pool sized for threads concurrent render
// jobs (spec §5's shared-resource model). A nil logger installs a
// no-op default.
func New(threads int, logger Logger) *Engine {
	return &Engine{e: engine.NewEngine(threads, logger)}
}

// Target attaches a pixel buffer as the render destination (spec §6's
// target()). buf must hold at least stride*h pixels, stored pre-
// multiplied except for the "_S" straight colorspaces, which are only
// unpremultiplied by Sync on output.
func (r *Engine) Target(buf []uint32, stride, w, h int, cs ColorSpace) error {
	return r.e.Target(buf, stride, w, h, cs)
}

// Viewport returns the current clip viewport.
func (r *Engine) Viewport() Viewport { return r.e.Viewport() }

// SetViewport narrows the clip viewport to region, intersected with the
// attached surface's bounds (spec §6's viewport(region)). Shapes
// outside the resulting rectangle are skipped; shapes inside have their
// bbox intersected with it for clipping.
func (r *Engine) SetViewport(region Viewport) error { return r.e.SetViewport(region) }

// Sync finalises the current frame (spec §6's sync()): when the target
// colorspace is one of the "_S" straight variants, every pixel is
// unpremultiplied before the caller reads the buffer back out. Calling
// PreRender again before the previous frame's Sync returns
// ErrInsufficientCondition.
func (r *Engine) Sync() error { return r.e.Sync() }

// Clear fills the attached surface with transparent black (spec §6's
// clear()).
func (r *Engine) Clear() error { return r.e.Clear() }

// PreRender validates that a target is attached and the previous frame
// was synced; call once before a batch of RenderShape/RenderImage calls.
func (r *Engine) PreRender() error { return r.e.PreRender() }

// PostRender is PreRender's matching bracket, called once after a batch
// of render calls.
func (r *Engine) PostRender() error { return r.e.PostRender() }

// RenderShape draws a prepared shape task onto the active surface (the
// top of the begin/end composite stack, or the attached target).
func (r *Engine) RenderShape(t *Task) error { return r.e.RenderShape(t.t) }

// RenderImage draws a prepared image task onto the active surface.
func (r *Engine) RenderImage(t *Task) error { return r.e.RenderImage(t.t) }

// Dispose releases a task's pooled resources and forgets its handle
// (spec §6's dispose()).
func (r *Engine) Dispose(t *Task) error {
	if t == nil {
		return nil
	}
	return r.e.Dispose(t.t)
}
