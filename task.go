package rasterix

import "github.com/agg-go/rasterix/internal/engine"

// Flags is the update bitmask passed to Prepare (spec §6/§4.8): it
// drives which parts of a Task's pipeline re-run rather than reuse the
// previous job's RLE/color-table output on the next render.
type Flags = engine.Flags

const (
	FlagNone           = engine.FlagNone
	FlagPath           = engine.FlagPath
	FlagTransform      = engine.FlagTransform
	FlagColor          = engine.FlagColor
	FlagGradient       = engine.FlagGradient
	FlagStroke         = engine.FlagStroke
	FlagGradientStroke = engine.FlagGradientStroke
	FlagImage          = engine.FlagImage
)

// Task is an opaque handle to one prepared shape or image render job
// (spec §4.8/§6). It owns at most one outline, one fill, one stroke,
// and their RLE output; Dispose releases all of it.
type Task struct{ t *engine.Task }

// ID returns the task's stable handle value.
func (t *Task) ID() uint64 { return t.t.ID() }

// ImageData is a caller-owned source image plus its local view box (an
// axis-aligned W×H rectangle at the origin, mapped into device space by
// the task's transform).
type ImageData = engine.ImageData

// PrepareShape registers a shape render job (spec §6's
// prepare(shape, data, transform, opacity, clips, flags)). clips are
// previously prepared shape tasks whose coverage narrows this one's;
// they must already have been rendered (or run via an internal
// pre-pass) so their RLE is available to intersect against.
func (r *Engine) PrepareShape(p *Path, fill *Fill, stroke *Stroke, tid int, tr Transform, opacity uint8, clips []*Task, flags Flags) (*Task, error) {
	t, err := r.e.PrepareShape(&p.o, fill.desc(), stroke.desc(), tid, tr, opacity, unwrapClips(clips), flags)
	if err != nil {
		return nil, err
	}
	return &Task{t: t}, nil
}

// PrepareImage registers an image render job (spec §6's
// prepare(picture, data, transform, opacity, clips, flags)).
func (r *Engine) PrepareImage(img *ImageData, tid int, tr Transform, opacity uint8, clips []*Task, flags Flags) (*Task, error) {
	t, err := r.e.PrepareImage(img, tid, tr, opacity, unwrapClips(clips), flags)
	if err != nil {
		return nil, err
	}
	return &Task{t: t}, nil
}

func unwrapClips(clips []*Task) []*engine.Task {
	if len(clips) == 0 {
		return nil
	}
	out := make([]*engine.Task, len(clips))
	for i, c := range clips {
		out[i] = c.t
	}
	return out
}

// Region returns t's last-rendered bounding box in device pixels (spec
// §6's region()).
func (r *Engine) Region(t *Task) RenderRegion { return r.e.Region(t.t) }

// RenderRegion is the device-pixel bounding box a rendered task last
// touched.
type RenderRegion = engine.RenderRegion
