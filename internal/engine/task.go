package engine

import (
	"seehuhn.de/go/geom/matrix"

	"github.com/agg-go/rasterix/internal/gradient"
	"github.com/agg-go/rasterix/internal/outline"
	"github.com/agg-go/rasterix/internal/rle"
)

// TaskKind selects whether a Task renders a shape or an image.
type TaskKind int

const (
	TaskShape TaskKind = iota
	TaskImage
)

// ImageData is the caller-owned source image plus its local view box
// (an axis-aligned W×H rectangle at the origin, mapped into device
// space by the task's transform, spec §4.8's run_image_task).
type ImageData struct {
	Pix  []uint32 // pre-multiplied, same channel order as the target Surface
	W, H int
}

// Task is an opaque handle to one prepared shape or image render job
// (spec §4.8 and §6). It owns at most one outline, one fill, one
// stroke, and their RLE output; Dispose releases all of it.
type Task struct {
	id   uint64
	kind TaskKind
	tid  int

	transform matrix.Matrix
	opacity   uint8
	clips     []*Task
	flags     Flags

	// Shape state (TaskShape).
	outline    *outline.Outline // caller-owned source path, local space
	fill       *FillDesc
	strokeDesc *StrokeDesc

	shapeRLE  *rle.Data
	strokeRLE *rle.Data
	bbox      rle.BBox
	visible   bool

	fillTable       gradient.Table
	fillTranslucent bool
	fillLinear      gradient.Linear
	fillRadial      gradient.Radial

	strokeTable       gradient.Table
	strokeTranslucent bool
	strokeLinear      gradient.Linear
	strokeRadial      gradient.Radial

	cmpStroking bool

	// Image state (TaskImage).
	image        *ImageData
	imageInverse matrix.Matrix
	imageScale   float64
	imageRLE     *rle.Data
}

// ID returns the task's stable handle value.
func (t *Task) ID() uint64 { return t.id }

// RenderRegion is the device-pixel bounding box a rendered task last
// touched (spec §6's region()).
type RenderRegion struct {
	X0, Y0, X1, Y1 int
}
