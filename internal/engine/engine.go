// Package engine is the job-orchestration layer (spec §4.8): it owns
// the target Surface, the per-thread outline pool, the compositor
// stack, and the prepare/dispose/render lifecycle that sequences the
// lower packages (outline, stroke, raster, rle, gradient, pixel,
// composite) into a correct render for one shape, stroke, or image.
package engine

import (
	"fmt"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"

	"github.com/agg-go/rasterix/internal/composite"
	"github.com/agg-go/rasterix/internal/outline"
	"github.com/agg-go/rasterix/internal/pixel"
	"github.com/agg-go/rasterix/internal/rle"
)

// compositorState is one entry of the begin/end composite stack (spec
// §3's Compositor: a scratch image, the region it covers, the
// compositing method, and the surface to restore on EndComposite).
type compositorState struct {
	id      int
	prev    *pixel.Surface
	scratch *pixel.Surface
	bbox    rle.BBox
	method  CompositeMethod
	opacity uint8
}

// Engine is the render context: one attached target Surface, one
// outline pool shared by every prepared task, and the compositor stack
// active for the current frame (spec §5's shared-resource model).
type Engine struct {
	logger Logger
	pool   *outline.Pool

	surface  *pixel.Surface
	viewport rle.BBox
	synced   bool

	tasks   map[uint64]*Task
	nextID  uint64
	nextCmp int

	compositors []*compositorState
}

// NewEngine creates an Engine with a pool sized for threads concurrent
// render jobs (spec §4.2/§5). A nil logger installs the no-op default.
func NewEngine(threads int, logger Logger) *Engine {
	if threads < 1 {
		threads = 1
	}
	if logger == nil {
		logger = noopLogger{}
	}
	return &Engine{
		logger: logger,
		pool:   outline.NewPool(threads),
		tasks:  make(map[uint64]*Task),
		synced: true,
	}
}

// Target attaches a pixel buffer as the render destination (spec §6's
// target()). buf must hold at least stride*h pixels.
func (e *Engine) Target(buf []uint32, stride, w, h int, cs pixel.ColorSpace) error {
	if buf == nil || w <= 0 || h <= 0 || stride < w || len(buf) < stride*h {
		return fmt.Errorf("engine: attach target %dx%d stride %d, buffer len %d: %w", w, h, stride, len(buf), ErrInvalidArguments)
	}
	e.surface = &pixel.Surface{Pix: buf, W: w, H: h, Stride: stride, Space: cs}
	e.viewport = rle.BBox{MinX: 0, MinY: 0, MaxX: int16(w), MaxY: int16(h)}
	e.synced = true
	return nil
}

// Viewport returns the current clip viewport in the PDF-style rect
// convention (lower-left/upper-right, y-up) used across the pack.
func (e *Engine) Viewport() rect.Rect {
	if e.surface == nil {
		return rect.Rect{}
	}
	return rect.Rect{
		LLx: float64(e.viewport.MinX), LLy: float64(e.surface.H - int(e.viewport.MaxY)),
		URx: float64(e.viewport.MaxX), URy: float64(e.surface.H - int(e.viewport.MinY)),
	}
}

// SetViewport narrows the clip viewport to region, intersected with the
// attached surface's bounds (spec §6's viewport(region)).
func (e *Engine) SetViewport(region rect.Rect) error {
	if e.surface == nil {
		return fmt.Errorf("engine: set viewport before target: %w", ErrInsufficientCondition)
	}
	h := e.surface.H
	box := rle.BBox{
		MinX: int16(region.LLx), MinY: int16(float64(h) - region.URy),
		MaxX: int16(region.URx), MaxY: int16(float64(h) - region.LLy),
	}
	if box.MinX < 0 {
		box.MinX = 0
	}
	if box.MinY < 0 {
		box.MinY = 0
	}
	if box.MaxX > int16(e.surface.W) {
		box.MaxX = int16(e.surface.W)
	}
	if box.MaxY > int16(h) {
		box.MaxY = int16(h)
	}
	e.viewport = box
	return nil
}

// Sync finalises the current frame (spec §6's sync()): when the target
// colorspace is one of the "_S" straight variants it runs a final
// Unpremultiply pass over every pixel, matching §9's documented clamp
// behaviour.
func (e *Engine) Sync() error {
	if e.surface == nil {
		return fmt.Errorf("engine: sync with no target attached: %w", ErrInsufficientCondition)
	}
	if e.surface.Space.Straight() {
		for y := 0; y < e.surface.H; y++ {
			row := e.surface.Row(y)
			for x, c := range row {
				row[x] = pixel.Unpremultiply(e.surface.Space, c)
			}
		}
	}
	e.synced = true
	return nil
}

// Clear fills the attached surface with transparent black (spec §6's
// clear()).
func (e *Engine) Clear() error {
	if e.surface == nil {
		return fmt.Errorf("engine: clear with no target attached: %w", ErrInsufficientCondition)
	}
	e.surface.Clear(0)
	e.synced = true
	return nil
}

// PrepareShape registers a shape render job (spec §6's prepare(shape, ...)).
func (e *Engine) PrepareShape(o *outline.Outline, fill *FillDesc, stroke *StrokeDesc, tid int, tr matrix.Matrix, opacity uint8, clips []*Task, flags Flags) (*Task, error) {
	if o == nil || o.NumContours() == 0 {
		return nil, fmt.Errorf("engine: prepare shape with empty outline: %w", ErrInvalidArguments)
	}
	if err := o.Validate(); err != nil {
		return nil, fmt.Errorf("engine: prepare shape: %w: %w", err, ErrInvalidArguments)
	}
	t := &Task{
		kind: TaskShape, tid: tid,
		transform: tr, opacity: opacity, clips: clips, flags: flags | FlagPath,
		outline: o, fill: fill, strokeDesc: stroke,
	}
	return e.register(t)
}

// PrepareImage registers an image render job (spec §6's prepare(picture, ...)).
func (e *Engine) PrepareImage(img *ImageData, tid int, tr matrix.Matrix, opacity uint8, clips []*Task, flags Flags) (*Task, error) {
	if img == nil || img.W <= 0 || img.H <= 0 || len(img.Pix) < img.W*img.H {
		return nil, fmt.Errorf("engine: prepare image %v: %w", img, ErrInvalidArguments)
	}
	t := &Task{
		kind: TaskImage, tid: tid,
		transform: tr, opacity: opacity, clips: clips, flags: flags | FlagPath,
		image: img,
	}
	return e.register(t)
}

func (e *Engine) register(t *Task) (*Task, error) {
	e.nextID++
	t.id = e.nextID
	e.tasks[t.id] = t
	return t, nil
}

// Dispose releases t's pooled resources and forgets its handle (spec
// §6's dispose()).
func (e *Engine) Dispose(t *Task) error {
	if t == nil {
		return nil
	}
	delete(e.tasks, t.id)
	return nil
}

// PreRender validates that a target is attached and the previous frame
// was synced (spec §7's InsufficientCondition).
func (e *Engine) PreRender() error {
	if e.surface == nil {
		return fmt.Errorf("engine: render with no target attached: %w", ErrInsufficientCondition)
	}
	if !e.synced {
		return fmt.Errorf("engine: render before previous draw was synced: %w", ErrInsufficientCondition)
	}
	e.synced = false
	return nil
}

// PostRender is the matching bracket to PreRender; the software core
// has no deferred work to flush, but the hook exists so back-ends that
// batch GPU commands have a place to do it (spec §6).
func (e *Engine) PostRender() error {
	return nil
}

// activeSurface returns the current composite target: the top of the
// compositor stack if one is active, otherwise the attached surface.
func (e *Engine) activeSurface() *pixel.Surface {
	if n := len(e.compositors); n > 0 {
		return e.compositors[n-1].scratch
	}
	return e.surface
}

// RenderShape draws t onto the active surface (spec §4.8's
// compositing-at-render-time rules): a task whose fill and stroke would
// otherwise both blend translucently first composites into an
// off-screen scratch surface at full opacity, then blends that once.
func (e *Engine) RenderShape(t *Task) error {
	if err := e.runShapeTask(t); err != nil {
		return err
	}
	if !t.visible {
		return nil
	}

	dst := e.activeSurface()

	if t.cmpStroking {
		scratch := pixel.NewSurface(e.surface.W, e.surface.H, e.surface.Space)
		e.drawShapeInto(t, scratch, 255, nil)
		blendSurfaceRegion(dst, scratch, t.bbox, t.opacity)
		return nil
	}

	e.drawShapeInto(t, dst, t.opacity, nil)
	return nil
}

// drawShapeInto draws t's fill then stroke into dst at opacity,
// honouring mask (spec §4.8: "draw fill then stroke directly").
func (e *Engine) drawShapeInto(t *Task, dst *pixel.Surface, opacity uint8, mask *composite.Mask) {
	if t.fill != nil && t.shapeRLE != nil && t.shapeRLE.Size() > 0 {
		fill := e.fillOf(t.fill, &t.fillTable, t.fillLinear, t.fillRadial)
		composite.DrawRLE(dst, t.shapeRLE, fill, opacity, mask)
	}
	if t.strokeDesc != nil && t.strokeRLE != nil && t.strokeRLE.Size() > 0 {
		fill := e.fillOf(&t.strokeDesc.Fill, &t.strokeTable, t.strokeLinear, t.strokeRadial)
		composite.DrawRLE(dst, t.strokeRLE, fill, opacity, mask)
	}
}

// blendSurfaceRegion composites src over dst inside box at opacity,
// used to flatten an off-screen cmpStroking scratch (spec §4.8).
func blendSurfaceRegion(dst, src *pixel.Surface, box rle.BBox, opacity uint8) {
	for y := int(box.MinY); y < int(box.MaxY); y++ {
		if y < 0 || y >= dst.H {
			continue
		}
		dstRow := dst.Row(y)
		srcRow := src.Row(y)
		for x := int(box.MinX); x < int(box.MaxX); x++ {
			if x < 0 || x >= dst.W {
				continue
			}
			c := srcRow[x]
			if opacity != 255 {
				c = pixel.AlphaBlend(c, opacity)
			}
			dstRow[x] = pixel.SourceOver(dstRow[x], c)
		}
	}
}

// RenderImage draws t's image onto the active surface via
// internal/composite's DrawImage (spec §4.8's run_image_task /
// compositing-at-render-time).
func (e *Engine) RenderImage(t *Task) error {
	if err := e.runImageTask(t); err != nil {
		return err
	}
	if !t.visible || t.imageRLE == nil || t.imageRLE.Size() == 0 {
		return nil
	}
	composite.DrawImage(e.activeSurface(), t.imageRLE, e.imageFill(t), t.opacity, nil)
	return nil
}

// BeginComposite pushes a scratch off-screen surface that subsequent
// RenderShape/RenderImage calls draw into, to be flattened back onto
// the previous surface by EndComposite (spec §6/§3's Compositor).
func (e *Engine) BeginComposite(method CompositeMethod, opacity uint8) (int, error) {
	if e.surface == nil {
		return 0, fmt.Errorf("engine: begin composite with no target attached: %w", ErrInsufficientCondition)
	}
	e.nextCmp++
	cs := &compositorState{
		id:      e.nextCmp,
		prev:    e.activeSurface(),
		scratch: pixel.NewSurface(e.surface.W, e.surface.H, e.surface.Space),
		bbox:    e.viewport,
		method:  method,
		opacity: opacity,
	}
	e.compositors = append(e.compositors, cs)
	return cs.id, nil
}

// EndComposite flattens the top compositor layer's scratch surface back
// onto the surface it was pushed from, using method to decide how (if
// at all) the scratch's own alpha modulates the blend, then pops the
// stack (spec §3/§6).
func (e *Engine) EndComposite(id int) error {
	n := len(e.compositors)
	if n == 0 || e.compositors[n-1].id != id {
		return fmt.Errorf("engine: end composite %d: no matching begin: %w", id, ErrInvalidArguments)
	}
	cs := e.compositors[n-1]
	e.compositors = e.compositors[:n-1]

	var mask *composite.Mask
	if cs.method != CompositeNone {
		mm := composite.AlphaMask
		if cs.method == CompositeInvAlphaMask {
			mm = composite.InvAlphaMask
		}
		mask = &composite.Mask{Method: mm, Image: cs.scratch}
	}
	if mask != nil {
		// The scratch itself is both source and mask reference; blend
		// it over cs.prev using its own coverage as the mask.
		blendSurfaceRegionMasked(cs.prev, cs.scratch, cs.bbox, cs.opacity, mask)
		return nil
	}
	blendSurfaceRegion(cs.prev, cs.scratch, cs.bbox, cs.opacity)
	return nil
}

func blendSurfaceRegionMasked(dst, src *pixel.Surface, box rle.BBox, opacity uint8, mask *composite.Mask) {
	for y := int(box.MinY); y < int(box.MaxY); y++ {
		if y < 0 || y >= dst.H {
			continue
		}
		dstRow := dst.Row(y)
		srcRow := src.Row(y)
		maskRow := mask.Image.Row(y)
		for x := int(box.MinX); x < int(box.MaxX); x++ {
			if x < 0 || x >= dst.W {
				continue
			}
			c := srcRow[x]
			if opacity != 255 {
				c = pixel.AlphaBlend(c, opacity)
			}
			var ma uint8
			if mask.Method == composite.AlphaMask {
				ma = pixel.Alpha(maskRow[x])
			} else {
				ma = pixel.InvAlpha(maskRow[x])
			}
			c = pixel.AlphaBlend(c, ma)
			dstRow[x] = pixel.SourceOver(dstRow[x], c)
		}
	}
}

// Region returns t's last-rendered bounding box in device pixels (spec
// §6's region()).
func (e *Engine) Region(t *Task) RenderRegion {
	return RenderRegion{X0: int(t.bbox.MinX), Y0: int(t.bbox.MinY), X1: int(t.bbox.MaxX), Y1: int(t.bbox.MaxY)}
}
