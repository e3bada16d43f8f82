package engine

import (
	"math"

	"github.com/agg-go/rasterix/internal/composite"
	"github.com/agg-go/rasterix/internal/fixedmath"
	"github.com/agg-go/rasterix/internal/outline"
	"github.com/agg-go/rasterix/internal/raster"
	"github.com/agg-go/rasterix/internal/rle"
)

// runImageTask executes spec §4.8's run_image_task flow: a rectangular
// outline at the image's view box is prepared exactly like a shape
// (minus fill/stroke rebuilding), RLE is only generated when clips are
// present — an unclipped image draws through its bbox directly via the
// rect fast-track.
func (e *Engine) runImageTask(t *Task) error {
	if t.opacity == 0 {
		t.visible = false
		return nil
	}
	t.visible = true

	rectOutline := &outline.Outline{}
	rectOutline.MoveTo(transformPoint(t.transform, pt(0, 0)))
	rectOutline.LineTo(transformPoint(t.transform, pt(float64(t.image.W), 0)))
	rectOutline.LineTo(transformPoint(t.transform, pt(float64(t.image.W), float64(t.image.H))))
	rectOutline.LineTo(transformPoint(t.transform, pt(0, float64(t.image.H))))
	rectOutline.Close()

	t.bbox = e.clippedBBox(rectOutline)

	if _, ok := toComposite(t.transform).Invert(); !ok {
		e.logger.Warnf("image %d: singular transform, dropping draw", t.id)
		t.imageRLE = nil
		t.visible = false
		return nil
	}
	t.imageInverse = t.transform
	sx, sy := axisScales(t.transform)
	t.imageScale = math.Min(1/sx, 1/sy)

	if len(t.clips) == 0 {
		t.imageRLE = fullCoverageRows(t.bbox)
		return nil
	}

	minX, minY := int64(e.viewport.MinX)*64, int64(e.viewport.MinY)*64
	maxX, maxY := int64(e.viewport.MaxX)*64, int64(e.viewport.MaxY)*64
	data, err := raster.Rasterize(rectOutline, minX, minY, maxX, maxY, raster.Options{
		ClipW:     int(e.viewport.MaxX),
		ClipH:     int(e.viewport.MaxY),
		AntiAlias: false,
		Warn:      func() { e.logger.Warnf("image %d: span coordinate saturated", t.id) },
	})
	if err != nil {
		return err
	}
	for _, clip := range t.clips {
		intersectClip(data, clip)
	}
	t.imageRLE = data
	return nil
}

// fullCoverageRows builds a full-coverage RLE spanning box, the
// fast-track substitute for RLE generation when no clip narrows the
// image's footprint.
func fullCoverageRows(box rle.BBox) *rle.Data {
	d := &rle.Data{}
	if box.MaxX <= box.MinX || box.MaxY <= box.MinY {
		return d
	}
	for y := box.MinY; y < box.MaxY; y++ {
		d.Spans = append(d.Spans, rle.Span{X: box.MinX, Y: y, Len: uint16(box.MaxX - box.MinX), Coverage: 255})
	}
	return d
}

func pt(x, y float64) fixedmath.Point {
	return fixedmath.Point{X: fixedmath.ToCoord(x), Y: fixedmath.ToCoord(y)}
}

// imageFill constructs the compositor's Image view of t (spec §4.7's
// image resampling): the inverse transform maps destination pixels
// back into the source's local 0..W,0..H space.
func (e *Engine) imageFill(t *Task) *composite.Image {
	inv, _ := toComposite(t.transform).Invert()
	return &composite.Image{
		Pix: t.image.Pix, W: t.image.W, H: t.image.H,
		Inverse: inv,
		Scale:   t.imageScale,
	}
}
