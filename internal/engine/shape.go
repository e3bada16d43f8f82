package engine

import (
	"seehuhn.de/go/geom/matrix"

	"github.com/agg-go/rasterix/internal/composite"
	"github.com/agg-go/rasterix/internal/fixedmath"
	"github.com/agg-go/rasterix/internal/gradient"
	"github.com/agg-go/rasterix/internal/outline"
	"github.com/agg-go/rasterix/internal/pixel"
	"github.com/agg-go/rasterix/internal/raster"
	"github.com/agg-go/rasterix/internal/rle"
	"github.com/agg-go/rasterix/internal/stroke"
)

// runShapeTask executes spec §4.8's run_shape_task pipeline: it
// rebuilds exactly the parts of t that t.flags marks stale, then
// intersects the result with every clip in order.
func (e *Engine) runShapeTask(t *Task) error {
	if t.opacity == 0 {
		t.visible = false
		return nil
	}

	strokeAlpha, strokeIsGradient := strokeAlphaOf(t.strokeDesc)
	validStroke := t.strokeDesc != nil && t.strokeDesc.Width > 0 &&
		(strokeAlpha > 0 || strokeIsGradient)

	wasInvisible := !t.visible
	if t.flags.has(FlagPath) || t.flags.has(FlagTransform) || wasInvisible {
		t.visible = true

		shapeOutline := e.pool.Request(outline.ShapeOutline, t.tid)
		shapeOutline.Reset()
		transformOutlineInto(shapeOutline, t.outline, t.transform)

		t.bbox = e.clippedBBox(shapeOutline)

		if t.fill != nil {
			minX, minY := int64(e.viewport.MinX), int64(e.viewport.MinY)
			maxX, maxY := int64(e.viewport.MaxX), int64(e.viewport.MaxY)
			antialias := !(strokeAlpha == 255 && validStroke &&
				coordWidth(t.strokeDesc) > DisableAAStrokeWidthThreshold &&
				len(t.strokeDesc.Dash.Pattern) == 0)

			data, err := raster.Rasterize(shapeOutline, minX, minY, maxX, maxY, raster.Options{
				ClipW:     int(e.viewport.MaxX),
				ClipH:     int(e.viewport.MaxY),
				AntiAlias: antialias,
				Warn:      func() { e.logger.Warnf("shape %d: span coordinate saturated", t.id) },
			})
			if err != nil {
				return err
			}
			t.shapeRLE = data
		} else {
			t.shapeRLE = nil
		}

		e.pool.Release(outline.ShapeOutline, t.tid)
	}

	if t.fill != nil && (t.flags.has(FlagGradient) || t.flags.has(FlagTransform) || t.flags.has(FlagColor)) {
		if err := e.rebuildFill(t, t.fill, t.flags.has(FlagGradient), &t.fillTable, &t.fillTranslucent, &t.fillLinear, &t.fillRadial); err != nil {
			return err
		}
	}

	if validStroke && (t.flags.has(FlagStroke) || t.flags.has(FlagTransform)) {
		if err := e.rebuildStroke(t); err != nil {
			return err
		}
		if t.strokeDesc.Fill.Kind != FillSolid &&
			(t.flags.has(FlagGradientStroke) || t.flags.has(FlagTransform) || t.flags.has(FlagColor)) {
			if err := e.rebuildFill(t, &t.strokeDesc.Fill, t.flags.has(FlagGradientStroke), &t.strokeTable, &t.strokeTranslucent, &t.strokeLinear, &t.strokeRadial); err != nil {
				return err
			}
		}
	} else if !validStroke {
		t.strokeRLE = nil
	}

	for _, clip := range t.clips {
		intersectClip(t.shapeRLE, clip)
		intersectClip(t.strokeRLE, clip)
	}

	addStroking := 0
	if t.shapeRLE != nil && t.shapeRLE.Size() > 0 {
		addStroking++
	}
	if t.strokeRLE != nil && t.strokeRLE.Size() > 0 {
		addStroking++
	}
	t.cmpStroking = addStroking > 1 && t.opacity < 255

	return nil
}

func intersectClip(d *rle.Data, clip *Task) {
	if d == nil || d.Size() == 0 {
		return
	}
	if clip.shapeRLE != nil {
		rle.ClipPath(d, clip.shapeRLE)
		return
	}
	rle.ClipRect(d, clip.bbox)
}

// strokeAlphaOf reports a solid stroke paint's own alpha, or (0, true)
// for a gradient paint — a gradient's visibility is decided per-entry
// by its color table, not by one scalar alpha (spec §4.8 step 2).
func strokeAlphaOf(sd *StrokeDesc) (alpha uint8, isGradient bool) {
	if sd == nil {
		return 0, false
	}
	if sd.Fill.Kind == FillSolid {
		return sd.Fill.A, false
	}
	return 0, true
}

func coordWidth(sd *StrokeDesc) fixedmath.Coord {
	return fixedmath.HalfStroke(sd.Width) * 2
}

// clippedBBox returns o's bounding box in device pixels, clamped to the
// viewport (spec §4.8's "BBox clipped to viewport").
func (e *Engine) clippedBBox(o *outline.Outline) rle.BBox {
	if len(o.Points) == 0 {
		return rle.BBox{}
	}
	minX, minY := o.Points[0].X, o.Points[0].Y
	maxX, maxY := minX, minY
	for _, p := range o.Points[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	box := rle.BBox{
		MinX: int16(minX / 64), MinY: int16(minY / 64),
		MaxX: int16((maxX + 63) >> 6), MaxY: int16((maxY + 63) >> 6),
	}
	if box.MinX < e.viewport.MinX {
		box.MinX = e.viewport.MinX
	}
	if box.MinY < e.viewport.MinY {
		box.MinY = e.viewport.MinY
	}
	if box.MaxX > e.viewport.MaxX {
		box.MaxX = e.viewport.MaxX
	}
	if box.MaxY > e.viewport.MaxY {
		box.MaxY = e.viewport.MaxY
	}
	return box
}

// transformOutlineInto copies src into dst point-by-point, applying m
// (spec §4.8's shape_prepare).
func transformOutlineInto(dst, src *outline.Outline, m matrix.Matrix) {
	dst.FillRule = src.FillRule
	dst.Opened = src.Opened
	for _, p := range src.Points {
		dst.Points = append(dst.Points, transformPoint(m, p))
	}
	dst.Tags = append(dst.Tags, src.Tags...)
	dst.Contours = append(dst.Contours, src.Contours...)
}

func (e *Engine) rebuildFill(t *Task, fd *FillDesc, rebuildTable bool, table *gradient.Table, translucent *bool, lin *gradient.Linear, rad *gradient.Radial) error {
	switch fd.Kind {
	case FillLinear:
		if rebuildTable {
			tab, tr, err := gradient.BuildTable(fd.Stops, t.opacity, e.surface.Space)
			if err != nil {
				return err
			}
			*table, *translucent = tab, tr
		}
		x1, y1 := applyFloat(t.transform, fd.X1, fd.Y1)
		x2, y2 := applyFloat(t.transform, fd.X2, fd.Y2)
		*lin = gradient.NewLinear(x1, y1, x2, y2)
	case FillRadial:
		if rebuildTable {
			tab, tr, err := gradient.BuildTable(fd.Stops, t.opacity, e.surface.Space)
			if err != nil {
				return err
			}
			*table, *translucent = tab, tr
		}
		cx, cy := applyFloat(t.transform, fd.Cx, fd.Cy)
		sx, sy := axisScales(t.transform)
		*rad = gradient.NewRadial(cx, cy, fd.Radius, sx, sy)
	}
	return nil
}

func (e *Engine) rebuildStroke(t *Task) error {
	sd := t.strokeDesc
	st := stroke.NewStroker(fixedmath.ToCoord(sd.Width), sd.Cap, sd.Join, fixedmath.ToCoord(sd.MiterLimit))

	transformed := &outline.Outline{}
	transformOutlineInto(transformed, t.outline, t.transform)

	src := transformed
	if len(sd.Dash.Pattern) > 0 {
		src = stroke.ApplyDash(transformed, sd.Dash)
	}

	border, err := st.ParseOutline(src)
	if err != nil {
		return err
	}

	strokeOutline := e.pool.Request(outline.StrokeOutline, t.tid)
	strokeOutline.Reset()
	strokeOutline.Points = append(strokeOutline.Points, border.Points...)
	strokeOutline.Tags = append(strokeOutline.Tags, border.Tags...)
	strokeOutline.Contours = append(strokeOutline.Contours, border.Contours...)
	strokeOutline.FillRule = border.FillRule
	if st.HandleWideStrokes() {
		strokeOutline.FillRule = outline.EvenOdd
	}

	minX, minY := int64(e.viewport.MinX), int64(e.viewport.MinY)
	maxX, maxY := int64(e.viewport.MaxX), int64(e.viewport.MaxY)
	data, err := raster.Rasterize(strokeOutline, minX, minY, maxX, maxY, raster.Options{
		ClipW:     int(e.viewport.MaxX),
		ClipH:     int(e.viewport.MaxY),
		AntiAlias: true,
		Warn:      func() { e.logger.Warnf("shape %d stroke: span coordinate saturated", t.id) },
	})
	e.pool.Release(outline.StrokeOutline, t.tid)
	if err != nil {
		return err
	}
	t.strokeRLE = data
	return nil
}

// fillOf builds a compositor-ready Fill from the task's precomputed
// color table / sampler state (spec §4.7's Fill union).
func (e *Engine) fillOf(fd *FillDesc, table *gradient.Table, lin gradient.Linear, rad gradient.Radial) *composite.Fill {
	f := &composite.Fill{}
	switch fd.Kind {
	case FillSolid:
		f.Kind = composite.Solid
		f.Color = pixel.AlphaBlend(pixel.Join(e.surface.Space, fd.R, fd.G, fd.B, 255), fd.A)
	case FillLinear:
		f.Kind = composite.Linear
		f.Table = table
		f.Spread = fd.Spread
		f.Linear = lin
	case FillRadial:
		f.Kind = composite.Radial
		f.Table = table
		f.Spread = fd.Spread
		f.Radial = rad
	}
	return f
}
