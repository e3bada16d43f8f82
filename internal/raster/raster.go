// Package raster implements the band-limited scanline converter that
// turns a flattened Outline into an anti-aliased RLE coverage mask
// (spec §4.5, component E). The algorithm is the classic FreeType/AGG
// active-cell scanline rasterizer: walk the outline accumulating signed
// (cover, area) contributions into a per-row linked list of cells, then
// sweep each row converting the running totals into pixel coverage.
//
// Internally the rasterizer works in Q24.8 ("sub-pixel") coordinates;
// callers supply an Outline in Q26.6 and a clip size in integer pixels.
package raster

import (
	"errors"

	"github.com/agg-go/rasterix/internal/fixedmath"
	"github.com/agg-go/rasterix/internal/outline"
	"github.com/agg-go/rasterix/internal/rle"
)

const (
	pixelBits = 8
	onePixel  = int64(1) << pixelBits
)

// errCellPoolExhausted is returned internally when a band overflows its
// cell budget; callers never see this — Rasterize retries the band in
// halves, and converts an overflow it cannot split further into an
// empty RleData per spec §7.
var errCellPoolExhausted = errors.New("raster: cell pool exhausted")

// point26x8 is a Q24.8 working coordinate pair.
type point26x8 struct{ x, y int64 }

func upscale(p fixedmath.Point) point26x8 {
	return point26x8{int64(p.X) << (pixelBits - 6), int64(p.Y) << (pixelBits - 6)}
}

func trunc(x int64) int64     { return x >> pixelBits }
func subpixels(x int64) int64 { return x << pixelBits }

// cell is one accumulator bucket on a scanline. next is an index into
// worker.cells, or -1.
type cell struct {
	x, cover int64
	area     int64
	next     int32
}

// worker holds all mutable rasterization state for one band. It is
// re-initialised for every band, matching the reference's RleWorker.
type worker struct {
	cells   []cell
	maxCell int
	yCells  []int32 // head-of-list index per row, within the current band

	cellPos      point26x8
	cellMin      point26x8
	cellMax      point26x8
	cellXCnt     int64
	cellYCnt     int64
	area, cover  int64
	pos          point26x8
	invalid      bool
	antialias    bool
	evenOdd      bool
	clipW, clipH int64

	spans   []rle.Span
	warn    func()
}

func newWorker(maxCellsPerBand int) *worker {
	return &worker{maxCell: maxCellsPerBand}
}

func (w *worker) reset(bandMinY, bandMaxY int64) {
	yCnt := bandMaxY - bandMinY
	if cap(w.yCells) < int(yCnt) {
		w.yCells = make([]int32, yCnt)
	} else {
		w.yCells = w.yCells[:yCnt]
	}
	for i := range w.yCells {
		w.yCells[i] = -1
	}
	if cap(w.cells) < w.maxCell {
		w.cells = make([]cell, 0, w.maxCell)
	} else {
		w.cells = w.cells[:0]
	}
	w.cellMin.y = bandMinY
	w.cellMax.y = bandMaxY
	w.cellYCnt = bandMaxY - bandMinY
	w.invalid = true
	w.area, w.cover = 0, 0
}

func (w *worker) findCell() (*cell, error) {
	x := w.cellPos.x
	if x > w.cellXCnt {
		x = w.cellXCnt
	}
	row := w.cellPos.y
	pcell := &w.yCells[row]
	for *pcell != -1 {
		c := &w.cells[*pcell]
		if c.x > x {
			break
		}
		if c.x == x {
			return c, nil
		}
		pcell = &c.next
	}
	if len(w.cells) >= w.maxCell {
		return nil, errCellPoolExhausted
	}
	idx := int32(len(w.cells))
	w.cells = append(w.cells, cell{x: x, next: *pcell})
	*pcell = idx
	return &w.cells[idx], nil
}

func (w *worker) recordCell() error {
	if w.area == 0 && w.cover == 0 {
		return nil
	}
	c, err := w.findCell()
	if err != nil {
		return err
	}
	c.area += w.area
	c.cover += w.cover
	return nil
}

func (w *worker) setCell(pos point26x8) error {
	pos.y -= w.cellMin.y
	if pos.x > w.cellMax.x {
		pos.x = w.cellMax.x
	}
	pos.x -= w.cellMin.x
	if pos.x < 0 {
		pos.x = -1
	}
	if pos != w.cellPos {
		if !w.invalid {
			if err := w.recordCell(); err != nil {
				return err
			}
		}
	}
	w.area, w.cover = 0, 0
	w.cellPos = pos
	w.invalid = pos.y < 0 || pos.y >= w.cellYCnt || pos.x >= w.cellXCnt
	return nil
}

func (w *worker) startCell(pos point26x8) error {
	if pos.x > w.cellMax.x {
		pos.x = w.cellMax.x
	}
	if pos.x < w.cellMin.x {
		pos.x = w.cellMin.x
	}
	w.area, w.cover = 0, 0
	w.cellPos = point26x8{pos.x - w.cellMin.x, pos.y - w.cellMin.y}
	w.invalid = false
	return w.setCell(pos)
}

func (w *worker) moveTo(to point26x8) error {
	if !w.invalid {
		if err := w.recordCell(); err != nil {
			return err
		}
	}
	if err := w.startCell(point26x8{trunc(to.x), trunc(to.y)}); err != nil {
		return err
	}
	w.pos = to
	return nil
}

func udiv(a, b int64) int64 {
	// Matches the reference's SW_UDIV: (a*b) >> (64 - PIXEL_BITS), using
	// unsigned 64-bit arithmetic so negative `a` (already sign-adjusted
	// by the caller via prod negation) behaves identically.
	return int64((uint64(a) * uint64(b)) >> (64 - pixelBits))
}

func (w *worker) lineTo(to point26x8) error {
	e1 := point26x8{trunc(w.pos.x), trunc(w.pos.y)}
	e2 := point26x8{trunc(to.x), trunc(to.y)}

	if (e1.y >= w.cellMax.y && e2.y >= w.cellMax.y) || (e1.y < w.cellMin.y && e2.y < w.cellMin.y) {
		w.pos = to
		return nil
	}

	diff := point26x8{to.x - w.pos.x, to.y - w.pos.y}
	f1 := point26x8{w.pos.x - subpixels(e1.x), w.pos.y - subpixels(e1.y)}
	var f2 point26x8

	switch {
	case e1 == e2:
		// inside one cell, nothing to do before the tail update below.
	case diff.y == 0:
		e1.x = e2.x
		if err := w.setCell(e1); err != nil {
			return err
		}
	case diff.x == 0:
		if diff.y > 0 {
			for e1.y != e2.y {
				f2.y = onePixel
				w.cover += f2.y - f1.y
				w.area += (f2.y - f1.y) * f1.x * 2
				f1.y = 0
				e1.y++
				if err := w.setCell(e1); err != nil {
					return err
				}
			}
		} else {
			for e1.y != e2.y {
				f2.y = 0
				w.cover += f2.y - f1.y
				w.area += (f2.y - f1.y) * f1.x * 2
				f1.y = onePixel
				e1.y--
				if err := w.setCell(e1); err != nil {
					return err
				}
			}
		}
	default:
		prod := diff.x*f1.y - diff.y*f1.x
		const maxShift = (1 << 63) - 1
		dxR := int64(uint64(maxShift) >> pixelBits) / diff.x
		dyR := int64(uint64(maxShift) >> pixelBits) / diff.y

		for e1 != e2 {
			px := diff.x * onePixel
			py := diff.y * onePixel

			switch {
			case prod <= 0 && prod-px > 0:
				f2 = point26x8{0, udiv(-prod, -dxR)}
				prod -= py
				w.cover += f2.y - f1.y
				w.area += (f2.y - f1.y) * (f1.x + f2.x)
				f1 = point26x8{onePixel, f2.y}
				e1.x--
			case prod-px <= 0 && prod-px+py > 0:
				prod -= px
				f2 = point26x8{udiv(-prod, dyR), onePixel}
				w.cover += f2.y - f1.y
				w.area += (f2.y - f1.y) * (f1.x + f2.x)
				f1 = point26x8{f2.x, 0}
				e1.y++
			case prod-px+py <= 0 && prod+py >= 0:
				prod += py
				f2 = point26x8{onePixel, udiv(prod, dxR)}
				w.cover += f2.y - f1.y
				w.area += (f2.y - f1.y) * (f1.x + f2.x)
				f1 = point26x8{0, f2.y}
				e1.x++
			default:
				f2 = point26x8{udiv(prod, -dyR), 0}
				prod += px
				w.cover += f2.y - f1.y
				w.area += (f2.y - f1.y) * (f1.x + f2.x)
				f1 = point26x8{f2.x, onePixel}
				e1.y--
			}
			if err := w.setCell(e1); err != nil {
				return err
			}
		}
	}

	f2 = point26x8{to.x - subpixels(e2.x), to.y - subpixels(e2.y)}
	w.cover += f2.y - f1.y
	w.area += (f2.y - f1.y) * (f1.x + f2.x)
	w.pos = to
	return nil
}

// hypot approximates sqrt(x*x+y*y) with the alpha-max-plus-beta-min
// algorithm (alpha=1, beta=3/8), as the reference rasterizer does to
// avoid a real sqrt on the Bezier flatness hot path.
func hypot(p point26x8) int64 {
	x, y := p.x, p.y
	if x < 0 {
		x = -x
	}
	if y < 0 {
		y = -y
	}
	if x > y {
		return x + (3*y)>>3
	}
	return y + (3*x)>>3
}

const maxBezierDepth = 32

func (w *worker) cubicTo(ctrl1, ctrl2, to point26x8) error {
	var stack [maxBezierDepth*3 + 1]point26x8
	arc := stack[:4]
	arc[0], arc[1], arc[2], arc[3] = to, ctrl2, ctrl1, w.pos

	min, max := arc[0].y, arc[0].y
	for i := 1; i < 4; i++ {
		if arc[i].y < min {
			min = arc[i].y
		}
		if arc[i].y > max {
			max = arc[i].y
		}
	}
	if trunc(min) >= w.cellMax.y || trunc(max) < w.cellMin.y {
		return w.lineTo(arc[0])
	}

	base := 0
	for {
		a := stack[base : base+4]
		diff := point26x8{a[3].x - a[0].x, a[3].y - a[0].y}
		l := hypot(diff)

		flat := true
		if l > 0x7FFF {
			flat = false
		} else {
			sLimit := l * (onePixel / 6)

			diff1 := point26x8{a[1].x - a[0].x, a[1].y - a[0].y}
			s := diff.y*diff1.x - diff.x*diff1.y
			if s < 0 {
				s = -s
			}
			if s > sLimit {
				flat = false
			}

			if flat {
				diff2 := point26x8{a[2].x - a[0].x, a[2].y - a[0].y}
				s = diff.y*diff2.x - diff.x*diff2.y
				if s < 0 {
					s = -s
				}
				if s > sLimit {
					flat = false
				}
			}

			if flat {
				if diff1.x*(diff1.x-diff.x)+diff1.y*(diff1.y-diff.y) > 0 ||
					diff2Dot(a, diff) > 0 {
					flat = false
				}
			}
		}

		if !flat {
			if base+7 > len(stack) {
				// Exceeded the fixed subdivision budget; draw what we
				// have rather than overflow the stack.
				flat = true
			} else {
				splitCubicStack(stack[base : base+7])
				base += 3
				continue
			}
		}

		if err := w.lineTo(a[0]); err != nil {
			return err
		}
		if base == 0 {
			return nil
		}
		base -= 3
	}
}

func diff2Dot(a []point26x8, diff point26x8) int64 {
	diff2 := point26x8{a[2].x - a[0].x, a[2].y - a[0].y}
	return diff2.x*(diff2.x-diff.x) + diff2.y*(diff2.y-diff.y)
}

// splitCubicStack applies the integer de Casteljau split in-place, the
// same layout as fixedmath.SplitCubic but operating on the worker's
// Q24.8 bezier stack (kept as a separate, allocation-free copy to avoid
// a fixedmath.Point round-trip on the hot path).
func splitCubicStack(base []point26x8) {
	base[6] = base[3]
	c, d := base[1].x, base[2].x
	a := (base[0].x + c) / 2
	base[1].x = a
	b := (base[3].x + d) / 2
	base[5].x = b
	c = (c + d) / 2
	a = (a + c) / 2
	base[2].x = a
	b = (b + c) / 2
	base[4].x = b
	base[3].x = (a + b) / 2

	c, d = base[1].y, base[2].y
	a = (base[0].y + c) / 2
	base[1].y = a
	b = (base[3].y + d) / 2
	base[5].y = b
	c = (c + d) / 2
	a = (a + c) / 2
	base[2].y = a
	b = (b + c) / 2
	base[4].y = b
	base[3].y = (a + b) / 2
}

func (w *worker) horizLine(x, y, area, acount int64) {
	x += w.cellMin.x
	y += w.cellMin.y
	if y < 0 || y >= w.clipH {
		return
	}

	coverage := area >> (pixelBits*2 + 1 - 8)
	if coverage < 0 {
		coverage = -coverage
	}
	if w.evenOdd {
		coverage &= 511
		if coverage > 256 {
			coverage = 512 - coverage
		} else if coverage == 256 {
			coverage = 255
		}
	} else if coverage >= 256 {
		coverage = 255
	}

	if x >= 0x7FFF {
		if w.warn != nil {
			w.warn()
		}
		x = 0x7FFF
	}
	if y >= 0x7FFF {
		if w.warn != nil {
			w.warn()
		}
		y = 0x7FFF
	}

	if coverage <= 0 {
		return
	}
	if !w.antialias {
		coverage = 255
	}

	if n := len(w.spans); n > 0 {
		last := &w.spans[n-1]
		if int64(last.Y) == y && int64(last.X)+int64(last.Len) == x && int64(last.Coverage) == coverage {
			xOver := int64(0)
			if x+acount >= w.clipW {
				xOver -= x + acount - w.clipW
			}
			if x < 0 {
				xOver += x
			}
			last.Len += uint16(acount + xOver)
			return
		}
	}

	xOver := int64(0)
	if x+acount >= w.clipW {
		xOver -= x + acount - w.clipW
	}
	if x < 0 {
		xOver += x
		x = 0
	}
	if acount+xOver <= 0 {
		return
	}
	w.spans = append(w.spans, rle.Span{
		X:        int16(x),
		Y:        int16(y),
		Len:      uint16(acount + xOver),
		Coverage: uint8(coverage),
	})
}

func (w *worker) sweep() {
	if len(w.cells) == 0 {
		return
	}
	for y := int64(0); y < int64(len(w.yCells)); y++ {
		cover := int64(0)
		x := int64(0)
		ci := w.yCells[y]
		for ci != -1 {
			c := &w.cells[ci]
			if c.x > x && cover != 0 {
				w.horizLine(x, y, cover*(onePixel*2), c.x-x)
			}
			cover += c.cover
			area := cover*(onePixel*2) - c.area
			if area != 0 && c.x >= 0 {
				w.horizLine(c.x, y, area, 1)
			}
			x = c.x + 1
			ci = c.next
		}
		if cover != 0 {
			w.horizLine(x, y, cover*(onePixel*2), w.cellXCnt-x)
		}
	}
}

// decomposeOutline walks every contour of o, emitting moveTo/lineTo and
// flattening cubic segments directly into cell contributions.
func (w *worker) decomposeOutline(o *outline.Outline) error {
	first := 0
	for n := 0; n < o.NumContours(); n++ {
		last := o.Contours[n]
		if o.Tags[first] == outline.CubicControl {
			return errors.New("raster: contour begins with a cubic control point")
		}
		start := upscale(o.Points[first])
		if err := w.moveTo(start); err != nil {
			return err
		}

		i := first
		for i < last {
			i++
			if o.Tags[i] == outline.OnPoint {
				if err := w.lineTo(upscale(o.Points[i])); err != nil {
					return err
				}
				continue
			}
			if i+1 > last || o.Tags[i+1] != outline.CubicControl {
				return errors.New("raster: malformed cubic segment")
			}
			c1 := upscale(o.Points[i])
			c2 := upscale(o.Points[i+1])
			i += 2
			if i <= last {
				if err := w.cubicTo(c1, c2, upscale(o.Points[i])); err != nil {
					return err
				}
			} else {
				if err := w.cubicTo(c1, c2, start); err != nil {
					return err
				}
			}
		}
		if err := w.lineTo(start); err != nil {
			return err
		}
		first = last + 1
	}
	return nil
}

// Options configure a Rasterize call.
type Options struct {
	ClipW, ClipH int
	AntiAlias    bool
	// Warn, if non-nil, is invoked whenever a coordinate had to be
	// saturated to the i16 span range (spec §4.5).
	Warn func()
	// MaxCellsPerBand bounds the fixed cell pool per band; 0 selects
	// defaultMaxCellsPerBand (4096 cells).
	MaxCellsPerBand int
}

const defaultMaxCellsPerBand = 4096
const initialBandSize = 64

// band is a [min,max) vertical strip of scanlines awaiting rasterization.
type band struct{ min, max int64 }

// Rasterize converts o (clipped to a pixel-space bounding box
// [bboxMin,bboxMax)) into an RLE coverage mask. It never panics: on
// internal overflow it halves the band under overflow, and when a
// single-scanline band still overflows it returns an empty (but
// non-nil) RleData, matching spec §7's propagation policy.
func Rasterize(o *outline.Outline, bboxMinX, bboxMinY, bboxMaxX, bboxMaxY int64, opts Options) (*rle.Data, error) {
	out := &rle.Data{}
	if o == nil || o.NumContours() == 0 {
		return out, nil
	}
	if bboxMaxX <= bboxMinX || bboxMaxY <= bboxMinY {
		return out, nil
	}

	maxCells := opts.MaxCellsPerBand
	if maxCells <= 0 {
		maxCells = defaultMaxCellsPerBand
	}

	w := newWorker(maxCells)
	w.evenOdd = o.FillRule == outline.EvenOdd
	w.antialias = opts.AntiAlias
	w.clipW = int64(opts.ClipW)
	w.clipH = int64(opts.ClipH)
	w.warn = opts.Warn
	w.cellMin.x, w.cellMax.x = bboxMinX, bboxMaxX
	w.cellXCnt = bboxMaxX - bboxMinX

	bandSize := int64(initialBandSize)
	bandShoot := 0

	min := bboxMinY
	yMax := bboxMaxY

	for min < yMax {
		max := min + bandSize
		if max > yMax {
			max = yMax
		}
		stack := []band{{min, max}}

		for len(stack) > 0 {
			b := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			w.reset(b.min, b.max)
			w.spans = w.spans[:0]
			err := w.decomposeOutline(o)
			if err == nil {
				err = w.recordCellIfValid()
			}
			if err == nil {
				w.sweep()
				out.Spans = append(out.Spans, w.spans...)
				continue
			}
			if !errors.Is(err, errCellPoolExhausted) {
				return out, err
			}
			if !retryBand(&stack, b, &bandShoot, bandSize) {
				// The band is a single scanline and still overflows: abort
				// this shape with an empty RLE, per spec §7.
				out.Spans = out.Spans[:0]
				return out, nil
			}
		}
		min = max
	}

	if bandShoot > 8 && bandSize > 16 {
		bandSize >>= 1
	}

	rle.ClipToSurface(out, opts.ClipW, opts.ClipH, opts.Warn)
	return out, nil
}

func (w *worker) recordCellIfValid() error {
	if w.invalid {
		return nil
	}
	return w.recordCell()
}

// retryBand halves the failed band and pushes both halves back onto the
// work stack, matching the reference's band-splitting overflow
// recovery. It returns false when the band cannot be split further
// (degenerate single-scanline band), which the caller treats as a hard
// failure.
func retryBand(stack *[]band, b band, bandShoot *int, bandSize int64) bool {
	bottom, top := b.min, b.max
	middle := bottom + (top-bottom)>>1
	if middle == bottom {
		return false
	}
	if top-bottom >= bandSize {
		*bandShoot++
	}
	*stack = append(*stack, band{middle, top}, band{bottom, middle})
	return true
}
