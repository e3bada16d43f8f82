// Package composite is the 3-axis blend matrix of spec §4.7: a source
// (solid, linear gradient, radial gradient, or image) is blended onto a
// destination Surface over either an axis-aligned rectangle (the
// fast-track) or an RLE coverage mask, with optional alpha-mask or
// inverse-alpha-mask compositing.
package composite

import (
	"math"

	"github.com/agg-go/rasterix/internal/gradient"
	"github.com/agg-go/rasterix/internal/pixel"
	"github.com/agg-go/rasterix/internal/rle"
)

// Kind selects the source axis of the blend matrix.
type Kind int

const (
	Solid Kind = iota
	Linear
	Radial
	ImageSrc
)

// MaskMethod selects how a rendered mask image modulates source
// coverage before the source-over step (spec §4.7's mask compositing).
type MaskMethod int

const (
	MaskNone MaskMethod = iota
	AlphaMask
	InvAlphaMask
)

// Mask pairs a previously rendered coverage image with the method that
// consumes it. A nil *Mask, or one with Method == MaskNone, disables
// mask compositing.
type Mask struct {
	Method MaskMethod
	Image  *pixel.Surface
}

func (m *Mask) active() bool { return m != nil && m.Method != MaskNone && m.Image != nil }

// Transform is a 2x3 affine map in the a,b,c,d,e,f (PDF) convention:
// x' = a*x + c*y + e, y' = b*x + d*y + f. internal/engine converts the
// seehuhn.de/go/geom/matrix.Matrix supplied at prepare() time into this
// form before handing image fills to the compositor.
type Transform struct{ A, B, C, D, E, F float64 }

// Identity is the no-op transform.
var Identity = Transform{A: 1, D: 1}

// Apply maps (x,y) through t.
func (t Transform) Apply(x, y float64) (float64, float64) {
	return t.A*x + t.C*y + t.E, t.B*x + t.D*y + t.F
}

// Invert returns the inverse of t; ok is false when |det| is too small
// to invert safely (spec §4.7's transform-inverse aborts the draw in
// that case).
func (t Transform) Invert() (inv Transform, ok bool) {
	det := t.A*t.D - t.B*t.C
	if math.Abs(det) < 1e-9 {
		return Transform{}, false
	}
	id := 1 / det
	return Transform{
		A: t.D * id, B: -t.B * id,
		C: -t.C * id, D: t.A * id,
		E: (t.C*t.F - t.D*t.E) * id,
		F: (t.B*t.E - t.A*t.F) * id,
	}, true
}

// Fill is the tagged union the compositor reads from (spec §3's Fill,
// narrowed to the packed-pixel representation the compositor consumes).
type Fill struct {
	Kind   Kind
	Color  uint32 // pre-multiplied; Solid only
	Table  *gradient.Table
	Spread gradient.Spread
	Linear gradient.Linear
	Radial gradient.Radial
	Image  *Image
}

// Image is a pre-multiplied source image plus the inverse transform
// mapping destination pixels back into image space, and the effective
// scale factor that selects the resampling mode (spec §4.7).
type Image struct {
	Pix     []uint32 // same colorspace/channel order as the destination Surface
	W, H    int
	Inverse Transform
	Scale   float64
}

func fetchRow(fill *Fill, dst []uint32, x, y int) {
	switch fill.Kind {
	case Solid:
		for i := range dst {
			dst[i] = fill.Color
		}
	case Linear:
		gradient.FetchLinear(fill.Table, fill.Spread, fill.Linear, dst, x, y)
	case Radial:
		gradient.FetchRadial(fill.Table, fill.Spread, fill.Radial, dst, x, y)
	}
}

// blendRow composites src (already coverage/opacity-adjusted per pixel
// by the caller when needed) over dstRow[x:x+len(src)], honouring mask.
func blendRow(dstRow []uint32, x int, src []uint32, coverage, opacity uint8, mask *Mask, y int) {
	alpha := pixel.AlphaMultiply(coverage, opacity)
	var maskRow []uint32
	if mask.active() {
		maskRow = mask.Image.Row(y)
	}
	for i, c := range src {
		s := c
		if alpha != 255 {
			s = pixel.AlphaBlend(s, alpha)
		}
		if mask.active() {
			mc := maskRow[x+i]
			var ma uint8
			if mask.Method == AlphaMask {
				ma = pixel.Alpha(mc)
			} else {
				ma = pixel.InvAlpha(mc)
			}
			tmp := pixel.AlphaBlend(s, ma)
			dstRow[x+i] = tmp + pixel.AlphaBlend(dstRow[x+i], pixel.InvAlpha(tmp))
			continue
		}
		dstRow[x+i] = pixel.SourceOver(dstRow[x+i], s)
	}
}

// DrawRect fills box with fill (spec §4.7's rect fast-track): an opaque
// solid fill with no mask bypasses blending entirely via
// pixel.RasterRGBA32; every other combination falls back to per-pixel
// blending.
func DrawRect(s *pixel.Surface, box rle.BBox, fill *Fill, opacity uint8, mask *Mask) {
	x0, y0, x1, y1 := int(box.MinX), int(box.MinY), int(box.MaxX), int(box.MaxY)
	if x1 <= x0 || y1 <= y0 {
		return
	}
	if fill.Kind == Solid && opacity == 255 && pixel.Alpha(fill.Color) == 255 && !mask.active() {
		for y := y0; y < y1; y++ {
			pixel.RasterRGBA32(s.Row(y), fill.Color, x0, x1-x0)
		}
		return
	}
	row := make([]uint32, x1-x0)
	for y := y0; y < y1; y++ {
		fetchRow(fill, row, x0, y)
		blendRow(s.Row(y), x0, row, 255, opacity, mask, y)
	}
}

// DrawRLE blends fill over every span of data (spec §4.7's general RLE
// path). A fully-opaque solid span with full coverage and no mask uses
// the same raw-copy fast path as DrawRect.
func DrawRLE(s *pixel.Surface, data *rle.Data, fill *Fill, opacity uint8, mask *Mask) {
	var row []uint32
	for _, span := range data.Spans {
		w := int(span.Len)
		if span.Coverage == 255 && opacity == 255 && fill.Kind == Solid &&
			pixel.Alpha(fill.Color) == 255 && !mask.active() {
			pixel.RasterRGBA32(s.Row(int(span.Y)), fill.Color, int(span.X), w)
			continue
		}
		if cap(row) < w {
			row = make([]uint32, w)
		} else {
			row = row[:w]
		}
		fetchRow(fill, row, int(span.X), int(span.Y))
		blendRow(s.Row(int(span.Y)), int(span.X), row, span.Coverage, opacity, mask, int(span.Y))
	}
}

// DrawImage blends img over every span of data using the resampling
// mode selected by img.Scale (spec §4.7's image resampling): nearest
// near scale 1, a 2N×2N box filter below scale 0.5, bilinear otherwise,
// degrading to nearest at the image's last row/column.
func DrawImage(s *pixel.Surface, data *rle.Data, img *Image, opacity uint8, mask *Mask) {
	for _, span := range data.Spans {
		dstRow := s.Row(int(span.Y))
		var maskRow []uint32
		if mask.active() {
			maskRow = mask.Image.Row(int(span.Y))
		}
		base := pixel.AlphaMultiply(span.Coverage, opacity)
		for i := 0; i < int(span.Len); i++ {
			dx := int(span.X) + i
			src, ok := sampleImage(img, float64(dx)+0.5, float64(span.Y)+0.5)
			if !ok {
				continue
			}
			if base != 255 {
				src = pixel.AlphaBlend(src, base)
			}
			if mask.active() {
				var ma uint8
				if mask.Method == AlphaMask {
					ma = pixel.Alpha(maskRow[dx])
				} else {
					ma = pixel.InvAlpha(maskRow[dx])
				}
				tmp := pixel.AlphaBlend(src, ma)
				dstRow[dx] = tmp + pixel.AlphaBlend(dstRow[dx], pixel.InvAlpha(tmp))
				continue
			}
			dstRow[dx] = pixel.SourceOver(dstRow[dx], src)
		}
	}
}

// sampleImage maps destination point (dx,dy) through img.Inverse and
// samples the source image, returning ok=false when the point lands
// outside the source bounds.
func sampleImage(img *Image, dx, dy float64) (uint32, bool) {
	sx, sy := img.Inverse.Apply(dx, dy)

	switch {
	case math.Abs(img.Scale-1) <= 1e-3:
		rx, ry := int(sx), int(sy)
		if rx < 0 || ry < 0 || rx >= img.W || ry >= img.H {
			return 0, false
		}
		return img.Pix[ry*img.W+rx], true
	case img.Scale < 0.5:
		return boxFilterPixel(img, sx, sy)
	default:
		return bilinearPixel(img, sx, sy)
	}
}

// boxFilterPixel averages a 2n×2n neighbourhood of the source centred
// at (fx,fy), n = max(1, floor(0.5/scale)) (spec §4.7's downscale
// filter, grounded on tvgSwRaster.cpp's _average2Nx2NPixel). Channel
// averages are computed byte-wise so the result is colorspace-agnostic
// as long as the image shares the destination's channel order.
func boxFilterPixel(img *Image, fx, fy float64) (uint32, bool) {
	n := int(math.Floor(0.5 / img.Scale))
	if n < 1 {
		n = 1
	}
	rx, ry := int(fx), int(fy)
	if rx-n < 0 || ry-n < 0 || rx+n >= img.W || ry+n >= img.H {
		return bilinearPixel(img, fx, fy)
	}

	var c [4]uint32
	for y := ry - n; y < ry+n; y++ {
		row := img.Pix[y*img.W : y*img.W+img.W]
		for x := rx - n; x < rx+n; x++ {
			p := row[x]
			c[0] += p >> 24
			c[1] += (p >> 16) & 0xff
			c[2] += (p >> 8) & 0xff
			c[3] += p & 0xff
		}
	}
	n2 := uint32(n * n)
	for i := range c {
		c[i] = (c[i] >> 2) / n2
	}
	return c[0]<<24 | c[1]<<16 | c[2]<<8 | c[3], true
}

// bilinearPixel interpolates the 2x2 neighbourhood around (fx,fy) (spec
// §4.7's upscale path). Edge pixels (the last row/column of the source)
// degrade to nearest-neighbour.
func bilinearPixel(img *Image, fx, fy float64) (uint32, bool) {
	rx, ry := int(fx), int(fy)
	if rx < 0 || ry < 0 || rx >= img.W || ry >= img.H {
		return 0, false
	}
	if rx == img.W-1 || ry == img.H-1 {
		return img.Pix[ry*img.W+rx], true
	}

	dx := uint8((fx - float64(rx)) * 255)
	dy := uint8((fy - float64(ry)) * 255)
	c1 := img.Pix[ry*img.W+rx]
	c2 := img.Pix[ry*img.W+rx+1]
	c3 := img.Pix[(ry+1)*img.W+rx+1]
	c4 := img.Pix[(ry+1)*img.W+rx]
	if c1 == c2 && c1 == c3 && c1 == c4 {
		return c1, true
	}
	top := pixel.ColorInterpolate(c1, 255-dx, c2, dx)
	bot := pixel.ColorInterpolate(c4, 255-dx, c3, dx)
	return pixel.ColorInterpolate(top, 255-dy, bot, dy), true
}
