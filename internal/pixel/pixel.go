// Package pixel defines the destination pixel buffer (spec §3's
// Surface) and the per-pixel blend primitives the compositor builds on:
// ALPHA_BLEND, ALPHA_MULTIPLY, COLOR_INTERPOLATE, channel packing, and
// premultiply/unpremultiply. Every color here is a packed 32-bit word
// whose channel order is fixed by the Surface's ColorSpace.
package pixel

import (
	"image"
	"image/color"
)

// ColorSpace selects the channel order and premultiplication state of a
// Surface's backing buffer (spec §6 target colorspace).
type ColorSpace int

const (
	ABGR8888 ColorSpace = iota
	ARGB8888
	ABGR8888S // straight (non-premultiplied); unpremultiplied by Sync
	ARGB8888S
)

// Straight reports whether cs stores non-premultiplied color.
func (cs ColorSpace) Straight() bool {
	return cs == ABGR8888S || cs == ARGB8888S
}

// join packs (r,g,b,a) into cs's native channel order.
func (cs ColorSpace) join(r, g, b, a uint8) uint32 {
	switch cs {
	case ARGB8888, ARGB8888S:
		return uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b)
	default: // ABGR8888, ABGR8888S
		return uint32(a)<<24 | uint32(b)<<16 | uint32(g)<<8 | uint32(r)
	}
}

// Join packs (r,g,b,a) bytes into a uint32 using cs's channel order
// (spec §3's "join" function).
func Join(cs ColorSpace, r, g, b, a uint8) uint32 { return cs.join(r, g, b, a) }

// Channels unpacks c back into its (r,g,b,a) bytes under cs's order.
func Channels(cs ColorSpace, c uint32) (r, g, b, a uint8) {
	switch cs {
	case ARGB8888, ARGB8888S:
		return uint8(c >> 16), uint8(c >> 8), uint8(c), uint8(c >> 24)
	default:
		return uint8(c), uint8(c >> 8), uint8(c >> 16), uint8(c >> 24)
	}
}

// Alpha extracts the alpha channel common to every channel order (spec
// §3's "alpha" function).
func Alpha(c uint32) uint8 { return uint8(c >> 24) }

// InvAlpha returns 255 - Alpha(c) (spec §3's "inv_alpha").
func InvAlpha(c uint32) uint8 { return uint8(^c >> 24) }

// AlphaMultiply scales the scalar byte c by coverage a/255 with rounding
// (spec §4.7): ALPHA_MULTIPLY(c,a) = (c*a + 255) >> 8.
func AlphaMultiply(c, a uint8) uint8 {
	return uint8((uint32(c)*uint32(a) + 255) >> 8)
}

// AlphaBlend scales every channel of the packed, pre-multiplied pixel c
// by coverage a in one pass (spec §4.7's ALPHA_BLEND), rounding each
// channel independently.
func AlphaBlend(c uint32, a uint8) uint32 {
	rb := ((c>>8)&0x00FF00FF)*uint32(a) + 0x00FF00FF
	ag := (c&0x00FF00FF)*uint32(a) + 0x00FF00FF
	return (rb & 0xFF00FF00) + ((ag >> 8) & 0x00FF00FF)
}

// ColorInterpolate blends two packed pre-multiplied pixels by weights
// a1/a2 in [0,255] per channel (spec §4.7's COLOR_INTERPOLATE), used by
// the gradient table builder and the bilinear image sampler.
func ColorInterpolate(c1 uint32, a1 uint8, c2 uint32, a2 uint8) uint32 {
	var out uint32
	for shift := uint(0); shift < 32; shift += 8 {
		v1 := uint8(c1 >> shift)
		v2 := uint8(c2 >> shift)
		mix := (uint32(v1)*uint32(a1) + uint32(v2)*uint32(a2)) >> 8
		if mix > 255 {
			mix = 255
		}
		out |= mix << shift
	}
	return out
}

// SourceOver composites pre-multiplied src over pre-multiplied dst
// (spec §4.7): dst = src + ALPHA_BLEND(dst, 255 - alpha(src)).
func SourceOver(dst, src uint32) uint32 {
	return src + AlphaBlend(dst, InvAlpha(src))
}

// Unpremultiply converts a pre-multiplied packed pixel back to straight
// alpha, used by Sync when the target colorspace is one of the "_S"
// straight variants. The divide is clamped to 255 per channel; legal
// inputs never exceed that bound since every source this module
// produces is already pre-multiplied (spec §9's open question on
// rasterUnpremultiply).
func Unpremultiply(cs ColorSpace, c uint32) uint32 {
	r, g, b, a := Channels(cs, c)
	if a == 0 {
		return Join(cs, 0, 0, 0, 0)
	}
	unmul := func(v uint8) uint8 {
		x := (uint32(v)*255 + uint32(a)/2) / uint32(a)
		if x > 255 {
			x = 255
		}
		return uint8(x)
	}
	return Join(cs, unmul(r), unmul(g), unmul(b), a)
}

// Surface is the render target: a packed 32-bit pixel buffer with a row
// stride, addressed in the channel order of ColorSpace (spec §3).
// Pixels are always stored pre-multiplied internally; the "_S"
// colorspaces only affect what Sync writes out.
type Surface struct {
	Pix    []uint32
	W, H   int
	Stride int
	Space  ColorSpace
}

// NewSurface allocates a cleared w×h surface with stride == w.
func NewSurface(w, h int, space ColorSpace) *Surface {
	return &Surface{
		Pix:    make([]uint32, w*h),
		W:      w,
		H:      h,
		Stride: w,
		Space:  space,
	}
}

// Row returns the slice of w pixels starting at (0,y).
func (s *Surface) Row(y int) []uint32 {
	off := y * s.Stride
	return s.Pix[off : off+s.W]
}

// PixelAt returns the packed pixel at (x,y).
func (s *Surface) PixelAt(x, y int) uint32 { return s.Pix[y*s.Stride+x] }

// SetPixel writes a packed pre-multiplied pixel at (x,y).
func (s *Surface) SetPixel(x, y int, c uint32) { s.Pix[y*s.Stride+x] = c }

// Clear fills the whole surface with c (spec §6's clear()).
func (s *Surface) Clear(c uint32) {
	for y := 0; y < s.H; y++ {
		row := s.Row(y)
		for i := range row {
			row[i] = c
		}
	}
}

// RasterRGBA32 fills len consecutive pixels of row starting at x with
// color (spec §4.7's scalar rasterRGBA32 fallback — the AVX/NEON
// specializations named there are back-end SIMD concerns out of scope
// here).
func RasterRGBA32(row []uint32, color uint32, x, length int) {
	for i := 0; i < length; i++ {
		row[x+i] = color
	}
}

// ColorModel implements image.Image / draw.Image so callers can hand a
// Surface directly to golang.org/x/image/draw.
func (s *Surface) ColorModel() color.Model { return color.RGBAModel }

// Bounds implements image.Image.
func (s *Surface) Bounds() image.Rectangle { return image.Rect(0, 0, s.W, s.H) }

// At implements image.Image, unpacking the surface's native channel
// order into a premultiplied color.RGBA.
func (s *Surface) At(x, y int) color.Color {
	r, g, b, a := Channels(s.Space, s.PixelAt(x, y))
	return color.RGBA{R: r, G: g, B: b, A: a}
}

// Set implements draw.Image, packing a color.Color into the surface's
// native channel order (converted to premultiplied alpha).
func (s *Surface) Set(x, y int, c color.Color) {
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	s.SetPixel(x, y, Join(s.Space, rgba.R, rgba.G, rgba.B, rgba.A))
}
