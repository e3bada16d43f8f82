package composite

import (
	"testing"

	"github.com/agg-go/rasterix/internal/pixel"
	"github.com/agg-go/rasterix/internal/rle"
)

func TestDrawRectOpaqueSolidFastTrack(t *testing.T) {
	s := pixel.NewSurface(8, 8, pixel.ABGR8888)
	red := pixel.Join(pixel.ABGR8888, 255, 0, 0, 255)
	DrawRect(s, rle.BBox{MinX: 2, MinY: 2, MaxX: 6, MaxY: 6}, &Fill{Kind: Solid, Color: red}, 255, nil)

	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			inside := x >= 2 && x < 6 && y >= 2 && y < 6
			got := s.PixelAt(x, y)
			if inside && got != red {
				t.Fatalf("pixel (%d,%d) = %#x, want %#x", x, y, got, red)
			}
			if !inside && got != 0 {
				t.Fatalf("pixel (%d,%d) outside rect should be untouched, got %#x", x, y, got)
			}
		}
	}
}

func TestDrawRectTranslucentBlendsWithBackground(t *testing.T) {
	s := pixel.NewSurface(4, 4, pixel.ABGR8888)
	blue := pixel.Join(pixel.ABGR8888, 0, 0, 255, 255)
	s.Clear(blue)

	// premultiplied 50% red
	halfRed := pixel.Join(pixel.ABGR8888, 128, 0, 0, 128)
	DrawRect(s, rle.BBox{MinX: 0, MinY: 0, MaxX: 4, MaxY: 4}, &Fill{Kind: Solid, Color: halfRed}, 255, nil)

	got := s.PixelAt(0, 0)
	if got == blue || got == halfRed {
		t.Fatalf("translucent rect over opaque background should blend, got %#x", got)
	}
}

func TestDrawRLEHonoursPerSpanCoverage(t *testing.T) {
	s := pixel.NewSurface(4, 1, pixel.ABGR8888)
	green := pixel.Join(pixel.ABGR8888, 0, 255, 0, 255)
	data := &rle.Data{Spans: []rle.Span{{X: 0, Y: 0, Len: 1, Coverage: 255}, {X: 1, Y: 0, Len: 1, Coverage: 128}}}
	DrawRLE(s, data, &Fill{Kind: Solid, Color: green}, 255, nil)

	if s.PixelAt(0, 0) != green {
		t.Fatalf("full-coverage pixel should be the exact fill color")
	}
	if s.PixelAt(1, 0) == green || s.PixelAt(1, 0) == 0 {
		t.Fatalf("half-coverage pixel should be partially blended, got %#x", s.PixelAt(1, 0))
	}
	if s.PixelAt(2, 0) != 0 {
		t.Fatalf("pixel with no span should be untouched")
	}
}

func TestDrawRLEAlphaMaskModulatesCoverage(t *testing.T) {
	s := pixel.NewSurface(2, 1, pixel.ABGR8888)
	white := pixel.Join(pixel.ABGR8888, 255, 255, 255, 255)

	maskOpaque := pixel.NewSurface(2, 1, pixel.ABGR8888)
	maskOpaque.SetPixel(0, 0, pixel.Join(pixel.ABGR8888, 0, 0, 0, 255))
	maskOpaque.SetPixel(1, 0, pixel.Join(pixel.ABGR8888, 0, 0, 0, 0))

	data := &rle.Data{Spans: []rle.Span{{X: 0, Y: 0, Len: 2, Coverage: 255}}}
	DrawRLE(s, data, &Fill{Kind: Solid, Color: white}, 255, &Mask{Method: AlphaMask, Image: maskOpaque})

	if s.PixelAt(0, 0) != white {
		t.Fatalf("fully-opaque mask pixel should pass the source through, got %#x", s.PixelAt(0, 0))
	}
	if s.PixelAt(1, 0) != 0 {
		t.Fatalf("fully-transparent mask pixel should block the source, got %#x", s.PixelAt(1, 0))
	}
}

func TestTransformInvertRoundTrips(t *testing.T) {
	tr := Transform{A: 2, B: 0, C: 0, D: 2, E: 3, F: 4}
	inv, ok := tr.Invert()
	if !ok {
		t.Fatalf("non-singular transform should invert")
	}
	x, y := tr.Apply(5, 6)
	bx, by := inv.Apply(x, y)
	if abs(bx-5) > 1e-9 || abs(by-6) > 1e-9 {
		t.Fatalf("round trip through transform/inverse = (%v,%v), want (5,6)", bx, by)
	}
}

func TestTransformInvertRejectsSingular(t *testing.T) {
	tr := Transform{A: 1, B: 1, C: 1, D: 1}
	if _, ok := tr.Invert(); ok {
		t.Fatalf("a singular matrix should fail to invert")
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func TestBilinearPixelInterpolatesBetweenNeighbours(t *testing.T) {
	img := &Image{
		Pix: []uint32{
			pixel.Join(pixel.ABGR8888, 0, 0, 0, 255), pixel.Join(pixel.ABGR8888, 255, 0, 0, 255),
			pixel.Join(pixel.ABGR8888, 0, 0, 0, 255), pixel.Join(pixel.ABGR8888, 255, 0, 0, 255),
		},
		W: 2, H: 2,
		Inverse: Identity,
		Scale:   2, // forces the bilinear branch
	}
	c, ok := sampleImage(img, 0.5, 0.5)
	if !ok {
		t.Fatalf("sample inside bounds should succeed")
	}
	r, _, _, _ := pixel.Channels(pixel.ABGR8888, c)
	if r == 0 || r == 255 {
		t.Fatalf("a point between a black and a red pixel should interpolate, got r=%d", r)
	}
}

func TestSampleImageOutOfBoundsFails(t *testing.T) {
	img := &Image{Pix: []uint32{0xFF000000}, W: 1, H: 1, Inverse: Identity, Scale: 1}
	if _, ok := sampleImage(img, 10, 10); ok {
		t.Fatalf("a point mapping outside the source image should report ok=false")
	}
}

func TestDrawImageBlendsOntoSurface(t *testing.T) {
	s := pixel.NewSurface(2, 2, pixel.ABGR8888)
	opaqueWhite := pixel.Join(pixel.ABGR8888, 255, 255, 255, 255)
	img := &Image{Pix: []uint32{opaqueWhite, opaqueWhite, opaqueWhite, opaqueWhite}, W: 2, H: 2, Inverse: Identity, Scale: 1}
	data := &rle.Data{Spans: []rle.Span{{X: 0, Y: 0, Len: 2, Coverage: 255}, {X: 0, Y: 1, Len: 2, Coverage: 255}}}
	DrawImage(s, data, img, 255, nil)
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if s.PixelAt(x, y) != opaqueWhite {
				t.Fatalf("pixel (%d,%d) = %#x, want opaque white", x, y, s.PixelAt(x, y))
			}
		}
	}
}
