package pixel

import "testing"

func TestAlphaBlendIdentityAtFullAndZeroCoverage(t *testing.T) {
	c := uint32(0x80402010)
	if got := AlphaBlend(c, 255); got != c {
		t.Fatalf("AlphaBlend(c,255) = %#x, want %#x", got, c)
	}
	if got := AlphaBlend(c, 0); got != 0 {
		t.Fatalf("AlphaBlend(c,0) = %#x, want 0", got)
	}
}

func TestJoinChannelsRoundTrip(t *testing.T) {
	for _, cs := range []ColorSpace{ABGR8888, ARGB8888} {
		c := Join(cs, 0x11, 0x22, 0x33, 0x44)
		r, g, b, a := Channels(cs, c)
		if r != 0x11 || g != 0x22 || b != 0x33 || a != 0x44 {
			t.Fatalf("colorspace %v: round trip = %02x %02x %02x %02x", cs, r, g, b, a)
		}
	}
}

func TestJoinOrderDiffersByColorSpace(t *testing.T) {
	abgr := Join(ABGR8888, 0x11, 0x22, 0x33, 0xFF)
	argb := Join(ARGB8888, 0x11, 0x22, 0x33, 0xFF)
	if abgr == argb {
		t.Fatalf("ABGR and ARGB packings of the same components should differ")
	}
}

func TestAlphaAndInvAlpha(t *testing.T) {
	c := Join(ABGR8888, 0, 0, 0, 200)
	if Alpha(c) != 200 {
		t.Fatalf("Alpha = %d, want 200", Alpha(c))
	}
	if InvAlpha(c) != 55 {
		t.Fatalf("InvAlpha = %d, want 55", InvAlpha(c))
	}
}

func TestSourceOverOpaqueSourceWins(t *testing.T) {
	dst := Join(ABGR8888, 0, 255, 0, 255)
	src := Join(ABGR8888, 255, 0, 0, 255)
	if got := SourceOver(dst, src); got != src {
		t.Fatalf("opaque source-over should fully replace dst, got %#x want %#x", got, src)
	}
}

func TestUnpremultiplyRecoversStraightAlpha(t *testing.T) {
	premul := Join(ABGR8888, 128, 0, 0, 128) // half red at half alpha
	straight := Unpremultiply(ABGR8888, premul)
	r, _, _, a := Channels(ABGR8888, straight)
	if a != 128 {
		t.Fatalf("alpha should be unchanged, got %d", a)
	}
	if r < 250 {
		t.Fatalf("unpremultiplied red should be close to full scale, got %d", r)
	}
}

func TestUnpremultiplyZeroAlphaIsTransparentBlack(t *testing.T) {
	c := Unpremultiply(ABGR8888, 0)
	if c != 0 {
		t.Fatalf("zero-alpha pixel should unpremultiply to 0, got %#x", c)
	}
}

func TestSurfaceClearFillsEveryPixel(t *testing.T) {
	s := NewSurface(4, 3, ABGR8888)
	c := Join(ABGR8888, 1, 2, 3, 4)
	s.Clear(c)
	for y := 0; y < s.H; y++ {
		for x := 0; x < s.W; x++ {
			if got := s.PixelAt(x, y); got != c {
				t.Fatalf("pixel (%d,%d) = %#x, want %#x", x, y, got, c)
			}
		}
	}
}

func TestRasterRGBA32FillsOnlyRequestedRun(t *testing.T) {
	row := make([]uint32, 10)
	RasterRGBA32(row, 0xFFFFFFFF, 2, 3)
	for i, v := range row {
		if i >= 2 && i < 5 {
			if v != 0xFFFFFFFF {
				t.Fatalf("index %d should be filled", i)
			}
		} else if v != 0 {
			t.Fatalf("index %d should be untouched, got %#x", i, v)
		}
	}
}

func TestColorInterpolateMidpointAveragesChannels(t *testing.T) {
	c1 := Join(ABGR8888, 0, 0, 0, 255)
	c2 := Join(ABGR8888, 200, 0, 0, 255)
	mid := ColorInterpolate(c1, 128, c2, 128)
	r, _, _, _ := Channels(ABGR8888, mid)
	if r < 90 || r > 110 {
		t.Fatalf("midpoint red channel = %d, want close to 100", r)
	}
}
