package raster

import (
	"testing"

	"github.com/agg-go/rasterix/internal/fixedmath"
	"github.com/agg-go/rasterix/internal/outline"
)

func pt(x, y float64) fixedmath.Point {
	return fixedmath.Point{X: fixedmath.ToCoord(x), Y: fixedmath.ToCoord(y)}
}

func rectOutline(x0, y0, x1, y1 float64) *outline.Outline {
	var o outline.Outline
	o.MoveTo(pt(x0, y0))
	o.LineTo(pt(x1, y0))
	o.LineTo(pt(x1, y1))
	o.LineTo(pt(x0, y1))
	o.Close()
	return &o
}

func TestRasterizeSinglePixelSquare(t *testing.T) {
	o := rectOutline(2, 2, 3, 3)
	out, err := Rasterize(o, 0, 0, 16*64, 16*64, Options{ClipW: 16, ClipH: 16, AntiAlias: true})
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	if len(out.Spans) != 1 {
		t.Fatalf("expected exactly 1 span for a 1x1 square, got %d: %+v", len(out.Spans), out.Spans)
	}
	s := out.Spans[0]
	if s.X != 2 || s.Y != 2 || s.Len != 1 || s.Coverage != 255 {
		t.Fatalf("unexpected span: %+v", s)
	}
}

func TestRasterizeRedSquareCoverage(t *testing.T) {
	o := rectOutline(2, 2, 10, 10)
	out, err := Rasterize(o, 0, 0, 16*64, 16*64, Options{ClipW: 16, ClipH: 16, AntiAlias: true})
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	total := 0
	for _, s := range out.Spans {
		if s.Coverage != 255 {
			t.Fatalf("expected full coverage inside an axis-aligned rect, got %+v", s)
		}
		total += int(s.Len)
	}
	if total != 64 {
		t.Fatalf("expected 64 fully-covered pixels for an 8x8 rect, got %d", total)
	}
}

func TestRasterizeSpansSortedNoOverlap(t *testing.T) {
	o := rectOutline(1, 1, 9, 5)
	out, err := Rasterize(o, 0, 0, 16*64, 16*64, Options{ClipW: 16, ClipH: 16, AntiAlias: true})
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	var prevY int16 = -1
	var prevEndX int16
	for _, s := range out.Spans {
		if s.Len == 0 {
			t.Fatalf("zero-length span emitted: %+v", s)
		}
		if s.X < 0 || int(s.X)+int(s.Len) > 16 || s.Y < 0 || s.Y >= 16 {
			t.Fatalf("span out of surface bounds: %+v", s)
		}
		if s.Y == prevY && s.X < prevEndX {
			t.Fatalf("spans not sorted / overlapping on row %d", s.Y)
		}
		prevY = s.Y
		prevEndX = s.X + int16(s.Len)
	}
}

func TestRasterizeZeroAreaProducesEmpty(t *testing.T) {
	var o outline.Outline
	o.MoveTo(pt(5, 5))
	o.LineTo(pt(5, 5))
	o.Close()
	out, err := Rasterize(&o, 0, 0, 16*64, 16*64, Options{ClipW: 16, ClipH: 16, AntiAlias: true})
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	if len(out.Spans) != 0 {
		t.Fatalf("degenerate zero-area shape should emit no spans, got %d", len(out.Spans))
	}
}

func TestRasterizeIdempotent(t *testing.T) {
	o := rectOutline(2, 2, 10, 10)
	out1, _ := Rasterize(o, 0, 0, 16*64, 16*64, Options{ClipW: 16, ClipH: 16, AntiAlias: true})
	out2, _ := Rasterize(o, 0, 0, 16*64, 16*64, Options{ClipW: 16, ClipH: 16, AntiAlias: true})
	if len(out1.Spans) != len(out2.Spans) {
		t.Fatalf("repeated rasterization should be bit-identical: %d vs %d spans", len(out1.Spans), len(out2.Spans))
	}
	for i := range out1.Spans {
		if out1.Spans[i] != out2.Spans[i] {
			t.Fatalf("span %d differs between runs: %+v vs %+v", i, out1.Spans[i], out2.Spans[i])
		}
	}
}

func TestRasterizeEvenOddStarHollowCenter(t *testing.T) {
	// A five-pointed star drawn as one self-intersecting contour: its
	// central pentagon has winding number 2, so the even-odd rule leaves
	// it uncovered while nonzero would fill it.
	var o outline.Outline
	o.MoveTo(pt(8, 1))
	o.LineTo(pt(12.11, 13.66))
	o.LineTo(pt(1.34, 5.84))
	o.LineTo(pt(14.66, 5.84))
	o.LineTo(pt(3.89, 13.66))
	o.Close()
	o.FillRule = outline.EvenOdd

	out, err := Rasterize(&o, 0, 0, 16*64, 16*64, Options{ClipW: 16, ClipH: 16, AntiAlias: true})
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	covered := func(x, y int16) uint8 {
		for _, s := range out.Spans {
			if s.Y == y && x >= s.X && x < s.X+int16(s.Len) {
				return s.Coverage
			}
		}
		return 0
	}
	if c := covered(8, 8); c > 50 {
		t.Fatalf("even-odd star centre should be near-empty, got coverage %d", c)
	}
}
