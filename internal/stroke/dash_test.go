package stroke

import (
	"testing"

	"github.com/agg-go/rasterix/internal/fixedmath"
	"github.com/agg-go/rasterix/internal/outline"
)

func TestApplyDashSplitsLineIntoOnSpans(t *testing.T) {
	var o outline.Outline
	o.Opened = true
	o.MoveTo(pt(0, 0))
	o.LineTo(pt(20, 0))
	o.Close()

	d := Dash{Pattern: []fixedmath.Coord{fixedmath.ToCoord(4), fixedmath.ToCoord(4)}}
	result := ApplyDash(&o, d)

	if !result.Opened {
		t.Fatalf("dashed output must always be an open outline")
	}
	if got := result.NumContours(); got != 3 {
		t.Fatalf("a 20px line dashed 4-on/4-off should produce 3 on-spans, got %d", got)
	}
	for c := 0; c < result.NumContours(); c++ {
		start, end := result.ContourRange(c)
		p0, p1 := result.Points[start], result.Points[end]
		length := fixedmath.Coord(fixedmath.Length(subPt(p1, p0)))
		if length > fixedmath.ToCoord(4)+1 {
			t.Fatalf("dash span %d longer than the on-length: %v", c, length)
		}
	}
}

func TestApplyDashNoPatternIsIdentity(t *testing.T) {
	o := straightLine(0, 0, 10, 0)
	result := ApplyDash(o, Dash{})
	if result != o {
		t.Fatalf("an empty pattern should return the input outline unchanged")
	}
}

func TestApplyDashOffsetShiftsFirstSpan(t *testing.T) {
	var o outline.Outline
	o.Opened = true
	o.MoveTo(pt(0, 0))
	o.LineTo(pt(20, 0))
	o.Close()

	pattern := []fixedmath.Coord{fixedmath.ToCoord(4), fixedmath.ToCoord(4)}
	noOffset := ApplyDash(&o, Dash{Pattern: pattern})
	withOffset := ApplyDash(&o, Dash{Pattern: pattern, Offset: fixedmath.ToCoord(2)})

	// The offset lands inside the first on-length, so both first spans
	// start at the path's start; the offset one ends 2px sooner.
	_, e0 := noOffset.ContourRange(0)
	_, e1 := withOffset.ContourRange(0)
	if noOffset.Points[e0] == withOffset.Points[e1] {
		t.Fatalf("a non-zero offset should shift where the first on-span ends")
	}
}

func TestFlattenOutlineConvertsCubicToLines(t *testing.T) {
	var o outline.Outline
	o.MoveTo(pt(0, 0))
	o.CubicTo(pt(0, 10), pt(10, 10), pt(10, 0))
	o.Close()

	flat := flattenOutline(&o)
	for _, tag := range flat.Tags {
		if tag == outline.CubicControl {
			t.Fatalf("flattenOutline must not leave any CubicControl tags")
		}
	}
	if len(flat.Points) < 4 {
		t.Fatalf("expected the curve to flatten into several line segments, got %d points", len(flat.Points))
	}
}
