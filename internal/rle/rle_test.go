package rle

import "testing"

func TestClipRectTruncatesStraddlingSpan(t *testing.T) {
	d := &Data{Spans: []Span{
		{X: -2, Y: 3, Len: 10, Coverage: 255}, // [-2, 8)
	}}
	ClipRect(d, BBox{MinX: 0, MinY: 0, MaxX: 5, MaxY: 10})
	if len(d.Spans) != 1 {
		t.Fatalf("expected 1 span after clip, got %d: %+v", len(d.Spans), d.Spans)
	}
	s := d.Spans[0]
	if s.X != 0 || s.Len != 5 || s.Coverage != 255 {
		t.Fatalf("unexpected clipped span: %+v", s)
	}
}

func TestClipRectDropsOutsideSpans(t *testing.T) {
	d := &Data{Spans: []Span{
		{X: 0, Y: 0, Len: 4, Coverage: 255},
		{X: 0, Y: 20, Len: 4, Coverage: 255},
		{X: 50, Y: 5, Len: 4, Coverage: 255},
	}}
	ClipRect(d, BBox{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10})
	if len(d.Spans) != 1 {
		t.Fatalf("expected only the in-box span to survive, got %d: %+v", len(d.Spans), d.Spans)
	}
	if d.Spans[0].Y != 0 {
		t.Fatalf("wrong span survived: %+v", d.Spans[0])
	}
}

func TestClipPathIntersectsCoverage(t *testing.T) {
	d := &Data{Spans: []Span{
		{X: 0, Y: 0, Len: 10, Coverage: 255},
	}}
	clip := &Data{Spans: []Span{
		{X: 4, Y: 0, Len: 10, Coverage: 128},
	}}
	ClipPath(d, clip)
	if len(d.Spans) != 1 {
		t.Fatalf("expected 1 overlap span, got %d: %+v", len(d.Spans), d.Spans)
	}
	s := d.Spans[0]
	if s.X != 4 || s.Len != 6 {
		t.Fatalf("unexpected overlap geometry: %+v", s)
	}
	want := uint8((uint16(255) * uint16(128)) >> 8)
	if s.Coverage != want {
		t.Fatalf("coverage = %d, want %d", s.Coverage, want)
	}
}

func TestClipPathNoOverlapIsEmpty(t *testing.T) {
	d := &Data{Spans: []Span{{X: 0, Y: 0, Len: 5, Coverage: 255}}}
	clip := &Data{Spans: []Span{{X: 10, Y: 0, Len: 5, Coverage: 255}}}
	ClipPath(d, clip)
	if len(d.Spans) != 0 {
		t.Fatalf("expected no overlap, got %+v", d.Spans)
	}
}

func TestClipPathDifferentRowsNoMatch(t *testing.T) {
	d := &Data{Spans: []Span{{X: 0, Y: 0, Len: 5, Coverage: 255}}}
	clip := &Data{Spans: []Span{{X: 0, Y: 1, Len: 5, Coverage: 255}}}
	ClipPath(d, clip)
	if len(d.Spans) != 0 {
		t.Fatalf("spans on different rows must never intersect, got %+v", d.Spans)
	}
}

func TestClipToSurfaceSaturatesAndWarns(t *testing.T) {
	d := &Data{Spans: []Span{{X: 0, Y: 0, Len: 5, Coverage: 255}}}
	warned := false
	ClipToSurface(d, 1<<20, 1<<20, func() { warned = true })
	if !warned {
		t.Fatalf("expected a saturation warning for an out-of-i16-range surface")
	}
	if len(d.Spans) != 1 {
		t.Fatalf("in-range span should survive the saturating clip, got %+v", d.Spans)
	}
}

func TestClipToSurfaceNoWarnWhenInRange(t *testing.T) {
	d := &Data{Spans: []Span{{X: 0, Y: 0, Len: 5, Coverage: 255}}}
	warned := false
	ClipToSurface(d, 64, 64, func() { warned = true })
	if warned {
		t.Fatalf("did not expect a saturation warning for an in-range surface")
	}
}

func TestResetRetainsCapacity(t *testing.T) {
	d := &Data{}
	d.Spans = append(d.Spans, Span{X: 0, Y: 0, Len: 1, Coverage: 1})
	c := cap(d.Spans)
	d.Reset()
	if len(d.Spans) != 0 {
		t.Fatalf("Reset should empty the span list")
	}
	if cap(d.Spans) < c {
		t.Fatalf("Reset should not shrink capacity")
	}
}
