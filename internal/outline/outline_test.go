package outline

import (
	"testing"

	"github.com/agg-go/rasterix/internal/fixedmath"
)

func pt(x, y int) fixedmath.Point {
	return fixedmath.Point{X: fixedmath.Coord(x * 64), Y: fixedmath.Coord(y * 64)}
}

func TestOutlineBasicContour(t *testing.T) {
	var o Outline
	o.MoveTo(pt(0, 0))
	o.LineTo(pt(10, 0))
	o.LineTo(pt(10, 10))
	o.Close()

	if o.NumContours() != 1 {
		t.Fatalf("expected 1 contour, got %d", o.NumContours())
	}
	start, end := o.ContourRange(0)
	if start != 0 || end != 2 {
		t.Fatalf("contour range = [%d,%d], want [0,2]", start, end)
	}
	if err := o.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestOutlineMultipleContours(t *testing.T) {
	var o Outline
	o.MoveTo(pt(0, 0))
	o.LineTo(pt(1, 0))
	o.MoveTo(pt(5, 5))
	o.LineTo(pt(6, 5))
	o.Close()

	if o.NumContours() != 2 {
		t.Fatalf("expected 2 contours, got %d", o.NumContours())
	}
	if err := o.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestOutlineCubic(t *testing.T) {
	var o Outline
	o.MoveTo(pt(0, 0))
	o.CubicTo(pt(1, 1), pt(2, 1), pt(3, 0))
	o.Close()
	if err := o.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestOutlineResetRetainsCapacity(t *testing.T) {
	var o Outline
	o.MoveTo(pt(0, 0))
	o.LineTo(pt(1, 1))
	o.Close()
	capBefore := cap(o.Points)
	o.Reset()
	if len(o.Points) != 0 || len(o.Contours) != 0 {
		t.Fatalf("Reset should zero lengths")
	}
	if cap(o.Points) < capBefore {
		t.Fatalf("Reset should not shrink capacity: before=%d after=%d", capBefore, cap(o.Points))
	}
}

func TestOutlineRejectsContourStartingWithControl(t *testing.T) {
	var o Outline
	o.Points = append(o.Points, pt(0, 0), pt(1, 1))
	o.Tags = append(o.Tags, CubicControl, OnPoint)
	o.Contours = append(o.Contours, 1)
	if err := o.Validate(); err == nil {
		t.Fatalf("expected validation error for contour starting with control tag")
	}
}

func TestPoolRequestReleaseIndependentSlots(t *testing.T) {
	p := NewPool(2)
	a := p.Request(ShapeOutline, 0)
	a.MoveTo(pt(0, 0))
	a.LineTo(pt(1, 1))

	b := p.Request(ShapeOutline, 1)
	if len(b.Points) != 0 {
		t.Fatalf("slot 1 should start empty, slots must not alias")
	}

	p.Release(ShapeOutline, 0)
	if len(a.Points) != 0 {
		t.Fatalf("Release should reset the slot")
	}
}

func TestPoolGrowPreservesSlots(t *testing.T) {
	p := NewPool(1)
	s := p.Request(ShapeOutline, 0)
	s.MoveTo(pt(2, 2))
	p.Grow(4)
	if p.Threads() != 4 {
		t.Fatalf("Threads() = %d, want 4", p.Threads())
	}
	s2 := p.Request(ShapeOutline, 0)
	if len(s2.Points) != 1 {
		t.Fatalf("Grow must preserve existing slot contents")
	}
}
