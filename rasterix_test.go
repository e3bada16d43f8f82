package rasterix

import (
	"errors"
	"testing"

	"github.com/agg-go/rasterix/internal/pixel"
)

func TestEndToEndOpaqueSquareRender(t *testing.T) {
	w, h := 8, 8
	buf := make([]uint32, w*h)
	r := New(1, nil)
	if err := r.Target(buf, w, w, h, ARGB8888); err != nil {
		t.Fatalf("Target: %v", err)
	}

	square := Rect(1, 1, 5, 5)
	task, err := r.PrepareShape(square, SolidFill(255, 0, 0, 255), nil, 0, Identity, 255, nil, FlagNone)
	if err != nil {
		t.Fatalf("PrepareShape: %v", err)
	}

	if err := r.PreRender(); err != nil {
		t.Fatalf("PreRender: %v", err)
	}
	if err := r.RenderShape(task); err != nil {
		t.Fatalf("RenderShape: %v", err)
	}
	if err := r.PostRender(); err != nil {
		t.Fatalf("PostRender: %v", err)
	}
	if err := r.Sync(); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	inside := buf[2*w+2]
	red, _, _, a := pixel.Channels(ARGB8888, inside)
	if red != 255 || a != 255 {
		t.Fatalf("inside pixel = r%d a%d, want opaque red", red, a)
	}
	outside := buf[7*w+7]
	if outside != 0 {
		t.Fatalf("outside pixel = %#x, want transparent", outside)
	}

	region := r.Region(task)
	if region.X0 != 1 || region.Y0 != 1 || region.X1 != 5 || region.Y1 != 5 {
		t.Fatalf("Region = %+v", region)
	}

	if err := r.Dispose(task); err != nil {
		t.Fatalf("Dispose: %v", err)
	}
}

func TestEndToEndStrokedShape(t *testing.T) {
	w, h := 16, 16
	buf := make([]uint32, w*h)
	r := New(1, nil)
	if err := r.Target(buf, w, w, h, ARGB8888); err != nil {
		t.Fatalf("Target: %v", err)
	}

	p := NewPath(NonZero).MoveTo(2, 2).LineTo(13, 2).LineTo(13, 13).LineTo(2, 13).Close()
	stroke := NewStroke(2, CapButt, JoinMiter, 4, Dash{}, SolidFill(0, 0, 255, 255))
	task, err := r.PrepareShape(p, SolidFill(0, 255, 0, 128), stroke, 0, Identity, 255, nil, FlagNone)
	if err != nil {
		t.Fatalf("PrepareShape: %v", err)
	}
	if err := r.RenderShape(task); err != nil {
		t.Fatalf("RenderShape: %v", err)
	}

	border := buf[2*w+7]
	if pixel.Alpha(border) == 0 {
		t.Fatal("expected the stroked border to paint a pixel along the top edge")
	}
}

func TestTargetRejectsInvalidArguments(t *testing.T) {
	r := New(1, nil)
	err := r.Target(nil, 0, 0, 0, ARGB8888)
	if !errors.Is(err, ErrInvalidArguments) {
		t.Fatalf("Target(nil): err = %v, want ErrInvalidArguments", err)
	}
}

func TestPreRenderWithoutTargetFails(t *testing.T) {
	r := New(1, nil)
	if err := r.PreRender(); !errors.Is(err, ErrInsufficientCondition) {
		t.Fatalf("PreRender: err = %v, want ErrInsufficientCondition", err)
	}
}

func TestBeginEndCompositeRoundTrip(t *testing.T) {
	w, h := 4, 4
	buf := make([]uint32, w*h)
	r := New(1, nil)
	if err := r.Target(buf, w, w, h, ARGB8888); err != nil {
		t.Fatalf("Target: %v", err)
	}
	id, err := r.BeginComposite(CompositeNone, 255)
	if err != nil {
		t.Fatalf("BeginComposite: %v", err)
	}
	task, err := r.PrepareShape(Rect(0, 0, 4, 4), SolidFill(10, 20, 30, 255), nil, 0, Identity, 255, nil, FlagNone)
	if err != nil {
		t.Fatalf("PrepareShape: %v", err)
	}
	if err := r.RenderShape(task); err != nil {
		t.Fatalf("RenderShape: %v", err)
	}
	if err := r.EndComposite(id); err != nil {
		t.Fatalf("EndComposite: %v", err)
	}
	if buf[5] == 0 {
		t.Fatal("expected composite to flatten onto the target buffer")
	}
}
