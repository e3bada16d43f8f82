package fixedmath

import (
	"testing"
)

func TestMulDivIdentities(t *testing.T) {
	cases := []struct {
		a, b, want int64
	}{
		{1 << 16, 1 << 16, 1 << 16},
		{2 << 16, 3 << 16, 6 << 16},
		{-2 << 16, 3 << 16, -6 << 16},
	}
	for _, c := range cases {
		got := Mul(c.a, c.b)
		if got != c.want {
			t.Errorf("Mul(%d,%d) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestDivByZeroSaturates(t *testing.T) {
	got := Div(1<<16, 0)
	if got != 0x7FFFFFFF {
		t.Errorf("Div by zero = %d, want saturated max", got)
	}
}

func TestDiffPeriodic(t *testing.T) {
	d := Diff(0, AnglePi+1)
	if d > 0 {
		t.Errorf("Diff should wrap to negative near +pi boundary, got %d", d)
	}
	if Diff(0, 0) != 0 {
		t.Errorf("Diff(0,0) should be 0")
	}
}

func TestAtanAxisAligned(t *testing.T) {
	cases := []struct {
		p    Point
		want Fixed
	}{
		{Point{X: 64 * 10, Y: 0}, 0},
		{Point{X: 0, Y: 64 * 10}, AnglePi2},
		{Point{X: -64 * 10, Y: 0}, AnglePi},
	}
	for _, c := range cases {
		got := Atan(c.p)
		diff := Diff(c.want, got)
		if diff < 0 {
			diff = -diff
		}
		if diff > 200 {
			t.Errorf("Atan(%v) = %d, want ~%d", c.p, got, c.want)
		}
	}
}

func TestCosSinUnitCircle(t *testing.T) {
	// cos(0) should be ~1<<16, sin(0) should be ~0.
	c := Cos(0)
	if c < (1<<16)-200 || c > (1<<16)+200 {
		t.Errorf("Cos(0) = %d, want ~65536", c)
	}
	s := Sin(0)
	if s < -200 || s > 200 {
		t.Errorf("Sin(0) = %d, want ~0", s)
	}
}

func TestRotateIdentity(t *testing.T) {
	p := Point{X: 640, Y: 0}
	got := Rotate(p, 0)
	if got != p {
		t.Errorf("Rotate by 0 should be identity, got %v want %v", got, p)
	}
}

func TestRotateQuarterTurn(t *testing.T) {
	p := Point{X: 64 * 100, Y: 0}
	got := Rotate(p, AnglePi2)
	if abs32(int32(got.X)) > 200 {
		t.Errorf("Rotate by pi/2: X should be ~0, got %d", got.X)
	}
	if got.Y < 64*99 || got.Y > 64*101 {
		t.Errorf("Rotate by pi/2: Y should be ~6400, got %d", got.Y)
	}
}

func TestLengthPythagoras(t *testing.T) {
	p := Point{X: 64 * 3, Y: 64 * 4}
	got := Length(p)
	want := Fixed(64 * 5)
	diff := got - want
	if diff < 0 {
		diff = -diff
	}
	if diff > 2 {
		t.Errorf("Length(3,4) = %d, want ~%d", got, want)
	}
}

func TestSplitCubicMidpoint(t *testing.T) {
	base := [7]Point{
		{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 100}, {X: 0, Y: 100},
	}
	SplitCubic(&base)
	if base[0] != (Point{X: 0, Y: 0}) {
		t.Errorf("base[0] changed: %v", base[0])
	}
	if base[6] != (Point{X: 0, Y: 100}) {
		t.Errorf("base[6] should equal original endpoint, got %v", base[6])
	}
	// midpoint must lie inside the original bounding box
	if base[3].X < 0 || base[3].X > 100 || base[3].Y < 0 || base[3].Y > 100 {
		t.Errorf("split midpoint out of bounds: %v", base[3])
	}
}

func TestSmallCubicFlatLine(t *testing.T) {
	base := [4]Point{
		{X: 0, Y: 0}, {X: 33, Y: 0}, {X: 66, Y: 0}, {X: 100, Y: 0},
	}
	_, _, _, flat := SmallCubic(base)
	if !flat {
		t.Errorf("a straight collinear cubic should be reported flat")
	}
}

func TestIsSmall(t *testing.T) {
	if !IsSmall(Point{X: 1, Y: 1}) {
		t.Errorf("(1,1) should be small")
	}
	if IsSmall(Point{X: 2, Y: 0}) {
		t.Errorf("(2,0) should not be small")
	}
}
