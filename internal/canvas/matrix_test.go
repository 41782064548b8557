package canvas

import (
	"math"
	"testing"
)

func TestTranslateThenRotate(t *testing.T) {
	// Translate a 100×50 node to (10, 20), rotate 90deg about its center.
	m := Translate(10, 20).Multiply(RotateAbout(50, 25, 90))
	r := m.TransformRect(RectFromSize(0, 0, 100, 50))

	// A quarter turn about the center swaps the dimensions around the
	// same center point (60, 45).
	wantLeft, wantTop := 35.0, -5.0
	if math.Abs(r.Left-wantLeft) > 1e-9 || math.Abs(r.Top-wantTop) > 1e-9 {
		t.Errorf("rect = %+v, want left %v top %v", r, wantLeft, wantTop)
	}
	if math.Abs(r.Width()-50) > 1e-9 || math.Abs(r.Height()-100) > 1e-9 {
		t.Errorf("size = %v × %v, want 50 × 100", r.Width(), r.Height())
	}
}

func TestInvertRoundTrip(t *testing.T) {
	m := Translate(12, -7).Multiply(RotateAbout(30, 40, 33))
	inv := m.Invert()

	x, y := m.TransformPoint(5, 9)
	bx, by := inv.TransformPoint(x, y)
	if math.Abs(bx-5) > 1e-9 || math.Abs(by-9) > 1e-9 {
		t.Errorf("inverse round trip gave (%v, %v)", bx, by)
	}
}

func TestIdentityTransform(t *testing.T) {
	x, y := Identity().TransformPoint(3, 4)
	if x != 3 || y != 4 {
		t.Errorf("identity moved the point to (%v, %v)", x, y)
	}
}
