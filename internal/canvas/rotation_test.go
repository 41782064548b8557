package canvas

import (
	"math"
	"testing"
)

func TestRotateRoundTrip(t *testing.T) {
	angles := []float64{0, 30, 45, 90, 180, 270, 360, -45, 723.5}
	for _, deg := range angles {
		x, y := Rotate(120, -35, deg)
		bx, by := InverseRotate(x, y, deg)
		if math.Abs(bx-120) > 1e-9 || math.Abs(by+35) > 1e-9 {
			t.Errorf("angle %v: round trip gave (%v, %v)", deg, bx, by)
		}
	}
}

func TestRotateQuarterTurn(t *testing.T) {
	// CSS convention: y grows downward, positive angles turn clockwise
	// on screen, so (1, 0) rotated 90deg lands at (0, 1).
	x, y := Rotate(1, 0, 90)
	if math.Abs(x) > 1e-9 || math.Abs(y-1) > 1e-9 {
		t.Errorf("Rotate(1, 0, 90) = (%v, %v), want (0, 1)", x, y)
	}
}

func TestRotatedBounds(t *testing.T) {
	tests := []struct {
		name          string
		w, h, deg     float64
		wantW, wantH  float64
	}{
		{"no rotation", 100, 50, 0, 100, 50},
		{"quarter turn swaps", 100, 50, 90, 50, 100},
		{"half turn identical", 100, 50, 180, 100, 50},
		{"square diagonal", 100, 100, 45, 100 * math.Sqrt2, 100 * math.Sqrt2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := RotatedBounds(tt.w, tt.h, tt.deg)
			if math.Abs(w-tt.wantW) > 1e-9 || math.Abs(h-tt.wantH) > 1e-9 {
				t.Errorf("RotatedBounds(%v, %v, %v) = (%v, %v), want (%v, %v)",
					tt.w, tt.h, tt.deg, w, h, tt.wantW, tt.wantH)
			}
		})
	}
}
