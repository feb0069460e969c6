package frame

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestFit(t *testing.T) {
	tests := []struct {
		name               string
		sw, sh, bw, bh     int
		stretch            bool
		wantScale          float32
		wantOffX, wantOffY float32
	}{
		{"same aspect", 800, 600, 400, 300, true, 2, 0, 0},
		{"wide surface", 1000, 300, 400, 300, true, 1, 300, 0},
		{"tall surface", 400, 900, 400, 300, true, 1, 0, 300},
		{"square buffer", 800, 600, 100, 100, true, 6, 100, 0},
		{"native", 800, 600, 400, 300, false, 1, 200, 150},
		{"degenerate", 0, 600, 400, 300, true, 1, 0, 0},
	}
	for _, tc := range tests {
		p := Fit(tc.sw, tc.sh, tc.bw, tc.bh, tc.stretch)
		if p.Scale != tc.wantScale || p.Offset[0] != tc.wantOffX || p.Offset[1] != tc.wantOffY {
			t.Errorf("%s: Fit = %+v, want scale %v offset (%v, %v)", tc.name, p, tc.wantScale, tc.wantOffX, tc.wantOffY)
		}
	}
}

func TestFitPreservesAspect(t *testing.T) {
	p := Fit(1280, 720, 333, 250, true)
	w := 333 * p.Scale
	h := 250 * p.Scale
	if got, want := w/h, float32(333)/250; got-want > 1e-5 || want-got > 1e-5 {
		t.Errorf("aspect after fit = %v, want %v", got, want)
	}
	if w > 1280 || h > 720 {
		t.Errorf("fitted size %vx%v exceeds surface", w, h)
	}
}

func TestPlacementMatrixMatchesApply(t *testing.T) {
	p := Fit(1000, 300, 400, 300, true)
	m := p.Matrix()
	v := m.Mul3x1(mgl32.Vec3{10, 20, 1})
	x, y := p.Apply(10, 20)
	if v[0] != x || v[1] != y {
		t.Errorf("Matrix maps to (%v, %v), Apply to (%v, %v)", v[0], v[1], x, y)
	}
}
