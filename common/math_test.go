package common

import (
	"testing"

	"github.com/chewxy/math32"
)

func approx(a, b float32) bool {
	return math32.Abs(a-b) < 1e-4
}

func TestLookAtPerspectiveDepthRange(t *testing.T) {
	view := LookAtMat4([3]float32{0, 0, 5}, [3]float32{}, [3]float32{0, 1, 0})
	viewProj := PerspectiveMat4(math32.Pi/2, 1, 1, 10).Mul(view)

	tests := []struct {
		name  string
		point [3]float32
		depth float32
	}{
		{"near plane", [3]float32{0, 0, 4}, 0},
		{"target", [3]float32{0, 0, 0}, 40.0 / 45.0},
		{"far plane", [3]float32{0, 0, -5}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clip := viewProj.TransformPoint(tt.point)
			if !approx(clip[0], 0) || !approx(clip[1], 0) {
				t.Errorf("expected the point on the view axis, got clip %v", clip)
			}
			if got := clip[2] / clip[3]; !approx(got, tt.depth) {
				t.Errorf("expected depth %v, got %v", tt.depth, got)
			}
		})
	}
}

func TestLookAtAxes(t *testing.T) {
	view := LookAtMat4([3]float32{0, 0, 5}, [3]float32{}, [3]float32{0, 1, 0})

	right := view.TransformPoint([3]float32{1, 0, 0})
	if !approx(right[0], 1) || !approx(right[1], 0) || !approx(right[2], -5) {
		t.Errorf("expected +X to stay right of the view axis, got %v", right)
	}
	up := view.TransformPoint([3]float32{0, 1, 0})
	if !approx(up[1], 1) {
		t.Errorf("expected +Y to map to view up, got %v", up)
	}
	if view[15] != 1 || view[3] != 0 {
		t.Errorf("expected an affine bottom row, got %v", view)
	}
}

func TestMulIdentity(t *testing.T) {
	var m Mat4
	for i := range m {
		m[i] = float32(i)
	}
	if got := IdentityMat4().Mul(m); got != m {
		t.Errorf("expected identity product to return the input, got %v", got)
	}
	if got := m.Mul(IdentityMat4()); got != m {
		t.Errorf("expected product with identity to return the input, got %v", got)
	}
}

func TestSliceToBytes(t *testing.T) {
	if SliceToBytes([]float32(nil)) != nil {
		t.Error("expected nil for an empty slice")
	}
	if got := len(SliceToBytes(make([][3]float32, 5))); got != 60 {
		t.Errorf("expected 60 bytes, got %d", got)
	}
}
