package common

import "testing"

func TestVectorHelpers(t *testing.T) {
	a := [3]float32{1, 2, 3}
	b := [3]float32{4, 5, 6}

	if got := Add3(a, b); got != [3]float32{5, 7, 9} {
		t.Errorf("Add3 = %v", got)
	}
	if got := Sub3(b, a); got != [3]float32{3, 3, 3} {
		t.Errorf("Sub3 = %v", got)
	}
	if got := Mul3(a, b); got != [3]float32{4, 10, 18} {
		t.Errorf("Mul3 = %v", got)
	}
	if got := Dot3(a, b); got != 32 {
		t.Errorf("Dot3 = %v", got)
	}
	if got := Cross3([3]float32{1, 0, 0}, [3]float32{0, 1, 0}); got != [3]float32{0, 0, 1} {
		t.Errorf("Cross3 = %v", got)
	}
	if got := Length3([3]float32{3, 4, 0}); got != 5 {
		t.Errorf("Length3 = %v", got)
	}
	if got := Normalize3([3]float32{0, 0, 7}); got != [3]float32{0, 0, 1} {
		t.Errorf("Normalize3 = %v", got)
	}
	if got := Normalize3([3]float32{}); got != [3]float32{} {
		t.Errorf("Normalize3(zero) = %v", got)
	}
	if got := Centroid3([3]float32{0, 0, 0}, [3]float32{3, 0, 0}, [3]float32{0, 3, 0}); got != [3]float32{1, 1, 0} {
		t.Errorf("Centroid3 = %v", got)
	}
}

func TestPlaneDistance(t *testing.T) {
	p := NewPlaneFromPoint([3]float32{0, 1, 0}, [3]float32{5, 2, -3})
	if p.Distance != 2 {
		t.Fatalf("Distance = %v, want 2", p.Distance)
	}
	if got := p.SignedDistance([3]float32{0, 1.5, 0}); got != -0.5 {
		t.Errorf("SignedDistance = %v, want -0.5", got)
	}
	if got := p.DistanceTo([3]float32{0, 1.5, 0}); got != 0.5 {
		t.Errorf("DistanceTo = %v, want 0.5", got)
	}
}
