package geometry

import (
	"github.com/Carmen-Shannon/oxy-gi/common"
	"github.com/chewxy/math32"
)

// ParallelEpsilon is the determinant magnitude below which a ray is treated as
// parallel to a triangle's plane and reported as not intersecting.
const ParallelEpsilon float32 = 1e-4

// Triangle is a single triangle of the static scene, positions only.
type Triangle struct {
	A, B, C [3]float32
}

// Normal returns the unit normal of the triangle from its counter-clockwise winding.
// Degenerate triangles return the zero vector.
func (t Triangle) Normal() [3]float32 {
	return common.Normalize3(common.Cross3(common.Sub3(t.B, t.A), common.Sub3(t.C, t.A)))
}

// Centroid returns the average of the three vertices.
func (t Triangle) Centroid() [3]float32 {
	return common.Centroid3(t.A, t.B, t.C)
}

// IntersectRayTriangle tests a ray against a triangle using the Möller–Trumbore
// formulation. The direction need not be unit length: the returned parameter t is
// measured in multiples of dir, so the hit point is origin + dir*t.
//
// The function does not clip t to a segment; callers check the range they need.
// Rays nearly parallel to the triangle plane (|det| < ParallelEpsilon) report no
// intersection.
//
// Parameters:
//   - origin: the ray origin
//   - dir: the ray direction
//   - tri: the triangle to test
//
// Returns:
//   - float32: the ray parameter of the hit
//   - bool: true if the ray's line crosses the triangle interior
func IntersectRayTriangle(origin, dir [3]float32, tri Triangle) (float32, bool) {
	e0 := common.Sub3(tri.B, tri.A)
	e1 := common.Sub3(tri.C, tri.A)

	p := common.Cross3(dir, e1)
	det := common.Dot3(e0, p)
	if math32.Abs(det) < ParallelEpsilon {
		return 0, false
	}
	invDet := 1 / det

	s := common.Sub3(origin, tri.A)
	u := common.Dot3(s, p) * invDet
	if u < 0 || u > 1 {
		return 0, false
	}

	q := common.Cross3(s, e0)
	v := common.Dot3(dir, q) * invDet
	if v < 0 || u+v > 1 {
		return 0, false
	}

	return common.Dot3(e1, q) * invDet, true
}
