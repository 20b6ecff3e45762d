package common

import "github.com/chewxy/math32"

// Plane represents a plane in 3D space using the equation dot(Normal, p) = Distance.
// Normal is expected to be unit length for DistanceTo to return world-space units.
type Plane struct {
	Normal   [3]float32
	Distance float32
}

// NewPlaneFromPoint builds the plane with the given normal passing through point.
//
// Parameters:
//   - normal: the plane normal (unit length)
//   - point: any point lying on the plane
//
// Returns:
//   - Plane: the plane (normal, dot(point, normal))
func NewPlaneFromPoint(normal, point [3]float32) Plane {
	return Plane{
		Normal:   normal,
		Distance: Dot3(point, normal),
	}
}

// SignedDistance returns the signed distance from the plane to point. Positive
// values lie on the side the normal points to.
func (p Plane) SignedDistance(point [3]float32) float32 {
	return Dot3(p.Normal, point) - p.Distance
}

// DistanceTo returns the unsigned perpendicular distance from the plane to point.
func (p Plane) DistanceTo(point [3]float32) float32 {
	return math32.Abs(p.SignedDistance(point))
}
