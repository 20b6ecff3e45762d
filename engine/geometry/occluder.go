package geometry

import "github.com/Carmen-Shannon/oxy-gi/common"

// DefaultOcclusionEpsilon is the margin trimmed from both ends of a visibility
// segment so that the surfaces the segment starts and ends on do not occlude it.
const DefaultOcclusionEpsilon float32 = 0.01

// Occluder answers binary line-of-sight queries against static scene geometry.
type Occluder interface {
	// Occluded reports whether the open segment from -> to is blocked.
	//
	// Parameters:
	//   - from: the segment start
	//   - to: the segment end
	//
	// Returns:
	//   - bool: true if any geometry blocks the segment
	Occluded(from, to [3]float32) bool
}

// TriangleOccluder tests a segment against every triangle of a triangle soup.
// It is safe for concurrent use because it never mutates its state.
type TriangleOccluder struct {
	triangles []Triangle
	epsilon   float32
}

var _ Occluder = &TriangleOccluder{}

// NewTriangleOccluder creates an occluder over the given triangles. A hit only
// occludes when its distance lies strictly inside (epsilon, length-epsilon).
//
// Parameters:
//   - triangles: the occluding triangles (retained, not copied)
//   - epsilon: the margin trimmed from both ends of each query segment
//
// Returns:
//   - *TriangleOccluder: the occluder
func NewTriangleOccluder(triangles []Triangle, epsilon float32) *TriangleOccluder {
	return &TriangleOccluder{
		triangles: triangles,
		epsilon:   epsilon,
	}
}

// Triangles returns the number of triangles tested per query.
func (o *TriangleOccluder) Triangles() int {
	return len(o.triangles)
}

func (o *TriangleOccluder) Occluded(from, to [3]float32) bool {
	delta := common.Sub3(to, from)
	length := common.Length3(delta)
	if length == 0 {
		return false
	}
	dir := common.Scale3(delta, 1/length)
	for i := range o.triangles {
		t, ok := IntersectRayTriangle(from, dir, o.triangles[i])
		if ok && t > o.epsilon && t < length-o.epsilon {
			return true
		}
	}
	return false
}

// OccluderFunc adapts a plain function to the Occluder interface.
type OccluderFunc func(from, to [3]float32) bool

func (f OccluderFunc) Occluded(from, to [3]float32) bool {
	return f(from, to)
}
