package renderer

import (
	"github.com/Carmen-Shannon/oxy-gi/common"
	"github.com/Carmen-Shannon/oxy-gi/engine/geometry"
	"github.com/Carmen-Shannon/oxy-gi/engine/reflector"
	"github.com/chewxy/math32"
)

// paletteSize is the number of distinct group colors (three levels per channel).
const paletteSize = 3 * 3 * 3

// reflectorLift is the per-index offset along the normal that keeps coplanar discs apart in depth.
const reflectorLift float32 = 0.0001

// GroupColor returns the debug palette color of a group. Colors repeat every 27 groups.
//
// Parameters:
//   - group: the group index
//
// Returns:
//   - [4]float32: RGBA color in [0, 1]
func GroupColor(group int) [4]float32 {
	ix := group % paletteSize
	if ix < 0 {
		ix += paletteSize
	}
	return [4]float32{
		float32(ix%3*60) / 255,
		float32(ix/3%3*60) / 255,
		float32(ix/3/3%3*60) / 255,
		1,
	}
}

// MeshVertices converts a mesh's vertex positions into the GPU vertex stream, reusing dst.
func MeshVertices(m geometry.Mesh, dst []GPUVertex) []GPUVertex {
	dst = dst[:0]
	for _, v := range m.Vertices {
		dst = append(dst, GPUVertex{Position: v.Position})
	}
	return dst
}

// DiscGeometry builds a unit disc as a triangle fan: segments rim vertices followed by the center.
//
// Parameters:
//   - segments: number of rim vertices (at least 3)
//
// Returns:
//   - [][2]float32: disc offsets, center last
//   - []uint32: triangle-list indices, three per segment
func DiscGeometry(segments int) ([][2]float32, []uint32) {
	segments = max(segments, 3)
	verts := make([][2]float32, segments+1)
	indices := make([]uint32, 0, segments*3)
	center := uint32(segments)
	for i := 0; i < segments; i++ {
		t := float32(i) / float32(segments) * math32.Pi * 2
		verts[i] = [2]float32{math32.Cos(t), math32.Sin(t)}
		indices = append(indices, center, uint32(i), uint32((i+1)%segments))
	}
	return verts, indices
}

// ReflectorInstances builds one disc instance per patch with a usable normal, reusing dst.
// Ungrouped patches are drawn white.
//
// Parameters:
//   - reflectors: the patch table
//   - dst: buffer to reuse, may be nil
//
// Returns:
//   - []GPUReflectorInstance: the instances in patch order
func ReflectorInstances(reflectors []reflector.Reflector, dst []GPUReflectorInstance) []GPUReflectorInstance {
	dst = dst[:0]
	for i := range reflectors {
		r := &reflectors[i]
		if common.LengthSquared3(r.Normal) == 0 {
			continue
		}
		color := [4]float32{1, 1, 1, 1}
		if g, ok := r.Group.Get(); ok {
			color = GroupColor(g)
		}
		dst = append(dst, GPUReflectorInstance{
			Position: common.Add3(r.Position, common.Scale3(r.Normal, float32(i)*reflectorLift)),
			Radius:   r.Radius,
			Normal:   r.Normal,
			Light:    r.TotalLight,
			Color:    color,
		})
	}
	return dst
}
