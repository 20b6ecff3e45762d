package geometry

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
)

// ErrInvalidMesh is returned when a mesh's index buffer does not describe a list
// of triangles over its vertex buffer.
var ErrInvalidMesh = errors.New("invalid mesh")

// Vertex is a single mesh vertex as produced by the loader.
type Vertex struct {
	// Position is the object-space position (the scene is static, so object space is world space).
	Position [3]float32

	// UV is the texture coordinate.
	UV [2]float32
}

// Mesh is one object of the scene: an indexed triangle list with counter-clockwise
// front faces.
type Mesh struct {
	// Name is the object identifier from the source file.
	Name string

	// Vertices are the de-duplicated vertices of the object.
	Vertices []Vertex

	// Indices are triangle-list indices into Vertices.
	Indices []uint32
}

// TriangleCount returns the number of triangles described by the index buffer.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Triangle returns the i-th triangle of the mesh. The caller guarantees the mesh
// has been validated.
func (m *Mesh) Triangle(i int) Triangle {
	ix := m.Indices[i*3 : i*3+3]
	return Triangle{
		A: m.Vertices[ix[0]].Position,
		B: m.Vertices[ix[1]].Position,
		C: m.Vertices[ix[2]].Position,
	}
}

// Validate checks that the index buffer is a whole number of triangles and that
// every index addresses a vertex.
//
// Returns:
//   - error: a wrapped ErrInvalidMesh describing the first problem found, or nil
func (m *Mesh) Validate() error {
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("mesh %q: %d indices is not a multiple of 3: %w", m.Name, len(m.Indices), ErrInvalidMesh)
	}
	for i, ix := range m.Indices {
		if int(ix) >= len(m.Vertices) {
			return fmt.Errorf("mesh %q: index %d at position %d exceeds %d vertices: %w", m.Name, ix, i, len(m.Vertices), ErrInvalidMesh)
		}
	}
	return nil
}

// TriangleSoup flattens all meshes into a single triangle list in mesh order,
// which is the occlusion set used by visibility queries.
//
// Parameters:
//   - meshes: the scene objects
//
// Returns:
//   - []Triangle: every triangle of every mesh
func TriangleSoup(meshes []Mesh) []Triangle {
	total := 0
	for i := range meshes {
		total += meshes[i].TriangleCount()
	}
	tris := make([]Triangle, 0, total)
	for i := range meshes {
		m := &meshes[i]
		for t := 0; t < m.TriangleCount(); t++ {
			tris = append(tris, m.Triangle(t))
		}
	}
	return tris
}

// Bounds returns the axis-aligned bounding box of all mesh vertices. An empty
// scene returns two zero vectors.
//
// Returns:
//   - [3]float32: the minimum corner
//   - [3]float32: the maximum corner
func Bounds(meshes []Mesh) ([3]float32, [3]float32) {
	lo := [3]float32{math32.Inf(1), math32.Inf(1), math32.Inf(1)}
	hi := [3]float32{math32.Inf(-1), math32.Inf(-1), math32.Inf(-1)}
	found := false
	for i := range meshes {
		for _, v := range meshes[i].Vertices {
			found = true
			for k := 0; k < 3; k++ {
				lo[k] = math32.Min(lo[k], v.Position[k])
				hi[k] = math32.Max(hi[k], v.Position[k])
			}
		}
	}
	if !found {
		return [3]float32{}, [3]float32{}
	}
	return lo, hi
}
