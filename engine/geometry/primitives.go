package geometry

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gi/common"
)

var (
	axisX = [3]float32{1, 0, 0}
	axisY = [3]float32{0, 1, 0}
	axisZ = [3]float32{0, 0, 1}
)

// Quad builds a subdivided parallelogram spanning origin + s*u + t*v for s, t in [0, 1].
// Front faces point along cross(u, v).
//
// Parameters:
//   - name: the mesh name
//   - origin: the corner at s = t = 0
//   - u, v: the edge vectors
//   - segU, segV: cells along u and v (values below 1 are treated as 1)
//
// Returns:
//   - Mesh: (segU+1)*(segV+1) vertices and 2*segU*segV triangles
func Quad(name string, origin, u, v [3]float32, segU, segV int) Mesh {
	segU, segV = max(segU, 1), max(segV, 1)
	m := Mesh{Name: name}

	for j := 0; j <= segV; j++ {
		t := float32(j) / float32(segV)
		for i := 0; i <= segU; i++ {
			s := float32(i) / float32(segU)
			p := common.Add3(origin, common.Add3(common.Scale3(u, s), common.Scale3(v, t)))
			m.Vertices = append(m.Vertices, Vertex{Position: p, UV: [2]float32{s, t}})
		}
	}

	row := uint32(segU + 1)
	for j := range uint32(segV) {
		for i := range uint32(segU) {
			a := j*row + i
			b, c, d := a+1, a+row+1, a+row
			m.Indices = append(m.Indices, a, b, c, a, c, d)
		}
	}
	return m
}

// Merge concatenates meshes into one, rebasing indices.
func Merge(name string, meshes ...Mesh) Mesh {
	out := Mesh{Name: name}
	for i := range meshes {
		base := uint32(len(out.Vertices))
		out.Vertices = append(out.Vertices, meshes[i].Vertices...)
		for _, ix := range meshes[i].Indices {
			out.Indices = append(out.Indices, base+ix)
		}
	}
	return out
}

// Room builds an open-fronted box centered at the origin with every wall facing inward:
// floor, ceiling, back (-Z), left (-X) and right (+X), each split into segments x segments cells.
//
// Parameters:
//   - half: the half-extent of the box
//   - segments: cells per wall edge
//
// Returns:
//   - []Mesh: the five walls in the order above
func Room(half float32, segments int) []Mesh {
	size := 2 * half
	x, y, z := common.Scale3(axisX, size), common.Scale3(axisY, size), common.Scale3(axisZ, size)
	lo := [3]float32{-half, -half, -half}

	return []Mesh{
		Quad("floor", lo, z, x, segments, segments),
		Quad("ceiling", [3]float32{-half, half, -half}, x, z, segments, segments),
		Quad("back", lo, x, y, segments, segments),
		Quad("left", lo, y, z, segments, segments),
		Quad("right", [3]float32{half, -half, -half}, z, y, segments, segments),
	}
}

// Box builds a closed axis-aligned box between lo and hi with outward faces.
//
// Parameters:
//   - name: the mesh name
//   - lo, hi: opposite corners, hi greater than lo on every axis
//
// Returns:
//   - Mesh: 24 vertices and 12 triangles
func Box(name string, lo, hi [3]float32) Mesh {
	ext := common.Sub3(hi, lo)
	x, y, z := common.Scale3(axisX, ext[0]), common.Scale3(axisY, ext[1]), common.Scale3(axisZ, ext[2])

	return Merge(name,
		Quad(fmt.Sprintf("%s-bottom", name), lo, x, z, 1, 1),
		Quad(fmt.Sprintf("%s-top", name), [3]float32{lo[0], hi[1], lo[2]}, z, x, 1, 1),
		Quad(fmt.Sprintf("%s-back", name), lo, y, x, 1, 1),
		Quad(fmt.Sprintf("%s-front", name), [3]float32{lo[0], lo[1], hi[2]}, x, y, 1, 1),
		Quad(fmt.Sprintf("%s-left", name), lo, z, y, 1, 1),
		Quad(fmt.Sprintf("%s-right", name), [3]float32{hi[0], lo[1], lo[2]}, y, z, 1, 1),
	)
}
