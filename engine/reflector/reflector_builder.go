package reflector

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gi/common"
	"github.com/Carmen-Shannon/oxy-gi/engine/geometry"
)

// builder holds the configuration applied by Build.
type builder struct {
	diffuse DiffuseRule
}

// ReflectorBuilderOption is a functional option for configuring Build.
type ReflectorBuilderOption func(b *builder)

// WithDiffuseRule sets the rule used to color each patch. Defaults to ConstantDiffuse(DefaultDiffuse).
//
// Parameters:
//   - rule: the diffuse rule (nil keeps the default)
//
// Returns:
//   - ReflectorBuilderOption: option function to apply
func WithDiffuseRule(rule DiffuseRule) ReflectorBuilderOption {
	return func(b *builder) {
		if rule != nil {
			b.diffuse = rule
		}
	}
}

// Build creates one reflector per triangle of every mesh and registers each new patch
// in the back-reference table of its three vertices.
//
// Parameters:
//   - meshes: the scene objects
//   - options: functional options to configure the build
//
// Returns:
//   - *Set: the patches and per-vertex tables
//   - error: a wrapped geometry.ErrInvalidMesh if any mesh fails validation
func Build(meshes []geometry.Mesh, options ...ReflectorBuilderOption) (*Set, error) {
	b := &builder{diffuse: ConstantDiffuse(DefaultDiffuse)}
	for _, opt := range options {
		opt(b)
	}

	total := 0
	for i := range meshes {
		if err := meshes[i].Validate(); err != nil {
			return nil, fmt.Errorf("reflector: %w", err)
		}
		total += meshes[i].TriangleCount()
	}

	set := &Set{
		Reflectors:       make([]Reflector, 0, total),
		VertexReflectors: make([][]VertexReflectors, len(meshes)),
	}

	for mi := range meshes {
		m := &meshes[mi]
		table := make([]VertexReflectors, len(m.Vertices))

		for f := 0; f < m.TriangleCount(); f++ {
			ri := len(set.Reflectors)
			set.Reflectors = append(set.Reflectors, newReflector(m.Triangle(f), b.diffuse))

			for _, vi := range m.Indices[f*3 : f*3+3] {
				if !table[vi].add(ri) {
					set.VertexOverflow++
				}
			}
		}
		set.VertexReflectors[mi] = table
	}

	if set.VertexOverflow > 0 {
		common.Logger().Warn("reflector: vertex interpolation sets truncated",
			"dropped", set.VertexOverflow, "limit", MaxVertexReflectors)
	}

	return set, nil
}

// newReflector converts a triangle into a disc patch.
func newReflector(tri geometry.Triangle, diffuse DiffuseRule) Reflector {
	center := tri.Centroid()
	normal := tri.Normal()

	dA := common.Length3(common.Sub3(tri.A, center))
	dB := common.Length3(common.Sub3(tri.B, center))
	dC := common.Length3(common.Sub3(tri.C, center))

	return Reflector{
		Position: center,
		Normal:   normal,
		Radius:   (dA + dB + dC) / 3 * RadiusScale,
		Group:    Unassigned(),
		Diffuse:  diffuse(center, normal),
	}
}
