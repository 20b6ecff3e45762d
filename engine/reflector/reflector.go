// Package reflector builds reflector patches: disc-shaped stand-ins for mesh triangles
// that are the unit of light transport.
package reflector

// MaxVertexReflectors is the fixed number of patches cached per mesh vertex for light
// interpolation. Patches beyond this limit are dropped from that vertex's set and
// counted in Set.VertexOverflow; this is a fixed limit, not an error.
const MaxVertexReflectors = 7

// RadiusScale shrinks the average vertex-to-centroid distance so neighbouring discs
// do not overlap excessively.
const RadiusScale float32 = 0.5

// GroupID is an optional index into the group table. The zero value is unassigned.
type GroupID struct {
	index    int32
	assigned bool
}

// Unassigned returns the GroupID of a reflector that has not been grouped yet.
func Unassigned() GroupID {
	return GroupID{}
}

// Assigned returns the GroupID referring to group index i.
func Assigned(i int) GroupID {
	return GroupID{index: int32(i), assigned: true}
}

// Get returns the group index and whether the reflector is grouped.
//
// Returns:
//   - int: the group index (0 when unassigned)
//   - bool: true if assigned
func (g GroupID) Get() (int, bool) {
	return int(g.index), g.assigned
}

// Valid reports whether the reflector belongs to a group.
func (g GroupID) Valid() bool {
	return g.assigned
}

// Index returns the group index. It panics when called on an unassigned GroupID, which
// only happens if the grouping pass was skipped.
func (g GroupID) Index() int {
	if !g.assigned {
		panic("reflector: Index called on unassigned GroupID")
	}
	return int(g.index)
}

// Reflector is one patch. Geometry and Diffuse are fixed after Build; the light
// fields are rewritten every frame by the radiosity iterator.
type Reflector struct {
	// Position is the centroid of the source triangle.
	Position [3]float32

	// Normal is the unit normal from the triangle winding (zero for degenerate triangles).
	Normal [3]float32

	// Radius is the disc radius used for debug display.
	Radius float32

	// Group is the owning group, assigned by the clustering pass.
	Group GroupID

	// Diffuse is the reflectance color.
	Diffuse [3]float32

	// CurrentLight is the radiance leaving the patch in the current bounce.
	CurrentLight [3]float32

	// TotalLight is the radiance accumulated over the seed and every bounce.
	TotalLight [3]float32

	// NeighborContribution holds, per neighbor slot of the owning group, the fraction of
	// that neighbor group's light that reaches this patch. Length is the configured
	// neighbor cap once the transport solver has run.
	NeighborContribution []float32
}

// VertexReflectors is the interpolation set of one mesh vertex: the patches of the
// triangles sharing the vertex, capped at MaxVertexReflectors.
type VertexReflectors struct {
	Count int
	Index [MaxVertexReflectors]int
}

// add appends patch index ri, reporting false when the set is already full.
func (v *VertexReflectors) add(ri int) bool {
	if v.Count >= len(v.Index) {
		return false
	}
	v.Index[v.Count] = ri
	v.Count++
	return true
}

// Set is the output of Build: all patches in face order plus the per-vertex
// back-reference tables of every mesh.
type Set struct {
	// Reflectors holds one patch per triangle, meshes in order, faces in order.
	Reflectors []Reflector

	// VertexReflectors holds one table per mesh, indexed by that mesh's vertex index.
	VertexReflectors [][]VertexReflectors

	// VertexOverflow counts patch references dropped because a vertex set was full.
	VertexOverflow int
}
