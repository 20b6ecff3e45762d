package reflector

import "github.com/Carmen-Shannon/oxy-gi/common"

// InterpolateVertexLight averages the TotalLight of each vertex's cached patches, giving
// the per-vertex color used for smooth shading. Vertices with no cached patch get zero.
//
// Parameters:
//   - reflectors: the patch table
//   - table: one mesh's vertex back-reference table
//   - out: destination slice, reused when it has enough capacity
//
// Returns:
//   - [][3]float32: one color per vertex
func InterpolateVertexLight(reflectors []Reflector, table []VertexReflectors, out [][3]float32) [][3]float32 {
	if cap(out) < len(table) {
		out = make([][3]float32, len(table))
	}
	out = out[:len(table)]

	for vi := range table {
		vr := &table[vi]
		if vr.Count == 0 {
			out[vi] = [3]float32{}
			continue
		}
		var total [3]float32
		for _, ri := range vr.Index[:vr.Count] {
			total = common.Add3(total, reflectors[ri].TotalLight)
		}
		out[vi] = common.Scale3(total, 1/float32(vr.Count))
	}
	return out
}
