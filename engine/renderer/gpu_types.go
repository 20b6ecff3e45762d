package renderer

import (
	_ "embed"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
)

// MeshShaderSource draws scene meshes with their interpolated per-vertex GI light.
// Vertex buffer 0 carries GPUVertex, vertex buffer 1 the light as vec3<f32> per vertex.
//
//go:embed assets/mesh.wgsl
var MeshShaderSource string

// ReflectorShaderSource draws one instanced disc per reflector patch.
// Vertex buffer 0 carries the unit disc offsets, vertex buffer 1 GPUReflectorInstance.
//
//go:embed assets/reflector.wgsl
var ReflectorShaderSource string

// ReflectorSegments is the number of fan triangles per reflector disc.
const ReflectorSegments = 16

// GPUVertex is the GPU-aligned representation of a static mesh vertex.
// Size: 12 bytes.
type GPUVertex struct {
	Position [3]float32 // offset 0: world-space position
}

// GPUVertexLight is the per-vertex light stream written every frame.
// Size: 12 bytes.
type GPUVertexLight [3]float32

// GPUReflectorInstance is the per-instance data of the reflector disc pipeline.
// Matches the InstanceInput struct of ReflectorShaderSource.
// Size: 64 bytes.
type GPUReflectorInstance struct {
	Position [3]float32 // offset  0: disc center, nudged along the normal to avoid z-fighting
	Radius   float32    // offset 12: disc radius
	Normal   [3]float32 // offset 16: disc normal
	_        float32    // offset 28
	Light    [3]float32 // offset 32: accumulated patch light
	_        float32    // offset 44
	Color    [4]float32 // offset 48: group palette color
}

// GPUCameraUniform is the uniform buffer shared by both pipelines.
// Size: 64 bytes.
type GPUCameraUniform struct {
	ViewProj [16]float32 // offset 0: column-major view-projection matrix
}

const cameraUniformSize = uint64(unsafe.Sizeof(GPUCameraUniform{}))

// Size returns the size of the GPUReflectorInstance struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUReflectorInstance) Size() int {
	return int(unsafe.Sizeof(*g))
}

// meshVertexLayouts returns the two vertex streams of the mesh pipeline.
func meshVertexLayouts() []wgpu.VertexBufferLayout {
	return []wgpu.VertexBufferLayout{
		{
			ArrayStride: uint64(unsafe.Sizeof(GPUVertex{})),
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes: []wgpu.VertexAttribute{
				{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			},
		},
		{
			ArrayStride: uint64(unsafe.Sizeof(GPUVertexLight{})),
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes: []wgpu.VertexAttribute{
				{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 1},
			},
		},
	}
}

// reflectorVertexLayouts returns the disc stream and the instance stream of the reflector pipeline.
func reflectorVertexLayouts() []wgpu.VertexBufferLayout {
	return []wgpu.VertexBufferLayout{
		{
			ArrayStride: uint64(unsafe.Sizeof([2]float32{})),
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes: []wgpu.VertexAttribute{
				{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
			},
		},
		{
			ArrayStride: uint64(unsafe.Sizeof(GPUReflectorInstance{})),
			StepMode:    wgpu.VertexStepModeInstance,
			Attributes: []wgpu.VertexAttribute{
				{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 1},
				{Format: wgpu.VertexFormatFloat32, Offset: 12, ShaderLocation: 2},
				{Format: wgpu.VertexFormatFloat32x3, Offset: 16, ShaderLocation: 3},
				{Format: wgpu.VertexFormatFloat32x3, Offset: 32, ShaderLocation: 4},
				{Format: wgpu.VertexFormatFloat32x4, Offset: 48, ShaderLocation: 5},
			},
		},
	}
}
