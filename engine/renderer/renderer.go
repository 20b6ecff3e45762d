// Package renderer draws a static GI scene with WebGPU: meshes shaded by their per-vertex
// radiosity light, or the reflector patches as instanced discs colored by group.
package renderer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-gi/common"
	"github.com/Carmen-Shannon/oxy-gi/engine/geometry"
	"github.com/Carmen-Shannon/oxy-gi/engine/reflector"
	"github.com/Carmen-Shannon/oxy-gi/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// ErrMeshIndex is returned when a light update names a mesh that was not uploaded.
var ErrMeshIndex = errors.New("mesh index out of range")

// ErrLightLength is returned when a light stream does not match the mesh's vertex count.
var ErrLightLength = errors.New("light length does not match vertex count")

// gpuMesh holds the GPU buffers of one uploaded mesh.
type gpuMesh struct {
	name        string
	vertices    *wgpu.Buffer
	light       *wgpu.Buffer
	indices     *wgpu.Buffer
	vertexCount int
	indexCount  uint32
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend

	meshes []gpuMesh

	disc            *wgpu.Buffer
	discIndices     *wgpu.Buffer
	discIndexCount  uint32
	instances       *wgpu.Buffer
	instanceCap     int
	instanceCount   uint32
	instanceStaging []GPUReflectorInstance

	camera         GPUCameraUniform
	showReflectors bool

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
	clearColor           [3]float32
}

// Renderer draws one static scene. Meshes are uploaded once; the light streams, the reflector
// instances and the camera are rewritten as often as the caller likes between frames.
//
// All methods are safe for concurrent use.
type Renderer interface {
	// SetMeshes uploads the scene meshes, replacing any previous upload. Each mesh gets a
	// zeroed light stream until UpdateVertexLight is called.
	//
	// Parameters:
	//   - meshes: the scene meshes in the same order as the GI system's
	//
	// Returns:
	//   - error: buffer creation failure
	SetMeshes(meshes []geometry.Mesh) error

	// UpdateVertexLight replaces the light stream of one mesh.
	//
	// Parameters:
	//   - mesh: the mesh index
	//   - light: one color per mesh vertex
	//
	// Returns:
	//   - error: ErrMeshIndex or ErrLightLength
	UpdateVertexLight(mesh int, light [][3]float32) error

	// UpdateReflectors rebuilds the disc instances from the patch table.
	//
	// Parameters:
	//   - reflectors: the patch table
	//
	// Returns:
	//   - error: buffer creation failure
	UpdateReflectors(reflectors []reflector.Reflector) error

	// SetViewProjection sets the camera matrix used by the next frame.
	//
	// Parameters:
	//   - viewProj: column-major view-projection matrix
	SetViewProjection(viewProj [16]float32)

	// SetShowReflectors switches between drawing the lit meshes (false) and the reflector discs (true).
	SetShowReflectors(show bool)

	// ShowReflectors reports which view is active.
	ShowReflectors() bool

	// Render records and presents one frame.
	//
	// Returns:
	//   - error: surface acquisition or draw failure
	Render() error

	// Resize reconfigures the surface after a framebuffer size change.
	Resize(width, height int)

	// SetPresentMode selects vsync or uncapped presentation.
	SetPresentMode(mode PresentMode)
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer for the given window: it opens the device, configures the surface
// and compiles both pipelines. Panics if the GPU cannot be initialized.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - window: the window whose surface is drawn into
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new instance of Renderer configured with the specified backend and options
func NewRenderer(backendType RendererBackendType, window window.Window, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		backendType: backendType,
		clearColor:  [3]float32{0.1, 0.1, 0.1},
	}

	// Options first so adapter flags are known before the device is requested.
	for _, opt := range options {
		opt(r)
	}

	msaa := MSAA4x
	if r.pendingMSAA != nil {
		msaa = r.pendingMSAA.sanitize()
	}

	var backend RendererBackend
	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		backend = newWGPURendererBackend(window.SurfaceDescriptor(), r.forceFallbackAdapter, msaa, r.clearColor)
	}

	if r.pendingPresentMode != nil {
		backend.SetPresentMode(*r.pendingPresentMode)
	}
	backend.ConfigureSurface(window.Width(), window.Height())
	if err := backend.RegisterPipelines(); err != nil {
		panic(fmt.Sprintf("failed to register pipelines: %v", err))
	}

	if err := r.init(backend); err != nil {
		panic(fmt.Sprintf("failed to initialize renderer: %v", err))
	}
	return r
}

// init attaches the backend and uploads the shared disc geometry.
func (r *renderer) init(backend RendererBackend) error {
	r.mu = &sync.Mutex{}
	r.backend = backend

	verts, indices := DiscGeometry(ReflectorSegments)
	var err error
	if r.disc, err = backend.CreateBuffer("Reflector Disc", wgpu.BufferUsageVertex, common.SliceToBytes(verts)); err != nil {
		return err
	}
	if r.discIndices, err = backend.CreateBuffer("Reflector Disc Indices", wgpu.BufferUsageIndex, common.SliceToBytes(indices)); err != nil {
		return err
	}
	r.discIndexCount = uint32(len(indices))
	r.camera.ViewProj = [16]float32(common.IdentityMat4())
	return nil
}

func (r *renderer) SetMeshes(meshes []geometry.Mesh) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	uploaded := make([]gpuMesh, 0, len(meshes))
	var staging []GPUVertex
	for i := range meshes {
		m := &meshes[i]
		gm := gpuMesh{name: m.Name, vertexCount: len(m.Vertices), indexCount: uint32(len(m.Indices))}
		if gm.vertexCount == 0 || gm.indexCount == 0 {
			uploaded = append(uploaded, gm)
			continue
		}

		staging = MeshVertices(*m, staging)
		var err error
		if gm.vertices, err = r.backend.CreateBuffer(m.Name+" Vertex Buffer", wgpu.BufferUsageVertex, common.SliceToBytes(staging)); err != nil {
			return fmt.Errorf("mesh %q: %w", m.Name, err)
		}
		if gm.indices, err = r.backend.CreateBuffer(m.Name+" Index Buffer", wgpu.BufferUsageIndex, common.SliceToBytes(m.Indices)); err != nil {
			return fmt.Errorf("mesh %q: %w", m.Name, err)
		}
		zero := make([]GPUVertexLight, gm.vertexCount)
		if gm.light, err = r.backend.CreateBuffer(m.Name+" Light Buffer", wgpu.BufferUsageVertex, common.SliceToBytes(zero)); err != nil {
			return fmt.Errorf("mesh %q: %w", m.Name, err)
		}
		uploaded = append(uploaded, gm)
	}

	for _, old := range r.meshes {
		r.backend.ReleaseBuffer(old.vertices)
		r.backend.ReleaseBuffer(old.indices)
		r.backend.ReleaseBuffer(old.light)
	}
	r.meshes = uploaded
	return nil
}

func (r *renderer) UpdateVertexLight(mesh int, light [][3]float32) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if mesh < 0 || mesh >= len(r.meshes) {
		return fmt.Errorf("mesh %d of %d: %w", mesh, len(r.meshes), ErrMeshIndex)
	}
	gm := &r.meshes[mesh]
	if len(light) != gm.vertexCount {
		return fmt.Errorf("mesh %q: %d colors for %d vertices: %w", gm.name, len(light), gm.vertexCount, ErrLightLength)
	}
	r.backend.WriteBuffer(gm.light, common.SliceToBytes(light))
	return nil
}

func (r *renderer) UpdateReflectors(reflectors []reflector.Reflector) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.instanceStaging = ReflectorInstances(reflectors, r.instanceStaging)
	r.instanceCount = uint32(len(r.instanceStaging))
	if r.instanceCount == 0 {
		return nil
	}

	data := common.SliceToBytes(r.instanceStaging)
	if len(r.instanceStaging) > r.instanceCap {
		buf, err := r.backend.CreateBuffer("Reflector Instances", wgpu.BufferUsageVertex, data)
		if err != nil {
			r.instanceCount = 0
			return fmt.Errorf("reflector instances: %w", err)
		}
		r.backend.ReleaseBuffer(r.instances)
		r.instances = buf
		r.instanceCap = len(r.instanceStaging)
		return nil
	}
	r.backend.WriteBuffer(r.instances, data)
	return nil
}

func (r *renderer) SetViewProjection(viewProj [16]float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.camera.ViewProj = viewProj
}

func (r *renderer) SetShowReflectors(show bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.showReflectors = show
}

func (r *renderer) ShowReflectors() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.showReflectors
}

func (r *renderer) Render() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.backend.WriteCamera(common.SliceToBytes(r.camera.ViewProj[:]))
	if err := r.backend.BeginFrame(); err != nil {
		return err
	}

	var drawErr error
	if r.showReflectors {
		if r.instanceCount > 0 {
			drawErr = r.backend.DrawReflectors(r.disc, r.discIndices, r.instances, r.discIndexCount, r.instanceCount)
		}
	} else {
		for _, gm := range r.meshes {
			if gm.vertices == nil {
				continue
			}
			if drawErr = r.backend.DrawMesh(gm.vertices, gm.light, gm.indices, gm.indexCount); drawErr != nil {
				break
			}
		}
	}

	r.backend.EndFrame()
	r.backend.Present()
	return drawErr
}

func (r *renderer) Resize(width, height int) {
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}
