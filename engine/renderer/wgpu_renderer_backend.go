package renderer

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-gi/common"
	"github.com/cogentcore/webgpu/wgpu"
)

var (
	// errNoFrame is returned by draw calls issued outside BeginFrame/EndFrame.
	errNoFrame = errors.New("no frame in progress")

	// errFrameInFlight is returned by BeginFrame while the previous surface image is unpresented.
	errFrameInFlight = errors.New("previous frame not yet presented")
)

const depthFormat = wgpu.TextureFormatDepth24Plus

// renderTargets are the size-dependent attachments rebuilt by ConfigureSurface.
type renderTargets struct {
	format wgpu.TextureFormat
	msaa   *wgpu.TextureView // nil when single-sampled
	depth  *wgpu.TextureView
}

func (t *renderTargets) release() {
	if t.msaa != nil {
		t.msaa.Release()
		t.msaa = nil
	}
	if t.depth != nil {
		t.depth.Release()
		t.depth = nil
	}
}

// gpuFrame is the state of one frame between BeginFrame and Present.
type gpuFrame struct {
	surface *wgpu.Texture
	view    *wgpu.TextureView
	encoder *wgpu.CommandEncoder
	pass    *wgpu.RenderPassEncoder
}

// finish ends the pass and releases the encoder. The surface image stays until Present.
func (f *gpuFrame) finish(queue *wgpu.Queue) error {
	f.pass.End()
	f.pass = nil
	defer func() {
		f.encoder.Release()
		f.encoder = nil
	}()

	cmd, err := f.encoder.Finish(nil)
	if err != nil {
		return err
	}
	queue.Submit(cmd)
	cmd.Release()
	return nil
}

func (f *gpuFrame) releaseSurface() {
	if f.view != nil {
		f.view.Release()
	}
	if f.surface != nil {
		f.surface.Release()
	}
	f.view, f.surface = nil, nil
}

type wgpuRendererBackendImpl struct {
	mu sync.Mutex

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface
	device   *wgpu.Device
	queue    *wgpu.Queue

	presentMode wgpu.PresentMode
	sampleCount MSAASampleCount
	clearColor  wgpu.Color
	targets     renderTargets
	configured  bool

	cameraBuffer      *wgpu.Buffer
	cameraBindGroup   *wgpu.BindGroup
	meshPipeline      *wgpu.RenderPipeline
	reflectorPipeline *wgpu.RenderPipeline

	frame *gpuFrame
}

// wgpuRendererBackend is the WebGPU device wrapper used by the renderer: surface
// configuration, the mesh and reflector pipelines, buffers and the frame lifecycle.
type wgpuRendererBackend interface {
	// ConfigureSurface (re)configures the swapchain and rebuilds the multisample and depth
	// attachments. Zero sizes, as reported by minimized windows, keep the old configuration.
	//
	// Parameters:
	//   - width: surface width in pixels
	//   - height: surface height in pixels
	ConfigureSurface(width, height int)

	// SetPresentMode selects vsync or uncapped presentation for the next ConfigureSurface.
	SetPresentMode(mode PresentMode)

	// RegisterPipelines builds the camera bind group and both pipelines.
	// The surface must have been configured first.
	//
	// Returns:
	//   - error: shader or pipeline creation failure
	RegisterPipelines() error

	// CreateBuffer creates a buffer sized to data and uploads it. CopyDst is always added.
	//
	// Parameters:
	//   - label: debug label
	//   - usage: buffer usage flags
	//   - data: initial contents
	//
	// Returns:
	//   - *wgpu.Buffer: the created buffer
	//   - error: creation failure
	CreateBuffer(label string, usage wgpu.BufferUsage, data []byte) (*wgpu.Buffer, error)

	WriteBuffer(buf *wgpu.Buffer, data []byte)
	ReleaseBuffer(buf *wgpu.Buffer)
	WriteCamera(data []byte)

	// BeginFrame acquires the next surface image and opens the render pass.
	BeginFrame() error

	// DrawMesh draws one indexed mesh with its per-vertex light stream in slot 1.
	DrawMesh(vertices, light, indices *wgpu.Buffer, indexCount uint32) error

	// DrawReflectors draws instanceCount copies of the disc, one per instance record.
	DrawReflectors(disc, discIndices, instances *wgpu.Buffer, indexCount, instanceCount uint32) error

	EndFrame()
	Present()
}

var _ wgpuRendererBackend = &wgpuRendererBackendImpl{}

// newWGPURendererBackend requests an adapter and device compatible with the window surface.
// Panics when no adapter or device is available.
func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool, sampleCount MSAASampleCount, clearColor [3]float32) wgpuRendererBackend {
	runtime.LockOSThread()

	b := &wgpuRendererBackendImpl{
		instance:    wgpu.CreateInstance(nil),
		presentMode: PresentModeUncapped.surfaceMode(),
		sampleCount: sampleCount,
		clearColor: wgpu.Color{
			R: float64(clearColor[0]),
			G: float64(clearColor[1]),
			B: float64(clearColor[2]),
			A: 1,
		},
	}
	b.surface = b.instance.CreateSurface(surfaceDescriptor)

	adapter, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		panic(fmt.Errorf("request adapter: %w", err))
	}
	b.adapter = adapter

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label:          "GI Device",
		RequiredLimits: &wgpu.RequiredLimits{Limits: wgpu.DefaultLimits()},
	})
	if err != nil {
		panic(fmt.Errorf("request device: %w", err))
	}
	b.device = device
	b.queue = device.GetQueue()

	common.Logger().Info("webgpu device ready", "fallback", forceFallbackAdapter, "msaa", uint32(sampleCount))
	return b
}

// attachment creates a render attachment view matching the current sample count.
// Caller must hold the mutex.
func (b *wgpuRendererBackendImpl) attachment(label string, format wgpu.TextureFormat, width, height uint32) (*wgpu.TextureView, error) {
	texture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         label,
		Size:          wgpu.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   uint32(b.sampleCount),
		Dimension:     wgpu.TextureDimension2D,
		Format:        format,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", label, err)
	}
	view, err := texture.CreateView(nil)
	if err != nil {
		texture.Release()
		return nil, fmt.Errorf("%s view: %w", label, err)
	}
	return view, nil
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	caps := b.surface.GetCapabilities(b.adapter)
	format := caps.Formats[0]
	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      format,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   caps.AlphaModes[0],
	})

	b.targets.release()
	b.targets.format = format

	var err error
	if b.sampleCount > MSAAOff {
		if b.targets.msaa, err = b.attachment("MSAA Color", format, uint32(width), uint32(height)); err != nil {
			common.Logger().Error("configure surface", "error", err)
			return
		}
	}
	if b.targets.depth, err = b.attachment("Depth", depthFormat, uint32(width), uint32(height)); err != nil {
		common.Logger().Error("configure surface", "error", err)
		return
	}
	b.configured = true
}

func (b *wgpuRendererBackendImpl) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	b.presentMode = mode.surfaceMode()
	b.mu.Unlock()
}

func (b *wgpuRendererBackendImpl) RegisterPipelines() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.configured {
		return errors.New("surface must be configured before registering pipelines")
	}

	var err error
	if b.cameraBuffer, err = b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Camera Uniform",
		Size:  cameraUniformSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	}); err != nil {
		return fmt.Errorf("camera buffer: %w", err)
	}

	cameraLayout, err := b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Camera Layout",
		Entries: []wgpu.BindGroupLayoutEntry{{
			Binding:    0,
			Visibility: wgpu.ShaderStageVertex,
			Buffer: wgpu.BufferBindingLayout{
				Type:           wgpu.BufferBindingTypeUniform,
				MinBindingSize: cameraUniformSize,
			},
		}},
	})
	if err != nil {
		return fmt.Errorf("camera layout: %w", err)
	}

	if b.cameraBindGroup, err = b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   "Camera",
		Layout:  cameraLayout,
		Entries: []wgpu.BindGroupEntry{{Binding: 0, Buffer: b.cameraBuffer, Size: wgpu.WholeSize}},
	}); err != nil {
		return fmt.Errorf("camera bind group: %w", err)
	}

	layout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "GI Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{cameraLayout},
	})
	if err != nil {
		return fmt.Errorf("pipeline layout: %w", err)
	}

	if b.meshPipeline, err = b.pipeline("Mesh", MeshShaderSource, layout, meshVertexLayouts()); err != nil {
		return err
	}
	b.reflectorPipeline, err = b.pipeline("Reflector", ReflectorShaderSource, layout, reflectorVertexLayouts())
	return err
}

// pipeline compiles a WGSL module with vs_main and fs_main into a depth-tested triangle list.
// Caller must hold the mutex.
func (b *wgpuRendererBackendImpl) pipeline(label, source string, layout *wgpu.PipelineLayout, buffers []wgpu.VertexBufferLayout) (*wgpu.RenderPipeline, error) {
	module, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          label,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: source},
	})
	if err != nil {
		return nil, fmt.Errorf("%s shader: %w", label, err)
	}
	defer module.Release()

	always := wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways}
	p, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  label + " Pipeline",
		Layout: layout,
		Vertex: wgpu.VertexState{Module: module, EntryPoint: "vs_main", Buffers: buffers},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets:    []wgpu.ColorTargetState{{Format: b.targets.format, WriteMask: wgpu.ColorWriteMaskAll}},
		},
		// Loaded scenes do not guarantee consistent winding.
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{Count: uint32(b.sampleCount), Mask: 0xFFFFFFFF},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            depthFormat,
			DepthWriteEnabled: true,
			DepthCompare:      wgpu.CompareFunctionLess,
			StencilFront:      always,
			StencilBack:       always,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%s pipeline: %w", label, err)
	}
	return p, nil
}

func (b *wgpuRendererBackendImpl) CreateBuffer(label string, usage wgpu.BufferUsage, data []byte) (*wgpu.Buffer, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", label, err)
	}
	if len(data) > 0 {
		b.queue.WriteBuffer(buf, 0, data)
	}
	return buf, nil
}

func (b *wgpuRendererBackendImpl) WriteBuffer(buf *wgpu.Buffer, data []byte) {
	if buf == nil || len(data) == 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.queue.WriteBuffer(buf, 0, data)
}

func (b *wgpuRendererBackendImpl) ReleaseBuffer(buf *wgpu.Buffer) {
	if buf == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	buf.Release()
}

func (b *wgpuRendererBackendImpl) WriteCamera(data []byte) {
	b.WriteBuffer(b.cameraBuffer, data)
}

func (b *wgpuRendererBackendImpl) BeginFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	// wgpu-native rejects acquiring a second image before Present.
	if b.frame != nil {
		return errFrameInFlight
	}

	f := &gpuFrame{}
	var err error
	if f.surface, err = b.surface.GetCurrentTexture(); err != nil {
		return fmt.Errorf("acquire surface: %w", err)
	}
	if f.view, err = f.surface.CreateView(nil); err != nil {
		f.releaseSurface()
		return fmt.Errorf("surface view: %w", err)
	}
	if f.encoder, err = b.device.CreateCommandEncoder(nil); err != nil {
		f.releaseSurface()
		return fmt.Errorf("command encoder: %w", err)
	}

	f.pass = f.encoder.BeginRenderPass(b.passDescriptor(f.view))
	f.pass.SetBindGroup(0, b.cameraBindGroup, nil)
	b.frame = f
	return nil
}

// passDescriptor targets the swapchain view directly, or the multisample attachment
// resolving into it. Caller must hold the mutex.
func (b *wgpuRendererBackendImpl) passDescriptor(surfaceView *wgpu.TextureView) *wgpu.RenderPassDescriptor {
	color := wgpu.RenderPassColorAttachment{
		View:       surfaceView,
		LoadOp:     wgpu.LoadOpClear,
		StoreOp:    wgpu.StoreOpStore,
		ClearValue: b.clearColor,
	}
	if b.targets.msaa != nil {
		color.View = b.targets.msaa
		color.ResolveTarget = surfaceView
		color.StoreOp = wgpu.StoreOpDiscard
	}
	return &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{color},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.targets.depth,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1,
		},
	}
}

// drawIndexed binds a pipeline and two vertex streams and issues one indexed draw.
func (b *wgpuRendererBackendImpl) drawIndexed(pipeline *wgpu.RenderPipeline, slot0, slot1, indices *wgpu.Buffer, indexCount, instanceCount uint32) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frame == nil || b.frame.pass == nil {
		return errNoFrame
	}
	pass := b.frame.pass
	pass.SetPipeline(pipeline)
	pass.SetVertexBuffer(0, slot0, 0, wgpu.WholeSize)
	pass.SetVertexBuffer(1, slot1, 0, wgpu.WholeSize)
	pass.SetIndexBuffer(indices, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	pass.DrawIndexed(indexCount, instanceCount, 0, 0, 0)
	return nil
}

func (b *wgpuRendererBackendImpl) DrawMesh(vertices, light, indices *wgpu.Buffer, indexCount uint32) error {
	return b.drawIndexed(b.meshPipeline, vertices, light, indices, indexCount, 1)
}

func (b *wgpuRendererBackendImpl) DrawReflectors(disc, discIndices, instances *wgpu.Buffer, indexCount, instanceCount uint32) error {
	return b.drawIndexed(b.reflectorPipeline, disc, instances, discIndices, indexCount, instanceCount)
}

func (b *wgpuRendererBackendImpl) EndFrame() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frame == nil || b.frame.pass == nil {
		return
	}
	if err := b.frame.finish(b.queue); err != nil {
		common.Logger().Warn("submit frame", "error", err)
		b.frame.releaseSurface()
		b.frame = nil
	}
}

func (b *wgpuRendererBackendImpl) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frame == nil {
		return
	}
	b.surface.Present()
	b.frame.releaseSurface()
	b.frame = nil
}
