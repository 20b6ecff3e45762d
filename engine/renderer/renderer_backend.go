package renderer

import "github.com/cogentcore/webgpu/wgpu"

// RendererBackendType identifies the GPU API behind a Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU draws through WebGPU (cogentcore/webgpu).
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode selects how finished frames reach the display.
type PresentMode int

const (
	// PresentModeVSync waits for vertical blank; no tearing, frame rate capped at the refresh rate.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents immediately. Useful when profiling GI cost against frame time.
	PresentModeUncapped
)

// surfaceMode maps the mode onto the WebGPU surface present mode.
func (m PresentMode) surfaceMode() wgpu.PresentMode {
	if m == PresentModeVSync {
		return wgpu.PresentModeFifo
	}
	return wgpu.PresentModeImmediate
}

// MSAASampleCount is the multisample count of the color and depth targets. WebGPU only
// guarantees 1 and 4.
type MSAASampleCount uint32

const (
	// MSAAOff renders single-sampled.
	MSAAOff MSAASampleCount = 1

	// MSAA4x renders 4x multisampled and resolves into the swapchain. This is the default.
	MSAA4x MSAASampleCount = 4
)

// sanitize falls back to MSAA4x for counts WebGPU does not guarantee.
func (c MSAASampleCount) sanitize() MSAASampleCount {
	if c == MSAAOff {
		return MSAAOff
	}
	return MSAA4x
}

// RendererBackend is the GPU backend the Renderer records into.
type RendererBackend interface {
	wgpuRendererBackend
}
