package engine

import (
	"github.com/Carmen-Shannon/oxy-gi/engine/camera"
	"github.com/Carmen-Shannon/oxy-gi/engine/geometry"
	"github.com/Carmen-Shannon/oxy-gi/engine/gi"
	"github.com/Carmen-Shannon/oxy-gi/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gi/engine/window"
)

// EngineBuilderOption configures the engine during NewEngine.
type EngineBuilderOption func(*engine)

// WithProfiling turns the once-per-second timing log on or off.
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithTickRate sets how many GI updates run per second. Non-positive values keep 60.
//
// Parameters:
//   - hz: ticks per second
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(hz float64) EngineBuilderOption {
	return func(e *engine) {
		if hz > 0 {
			e.tickInterval = interval(hz)
		}
	}
}

// WithWindow sets the window the engine draws into and reads input from.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithRenderer sets a pre-configured renderer instead of creating a default one for the window.
//
// Parameters:
//   - r: the Renderer to draw with
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderer(r renderer.Renderer) EngineBuilderOption {
	return func(e *engine) {
		e.renderer = r
	}
}

// WithCamera sets the viewer camera. The default orbits the origin.
//
// Parameters:
//   - c: the Camera to view through
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithCamera(c camera.Camera) EngineBuilderOption {
	return func(e *engine) {
		e.camera = c
	}
}

// WithSystem sets the GI system to display. The meshes are uploaded once the renderer exists.
//
// Parameters:
//   - system: the GI system
//   - meshes: the meshes it was built from, in the same order
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithSystem(system gi.System, meshes []geometry.Mesh) EngineBuilderOption {
	return func(e *engine) {
		e.system = system
		e.pendingMeshes = meshes
	}
}

// WithDirectLight sets the light fed to every GI update.
//
// Parameters:
//   - l: the animated light; see Static for fixed lights
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithDirectLight(l AnimatedLight) EngineBuilderOption {
	return func(e *engine) {
		e.light = l
	}
}

// WithRenderFrameLimit caps the render loop at hz frames per second. 0 leaves it uncapped.
func WithRenderFrameLimit(hz float64) EngineBuilderOption {
	return func(e *engine) {
		e.minFrameTime = interval(hz)
	}
}
