package engine

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-gi/common"
	"github.com/Carmen-Shannon/oxy-gi/engine/camera"
	"github.com/Carmen-Shannon/oxy-gi/engine/geometry"
	"github.com/Carmen-Shannon/oxy-gi/engine/gi"
	"github.com/Carmen-Shannon/oxy-gi/engine/profiler"
	"github.com/Carmen-Shannon/oxy-gi/engine/radiosity"
	"github.com/Carmen-Shannon/oxy-gi/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gi/engine/window"
)

// ErrMeshMismatch is returned when the meshes handed to SetSystem are not the ones the system was built from.
var ErrMeshMismatch = errors.New("meshes do not match the GI system")

// AnimatedLight is a direct light policy that moves over time.
type AnimatedLight interface {
	radiosity.DirectLight

	// Advance moves the light forward by dt seconds.
	Advance(dt float32)
}

// staticLight adapts a DirectLight that never moves.
type staticLight struct {
	radiosity.DirectLight
}

func (staticLight) Advance(float32) {}

// Static wraps a fixed light policy so it can be handed to SetDirectLight.
//
// Parameters:
//   - l: the light policy
//
// Returns:
//   - AnimatedLight: l with a no-op Advance
func Static(l radiosity.DirectLight) AnimatedLight {
	return staticLight{l}
}

// engine runs the GI tick loop and the render loop on their own goroutines while the
// window pumps events on the calling one.
type engine struct {
	running     atomic.Bool
	wg          sync.WaitGroup
	done        chan struct{}
	stopOnce    sync.Once
	rateUpdates chan time.Duration

	window    window.Window
	baseTitle string
	renderer  renderer.Renderer
	camera    camera.Camera

	// mu guards the GI state shared by the tick and render goroutines.
	mu          sync.Mutex
	system      gi.System
	meshCount   int
	light       AnimatedLight
	lightPaused bool
	lightDirty  bool

	profiler         *profiler.Profiler
	profilingEnabled bool

	tickInterval   time.Duration
	minFrameTime   time.Duration // 0 = uncapped
	tickCallback   func(deltaTime float32)
	renderCallback func(deltaTime float32)

	pendingMeshes []geometry.Mesh
}

// Engine drives a GI system and shows its result in a window.
//
// The tick loop advances the direct light and the camera spin, then runs one GI update.
// The render loop uploads the latest GI light and draws it. Input is wired to the viewer controls:
// drag orbits, scroll zooms, Space toggles the reflector view, M switches the radiosity mode
// and P pauses the light.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Renderer returns the renderer drawing into the window.
	Renderer() renderer.Renderer

	// Camera returns the viewer camera.
	Camera() camera.Camera

	// System returns the GI system being displayed, or nil.
	System() gi.System

	// SetSystem replaces the displayed GI system and uploads its meshes to the renderer.
	//
	// Parameters:
	//   - system: the GI system built from meshes
	//   - meshes: the same meshes, in the same order
	//
	// Returns:
	//   - error: ErrMeshMismatch or an upload failure
	SetSystem(system gi.System, meshes []geometry.Mesh) error

	// SetDirectLight sets the light policy fed to every GI update. Nil means no light.
	//
	// Parameters:
	//   - l: the light, see Static for fixed lights
	SetDirectLight(l AnimatedLight)

	// SetLightPaused stops or resumes light animation. GI keeps updating either way.
	SetLightPaused(paused bool)

	// EnableProfiler starts logging GI and frame timings once per second.
	EnableProfiler()
	DisableProfiler()

	// SetTickRate sets how many GI updates run per second. Non-positive values select 60.
	//
	// Parameters:
	//   - hz: ticks per second
	SetTickRate(hz float64)

	// SetTickCallback registers a function run after every GI update with the tick's delta in seconds.
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers a function run after every drawn frame with the frame's delta in seconds.
	SetRenderCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit caps the render loop. 0, the default, leaves it uncapped.
	//
	// Parameters:
	//   - hz: maximum frames per second
	SetRenderFrameLimit(hz float64)

	// Run starts both loops and pumps window events until the window closes.
	Run()

	// Quit stops both loops. Further calls do nothing.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
// A renderer and camera are created for the window when not supplied.
//
// Parameters:
//   - options: functional options for engine configuration (window, system, profiling, tick rate, etc.)
//
// Returns:
//   - Engine: the newly created engine
//   - error: a mesh upload failure from WithSystem
func NewEngine(options ...EngineBuilderOption) (Engine, error) {
	e := &engine{
		done:         make(chan struct{}),
		rateUpdates:  make(chan time.Duration, 1),
		profiler:     profiler.NewProfiler(),
		tickInterval: interval(defaultTickRate),
	}

	for _, opt := range options {
		opt(e)
	}

	if e.camera == nil {
		e.camera = camera.NewCamera(camera.WithController(camera.NewCameraController()))
	}
	if e.window != nil {
		if e.renderer == nil {
			e.renderer = renderer.NewRenderer(renderer.BackendTypeWGPU, e.window)
		}
		e.camera.SetAspect(float32(e.window.Width()) / float32(max(e.window.Height(), 1)))
		e.baseTitle = e.window.Title()
		e.bindInput()
	}

	if e.system != nil {
		system, meshes := e.system, e.pendingMeshes
		e.system, e.pendingMeshes = nil, nil
		if err := e.SetSystem(system, meshes); err != nil {
			return nil, err
		}
	}
	e.refreshTitle()

	return e, nil
}

// bindInput wires the window callbacks to the renderer, camera and GI controls.
func (e *engine) bindInput() {
	e.window.SetResizeCallback(func(width, height int) {
		if e.renderer != nil {
			e.renderer.Resize(width, height)
		}
		if height > 0 {
			e.camera.SetAspect(float32(width) / float32(height))
		}
	})
	e.window.SetDragCallback(func(dx, dy float32) {
		if c := e.camera.Controller(); c != nil {
			c.Orbit(dx, dy)
		}
	})
	e.window.SetScrollCallback(func(delta float32) {
		if c := e.camera.Controller(); c != nil {
			c.Zoom(delta)
		}
	})
	e.window.SetKeyPressCallback(e.handleKeyPress)
}

// handleKeyPress applies the viewer toggles and shows the result in the title bar.
func (e *engine) handleKeyPress(keyCode uint32) {
	switch keyCode {
	case common.KeySpace:
		if e.renderer == nil {
			return
		}
		show := !e.renderer.ShowReflectors()
		e.renderer.SetShowReflectors(show)
		e.mu.Lock()
		e.lightDirty = true
		e.mu.Unlock()
	case common.KeyM:
		e.mu.Lock()
		if e.system != nil {
			next := radiosity.ModeSeparate
			if e.system.Mode() == radiosity.ModeSeparate {
				next = radiosity.ModeAggregate
			}
			e.system.SetMode(next)
		}
		e.mu.Unlock()
	case common.KeyP:
		e.mu.Lock()
		e.lightPaused = !e.lightPaused
		e.mu.Unlock()
	default:
		return
	}
	e.refreshTitle()
}

// refreshTitle writes the current view, mode and light state into the window title.
func (e *engine) refreshTitle() {
	if e.window == nil {
		return
	}
	reflectors := e.renderer != nil && e.renderer.ShowReflectors()

	e.mu.Lock()
	mode, hasSystem := radiosity.ModeAggregate, e.system != nil
	if hasSystem {
		mode = e.system.Mode()
	}
	paused := e.lightPaused
	e.mu.Unlock()

	title := statusTitle(e.baseTitle, reflectors, mode, paused)
	if !hasSystem {
		title = e.baseTitle
	}
	e.window.SetTitle(title)
	common.Logger().Info("engine: view changed", "reflectors", reflectors, "mode", mode, "paused", paused)
}

// statusTitle formats the title bar text for the viewer state.
func statusTitle(base string, reflectors bool, mode radiosity.Mode, paused bool) string {
	view := "lit"
	if reflectors {
		view = "reflectors"
	}
	title := fmt.Sprintf("%s [%s, %s]", base, view, mode)
	if paused {
		title += " (paused)"
	}
	return title
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Camera() camera.Camera {
	return e.camera
}

func (e *engine) System() gi.System {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.system
}

func (e *engine) SetSystem(system gi.System, meshes []geometry.Mesh) error {
	if system != nil {
		if got, want := len(meshes), system.Stats().Meshes; got != want {
			return fmt.Errorf("%d meshes for %d: %w", got, want, ErrMeshMismatch)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.renderer != nil {
		if err := e.renderer.SetMeshes(meshes); err != nil {
			return fmt.Errorf("upload meshes: %w", err)
		}
	}
	e.system = system
	e.meshCount = len(meshes)
	e.lightDirty = system != nil
	return nil
}

func (e *engine) SetDirectLight(l AnimatedLight) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.light = l
}

func (e *engine) SetLightPaused(paused bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lightPaused = paused
}

// step runs one tick of GI work: animate the light and the camera, then update the system.
func (e *engine) step(dt float32) {
	if c := e.camera.Controller(); c != nil {
		c.Advance(dt)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.light != nil && !e.lightPaused {
		e.light.Advance(dt)
	}
	if e.system == nil {
		return
	}

	var direct radiosity.DirectLight
	if e.light != nil {
		direct = e.light
	}
	start := time.Now()
	e.system.Update(direct)
	if e.profilingEnabled {
		e.profiler.RecordGI(time.Since(start))
	}
	e.lightDirty = true
}

// syncRenderer uploads the latest GI light to the renderer if a tick has run since the last upload.
func (e *engine) syncRenderer() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.lightDirty || e.system == nil || e.renderer == nil {
		return
	}
	e.lightDirty = false

	if e.renderer.ShowReflectors() {
		if err := e.renderer.UpdateReflectors(e.system.Reflectors()); err != nil {
			common.Logger().Warn("engine: reflector upload failed", "err", err)
		}
		return
	}
	for m := 0; m < e.meshCount; m++ {
		if err := e.renderer.UpdateVertexLight(m, e.system.VertexLight(m)); err != nil {
			common.Logger().Warn("engine: light upload failed", "mesh", m, "err", err)
		}
	}
}
