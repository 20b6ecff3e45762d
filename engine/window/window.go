// Package window opens the viewer's GLFW window and turns raw input into the few events the
// GI viewer reacts to: resizes, scroll, key presses and mouse drags.
package window

import (
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
)

// Window is a native window with a WebGPU-compatible surface and viewer input events.
// Callbacks run on the thread that calls ProcessMessages.
type Window interface {
	// SetResizeCallback sets the function called when the framebuffer size changes.
	//
	// Parameters:
	//   - callback: function receiving the new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetScrollCallback sets the function called for mouse wheel movement.
	//
	// Parameters:
	//   - callback: function receiving the vertical scroll delta (positive = away from the user)
	SetScrollCallback(callback func(delta float32))

	// SetKeyPressCallback sets the function called once per physical key press.
	// Auto-repeat while the key is held does not call it again.
	//
	// Parameters:
	//   - callback: function receiving the GLFW key code
	SetKeyPressCallback(callback func(keyCode uint32))

	// SetDragCallback sets the function called for cursor movement while the left or middle
	// mouse button is held.
	//
	// Parameters:
	//   - callback: function receiving the cursor delta in pixels since the previous move
	SetDragCallback(callback func(dx, dy float32))

	// SetTitle replaces the title bar text. Must be called from the ProcessMessages thread.
	SetTitle(title string)

	// Title returns the current title bar text.
	Title() string

	// SurfaceDescriptor returns the platform surface descriptor for WebGPU surface creation,
	// or nil when the window is not open.
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning reports whether the window is still open.
	IsRunning() bool

	// Close destroys the window and releases GLFW.
	//
	// Returns:
	//   - error: if the window was never opened
	Close() error

	// ProcessMessages polls input until the window closes.
	ProcessMessages()

	// Width returns the framebuffer width in pixels.
	Width() int

	// Height returns the framebuffer height in pixels.
	Height() int
}

// sizeLimits bounds interactive resizing.
type sizeLimits struct {
	minWidth, minHeight int
	maxWidth, maxHeight int
}

// engineWindow is the implementation of the Window interface.
type engineWindow struct {
	title  string
	limits sizeLimits

	// width and height track the framebuffer, which differs from the window size on high-DPI displays.
	width  int
	height int

	// platform holds the GLFW state once the window is open.
	platform *glfwWindow

	onResize   func(width, height int)
	onScroll   func(delta float32)
	onKeyPress func(keyCode uint32)
	onDrag     func(dx, dy float32)

	keys keyTracker
	drag dragTracker
}

var _ Window = &engineWindow{}

// NewWindow opens a window with the given options. Panics if GLFW cannot create it.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the open window
func NewWindow(options ...WindowBuilderOption) Window {
	w := &engineWindow{
		title:  "oxy-gi",
		limits: sizeLimits{minWidth: 320, minHeight: 240, maxWidth: 3840, maxHeight: 2160},
		width:  1280,
		height: 720,
		keys:   keyTracker{held: make(map[uint32]bool)},
	}
	for _, opt := range options {
		opt(w)
	}
	if err := openPlatformWindow(w); err != nil {
		panic(fmt.Sprintf("failed to create platform window: %v", err))
	}
	return w
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetScrollCallback(callback func(delta float32)) {
	w.onScroll = callback
}

func (w *engineWindow) SetKeyPressCallback(callback func(keyCode uint32)) {
	w.onKeyPress = callback
}

func (w *engineWindow) SetDragCallback(callback func(dx, dy float32)) {
	w.onDrag = callback
}

func (w *engineWindow) SetTitle(title string) {
	w.title = title
	if w.platform != nil {
		w.platform.window.SetTitle(title)
	}
}

func (w *engineWindow) Title() string {
	return w.title
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	if w.platform == nil {
		return nil
	}
	return w.platform.surfaceDescriptor()
}

func (w *engineWindow) IsRunning() bool {
	return w.platform != nil && w.platform.isRunning()
}

func (w *engineWindow) Close() error {
	if w.platform == nil {
		return fmt.Errorf("window is not initialized")
	}
	w.platform.close()
	return nil
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		w.platform.poll()
		runtime.Gosched()
	}
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}

// keyEvent routes a key action through the press-edge tracker.
func (w *engineWindow) keyEvent(code uint32, pressed bool) {
	if !pressed {
		w.keys.release(code)
		return
	}
	if w.keys.press(code) && w.onKeyPress != nil {
		w.onKeyPress(code)
	}
}

// cursorEvent turns an absolute cursor position into a drag delta.
func (w *engineWindow) cursorEvent(x, y float64) {
	if dx, dy, ok := w.drag.move(x, y); ok && w.onDrag != nil {
		w.onDrag(dx, dy)
	}
}

// framebufferEvent records a new framebuffer size and forwards it.
func (w *engineWindow) framebufferEvent(width, height int) {
	w.width, w.height = width, height
	if w.onResize != nil {
		w.onResize(width, height)
	}
}
