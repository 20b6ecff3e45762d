package window

import (
	"fmt"
	"runtime"

	"github.com/Carmen-Shannon/oxy-gi/common"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// glfwWindow holds the GLFW-specific window state.
type glfwWindow struct {
	window  *glfw.Window
	running bool
}

// openPlatformWindow creates the GLFW window, wires its callbacks into w and records the
// real framebuffer size.
//
// GLFW reference: https://www.glfw.org/docs/latest/window_guide.html
// go-gl/glfw: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw
func openPlatformWindow(w *engineWindow) error {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	// WebGPU owns the surface, so no OpenGL context.
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	win, err := glfw.CreateWindow(w.width, w.height, w.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("failed to create GLFW window: %w", err)
	}
	gw := &glfwWindow{window: win, running: true}
	w.platform = gw

	l := w.limits
	win.SetSizeLimits(l.minWidth, l.minHeight, l.maxWidth, l.maxHeight)
	gw.bind(w)

	// The framebuffer may be larger than the requested size on high-DPI displays.
	w.width, w.height = win.GetFramebufferSize()
	return nil
}

// bind registers the GLFW callbacks that feed w's event handlers.
func (gw *glfwWindow) bind(w *engineWindow) {
	win := gw.window

	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		code := uint32(key)
		if code == common.KeyEsc && action == glfw.Press {
			gw.running = false
			win.SetShouldClose(true)
			return
		}
		switch action {
		case glfw.Press, glfw.Repeat:
			w.keyEvent(code, true)
		case glfw.Release:
			w.keyEvent(code, false)
		}
	})

	win.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		if w.onScroll != nil {
			w.onScroll(float32(yoff))
		}
	})

	win.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		if button != glfw.MouseButtonLeft && button != glfw.MouseButtonMiddle {
			return
		}
		switch action {
		case glfw.Press:
			w.drag.down()
		case glfw.Release:
			w.drag.up()
		}
	})

	win.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		w.cursorEvent(x, y)
	})

	// Framebuffer size, not window size: the surface is configured in pixels.
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.framebufferEvent(width, height)
	})
}

// surfaceDescriptor builds the platform surface descriptor through the wgpuglfw bridge.
//
// Reference: https://pkg.go.dev/github.com/cogentcore/webgpu/wgpuglfw#GetSurfaceDescriptor
func (gw *glfwWindow) surfaceDescriptor() *wgpu.SurfaceDescriptor {
	return wgpuglfw.GetSurfaceDescriptor(gw.window)
}

func (gw *glfwWindow) isRunning() bool {
	return gw.running && !gw.window.ShouldClose()
}

// poll dispatches pending events without blocking.
func (gw *glfwWindow) poll() {
	glfw.PollEvents()
}

func (gw *glfwWindow) close() {
	gw.running = false
	gw.window.SetShouldClose(true)
	gw.window.Destroy()
	glfw.Terminate()
}
