package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-gi/common"
	"github.com/chewxy/math32"
)

// lens is the perspective projection of a camera.
type lens struct {
	fovY   float32 // radians
	aspect float32
	near   float32
	far    float32
}

func (l lens) projection() common.Mat4 {
	return common.PerspectiveMat4(l.fovY, l.aspect, l.near, l.far)
}

type cameraImpl struct {
	mu sync.RWMutex

	up   [3]float32
	lens lens

	view     common.Mat4
	proj     common.Mat4
	viewProj common.Mat4

	controller CameraController
}

// Camera combines a perspective lens with the eye and target of an attached
// CameraController. Matrices are refreshed by Update, SetAspect and SetController.
type Camera interface {
	// Aspect returns the width over height ratio of the lens.
	Aspect() float32

	// SetAspect changes the lens aspect ratio and refreshes the matrices.
	// Non-positive values are ignored.
	//
	// Parameters:
	//   - aspect: width / height
	SetAspect(aspect float32)

	// ViewMatrix returns the world-to-view matrix.
	ViewMatrix() common.Mat4

	// ProjectionMatrix returns the perspective matrix with depth in [0, 1].
	ProjectionMatrix() common.Mat4

	// ViewProjectionMatrix returns projection * view in the layout the renderer uploads.
	//
	// Returns:
	//   - [16]float32: the column-major view-projection matrix
	ViewProjectionMatrix() [16]float32

	Controller() CameraController
	SetController(ctrl CameraController)

	// Update re-reads the controller. Without a controller the matrices stay at identity.
	Update()
}

var _ Camera = &cameraImpl{}

// NewCamera creates a camera with a 60 degree vertical field of view, aspect 1 and a
// 0.05 to 100 clip range.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		up:       [3]float32{0, 1, 0},
		lens:     lens{fovY: math32.Pi / 3, aspect: 1, near: 0.05, far: 100},
		view:     common.IdentityMat4(),
		proj:     common.IdentityMat4(),
		viewProj: common.IdentityMat4(),
	}
	for _, option := range options {
		option(c)
	}
	c.refresh()
	return c
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lens.aspect
}

func (c *cameraImpl) SetAspect(aspect float32) {
	if aspect <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lens.aspect = aspect
	c.refresh()
}

func (c *cameraImpl) ViewMatrix() common.Mat4 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.view
}

func (c *cameraImpl) ProjectionMatrix() common.Mat4 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.proj
}

func (c *cameraImpl) ViewProjectionMatrix() [16]float32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.viewProj
}

func (c *cameraImpl) Controller() CameraController {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.controller
}

func (c *cameraImpl) SetController(ctrl CameraController) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.controller = ctrl
	c.refresh()
}

func (c *cameraImpl) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refresh()
}

// refresh recomputes every matrix from the lens and controller. Caller holds the write lock.
func (c *cameraImpl) refresh() {
	if c.controller == nil {
		return
	}
	c.view = common.LookAtMat4(c.controller.Position(), c.controller.Target(), c.up)
	c.proj = c.lens.projection()
	c.viewProj = c.proj.Mul(c.view)
}
