package camera

// CameraBuilderOption configures a camera during NewCamera.
type CameraBuilderOption func(*cameraImpl)

// WithUp sets the world up direction used to orient the view.
func WithUp(up [3]float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.up = up
	}
}

// WithFov sets the vertical field of view in radians. Non-positive values are ignored.
func WithFov(fovY float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		if fovY > 0 {
			c.lens.fovY = fovY
		}
	}
}

// WithAspect sets the initial aspect ratio. Non-positive values are ignored.
func WithAspect(aspect float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		if aspect > 0 {
			c.lens.aspect = aspect
		}
	}
}

// WithClip sets the near and far plane distances. The pair is ignored unless
// 0 < near < far.
//
// Parameters:
//   - near: near plane distance
//   - far: far plane distance
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithClip(near, far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		if near > 0 && far > near {
			c.lens.near, c.lens.far = near, far
		}
	}
}

// WithController attaches the controller that supplies the eye and target.
func WithController(ctrl CameraController) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.controller = ctrl
	}
}
