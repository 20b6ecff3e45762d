package camera

// CameraControllerOption configures the controller during NewCameraController.
type CameraControllerOption func(*orbitController)

// WithRadius sets the starting distance from the target. It is clamped to the radius limits.
func WithRadius(radius float32) CameraControllerOption {
	return func(oc *orbitController) {
		oc.eye.radius = radius
	}
}

// WithRadiusLimits sets the closest and farthest zoom distances.
//
// Parameters:
//   - minRadius: closest allowed distance
//   - maxRadius: farthest allowed distance
//
// Returns:
//   - CameraControllerOption: option function to apply
func WithRadiusLimits(minRadius, maxRadius float32) CameraControllerOption {
	return func(oc *orbitController) {
		oc.limits.minRadius = minRadius
		oc.limits.maxRadius = maxRadius
	}
}

// WithAzimuth sets the starting angle around Y in radians, 0 along +Z.
func WithAzimuth(azimuth float32) CameraControllerOption {
	return func(oc *orbitController) {
		oc.eye.azimuth = azimuth
	}
}

// WithElevation sets the starting angle above the XZ plane in radians.
func WithElevation(elevation float32) CameraControllerOption {
	return func(oc *orbitController) {
		oc.eye.elevation = elevation
	}
}

// WithTarget sets the orbit center.
func WithTarget(target [3]float32) CameraControllerOption {
	return func(oc *orbitController) {
		oc.target = target
	}
}

// WithSpin sets the spin rate applied by Advance, in radians per second.
func WithSpin(speed float32) CameraControllerOption {
	return func(oc *orbitController) {
		oc.spin = speed
	}
}

// WithMouseSensitivity sets how many radians one pixel of drag turns the eye.
func WithMouseSensitivity(sensitivity float32) CameraControllerOption {
	return func(oc *orbitController) {
		oc.dragScale = sensitivity
	}
}

// WithZoomSpeed sets how far one unit of scroll moves the eye.
func WithZoomSpeed(speed float32) CameraControllerOption {
	return func(oc *orbitController) {
		oc.zoomScale = speed
	}
}
