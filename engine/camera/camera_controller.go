package camera

import (
	"sync"

	"github.com/chewxy/math32"
)

// CameraController places the eye on a sphere around a target. Input drives it through
// Orbit and Zoom, and Advance applies a constant spin around the vertical axis.
type CameraController interface {
	// Position returns the eye position.
	Position() [3]float32

	// Target returns the point the eye looks at.
	Target() [3]float32

	// SetTarget moves the orbit center. The eye keeps its offset from the target.
	SetTarget(target [3]float32)

	// Orbit turns the eye by a pointer drag. Elevation stays short of the poles.
	//
	// Parameters:
	//   - dx: horizontal drag in pixels
	//   - dy: vertical drag in pixels
	Orbit(dx, dy float32)

	// Zoom moves the eye toward the target for positive deltas and away for negative ones,
	// within the radius limits.
	//
	// Parameters:
	//   - delta: scroll amount
	Zoom(delta float32)

	// Advance spins the eye by the spin rate times dt.
	//
	// Parameters:
	//   - dt: elapsed time in seconds
	Advance(dt float32)

	// SetSpin sets the spin rate in radians per second; zero stops it.
	SetSpin(speed float32)

	Radius() float32
	Azimuth() float32
	Elevation() float32
}

// spherical is an eye offset from the target. Azimuth 0 points along +Z; elevation is
// measured from the XZ plane.
type spherical struct {
	radius    float32
	azimuth   float32
	elevation float32
}

func (s spherical) offset() [3]float32 {
	horizontal := s.radius * math32.Cos(s.elevation)
	return [3]float32{
		horizontal * math32.Sin(s.azimuth),
		s.radius * math32.Sin(s.elevation),
		horizontal * math32.Cos(s.azimuth),
	}
}

// orbitLimits bound the spherical coordinates.
type orbitLimits struct {
	minRadius, maxRadius       float32
	minElevation, maxElevation float32
}

func (l orbitLimits) apply(s spherical) spherical {
	s.radius = min(max(s.radius, l.minRadius), l.maxRadius)
	s.elevation = min(max(s.elevation, l.minElevation), l.maxElevation)
	return s
}

type orbitController struct {
	mu sync.RWMutex

	target [3]float32
	eye    spherical
	limits orbitLimits

	dragScale float32 // radians per pixel
	zoomScale float32 // distance per scroll unit
	spin      float32 // radians per second
}

var _ CameraController = &orbitController{}

// NewCameraController creates an orbit controller. The defaults circle the origin along
// (3 sin t, 3, 3 cos t) at one radian per second.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	const pole = math32.Pi/2 - 0.05
	oc := &orbitController{
		eye: spherical{radius: 3 * math32.Sqrt2, elevation: math32.Pi / 4},
		limits: orbitLimits{
			minRadius: 0.5, maxRadius: 50,
			minElevation: -pole, maxElevation: pole,
		},
		dragScale: 0.005,
		zoomScale: 0.25,
		spin:      1,
	}
	for _, option := range options {
		option(oc)
	}
	oc.eye = oc.limits.apply(oc.eye)
	return oc
}

func (oc *orbitController) Position() [3]float32 {
	oc.mu.RLock()
	defer oc.mu.RUnlock()
	off := oc.eye.offset()
	return [3]float32{oc.target[0] + off[0], oc.target[1] + off[1], oc.target[2] + off[2]}
}

func (oc *orbitController) Target() [3]float32 {
	oc.mu.RLock()
	defer oc.mu.RUnlock()
	return oc.target
}

func (oc *orbitController) SetTarget(target [3]float32) {
	oc.mu.Lock()
	oc.target = target
	oc.mu.Unlock()
}

func (oc *orbitController) Orbit(dx, dy float32) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.eye.azimuth -= dx * oc.dragScale
	oc.eye.elevation += dy * oc.dragScale
	oc.eye = oc.limits.apply(oc.eye)
}

func (oc *orbitController) Zoom(delta float32) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.eye.radius -= delta * oc.zoomScale
	oc.eye = oc.limits.apply(oc.eye)
}

func (oc *orbitController) Advance(dt float32) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	if oc.spin != 0 {
		oc.eye.azimuth = math32.Mod(oc.eye.azimuth+oc.spin*dt, 2*math32.Pi)
	}
}

func (oc *orbitController) SetSpin(speed float32) {
	oc.mu.Lock()
	oc.spin = speed
	oc.mu.Unlock()
}

func (oc *orbitController) Radius() float32 {
	oc.mu.RLock()
	defer oc.mu.RUnlock()
	return oc.eye.radius
}

func (oc *orbitController) Azimuth() float32 {
	oc.mu.RLock()
	defer oc.mu.RUnlock()
	return oc.eye.azimuth
}

func (oc *orbitController) Elevation() float32 {
	oc.mu.RLock()
	defer oc.mu.RUnlock()
	return oc.eye.elevation
}
