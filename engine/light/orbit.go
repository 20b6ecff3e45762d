package light

import (
	"github.com/chewxy/math32"
)

// Orbit is the animated light of the sample rooms: a soft spot circling the origin in
// the XZ plane. Its contribution falls off with the squared horizontal distance to the
// orbit point and is cut entirely above a ceiling height. It ignores the surface normal.
type Orbit struct {
	// Radius is the radius of the circular path.
	Radius float32

	// Speed is the angular speed in radians per second.
	Speed float32

	// Falloff scales the squared horizontal distance subtracted from full brightness.
	Falloff float32

	// Ceiling is the height above which surfaces receive nothing.
	Ceiling float32

	// Color tints the light.
	Color [3]float32

	// Phase is the current angle along the path in radians.
	Phase float32
}

// NewOrbit returns an Orbit of radius 2 at one radian per second, falloff 0.3 and
// ceiling 2.
func NewOrbit() *Orbit {
	return &Orbit{
		Radius:  2,
		Speed:   1,
		Falloff: 0.3,
		Ceiling: 2,
		Color:   [3]float32{1, 1, 1},
	}
}

// Advance moves the light along its path.
//
// Parameters:
//   - dt: elapsed time in seconds
func (o *Orbit) Advance(dt float32) {
	o.Phase += dt * o.Speed
}

// Center returns the current orbit point at height 0.
func (o *Orbit) Center() [3]float32 {
	return [3]float32{math32.Sin(o.Phase) * o.Radius, 0, math32.Cos(o.Phase) * o.Radius}
}

// Direct implements the direct light policy.
func (o *Orbit) Direct(position, _ [3]float32) [3]float32 {
	if position[1] > o.Ceiling {
		return [3]float32{}
	}
	c := o.Center()
	dx, dz := position[0]-c[0], position[2]-c[2]
	v := 1 - (dx*dx+dz*dz)*o.Falloff
	if v <= 0 {
		return [3]float32{}
	}
	return [3]float32{o.Color[0] * v, o.Color[1] * v, o.Color[2] * v}
}
