package light

import "github.com/Carmen-Shannon/oxy-gi/common"

// LightBuilderOption configures a Light during NewLight.
type LightBuilderOption func(*lightImpl)

// WithPosition places a point or spot light.
//
// Parameters:
//   - position: world-space position
//
// Returns:
//   - LightBuilderOption: option function to apply
func WithPosition(position [3]float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.position = position
	}
}

// WithDirection sets the direction the light travels in (the cone axis for spots).
// The vector is normalized; a zero vector keeps the default straight down.
//
// Parameters:
//   - direction: travel direction
//
// Returns:
//   - LightBuilderOption: option function to apply
func WithDirection(direction [3]float32) LightBuilderOption {
	return func(l *lightImpl) {
		if common.LengthSquared3(direction) > 0 {
			l.direction = common.Normalize3(direction)
		}
	}
}

// WithColor sets the RGB color. It is multiplied by the intensity.
func WithColor(color [3]float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.color = color
	}
}

// WithIntensity sets the scalar multiplier applied to the color.
func WithIntensity(intensity float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.intensity = intensity
	}
}

// WithRange sets the distance at which point and spot lights fade to zero.
//
// Parameters:
//   - reach: the range in world units
//
// Returns:
//   - LightBuilderOption: option function to apply
func WithRange(reach float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.reach = reach
	}
}

// WithSpotCone sets the spot cone half-angles in degrees. Full light inside inner,
// none outside outer.
//
// Parameters:
//   - innerDeg: inner half-angle in degrees
//   - outerDeg: outer half-angle in degrees
//
// Returns:
//   - LightBuilderOption: option function to apply
func WithSpotCone(innerDeg, outerDeg float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.cosInner = cosDeg(innerDeg)
		l.cosOuter = cosDeg(outerDeg)
	}
}
