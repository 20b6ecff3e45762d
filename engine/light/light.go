// Package light provides the direct lighting policies that seed the radiosity solve:
// analytic directional, point and spot lights, the animated orbit light used by the
// sample rooms, and a rig that sums several of them.
package light

import (
	"github.com/Carmen-Shannon/oxy-gi/common"
	"github.com/chewxy/math32"
)

// Source is anything that lights a surface point. It matches radiosity.DirectLight.
type Source interface {
	Direct(position, normal [3]float32) [3]float32
}

// Animated is a Source that moves over time.
type Animated interface {
	Source
	Advance(dt float32)
}

// LightType identifies the kind of analytic light.
type LightType int

const (
	// LightTypeDirectional lights every surface facing it from one direction, without falloff.
	LightTypeDirectional LightType = iota

	// LightTypePoint emits from a position with a windowed falloff that reaches zero at its range.
	LightTypePoint

	// LightTypeSpot is a point light restricted to a cone, smoothed between the inner and outer angles.
	LightTypeSpot
)

// String returns the lower-case name of the light type.
func (t LightType) String() string {
	switch t {
	case LightTypeDirectional:
		return "directional"
	case LightTypePoint:
		return "point"
	case LightTypeSpot:
		return "spot"
	default:
		return "unknown"
	}
}

// Light is an analytic light evaluated on the CPU once per patch per frame.
// Properties that do not apply to the light's type are ignored.
type Light interface {
	Source

	// Type returns the kind of light.
	Type() LightType

	// Position returns the world-space position. Meaningless for directional lights.
	Position() [3]float32

	// SetPosition moves the light.
	//
	// Parameters:
	//   - position: the new world-space position
	SetPosition(position [3]float32)

	// Enabled reports whether the light contributes anything.
	Enabled() bool

	// SetEnabled switches the light on or off.
	SetEnabled(enabled bool)
}

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	lightType LightType
	position  [3]float32
	direction [3]float32 // unit, the direction light travels
	radiance  [3]float32 // color times intensity
	color     [3]float32
	intensity float32
	reach     float32
	cosInner  float32
	cosOuter  float32
	enabled   bool
}

var _ Light = &lightImpl{}

// NewLight creates an enabled white light of intensity 1 pointing down, with range 10 and a
// 25/35 degree spot cone, then applies the options.
//
// Parameters:
//   - lightType: the kind of light to create
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: the configured light
func NewLight(lightType LightType, opts ...LightBuilderOption) Light {
	l := &lightImpl{
		lightType: lightType,
		direction: [3]float32{0, -1, 0},
		color:     [3]float32{1, 1, 1},
		intensity: 1,
		reach:     10,
		cosInner:  cosDeg(25),
		cosOuter:  cosDeg(35),
		enabled:   true,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.radiance = common.Scale3(l.color, l.intensity)
	return l
}

func (l *lightImpl) Type() LightType {
	return l.lightType
}

func (l *lightImpl) Position() [3]float32 {
	return l.position
}

func (l *lightImpl) SetPosition(position [3]float32) {
	l.position = position
}

func (l *lightImpl) Enabled() bool {
	return l.enabled
}

func (l *lightImpl) SetEnabled(enabled bool) {
	l.enabled = enabled
}

// Direct returns the light arriving at a surface point, including the cosine between
// the surface normal and the direction to the light. Never negative.
func (l *lightImpl) Direct(position, normal [3]float32) [3]float32 {
	if !l.enabled {
		return [3]float32{}
	}

	toLight, falloff, ok := l.incidence(position)
	if !ok {
		return [3]float32{}
	}
	cosTheta := common.Dot3(normal, toLight)
	if cosTheta <= 0 || falloff <= 0 {
		return [3]float32{}
	}
	return common.Scale3(l.radiance, cosTheta*falloff)
}

// incidence returns the unit direction from position to the light and the distance and
// cone falloff. ok is false when the point receives nothing.
func (l *lightImpl) incidence(position [3]float32) (toLight [3]float32, falloff float32, ok bool) {
	if l.lightType == LightTypeDirectional {
		return common.Neg3(l.direction), 1, true
	}
	if l.lightType != LightTypePoint && l.lightType != LightTypeSpot {
		return toLight, 0, false
	}

	delta := common.Sub3(l.position, position)
	dist := common.Length3(delta)
	if dist == 0 || dist >= l.reach {
		return toLight, 0, false
	}
	toLight = common.Scale3(delta, 1/dist)
	w := 1 - (dist*dist)/(l.reach*l.reach)
	falloff = w * w

	if l.lightType == LightTypeSpot {
		falloff *= smoothstep(l.cosOuter, l.cosInner, -common.Dot3(l.direction, toLight))
	}
	return toLight, falloff, true
}

// smoothstep is the Hermite step between edges e0 and e1, clamped to [0, 1].
func smoothstep(e0, e1, x float32) float32 {
	if e1 == e0 {
		if x >= e1 {
			return 1
		}
		return 0
	}
	t := min(max((x-e0)/(e1-e0), 0), 1)
	return t * t * (3 - 2*t)
}

func cosDeg(deg float32) float32 {
	return math32.Cos(deg * math32.Pi / 180)
}

// Rig sums several sources. Members that implement Animated are advanced with the rig.
type Rig []Source

var _ Animated = Rig{}

// Direct returns the sum of every member's contribution at the surface point.
func (r Rig) Direct(position, normal [3]float32) [3]float32 {
	var total [3]float32
	for _, s := range r {
		total = common.Add3(total, s.Direct(position, normal))
	}
	return total
}

// Advance moves every animated member forward by dt seconds.
func (r Rig) Advance(dt float32) {
	for _, s := range r {
		if a, ok := s.(Animated); ok {
			a.Advance(dt)
		}
	}
}
