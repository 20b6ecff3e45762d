package common

import "github.com/chewxy/math32"

// Add3 returns the component-wise sum a + b.
func Add3(a, b [3]float32) [3]float32 {
	return [3]float32{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

// Sub3 returns the component-wise difference a - b.
func Sub3(a, b [3]float32) [3]float32 {
	return [3]float32{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

// Scale3 multiplies every component of v by s.
func Scale3(v [3]float32, s float32) [3]float32 {
	return [3]float32{v[0] * s, v[1] * s, v[2] * s}
}

// Mul3 returns the component-wise (Hadamard) product of a and b. Used to modulate
// light by a diffuse color.
func Mul3(a, b [3]float32) [3]float32 {
	return [3]float32{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

// Neg3 returns -v.
func Neg3(v [3]float32) [3]float32 {
	return [3]float32{-v[0], -v[1], -v[2]}
}

// Dot3 returns the dot product of a and b.
func Dot3(a, b [3]float32) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

// Cross3 returns the cross product a × b.
func Cross3(a, b [3]float32) [3]float32 {
	return [3]float32{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// LengthSquared3 returns the squared Euclidean length of v.
func LengthSquared3(v [3]float32) float32 {
	return Dot3(v, v)
}

// Length3 returns the Euclidean length of v.
func Length3(v [3]float32) float32 {
	return math32.Sqrt(Dot3(v, v))
}

// Normalize3 returns v scaled to unit length. A zero vector is returned unchanged
// so that degenerate geometry propagates as a zero normal instead of NaNs.
//
// Parameters:
//   - v: the vector to normalize
//
// Returns:
//   - [3]float32: the unit-length vector, or the zero vector if v has zero length
func Normalize3(v [3]float32) [3]float32 {
	l := Length3(v)
	if l == 0 {
		return [3]float32{}
	}
	return [3]float32{v[0] / l, v[1] / l, v[2] / l}
}

// Centroid3 returns the arithmetic mean of the given points. Returns the zero
// vector for an empty input.
func Centroid3(points ...[3]float32) [3]float32 {
	if len(points) == 0 {
		return [3]float32{}
	}
	var sum [3]float32
	for _, p := range points {
		sum = Add3(sum, p)
	}
	n := float32(len(points))
	return [3]float32{sum[0] / n, sum[1] / n, sum[2] / n}
}
