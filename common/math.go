package common

import (
	"unsafe"

	"github.com/chewxy/math32"
)

// Mat4 is a 4x4 matrix in column-major order, the layout WGSL expects for mat4x4<f32>.
type Mat4 [16]float32

// IdentityMat4 returns the identity matrix.
func IdentityMat4() Mat4 {
	return Mat4{0: 1, 5: 1, 10: 1, 15: 1}
}

// Mul returns m * o.
func (m Mat4) Mul(o Mat4) Mat4 {
	var out Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m[k*4+row] * o[col*4+k]
			}
			out[col*4+row] = sum
		}
	}
	return out
}

// TransformPoint multiplies the point (w = 1) by the matrix and returns the homogeneous result.
//
// Parameters:
//   - p: the point
//
// Returns:
//   - [4]float32: clip or view space coordinates before the divide by w
func (m Mat4) TransformPoint(p [3]float32) [4]float32 {
	var out [4]float32
	for row := range out {
		out[row] = m[row]*p[0] + m[4+row]*p[1] + m[8+row]*p[2] + m[12+row]
	}
	return out
}

// PerspectiveMat4 returns a right-handed projection that maps view depth onto the
// WebGPU clip range [0, 1].
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: width over height
//   - near: near plane distance, > 0
//   - far: far plane distance, > near
//
// Returns:
//   - Mat4: the projection matrix
func PerspectiveMat4(fovY, aspect, near, far float32) Mat4 {
	f := 1 / math32.Tan(fovY/2)
	depth := near - far
	return Mat4{
		0:  f / aspect,
		5:  f,
		10: far / depth,
		11: -1,
		14: near * far / depth,
	}
}

// LookAtMat4 returns the world-to-view matrix of an eye looking at center. A degenerate
// basis (eye on center, or up along the view axis) leaves the affected axis at zero.
//
// Parameters:
//   - eye: camera position
//   - center: point looked at
//   - up: approximate up direction
//
// Returns:
//   - Mat4: the view matrix
func LookAtMat4(eye, center, up [3]float32) Mat4 {
	back := Normalize3(Sub3(eye, center))
	right := Normalize3(Cross3(up, back))
	trueUp := Cross3(back, right)

	m := IdentityMat4()
	for i, axis := range [3][3]float32{right, trueUp, back} {
		m[i], m[4+i], m[8+i] = axis[0], axis[1], axis[2]
		m[12+i] = -Dot3(axis, eye)
	}
	return m
}

// SliceToBytes reinterprets a slice as raw bytes for GPU buffer writes. The result
// aliases data and is only valid while data is alive and unmodified.
//
// Parameters:
//   - data: source slice of plain values
//
// Returns:
//   - []byte: byte view of data, nil when data is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	size := int(unsafe.Sizeof(data[0])) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), size)
}
