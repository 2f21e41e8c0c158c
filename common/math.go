package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// InfiniteOrthoFar is the far plane substituted for an orthographic projection
// whose far distance is 0 (infinite). Orthographic depth cannot be infinite, so
// the value only needs to exceed any directional light extrusion distance.
const InfiniteOrthoFar float32 = 1_000_000

// WorldUp is the reference up axis used when deriving camera orientations.
var WorldUp = mgl32.Vec3{0, 1, 0}

// WorldForward is the fallback up axis used when WorldUp is parallel to the
// direction being oriented.
var WorldForward = mgl32.Vec3{0, 0, 1}

// AbsF32 returns the absolute value of a float32.
func AbsF32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// QuatFromAxes builds the quaternion of the rotation whose basis columns are the
// given axes. The axes must be orthonormal and right-handed for the result to be
// a unit quaternion; no validation is performed.
//
// Parameters:
//   - x: the rotated local X axis
//   - y: the rotated local Y axis
//   - z: the rotated local Z axis
//
// Returns:
//   - mgl32.Quat: the rotation taking the world basis onto (x, y, z)
func QuatFromAxes(x, y, z mgl32.Vec3) mgl32.Quat {
	return mgl32.Mat4ToQuat(mgl32.Mat3FromCols(x, y, z).Mat4())
}

// SnapToMultiple removes the truncated remainder of v divided by step, leaving
// the nearest multiple of step toward zero. A zero or non-finite step returns v
// unchanged so a degenerate texel size disables snapping instead of producing NaN.
//
// Parameters:
//   - v: the value to snap
//   - step: the grid spacing
//
// Returns:
//   - float32: v minus fmod(v, step)
func SnapToMultiple(v, step float32) float32 {
	s := float64(step)
	if s == 0 || math.IsInf(s, 0) || math.IsNaN(s) {
		return v
	}
	return float32(float64(v) - math.Mod(float64(v), s))
}

// ViewMatrix builds the world-to-view matrix for a camera at position with the
// given orientation. The camera looks down its local -Z axis, so the orientation's
// +Z column is the camera's backward direction.
//
// Parameters:
//   - position: camera position in world space
//   - orientation: camera rotation in world space
//
// Returns:
//   - mgl32.Mat4: the view matrix (column-major)
func ViewMatrix(position mgl32.Vec3, orientation mgl32.Quat) mgl32.Mat4 {
	inv := orientation.Inverse()
	return inv.Mat4().Mul4(mgl32.Translate3D(-position[0], -position[1], -position[2]))
}

// Perspective creates a perspective projection matrix compatible with WebGPU's
// clip-space depth range [0, 1]. A far distance of 0 yields an infinite far plane.
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance, or 0 for infinite
//
// Returns:
//   - mgl32.Mat4: the projection matrix (column-major)
func Perspective(fovY, aspect, near, far float32) mgl32.Mat4 {
	f := 1.0 / float32(math.Tan(float64(fovY)/2.0))
	var out mgl32.Mat4

	out[0] = f / aspect
	out[5] = f
	out[11] = -1.0
	if far == 0 {
		out[10] = -1.0
		out[14] = -near
		return out
	}
	out[10] = far / (near - far)
	out[14] = (near * far) / (near - far)
	return out
}

// Ortho builds a centered orthographic projection matrix compatible with WebGPU's
// clip-space convention: X/Y in [-1, 1], Z in [0, 1]. A far distance of 0 is
// replaced by InfiniteOrthoFar.
//
// Parameters:
//   - width: full width of the view window in world units
//   - height: full height of the view window in world units
//   - near: near plane distance
//   - far: far plane distance, or 0 for InfiniteOrthoFar
//
// Returns:
//   - mgl32.Mat4: the projection matrix (column-major)
func Ortho(width, height, near, far float32) mgl32.Mat4 {
	if far == 0 {
		far = InfiniteOrthoFar
	}
	out := mgl32.Ident4()
	fn := far - near

	out[0] = 2.0 / width
	out[5] = 2.0 / height
	out[10] = -1.0 / fn // WebGPU Z: [0, 1]
	out[14] = -near / fn
	return out
}
