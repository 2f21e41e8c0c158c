package shadow

import (
	"github.com/Carmen-Shannon/oxy-shadow/common"
	"github.com/go-gl/mathgl/mgl32"
)

// DeriveOrthonormalOrientation builds a right-handed orthonormal basis whose
// third axis is direction. preferredUp seeds the up axis; when it is parallel to
// direction (|preferredUp·direction| >= 1) world Z is used instead, or world Y if
// preferredUp already is world Z. Direction is returned unaltered and must be
// normalized by the caller. A degenerate direction yields NaN axes.
//
// Parameters:
//   - direction: the normalized axis to keep
//   - preferredUp: the reference up vector
//
// Returns:
//   - left: direction × up, normalized
//   - up: direction × left, normalized
//   - forward: direction
func DeriveOrthonormalOrientation(direction, preferredUp mgl32.Vec3) (left, up, forward mgl32.Vec3) {
	up = preferredUp
	if common.AbsF32(up.Dot(direction)) >= 1 {
		if up == common.WorldForward {
			up = common.WorldUp
		} else {
			up = common.WorldForward
		}
	}

	// cross twice so only direction keeps its original value
	left = direction.Cross(up).Normalize()
	up = direction.Cross(left).Normalize()
	return left, up, direction
}

// OrientationFromDirection returns the camera orientation whose local axes are
// (left, up, direction) as derived with world Y as the preferred up. The
// direction becomes the camera's backward (+Z) axis, so the camera looks along
// -direction.
//
// Parameters:
//   - direction: the normalized backward axis
//
// Returns:
//   - mgl32.Quat: the camera orientation
func OrientationFromDirection(direction mgl32.Vec3) mgl32.Quat {
	left, up, forward := DeriveOrthonormalOrientation(direction, common.WorldUp)
	return common.QuatFromAxes(left, up, forward)
}
