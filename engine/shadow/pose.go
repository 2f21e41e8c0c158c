package shadow

import (
	"github.com/Carmen-Shannon/oxy-shadow/common"
	"github.com/go-gl/mathgl/mgl32"
)

// ProjectionType identifies how a shadow camera projects the scene.
type ProjectionType int

const (
	// ProjectionPerspective projects through a field of view.
	ProjectionPerspective ProjectionType = iota

	// ProjectionOrthographic projects through a fixed-size window.
	ProjectionOrthographic
)

func (p ProjectionType) String() string {
	if p == ProjectionOrthographic {
		return "orthographic"
	}
	return "perspective"
}

// CameraPose is the complete state a Strategy assigns to a shadow camera.
// FovY is only meaningful for perspective poses, OrthoWidth/OrthoHeight only
// for orthographic ones. A Far of 0 means an infinite far plane.
type CameraPose struct {
	Projection  ProjectionType
	Near        float32
	Far         float32
	FovY        float32 // radians
	OrthoWidth  float32
	OrthoHeight float32
	Position    mgl32.Vec3
	Orientation mgl32.Quat
}

// Left returns the camera's local X axis in world space.
func (p CameraPose) Left() mgl32.Vec3 {
	return p.Orientation.Rotate(mgl32.Vec3{1, 0, 0})
}

// Up returns the camera's local Y axis in world space.
func (p CameraPose) Up() mgl32.Vec3 {
	return p.Orientation.Rotate(mgl32.Vec3{0, 1, 0})
}

// Backward returns the camera's local Z axis in world space.
func (p CameraPose) Backward() mgl32.Vec3 {
	return p.Orientation.Rotate(mgl32.Vec3{0, 0, 1})
}

// Forward returns the direction the camera looks along.
func (p CameraPose) Forward() mgl32.Vec3 {
	return p.Backward().Mul(-1)
}

// ViewMatrix returns the world-to-view matrix of the pose.
func (p CameraPose) ViewMatrix() mgl32.Mat4 {
	return common.ViewMatrix(p.Position, p.Orientation)
}

// ProjectionMatrix returns the WebGPU projection matrix of the pose. aspect is
// ignored for orthographic poses, whose window already fixes both extents.
//
// Parameters:
//   - aspect: render target width / height
//
// Returns:
//   - mgl32.Mat4: the projection matrix
func (p CameraPose) ProjectionMatrix(aspect float32) mgl32.Mat4 {
	if p.Projection == ProjectionOrthographic {
		return common.Ortho(p.OrthoWidth, p.OrthoHeight, p.Near, p.Far)
	}
	return common.Perspective(p.FovY, aspect, p.Near, p.Far)
}

// ViewProjection returns ProjectionMatrix(aspect) * ViewMatrix().
func (p CameraPose) ViewProjection(aspect float32) mgl32.Mat4 {
	return p.ProjectionMatrix(aspect).Mul4(p.ViewMatrix())
}

// Frustum returns the world-space frustum of the pose, for culling shadow casters.
func (p CameraPose) Frustum(aspect float32) common.Frustum {
	return common.ExtractFrustum(p.ViewProjection(aspect))
}
