package shadow

import (
	"github.com/Carmen-Shannon/oxy-shadow/common"
	"github.com/Carmen-Shannon/oxy-shadow/engine/light"
	"github.com/go-gl/mathgl/mgl32"
)

// DirectionalPointStrategy places shadow cameras for directional and point
// lights, and for spotlights when no SpotlightStrategy is registered.
//
//   - Directional lights get an orthographic camera 2*shadowDist wide, extruded
//     back along the light from a point in front of the viewer and snapped to
//     whole shadow texels in light space so shadow edges don't shimmer as the
//     viewer moves.
//   - Spotlights get a perspective camera at the light, looking down the cone.
//   - Every other light is treated as a point light: a 120° perspective camera at
//     the light, looking at the point in front of the viewer.
type DirectionalPointStrategy struct{}

var _ Strategy = DirectionalPointStrategy{}

// NewDirectionalPointStrategy returns a DirectionalPointStrategy.
func NewDirectionalPointStrategy() DirectionalPointStrategy {
	return DirectionalPointStrategy{}
}

func (DirectionalPointStrategy) ShadowCamera(settings SceneSettings, cam ViewCamera, vp Viewport, l Light, _ int) CameraPose {
	pose := CameraPose{
		Near: l.DeriveShadowNearClip(cam),
		Far:  l.DeriveShadowFarClip(cam),
	}

	shadowDist := ShadowDistance(l, cam)
	shadowOffset := shadowDist * settings.DirLightTextureOffset()

	var dir mgl32.Vec3
	switch l.Type() {
	case light.LightTypeDirectional:
		pose.Projection = ProjectionOrthographic
		pose.OrthoWidth = shadowDist * 2
		pose.OrthoHeight = shadowDist * 2

		target := focusPoint(cam, shadowOffset)
		dir = l.Direction().Mul(-1).Normalize()
		pos := target.Add(dir.Mul(settings.DirectionalLightExtrusionDistance()))

		orientation := OrientationFromDirection(dir)
		pose.Position = snapToTexel(pos, orientation, WorldTexelSize(shadowDist, vp))
		pose.Orientation = orientation
		return pose

	case light.LightTypeSpot:
		pose.Projection = ProjectionPerspective
		pose.FovY = SpotFovY(l.OuterConeAngle())
		pose.Position = l.Position()
		dir = l.Direction().Mul(-1).Normalize()

	default:
		pose.Projection = ProjectionPerspective
		pose.FovY = PointLightFovY
		target := focusPoint(cam, shadowOffset)
		pose.Position = l.Position()
		dir = pose.Position.Sub(target).Normalize()
	}

	pose.Orientation = OrientationFromDirection(dir)
	return pose
}

// snapToTexel moves pos onto the light-space texel grid: the x/y components of
// pos in the frame of orientation are rounded toward zero to a multiple of
// texel, z is kept.
func snapToTexel(pos mgl32.Vec3, orientation mgl32.Quat, texel float32) mgl32.Vec3 {
	lightSpace := orientation.Inverse().Rotate(pos)
	lightSpace[0] = common.SnapToMultiple(lightSpace[0], texel)
	lightSpace[1] = common.SnapToMultiple(lightSpace[1], texel)
	return orientation.Rotate(lightSpace)
}
