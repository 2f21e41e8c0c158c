// Package shadow places the auxiliary cameras used to render shadow depth maps.
//
// A Strategy turns the scene's shadow settings, the view camera, the shadow
// render target's viewport and one light into a CameraPose: projection kind,
// clip planes, field of view or orthographic window, position and orientation.
// Strategies are stateless and reentrant; the host applies the returned pose to
// whatever camera object it renders the shadow pass with.
package shadow

import (
	"github.com/Carmen-Shannon/oxy-shadow/engine/light"
	"github.com/go-gl/mathgl/mgl32"
)

// PointLightFovY is the vertical field of view of a point light's shadow camera.
var PointLightFovY = mgl32.DegToRad(120)

// SpotFovScale widens a spotlight's shadow camera past the outer cone so the
// cone edge is covered.
const SpotFovScale float32 = 1.2

// MaxSpotFovY caps the spotlight shadow camera's vertical field of view.
var MaxSpotFovY = mgl32.DegToRad(175)

// SpotNearClipEpsilon is subtracted from a spotlight's shadow near clip to keep
// geometry at the cone apex from z-fighting with itself.
const SpotNearClipEpsilon float32 = 0.001

// SceneSettings exposes the scene-wide shadow configuration a Strategy reads.
type SceneSettings interface {
	// DirLightTextureOffset returns the fraction of the shadow distance by which
	// the shadow camera's look-at point is pushed in front of the view camera.
	DirLightTextureOffset() float32

	// DirectionalLightExtrusionDistance returns how far back along a directional
	// light the shadow camera is placed from its look-at point.
	DirectionalLightExtrusionDistance() float32
}

// ViewCamera is the observer whose view is being shadowed.
type ViewCamera interface {
	light.NearClipper

	// Position returns the camera's world-space position.
	Position() mgl32.Vec3

	// Direction returns the camera's normalized view direction.
	Direction() mgl32.Vec3
}

// Viewport is the render target the shadow camera draws into.
type Viewport interface {
	// ActualWidth returns the render target width in pixels.
	ActualWidth() uint32
}

// Light is the subset of light.Light a Strategy reads.
type Light interface {
	Type() light.LightType
	Position() mgl32.Vec3
	Direction() mgl32.Vec3
	OuterConeAngle() float32
	ShadowFarDistance() float32
	DeriveShadowNearClip(cam light.NearClipper) float32
	DeriveShadowFarClip(cam light.NearClipper) float32
}

// Strategy computes the pose of the shadow camera for one light and one shadow
// iteration.
type Strategy interface {
	// ShadowCamera returns the shadow camera pose for the light.
	//
	// Parameters:
	//   - settings: scene-wide shadow configuration
	//   - cam: the view camera being shadowed
	//   - vp: the shadow render target's viewport
	//   - l: the shadow-casting light
	//   - iteration: the shadow texture index for lights rendered over several passes
	//
	// Returns:
	//   - CameraPose: the shadow camera's projection and pose
	ShadowCamera(settings SceneSettings, cam ViewCamera, vp Viewport, l Light, iteration int) CameraPose
}

// ShadowDistance returns the light's shadow far distance, or
// light.ShadowDistanceNearClipFactor times the view camera's near clip distance
// when the light has none.
//
// Parameters:
//   - l: the shadow-casting light
//   - cam: the view camera being shadowed
//
// Returns:
//   - float32: the distance from the viewer the shadow map has to cover
func ShadowDistance(l Light, cam ViewCamera) float32 {
	if d := l.ShadowFarDistance(); d != 0 {
		return d
	}
	return cam.Near() * light.ShadowDistanceNearClipFactor
}

// SpotFovY returns the shadow camera field of view for a spotlight with the
// given outer cone angle: SpotFovScale times the angle, capped at MaxSpotFovY.
//
// Parameters:
//   - outerAngle: full outer cone angle in radians
//
// Returns:
//   - float32: vertical field of view in radians
func SpotFovY(outerAngle float32) float32 {
	return min(outerAngle*SpotFovScale, MaxSpotFovY)
}

// WorldTexelSize returns the world-space width of one shadow map texel for an
// orthographic window 2*shadowDist wide rendered into vp. A zero-width viewport
// yields +Inf.
//
// Parameters:
//   - shadowDist: the shadow distance covered by the window's half-width
//   - vp: the shadow render target's viewport
//
// Returns:
//   - float32: world units per texel
func WorldTexelSize(shadowDist float32, vp Viewport) float32 {
	return shadowDist * 2 / float32(vp.ActualWidth())
}

// focusPoint returns the point shadowOffset in front of the view camera.
func focusPoint(cam ViewCamera, shadowOffset float32) mgl32.Vec3 {
	return cam.Position().Add(cam.Direction().Mul(shadowOffset))
}
