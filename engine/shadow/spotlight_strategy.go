package shadow

// SpotlightStrategy places the shadow camera for spotlights: a perspective
// camera at the light looking down the cone axis, with a field of view slightly
// wider than the outer cone. The light type is not checked; callers only route
// spotlights here.
type SpotlightStrategy struct{}

var _ Strategy = SpotlightStrategy{}

// NewSpotlightStrategy returns a SpotlightStrategy.
func NewSpotlightStrategy() SpotlightStrategy {
	return SpotlightStrategy{}
}

func (SpotlightStrategy) ShadowCamera(_ SceneSettings, cam ViewCamera, _ Viewport, l Light, _ int) CameraPose {
	dir := l.Direction().Mul(-1).Normalize()
	return CameraPose{
		Projection:  ProjectionPerspective,
		Near:        l.DeriveShadowNearClip(cam) - SpotNearClipEpsilon,
		Far:         l.DeriveShadowFarClip(cam),
		FovY:        SpotFovY(l.OuterConeAngle()),
		Position:    l.Position(),
		Orientation: OrientationFromDirection(dir),
	}
}
