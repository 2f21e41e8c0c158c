package light

// ShadowMapResolution is the default width and height in texels of the shadow
// depth texture. Hosts use this when they size the shadow render target.
const ShadowMapResolution = 2048

// DefaultShadowDirLightTextureOffset is the fraction of the shadow distance by
// which the directional shadow camera's look-at point is pushed in front of the
// view camera. Shadow texture space is spent on what the viewer is facing.
const DefaultShadowDirLightTextureOffset float32 = 0.6

// DefaultShadowDirectionalLightExtrusionDistance is how far back along the
// light direction the directional shadow camera is placed from its look-at point.
const DefaultShadowDirectionalLightExtrusionDistance float32 = 10000.0

// ShadowDistanceNearClipFactor scales the view camera's near clip distance to
// produce a shadow distance for lights that don't configure one.
const ShadowDistanceNearClipFactor float32 = 300.0

// DefaultShadowBias is the constant depth bias applied to shadow comparisons
// to reduce shadow acne artifacts.
const DefaultShadowBias float32 = 0.001

// DefaultShadowNormalBiasScale is the multiplier applied to the shadow map
// texel world-size to compute the normal-offset bias. Typical values are 2.0–4.0.
const DefaultShadowNormalBiasScale float32 = 3.0
