package shadow

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-shadow/engine/light"
)

// Settings is the scene-wide shadow configuration. It implements SceneSettings
// and carries the bias parameters the host writes into the shadow uniform.
type Settings struct {
	// TextureOffset is the fraction of the shadow distance the directional
	// shadow camera's look-at point sits in front of the viewer.
	TextureOffset float32 `yaml:"textureOffset"`

	// ExtrusionDistance is how far back along a directional light the shadow
	// camera is placed from its look-at point.
	ExtrusionDistance float32 `yaml:"extrusionDistance"`

	// Resolution is the width and height of the shadow map in texels.
	Resolution int `yaml:"resolution"`

	// Bias is the constant depth comparison bias.
	Bias float32 `yaml:"bias"`

	// NormalBiasScale multiplies the world texel size to give the normal-offset bias.
	NormalBiasScale float32 `yaml:"normalBiasScale"`
}

var _ SceneSettings = Settings{}

// DefaultSettings returns the engine's default shadow configuration.
//
// Returns:
//   - Settings: defaults from the light package constants
func DefaultSettings() Settings {
	return Settings{
		TextureOffset:     light.DefaultShadowDirLightTextureOffset,
		ExtrusionDistance: light.DefaultShadowDirectionalLightExtrusionDistance,
		Resolution:        light.ShadowMapResolution,
		Bias:              light.DefaultShadowBias,
		NormalBiasScale:   light.DefaultShadowNormalBiasScale,
	}
}

func (s Settings) DirLightTextureOffset() float32 {
	return s.TextureOffset
}

func (s Settings) DirectionalLightExtrusionDistance() float32 {
	return s.ExtrusionDistance
}

// Validate checks that the settings describe a usable shadow setup.
//
// Returns:
//   - error: the first invalid field, or nil
func (s Settings) Validate() error {
	if s.TextureOffset < 0 || s.TextureOffset > 1 {
		return fmt.Errorf("shadow texture offset must be in [0, 1], got %v", s.TextureOffset)
	}
	if s.ExtrusionDistance <= 0 {
		return fmt.Errorf("shadow extrusion distance must be positive, got %v", s.ExtrusionDistance)
	}
	if s.Resolution <= 0 {
		return fmt.Errorf("shadow map resolution must be positive, got %d", s.Resolution)
	}
	if s.Bias < 0 {
		return fmt.Errorf("shadow bias must not be negative, got %v", s.Bias)
	}
	if s.NormalBiasScale < 0 {
		return fmt.Errorf("shadow normal bias scale must not be negative, got %v", s.NormalBiasScale)
	}
	return nil
}
