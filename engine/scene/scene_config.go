package scene

import (
	"fmt"
	"log"
	"os"

	"github.com/Carmen-Shannon/oxy-shadow/common"
	"github.com/Carmen-Shannon/oxy-shadow/engine/camera"
	"github.com/Carmen-Shannon/oxy-shadow/engine/light"
	"github.com/Carmen-Shannon/oxy-shadow/engine/shadow"
	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// Config describes a scene in YAML: the orbiting view camera, the shadow render
// target, the shadow settings and the lights.
//
// Fields left out of the file keep the defaults set by DefaultConfig.
type Config struct {
	// Name is the scene identifier.
	Name string `yaml:"name"`

	// Camera configures the view camera and its orbit controller.
	Camera CameraConfig `yaml:"camera"`

	// Viewport is the shadow render target size. Zero values fall back to the
	// shadow resolution.
	Viewport ViewportConfig `yaml:"viewport"`

	// Shadows is the scene-wide shadow configuration.
	Shadows shadow.Settings `yaml:"shadows"`

	// Lights lists the scene's lights in registration order.
	Lights []LightConfig `yaml:"lights"`
}

// CameraConfig configures the view camera. Angles are in degrees.
type CameraConfig struct {
	FovDeg       float32   `yaml:"fovDeg"`
	Aspect       float32   `yaml:"aspect"`
	Near         float32   `yaml:"near"`
	Far          float32   `yaml:"far"`
	Target       []float32 `yaml:"target"`
	Radius       float32   `yaml:"radius"`
	AzimuthDeg   float32   `yaml:"azimuthDeg"`
	ElevationDeg float32   `yaml:"elevationDeg"`
}

// ViewportConfig is the shadow render target size in pixels.
type ViewportConfig struct {
	Width  uint32 `yaml:"width"`
	Height uint32 `yaml:"height"`
}

// LightConfig configures one light. Pointer fields distinguish "unset" from zero.
type LightConfig struct {
	// Type is "directional", "point" or "spot".
	Type      string    `yaml:"type"`
	Position  []float32 `yaml:"position"`
	Direction []float32 `yaml:"direction"`
	Range     float32   `yaml:"range"`

	// InnerAngleDeg and OuterAngleDeg are cone half-angles for spot lights.
	InnerAngleDeg float32 `yaml:"innerAngleDeg"`
	OuterAngleDeg float32 `yaml:"outerAngleDeg"`

	ShadowFarDistance float32  `yaml:"shadowFarDistance"`
	ShadowNearClip    *float32 `yaml:"shadowNearClip"`
	ShadowFarClip     *float32 `yaml:"shadowFarClip"`
	Enabled           *bool    `yaml:"enabled"`
	CastsShadows      *bool    `yaml:"castsShadows"`
}

// DefaultConfig returns a Config holding the engine defaults.
//
// Returns:
//   - *Config: a config with no lights and default camera and shadow settings
func DefaultConfig() *Config {
	return &Config{
		Name: "scene",
		Camera: CameraConfig{
			FovDeg:       45,
			Aspect:       1,
			Near:         0.1,
			Far:          1000,
			Target:       []float32{0, 0, 0},
			Radius:       250,
			ElevationDeg: 30,
		},
		Shadows: shadow.DefaultSettings(),
	}
}

// LoadConfig loads a scene configuration from a YAML file on top of DefaultConfig
// and validates it.
//
// Parameters:
//   - path: path to the YAML file
//
// Returns:
//   - *Config: the loaded configuration
//   - error: an error if the file can't be read, parsed or fails validation
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig parses a YAML scene configuration on top of DefaultConfig and validates it.
//
// Parameters:
//   - data: the YAML document
//
// Returns:
//   - *Config: the parsed configuration
//   - error: an error if parsing or validation fails
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse scene config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scene config: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for values the scene can't be built from.
//
// Returns:
//   - error: the first problem found, or nil
func (c *Config) Validate() error {
	if c.Camera.Near <= 0 {
		return fmt.Errorf("camera near must be positive, got %v", c.Camera.Near)
	}
	if c.Camera.Far != 0 && c.Camera.Far <= c.Camera.Near {
		return fmt.Errorf("camera far (%v) must exceed near (%v)", c.Camera.Far, c.Camera.Near)
	}
	if c.Camera.Radius <= 0 {
		return fmt.Errorf("camera radius must be positive, got %v", c.Camera.Radius)
	}
	if len(c.Camera.Target) != 3 {
		return fmt.Errorf("camera target must have 3 components, got %d", len(c.Camera.Target))
	}
	if err := c.Shadows.Validate(); err != nil {
		return err
	}
	for i, lc := range c.Lights {
		if err := lc.validate(); err != nil {
			return fmt.Errorf("light %d: %w", i, err)
		}
	}
	return nil
}

func (lc LightConfig) validate() error {
	t, err := light.ParseLightType(lc.Type)
	if err != nil {
		return err
	}
	if lc.Position != nil && len(lc.Position) != 3 {
		return fmt.Errorf("position must have 3 components, got %d", len(lc.Position))
	}
	if lc.Direction != nil && len(lc.Direction) != 3 {
		return fmt.Errorf("direction must have 3 components, got %d", len(lc.Direction))
	}
	if d := lc.Direction; d != nil && (mgl32.Vec3{d[0], d[1], d[2]}).Len() == 0 {
		return fmt.Errorf("direction must not be zero")
	}
	if t == light.LightTypeSpot && lc.OuterAngleDeg < lc.InnerAngleDeg {
		return fmt.Errorf("outer cone angle (%v) must not be smaller than inner (%v)", lc.OuterAngleDeg, lc.InnerAngleDeg)
	}
	if lc.ShadowFarDistance < 0 {
		return fmt.Errorf("shadow far distance must not be negative, got %v", lc.ShadowFarDistance)
	}
	return nil
}

// Build creates the light described by the config. The config must have passed Validate.
//
// Returns:
//   - light.Light: the new light
//   - error: an error if the light type is unknown
func (lc LightConfig) Build() (light.Light, error) {
	t, err := light.ParseLightType(lc.Type)
	if err != nil {
		return nil, err
	}

	opts := []light.LightBuilderOption{
		light.WithShadowFarDistance(lc.ShadowFarDistance),
		light.WithCastsShadows(true),
	}
	if len(lc.Position) == 3 {
		opts = append(opts, light.WithPosition(lc.Position[0], lc.Position[1], lc.Position[2]))
	}
	if len(lc.Direction) == 3 {
		opts = append(opts, light.WithDirection(lc.Direction[0], lc.Direction[1], lc.Direction[2]))
	}
	if lc.Range > 0 {
		opts = append(opts, light.WithRange(lc.Range))
	}
	if lc.OuterAngleDeg > 0 {
		opts = append(opts, light.WithSpotCone(lc.InnerAngleDeg, lc.OuterAngleDeg))
	}
	if lc.ShadowNearClip != nil || lc.ShadowFarClip != nil {
		near, far := float32(-1), float32(-1)
		if lc.ShadowNearClip != nil {
			near = *lc.ShadowNearClip
		}
		if lc.ShadowFarClip != nil {
			far = *lc.ShadowFarClip
		}
		opts = append(opts, light.WithShadowClipDistances(near, far))
	}
	if lc.Enabled != nil {
		opts = append(opts, light.WithEnabled(*lc.Enabled))
	}
	if lc.CastsShadows != nil {
		opts = append(opts, light.WithCastsShadows(*lc.CastsShadows))
	}
	return light.NewLight(t, opts...), nil
}

// NewSceneFromConfig builds a Scene from a validated configuration. Extra options
// are applied after the ones derived from the config.
//
// Parameters:
//   - cfg: the scene configuration
//   - options: additional scene options
//
// Returns:
//   - Scene: the new scene
//   - error: an error if cfg is nil, invalid or a light can't be built
func NewSceneFromConfig(cfg *Config, options ...SceneBuilderOption) (Scene, error) {
	if cfg == nil {
		return nil, fmt.Errorf("scene config is nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scene config: %w", err)
	}

	cc := cfg.Camera
	cam := camera.NewCamera(
		camera.WithFov(mgl32.DegToRad(cc.FovDeg)),
		camera.WithAspect(cc.Aspect),
		camera.WithNear(cc.Near),
		camera.WithFar(cc.Far),
		camera.WithController(camera.NewCameraController(
			camera.WithTarget(cc.Target[0], cc.Target[1], cc.Target[2]),
			camera.WithRadius(cc.Radius),
			camera.WithRadiusBounds(min(cc.Radius, 20), max(cc.Radius, 2000)),
			camera.WithAzimuth(mgl32.DegToRad(cc.AzimuthDeg)),
			camera.WithElevation(mgl32.DegToRad(cc.ElevationDeg)),
		)),
	)

	lights := make([]light.Light, 0, len(cfg.Lights))
	for i, lc := range cfg.Lights {
		l, err := lc.Build()
		if err != nil {
			return nil, fmt.Errorf("light %d: %w", i, err)
		}
		lights = append(lights, l)
	}

	width := common.Coalesce(cfg.Viewport.Width, uint32(cfg.Shadows.Resolution))
	height := common.Coalesce(cfg.Viewport.Height, width)

	opts := []SceneBuilderOption{
		WithShadowSettings(cfg.Shadows),
		WithViewport(shadow.FixedViewport{Width: width, Height: height}),
		WithLights(lights...),
	}
	opts = append(opts, options...)

	s := NewScene(cfg.Name, cam, opts...)
	log.Printf("[Scene] %s: loaded %d lights, shadow viewport %dx%d", cfg.Name, len(lights), width, height)
	return s, nil
}
