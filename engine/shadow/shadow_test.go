package shadow

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-shadow/engine/light"
	"github.com/go-gl/mathgl/mgl32"
)

// fakeCamera is a fixed ViewCamera for testing.
type fakeCamera struct {
	pos  mgl32.Vec3
	dir  mgl32.Vec3
	near float32
}

func (c fakeCamera) Position() mgl32.Vec3  { return c.pos }
func (c fakeCamera) Direction() mgl32.Vec3 { return c.dir }
func (c fakeCamera) Near() float32         { return c.near }

func newTestCamera() fakeCamera {
	return fakeCamera{
		pos:  mgl32.Vec3{3.3, 1.7, -12.9},
		dir:  mgl32.Vec3{0.3, -0.2, -1}.Normalize(),
		near: 0.5,
	}
}

func testSettings() Settings {
	s := DefaultSettings()
	s.TextureOffset = 0.6
	s.ExtrusionDistance = 100
	return s
}

const tolerance = 1e-5

func approxEqual(a, b, eps float32) bool {
	return float32(math.Abs(float64(a-b))) <= eps
}

func approxVec(a, b mgl32.Vec3, eps float32) bool {
	return approxEqual(a[0], b[0], eps) && approxEqual(a[1], b[1], eps) && approxEqual(a[2], b[2], eps)
}

// isMultiple reports whether v is within frac texels of a multiple of step.
func isMultiple(v, step, frac float32) bool {
	r := float64(v) / float64(step)
	return math.Abs(r-math.Round(r)) <= float64(frac)
}

func TestShadowDistance(t *testing.T) {
	cam := newTestCamera()

	tests := []struct {
		name     string
		opts     []light.LightBuilderOption
		expected float32
	}{
		{"configured distance", []light.LightBuilderOption{light.WithShadowFarDistance(50)}, 50},
		{"unset falls back to near clip", nil, 300 * cam.near},
		{"explicit zero falls back to near clip", []light.LightBuilderOption{light.WithShadowFarDistance(0)}, 150},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := light.NewLight(light.LightTypeDirectional, tt.opts...)
			if got := ShadowDistance(l, cam); !approxEqual(got, tt.expected, tolerance) {
				t.Errorf("ShadowDistance() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSpotFovY(t *testing.T) {
	tests := []struct {
		name     string
		outerDeg float32
		expected float32
	}{
		{"narrow cone", 30, mgl32.DegToRad(36)},
		{"wide cone", 120, mgl32.DegToRad(144)},
		{"at clamp", 175 / 1.2, mgl32.DegToRad(175)},
		{"clamped", 160, mgl32.DegToRad(175)},
		{"zero", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SpotFovY(mgl32.DegToRad(tt.outerDeg))
			if !approxEqual(got, tt.expected, tolerance) {
				t.Errorf("SpotFovY(%v°) = %v, want %v", tt.outerDeg, got, tt.expected)
			}
		})
	}
}

func TestWorldTexelSize(t *testing.T) {
	if got := WorldTexelSize(50, FixedViewport{Width: 1024}); got != 100.0/1024 {
		t.Errorf("WorldTexelSize() = %v, want %v", got, 100.0/1024)
	}
	if got := WorldTexelSize(50, FixedViewport{}); !math.IsInf(float64(got), 1) {
		t.Errorf("WorldTexelSize() with zero width = %v, want +Inf", got)
	}
}

func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr bool
	}{
		{"defaults", func(*Settings) {}, false},
		{"offset above one", func(s *Settings) { s.TextureOffset = 1.5 }, true},
		{"negative offset", func(s *Settings) { s.TextureOffset = -0.1 }, true},
		{"zero extrusion", func(s *Settings) { s.ExtrusionDistance = 0 }, true},
		{"zero resolution", func(s *Settings) { s.Resolution = 0 }, true},
		{"negative bias", func(s *Settings) { s.Bias = -1 }, true},
		{"negative normal bias", func(s *Settings) { s.NormalBiasScale = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(&s)
			err := s.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultSettingsImplementSceneSettings(t *testing.T) {
	s := DefaultSettings()
	if s.DirLightTextureOffset() != light.DefaultShadowDirLightTextureOffset {
		t.Errorf("DirLightTextureOffset() = %v, want %v", s.DirLightTextureOffset(), light.DefaultShadowDirLightTextureOffset)
	}
	if s.DirectionalLightExtrusionDistance() != light.DefaultShadowDirectionalLightExtrusionDistance {
		t.Errorf("DirectionalLightExtrusionDistance() = %v, want %v",
			s.DirectionalLightExtrusionDistance(), light.DefaultShadowDirectionalLightExtrusionDistance)
	}
}
