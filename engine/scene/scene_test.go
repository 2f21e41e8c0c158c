package scene

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-shadow/engine/camera"
	"github.com/Carmen-Shannon/oxy-shadow/engine/light"
	"github.com/Carmen-Shannon/oxy-shadow/engine/profiler"
	"github.com/Carmen-Shannon/oxy-shadow/engine/renderer"
	"github.com/Carmen-Shannon/oxy-shadow/engine/shadow"
	"github.com/go-gl/mathgl/mgl32"
)

// recordingStrategy returns a pose at the light's position and counts calls.
type recordingStrategy struct {
	calls     atomic.Int64
	iteration atomic.Int64
}

func (r *recordingStrategy) ShadowCamera(_ shadow.SceneSettings, _ shadow.ViewCamera, _ shadow.Viewport, l shadow.Light, iteration int) shadow.CameraPose {
	r.calls.Add(1)
	r.iteration.Store(int64(iteration))
	return shadow.CameraPose{Position: l.Position(), Orientation: mgl32.QuatIdent()}
}

func newTestScene(opts ...SceneBuilderOption) Scene {
	cam := camera.NewCamera(
		camera.WithNear(0.5),
		camera.WithController(camera.NewCameraController(camera.WithRadius(100))),
	)
	return NewScene("test", cam, opts...)
}

func shadowedLight(t light.LightType, x float32) light.Light {
	return light.NewLight(t, light.WithPosition(x, 10, 0), light.WithCastsShadows(true))
}

func TestNewScenePanicsWithoutCamera(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("NewScene(nil camera) did not panic")
		}
	}()
	NewScene("broken", nil)
}

func TestNewSceneDefaults(t *testing.T) {
	s := newTestScene()

	if _, ok := s.ShadowStrategy(light.LightTypeDirectional).(shadow.DirectionalPointStrategy); !ok {
		t.Errorf("directional strategy = %T, want DirectionalPointStrategy", s.ShadowStrategy(light.LightTypeDirectional))
	}
	if _, ok := s.ShadowStrategy(light.LightTypePoint).(shadow.DirectionalPointStrategy); !ok {
		t.Errorf("point strategy = %T, want DirectionalPointStrategy", s.ShadowStrategy(light.LightTypePoint))
	}
	if _, ok := s.ShadowStrategy(light.LightTypeSpot).(shadow.SpotlightStrategy); !ok {
		t.Errorf("spot strategy = %T, want SpotlightStrategy", s.ShadowStrategy(light.LightTypeSpot))
	}
	if w := s.Viewport().ActualWidth(); w != uint32(light.ShadowMapResolution) {
		t.Errorf("viewport width = %d, want %d", w, light.ShadowMapResolution)
	}
	if s.ShadowSettings() != shadow.DefaultSettings() {
		t.Errorf("ShadowSettings() = %+v, want defaults", s.ShadowSettings())
	}
}

func TestSceneLights(t *testing.T) {
	a := shadowedLight(light.LightTypePoint, 1)
	b := shadowedLight(light.LightTypePoint, 2)
	s := newTestScene(WithLights(a, nil))
	s.AddLight(b)
	s.AddLight(nil)

	if got := s.Lights(); len(got) != 2 || got[0] != a || got[1] != b {
		t.Fatalf("Lights() = %v, want [a b]", got)
	}

	lights := s.Lights()
	lights[0] = nil
	if s.Lights()[0] != a {
		t.Errorf("Lights() returned the scene's backing slice")
	}

	if !s.RemoveLight(a) {
		t.Errorf("RemoveLight(a) = false, want true")
	}
	if s.RemoveLight(a) {
		t.Errorf("RemoveLight(a) twice = true, want false")
	}
	if got := s.Lights(); len(got) != 1 || got[0] != b {
		t.Errorf("Lights() after removal = %v, want [b]", got)
	}
}

func TestShadowCameraPosesFiltersLights(t *testing.T) {
	shadowed := shadowedLight(light.LightTypePoint, 1)
	noShadows := light.NewLight(light.LightTypePoint, light.WithPosition(2, 10, 0))
	disabled := light.NewLight(light.LightTypePoint,
		light.WithPosition(3, 10, 0),
		light.WithCastsShadows(true),
		light.WithEnabled(false),
	)
	spot := shadowedLight(light.LightTypeSpot, 4)

	s := newTestScene(
		WithLights(shadowed, noShadows, disabled, spot),
		WithShadowStrategy(light.LightTypeSpot, nil),
	)

	poses := s.ShadowCameraPoses(0)
	if len(poses) != 1 {
		t.Fatalf("len(ShadowCameraPoses()) = %d, want 1", len(poses))
	}
	if poses[0].Light != shadowed {
		t.Errorf("pose light = %v, want the shadowed point light", poses[0].Light)
	}

	s.SetShadowStrategy(light.LightTypeSpot, shadow.NewSpotlightStrategy())
	if got := len(s.ShadowCameraPoses(0)); got != 2 {
		t.Errorf("len(ShadowCameraPoses()) after registering spot strategy = %d, want 2", got)
	}
}

func TestShadowCameraPosesUsesStrategies(t *testing.T) {
	rec := &recordingStrategy{}
	point := shadowedLight(light.LightTypePoint, 7)
	s := newTestScene(
		WithLights(point),
		WithShadowStrategy(light.LightTypePoint, rec),
	)

	poses := s.ShadowCameraPoses(3)
	if rec.calls.Load() != 1 {
		t.Fatalf("strategy called %d times, want 1", rec.calls.Load())
	}
	if rec.iteration.Load() != 3 {
		t.Errorf("strategy iteration = %d, want 3", rec.iteration.Load())
	}
	if poses[0].Pose.Position != point.Position() {
		t.Errorf("pose position = %v, want %v", poses[0].Pose.Position, point.Position())
	}
}

func TestShadowCameraPosesParallelKeepsOrder(t *testing.T) {
	rec := &recordingStrategy{}
	const n = 64
	lights := make([]light.Light, n)
	for i := range lights {
		lights[i] = shadowedLight(light.LightTypePoint, float32(i))
	}

	s := newTestScene(
		WithLights(lights...),
		WithShadowStrategy(light.LightTypePoint, rec),
		WithComputeWorkers(4),
		WithParallelThreshold(0),
	)

	poses := s.ShadowCameraPoses(0)
	if len(poses) != n {
		t.Fatalf("len(ShadowCameraPoses()) = %d, want %d", len(poses), n)
	}
	if rec.calls.Load() != n {
		t.Errorf("strategy called %d times, want %d", rec.calls.Load(), n)
	}
	for i, p := range poses {
		if p.Light != lights[i] {
			t.Errorf("pose %d light out of order", i)
		}
		if p.Pose.Position[0] != float32(i) {
			t.Errorf("pose %d position x = %v, want %d", i, p.Pose.Position[0], i)
		}
	}
}

func TestShadowCameraPosesMatchStrategy(t *testing.T) {
	dir := light.NewLight(light.LightTypeDirectional,
		light.WithDirection(0.3, -1, 0.2),
		light.WithShadowFarDistance(60),
		light.WithCastsShadows(true),
	)
	s := newTestScene(WithLights(dir), WithViewport(shadow.FixedViewport{Width: 1024, Height: 1024}))

	poses := s.ShadowCameraPoses(0)
	if len(poses) != 1 {
		t.Fatalf("len(ShadowCameraPoses()) = %d, want 1", len(poses))
	}

	want := shadow.NewDirectionalPointStrategy().ShadowCamera(
		s.ShadowSettings(), s.Camera(), s.Viewport(), dir, 0)
	if poses[0].Pose != want {
		t.Errorf("scene pose = %+v, want %+v", poses[0].Pose, want)
	}
	if poses[0].Pose.OrthoWidth != 120 {
		t.Errorf("OrthoWidth = %v, want 120", poses[0].Pose.OrthoWidth)
	}
}

func TestShadowData(t *testing.T) {
	settings := shadow.DefaultSettings()
	settings.Bias = 0.005
	settings.NormalBiasScale = 2

	dir := light.NewLight(light.LightTypeDirectional,
		light.WithShadowFarDistance(64),
		light.WithCastsShadows(true),
	)
	spot := shadowedLight(light.LightTypeSpot, 0)
	s := newTestScene(
		WithLights(dir, spot),
		WithShadowSettings(settings),
		WithViewport(shadow.FixedViewport{Width: 512, Height: 512}),
	)

	data := s.ShadowData(0)
	if len(data) != 2 {
		t.Fatalf("len(ShadowData()) = %d, want 2", len(data))
	}
	for i, d := range data {
		if d.Bias != 0.005 {
			t.Errorf("entry %d bias = %v, want 0.005", i, d.Bias)
		}
		if d.TexelSize != [2]float32{1.0 / 512, 1.0 / 512} {
			t.Errorf("entry %d texel size = %v, want 1/512", i, d.TexelSize)
		}
	}

	// 128 world units over 512 texels, scaled by 2
	if data[0].NormalBias != 0.5 {
		t.Errorf("directional normal bias = %v, want 0.5", data[0].NormalBias)
	}

	poses := s.ShadowCameraPoses(0)
	if data[0].LightVP != [16]float32(poses[0].Pose.ViewProjection(1)) {
		t.Errorf("directional LightVP does not match the pose's view-projection")
	}
}

func TestShadowCameraPosesTicksProfiler(t *testing.T) {
	prof := profiler.NewProfilerWithInterval(time.Nanosecond)
	s := newTestScene(
		WithLights(shadowedLight(light.LightTypePoint, 1)),
		WithProfiler(prof),
	)

	s.ShadowCameraPoses(0)
	time.Sleep(time.Millisecond)

	if !prof.Tick() {
		t.Errorf("Tick() = false after the interval elapsed, want true")
	}
}

func TestSceneSetters(t *testing.T) {
	s := newTestScene()

	s.SetName("renamed")
	if s.Name() != "renamed" {
		t.Errorf("Name() = %q, want %q", s.Name(), "renamed")
	}

	vp := shadow.FixedViewport{Width: 256, Height: 128}
	s.SetViewport(vp)
	if s.Viewport() != vp {
		t.Errorf("Viewport() = %v, want %v", s.Viewport(), vp)
	}

	settings := shadow.DefaultSettings()
	settings.TextureOffset = 0.25
	s.SetShadowSettings(settings)
	if s.ShadowSettings().TextureOffset != 0.25 {
		t.Errorf("ShadowSettings().TextureOffset = %v, want 0.25", s.ShadowSettings().TextureOffset)
	}

	cam := camera.NewCamera()
	s.SetCamera(cam)
	if s.Camera() != cam {
		t.Errorf("Camera() did not return the new camera")
	}

	defer func() {
		if recover() == nil {
			t.Errorf("SetCamera(nil) did not panic")
		}
	}()
	s.SetCamera(nil)
}

func TestViewportAspect(t *testing.T) {
	tests := []struct {
		name     string
		vp       shadow.Viewport
		expected float32
	}{
		{"square", shadow.FixedViewport{Width: 512, Height: 512}, 1},
		{"wide", shadow.FixedViewport{Width: 1024, Height: 512}, 2},
		{"zero height", shadow.FixedViewport{Width: 1024}, 1},
		{"width only", widthOnly(300), 1},
		{"shadow target", renderer.WrapShadowTarget(nil, nil, 2048, 1024), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := viewportAspect(tt.vp); got != tt.expected {
				t.Errorf("viewportAspect() = %v, want %v", got, tt.expected)
			}
		})
	}
}

type widthOnly uint32

func (w widthOnly) ActualWidth() uint32 { return uint32(w) }

func TestShadowDataSizedByShadowTarget(t *testing.T) {
	target := renderer.WrapShadowTarget(nil, nil, 1024, 1024)
	settings := shadow.DefaultSettings()
	sun := light.NewLight(light.LightTypeDirectional,
		light.WithDirection(0.3, -1, 0.2),
		light.WithShadowFarDistance(64),
		light.WithCastsShadows(true),
	)

	s := newTestScene(WithViewport(target), WithShadowSettings(settings), WithLights(sun))
	data := s.ShadowData(0)
	if len(data) != 1 {
		t.Fatalf("len(ShadowData) = %d, want 1", len(data))
	}

	if want := float32(1) / 1024; data[0].TexelSize != [2]float32{want, want} {
		t.Errorf("TexelSize = %v, want %v", data[0].TexelSize, want)
	}
	// 2*64 world units across 1024 texels
	if want := float32(128) / 1024 * settings.NormalBiasScale; data[0].NormalBias != want {
		t.Errorf("NormalBias = %v, want %v", data[0].NormalBias, want)
	}
}
