package engine

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-shadow/engine/camera"
	"github.com/Carmen-Shannon/oxy-shadow/engine/light"
	"github.com/Carmen-Shannon/oxy-shadow/engine/scene"
)

func newTestScene(name string, lights ...light.Light) scene.Scene {
	cam := camera.NewCamera(camera.WithController(camera.NewCameraController()))
	return scene.NewScene(name, cam, scene.WithLights(lights...))
}

func castingLight(t light.LightType) light.Light {
	return light.NewLight(t, light.WithPosition(0, 20, 0), light.WithCastsShadows(true))
}

func TestFrameVisitsScenesInKeyOrder(t *testing.T) {
	var mu sync.Mutex
	var visited []int
	var iterations []int

	e := NewEngine(
		WithScene(5, newTestScene("late", castingLight(light.LightTypePoint))),
		WithScene(-1, newTestScene("early", castingLight(light.LightTypeDirectional), castingLight(light.LightTypeSpot))),
		WithShadowIterations(2),
		WithShadowCallback(func(key int, s scene.Scene, iteration int, data []light.GPUShadowData) {
			mu.Lock()
			defer mu.Unlock()
			visited = append(visited, key)
			iterations = append(iterations, iteration)
		}),
	)

	count := e.Frame()
	if count != 6 {
		t.Errorf("Frame() = %d, want 6 (3 lights × 2 iterations)", count)
	}

	wantKeys := []int{-1, -1, 5, 5}
	wantIters := []int{0, 1, 0, 1}
	if len(visited) != len(wantKeys) {
		t.Fatalf("callback called %d times, want %d", len(visited), len(wantKeys))
	}
	for i := range wantKeys {
		if visited[i] != wantKeys[i] || iterations[i] != wantIters[i] {
			t.Errorf("call %d = (key %d, iteration %d), want (key %d, iteration %d)",
				i, visited[i], iterations[i], wantKeys[i], wantIters[i])
		}
	}
}

func TestSceneRegistry(t *testing.T) {
	e := NewEngine()
	s := newTestScene("a")

	e.AddScene(1, s)
	e.AddScene(2, nil)
	if e.Scene(1) != s {
		t.Errorf("Scene(1) did not return the added scene")
	}
	if e.Scene(2) != nil {
		t.Errorf("Scene(2) = %v, want nil", e.Scene(2))
	}

	scenes := e.Scenes()
	delete(scenes, 1)
	if e.Scene(1) == nil {
		t.Errorf("Scenes() returned the engine's backing map")
	}

	e.RemoveScene(1)
	if e.Scene(1) != nil {
		t.Errorf("Scene(1) after RemoveScene = %v, want nil", e.Scene(1))
	}
	if e.Frame() != 0 {
		t.Errorf("Frame() with no scenes should compute nothing")
	}
}

func TestRunUntilQuit(t *testing.T) {
	var frames atomic.Int64
	var ticks atomic.Int64

	var e Engine
	e = NewEngine(
		WithScene(0, newTestScene("loop", castingLight(light.LightTypePoint))),
		WithTickRate(1000),
		WithFrameLimit(1000),
		WithShadowCallback(func(int, scene.Scene, int, []light.GPUShadowData) {
			if frames.Add(1) == 20 {
				e.Quit()
			}
		}),
	)
	e.SetTickCallback(func(dt float32) {
		ticks.Add(1)
	})

	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		e.Quit()
		t.Fatalf("Run() did not return after Quit")
	}

	if frames.Load() < 20 {
		t.Errorf("frames = %d, want at least 20", frames.Load())
	}

	// Quit is idempotent
	e.Quit()
}

func TestSetTickRateWhileStopped(t *testing.T) {
	e := NewEngine().(*engine)

	e.SetTickRate(120)
	if e.engineTickRate != time.Second/120 {
		t.Errorf("engineTickRate = %v, want %v", e.engineTickRate, time.Second/120)
	}

	e.SetTickRate(0)
	if e.engineTickRate != time.Second/60 {
		t.Errorf("engineTickRate = %v, want default %v", e.engineTickRate, time.Second/60)
	}

	e.SetFrameLimit(0)
	if e.frameLimit != 0 {
		t.Errorf("frameLimit = %v, want uncapped", e.frameLimit)
	}
}
