package scene

import (
	"github.com/Carmen-Shannon/oxy-shadow/engine/light"
	"github.com/Carmen-Shannon/oxy-shadow/engine/profiler"
	"github.com/Carmen-Shannon/oxy-shadow/engine/shadow"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithLights adds initial lights to the scene, in order.
//
// Parameters:
//   - lights: the lights to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLights(lights ...light.Light) SceneBuilderOption {
	return func(s *scene) {
		for _, l := range lights {
			if l != nil {
				s.lights = append(s.lights, l)
			}
		}
	}
}

// WithShadowSettings replaces the default scene-wide shadow configuration.
//
// Parameters:
//   - settings: the shadow configuration
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithShadowSettings(settings shadow.Settings) SceneBuilderOption {
	return func(s *scene) {
		s.settings = settings
	}
}

// WithViewport sets the shadow render target viewport. Defaults to a square
// viewport matching the shadow settings' resolution.
//
// Parameters:
//   - vp: the viewport
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithViewport(vp shadow.Viewport) SceneBuilderOption {
	return func(s *scene) {
		s.vp = vp
	}
}

// WithShadowStrategy registers the strategy used for lights of the given type.
// A nil strategy disables shadows for that light type.
//
// Parameters:
//   - t: the light type
//   - strategy: the strategy to use
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithShadowStrategy(t light.LightType, strategy shadow.Strategy) SceneBuilderOption {
	return func(s *scene) {
		if strategy == nil {
			delete(s.strategies, t)
			return
		}
		s.strategies[t] = strategy
	}
}

// WithProfiler attaches a profiler that is ticked once per ShadowCameraPoses call.
//
// Parameters:
//   - p: the profiler
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithProfiler(p *profiler.Profiler) SceneBuilderOption {
	return func(s *scene) {
		s.prof = p
	}
}

// WithComputeWorkers sets the number of worker goroutines used to compute
// shadow camera poses in parallel. Defaults to runtime.NumCPU()-1.
//
// Parameters:
//   - n: the number of compute workers (minimum 1)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithComputeWorkers(n int) SceneBuilderOption {
	return func(s *scene) {
		if n < 1 {
			n = 1
		}
		s.computeWorkers = n
	}
}

// WithParallelThreshold sets the number of shadowed lights above which poses
// are computed on the worker pool. Defaults to 1, so a lone light is always
// computed inline.
//
// Parameters:
//   - n: the light count threshold (minimum 0)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithParallelThreshold(n int) SceneBuilderOption {
	return func(s *scene) {
		s.poolThreshold = max(n, 0)
	}
}
