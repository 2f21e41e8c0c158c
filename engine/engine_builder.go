package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxy-shadow/engine/profiler"
	"github.com/Carmen-Shannon/oxy-shadow/engine/scene"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithProfiler replaces the engine's default profiler.
//
// Parameters:
//   - p: the profiler to tick once per frame while profiling is enabled
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiler(p *profiler.Profiler) EngineBuilderOption {
	return func(e *engine) {
		e.profiler = p
	}
}

// WithTickRate sets the engine tick rate in frames per second.
// Values <= 0 will be treated as the default (60Hz).
//
// Parameters:
//   - fps: target ticks per second (default 60)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			fps = 60.0
		}
		e.engineTickRate = time.Duration(float64(time.Second) / fps)
	}
}

// WithScene registers a scene at the given z-index key during engine construction.
//
// Parameters:
//   - key: the z-index determining processing order (lower first)
//   - s: the Scene to register
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithScene(key int, s scene.Scene) EngineBuilderOption {
	return func(e *engine) {
		if s != nil {
			e.scenes[key] = s
		}
	}
}

// WithShadowCallback sets the consumer of each frame's shadow data.
//
// Parameters:
//   - callback: the shadow data consumer
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithShadowCallback(callback ShadowCallback) EngineBuilderOption {
	return func(e *engine) {
		e.shadowCallback = callback
	}
}

// WithShadowIterations sets how many shadow textures are computed per scene each
// frame. Strategies receive the iteration index. Defaults to 1.
//
// Parameters:
//   - n: shadow iterations per frame (minimum 1)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithShadowIterations(n int) EngineBuilderOption {
	return func(e *engine) {
		e.shadowIterations = max(n, 1)
	}
}

// WithFrameLimit sets an optional frame rate cap in frames per second.
// Pass 0 to uncap the frame loop (default).
//
// Parameters:
//   - fps: maximum frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			e.frameLimit = 0
			return
		}
		e.frameLimit = time.Duration(float64(time.Second) / fps)
	}
}
