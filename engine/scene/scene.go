package scene

import (
	"log"
	"math"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-shadow/engine/camera"
	"github.com/Carmen-Shannon/oxy-shadow/engine/light"
	"github.com/Carmen-Shannon/oxy-shadow/engine/profiler"
	"github.com/Carmen-Shannon/oxy-shadow/engine/shadow"
	"github.com/go-gl/mathgl/mgl32"
)

// ShadowCamera pairs a shadow-casting light with the pose of its shadow camera
// for one shadow iteration.
type ShadowCamera struct {
	Light light.Light
	Pose  shadow.CameraPose
}

// Scene owns the view camera, the lights and the shadow configuration, and
// drives the shadow camera strategies for every shadow-casting light.
// Thread-safe for concurrent access.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// SetName sets the scene's identifier.
	SetName(name string)

	// Camera returns the scene's view camera.
	Camera() camera.Camera

	// SetCamera replaces the scene's view camera.
	//
	// Parameters:
	//   - cam: the new camera (must not be nil)
	SetCamera(cam camera.Camera)

	// AddLight appends a light to the scene. Lights keep their registration
	// order, which is also the order of ShadowCameraPoses.
	//
	// Parameters:
	//   - l: the light to add
	AddLight(l light.Light)

	// RemoveLight removes a previously added light.
	//
	// Parameters:
	//   - l: the light to remove
	//
	// Returns:
	//   - bool: true if the light was found and removed
	RemoveLight(l light.Light) bool

	// Lights returns a copy of the scene's light list.
	//
	// Returns:
	//   - []light.Light: the lights in registration order
	Lights() []light.Light

	// ShadowSettings returns the scene-wide shadow configuration.
	ShadowSettings() shadow.Settings

	// SetShadowSettings replaces the scene-wide shadow configuration.
	//
	// Parameters:
	//   - settings: the new configuration
	SetShadowSettings(settings shadow.Settings)

	// Viewport returns the shadow render target viewport.
	Viewport() shadow.Viewport

	// SetViewport replaces the shadow render target viewport.
	//
	// Parameters:
	//   - vp: the new viewport (must not be nil)
	SetViewport(vp shadow.Viewport)

	// ShadowStrategy returns the strategy used for lights of the given type, or
	// nil if lights of that type are not shadowed.
	//
	// Parameters:
	//   - t: the light type
	//
	// Returns:
	//   - shadow.Strategy: the registered strategy or nil
	ShadowStrategy(t light.LightType) shadow.Strategy

	// SetShadowStrategy registers the strategy used for lights of the given type.
	// A nil strategy stops lights of that type from being shadowed.
	//
	// Parameters:
	//   - t: the light type
	//   - strategy: the strategy to use
	SetShadowStrategy(t light.LightType, strategy shadow.Strategy)

	// ShadowCameraPoses computes the shadow camera pose of every enabled,
	// shadow-casting light that has a registered strategy, in light registration
	// order. Poses for several lights are computed in parallel on the scene's
	// worker pool.
	//
	// Parameters:
	//   - iteration: the shadow texture index passed through to the strategies
	//
	// Returns:
	//   - []ShadowCamera: one entry per shadowed light
	ShadowCameraPoses(iteration int) []ShadowCamera

	// ShadowData converts the result of ShadowCameraPoses into GPU shadow
	// uniforms, using the scene's bias settings and the viewport's resolution.
	//
	// Parameters:
	//   - iteration: the shadow texture index passed through to the strategies
	//
	// Returns:
	//   - []light.GPUShadowData: one entry per shadowed light
	ShadowData(iteration int) []light.GPUShadowData
}

// scene is the implementation of the Scene interface.
type scene struct {
	mu *sync.RWMutex

	name   string
	cam    camera.Camera
	lights []light.Light

	settings   shadow.Settings
	vp         shadow.Viewport
	strategies map[light.LightType]shadow.Strategy

	prof *profiler.Profiler

	// poolThreshold is the shadowed light count above which poses are computed
	// on computePool instead of inline.
	poolThreshold  int
	computePool    worker.DynamicWorkerPool
	computeWorkers int
}

// Ensure scene implements Scene interface.
var _ Scene = &scene{}

// NewScene creates a new Scene around the given view camera. The default shadow
// settings, a square viewport matching their resolution, and the default
// strategies (spotlights: SpotlightStrategy, everything else:
// DirectionalPointStrategy) are used unless overridden by options.
//
// Panics if cam is nil.
//
// Parameters:
//   - name: the name of the scene
//   - cam: the view camera (must not be nil)
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, cam camera.Camera, options ...SceneBuilderOption) Scene {
	if cam == nil {
		panic("scene: NewScene requires a non-nil Camera")
	}

	s := &scene{
		mu:       &sync.RWMutex{},
		name:     name,
		cam:      cam,
		settings: shadow.DefaultSettings(),
		strategies: map[light.LightType]shadow.Strategy{
			light.LightTypeDirectional: shadow.NewDirectionalPointStrategy(),
			light.LightTypePoint:       shadow.NewDirectionalPointStrategy(),
			light.LightTypeSpot:        shadow.NewSpotlightStrategy(),
		},
		poolThreshold:  1,
		computeWorkers: max(runtime.NumCPU()-1, 1),
	}

	for _, option := range options {
		option(s)
	}

	if s.vp == nil {
		res := uint32(s.settings.Resolution)
		s.vp = shadow.FixedViewport{Width: res, Height: res}
	}

	// Initialize the compute pool after options so WithComputeWorkers can override the default.
	s.computePool = worker.NewDynamicWorkerPool(s.computeWorkers, 256, 1*time.Second)

	return s
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

func (s *scene) Camera() camera.Camera {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cam
}

func (s *scene) SetCamera(cam camera.Camera) {
	if cam == nil {
		panic("scene: SetCamera requires a non-nil Camera")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cam = cam
}

func (s *scene) AddLight(l light.Light) {
	if l == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lights = append(s.lights, l)
}

func (s *scene) RemoveLight(l light.Light) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := slices.Index(s.lights, l)
	if idx < 0 {
		return false
	}
	s.lights = slices.Delete(s.lights, idx, idx+1)
	return true
}

func (s *scene) Lights() []light.Light {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.lights)
}

func (s *scene) ShadowSettings() shadow.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

func (s *scene) SetShadowSettings(settings shadow.Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
}

func (s *scene) Viewport() shadow.Viewport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vp
}

func (s *scene) SetViewport(vp shadow.Viewport) {
	if vp == nil {
		panic("scene: SetViewport requires a non-nil Viewport")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vp = vp
}

func (s *scene) ShadowStrategy(t light.LightType) shadow.Strategy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.strategies[t]
}

func (s *scene) SetShadowStrategy(t light.LightType, strategy shadow.Strategy) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if strategy == nil {
		delete(s.strategies, t)
		return
	}
	s.strategies[t] = strategy
}

// shadowJob is one light's pending strategy call.
type shadowJob struct {
	light    light.Light
	strategy shadow.Strategy
}

func (s *scene) ShadowCameraPoses(iteration int) []ShadowCamera {
	s.mu.RLock()
	settings := s.settings
	vp := s.vp
	view := snapshotCamera(s.cam)
	jobs := make([]shadowJob, 0, len(s.lights))
	for _, l := range s.lights {
		if !l.Enabled() || !l.CastsShadows() {
			continue
		}
		strategy := s.strategies[l.Type()]
		if strategy == nil {
			log.Printf("[Scene] %s: no shadow strategy for %s light, skipping", s.name, l.Type())
			continue
		}
		jobs = append(jobs, shadowJob{light: l, strategy: strategy})
	}
	pool := s.computePool
	threshold := s.poolThreshold
	prof := s.prof
	s.mu.RUnlock()

	out := make([]ShadowCamera, len(jobs))
	compute := func(i int) {
		j := jobs[i]
		out[i] = ShadowCamera{
			Light: j.light,
			Pose:  j.strategy.ShadowCamera(settings, view, vp, j.light, iteration),
		}
	}

	if len(jobs) <= threshold {
		for i := range jobs {
			compute(i)
		}
	} else {
		// Each task writes only its own slot of out, so the WaitGroup is the
		// only synchronization needed.
		var wg sync.WaitGroup
		for i := range jobs {
			wg.Add(1)
			id := i
			pool.SubmitTask(worker.Task{
				ID: id,
				Do: func() (any, error) {
					defer wg.Done()
					compute(id)
					return nil, nil
				},
			})
		}
		wg.Wait()
	}

	if prof != nil {
		prof.RecordShadowPoses(len(out))
		prof.Tick()
	}
	return out
}

func (s *scene) ShadowData(iteration int) []light.GPUShadowData {
	cams := s.ShadowCameraPoses(iteration)

	s.mu.RLock()
	settings := s.settings
	vp := s.vp
	s.mu.RUnlock()

	width := vp.ActualWidth()
	aspect := viewportAspect(vp)

	data := make([]light.GPUShadowData, len(cams))
	for i, sc := range cams {
		d := light.GPUShadowData{Bias: settings.Bias}
		d.SetLightVP(sc.Pose.ViewProjection(aspect))
		d.ComputeTexelSize(int(width))
		d.ComputeNormalBias(poseTexelWorldSize(sc.Pose, width), settings.NormalBiasScale)
		data[i] = d
	}
	return data
}

// viewSnapshot freezes the view camera state for one shadow pass so every
// strategy call sees the same camera, even if the controller moves meanwhile.
type viewSnapshot struct {
	position  mgl32.Vec3
	direction mgl32.Vec3
	near      float32
}

func snapshotCamera(cam camera.Camera) viewSnapshot {
	pos, dir := cam.ViewState()
	return viewSnapshot{
		position:  pos,
		direction: dir,
		near:      cam.Near(),
	}
}

func (v viewSnapshot) Position() mgl32.Vec3  { return v.position }
func (v viewSnapshot) Direction() mgl32.Vec3 { return v.direction }
func (v viewSnapshot) Near() float32         { return v.near }

// viewportAspect returns width / height for viewports that expose a height,
// and 1 (square shadow maps) otherwise.
func viewportAspect(vp shadow.Viewport) float32 {
	hv, ok := vp.(interface{ ActualHeight() uint32 })
	if !ok || hv.ActualHeight() == 0 {
		return 1
	}
	return float32(vp.ActualWidth()) / float32(hv.ActualHeight())
}

// poseTexelWorldSize returns the world size of one shadow texel. Orthographic
// poses have a constant texel size; perspective poses report it at unit
// distance from the light, and the shader scales by view depth.
func poseTexelWorldSize(pose shadow.CameraPose, width uint32) float32 {
	if width == 0 {
		return 0
	}
	if pose.Projection == shadow.ProjectionOrthographic {
		return pose.OrthoWidth / float32(width)
	}
	return 2 * float32(math.Tan(float64(pose.FovY)/2)) / float32(width)
}
