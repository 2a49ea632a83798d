package engine

import (
	"errors"
	m "math"
	"time"

	"github.com/spaghettifunk/solaris/engine/containers"
	"github.com/spaghettifunk/solaris/engine/core"
	"github.com/spaghettifunk/solaris/engine/math"
	"github.com/spaghettifunk/solaris/engine/renderer"
	"github.com/spaghettifunk/solaris/engine/renderer/components"
	"github.com/spaghettifunk/solaris/engine/scene"
)

type Stage uint8

const (
	// Engine has been created and nothing has been scheduled yet.
	EngineStageIdle Stage = iota
	// Frames are scheduled and the simulation clock advances.
	EngineStageRunning
	// Frames are scheduled but the simulation clock holds.
	EngineStagePaused
	// Stop was called; no further frames are requested.
	EngineStageStopped
)

func (s Stage) String() string {
	switch s {
	case EngineStageIdle:
		return "idle"
	case EngineStageRunning:
		return "running"
	case EngineStagePaused:
		return "paused"
	case EngineStageStopped:
		return "stopped"
	}
	return "unknown"
}

// Engine owns simulation time and walks the scene once per frame. Every
// method except Post must be called from the frame goroutine.
type Engine struct {
	gameInstance *Game

	stage   Stage
	clock   *core.SimulationClock
	camera  *components.Camera
	scene   *scene.Scene
	backend renderer.Backend
	frames  FrameRequester
	wall    core.TimeSource
	metrics *core.FrameMetrics

	tasks     *containers.RingQueue[func()]
	observers []Observer

	followTarget string
	followOffset float32
	followUp     math.Vec3

	viewport renderer.Viewport
	pointer  core.Pointer

	startedAt time.Time
	lastFrame time.Time
	tickFn    FrameFunc
}

func New(g *Game, backend renderer.Backend, frames FrameRequester) (*Engine, error) {
	if g == nil || g.ApplicationConfig == nil {
		err := core.NewConfigurationError("engine", "application config is required")
		core.LogError("%s", err)
		return nil, err
	}
	if backend == nil {
		err := core.NewConfigurationError("engine", "graphics backend is required")
		core.LogError("%s", err)
		return nil, err
	}
	if frames == nil {
		err := core.NewConfigurationError("engine", "frame requester is required")
		core.LogError("%s", err)
		return nil, err
	}

	cfg := g.ApplicationConfig
	for subject, v := range map[string]float64{"time scale": cfg.TimeScale, "start time": cfg.StartTime} {
		if m.IsNaN(v) || m.IsInf(v, 0) {
			err := core.NewConfigurationError(subject, "%v is not finite", v)
			core.LogError("%s", err)
			return nil, err
		}
	}
	wall := cfg.TimeSource
	if wall == nil {
		wall = core.SystemTimeSource{}
	}
	offset := cfg.FollowOffset
	if offset == 0 {
		offset = DefaultFollowOffset
	}

	metrics, err := core.NewFrameMetrics()
	if err != nil {
		core.LogError("%s", err)
		return nil, err
	}

	e := &Engine{
		gameInstance: g,
		stage:        EngineStageIdle,
		clock:        core.NewSimulationClock(cfg.StartTime, cfg.TimeScale),
		camera:       components.NewCamera(),
		scene:        scene.NewScene(),
		backend:      backend,
		frames:       frames,
		wall:         wall,
		metrics:      metrics,
		tasks:        containers.NewRingQueue[func()](16),
		followOffset: offset,
		followUp:     cfg.followUp(),
	}
	e.clock.SetPaused(cfg.Paused)
	e.tickFn = e.Tick
	if cfg.StartWidth > 0 && cfg.StartHeight > 0 {
		e.viewport = renderer.Viewport{Width: cfg.StartWidth, Height: cfg.StartHeight}
		e.camera.UpdateProjection(cfg.StartWidth, cfg.StartHeight)
	}
	return e, nil
}

// Initialize runs the game's scene builder.
func (e *Engine) Initialize() error {
	if e.gameInstance.FnInitialize != nil {
		if err := e.gameInstance.FnInitialize(e); err != nil {
			core.LogError("%s", err)
			return err
		}
	}
	if e.gameInstance.FnOnResize != nil && e.viewport.Width > 0 {
		if err := e.gameInstance.FnOnResize(e.viewport.Width, e.viewport.Height); err != nil {
			return err
		}
	}
	core.LogInfo("engine initialized with %d entities", e.scene.Len())
	return nil
}

// Start records the first frame timestamp and arms the first frame. Calling
// it more than once has no effect.
func (e *Engine) Start() {
	if e.stage != EngineStageIdle {
		return
	}
	now := e.wall.Now()
	e.startedAt = now
	e.lastFrame = now
	if e.clock.Paused() {
		e.stage = EngineStagePaused
	} else {
		e.stage = EngineStageRunning
	}
	core.LogInfo("engine started at simulation hour %.2f", e.clock.Hours())
	e.frames.RequestFrame(e.tickFn)
}

// Tick runs one frame. The next frame is requested whatever happens during
// this one, unless the engine was stopped.
func (e *Engine) Tick(now time.Time) error {
	if e.stage == EngineStageIdle || e.stage == EngineStageStopped {
		return nil
	}
	defer e.rearm()

	elapsed := now.Sub(e.lastFrame).Seconds()
	e.lastFrame = now

	for _, task := range e.tasks.Drain() {
		task()
	}
	if e.stage == EngineStageStopped {
		return nil
	}

	e.clock.Advance(elapsed)
	paused := e.clock.Paused()
	simTime := e.clock.Hours()

	entities := e.scene.Entities()
	if !paused {
		for _, ent := range entities {
			ent.ResolvePosition(simTime)
		}
	}
	e.follow()

	if e.gameInstance.FnUpdate != nil {
		if err := e.gameInstance.FnUpdate(e, elapsed); err != nil {
			core.LogError("game update failed: %s", err.Error())
		}
	}

	ctx := &scene.RenderContext{
		Backend:        e.backend,
		Camera:         e.camera,
		SimulationTime: simTime,
		ElapsedSeconds: now.Sub(e.startedAt).Seconds(),
		Viewport:       e.viewport,
		Pointer:        e.pointer,
	}

	var errs []error
	failed := 0
	if err := e.backend.BeginFrame(e.viewport); err != nil {
		core.LogError("%s", err)
		errs = append(errs, err)
	} else {
		for _, ent := range entities {
			if err := scene.Render(ctx, ent); err != nil {
				core.LogError("%s", err)
				errs = append(errs, err)
				failed++
			}
		}
		if err := e.backend.EndFrame(); err != nil {
			core.LogError("%s", err)
			errs = append(errs, err)
		}
	}

	for _, o := range e.observers {
		o.OnFrame(simTime, paused)
	}
	e.metrics.Update(elapsed, simTime, len(entities), failed, paused)

	return errors.Join(errs...)
}

func (e *Engine) rearm() {
	if e.stage == EngineStageStopped {
		return
	}
	e.frames.RequestFrame(e.tickFn)
}

func (e *Engine) follow() {
	if e.followTarget == "" {
		return
	}
	ent, err := e.scene.Get(e.followTarget)
	if err != nil {
		// removed while locked
		e.followTarget = ""
		return
	}
	target := ent.Transform.Position
	eye := target.Add(math.Vec3{0, e.followOffset, 0})
	e.camera.LookAt(eye, target, e.followUp)
}

// Post queues fn to run on the frame goroutine at the start of the next tick.
// It is safe to call from any goroutine.
func (e *Engine) Post(fn func()) {
	if fn == nil {
		return
	}
	e.tasks.Enqueue(fn)
}

func (e *Engine) Pause() {
	e.SetPaused(true)
}

func (e *Engine) Resume() {
	e.SetPaused(false)
}

func (e *Engine) SetPaused(paused bool) {
	e.clock.SetPaused(paused)
	switch e.stage {
	case EngineStageRunning, EngineStagePaused:
		if paused {
			e.stage = EngineStagePaused
		} else {
			e.stage = EngineStageRunning
		}
	}
}

// Stop ends frame scheduling. A frame already requested runs as a no-op.
func (e *Engine) Stop() {
	if e.stage == EngineStageStopped {
		return
	}
	e.stage = EngineStageStopped
	core.LogInfo("engine stopped at simulation hour %.2f", e.clock.Hours())
}

// Shutdown stops the engine and releases every entity's buffers.
func (e *Engine) Shutdown() error {
	e.Stop()
	for _, ent := range e.scene.Entities() {
		ent.Release(e.backend)
	}
	if e.gameInstance.FnShutdown != nil {
		return e.gameInstance.FnShutdown()
	}
	return nil
}

// AddEntity uploads the entity's buffers and appends it to the scene.
func (e *Engine) AddEntity(ent *scene.Entity) error {
	if ent == nil {
		return core.NewConfigurationError("entity", "entity is nil")
	}
	if _, err := e.scene.Get(ent.Name); err == nil {
		return core.NewConfigurationError(ent.Name, "an entity with this name already exists")
	}
	if err := ent.Upload(e.backend); err != nil {
		core.LogError("%s", err)
		return err
	}
	if err := e.scene.Add(ent); err != nil {
		ent.Release(e.backend)
		return err
	}
	ent.ResolvePosition(e.clock.Hours())
	ent.UpdateTransform()
	return nil
}

// RemoveEntity drops the entity from the scene and frees its buffers.
func (e *Engine) RemoveEntity(name string) error {
	ent, err := e.scene.Remove(name)
	if err != nil {
		return err
	}
	ent.Release(e.backend)
	if e.followTarget == name {
		e.followTarget = ""
	}
	return nil
}

func (e *Engine) Entity(name string) (*scene.Entity, error) {
	return e.scene.Get(name)
}

// SetTimeScale sets the simulated hours per real second. Negative scales run
// the clock backwards; non-finite scales are refused.
func (e *Engine) SetTimeScale(scale float64) error {
	if m.IsNaN(scale) || m.IsInf(scale, 0) {
		return core.NewConfigurationError("time scale", "%v is not finite", scale)
	}
	e.clock.SetTimeScale(scale)
	return nil
}

func (e *Engine) TimeScale() float64 {
	return e.clock.TimeScale()
}

// LockCameraTo makes the camera follow the named entity from above. An
// unknown name clears any previous lock.
func (e *Engine) LockCameraTo(name string) error {
	if _, err := e.scene.Get(name); err != nil {
		core.LogWarn("cannot lock camera: %s", err.Error())
		e.followTarget = ""
		return err
	}
	e.followTarget = name
	e.follow()
	return nil
}

func (e *Engine) UnlockCamera() {
	e.followTarget = ""
}

// FollowTarget returns the locked entity name, or "" when free.
func (e *Engine) FollowTarget() string {
	return e.followTarget
}

// SetSimulationTime jumps the clock and moves every tracked entity at once.
func (e *Engine) SetSimulationTime(hours float64) error {
	if m.IsNaN(hours) || m.IsInf(hours, 0) {
		return core.NewConfigurationError("simulation time", "%v is not finite", hours)
	}
	e.clock.Set(hours)
	for _, ent := range e.scene.Entities() {
		ent.ResolvePosition(hours)
	}
	return nil
}

func (e *Engine) SimulationTime() float64 {
	return e.clock.Hours()
}

func (e *Engine) Paused() bool {
	return e.clock.Paused()
}

func (e *Engine) Stage() Stage {
	return e.stage
}

func (e *Engine) AddObserver(o Observer) {
	if o == nil {
		return
	}
	e.observers = append(e.observers, o)
}

// Resize updates the viewport and the camera projection.
func (e *Engine) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		core.LogDebug("ignoring resize to %dx%d", width, height)
		return
	}
	e.viewport = renderer.Viewport{Width: width, Height: height}
	e.camera.UpdateProjection(width, height)
	if e.gameInstance.FnOnResize != nil {
		if err := e.gameInstance.FnOnResize(width, height); err != nil {
			core.LogError("resize hook failed: %s", err)
		}
	}
}

func (e *Engine) Viewport() renderer.Viewport {
	return e.viewport
}

func (e *Engine) SetPointer(p core.Pointer) {
	e.pointer = p
}

func (e *Engine) Pointer() core.Pointer {
	return e.pointer
}

func (e *Engine) Camera() *components.Camera {
	return e.camera
}

func (e *Engine) Scene() *scene.Scene {
	return e.scene
}

func (e *Engine) Backend() renderer.Backend {
	return e.backend
}

func (e *Engine) Metrics() *core.FrameMetrics {
	return e.metrics
}
