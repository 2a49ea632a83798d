package testbed

import (
	"errors"
	"fmt"

	"github.com/spaghettifunk/solaris/engine"
	"github.com/spaghettifunk/solaris/engine/assets"
	"github.com/spaghettifunk/solaris/engine/config"
	"github.com/spaghettifunk/solaris/engine/core"
	"github.com/spaghettifunk/solaris/engine/math"
)

// Far clip plane; the default camera's is too close for whole orbits.
const FarPlane float32 = 5000

type Options struct {
	Settings *config.Settings
	// Assets may be nil, then only the demo scene is available.
	Assets  *assets.AssetManager
	Catalog TrackSource
	Bus     *core.EventBus
	// Quit is called on Esc, q or a window close.
	Quit func()
}

// Solaris builds the scene described by a scene file, wires the controls and
// keeps entities in sync with their asset files.
type Solaris struct {
	*engine.Game
}

type gameState struct {
	opts     Options
	engine   *engine.Engine
	builder  *Builder
	controls *Controls
	scene    *assets.SceneConfig
}

func NewSolaris(opts Options) (*Solaris, error) {
	if opts.Settings == nil {
		return nil, core.NewConfigurationError("testbed", "settings are required")
	}
	s := opts.Settings
	g := &Solaris{
		Game: &engine.Game{
			ApplicationConfig: &engine.ApplicationConfig{
				Name:         s.Window.Title,
				StartWidth:   s.Window.Width,
				StartHeight:  s.Window.Height,
				TimeScale:    s.Simulation.TimeScale,
				StartTime:    s.Simulation.StartTime,
				FollowOffset: s.Camera.FollowOffset,
				Paused:       s.Simulation.Paused,
			},
			State: &gameState{opts: opts},
		},
	}
	g.FnInitialize = g.Initialize
	g.FnOnResize = g.OnResize
	g.FnShutdown = g.Shutdown
	return g, nil
}

func (g *Solaris) state() *gameState {
	return g.State.(*gameState)
}

func (g *Solaris) Initialize(e *engine.Engine) error {
	core.LogDebug("building solaris scene...")
	st := g.state()
	st.engine = e

	textures := assets.DefaultTextureParams()
	if st.opts.Settings.Texture.MaxSize > 0 {
		textures.MaxSize = st.opts.Settings.Texture.MaxSize
	}
	st.builder = NewBuilder(st.opts.Assets, st.opts.Catalog, e.Backend(), textures)

	cfg, err := g.loadScene()
	if err != nil {
		return err
	}
	if err := g.build(cfg); err != nil {
		return err
	}

	cam := st.opts.Settings.Camera
	st.controls = NewControls(e, cam.MinDistance, cam.MaxDistance, st.opts.Quit)
	st.controls.SetLockable(lockable(cfg))
	if st.opts.Bus != nil {
		st.controls.Register(st.opts.Bus)
	}
	if st.opts.Assets != nil {
		st.opts.Assets.OnChange(func(info assets.AssetInfo) {
			e.Post(func() { g.reload(info) })
		})
	}
	return nil
}

// loadScene reads the configured scene file, or the demo scene when the
// asset directory has none.
func (g *Solaris) loadScene() (*assets.SceneConfig, error) {
	st := g.state()
	file := st.opts.Settings.Scene.File
	if st.opts.Assets != nil && file != "" {
		if _, ok := st.opts.Assets.Lookup(file); ok {
			return st.opts.Assets.LoadScene(file)
		}
		core.LogWarn("scene '%s' not found in %s, using the demo scene", file, st.opts.Assets.Root())
	}
	return assets.ParseScene([]byte(DemoScene))
}

// build adds every body of cfg and places the camera. Bodies that fail are
// logged and skipped; it errors only when nothing could be built.
func (g *Solaris) build(cfg *assets.SceneConfig) error {
	st := g.state()
	e := st.engine

	var errs []error
	for i := range cfg.Bodies {
		body := &cfg.Bodies[i]
		if err := g.addBody(body); err != nil {
			core.LogError("%s", err)
			errs = append(errs, err)
		}
	}
	if len(cfg.Bodies) > 0 && len(errs) == len(cfg.Bodies) {
		return fmt.Errorf("no body of scene '%s' could be built: %w", cfg.Name, errors.Join(errs...))
	}

	cam := e.Camera()
	cam.SetClipPlanes(0.1, FarPlane)
	position, target := math.Vec3{0, 120, 40}, math.Vec3{}
	if p := cfg.Camera.Position; len(p) == 3 {
		position = math.Vec3{p[0], p[1], p[2]}
	}
	if t := cfg.Camera.Target; len(t) == 3 {
		target = math.Vec3{t[0], t[1], t[2]}
	}
	cam.LookAt(position, target, math.Vec3{0, 1, 0})

	if cfg.Camera.Lock != "" {
		// a missing body was already reported while building
		_ = e.LockCameraTo(cfg.Camera.Lock)
	}
	st.scene = cfg
	core.LogInfo("scene '%s' ready with %d entities", cfg.Name, e.Scene().Len())
	return nil
}

func (g *Solaris) addBody(body *assets.BodyConfig) error {
	st := g.state()
	ent, err := st.builder.Build(body)
	if err != nil {
		return fmt.Errorf("failed to build %s: %w", body.Name, err)
	}
	if err := st.engine.AddEntity(ent); err != nil {
		st.builder.Release(body.Name)
		return err
	}
	return nil
}

// rebuild swaps a body's entity for a fresh one, keeping the camera lock.
func (g *Solaris) rebuild(body *assets.BodyConfig) {
	st := g.state()
	locked := st.engine.FollowTarget() == body.Name

	ent, err := st.builder.Build(body)
	if err != nil {
		core.LogError("reload of %s failed, keeping the old one: %s", body.Name, err)
		return
	}
	_ = st.engine.RemoveEntity(body.Name)
	if err := st.engine.AddEntity(ent); err != nil {
		core.LogError("reload of %s failed: %s", body.Name, err)
		return
	}
	if locked {
		_ = st.engine.LockCameraTo(body.Name)
	}
	core.LogInfo("reloaded %s", body.Name)
}

// reload reacts to an asset change. It runs on the frame goroutine.
func (g *Solaris) reload(info assets.AssetInfo) {
	st := g.state()
	if st.scene == nil {
		return
	}
	if info.Type == assets.ResourceTypeScene {
		if info.Path == st.opts.Settings.Scene.File {
			g.reloadScene()
		}
		return
	}
	for i := range st.scene.Bodies {
		body := &st.scene.Bodies[i]
		if uses(body, info) {
			g.rebuild(body)
		}
	}
}

func (g *Solaris) reloadScene() {
	st := g.state()
	cfg, err := st.opts.Assets.LoadScene(st.opts.Settings.Scene.File)
	if err != nil {
		core.LogError("scene reload failed, keeping the current scene: %s", err)
		return
	}
	locked := st.engine.FollowTarget()
	g.clear()
	if err := g.build(cfg); err != nil {
		core.LogError("%s", err)
	}
	st.controls.SetLockable(lockable(cfg))
	if locked != "" && cfg.Camera.Lock == "" {
		_ = st.engine.LockCameraTo(locked)
	}
}

// clear removes every entity and frees what the builder allocated.
func (g *Solaris) clear() {
	st := g.state()
	for _, name := range st.engine.Scene().Names() {
		_ = st.engine.RemoveEntity(name)
	}
	st.builder.ReleaseAll()
}

func uses(body *assets.BodyConfig, info assets.AssetInfo) bool {
	switch info.Type {
	case assets.ResourceTypeEphemeris:
		return body.Ephemeris == info.Path
	case assets.ResourceTypeTexture:
		return body.Texture == info.Path
	case assets.ResourceTypeShader:
		return body.VertexShader == info.Path || body.FragmentShader == info.Path
	}
	return false
}

// lockable lists the bodies the camera can follow: the ones that move.
func lockable(cfg *assets.SceneConfig) []string {
	var names []string
	for _, b := range cfg.Bodies {
		if (b.Kind == assets.KindSphere || b.Kind == assets.KindBillboard) && b.HasTrack() {
			names = append(names, b.Name)
		}
	}
	return names
}

func (g *Solaris) OnResize(width, height int) error {
	core.LogDebug("viewport is now %dx%d", width, height)
	return nil
}

func (g *Solaris) Shutdown() error {
	core.LogDebug("releasing solaris resources")
	if st := g.state(); st.builder != nil {
		st.builder.ReleaseAll()
	}
	return nil
}

// Scene returns the description the current entities were built from.
func (g *Solaris) Scene() *assets.SceneConfig {
	return g.state().scene
}

func (g *Solaris) Controls() *Controls {
	return g.state().controls
}
