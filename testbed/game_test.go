package testbed

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spaghettifunk/solaris/engine"
	"github.com/spaghettifunk/solaris/engine/assets"
	"github.com/spaghettifunk/solaris/engine/catalog"
	"github.com/spaghettifunk/solaris/engine/config"
	"github.com/spaghettifunk/solaris/engine/core"
	"github.com/spaghettifunk/solaris/engine/math"
	"github.com/spaghettifunk/solaris/engine/renderer"
	"github.com/spaghettifunk/solaris/engine/renderer/recorder"
	"github.com/spaghettifunk/solaris/engine/strategies"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// compilingBackend is a recorder that can also build programs.
type compilingBackend struct {
	*recorder.Backend
	compiled  int
	destroyed []renderer.Program
	fail      error
}

func newCompilingBackend() *compilingBackend {
	return &compilingBackend{Backend: recorder.New()}
}

func (b *compilingBackend) NewProgram(vertexSource, fragmentSource string) (renderer.Program, error) {
	if b.fail != nil {
		return 0, b.fail
	}
	b.compiled++
	return renderer.Program(100 + b.compiled), nil
}

func (b *compilingBackend) DestroyProgram(p renderer.Program) {
	b.destroyed = append(b.destroyed, p)
}

type fixture struct {
	game    *Solaris
	engine  *engine.Engine
	backend renderer.Backend
	bus     *core.EventBus
	wall    *core.ManualTimeSource
	next    engine.FrameFunc
	quits   int
}

func defaultSettings(t *testing.T) *config.Settings {
	t.Helper()
	s, err := config.Load(t.TempDir(), nil)
	require.NoError(t, err)
	return s
}

func demoCatalog(t *testing.T) *catalog.Store {
	t.Helper()
	store, err := catalog.Open("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, SeedDemoCatalog(store))
	return store
}

func newFixture(t *testing.T, backend renderer.Backend, opts Options) *fixture {
	t.Helper()
	f := &fixture{backend: backend, bus: core.NewEventBus()}
	if opts.Settings == nil {
		opts.Settings = defaultSettings(t)
	}
	opts.Bus = f.bus
	opts.Quit = func() { f.quits++ }

	g, err := NewSolaris(opts)
	require.NoError(t, err)
	f.wall = core.NewManualTimeSource(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	g.ApplicationConfig.TimeSource = f.wall

	e, err := engine.New(g.Game, backend, engine.FrameRequesterFunc(func(fn engine.FrameFunc) { f.next = fn }))
	require.NoError(t, err)
	require.NoError(t, e.Initialize())
	f.game, f.engine = g, e
	return f
}

func (f *fixture) step(d time.Duration) error {
	return f.next(f.wall.Advance(d))
}

func TestSolaris_DemoScene(t *testing.T) {
	backend := newCompilingBackend()
	f := newFixture(t, backend, Options{Catalog: demoCatalog(t)})

	assert.Equal(t, []string{"sun", "earth", "earth-route", "venus", "venus-route"}, f.engine.Scene().Names())
	assert.Equal(t, "inner system", f.game.Scene().Name)

	sun, err := f.engine.Entity("sun")
	require.NoError(t, err)
	bb, ok := sun.Strategy.(*strategies.ScreenBillboard)
	require.True(t, ok)
	assert.Equal(t, renderer.Program(101), bb.Program)
	assert.Equal(t, float32(8), bb.Size)

	earth, err := f.engine.Entity("earth")
	require.NoError(t, err)
	require.NotNil(t, earth.Track)
	assert.InDelta(t, 40, earth.Transform.Position.Len(), 1e-3)

	route, err := f.engine.Entity("earth-route")
	require.NoError(t, err)
	assert.IsType(t, &strategies.Unlit{}, route.Strategy)

	cam := f.engine.Camera()
	assert.Equal(t, math.Vec3{0, 120, 40}, cam.Position())
	assert.Equal(t, FarPlane, cam.Far())
	assert.Equal(t, []string{"earth", "venus"}, f.game.Controls().lockable)

	f.engine.Start()
	require.NoError(t, f.step(time.Second))
	assert.Equal(t, 1, backend.Frames)
	assert.Len(t, backend.Draws(), 5)
}

func TestSolaris_DemoSceneWithoutCatalog(t *testing.T) {
	f := newFixture(t, recorder.New(), Options{})

	// only the sun needs no track
	assert.Equal(t, []string{"sun"}, f.engine.Scene().Names())
	sun, err := f.engine.Entity("sun")
	require.NoError(t, err)
	bb := sun.Strategy.(*strategies.ScreenBillboard)
	assert.Equal(t, renderer.DefaultProgram, bb.Program)
}

func TestSolaris_NoBodyBuilds(t *testing.T) {
	dir := t.TempDir()
	writeAsset(t, dir, "scene.toml", "[[body]]\nname = \"earth\"\nkind = \"sphere\"\nradius = 1\ncatalog = \"earth\"\n")
	am := assetManager(t, dir)

	g, err := NewSolaris(Options{Settings: defaultSettings(t), Assets: am})
	require.NoError(t, err)
	e, err := engine.New(g.Game, recorder.New(), engine.FrameRequesterFunc(func(engine.FrameFunc) {}))
	require.NoError(t, err)
	assert.Error(t, e.Initialize())
}

func TestNewSolaris_RequiresSettings(t *testing.T) {
	_, err := NewSolaris(Options{})
	assert.Error(t, err)
}

const earthCSV = `year,day,hour,x,y,z
2024,1,0,10,0,0
2024,1,12,0,0,10
2024,2,0,-10,0,0
`

const fileScene = `
name = "files"

[camera]
position = [0, 50, 0]
lock = "earth"

[[body]]
name = "earth"
kind = "sphere"
radius = 1
bands = [8, 8]
texture = "textures/earth.png"
ephemeris = "ephemeris/earth.csv"

[[body]]
name = "earth-route"
kind = "route"
ephemeris = "ephemeris/earth.csv"
stride = 1
strategy = "unlit"
`

func writeAsset(t *testing.T, dir, name, data string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
}

func writePNG(t *testing.T, dir, name string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	out, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(out, image.NewRGBA(image.Rect(0, 0, 4, 2))))
	require.NoError(t, out.Close())
}

func assetManager(t *testing.T, dir string) *assets.AssetManager {
	t.Helper()
	am, err := assets.NewAssetManager()
	require.NoError(t, err)
	require.NoError(t, am.Initialize(dir))
	t.Cleanup(func() { _ = am.Close() })
	return am
}

func fileFixture(t *testing.T) (*fixture, string) {
	t.Helper()
	dir := t.TempDir()
	writeAsset(t, dir, "scene.toml", fileScene)
	writeAsset(t, dir, "ephemeris/earth.csv", earthCSV)
	writePNG(t, dir, "textures/earth.png")
	return newFixture(t, recorder.New(), Options{Assets: assetManager(t, dir)}), dir
}

func TestSolaris_SceneFromAssets(t *testing.T) {
	f, _ := fileFixture(t)
	rec := f.backend.(*recorder.Backend)

	assert.Equal(t, []string{"earth", "earth-route"}, f.engine.Scene().Names())
	assert.Equal(t, "earth", f.engine.FollowTarget())
	assert.Len(t, rec.Ops(recorder.OpCreateTexture), 1)

	earth, err := f.engine.Entity("earth")
	require.NoError(t, err)
	assert.NotZero(t, earth.Texture)
	// locked camera sits above the body
	assert.Equal(t, math.Vec3{10, 50, 0}, f.engine.Camera().Position())
}

func TestSolaris_ReloadTrack(t *testing.T) {
	f, dir := fileFixture(t)
	before, err := f.engine.Entity("earth")
	require.NoError(t, err)

	writeAsset(t, dir, "ephemeris/earth.csv", earthCSV+"2024,3,0,0,0,-10\n")
	f.game.reload(assets.AssetInfo{Path: "ephemeris/earth.csv", Type: assets.ResourceTypeEphemeris})

	after, err := f.engine.Entity("earth")
	require.NoError(t, err)
	assert.NotEqual(t, before.ID, after.ID)
	assert.Equal(t, 4, after.Track.Len())
	assert.Equal(t, "earth", f.engine.FollowTarget())

	rec := f.backend.(*recorder.Backend)
	assert.Len(t, rec.Ops(recorder.OpDestroyTexture), 1)
}

func TestSolaris_ReloadKeepsOldOnError(t *testing.T) {
	f, dir := fileFixture(t)
	before, err := f.engine.Entity("earth")
	require.NoError(t, err)

	writeAsset(t, dir, "ephemeris/earth.csv", "year,day,hour,x,y,z\n")
	f.game.reload(assets.AssetInfo{Path: "ephemeris/earth.csv", Type: assets.ResourceTypeEphemeris})

	after, err := f.engine.Entity("earth")
	require.NoError(t, err)
	assert.Equal(t, before.ID, after.ID)
}

func TestSolaris_ReloadScene(t *testing.T) {
	f, dir := fileFixture(t)

	writeAsset(t, dir, "scene.toml", "name = \"smaller\"\n[[body]]\nname = \"marker\"\nkind = \"billboard\"\nposition = [1, 2, 3]\n")
	f.game.reload(assets.AssetInfo{Path: "scene.toml", Type: assets.ResourceTypeScene})

	assert.Equal(t, []string{"marker"}, f.engine.Scene().Names())
	assert.Equal(t, "smaller", f.game.Scene().Name)
	assert.Empty(t, f.engine.FollowTarget())
	assert.Empty(t, f.game.Controls().lockable)

	marker, err := f.engine.Entity("marker")
	require.NoError(t, err)
	assert.Equal(t, math.Vec3{1, 2, 3}, marker.Transform.Position)
}

func TestSolaris_IgnoresUnrelatedChanges(t *testing.T) {
	f, _ := fileFixture(t)
	before, err := f.engine.Entity("earth")
	require.NoError(t, err)

	f.game.reload(assets.AssetInfo{Path: "shaders/other.frag", Type: assets.ResourceTypeShader})
	f.game.reload(assets.AssetInfo{Path: "other.toml", Type: assets.ResourceTypeScene})

	after, err := f.engine.Entity("earth")
	require.NoError(t, err)
	assert.Equal(t, before.ID, after.ID)
	assert.Len(t, f.engine.Scene().Names(), 2)
}

func TestSolaris_Shutdown(t *testing.T) {
	f, _ := fileFixture(t)
	rec := f.backend.(*recorder.Backend)

	require.NoError(t, f.engine.Shutdown())
	assert.Len(t, rec.Ops(recorder.OpDestroyTexture), 1)
	assert.Equal(t, engine.EngineStageStopped, f.engine.Stage())
}
