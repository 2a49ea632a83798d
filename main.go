/*
Solaris plays back recorded planet positions in a window, or in the terminal
for machines without a GPU.
*/
package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/pflag"

	"github.com/spaghettifunk/solaris/engine"
	"github.com/spaghettifunk/solaris/engine/assets"
	"github.com/spaghettifunk/solaris/engine/catalog"
	"github.com/spaghettifunk/solaris/engine/config"
	"github.com/spaghettifunk/solaris/engine/core"
	"github.com/spaghettifunk/solaris/engine/platform"
	"github.com/spaghettifunk/solaris/engine/renderer"
	"github.com/spaghettifunk/solaris/engine/renderer/opengl"
	"github.com/spaghettifunk/solaris/engine/renderer/terminal"
	"github.com/spaghettifunk/solaris/testbed"
)

func main() {
	flags := pflag.NewFlagSet("solaris", pflag.ExitOnError)
	configDir := flags.String("config", ".", "directory holding solaris.toml")
	imports := flags.StringArray("import", nil, "import an ephemeris file into the catalog as name=path and exit (repeatable)")
	list := flags.Bool("list", false, "list the catalog bodies and exit")
	flags.String("log-level", "info", "debug, info, warn or error")
	flags.String("backend", "window", "window or terminal")
	flags.String("scene", "scene.toml", "scene file inside the asset directory")
	flags.String("assets", "./assets", "asset directory")
	flags.String("catalog", "", "sqlite ephemeris catalog, in memory when empty")
	flags.Float64("time-scale", 1, "simulated hours per second")
	flags.Float64("start-time", 0, "simulation hour to start at")
	flags.Bool("paused", false, "start paused")
	flags.Int("fps", 60, "terminal frame rate")
	_ = flags.Parse(os.Args[1:])

	settings, err := config.Load(*configDir, flags)
	if err != nil {
		core.LogFatal("failed to load settings: %s", err)
	}
	core.SetLogLevel(settings.LogLevel)

	store, err := catalog.Open(settings.Catalog.Path)
	if err != nil {
		core.LogFatal("failed to open catalog: %s", err)
	}
	defer store.Close()

	switch {
	case len(*imports) > 0:
		if err := importTracks(store, *imports); err != nil {
			core.LogFatal("%s", err)
		}
		return
	case *list:
		names, err := store.Bodies()
		if err != nil {
			core.LogFatal("%s", err)
		}
		for _, n := range names {
			fmt.Println(n)
		}
		return
	}

	if err := testbed.SeedDemoCatalog(store); err != nil {
		core.LogFatal("failed to seed catalog: %s", err)
	}

	am, err := assets.NewAssetManager()
	if err != nil {
		core.LogFatal("failed to create asset manager: %s", err)
	}
	defer am.Close()
	var sceneAssets *assets.AssetManager
	if err := am.Initialize(settings.Assets.Dir); err != nil {
		core.LogWarn("asset directory unavailable, running the demo scene: %s", err)
	} else {
		sceneAssets = am
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bus := core.NewEventBus()
	input := core.NewInputState(bus)
	game, err := testbed.NewSolaris(testbed.Options{
		Settings: settings,
		Assets:   sceneAssets,
		Catalog:  store,
		Bus:      bus,
		Quit:     stop,
	})
	if err != nil {
		core.LogFatal("%s", err)
	}

	switch settings.RendererType() {
	case renderer.RendererTypeTerminal:
		err = runTerminal(ctx, settings, game, bus, input)
	default:
		err = runWindow(ctx, settings, game, bus, input)
	}
	if err != nil {
		core.LogFatal("render loop failed: %s", err)
	}
	core.LogInfo("bye")
}

func runWindow(ctx context.Context, settings *config.Settings, game *testbed.Solaris, bus *core.EventBus, input *core.InputState) error {
	plat, err := platform.New(bus, input)
	if err != nil {
		return err
	}
	if err := plat.Startup(settings.Window.Title, settings.Window.Width, settings.Window.Height); err != nil {
		return err
	}
	defer plat.Shutdown()

	backend, err := opengl.New()
	if err != nil {
		return err
	}
	defer backend.Close()

	e, err := engine.New(game.Game, backend, plat)
	if err != nil {
		return err
	}
	e.Resize(plat.FramebufferSize())
	if err := e.Initialize(); err != nil {
		return err
	}
	e.AddObserver(testbed.NewClockDisplay(settings.Window.Title, e.TimeScale, plat.SetTitle))

	e.Start()
	runErr := plat.Run(ctx)
	if err := e.Shutdown(); err != nil {
		core.LogError("shutdown failed: %s", err)
	}
	return runErr
}

func runTerminal(ctx context.Context, settings *config.Settings, game *testbed.Solaris, bus *core.EventBus, input *core.InputState) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return core.NewResourceError("terminal", err)
	}
	host, err := terminal.NewHost(screen, bus, input, settings.Frame.TargetFPS)
	if err != nil {
		return err
	}
	// the screen owns the terminal until shutdown; replay the log after it
	var logs bytes.Buffer
	core.SetLogOutput(&logs)
	defer func() {
		core.SetLogOutput(os.Stderr)
		_, _ = os.Stderr.Write(logs.Bytes())
	}()
	if err := host.Startup(); err != nil {
		return err
	}
	defer host.Shutdown()

	backend := terminal.NewBackend(screen)
	e, err := engine.New(game.Game, backend, host)
	if err != nil {
		return err
	}
	e.Resize(host.Viewport())
	if err := e.Initialize(); err != nil {
		return err
	}
	e.AddObserver(terminal.NewStatusLine(backend, e.TimeScale))

	e.Start()
	runErr := host.Run(ctx)
	if err := e.Shutdown(); err != nil {
		core.LogError("shutdown failed: %s", err)
	}
	return runErr
}

// importTracks reads name=path pairs into the catalog.
func importTracks(store *catalog.Store, entries []string) error {
	for _, entry := range entries {
		name, path, ok := strings.Cut(entry, "=")
		if !ok || name == "" || path == "" {
			return fmt.Errorf("import %q: expected name=path", entry)
		}
		track, err := assets.LoadEphemeris(path)
		if err != nil {
			return fmt.Errorf("import %s: %w", name, err)
		}
		if err := store.Import(name, track.Samples()); err != nil {
			return err
		}
	}
	return nil
}
