package config

import (
	"errors"
	"fmt"
	m "math"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/spaghettifunk/solaris/engine/core"
	"github.com/spaghettifunk/solaris/engine/renderer"
)

const (
	ConfigName = "solaris"
	EnvPrefix  = "SOLARIS"
)

type WindowConfig struct {
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
	Title  string `mapstructure:"title"`
}

type SimulationConfig struct {
	// Simulated hours per real second.
	TimeScale float64 `mapstructure:"timeScale"`
	// Hours since the first sample's year began.
	StartTime float64 `mapstructure:"startTime"`
	Paused    bool    `mapstructure:"paused"`
}

type CameraConfig struct {
	FollowOffset float32 `mapstructure:"followOffset"`
	MinDistance  float32 `mapstructure:"minDistance"`
	MaxDistance  float32 `mapstructure:"maxDistance"`
}

type Settings struct {
	LogLevel   string           `mapstructure:"logLevel"`
	Backend    string           `mapstructure:"backend"`
	Window     WindowConfig     `mapstructure:"window"`
	Simulation SimulationConfig `mapstructure:"simulation"`
	Camera     CameraConfig     `mapstructure:"camera"`
	Scene      struct {
		File string `mapstructure:"file"`
	} `mapstructure:"scene"`
	Catalog struct {
		// Path of the sqlite catalog; empty disables it.
		Path string `mapstructure:"path"`
	} `mapstructure:"catalog"`
	Assets struct {
		Dir string `mapstructure:"dir"`
	} `mapstructure:"assets"`
	Frame struct {
		TargetFPS int `mapstructure:"targetFPS"`
	} `mapstructure:"frame"`
	Texture struct {
		MaxSize int `mapstructure:"maxSize"`
	} `mapstructure:"texture"`
}

// FlagKeys maps command line flags onto settings keys. Only flags that were
// set on the command line take precedence.
var FlagKeys = map[string]string{
	"log-level":  "logLevel",
	"backend":    "backend",
	"scene":      "scene.file",
	"assets":     "assets.dir",
	"catalog":    "catalog.path",
	"time-scale": "simulation.timeScale",
	"start-time": "simulation.startTime",
	"paused":     "simulation.paused",
	"fps":        "frame.targetFPS",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logLevel", "info")
	v.SetDefault("backend", "window")

	v.SetDefault("window.width", 1280)
	v.SetDefault("window.height", 720)
	v.SetDefault("window.title", "Solaris")

	v.SetDefault("simulation.timeScale", 1.0)
	v.SetDefault("simulation.startTime", 0.0)
	v.SetDefault("simulation.paused", false)

	v.SetDefault("camera.followOffset", 50.0)
	v.SetDefault("camera.minDistance", 10.0)
	v.SetDefault("camera.maxDistance", 200.0)

	v.SetDefault("scene.file", "scene.toml")
	v.SetDefault("catalog.path", "")
	v.SetDefault("assets.dir", "./assets")
	v.SetDefault("frame.targetFPS", 60)
	v.SetDefault("texture.maxSize", 2048)
}

// Load reads defaults, then solaris.{toml,json,yaml} from configDir if
// present, then SOLARIS_* environment variables (SOLARIS_WINDOW_WIDTH
// overrides window.width), then the flags named in FlagKeys. flags may be
// nil.
func Load(configDir string, flags *pflag.FlagSet) (*Settings, error) {
	v := viper.New()
	setDefaults(v)
	if flags != nil {
		for name, key := range FlagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("error binding flag %s: %w", name, err)
				}
			}
		}
	}

	if configDir == "" {
		configDir = "."
	}
	v.SetConfigName(ConfigName)
	v.AddConfigPath(configDir)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		core.LogDebug("no %s config in %s, using defaults", ConfigName, configDir)
	} else {
		core.LogInfo("loaded settings from %s", v.ConfigFileUsed())
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, core.NewConfigurationError("settings", "%s", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Settings) Validate() error {
	if _, ok := renderer.ParseRendererType(s.Backend); !ok {
		return core.NewConfigurationError("backend", "unknown backend %q", s.Backend)
	}
	if s.Window.Width <= 0 || s.Window.Height <= 0 {
		return core.NewConfigurationError("window", "size %dx%d must be positive", s.Window.Width, s.Window.Height)
	}
	if m.IsNaN(s.Simulation.TimeScale) || m.IsInf(s.Simulation.TimeScale, 0) {
		return core.NewConfigurationError("simulation.timeScale", "must be finite")
	}
	if m.IsNaN(s.Simulation.StartTime) || m.IsInf(s.Simulation.StartTime, 0) {
		return core.NewConfigurationError("simulation.startTime", "must be finite")
	}
	if s.Frame.TargetFPS <= 0 {
		return core.NewConfigurationError("frame.targetFPS", "must be positive")
	}
	if s.Camera.MinDistance <= 0 || s.Camera.MaxDistance < s.Camera.MinDistance {
		return core.NewConfigurationError("camera", "zoom range [%g, %g] is invalid", s.Camera.MinDistance, s.Camera.MaxDistance)
	}
	return nil
}

// RendererType is the parsed backend. Validate has already rejected unknown
// names.
func (s *Settings) RendererType() renderer.RendererType {
	t, _ := renderer.ParseRendererType(s.Backend)
	return t
}
