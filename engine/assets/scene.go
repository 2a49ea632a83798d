package assets

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spaghettifunk/solaris/engine/core"
)

// Body kinds accepted in a scene file.
const (
	KindSphere       = "sphere"
	KindBillboard    = "billboard"
	KindRoute        = "route"
	KindGrowingRoute = "growing-route"
	KindRibbon       = "ribbon"
)

// Strategy names accepted in a scene file. Empty selects the default path.
const (
	StrategyDefault         = ""
	StrategyScreenBillboard = "screen-billboard"
	StrategyUnlit           = "unlit"
)

type SceneConfig struct {
	Name   string       `toml:"name"`
	Camera CameraConfig `toml:"camera"`
	Bodies []BodyConfig `toml:"body"`
}

type CameraConfig struct {
	Position []float32 `toml:"position"`
	Target   []float32 `toml:"target"`
	// Lock names the body the camera follows at start.
	Lock string `toml:"lock"`
}

type BodyConfig struct {
	Name string `toml:"name"`
	Kind string `toml:"kind"`
	// Sphere radius.
	Radius float32 `toml:"radius"`
	// Latitude and longitude bands of a sphere.
	Bands []int `toml:"bands"`
	// Uniform scale, 1 when unset.
	Scale float32 `toml:"scale"`
	// Fixed position for bodies without a track.
	Position []float32 `toml:"position"`
	Texture  string    `toml:"texture"`
	// Ephemeris is a sample file under the assets directory.
	Ephemeris string `toml:"ephemeris"`
	// Catalog names a track in the ephemeris catalog instead of a file.
	Catalog   string    `toml:"catalog"`
	Stride    int       `toml:"stride"`
	Thickness float32   `toml:"thickness"`
	Colour    []float32 `toml:"colour"`
	Strategy  string    `toml:"strategy"`
	// Shader pair used by the screen-billboard strategy.
	VertexShader   string `toml:"vertex_shader"`
	FragmentShader string `toml:"fragment_shader"`
}

// ParseScene decodes and validates a scene description. Unknown keys are an
// error so typos do not silently drop bodies.
func ParseScene(data []byte) (*SceneConfig, error) {
	var cfg SceneConfig
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, core.NewConfigurationError("scene", "%s", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func LoadScene(path string) (*SceneConfig, error) {
	cfg, _, err := loadScene(path)
	return cfg, err
}

func loadScene(path string) (*SceneConfig, uint64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, core.NewResourceError(path, err)
	}
	cfg, err := ParseScene(data)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, uint64(len(data)), nil
}

func (c *SceneConfig) Validate() error {
	if err := vector(c.Camera.Position, 3, "camera position"); err != nil {
		return err
	}
	if err := vector(c.Camera.Target, 3, "camera target"); err != nil {
		return err
	}
	seen := make(map[string]bool, len(c.Bodies))
	for i := range c.Bodies {
		b := &c.Bodies[i]
		if err := b.Validate(); err != nil {
			return err
		}
		if seen[b.Name] {
			return core.NewConfigurationError(b.Name, "duplicate body name")
		}
		seen[b.Name] = true
	}
	if c.Camera.Lock != "" && !seen[c.Camera.Lock] {
		return core.NewConfigurationError("camera", "lock target %q is not a body", c.Camera.Lock)
	}
	return nil
}

// Body looks a body up by name.
func (c *SceneConfig) Body(name string) (*BodyConfig, bool) {
	for i := range c.Bodies {
		if c.Bodies[i].Name == name {
			return &c.Bodies[i], true
		}
	}
	return nil, false
}

func (b *BodyConfig) Validate() error {
	if b.Name == "" {
		return core.NewConfigurationError("body", "name is required")
	}
	switch b.Kind {
	case KindSphere:
		if b.Radius <= 0 {
			return core.NewConfigurationError(b.Name, "sphere radius must be positive")
		}
		if len(b.Bands) != 0 && len(b.Bands) != 2 {
			return core.NewConfigurationError(b.Name, "bands takes [latitude, longitude]")
		}
	case KindBillboard:
	case KindRoute, KindGrowingRoute, KindRibbon:
		if !b.HasTrack() {
			return core.NewConfigurationError(b.Name, "%s needs an ephemeris or catalog track", b.Kind)
		}
		if b.Kind == KindRibbon && b.Thickness <= 0 {
			return core.NewConfigurationError(b.Name, "ribbon thickness must be positive")
		}
	default:
		return core.NewConfigurationError(b.Name, "unknown kind %q", b.Kind)
	}
	if b.Ephemeris != "" && b.Catalog != "" {
		return core.NewConfigurationError(b.Name, "ephemeris and catalog are exclusive")
	}
	if b.Stride < 0 {
		return core.NewConfigurationError(b.Name, "stride must not be negative")
	}
	if b.Scale < 0 {
		return core.NewConfigurationError(b.Name, "scale must not be negative")
	}
	switch b.Strategy {
	case StrategyDefault, StrategyUnlit:
	case StrategyScreenBillboard:
		if b.Kind != KindBillboard {
			return core.NewConfigurationError(b.Name, "%s strategy needs a billboard", b.Strategy)
		}
	default:
		return core.NewConfigurationError(b.Name, "unknown strategy %q", b.Strategy)
	}
	if len(b.Colour) != 0 && len(b.Colour) != 3 && len(b.Colour) != 4 {
		return core.NewConfigurationError(b.Name, "colour takes 3 or 4 components")
	}
	return vector(b.Position, 3, b.Name+" position")
}

func (b *BodyConfig) HasTrack() bool {
	return b.Ephemeris != "" || b.Catalog != ""
}

// ColourRGBA returns the colour with alpha filled in, white when unset.
func (b *BodyConfig) ColourRGBA() [4]float32 {
	c := [4]float32{1, 1, 1, 1}
	copy(c[:], b.Colour)
	return c
}

func (b *BodyConfig) UniformScale() float32 {
	if b.Scale == 0 {
		return 1
	}
	return b.Scale
}

func vector(v []float32, n int, what string) error {
	if len(v) != 0 && len(v) != n {
		return core.NewConfigurationError(what, "expected %d components, got %d", n, len(v))
	}
	return nil
}
