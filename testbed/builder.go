package testbed

import (
	"fmt"

	"github.com/spaghettifunk/solaris/engine/assets"
	"github.com/spaghettifunk/solaris/engine/core"
	"github.com/spaghettifunk/solaris/engine/ephemeris"
	"github.com/spaghettifunk/solaris/engine/math"
	"github.com/spaghettifunk/solaris/engine/renderer"
	"github.com/spaghettifunk/solaris/engine/scene"
	"github.com/spaghettifunk/solaris/engine/strategies"
)

// Sphere tessellation used when a body does not set bands.
const (
	DefaultLatitudeBands  = 30
	DefaultLongitudeBands = 30
)

// TrackSource resolves catalog track names. *catalog.Store satisfies it.
type TrackSource interface {
	Track(name string) (*ephemeris.Track, error)
}

// ProgramCompiler is implemented by backends that can build shader
// programs. Backends without it draw effects with the default program.
type ProgramCompiler interface {
	NewProgram(vertexSource, fragmentSource string) (renderer.Program, error)
	DestroyProgram(program renderer.Program)
}

// owned is what the builder allocated for one body besides its buffers.
type owned struct {
	texture renderer.Texture
	program renderer.Program
}

// Builder turns scene descriptions into entities, loading tracks, textures
// and shaders on the way.
type Builder struct {
	assets   *assets.AssetManager
	catalog  TrackSource
	backend  renderer.Backend
	textures assets.TextureParams

	resources map[string]owned
}

// NewBuilder accepts a nil asset manager or catalog; bodies that need them
// then fail to build.
func NewBuilder(am *assets.AssetManager, catalog TrackSource, backend renderer.Backend, textures assets.TextureParams) *Builder {
	return &Builder{
		assets:    am,
		catalog:   catalog,
		backend:   backend,
		textures:  textures,
		resources: make(map[string]owned),
	}
}

// Track resolves the body's ephemeris file or catalog entry. Bodies without
// either return a nil track.
func (b *Builder) Track(body *assets.BodyConfig) (*ephemeris.Track, error) {
	switch {
	case body.Ephemeris != "":
		if b.assets == nil {
			return nil, core.NewConfigurationError(body.Name, "no asset directory to read %s from", body.Ephemeris)
		}
		return b.assets.LoadTrack(body.Ephemeris)
	case body.Catalog != "":
		if b.catalog == nil {
			return nil, core.NewConfigurationError(body.Name, "no catalog to read '%s' from", body.Catalog)
		}
		return b.catalog.Track(body.Catalog)
	}
	return nil, nil
}

// Build creates the entity for one body. It does not add it to the engine.
func (b *Builder) Build(body *assets.BodyConfig) (*scene.Entity, error) {
	if err := body.Validate(); err != nil {
		return nil, err
	}
	track, err := b.Track(body)
	if err != nil {
		return nil, fmt.Errorf("failed to load track of %s: %w", body.Name, err)
	}

	variant, err := b.variant(body, track)
	if err != nil {
		return nil, err
	}
	ent, err := scene.NewEntity(body.Name, variant)
	if err != nil {
		return nil, err
	}

	c := body.ColourRGBA()
	ent.Colour = math.Vec4{c[0], c[1], c[2], c[3]}

	switch body.Kind {
	case assets.KindSphere, assets.KindBillboard:
		ent.Track = track
		s := body.UniformScale()
		ent.Transform.SetScale(math.Vec3{s, s, s})
		if len(body.Position) == 3 {
			ent.Transform.SetPosition(math.Vec3{body.Position[0], body.Position[1], body.Position[2]})
		}
	}

	res := owned{texture: b.texture(body)}
	ent.Texture = res.texture

	switch body.Strategy {
	case assets.StrategyUnlit:
		ent.Strategy = strategies.NewUnlit(ent.Colour)
	case assets.StrategyScreenBillboard:
		res.program = b.program(body)
		program := res.program
		if program == 0 {
			program = renderer.DefaultProgram
		}
		ent.Strategy = strategies.NewScreenBillboard(program, body.UniformScale())
	}

	b.Release(body.Name)
	b.resources[body.Name] = res
	ent.UpdateTransform()
	return ent, nil
}

func (b *Builder) variant(body *assets.BodyConfig, track *ephemeris.Track) (scene.Variant, error) {
	switch body.Kind {
	case assets.KindSphere:
		lat, lon := DefaultLatitudeBands, DefaultLongitudeBands
		if len(body.Bands) == 2 {
			lat, lon = body.Bands[0], body.Bands[1]
		}
		return scene.NewSphere(body.Radius, lat, lon)
	case assets.KindBillboard:
		return scene.NewBillboard(), nil
	case assets.KindRoute:
		return scene.NewStaticRoute(track, body.Stride)
	case assets.KindGrowingRoute:
		return scene.NewGrowingRoute(track)
	case assets.KindRibbon:
		return scene.NewRibbonTrail(track, body.Stride, body.Thickness)
	}
	return nil, core.NewConfigurationError(body.Name, "unknown kind %q", body.Kind)
}

// texture uploads the body's texture. A texture that cannot be loaded is
// logged and the body falls back to its flat colour.
func (b *Builder) texture(body *assets.BodyConfig) renderer.Texture {
	if body.Texture == "" || b.assets == nil {
		return 0
	}
	img, err := b.assets.LoadTexture(body.Texture, b.textures)
	if err != nil {
		core.LogWarn("texture for %s unavailable, using its colour: %s", body.Name, err)
		return 0
	}
	tex, err := b.backend.CreateTexture(img)
	if err != nil {
		core.LogWarn("failed to upload texture for %s: %s", body.Name, err)
		return 0
	}
	return tex
}

// program compiles the body's effect shaders, or the built-in sun shaders
// when it names none. Zero means the default program.
func (b *Builder) program(body *assets.BodyConfig) renderer.Program {
	compiler, ok := b.backend.(ProgramCompiler)
	if !ok {
		return 0
	}
	vs, fs := SunVertexShader, SunFragmentShader
	if b.assets != nil {
		if body.VertexShader != "" {
			src, err := b.assets.LoadShader(body.VertexShader)
			if err != nil {
				core.LogWarn("vertex shader for %s unavailable: %s", body.Name, err)
				return 0
			}
			vs = src
		}
		if body.FragmentShader != "" {
			src, err := b.assets.LoadShader(body.FragmentShader)
			if err != nil {
				core.LogWarn("fragment shader for %s unavailable: %s", body.Name, err)
				return 0
			}
			fs = src
		}
	}
	program, err := compiler.NewProgram(vs, fs)
	if err != nil {
		core.LogError("failed to build effect for %s: %s", body.Name, err)
		return 0
	}
	return program
}

// Release frees the texture and program built for name.
func (b *Builder) Release(name string) {
	res, ok := b.resources[name]
	if !ok {
		return
	}
	if res.texture != 0 {
		b.backend.DestroyTexture(res.texture)
	}
	if res.program != 0 {
		if compiler, ok := b.backend.(ProgramCompiler); ok {
			compiler.DestroyProgram(res.program)
		}
	}
	delete(b.resources, name)
}

func (b *Builder) ReleaseAll() {
	for name := range b.resources {
		b.Release(name)
	}
}
