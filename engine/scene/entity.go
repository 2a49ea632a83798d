package scene

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spaghettifunk/solaris/engine/core"
	"github.com/spaghettifunk/solaris/engine/ephemeris"
	"github.com/spaghettifunk/solaris/engine/math"
	"github.com/spaghettifunk/solaris/engine/renderer"
)

// Entity is one drawable body, trail or marker. Transform fields are the
// source of truth; the model matrix is rebuilt from them every frame.
type Entity struct {
	ID        uuid.UUID
	Name      string
	Transform math.Transform
	// Track moves the entity; nil leaves the transform untouched.
	Track *ephemeris.Track
	// Texture is sampled by the default path when non-zero, otherwise
	// Colour is used.
	Texture  renderer.Texture
	Colour   math.Vec4
	Strategy RenderStrategy
	Variant  Variant

	model math.Mat4
}

func NewEntity(name string, variant Variant) (*Entity, error) {
	if name == "" {
		return nil, core.NewConfigurationError("entity", "name is required")
	}
	if variant == nil || variant.geometry() == nil {
		return nil, core.NewConfigurationError(name, "geometry is required")
	}
	e := &Entity{
		ID:        uuid.New(),
		Name:      name,
		Transform: *math.TransformCreate(),
		Colour:    math.Vec4{1, 1, 1, 1},
		Variant:   variant,
	}
	e.UpdateTransform()
	return e, nil
}

// Model is the matrix computed by the last UpdateTransform or Prepare.
func (e *Entity) Model() math.Mat4 {
	return e.model
}

// UpdateTransform rebuilds the model matrix as T * Rz * Ry * Rx * S.
func (e *Entity) UpdateTransform() {
	e.Transform.IsDirty = true
	e.model = e.Transform.GetLocal()
}

// ResolvePosition moves the entity to its track position at simulation time
// t. Entities without a track keep their last position.
func (e *Entity) ResolvePosition(t float64) {
	if e.Track == nil || e.Track.Len() == 0 {
		return
	}
	e.Transform.SetPosition(math.ToVec3(e.Track.PositionAt(t)))
}

// Upload allocates the entity's buffers. It is a no-op once it succeeded.
func (e *Entity) Upload(b renderer.Backend) error {
	if err := e.Variant.geometry().upload(b); err != nil {
		return fmt.Errorf("uploading %s: %w", e.Name, err)
	}
	return nil
}

func (e *Entity) Uploaded() bool {
	return e.Variant.geometry().uploaded
}

// Release frees the entity's buffers; a later draw uploads again.
func (e *Entity) Release(b renderer.Backend) {
	e.Variant.geometry().release(b)
}

// Prepare runs the variant's per-frame update: the model matrix and any
// dynamic geometry. Strategies call it before Submit.
func (e *Entity) Prepare(ctx *RenderContext) error {
	if err := e.Upload(ctx.Backend); err != nil {
		return err
	}
	return e.Variant.prepare(ctx, e)
}

// Submit issues the draw call for the entity's geometry with whatever program
// and uniforms are current.
func (e *Entity) Submit(ctx *RenderContext) error {
	g := e.Variant.geometry()
	if g.count == 0 {
		return nil
	}
	if err := ctx.Backend.Draw(g.command()); err != nil {
		return fmt.Errorf("drawing %s: %w", e.Name, err)
	}
	return nil
}

// Draw is the default path: default program, camera matrices, texture or
// flat colour.
func (e *Entity) Draw(ctx *RenderContext) error {
	if err := e.Prepare(ctx); err != nil {
		return err
	}
	b := ctx.Backend
	if err := b.UseProgram(renderer.DefaultProgram); err != nil {
		return fmt.Errorf("drawing %s: %w", e.Name, err)
	}
	renderer.SetCameraUniforms(b, e.model, ctx.Camera.View(), ctx.Camera.Projection())
	renderer.BindTextureUnit(b, e.Texture)
	b.SetUniformVec4(renderer.UniformColour, e.Colour)
	return e.Submit(ctx)
}
