package strategies

import (
	"fmt"

	"github.com/spaghettifunk/solaris/engine/math"
	"github.com/spaghettifunk/solaris/engine/renderer"
	"github.com/spaghettifunk/solaris/engine/scene"
)

// Unlit draws any entity in a flat colour, ignoring its texture. Trails use
// it so every route gets its own colour.
type Unlit struct {
	Program renderer.Program
	Colour  math.Vec4
}

func NewUnlit(colour math.Vec4) *Unlit {
	return &Unlit{Program: renderer.DefaultProgram, Colour: colour}
}

func (u *Unlit) Draw(ctx *scene.RenderContext, e *scene.Entity) error {
	if err := e.Prepare(ctx); err != nil {
		return err
	}
	b := ctx.Backend
	if err := b.UseProgram(u.Program); err != nil {
		return fmt.Errorf("drawing %s: %w", e.Name, err)
	}
	renderer.SetCameraUniforms(b, e.Model(), ctx.Camera.View(), ctx.Camera.Projection())
	renderer.BindTextureUnit(b, 0)
	b.SetUniformVec4(renderer.UniformColour, u.Colour)
	return e.Submit(ctx)
}
