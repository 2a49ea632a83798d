// Package strategies holds render strategies that replace the default draw
// path for entities needing extra shader inputs.
package strategies

import (
	"fmt"

	"github.com/spaghettifunk/solaris/engine/core"
	"github.com/spaghettifunk/solaris/engine/math"
	"github.com/spaghettifunk/solaris/engine/renderer"
	"github.com/spaghettifunk/solaris/engine/scene"
)

// Uniform names understood by screen-space effect shaders.
const (
	UniformTime          = "u_time"
	UniformResolution    = "u_resolution"
	UniformIResolution   = "iResolution"
	UniformIMouse        = "iMouse"
	UniformITime         = "iTime"
	UniformIChannel0     = "iChannel0"
	UniformSimulationDay = "u_day"
)

// ScreenBillboard draws a billboard whose width follows the viewport aspect
// so the effect keeps its proportions, and feeds the effect shader the
// viewport, pointer and time.
type ScreenBillboard struct {
	Program renderer.Program
	// Size is the billboard height in world units.
	Size float32
}

func NewScreenBillboard(program renderer.Program, size float32) *ScreenBillboard {
	return &ScreenBillboard{Program: program, Size: size}
}

func (s *ScreenBillboard) Draw(ctx *scene.RenderContext, e *scene.Entity) error {
	if _, ok := e.Variant.(*scene.Billboard); !ok {
		return core.NewConfigurationError(e.Name, "screen billboard needs a billboard, got %s", e.Variant.Kind())
	}
	e.Transform.SetScale(math.Vec3{ctx.Viewport.Aspect() * s.Size, s.Size, 1})
	if err := e.Prepare(ctx); err != nil {
		return err
	}

	b := ctx.Backend
	if err := b.UseProgram(s.Program); err != nil {
		return fmt.Errorf("drawing %s: %w", e.Name, err)
	}
	renderer.SetCameraUniforms(b, e.Model(), ctx.Camera.View(), ctx.Camera.Projection())

	w, h := float32(ctx.Viewport.Width), float32(ctx.Viewport.Height)
	b.SetUniformFloat(UniformTime, float32(ctx.SimulationTime))
	b.SetUniformFloat(UniformSimulationDay, float32(ctx.SimulationTime/24))
	b.SetUniformFloat(UniformITime, float32(ctx.ElapsedSeconds))
	b.SetUniformVec2(UniformResolution, math.Vec2{w, h})
	b.SetUniformVec3(UniformIResolution, math.Vec3{w, h, 1})
	b.SetUniformVec3(UniformIMouse, math.Vec3{ctx.Pointer.X, ctx.Pointer.Y, 0})

	if e.Texture != 0 {
		b.BindTexture(0, e.Texture)
		b.SetUniformInt(UniformIChannel0, 0)
		b.SetUniformInt(renderer.UniformUseTexture, 1)
	} else {
		b.SetUniformInt(renderer.UniformUseTexture, 0)
	}
	return e.Submit(ctx)
}
