package scene

import (
	"github.com/spaghettifunk/solaris/engine/core"
	"github.com/spaghettifunk/solaris/engine/renderer"
	"github.com/spaghettifunk/solaris/engine/renderer/components"
)

// RenderContext carries the engine-level state a draw may need.
type RenderContext struct {
	Backend renderer.Backend
	Camera  *components.Camera
	// SimulationTime in hours.
	SimulationTime float64
	// ElapsedSeconds is wall time since the engine started.
	ElapsedSeconds float64
	Viewport       renderer.Viewport
	Pointer        core.Pointer
}

// RenderStrategy replaces the default draw path of an entity. A strategy may
// change the entity's transform before drawing.
type RenderStrategy interface {
	Draw(ctx *RenderContext, e *Entity) error
}

// StrategyFunc adapts a function to RenderStrategy.
type StrategyFunc func(ctx *RenderContext, e *Entity) error

func (f StrategyFunc) Draw(ctx *RenderContext, e *Entity) error {
	return f(ctx, e)
}

// Render draws e with its strategy, or the default path when it has none.
func Render(ctx *RenderContext, e *Entity) error {
	if e.Strategy != nil {
		return e.Strategy.Draw(ctx, e)
	}
	return e.Draw(ctx)
}
