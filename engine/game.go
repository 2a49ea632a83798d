package engine

import "time"

// Game bundles the application's configuration with its hooks. Every hook is
// optional.
type Game struct {
	ApplicationConfig *ApplicationConfig
	State             interface{}
	FnInitialize      Initialize
	FnUpdate          Update
	FnOnResize        OnResize
	FnShutdown        Shutdown
}

// Initialize builds the scene once the engine exists.
type Initialize func(e *Engine) error

// Update runs every frame after the clock advanced and before entities draw.
type Update func(e *Engine, deltaTime float64) error

type OnResize func(width, height int) error

type Shutdown func() error

// FrameFunc is invoked by the host once per display refresh.
type FrameFunc func(now time.Time) error

// FrameRequester schedules fn for the next display refresh. Hosts call fn on
// the goroutine that owns the graphics context.
type FrameRequester interface {
	RequestFrame(fn FrameFunc)
}

// FrameRequesterFunc adapts a function to FrameRequester.
type FrameRequesterFunc func(fn FrameFunc)

func (f FrameRequesterFunc) RequestFrame(fn FrameFunc) {
	f(fn)
}
