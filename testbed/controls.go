package testbed

import (
	"github.com/spaghettifunk/solaris/engine"
	"github.com/spaghettifunk/solaris/engine/core"
	"github.com/spaghettifunk/solaris/engine/math"
)

const (
	// Radians of orbit per pixel dragged.
	OrbitSpeed float32 = 0.005
	// Distance change per wheel notch.
	ZoomStep float32 = 5
	// Pan distance per pixel, as a fraction of the camera distance.
	PanSpeed float32 = 0.002
	// Pan distance per arrow key press, as a fraction of the camera distance.
	KeyPanStep float32 = 0.05

	DefaultMinDistance float32 = 10
	DefaultMaxDistance float32 = 200
)

// Controls maps keyboard and mouse events onto the engine: drag to orbit,
// right drag to pan, wheel to zoom, keys for the clock and camera lock.
// Handlers run on the goroutine that fires the bus, which is the frame
// goroutine for both hosts.
type Controls struct {
	engine      *engine.Engine
	minDistance float32
	maxDistance float32
	// timeScale restored by KEY_0.
	timeScale float64
	quit      func()

	lockable []string
	orbiting bool
	panning  bool
}

func NewControls(e *engine.Engine, minDistance, maxDistance float32, quit func()) *Controls {
	if minDistance <= 0 {
		minDistance = DefaultMinDistance
	}
	if maxDistance < minDistance {
		maxDistance = DefaultMaxDistance
	}
	return &Controls{
		engine:      e,
		minDistance: minDistance,
		maxDistance: maxDistance,
		timeScale:   e.TimeScale(),
		quit:        quit,
	}
}

// SetLockable sets the bodies Tab cycles through, in order.
func (c *Controls) SetLockable(names []string) {
	c.lockable = append([]string(nil), names...)
}

func (c *Controls) Register(bus *core.EventBus) {
	bus.Register(core.EVENT_CODE_KEY_PRESSED, c.onKey)
	bus.Register(core.EVENT_CODE_BUTTON_PRESSED, c.onButton)
	bus.Register(core.EVENT_CODE_BUTTON_RELEASED, c.onButton)
	bus.Register(core.EVENT_CODE_MOUSE_MOVED, c.onMouseMove)
	bus.Register(core.EVENT_CODE_MOUSE_WHEEL, c.onWheel)
	bus.Register(core.EVENT_CODE_RESIZED, c.onResize)
	bus.Register(core.EVENT_CODE_APPLICATION_QUIT, func(core.EventContext) bool {
		c.Quit()
		return true
	})
}

func (c *Controls) Quit() {
	if c.quit != nil {
		c.quit()
	}
}

func (c *Controls) setTimeScale(scale float64) {
	if err := c.engine.SetTimeScale(scale); err != nil {
		core.LogWarn("%s", err)
	}
}

func (c *Controls) onKey(ctx core.EventContext) bool {
	ev, ok := ctx.Data.(*core.KeyEvent)
	if !ok {
		return false
	}
	e := c.engine
	switch ev.KeyCode {
	case core.KEY_SPACE, core.KEY_P:
		e.SetPaused(!e.Paused())
		core.LogInfo("simulation paused: %v", e.Paused())
	case core.KEY_PLUS:
		scale := e.TimeScale() * 2
		if scale == 0 {
			scale = 1
		}
		c.setTimeScale(scale)
	case core.KEY_MINUS:
		c.setTimeScale(e.TimeScale() / 2)
	case core.KEY_R:
		c.setTimeScale(-e.TimeScale())
	case core.KEY_0:
		c.setTimeScale(c.timeScale)
	case core.KEY_TAB:
		c.CycleLock()
	case core.KEY_LEFT:
		c.panStep(-1, 0)
	case core.KEY_RIGHT:
		c.panStep(1, 0)
	case core.KEY_UP:
		c.panStep(0, 1)
	case core.KEY_DOWN:
		c.panStep(0, -1)
	case core.KEY_ESCAPE, core.KEY_Q:
		c.Quit()
	default:
		return false
	}
	return true
}

// CycleLock moves the camera lock to the next lockable body, then back to a
// free camera after the last one.
func (c *Controls) CycleLock() {
	e := c.engine
	current := e.FollowTarget()
	next := 0
	for i, name := range c.lockable {
		if name == current {
			next = i + 1
			break
		}
	}
	if next >= len(c.lockable) {
		e.UnlockCamera()
		core.LogInfo("camera unlocked")
		return
	}
	if err := e.LockCameraTo(c.lockable[next]); err == nil {
		core.LogInfo("camera locked to %s", c.lockable[next])
	}
}

func (c *Controls) onButton(ctx core.EventContext) bool {
	ev, ok := ctx.Data.(*core.MouseEvent)
	if !ok {
		return false
	}
	pressed := ctx.Type == core.EVENT_CODE_BUTTON_PRESSED
	switch ev.Button {
	case core.BUTTON_LEFT:
		c.orbiting = pressed
	case core.BUTTON_RIGHT, core.BUTTON_MIDDLE:
		c.panning = pressed
	default:
		return false
	}
	return true
}

func (c *Controls) onMouseMove(ctx core.EventContext) bool {
	ev, ok := ctx.Data.(*core.MouseEvent)
	if !ok {
		return false
	}
	c.engine.SetPointer(core.Pointer{X: ev.PosX, Y: ev.PosY})
	// a locked camera is placed by the engine every frame
	if c.engine.FollowTarget() != "" {
		return false
	}
	switch {
	case c.orbiting:
		c.engine.Camera().OrbitAroundTarget(-ev.DeltaX*OrbitSpeed, -ev.DeltaY*OrbitSpeed, nil)
	case c.panning:
		d := c.engine.Camera().Distance() * PanSpeed
		c.pan(-ev.DeltaX*d, ev.DeltaY*d)
	default:
		return false
	}
	return true
}

func (c *Controls) onWheel(ctx core.EventContext) bool {
	ev, ok := ctx.Data.(*core.MouseEvent)
	if !ok || c.engine.FollowTarget() != "" {
		return false
	}
	c.engine.Camera().Zoom(-ev.Scroll*ZoomStep, c.minDistance, c.maxDistance)
	return true
}

func (c *Controls) onResize(ctx core.EventContext) bool {
	ev, ok := ctx.Data.(*core.SystemEvent)
	if !ok {
		return false
	}
	c.engine.Resize(ev.Width, ev.Height)
	return false
}

func (c *Controls) panStep(x, y float32) {
	if c.engine.FollowTarget() != "" {
		return
	}
	d := c.engine.Camera().Distance() * KeyPanStep
	c.pan(x*d, y*d)
}

// pan moves the camera and its target along the view plane.
func (c *Controls) pan(right, up float32) {
	cam := c.engine.Camera()
	forward := cam.Target().Sub(cam.Position())
	if forward.Len() < math.K_FLOAT_EPSILON {
		return
	}
	forward = forward.Normalize()
	r := forward.Cross(cam.Up())
	if r.Len() < math.K_FLOAT_EPSILON {
		return
	}
	r = r.Normalize()
	u := r.Cross(forward)
	delta := r.Mul(right).Add(u.Mul(up))
	cam.Pan(delta.X(), delta.Y(), delta.Z())
}
