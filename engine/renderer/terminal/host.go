package terminal

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spaghettifunk/solaris/engine"
	"github.com/spaghettifunk/solaris/engine/core"
)

// cellAspect is how much taller than wide a terminal cell is.
const cellAspect = 2

// Host drives frames from a ticker and turns tcell events into engine input.
// It is the terminal counterpart of the glfw platform.
type Host struct {
	screen  tcell.Screen
	bus     *core.EventBus
	input   *core.InputState
	period  time.Duration
	pending engine.FrameFunc
	buttons tcell.ButtonMask
}

func NewHost(screen tcell.Screen, bus *core.EventBus, input *core.InputState, targetFPS int) (*Host, error) {
	if screen == nil || bus == nil || input == nil {
		return nil, core.NewConfigurationError("terminal host", "screen, event bus and input state are required")
	}
	if targetFPS <= 0 {
		targetFPS = 30
	}
	return &Host{
		screen: screen,
		bus:    bus,
		input:  input,
		period: time.Second / time.Duration(targetFPS),
	}, nil
}

func (h *Host) Startup() error {
	if err := h.screen.Init(); err != nil {
		return core.NewResourceError("terminal", err)
	}
	h.screen.EnableMouse()
	h.screen.HideCursor()
	return nil
}

func (h *Host) Shutdown() {
	h.screen.Fini()
}

// Viewport is the screen size with rows scaled so projections keep the
// right aspect.
func (h *Host) Viewport() (int, int) {
	w, hgt := h.screen.Size()
	return w, hgt * cellAspect
}

func (h *Host) RequestFrame(fn engine.FrameFunc) {
	h.pending = fn
}

// Run processes events and runs the requested frame on every tick until ctx
// is cancelled or a frame fails.
func (h *Host) Run(ctx context.Context) error {
	ticker := time.NewTicker(h.period)
	defer ticker.Stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	events := make(chan tcell.Event, 100)
	go h.pump(ctx, events)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			h.handleEvent(ev)
		case now := <-ticker.C:
			if fn := h.pending; fn != nil {
				h.pending = nil
				if err := fn(now); err != nil {
					return err
				}
			}
		}
	}
}

// pump forwards screen events until the screen is finalized or ctx is done.
// PollEvent returns nil once the screen is finalized.
func (h *Host) pump(ctx context.Context, events chan<- tcell.Event) {
	for ev := h.screen.PollEvent(); ev != nil; ev = h.screen.PollEvent() {
		select {
		case events <- ev:
		case <-ctx.Done():
			return
		}
	}
	close(events)
}

func (h *Host) handleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyCtrlC {
			h.bus.Fire(core.EventContext{Type: core.EVENT_CODE_APPLICATION_QUIT})
			return
		}
		code, r := TranslateKey(ev)
		if code == core.KEY_UNKNOWN {
			return
		}
		// terminals report presses only
		h.input.ProcessKey(code, r, true)
		h.input.ProcessKey(code, r, false)
	case *tcell.EventMouse:
		x, y := ev.Position()
		h.input.ProcessMouseMove(float32(x), float32(y*cellAspect))
		h.handleButtons(ev.Buttons())
	case *tcell.EventResize:
		w, hgt := ev.Size()
		h.input.ProcessResize(w, hgt*cellAspect)
	}
}

func (h *Host) handleButtons(mask tcell.ButtonMask) {
	switch {
	case mask&tcell.WheelUp != 0:
		h.input.ProcessMouseWheel(1)
	case mask&tcell.WheelDown != 0:
		h.input.ProcessMouseWheel(-1)
	}
	mask &= tcell.Button1 | tcell.Button2 | tcell.Button3
	for _, pair := range []struct {
		mask   tcell.ButtonMask
		button core.Button
	}{
		{tcell.Button1, core.BUTTON_LEFT},
		{tcell.Button2, core.BUTTON_RIGHT},
		{tcell.Button3, core.BUTTON_MIDDLE},
	} {
		was := h.buttons&pair.mask != 0
		is := mask&pair.mask != 0
		if was != is {
			h.input.ProcessButton(pair.button, is)
		}
	}
	h.buttons = mask
}

// TranslateKey maps a tcell key event to the engine's key codes.
func TranslateKey(ev *tcell.EventKey) (core.KeyCode, rune) {
	switch ev.Key() {
	case tcell.KeyEscape:
		return core.KEY_ESCAPE, 0
	case tcell.KeyTab:
		return core.KEY_TAB, 0
	case tcell.KeyEnter:
		return core.KEY_ENTER, 0
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return core.KEY_BACKSPACE, 0
	case tcell.KeyLeft:
		return core.KEY_LEFT, 0
	case tcell.KeyRight:
		return core.KEY_RIGHT, 0
	case tcell.KeyUp:
		return core.KEY_UP, 0
	case tcell.KeyDown:
		return core.KEY_DOWN, 0
	case tcell.KeyRune:
	default:
		return core.KEY_UNKNOWN, 0
	}

	r := ev.Rune()
	switch {
	case r == ' ':
		return core.KEY_SPACE, r
	case r == '+' || r == '=':
		return core.KEY_PLUS, r
	case r == '-' || r == '_':
		return core.KEY_MINUS, r
	case r >= '0' && r <= '9':
		return core.KEY_0 + core.KeyCode(r-'0'), r
	case r >= 'a' && r <= 'z':
		return core.KEY_A + core.KeyCode(r-'a'), r
	case r >= 'A' && r <= 'Z':
		return core.KEY_A + core.KeyCode(r-'A'), r
	}
	return core.KEY_UNKNOWN, r
}

// StatusLine shows the simulation clock on the bottom row.
type StatusLine struct {
	backend *Backend
	scale   func() float64
}

func NewStatusLine(b *Backend, timeScale func() float64) *StatusLine {
	return &StatusLine{backend: b, scale: timeScale}
}

func (s *StatusLine) OnFrame(simulationTime float64, paused bool) {
	text := fmt.Sprintf(" day %.2f  T%+.1fh ", simulationTime/24, simulationTime)
	if s.scale != nil {
		text += fmt.Sprintf(" x%.2f ", s.scale())
	}
	if paused {
		text += " [paused] "
	}
	s.backend.SetStatus(text)
}
