package core

import "sync"

type Button uint16

const (
	BUTTON_LEFT Button = iota
	BUTTON_RIGHT
	BUTTON_MIDDLE
	BUTTON_MAX_BUTTONS
)

// Key code definitions
type KeyCode uint16

const (
	KEY_UNKNOWN   KeyCode = 0x00
	KEY_BACKSPACE KeyCode = 0x08
	KEY_TAB       KeyCode = 0x09
	KEY_ENTER     KeyCode = 0x0D
	KEY_ESCAPE    KeyCode = 0x1B
	KEY_SPACE     KeyCode = 0x20
	KEY_LEFT      KeyCode = 0x25
	KEY_UP        KeyCode = 0x26
	KEY_RIGHT     KeyCode = 0x27
	KEY_DOWN      KeyCode = 0x28
	KEY_0         KeyCode = 0x30
	KEY_A         KeyCode = 0x41
	KEY_C         KeyCode = 0x43
	KEY_D         KeyCode = 0x44
	KEY_F         KeyCode = 0x46
	KEY_P         KeyCode = 0x50
	KEY_Q         KeyCode = 0x51
	KEY_R         KeyCode = 0x52
	KEY_S         KeyCode = 0x53
	KEY_W         KeyCode = 0x57
	KEY_PLUS      KeyCode = 0xBB
	KEY_MINUS     KeyCode = 0xBD
	KEYS_MAX_KEYS KeyCode = 0x100
)

// Pointer is the last known cursor position in window pixels.
type Pointer struct {
	X float32
	Y float32
}

// InputState tracks keyboard and mouse state and turns host callbacks into
// bus events.
type InputState struct {
	mu      sync.Mutex
	bus     *EventBus
	keys    [KEYS_MAX_KEYS]bool
	buttons [BUTTON_MAX_BUTTONS]bool
	pointer Pointer
	moved   bool
}

func NewInputState(bus *EventBus) *InputState {
	return &InputState{bus: bus}
}

func (s *InputState) IsKeyDown(key KeyCode) bool {
	if key >= KEYS_MAX_KEYS {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keys[key]
}

func (s *InputState) IsButtonDown(button Button) bool {
	if button >= BUTTON_MAX_BUTTONS {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buttons[button]
}

func (s *InputState) Pointer() Pointer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pointer
}

// ProcessKey records a key transition. Repeats of the current state are
// dropped unless a rune is attached (terminal hosts have no key-up).
func (s *InputState) ProcessKey(key KeyCode, r rune, pressed bool) {
	if key >= KEYS_MAX_KEYS {
		key = KEY_UNKNOWN
	}
	s.mu.Lock()
	changed := s.keys[key] != pressed
	s.keys[key] = pressed
	s.mu.Unlock()

	if !changed && r == 0 {
		return
	}
	code := EVENT_CODE_KEY_RELEASED
	if pressed {
		code = EVENT_CODE_KEY_PRESSED
	}
	s.bus.Fire(EventContext{Type: code, Data: &KeyEvent{KeyCode: key, Rune: r}})
}

func (s *InputState) ProcessButton(button Button, pressed bool) {
	if button >= BUTTON_MAX_BUTTONS {
		return
	}
	s.mu.Lock()
	changed := s.buttons[button] != pressed
	s.buttons[button] = pressed
	p := s.pointer
	s.mu.Unlock()

	if !changed {
		return
	}
	code := EVENT_CODE_BUTTON_RELEASED
	if pressed {
		code = EVENT_CODE_BUTTON_PRESSED
	}
	s.bus.Fire(EventContext{Type: code, Data: &MouseEvent{Button: button, PosX: p.X, PosY: p.Y}})
}

// ProcessMouseMove fires with the delta from the previous position. The first
// move after startup has a zero delta.
func (s *InputState) ProcessMouseMove(x, y float32) {
	s.mu.Lock()
	prev := s.pointer
	first := !s.moved
	if !first && prev.X == x && prev.Y == y {
		s.mu.Unlock()
		return
	}
	s.pointer = Pointer{X: x, Y: y}
	s.moved = true
	s.mu.Unlock()

	ev := &MouseEvent{PosX: x, PosY: y}
	if !first {
		ev.DeltaX = x - prev.X
		ev.DeltaY = y - prev.Y
	}
	s.bus.Fire(EventContext{Type: EVENT_CODE_MOUSE_MOVED, Data: ev})
}

func (s *InputState) ProcessMouseWheel(delta float32) {
	p := s.Pointer()
	s.bus.Fire(EventContext{Type: EVENT_CODE_MOUSE_WHEEL, Data: &MouseEvent{PosX: p.X, PosY: p.Y, Scroll: delta}})
}

func (s *InputState) ProcessResize(width, height int) {
	s.bus.Fire(EventContext{Type: EVENT_CODE_RESIZED, Data: &SystemEvent{Width: width, Height: height}})
}
