package core

import "sync"

type EventCode uint16

// System internal event codes. Application should use codes beyond 255.
const (
	// Shuts the application down on the next frame.
	EVENT_CODE_APPLICATION_QUIT EventCode = 0x01
	// Keyboard key pressed. Data: *KeyEvent
	EVENT_CODE_KEY_PRESSED EventCode = 0x02
	// Keyboard key released. Data: *KeyEvent
	EVENT_CODE_KEY_RELEASED EventCode = 0x03
	// Mouse button pressed. Data: *MouseEvent
	EVENT_CODE_BUTTON_PRESSED EventCode = 0x04
	// Mouse button released. Data: *MouseEvent
	EVENT_CODE_BUTTON_RELEASED EventCode = 0x05
	// Mouse moved. Data: *MouseEvent with PosX, PosY, DeltaX, DeltaY
	EVENT_CODE_MOUSE_MOVED EventCode = 0x06
	// Mouse wheel. Data: *MouseEvent with Scroll
	EVENT_CODE_MOUSE_WHEEL EventCode = 0x07
	// Resized/resolution changed from the OS. Data: *SystemEvent
	EVENT_CODE_RESIZED EventCode = 0x08

	MAX_EVENT_CODE EventCode = 0xFF
)

type EventContext struct {
	Type EventCode
	Data interface{}
}

type KeyEvent struct {
	KeyCode KeyCode
	Rune    rune
}

type MouseEvent struct {
	Button Button
	PosX   float32
	PosY   float32
	DeltaX float32
	DeltaY float32
	Scroll float32
}

type SystemEvent struct {
	Width  int
	Height int
}

// Should return true if handled. Handled events are not passed to later
// listeners.
type FnOnEvent func(ctx EventContext) bool

// EventBus dispatches host input to registered listeners synchronously, on
// the goroutine that fires.
type EventBus struct {
	mu        sync.RWMutex
	listeners map[EventCode][]FnOnEvent
}

func NewEventBus() *EventBus {
	return &EventBus{listeners: make(map[EventCode][]FnOnEvent)}
}

func (b *EventBus) Register(code EventCode, fn FnOnEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners[code] = append(b.listeners[code], fn)
}

// Fire reports whether any listener handled the event.
func (b *EventBus) Fire(ctx EventContext) bool {
	b.mu.RLock()
	listeners := append([]FnOnEvent(nil), b.listeners[ctx.Type]...)
	b.mu.RUnlock()

	for _, fn := range listeners {
		if fn(ctx) {
			return true
		}
	}
	return false
}
