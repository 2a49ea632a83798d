package platform

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/spaghettifunk/solaris/engine/core"
)

var keyMap = map[glfw.Key]core.KeyCode{
	glfw.KeyBackspace:  core.KEY_BACKSPACE,
	glfw.KeyTab:        core.KEY_TAB,
	glfw.KeyEnter:      core.KEY_ENTER,
	glfw.KeyEscape:     core.KEY_ESCAPE,
	glfw.KeySpace:      core.KEY_SPACE,
	glfw.KeyLeft:       core.KEY_LEFT,
	glfw.KeyUp:         core.KEY_UP,
	glfw.KeyRight:      core.KEY_RIGHT,
	glfw.KeyDown:       core.KEY_DOWN,
	glfw.Key0:          core.KEY_0,
	glfw.KeyA:          core.KEY_A,
	glfw.KeyC:          core.KEY_C,
	glfw.KeyD:          core.KEY_D,
	glfw.KeyF:          core.KEY_F,
	glfw.KeyP:          core.KEY_P,
	glfw.KeyQ:          core.KEY_Q,
	glfw.KeyR:          core.KEY_R,
	glfw.KeyS:          core.KEY_S,
	glfw.KeyW:          core.KEY_W,
	glfw.KeyEqual:      core.KEY_PLUS,
	glfw.KeyKPAdd:      core.KEY_PLUS,
	glfw.KeyMinus:      core.KEY_MINUS,
	glfw.KeyKPSubtract: core.KEY_MINUS,
}

// TranslateKey maps a glfw key to the engine's key codes. Keys the engine
// does not use map to KEY_UNKNOWN.
func TranslateKey(key glfw.Key) core.KeyCode {
	if code, ok := keyMap[key]; ok {
		return code
	}
	return core.KEY_UNKNOWN
}

func TranslateButton(button glfw.MouseButton) (core.Button, bool) {
	switch button {
	case glfw.MouseButtonLeft:
		return core.BUTTON_LEFT, true
	case glfw.MouseButtonRight:
		return core.BUTTON_RIGHT, true
	case glfw.MouseButtonMiddle:
		return core.BUTTON_MIDDLE, true
	}
	return 0, false
}

func keyRune(key glfw.Key, mods glfw.ModifierKey) rune {
	switch key {
	case glfw.KeySpace:
		return ' '
	case glfw.KeyEqual:
		if mods&glfw.ModShift != 0 {
			return '+'
		}
		return '='
	case glfw.KeyKPAdd:
		return '+'
	case glfw.KeyMinus, glfw.KeyKPSubtract:
		return '-'
	}
	if key >= glfw.KeyA && key <= glfw.KeyZ {
		return rune('a' + int(key-glfw.KeyA))
	}
	if key >= glfw.Key0 && key <= glfw.Key9 {
		return rune('0' + int(key-glfw.Key0))
	}
	return 0
}
