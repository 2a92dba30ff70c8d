// pkg/render/engo/input.go
package engo

import (
	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
)

// KeyHandler receives key transitions.
type KeyHandler interface {
	HandleKey(key string, down bool) bool
}

// movementButtons are the logical keys forwarded to the key handler.
var movementButtons = []string{"left", "right", "up", "down"}

const quitButton = "quit"

// InputSystem forwards movement button transitions to a key handler.
type InputSystem struct {
	keys   KeyHandler
	down   func(button string) bool
	quit   func()
	states map[string]bool
}

// NewInputSystem creates an input system reading engo buttons.
func NewInputSystem(keys KeyHandler, quit func()) *InputSystem {
	return &InputSystem{
		keys: keys,
		down: func(button string) bool {
			return engo.Input.Button(button).Down()
		},
		quit:   quit,
		states: make(map[string]bool),
	}
}

// Remove satisfies the ecs.System interface
func (is *InputSystem) Remove(basic ecs.BasicEntity) {}

// Update sends a key event for every button whose state changed.
func (is *InputSystem) Update(dt float32) {
	if is.down(quitButton) {
		if is.quit != nil {
			is.quit()
		}
		return
	}
	for _, button := range movementButtons {
		down := is.down(button)
		if down == is.states[button] {
			continue
		}
		is.states[button] = down
		if is.keys != nil {
			is.keys.HandleKey(button, down)
		}
	}
}

// SetupInputBindings registers arrow keys and WASD under the logical key
// names, plus Escape to quit.
func SetupInputBindings() {
	engo.Input.RegisterButton("left", engo.KeyArrowLeft, engo.KeyA)
	engo.Input.RegisterButton("right", engo.KeyArrowRight, engo.KeyD)
	engo.Input.RegisterButton("up", engo.KeyArrowUp, engo.KeyW)
	engo.Input.RegisterButton("down", engo.KeyArrowDown, engo.KeyS)
	engo.Input.RegisterButton(quitButton, engo.KeyEscape)
}
