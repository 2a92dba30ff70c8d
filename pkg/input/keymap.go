// pkg/input/keymap.go
package input

import (
	"strings"

	"github.com/opd-ai/go-voidengine/pkg/component"
)

// Keymap maps logical key names to movement directions.
type Keymap map[string]component.Direction

// DefaultKeymap binds the arrow keys and WASD.
func DefaultKeymap() Keymap {
	return Keymap{
		"left":  component.Left,
		"a":     component.Left,
		"right": component.Right,
		"d":     component.Right,
		"up":    component.Up,
		"w":     component.Up,
		"down":  component.Down,
		"s":     component.Down,
	}
}

// Lookup resolves a key name case-insensitively.
func (k Keymap) Lookup(key string) (component.Direction, bool) {
	d, ok := k[strings.ToLower(key)]
	return d, ok
}
