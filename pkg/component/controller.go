// pkg/component/controller.go
package component

import (
	"sync/atomic"

	"github.com/opd-ai/go-voidengine/pkg/entity"
)

// DefaultSpeed is the distance moved per tick for each held direction.
const DefaultSpeed = 0.5

// Direction is a movement intent.
type Direction int

const (
	Left Direction = iota
	Right
	Up
	Down

	numDirections
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "unknown"
	}
}

// Valid reports whether d is one of the four directions.
func (d Direction) Valid() bool {
	return d >= Left && d < numDirections
}

// Controller moves its owner while direction intents are held.
// Intents may be set from any goroutine; Update reads them on the
// simulation goroutine and sees a change no later than the next tick.
type Controller struct {
	entity.Base
	Speed float64

	intents [numDirections]atomic.Bool
}

// NewController creates a controller moving speed units per tick.
func NewController(speed float64) *Controller {
	return &Controller{Speed: speed}
}

// Kind implements entity.Component.
func (c *Controller) Kind() entity.Kind {
	return entity.KindController
}

// SetIntent records whether a direction is held. Unknown directions are ignored.
func (c *Controller) SetIntent(d Direction, down bool) {
	if !d.Valid() {
		return
	}
	c.intents[d].Store(down)
}

// Intent reports whether a direction is held.
func (c *Controller) Intent(d Direction) bool {
	if !d.Valid() {
		return false
	}
	return c.intents[d].Load()
}

// Release clears every intent.
func (c *Controller) Release() {
	for i := range c.intents {
		c.intents[i].Store(false)
	}
}

// Update translates the owner by Speed along each held direction.
// Opposing intents cancel out.
func (c *Controller) Update() {
	owner := c.Owner()
	if owner == nil {
		return
	}
	var dx, dy float64
	if c.intents[Left].Load() {
		dx -= c.Speed
	}
	if c.intents[Right].Load() {
		dx += c.Speed
	}
	if c.intents[Up].Load() {
		dy -= c.Speed
	}
	if c.intents[Down].Load() {
		dy += c.Speed
	}
	owner.Translate(dx, dy)
}

// ControllerOf returns the first controller attached to e.
func ControllerOf(e *entity.Entity) (*Controller, bool) {
	return first[*Controller](e, entity.KindController)
}

// ControllersOf returns every controller attached to e.
func ControllersOf(e *entity.Entity) []*Controller {
	var out []*Controller
	for _, c := range e.ComponentsOf(entity.KindController) {
		if ctrl, ok := c.(*Controller); ok {
			out = append(out, ctrl)
		}
	}
	return out
}
