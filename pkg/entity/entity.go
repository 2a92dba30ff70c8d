// pkg/entity/entity.go
package entity

import (
	"errors"
	"reflect"

	"github.com/opd-ai/go-voidengine/pkg/physics"
)

var (
	// ErrNilComponent is returned when a nil component, or a nil pointer
	// wrapped in the Component interface, is attached.
	ErrNilComponent = errors.New("entity: nil component")
	// ErrAlreadyOwned is returned when a component already belongs to another entity.
	ErrAlreadyOwned = errors.New("entity: component already owned by another entity")
)

// ID is a unique identifier for an entity
type ID uint64

// Entity is a simulated object: a transform plus an ordered list of
// components. The entity owns its components; components only hold a
// back-reference to it.
type Entity struct {
	ID       ID
	Position physics.Vector2D
	// Velocity is carried for components that want to integrate motion.
	// The runtime itself never applies it.
	Velocity physics.Vector2D

	components []Component
}

// New creates an entity with no components at the origin.
func New(id ID) *Entity {
	return &Entity{ID: id}
}

// GetID returns the entity's unique identifier
func (e *Entity) GetID() ID {
	return e.ID
}

// GetPosition returns the entity's position
func (e *Entity) GetPosition() physics.Vector2D {
	return e.Position
}

// SetPosition moves the entity to an absolute position.
func (e *Entity) SetPosition(x, y float64) {
	e.Position = physics.Vector2D{X: x, Y: y}
}

// Translate offsets the entity's position.
func (e *Entity) Translate(dx, dy float64) {
	e.Position.X += dx
	e.Position.Y += dy
}

// AddComponent sets the component's owner to e and appends it after any
// existing components. Re-adding a component e already owns is rejected
// the same way as stealing one from another entity.
func (e *Entity) AddComponent(c Component) error {
	if isNilComponent(c) {
		return ErrNilComponent
	}
	if c.Owner() != nil {
		return ErrAlreadyOwned
	}
	c.SetOwner(e)
	e.components = append(e.components, c)
	return nil
}

func isNilComponent(c Component) bool {
	if c == nil {
		return true
	}
	v := reflect.ValueOf(c)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// Components returns the entity's components in insertion order.
// The returned slice must not be modified.
func (e *Entity) Components() []Component {
	return e.components
}

// Component returns the first component of the given kind.
func (e *Entity) Component(kind Kind) (Component, bool) {
	for _, c := range e.components {
		if c.Kind() == kind {
			return c, true
		}
	}
	return nil, false
}

// ComponentsOf returns every component of the given kind, in insertion order.
func (e *Entity) ComponentsOf(kind Kind) []Component {
	var out []Component
	for _, c := range e.components {
		if c.Kind() == kind {
			out = append(out, c)
		}
	}
	return out
}

// Awake runs every component's one-time initialization hook in order.
func (e *Entity) Awake() {
	for _, c := range e.components {
		c.Awake()
	}
}

// Update runs every component's per-tick hook in order.
func (e *Entity) Update() {
	for _, c := range e.components {
		c.Update()
	}
}
