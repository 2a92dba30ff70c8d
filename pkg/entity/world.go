// pkg/entity/world.go
package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateID is returned when an entity ID is registered twice.
	ErrDuplicateID = errors.New("entity: duplicate id")
	// ErrNilEntity is returned when a nil entity is registered.
	ErrNilEntity = errors.New("entity: nil entity")
)

// Roster is a read-only, ordered view of all live entities.
type Roster interface {
	Entities() []*Entity
}

// World holds the static entity population in insertion order.
// It is not safe for concurrent use; the scheduler drives it from a
// single goroutine.
type World struct {
	entities []*Entity
	byID     map[ID]*Entity
	nextID   ID
}

// NewWorld creates an empty world
func NewWorld() *World {
	return &World{
		byID:   make(map[ID]*Entity),
		nextID: 1,
	}
}

// CreateEntity creates an entity with the given ID and registers it.
func (w *World) CreateEntity(id ID) (*Entity, error) {
	e := New(id)
	if err := w.Add(e); err != nil {
		return nil, err
	}
	return e, nil
}

// Spawn creates and registers an entity with the next free ID.
func (w *World) Spawn() *Entity {
	for {
		id := w.nextID
		w.nextID++
		if _, taken := w.byID[id]; !taken {
			e := New(id)
			w.entities = append(w.entities, e)
			w.byID[id] = e
			return e
		}
	}
}

// Add registers an existing entity after all others.
func (w *World) Add(e *Entity) error {
	if e == nil {
		return ErrNilEntity
	}
	if _, exists := w.byID[e.ID]; exists {
		return fmt.Errorf("%w: %d", ErrDuplicateID, e.ID)
	}
	w.entities = append(w.entities, e)
	w.byID[e.ID] = e
	return nil
}

// Entities returns the entities in insertion order.
// The returned slice must not be modified.
func (w *World) Entities() []*Entity {
	return w.entities
}

// Get looks up an entity by ID.
func (w *World) Get(id ID) (*Entity, bool) {
	e, ok := w.byID[id]
	return e, ok
}

// Len returns the number of entities.
func (w *World) Len() int {
	return len(w.entities)
}

// InitializeAll calls Awake on every entity in insertion order.
func (w *World) InitializeAll() {
	for _, e := range w.entities {
		e.Awake()
	}
}

// TickAll calls Update on every entity in insertion order.
func (w *World) TickAll() {
	for _, e := range w.entities {
		e.Update()
	}
}
