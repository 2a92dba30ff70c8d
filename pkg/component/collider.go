// pkg/component/collider.go
package component

import (
	"github.com/opd-ai/go-voidengine/pkg/entity"
	"github.com/opd-ai/go-voidengine/pkg/event"
	"github.com/opd-ai/go-voidengine/pkg/physics"
)

// Collider gives its owner a Width x Height box anchored at the owner's
// position. When the box overlaps another entity's collider after this
// tick's movement, the owner is moved back to where it started the tick.
type Collider struct {
	entity.Base
	Width  int
	Height int

	roster entity.Roster
	bus    *event.Bus

	start  physics.Vector2D
	primed bool
}

// NewCollider creates a collider that tests against every entity in roster.
// bus may be nil.
func NewCollider(width, height int, roster entity.Roster, bus *event.Bus) *Collider {
	return &Collider{
		Width:  width,
		Height: height,
		roster: roster,
		bus:    bus,
	}
}

// Kind implements entity.Component.
func (c *Collider) Kind() entity.Kind {
	return entity.KindCollider
}

// Bounds returns the box at the owner's current position.
func (c *Collider) Bounds() physics.Rect {
	owner := c.Owner()
	if owner == nil {
		return physics.Rect{}
	}
	return physics.NewRect(owner.Position, c.Width, c.Height)
}

// Start returns the cached position the owner is rolled back to.
func (c *Collider) Start() physics.Vector2D {
	return c.start
}

// Awake records the initial position so movement during the first tick
// can be rolled back.
func (c *Collider) Awake() {
	if owner := c.Owner(); owner != nil {
		c.start = owner.Position
		c.primed = true
	}
}

// Update checks the owner's box against every other collider in roster
// order. Each hit restores the start position; later checks see the
// restored position. The position after all checks becomes the start of
// the next tick.
func (c *Collider) Update() {
	owner := c.Owner()
	if owner == nil {
		return
	}
	if !c.primed {
		c.start = owner.Position
		c.primed = true
	}

	if c.roster != nil {
		for _, other := range c.roster.Entities() {
			if other == owner {
				continue
			}
			oc, ok := ColliderOf(other)
			if !ok {
				continue
			}
			if c.Bounds().Intersects(oc.Bounds()) {
				owner.Position = c.start
				if c.bus != nil {
					c.bus.Publish(event.NewCollisionEvent(c, uint64(owner.ID), uint64(other.ID)))
				}
			}
		}
	}

	c.start = owner.Position
}

// ColliderOf returns the first collider attached to e.
func ColliderOf(e *entity.Entity) (*Collider, bool) {
	return first[*Collider](e, entity.KindCollider)
}
