// pkg/entity/component.go
package entity

// Kind tags a component with its role so that other components can find it
// without type switches.
type Kind int

const (
	KindRoot Kind = iota
	KindSprite
	KindController
	KindCollider
)

// String returns the kind name used in logs.
func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindSprite:
		return "sprite"
	case KindController:
		return "controller"
	case KindCollider:
		return "collider"
	default:
		return "unknown"
	}
}

// Component is a behavior unit attached to exactly one entity.
type Component interface {
	Kind() Kind
	Owner() *Entity
	SetOwner(owner *Entity)
	// Awake is called once before the first tick.
	Awake()
	// Update is called once per tick.
	Update()
}

// Base is the root component. Embed it to get the owner back-reference and
// no-op lifecycle hooks.
type Base struct {
	owner *Entity
}

// Kind implements Component.
func (b *Base) Kind() Kind {
	return KindRoot
}

// Owner returns the entity this component is attached to, or nil.
func (b *Base) Owner() *Entity {
	return b.owner
}

// SetOwner implements Component.
func (b *Base) SetOwner(owner *Entity) {
	b.owner = owner
}

// Awake implements Component.
func (b *Base) Awake() {}

// Update implements Component.
func (b *Base) Update() {}
