// pkg/component/sprite.go
package component

import (
	"github.com/opd-ai/go-voidengine/pkg/asset"
	"github.com/opd-ai/go-voidengine/pkg/entity"
)

// Sprite holds the decoded image drawn at its owner's position.
type Sprite struct {
	entity.Base
	Grid   asset.Grid
	Source string
}

// NewSprite decodes identifier through the decoder. A failed decode leaves
// the grid empty and the sprite draws nothing.
func NewSprite(decoder asset.Decoder, identifier string) *Sprite {
	grid, _ := decoder.Decode(identifier)
	return &Sprite{Grid: grid, Source: identifier}
}

// Kind implements entity.Component.
func (s *Sprite) Kind() entity.Kind {
	return entity.KindSprite
}

// SpriteOf returns the first sprite attached to e.
func SpriteOf(e *entity.Entity) (*Sprite, bool) {
	return first[*Sprite](e, entity.KindSprite)
}

// first looks up the first component of kind on e and asserts its concrete type.
func first[T entity.Component](e *entity.Entity, kind entity.Kind) (T, bool) {
	var zero T
	if e == nil {
		return zero, false
	}
	c, ok := e.Component(kind)
	if !ok {
		return zero, false
	}
	t, ok := c.(T)
	return t, ok
}
