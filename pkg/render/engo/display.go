// pkg/render/engo/display.go
package engo

import (
	"image"
	"image/color"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"
)

// frameSprite is the single ecs entity showing the framebuffer.
type frameSprite struct {
	ecs.BasicEntity
	common.RenderComponent
	common.SpaceComponent
}

// DisplaySystem replaces the frame texture whenever the presenter has a
// new frame.
type DisplaySystem struct {
	presenter *Presenter
	sprite    frameSprite
	texture   *common.Texture
}

// NewDisplaySystem creates a display covering width x height.
func NewDisplaySystem(presenter *Presenter, width, height int) *DisplaySystem {
	return &DisplaySystem{
		presenter: presenter,
		sprite: frameSprite{
			BasicEntity: ecs.NewBasic(),
			RenderComponent: common.RenderComponent{
				Color: color.White,
			},
			SpaceComponent: common.SpaceComponent{
				Position: engo.Point{X: 0, Y: 0},
				Width:    float32(width),
				Height:   float32(height),
			},
		},
	}
}

// New registers the frame sprite with the world's render system. The
// sprite starts as a blank frame so the render system never sees a nil
// drawable.
func (d *DisplaySystem) New(w *ecs.World) {
	blank := image.NewNRGBA(image.Rect(0, 0, int(d.sprite.Width), int(d.sprite.Height)))
	tex := convertToEngoTexture(blank)
	d.texture = &tex
	d.sprite.RenderComponent.Drawable = tex

	for _, system := range w.Systems() {
		if rs, ok := system.(*common.RenderSystem); ok {
			rs.Add(&d.sprite.BasicEntity, &d.sprite.RenderComponent, &d.sprite.SpaceComponent)
		}
	}
}

// Remove satisfies the ecs.System interface
func (d *DisplaySystem) Remove(basic ecs.BasicEntity) {}

// Update uploads the newest frame.
func (d *DisplaySystem) Update(dt float32) {
	img, ok := d.presenter.Latest()
	if !ok {
		return
	}
	if d.texture != nil {
		d.texture.Close()
	}
	tex := convertToEngoTexture(img)
	d.texture = &tex
	d.sprite.RenderComponent.Drawable = tex
}
