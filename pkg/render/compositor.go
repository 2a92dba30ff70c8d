// pkg/render/compositor.go
package render

import (
	"fmt"

	"github.com/opd-ai/go-voidengine/pkg/asset"
	"github.com/opd-ai/go-voidengine/pkg/component"
	"github.com/opd-ai/go-voidengine/pkg/config"
	"github.com/opd-ai/go-voidengine/pkg/entity"
)

// Mode selects how sprite pixels treat transparency.
type Mode int

const (
	// ModeAlpha copies every pixel, alpha included, without blending.
	ModeAlpha Mode = iota
	// ModeColorKey skips pixels whose RGB matches the color key.
	ModeColorKey
)

// String returns the configuration name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeAlpha:
		return config.TransparencyAlpha
	case ModeColorKey:
		return config.TransparencyColorKey
	default:
		return "unknown"
	}
}

const rgbMask = 0x00FFFFFF

// RenderOptions configures a Compositor.
type RenderOptions struct {
	Scale      int
	Mode       Mode
	ColorKey   uint32
	Background uint32
}

// DefaultRenderOptions returns scale 1, alpha mode, black key and background.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		Scale:      1,
		Mode:       ModeAlpha,
		ColorKey:   0xFF000000,
		Background: 0xFF000000,
	}
}

// OptionsFromConfig derives compositor options from an engine configuration.
func OptionsFromConfig(cfg *config.EngineConfig) (RenderOptions, error) {
	opts := DefaultRenderOptions()
	opts.Scale = cfg.Window.Scale

	switch cfg.Render.Transparency {
	case config.TransparencyAlpha:
		opts.Mode = ModeAlpha
	case config.TransparencyColorKey:
		opts.Mode = ModeColorKey
	default:
		return opts, fmt.Errorf("%w: unknown transparency mode %q", config.ErrInvalidConfig, cfg.Render.Transparency)
	}

	key, err := config.ParseColor(cfg.Render.ColorKey)
	if err != nil {
		return opts, fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}
	bg, err := config.ParseColor(cfg.Render.Background)
	if err != nil {
		return opts, fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}
	opts.ColorKey = key
	opts.Background = bg
	return opts, nil
}

// Compositor draws sprite components into a framebuffer. It only reads
// entities and components.
type Compositor struct {
	opts RenderOptions
}

// NewCompositor creates a compositor. A scale below 1 is treated as 1.
func NewCompositor(opts RenderOptions) *Compositor {
	if opts.Scale < 1 {
		opts.Scale = 1
	}
	return &Compositor{opts: opts}
}

// Options returns the effective options.
func (c *Compositor) Options() RenderOptions {
	return c.opts
}

// transparent reports whether a source pixel is skipped.
func (c *Compositor) transparent(px uint32) bool {
	return c.opts.Mode == ModeColorKey && px&rgbMask == c.opts.ColorKey&rgbMask
}

// RenderSprite blits grid with its top-left corner at (originX, originY),
// each source pixel becoming a Scale x Scale block. Blocks are clipped to
// the framebuffer before drawing. It returns the number of framebuffer
// pixels written.
func (c *Compositor) RenderSprite(fb *Framebuffer, originX, originY int, grid asset.Grid) int {
	if fb == nil || grid.Empty() {
		return 0
	}
	s := c.opts.Scale
	written := 0
	for y := 0; y < grid.Height; y++ {
		y0, y1 := clipSpan(originY+y*s, s, fb.Height())
		if y0 >= y1 {
			continue
		}
		row := grid.Pix[y*grid.Width : (y+1)*grid.Width]
		for x, px := range row {
			if c.transparent(px) {
				continue
			}
			x0, x1 := clipSpan(originX+x*s, s, fb.Width())
			for fy := y0; fy < y1; fy++ {
				for fx := x0; fx < x1; fx++ {
					if fb.Set(fx, fy, px) {
						written++
					}
				}
			}
		}
	}
	return written
}

// clipSpan returns the part of [start, start+n) inside [0, limit).
func clipSpan(start, n, limit int) (int, int) {
	return max(start, 0), min(start+n, limit)
}

// Render clears fb to the background, then draws every sprite of every
// entity in order at floor(position * scale). It returns the number of
// sprite pixels written.
func (c *Compositor) Render(fb *Framebuffer, entities []*entity.Entity) int {
	if fb == nil {
		return 0
	}
	fb.Clear(c.opts.Background)
	written := 0
	for _, e := range entities {
		for _, comp := range e.ComponentsOf(entity.KindSprite) {
			sprite, ok := comp.(*component.Sprite)
			if !ok {
				continue
			}
			ox, oy := e.Position.Pixel(c.opts.Scale)
			written += c.RenderSprite(fb, ox, oy, sprite.Grid)
		}
	}
	return written
}
