package asset

import (
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // register GIF
	_ "image/jpeg" // register JPEG
	_ "image/png"  // register PNG
	"os"

	_ "golang.org/x/image/bmp"  // register BMP
	_ "golang.org/x/image/webp" // register WebP

	"github.com/opd-ai/go-voidengine/pkg/event"
	"github.com/opd-ai/go-voidengine/pkg/logging"
)

// Decoder turns an asset identifier into a pixel grid. On failure it
// returns an empty grid (or a substitute) and ok=false; it never panics.
type Decoder interface {
	Decode(identifier string) (grid Grid, ok bool)
}

// FileDecoder reads image files from disk. PNG, GIF, JPEG, BMP and WebP are
// supported.
type FileDecoder struct {
	logger   *logging.Logger
	eventBus *event.Bus
}

// NewFileDecoder creates a decoder that logs failures and, if bus is not
// nil, publishes an AssetLoadFailed event for each one.
func NewFileDecoder(logger *logging.Logger, bus *event.Bus) *FileDecoder {
	if logger == nil {
		logger = logging.Discard()
	}
	return &FileDecoder{logger: logger, eventBus: bus}
}

// Decode implements Decoder.
func (d *FileDecoder) Decode(identifier string) (Grid, bool) {
	grid, err := d.Load(identifier)
	if err != nil {
		d.logger.Warn(context.Background(), "Error loading image",
			"asset", identifier,
			"error", err.Error(),
		)
		if d.eventBus != nil {
			d.eventBus.Publish(event.NewAssetEvent(d, identifier, err))
		}
		return Grid{}, false
	}
	return grid, true
}

// Load decodes the file at path and returns its pixels.
func (d *FileDecoder) Load(path string) (Grid, error) {
	file, err := os.Open(path)
	if err != nil {
		return Grid{}, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return Grid{}, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return FromImage(img), nil
}

// FromImage converts any image to a grid of non-premultiplied ARGB values.
func FromImage(img image.Image) Grid {
	bounds := img.Bounds()
	grid := NewGrid(bounds.Dx(), bounds.Dy())
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			grid.Set(x, y, ARGB(c.A, c.R, c.G, c.B))
		}
	}
	return grid
}

// StaticDecoder serves grids that were built in memory.
type StaticDecoder map[string]Grid

// Decode implements Decoder.
func (s StaticDecoder) Decode(identifier string) (Grid, bool) {
	g, ok := s[identifier]
	if !ok || g.Empty() {
		return Grid{}, false
	}
	return g, true
}

// FallbackDecoder substitutes a fixed grid when the wrapped decoder fails.
// ok still reports the failure so callers can tell the two apart.
type FallbackDecoder struct {
	Decoder  Decoder
	Fallback Grid
}

// Decode implements Decoder.
func (f FallbackDecoder) Decode(identifier string) (Grid, bool) {
	if f.Decoder != nil {
		if g, ok := f.Decoder.Decode(identifier); ok {
			return g, true
		}
	}
	return f.Fallback, false
}
