package asset

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"

	"github.com/opd-ai/go-voidengine/pkg/event"
)

func writeImage(t *testing.T, name string, encode func(*os.File, image.Image) error, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := encode(f, img); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
	return path
}

func testImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	img.Set(1, 0, color.NRGBA{G: 255, A: 255})
	img.Set(2, 0, color.NRGBA{B: 255, A: 255})
	img.Set(0, 1, color.NRGBA{A: 255})
	img.Set(1, 1, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	img.Set(2, 1, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	return img
}

func TestFileDecoder_DecodesPNG(t *testing.T) {
	path := writeImage(t, "sprite.png", func(f *os.File, img image.Image) error {
		return png.Encode(f, img)
	}, testImage())

	grid, ok := NewFileDecoder(nil, nil).Decode(path)
	if !ok {
		t.Fatal("Decode() reported failure for a valid PNG")
	}
	if grid.Width != 3 || grid.Height != 2 {
		t.Fatalf("grid size = %dx%d, want 3x2", grid.Width, grid.Height)
	}

	want := [][]uint32{
		{0xFFFF0000, 0xFF00FF00, 0xFF0000FF},
		{0xFF000000, 0xFFFFFFFF, 0xFF0A141E},
	}
	for y, row := range want {
		for x, c := range row {
			if got := grid.At(x, y); got != c {
				t.Errorf("At(%d,%d) = %#08x, want %#08x", x, y, got, c)
			}
		}
	}
}

func TestFileDecoder_DecodesBMP(t *testing.T) {
	path := writeImage(t, "sprite.bmp", func(f *os.File, img image.Image) error {
		return bmp.Encode(f, img)
	}, testImage())

	grid, ok := NewFileDecoder(nil, nil).Decode(path)
	if !ok {
		t.Fatal("Decode() reported failure for a valid BMP")
	}
	if got := grid.At(1, 0); got != 0xFF00FF00 {
		t.Errorf("At(1,0) = %#08x, want green", got)
	}
}

func TestFileDecoder_PreservesAlpha(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.NRGBA{R: 200, G: 100, B: 50, A: 128})
	path := writeImage(t, "alpha.png", func(f *os.File, img image.Image) error {
		return png.Encode(f, img)
	}, img)

	grid, ok := NewFileDecoder(nil, nil).Decode(path)
	if !ok {
		t.Fatal("Decode() failed")
	}
	a, r, g, b := Channels(grid.At(0, 0))
	if a != 128 || r != 200 || g != 100 || b != 50 {
		t.Errorf("channels = (%d,%d,%d,%d), want (128,200,100,50)", a, r, g, b)
	}
}

func TestFileDecoder_FailuresReturnEmptyGrid(t *testing.T) {
	dir := t.TempDir()
	corrupt := filepath.Join(dir, "corrupt.png")
	if err := os.WriteFile(corrupt, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
	}{
		{"missing_file", filepath.Join(dir, "missing.png")},
		{"corrupt_file", corrupt},
		{"empty_identifier", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := event.NewEventBus()
			var failed []string
			bus.Subscribe(event.AssetLoadFailed, func(e event.Event) {
				failed = append(failed, e.(*event.AssetEvent).Identifier)
			})

			grid, ok := NewFileDecoder(nil, bus).Decode(tt.path)
			if ok {
				t.Error("Decode() reported success")
			}
			if !grid.Empty() {
				t.Errorf("grid = %dx%d, want empty", grid.Width, grid.Height)
			}
			if len(failed) != 1 || failed[0] != tt.path {
				t.Errorf("AssetLoadFailed events = %v, want [%q]", failed, tt.path)
			}
		})
	}
}

func TestGridFromRows(t *testing.T) {
	g, err := GridFromRows([][]uint32{{1, 2}, {3, 4}})
	if err != nil {
		t.Fatalf("GridFromRows() error = %v", err)
	}
	if g.At(1, 1) != 4 || g.At(0, 1) != 3 {
		t.Errorf("unexpected contents %v", g.Pix)
	}

	if _, err := GridFromRows([][]uint32{{1, 2}, {3}}); !errors.Is(err, ErrRaggedGrid) {
		t.Errorf("ragged rows error = %v, want ErrRaggedGrid", err)
	}

	empty, err := GridFromRows(nil)
	if err != nil || !empty.Empty() {
		t.Errorf("GridFromRows(nil) = %+v, %v; want empty grid", empty, err)
	}
}

func TestGrid_OutOfRangeAccess(t *testing.T) {
	g := NewGrid(2, 2)
	g.Set(-1, 0, 9)
	g.Set(2, 0, 9)
	for _, c := range g.Pix {
		if c != 0 {
			t.Fatalf("out-of-range Set modified grid: %v", g.Pix)
		}
	}
	if g.At(5, 5) != 0 {
		t.Error("out-of-range At should return 0")
	}
	if !NewGrid(0, 4).Empty() {
		t.Error("zero-width grid should be empty")
	}
}

func TestPlaceholder_BorderedSquare(t *testing.T) {
	g := Placeholder(4, 1, 2)
	want := [][]uint32{
		{1, 1, 1, 1},
		{1, 2, 2, 1},
		{1, 2, 2, 1},
		{1, 1, 1, 1},
	}
	for y, row := range want {
		for x, c := range row {
			if g.At(x, y) != c {
				t.Errorf("At(%d,%d) = %d, want %d", x, y, g.At(x, y), c)
			}
		}
	}
}

func TestFallbackDecoder(t *testing.T) {
	stored := NewGrid(2, 2)
	fallback := DefaultPlaceholder()
	d := FallbackDecoder{
		Decoder:  StaticDecoder{"hero": stored},
		Fallback: fallback,
	}

	if g, ok := d.Decode("hero"); !ok || g.Width != 2 {
		t.Errorf("Decode(hero) = %dx%d, %v; want the stored grid", g.Width, g.Height, ok)
	}
	g, ok := d.Decode("missing")
	if ok {
		t.Error("Decode(missing) should still report failure")
	}
	if g.Width != 8 || g.At(0, 0) != PlaceholderBorder || g.At(3, 3) != PlaceholderFill {
		t.Error("Decode(missing) did not return the placeholder")
	}
}

func TestARGBChannelsRoundTrip(t *testing.T) {
	c := ARGB(0x11, 0x22, 0x33, 0x44)
	if c != 0x11223344 {
		t.Errorf("ARGB() = %#08x, want 0x11223344", c)
	}
	a, r, g, b := Channels(c)
	if a != 0x11 || r != 0x22 || g != 0x33 || b != 0x44 {
		t.Errorf("Channels() = %x %x %x %x", a, r, g, b)
	}
}
