// Package asset turns image files into the pixel grids sprites are drawn from.
package asset

import (
	"errors"
	"fmt"
)

// ErrRaggedGrid is returned when rows of a grid have different lengths.
var ErrRaggedGrid = errors.New("asset: rows have different lengths")

// Grid is a rectangular, row-major grid of packed 0xAARRGGBB colors.
// The zero Grid is empty and stands for an asset that failed to load.
type Grid struct {
	Width  int
	Height int
	Pix    []uint32
}

// NewGrid allocates a transparent width x height grid.
func NewGrid(width, height int) Grid {
	if width <= 0 || height <= 0 {
		return Grid{}
	}
	return Grid{
		Width:  width,
		Height: height,
		Pix:    make([]uint32, width*height),
	}
}

// GridFromRows copies a slice of rows into a grid.
func GridFromRows(rows [][]uint32) (Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return Grid{}, nil
	}
	g := NewGrid(len(rows[0]), len(rows))
	for y, row := range rows {
		if len(row) != g.Width {
			return Grid{}, fmt.Errorf("%w: row %d has %d cells, want %d", ErrRaggedGrid, y, len(row), g.Width)
		}
		copy(g.Pix[y*g.Width:], row)
	}
	return g, nil
}

// Empty reports whether the grid has no pixels.
func (g Grid) Empty() bool {
	return g.Width <= 0 || g.Height <= 0 || len(g.Pix) < g.Width*g.Height
}

// At returns the color at (x, y), or 0 outside the grid.
func (g Grid) At(x, y int) uint32 {
	if x < 0 || y < 0 || x >= g.Width || y >= g.Height {
		return 0
	}
	return g.Pix[y*g.Width+x]
}

// Set writes the color at (x, y). Writes outside the grid are ignored.
func (g Grid) Set(x, y int, c uint32) {
	if x < 0 || y < 0 || x >= g.Width || y >= g.Height {
		return
	}
	g.Pix[y*g.Width+x] = c
}

// ARGB packs four channels into one color value.
func ARGB(a, r, g, b uint8) uint32 {
	return uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// Channels unpacks a color value.
func Channels(c uint32) (a, r, g, b uint8) {
	return uint8(c >> 24), uint8(c >> 16), uint8(c >> 8), uint8(c)
}
