package asset

// Default placeholder colors: opaque magenta border around opaque dark gray.
const (
	PlaceholderBorder uint32 = 0xFFFF00FF
	PlaceholderFill   uint32 = 0xFF303030
)

// Placeholder builds a size x size square with a one-pixel border.
func Placeholder(size int, border, fill uint32) Grid {
	g := NewGrid(size, size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := fill
			if x == 0 || y == 0 || x == size-1 || y == size-1 {
				c = border
			}
			g.Set(x, y, c)
		}
	}
	return g
}

// DefaultPlaceholder is the 8x8 square substituted for missing sprites.
func DefaultPlaceholder() Grid {
	return Placeholder(8, PlaceholderBorder, PlaceholderFill)
}
