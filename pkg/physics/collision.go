// pkg/physics/collision.go
package physics

// Rect is an axis-aligned bounding box anchored at its top-left corner.
// It covers the half-open ranges [X, X+Width) and [Y, Y+Height).
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// NewRect anchors a width x height box at the truncated position.
func NewRect(pos Vector2D, width, height int) Rect {
	x, y := pos.Truncate()
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// Empty reports whether the rectangle covers no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Right returns the exclusive right edge.
func (r Rect) Right() int {
	return r.X + r.Width
}

// Bottom returns the exclusive bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.Height
}

// Intersects reports whether the two rectangles share a region of positive
// area. Edge-adjacent rectangles do not intersect, and an empty rectangle
// never intersects anything.
func (r Rect) Intersects(other Rect) bool {
	if r.Empty() || other.Empty() {
		return false
	}
	return r.X < other.Right() &&
		other.X < r.Right() &&
		r.Y < other.Bottom() &&
		other.Y < r.Bottom()
}

// Contains reports whether the integer point lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}
