// pkg/physics/vector.go
package physics

import "math"

// Vector2D is a 2D position or offset in logical world units.
type Vector2D struct {
	X float64
	Y float64
}

// Add returns the sum of two vectors
func (v Vector2D) Add(other Vector2D) Vector2D {
	return Vector2D{
		X: v.X + other.X,
		Y: v.Y + other.Y,
	}
}

// Sub returns the difference between two vectors
func (v Vector2D) Sub(other Vector2D) Vector2D {
	return Vector2D{
		X: v.X - other.X,
		Y: v.Y - other.Y,
	}
}

// Scale multiplies the vector by a scalar value
func (v Vector2D) Scale(factor float64) Vector2D {
	return Vector2D{
		X: v.X * factor,
		Y: v.Y * factor,
	}
}

// Length returns the magnitude of the vector
func (v Vector2D) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// IsZero reports whether both components are zero.
func (v Vector2D) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// Truncate converts the vector to integer coordinates, rounding toward zero.
// Collision bounds are anchored on the truncated position.
func (v Vector2D) Truncate() (int, int) {
	return int(v.X), int(v.Y)
}

// Pixel converts the vector to a pixel origin at the given integer scale,
// rounding toward negative infinity so that negative positions stay left
// of the framebuffer edge.
func (v Vector2D) Pixel(scale int) (int, int) {
	s := float64(scale)
	return int(math.Floor(v.X * s)), int(math.Floor(v.Y * s))
}
