package common

import (
	"fmt"
	"math"
)

// Vector represents a point or displacement in the 2D world plane.
type Vector struct {
	X float64
	Y float64
}

// NewVector creates a vector from its two coordinates.
func NewVector(x, y float64) Vector {
	return Vector{X: x, Y: y}
}

// Add returns the component-wise sum of v and other.
func (v Vector) Add(other Vector) Vector {
	return Vector{X: v.X + other.X, Y: v.Y + other.Y}
}

// Subtract returns v minus other.
func (v Vector) Subtract(other Vector) Vector {
	return Vector{X: v.X - other.X, Y: v.Y - other.Y}
}

// MultiplyByScalar multiplies both components by a scalar value.
func (v Vector) MultiplyByScalar(scalar float64) Vector {
	return Vector{X: v.X * scalar, Y: v.Y * scalar}
}

// Abs returns the per-axis magnitudes of v.
func (v Vector) Abs() Vector {
	return Vector{X: math.Abs(v.X), Y: math.Abs(v.Y)}
}

// Distance calculates the Euclidean distance between two vectors.
func (v Vector) Distance(other Vector) float64 {
	return math.Sqrt(v.Subtract(other).NormSq())
}

// NormSq calculates the squared Euclidean norm of the vector.
func (v Vector) NormSq() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Within reports whether both coordinates lie in the closed interval [lo, hi].
func (v Vector) Within(lo, hi float64) bool {
	return v.X >= lo && v.X <= hi && v.Y >= lo && v.Y <= hi
}

// String returns a string representation of the vector.
func (v Vector) String() string {
	return fmt.Sprintf("[%.3f, %.3f]", v.X, v.Y)
}
