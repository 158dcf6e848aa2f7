package geometry

import (
	"fmt"
	"math"
)

// Epsilon is the tolerance used for every "is this numerically zero" decision.
// A vector whose components are all within Epsilon of zero is treated as the zero vector.
const (
	Epsilon = 1e-9
	TwoPi   = 2 * math.Pi
)

// Vector2D represents a 2D vector or point in world space.
// World space has its origin at the centre and the y axis pointing up.
type Vector2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewVector creates a new Vector2D.
func NewVector(x, y float64) Vector2D {
	return Vector2D{X: x, Y: y}
}

// FromAngle returns the unit vector (cos θ, sin θ) for theta in radians.
func FromAngle(theta float64) Vector2D {
	return Vector2D{X: math.Cos(theta), Y: math.Sin(theta)}
}

// NewVectorPolar creates a new Vector2D from polar coordinates.
func NewVectorPolar(radius, theta float64) Vector2D {
	return FromAngle(theta).Mul(radius)
}

// String implements the fmt.Stringer interface.
func (v Vector2D) String() string {
	return fmt.Sprintf("(%.2f, %.2f)", v.X, v.Y)
}

// ---------------------------------------------------------------------
// Arithmetic Operations
// Value receivers returning new values, vectors are never mutated in place.
// ---------------------------------------------------------------------

// Add adds two vectors and returns the result.
func (v Vector2D) Add(other Vector2D) Vector2D {
	return Vector2D{v.X + other.X, v.Y + other.Y}
}

// Sub subtracts the other vector from the current vector.
func (v Vector2D) Sub(other Vector2D) Vector2D {
	return Vector2D{v.X - other.X, v.Y - other.Y}
}

// Mul scales the vector by a scalar value.
func (v Vector2D) Mul(scalar float64) Vector2D {
	return Vector2D{v.X * scalar, v.Y * scalar}
}

// Abs returns the component-wise absolute value.
func (v Vector2D) Abs() Vector2D {
	return Vector2D{math.Abs(v.X), math.Abs(v.Y)}
}

// Mod returns the component-wise floored modulo of v by m.
// Unlike math.Mod the result has the sign of m, so Mod(-1, 10) is 9.
func (v Vector2D) Mod(m Vector2D) Vector2D {
	return Vector2D{floorMod(v.X, m.X), floorMod(v.Y, m.Y)}
}

func floorMod(a, m float64) float64 {
	r := math.Mod(a, m)
	if r != 0 && (r < 0) != (m < 0) {
		r += m
	}
	return r
}

// Dot calculates the dot product of two vectors.
func (v Vector2D) Dot(other Vector2D) float64 {
	return v.X*other.X + v.Y*other.Y
}

// ---------------------------------------------------------------------
// Magnitude and Normalization
// ---------------------------------------------------------------------

// LenSqr calculates the squared magnitude of the vector.
// Use it for comparisons, it avoids the square root.
func (v Vector2D) LenSqr() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Len calculates the magnitude (length) of the vector.
func (v Vector2D) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// IsZero reports whether every component is within Epsilon of zero.
func (v Vector2D) IsZero() bool {
	return math.Abs(v.X) <= Epsilon && math.Abs(v.Y) <= Epsilon
}

// Normalize returns a unit vector in the same direction.
// Returns the zero vector when v IsZero, it never divides by a vanishing length.
func (v Vector2D) Normalize() Vector2D {
	if v.IsZero() {
		return Vector2D{}
	}
	return v.Mul(1 / v.Len())
}

// ---------------------------------------------------------------------
// Geometric Utilities
// ---------------------------------------------------------------------

// DistanceTo calculates the Euclidean distance to another vector.
func (v Vector2D) DistanceTo(other Vector2D) float64 {
	return v.Sub(other).Len()
}

// DistanceSquaredTo calculates the squared Euclidean distance to another vector.
func (v Vector2D) DistanceSquaredTo(other Vector2D) float64 {
	return v.Sub(other).LenSqr()
}

// Angle returns the angle (in radians) of the vector relative to the X-axis.
// Range: [-Pi, Pi]
func (v Vector2D) Angle() float64 {
	return math.Atan2(v.Y, v.X)
}

// NormalizeAngle maps any angle into [0, 2π).
func NormalizeAngle(theta float64) float64 {
	a := floorMod(theta, TwoPi)
	// floorMod can round up to exactly 2π for tiny negative inputs
	if a >= TwoPi {
		a = 0
	}
	return a
}

// ---------------------------------------------------------------------
// Comparison
// ---------------------------------------------------------------------

// Eq checks if two vectors are approximately equal using the Epsilon constant.
func (v Vector2D) Eq(other Vector2D) bool {
	return math.Abs(v.X-other.X) <= Epsilon && math.Abs(v.Y-other.Y) <= Epsilon
}
