// Package spatialmath provides the planar vector and pose kernel shared by
// every component of the coordinator: pure pursuit, RVO, static-obstacle
// extraction, and command synthesis all operate in this 2-D space.
package spatialmath

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// tolerance is the absolute tolerance used by AreSame, the module's
// float-equality test for checking a value against a target. The sort
// comparators in neighbors and rvo still compare raw floats with != and <
// so that their orderings stay strict.
const tolerance = 1e-6

// Vector2 is a planar vector or point. The zero value is the origin.
type Vector2 struct {
	X float64
	Y float64
}

// Add returns a+b.
func (a Vector2) Add(b Vector2) Vector2 {
	return Vector2{a.X + b.X, a.Y + b.Y}
}

// Sub returns a-b.
func (a Vector2) Sub(b Vector2) Vector2 {
	return Vector2{a.X - b.X, a.Y - b.Y}
}

// Scale returns a scaled by s.
func (a Vector2) Scale(s float64) Vector2 {
	return Vector2{a.X * s, a.Y * s}
}

// Dot returns a·b.
func (a Vector2) Dot(b Vector2) float64 {
	return a.X*b.X + a.Y*b.Y
}

// CrossZ returns the z-component of the 3-D cross product of a and b,
// treating both as lying in the z=0 plane: a.x*b.y - a.y*b.x.
func (a Vector2) CrossZ(b Vector2) float64 {
	return a.X*b.Y - a.Y*b.X
}

// Norm returns the Euclidean magnitude of a.
func (a Vector2) Norm() float64 {
	return math.Hypot(a.X, a.Y)
}

// Normalize returns a unit vector in the direction of a. The zero vector
// normalizes to itself rather than producing NaN.
func (a Vector2) Normalize() Vector2 {
	n := a.Norm()
	if AreSame(n, 0) {
		return Vector2{}
	}
	return a.Scale(1.0 / n)
}

// IsZero reports whether a is the zero vector within tolerance.
func (a Vector2) IsZero() bool {
	return AreSame(a.X, 0) && AreSame(a.Y, 0)
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Vector2) float64 {
	return b.Sub(a).Norm()
}

// AreSame is the module's tolerance-based float-equality test: it reports whether a
// and b are equal within an absolute tolerance of 1e-6.
func AreSame(a, b float64) bool {
	return floats.EqualWithinAbs(a, b, tolerance)
}

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
