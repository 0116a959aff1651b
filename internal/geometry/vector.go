// Package geometry holds the vector and polygon helpers shared by the physics
// adapter and the simulation. Vectors are mgl64.Vec2 values; every helper is
// safe on the zero vector.
package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec is the 2D vector used throughout the simulation.
type Vec = mgl64.Vec2

// Zero is the origin.
var Zero = Vec{0, 0}

// V builds a vector.
func V(x, y float64) Vec {
	return Vec{x, y}
}

// FromAngle returns a vector of the given length pointing along angle.
func FromAngle(angle, length float64) Vec {
	return Vec{math.Cos(angle) * length, math.Sin(angle) * length}
}

// Angle returns the direction of v in radians, 0 for the zero vector.
func Angle(v Vec) float64 {
	if v.X() == 0 && v.Y() == 0 {
		return 0
	}
	return math.Atan2(v.Y(), v.X())
}

// LengthSquared avoids the square root when only comparisons are needed.
func LengthSquared(v Vec) float64 {
	return v.Dot(v)
}

// Distance between two points.
func Distance(a, b Vec) float64 {
	return b.Sub(a).Len()
}

// Unit normalises v, returning the zero vector when v has no length.
func Unit(v Vec) Vec {
	l := v.Len()
	if l == 0 {
		return Zero
	}
	return v.Mul(1 / l)
}

// Truncate limits the length of v to max.
func Truncate(v Vec, max float64) Vec {
	l := v.Len()
	if l <= max || l == 0 {
		return v
	}
	return v.Mul(max / l)
}

// WithLength rescales v to length while keeping its direction.
func WithLength(v Vec, length float64) Vec {
	return Unit(v).Mul(length)
}

// Rotate turns v anticlockwise by angle radians.
func Rotate(v Vec, angle float64) Vec {
	sin, cos := math.Sincos(angle)
	return Vec{v.X()*cos - v.Y()*sin, v.X()*sin + v.Y()*cos}
}

// Perpendicular returns v rotated a quarter turn anticlockwise.
func Perpendicular(v Vec) Vec {
	return Vec{-v.Y(), v.X()}
}

// Lerp interpolates between a and b; t is not clamped.
func Lerp(a, b Vec, t float64) Vec {
	return a.Add(b.Sub(a).Mul(t))
}

// Reflect mirrors v about the surface with the given unit normal.
func Reflect(v, normal Vec) Vec {
	return v.Sub(normal.Mul(2 * v.Dot(normal)))
}

// Clamp bounds value to [lo, hi].
func Clamp(value, lo, hi float64) float64 {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}
