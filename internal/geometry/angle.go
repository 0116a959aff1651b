package geometry

import "math"

const twoPi = 2 * math.Pi

// RevsToRadians converts whole revolutions to radians.
func RevsToRadians(revs float64) float64 {
	return revs * twoPi
}

// NormalizeAngle maps an angle into [0, 2π).
func NormalizeAngle(angle float64) float64 {
	angle = math.Mod(angle, twoPi)
	if angle < 0 {
		angle += twoPi
	}
	return angle
}

// AngleDelta returns the signed shortest turn from one angle to another, in
// (-π, π].
func AngleDelta(from, to float64) float64 {
	delta := NormalizeAngle(to - from)
	if delta > math.Pi {
		delta -= twoPi
	}
	return delta
}

// TurnTowards rotates current towards target by at most maxDelta radians.
func TurnTowards(current, target, maxDelta float64) float64 {
	delta := AngleDelta(current, target)
	if math.Abs(delta) <= maxDelta {
		return NormalizeAngle(target)
	}
	if delta > 0 {
		return NormalizeAngle(current + maxDelta)
	}
	return NormalizeAngle(current - maxDelta)
}

// AngleDiff is the absolute shortest difference between two angles.
func AngleDiff(a, b float64) float64 {
	return math.Abs(AngleDelta(a, b))
}
