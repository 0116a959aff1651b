package physics

import (
	"math"

	"github.com/justchen1369/acolyte-fight-sub000/internal/geometry"
)

// narrowphase tests two shapes and returns the contact normal from a to b and
// the penetration depth.
func narrowphase(a, b *Body) (geometry.Vec, float64, bool) {
	switch {
	case !a.IsPolygon() && !b.IsPolygon():
		return circleCircle(a, b)
	case a.IsPolygon() && !b.IsPolygon():
		return polygonCircle(a.world, b.position, b.radius)
	case !a.IsPolygon() && b.IsPolygon():
		normal, depth, ok := polygonCircle(b.world, a.position, a.radius)
		return normal.Mul(-1), depth, ok
	default:
		return polygonPolygon(a.world, b.world, b.position.Sub(a.position))
	}
}

// polygonPolygon separates two convex polygons along the edge normal with the
// least overlap. centres orients the result from a towards b.
func polygonPolygon(a, b geometry.Polygon, centres geometry.Vec) (geometry.Vec, float64, bool) {
	if len(a) < 3 || len(b) < 3 {
		return geometry.Zero, 0, false
	}
	best := geometry.Zero
	depth := math.Inf(1)
	for _, poly := range []geometry.Polygon{a, b} {
		for i := range poly {
			edge := poly[(i+1)%len(poly)].Sub(poly[i])
			axis := geometry.Unit(geometry.V(edge.Y(), -edge.X()))
			if axis == geometry.Zero {
				continue
			}
			minA, maxA := project(a, axis)
			minB, maxB := project(b, axis)
			overlap := math.Min(maxA, maxB) - math.Max(minA, minB)
			if overlap <= 0 {
				return geometry.Zero, 0, false
			}
			if overlap < depth {
				depth = overlap
				best = axis
			}
		}
	}
	if best.Dot(centres) < 0 {
		best = best.Mul(-1)
	}
	return best, depth, true
}

func project(poly geometry.Polygon, axis geometry.Vec) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, point := range poly {
		d := point.Dot(axis)
		lo = math.Min(lo, d)
		hi = math.Max(hi, d)
	}
	return lo, hi
}

func circleCircle(a, b *Body) (geometry.Vec, float64, bool) {
	delta := b.position.Sub(a.position)
	reach := a.radius + b.radius
	distSq := geometry.LengthSquared(delta)
	if distSq >= reach*reach {
		return geometry.Zero, 0, false
	}
	dist := math.Sqrt(distSq)
	if dist == 0 {
		return geometry.V(1, 0), reach, true
	}
	return delta.Mul(1 / dist), reach - dist, true
}

// polygonCircle returns the normal pointing from the polygon to the circle.
func polygonCircle(poly geometry.Polygon, center geometry.Vec, radius float64) (geometry.Vec, float64, bool) {
	closest, edgeNormal := poly.ClosestPoint(center)
	if poly.Contains(center) {
		return edgeNormal, radius + geometry.Distance(center, closest), true
	}
	delta := center.Sub(closest)
	dist := delta.Len()
	if dist >= radius {
		return geometry.Zero, 0, false
	}
	if dist == 0 {
		return edgeNormal, radius, true
	}
	return delta.Mul(1 / dist), radius - dist, true
}

// solve separates the bodies and applies a restitution impulse along normal.
// It returns the impulse magnitude.
func solve(a, b *Body, normal geometry.Vec, depth float64) float64 {
	invSum := a.invMass + b.invMass
	if invSum == 0 {
		return 0
	}
	correction := normal.Mul(depth / invSum)
	if a.invMass > 0 {
		a.position = a.position.Sub(correction.Mul(a.invMass))
		a.refreshShape()
	}
	if b.invMass > 0 {
		b.position = b.position.Add(correction.Mul(b.invMass))
		b.refreshShape()
	}

	closing := b.velocity.Sub(a.velocity).Dot(normal)
	if closing >= 0 {
		return 0
	}
	restitution := math.Max(a.restitution, b.restitution)
	j := -(1 + restitution) * closing / invSum
	impulse := normal.Mul(j)
	a.velocity = a.velocity.Sub(impulse.Mul(a.invMass))
	b.velocity = b.velocity.Add(impulse.Mul(b.invMass))
	return j
}
