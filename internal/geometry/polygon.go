package geometry

import "math"

// Polygon is a convex polygon with anticlockwise vertices.
type Polygon []Vec

// RegularPolygon builds a polygon with the given number of sides whose
// vertices lie extent away from the origin, rotated by angle.
func RegularPolygon(sides int, extent, angle float64) Polygon {
	if sides < 3 {
		sides = 3
	}
	points := make(Polygon, sides)
	step := twoPi / float64(sides)
	for i := 0; i < sides; i++ {
		points[i] = FromAngle(angle+step*float64(i), extent)
	}
	return points
}

// Rectangle builds an axis aligned box centred on the origin with the given
// half extents, rotated by angle.
func Rectangle(halfLength, halfWidth, angle float64) Polygon {
	corners := Polygon{
		{halfLength, -halfWidth},
		{halfLength, halfWidth},
		{-halfLength, halfWidth},
		{-halfLength, -halfWidth},
	}
	return corners.Rotate(angle)
}

// Rotate returns a copy rotated about the origin.
func (p Polygon) Rotate(angle float64) Polygon {
	out := make(Polygon, len(p))
	for i, point := range p {
		out[i] = Rotate(point, angle)
	}
	return out
}

// Translate returns a copy moved by offset.
func (p Polygon) Translate(offset Vec) Polygon {
	out := make(Polygon, len(p))
	for i, point := range p {
		out[i] = point.Add(offset)
	}
	return out
}

// Extent is the distance from the origin to the furthest vertex.
func (p Polygon) Extent() float64 {
	extent := 0.0
	for _, point := range p {
		extent = math.Max(extent, point.Len())
	}
	return extent
}

// Bounds returns the minimum and maximum corners of the axis aligned box
// containing the polygon.
func (p Polygon) Bounds() (Vec, Vec) {
	if len(p) == 0 {
		return Zero, Zero
	}
	lo, hi := p[0], p[0]
	for _, point := range p[1:] {
		lo = Vec{math.Min(lo.X(), point.X()), math.Min(lo.Y(), point.Y())}
		hi = Vec{math.Max(hi.X(), point.X()), math.Max(hi.Y(), point.Y())}
	}
	return lo, hi
}

// Contains reports whether point lies inside the convex polygon.
func (p Polygon) Contains(point Vec) bool {
	if len(p) < 3 {
		return false
	}
	for i := range p {
		a := p[i]
		b := p[(i+1)%len(p)]
		edge := b.Sub(a)
		if cross(edge, point.Sub(a)) < 0 {
			return false
		}
	}
	return true
}

// ClosestPoint returns the point on the polygon boundary nearest to point and
// the outward normal of the edge it lies on.
func (p Polygon) ClosestPoint(point Vec) (Vec, Vec) {
	if len(p) == 0 {
		return point, Zero
	}
	best := p[0]
	bestNormal := Zero
	bestDist := math.Inf(1)
	for i := range p {
		a := p[i]
		b := p[(i+1)%len(p)]
		candidate := ClosestPointOnSegment(point, a, b)
		if d := LengthSquared(point.Sub(candidate)); d < bestDist {
			bestDist = d
			best = candidate
			edge := b.Sub(a)
			bestNormal = Unit(Vec{edge.Y(), -edge.X()})
		}
	}
	return best, bestNormal
}

// ClosestPointOnSegment projects point onto the segment ab.
func ClosestPointOnSegment(point, a, b Vec) Vec {
	ab := b.Sub(a)
	lengthSq := LengthSquared(ab)
	if lengthSq == 0 {
		return a
	}
	t := Clamp(point.Sub(a).Dot(ab)/lengthSq, 0, 1)
	return a.Add(ab.Mul(t))
}

func cross(a, b Vec) float64 {
	return a.X()*b.Y() - a.Y()*b.X()
}
