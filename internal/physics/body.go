package physics

import (
	"math"

	"github.com/solarlune/resolv"

	"github.com/justchen1369/acolyte-fight-sub000/internal/geometry"
)

// BodyType selects how a body is integrated.
type BodyType int

const (
	// Dynamic bodies move under velocity and respond to contacts.
	Dynamic BodyType = iota
	// Static bodies never move.
	Static
	// Kinematic bodies move under velocity but are not pushed by contacts.
	Kinematic
)

// BodyDef describes a body to create. A body is a circle unless Points is
// non-empty, in which case Points is a convex polygon in body space.
type BodyDef struct {
	UserData      string
	Type          BodyType
	Position      geometry.Vec
	Velocity      geometry.Vec
	Angle         float64
	Radius        float64
	Points        geometry.Polygon
	Density       float64
	LinearDamping float64
	Restitution   float64
	Sensor        bool
	Filter        Filter
}

// Body is a handle to a simulated shape. Handles stay readable after
// DestroyBody but no longer take part in stepping.
type Body struct {
	index    uint64
	userData string
	typ      BodyType

	position      geometry.Vec
	velocity      geometry.Vec
	angle         float64
	radius        float64
	local         geometry.Polygon
	world         geometry.Polygon
	density       float64
	invMass       float64
	linearDamping float64
	restitution   float64
	sensor        bool
	filter        Filter

	owner     *World
	object    *resolv.Object
	destroyed bool
}

// UserData returns the identifier of the object owning this body.
func (b *Body) UserData() string { return b.userData }

// Index is the creation order of the body within its world.
func (b *Body) Index() uint64 { return b.index }

func (b *Body) Type() BodyType { return b.typ }

func (b *Body) Position() geometry.Vec { return b.position }

func (b *Body) Velocity() geometry.Vec { return b.velocity }

func (b *Body) Angle() float64 { return b.angle }

func (b *Body) Radius() float64 { return b.radius }

func (b *Body) IsSensor() bool { return b.sensor }

func (b *Body) Filter() Filter { return b.filter }

func (b *Body) Restitution() float64 { return b.restitution }

func (b *Body) LinearDamping() float64 { return b.linearDamping }

// IsPolygon reports whether the body uses a polygon shape.
func (b *Body) IsPolygon() bool { return len(b.local) > 0 }

// Polygon returns the shape in world space, nil for circles.
func (b *Body) Polygon() geometry.Polygon { return b.world }

// Mass is infinite for static and kinematic bodies.
func (b *Body) Mass() float64 {
	if b.invMass == 0 {
		return math.Inf(1)
	}
	return 1 / b.invMass
}

func (b *Body) SetPosition(pos geometry.Vec) {
	b.position = pos
	b.refreshShape()
}

func (b *Body) SetVelocity(vel geometry.Vec) {
	if b.typ == Static {
		return
	}
	b.velocity = vel
}

func (b *Body) SetAngle(angle float64) {
	b.angle = angle
	b.refreshShape()
}

// SetTransform moves and rotates in one update.
func (b *Body) SetTransform(pos geometry.Vec, angle float64) {
	b.position = pos
	b.angle = angle
	b.refreshShape()
}

// SetPolygon replaces the body-space polygon.
func (b *Body) SetPolygon(points geometry.Polygon) {
	b.local = append(geometry.Polygon(nil), points...)
	b.refreshShape()
}

func (b *Body) SetLinearDamping(damping float64) { b.linearDamping = damping }

func (b *Body) SetSensor(sensor bool) { b.sensor = sensor }

func (b *Body) SetFilter(filter Filter) { b.filter = filter }

// SetDensity recomputes the mass of dynamic bodies.
func (b *Body) SetDensity(density float64) {
	b.density = density
	b.updateMass()
}

// ApplyImpulse changes velocity by impulse divided by mass.
func (b *Body) ApplyImpulse(impulse geometry.Vec) {
	if b.invMass == 0 {
		return
	}
	b.velocity = b.velocity.Add(impulse.Mul(b.invMass))
}

// Bounds returns the axis aligned box around the shape.
func (b *Body) Bounds() (geometry.Vec, geometry.Vec) {
	if b.IsPolygon() {
		return b.world.Bounds()
	}
	r := geometry.V(b.radius, b.radius)
	return b.position.Sub(r), b.position.Add(r)
}

func (b *Body) refreshShape() {
	if len(b.local) > 0 {
		b.world = b.local.Rotate(b.angle).Translate(b.position)
	}
	if b.owner != nil {
		b.owner.sync(b)
	}
}

func (b *Body) area() float64 {
	if len(b.local) == 0 {
		return math.Pi * b.radius * b.radius
	}
	sum := 0.0
	for i := range b.local {
		p := b.local[i]
		q := b.local[(i+1)%len(b.local)]
		sum += p.X()*q.Y() - q.X()*p.Y()
	}
	return math.Abs(sum) / 2
}

func (b *Body) updateMass() {
	if b.typ != Dynamic {
		b.invMass = 0
		return
	}
	mass := b.area() * b.density
	if mass <= 0 {
		mass = 1
	}
	b.invMass = 1 / mass
}
