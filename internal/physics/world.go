// Package physics wraps a resolv spatial grid with a small impulse solver.
// Every operation runs in body creation order so identical inputs give
// identical outputs.
package physics

import (
	"math"
	"sort"

	"github.com/solarlune/resolv"

	"github.com/justchen1369/acolyte-fight-sub000/internal/geometry"
)

// Config sizes the broadphase grid. Width and Height are in world units;
// Scale converts world units to the integer grid resolv works in.
type Config struct {
	Width    float64
	Height   float64
	Margin   float64
	Scale    float64
	CellSize float64
	Substeps int
}

// DefaultConfig suits a unit-sized arena.
func DefaultConfig() Config {
	return Config{
		Width:    1,
		Height:   1,
		Margin:   0.5,
		Scale:    1000,
		CellSize: 0.05,
		Substeps: 2,
	}
}

// Normalized fills zero fields from DefaultConfig.
func (c Config) Normalized() Config {
	def := DefaultConfig()
	if c.Width <= 0 {
		c.Width = def.Width
	}
	if c.Height <= 0 {
		c.Height = def.Height
	}
	if c.Margin < 0 {
		c.Margin = 0
	}
	if c.Scale <= 0 {
		c.Scale = def.Scale
	}
	if c.CellSize <= 0 {
		c.CellSize = def.CellSize
	}
	if c.Substeps <= 0 {
		c.Substeps = def.Substeps
	}
	return c
}

// ContactKey identifies a pair of bodies independent of argument order.
type ContactKey struct {
	A uint64
	B uint64
}

// Contact describes two touching bodies. Normal points from A to B.
type Contact struct {
	Key     ContactKey
	A       *Body
	B       *Body
	Normal  geometry.Vec
	Depth   float64
	Impulse float64
	Sensor  bool
}

// PostSolveFunc observes solid contacts after their impulse is applied.
type PostSolveFunc func(Contact)

// World owns bodies and steps them.
type World struct {
	cfg       Config
	space     *resolv.Space
	bodies    []*Body
	nextIndex uint64
	postSolve PostSolveFunc
	contacts  []Contact
}

// New builds an empty world.
func New(cfg Config) *World {
	cfg = cfg.Normalized()
	spaceW := int(math.Ceil((cfg.Width + 2*cfg.Margin) * cfg.Scale))
	spaceH := int(math.Ceil((cfg.Height + 2*cfg.Margin) * cfg.Scale))
	cell := int(math.Max(1, math.Round(cfg.CellSize*cfg.Scale)))
	return &World{
		cfg:   cfg,
		space: resolv.NewSpace(spaceW, spaceH, cell, cell),
	}
}

// SetPostSolve registers the listener invoked once per solid contact per step.
func (w *World) SetPostSolve(fn PostSolveFunc) {
	w.postSolve = fn
}

// CreateBody adds a body and returns its handle.
func (w *World) CreateBody(def BodyDef) *Body {
	w.nextIndex++
	body := &Body{
		index:         w.nextIndex,
		owner:         w,
		userData:      def.UserData,
		typ:           def.Type,
		position:      def.Position,
		angle:         def.Angle,
		radius:        def.Radius,
		density:       def.Density,
		linearDamping: def.LinearDamping,
		restitution:   def.Restitution,
		sensor:        def.Sensor,
		filter:        def.Filter,
	}
	if def.Type != Static {
		body.velocity = def.Velocity
	}
	if len(def.Points) > 0 {
		body.local = append(geometry.Polygon(nil), def.Points...)
		body.radius = body.local.Extent()
	}
	body.refreshShape()
	body.updateMass()

	lo, hi := w.scaledBounds(body)
	body.object = resolv.NewObject(lo.X(), lo.Y(), hi.X()-lo.X(), hi.Y()-lo.Y())
	body.object.Data = body
	w.space.Add(body.object)
	w.bodies = append(w.bodies, body)
	return body
}

// DestroyBody removes the body from the simulation.
func (w *World) DestroyBody(body *Body) {
	if body == nil || body.destroyed {
		return
	}
	body.destroyed = true
	w.space.Remove(body.object)
	for i, candidate := range w.bodies {
		if candidate == body {
			w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
			break
		}
	}
}

// Valid reports whether the handle still refers to a live body.
func (w *World) Valid(body *Body) bool {
	return body != nil && !body.destroyed
}

// Bodies lists live bodies in creation order.
func (w *World) Bodies() []*Body {
	return append([]*Body(nil), w.bodies...)
}

// Contacts lists every pair that touched during the last Step, sensors
// included, ordered by ContactKey.
func (w *World) Contacts() []Contact {
	return append([]Contact(nil), w.contacts...)
}

// Step advances the world by dt seconds.
func (w *World) Step(dt float64) {
	w.contacts = w.contacts[:0]
	seen := make(map[ContactKey]int)
	h := dt / float64(w.cfg.Substeps)
	for i := 0; i < w.cfg.Substeps; i++ {
		w.integrate(h)
		w.collide(seen)
	}
	sort.Slice(w.contacts, func(i, j int) bool {
		a, b := w.contacts[i].Key, w.contacts[j].Key
		if a.A != b.A {
			return a.A < b.A
		}
		return a.B < b.B
	})
}

func (w *World) integrate(h float64) {
	for _, body := range w.bodies {
		if body.typ == Static {
			continue
		}
		if body.linearDamping > 0 {
			body.velocity = body.velocity.Mul(1 / (1 + h*body.linearDamping))
		}
		if body.velocity == geometry.Zero {
			continue
		}
		body.position = body.position.Add(body.velocity.Mul(h))
		body.refreshShape()
	}
}

func (w *World) collide(seen map[ContactKey]int) {
	visited := make(map[ContactKey]struct{})
	for _, a := range w.bodies {
		if a.typ == Static {
			continue
		}
		for _, b := range w.candidates(a) {
			key := keyFor(a, b)
			if _, done := visited[key]; done {
				continue
			}
			visited[key] = struct{}{}
			if !a.filter.ShouldCollide(b.filter) {
				continue
			}
			first, second := a, b
			if first.index > second.index {
				first, second = second, first
			}
			normal, depth, touching := narrowphase(first, second)
			if !touching {
				continue
			}
			contact := Contact{Key: key, A: first, B: second, Normal: normal, Depth: depth}
			if first.sensor || second.sensor {
				contact.Sensor = true
			} else {
				contact.Impulse = solve(first, second, normal, depth)
			}
			w.record(seen, contact)
		}
	}
}

// record keeps the first sighting of each pair per step and fires the
// post-solve listener for solid contacts.
func (w *World) record(seen map[ContactKey]int, contact Contact) {
	if _, ok := seen[contact.Key]; ok {
		return
	}
	seen[contact.Key] = len(w.contacts)
	w.contacts = append(w.contacts, contact)
	if !contact.Sensor && w.postSolve != nil {
		w.postSolve(contact)
	}
}

// candidates returns the bodies sharing grid cells with body, ordered by
// creation index.
func (w *World) candidates(body *Body) []*Body {
	collision := body.object.Check(0, 0)
	if collision == nil {
		return nil
	}
	out := make([]*Body, 0, len(collision.Objects))
	unique := make(map[uint64]struct{}, len(collision.Objects))
	for _, obj := range collision.Objects {
		other, ok := obj.Data.(*Body)
		if !ok || other == body || other.destroyed {
			continue
		}
		if _, dup := unique[other.index]; dup {
			continue
		}
		unique[other.index] = struct{}{}
		out = append(out, other)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].index < out[j].index })
	return out
}

// QueryRegion calls fn for bodies whose bounds come within radius of center.
// A body spanning several grid cells may be reported more than once. Return
// false from fn to stop early.
func (w *World) QueryRegion(center geometry.Vec, radius float64, fn func(*Body) bool) {
	lo := w.toSpace(center.Sub(geometry.V(radius, radius)))
	hi := w.toSpace(center.Add(geometry.V(radius, radius)))
	cx0, cy0 := w.space.WorldToSpace(lo.X(), lo.Y())
	cx1, cy1 := w.space.WorldToSpace(hi.X(), hi.Y())
	for cy := cy0; cy <= cy1; cy++ {
		for cx := cx0; cx <= cx1; cx++ {
			cell := w.space.Cell(cx, cy)
			if cell == nil {
				continue
			}
			for _, obj := range cell.Objects {
				body, ok := obj.Data.(*Body)
				if !ok || body.destroyed {
					continue
				}
				if !boundsWithin(body, center, radius) {
					continue
				}
				if !fn(body) {
					return
				}
			}
		}
	}
}

func boundsWithin(body *Body, center geometry.Vec, radius float64) bool {
	lo, hi := body.Bounds()
	closest := geometry.V(geometry.Clamp(center.X(), lo.X(), hi.X()), geometry.Clamp(center.Y(), lo.Y(), hi.Y()))
	return geometry.LengthSquared(closest.Sub(center)) <= radius*radius
}

func (w *World) sync(body *Body) {
	if body.object == nil || body.destroyed {
		return
	}
	lo, hi := w.scaledBounds(body)
	body.object.X = lo.X()
	body.object.Y = lo.Y()
	body.object.W = hi.X() - lo.X()
	body.object.H = hi.Y() - lo.Y()
	body.object.Update()
}

func (w *World) scaledBounds(body *Body) (geometry.Vec, geometry.Vec) {
	lo, hi := body.Bounds()
	return w.toSpace(lo), w.toSpace(hi)
}

func (w *World) toSpace(p geometry.Vec) geometry.Vec {
	return p.Add(geometry.V(w.cfg.Margin, w.cfg.Margin)).Mul(w.cfg.Scale)
}

func keyFor(a, b *Body) ContactKey {
	if a.index < b.index {
		return ContactKey{A: a.index, B: b.index}
	}
	return ContactKey{A: b.index, B: a.index}
}
