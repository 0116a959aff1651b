package physics

import (
	"math"
	"testing"

	"github.com/justchen1369/acolyte-fight-sub000/internal/geometry"
)

var everything = Filter{Category: 1, Mask: 0xFFFF}

func circle(id string, x, y, r float64, vel geometry.Vec) BodyDef {
	return BodyDef{
		UserData: id,
		Position: geometry.V(x, y),
		Velocity: vel,
		Radius:   r,
		Density:  1,
		Filter:   everything,
	}
}

func TestHeadOnCirclesBounceAndFirePostSolveOnce(t *testing.T) {
	w := New(DefaultConfig())
	var solved []Contact
	w.SetPostSolve(func(c Contact) { solved = append(solved, c) })

	defA := circle("a", 0.45, 0.5, 0.02, geometry.V(0.5, 0))
	defB := circle("b", 0.55, 0.5, 0.02, geometry.V(-0.5, 0))
	defA.Restitution = 1
	a := w.CreateBody(defA)
	b := w.CreateBody(defB)

	for i := 0; i < 10 && len(solved) == 0; i++ {
		w.Step(1.0 / 60)
	}
	if len(solved) != 1 {
		t.Fatalf("expected one post-solve callback, got %d", len(solved))
	}
	if solved[0].A != a || solved[0].B != b {
		t.Fatalf("contact should be ordered by creation index")
	}
	if a.Velocity().X() >= 0 || b.Velocity().X() <= 0 {
		t.Fatalf("expected bodies to separate, got %v and %v", a.Velocity(), b.Velocity())
	}
	if geometry.Distance(a.Position(), b.Position()) < 0.04-1e-9 {
		t.Fatalf("bodies still overlap")
	}
}

func TestSensorContactsAreListedButNotSolved(t *testing.T) {
	w := New(DefaultConfig())
	fired := 0
	w.SetPostSolve(func(Contact) { fired++ })

	sensorDef := circle("sensor", 0.5, 0.5, 0.05, geometry.Zero)
	sensorDef.Sensor = true
	w.CreateBody(sensorDef)
	mover := w.CreateBody(circle("mover", 0.52, 0.5, 0.02, geometry.V(0.1, 0)))
	w.Step(1.0 / 60)

	if fired != 0 {
		t.Fatalf("sensor contacts must not be solved")
	}
	contacts := w.Contacts()
	if len(contacts) != 1 || !contacts[0].Sensor {
		t.Fatalf("expected one sensor contact, got %+v", contacts)
	}
	if mover.Velocity().X() <= 0 {
		t.Fatalf("sensor changed the mover's velocity")
	}
}

func TestNegativeGroupNeverCollides(t *testing.T) {
	w := New(DefaultConfig())
	a := circle("a", 0.5, 0.5, 0.02, geometry.Zero)
	b := circle("b", 0.51, 0.5, 0.02, geometry.Zero)
	a.Filter.Group = -3
	b.Filter.Group = -3
	w.CreateBody(a)
	w.CreateBody(b)
	w.Step(1.0 / 60)
	if n := len(w.Contacts()); n != 0 {
		t.Fatalf("expected no contacts, got %d", n)
	}
}

func TestFilterMasks(t *testing.T) {
	hero := Filter{Category: 1, Mask: 0xFFFF}
	ghost := Filter{Category: 2, Mask: 4}
	if hero.ShouldCollide(ghost) {
		t.Fatalf("ghost mask excludes heroes")
	}
	friends := Filter{Category: 1, Mask: 0, Group: 2}
	if !friends.ShouldCollide(friends) {
		t.Fatalf("positive groups always collide")
	}
}

func TestCircleAgainstStaticPolygon(t *testing.T) {
	w := New(DefaultConfig())
	wall := w.CreateBody(BodyDef{
		UserData: "wall",
		Type:     Static,
		Position: geometry.V(0.6, 0.5),
		Points:   geometry.Rectangle(0.01, 0.1, 0),
		Filter:   everything,
	})
	ball := w.CreateBody(circle("ball", 0.57, 0.5, 0.02, geometry.V(1, 0)))
	hit := false
	w.SetPostSolve(func(c Contact) {
		if c.A == wall && c.B == ball {
			hit = true
		}
	})
	for i := 0; i < 5; i++ {
		w.Step(1.0 / 60)
	}
	if !hit {
		t.Fatalf("expected the ball to hit the wall")
	}
	if ball.Velocity().X() > 0 {
		t.Fatalf("ball should have been stopped, velocity %v", ball.Velocity())
	}
	if wall.Position() != geometry.V(0.6, 0.5) {
		t.Fatalf("static body moved")
	}
}

func TestDynamicPolygonStopsAgainstStaticPolygon(t *testing.T) {
	w := New(DefaultConfig())
	rock := w.CreateBody(BodyDef{
		UserData: "rock",
		Type:     Static,
		Position: geometry.V(0.5, 0.5),
		Points:   geometry.RegularPolygon(5, 0.025, 0),
		Filter:   everything,
	})
	crate := w.CreateBody(BodyDef{
		UserData: "crate",
		Position: geometry.V(0.44, 0.5),
		Velocity: geometry.V(0.6, 0),
		Points:   geometry.RegularPolygon(4, 0.02, 0),
		Density:  1,
		Filter:   everything,
	})
	contacts := 0
	w.SetPostSolve(func(c Contact) {
		if c.A == rock && c.B == crate {
			contacts++
		}
	})
	for i := 0; i < 60; i++ {
		w.Step(1.0 / 60)
	}
	if contacts == 0 {
		t.Fatalf("expected the crate to touch the rock")
	}
	if x := crate.Position().X(); x >= 0.5 {
		t.Fatalf("crate passed through the rock, x=%.3f", x)
	}
	if crate.Velocity().X() > 1e-9 {
		t.Fatalf("crate should have been stopped, velocity %v", crate.Velocity())
	}
	if rock.Position() != geometry.V(0.5, 0.5) {
		t.Fatalf("static body moved")
	}
}

func TestPolygonPolygonNormalPointsFromAToB(t *testing.T) {
	a := geometry.Rectangle(0.1, 0.1, 0)
	b := geometry.Rectangle(0.1, 0.1, 0).Translate(geometry.V(0.15, 0.02))
	normal, depth, ok := polygonPolygon(a, b, geometry.V(0.15, 0.02))
	if !ok {
		t.Fatalf("expected overlapping boxes to touch")
	}
	if math.Abs(normal.X()-1) > 1e-9 || math.Abs(normal.Y()) > 1e-9 {
		t.Fatalf("expected normal +x, got %v", normal)
	}
	if math.Abs(depth-0.05) > 1e-9 {
		t.Fatalf("expected depth 0.05, got %f", depth)
	}
	if _, _, ok := polygonPolygon(a, b.Translate(geometry.V(0.2, 0)), geometry.V(0.35, 0.02)); ok {
		t.Fatalf("separated boxes must not touch")
	}
}

func TestQueryRegionAndDestroy(t *testing.T) {
	w := New(DefaultConfig())
	near := w.CreateBody(circle("near", 0.5, 0.5, 0.2, geometry.Zero))
	w.CreateBody(circle("far", 0.9, 0.9, 0.01, geometry.Zero))

	found := map[string]int{}
	w.QueryRegion(geometry.V(0.5, 0.5), 0.05, func(b *Body) bool {
		found[b.UserData()]++
		return true
	})
	if found["near"] == 0 {
		t.Fatalf("expected near body in region")
	}
	if found["far"] != 0 {
		t.Fatalf("far body should not be reported")
	}

	w.DestroyBody(near)
	if w.Valid(near) {
		t.Fatalf("destroyed body still valid")
	}
	w.QueryRegion(geometry.V(0.5, 0.5), 0.05, func(b *Body) bool {
		if b == near {
			t.Fatalf("destroyed body reported by query")
		}
		return true
	})
	if len(w.Bodies()) != 1 {
		t.Fatalf("expected one live body")
	}
}

func TestLinearDampingSlowsBodies(t *testing.T) {
	w := New(DefaultConfig())
	def := circle("a", 0.5, 0.5, 0.01, geometry.V(1, 0))
	def.LinearDamping = 2
	body := w.CreateBody(def)
	w.Step(0.5)
	speed := body.Velocity().Len()
	expected := math.Pow(1/(1+0.25*2), 2)
	if math.Abs(speed-expected) > 1e-9 {
		t.Fatalf("expected speed %v, got %v", expected, speed)
	}
}

func TestImpulseRespectsMass(t *testing.T) {
	w := New(DefaultConfig())
	light := w.CreateBody(circle("light", 0.2, 0.2, 0.01, geometry.Zero))
	heavyDef := circle("heavy", 0.8, 0.8, 0.01, geometry.Zero)
	heavyDef.Density = 4
	heavy := w.CreateBody(heavyDef)
	light.ApplyImpulse(geometry.V(0.001, 0))
	heavy.ApplyImpulse(geometry.V(0.001, 0))
	if math.Abs(light.Velocity().X()-4*heavy.Velocity().X()) > 1e-9 {
		t.Fatalf("expected 4x velocity for the lighter body")
	}
}
