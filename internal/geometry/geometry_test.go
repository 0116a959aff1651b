package geometry

import (
	"math"
	"testing"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestUnitOfZeroIsZero(t *testing.T) {
	if got := Unit(Zero); got != Zero {
		t.Fatalf("expected zero vector, got %v", got)
	}
	if got := WithLength(Zero, 5); got != Zero {
		t.Fatalf("expected zero vector, got %v", got)
	}
}

func TestTruncate(t *testing.T) {
	got := Truncate(V(3, 4), 2.5)
	if !approx(got.Len(), 2.5) {
		t.Fatalf("expected length 2.5, got %v", got.Len())
	}
	short := V(0.1, 0)
	if Truncate(short, 1) != short {
		t.Fatalf("short vectors should be unchanged")
	}
}

func TestAngleDeltaWrapsAround(t *testing.T) {
	delta := AngleDelta(RevsToRadians(0.95), RevsToRadians(0.05))
	if !approx(delta, RevsToRadians(0.1)) {
		t.Fatalf("expected a tenth of a revolution, got %v", delta)
	}
	if d := AngleDelta(0, math.Pi); !approx(d, math.Pi) {
		t.Fatalf("half turn should be +π, got %v", d)
	}
}

func TestTurnTowardsIsBounded(t *testing.T) {
	got := TurnTowards(0, math.Pi/2, 0.1)
	if !approx(got, 0.1) {
		t.Fatalf("expected 0.1, got %v", got)
	}
	got = TurnTowards(0, -0.05, 0.1)
	if !approx(got, NormalizeAngle(-0.05)) {
		t.Fatalf("expected to snap to target, got %v", got)
	}
}

func TestPolygonContainsAndClosestPoint(t *testing.T) {
	square := Rectangle(1, 1, 0).Translate(V(5, 5))
	if !square.Contains(V(5.5, 4.5)) {
		t.Fatalf("expected point inside")
	}
	if square.Contains(V(6.5, 5)) {
		t.Fatalf("expected point outside")
	}
	point, normal := square.ClosestPoint(V(8, 5))
	if !approx(point.X(), 6) || !approx(point.Y(), 5) {
		t.Fatalf("unexpected closest point %v", point)
	}
	if !approx(normal.X(), 1) || !approx(normal.Y(), 0) {
		t.Fatalf("unexpected normal %v", normal)
	}
}

func TestRegularPolygonExtent(t *testing.T) {
	hex := RegularPolygon(6, 2, 0.3)
	if len(hex) != 6 {
		t.Fatalf("expected 6 vertices, got %d", len(hex))
	}
	if !approx(hex.Extent(), 2) {
		t.Fatalf("expected extent 2, got %v", hex.Extent())
	}
	if !hex.Contains(Zero) {
		t.Fatalf("origin should be inside")
	}
}

func TestReflect(t *testing.T) {
	got := Reflect(V(1, -1), V(0, 1))
	if !approx(got.X(), 1) || !approx(got.Y(), 1) {
		t.Fatalf("unexpected reflection %v", got)
	}
}
