package world

import (
	"math"
	"testing"

	"github.com/justchen1369/acolyte-fight-sub000/internal/geometry"
	"github.com/justchen1369/acolyte-fight-sub000/spells/contract"
)

func assertHealth(t *testing.T, hero *Hero, want float64) {
	t.Helper()
	if math.Abs(hero.Health-want) > 1e-9 {
		t.Fatalf("hero %s: expected health %.3f, got %.3f", hero.ObjectID(), want, hero.Health)
	}
}

func TestArmorReducesProjectileDamage(t *testing.T) {
	w := newTestWorld(t, Config{})
	heroes := joinHeroes(t, w, "a", "b")
	a, b := heroes[0], heroes[1]
	center := w.Center()
	placeAt(a, center.Sub(geometry.V(0.05, 0)))
	placeAt(b, center.Add(geometry.V(0.05, 0)))

	w.applyBuff(b, b.id, "armor", &contract.BuffTemplate{Type: contract.BuffArmor, MaxTicks: 600, Armor: 0.2})
	bolt, _ := w.rules.Spell("bolt")
	p := w.spawnProjectile(a, bolt.ID, bolt.Projectile, b.Position(), 0, 1)

	for i := 0; i < 60 && p.DestroyedTick() == 0; i++ {
		w.Step(TickInput{})
	}
	if p.DestroyedTick() == 0 {
		t.Fatalf("expected the bolt to hit and expire")
	}
	assertHealth(t, b, 92)
	if score := w.Score("a"); math.Abs(score.Damage-8) > 1e-9 {
		t.Fatalf("expected 8 damage scored, got %f", score.Damage)
	}
	assertNoDanglingBodies(t, w)
}

func TestSourceSpecificArmorOnlyAppliesToSource(t *testing.T) {
	w := newTestWorld(t, Config{})
	heroes := joinHeroes(t, w, "a", "b", "c")
	c := heroes[2]

	w.applyBuff(c, "a", "ward", &contract.BuffTemplate{Type: contract.BuffArmor, MaxTicks: 600, Armor: 0.5, SourceSpecific: true})
	w.applyDamage(c, DamagePacket{FromHeroID: "b", Damage: 10})
	assertHealth(t, c, 90)

	advance(w, 61)
	w.applyDamage(c, DamagePacket{FromHeroID: "a", Damage: 10})
	assertHealth(t, c, 85)
}

func TestMitigationStopsConcurrentSourcesStacking(t *testing.T) {
	w := newTestWorld(t, Config{})
	heroes := joinHeroes(t, w, "a", "b", "c")
	c := heroes[2]

	if got := w.applyDamage(c, DamagePacket{FromHeroID: "a", Damage: 5}); got != 5 {
		t.Fatalf("first source should deal full damage, got %f", got)
	}
	if got := w.applyDamage(c, DamagePacket{FromHeroID: "b", Damage: 5}); got != 0 {
		t.Fatalf("second source inside the window should be mitigated, got %f", got)
	}
	assertHealth(t, c, 95)

	if got := w.applyDamage(c, DamagePacket{FromHeroID: "b", Damage: 8}); math.Abs(got-8) > 1e-9 {
		t.Fatalf("b's total now exceeds a's by 8, got %f", got)
	}
	assertHealth(t, c, 87)

	advance(w, 61)
	if got := w.applyDamage(c, DamagePacket{FromHeroID: "b", Damage: 5}); got != 5 {
		t.Fatalf("damage after the window should apply in full, got %f", got)
	}
	assertHealth(t, c, 82)
}

func TestSelfAndLavaDamageSkipMitigation(t *testing.T) {
	w := newTestWorld(t, Config{})
	heroes := joinHeroes(t, w, "a", "b")
	b := heroes[1]

	w.applyDamage(b, DamagePacket{FromHeroID: "a", Damage: 10})
	w.applyDamage(b, DamagePacket{FromHeroID: "b", Damage: 4})
	w.applyDamage(b, DamagePacket{Damage: 3, IsLava: true, NoHit: true})
	assertHealth(t, b, 83)
	if b.KillerHeroID != "a" {
		t.Fatalf("self and lava damage must not steal the kill credit, got %q", b.KillerHeroID)
	}
}

func TestRedirectUsesMitigatedDamage(t *testing.T) {
	w := newTestWorld(t, Config{})
	heroes := joinHeroes(t, w, "a", "b", "c", "d")
	c, d := heroes[2], heroes[3]
	c.Link = &LinkState{
		TargetID:   "d",
		ExpireTick: 10_000,
		Template:   contract.LinkTemplate{MaxTicks: 10_000, RedirectDamageProportion: 0.5},
	}

	w.applyDamage(c, DamagePacket{FromHeroID: "a", Damage: 10})
	assertHealth(t, c, 95)
	assertHealth(t, d, 95)

	w.applyDamage(c, DamagePacket{FromHeroID: "b", Damage: 10})
	assertHealth(t, c, 95)
	assertHealth(t, d, 95)

	if d.HitTick != 0 {
		t.Fatalf("redirected damage must not register a hit on the partner")
	}
	if d.KnockbackHeroID != "" {
		t.Fatalf("redirected damage must not assign knockback, got %q", d.KnockbackHeroID)
	}
}

func TestMinHealthFloorsSelfDamage(t *testing.T) {
	w := newTestWorld(t, Config{})
	a := joinHeroes(t, w, "a")[0]
	a.Health = 12

	got := w.applyDamage(a, DamagePacket{FromHeroID: "a", Damage: 20, MinHealth: 5})
	if got != 7 {
		t.Fatalf("expected 7 damage, got %f", got)
	}
	assertHealth(t, a, 5)
}

func TestDamageBeforeStartOnlyRegistersHit(t *testing.T) {
	w := newTestWorld(t, DefaultConfig())
	heroes := joinHeroes(t, w, "a", "b")
	b := heroes[1]

	if got := w.applyDamage(b, DamagePacket{FromHeroID: "a", Damage: 50}); got != 0 {
		t.Fatalf("damage before the match starts must be ignored, got %f", got)
	}
	assertHealth(t, b, 100)
	if b.HitTick != w.Tick() || b.KillerHeroID != "a" {
		t.Fatalf("expected the hit to be registered anyway")
	}
}

func TestLifeStealHealsSource(t *testing.T) {
	w := newTestWorld(t, Config{})
	heroes := joinHeroes(t, w, "a", "b")
	a, b := heroes[0], heroes[1]
	a.Health = 50

	w.applyDamage(b, DamagePacket{FromHeroID: "a", Damage: 20, LifeSteal: 0.5})
	assertHealth(t, a, 60)
	if score := w.Score("a"); score.LifeSteal != 10 {
		t.Fatalf("expected 10 life steal scored, got %f", score.LifeSteal)
	}
	found := false
	for _, e := range w.DrainEvents() {
		if steal, ok := e.(*LifeStealEvent); ok && steal.HeroID == "a" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a life steal event")
	}
}

func TestHitLookupThrottlesRepeatHits(t *testing.T) {
	hits := make(hitLookup)
	if !hits.take("x", 10, 5) {
		t.Fatalf("first hit must land")
	}
	for tick := uint64(11); tick < 15; tick++ {
		if hits.take("x", tick, 5) {
			t.Fatalf("hit at tick %d inside the interval", tick)
		}
	}
	if !hits.take("x", 15, 5) {
		t.Fatalf("hit at the interval boundary must land")
	}
	if !hits.take("y", 15, 5) {
		t.Fatalf("targets are throttled independently")
	}

	once := make(hitLookup)
	if !once.take("x", 1, 0) || once.take("x", 1000, 0) {
		t.Fatalf("a zero interval allows exactly one hit")
	}
}

func TestObstacleHazardHitsOnInterval(t *testing.T) {
	w := newTestWorld(t, Config{})
	a := joinHeroes(t, w, "a")[0]
	fire, _ := w.rules.Obstacle("fire")
	w.placeObstacle(fire, a.Position(), 0)

	advance(w, 25)
	assertHealth(t, a, 97)
	if a.KillerHeroID != "" {
		t.Fatalf("environment damage has no killer, got %q", a.KillerHeroID)
	}
}

func TestObstacleBreaksAndDetonates(t *testing.T) {
	w := newTestWorld(t, Config{})
	a := joinHeroes(t, w, "a")[0]
	crate, _ := w.rules.Obstacle("crate")
	center := w.Center()
	obstacle := w.placeObstacle(crate, center, 0)

	lance, _ := w.rules.Spell("lance")
	p := w.spawnProjectile(a, lance.ID, lance.Projectile, center, 0, 1)
	placeAt(p, center)
	w.DrainEvents()

	w.Step(TickInput{})
	if obstacle.Health != 20 {
		t.Fatalf("expected obstacle health 20 after one hit, got %f", obstacle.Health)
	}
	if _, ok := w.Object(obstacle.ObjectID()); !ok {
		t.Fatalf("obstacle destroyed too early")
	}

	w.Step(TickInput{})
	if _, ok := w.Object(obstacle.ObjectID()); ok {
		t.Fatalf("expected obstacle to break at zero health")
	}
	if obstacle.DestroyedTick() != w.Tick() {
		t.Fatalf("expected destroyed tick %d, got %d", w.Tick(), obstacle.DestroyedTick())
	}
	detonated := false
	for _, e := range w.DrainEvents() {
		if d, ok := e.(*DetonateEvent); ok && d.SourceID == obstacle.ObjectID() {
			detonated = true
		}
	}
	if !detonated {
		t.Fatalf("expected the crate to detonate")
	}
	if p.DestroyedTick() != 0 {
		t.Fatalf("the lance should outlive the crate")
	}
	assertNoDanglingBodies(t, w)
}
