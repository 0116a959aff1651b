package world

import (
	"math"
	"testing"

	"github.com/justchen1369/acolyte-fight-sub000/internal/geometry"
	"github.com/justchen1369/acolyte-fight-sub000/spells/contract"
)

// channelling builds a cast that has just entered the channelling stage.
func channelling(w *World, spell *contract.Spell, target geometry.Vec) *CastState {
	return &CastState{
		Action:               Action{SpellID: spell.ID, Target: target},
		Spell:                spell,
		Stage:                StageChannelling,
		ChannellingStartTick: w.Tick(),
		ChargeMultiplier:     1,
	}
}

func TestSprayFiresOnIntervalAcrossSpread(t *testing.T) {
	spray := &contract.Spell{ID: "spray", Kind: contract.KindSpray, Spray: &contract.SprayTemplate{
		Projectile:    contract.ProjectileTemplate{Speed: 0.5, Radius: 0.003, MaxTicks: 30, Damage: 2},
		IntervalTicks: 2,
		LengthTicks:   6,
		SpreadRevs:    0.25,
	}}
	w := newTestWorld(t, Config{})
	a := joinHeroes(t, w, "a")[0]
	placeAt(a, w.Center())
	cast := channelling(w, spray, w.Center().Add(geometry.V(0.2, 0)))

	var angles []float64
	var fired []uint64
	seen := projectileIDs(w)
	calls := 0
	for ; calls < 20; calls++ {
		done := w.channel(a, cast)
		for _, obj := range w.Objects() {
			if _, ok := seen[obj.ObjectID()]; ok {
				continue
			}
			if p, ok := obj.(*Projectile); ok {
				seen[p.ObjectID()] = struct{}{}
				angles = append(angles, geometry.Angle(p.Body().Velocity()))
				fired = append(fired, w.Tick()-cast.ChannellingStartTick)
			}
		}
		if done {
			break
		}
		w.Step(TickInput{})
	}

	if calls != 5 {
		t.Fatalf("expected the spray to finish on its sixth tick, finished after %d", calls+1)
	}
	if len(angles) != 3 {
		t.Fatalf("expected 3 shots, got %d", len(angles))
	}
	for i, want := range []uint64{0, 2, 4} {
		if fired[i] != want {
			t.Fatalf("shot %d: expected at elapsed %d, got %d", i, want, fired[i])
		}
	}
	for i, want := range []float64{-math.Pi / 4, 0, math.Pi / 4} {
		if geometry.AngleDiff(angles[i], want) > 1e-9 {
			t.Fatalf("shot %d: expected angle %f, got %f", i, want, angles[i])
		}
	}
}

func TestTeleportTruncatesToMaxRange(t *testing.T) {
	blink := &contract.Spell{ID: "blink", Kind: contract.KindTeleport, Teleport: &contract.TeleportTemplate{MaxRange: 0.1}}
	w := newTestWorld(t, Config{})
	a := joinHeroes(t, w, "a")[0]
	center := w.Center()
	placeAt(a, center)
	w.DrainEvents()

	if !w.channel(a, channelling(w, blink, center.Add(geometry.V(0.3, 0.4)))) {
		t.Fatalf("a teleport completes in one tick")
	}
	w.flushMotions()
	want := center.Add(geometry.V(0.06, 0.08))
	if geometry.Distance(a.Position(), want) > 1e-9 {
		t.Fatalf("expected a truncated jump to %v, got %v", want, a.Position())
	}
	var jump *TeleportEvent
	for _, e := range w.DrainEvents() {
		if tp, ok := e.(*TeleportEvent); ok {
			jump = tp
		}
	}
	if jump == nil || jump.From != center || geometry.Distance(jump.To, want) > 1e-9 {
		t.Fatalf("expected a teleport event from %v to %v, got %+v", center, want, jump)
	}

	short := a.Position().Add(geometry.V(0.03, -0.04))
	w.channel(a, channelling(w, blink, short))
	w.flushMotions()
	if geometry.Distance(a.Position(), short) > 1e-9 {
		t.Fatalf("expected a jump inside the range to land on target, got %v", a.Position())
	}
}

func TestWallIsPlacedAcrossAimWithinRange(t *testing.T) {
	spell := &contract.Spell{ID: "wall", Kind: contract.KindWall, MaxChannellingTicks: 3, Wall: &contract.WallTemplate{
		Length:   0.1,
		Width:    0.01,
		MaxRange: 0.2,
		MaxTicks: 90,
	}}
	w := newTestWorld(t, Config{})
	a := joinHeroes(t, w, "a")[0]
	center := w.Center()
	placeAt(a, center)
	cast := channelling(w, spell, center.Add(geometry.V(0.5, 0)))

	if w.channel(a, cast) {
		t.Fatalf("expected the wall spell to hold the channel for 3 ticks")
	}
	var wall *Shield
	for _, obj := range w.Objects() {
		if s, ok := obj.(*Shield); ok && s.Kind == ShieldWall {
			wall = s
		}
	}
	if wall == nil {
		t.Fatalf("expected a wall")
	}
	if geometry.Distance(wall.Position(), center.Add(geometry.V(0.2, 0))) > 1e-9 {
		t.Fatalf("expected the wall at max range, got %v", wall.Position())
	}
	if geometry.AngleDiff(wall.Body().Angle(), math.Pi/2) > 1e-9 {
		t.Fatalf("expected the wall across the aim line, got angle %f", wall.Body().Angle())
	}
	if wall.OwnerID != "a" || wall.ExpireTick != w.Tick()+90 {
		t.Fatalf("unexpected wall %+v", wall)
	}

	advance(w, 3)
	if !w.channel(a, cast) {
		t.Fatalf("expected the channel to end after 3 ticks")
	}
	if got := countObjects[*Shield](w); got != 1 {
		t.Fatalf("a held channel must not place more walls, got %d shields", got)
	}
}

func TestThrustDurationFollowsDistance(t *testing.T) {
	dash := contract.Spell{ID: "dash", Kind: contract.KindThrust, Thrust: &contract.ThrustTemplate{Speed: 1.2, MaxTicks: 15, Damage: 8}}
	w := newTestWorld(t, Config{}, dash)
	a := joinHeroes(t, w, "a")[0]
	center := w.Center()
	placeAt(a, center)
	spell, _ := w.rules.Spell("dash")

	w.startThrust(a, spell, center.Add(geometry.V(0, 0.6)), 2)
	thrust := a.Thrust
	if thrust.EndTick != w.Tick()+15 {
		t.Fatalf("expected a long dash to be capped at 15 ticks, got %d", thrust.EndTick-w.Tick())
	}
	if geometry.AngleDiff(geometry.Angle(thrust.Velocity), math.Pi/2) > 1e-9 || math.Abs(thrust.Velocity.Len()-1.2) > 1e-9 {
		t.Fatalf("unexpected thrust velocity %v", thrust.Velocity)
	}
	if thrust.Damage != 16 {
		t.Fatalf("expected charged damage 16, got %f", thrust.Damage)
	}

	w.startThrust(a, spell, center.Add(geometry.V(0.1, 0)), 1)
	if ticks := a.Thrust.EndTick - w.Tick(); ticks < 5 || ticks > 6 {
		t.Fatalf("expected a short dash to last about 5 ticks, got %d", ticks)
	}
}

func TestThrustCastDamagesHeroInPath(t *testing.T) {
	dash := contract.Spell{ID: "dash", Kind: contract.KindThrust, Thrust: &contract.ThrustTemplate{Speed: 1.2, MaxTicks: 15, Damage: 8}}
	w := newTestWorld(t, Config{}, dash)
	heroes := joinHeroes(t, w, "a", "b")
	a, b := heroes[0], heroes[1]
	a.KeysToSpells["w"] = "dash"
	center := w.Center()
	placeAt(a, center.Sub(geometry.V(0.1, 0)))
	placeAt(b, center)
	a.Body().SetAngle(0)

	w.Step(TickInput{Actions: []ActionMessage{castAction("a", "dash", w)}})
	for i := 0; i < 30 && a.Casting != nil; i++ {
		w.Step(TickInput{})
	}
	if a.Casting != nil || a.Thrust != nil {
		t.Fatalf("expected the dash to finish")
	}
	assertHealth(t, b, 92)
	if geometry.Distance(a.Position(), center) >= 0.1 {
		t.Fatalf("expected a to have moved towards b, at %v", a.Position())
	}
}
