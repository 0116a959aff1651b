package world

import (
	"math"
	"testing"

	"github.com/justchen1369/acolyte-fight-sub000/spells/contract"
)

func TestStackedBuffsSumUpToMaxStacks(t *testing.T) {
	w := newTestWorld(t, Config{})
	a := joinHeroes(t, w, "a")[0]
	tmpl := &contract.BuffTemplate{Type: contract.BuffArmor, Stack: "ward", MaxStacks: 2, MaxTicks: 30, Armor: 0.1}

	w.applyBuff(a, "a", "ward", tmpl)
	w.applyBuff(a, "a", "ward", tmpl)
	advance(w, 5)
	w.applyBuff(a, "a", "ward", tmpl)

	if len(a.Buffs) != 1 {
		t.Fatalf("expected one stacked entry, got %d", len(a.Buffs))
	}
	buff := a.Buffs["ward"]
	if buff == nil || buff.Stacks != 2 {
		t.Fatalf("expected the stack to cap at 2, got %+v", buff)
	}
	if math.Abs(buff.Armor-0.2) > 1e-9 {
		t.Fatalf("expected summed armor 0.2, got %f", buff.Armor)
	}
	if buff.ExpireTick != w.Tick()+30 {
		t.Fatalf("expected reapplying to refresh the expiry to %d, got %d", w.Tick()+30, buff.ExpireTick)
	}

	w.applyDamage(a, DamagePacket{Damage: 10})
	assertHealth(t, a, 92)
}

func TestUnstackedBuffsAreSeparate(t *testing.T) {
	w := newTestWorld(t, Config{})
	a := joinHeroes(t, w, "a")[0]
	slow := &contract.BuffTemplate{Type: contract.BuffMovement, MaxTicks: 60, Movement: 0.5}

	w.applyBuff(a, "a", "slow", slow)
	w.applyBuff(a, "a", "slow", slow)
	if len(a.Buffs) != 2 {
		t.Fatalf("expected two independent buffs, got %d", len(a.Buffs))
	}
	if got := w.movementMultiplier(a); math.Abs(got-0.25) > 1e-9 {
		t.Fatalf("expected movement multipliers to compound to 0.25, got %f", got)
	}
}

func TestBuffExpiresAfterMaxTicks(t *testing.T) {
	w := newTestWorld(t, Config{})
	a := joinHeroes(t, w, "a")[0]
	w.applyBuff(a, "a", "haste", &contract.BuffTemplate{Type: contract.BuffMovement, MaxTicks: 5, Movement: 2})

	advance(w, 4)
	if len(a.Buffs) != 1 {
		t.Fatalf("tick %d: buff expired early", w.Tick())
	}
	advance(w, 1)
	if len(a.Buffs) != 0 {
		t.Fatalf("tick %d: expected the buff to expire after 5 ticks", w.Tick())
	}
	if got := w.movementMultiplier(a); got != 1 {
		t.Fatalf("expected movement back to 1, got %f", got)
	}
}

func TestCleanseRemovesOnlyEarlierBuffs(t *testing.T) {
	w := newTestWorld(t, Config{})
	a := joinHeroes(t, w, "a")[0]
	w.applyBuff(a, "b", "slow", &contract.BuffTemplate{Type: contract.BuffMovement, MaxTicks: 600, Movement: 0.5})
	advance(w, 1)

	w.applyBuff(a, "a", "cleanse", &contract.BuffTemplate{Type: contract.BuffCleanse, MaxTicks: 1})
	w.applyBuff(a, "a", "haste", &contract.BuffTemplate{Type: contract.BuffMovement, MaxTicks: 600, Movement: 2})
	if a.CleanseTick != w.Tick() {
		t.Fatalf("expected cleanse tick %d, got %d", w.Tick(), a.CleanseTick)
	}
	if len(a.Buffs) != 2 {
		t.Fatalf("a cleanse must not be stored as a buff, got %d buffs", len(a.Buffs))
	}

	advance(w, 1)
	if len(a.Buffs) != 1 {
		t.Fatalf("expected only the buff applied with the cleanse to remain, got %d", len(a.Buffs))
	}
	if got := w.movementMultiplier(a); got != 2 {
		t.Fatalf("expected the haste to survive, got multiplier %f", got)
	}
}

func TestCancelOnHitIgnoresNoHitDamage(t *testing.T) {
	w := newTestWorld(t, Config{})
	heroes := joinHeroes(t, w, "a", "b")
	a := heroes[0]
	w.applyBuff(a, "a", "vanish", &contract.BuffTemplate{Type: contract.BuffVanish, MaxTicks: 600, CancelOnHit: true})
	w.applyBuff(a, "a", "ward", &contract.BuffTemplate{Type: contract.BuffArmor, MaxTicks: 600, Armor: 0.1})
	advance(w, 1)

	w.applyDamage(a, DamagePacket{Damage: 3, IsLava: true, NoHit: true})
	advance(w, 1)
	if !w.vanished(a) {
		t.Fatalf("damage without a hit must not cancel the buff")
	}

	w.applyDamage(a, DamagePacket{FromHeroID: "b", Damage: 5})
	advance(w, 1)
	if w.vanished(a) {
		t.Fatalf("expected the hit to cancel the vanish")
	}
	if len(buffsOfType(a, contract.BuffArmor)) != 1 {
		t.Fatalf("buffs without cancel on hit must survive the hit")
	}
}

func TestChannellingBuffEndsWithTheChannel(t *testing.T) {
	focus := contract.Spell{
		ID:                  "focus",
		Kind:                contract.KindBuff,
		Untargeted:          true,
		MaxChannellingTicks: 10,
		Buffs: []contract.BuffTemplate{
			{Type: contract.BuffMovement, MaxTicks: 600, Movement: 0.5, Channelling: true},
		},
	}
	w := newTestWorld(t, Config{}, focus)
	hero := joinHeroes(t, w, "a")[0]
	hero.KeysToSpells["w"] = "focus"

	w.Step(TickInput{Actions: []ActionMessage{castAction("a", "focus", w)}})
	advance(w, 5)
	if got := w.movementMultiplier(hero); got != 0.5 {
		t.Fatalf("expected the buff while channelling, got multiplier %f", got)
	}

	for i := 0; i < 20 && hero.Casting != nil; i++ {
		w.Step(TickInput{})
	}
	if hero.Casting != nil {
		t.Fatalf("expected the channel to finish")
	}
	if len(hero.Buffs) != 0 {
		t.Fatalf("expected the channelling buff to end with the channel, got %d buffs", len(hero.Buffs))
	}
}

func TestBurnTicksOnInterval(t *testing.T) {
	w := newTestWorld(t, Config{})
	heroes := joinHeroes(t, w, "a", "b")
	a := heroes[0]
	w.applyBuff(a, "b", "ignite", &contract.BuffTemplate{Type: contract.BuffBurn, MaxTicks: 21, BurnDamage: 2, HitIntervalTicks: 5})

	advance(w, 25)
	assertHealth(t, a, 92)
	if len(a.Buffs) != 0 {
		t.Fatalf("expected the burn to expire")
	}
	if a.HitTick != 0 {
		t.Fatalf("burn damage must not register as a hit, got hit tick %d", a.HitTick)
	}
	if a.KillerHeroID != "b" {
		t.Fatalf("expected the burn source to be credited, got %q", a.KillerHeroID)
	}
}

func TestMassBuffRaisesDensityUntilExpiry(t *testing.T) {
	w := newTestWorld(t, Config{})
	a := joinHeroes(t, w, "a")[0]
	before := a.Body().Mass()

	w.applyBuff(a, "a", "anchor", &contract.BuffTemplate{Type: contract.BuffMass, MaxTicks: 3, Density: a.Density * 4})
	if got := a.Body().Mass(); got <= before {
		t.Fatalf("expected mass above %f, got %f", before, got)
	}
	advance(w, 3)
	if got := a.Body().Mass(); math.Abs(got-before) > 1e-9 {
		t.Fatalf("expected mass back to %f after expiry, got %f", before, got)
	}
}
