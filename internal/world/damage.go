package world

import (
	"math"

	"github.com/justchen1369/acolyte-fight-sub000/logging"
	"github.com/justchen1369/acolyte-fight-sub000/logging/combat"
	"github.com/justchen1369/acolyte-fight-sub000/spells/contract"
)

// DamagePacket is one application of damage to a hero. An empty FromHeroID
// means the environment.
type DamagePacket struct {
	FromHeroID string
	SpellID    string
	Damage     float64
	LifeSteal  float64
	// MinHealth stops the packet taking the target below this health.
	MinHealth float64

	IsLava      bool
	NoHit       bool
	NoKnockback bool
	NoMitigate  bool
	NoRedirect  bool
}

type damageRecord struct {
	tick   uint64
	fromID string
	amount float64
}

// applyDamage runs the damage pipeline and returns the health the target
// actually lost.
func (w *World) applyDamage(target *Hero, packet DamagePacket) float64 {
	if target == nil || !target.Alive() {
		return 0
	}
	fromOther := packet.FromHeroID != "" && packet.FromHeroID != target.id
	if !packet.NoHit {
		target.HitTick = w.tick
	}
	if fromOther {
		target.KillerHeroID = packet.FromHeroID
		if !packet.NoKnockback {
			target.KnockbackHeroID = packet.FromHeroID
		}
	}
	if !w.Started() || packet.Damage <= 0 {
		return 0
	}

	amount := w.applyArmor(target, packet.FromHeroID, packet.Damage)
	if !packet.NoMitigate && !packet.IsLava && fromOther {
		amount = w.mitigate(target, packet.FromHeroID, amount)
	}

	redirected := 0.0
	if !packet.NoRedirect && target.Link != nil && target.Link.Template.RedirectDamageProportion > 0 {
		if partner, ok := w.Hero(target.Link.TargetID); ok {
			redirected = amount * target.Link.Template.RedirectDamageProportion
			amount -= redirected
			w.applyDamage(partner, DamagePacket{
				FromHeroID:  packet.FromHeroID,
				SpellID:     packet.SpellID,
				Damage:      redirected,
				NoHit:       true,
				NoKnockback: true,
				NoMitigate:  true,
				NoRedirect:  true,
			})
		}
	}

	if packet.MinHealth > 0 {
		amount = math.Max(0, math.Min(amount, target.Health-packet.MinHealth))
	}
	before := target.Health
	target.Health = math.Min(target.MaxHealth, target.Health-amount)
	applied := before - target.Health

	combat.Damage(w.ctx(), w.publisher, w.tick, w.heroRef(packet.FromHeroID), logging.Hero(target.id), combat.DamagePayload{
		Spell:        packet.SpellID,
		Requested:    packet.Damage,
		Amount:       applied,
		Redirected:   redirected,
		TargetHealth: target.Health,
		Lava:         packet.IsLava,
	}, nil)

	if applied > 0 && packet.FromHeroID != "" {
		w.applyLifeSteal(packet, applied)
	}
	if fromOther && w.winner == "" && applied > 0 {
		w.score(packet.FromHeroID).Damage += applied
	}
	return applied
}

// applyArmor scales damage by the summed armor of the target's buffs.
// Source specific armor only counts against its own source.
func (w *World) applyArmor(target *Hero, fromID string, amount float64) float64 {
	armor := 0.0
	for _, buff := range buffsOfType(target, contract.BuffArmor) {
		if buff.Template.SourceSpecific && buff.SourceHeroID != fromID {
			continue
		}
		armor += buff.Armor
	}
	return math.Max(0, amount*(1-armor))
}

// mitigate stops damage from concurrent sources stacking. Each source's
// damage inside the mitigation window accumulates, and the target only loses
// the increase in the largest per-source total.
func (w *World) mitigate(target *Hero, fromID string, amount float64) float64 {
	window := uint64(w.settings.World.DamageMitigationTicks)
	totals := make(map[string]float64)
	for _, record := range target.damageHistory {
		if record.tick+window > w.tick {
			totals[record.fromID] += record.amount
		}
	}
	previous := 0.0
	for _, total := range totals {
		previous = math.Max(previous, total)
	}
	totals[fromID] += amount
	current := math.Max(previous, totals[fromID])
	target.damageHistory = append(target.damageHistory, damageRecord{tick: w.tick, fromID: fromID, amount: amount})
	return math.Max(0, current-previous)
}

func (w *World) decayMitigation(hero *Hero) {
	window := uint64(w.settings.World.DamageMitigationTicks)
	kept := hero.damageHistory[:0]
	for _, record := range hero.damageHistory {
		if record.tick+window > w.tick {
			kept = append(kept, record)
		}
	}
	hero.damageHistory = kept
}

func (w *World) applyLifeSteal(packet DamagePacket, applied float64) {
	source, ok := w.Hero(packet.FromHeroID)
	if !ok {
		return
	}
	proportion := packet.LifeSteal + w.buffLifeSteal(source)
	if proportion <= 0 {
		return
	}
	before := source.Health
	source.Health = math.Min(source.MaxHealth, source.Health+applied*proportion)
	healed := source.Health - before
	if healed <= 0 {
		return
	}
	w.emit(&LifeStealEvent{eventBase: eventBase{Tick: w.tick}, HeroID: source.id, Amount: healed})
	combat.LifeSteal(w.ctx(), w.publisher, w.tick, logging.Hero(source.id), combat.LifeStealPayload{Amount: healed}, nil)
	if w.winner == "" {
		w.score(source.id).LifeSteal += healed
	}
}

// damageObstacle wears down a destructible obstacle. The reaper removes it
// once health reaches zero.
func (w *World) damageObstacle(obstacle *Obstacle, amount float64) {
	if !obstacle.Destructible() || amount <= 0 || !w.Started() {
		return
	}
	obstacle.Health = math.Max(0, obstacle.Health-amount)
}

func (w *World) heroRef(heroID string) logging.EntityRef {
	if heroID == "" {
		return logging.World()
	}
	return logging.Hero(heroID)
}
