package world

import (
	"fmt"
	"math"

	"github.com/justchen1369/acolyte-fight-sub000/logging"
	statuslog "github.com/justchen1369/acolyte-fight-sub000/logging/status_effects"
	"github.com/justchen1369/acolyte-fight-sub000/spells/contract"
)

// Buff is a temporary modifier attached to a hero. Stacked buffs share one
// entry and combine their numeric fields.
type Buff struct {
	ID           string
	Type         contract.BuffType
	SourceHeroID string
	SpellID      string
	Template     contract.BuffTemplate
	InitialTick  uint64
	ExpireTick   uint64
	Stacks       int

	Movement     float64
	Armor        float64
	BurnDamage   float64
	LifeSteal    float64
	CooldownRate float64
	Density      float64
}

// applyBuffs attaches every template whose alliance filter matches target.
func (w *World) applyBuffs(target *Hero, fromID, spellID string, templates []contract.BuffTemplate, fallback Alliance) {
	if target == nil || !target.Alive() {
		return
	}
	alliance := w.alliance(fromID, target.id)
	for i := range templates {
		tmpl := &templates[i]
		if allianceMask(tmpl.Against, fallback)&alliance == 0 {
			continue
		}
		w.applyBuff(target, fromID, spellID, tmpl)
	}
}

func (w *World) applyBuff(target *Hero, fromID, spellID string, tmpl *contract.BuffTemplate) {
	if tmpl.Type == contract.BuffCleanse {
		target.CleanseTick = w.tick
		return
	}
	expireTick := w.tick + uint64(tmpl.MaxTicks)

	if tmpl.Stack != "" {
		if existing, ok := target.Buffs[tmpl.Stack]; ok {
			if tmpl.MaxStacks == 0 || existing.Stacks < tmpl.MaxStacks {
				existing.Stacks++
				existing.combine(tmpl)
			}
			existing.ExpireTick = expireTick
			existing.SourceHeroID = fromID
			w.publishBuffApplied(target, existing)
			return
		}
	}

	id := tmpl.Stack
	if id == "" {
		w.nextObjectID++
		id = fmt.Sprintf("%s/%s/%d", spellID, tmpl.Type, w.nextObjectID)
	}
	buff := &Buff{
		ID:           id,
		Type:         tmpl.Type,
		SourceHeroID: fromID,
		SpellID:      spellID,
		Template:     *tmpl,
		InitialTick:  w.tick,
		ExpireTick:   expireTick,
		Stacks:       1,
		Movement:     1,
	}
	buff.combine(tmpl)
	target.Buffs[id] = buff
	if buff.Type == contract.BuffMass {
		w.refreshDensity(target)
	}
	w.publishBuffApplied(target, buff)
}

func (b *Buff) combine(tmpl *contract.BuffTemplate) {
	if tmpl.Movement > 0 {
		b.Movement *= tmpl.Movement
	}
	b.Armor += tmpl.Armor
	b.BurnDamage += tmpl.BurnDamage
	b.LifeSteal += tmpl.LifeSteal
	b.CooldownRate += tmpl.CooldownRate
	b.Density = math.Max(b.Density, tmpl.Density)
}

func (w *World) publishBuffApplied(target *Hero, buff *Buff) {
	statuslog.Applied(w.ctx(), w.publisher, w.tick, w.heroRef(buff.SourceHeroID), logging.Hero(target.id), statuslog.AppliedPayload{
		Buff:     buff.ID,
		Type:     string(buff.Type),
		SourceID: buff.SourceHeroID,
		MaxTicks: buff.Template.MaxTicks,
		Stacks:   buff.Stacks,
	}, nil)
}

// updateBuffs removes finished buffs and ticks burn damage.
func (w *World) updateBuffs(hero *Hero) {
	for _, id := range sortedKeys(hero.Buffs) {
		buff, ok := hero.Buffs[id]
		if !ok {
			continue
		}
		if reason := w.buffExpiry(hero, buff); reason != "" {
			delete(hero.Buffs, id)
			if buff.Type == contract.BuffMass {
				w.refreshDensity(hero)
			}
			statuslog.Expired(w.ctx(), w.publisher, w.tick, logging.Hero(hero.id), statuslog.ExpiredPayload{Buff: id, Reason: reason}, nil)
			continue
		}
		if buff.Type == contract.BuffBurn && buff.BurnDamage > 0 {
			interval := uint64(max(1, buff.Template.HitIntervalTicks))
			if elapsed := w.tick - buff.InitialTick; elapsed > 0 && elapsed%interval == 0 {
				w.applyDamage(hero, DamagePacket{
					FromHeroID:  buff.SourceHeroID,
					SpellID:     buff.SpellID,
					Damage:      buff.BurnDamage,
					NoHit:       true,
					NoKnockback: true,
				})
			}
		}
	}
}

func (w *World) buffExpiry(hero *Hero, buff *Buff) string {
	switch {
	case w.tick >= buff.ExpireTick:
		return "expired"
	case hero.CleanseTick > buff.InitialTick:
		return "cleansed"
	case buff.Template.CancelOnHit && hero.HitTick > buff.InitialTick:
		return "hit"
	case buff.Template.Channelling && !w.isChannelling(hero.id, buff.SpellID):
		return "channelling"
	default:
		return ""
	}
}

// buffsOfType lists a hero's buffs of one type in id order so that sums are
// reproducible.
func buffsOfType(hero *Hero, typ contract.BuffType) []*Buff {
	var out []*Buff
	for _, id := range sortedKeys(hero.Buffs) {
		if buff := hero.Buffs[id]; buff.Type == typ {
			out = append(out, buff)
		}
	}
	return out
}

func (w *World) movementMultiplier(hero *Hero) float64 {
	multiplier := 1.0
	for _, buff := range buffsOfType(hero, contract.BuffMovement) {
		multiplier *= buff.Movement
	}
	return multiplier
}

func (w *World) buffLifeSteal(hero *Hero) float64 {
	total := 0.0
	for _, buff := range buffsOfType(hero, contract.BuffLifeSteal) {
		total += buff.LifeSteal
	}
	return total
}

func (w *World) cooldownRate(hero *Hero) float64 {
	rate := 1.0
	for _, buff := range buffsOfType(hero, contract.BuffCooldown) {
		rate += buff.CooldownRate
	}
	return math.Max(0, rate)
}

// Vanished heroes cannot be targeted by homing or retargeting.
func (w *World) vanished(hero *Hero) bool {
	return len(buffsOfType(hero, contract.BuffVanish)) > 0
}

func (w *World) refreshDensity(hero *Hero) {
	density := hero.Density
	for _, buff := range buffsOfType(hero, contract.BuffMass) {
		density = math.Max(density, buff.Density)
	}
	hero.body.SetDensity(density)
}
