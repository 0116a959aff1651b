package world

import (
	"github.com/justchen1369/acolyte-fight-sub000/internal/geometry"
	"github.com/justchen1369/acolyte-fight-sub000/spells/contract"
)

// channel runs one tick of the spell's effect and reports whether the
// channelling stage is over.
func (w *World) channel(hero *Hero, cast *CastState) bool {
	spell := cast.Spell
	elapsed := w.tick - cast.ChannellingStartTick
	first := !cast.started
	cast.started = true
	target := cast.Action.Target

	switch spell.Kind {
	case contract.KindMove:
		return w.channelMove(hero, target)

	case contract.KindProjectile:
		if first {
			w.spawnProjectile(hero, spell.ID, spell.Projectile, target, 0, cast.ChargeMultiplier)
		}
		return channelHeld(spell, elapsed)

	case contract.KindSpray:
		return w.channelSpray(hero, cast, elapsed)

	case contract.KindThrust:
		if first {
			w.startThrust(hero, spell, target, cast.ChargeMultiplier)
			return false
		}
		return hero.Thrust == nil

	case contract.KindTeleport:
		from := hero.Position()
		offset := geometry.Truncate(target.Sub(from), spell.Teleport.MaxRange)
		w.queueOffset(hero.id, offset)
		w.emit(&TeleportEvent{eventBase: eventBase{Tick: w.tick}, HeroID: hero.id, From: from, To: from.Add(offset)})
		return true

	case contract.KindWall:
		if first {
			w.placeWall(hero, spell.ID, spell.Wall, target)
		}
		return channelHeld(spell, elapsed)

	case contract.KindShield:
		if first {
			w.raiseShield(hero, spell.ID, spell.Shield)
		}
		return channelHeld(spell, elapsed)

	case contract.KindSaber:
		if first {
			w.drawSaber(hero, spell.ID, spell.Saber)
		}
		return channelHeld(spell, elapsed)

	case contract.KindBuff:
		if first {
			w.applyBuffs(hero, hero.id, spell.ID, spell.Buffs, AllianceSelf)
		}
		return channelHeld(spell, elapsed)

	case contract.KindScourge:
		scourge := spell.Scourge
		w.applyDamage(hero, DamagePacket{
			FromHeroID:  hero.id,
			SpellID:     spell.ID,
			Damage:      scourge.SelfDamage,
			MinHealth:   scourge.MinSelfHealth,
			NoKnockback: true,
			NoMitigate:  true,
			NoRedirect:  true,
		})
		w.detonate(hero.id, hero.id, spell.ID, hero.Position(), &scourge.Detonate, cast.ChargeMultiplier)
		return true

	default:
		return true
	}
}

// channelHeld keeps a one-shot spell in channelling for its configured
// duration.
func channelHeld(spell *contract.Spell, elapsed uint64) bool {
	return elapsed >= uint64(spell.MaxChannellingTicks)
}

// channelMove walks the hero towards target and completes on arrival.
func (w *World) channelMove(hero *Hero, target geometry.Vec) bool {
	offset := target.Sub(hero.Position())
	distance := offset.Len()
	step := hero.MoveSpeed * w.movementMultiplier(hero) / float64(w.settings.World.TicksPerSecond)
	if distance <= step {
		w.queueOffset(hero.id, offset)
		return true
	}
	hero.body.SetAngle(geometry.Angle(offset))
	w.queueOffset(hero.id, geometry.WithLength(offset, step))
	return false
}

// channelSpray fires one projectile every interval, sweeping across the
// spread arc.
func (w *World) channelSpray(hero *Hero, cast *CastState, elapsed uint64) bool {
	spray := cast.Spell.Spray
	interval := uint64(max(1, spray.IntervalTicks))
	length := uint64(max(1, spray.LengthTicks))
	if elapsed < length && elapsed%interval == 0 {
		shots := max(1, (length+interval-1)/interval)
		offset := 0.0
		if shots > 1 {
			t := float64(cast.emitted) / float64(shots-1)
			offset = geometry.RevsToRadians(spray.SpreadRevs) * (t - 0.5)
		}
		w.spawnProjectile(hero, cast.Spell.ID, &spray.Projectile, cast.Action.Target, offset, cast.ChargeMultiplier)
		cast.emitted++
	}
	if elapsed+1 >= length {
		return true
	}
	return cast.Spell.MaxChannellingTicks > 0 && elapsed+1 >= uint64(cast.Spell.MaxChannellingTicks)
}

func (w *World) startThrust(hero *Hero, spell *contract.Spell, target geometry.Vec, multiplier float64) {
	thrust := spell.Thrust
	offset := target.Sub(hero.Position())
	tps := w.settings.World.TicksPerSecond
	ticks := min(uint64(thrust.MaxTicks), ceilTicks(offset.Len()/thrust.Speed, tps))
	direction := geometry.Angle(offset)
	if geometry.LengthSquared(offset) == 0 {
		direction = hero.Angle()
	}
	hero.Thrust = &ThrustState{
		SpellID:   spell.ID,
		Velocity:  geometry.FromAngle(direction, thrust.Speed),
		Damage:    thrust.Damage * multiplier,
		StartTick: w.tick,
		EndTick:   w.tick + ticks,
		hits:      make(hitLookup),
	}
	hero.body.SetAngle(direction)
	w.addBehaviour(ThrustBehaviour{HeroID: hero.id})
	w.addBehaviour(ThrustDecayBehaviour{HeroID: hero.id})
}
