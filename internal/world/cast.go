package world

import (
	"math"

	"github.com/justchen1369/acolyte-fight-sub000/internal/geometry"
	"github.com/justchen1369/acolyte-fight-sub000/logging"
	spellslog "github.com/justchen1369/acolyte-fight-sub000/logging/spells"
	"github.com/justchen1369/acolyte-fight-sub000/spells/contract"
)

// CastStage is the position of a cast in the state machine. Stages only move
// forward.
type CastStage int

const (
	StageNone CastStage = iota
	StageCooldown
	StageThrottle
	StageOrientating
	StageCharging
	StageChannelling
	StageComplete
)

func (s CastStage) String() string {
	switch s {
	case StageCooldown:
		return "cooldown"
	case StageThrottle:
		return "throttle"
	case StageOrientating:
		return "orientating"
	case StageCharging:
		return "charging"
	case StageChannelling:
		return "channelling"
	case StageComplete:
		return "complete"
	default:
		return "none"
	}
}

// Action is the latest intent received for a hero.
type Action struct {
	Seq     uint64
	SpellID string
	Target  geometry.Vec
	Release bool

	flashed bool
}

// CastState is a cast that has cleared its cooldown.
type CastState struct {
	Action Action
	Spell  *contract.Spell
	Stage  CastStage

	ChargeStartTick      uint64
	ChannellingStartTick uint64
	// ChargeMultiplier scales the spell's effect once charging is done.
	ChargeMultiplier float64

	started bool
	emitted int
}

// Uninterruptible reports whether a different action must wait for this cast.
func (c *CastState) Uninterruptible() bool {
	switch c.Stage {
	case StageCharging, StageChannelling:
		return !c.Spell.Interruptible
	default:
		return false
	}
}

// CastStage reports where the hero's current intent sits in the state
// machine, including an action held back by its cooldown.
func (w *World) CastStage(heroID string) CastStage {
	hero, ok := w.Hero(heroID)
	if !ok {
		return StageNone
	}
	if hero.Casting != nil {
		return hero.Casting.Stage
	}
	if action, ok := w.actions[heroID]; ok && hero.Cooldowns[action.SpellID] > 0 {
		return StageCooldown
	}
	return StageNone
}

// applyCasts advances every hero's cast by one tick, in creation order.
func (w *World) applyCasts() {
	for _, hero := range w.Heroes() {
		w.applyAction(hero)
	}
}

func (w *World) applyAction(hero *Hero) {
	action := w.actions[hero.id]
	if cast := hero.Casting; cast != nil && action != nil && action.Seq != cast.Action.Seq {
		switch {
		case action.SpellID == cast.Spell.ID:
			cast.Action.Seq = action.Seq
			cast.Action.Target = action.Target
			cast.Action.Release = cast.Action.Release || action.Release
		case !cast.Uninterruptible():
			w.interruptCast(hero, "replaced")
		}
	}

	if hero.Casting == nil {
		if action == nil {
			return
		}
		spell, ok := w.rules.Spell(action.SpellID)
		if !ok {
			delete(w.actions, hero.id)
			return
		}
		if cooldown := hero.Cooldowns[spell.ID]; cooldown > 0 {
			w.holdForCooldown(hero, action, cooldown)
			return
		}
		hero.Casting = &CastState{Action: *action, Spell: spell, Stage: StageThrottle, ChargeMultiplier: 1}
	}
	w.advanceCast(hero)
}

// holdForCooldown keeps the action pending until its cooldown clears, or
// abandons it when the wait would be too long.
func (w *World) holdForCooldown(hero *Hero, action *Action, cooldown float64) {
	if cooldown > float64(w.settings.World.MaxCooldownWaitTicks) {
		delete(w.actions, hero.id)
		w.emit(&CastFailedEvent{eventBase: eventBase{Tick: w.tick}, HeroID: hero.id, SpellID: action.SpellID, Reason: "cooldown"})
		spellslog.CastFailed(w.ctx(), w.publisher, w.tick, logging.Hero(hero.id), spellslog.CastPayload{
			Spell:  action.SpellID,
			Stage:  StageCooldown.String(),
			Reason: "cooldown",
		})
		return
	}
	if !action.flashed {
		action.flashed = true
		w.emit(&CooldownFlashEvent{eventBase: eventBase{Tick: w.tick}, HeroID: hero.id, SpellID: action.SpellID})
	}
}

func (w *World) interruptCast(hero *Hero, reason string) {
	cast := hero.Casting
	if cast == nil {
		return
	}
	if cast.Stage >= StageCharging && cast.Spell.CancelCooldownTicks != nil {
		hero.Cooldowns[cast.Spell.ID] = float64(*cast.Spell.CancelCooldownTicks)
	}
	hero.Casting = nil
	spellslog.CastInterrupted(w.ctx(), w.publisher, w.tick, logging.Hero(hero.id), spellslog.CastPayload{
		Spell:  cast.Spell.ID,
		Stage:  cast.Stage.String(),
		Reason: reason,
	})
}

// advanceCast moves the cast through as many stages as it can this tick.
func (w *World) advanceCast(hero *Hero) {
	for hero.Casting != nil {
		cast := hero.Casting
		spell := cast.Spell
		switch cast.Stage {
		case StageThrottle:
			if spell.Throttle {
				if w.tick < hero.throttleUntil {
					return
				}
				hero.throttleUntil = w.tick + uint64(w.settings.World.ThrottleTicks)
			}
			cast.Stage = StageOrientating

		case StageOrientating:
			if !spell.Untargeted && !w.turnTowards(hero, cast.Action.Target, spell) {
				return
			}
			cast.Stage = StageCharging
			cast.ChargeStartTick = w.tick

		case StageCharging:
			if spell.ChargeTicks > 0 {
				elapsed := w.tick - cast.ChargeStartTick
				released := spell.Releasable && cast.Action.Release
				if elapsed < uint64(spell.ChargeTicks) && !released {
					return
				}
				cast.ChargeMultiplier = chargeMultiplier(spell, float64(elapsed)/float64(spell.ChargeTicks))
			} else if spell.ChargeScaling != nil {
				cast.ChargeMultiplier = spell.ChargeScaling.Final
			}
			cast.Stage = StageChannelling
			cast.ChannellingStartTick = w.tick
			hero.Cooldowns[spell.ID] = float64(spell.CooldownTicks)
			spellslog.CastStarted(w.ctx(), w.publisher, w.tick, logging.Hero(hero.id), spellslog.CastPayload{
				Spell:  spell.ID,
				Stage:  StageChannelling.String(),
				Charge: cast.ChargeMultiplier,
			})

		case StageChannelling:
			if !w.channel(hero, cast) {
				return
			}
			cast.Stage = StageComplete

		case StageComplete:
			if action, ok := w.actions[hero.id]; ok && action.Seq == cast.Action.Seq {
				delete(w.actions, hero.id)
			}
			hero.Casting = nil
			return

		default:
			hero.Casting = nil
			return
		}
	}
}

// chargeMultiplier interpolates the charge scaling for a charge proportion.
func chargeMultiplier(spell *contract.Spell, proportion float64) float64 {
	if spell.ChargeScaling == nil {
		return 1
	}
	proportion = geometry.Clamp(proportion, 0, 1)
	scaling := spell.ChargeScaling
	return scaling.Initial + (scaling.Final-scaling.Initial)*proportion
}

// turnTowards rotates the hero by at most its turn rate and reports whether
// it now faces target within the spell's tolerance.
func (w *World) turnTowards(hero *Hero, target geometry.Vec, spell *contract.Spell) bool {
	offset := target.Sub(hero.Position())
	if geometry.LengthSquared(offset) == 0 {
		return true
	}
	want := geometry.Angle(offset)
	maxTurn := geometry.RevsToRadians(w.settings.Hero.TurnRateRevs)
	hero.body.SetAngle(geometry.TurnTowards(hero.Angle(), want, maxTurn))

	tolerance := spell.MaxAngleDiffInRevs
	if tolerance <= 0 {
		tolerance = w.settings.Hero.MaxAngleDiffInRevs
	}
	return geometry.AngleDiff(hero.Angle(), want) <= geometry.RevsToRadians(tolerance)+1e-9
}

func (w *World) isChannelling(heroID, spellID string) bool {
	hero, ok := w.Hero(heroID)
	if !ok || hero.Casting == nil {
		return false
	}
	return hero.Casting.Stage == StageChannelling && hero.Casting.Spell.ID == spellID
}

func ceilTicks(seconds float64, tps int) uint64 {
	return uint64(math.Max(1, math.Ceil(seconds*float64(tps))))
}
