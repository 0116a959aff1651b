package world

// BehaviourKind names a recurring per-object effect.
type BehaviourKind string

const (
	BehaviourCooldown               BehaviourKind = "cooldown"
	BehaviourBuffs                  BehaviourKind = "buffs"
	BehaviourMitigationDecay        BehaviourKind = "mitigationDecay"
	BehaviourHoming                 BehaviourKind = "homing"
	BehaviourGravity                BehaviourKind = "gravity"
	BehaviourLink                   BehaviourKind = "link"
	BehaviourThrust                 BehaviourKind = "thrust"
	BehaviourThrustDecay            BehaviourKind = "thrustDecay"
	BehaviourSaberSwing             BehaviourKind = "saberSwing"
	BehaviourReflectFollow          BehaviourKind = "reflectFollow"
	BehaviourRemovePassthrough      BehaviourKind = "removePassthrough"
	BehaviourDetonate               BehaviourKind = "detonate"
	BehaviourDecaySpeed             BehaviourKind = "decaySpeed"
	BehaviourExpireOnOwnerDeath     BehaviourKind = "expireOnOwnerDeath"
	BehaviourExpireOnOwnerRetreat   BehaviourKind = "expireOnOwnerRetreat"
	BehaviourExpireOnChannellingEnd BehaviourKind = "expireOnChannellingEnd"
)

// Behaviour is one of the behaviour structs below. Behaviours refer to
// objects by id only.
type Behaviour interface {
	Kind() BehaviourKind
}

// CooldownBehaviour ticks a hero's cooldowns down.
type CooldownBehaviour struct{ HeroID string }

// BuffsBehaviour expires a hero's buffs and applies burn.
type BuffsBehaviour struct{ HeroID string }

// MitigationDecayBehaviour forgets damage older than the mitigation window.
type MitigationDecayBehaviour struct{ HeroID string }

// HomingBehaviour steers a projectile.
type HomingBehaviour struct {
	ProjectileID string
	StartTick    uint64
	EndTick      uint64
}

type GravityBehaviour struct{ HeroID string }

type LinkBehaviour struct{ HeroID string }

type ThrustBehaviour struct{ HeroID string }

// ThrustDecayBehaviour ends a thrust once it has run its course.
type ThrustDecayBehaviour struct{ HeroID string }

type SaberSwingBehaviour struct{ ShieldID string }

type ReflectFollowBehaviour struct{ ShieldID string }

// RemovePassthroughBehaviour lets a projectile hit its owner once it has
// left the owner's body.
type RemovePassthroughBehaviour struct{ ProjectileID string }

// DetonateBehaviour explodes a projectile when its lifetime runs out.
type DetonateBehaviour struct {
	ProjectileID string
	DetonateTick uint64
}

type DecaySpeedBehaviour struct {
	ProjectileID string
	Decay        float64
}

type ExpireOnOwnerDeathBehaviour struct{ ObjectID string }

type ExpireOnOwnerRetreatBehaviour struct {
	ProjectileID string
	MaxDistance  float64
}

// ExpireOnChannellingEndBehaviour removes an object when the owner stops
// channelling the spell that made it.
type ExpireOnChannellingEndBehaviour struct {
	ObjectID string
	OwnerID  string
	SpellID  string
}

func (CooldownBehaviour) Kind() BehaviourKind               { return BehaviourCooldown }
func (BuffsBehaviour) Kind() BehaviourKind                  { return BehaviourBuffs }
func (MitigationDecayBehaviour) Kind() BehaviourKind        { return BehaviourMitigationDecay }
func (HomingBehaviour) Kind() BehaviourKind                 { return BehaviourHoming }
func (GravityBehaviour) Kind() BehaviourKind                { return BehaviourGravity }
func (LinkBehaviour) Kind() BehaviourKind                   { return BehaviourLink }
func (ThrustBehaviour) Kind() BehaviourKind                 { return BehaviourThrust }
func (ThrustDecayBehaviour) Kind() BehaviourKind            { return BehaviourThrustDecay }
func (SaberSwingBehaviour) Kind() BehaviourKind             { return BehaviourSaberSwing }
func (ReflectFollowBehaviour) Kind() BehaviourKind          { return BehaviourReflectFollow }
func (RemovePassthroughBehaviour) Kind() BehaviourKind      { return BehaviourRemovePassthrough }
func (DetonateBehaviour) Kind() BehaviourKind               { return BehaviourDetonate }
func (DecaySpeedBehaviour) Kind() BehaviourKind             { return BehaviourDecaySpeed }
func (ExpireOnOwnerDeathBehaviour) Kind() BehaviourKind     { return BehaviourExpireOnOwnerDeath }
func (ExpireOnOwnerRetreatBehaviour) Kind() BehaviourKind   { return BehaviourExpireOnOwnerRetreat }
func (ExpireOnChannellingEndBehaviour) Kind() BehaviourKind { return BehaviourExpireOnChannellingEnd }

// behaviourHandler runs one behaviour and reports whether to keep it.
type behaviourHandler func(w *World, b Behaviour) bool

// phase maps the behaviour kinds handled in one pass of the tick.
type phase map[BehaviourKind]behaviourHandler

// runBehaviours invokes the phase's handlers in list order. Kinds the phase
// does not handle are kept untouched, as are behaviours added while the
// phase runs. Removals are applied in one pass at the end.
func (w *World) runBehaviours(handlers phase) {
	count := len(w.behaviours)
	if count == 0 {
		return
	}
	keep := make([]bool, count)
	for i := 0; i < count; i++ {
		b := w.behaviours[i]
		handler, ok := handlers[b.Kind()]
		if !ok {
			keep[i] = true
			continue
		}
		keep[i] = handler(w, b)
	}
	kept := w.behaviours[:0:0]
	for i, b := range w.behaviours {
		if i >= count || keep[i] {
			kept = append(kept, b)
		}
	}
	w.behaviours = kept
}

func (w *World) addBehaviour(b Behaviour) {
	w.behaviours = append(w.behaviours, b)
}

func (w *World) hasBehaviour(match func(Behaviour) bool) bool {
	for _, b := range w.behaviours {
		if match(b) {
			return true
		}
	}
	return false
}
