package world

import (
	"math"

	"github.com/justchen1369/acolyte-fight-sub000/internal/geometry"
	"github.com/justchen1369/acolyte-fight-sub000/spells/contract"
)

var (
	prePhysicsPhase = phase{
		BehaviourCooldown:      cooldownHandler,
		BehaviourHoming:        homingHandler,
		BehaviourGravity:       gravityHandler,
		BehaviourLink:          linkHandler,
		BehaviourThrust:        thrustHandler,
		BehaviourSaberSwing:    saberSwingHandler,
		BehaviourReflectFollow: reflectFollowHandler,
		BehaviourDecaySpeed:    decaySpeedHandler,
	}
	postPhysicsPhase = phase{
		BehaviourRemovePassthrough: removePassthroughHandler,
		BehaviourDetonate:          detonateHandler,
	}
	decayPhase = phase{
		BehaviourThrustDecay:            thrustDecayHandler,
		BehaviourBuffs:                  buffsHandler,
		BehaviourMitigationDecay:        mitigationDecayHandler,
		BehaviourExpireOnOwnerDeath:     expireOnOwnerDeathHandler,
		BehaviourExpireOnOwnerRetreat:   expireOnOwnerRetreatHandler,
		BehaviourExpireOnChannellingEnd: expireOnChannellingEndHandler,
	}
)

func cooldownHandler(w *World, b Behaviour) bool {
	hero, ok := w.Hero(b.(CooldownBehaviour).HeroID)
	if !ok {
		return false
	}
	rate := w.cooldownRate(hero)
	for spellID, remaining := range hero.Cooldowns {
		if remaining > 0 {
			hero.Cooldowns[spellID] = math.Max(0, remaining-rate)
		}
	}
	return true
}

func buffsHandler(w *World, b Behaviour) bool {
	hero, ok := w.Hero(b.(BuffsBehaviour).HeroID)
	if !ok {
		return false
	}
	w.updateBuffs(hero)
	return true
}

func mitigationDecayHandler(w *World, b Behaviour) bool {
	hero, ok := w.Hero(b.(MitigationDecayBehaviour).HeroID)
	if !ok {
		return false
	}
	w.decayMitigation(hero)
	return true
}

func homingHandler(w *World, b Behaviour) bool {
	homing := b.(HomingBehaviour)
	p, ok := w.objects[homing.ProjectileID].(*Projectile)
	if !ok {
		return false
	}
	if w.tick < homing.StartTick {
		return true
	}
	if homing.EndTick > 0 && w.tick >= homing.EndTick {
		return false
	}
	tmpl := p.Template.Homing

	var target geometry.Vec
	switch tmpl.Target {
	case contract.HomingSelf:
		owner, ok := w.Hero(p.OwnerID)
		if !ok {
			return true
		}
		target = owner.Position()
	case contract.HomingCursor:
		target = p.Target
	default:
		enemy, ok := w.nearestEnemy(p.OwnerID, p.Position())
		if !ok {
			return true
		}
		p.TargetID = enemy.id
		target = enemy.Position()
	}

	offset := target.Sub(p.Position())
	if offset.Len() < tmpl.MinDistance {
		return true
	}
	velocity := p.Body().Velocity()
	speed := velocity.Len()
	heading := geometry.TurnTowards(geometry.Angle(velocity), geometry.Angle(offset), geometry.RevsToRadians(tmpl.TurnRateRevs))
	w.queueVelocity(p.id, geometry.FromAngle(heading, speed))
	return true
}

func gravityHandler(w *World, b Behaviour) bool {
	hero, ok := w.Hero(b.(GravityBehaviour).HeroID)
	if !ok || hero.Gravity == nil {
		return false
	}
	gravity := hero.Gravity
	if w.tick >= gravity.ExpireTick {
		hero.Gravity = nil
		return false
	}
	tmpl := gravity.Template
	offset := gravity.Location.Sub(hero.Position())
	distance := offset.Len()
	if distance == 0 {
		return true
	}
	proportion := 1 - geometry.Clamp(distance/tmpl.Radius, 0, 1)
	if tmpl.Power > 0 {
		proportion = math.Pow(proportion, tmpl.Power)
	}
	w.accelerate(hero, offset.Mul(tmpl.Strength*proportion/distance))
	return true
}

func linkHandler(w *World, b Behaviour) bool {
	hero, ok := w.Hero(b.(LinkBehaviour).HeroID)
	if !ok || hero.Link == nil {
		return false
	}
	link := hero.Link
	target, ok := w.objects[link.TargetID]
	if !ok || w.tick >= link.ExpireTick {
		hero.Link = nil
		return false
	}
	tmpl := link.Template
	offset := target.Position().Sub(hero.Position())
	distance := offset.Len()
	if tmpl.MaxDistance > 0 && distance > tmpl.MaxDistance {
		hero.Link = nil
		return false
	}
	if distance <= tmpl.MinDistance || distance == 0 {
		return true
	}
	pull := offset.Mul(tmpl.Strength * (distance - tmpl.MinDistance) / distance)
	w.accelerate(hero, pull.Mul(tmpl.SelfFactor))
	w.accelerate(target, pull.Mul(-tmpl.TargetFactor))
	return true
}

func thrustHandler(w *World, b Behaviour) bool {
	hero, ok := w.Hero(b.(ThrustBehaviour).HeroID)
	if !ok || hero.Thrust == nil {
		return false
	}
	w.queueVelocity(hero.id, hero.Thrust.Velocity)
	return true
}

func thrustDecayHandler(w *World, b Behaviour) bool {
	hero, ok := w.Hero(b.(ThrustDecayBehaviour).HeroID)
	if !ok || hero.Thrust == nil {
		return false
	}
	if w.tick < hero.Thrust.EndTick {
		return true
	}
	hero.Thrust = nil
	w.queueVelocity(hero.id, geometry.Zero)
	return false
}

func saberSwingHandler(w *World, b Behaviour) bool {
	saber, ok := w.objects[b.(SaberSwingBehaviour).ShieldID].(*Shield)
	if !ok {
		return false
	}
	owner, ok := w.Hero(saber.OwnerID)
	if !ok {
		return false
	}
	angle := saber.Body().Angle()
	if owner.Casting != nil && owner.Casting.Spell.ID == saber.SpellID {
		want := geometry.Angle(owner.Casting.Action.Target.Sub(owner.Position()))
		angle = geometry.TurnTowards(angle, want, geometry.RevsToRadians(saber.Saber.TurnRateRevs))
	}
	saber.Body().SetTransform(owner.Position(), angle)
	return true
}

func reflectFollowHandler(w *World, b Behaviour) bool {
	shield, ok := w.objects[b.(ReflectFollowBehaviour).ShieldID].(*Shield)
	if !ok {
		return false
	}
	owner, ok := w.Hero(shield.OwnerID)
	if !ok {
		return false
	}
	shield.Body().SetPosition(owner.Position())
	return true
}

func decaySpeedHandler(w *World, b Behaviour) bool {
	decay := b.(DecaySpeedBehaviour)
	p, ok := w.objects[decay.ProjectileID].(*Projectile)
	if !ok {
		return false
	}
	w.queueVelocity(p.id, p.Body().Velocity().Mul(1-decay.Decay))
	return true
}

func removePassthroughHandler(w *World, b Behaviour) bool {
	p, ok := w.objects[b.(RemovePassthroughBehaviour).ProjectileID].(*Projectile)
	if !ok {
		return false
	}
	filter := p.Body().Filter()
	if filter.Group == 0 {
		return false
	}
	if owner, ok := w.Hero(p.OwnerID); ok {
		if geometry.Distance(owner.Position(), p.Position()) < owner.Radius+p.Body().Radius() {
			return true
		}
	}
	filter.Group = 0
	p.Body().SetFilter(filter)
	return false
}

func detonateHandler(w *World, b Behaviour) bool {
	detonate := b.(DetonateBehaviour)
	p, ok := w.objects[detonate.ProjectileID].(*Projectile)
	if !ok {
		return false
	}
	if w.tick < detonate.DetonateTick {
		return true
	}
	w.detonateProjectile(p)
	p.Expired = true
	return false
}

func expireOnOwnerDeathHandler(w *World, b Behaviour) bool {
	obj, ok := w.objects[b.(ExpireOnOwnerDeathBehaviour).ObjectID]
	if !ok {
		return false
	}
	if _, alive := w.Hero(ownerOf(obj)); alive {
		return true
	}
	expire(obj)
	return false
}

func expireOnOwnerRetreatHandler(w *World, b Behaviour) bool {
	retreat := b.(ExpireOnOwnerRetreatBehaviour)
	p, ok := w.objects[retreat.ProjectileID].(*Projectile)
	if !ok {
		return false
	}
	owner, ok := w.Hero(p.OwnerID)
	if ok && geometry.Distance(owner.Position(), p.Position()) <= retreat.MaxDistance {
		return true
	}
	p.Expired = true
	return false
}

func expireOnChannellingEndHandler(w *World, b Behaviour) bool {
	channel := b.(ExpireOnChannellingEndBehaviour)
	obj, ok := w.objects[channel.ObjectID]
	if !ok {
		return false
	}
	if w.isChannelling(channel.OwnerID, channel.SpellID) {
		return true
	}
	expire(obj)
	return false
}

// accelerate queues the impulse that changes obj's velocity by accel units
// per second over one tick. Immovable bodies are skipped.
func (w *World) accelerate(obj Object, accel geometry.Vec) {
	mass := obj.Body().Mass()
	if math.IsInf(mass, 1) {
		return
	}
	w.queueImpulse(obj.ObjectID(), accel.Mul(mass/float64(w.settings.World.TicksPerSecond)))
}

// capture starts a gravity pull on hero at the projectile's position.
func (w *World) capture(p *Projectile, hero *Hero) {
	tmpl := p.Template.Gravity
	hero.Gravity = &GravityState{
		OwnerID:    p.OwnerID,
		SpellID:    p.SpellID,
		Location:   p.Position(),
		ExpireTick: w.tick + uint64(tmpl.MaxTicks),
		Template:   *tmpl,
	}
	heroID := hero.id
	if !w.hasBehaviour(func(b Behaviour) bool { g, ok := b.(GravityBehaviour); return ok && g.HeroID == heroID }) {
		w.addBehaviour(GravityBehaviour{HeroID: heroID})
	}
}

// attachLink tethers the projectile's owner to targetID.
func (w *World) attachLink(p *Projectile, targetID string) {
	owner, ok := w.Hero(p.OwnerID)
	if !ok || owner.id == targetID {
		return
	}
	tmpl := p.Template.Link
	owner.Link = &LinkState{
		TargetID:   targetID,
		SpellID:    p.SpellID,
		ExpireTick: w.tick + uint64(tmpl.MaxTicks),
		Template:   *tmpl,
	}
	ownerID := owner.id
	if !w.hasBehaviour(func(b Behaviour) bool { l, ok := b.(LinkBehaviour); return ok && l.HeroID == ownerID }) {
		w.addBehaviour(LinkBehaviour{HeroID: ownerID})
	}
}

func ownerOf(obj Object) string {
	switch o := obj.(type) {
	case *Projectile:
		return o.OwnerID
	case *Shield:
		return o.OwnerID
	case *Hero:
		return o.id
	default:
		return ""
	}
}

// expire marks obj for the reaper.
func expire(obj Object) {
	switch o := obj.(type) {
	case *Projectile:
		o.Expired = true
	case *Shield:
		o.Expired = true
	}
}
