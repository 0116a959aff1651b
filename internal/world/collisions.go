package world

import (
	"math"

	"github.com/justchen1369/acolyte-fight-sub000/internal/geometry"
	"github.com/justchen1369/acolyte-fight-sub000/internal/physics"
)

// collision is a touching pair seen this tick. Normal points from A to B.
type collision struct {
	aID    string
	bID    string
	normal geometry.Vec
}

// recordCollision collects a contact once per tick however many substeps it
// touched for.
func (w *World) recordCollision(contact physics.Contact) {
	if _, seen := w.collisionKeys[contact.Key]; seen {
		return
	}
	w.collisionKeys[contact.Key] = struct{}{}
	w.collisions = append(w.collisions, collision{
		aID:    contact.A.UserData(),
		bID:    contact.B.UserData(),
		normal: contact.Normal,
	})
}

// stepPhysics advances the physics adapter one tick and gathers the sensor
// contacts that never reach the post-solve listener.
func (w *World) stepPhysics() {
	w.physics.Step(1 / float64(w.settings.World.TicksPerSecond))
	for _, contact := range w.physics.Contacts() {
		if contact.Sensor {
			w.recordCollision(contact)
		}
	}
}

// resolveCollisions handles every pair from both sides.
func (w *World) resolveCollisions() {
	collisions := w.collisions
	w.collisions = nil
	clear(w.collisionKeys)
	for _, c := range collisions {
		a, okA := w.objects[c.aID]
		b, okB := w.objects[c.bID]
		if !okA || !okB {
			continue
		}
		w.handleCollision(a, b, c.normal)
		w.handleCollision(b, a, c.normal.Mul(-1))
	}
}

// handleCollision applies the effects obj has on other. normal points from
// obj to other.
func (w *World) handleCollision(obj, other Object, normal geometry.Vec) {
	switch o := obj.(type) {
	case *Hero:
		switch t := other.(type) {
		case *Hero:
			w.thrustHit(o, t)
		case *Obstacle:
			if o.Thrust != nil && !t.Body().IsSensor() {
				o.Thrust.EndTick = w.tick
			}
		}
	case *Projectile:
		if o.Expired {
			return
		}
		switch t := other.(type) {
		case *Hero:
			w.projectileHitHero(o, t)
		case *Obstacle:
			w.projectileHitObstacle(o, t)
		case *Shield:
			w.projectileHitShield(o, t, normal)
		case *Projectile:
			w.projectileHitProjectile(o, t)
		}
	case *Shield:
		if t, ok := other.(*Hero); ok && o.Kind == ShieldSaber {
			w.saberHitHero(o, t)
		}
	case *Obstacle:
		if t, ok := other.(*Hero); ok {
			w.obstacleHitHero(o, t)
		}
	}
}

func (w *World) thrustHit(hero, other *Hero) {
	thrust := hero.Thrust
	if thrust == nil {
		return
	}
	if w.alliance(hero.id, other.id) == AllianceEnemy && thrust.hits.take(other.id, w.tick, 0) {
		w.applyDamage(other, DamagePacket{FromHeroID: hero.id, SpellID: thrust.SpellID, Damage: thrust.Damage})
	}
	thrust.EndTick = w.tick
}

func (w *World) projectileHitHero(p *Projectile, hero *Hero) {
	tmpl := p.Template
	alliance := w.alliance(p.OwnerID, hero.id)
	affected := allianceMask(tmpl.Against, AllianceEnemy)&alliance != 0

	if affected && tmpl.Gravity != nil {
		w.capture(p, hero)
		p.Expired = true
		return
	}
	if affected && tmpl.Link != nil {
		w.attachLink(p, hero.id)
	}
	if affected && p.hits.take(hero.id, w.tick, tmpl.HitIntervalTicks) {
		w.applyDamage(hero, DamagePacket{
			FromHeroID: p.OwnerID,
			SpellID:    p.SpellID,
			Damage:     p.Damage,
			LifeSteal:  p.LifeSteal,
		})
		w.applyBuffs(hero, p.OwnerID, p.SpellID, tmpl.Buffs, AllianceEnemy)
	}

	switch {
	case tmpl.Bounce != nil && !affected:
		w.bounce(p)
	case p.expireOn&CategoryHero != 0 && (affected || alliance != AllianceSelf):
		p.Expired = true
	}
}

func (w *World) projectileHitObstacle(p *Projectile, obstacle *Obstacle) {
	tmpl := p.Template
	if p.Damage > 0 && p.hits.take(obstacle.id, w.tick, tmpl.HitIntervalTicks) {
		w.damageObstacle(obstacle, p.Damage)
	}
	if tmpl.Link != nil {
		w.attachLink(p, obstacle.id)
	}
	switch {
	case tmpl.Bounce != nil:
		w.bounce(p)
	case p.expireOn&CategoryObstacle != 0:
		p.Expired = true
	}
}

func (w *World) projectileHitShield(p *Projectile, shield *Shield, normal geometry.Vec) {
	if shield.OwnerID == p.OwnerID {
		return
	}
	switch shield.Kind {
	case ShieldReflect:
		away := geometry.Unit(p.Position().Sub(shield.Position()))
		if geometry.LengthSquared(away) == 0 {
			away = normal.Mul(-1)
		}
		w.swapOwner(p, shield.OwnerID, away)
	case ShieldSaber:
		w.swapOwner(p, shield.OwnerID, geometry.FromAngle(shield.Body().Angle(), 1))
		w.emit(&PushEvent{eventBase: eventBase{Tick: w.tick}, OwnerID: shield.OwnerID, ObjectID: p.id, Direction: geometry.FromAngle(shield.Body().Angle(), 1)})
	default:
		if p.expireOn&CategoryShield != 0 {
			p.Expired = true
		}
	}
}

func (w *World) projectileHitProjectile(p, other *Projectile) {
	if w.alliance(p.OwnerID, other.OwnerID) != AllianceEnemy {
		return
	}
	category := CategoryProjectile
	if other.Categories()&CategoryMassive != 0 {
		category = CategoryMassive
	}
	if p.expireOn&category != 0 {
		p.Expired = true
	}
}

// swapOwner hands a projectile to a new owner and sends it along direction at
// its current speed.
func (w *World) swapOwner(p *Projectile, ownerID string, direction geometry.Vec) {
	owner, ok := w.Hero(ownerID)
	if !ok {
		return
	}
	speed := math.Max(p.Body().Velocity().Len(), p.speed)
	p.OwnerID = ownerID
	p.Body().SetVelocity(geometry.WithLength(direction, speed))
	filter := p.Body().Filter()
	filter.Group = owner.filterGroup
	p.Body().SetFilter(filter)
	if !p.Template.SelfPassthrough {
		w.addBehaviour(RemovePassthroughBehaviour{ProjectileID: p.id})
	}
}

// bounce counts a rebound and, when configured, re-aims at the nearest enemy.
func (w *World) bounce(p *Projectile) {
	p.Bounces++
	tmpl := p.Template.Bounce
	if tmpl.MaxBounces > 0 && p.Bounces > tmpl.MaxBounces {
		p.Expired = true
		return
	}
	if !tmpl.Retarget {
		return
	}
	target, ok := w.nearestEnemy(p.OwnerID, p.Position())
	if !ok {
		return
	}
	p.TargetID = target.id
	direction := target.Position().Sub(p.Position())
	p.Body().SetVelocity(geometry.WithLength(direction, p.speed))
}

func (w *World) saberHitHero(saber *Shield, hero *Hero) {
	if w.alliance(saber.OwnerID, hero.id) != AllianceEnemy {
		return
	}
	if !saber.hits.take(hero.id, w.tick, saber.Saber.HitIntervalTicks) {
		return
	}
	w.applyDamage(hero, DamagePacket{FromHeroID: saber.OwnerID, SpellID: saber.SpellID, Damage: saber.Saber.Damage})
	direction := geometry.Unit(hero.Position().Sub(saber.Position()))
	if saber.Saber.Impulse > 0 && geometry.LengthSquared(direction) > 0 {
		w.queueImpulse(hero.id, direction.Mul(saber.Saber.Impulse))
		hero.KnockbackHeroID = saber.OwnerID
		w.emit(&PushEvent{eventBase: eventBase{Tick: w.tick}, OwnerID: saber.OwnerID, ObjectID: hero.id, Direction: direction})
	}
}

func (w *World) obstacleHitHero(obstacle *Obstacle, hero *Hero) {
	tmpl := obstacle.Template
	if (tmpl.Damage > 0 || len(tmpl.Buffs) > 0) && obstacle.hits.take(hero.id, w.tick, max(1, tmpl.HitIntervalTicks)) {
		w.applyDamage(hero, DamagePacket{Damage: tmpl.Damage, NoKnockback: true})
		w.applyBuffs(hero, "", "", tmpl.Buffs, AllianceEnemy)
	}
	if conveyor := tmpl.Conveyor; conveyor != nil {
		outward := geometry.Unit(hero.Position().Sub(w.Center()))
		if geometry.LengthSquared(outward) == 0 {
			return
		}
		velocity := outward.Mul(conveyor.RadialSpeed).Add(geometry.Perpendicular(outward).Mul(conveyor.LateralSpeed))
		w.queueOffset(hero.id, velocity.Mul(1/float64(w.settings.World.TicksPerSecond)))
	}
}

// nearestEnemy finds the closest visible enemy hero of heroID.
func (w *World) nearestEnemy(heroID string, from geometry.Vec) (*Hero, bool) {
	var best *Hero
	bestDistance := math.Inf(1)
	for _, hero := range w.Heroes() {
		if w.alliance(heroID, hero.id) != AllianceEnemy || w.vanished(hero) {
			continue
		}
		if d := geometry.Distance(from, hero.Position()); d < bestDistance {
			best, bestDistance = hero, d
		}
	}
	return best, best != nil
}
