package world

import (
	"sort"

	"github.com/justchen1369/acolyte-fight-sub000/internal/geometry"
	"github.com/justchen1369/acolyte-fight-sub000/internal/physics"
	"github.com/justchen1369/acolyte-fight-sub000/spells/contract"
)

// detonate explodes at pos, damaging and pushing everything in range.
// ownerID may be empty for environmental explosions.
func (w *World) detonate(sourceID, ownerID, spellID string, pos geometry.Vec, tmpl *contract.DetonateTemplate, multiplier float64) {
	w.emit(&DetonateEvent{eventBase: eventBase{Tick: w.tick}, SourceID: sourceID, OwnerID: ownerID, Pos: pos, Radius: tmpl.Radius})

	against := allianceMask(tmpl.Against, AllianceEnemy)
	for _, body := range w.bodiesNear(pos, tmpl.Radius) {
		obj, ok := w.objects[body.UserData()]
		if !ok || obj.ObjectID() == sourceID {
			continue
		}
		switch target := obj.(type) {
		case *Hero:
			if w.alliance(ownerID, target.id)&against == 0 {
				continue
			}
			proportion, ok := falloff(pos, target.Position(), target.Radius, tmpl.Radius)
			if !ok {
				continue
			}
			w.applyDamage(target, DamagePacket{
				FromHeroID: ownerID,
				SpellID:    spellID,
				Damage:     tmpl.Damage * multiplier,
				LifeSteal:  tmpl.LifeSteal,
			})
			w.applyBuffs(target, ownerID, spellID, tmpl.Buffs, AllianceEnemy)
			w.push(ownerID, target, pos, tmpl, proportion)

		case *Obstacle:
			proportion, ok := falloff(pos, target.Position(), target.Body().Radius(), tmpl.Radius)
			if !ok {
				continue
			}
			w.damageObstacle(target, tmpl.Damage*multiplier)
			w.push(ownerID, target, pos, tmpl, proportion)
		}
	}
}

// bodiesNear de-duplicates the region query and orders the result by body
// creation.
func (w *World) bodiesNear(pos geometry.Vec, radius float64) []*physics.Body {
	seen := make(map[uint64]struct{})
	var bodies []*physics.Body
	w.physics.QueryRegion(pos, radius, func(body *physics.Body) bool {
		if _, dup := seen[body.Index()]; !dup {
			seen[body.Index()] = struct{}{}
			bodies = append(bodies, body)
		}
		return true
	})
	sort.Slice(bodies, func(i, j int) bool { return bodies[i].Index() < bodies[j].Index() })
	return bodies
}

// falloff is 1 at the centre of the blast and 0 at its edge.
func falloff(center, pos geometry.Vec, bodyRadius, radius float64) (float64, bool) {
	distance := geometry.Distance(center, pos) - bodyRadius
	if distance > radius {
		return 0, false
	}
	return 1 - geometry.Clamp(distance/radius, 0, 1), true
}

func (w *World) push(ownerID string, obj Object, from geometry.Vec, tmpl *contract.DetonateTemplate, proportion float64) {
	magnitude := tmpl.MinImpulse + (tmpl.MaxImpulse-tmpl.MinImpulse)*proportion
	if magnitude <= 0 {
		return
	}
	direction := geometry.Unit(obj.Position().Sub(from))
	if geometry.LengthSquared(direction) == 0 {
		return
	}
	w.queueImpulse(obj.ObjectID(), direction.Mul(magnitude))
	if ownerID != "" {
		if hero, ok := obj.(*Hero); ok && hero.id != ownerID {
			hero.KnockbackHeroID = ownerID
		}
		w.emit(&PushEvent{eventBase: eventBase{Tick: w.tick}, OwnerID: ownerID, ObjectID: obj.ObjectID(), Direction: direction})
	}
}

// detonateProjectile explodes a projectile once.
func (w *World) detonateProjectile(p *Projectile) {
	if p.detonated || p.Template.Detonate == nil {
		return
	}
	p.detonated = true
	w.detonate(p.id, p.OwnerID, p.SpellID, p.Position(), p.Template.Detonate, p.multiplier)
}
