package world

import (
	"math"

	"github.com/justchen1369/acolyte-fight-sub000/internal/geometry"
	"github.com/justchen1369/acolyte-fight-sub000/internal/physics"
	"github.com/justchen1369/acolyte-fight-sub000/spells/contract"
)

// goldenAngle spreads successive spawn points evenly around the arena.
var goldenAngle = math.Pi * (3 - math.Sqrt(5))

func filterFor(category, mask Category, group int16) physics.Filter {
	return physics.Filter{Category: uint16(category), Mask: uint16(mask), Group: group}
}

// spawnHero places a new hero on the spawn ring facing the centre.
func (w *World) spawnHero(heroID string, bindings map[string]string) *Hero {
	hs := w.settings.Hero
	index := w.spawnCount
	w.spawnCount++
	w.nextFilterGroup--

	angle := float64(index) * goldenAngle
	distance := hs.SpawnRadius * w.settings.World.InitialRadius * w.settings.World.Size
	pos := w.Center().Add(geometry.FromAngle(angle, distance))

	body := w.physics.CreateBody(physics.BodyDef{
		UserData:      heroID,
		Type:          physics.Dynamic,
		Position:      pos,
		Angle:         geometry.NormalizeAngle(angle + math.Pi),
		Radius:        hs.Radius,
		Density:       hs.Density,
		LinearDamping: hs.Damping,
		Restitution:   hs.Restitution,
		Filter:        filterFor(CategoryHero, CategoryAll, w.nextFilterGroup),
	})
	hero := &Hero{
		objectBase:   objectBase{id: heroID, categories: CategoryHero, body: body},
		Health:       hs.MaxHealth,
		MaxHealth:    hs.MaxHealth,
		Radius:       hs.Radius,
		Density:      hs.Density,
		MoveSpeed:    hs.MoveSpeed,
		Cooldowns:    make(map[string]float64),
		Buffs:        make(map[string]*Buff),
		KeysToSpells: copyBindings(bindings),
		filterGroup:  w.nextFilterGroup,
	}
	w.addObject(hero)
	w.addBehaviour(CooldownBehaviour{HeroID: heroID})
	w.addBehaviour(BuffsBehaviour{HeroID: heroID})
	w.addBehaviour(MitigationDecayBehaviour{HeroID: heroID})
	return hero
}

// spawnProjectile launches a projectile from the owner towards target,
// rotated by angleOffset.
func (w *World) spawnProjectile(owner *Hero, spellID string, tmpl *contract.ProjectileTemplate, target geometry.Vec, angleOffset, multiplier float64) *Projectile {
	from := owner.Position()
	direction := geometry.Angle(target.Sub(from))
	if target == from {
		direction = owner.Angle()
	}
	direction += angleOffset
	pos := from.Add(geometry.FromAngle(direction, owner.Radius))

	categories := CategoryProjectile
	if tmpl.Massive {
		categories |= CategoryMassive
	}
	density := tmpl.Density
	if density <= 0 {
		density = w.settings.Hero.Density
	}

	id := w.newObjectID("projectile:")
	body := w.physics.CreateBody(physics.BodyDef{
		UserData:    id,
		Type:        physics.Dynamic,
		Position:    pos,
		Velocity:    geometry.FromAngle(direction, tmpl.Speed),
		Angle:       direction,
		Radius:      tmpl.Radius,
		Density:     density,
		Restitution: tmpl.Restitution,
		Sensor:      tmpl.Sensor,
		Filter:      filterFor(categories, categoryMask(tmpl.CollideWith, CategoryAll), owner.filterGroup),
	})
	p := &Projectile{
		objectBase: objectBase{id: id, categories: categories, body: body},
		OwnerID:    owner.id,
		SpellID:    spellID,
		Template:   tmpl,
		Damage:     tmpl.Damage * multiplier,
		LifeSteal:  tmpl.LifeSteal,
		Target:     target,
		ExpireTick: w.tick + uint64(tmpl.MaxTicks),
		expireOn:   categoryMask(tmpl.ExpireOn, CategoryNone),
		speed:      tmpl.Speed,
		multiplier: multiplier,
		hits:       make(hitLookup),
	}
	w.addObject(p)

	if !tmpl.SelfPassthrough {
		w.addBehaviour(RemovePassthroughBehaviour{ProjectileID: id})
	}
	if homing := tmpl.Homing; homing != nil {
		b := HomingBehaviour{ProjectileID: id, StartTick: w.tick + uint64(homing.AfterTicks)}
		if homing.MaxTicks > 0 {
			b.EndTick = b.StartTick + uint64(homing.MaxTicks)
		}
		w.addBehaviour(b)
	}
	if tmpl.SpeedDecay > 0 {
		w.addBehaviour(DecaySpeedBehaviour{ProjectileID: id, Decay: tmpl.SpeedDecay})
	}
	if tmpl.ExpireOnOwnerDeath {
		w.addBehaviour(ExpireOnOwnerDeathBehaviour{ObjectID: id})
	}
	if tmpl.ExpireOnOwnerRetreat > 0 {
		w.addBehaviour(ExpireOnOwnerRetreatBehaviour{ProjectileID: id, MaxDistance: tmpl.ExpireOnOwnerRetreat})
	}
	if tmpl.ExpireOnChannellingEnd {
		w.addBehaviour(ExpireOnChannellingEndBehaviour{ObjectID: id, OwnerID: owner.id, SpellID: spellID})
	}
	if tmpl.Detonate != nil {
		w.addBehaviour(DetonateBehaviour{ProjectileID: id, DetonateTick: p.ExpireTick})
	}
	return p
}

// placeWall builds a static barrier across the aim line.
func (w *World) placeWall(owner *Hero, spellID string, tmpl *contract.WallTemplate, target geometry.Vec) *Shield {
	offset := geometry.Truncate(target.Sub(owner.Position()), tmpl.MaxRange)
	center := owner.Position().Add(offset)
	angle := geometry.Angle(offset) + math.Pi/2

	group := int16(0)
	if tmpl.SelfPassthrough {
		group = owner.filterGroup
	}
	id := w.newObjectID("shield:")
	body := w.physics.CreateBody(physics.BodyDef{
		UserData: id,
		Type:     physics.Static,
		Position: center,
		Angle:    angle,
		Points:   geometry.Rectangle(tmpl.Length/2, tmpl.Width/2, 0),
		Filter:   filterFor(CategoryShield, CategoryAll, group),
	})
	wall := &Shield{
		objectBase: objectBase{id: id, categories: CategoryShield, body: body},
		Kind:       ShieldWall,
		OwnerID:    owner.id,
		SpellID:    spellID,
		ExpireTick: w.tick + uint64(tmpl.MaxTicks),
		Radius:     tmpl.Length / 2,
		hits:       make(hitLookup),
	}
	w.addObject(wall)
	return wall
}

// raiseShield surrounds the owner with a bubble that reflects projectiles.
func (w *World) raiseShield(owner *Hero, spellID string, tmpl *contract.ShieldTemplate) *Shield {
	id := w.newObjectID("shield:")
	body := w.physics.CreateBody(physics.BodyDef{
		UserData: id,
		Type:     physics.Kinematic,
		Position: owner.Position(),
		Radius:   tmpl.Radius,
		Sensor:   true,
		Filter:   filterFor(CategoryShield, CategoryProjectile|CategoryMassive, owner.filterGroup),
	})
	shield := &Shield{
		objectBase: objectBase{id: id, categories: CategoryShield, body: body},
		Kind:       ShieldReflect,
		OwnerID:    owner.id,
		SpellID:    spellID,
		ExpireTick: w.tick + uint64(tmpl.MaxTicks),
		Radius:     tmpl.Radius,
		hits:       make(hitLookup),
	}
	w.addObject(shield)
	w.addBehaviour(ReflectFollowBehaviour{ShieldID: id})
	w.addBehaviour(ExpireOnOwnerDeathBehaviour{ObjectID: id})
	return shield
}

// drawSaber attaches a blade extending from the owner along its facing.
func (w *World) drawSaber(owner *Hero, spellID string, tmpl *contract.SaberTemplate) *Shield {
	id := w.newObjectID("shield:")
	blade := geometry.Rectangle(tmpl.Length/2, tmpl.Width/2, 0).Translate(geometry.V(tmpl.Length/2, 0))
	body := w.physics.CreateBody(physics.BodyDef{
		UserData: id,
		Type:     physics.Kinematic,
		Position: owner.Position(),
		Angle:    owner.Angle(),
		Points:   blade,
		Sensor:   true,
		Filter:   filterFor(CategoryShield, CategoryHero|CategoryProjectile|CategoryMassive, owner.filterGroup),
	})
	saber := &Shield{
		objectBase: objectBase{id: id, categories: CategoryShield, body: body},
		Kind:       ShieldSaber,
		OwnerID:    owner.id,
		SpellID:    spellID,
		ExpireTick: notStarted,
		Radius:     tmpl.Length,
		Saber:      tmpl,
		hits:       make(hitLookup),
	}
	w.addObject(saber)
	w.addBehaviour(SaberSwingBehaviour{ShieldID: id})
	w.addBehaviour(ExpireOnChannellingEndBehaviour{ObjectID: id, OwnerID: owner.id, SpellID: spellID})
	return saber
}

// placeObstacle creates an obstacle from a template.
func (w *World) placeObstacle(tmpl *contract.ObstacleTemplate, pos geometry.Vec, angle float64) *Obstacle {
	id := w.newObjectID("obstacle:")
	typ := physics.Dynamic
	if tmpl.Static {
		typ = physics.Static
	}
	density := tmpl.Density
	if density <= 0 {
		density = 1
	}
	body := w.physics.CreateBody(physics.BodyDef{
		UserData:      id,
		Type:          typ,
		Position:      pos,
		Angle:         angle,
		Points:        geometry.RegularPolygon(tmpl.Sides, tmpl.Extent, 0),
		Density:       density,
		LinearDamping: tmpl.Damping,
		Sensor:        tmpl.Sensor,
		Filter:        filterFor(CategoryObstacle, CategoryAll, 0),
	})
	obstacle := &Obstacle{
		objectBase: objectBase{id: id, categories: CategoryObstacle, body: body},
		TemplateID: tmpl.ID,
		Template:   tmpl,
		Health:     tmpl.Health,
		MaxHealth:  tmpl.Health,
		Static:     tmpl.Static,
		hits:       make(hitLookup),
	}
	w.addObject(obstacle)
	return obstacle
}

func copyBindings(bindings map[string]string) map[string]string {
	out := make(map[string]string, len(bindings))
	for k, v := range bindings {
		out[k] = v
	}
	return out
}
