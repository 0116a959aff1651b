package world

import (
	"github.com/justchen1369/acolyte-fight-sub000/internal/geometry"
	"github.com/justchen1369/acolyte-fight-sub000/internal/physics"
	"github.com/justchen1369/acolyte-fight-sub000/logging"
	"github.com/justchen1369/acolyte-fight-sub000/spells/contract"
)

// Category is the collision bitmask carried by every object.
type Category uint16

const (
	CategoryNone       Category = 0
	CategoryHero       Category = 1
	CategoryProjectile Category = 2
	CategoryMassive    Category = 4
	CategoryObstacle   Category = 8
	CategoryShield     Category = 16
	CategoryAll        Category = 0xFFFF
)

func categoryOf(c contract.Category) Category {
	switch c {
	case contract.CategoryHero:
		return CategoryHero
	case contract.CategoryProjectile:
		return CategoryProjectile
	case contract.CategoryMassive:
		return CategoryMassive
	case contract.CategoryObstacle:
		return CategoryObstacle
	case contract.CategoryShield:
		return CategoryShield
	default:
		return CategoryNone
	}
}

// categoryMask folds a list of categories into a mask. A nil list yields
// fallback; an empty but non-nil list yields CategoryNone.
func categoryMask(categories []contract.Category, fallback Category) Category {
	if categories == nil {
		return fallback
	}
	mask := CategoryNone
	for _, c := range categories {
		mask |= categoryOf(c)
	}
	return mask
}

// Object is one of *Hero, *Projectile, *Shield or *Obstacle.
type Object interface {
	ObjectID() string
	Categories() Category
	Body() *physics.Body
	Position() geometry.Vec
	// DestroyedTick is zero while the object is live.
	DestroyedTick() uint64
	base() *objectBase
}

type objectBase struct {
	id            string
	categories    Category
	body          *physics.Body
	createdTick   uint64
	destroyedTick uint64
}

func (o *objectBase) ObjectID() string       { return o.id }
func (o *objectBase) Categories() Category   { return o.categories }
func (o *objectBase) Body() *physics.Body    { return o.body }
func (o *objectBase) Position() geometry.Vec { return o.body.Position() }
func (o *objectBase) DestroyedTick() uint64  { return o.destroyedTick }
func (o *objectBase) base() *objectBase      { return o }

// hitLookup remembers the last tick each target was hit by one source.
type hitLookup map[string]uint64

// take reports whether targetID may be hit at tick. An interval of zero
// allows a single hit ever.
func (h hitLookup) take(targetID string, tick uint64, interval int) bool {
	if last, ok := h[targetID]; ok {
		if interval <= 0 || tick < last+uint64(interval) {
			return false
		}
	}
	h[targetID] = tick
	return true
}

// Hero is a player-controlled wizard.
type Hero struct {
	objectBase

	Health    float64
	MaxHealth float64
	Radius    float64
	Density   float64
	MoveSpeed float64

	// Cooldowns maps spell id to ticks remaining. Casts resolve before the
	// cooldown behaviour, so the gate at tick T sees the value left by T-1.
	Cooldowns map[string]float64
	Casting   *CastState
	Buffs     map[string]*Buff

	// KeysToSpells is the hero's current spell loadout.
	KeysToSpells map[string]string

	Link    *LinkState
	Thrust  *ThrustState
	Gravity *GravityState

	// HitTick is the last tick damage registered a hit; CleanseTick the last
	// tick the hero was cleansed. Zero means never.
	HitTick     uint64
	CleanseTick uint64

	KillerHeroID    string
	KnockbackHeroID string

	filterGroup   int16
	throttleUntil uint64
	damageHistory []damageRecord
}

func (h *Hero) Angle() float64 { return h.body.Angle() }

// Alive reports whether the hero is still in the world.
func (h *Hero) Alive() bool { return h.destroyedTick == 0 }

// LinkState tethers a hero to another object.
type LinkState struct {
	TargetID   string
	SpellID    string
	ExpireTick uint64
	Template   contract.LinkTemplate
}

// ThrustState drives a hero dash.
type ThrustState struct {
	SpellID   string
	Velocity  geometry.Vec
	Damage    float64
	StartTick uint64
	EndTick   uint64
	hits      hitLookup
}

// GravityState pulls a captured hero towards a point.
type GravityState struct {
	OwnerID    string
	SpellID    string
	Location   geometry.Vec
	ExpireTick uint64
	Template   contract.GravityTemplate
}

// Projectile is a spell missile.
type Projectile struct {
	objectBase

	OwnerID    string
	SpellID    string
	Template   *contract.ProjectileTemplate
	Damage     float64
	LifeSteal  float64
	Target     geometry.Vec
	TargetID   string
	ExpireTick uint64
	Expired    bool
	Bounces    int

	expireOn   Category
	speed      float64
	multiplier float64
	detonated  bool
	hits       hitLookup
}

// ShieldKind distinguishes the three shield shapes.
type ShieldKind string

const (
	ShieldReflect ShieldKind = "reflect"
	ShieldWall    ShieldKind = "wall"
	ShieldSaber   ShieldKind = "saber"
)

// Shield is a reflect bubble, a placed wall or a saber blade.
type Shield struct {
	objectBase

	Kind       ShieldKind
	OwnerID    string
	SpellID    string
	ExpireTick uint64
	Expired    bool
	Radius     float64
	Saber      *contract.SaberTemplate

	hits hitLookup
}

// Obstacle is a piece of arena furniture.
type Obstacle struct {
	objectBase

	TemplateID string
	Template   *contract.ObstacleTemplate
	Health     float64
	MaxHealth  float64
	Static     bool

	hits hitLookup
}

// Destructible obstacles have a positive max health.
func (o *Obstacle) Destructible() bool { return o.MaxHealth > 0 }

func entityRef(obj Object) logging.EntityRef {
	if obj == nil {
		return logging.World()
	}
	kind := logging.EntityKindUnknown
	switch obj.(type) {
	case *Hero:
		kind = logging.EntityKindHero
	case *Projectile:
		kind = logging.EntityKindProjectile
	case *Shield:
		kind = logging.EntityKindShield
	case *Obstacle:
		kind = logging.EntityKindObstacle
	}
	return logging.EntityRef{ID: obj.ObjectID(), Kind: kind}
}
