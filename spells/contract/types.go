package contract

// SpellKind selects the channelling effect a spell runs.
type SpellKind string

const (
	KindMove       SpellKind = "move"
	KindProjectile SpellKind = "projectile"
	KindSpray      SpellKind = "spray"
	KindThrust     SpellKind = "thrust"
	KindTeleport   SpellKind = "teleport"
	KindWall       SpellKind = "wall"
	KindShield     SpellKind = "shield"
	KindSaber      SpellKind = "saber"
	KindBuff       SpellKind = "buff"
	KindScourge    SpellKind = "scourge"
)

// Alliance names a relationship between a caster and a target.
type Alliance string

const (
	AllianceSelf  Alliance = "self"
	AllianceAlly  Alliance = "ally"
	AllianceEnemy Alliance = "enemy"
)

// Category names a class of world object for collision filtering.
type Category string

const (
	CategoryHero       Category = "hero"
	CategoryProjectile Category = "projectile"
	CategoryMassive    Category = "massive"
	CategoryObstacle   Category = "obstacle"
	CategoryShield     Category = "shield"
)

// HomingTarget selects what a homing projectile steers towards.
type HomingTarget string

const (
	HomingEnemy  HomingTarget = "enemy"
	HomingSelf   HomingTarget = "self"
	HomingCursor HomingTarget = "cursor"
)

// BuffType selects the effect of a buff.
type BuffType string

const (
	BuffMovement  BuffType = "movement"
	BuffArmor     BuffType = "armor"
	BuffBurn      BuffType = "burn"
	BuffLifeSteal BuffType = "lifeSteal"
	BuffCooldown  BuffType = "cooldown"
	BuffMass      BuffType = "mass"
	BuffVanish    BuffType = "vanish"
	BuffCleanse   BuffType = "cleanse"
)

// Spell is a designer-authored ability. Durations are in ticks and distances
// in arena units.
type Spell struct {
	ID                  string         `json:"id" yaml:"id" jsonschema:"required,pattern=^[a-z0-9-]+$,description=Identifier referenced by key bindings and actions"`
	Name                string         `json:"name,omitempty" yaml:"name,omitempty"`
	Kind                SpellKind      `json:"kind" yaml:"kind" jsonschema:"required,enum=move,enum=projectile,enum=spray,enum=thrust,enum=teleport,enum=wall,enum=shield,enum=saber,enum=buff,enum=scourge"`
	CooldownTicks       int            `json:"cooldownTicks,omitempty" yaml:"cooldownTicks,omitempty" jsonschema:"minimum=0"`
	Throttle            bool           `json:"throttle,omitempty" yaml:"throttle,omitempty" jsonschema:"description=Subject to the global cast throttle"`
	Untargeted          bool           `json:"untargeted,omitempty" yaml:"untargeted,omitempty" jsonschema:"description=Skips orientating towards the target"`
	MaxAngleDiffInRevs  float64        `json:"maxAngleDiffInRevs,omitempty" yaml:"maxAngleDiffInRevs,omitempty" jsonschema:"minimum=0,maximum=0.5"`
	ChargeTicks         int            `json:"chargeTicks,omitempty" yaml:"chargeTicks,omitempty" jsonschema:"minimum=0"`
	Releasable          bool           `json:"releasable,omitempty" yaml:"releasable,omitempty"`
	ChargeScaling       *ChargeScaling `json:"chargeScaling,omitempty" yaml:"chargeScaling,omitempty"`
	MaxChannellingTicks int            `json:"maxChannellingTicks,omitempty" yaml:"maxChannellingTicks,omitempty" jsonschema:"minimum=0"`
	Interruptible       bool           `json:"interruptible,omitempty" yaml:"interruptible,omitempty"`
	CancelCooldownTicks *int           `json:"cancelCooldownTicks,omitempty" yaml:"cancelCooldownTicks,omitempty" jsonschema:"minimum=0"`

	Projectile *ProjectileTemplate `json:"projectile,omitempty" yaml:"projectile,omitempty"`
	Spray      *SprayTemplate      `json:"spray,omitempty" yaml:"spray,omitempty"`
	Thrust     *ThrustTemplate     `json:"thrust,omitempty" yaml:"thrust,omitempty"`
	Teleport   *TeleportTemplate   `json:"teleport,omitempty" yaml:"teleport,omitempty"`
	Wall       *WallTemplate       `json:"wall,omitempty" yaml:"wall,omitempty"`
	Shield     *ShieldTemplate     `json:"shield,omitempty" yaml:"shield,omitempty"`
	Saber      *SaberTemplate      `json:"saber,omitempty" yaml:"saber,omitempty"`
	Buffs      []BuffTemplate      `json:"buffs,omitempty" yaml:"buffs,omitempty"`
	Scourge    *ScourgeTemplate    `json:"scourge,omitempty" yaml:"scourge,omitempty"`
}

// ChargeScaling multiplies damage by a factor interpolated over the charge.
type ChargeScaling struct {
	Initial float64 `json:"initial" yaml:"initial" jsonschema:"required,minimum=0"`
	Final   float64 `json:"final" yaml:"final" jsonschema:"required,minimum=0"`
}

// ProjectileTemplate configures a spawned projectile.
type ProjectileTemplate struct {
	Speed            float64    `json:"speed" yaml:"speed" jsonschema:"required,exclusiveMinimum=0,description=Arena units per second"`
	Radius           float64    `json:"radius" yaml:"radius" jsonschema:"required,exclusiveMinimum=0"`
	Density          float64    `json:"density,omitempty" yaml:"density,omitempty" jsonschema:"minimum=0"`
	Restitution      float64    `json:"restitution,omitempty" yaml:"restitution,omitempty" jsonschema:"minimum=0,maximum=1"`
	MaxTicks         int        `json:"maxTicks" yaml:"maxTicks" jsonschema:"required,minimum=1"`
	Damage           float64    `json:"damage,omitempty" yaml:"damage,omitempty" jsonschema:"minimum=0"`
	LifeSteal        float64    `json:"lifeSteal,omitempty" yaml:"lifeSteal,omitempty" jsonschema:"minimum=0,maximum=1"`
	HitIntervalTicks int        `json:"hitIntervalTicks,omitempty" yaml:"hitIntervalTicks,omitempty" jsonschema:"minimum=0,description=Ticks between repeat hits on one target; 0 hits once"`
	Sensor           bool       `json:"sensor,omitempty" yaml:"sensor,omitempty"`
	Massive          bool       `json:"massive,omitempty" yaml:"massive,omitempty" jsonschema:"description=Other projectiles treat this one as massive"`
	CollideWith      []Category `json:"collideWith" yaml:"collideWith,omitempty"`
	ExpireOn         []Category `json:"expireOn,omitempty" yaml:"expireOn,omitempty"`
	Against          []Alliance `json:"against,omitempty" yaml:"against,omitempty"`
	SelfPassthrough  bool       `json:"selfPassthrough,omitempty" yaml:"selfPassthrough,omitempty"`
	SpeedDecay       float64    `json:"speedDecay,omitempty" yaml:"speedDecay,omitempty" jsonschema:"minimum=0,maximum=1,description=Fraction of speed lost per tick"`

	ExpireOnOwnerDeath     bool    `json:"expireOnOwnerDeath,omitempty" yaml:"expireOnOwnerDeath,omitempty"`
	ExpireOnOwnerRetreat   float64 `json:"expireOnOwnerRetreat,omitempty" yaml:"expireOnOwnerRetreat,omitempty" jsonschema:"minimum=0,description=Maximum distance from the owner"`
	ExpireOnChannellingEnd bool    `json:"expireOnChannellingEnd,omitempty" yaml:"expireOnChannellingEnd,omitempty"`

	Homing   *HomingTemplate   `json:"homing,omitempty" yaml:"homing,omitempty"`
	Gravity  *GravityTemplate  `json:"gravity,omitempty" yaml:"gravity,omitempty"`
	Link     *LinkTemplate     `json:"link,omitempty" yaml:"link,omitempty"`
	Bounce   *BounceTemplate   `json:"bounce,omitempty" yaml:"bounce,omitempty"`
	Detonate *DetonateTemplate `json:"detonate,omitempty" yaml:"detonate,omitempty"`
	Buffs    []BuffTemplate    `json:"buffs,omitempty" yaml:"buffs,omitempty"`
}

// HomingTemplate steers a projectile each tick.
type HomingTemplate struct {
	Target       HomingTarget `json:"target" yaml:"target" jsonschema:"required,enum=enemy,enum=self,enum=cursor"`
	TurnRateRevs float64      `json:"turnRateRevs" yaml:"turnRateRevs" jsonschema:"required,minimum=0,description=Revolutions per tick"`
	AfterTicks   int          `json:"afterTicks,omitempty" yaml:"afterTicks,omitempty" jsonschema:"minimum=0"`
	MaxTicks     int          `json:"maxTicks,omitempty" yaml:"maxTicks,omitempty" jsonschema:"minimum=0"`
	MinDistance  float64      `json:"minDistance,omitempty" yaml:"minDistance,omitempty" jsonschema:"minimum=0"`
}

// GravityTemplate captures a hit hero and pulls it towards the impact point.
type GravityTemplate struct {
	Strength float64 `json:"strength" yaml:"strength" jsonschema:"required,minimum=0"`
	Radius   float64 `json:"radius" yaml:"radius" jsonschema:"required,exclusiveMinimum=0"`
	Power    float64 `json:"power,omitempty" yaml:"power,omitempty" jsonschema:"minimum=0"`
	MaxTicks int     `json:"maxTicks" yaml:"maxTicks" jsonschema:"required,minimum=1"`
}

// LinkTemplate tethers the owner to the object the projectile hits.
type LinkTemplate struct {
	Strength                 float64    `json:"strength" yaml:"strength" jsonschema:"required,minimum=0"`
	MinDistance              float64    `json:"minDistance,omitempty" yaml:"minDistance,omitempty" jsonschema:"minimum=0"`
	MaxDistance              float64    `json:"maxDistance,omitempty" yaml:"maxDistance,omitempty" jsonschema:"minimum=0"`
	MaxTicks                 int        `json:"maxTicks" yaml:"maxTicks" jsonschema:"required,minimum=1"`
	SelfFactor               float64    `json:"selfFactor,omitempty" yaml:"selfFactor,omitempty" jsonschema:"minimum=0"`
	TargetFactor             float64    `json:"targetFactor,omitempty" yaml:"targetFactor,omitempty" jsonschema:"minimum=0"`
	RedirectDamageProportion float64    `json:"redirectDamageProportion,omitempty" yaml:"redirectDamageProportion,omitempty" jsonschema:"minimum=0,maximum=1"`
	Against                  []Alliance `json:"against,omitempty" yaml:"against,omitempty"`
}

// BounceTemplate reflects a projectile off obstacles and unaffected heroes.
type BounceTemplate struct {
	MaxBounces int  `json:"maxBounces,omitempty" yaml:"maxBounces,omitempty" jsonschema:"minimum=0"`
	Retarget   bool `json:"retarget,omitempty" yaml:"retarget,omitempty" jsonschema:"description=Aim at the nearest enemy after bouncing"`
}

// DetonateTemplate describes a radial explosion.
type DetonateTemplate struct {
	Radius     float64        `json:"radius" yaml:"radius" jsonschema:"required,exclusiveMinimum=0"`
	Damage     float64        `json:"damage,omitempty" yaml:"damage,omitempty" jsonschema:"minimum=0"`
	LifeSteal  float64        `json:"lifeSteal,omitempty" yaml:"lifeSteal,omitempty" jsonschema:"minimum=0,maximum=1"`
	MinImpulse float64        `json:"minImpulse,omitempty" yaml:"minImpulse,omitempty" jsonschema:"minimum=0"`
	MaxImpulse float64        `json:"maxImpulse,omitempty" yaml:"maxImpulse,omitempty" jsonschema:"minimum=0"`
	Against    []Alliance     `json:"against,omitempty" yaml:"against,omitempty"`
	Buffs      []BuffTemplate `json:"buffs,omitempty" yaml:"buffs,omitempty"`
}

// SprayTemplate fires a projectile every interval while channelling.
type SprayTemplate struct {
	Projectile    ProjectileTemplate `json:"projectile" yaml:"projectile" jsonschema:"required"`
	IntervalTicks int                `json:"intervalTicks" yaml:"intervalTicks" jsonschema:"required,minimum=1"`
	LengthTicks   int                `json:"lengthTicks" yaml:"lengthTicks" jsonschema:"required,minimum=1"`
	SpreadRevs    float64            `json:"spreadRevs,omitempty" yaml:"spreadRevs,omitempty" jsonschema:"minimum=0"`
}

// ThrustTemplate dashes the hero towards the target.
type ThrustTemplate struct {
	Speed    float64 `json:"speed" yaml:"speed" jsonschema:"required,exclusiveMinimum=0,description=Arena units per second"`
	MaxTicks int     `json:"maxTicks" yaml:"maxTicks" jsonschema:"required,minimum=1"`
	Damage   float64 `json:"damage,omitempty" yaml:"damage,omitempty" jsonschema:"minimum=0"`
}

// TeleportTemplate moves the hero instantly.
type TeleportTemplate struct {
	MaxRange float64 `json:"maxRange" yaml:"maxRange" jsonschema:"required,exclusiveMinimum=0"`
}

// WallTemplate places a static barrier at the target.
type WallTemplate struct {
	Length          float64 `json:"length" yaml:"length" jsonschema:"required,exclusiveMinimum=0"`
	Width           float64 `json:"width" yaml:"width" jsonschema:"required,exclusiveMinimum=0"`
	MaxRange        float64 `json:"maxRange" yaml:"maxRange" jsonschema:"required,exclusiveMinimum=0"`
	MaxTicks        int     `json:"maxTicks" yaml:"maxTicks" jsonschema:"required,minimum=1"`
	SelfPassthrough bool    `json:"selfPassthrough,omitempty" yaml:"selfPassthrough,omitempty"`
}

// ShieldTemplate surrounds the caster with a reflecting bubble.
type ShieldTemplate struct {
	Radius   float64 `json:"radius" yaml:"radius" jsonschema:"required,exclusiveMinimum=0"`
	MaxTicks int     `json:"maxTicks" yaml:"maxTicks" jsonschema:"required,minimum=1"`
}

// SaberTemplate swings a blade that swats projectiles and knocks heroes.
type SaberTemplate struct {
	Length           float64 `json:"length" yaml:"length" jsonschema:"required,exclusiveMinimum=0"`
	Width            float64 `json:"width" yaml:"width" jsonschema:"required,exclusiveMinimum=0"`
	TurnRateRevs     float64 `json:"turnRateRevs" yaml:"turnRateRevs" jsonschema:"required,exclusiveMinimum=0"`
	Damage           float64 `json:"damage,omitempty" yaml:"damage,omitempty" jsonschema:"minimum=0"`
	Impulse          float64 `json:"impulse,omitempty" yaml:"impulse,omitempty" jsonschema:"minimum=0"`
	HitIntervalTicks int     `json:"hitIntervalTicks,omitempty" yaml:"hitIntervalTicks,omitempty" jsonschema:"minimum=0"`
}

// ScourgeTemplate hurts the caster and detonates around them.
type ScourgeTemplate struct {
	SelfDamage    float64          `json:"selfDamage" yaml:"selfDamage" jsonschema:"required,minimum=0"`
	MinSelfHealth float64          `json:"minSelfHealth,omitempty" yaml:"minSelfHealth,omitempty" jsonschema:"minimum=0"`
	Detonate      DetonateTemplate `json:"detonate" yaml:"detonate" jsonschema:"required"`
}

// BuffTemplate describes a temporary modifier on a hero.
type BuffTemplate struct {
	Type             BuffType   `json:"type" yaml:"type" jsonschema:"required,enum=movement,enum=armor,enum=burn,enum=lifeSteal,enum=cooldown,enum=mass,enum=vanish,enum=cleanse"`
	Stack            string     `json:"stack,omitempty" yaml:"stack,omitempty" jsonschema:"description=Buffs sharing a stack sum their effects"`
	MaxStacks        int        `json:"maxStacks,omitempty" yaml:"maxStacks,omitempty" jsonschema:"minimum=0"`
	MaxTicks         int        `json:"maxTicks" yaml:"maxTicks" jsonschema:"required,minimum=1"`
	CancelOnHit      bool       `json:"cancelOnHit,omitempty" yaml:"cancelOnHit,omitempty"`
	Channelling      bool       `json:"channelling,omitempty" yaml:"channelling,omitempty"`
	Against          []Alliance `json:"against,omitempty" yaml:"against,omitempty"`
	Movement         float64    `json:"movement,omitempty" yaml:"movement,omitempty" jsonschema:"description=Multiplier applied to move speed"`
	Armor            float64    `json:"armor,omitempty" yaml:"armor,omitempty" jsonschema:"minimum=-1,maximum=1,description=Proportion of damage prevented"`
	SourceSpecific   bool       `json:"sourceSpecific,omitempty" yaml:"sourceSpecific,omitempty" jsonschema:"description=Armor only applies to damage from the buff source"`
	BurnDamage       float64    `json:"burnDamage,omitempty" yaml:"burnDamage,omitempty" jsonschema:"minimum=0"`
	HitIntervalTicks int        `json:"hitIntervalTicks,omitempty" yaml:"hitIntervalTicks,omitempty" jsonschema:"minimum=0"`
	LifeSteal        float64    `json:"lifeSteal,omitempty" yaml:"lifeSteal,omitempty" jsonschema:"minimum=0,maximum=1"`
	CooldownRate     float64    `json:"cooldownRate,omitempty" yaml:"cooldownRate,omitempty" jsonschema:"description=Extra cooldown ticks recovered per tick"`
	Density          float64    `json:"density,omitempty" yaml:"density,omitempty" jsonschema:"minimum=0"`
}
