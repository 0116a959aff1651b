package contract

// Settings groups the match-wide tunables.
type Settings struct {
	World WorldSettings `json:"world" yaml:"world"`
	Hero  HeroSettings  `json:"hero" yaml:"hero"`
}

// WorldSettings configures the arena and timing.
type WorldSettings struct {
	TicksPerSecond        int     `json:"ticksPerSecond,omitempty" yaml:"ticksPerSecond,omitempty" jsonschema:"minimum=1"`
	Size                  float64 `json:"size,omitempty" yaml:"size,omitempty" jsonschema:"minimum=0"`
	InitialRadius         float64 `json:"initialRadius,omitempty" yaml:"initialRadius,omitempty" jsonschema:"minimum=0"`
	MinRadius             float64 `json:"minRadius,omitempty" yaml:"minRadius,omitempty" jsonschema:"minimum=0"`
	ShrinkPerTick         float64 `json:"shrinkPerTick,omitempty" yaml:"shrinkPerTick,omitempty" jsonschema:"minimum=0"`
	LavaDamage            float64 `json:"lavaDamage,omitempty" yaml:"lavaDamage,omitempty" jsonschema:"minimum=0"`
	LavaIntervalTicks     int     `json:"lavaIntervalTicks,omitempty" yaml:"lavaIntervalTicks,omitempty" jsonschema:"minimum=0"`
	SnapshotIntervalTicks int     `json:"snapshotIntervalTicks,omitempty" yaml:"snapshotIntervalTicks,omitempty" jsonschema:"minimum=0"`
	MaxCooldownWaitTicks  int     `json:"maxCooldownWaitTicks,omitempty" yaml:"maxCooldownWaitTicks,omitempty" jsonschema:"minimum=0"`
	ThrottleTicks         int     `json:"throttleTicks,omitempty" yaml:"throttleTicks,omitempty" jsonschema:"minimum=0"`
	DamageMitigationTicks int     `json:"damageMitigationTicks,omitempty" yaml:"damageMitigationTicks,omitempty" jsonschema:"minimum=0"`
}

// HeroSettings configures every hero body.
type HeroSettings struct {
	Radius              float64 `json:"radius,omitempty" yaml:"radius,omitempty" jsonschema:"minimum=0"`
	Density             float64 `json:"density,omitempty" yaml:"density,omitempty" jsonschema:"minimum=0"`
	Damping             float64 `json:"damping,omitempty" yaml:"damping,omitempty" jsonschema:"minimum=0"`
	MaxHealth           float64 `json:"maxHealth,omitempty" yaml:"maxHealth,omitempty" jsonschema:"minimum=0"`
	MoveSpeed           float64 `json:"moveSpeed,omitempty" yaml:"moveSpeed,omitempty" jsonschema:"minimum=0,description=Arena units per second"`
	TurnRateRevs        float64 `json:"turnRateRevs,omitempty" yaml:"turnRateRevs,omitempty" jsonschema:"minimum=0,description=Revolutions per tick"`
	MaxAngleDiffInRevs  float64 `json:"maxAngleDiffInRevs,omitempty" yaml:"maxAngleDiffInRevs,omitempty" jsonschema:"minimum=0"`
	SpawnRadius         float64 `json:"spawnRadius,omitempty" yaml:"spawnRadius,omitempty" jsonschema:"minimum=0,description=Fraction of the arena radius"`
	Restitution         float64 `json:"restitution,omitempty" yaml:"restitution,omitempty" jsonschema:"minimum=0,maximum=1"`
}

// ObstacleTemplate describes a kind of obstacle the layout can place.
type ObstacleTemplate struct {
	ID               string            `json:"id" yaml:"id" jsonschema:"required,pattern=^[a-z0-9-]+$"`
	Sides            int               `json:"sides" yaml:"sides" jsonschema:"required,minimum=3"`
	Extent           float64           `json:"extent" yaml:"extent" jsonschema:"required,exclusiveMinimum=0"`
	Health           float64           `json:"health,omitempty" yaml:"health,omitempty" jsonschema:"minimum=0,description=0 means indestructible"`
	Static           bool              `json:"static,omitempty" yaml:"static,omitempty"`
	Sensor           bool              `json:"sensor,omitempty" yaml:"sensor,omitempty"`
	Density          float64           `json:"density,omitempty" yaml:"density,omitempty" jsonschema:"minimum=0"`
	Damping          float64           `json:"damping,omitempty" yaml:"damping,omitempty" jsonschema:"minimum=0"`
	Damage           float64           `json:"damage,omitempty" yaml:"damage,omitempty" jsonschema:"minimum=0"`
	HitIntervalTicks int               `json:"hitIntervalTicks,omitempty" yaml:"hitIntervalTicks,omitempty" jsonschema:"minimum=0"`
	Buffs            []BuffTemplate    `json:"buffs,omitempty" yaml:"buffs,omitempty"`
	Conveyor         *ConveyorTemplate `json:"conveyor,omitempty" yaml:"conveyor,omitempty"`
	Detonate         *DetonateTemplate `json:"detonate,omitempty" yaml:"detonate,omitempty"`
}

// ConveyorTemplate pushes heroes standing on a sensor obstacle.
type ConveyorTemplate struct {
	RadialSpeed  float64 `json:"radialSpeed,omitempty" yaml:"radialSpeed,omitempty"`
	LateralSpeed float64 `json:"lateralSpeed,omitempty" yaml:"lateralSpeed,omitempty"`
}

// ObstacleLayout places Count copies of a template around the arena. Distances
// are fractions of the arena radius.
type ObstacleLayout struct {
	Obstacle    string  `json:"obstacle" yaml:"obstacle" jsonschema:"required"`
	Count       int     `json:"count" yaml:"count" jsonschema:"required,minimum=0"`
	MinDistance float64 `json:"minDistance,omitempty" yaml:"minDistance,omitempty" jsonschema:"minimum=0,maximum=1"`
	MaxDistance float64 `json:"maxDistance,omitempty" yaml:"maxDistance,omitempty" jsonschema:"minimum=0,maximum=1"`
}

// KeyBinding is one spell slot and the spells allowed in it.
type KeyBinding struct {
	Key     string   `json:"key" yaml:"key" jsonschema:"required"`
	Default string   `json:"default" yaml:"default" jsonschema:"required"`
	Options []string `json:"options,omitempty" yaml:"options,omitempty"`
}

// DefaultSettings are used for any field a ruleset leaves at zero.
func DefaultSettings() Settings {
	return Settings{
		World: WorldSettings{
			TicksPerSecond:        60,
			Size:                  1,
			InitialRadius:         0.4,
			MinRadius:             0.15,
			ShrinkPerTick:         0.00002,
			LavaDamage:            0.25,
			LavaIntervalTicks:     1,
			SnapshotIntervalTicks: 6,
			MaxCooldownWaitTicks:  18,
			ThrottleTicks:         6,
			DamageMitigationTicks: 60,
		},
		Hero: HeroSettings{
			Radius:             0.0125,
			Density:            0.5,
			Damping:            3,
			MaxHealth:          100,
			MoveSpeed:          0.12,
			TurnRateRevs:       0.05,
			MaxAngleDiffInRevs: 0.01,
			SpawnRadius:        0.6,
		},
	}
}

// Normalized fills zero fields from DefaultSettings.
func (s Settings) Normalized() Settings {
	def := DefaultSettings()
	w, dw := &s.World, def.World
	if w.TicksPerSecond <= 0 {
		w.TicksPerSecond = dw.TicksPerSecond
	}
	if w.Size <= 0 {
		w.Size = dw.Size
	}
	if w.InitialRadius <= 0 {
		w.InitialRadius = dw.InitialRadius
	}
	if w.MinRadius <= 0 || w.MinRadius > w.InitialRadius {
		w.MinRadius = min(dw.MinRadius, w.InitialRadius)
	}
	if w.LavaIntervalTicks <= 0 {
		w.LavaIntervalTicks = dw.LavaIntervalTicks
	}
	if w.SnapshotIntervalTicks <= 0 {
		w.SnapshotIntervalTicks = dw.SnapshotIntervalTicks
	}
	if w.MaxCooldownWaitTicks <= 0 {
		w.MaxCooldownWaitTicks = dw.MaxCooldownWaitTicks
	}
	if w.DamageMitigationTicks <= 0 {
		w.DamageMitigationTicks = dw.DamageMitigationTicks
	}

	h, dh := &s.Hero, def.Hero
	if h.Radius <= 0 {
		h.Radius = dh.Radius
	}
	if h.Density <= 0 {
		h.Density = dh.Density
	}
	if h.MaxHealth <= 0 {
		h.MaxHealth = dh.MaxHealth
	}
	if h.MoveSpeed <= 0 {
		h.MoveSpeed = dh.MoveSpeed
	}
	if h.TurnRateRevs <= 0 {
		h.TurnRateRevs = dh.TurnRateRevs
	}
	if h.MaxAngleDiffInRevs <= 0 {
		h.MaxAngleDiffInRevs = dh.MaxAngleDiffInRevs
	}
	if h.SpawnRadius <= 0 {
		h.SpawnRadius = dh.SpawnRadius
	}
	return s
}
