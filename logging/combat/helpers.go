package combat

import (
	"context"

	"github.com/justchen1369/acolyte-fight-sub000/logging"
)

const (
	// EventDamage is emitted when a hero loses health to a damage packet.
	EventDamage logging.EventType = "combat.damage"
	// EventDefeat is emitted when a hero is reaped.
	EventDefeat logging.EventType = "combat.defeat"
	// EventLifeSteal is emitted when damage heals its source.
	EventLifeSteal logging.EventType = "combat.lifesteal"
	// EventObstacleDestroyed is emitted when an obstacle reaches zero health.
	EventObstacleDestroyed logging.EventType = "combat.obstacle_destroyed"
)

// DamagePayload captures the amount dealt to a single target.
type DamagePayload struct {
	Spell        string  `json:"spell,omitempty"`
	Requested    float64 `json:"requested"`
	Amount       float64 `json:"amount"`
	Redirected   float64 `json:"redirected,omitempty"`
	TargetHealth float64 `json:"targetHealth"`
	Lava         bool    `json:"lava,omitempty"`
}

// DefeatPayload describes the context for a fatal blow.
type DefeatPayload struct {
	Killer    string `json:"killer,omitempty"`
	Knockback string `json:"knockback,omitempty"`
}

// LifeStealPayload reports the health restored to the attacker.
type LifeStealPayload struct {
	Amount float64 `json:"amount"`
}

// Damage publishes a combat damage event for a single target.
func Damage(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, target logging.EntityRef, payload DamagePayload, extra map[string]any) {
	publish(ctx, pub, EventDamage, logging.SeverityDebug, tick, actor, []logging.EntityRef{target}, payload, extra)
}

// Defeat publishes a combat defeat event for the eliminated hero.
func Defeat(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, target logging.EntityRef, payload DefeatPayload, extra map[string]any) {
	publish(ctx, pub, EventDefeat, logging.SeverityInfo, tick, actor, []logging.EntityRef{target}, payload, extra)
}

// LifeSteal publishes a lifesteal event for the healed hero.
func LifeSteal(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload LifeStealPayload, extra map[string]any) {
	publish(ctx, pub, EventLifeSteal, logging.SeverityDebug, tick, actor, nil, payload, extra)
}

// ObstacleDestroyed publishes when the reaper removes a broken obstacle.
func ObstacleDestroyed(ctx context.Context, pub logging.Publisher, tick uint64, obstacle logging.EntityRef, extra map[string]any) {
	publish(ctx, pub, EventObstacleDestroyed, logging.SeverityInfo, tick, obstacle, nil, nil, extra)
}

func publish(ctx context.Context, pub logging.Publisher, eventType logging.EventType, severity logging.Severity, tick uint64, actor logging.EntityRef, targets []logging.EntityRef, payload any, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     eventType,
		Tick:     tick,
		Actor:    actor,
		Targets:  targets,
		Severity: severity,
		Category: logging.CategoryCombat,
		Payload:  payload,
		Extra:    extra,
	})
}
