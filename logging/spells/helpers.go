package spells

import (
	"context"

	"github.com/justchen1369/acolyte-fight-sub000/logging"
)

const (
	// EventCastStarted is emitted when a hero enters channelling.
	EventCastStarted logging.EventType = "spells.cast_started"
	// EventCastFailed is emitted when a pending cast is abandoned.
	EventCastFailed logging.EventType = "spells.cast_failed"
	// EventCastInterrupted is emitted when a new action replaces a running cast.
	EventCastInterrupted logging.EventType = "spells.cast_interrupted"
	// EventActionDropped is emitted when an action never reaches the cast queue.
	EventActionDropped logging.EventType = "spells.action_dropped"
)

// CastPayload identifies the spell and the stage it reached.
type CastPayload struct {
	Spell  string  `json:"spell"`
	Stage  string  `json:"stage,omitempty"`
	Reason string  `json:"reason,omitempty"`
	Charge float64 `json:"charge,omitempty"`
}

// CastStarted publishes when a cast begins channelling.
func CastStarted(ctx context.Context, pub logging.Publisher, tick uint64, hero logging.EntityRef, payload CastPayload) {
	publish(ctx, pub, EventCastStarted, logging.SeverityDebug, tick, hero, payload)
}

// CastFailed publishes when a cast is dropped without firing.
func CastFailed(ctx context.Context, pub logging.Publisher, tick uint64, hero logging.EntityRef, payload CastPayload) {
	publish(ctx, pub, EventCastFailed, logging.SeverityInfo, tick, hero, payload)
}

// CastInterrupted publishes when a running cast is cancelled.
func CastInterrupted(ctx context.Context, pub logging.Publisher, tick uint64, hero logging.EntityRef, payload CastPayload) {
	publish(ctx, pub, EventCastInterrupted, logging.SeverityDebug, tick, hero, payload)
}

// ActionDropped publishes when input is discarded by the resolver.
func ActionDropped(ctx context.Context, pub logging.Publisher, tick uint64, hero logging.EntityRef, payload CastPayload) {
	publish(ctx, pub, EventActionDropped, logging.SeverityDebug, tick, hero, payload)
}

func publish(ctx context.Context, pub logging.Publisher, eventType logging.EventType, severity logging.Severity, tick uint64, hero logging.EntityRef, payload CastPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     eventType,
		Tick:     tick,
		Actor:    hero,
		Severity: severity,
		Category: logging.CategorySpells,
		Payload:  payload,
	})
}
