package status_effects

import (
	"context"

	"github.com/justchen1369/acolyte-fight-sub000/logging"
)

const (
	// EventApplied is emitted when a buff is attached to a hero.
	EventApplied logging.EventType = "status_effects.applied"
	// EventExpired is emitted when a buff is removed from a hero.
	EventExpired logging.EventType = "status_effects.expired"
)

// AppliedPayload captures details about a buff application.
type AppliedPayload struct {
	Buff     string `json:"buff"`
	Type     string `json:"type"`
	SourceID string `json:"sourceId,omitempty"`
	MaxTicks int    `json:"maxTicks,omitempty"`
	Stacks   int    `json:"stacks,omitempty"`
}

// ExpiredPayload names the buff and why it was removed.
type ExpiredPayload struct {
	Buff   string `json:"buff"`
	Reason string `json:"reason"`
}

// Applied publishes a buff application event.
func Applied(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, target logging.EntityRef, payload AppliedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	event := logging.Event{
		Type:     EventApplied,
		Tick:     tick,
		Actor:    actor,
		Targets:  []logging.EntityRef{target},
		Severity: logging.SeverityDebug,
		Category: "status_effects",
		Payload:  payload,
		Extra:    extra,
	}
	pub.Publish(ctx, event)
}

// Expired publishes a buff removal event.
func Expired(ctx context.Context, pub logging.Publisher, tick uint64, target logging.EntityRef, payload ExpiredPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	event := logging.Event{
		Type:     EventExpired,
		Tick:     tick,
		Actor:    target,
		Severity: logging.SeverityDebug,
		Category: "status_effects",
		Payload:  payload,
		Extra:    extra,
	}
	pub.Publish(ctx, event)
}
