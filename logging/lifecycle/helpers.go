package lifecycle

import (
	"context"

	"github.com/justchen1369/acolyte-fight-sub000/logging"
)

const (
	// EventPlayerJoined is emitted when a player joins the world.
	EventPlayerJoined logging.EventType = "lifecycle.player_joined"
	// EventPlayerLeft is emitted when a player leaves the world.
	EventPlayerLeft logging.EventType = "lifecycle.player_left"
	// EventGameClosed is emitted when the match stops accepting joins.
	EventGameClosed logging.EventType = "lifecycle.game_closed"
	// EventGameFinished is emitted once a winner is decided.
	EventGameFinished logging.EventType = "lifecycle.game_finished"
)

// PlayerJoinedPayload captures spawn metadata for a new player.
type PlayerJoinedPayload struct {
	Name   string  `json:"name,omitempty"`
	Bot    bool    `json:"bot,omitempty"`
	SpawnX float64 `json:"spawnX"`
	SpawnY float64 `json:"spawnY"`
}

// PlayerLeftPayload captures why a player left.
type PlayerLeftPayload struct {
	Reason    string `json:"reason"`
	HandedOff bool   `json:"handedOff,omitempty"`
}

// GameClosedPayload reports when play starts.
type GameClosedPayload struct {
	StartTick uint64 `json:"startTick"`
}

// GameFinishedPayload names the winning hero and team.
type GameFinishedPayload struct {
	Winner  string   `json:"winner,omitempty"`
	Winners []string `json:"winners,omitempty"`
}

// PlayerJoined publishes a player join event.
func PlayerJoined(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload PlayerJoinedPayload, extra map[string]any) {
	publish(ctx, pub, EventPlayerJoined, tick, actor, payload, extra)
}

// PlayerLeft publishes a player leave event.
func PlayerLeft(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload PlayerLeftPayload, extra map[string]any) {
	publish(ctx, pub, EventPlayerLeft, tick, actor, payload, extra)
}

// GameClosed publishes when joining closes.
func GameClosed(ctx context.Context, pub logging.Publisher, tick uint64, payload GameClosedPayload) {
	publish(ctx, pub, EventGameClosed, tick, logging.World(), payload, nil)
}

// GameFinished publishes when the match has a winner.
func GameFinished(ctx context.Context, pub logging.Publisher, tick uint64, payload GameFinishedPayload) {
	publish(ctx, pub, EventGameFinished, tick, logging.World(), payload, nil)
}

func publish(ctx context.Context, pub logging.Publisher, eventType logging.EventType, tick uint64, actor logging.EntityRef, payload any, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     eventType,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryLifecycle,
		Payload:  payload,
		Extra:    extra,
	})
}
