// Package proto defines the JSON messages exchanged with arena clients over
// the websocket transport.
package proto

import (
	"encoding/json"
	"fmt"

	"github.com/justchen1369/acolyte-fight-sub000/internal/world"
)

// Version tracks the wire-protocol revision expected by clients.
const Version = 1

// Client message type identifiers.
const (
	TypeAction    = "action"
	TypeSpells    = "spells"
	TypeHeartbeat = "heartbeat"
)

// Server message type identifiers.
const (
	TypeWelcome       = "welcome"
	TypeTick          = "tick"
	TypeCommandReject = "commandReject"
	TypeHeartbeatAck  = "heartbeatAck"
)

// ClientMessage is the union of everything a client may send. Fields not
// used by Type are ignored.
type ClientMessage struct {
	Ver     int               `json:"ver,omitempty"`
	Type    string            `json:"type"`
	Seq     uint64            `json:"seq,omitempty"`
	SpellID string            `json:"spellId,omitempty"`
	TargetX float64           `json:"targetX"`
	TargetY float64           `json:"targetY"`
	Release bool              `json:"release,omitempty"`
	Keys    map[string]string `json:"keys,omitempty"`
	SentAt  int64             `json:"sentAt,omitempty"`
}

// DecodeClientMessage parses one inbound frame.
func DecodeClientMessage(data []byte) (ClientMessage, error) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return ClientMessage{}, fmt.Errorf("decode client message: %w", err)
	}
	if msg.Ver != 0 && msg.Ver != Version {
		return ClientMessage{}, fmt.Errorf("unsupported protocol version %d", msg.Ver)
	}
	return msg, nil
}

// WelcomeMessage tells a freshly connected client which hero it controls.
type WelcomeMessage struct {
	Ver        int    `json:"ver"`
	Type       string `json:"type"`
	MatchID    string `json:"matchId"`
	HeroID     string `json:"heroId"`
	ControlKey string `json:"controlKey"`
	Tick       uint64 `json:"tick"`
	TickRate   int    `json:"tickRate"`
}

// NewWelcome builds a welcome message.
func NewWelcome(matchID, heroID, controlKey string, tick uint64, tickRate int) WelcomeMessage {
	return WelcomeMessage{
		Ver:        Version,
		Type:       TypeWelcome,
		MatchID:    matchID,
		HeroID:     heroID,
		ControlKey: controlKey,
		Tick:       tick,
		TickRate:   tickRate,
	}
}

// EventMessage wraps a world event with its type name.
type EventMessage struct {
	Type  string      `json:"type"`
	Event world.Event `json:"event"`
}

// TickMessage is broadcast after every simulation tick.
type TickMessage struct {
	Ver      int             `json:"ver"`
	Type     string          `json:"type"`
	Tick     uint64          `json:"tick"`
	Events   []EventMessage  `json:"events,omitempty"`
	Snapshot *world.Snapshot `json:"snapshot,omitempty"`
	Winner   string          `json:"winner,omitempty"`
}

// NewTick renders a tick's events and the latest sampled snapshot.
func NewTick(tick uint64, events []world.Event, snapshots []world.Snapshot, winner string) TickMessage {
	msg := TickMessage{Ver: Version, Type: TypeTick, Tick: tick, Winner: winner}
	for _, e := range events {
		msg.Events = append(msg.Events, EventMessage{Type: EventType(e), Event: e})
	}
	if n := len(snapshots); n > 0 {
		snap := snapshots[n-1]
		msg.Snapshot = &snap
	}
	return msg
}

// Empty reports whether the message carries nothing worth sending.
func (m TickMessage) Empty() bool {
	return len(m.Events) == 0 && m.Snapshot == nil && m.Winner == ""
}

// EventType names a world event on the wire.
func EventType(e world.Event) string {
	switch e.(type) {
	case *world.DetonateEvent:
		return "detonate"
	case *world.TeleportEvent:
		return "teleport"
	case *world.PushEvent:
		return "push"
	case *world.LifeStealEvent:
		return "lifeSteal"
	case *world.CooldownFlashEvent:
		return "cooldownFlash"
	case *world.CastFailedEvent:
		return "castFailed"
	case *world.DeathEvent:
		return "death"
	default:
		return "unknown"
	}
}

// CommandRejectMessage tells a client its sequenced message was dropped.
type CommandRejectMessage struct {
	Ver    int    `json:"ver"`
	Type   string `json:"type"`
	Seq    uint64 `json:"seq"`
	Reason string `json:"reason"`
	Retry  bool   `json:"retry,omitempty"`
}

// NewCommandReject builds a reject message.
func NewCommandReject(seq uint64, reason string, retry bool) CommandRejectMessage {
	return CommandRejectMessage{Ver: Version, Type: TypeCommandReject, Seq: seq, Reason: reason, Retry: retry}
}

// HeartbeatAckMessage echoes the client timestamp.
type HeartbeatAckMessage struct {
	Ver        int    `json:"ver"`
	Type       string `json:"type"`
	ServerTime int64  `json:"serverTime"`
	ClientTime int64  `json:"clientTime"`
}

// NewHeartbeatAck builds a heartbeat acknowledgement.
func NewHeartbeatAck(serverTime, clientTime int64) HeartbeatAckMessage {
	return HeartbeatAckMessage{Ver: Version, Type: TypeHeartbeatAck, ServerTime: serverTime, ClientTime: clientTime}
}

// Encode renders any outbound message.
func Encode(msg any) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encode %T: %w", msg, err)
	}
	return data, nil
}
