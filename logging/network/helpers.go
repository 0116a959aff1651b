package network

import (
	"context"

	"github.com/justchen1369/acolyte-fight-sub000/logging"
)

const (
	// EventClientConnected is emitted when a websocket client is accepted.
	EventClientConnected logging.EventType = "network.client_connected"
	// EventClientDisconnected is emitted when a websocket client goes away.
	EventClientDisconnected logging.EventType = "network.client_disconnected"
	// EventFrameRejected is emitted when an inbound frame cannot be decoded.
	EventFrameRejected logging.EventType = "network.frame_rejected"
)

// ConnectionPayload describes a client connection.
type ConnectionPayload struct {
	RemoteAddr string `json:"remoteAddr,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

// FrameRejectedPayload describes a bad inbound frame.
type FrameRejectedPayload struct {
	Error string `json:"error"`
}

// ClientConnected publishes when a client is upgraded.
func ClientConnected(ctx context.Context, pub logging.Publisher, actor logging.EntityRef, payload ConnectionPayload) {
	publish(ctx, pub, EventClientConnected, logging.SeverityInfo, actor, payload)
}

// ClientDisconnected publishes when a client connection ends.
func ClientDisconnected(ctx context.Context, pub logging.Publisher, actor logging.EntityRef, payload ConnectionPayload) {
	publish(ctx, pub, EventClientDisconnected, logging.SeverityInfo, actor, payload)
}

// FrameRejected publishes a warning for undecodable input.
func FrameRejected(ctx context.Context, pub logging.Publisher, actor logging.EntityRef, payload FrameRejectedPayload) {
	publish(ctx, pub, EventFrameRejected, logging.SeverityWarn, actor, payload)
}

func publish(ctx context.Context, pub logging.Publisher, eventType logging.EventType, severity logging.Severity, actor logging.EntityRef, payload any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     eventType,
		Actor:    actor,
		Severity: severity,
		Category: "network",
		Payload:  payload,
	})
}
