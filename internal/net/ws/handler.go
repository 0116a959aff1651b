package ws

import (
	"context"
	nethttp "net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/justchen1369/acolyte-fight-sub000/internal/net/intake"
	"github.com/justchen1369/acolyte-fight-sub000/internal/net/proto"
	"github.com/justchen1369/acolyte-fight-sub000/internal/sim"
	"github.com/justchen1369/acolyte-fight-sub000/internal/telemetry"
	"github.com/justchen1369/acolyte-fight-sub000/internal/world"
	"github.com/justchen1369/acolyte-fight-sub000/logging"
	loggingnetwork "github.com/justchen1369/acolyte-fight-sub000/logging/network"
)

const maxNameLength = 32

type HandlerConfig struct {
	Engine    sim.Engine
	Hub       *Hub
	Logger    telemetry.Logger
	Publisher logging.Publisher
	MatchID   string
	TickRate  int
	// NewID generates hero ids and control keys. Defaults to random UUIDs.
	NewID func() string
}

// Handler upgrades connections and bridges them onto the simulation loop:
// connecting joins the match, every frame becomes a staged command and
// disconnecting leaves it.
type Handler struct {
	cfg      HandlerConfig
	upgrader websocket.Upgrader
}

func NewHandler(cfg HandlerConfig) *Handler {
	if cfg.Logger == nil {
		cfg.Logger = telemetry.LoggerFunc(nil)
	}
	if cfg.Publisher == nil {
		cfg.Publisher = logging.NopPublisher()
	}
	if cfg.Hub == nil {
		cfg.Hub = NewHub(nil)
	}
	if cfg.NewID == nil {
		cfg.NewID = uuid.NewString
	}
	return &Handler{
		cfg: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *nethttp.Request) bool {
				return true
			},
		},
	}
}

// Hub returns the hub sessions are registered with.
func (h *Handler) Hub() *Hub {
	return h.cfg.Hub
}

func (h *Handler) Handle(w nethttp.ResponseWriter, r *nethttp.Request) {
	if h.cfg.Engine == nil {
		nethttp.Error(w, "match unavailable", nethttp.StatusServiceUnavailable)
		return
	}
	name := playerName(r.URL.Query().Get("name"))

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.cfg.Logger.Printf("upgrade failed for %s: %v", r.RemoteAddr, err)
		return
	}

	session := newSession(conn, "hero-"+h.cfg.NewID(), h.cfg.NewID(), name)
	h.Serve(r.Context(), session, r.RemoteAddr)
}

// Serve runs the session until the client goes away.
func (h *Handler) Serve(ctx context.Context, session *Session, remoteAddr string) {
	actor := logging.Hero(session.HeroID)
	join := world.ControlMessage{Type: world.ControlJoin, Join: &world.JoinMessage{
		HeroID:     session.HeroID,
		ControlKey: session.ControlKey,
		PlayerName: session.Name,
	}}
	if ok, reason := h.cfg.Engine.Enqueue(sim.ControlCommand(join)); !ok {
		h.cfg.Logger.Printf("join rejected for %s: %s", session.HeroID, reason)
		_ = session.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, reason), time.Now().Add(writeWait))
		_ = session.conn.Close()
		return
	}

	var tick uint64
	h.cfg.Engine.View(func(w *world.World) { tick = w.Tick() })
	welcome, err := proto.Encode(proto.NewWelcome(h.cfg.MatchID, session.HeroID, session.ControlKey, tick, h.cfg.TickRate))
	if err != nil {
		h.cfg.Logger.Printf("failed to encode welcome for %s: %v", session.HeroID, err)
	} else {
		session.Enqueue(welcome)
	}

	h.cfg.Hub.register(session)
	go session.writePump()
	loggingnetwork.ClientConnected(ctx, h.cfg.Publisher, actor, loggingnetwork.ConnectionPayload{RemoteAddr: remoteAddr})

	reason := h.readLoop(ctx, session)

	session.Close()
	h.cfg.Hub.unregister(session)
	leave := world.ControlMessage{Type: world.ControlLeave, Leave: &world.LeaveMessage{
		HeroID:     session.HeroID,
		ControlKey: session.ControlKey,
	}}
	if ok, dropReason := h.cfg.Engine.Enqueue(sim.ControlCommand(leave)); !ok {
		h.cfg.Logger.Printf("leave dropped for %s: %s", session.HeroID, dropReason)
	}
	loggingnetwork.ClientDisconnected(ctx, h.cfg.Publisher, actor, loggingnetwork.ConnectionPayload{
		RemoteAddr: remoteAddr,
		Reason:     reason,
	})
}

func (h *Handler) readLoop(ctx context.Context, session *Session) string {
	conn := session.conn
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	intakeCtx := intake.CommandContext{Engine: h.cfg.Engine}

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return "closed"
			}
			return err.Error()
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))

		msg, err := proto.DecodeClientMessage(payload)
		if err != nil {
			loggingnetwork.FrameRejected(ctx, h.cfg.Publisher, logging.Hero(session.HeroID), loggingnetwork.FrameRejectedPayload{Error: err.Error()})
			continue
		}

		if msg.Type == proto.TypeHeartbeat {
			h.send(session, proto.NewHeartbeatAck(time.Now().UnixMilli(), msg.SentAt))
			continue
		}

		if _, ok, reason := intake.StageClientCommand(intakeCtx, session.ControlKey, msg); !ok {
			if reason == intake.CommandRejectUnknownType {
				h.cfg.Logger.Printf("unknown message type %q from %s", msg.Type, session.HeroID)
			}
			if msg.Seq > 0 {
				h.send(session, proto.NewCommandReject(msg.Seq, reason, reason == sim.CommandRejectQueueLimit))
			}
		}
	}
}

func (h *Handler) send(session *Session, msg any) {
	data, err := proto.Encode(msg)
	if err != nil {
		h.cfg.Logger.Printf("failed to encode response for %s: %v", session.HeroID, err)
		return
	}
	session.Enqueue(data)
}

func playerName(raw string) string {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "Acolyte"
	}
	if runes := []rune(name); len(runes) > maxNameLength {
		name = string(runes[:maxNameLength])
	}
	return name
}
