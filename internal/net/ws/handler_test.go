package ws

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/justchen1369/acolyte-fight-sub000/internal/net/proto"
	"github.com/justchen1369/acolyte-fight-sub000/internal/sim"
	"github.com/justchen1369/acolyte-fight-sub000/internal/world"
	"github.com/justchen1369/acolyte-fight-sub000/spells/catalog"
)

type harness struct {
	loop    *sim.Loop
	handler *Handler
	srv     *httptest.Server
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	resolver, err := catalog.Load()
	if err != nil {
		t.Fatalf("catalog.Load: %v", err)
	}
	w, err := world.New(world.Config{MatchID: "ws", SnapshotIntervalTicks: 1}, resolver.Ruleset(), world.Deps{})
	if err != nil {
		t.Fatalf("world.New: %v", err)
	}
	loop, err := sim.NewEngine(w)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	var counter atomic.Int64
	handler := NewHandler(HandlerConfig{
		Engine:   loop,
		MatchID:  "ws",
		TickRate: 60,
		NewID:    func() string { return fmt.Sprintf("%d", counter.Add(1)) },
	})
	srv := httptest.NewServer(http.HandlerFunc(handler.Handle))
	t.Cleanup(srv.Close)
	return &harness{loop: loop, handler: handler, srv: srv}
}

func (h *harness) dial(t *testing.T, name string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(h.srv.URL, "http") + "/?name=" + name
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to open websocket connection: %v", err)
	}
	if resp != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readJSON(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if err := json.Unmarshal(payload, v); err != nil {
		t.Fatalf("unmarshal %s: %v", payload, err)
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestConnectJoinsAndReceivesTicks(t *testing.T) {
	h := newHarness(t)
	conn := h.dial(t, "alice")

	var welcome proto.WelcomeMessage
	readJSON(t, conn, &welcome)
	if welcome.Type != proto.TypeWelcome || welcome.HeroID != "hero-1" || welcome.ControlKey != "2" || welcome.MatchID != "ws" {
		t.Fatalf("unexpected welcome %+v", welcome)
	}
	waitFor(t, "session registration", func() bool { return h.handler.Hub().Len() == 1 })

	result := h.loop.Advance(sim.LoopTickContext{})
	h.loop.View(func(w *world.World) {
		player, ok := w.Player("hero-1")
		if !ok || player.Name != "alice" || player.ControlKey != "2" {
			t.Fatalf("expected alice to join, got %+v", player)
		}
	})

	if err := h.handler.Hub().Broadcast(result); err != nil {
		t.Fatalf("Broadcast: %v", err)
	}
	var tick struct {
		Type     string         `json:"type"`
		Tick     uint64         `json:"tick"`
		Snapshot world.Snapshot `json:"snapshot"`
	}
	readJSON(t, conn, &tick)
	if tick.Type != proto.TypeTick || tick.Tick != 1 {
		t.Fatalf("unexpected tick %+v", tick)
	}
	if _, ok := tick.Snapshot.Objects["hero-1"]; !ok {
		t.Fatalf("expected the snapshot to include the hero, got %+v", tick.Snapshot)
	}
}

func TestSequencedRejectsAreReported(t *testing.T) {
	h := newHarness(t)
	conn := h.dial(t, "bob")
	var welcome proto.WelcomeMessage
	readJSON(t, conn, &welcome)

	if err := conn.WriteJSON(proto.ClientMessage{Type: proto.TypeSpells, Seq: 9}); err != nil {
		t.Fatalf("write: %v", err)
	}
	var reject proto.CommandRejectMessage
	readJSON(t, conn, &reject)
	if reject.Type != proto.TypeCommandReject || reject.Seq != 9 || reject.Reason != "invalid_action" || reject.Retry {
		t.Fatalf("unexpected reject %+v", reject)
	}

	if err := conn.WriteJSON(proto.ClientMessage{Type: proto.TypeHeartbeat, SentAt: 1234}); err != nil {
		t.Fatalf("write: %v", err)
	}
	var ack proto.HeartbeatAckMessage
	readJSON(t, conn, &ack)
	if ack.Type != proto.TypeHeartbeatAck || ack.ClientTime != 1234 {
		t.Fatalf("unexpected heartbeat ack %+v", ack)
	}

	if err := conn.WriteJSON(proto.ClientMessage{Type: proto.TypeAction, SpellID: "fireball", TargetX: 0.5, TargetY: 0.5}); err != nil {
		t.Fatalf("write: %v", err)
	}
	waitFor(t, "the action to be staged", func() bool { return h.loop.Pending() == 2 })
}

func TestDisconnectLeavesMatch(t *testing.T) {
	h := newHarness(t)
	conn := h.dial(t, "carol")
	var welcome proto.WelcomeMessage
	readJSON(t, conn, &welcome)
	waitFor(t, "session registration", func() bool { return h.handler.Hub().Len() == 1 })
	h.loop.Advance(sim.LoopTickContext{})

	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	conn.Close()
	waitFor(t, "session removal", func() bool { return h.handler.Hub().Len() == 0 })
	waitFor(t, "the leave to be staged", func() bool { return h.loop.Pending() == 1 })

	h.loop.Advance(sim.LoopTickContext{})
	h.loop.View(func(w *world.World) {
		player, ok := w.Player(welcome.HeroID)
		if !ok || !player.Left || !player.IsBot {
			t.Fatalf("expected the hero to be handed to a bot, got %+v", player)
		}
	})
}

func TestPlayerNameIsTrimmedAndBounded(t *testing.T) {
	if got := playerName("  "); got != "Acolyte" {
		t.Fatalf("expected the default name, got %q", got)
	}
	if got := playerName(strings.Repeat("é", 40)); len([]rune(got)) != maxNameLength {
		t.Fatalf("expected %d runes, got %d", maxNameLength, len([]rune(got)))
	}
}
