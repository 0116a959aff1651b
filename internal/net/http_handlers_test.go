package net

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/justchen1369/acolyte-fight-sub000/internal/net/ws"
	"github.com/justchen1369/acolyte-fight-sub000/internal/sim"
	"github.com/justchen1369/acolyte-fight-sub000/internal/world"
	"github.com/justchen1369/acolyte-fight-sub000/logging"
	"github.com/justchen1369/acolyte-fight-sub000/spells/catalog"
	"github.com/justchen1369/acolyte-fight-sub000/spells/contract"
)

func newTestHandler(t *testing.T) (http.Handler, *sim.Loop) {
	t.Helper()
	resolver, err := catalog.Load()
	if err != nil {
		t.Fatalf("catalog.Load: %v", err)
	}
	w, err := world.New(world.Config{MatchID: "http"}, resolver.Ruleset(), world.Deps{})
	if err != nil {
		t.Fatalf("world.New: %v", err)
	}
	metrics := &logging.Metrics{}
	loop, err := sim.NewEngine(w, sim.WithDeps(sim.Deps{Metrics: metrics}))
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	handler := NewHTTPHandler(HTTPHandlerConfig{
		Engine:   loop,
		WS:       ws.NewHandler(ws.HandlerConfig{Engine: loop}),
		Ruleset:  resolver.Ruleset,
		Metrics:  metrics,
		TickRate: 60,
	})
	return handler, loop
}

func get(t *testing.T, handler http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
	return resp
}

func TestHealth(t *testing.T) {
	handler, _ := newTestHandler(t)
	resp := get(t, handler, "/health")
	if resp.Code != http.StatusOK || resp.Body.String() != "ok" {
		t.Fatalf("unexpected health response %d %q", resp.Code, resp.Body.String())
	}
}

func TestDiagnosticsReportsMatchState(t *testing.T) {
	handler, loop := newTestHandler(t)
	loop.Enqueue(sim.ControlCommand(world.ControlMessage{Type: world.ControlJoin, Join: &world.JoinMessage{
		HeroID:     "a",
		ControlKey: "key-a",
		PlayerName: "a",
	}}))
	loop.Advance(sim.LoopTickContext{})

	resp := get(t, handler, "/diagnostics")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 OK, got %d", resp.Code)
	}
	if contentType := resp.Header().Get("Content-Type"); contentType != "application/json" {
		t.Fatalf("expected Content-Type application/json, got %q", contentType)
	}
	var payload struct {
		TickRate  int               `json:"tickRate"`
		Match     MatchDiagnostics  `json:"match"`
		Telemetry map[string]uint64 `json:"telemetry"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode diagnostics: %v", err)
	}
	if payload.TickRate != 60 || payload.Match.MatchID != "http" || payload.Match.Tick != 1 {
		t.Fatalf("unexpected diagnostics %+v", payload)
	}
	if len(payload.Match.Players) != 1 || payload.Match.Players[0] != "a" || len(payload.Match.Scores) != 1 {
		t.Fatalf("expected one player, got %+v", payload.Match)
	}
	if payload.Telemetry["sim_ticks_total"] != 1 {
		t.Fatalf("expected loop metrics in telemetry, got %+v", payload.Telemetry)
	}
}

func TestRulesetEndpoints(t *testing.T) {
	handler, _ := newTestHandler(t)

	resp := get(t, handler, "/ruleset")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 OK, got %d", resp.Code)
	}
	var rules contract.Ruleset
	if err := json.Unmarshal(resp.Body.Bytes(), &rules); err != nil {
		t.Fatalf("failed to decode ruleset: %v", err)
	}
	if err := rules.Index(); err != nil {
		t.Fatalf("served ruleset does not index: %v", err)
	}
	if _, ok := rules.Spell("fireball"); !ok {
		t.Fatalf("expected fireball in the served ruleset")
	}

	schema := get(t, handler, "/ruleset/schema")
	if schema.Code != http.StatusOK || !strings.Contains(schema.Body.String(), "projectile") {
		t.Fatalf("unexpected schema response %d", schema.Code)
	}

	post := httptest.NewRecorder()
	handler.ServeHTTP(post, httptest.NewRequest(http.MethodPost, "/ruleset", nil))
	if post.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", post.Code)
	}
}
