package net

import (
	"encoding/json"
	nethttp "net/http"
	"time"

	"github.com/justchen1369/acolyte-fight-sub000/internal/net/ws"
	"github.com/justchen1369/acolyte-fight-sub000/internal/sim"
	"github.com/justchen1369/acolyte-fight-sub000/internal/world"
	"github.com/justchen1369/acolyte-fight-sub000/logging"
	"github.com/justchen1369/acolyte-fight-sub000/spells/catalog"
	"github.com/justchen1369/acolyte-fight-sub000/spells/contract"
)

type HTTPHandlerConfig struct {
	Engine    sim.Engine
	WS        *ws.Handler
	Ruleset   func() *contract.Ruleset
	Metrics   *logging.Metrics
	TickRate  int
	ClientDir string
}

// MatchDiagnostics summarises the running match.
type MatchDiagnostics struct {
	MatchID   string        `json:"matchId"`
	Tick      uint64        `json:"tick"`
	Started   bool          `json:"started"`
	Closed    bool          `json:"closed"`
	Radius    float64       `json:"radius"`
	Players   []string      `json:"players"`
	Scores    []world.Score `json:"scores"`
	Winner    string        `json:"winner,omitempty"`
	Connected []string      `json:"connected"`
}

func NewHTTPHandler(cfg HTTPHandlerConfig) nethttp.Handler {
	mux := nethttp.NewServeMux()

	mux.HandleFunc("/health", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("/diagnostics", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if cfg.Engine == nil {
			httpError(w, "match unavailable", nethttp.StatusServiceUnavailable)
			return
		}
		var match MatchDiagnostics
		cfg.Engine.View(func(wd *world.World) {
			match = MatchDiagnostics{
				MatchID: wd.Config().MatchID,
				Tick:    wd.Tick(),
				Started: wd.Started(),
				Closed:  wd.Closed(),
				Radius:  wd.Radius(),
				Players: wd.PlayerIDs(),
			}
			for _, id := range match.Players {
				match.Scores = append(match.Scores, wd.Score(id))
			}
			match.Winner, _, _ = wd.Winner()
		})
		if cfg.WS != nil {
			match.Connected = cfg.WS.Hub().HeroIDs()
		}

		payload := struct {
			Status     string            `json:"status"`
			ServerTime int64             `json:"serverTime"`
			TickRate   int               `json:"tickRate"`
			Pending    int               `json:"pendingCommands"`
			Match      MatchDiagnostics  `json:"match"`
			Telemetry  map[string]uint64 `json:"telemetry"`
		}{
			Status:     "ok",
			ServerTime: time.Now().UnixMilli(),
			TickRate:   cfg.TickRate,
			Pending:    cfg.Engine.Pending(),
			Match:      match,
			Telemetry:  cfg.Metrics.Snapshot(),
		}
		writeJSON(w, payload)
	})

	mux.HandleFunc("/ruleset", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.Method != nethttp.MethodGet {
			httpError(w, "method not allowed", nethttp.StatusMethodNotAllowed)
			return
		}
		if cfg.Ruleset == nil || cfg.Ruleset() == nil {
			httpError(w, "ruleset unavailable", nethttp.StatusServiceUnavailable)
			return
		}
		writeJSON(w, cfg.Ruleset())
	})

	mux.HandleFunc("/ruleset/schema", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.Method != nethttp.MethodGet {
			httpError(w, "method not allowed", nethttp.StatusMethodNotAllowed)
			return
		}
		data, err := catalog.SchemaJSON()
		if err != nil {
			httpError(w, "failed to encode", nethttp.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/schema+json")
		w.Write(data)
	})

	if cfg.WS != nil {
		mux.HandleFunc("/ws", cfg.WS.Handle)
	}

	if cfg.ClientDir != "" {
		fs := nethttp.FileServer(nethttp.Dir(cfg.ClientDir))
		mux.Handle("/", fs)
	}

	return mux
}

func writeJSON(w nethttp.ResponseWriter, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		httpError(w, "failed to encode", nethttp.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func httpError(w nethttp.ResponseWriter, msg string, code int) {
	nethttp.Error(w, msg, code)
}
