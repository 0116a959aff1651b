// Package app wires the arena server together: logging, the spell catalog,
// one match world with its simulation loop, replay recording and the HTTP and
// websocket transport.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	servernet "github.com/justchen1369/acolyte-fight-sub000/internal/net"
	"github.com/justchen1369/acolyte-fight-sub000/internal/net/ws"
	"github.com/justchen1369/acolyte-fight-sub000/internal/observability"
	"github.com/justchen1369/acolyte-fight-sub000/internal/replay"
	"github.com/justchen1369/acolyte-fight-sub000/internal/sim"
	"github.com/justchen1369/acolyte-fight-sub000/internal/telemetry"
	"github.com/justchen1369/acolyte-fight-sub000/internal/world"
	"github.com/justchen1369/acolyte-fight-sub000/logging"
	loggingSinks "github.com/justchen1369/acolyte-fight-sub000/logging/sinks"
	"github.com/justchen1369/acolyte-fight-sub000/spells/catalog"
)

type Config struct {
	Logger        telemetry.Logger
	Observability observability.Config
	Logging       logging.Config

	Addr         string
	ClientDir    string
	RulesetPaths []string
	ReplayDir    string
	MatchSeed    int64
	TickRate     int
	// LobbyTicks is the tick the match closes to new players. Zero starts
	// combat immediately.
	LobbyTicks      uint64
	WaitPeriodTicks uint64
}

// DefaultConfig is what the server runs with when no environment overrides
// are set.
func DefaultConfig() Config {
	return Config{
		Logging:         logging.DefaultConfig(),
		Addr:            ":8080",
		TickRate:        sim.DefaultTickRate,
		LobbyTicks:      600,
		WaitPeriodTicks: 180,
	}
}

// ConfigFromEnv overlays environment variables onto DefaultConfig. Invalid
// values are reported through logger and ignored.
func ConfigFromEnv(lookup func(string) (string, bool), logger telemetry.Logger) Config {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if logger == nil {
		logger = telemetry.WrapLogger(log.Default())
	}
	cfg := DefaultConfig()
	cfg.Logger = logger

	if raw, ok := lookup("ADDR"); ok && strings.TrimSpace(raw) != "" {
		cfg.Addr = strings.TrimSpace(raw)
	}
	if raw, ok := lookup("CLIENT_DIR"); ok {
		cfg.ClientDir = strings.TrimSpace(raw)
	}
	if raw, ok := lookup("RULESET_PATH"); ok {
		for _, path := range strings.Split(raw, string(os.PathListSeparator)) {
			if trimmed := strings.TrimSpace(path); trimmed != "" {
				cfg.RulesetPaths = append(cfg.RulesetPaths, trimmed)
			}
		}
	}
	if raw, ok := lookup("REPLAY_DIR"); ok {
		cfg.ReplayDir = strings.TrimSpace(raw)
	}
	if raw, ok := lookup("MATCH_SEED"); ok && raw != "" {
		if value, err := strconv.ParseInt(raw, 10, 64); err == nil {
			cfg.MatchSeed = value
		} else {
			logger.Printf("invalid MATCH_SEED=%q: %v", raw, err)
		}
	}
	if raw, ok := lookup("TICK_RATE"); ok && raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.TickRate = value
		} else {
			logger.Printf("invalid TICK_RATE=%q", raw)
		}
	}
	if raw, ok := lookup("LOBBY_TICKS"); ok && raw != "" {
		if value, err := strconv.ParseUint(raw, 10, 64); err == nil {
			cfg.LobbyTicks = value
		} else {
			logger.Printf("invalid LOBBY_TICKS=%q: %v", raw, err)
		}
	}
	if raw, ok := lookup("LOG_LEVEL"); ok && raw != "" {
		cfg.Logging.MinimumSeverity = logging.ParseSeverity(raw)
	}
	if raw, ok := lookup("LOG_CATEGORY_LEVELS"); ok && raw != "" {
		cfg.Logging.CategorySeverity = logging.ParseCategorySeverity(raw)
	}
	if raw, ok := lookup("LOG_SINKS"); ok && raw != "" {
		cfg.Logging.EnabledSinks = nil
		for _, name := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(name); trimmed != "" {
				cfg.Logging.EnabledSinks = append(cfg.Logging.EnabledSinks, trimmed)
			}
		}
	}
	if raw, ok := lookup("LOG_JSON_PATH"); ok {
		cfg.Logging.JSON.FilePath = strings.TrimSpace(raw)
	}
	if raw, ok := lookup("ENABLE_PPROF"); ok && raw != "" {
		if value, err := strconv.ParseBool(raw); err == nil {
			cfg.Observability.EnablePprof = value
		} else {
			logger.Printf("invalid ENABLE_PPROF=%q: %v", raw, err)
		}
	}
	return cfg
}

// buildSinks instantiates the sinks named in cfg. The returned closer
// releases any files the sinks write to.
func buildSinks(cfg logging.Config, stdout io.Writer) ([]logging.NamedSink, io.Closer, error) {
	var sinks []logging.NamedSink
	var closer io.Closer = nopCloser{}
	if cfg.HasSink("console") {
		sinks = append(sinks, logging.NamedSink{Name: "console", Sink: loggingSinks.NewConsoleSink(stdout, cfg.Console)})
	}
	if cfg.HasSink("json") {
		var out io.Writer = stdout
		if cfg.JSON.FilePath != "" {
			if err := os.MkdirAll(filepath.Dir(cfg.JSON.FilePath), 0o755); err != nil {
				return nil, nil, fmt.Errorf("create log directory: %w", err)
			}
			f, err := os.OpenFile(cfg.JSON.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return nil, nil, fmt.Errorf("open json log: %w", err)
			}
			out, closer = f, f
		}
		sinks = append(sinks, logging.NamedSink{Name: "json", Sink: loggingSinks.NewJSON(out, cfg.JSON.FlushInterval)})
	}
	return sinks, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Match is one running arena with its loop and transport.
type Match struct {
	ID      string
	World   *world.World
	Loop    *sim.Loop
	WS      *ws.Handler
	Handler http.Handler

	recorder *replay.Writer
}

// NewMatch builds a match from cfg. The loop is not started.
func NewMatch(cfg Config, resolver *catalog.Resolver, router *logging.Router) (*Match, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = telemetry.WrapLogger(log.Default())
	}
	var publisher logging.Publisher = logging.NopPublisher()
	var metrics *logging.Metrics
	if router != nil {
		publisher = router
		metrics = router.Metrics()
	}

	matchID := uuid.NewString()
	worldCfg := world.Config{
		MatchID:      matchID,
		Seed:         strconv.FormatInt(cfg.MatchSeed, 10),
		WaitForClose: cfg.LobbyTicks > 0,
	}
	w, err := world.New(worldCfg, resolver.Ruleset(), world.Deps{Publisher: publisher})
	if err != nil {
		return nil, fmt.Errorf("create world: %w", err)
	}

	match := &Match{ID: matchID, World: w}
	opts := []sim.EngineOption{
		sim.WithDeps(sim.Deps{
			Logger:    logger,
			Metrics:   telemetry.WrapMetrics(metrics),
			Publisher: logging.WithMatch(publisher, matchID),
			Clock:     logging.SystemClock{},
		}),
		sim.WithLoopConfig(loopConfig(cfg)),
	}
	if cfg.ReplayDir != "" {
		started := time.Now()
		path := filepath.Join(cfg.ReplayDir, replay.FileName(matchID, started))
		recorder, err := replay.Create(path, replay.Header{
			MatchID:   matchID,
			StartedAt: started,
			Config:    w.Config(),
			Ruleset:   resolver.Ruleset(),
		})
		if err != nil {
			return nil, err
		}
		match.recorder = recorder
		opts = append(opts, sim.WithRecorder(recorder))
		logger.Printf("recording replay to %s", path)
	}

	hub := ws.NewHub(telemetry.WrapMetrics(metrics))
	opts = append(opts, sim.WithLoopHooks(sim.LoopHooks{
		AfterStep: func(result sim.LoopStepResult) {
			if err := hub.Broadcast(result); err != nil {
				logger.Printf("broadcast failed at tick=%d: %v", result.Tick, err)
			}
		},
	}))
	loop, err := sim.NewEngine(w, opts...)
	if err != nil {
		match.Close()
		return nil, err
	}
	match.Loop = loop
	match.WS = ws.NewHandler(ws.HandlerConfig{
		Engine:    loop,
		Hub:       hub,
		Logger:    logger,
		Publisher: publisher,
		MatchID:   matchID,
		TickRate:  loop.Config().TickRate,
	})
	match.Handler = observability.Wrap(servernet.NewHTTPHandler(servernet.HTTPHandlerConfig{
		Engine:    loop,
		WS:        match.WS,
		Ruleset:   resolver.Ruleset,
		Metrics:   metrics,
		TickRate:  loop.Config().TickRate,
		ClientDir: cfg.ClientDir,
	}), cfg.Observability)

	loop.Enqueue(sim.ControlCommand(world.ControlMessage{
		Type:        world.ControlEnvironment,
		Environment: &world.EnvironmentMessage{Seed: cfg.MatchSeed},
	}))
	if cfg.LobbyTicks > 0 {
		loop.Enqueue(sim.ControlCommand(world.ControlMessage{
			Type:      world.ControlCloseGame,
			CloseGame: &world.CloseGameMessage{CloseTick: cfg.LobbyTicks, WaitPeriod: cfg.WaitPeriodTicks},
		}))
	}
	return match, nil
}

func loopConfig(cfg Config) sim.LoopConfig {
	loopCfg := sim.DefaultLoopConfig()
	if cfg.TickRate > 0 {
		loopCfg.TickRate = cfg.TickRate
	}
	return loopCfg
}

// Close disconnects clients and finishes the replay.
func (m *Match) Close() error {
	if m.WS != nil {
		m.WS.Hub().CloseAll()
	}
	if m.recorder != nil {
		return m.recorder.Close()
	}
	return nil
}

func Run(ctx context.Context, cfg Config) error {
	telemetryLogger := cfg.Logger
	if telemetryLogger == nil {
		telemetryLogger = telemetry.WrapLogger(log.Default())
		cfg.Logger = telemetryLogger
	}

	sinks, sinkCloser, err := buildSinks(cfg.Logging, os.Stdout)
	if err != nil {
		return fmt.Errorf("failed to construct logging sinks: %w", err)
	}
	defer sinkCloser.Close()
	router, err := logging.NewRouter(logging.SystemClock{}, cfg.Logging, sinks)
	if err != nil {
		return fmt.Errorf("failed to construct logging router: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if cerr := router.Close(closeCtx); cerr != nil {
			telemetryLogger.Printf("failed to close logging router: %v", cerr)
		}
	}()

	resolver, err := catalog.Load(cfg.RulesetPaths...)
	if err != nil {
		return fmt.Errorf("failed to load ruleset: %w", err)
	}

	match, err := NewMatch(cfg, resolver, router)
	if err != nil {
		return fmt.Errorf("failed to create match: %w", err)
	}
	defer func() {
		if cerr := match.Close(); cerr != nil {
			telemetryLogger.Printf("failed to close match: %v", cerr)
		}
	}()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	loopDone := make(chan struct{})
	go func() {
		match.Loop.Run(runCtx)
		close(loopDone)
	}()
	defer func() { <-loopDone }()
	defer cancel()

	srv := &http.Server{Addr: cfg.Addr, Handler: match.Handler}
	go func() {
		<-runCtx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	telemetryLogger.Printf("match %s listening on %s", match.ID, srv.Addr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
