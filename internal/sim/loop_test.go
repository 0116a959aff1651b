package sim

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/justchen1369/acolyte-fight-sub000/internal/telemetry"
	"github.com/justchen1369/acolyte-fight-sub000/internal/world"
	"github.com/justchen1369/acolyte-fight-sub000/logging"
	"github.com/justchen1369/acolyte-fight-sub000/logging/sinks"
	loggingsimulation "github.com/justchen1369/acolyte-fight-sub000/logging/simulation"
	"github.com/justchen1369/acolyte-fight-sub000/spells/catalog"
)

type recordedTick struct {
	tick     uint64
	input    world.TickInput
	checksum string
}

type fakeRecorder struct {
	ticks []recordedTick
	err   error
}

func (r *fakeRecorder) Record(tick uint64, input world.TickInput, checksum string) error {
	r.ticks = append(r.ticks, recordedTick{tick: tick, input: input, checksum: checksum})
	return r.err
}

func newTestWorld(t *testing.T) *world.World {
	t.Helper()
	resolver, err := catalog.Load()
	if err != nil {
		t.Fatalf("catalog.Load: %v", err)
	}
	w, err := world.New(world.Config{MatchID: "loop"}, resolver.Ruleset(), world.Deps{})
	if err != nil {
		t.Fatalf("world.New: %v", err)
	}
	return w
}

func joinCommand(heroID string) Command {
	return ControlCommand(world.ControlMessage{Type: world.ControlJoin, Join: &world.JoinMessage{
		HeroID:     heroID,
		ControlKey: "key-" + heroID,
		PlayerName: heroID,
	}})
}

func moveCommand(heroID string) Command {
	return ActionCommand(world.ActionMessage{
		ControlKey: "key-" + heroID,
		Type:       world.ActionGame,
		SpellID:    "move",
		TargetX:    0.5,
		TargetY:    0.5,
	})
}

func TestNewEngineRequiresWorld(t *testing.T) {
	if _, err := NewEngine(nil); !errors.Is(err, ErrMissingWorld) {
		t.Fatalf("expected ErrMissingWorld, got %v", err)
	}
	loop, err := NewEngine(newTestWorld(t), WithLoopConfig(LoopConfig{PerActorLimit: 2}))
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	if loop.Config().TickRate != DefaultTickRate {
		t.Fatalf("expected the default tick rate, got %d", loop.Config().TickRate)
	}
}

func TestEnqueueThrottlesPerActor(t *testing.T) {
	collector := sinks.NewMemorySink()
	var drops []string
	loop := NewLoop(newTestWorld(t), LoopConfig{CommandCapacity: 16, PerActorLimit: 2}, Deps{Publisher: collector}, LoopHooks{
		OnCommandDrop: func(reason string, cmd Command) { drops = append(drops, reason+":"+cmd.ActorID) },
	})

	for i := 0; i < 2; i++ {
		if ok, reason := loop.Enqueue(moveCommand("a")); !ok {
			t.Fatalf("enqueue %d rejected: %s", i, reason)
		}
	}
	if ok, reason := loop.Enqueue(moveCommand("a")); ok || reason != CommandRejectQueueLimit {
		t.Fatalf("expected queue_limit, got %v %q", ok, reason)
	}
	if ok, _ := loop.Enqueue(moveCommand("b")); !ok {
		t.Fatalf("actors are throttled independently")
	}
	for i := 0; i < 4; i++ {
		if ok, _ := loop.Enqueue(joinCommand(fmt.Sprintf("h%d", i))); !ok {
			t.Fatalf("control messages must never be throttled")
		}
	}
	if len(drops) != 1 || drops[0] != "queue_limit:key-a" {
		t.Fatalf("unexpected drops %v", drops)
	}
	if got := len(collector.OfType(loggingsimulation.EventMessageRejected)); got != 1 {
		t.Fatalf("expected one rejection event, got %d", got)
	}

	loop.Advance(LoopTickContext{})
	if ok, _ := loop.Enqueue(moveCommand("a")); !ok {
		t.Fatalf("the per-actor budget resets every tick")
	}
}

func TestEnqueueReportsFullBuffer(t *testing.T) {
	metrics := &logging.Metrics{}
	loop := NewLoop(newTestWorld(t), LoopConfig{CommandCapacity: 1}, Deps{Metrics: telemetry.WrapMetrics(metrics)}, LoopHooks{})
	loop.Enqueue(joinCommand("a"))
	if ok, reason := loop.Enqueue(joinCommand("b")); ok || reason != CommandRejectQueueFull {
		t.Fatalf("expected queue_full, got %v %q", ok, reason)
	}
	if ok, reason := loop.Enqueue(Command{Type: CommandAction}); ok || reason != CommandRejectMalformed {
		t.Fatalf("expected malformed, got %v %q", ok, reason)
	}
	snapshot := metrics.Snapshot()
	if snapshot[commandsAcceptedMetricKey] != 1 || snapshot[commandsRejectedMetricKey] != 2 {
		t.Fatalf("unexpected metrics %+v", snapshot)
	}
}

func TestQueueWarningFiresOnSteps(t *testing.T) {
	var warnings []int
	loop := NewLoop(newTestWorld(t), LoopConfig{CommandCapacity: 16, WarningStep: 2}, Deps{}, LoopHooks{
		OnQueueWarning: func(length int) { warnings = append(warnings, length) },
	})
	for i := 0; i < 5; i++ {
		loop.Enqueue(joinCommand(fmt.Sprintf("h%d", i)))
	}
	if len(warnings) != 2 || warnings[0] != 2 || warnings[1] != 4 {
		t.Fatalf("unexpected warnings %v", warnings)
	}
}

func TestAdvanceStepsWorldAndRecords(t *testing.T) {
	recorder := &fakeRecorder{}
	var observed []LoopStepResult
	loop, err := NewEngine(newTestWorld(t), WithRecorder(recorder), WithLoopHooks(LoopHooks{
		AfterStep: func(result LoopStepResult) { observed = append(observed, result) },
	}))
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	loop.Enqueue(joinCommand("a"))
	loop.Enqueue(moveCommand("a"))
	result := loop.Advance(LoopTickContext{Now: time.Unix(10, 0), Delta: 1.0 / 60})

	if result.Tick != 1 || len(result.Input.Controls) != 1 || len(result.Input.Actions) != 1 {
		t.Fatalf("unexpected result %+v", result)
	}
	loop.View(func(w *world.World) {
		if _, ok := w.Player("a"); !ok {
			t.Fatalf("expected the join to reach the world")
		}
		if w.Checksum() != result.Checksum {
			t.Fatalf("result checksum does not match the world")
		}
	})
	if len(recorder.ticks) != 1 || recorder.ticks[0].tick != 1 || recorder.ticks[0].checksum != result.Checksum {
		t.Fatalf("unexpected recording %+v", recorder.ticks)
	}
	if len(observed) != 1 || observed[0].Tick != 1 {
		t.Fatalf("expected AfterStep to observe tick 1, got %+v", observed)
	}
	if loop.Pending() != 0 {
		t.Fatalf("expected the queue to be drained")
	}

	empty := loop.Advance(LoopTickContext{})
	if empty.Tick != 2 || !empty.Input.Empty() {
		t.Fatalf("expected an empty second tick, got %+v", empty)
	}
}

func TestRecorderFailureStopsRecording(t *testing.T) {
	recorder := &fakeRecorder{err: errors.New("disk full")}
	var lines []string
	logger := telemetry.LoggerFunc(func(format string, args ...any) {
		lines = append(lines, fmt.Sprintf(format, args...))
	})
	loop := NewLoop(newTestWorld(t), LoopConfig{}, Deps{Logger: logger, Recorder: recorder}, LoopHooks{})

	loop.Advance(LoopTickContext{})
	loop.Advance(LoopTickContext{})
	if len(recorder.ticks) != 1 {
		t.Fatalf("expected recording to stop after the first error, got %d calls", len(recorder.ticks))
	}
	if len(lines) != 1 {
		t.Fatalf("expected one log line, got %v", lines)
	}
}

func TestCheckBudgetPublishesOverrunStreak(t *testing.T) {
	collector := sinks.NewMemorySink()
	loop := NewLoop(newTestWorld(t), LoopConfig{}, Deps{Publisher: collector}, LoopHooks{})
	over := LoopStepResult{Tick: 7, Duration: 30 * time.Millisecond, Budget: 15 * time.Millisecond}

	loop.checkBudget(context.Background(), over)
	loop.checkBudget(context.Background(), over)
	loop.checkBudget(context.Background(), LoopStepResult{Duration: time.Millisecond, Budget: 15 * time.Millisecond})
	loop.checkBudget(context.Background(), over)

	events := collector.OfType(loggingsimulation.EventTickBudgetOverrun)
	if len(events) != 3 {
		t.Fatalf("expected 3 overrun events, got %d", len(events))
	}
	streaks := []uint64{1, 2, 1}
	for i, event := range events {
		payload, ok := event.Payload.(loggingsimulation.TickBudgetOverrunPayload)
		if !ok {
			t.Fatalf("unexpected payload %T", event.Payload)
		}
		if payload.Streak != streaks[i] || payload.Ratio != 2 {
			t.Fatalf("event %d: unexpected payload %+v", i, payload)
		}
	}
}

func TestRunStopsWhenContextCancelled(t *testing.T) {
	ticked := make(chan struct{})
	var once sync.Once
	loop := NewLoop(newTestWorld(t), LoopConfig{TickRate: 500}, Deps{}, LoopHooks{
		AfterStep: func(LoopStepResult) { once.Do(func() { close(ticked) }) },
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(done)
	}()

	select {
	case <-ticked:
	case <-time.After(5 * time.Second):
		t.Fatalf("loop never ticked")
	}
	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("loop did not stop after cancellation")
	}
}
