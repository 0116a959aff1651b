package sim

import (
	"context"
	"sync"
	"time"

	"github.com/justchen1369/acolyte-fight-sub000/internal/world"
	"github.com/justchen1369/acolyte-fight-sub000/logging"
	loggingsimulation "github.com/justchen1369/acolyte-fight-sub000/logging/simulation"
)

const (
	// CommandRejectQueueLimit indicates a command was dropped due to per-actor
	// queue throttling.
	CommandRejectQueueLimit = "queue_limit"
	// CommandRejectQueueFull indicates the global command buffer is saturated.
	CommandRejectQueueFull = "queue_full"
	// CommandRejectMalformed indicates the command carried no payload.
	CommandRejectMalformed = "malformed"

	DefaultTickRate = 60

	commandsAcceptedMetricKey = "sim_commands_accepted_total"
	commandsRejectedMetricKey = "sim_commands_rejected_total"
	tickOverrunMetricKey      = "sim_tick_budget_overrun_total"
	ticksMetricKey            = "sim_ticks_total"
)

// LoopConfig tunes the command buffer and tick loop orchestration.
type LoopConfig struct {
	TickRate        int
	CatchupMaxTicks int
	CommandCapacity int
	PerActorLimit   int
	WarningStep     int
}

// DefaultLoopConfig matches the arena's 60 Hz tick.
func DefaultLoopConfig() LoopConfig {
	return LoopConfig{
		TickRate:        DefaultTickRate,
		CatchupMaxTicks: 3,
		CommandCapacity: 1024,
		PerActorLimit:   8,
		WarningStep:     256,
	}
}

// LoopHooks lets the host observe the loop without reaching into the world.
// AfterStep runs on the tick goroutine while the world is locked, so it must
// not call back into the loop.
type LoopHooks struct {
	Prepare        func(LoopTickContext)
	AfterStep      func(LoopStepResult)
	OnQueueWarning func(length int)
	OnCommandDrop  func(reason string, cmd Command)
}

// LoopTickContext describes the wall-clock frame a tick runs in.
type LoopTickContext struct {
	Now   time.Time
	Delta float64
}

// LoopStepResult is everything a host needs to fan out after one tick.
type LoopStepResult struct {
	Tick         uint64
	Now          time.Time
	Delta        float64
	Input        world.TickInput
	Events       []world.Event
	Snapshots    []world.Snapshot
	Checksum     string
	Finished     bool
	Winner       string
	Duration     time.Duration
	Budget       time.Duration
	ClampedDelta bool
	MaxDelta     float64
}

// Loop coordinates message ingestion and the fixed-timestep runner for one
// world. Producers call Enqueue from any goroutine; Advance and Run own the
// world.
type Loop struct {
	world  *world.World
	buffer *CommandBuffer
	hooks  LoopHooks
	config LoopConfig
	deps   Deps

	worldMu  sync.Mutex
	batch    []Command
	recorder Recorder

	queueMu       sync.Mutex
	perActorCount map[string]int
	dropCounts    map[string]uint64

	overrunStreak uint64
}

// NewLoop wraps the provided world with a ring-buffer queue and loop.
func NewLoop(w *world.World, cfg LoopConfig, deps Deps, hooks LoopHooks) *Loop {
	if w == nil {
		return nil
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = DefaultTickRate
	}
	deps = deps.normalized()
	return &Loop{
		world:         w,
		buffer:        NewCommandBuffer(cfg.CommandCapacity, deps.Metrics),
		hooks:         hooks,
		config:        cfg,
		deps:          deps,
		recorder:      deps.Recorder,
		perActorCount: make(map[string]int),
		dropCounts:    make(map[string]uint64),
	}
}

// Deps returns the injected dependencies.
func (l *Loop) Deps() Deps {
	if l == nil {
		return Deps{}
	}
	return l.deps
}

// Config returns the loop configuration after defaults were applied.
func (l *Loop) Config() LoopConfig {
	if l == nil {
		return LoopConfig{}
	}
	return l.config
}

// Pending reports the number of staged commands.
func (l *Loop) Pending() int {
	if l == nil {
		return 0
	}
	return l.buffer.Len()
}

// View runs fn with exclusive access to the world between ticks.
func (l *Loop) View(fn func(*world.World)) {
	if l == nil || fn == nil {
		return
	}
	l.worldMu.Lock()
	defer l.worldMu.Unlock()
	fn(l.world)
}

// Enqueue stages a command, enforcing per-actor throttling and capacity limits.
func (l *Loop) Enqueue(cmd Command) (bool, string) {
	if l == nil {
		return false, CommandRejectQueueFull
	}
	if (cmd.Type == CommandControl && cmd.Control == nil) || (cmd.Type == CommandAction && cmd.Action == nil) {
		l.reportDrop(CommandRejectMalformed, cmd, 0)
		return false, CommandRejectMalformed
	}
	reason := ""
	var dropCount uint64
	warnAt := 0
	l.queueMu.Lock()
	if l.config.PerActorLimit > 0 && cmd.ActorID != "" {
		count := l.perActorCount[cmd.ActorID]
		if count >= l.config.PerActorLimit {
			reason = CommandRejectQueueLimit
			dropCount = l.incrementDropLocked(cmd.ActorID)
		} else {
			l.perActorCount[cmd.ActorID] = count + 1
		}
	}
	if reason == "" {
		if !l.buffer.Push(cmd) {
			reason = CommandRejectQueueFull
			dropCount = l.incrementDropLocked(cmd.ActorID)
		} else if l.config.WarningStep > 0 {
			length := l.buffer.Len()
			if length >= l.config.WarningStep && length%l.config.WarningStep == 0 {
				warnAt = length
			}
		}
	}
	l.queueMu.Unlock()
	if reason != "" {
		l.reportDrop(reason, cmd, dropCount)
		return false, reason
	}
	l.deps.Metrics.Add(commandsAcceptedMetricKey, 1)
	if warnAt > 0 && l.hooks.OnQueueWarning != nil {
		l.hooks.OnQueueWarning(warnAt)
	}
	return true, ""
}

// Advance drains the staged commands into one world tick.
func (l *Loop) Advance(ctx LoopTickContext) LoopStepResult {
	if l == nil {
		return LoopStepResult{}
	}
	if l.hooks.Prepare != nil {
		l.hooks.Prepare(ctx)
	}

	l.worldMu.Lock()
	defer l.worldMu.Unlock()

	l.batch = l.drainCommands(l.batch[:0])
	input := tickInput(l.batch)
	l.world.Step(input)
	l.deps.Metrics.Add(ticksMetricKey, 1)

	result := LoopStepResult{
		Tick:      l.world.Tick(),
		Now:       ctx.Now,
		Delta:     ctx.Delta,
		Input:     input,
		Events:    l.world.DrainEvents(),
		Snapshots: l.world.DrainSnapshots(),
		Checksum:  l.world.Checksum(),
		Finished:  l.world.Finished(),
	}
	result.Winner, _, _ = l.world.Winner()
	l.record(result)
	if l.hooks.AfterStep != nil {
		l.hooks.AfterStep(result)
	}
	return result
}

// Run drives the fixed-timestep loop until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) {
	if l == nil {
		return
	}
	tickRate := l.config.TickRate
	budgetDuration := time.Second / time.Duration(tickRate)
	ticker := time.NewTicker(budgetDuration)
	defer ticker.Stop()

	clock := l.deps.Clock
	last := clock.Now()
	budgetSeconds := 1.0 / float64(tickRate)
	maxDt := budgetSeconds
	if l.config.CatchupMaxTicks > 1 {
		maxDt = budgetSeconds * float64(l.config.CatchupMaxTicks)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := clock.Now()
			dt := now.Sub(last).Seconds()
			clamped := false
			if dt <= 0 {
				dt = budgetSeconds
			} else if dt > maxDt {
				dt = maxDt
				clamped = true
			}
			last = now

			start := clock.Now()
			result := l.Advance(LoopTickContext{Now: now, Delta: dt})
			result.Duration = clock.Now().Sub(start)
			result.Budget = budgetDuration
			result.ClampedDelta = clamped
			result.MaxDelta = maxDt
			l.checkBudget(ctx, result)
		}
	}
}

func (l *Loop) checkBudget(ctx context.Context, result LoopStepResult) {
	if result.Budget <= 0 || result.Duration <= result.Budget {
		l.overrunStreak = 0
		return
	}
	l.overrunStreak++
	l.deps.Metrics.Add(tickOverrunMetricKey, 1)
	loggingsimulation.TickBudgetOverrun(ctx, l.deps.Publisher, result.Tick, loggingsimulation.TickBudgetOverrunPayload{
		DurationMillis: result.Duration.Milliseconds(),
		BudgetMillis:   result.Budget.Milliseconds(),
		Ratio:          float64(result.Duration) / float64(result.Budget),
		Streak:         l.overrunStreak,
	}, map[string]any{"clamped": result.ClampedDelta})
}

func (l *Loop) record(result LoopStepResult) {
	if l.recorder == nil {
		return
	}
	if err := l.recorder.Record(result.Tick, result.Input, result.Checksum); err != nil {
		if l.deps.Logger != nil {
			l.deps.Logger.Printf("[replay] recording stopped at tick=%d: %v", result.Tick, err)
		}
		l.recorder = nil
	}
}

func (l *Loop) drainCommands(dst []Command) []Command {
	l.queueMu.Lock()
	defer l.queueMu.Unlock()
	commands := l.buffer.DrainInto(dst)
	if len(l.perActorCount) > 0 {
		l.perActorCount = make(map[string]int)
	}
	return commands
}

func (l *Loop) incrementDropLocked(actorID string) uint64 {
	if actorID == "" {
		return 0
	}
	count := l.dropCounts[actorID] + 1
	l.dropCounts[actorID] = count
	return count
}

func (l *Loop) reportDrop(reason string, cmd Command, count uint64) {
	l.deps.Metrics.Add(commandsRejectedMetricKey, 1)
	if l.hooks.OnCommandDrop != nil {
		l.hooks.OnCommandDrop(reason, cmd)
	}
	loggingsimulation.MessageRejected(context.Background(), l.deps.Publisher, 0, logging.EntityRef{
		ID:   cmd.ActorID,
		Kind: logging.EntityKindPlayer,
	}, loggingsimulation.MessageRejectedPayload{Kind: string(cmd.Type), Reason: reason})
	if reason == CommandRejectQueueLimit && count > 0 && count&(count-1) == 0 {
		if l.deps.Logger != nil {
			l.deps.Logger.Printf(
				"[backpressure] dropping command actor=%s type=%s count=%d limit=%d",
				cmd.ActorID,
				cmd.Type,
				count,
				l.config.PerActorLimit,
			)
		}
	}
}

// Ensure Loop implements Engine.
var _ Engine = (*Loop)(nil)
