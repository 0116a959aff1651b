package sim

import (
	"errors"

	"github.com/justchen1369/acolyte-fight-sub000/internal/world"
)

// ErrMissingWorld indicates NewEngine was invoked without a world instance.
var ErrMissingWorld = errors.New("sim: world is nil")

// EngineOption configures NewEngine behaviour. Options are applied in order;
// later options override earlier ones.
type EngineOption interface {
	apply(*engineConfig)
}

type engineOptionFunc func(*engineConfig)

func (f engineOptionFunc) apply(cfg *engineConfig) {
	if f != nil {
		f(cfg)
	}
}

type engineConfig struct {
	deps       Deps
	loopConfig LoopConfig
	loopHooks  LoopHooks
}

// WithDeps injects shared infrastructure dependencies used by the loop.
func WithDeps(deps Deps) EngineOption {
	return engineOptionFunc(func(cfg *engineConfig) {
		cfg.deps = deps
	})
}

// WithLoopConfig overrides the default command queue and tick loop sizing.
func WithLoopConfig(config LoopConfig) EngineOption {
	return engineOptionFunc(func(cfg *engineConfig) {
		cfg.loopConfig = config
	})
}

// WithLoopHooks supplies custom loop callbacks.
func WithLoopHooks(hooks LoopHooks) EngineOption {
	return engineOptionFunc(func(cfg *engineConfig) {
		cfg.loopHooks = hooks
	})
}

// WithRecorder records every tick's input, e.g. into a replay log.
func WithRecorder(recorder Recorder) EngineOption {
	return engineOptionFunc(func(cfg *engineConfig) {
		cfg.deps.Recorder = recorder
	})
}

// NewEngine wraps w in a Loop configured by the supplied options.
func NewEngine(w *world.World, opts ...EngineOption) (*Loop, error) {
	if w == nil {
		return nil, ErrMissingWorld
	}
	cfg := engineConfig{loopConfig: DefaultLoopConfig()}
	for _, opt := range opts {
		if opt != nil {
			opt.apply(&cfg)
		}
	}
	return NewLoop(w, cfg.loopConfig, cfg.deps, cfg.loopHooks), nil
}
