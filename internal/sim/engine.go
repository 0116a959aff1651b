package sim

import (
	"context"

	"github.com/justchen1369/acolyte-fight-sub000/internal/world"
)

// Engine defines the minimal surface area exposed to non-simulation callers.
type Engine interface {
	Enqueue(Command) (bool, string)
	Advance(LoopTickContext) LoopStepResult
	Run(context.Context)
	Pending() int
	View(func(*world.World))
}
