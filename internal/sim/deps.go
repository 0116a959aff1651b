package sim

import (
	"github.com/justchen1369/acolyte-fight-sub000/internal/telemetry"
	"github.com/justchen1369/acolyte-fight-sub000/internal/world"
	"github.com/justchen1369/acolyte-fight-sub000/logging"
)

// Recorder persists every tick's input alongside the resulting checksum.
type Recorder interface {
	Record(tick uint64, input world.TickInput, checksum string) error
}

// Deps carries shared infrastructure dependencies required by the loop.
type Deps struct {
	Logger    telemetry.Logger
	Metrics   telemetry.Metrics
	Publisher logging.Publisher
	Clock     logging.Clock
	Recorder  Recorder
}

func (d Deps) normalized() Deps {
	if d.Metrics == nil {
		d.Metrics = telemetry.WrapMetrics(nil)
	}
	if d.Publisher == nil {
		d.Publisher = logging.NopPublisher()
	}
	if d.Clock == nil {
		d.Clock = logging.SystemClock{}
	}
	return d
}
