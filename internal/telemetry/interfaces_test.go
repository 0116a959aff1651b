package telemetry

import (
	"bytes"
	"log"
	"testing"

	"github.com/justchen1369/acolyte-fight-sub000/logging"
)

func TestWrapLogger(t *testing.T) {
	t.Run("nil logger", func(t *testing.T) {
		logger := WrapLogger(nil)
		logger.Printf("ignored %d", 42)
	})

	t.Run("forwards to logger", func(t *testing.T) {
		var buf bytes.Buffer
		logger := WrapLogger(log.New(&buf, "", 0))
		logger.Printf("hello %s", "arena")
		if got := buf.String(); got != "hello arena\n" {
			t.Fatalf("unexpected log output: %q", got)
		}
	})
}

func TestWrapMetrics(t *testing.T) {
	metrics := logging.Metrics{}
	adapter := WrapMetrics(&metrics)

	adapter.Add("sim_ticks", 2)
	adapter.Store("sim_ticks", 5)
	adapter.Add("sim_ticks", 3)

	if got := metrics.Snapshot()["sim_ticks"]; got != 8 {
		t.Fatalf("unexpected metric value: %d", got)
	}

	nilAdapter := WrapMetrics(nil)
	nilAdapter.Add("ignored", 1)
	nilAdapter.Store("ignored", 1)
}
