package sim

import (
	"testing"

	"github.com/justchen1369/acolyte-fight-sub000/logging"
)

func TestCommandBufferWraparound(t *testing.T) {
	buffer := NewCommandBuffer(3, nil)
	cmds := []Command{
		{ActorID: "a"},
		{ActorID: "b"},
		{ActorID: "c"},
	}
	for _, cmd := range cmds {
		if !buffer.Push(cmd) {
			t.Fatalf("expected push to succeed for %+v", cmd)
		}
	}
	if buffer.Push(Command{ActorID: "overflow"}) {
		t.Fatalf("expected push to fail when buffer full")
	}
	drained := buffer.Drain()
	if len(drained) != len(cmds) {
		t.Fatalf("expected %d commands, got %d", len(cmds), len(drained))
	}
	for i, cmd := range drained {
		if cmd.ActorID != cmds[i].ActorID {
			t.Fatalf("expected drain order %v, got %v", cmds[i].ActorID, cmd.ActorID)
		}
	}
	buffer.Push(Command{ActorID: "d"})
	buffer.Drain()
	// The head now sits mid-ring so the next batch wraps past the end.
	for _, cmd := range []Command{{ActorID: "e"}, {ActorID: "f"}, {ActorID: "g"}} {
		if !buffer.Push(cmd) {
			t.Fatalf("expected push to succeed after drain for %+v", cmd)
		}
	}
	wrapped := buffer.Drain()
	if len(wrapped) != 3 {
		t.Fatalf("expected 3 commands after wraparound, got %d", len(wrapped))
	}
	if wrapped[0].ActorID != "e" || wrapped[1].ActorID != "f" || wrapped[2].ActorID != "g" {
		t.Fatalf("unexpected order after wraparound: %+v", wrapped)
	}
}

func TestCommandBufferDrainIntoReusesSlice(t *testing.T) {
	buffer := NewCommandBuffer(4, nil)
	buffer.Push(Command{ActorID: "a"})
	batch := buffer.DrainInto(make([]Command, 0, 4))
	buffer.Push(Command{ActorID: "b"})
	buffer.Push(Command{ActorID: "c"})
	next := buffer.DrainInto(batch[:0])
	if len(next) != 2 || next[0].ActorID != "b" || next[1].ActorID != "c" {
		t.Fatalf("unexpected batch %+v", next)
	}
	if &next[0] != &batch[0] {
		t.Fatalf("expected the backing array to be reused")
	}
	if empty := buffer.DrainInto(nil); empty != nil {
		t.Fatalf("expected nil from an empty buffer, got %+v", empty)
	}
}

func TestCommandBufferOverflow(t *testing.T) {
	metrics := &logging.Metrics{}
	buffer := NewCommandBuffer(1, metrics)
	if !buffer.Push(Command{ActorID: "one"}) {
		t.Fatalf("expected initial push to succeed")
	}
	if buffer.Push(Command{ActorID: "two"}) {
		t.Fatalf("expected push to fail when capacity exceeded")
	}
	snapshot := metrics.Snapshot()
	if snapshot[commandBufferOverflowMetricKey] != 1 {
		t.Fatalf("expected one overflow, got %d", snapshot[commandBufferOverflowMetricKey])
	}
	if snapshot[commandBufferOccupancyMetricKey] != 1 || snapshot[commandBufferHighWaterMetricKey] != 1 {
		t.Fatalf("unexpected occupancy metrics %+v", snapshot)
	}
	drained := buffer.Drain()
	if len(drained) != 1 || drained[0].ActorID != "one" {
		t.Fatalf("unexpected drained commands: %+v", drained)
	}
	if got := metrics.Snapshot()[commandBufferOccupancyMetricKey]; got != 0 {
		t.Fatalf("expected occupancy reset after drain, got %d", got)
	}
}
