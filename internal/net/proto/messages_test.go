package proto

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/justchen1369/acolyte-fight-sub000/internal/geometry"
	"github.com/justchen1369/acolyte-fight-sub000/internal/world"
)

func TestDecodeClientMessageRejectsOtherVersions(t *testing.T) {
	msg, err := DecodeClientMessage([]byte(`{"type":"action","spellId":"fireball","targetX":0.25,"targetY":0.75,"seq":3}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if msg.Type != TypeAction || msg.SpellID != "fireball" || msg.TargetX != 0.25 || msg.Seq != 3 {
		t.Fatalf("unexpected message %+v", msg)
	}
	if _, err := DecodeClientMessage([]byte(`{"ver":99,"type":"action"}`)); err == nil {
		t.Fatalf("expected a version error")
	}
	if _, err := DecodeClientMessage([]byte(`not json`)); err == nil {
		t.Fatalf("expected a decode error")
	}
}

func TestTickMessageNamesEventsAndKeepsLatestSnapshot(t *testing.T) {
	events := []world.Event{
		&world.DetonateEvent{SourceID: "p1", Pos: geometry.V(0.5, 0.5), Radius: 0.05},
		&world.DeathEvent{HeroID: "a", KillerID: "b"},
	}
	snapshots := []world.Snapshot{{Tick: 10}, {Tick: 20}}
	msg := NewTick(20, events, snapshots, "")
	if msg.Empty() {
		t.Fatalf("expected a non-empty tick")
	}
	if msg.Snapshot == nil || msg.Snapshot.Tick != 20 {
		t.Fatalf("expected the latest snapshot, got %+v", msg.Snapshot)
	}
	data, err := Encode(msg)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var decoded struct {
		Type   string `json:"type"`
		Events []struct {
			Type  string         `json:"type"`
			Event map[string]any `json:"event"`
		} `json:"events"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Type != TypeTick || len(decoded.Events) != 2 {
		t.Fatalf("unexpected payload %s", data)
	}
	if decoded.Events[0].Type != "detonate" || decoded.Events[0].Event["sourceId"] != "p1" {
		t.Fatalf("unexpected detonate payload %s", data)
	}
	if decoded.Events[1].Type != "death" || decoded.Events[1].Event["killerId"] != "b" {
		t.Fatalf("unexpected death payload %s", data)
	}
	if NewTick(21, nil, nil, "").Empty() != true {
		t.Fatalf("expected an empty tick")
	}
}

func TestOutboundMessagesCarryVersion(t *testing.T) {
	for _, msg := range []any{
		NewWelcome("m", "h", "k", 3, 60),
		NewCommandReject(4, "queue_limit", true),
		NewHeartbeatAck(10, 5),
	} {
		data, err := Encode(msg)
		if err != nil {
			t.Fatalf("encode %T: %v", msg, err)
		}
		if !strings.Contains(string(data), `"ver":1`) {
			t.Fatalf("expected version in %s", data)
		}
	}
}
