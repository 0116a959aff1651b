package world

import "github.com/justchen1369/acolyte-fight-sub000/internal/geometry"

// Event is a presentation notification. The simulation never reads events
// back.
type Event interface {
	EventTick() uint64
	event()
}

type eventBase struct {
	Tick uint64 `json:"tick"`
}

func (e eventBase) EventTick() uint64 { return e.Tick }
func (eventBase) event()              {}

type DetonateEvent struct {
	eventBase
	SourceID string       `json:"sourceId"`
	OwnerID  string       `json:"ownerId,omitempty"`
	Pos      geometry.Vec `json:"pos"`
	Radius   float64      `json:"radius"`
}

type TeleportEvent struct {
	eventBase
	HeroID string       `json:"heroId"`
	From   geometry.Vec `json:"from"`
	To     geometry.Vec `json:"to"`
}

// PushEvent marks an object knocked by a hero.
type PushEvent struct {
	eventBase
	OwnerID   string       `json:"ownerId"`
	ObjectID  string       `json:"objectId"`
	Direction geometry.Vec `json:"direction"`
}

type LifeStealEvent struct {
	eventBase
	HeroID string  `json:"heroId"`
	Amount float64 `json:"amount"`
}

// CooldownFlashEvent fires once per pending action that is waiting on a
// cooldown.
type CooldownFlashEvent struct {
	eventBase
	HeroID  string `json:"heroId"`
	SpellID string `json:"spellId"`
}

type CastFailedEvent struct {
	eventBase
	HeroID  string `json:"heroId"`
	SpellID string `json:"spellId"`
	Reason  string `json:"reason"`
}

type DeathEvent struct {
	eventBase
	HeroID   string `json:"heroId"`
	KillerID string `json:"killerId,omitempty"`
}

func (w *World) emit(e Event) {
	w.events = append(w.events, e)
}

// DrainEvents returns the events produced since the last call.
func (w *World) DrainEvents() []Event {
	if w == nil || len(w.events) == 0 {
		return nil
	}
	out := w.events
	w.events = nil
	return out
}
