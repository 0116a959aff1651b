package world

import "github.com/justchen1369/acolyte-fight-sub000/internal/geometry"

type motionKind int

const (
	motionOffset motionKind = iota
	motionVelocity
	motionImpulse
)

// motion is a queued manual change to an object's body, flushed just before
// the physics step.
type motion struct {
	objectID string
	kind     motionKind
	value    geometry.Vec
}

func (w *World) queueOffset(id string, offset geometry.Vec) {
	w.motions = append(w.motions, motion{objectID: id, kind: motionOffset, value: offset})
}

func (w *World) queueVelocity(id string, velocity geometry.Vec) {
	w.motions = append(w.motions, motion{objectID: id, kind: motionVelocity, value: velocity})
}

func (w *World) queueImpulse(id string, impulse geometry.Vec) {
	w.motions = append(w.motions, motion{objectID: id, kind: motionImpulse, value: impulse})
}

// flushMotions applies queued motions in the order they were queued. Motions
// for objects destroyed since are discarded.
func (w *World) flushMotions() {
	for _, m := range w.motions {
		obj, ok := w.objects[m.objectID]
		if !ok {
			continue
		}
		body := obj.Body()
		switch m.kind {
		case motionOffset:
			body.SetPosition(body.Position().Add(m.value))
		case motionVelocity:
			body.SetVelocity(m.value)
		case motionImpulse:
			body.ApplyImpulse(m.value)
		}
	}
	w.motions = w.motions[:0]
}
