package world

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
)

// ObjectSnapshot is the presentation state of one object.
type ObjectSnapshot struct {
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	Angle    *float64 `json:"angle,omitempty"`
	Health   *float64 `json:"health,omitempty"`
	Vanished bool     `json:"vanished,omitempty"`
}

// Snapshot samples every live object at one tick.
type Snapshot struct {
	Tick    uint64                    `json:"tick"`
	Objects map[string]ObjectSnapshot `json:"objects"`
}

// Capture samples the current state regardless of the sampling interval.
func (w *World) Capture() Snapshot {
	snap := Snapshot{Tick: w.tick, Objects: make(map[string]ObjectSnapshot, len(w.order))}
	for _, obj := range w.Objects() {
		pos := obj.Position()
		entry := ObjectSnapshot{X: pos.X(), Y: pos.Y()}
		switch o := obj.(type) {
		case *Hero:
			angle, health := o.Angle(), o.Health
			entry.Angle = &angle
			entry.Health = &health
			entry.Vanished = w.vanished(o)
		case *Shield:
			angle := o.Body().Angle()
			entry.Angle = &angle
		case *Obstacle:
			angle := o.Body().Angle()
			entry.Angle = &angle
			if o.Destructible() {
				health := o.Health
				entry.Health = &health
			}
		}
		snap.Objects[obj.ObjectID()] = entry
	}
	return snap
}

func (w *World) snapshotInterval() uint64 {
	if w.config.SnapshotIntervalTicks > 0 {
		return uint64(w.config.SnapshotIntervalTicks)
	}
	return uint64(max(1, w.settings.World.SnapshotIntervalTicks))
}

func (w *World) captureSnapshot() {
	if w.tick%w.snapshotInterval() != 0 {
		return
	}
	w.snapshots = append(w.snapshots, w.Capture())
}

// DrainSnapshots returns the snapshots sampled since the last call.
func (w *World) DrainSnapshots() []Snapshot {
	if w == nil || len(w.snapshots) == 0 {
		return nil
	}
	out := w.snapshots
	w.snapshots = nil
	return out
}

// Checksum hashes the exact bits of every object's position, velocity and
// health. Two worlds fed the same input produce the same checksum.
func (w *World) Checksum() string {
	h := sha256.New()
	var buf [8]byte
	writeUint := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	}
	writeFloat := func(v float64) { writeUint(math.Float64bits(v)) }

	writeUint(w.tick)
	writeFloat(w.radius)
	for _, obj := range w.Objects() {
		h.Write([]byte(obj.ObjectID()))
		body := obj.Body()
		pos, vel := body.Position(), body.Velocity()
		writeFloat(pos.X())
		writeFloat(pos.Y())
		writeFloat(vel.X())
		writeFloat(vel.Y())
		writeFloat(body.Angle())
		switch o := obj.(type) {
		case *Hero:
			writeFloat(o.Health)
		case *Obstacle:
			writeFloat(o.Health)
		}
	}
	h.Write([]byte(w.winner))
	return hex.EncodeToString(h.Sum(nil))
}
