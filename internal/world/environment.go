package world

import (
	"strconv"

	"github.com/justchen1369/acolyte-fight-sub000/internal/geometry"
)

// setEnvironment fixes the arena seed and lays out obstacles. The seed can
// only be set once; later messages are ignored.
func (w *World) setEnvironment(seed int64) {
	if w.seedSet {
		return
	}
	w.seed = seed
	w.seedSet = true
	w.layoutObstacles()
}

func (w *World) layoutObstacles() {
	rng := w.rngFactory(strconv.FormatInt(w.seed, 10), "obstacles")
	radius := w.settings.World.InitialRadius * w.settings.World.Size
	center := w.Center()
	for _, layout := range w.rules.Layout {
		tmpl, ok := w.rules.Obstacle(layout.Obstacle)
		if !ok {
			continue
		}
		maxDistance := layout.MaxDistance
		if maxDistance <= 0 {
			maxDistance = 1
		}
		for i := 0; i < layout.Count; i++ {
			pos := ringPoint(rng, center, radius, layout.MinDistance, maxDistance)
			w.placeObstacle(tmpl, pos, randomRotation(rng))
		}
	}
}

// applyEnvironment shrinks the safe zone once combat has started and burns
// heroes standing outside it.
func (w *World) applyEnvironment() {
	if !w.Started() {
		return
	}
	ws := w.settings.World
	minRadius := ws.MinRadius * ws.Size
	if w.radius > minRadius {
		w.radius = max(minRadius, w.radius-ws.ShrinkPerTick*ws.Size)
	}

	interval := uint64(max(1, ws.LavaIntervalTicks))
	if ws.LavaDamage <= 0 || w.tick%interval != 0 {
		return
	}
	center := w.Center()
	for _, hero := range w.Heroes() {
		if geometry.Distance(hero.Position(), center) <= w.radius {
			continue
		}
		w.applyDamage(hero, DamagePacket{
			Damage:      ws.LavaDamage * float64(interval),
			IsLava:      true,
			NoHit:       true,
			NoKnockback: true,
			NoMitigate:  true,
		})
	}
}
