package world

import (
	"github.com/justchen1369/acolyte-fight-sub000/logging"
	"github.com/justchen1369/acolyte-fight-sub000/logging/combat"
	"github.com/justchen1369/acolyte-fight-sub000/logging/lifecycle"
)

// reap destroys expired projectiles and shields, broken obstacles and dead
// heroes, then checks for a winner. Explosions run before heroes are
// checked so their damage counts this tick.
func (w *World) reap() {
	for _, obj := range w.Objects() {
		switch o := obj.(type) {
		case *Projectile:
			if o.Expired || w.tick >= o.ExpireTick {
				w.detonateProjectile(o)
				w.destroyObject(o)
			}
		case *Shield:
			if o.Expired || w.tick >= o.ExpireTick {
				w.destroyObject(o)
			}
		case *Obstacle:
			if o.Destructible() && o.Health <= 0 {
				w.breakObstacle(o)
			}
		}
	}
	for _, hero := range w.Heroes() {
		if hero.Health <= 0 {
			w.killHero(hero)
		}
	}
	w.detectWinner()
}

func (w *World) breakObstacle(o *Obstacle) {
	w.destroyObject(o)
	if o.Template.Detonate != nil {
		w.detonate(o.id, "", "", o.Position(), o.Template.Detonate, 1)
	}
	combat.ObstacleDestroyed(w.ctx(), w.publisher, w.tick, entityRef(o), nil)
}

func (w *World) killHero(hero *Hero) {
	killer := hero.KillerHeroID
	if killer == "" {
		killer = hero.KnockbackHeroID
	}
	if w.winner == "" {
		w.score(hero.id).Deaths++
		if killer != "" && killer != hero.id {
			w.score(killer).Kills++
		}
	}
	delete(w.actions, hero.id)
	hero.Casting = nil
	w.destroyObject(hero)
	w.emit(&DeathEvent{eventBase: eventBase{Tick: w.tick}, HeroID: hero.id, KillerID: killer})
	combat.Defeat(w.ctx(), w.publisher, w.tick, w.heroRef(killer), logging.Hero(hero.id), combat.DefeatPayload{
		Killer:    hero.KillerHeroID,
		Knockback: hero.KnockbackHeroID,
	}, nil)
}

// detectWinner ends the match when at most one team is left standing. Solo
// worlds never finish on their own.
func (w *World) detectWinner() {
	if w.winner != "" || !w.Started() || len(w.players) < 2 {
		return
	}
	alive := w.Heroes()
	teams := make(map[string]struct{})
	for _, hero := range alive {
		teams[w.teamOf(hero.id)] = struct{}{}
	}
	if len(teams) > 1 {
		return
	}
	if len(alive) == 0 {
		w.finishByScore()
		return
	}
	winner := alive[0]
	for _, hero := range alive[1:] {
		if w.betterScore(hero.id, winner.id) {
			winner = hero
		}
	}
	w.finish(winner.id)
}

// finishByScore picks the player with the best score.
func (w *World) finishByScore() {
	if w.winner != "" {
		return
	}
	best := ""
	for _, heroID := range sortedKeys(w.players) {
		if best == "" || w.betterScore(heroID, best) {
			best = heroID
		}
	}
	if best == "" {
		return
	}
	w.finish(best)
}

func (w *World) betterScore(a, b string) bool {
	sa, sb := w.Score(a), w.Score(b)
	if sa.Kills != sb.Kills {
		return sa.Kills > sb.Kills
	}
	return sa.Damage > sb.Damage
}

// finish records the winner and its team. Both are final.
func (w *World) finish(winnerID string) {
	team := w.teamOf(winnerID)
	w.winner = winnerID
	w.winners = nil
	for _, heroID := range sortedKeys(w.players) {
		if w.teamOf(heroID) == team {
			w.winners = append(w.winners, heroID)
		}
	}
	w.removeBots()
	lifecycle.GameFinished(w.ctx(), w.publisher, w.tick, lifecycle.GameFinishedPayload{Winner: w.winner, Winners: w.winners})
}

func (w *World) removeBots() {
	for _, heroID := range sortedKeys(w.players) {
		player := w.players[heroID]
		if !player.IsBot {
			continue
		}
		if hero, ok := w.Hero(heroID); ok {
			w.destroyObject(hero)
		}
		if player.ControlKey != "" {
			delete(w.controlKeys, player.ControlKey)
		}
		delete(w.players, heroID)
		delete(w.actions, heroID)
	}
}
