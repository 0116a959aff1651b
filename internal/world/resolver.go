package world

import (
	"fmt"

	"github.com/justchen1369/acolyte-fight-sub000/internal/geometry"
	"github.com/justchen1369/acolyte-fight-sub000/logging"
	"github.com/justchen1369/acolyte-fight-sub000/logging/lifecycle"
	spellslog "github.com/justchen1369/acolyte-fight-sub000/logging/spells"
	"github.com/justchen1369/acolyte-fight-sub000/spells/contract"
)

// resolveControls attempts every control message once. Messages that are not
// ready yet are held for the next tick.
func (w *World) resolveControls(controls []ControlMessage) {
	queue := append(w.pendingControls, controls...)
	w.pendingControls = nil
	for _, msg := range queue {
		if !w.handleControl(msg) {
			w.pendingControls = append(w.pendingControls, msg)
		}
	}
}

// handleControl applies msg and reports whether it is done with. Malformed
// messages count as done.
func (w *World) handleControl(msg ControlMessage) bool {
	switch msg.Type {
	case ControlCloseGame:
		if msg.CloseGame == nil {
			return true
		}
		return w.closeGame(*msg.CloseGame)
	case ControlTeams:
		if msg.Teams != nil {
			w.assignTeams(msg.Teams.Teams)
		}
	case ControlBot:
		if msg.Bot != nil {
			w.join(msg.Bot.HeroID, msg.Bot.ControlKey, "", "", msg.Bot.KeyBindings, true)
		}
	case ControlJoin:
		if msg.Join != nil {
			j := msg.Join
			w.join(j.HeroID, j.ControlKey, j.PlayerName, j.UserHash, j.KeyBindings, false)
		}
	case ControlLeave:
		if msg.Leave != nil {
			w.leave(*msg.Leave)
		}
	case ControlEnvironment:
		if msg.Environment != nil {
			w.setEnvironment(msg.Environment.Seed)
		}
	case ControlFinish:
		w.finishByScore()
	}
	return true
}

func (w *World) closeGame(msg CloseGameMessage) bool {
	if w.closed {
		return true
	}
	if w.tick < msg.CloseTick {
		return false
	}
	w.closed = true
	if w.startTick == notStarted {
		w.startTick = w.tick + msg.WaitPeriod
	}
	lifecycle.GameClosed(w.ctx(), w.publisher, w.tick, lifecycle.GameClosedPayload{StartTick: w.startTick})
	return true
}

func (w *World) assignTeams(teams [][]string) {
	clear(w.teamAssignments)
	for i, team := range teams {
		teamID := fmt.Sprintf("team%d", i+1)
		for _, heroID := range team {
			w.teamAssignments[heroID] = teamID
		}
	}
}

// join adds a player, or hands an existing hero to a new connection.
func (w *World) join(heroID, controlKey, name, userHash string, requested map[string]string, bot bool) {
	if heroID == "" {
		return
	}
	if player, ok := w.players[heroID]; ok {
		if player.ControlKey != "" {
			delete(w.controlKeys, player.ControlKey)
		}
		player.ControlKey = controlKey
		player.IsBot = bot
		player.Left = false
		if name != "" {
			player.Name = name
		}
		if controlKey != "" {
			w.controlKeys[controlKey] = heroID
		}
		return
	}
	if _, taken := w.objects[heroID]; taken {
		return
	}
	if w.winner != "" {
		return
	}

	bindings := w.rules.DefaultBindings()
	for key, spellID := range requested {
		if w.rules.AllowsBinding(key, spellID) {
			bindings[key] = spellID
		}
	}
	player := &Player{
		HeroID:      heroID,
		ControlKey:  controlKey,
		Name:        name,
		UserHash:    userHash,
		IsBot:       bot,
		KeyBindings: bindings,
	}
	w.players[heroID] = player
	if controlKey != "" {
		w.controlKeys[controlKey] = heroID
	}
	hero := w.spawnHero(heroID, bindings)
	w.score(heroID)

	pos := hero.Position()
	lifecycle.PlayerJoined(w.ctx(), w.publisher, w.tick, logging.Hero(heroID), lifecycle.PlayerJoinedPayload{
		Name:   name,
		Bot:    bot,
		SpawnX: pos.X(),
		SpawnY: pos.Y(),
	}, nil)
}

// leave removes a player who leaves before combat and otherwise hands the
// hero to a bot so the match can play out.
func (w *World) leave(msg LeaveMessage) {
	player, ok := w.players[msg.HeroID]
	if !ok {
		return
	}
	if msg.ControlKey != "" && player.ControlKey != msg.ControlKey {
		return
	}
	if player.ControlKey != "" {
		delete(w.controlKeys, player.ControlKey)
	}
	player.ControlKey = ""
	player.Left = true

	reason := "handed_to_bot"
	if !w.Started() {
		reason = "left_lobby"
		if hero, ok := w.Hero(msg.HeroID); ok {
			w.destroyObject(hero)
		}
		delete(w.players, msg.HeroID)
		delete(w.scores, msg.HeroID)
		delete(w.actions, msg.HeroID)
		delete(w.teamAssignments, msg.HeroID)
	} else {
		player.IsBot = true
	}
	lifecycle.PlayerLeft(w.ctx(), w.publisher, w.tick, logging.Hero(msg.HeroID), lifecycle.PlayerLeftPayload{
		Reason:    reason,
		HandedOff: msg.Split,
	}, nil)
}

// resolveActions records the latest intent per hero. Input from unknown
// control keys, dead heroes or for spells the hero does not own is dropped.
// An action without a spell is an implicit move.
func (w *World) resolveActions(actions []ActionMessage) {
	for _, msg := range actions {
		if msg.Type == ActionGame && msg.SpellID == "" {
			if move, ok := w.rules.MoveSpell(); ok {
				msg.SpellID = move.ID
			}
		}
		heroID, ok := w.controlKeys[msg.ControlKey]
		if !ok {
			w.dropAction("", msg.SpellID, "unknown_control_key")
			continue
		}
		switch msg.Type {
		case ActionGame:
			hero, ok := w.Hero(heroID)
			if !ok {
				w.dropAction(heroID, msg.SpellID, "dead")
				continue
			}
			if !w.heroOwnsSpell(hero, msg.SpellID) {
				w.dropAction(heroID, msg.SpellID, "not_owned")
				continue
			}
			w.actionSeq++
			w.actions[heroID] = &Action{
				Seq:     w.actionSeq,
				SpellID: msg.SpellID,
				Target:  geometry.V(msg.TargetX, msg.TargetY),
				Release: msg.Release,
			}
		case ActionSpellChoice:
			w.chooseSpells(heroID, msg.Keys)
		}
	}
}

func (w *World) dropAction(heroID, spellID, reason string) {
	spellslog.ActionDropped(w.ctx(), w.publisher, w.tick, logging.Hero(heroID), spellslog.CastPayload{
		Spell:  spellID,
		Reason: reason,
	})
}

func (w *World) heroOwnsSpell(hero *Hero, spellID string) bool {
	spell, ok := w.rules.Spell(spellID)
	if !ok {
		return false
	}
	if spell.Kind == contract.KindMove {
		return true
	}
	for _, owned := range hero.KeysToSpells {
		if owned == spellID {
			return true
		}
	}
	return false
}

// chooseSpells changes a loadout. It is only allowed before combat starts,
// while the hero is dead or once the match is decided.
func (w *World) chooseSpells(heroID string, keys map[string]string) {
	player, ok := w.players[heroID]
	if !ok || len(keys) == 0 {
		return
	}
	hero, alive := w.Hero(heroID)
	if w.Started() && alive && w.winner == "" {
		w.dropAction(heroID, "", "spell_choice_locked")
		return
	}
	for key, spellID := range keys {
		if !w.rules.AllowsBinding(key, spellID) {
			continue
		}
		player.KeyBindings[key] = spellID
		if alive {
			hero.KeysToSpells[key] = spellID
		}
	}
}
