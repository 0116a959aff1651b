// Package intake validates decoded client messages and stages them on the
// simulation loop.
package intake

import (
	"math"
	"strings"

	"github.com/justchen1369/acolyte-fight-sub000/internal/net/proto"
	"github.com/justchen1369/acolyte-fight-sub000/internal/sim"
	"github.com/justchen1369/acolyte-fight-sub000/internal/world"
)

const (
	CommandRejectInvalidAction = "invalid_action"
	CommandRejectUnknownType   = "unknown_type"
	CommandRejectNoEngine      = "no_engine"
)

// Enqueuer is the part of the loop intake needs.
type Enqueuer interface {
	Enqueue(sim.Command) (bool, string)
}

type CommandContext struct {
	Engine Enqueuer
}

// ClientCommand converts a client message into a loop command without
// staging it.
func ClientCommand(controlKey string, msg proto.ClientMessage) (sim.Command, bool, string) {
	var zero sim.Command
	switch msg.Type {
	case proto.TypeAction:
		spellID := strings.TrimSpace(msg.SpellID)
		if !finite(msg.TargetX) || !finite(msg.TargetY) {
			return zero, false, CommandRejectInvalidAction
		}
		return sim.ActionCommand(world.ActionMessage{
			ControlKey: controlKey,
			Type:       world.ActionGame,
			SpellID:    spellID,
			TargetX:    msg.TargetX,
			TargetY:    msg.TargetY,
			Release:    msg.Release,
		}), true, ""
	case proto.TypeSpells:
		if len(msg.Keys) == 0 {
			return zero, false, CommandRejectInvalidAction
		}
		keys := make(map[string]string, len(msg.Keys))
		for key, spellID := range msg.Keys {
			keys[key] = spellID
		}
		return sim.ActionCommand(world.ActionMessage{
			ControlKey: controlKey,
			Type:       world.ActionSpellChoice,
			Keys:       keys,
		}), true, ""
	default:
		return zero, false, CommandRejectUnknownType
	}
}

// StageClientCommand validates msg and enqueues it for the next tick. The
// reject reason is empty on success.
func StageClientCommand(ctx CommandContext, controlKey string, msg proto.ClientMessage) (sim.Command, bool, string) {
	var zero sim.Command
	command, ok, reason := ClientCommand(controlKey, msg)
	if !ok {
		return zero, false, reason
	}
	if ctx.Engine == nil {
		return zero, false, CommandRejectNoEngine
	}
	if ok, reason := ctx.Engine.Enqueue(command); !ok {
		return zero, false, reason
	}
	return command, true, ""
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
