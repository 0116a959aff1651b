package sim

import "github.com/justchen1369/acolyte-fight-sub000/internal/world"

// CommandType enumerates the inbound message families.
type CommandType string

const (
	CommandControl CommandType = "Control"
	CommandAction  CommandType = "Action"
)

// Command represents a message captured for processing on the next tick.
// ActorID is the sender's control key; control traffic leaves it empty and
// is never throttled.
type Command struct {
	ActorID string                `json:"actorId,omitempty"`
	Type    CommandType           `json:"type"`
	Control *world.ControlMessage `json:"control,omitempty"`
	Action  *world.ActionMessage  `json:"action,omitempty"`
}

// ControlCommand wraps a control message.
func ControlCommand(msg world.ControlMessage) Command {
	return Command{Type: CommandControl, Control: &msg}
}

// ActionCommand wraps a hero action keyed by its control key.
func ActionCommand(msg world.ActionMessage) Command {
	return Command{ActorID: msg.ControlKey, Type: CommandAction, Action: &msg}
}

// tickInput splits a drained batch into the world's input, keeping arrival
// order within each family.
func tickInput(commands []Command) world.TickInput {
	var input world.TickInput
	for _, cmd := range commands {
		switch cmd.Type {
		case CommandControl:
			if cmd.Control != nil {
				input.Controls = append(input.Controls, *cmd.Control)
			}
		case CommandAction:
			if cmd.Action != nil {
				input.Actions = append(input.Actions, *cmd.Action)
			}
		}
	}
	return input
}
