package world

// ActionType distinguishes gameplay intents from loadout changes.
type ActionType string

const (
	ActionGame        ActionType = "game"
	ActionSpellChoice ActionType = "spells"
)

// ActionMessage is one hero intent keyed by the sender's control key.
type ActionMessage struct {
	ControlKey string            `json:"controlKey"`
	Type       ActionType        `json:"type"`
	SpellID    string            `json:"spellId,omitempty"`
	TargetX    float64           `json:"targetX"`
	TargetY    float64           `json:"targetY"`
	Release    bool              `json:"release,omitempty"`
	Keys       map[string]string `json:"keys,omitempty"`
}

// ControlType names a control message variant.
type ControlType string

const (
	ControlCloseGame   ControlType = "closeGame"
	ControlTeams       ControlType = "teams"
	ControlBot         ControlType = "bot"
	ControlJoin        ControlType = "join"
	ControlLeave       ControlType = "leave"
	ControlEnvironment ControlType = "environment"
	ControlFinish      ControlType = "finish"
)

// ControlMessage carries exactly one payload matching Type.
type ControlMessage struct {
	Type        ControlType         `json:"type"`
	CloseGame   *CloseGameMessage   `json:"closeGame,omitempty"`
	Teams       *TeamsMessage       `json:"teams,omitempty"`
	Bot         *BotMessage         `json:"bot,omitempty"`
	Join        *JoinMessage        `json:"join,omitempty"`
	Leave       *LeaveMessage       `json:"leave,omitempty"`
	Environment *EnvironmentMessage `json:"environment,omitempty"`
}

// CloseGameMessage stops new joins. Combat starts WaitPeriod ticks after
// CloseTick; the message waits in the queue until CloseTick is reached.
type CloseGameMessage struct {
	CloseTick  uint64 `json:"closeTick"`
	WaitPeriod uint64 `json:"waitPeriod"`
}

type TeamsMessage struct {
	Teams [][]string `json:"teams"`
}

// BotMessage adds a hero driven by an AI worker.
type BotMessage struct {
	HeroID      string            `json:"heroId"`
	ControlKey  string            `json:"controlKey"`
	KeyBindings map[string]string `json:"keyBindings,omitempty"`
}

type JoinMessage struct {
	HeroID      string            `json:"heroId"`
	ControlKey  string            `json:"controlKey"`
	PlayerName  string            `json:"playerName"`
	UserHash    string            `json:"userHash,omitempty"`
	KeyBindings map[string]string `json:"keyBindings,omitempty"`
}

// LeaveMessage detaches a player. Split marks a player moving to another
// match rather than quitting.
type LeaveMessage struct {
	HeroID     string `json:"heroId"`
	ControlKey string `json:"controlKey"`
	Split      bool   `json:"split,omitempty"`
}

type EnvironmentMessage struct {
	Seed int64 `json:"seed"`
}

// TickInput is everything the world consumes in one tick.
type TickInput struct {
	Controls []ControlMessage `json:"controls,omitempty"`
	Actions  []ActionMessage  `json:"actions,omitempty"`
}

// Empty reports whether the tick carries no messages.
func (in TickInput) Empty() bool {
	return len(in.Controls) == 0 && len(in.Actions) == 0
}
