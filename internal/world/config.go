package world

import "strings"

const (
	DefaultSeed = "arena"
	// DefaultSubsteps is how many collision passes the physics adapter runs per tick.
	DefaultSubsteps = 2
)

// Config holds the per-match knobs that are not part of the ruleset.
type Config struct {
	MatchID string `json:"matchId"`

	// Seed roots the RNG used for anything not driven by the environment
	// seed control message.
	Seed string `json:"seed"`

	// WaitForClose keeps damage suppressed until a CloseGame control message
	// arrives. When false combat starts at StartTick.
	WaitForClose bool   `json:"waitForClose"`
	StartTick    uint64 `json:"startTick"`
	Substeps     int    `json:"substeps"`

	// SnapshotIntervalTicks overrides the ruleset's sampling interval when
	// positive.
	SnapshotIntervalTicks int `json:"snapshotIntervalTicks"`
}

func (cfg Config) normalized() Config {
	normalized := cfg
	normalized.MatchID = strings.TrimSpace(normalized.MatchID)
	normalized.Seed = strings.TrimSpace(normalized.Seed)
	if normalized.Seed == "" {
		normalized.Seed = DefaultSeed
	}
	if normalized.Substeps <= 0 {
		normalized.Substeps = DefaultSubsteps
	}
	if normalized.SnapshotIntervalTicks < 0 {
		normalized.SnapshotIntervalTicks = 0
	}
	return normalized
}

func (cfg Config) Normalized() Config {
	return cfg.normalized()
}

// DefaultConfig is the configuration a lobby-backed match runs with.
func DefaultConfig() Config {
	return Config{
		Seed:         DefaultSeed,
		WaitForClose: true,
		Substeps:     DefaultSubsteps,
	}
}
