package contract

import (
	"fmt"
	"sort"
)

// Ruleset is everything a match needs to know about spells and the arena.
type Ruleset struct {
	Settings  Settings           `json:"settings" yaml:"settings"`
	Spells    []Spell            `json:"spells" yaml:"spells" jsonschema:"minItems=1"`
	Obstacles []ObstacleTemplate `json:"obstacles,omitempty" yaml:"obstacles,omitempty"`
	Layout    []ObstacleLayout   `json:"layout,omitempty" yaml:"layout,omitempty"`
	Keys      []KeyBinding       `json:"keys,omitempty" yaml:"keys,omitempty"`

	spells    map[string]*Spell
	obstacles map[string]*ObstacleTemplate
	keys      map[string]*KeyBinding
}

// Index builds the lookup tables and validates cross references. It must be
// called before the ruleset is used.
func (r *Ruleset) Index() error {
	r.Settings = r.Settings.Normalized()
	if len(r.Spells) == 0 {
		return fmt.Errorf("ruleset has no spells")
	}
	r.spells = make(map[string]*Spell, len(r.Spells))
	for i := range r.Spells {
		spell := &r.Spells[i]
		if spell.ID == "" {
			return fmt.Errorf("spell %d missing id", i)
		}
		if _, dup := r.spells[spell.ID]; dup {
			return fmt.Errorf("duplicate spell id %q", spell.ID)
		}
		if err := validateSpell(spell); err != nil {
			return fmt.Errorf("spell %q: %w", spell.ID, err)
		}
		r.spells[spell.ID] = spell
	}

	r.obstacles = make(map[string]*ObstacleTemplate, len(r.Obstacles))
	for i := range r.Obstacles {
		tmpl := &r.Obstacles[i]
		if _, dup := r.obstacles[tmpl.ID]; dup {
			return fmt.Errorf("duplicate obstacle id %q", tmpl.ID)
		}
		r.obstacles[tmpl.ID] = tmpl
	}
	for _, layout := range r.Layout {
		if _, ok := r.obstacles[layout.Obstacle]; !ok {
			return fmt.Errorf("layout references unknown obstacle %q", layout.Obstacle)
		}
	}

	r.keys = make(map[string]*KeyBinding, len(r.Keys))
	for i := range r.Keys {
		binding := &r.Keys[i]
		if _, dup := r.keys[binding.Key]; dup {
			return fmt.Errorf("duplicate key %q", binding.Key)
		}
		if _, ok := r.spells[binding.Default]; !ok {
			return fmt.Errorf("key %q defaults to unknown spell %q", binding.Key, binding.Default)
		}
		for _, option := range binding.Options {
			if _, ok := r.spells[option]; !ok {
				return fmt.Errorf("key %q offers unknown spell %q", binding.Key, option)
			}
		}
		r.keys[binding.Key] = binding
	}
	return nil
}

func validateSpell(spell *Spell) error {
	missing := func(name string) error {
		return fmt.Errorf("%s spell requires a %s block", spell.Kind, name)
	}
	switch spell.Kind {
	case KindMove:
	case KindProjectile:
		if spell.Projectile == nil {
			return missing("projectile")
		}
	case KindSpray:
		if spell.Spray == nil {
			return missing("spray")
		}
	case KindThrust:
		if spell.Thrust == nil {
			return missing("thrust")
		}
		if spell.Thrust.Speed <= 0 {
			return fmt.Errorf("thrust speed must be positive, got %v", spell.Thrust.Speed)
		}
	case KindTeleport:
		if spell.Teleport == nil {
			return missing("teleport")
		}
	case KindWall:
		if spell.Wall == nil {
			return missing("wall")
		}
	case KindShield:
		if spell.Shield == nil {
			return missing("shield")
		}
	case KindSaber:
		if spell.Saber == nil {
			return missing("saber")
		}
	case KindBuff:
		if len(spell.Buffs) == 0 {
			return missing("buffs")
		}
	case KindScourge:
		if spell.Scourge == nil {
			return missing("scourge")
		}
	default:
		return fmt.Errorf("unknown kind %q", spell.Kind)
	}
	if spell.Releasable && spell.ChargeTicks == 0 {
		return fmt.Errorf("releasable spells need chargeTicks")
	}
	return nil
}

// Spell looks up a spell by id.
func (r *Ruleset) Spell(id string) (*Spell, bool) {
	spell, ok := r.spells[id]
	return spell, ok
}

// Obstacle looks up an obstacle template by id.
func (r *Ruleset) Obstacle(id string) (*ObstacleTemplate, bool) {
	tmpl, ok := r.obstacles[id]
	return tmpl, ok
}

// DefaultBindings returns the key to spell mapping new heroes start with.
func (r *Ruleset) DefaultBindings() map[string]string {
	out := make(map[string]string, len(r.Keys))
	for _, binding := range r.Keys {
		out[binding.Key] = binding.Default
	}
	return out
}

// AllowsBinding reports whether spellID may be placed on key.
func (r *Ruleset) AllowsBinding(key, spellID string) bool {
	binding, ok := r.keys[key]
	if !ok {
		return false
	}
	if binding.Default == spellID {
		return true
	}
	for _, option := range binding.Options {
		if option == spellID {
			return true
		}
	}
	return false
}

// MoveSpell returns the first move-kind spell, used for implicit movement.
func (r *Ruleset) MoveSpell() (*Spell, bool) {
	for i := range r.Spells {
		if r.Spells[i].Kind == KindMove {
			return &r.Spells[i], true
		}
	}
	return nil, false
}

// SpellIDs lists spell ids in sorted order.
func (r *Ruleset) SpellIDs() []string {
	ids := make([]string, 0, len(r.spells))
	for id := range r.spells {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
