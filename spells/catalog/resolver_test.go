package catalog

import (
	"errors"
	"io/fs"
	"strings"
	"testing"

	"github.com/justchen1369/acolyte-fight-sub000/spells/contract"
)

type memorySource struct {
	path string
	data []byte
	err  error
}

func (m memorySource) Load() ([]byte, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.data, nil
}

func (m memorySource) Path() string {
	return m.path
}

func TestDefaultRulesetLoadsAndValidates(t *testing.T) {
	resolver, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	rules := resolver.Ruleset()
	for _, id := range []string{"move", "fireball", "teleport", "shield", "saber", "scourge", "vortex", "link"} {
		if _, ok := rules.Spell(id); !ok {
			t.Fatalf("expected default spell %q", id)
		}
	}
	if rules.Settings.World.TicksPerSecond != 60 {
		t.Fatalf("unexpected tick rate %d", rules.Settings.World.TicksPerSecond)
	}
	if _, ok := rules.Obstacle("rock"); !ok {
		t.Fatalf("expected rock obstacle")
	}
	if got := rules.DefaultBindings()["q"]; got != "fireball" {
		t.Fatalf("expected fireball on q, got %q", got)
	}
}

func TestOverlayReplacesSpellsAndMergesSettings(t *testing.T) {
	overlay := memorySource{path: "overlay.yaml", data: []byte(`
settings:
  world:
    lavaDamage: 1
spells:
  - id: fireball
    kind: projectile
    cooldownTicks: 10
    projectile:
      speed: 1
      radius: 0.01
      maxTicks: 20
      damage: 50
`)}
	resolver, err := NewResolver(DefaultSource(), overlay)
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	rules := resolver.Ruleset()
	spell, _ := rules.Spell("fireball")
	if spell.CooldownTicks != 10 || spell.Projectile.Damage != 50 {
		t.Fatalf("overlay did not replace fireball: %+v", spell)
	}
	if rules.Settings.World.LavaDamage != 1 {
		t.Fatalf("expected lava damage overlay, got %v", rules.Settings.World.LavaDamage)
	}
	if rules.Settings.World.InitialRadius != 0.4 {
		t.Fatalf("overlay should keep untouched settings, got %v", rules.Settings.World.InitialRadius)
	}
	if _, ok := rules.Spell("meteor"); !ok {
		t.Fatalf("overlay dropped other spells")
	}
}

func TestValidateRejectsUnknownFieldsAndKinds(t *testing.T) {
	cases := map[string]string{
		"unknown kind": `
spells:
  - id: x
    kind: laser
`,
		"unknown field": `
spells:
  - id: x
    kind: move
    colour: red
`,
		"negative cooldown": `
spells:
  - id: x
    kind: move
    cooldownTicks: -1
`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			if err := Validate([]byte(doc)); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestMissingSourcesAreSkipped(t *testing.T) {
	missing := memorySource{path: "missing.yaml", err: fs.ErrNotExist}
	if _, err := NewResolver(DefaultSource(), missing); err != nil {
		t.Fatalf("missing overlay should be skipped: %v", err)
	}
	if _, err := NewResolver(missing); err == nil {
		t.Fatalf("expected error when nothing loads")
	}
	broken := memorySource{path: "broken.yaml", err: errors.New("disk on fire")}
	_, err := NewResolver(DefaultSource(), broken)
	if err == nil || !strings.Contains(err.Error(), "broken.yaml") {
		t.Fatalf("expected load error naming the source, got %v", err)
	}
}

func TestSchemaMentionsSpellKinds(t *testing.T) {
	data, err := SchemaJSON()
	if err != nil {
		t.Fatalf("SchemaJSON: %v", err)
	}
	for _, kind := range []contract.SpellKind{contract.KindProjectile, contract.KindSaber} {
		if !strings.Contains(string(data), string(kind)) {
			t.Fatalf("schema missing kind %q", kind)
		}
	}
}
