// Package catalog loads spell rulesets from YAML, validates them against the
// schema reflected from the contract types and merges overlays.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/justchen1369/acolyte-fight-sub000/spells/contract"
)

//go:embed default.yaml
var defaultRuleset []byte

type source interface {
	Load() ([]byte, error)
	Path() string
}

type fileSource struct {
	path string
}

func (f fileSource) Load() ([]byte, error) {
	return os.ReadFile(f.path)
}

func (f fileSource) Path() string {
	return f.path
}

type embeddedSource struct{}

func (embeddedSource) Load() ([]byte, error) {
	return defaultRuleset, nil
}

func (embeddedSource) Path() string {
	return "embedded:default.yaml"
}

// DefaultSource is the ruleset compiled into the binary.
func DefaultSource() source {
	return embeddedSource{}
}

// Resolver merges one or more ruleset sources into a ruleset. Later sources
// override spells, obstacles and keys with the same id and overlay settings
// field by field. Call Reload to pick up on-disk changes.
type Resolver struct {
	mu      sync.RWMutex
	sources []source
	ruleset *contract.Ruleset
}

// Load builds a Resolver from the embedded default followed by the given
// YAML files. Missing files are skipped.
func Load(paths ...string) (*Resolver, error) {
	sources := []source{embeddedSource{}}
	for _, path := range paths {
		trimmed := strings.TrimSpace(path)
		if trimmed == "" {
			continue
		}
		sources = append(sources, fileSource{path: trimmed})
	}
	return NewResolver(sources...)
}

// NewResolver constructs a Resolver from arbitrary sources. Tests can supply
// in-memory sources while production code uses fileSource.
func NewResolver(sources ...source) (*Resolver, error) {
	r := &Resolver{sources: append([]source(nil), sources...)}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload re-parses all sources.
func (r *Resolver) Reload() error {
	if r == nil {
		return nil
	}
	merged := &contract.Ruleset{}
	loaded := 0
	for _, src := range r.sources {
		data, err := src.Load()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("catalog: failed loading %s: %w", src.Path(), err)
		}
		if err := Validate(data); err != nil {
			return fmt.Errorf("catalog: %s: %w", src.Path(), err)
		}
		if err := overlay(merged, data); err != nil {
			return fmt.Errorf("catalog: failed parsing %s: %w", src.Path(), err)
		}
		loaded++
	}
	if loaded == 0 {
		return fmt.Errorf("catalog: no ruleset sources found")
	}
	if err := merged.Index(); err != nil {
		return fmt.Errorf("catalog: %w", err)
	}

	r.mu.Lock()
	r.ruleset = merged
	r.mu.Unlock()
	return nil
}

// Ruleset returns the current ruleset. The value is shared and must not be
// modified.
func (r *Resolver) Ruleset() *contract.Ruleset {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ruleset
}

// document mirrors contract.Ruleset but keeps settings as a raw node so it
// can be decoded on top of earlier sources.
type document struct {
	Settings  yaml.Node                   `yaml:"settings"`
	Spells    []contract.Spell            `yaml:"spells"`
	Obstacles []contract.ObstacleTemplate `yaml:"obstacles"`
	Layout    []contract.ObstacleLayout   `yaml:"layout"`
	Keys      []contract.KeyBinding       `yaml:"keys"`
}

func overlay(dst *contract.Ruleset, data []byte) error {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return err
	}
	if !doc.Settings.IsZero() {
		if err := doc.Settings.Decode(&dst.Settings); err != nil {
			return fmt.Errorf("settings: %w", err)
		}
	}
	for _, spell := range doc.Spells {
		dst.Spells = upsert(dst.Spells, spell, func(s contract.Spell) string { return s.ID })
	}
	for _, tmpl := range doc.Obstacles {
		dst.Obstacles = upsert(dst.Obstacles, tmpl, func(o contract.ObstacleTemplate) string { return o.ID })
	}
	for _, binding := range doc.Keys {
		dst.Keys = upsert(dst.Keys, binding, func(k contract.KeyBinding) string { return k.Key })
	}
	if doc.Layout != nil {
		dst.Layout = doc.Layout
	}
	return nil
}

func upsert[T any](items []T, item T, key func(T) string) []T {
	id := key(item)
	for i := range items {
		if key(items[i]) == id {
			items[i] = item
			return items
		}
	}
	return append(items, item)
}
