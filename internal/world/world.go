package world

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/justchen1369/acolyte-fight-sub000/internal/geometry"
	"github.com/justchen1369/acolyte-fight-sub000/internal/physics"
	"github.com/justchen1369/acolyte-fight-sub000/logging"
	"github.com/justchen1369/acolyte-fight-sub000/spells/contract"
)

// RNGFactory produces deterministic RNG instances for world subsystems.
type RNGFactory func(rootSeed, label string) *rand.Rand

// Deps bundles runtime dependencies required to construct a World instance.
type Deps struct {
	Publisher logging.Publisher
	RNG       RNGFactory
}

// notStarted is the start tick of a match still waiting for CloseGame.
const notStarted = math.MaxUint64

// Player is a participant. The player outlives the hero it controls.
type Player struct {
	HeroID      string
	ControlKey  string
	Name        string
	UserHash    string
	IsBot       bool
	Left        bool
	KeyBindings map[string]string
}

// Score accumulates per-hero statistics until a winner is decided.
type Score struct {
	HeroID    string  `json:"heroId"`
	Kills     int     `json:"kills"`
	Deaths    int     `json:"deaths"`
	Damage    float64 `json:"damage"`
	LifeSteal float64 `json:"lifeSteal"`
}

// World is the authoritative state of one match. It is not safe for
// concurrent use; the simulation loop owns it.
type World struct {
	config   Config
	rules    *contract.Ruleset
	settings contract.Settings

	publisher  logging.Publisher
	rngFactory RNGFactory
	rng        *rand.Rand

	tick      uint64
	startTick uint64
	closed    bool
	seed      int64
	seedSet   bool
	radius    float64

	physics         *physics.World
	objects         map[string]Object
	order           []string
	nextObjectID    uint64
	spawnCount      int
	nextFilterGroup int16

	behaviours []Behaviour

	players         map[string]*Player
	controlKeys     map[string]string
	teamAssignments map[string]string
	scores          map[string]*Score
	actions         map[string]*Action
	actionSeq       uint64
	pendingControls []ControlMessage

	winner  string
	winners []string

	collisions    []collision
	collisionKeys map[physics.ContactKey]struct{}
	motions       []motion

	events    []Event
	snapshots []Snapshot
}

// New constructs an empty arena for the given ruleset. The ruleset must have
// been indexed.
func New(cfg Config, rules *contract.Ruleset, deps Deps) (*World, error) {
	if rules == nil {
		return nil, fmt.Errorf("world: nil ruleset")
	}
	if len(rules.SpellIDs()) == 0 {
		return nil, fmt.Errorf("world: ruleset has no indexed spells")
	}
	normalized := cfg.normalized()

	factory := deps.RNG
	if factory == nil {
		factory = NewDeterministicRNG
	}
	publisher := deps.Publisher
	if publisher == nil {
		publisher = logging.NopPublisher()
	}
	publisher = logging.WithMatch(publisher, normalized.MatchID)

	settings := rules.Settings.Normalized()
	size := settings.World.Size
	phys := physics.New(physics.Config{
		Width:    size,
		Height:   size,
		Margin:   size / 2,
		Scale:    1000 / size,
		CellSize: size / 20,
		Substeps: normalized.Substeps,
	})

	w := &World{
		config:          normalized,
		rules:           rules,
		settings:        settings,
		publisher:       publisher,
		rngFactory:      factory,
		rng:             factory(normalized.Seed, "world"),
		startTick:       normalized.StartTick,
		radius:          settings.World.InitialRadius * size,
		physics:         phys,
		objects:         make(map[string]Object),
		players:         make(map[string]*Player),
		controlKeys:     make(map[string]string),
		teamAssignments: make(map[string]string),
		scores:          make(map[string]*Score),
		actions:         make(map[string]*Action),
		collisionKeys:   make(map[physics.ContactKey]struct{}),
	}
	if normalized.WaitForClose {
		w.startTick = notStarted
	}
	phys.SetPostSolve(w.recordCollision)
	return w, nil
}

func (w *World) Config() Config {
	if w == nil {
		return Config{}
	}
	return w.config
}

func (w *World) Ruleset() *contract.Ruleset {
	if w == nil {
		return nil
	}
	return w.rules
}

func (w *World) Settings() contract.Settings {
	if w == nil {
		return contract.Settings{}
	}
	return w.settings
}

// Tick is the number of the last completed tick.
func (w *World) Tick() uint64 {
	if w == nil {
		return 0
	}
	return w.tick
}

// StartTick is the first tick damage applies. It reports false while the
// match is still waiting to be closed.
func (w *World) StartTick() (uint64, bool) {
	if w == nil || w.startTick == notStarted {
		return 0, false
	}
	return w.startTick, true
}

// Started reports whether combat is live.
func (w *World) Started() bool {
	return w != nil && w.tick >= w.startTick
}

// Closed reports whether the match has stopped accepting joins.
func (w *World) Closed() bool {
	return w != nil && w.closed
}

// Seed returns the environment seed once it has been set.
func (w *World) Seed() (int64, bool) {
	if w == nil {
		return 0, false
	}
	return w.seed, w.seedSet
}

func (w *World) RNG() *rand.Rand {
	if w == nil {
		return nil
	}
	return w.rng
}

// Radius is the current radius of the safe zone.
func (w *World) Radius() float64 {
	if w == nil {
		return 0
	}
	return w.radius
}

// Center is the middle of the arena.
func (w *World) Center() geometry.Vec {
	size := w.settings.World.Size
	return geometry.V(size/2, size/2)
}

// Winner returns the winning hero and its team once the match is decided.
func (w *World) Winner() (string, []string, bool) {
	if w == nil || w.winner == "" {
		return "", nil, false
	}
	return w.winner, append([]string(nil), w.winners...), true
}

func (w *World) Finished() bool {
	return w != nil && w.winner != ""
}

// Object looks up a live object.
func (w *World) Object(id string) (Object, bool) {
	if w == nil {
		return nil, false
	}
	obj, ok := w.objects[id]
	return obj, ok
}

// Objects lists live objects in creation order.
func (w *World) Objects() []Object {
	if w == nil {
		return nil
	}
	out := make([]Object, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, w.objects[id])
	}
	return out
}

// Hero looks up a live hero.
func (w *World) Hero(id string) (*Hero, bool) {
	if w == nil {
		return nil, false
	}
	hero, ok := w.objects[id].(*Hero)
	return hero, ok
}

// Heroes lists live heroes in creation order.
func (w *World) Heroes() []*Hero {
	if w == nil {
		return nil
	}
	var out []*Hero
	for _, id := range w.order {
		if hero, ok := w.objects[id].(*Hero); ok {
			out = append(out, hero)
		}
	}
	return out
}

func (w *World) Player(heroID string) (*Player, bool) {
	if w == nil {
		return nil, false
	}
	player, ok := w.players[heroID]
	return player, ok
}

// PlayerIDs lists every player's hero id in sorted order.
func (w *World) PlayerIDs() []string {
	if w == nil {
		return nil
	}
	return sortedKeys(w.players)
}

func (w *World) Score(heroID string) Score {
	if w == nil {
		return Score{}
	}
	if score, ok := w.scores[heroID]; ok {
		return *score
	}
	return Score{HeroID: heroID}
}

// Behaviours returns a copy of the scheduled behaviours.
func (w *World) Behaviours() []Behaviour {
	if w == nil {
		return nil
	}
	return append([]Behaviour(nil), w.behaviours...)
}

// BodyCount is the number of live physics bodies.
func (w *World) BodyCount() int {
	if w == nil {
		return 0
	}
	return len(w.physics.Bodies())
}

func (w *World) newObjectID(prefix string) string {
	w.nextObjectID++
	return fmt.Sprintf("%s%d", prefix, w.nextObjectID)
}

func (w *World) addObject(obj Object) {
	base := obj.base()
	base.createdTick = w.tick
	w.objects[base.id] = obj
	w.order = append(w.order, base.id)
}

// destroyObject removes obj and its body in the same step.
func (w *World) destroyObject(obj Object) {
	base := obj.base()
	if base.destroyedTick != 0 {
		return
	}
	base.destroyedTick = max(w.tick, 1)
	w.physics.DestroyBody(base.body)
	delete(w.objects, base.id)
	for i, id := range w.order {
		if id == base.id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
}

func (w *World) score(heroID string) *Score {
	score, ok := w.scores[heroID]
	if !ok {
		score = &Score{HeroID: heroID}
		w.scores[heroID] = score
	}
	return score
}

func (w *World) teamOf(heroID string) string {
	if team, ok := w.teamAssignments[heroID]; ok {
		return team
	}
	return heroID
}

func (w *World) ctx() context.Context {
	return context.Background()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
