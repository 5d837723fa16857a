// Package game owns one running instance of the simulation: the entity store,
// the systems that act on it, the progression state machine and the camera rig.
package game

import (
	"log/slog"
	"math/rand/v2"

	"github.com/ojrac/opensimplex-go"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/galaxy/camera"
	"github.com/pthm-cable/galaxy/components"
	"github.com/pthm-cable/galaxy/config"
	"github.com/pthm-cable/galaxy/systems"
	"github.com/pthm-cable/galaxy/telemetry"
)

// Options configures a new game.
type Options struct {
	Config    *config.Config // nil uses embedded defaults
	Seed      uint64
	Cinematic bool

	LogStats      bool                        // Emit window stats via slog
	OutputDir     string                      // CSV output directory (empty = disabled)
	StatsCallback func(telemetry.WindowStats) // Optional per-window hook
}

// Game holds the complete engine state.
type Game struct {
	cfg  *config.Config
	seed uint64

	pcg   *rand.PCG
	rng   *rand.Rand
	noise opensimplex.Noise

	store     *systems.Store
	layout    *systems.SlotLayout
	effects   *systems.EffectLifecycle
	motion    *systems.Motion
	spawner   *systems.SpawnDirector
	collision *systems.CollisionResolver
	rig       *camera.Rig

	prog Progression
	tick int64 // Running ticks elapsed

	// Thrust intent, consumed by the pipeline
	thrust r3.Vec

	bus      Bus
	snapshot *Snapshot

	// Telemetry
	collector     *telemetry.Collector
	perf          *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	logStats      bool
	statsCallback func(telemetry.WindowStats)
}

// New creates a game in the Idle state with level 1 laid out.
func New(opts Options) *Game {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}

	pcg := rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)
	rng := rand.New(pcg)
	noise := opensimplex.New(int64(opts.Seed))

	layout := systems.NewSlotLayout(cfg.Collectible)
	effects := systems.NewEffectLifecycle(cfg, rng)

	g := &Game{
		cfg:       cfg,
		seed:      opts.Seed,
		pcg:       pcg,
		rng:       rng,
		noise:     noise,
		layout:    layout,
		effects:   effects,
		motion:    systems.NewMotion(cfg, layout, noise),
		spawner:   systems.NewSpawnDirector(cfg, layout, effects, rng),
		collision: systems.NewCollisionResolver(cfg, effects),
		rig:       camera.NewRig(cfg.Camera, noise),
		prog:      newProgression(cfg.Progression),
		collector: telemetry.NewCollector(cfg.Derived.TicksPerWindow, float64(cfg.Screen.TargetFPS)),
		perf:      telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		logStats:  opts.LogStats,

		statsCallback: opts.StatsCallback,
	}
	g.rig.SetCinematic(opts.Cinematic || cfg.Camera.Cinematic)

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			slog.Error("failed to create output manager", "error", err)
		} else {
			g.outputManager = om
			if err := om.WriteConfig(cfg); err != nil {
				slog.Error("failed to write config", "error", err)
			}
		}
	}

	g.buildLevel(1)
	g.store.DrainJournal() // nobody can be subscribed yet
	g.refreshSnapshot()

	return g
}

// buildLevel replaces the store with a fresh level: new ship, full tank,
// reset spawn timers and the initial collectibles.
func (g *Game) buildLevel(level int) {
	pc := g.cfg.Player
	player := components.NewPlayer(r3.Vec{}, pc.Size, g.cfg.Fuel.Max, pc.TrailLength, pc.MaxOrnaments)
	g.store = systems.NewStore(player)
	g.spawner.Reset()
	g.prog.beginLevel(g.cfg.Progression, level)
	g.thrust = r3.Vec{}
	g.rig.Reset(player.Pos, player.Heading)

	n := g.spawner.PopulateLevel(g.store, level, g.tick)
	slog.Debug("level built", "level", level, "collectibles", n, "required", g.prog.Required)
}

// Subscribe registers fn to receive every event the game publishes.
func (g *Game) Subscribe(fn func(Event)) {
	g.bus.Subscribe(fn)
}

// Config returns the configuration the game was built with.
func (g *Game) Config() *config.Config { return g.cfg }

// Seed returns the RNG seed.
func (g *Game) Seed() uint64 { return g.seed }

// Tick returns the number of Running ticks simulated.
func (g *Game) Tick() int64 { return g.tick }

// State returns the current progression state.
func (g *Game) State() State { return g.prog.State }

// Progression returns a copy of the progression state.
func (g *Game) Progression() Progression { return g.prog }

// Player returns the ship. Callers must treat it as read-only.
func (g *Game) Player() *components.Player { return g.store.Player }

// Store exposes the entity store for inspection in tests and tools.
func (g *Game) Store() *systems.Store { return g.store }

// Perf returns the phase timing collector.
func (g *Game) Perf() *telemetry.PerfCollector { return g.perf }

// Unload flushes and closes output files.
func (g *Game) Unload() {
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output files", "error", err)
	}
}
