package game

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/galaxy/camera"
	"github.com/pthm-cable/galaxy/components"
	"github.com/pthm-cable/galaxy/systems"
	"github.com/pthm-cable/galaxy/telemetry"
)

// SaveVersion is the current save file format version.
const SaveVersion = 1

// SaveState is the complete engine state. Restoring it into a game built with
// the same config reproduces the exact same future ticks.
type SaveState struct {
	Version int    `json:"version"`
	Seed    uint64 `json:"seed"`
	Tick    int64  `json:"tick"`
	RNG     []byte `json:"rng"` // PCG state

	Progression Progression     `json:"progression"`
	Player      PlayerState     `json:"player"`
	Camera      camera.RigState `json:"camera"`

	NextID           uint32 `json:"next_id"`
	HazardTimer      int    `json:"hazard_timer"`
	CollectibleTimer int    `json:"collectible_timer"`

	Thrust r3.Vec `json:"thrust"`

	// Entities in storage order
	Collectibles []CollectibleState `json:"collectibles"`
	Hazards      []HazardState      `json:"hazards"`
	Effects      []EffectState      `json:"effects"`
	Particles    []ParticleState    `json:"particles"`
}

// PlayerState is the serialized ship.
type PlayerState struct {
	Pos       r3.Vec                `json:"pos"`
	Vel       r3.Vec                `json:"vel"`
	Heading   float64               `json:"heading"`
	Size      float64               `json:"size"`
	Fuel      float64               `json:"fuel"`
	Trail     []r3.Vec              `json:"trail"`
	Ornaments []components.Ornament `json:"ornaments"`
}

type CollectibleState struct {
	Pos         r3.Vec                 `json:"pos"`
	Body        components.Body        `json:"body"`
	Collectible components.Collectible `json:"collectible"`
}

type HazardState struct {
	Pos    r3.Vec            `json:"pos"`
	Vel    r3.Vec            `json:"vel"`
	Body   components.Body   `json:"body"`
	Hazard components.Hazard `json:"hazard"`
}

type EffectState struct {
	Pos    r3.Vec            `json:"pos"`
	Effect components.Effect `json:"effect"`
}

type ParticleState struct {
	Pos      r3.Vec              `json:"pos"`
	Vel      r3.Vec              `json:"vel"`
	Particle components.Particle `json:"particle"`
}

// Save captures the engine state. Call it between ticks.
func (g *Game) Save() (*SaveState, error) {
	rngState, err := g.pcg.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("marshal rng: %w", err)
	}

	p := g.store.Player
	st := &SaveState{
		Version:     SaveVersion,
		Seed:        g.seed,
		Tick:        g.tick,
		RNG:         rngState,
		Progression: g.prog,
		Player: PlayerState{
			Pos:       p.Pos,
			Vel:       p.Vel,
			Heading:   p.Heading,
			Size:      p.Size,
			Fuel:      p.Fuel,
			Trail:     p.Trail.Points(),
			Ornaments: append([]components.Ornament(nil), p.Ornaments...),
		},
		Camera:           g.rig.State(),
		NextID:           g.store.NextID(),
		HazardTimer:      g.spawner.HazardTimer,
		CollectibleTimer: g.spawner.CollectibleTimer,
		Thrust:           g.thrust,
	}

	g.store.EachCollectible(func(pos *components.Position, body *components.Body, c *components.Collectible) {
		st.Collectibles = append(st.Collectibles, CollectibleState{Pos: pos.Vec, Body: *body, Collectible: *c})
	})
	g.store.EachHazard(func(pos *components.Position, vel *components.Velocity, body *components.Body, h *components.Hazard) {
		st.Hazards = append(st.Hazards, HazardState{Pos: pos.Vec, Vel: vel.Vec, Body: *body, Hazard: *h})
	})
	g.store.EachEffect(func(pos *components.Position, e *components.Effect) {
		st.Effects = append(st.Effects, EffectState{Pos: pos.Vec, Effect: *e})
	})
	g.store.EachParticle(func(pos *components.Position, vel *components.Velocity, pt *components.Particle) {
		st.Particles = append(st.Particles, ParticleState{Pos: pos.Vec, Vel: vel.Vec, Particle: *pt})
	})

	return st, nil
}

// Restore replaces the engine state with st. The game must have been built
// with the same config and seed; subscribers are kept.
func (g *Game) Restore(st *SaveState) error {
	if st.Version != SaveVersion {
		return fmt.Errorf("unsupported save version %d (want %d)", st.Version, SaveVersion)
	}
	if st.Seed != g.seed {
		return fmt.Errorf("save seed %d does not match game seed %d", st.Seed, g.seed)
	}
	if err := g.pcg.UnmarshalBinary(st.RNG); err != nil {
		return fmt.Errorf("unmarshal rng: %w", err)
	}

	pc := g.cfg.Player
	player := components.NewPlayer(st.Player.Pos, st.Player.Size, st.Player.Fuel, pc.TrailLength, pc.MaxOrnaments)
	player.Vel = st.Player.Vel
	player.Heading = st.Player.Heading
	for _, pt := range st.Player.Trail {
		player.Trail.Push(pt)
	}
	player.Ornaments = append(player.Ornaments, st.Player.Ornaments...)

	store := newRestoredStore(player, st)
	g.store = store
	g.tick = st.Tick
	g.prog = st.Progression
	g.rig.Restore(st.Camera)
	g.spawner.HazardTimer = st.HazardTimer
	g.spawner.CollectibleTimer = st.CollectibleTimer
	g.thrust = st.Thrust

	g.refreshSnapshot()
	return nil
}

// newRestoredStore re-creates entities in their saved storage order so
// iteration order, and with it every later tick, matches the original.
func newRestoredStore(player *components.Player, st *SaveState) *systems.Store {
	s := systems.NewStore(player)
	for _, c := range st.Collectibles {
		s.RestoreCollectible(c.Pos, c.Body, c.Collectible)
	}
	for _, h := range st.Hazards {
		s.RestoreHazard(h.Pos, h.Vel, h.Body, h.Hazard)
	}
	for _, e := range st.Effects {
		s.RestoreEffect(e.Pos, e.Effect)
	}
	for _, pt := range st.Particles {
		s.AddParticle(pt.Pos, pt.Vel, pt.Particle)
	}
	s.SetNextID(st.NextID)
	return s
}

// SaveToFile writes the engine state as JSON to path.
func (g *Game) SaveToFile(path string) error {
	st, err := g.Save()
	if err != nil {
		return err
	}
	return telemetry.WriteJSON(path, st)
}

// LoadFromFile builds a game from a save file. opts.Seed is replaced by the
// seed stored in the file.
func LoadFromFile(path string, opts Options) (*Game, error) {
	var st SaveState
	if err := telemetry.LoadSnapshot(path, &st); err != nil {
		return nil, err
	}
	opts.Seed = st.Seed
	g := New(opts)
	if err := g.Restore(&st); err != nil {
		g.Unload()
		return nil, fmt.Errorf("restore %s: %w", path, err)
	}
	return g, nil
}
