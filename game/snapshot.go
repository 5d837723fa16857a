package game

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/galaxy/camera"
	"github.com/pthm-cable/galaxy/components"
)

// Snapshot is a read-only copy of everything a renderer needs for one frame.
// It shares no memory with the engine.
type Snapshot struct {
	Tick  int64
	State State
	Is3D  bool

	Level        int
	Score        int
	Coins        int
	Collected    int
	Required     int
	BombCooldown int
	SafeTime     int
	Cause        string

	Player       PlayerView
	Collectibles []CollectibleView
	Hazards      []HazardView
	Effects      []EffectView
	Particles    []ParticleView

	Camera    camera.View
	Cinematic bool
}

// PlayerView is the ship as drawn.
type PlayerView struct {
	Pos       r3.Vec
	Vel       r3.Vec
	Heading   float64
	Size      float64
	Fuel      float64
	Trail     []r3.Vec // Oldest first
	Ornaments []components.Ornament
}

// CollectibleView is a collectible body as drawn.
type CollectibleView struct {
	ID           uint32
	Pos          r3.Vec
	Size         float64 // Pulsed visual size
	Hits         int
	RequiredHits int
}

// HazardView is a hazard as drawn.
type HazardView struct {
	ID     uint32
	Pos    r3.Vec
	Size   float64
	Target r3.Vec
}

// EffectView is a transient effect as drawn.
type EffectView struct {
	ID    uint32
	Kind  components.EffectKind
	Pos   r3.Vec
	Scale float64
	Life  float64
}

// ParticleView is a particle as drawn.
type ParticleView struct {
	Kind components.EffectKind
	Pos  r3.Vec
	Size float64
	Life float64
}

// Snapshot returns the snapshot built at the end of the last tick or command.
func (g *Game) Snapshot() *Snapshot {
	return g.snapshot
}

// refreshSnapshot rebuilds the snapshot from live state. Entities marked dead
// but not yet compacted are left out.
func (g *Game) refreshSnapshot() {
	s := g.store
	p := s.Player

	snap := &Snapshot{
		Tick:         g.tick,
		State:        g.prog.State,
		Is3D:         g.cfg.Derived.Is3D,
		Level:        g.prog.Level,
		Score:        g.prog.Score,
		Coins:        g.prog.Coins,
		Collected:    g.prog.Collected,
		Required:     g.prog.Required,
		BombCooldown: g.prog.BombCooldown,
		SafeTime:     g.prog.SafeTime,
		Cause:        g.prog.Cause,
		Player: PlayerView{
			Pos:       p.Pos,
			Vel:       p.Vel,
			Heading:   p.Heading,
			Size:      p.Size,
			Fuel:      p.Fuel,
			Trail:     p.Trail.Points(),
			Ornaments: append(make([]components.Ornament, 0, len(p.Ornaments)), p.Ornaments...),
		},
		Collectibles: make([]CollectibleView, 0, s.Count(components.KindCollectible)),
		Hazards:      make([]HazardView, 0, s.Count(components.KindHazard)),
		Effects:      make([]EffectView, 0, s.Count(components.KindEffect)),
		Particles:    make([]ParticleView, 0, s.Count(components.KindParticle)),
		Camera:       g.rig.View(),
		Cinematic:    g.rig.Cinematic,
	}

	s.EachCollectible(func(pos *components.Position, body *components.Body, c *components.Collectible) {
		if c.Dead {
			return
		}
		snap.Collectibles = append(snap.Collectibles, CollectibleView{
			ID: c.ID, Pos: pos.Vec, Size: body.Size, Hits: c.Hits, RequiredHits: c.RequiredHits,
		})
	})
	s.EachHazard(func(pos *components.Position, _ *components.Velocity, body *components.Body, h *components.Hazard) {
		if h.Dead {
			return
		}
		snap.Hazards = append(snap.Hazards, HazardView{ID: h.ID, Pos: pos.Vec, Size: body.Size, Target: h.Target})
	})
	s.EachEffect(func(pos *components.Position, e *components.Effect) {
		if e.Dead {
			return
		}
		snap.Effects = append(snap.Effects, EffectView{ID: e.ID, Kind: e.Kind, Pos: pos.Vec, Scale: e.Scale, Life: e.Life})
	})
	s.EachParticle(func(pos *components.Position, _ *components.Velocity, pt *components.Particle) {
		if pt.Dead {
			return
		}
		snap.Particles = append(snap.Particles, ParticleView{Kind: pt.Kind, Pos: pos.Vec, Size: pt.Size, Life: pt.Life})
	})

	g.snapshot = snap
}
