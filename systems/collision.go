package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/galaxy/components"
	"github.com/pthm-cable/galaxy/config"
)

// Sound cue names emitted to the audio collaborator.
const (
	CueHit           = "hit"
	CueCollect       = "collect"
	CueExplosion     = "explosion"
	CueBomb          = "bomb"
	CueLevelComplete = "level_complete"
	CueGameOver      = "game_over"
)

// CollisionOutcome summarises one resolver pass.
type CollisionOutcome struct {
	Hits       int // Collectible hits that did not complete a collection
	Collected  int
	HazardHits int
	Shielded   int // Hazard contacts absorbed by safe time
	ScoreDelta int
	FuelDelta  float64
	Shake      float64
	Fatal      bool // Unshielded hazard contact under the fatal variant
	Cues       []string
}

// CollisionResolver applies player interactions with collectibles and hazards.
type CollisionResolver struct {
	cfg     *config.Config
	effects *EffectLifecycle

	pending []pendingEffect
}

type pendingEffect struct {
	kind  components.EffectKind
	pos   r3.Vec
	scale float64
	burst bool
}

// NewCollisionResolver creates a resolver that emits through effects.
func NewCollisionResolver(cfg *config.Config, effects *EffectLifecycle) *CollisionResolver {
	return &CollisionResolver{cfg: cfg, effects: effects}
}

// Resolve tests the player against every live collectible, then every live
// hazard. safe suppresses hazard damage while still counting contacts.
func (r *CollisionResolver) Resolve(s *Store, tick int64, safe bool) CollisionOutcome {
	var out CollisionOutcome
	p := s.Player
	if p == nil {
		return out
	}
	r.pending = r.pending[:0]
	fuelBefore := p.Fuel

	r.resolveCollectibles(s, tick, &out)
	r.resolveHazards(s, safe, &out)

	// Effects are created after iteration; the world is locked during queries.
	for _, pe := range r.pending {
		r.effects.Emit(s, pe.kind, pe.pos, pe.scale)
		if pe.burst {
			r.effects.Burst(s, pe.kind, pe.pos, r.cfg.Effects.BurstCount)
		}
	}

	out.FuelDelta = p.Fuel - fuelBefore
	return out
}

func (r *CollisionResolver) resolveCollectibles(s *Store, tick int64, out *CollisionOutcome) {
	p := s.Player
	var absorbed []components.Ornament

	s.EachCollectible(func(pos *components.Position, body *components.Body, c *components.Collectible) {
		if c.Collected || c.Dead {
			return
		}
		if c.LastHitTick == tick || !Overlaps(p.Pos, p.Size, pos.Vec, body.BaseSize) {
			return
		}

		c.LastHitTick = tick
		if c.Hits < c.RequiredHits {
			c.Hits++
		}
		out.ScoreDelta += r.cfg.Scoring.HitPoints

		if c.Hits < c.RequiredHits {
			out.Hits++
			out.Cues = append(out.Cues, CueHit)
			r.pending = append(r.pending, pendingEffect{kind: components.EffectHit, pos: pos.Vec, scale: body.BaseSize})
			return
		}

		c.Collected = true
		c.Dead = true
		s.Destroy(components.KindCollectible, c.ID, ReasonCollected)
		absorbed = append(absorbed, components.Ornament{ID: c.ID, Pos: pos.Vec, Size: body.BaseSize})
		out.Collected++
		out.ScoreDelta += r.cfg.Scoring.CollectPoints
		out.Cues = append(out.Cues, CueCollect)
		r.pending = append(r.pending, pendingEffect{kind: components.EffectCollect, pos: pos.Vec, scale: body.BaseSize, burst: true})
	})

	for _, o := range absorbed {
		p.AddOrnament(o)
		p.Fuel = math.Min(r.cfg.Fuel.Max, p.Fuel+r.cfg.Fuel.RefillPerCollect)
	}
}

func (r *CollisionResolver) resolveHazards(s *Store, safe bool, out *CollisionOutcome) {
	p := s.Player
	fc := r.cfg.Fuel

	s.EachHazard(func(pos *components.Position, _ *components.Velocity, body *components.Body, h *components.Hazard) {
		if h.Dead || !Overlaps(p.Pos, p.Size, pos.Vec, body.BaseSize) {
			return
		}
		if safe {
			out.Shielded++
			return
		}

		h.Dead = true
		s.Destroy(components.KindHazard, h.ID, ReasonCollision)
		out.HazardHits++
		out.Cues = append(out.Cues, CueExplosion)
		r.pending = append(r.pending, pendingEffect{kind: components.EffectExplosion, pos: pos.Vec, scale: body.BaseSize * 2, burst: true})

		lost := math.Min(p.Fuel, fc.CollisionPenalty)
		p.Fuel -= lost
		out.Shake += fc.CollisionPenalty * r.cfg.Camera.ShakePerDamage
		if r.cfg.Collision.Fatal {
			out.Fatal = true
		}
	})
}

// DestroyAllHazards marks every live hazard dead with an explosion each.
// Returns the number destroyed.
func (r *CollisionResolver) DestroyAllHazards(s *Store) int {
	var at []pendingEffect
	s.EachHazard(func(pos *components.Position, _ *components.Velocity, body *components.Body, h *components.Hazard) {
		if h.Dead {
			return
		}
		h.Dead = true
		s.Destroy(components.KindHazard, h.ID, ReasonBomb)
		at = append(at, pendingEffect{kind: components.EffectExplosion, pos: pos.Vec, scale: body.BaseSize * 2})
	})
	for _, pe := range at {
		r.effects.Emit(s, pe.kind, pe.pos, pe.scale)
		r.effects.Burst(s, pe.kind, pe.pos, r.cfg.Effects.BurstCount/2)
	}
	return len(at)
}
