package systems

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/galaxy/components"
	"github.com/pthm-cable/galaxy/config"
)

// EffectLifecycle emits and ages effects and particles.
type EffectLifecycle struct {
	cfg  config.EffectsConfig
	is3D bool
	rng  *rand.Rand
}

// NewEffectLifecycle creates the effect manager. rng drives burst directions.
func NewEffectLifecycle(cfg *config.Config, rng *rand.Rand) *EffectLifecycle {
	return &EffectLifecycle{cfg: cfg.Effects, is3D: cfg.Derived.Is3D, rng: rng}
}

// Decay returns the per-tick life loss for an effect kind.
func (m *EffectLifecycle) Decay(kind components.EffectKind) float64 {
	switch kind {
	case components.EffectHit:
		return m.cfg.HitDecay
	case components.EffectCollect:
		return m.cfg.CollectDecay
	case components.EffectExplosion:
		return m.cfg.ExplosionDecay
	case components.EffectBomb:
		return m.cfg.BombDecay
	case components.EffectSpawn:
		return m.cfg.SpawnDecay
	}
	return m.cfg.HitDecay
}

// Emit creates an effect of kind at pos. Returns false when the effect cap is reached.
func (m *EffectLifecycle) Emit(s *Store, kind components.EffectKind, pos r3.Vec, scale float64) bool {
	if m.cfg.MaxEffects > 0 && s.Count(components.KindEffect) >= m.cfg.MaxEffects {
		return false
	}
	s.AddEffect(kind, pos, m.Decay(kind), scale)
	return true
}

// Burst scatters up to n particles from pos. Returns the number created.
func (m *EffectLifecycle) Burst(s *Store, kind components.EffectKind, pos r3.Vec, n int) int {
	created := 0
	for i := 0; i < n; i++ {
		if m.cfg.MaxParticles > 0 && s.Count(components.KindParticle) >= m.cfg.MaxParticles {
			break
		}
		speed := m.cfg.ParticleSpeed * (0.5 + 0.5*m.rng.Float64())
		vel := r3.Scale(speed, m.randomDirection())
		s.AddParticle(pos, vel, components.Particle{
			Kind:     kind,
			Life:     1,
			Decay:    m.cfg.ParticleDecay,
			Friction: m.cfg.ParticleFriction,
			BaseSize: m.cfg.ParticleSize,
			Size:     m.cfg.ParticleSize,
		})
		created++
	}
	return created
}

func (m *EffectLifecycle) randomDirection() r3.Vec {
	theta := m.rng.Float64() * 2 * math.Pi
	if !m.is3D {
		return r3.Vec{X: math.Cos(theta), Y: math.Sin(theta)}
	}
	// Uniform on the sphere
	z := 2*m.rng.Float64() - 1
	r := math.Sqrt(1 - z*z)
	return r3.Vec{X: r * math.Cos(theta), Y: r * math.Sin(theta), Z: z}
}

// Update ages every effect and particle by one tick and marks expired ones dead.
// Returns the number of effects (not particles) that expired.
func (m *EffectLifecycle) Update(s *Store) int {
	expired := 0
	s.EachEffect(func(_ *components.Position, e *components.Effect) {
		if e.Dead {
			return
		}
		e.Life -= e.Decay
		if e.Life <= 0 {
			e.Life = 0
			e.Dead = true
			expired++
			s.Destroy(components.KindEffect, e.ID, ReasonDecayed)
		}
		e.Scale = e.BaseScale * e.Life
	})

	s.EachParticle(func(pos *components.Position, vel *components.Velocity, p *components.Particle) {
		if p.Dead {
			return
		}
		vel.Vec = r3.Scale(p.Friction, vel.Vec)
		pos.Vec = r3.Add(pos.Vec, vel.Vec)
		p.Life -= p.Decay
		if p.Life <= 0 {
			p.Life = 0
			p.Dead = true
		}
		p.Size = p.BaseSize * p.Life
	})
	return expired
}
