package systems

import (
	"math"

	"github.com/ojrac/opensimplex-go"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/galaxy/components"
	"github.com/pthm-cable/galaxy/config"
)

// Motion advances player, hazard, collectible and ornament kinematics.
type Motion struct {
	cfg    *config.Config
	layout *SlotLayout
	noise  opensimplex.Noise
}

// NewMotion creates the integrator. noise drives the collectible size pulse.
func NewMotion(cfg *config.Config, layout *SlotLayout, noise opensimplex.Noise) *Motion {
	return &Motion{cfg: cfg, layout: layout, noise: noise}
}

// Attraction returns the galactic center pull at pos. Zero inside the deadzone.
func (m *Motion) Attraction(pos r3.Vec) r3.Vec {
	mc := m.cfg.Motion
	if mc.AttractionK == 0 || mc.ReferenceDistance <= 0 {
		return r3.Vec{}
	}
	toCenter := r3.Scale(-1, pos)
	d := r3.Norm(toCenter)
	if d <= mc.Deadzone || d == 0 {
		return r3.Vec{}
	}
	// Magnitude k·d/ref along the unit vector toward the center
	return r3.Scale(mc.AttractionK/mc.ReferenceDistance, toCenter)
}

// IntegratePlayer advances the ship one tick under thrust intent.
// thrust is a direction scaled by intensity; magnitudes above 1 are clamped.
func (m *Motion) IntegratePlayer(p *components.Player, thrust r3.Vec) {
	pc := m.cfg.Player
	is3D := m.cfg.Derived.Is3D
	thrust = flatten(clampLength(thrust, 1), is3D)

	vel := r3.Add(p.Vel, m.Attraction(p.Pos))
	vel = r3.Add(vel, r3.Scale(pc.Acceleration, thrust))
	vel = r3.Scale(pc.Friction, vel)
	vel = flatten(clampLength(vel, pc.MaxSpeed), is3D)

	p.Vel = vel
	p.Pos = r3.Add(p.Pos, vel)
	m.confine(p)

	if p.Speed() > pc.HeadingEpsilon {
		p.Heading = math.Atan2(p.Vel.Y, p.Vel.X)
	}
	p.Trail.Push(p.Pos)
}

// confine keeps the ship inside the world, killing velocity into the wall.
func (m *Motion) confine(p *components.Player) {
	d := m.cfg.Derived
	if p.Pos.X < -d.HalfW || p.Pos.X > d.HalfW {
		p.Pos.X = clampFloat(p.Pos.X, -d.HalfW, d.HalfW)
		p.Vel.X = 0
	}
	if p.Pos.Y < -d.HalfH || p.Pos.Y > d.HalfH {
		p.Pos.Y = clampFloat(p.Pos.Y, -d.HalfH, d.HalfH)
		p.Vel.Y = 0
	}
	if p.Pos.Z < -d.HalfD || p.Pos.Z > d.HalfD {
		p.Pos.Z = clampFloat(p.Pos.Z, -d.HalfD, d.HalfD)
		p.Vel.Z = 0
	}
}

// IntegrateHazards moves hazards toward their targets and marks arrivals and
// strays dead. Returns the number expired this tick.
func (m *Motion) IntegrateHazards(s *Store) int {
	hc := m.cfg.Hazard
	d := m.cfg.Derived
	expired := 0

	s.EachHazard(func(pos *components.Position, vel *components.Velocity, _ *components.Body, h *components.Hazard) {
		if h.Dead {
			return
		}
		to := r3.Sub(h.Target, pos.Vec)
		dist := r3.Norm(to)
		if dist > 0 {
			step := math.Min(h.Speed, dist)
			vel.Vec = r3.Scale(h.Speed/dist, to)
			pos.Vec = r3.Add(pos.Vec, r3.Scale(step/dist, to))
			dist -= step
		}

		out := math.Abs(pos.X) > d.HalfW+hc.BoundsMargin ||
			math.Abs(pos.Y) > d.HalfH+hc.BoundsMargin ||
			math.Abs(pos.Z) > d.HalfD+hc.BoundsMargin
		if dist <= hc.ArrivalEpsilon || out {
			h.Dead = true
			expired++
			s.Destroy(components.KindHazard, h.ID, ReasonExpired)
		}
	})
	return expired
}

// UpdateCollectibles moves collectibles along their orbit and pulses their visual size.
func (m *Motion) UpdateCollectibles(s *Store, tick int64) {
	cc := m.cfg.Collectible
	s.EachCollectible(func(pos *components.Position, body *components.Body, c *components.Collectible) {
		if c.Dead {
			return
		}
		pos.Vec = m.layout.Position(c.Slot, tick)
		n := m.noise.Eval2(float64(tick)*cc.PulseFrequency, float64(c.Slot))
		body.Size = body.BaseSize * (1 + cc.PulseAmplitude*n)
	})
}

// FollowOrnaments eases each ornament toward its slot in the spiral behind the ship.
func (m *Motion) FollowOrnaments(p *components.Player, tick int64) {
	oc := m.cfg.Ornament
	for i := range p.Ornaments {
		o := &p.Ornaments[i]
		target := OrnamentTarget(oc, p.Pos, p.Heading, i, tick)
		delta := r3.Sub(target, o.Pos)
		if r3.Norm(delta) < oc.SnapEpsilon {
			o.Pos = target
			continue
		}
		o.Pos = r3.Add(o.Pos, r3.Scale(oc.Ease, delta))
	}
}

// OrnamentTarget returns where ornament index i wants to be.
func OrnamentTarget(oc config.OrnamentConfig, center r3.Vec, heading float64, i int, tick int64) r3.Vec {
	angle := heading + float64(i)*oc.PhaseStep + float64(tick)*oc.RotationSpeed
	radius := oc.BaseRadius + float64(i)*oc.Spacing
	return r3.Add(center, r3.Vec{X: radius * math.Cos(angle), Y: radius * math.Sin(angle)})
}
