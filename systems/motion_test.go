package systems

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/galaxy/components"
	"github.com/pthm-cable/galaxy/config"
)

// ---------- Player integration ----------

func TestIntegratePlayer_SpeedNeverExceedsMax(t *testing.T) {
	r := newRig(t, nil)
	p := r.store.Player
	thrusts := []r3.Vec{{X: 1}, {X: 5, Y: 5}, {Y: -1}, {X: -3}, {}}

	for tick := 0; tick < 500; tick++ {
		r.motion.IntegratePlayer(p, thrusts[tick%len(thrusts)])
		if s := p.Speed(); s > r.cfg.Player.MaxSpeed+1e-9 {
			t.Fatalf("tick %d: speed %f exceeds max %f", tick, s, r.cfg.Player.MaxSpeed)
		}
	}
}

func TestIntegratePlayer_NoDriftAtCenter(t *testing.T) {
	r := newRig(t, nil)
	p := r.store.Player

	for i := 0; i < 100; i++ {
		r.motion.IntegratePlayer(p, r3.Vec{})
	}
	if p.Pos != (r3.Vec{}) {
		t.Errorf("player drifted to %v", p.Pos)
	}
	if p.Vel != (r3.Vec{}) {
		t.Errorf("velocity = %v, want zero", p.Vel)
	}
}

func TestIntegratePlayer_FrictionDecays(t *testing.T) {
	r := newRig(t, func(c *config.Config) { c.Motion.AttractionK = 0 })
	p := r.store.Player
	p.Vel = r3.Vec{X: 4}

	r.motion.IntegratePlayer(p, r3.Vec{})
	want := 4 * r.cfg.Player.Friction
	if math.Abs(p.Vel.X-want) > 1e-9 {
		t.Errorf("Vel.X = %f, want %f", p.Vel.X, want)
	}
	if math.Abs(p.Pos.X-want) > 1e-9 {
		t.Errorf("Pos.X = %f, want %f", p.Pos.X, want)
	}
}

func TestIntegratePlayer_AttractionBeyondDeadzone(t *testing.T) {
	r := newRig(t, nil)
	mc := r.cfg.Motion

	inside := r.motion.Attraction(r3.Vec{X: mc.Deadzone - 1})
	if inside != (r3.Vec{}) {
		t.Errorf("attraction inside deadzone = %v, want zero", inside)
	}

	d := mc.Deadzone * 2
	pull := r.motion.Attraction(r3.Vec{X: d})
	wantMag := mc.AttractionK * d / mc.ReferenceDistance
	if math.Abs(r3.Norm(pull)-wantMag) > 1e-9 {
		t.Errorf("|pull| = %f, want %f", r3.Norm(pull), wantMag)
	}
	if pull.X >= 0 {
		t.Errorf("pull %v does not point to the center", pull)
	}
}

func TestIntegratePlayer_HeadingEpsilon(t *testing.T) {
	r := newRig(t, nil)
	p := r.store.Player
	p.Heading = 1.0
	p.Vel = r3.Vec{X: r.cfg.Player.HeadingEpsilon / 4}

	r.motion.IntegratePlayer(p, r3.Vec{})
	if p.Heading != 1.0 {
		t.Errorf("heading changed at near-zero speed: %f", p.Heading)
	}

	r.motion.IntegratePlayer(p, r3.Vec{Y: 1})
	if math.Abs(p.Heading-math.Pi/2) > 0.2 {
		t.Errorf("heading = %f, want about pi/2", p.Heading)
	}
}

func TestIntegratePlayer_TrailBounded(t *testing.T) {
	r := newRig(t, nil)
	p := r.store.Player
	for i := 0; i < r.cfg.Player.TrailLength*3; i++ {
		r.motion.IntegratePlayer(p, r3.Vec{X: 1})
	}
	if p.Trail.Len() != r.cfg.Player.TrailLength {
		t.Errorf("trail length = %d, want %d", p.Trail.Len(), r.cfg.Player.TrailLength)
	}
	last := p.Trail.At(p.Trail.Len() - 1)
	if last != p.Pos {
		t.Errorf("newest trail point %v != position %v", last, p.Pos)
	}
}

func TestIntegratePlayer_FlatWorldIgnoresDepth(t *testing.T) {
	r := newRig(t, nil)
	p := r.store.Player
	r.motion.IntegratePlayer(p, r3.Vec{Z: 1})
	if p.Pos.Z != 0 || p.Vel.Z != 0 {
		t.Errorf("flat world moved in depth: pos %v vel %v", p.Pos, p.Vel)
	}
}

func TestIntegratePlayer_ConfinedToWorld(t *testing.T) {
	r := newRig(t, nil)
	p := r.store.Player
	p.Pos = r3.Vec{X: r.cfg.Derived.HalfW - 1}
	for i := 0; i < 50; i++ {
		r.motion.IntegratePlayer(p, r3.Vec{X: 1})
	}
	if p.Pos.X > r.cfg.Derived.HalfW {
		t.Errorf("player left world: x=%f", p.Pos.X)
	}
}

// ---------- Hazards ----------

func TestIntegrateHazards_SeekAndArrive(t *testing.T) {
	r := newRig(t, nil)
	id := r.store.AddHazard(r3.Vec{X: 20}, r3.Vec{}, 2, 10)

	expired := 0
	for i := 0; i < 20 && expired == 0; i++ {
		expired = r.motion.IntegrateHazards(r.store)
	}
	if expired != 1 {
		t.Fatalf("hazard did not expire on arrival")
	}
	_, destroyed := r.store.DrainJournal()
	found := false
	for _, d := range destroyed {
		if d.ID == id && d.Reason == ReasonExpired {
			found = true
		}
	}
	if !found {
		t.Errorf("no expired journal entry for hazard %d", id)
	}
}

func TestIntegrateHazards_ConstantSpeed(t *testing.T) {
	r := newRig(t, nil)
	r.store.AddHazard(r3.Vec{X: 500}, r3.Vec{}, 3, 10)
	r.motion.IntegrateHazards(r.store)

	r.store.EachHazard(func(pos *components.Position, vel *components.Velocity, _ *components.Body, h *components.Hazard) {
		if math.Abs(pos.X-497) > 1e-9 {
			t.Errorf("pos.X = %f, want 497", pos.X)
		}
		if math.Abs(r3.Norm(vel.Vec)-3) > 1e-9 {
			t.Errorf("speed = %f, want 3", r3.Norm(vel.Vec))
		}
		if h.Dead {
			t.Error("hazard died early")
		}
	})
}

func TestIntegrateHazards_OutOfBounds(t *testing.T) {
	r := newRig(t, nil)
	far := r.cfg.Derived.HalfW + r.cfg.Hazard.BoundsMargin + 100
	// Target outside the world so the hazard flies out
	r.store.AddHazard(r3.Vec{X: far - 50}, r3.Vec{X: far * 2}, 5, 10)

	expired := 0
	for i := 0; i < 30; i++ {
		expired += r.motion.IntegrateHazards(r.store)
	}
	if expired != 1 {
		t.Errorf("expired = %d, want 1", expired)
	}
}

// ---------- Collectibles and ornaments ----------

func TestUpdateCollectibles_OrbitAndPulse(t *testing.T) {
	r := newRig(t, nil)
	r.store.AddCollectible(r.layout.Position(0, 0), 24, 0, 2)

	r.motion.UpdateCollectibles(r.store, 100)
	r.store.EachCollectible(func(pos *components.Position, body *components.Body, _ *components.Collectible) {
		want := r.layout.Position(0, 100)
		if r3.Norm(r3.Sub(pos.Vec, want)) > 1e-9 {
			t.Errorf("pos = %v, want %v", pos.Vec, want)
		}
		amp := r.cfg.Collectible.PulseAmplitude
		if body.Size < body.BaseSize*(1-amp)-1e-9 || body.Size > body.BaseSize*(1+amp)+1e-9 {
			t.Errorf("size %f outside pulse range", body.Size)
		}
		if body.BaseSize != 24 {
			t.Errorf("BaseSize changed to %f", body.BaseSize)
		}
	})
}

func TestFollowOrnaments_EasesThenSnaps(t *testing.T) {
	r := newRig(t, func(c *config.Config) { c.Ornament.RotationSpeed = 0 })
	p := r.store.Player
	start := r3.Vec{X: 300, Y: 300}
	p.AddOrnament(components.Ornament{ID: 1, Pos: start})

	target := OrnamentTarget(r.cfg.Ornament, p.Pos, p.Heading, 0, 0)
	r.motion.FollowOrnaments(p, 0)
	before := r3.Norm(r3.Sub(target, start))
	after := r3.Norm(r3.Sub(target, p.Ornaments[0].Pos))
	wantAfter := before * (1 - r.cfg.Ornament.Ease)
	if math.Abs(after-wantAfter) > 1e-6 {
		t.Errorf("remaining distance %f, want %f", after, wantAfter)
	}

	for i := 0; i < 500; i++ {
		r.motion.FollowOrnaments(p, 0)
	}
	if p.Ornaments[0].Pos != target {
		t.Errorf("ornament did not snap: %v vs %v", p.Ornaments[0].Pos, target)
	}
}

func TestOrnamentTarget_SpiralRadius(t *testing.T) {
	oc := config.Default().Ornament
	for i := 0; i < 4; i++ {
		p := OrnamentTarget(oc, r3.Vec{}, 0, i, 0)
		want := oc.BaseRadius + float64(i)*oc.Spacing
		if math.Abs(r3.Norm(p)-want) > 1e-9 {
			t.Errorf("index %d radius %f, want %f", i, r3.Norm(p), want)
		}
	}
}

// ---------- Slot layout ----------

func TestSlotLayout_RadiiFollowConfig(t *testing.T) {
	r := newRig(t, func(c *config.Config) {
		c.Collectible.Rings = 4
		c.Collectible.FirstRingRadius = 100
		c.Collectible.RingSpacing = 50
	})
	got := r.layout.Radii()
	want := []float64{100, 150, 200, 250}
	if len(got) != len(want) {
		t.Fatalf("radii = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ring %d radius = %v, want %v", i, got[i], want[i])
		}
	}
	got[0] = -1
	if r.layout.Radii()[0] != 100 {
		t.Error("Radii exposed internal storage")
	}
	if r.layout.Len() != 4*r.cfg.Collectible.SlotsPerRing {
		t.Errorf("slots = %d", r.layout.Len())
	}
}
