package camera

import (
	"math"
	"testing"

	"github.com/ojrac/opensimplex-go"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/galaxy/config"
)

func newTestRig(cinematic bool) (*Rig, config.CameraConfig) {
	cfg := config.Default().Camera
	cfg.Cinematic = cinematic
	return NewRig(cfg, opensimplex.New(7)), cfg
}

func TestRigEasesWithoutSnapping(t *testing.T) {
	r, cfg := newTestRig(false)
	focus := r3.Vec{X: 1000, Y: -400}

	before := r3.Norm(r3.Sub(r.Target, focus))
	r.Update(focus, 0, 1)
	after := r3.Norm(r3.Sub(r.Target, focus))

	want := before * (1 - cfg.Smoothing)
	if math.Abs(after-want) > 1e-6 {
		t.Errorf("remaining distance %f, want %f", after, want)
	}
	if after == 0 {
		t.Error("rig snapped to target")
	}

	for tick := int64(2); tick < 400; tick++ {
		r.Update(focus, 0, tick)
	}
	if d := r3.Norm(r3.Sub(r.Target, focus)); d > 0.01 {
		t.Errorf("rig did not converge, distance %f", d)
	}
}

func TestRigNonCinematicStaysOverhead(t *testing.T) {
	r, _ := newTestRig(false)
	for tick := int64(1); tick < 2000; tick++ {
		r.Update(r3.Vec{}, 1.0, tick)
	}
	if r.Shot != ShotTop {
		t.Errorf("shot = %s, want top", r.Shot)
	}
	if math.Abs(r.Rotation) > 1e-6 {
		t.Errorf("rotation = %f, want 0", r.Rotation)
	}
}

func TestRigCinematicRotatesShots(t *testing.T) {
	r, cfg := newTestRig(true)
	if r.Shot != ShotFollow {
		t.Fatalf("initial shot = %s", r.Shot)
	}

	want := []Shot{ShotSide, ShotTop, ShotDynamic, ShotFollow}
	tick := int64(0)
	for _, w := range want {
		for i := 0; i < cfg.ShotInterval; i++ {
			tick++
			r.Update(r3.Vec{}, 0, tick)
		}
		if r.Shot != w {
			t.Errorf("after %d ticks shot = %s, want %s", tick, r.Shot, w)
		}
	}
}

func TestRigShotHoldsBetweenIntervals(t *testing.T) {
	r, cfg := newTestRig(true)
	for tick := int64(1); tick < int64(cfg.ShotInterval); tick++ {
		r.Update(r3.Vec{}, 0, tick)
		if r.Shot != ShotFollow {
			t.Fatalf("shot changed early at tick %d", tick)
		}
	}
}

func TestRigShakeDecaysGeometrically(t *testing.T) {
	r, cfg := newTestRig(false)
	r.AddShake(10)

	r.Update(r3.Vec{}, 0, 1)
	if math.Abs(r.Shake-10*cfg.ShakeDecay) > 1e-9 {
		t.Errorf("shake = %f, want %f", r.Shake, 10*cfg.ShakeDecay)
	}
	if r.ShakeOffset == (r3.Vec{}) {
		t.Error("no jitter applied while shaking")
	}

	for tick := int64(2); tick < 200; tick++ {
		r.Update(r3.Vec{}, 0, tick)
	}
	if r.Shake != 0 {
		t.Errorf("shake did not settle: %f", r.Shake)
	}
	if r.ShakeOffset != (r3.Vec{}) {
		t.Errorf("offset = %v after settle", r.ShakeOffset)
	}
}

func TestRigShakeDeterministic(t *testing.T) {
	a, _ := newTestRig(false)
	b, _ := newTestRig(false)
	a.AddShake(5)
	b.AddShake(5)
	for tick := int64(1); tick < 20; tick++ {
		a.Update(r3.Vec{X: 3}, 0, tick)
		b.Update(r3.Vec{X: 3}, 0, tick)
		if a.View() != b.View() {
			t.Fatalf("views diverged at tick %d", tick)
		}
	}
}

func TestRigViewIncludesShake(t *testing.T) {
	r, _ := newTestRig(false)
	r.AddShake(8)
	r.Update(r3.Vec{}, 0, 3)
	v := r.View()
	if v.Target != r3.Add(r.Target, r.ShakeOffset) {
		t.Errorf("view target %v does not include shake offset", v.Target)
	}
}

func TestRigSetCinematic(t *testing.T) {
	r, _ := newTestRig(true)
	r.Shot = ShotDynamic
	r.SetCinematic(false)
	if r.Shot != ShotTop || r.Cinematic {
		t.Errorf("after disabling: shot %s cinematic %v", r.Shot, r.Cinematic)
	}
}

func TestRigStateRoundTrip(t *testing.T) {
	r, _ := newTestRig(true)
	r.AddShake(3)
	for tick := int64(1); tick < 50; tick++ {
		r.Update(r3.Vec{X: float64(tick)}, 0.2, tick)
	}
	saved := r.State()

	other, _ := newTestRig(false)
	other.Restore(saved)
	for tick := int64(50); tick < 100; tick++ {
		r.Update(r3.Vec{X: float64(tick)}, 0.2, tick)
		other.Update(r3.Vec{X: float64(tick)}, 0.2, tick)
	}
	if r.View() != other.View() {
		t.Error("restored rig diverged")
	}
}
