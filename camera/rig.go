package camera

import (
	"math"

	"github.com/ojrac/opensimplex-go"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/galaxy/config"
)

// Shot is a framing mode of the rig.
type Shot uint8

const (
	ShotFollow Shot = iota // Behind the ship along its heading
	ShotSide               // Lateral offset
	ShotTop                // Overhead, fixed rotation
	ShotDynamic            // Orbiting with sinusoidal radius and height
	numShots
)

func (s Shot) String() string {
	switch s {
	case ShotFollow:
		return "follow"
	case ShotSide:
		return "side"
	case ShotTop:
		return "top"
	case ShotDynamic:
		return "dynamic"
	}
	return "unknown"
}

// View is the final transform handed to renderers.
type View struct {
	Position    r3.Vec // Eye, shake included
	Target      r3.Vec // Look-at point, shake included
	Zoom        float64
	Rotation    float64 // Screen rotation in radians
	ShakeOffset r3.Vec
	Shot        Shot
}

// RigState is the serializable part of a Rig.
type RigState struct {
	Position    r3.Vec  `json:"position"`
	Target      r3.Vec  `json:"target"`
	Zoom        float64 `json:"zoom"`
	Rotation    float64 `json:"rotation"`
	Shake       float64 `json:"shake"`
	ShakeOffset r3.Vec  `json:"shake_offset"`
	Shot        Shot    `json:"shot"`
	ShotTimer   int     `json:"shot_timer"`
	Cinematic   bool    `json:"cinematic"`
}

// Rig smoothly frames the ship. Every value eases toward its target each
// tick; nothing snaps, so shot changes stay continuous.
type Rig struct {
	RigState

	cfg   config.CameraConfig
	noise opensimplex.Noise
}

// Up is the rig's vertical axis.
var Up = r3.Vec{Z: 1}

// NewRig creates a rig framing the origin. noise drives shake jitter.
func NewRig(cfg config.CameraConfig, noise opensimplex.Noise) *Rig {
	r := &Rig{cfg: cfg, noise: noise}
	r.Cinematic = cfg.Cinematic
	r.Reset(r3.Vec{}, 0)
	return r
}

// Reset places the rig at its resting framing around focus without easing.
func (r *Rig) Reset(focus r3.Vec, heading float64) {
	r.Shot = ShotFollow
	if !r.Cinematic {
		r.Shot = ShotTop
	}
	r.ShotTimer = 0
	r.Shake = 0
	r.ShakeOffset = r3.Vec{}
	pos, target, zoom, rot := r.framing(focus, heading, 0)
	r.Position, r.Target, r.Zoom, r.Rotation = pos, target, zoom, rot
}

// SetCinematic switches between automatic shot rotation and plain follow.
func (r *Rig) SetCinematic(on bool) {
	if r.Cinematic == on {
		return
	}
	r.Cinematic = on
	r.ShotTimer = 0
	if !on {
		r.Shot = ShotTop
	}
}

// AddShake raises the shake magnitude. Impacts stack.
func (r *Rig) AddShake(magnitude float64) {
	if magnitude > 0 {
		r.Shake += magnitude
	}
}

// Update advances the rig one tick toward framing focus.
func (r *Rig) Update(focus r3.Vec, heading float64, tick int64) {
	if r.Cinematic {
		r.ShotTimer++
		if r.cfg.ShotInterval > 0 && r.ShotTimer >= r.cfg.ShotInterval {
			r.ShotTimer = 0
			r.Shot = (r.Shot + 1) % numShots
		}
	}

	pos, target, zoom, rot := r.framing(focus, heading, tick)
	k := r.cfg.Smoothing
	r.Position = r3.Add(r.Position, r3.Scale(k, r3.Sub(pos, r.Position)))
	r.Target = r3.Add(r.Target, r3.Scale(k, r3.Sub(target, r.Target)))
	r.Zoom += (zoom - r.Zoom) * k
	r.Rotation = normalizeAngle(r.Rotation + normalizeAngle(rot-r.Rotation)*k)

	r.updateShake(tick)
}

func (r *Rig) updateShake(tick int64) {
	if r.Shake == 0 {
		r.ShakeOffset = r3.Vec{}
		return
	}
	t := float64(tick) * 0.9
	r.ShakeOffset = r3.Vec{
		X: r.noise.Eval2(t, 0) * r.Shake,
		Y: r.noise.Eval2(t, 100) * r.Shake,
		Z: r.noise.Eval2(t, 200) * r.Shake * 0.5,
	}
	r.Shake *= r.cfg.ShakeDecay
	if r.Shake < 0.01 {
		r.Shake = 0
	}
}

// framing returns the target eye, look-at, zoom and rotation for the active shot.
// Outside cinematic mode the rig simply hangs over the ship.
func (r *Rig) framing(focus r3.Vec, heading float64, tick int64) (pos, target r3.Vec, zoom, rot float64) {
	c := r.cfg
	fwd := r3.Vec{X: math.Cos(heading), Y: math.Sin(heading)}
	side := r3.Vec{X: -fwd.Y, Y: fwd.X}
	target = focus
	zoom = c.Zoom

	shot := r.Shot
	if !r.Cinematic {
		shot = ShotTop
	}

	switch shot {
	case ShotFollow:
		pos = r3.Add(focus, r3.Add(r3.Scale(-c.FollowDistance, fwd), r3.Scale(c.FollowHeight, Up)))
		rot = heading
	case ShotSide:
		pos = r3.Add(focus, r3.Add(r3.Scale(c.SideDistance, side), r3.Scale(c.FollowHeight/2, Up)))
		rot = heading + math.Pi/2
		zoom = c.Zoom * 0.8
	case ShotTop:
		pos = r3.Add(focus, r3.Scale(c.TopHeight, Up))
		rot = 0
	case ShotDynamic:
		a := float64(tick) * c.OrbitSpeed
		radius := c.OrbitRadius * (1 + 0.25*math.Sin(2*a))
		height := c.FollowHeight * (1 + 0.5*math.Sin(3*a))
		pos = r3.Add(focus, r3.Vec{X: radius * math.Cos(a), Y: radius * math.Sin(a), Z: height})
		rot = a
		zoom = c.Zoom * (1 + 0.2*math.Sin(a))
	}
	zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
	return pos, target, zoom, rot
}

// View returns the current transform with shake applied.
func (r *Rig) View() View {
	return View{
		Position:    r3.Add(r.Position, r.ShakeOffset),
		Target:      r3.Add(r.Target, r.ShakeOffset),
		Zoom:        r.Zoom,
		Rotation:    r.Rotation,
		ShakeOffset: r.ShakeOffset,
		Shot:        r.Shot,
	}
}

// State returns a copy of the serializable rig state.
func (r *Rig) State() RigState { return r.RigState }

// Restore overwrites the rig state.
func (r *Rig) Restore(s RigState) { r.RigState = s }

// normalizeAngle wraps an angle to [-Pi, Pi].
func normalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// clamp restricts a value to a range. A zero max disables the upper bound.
func clamp(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if max > 0 && x > max {
		return max
	}
	return x
}
