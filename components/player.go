package components

import "gonum.org/v1/gonum/spatial/r3"

// Player is the ship. It lives outside the ECS world since there is exactly one.
type Player struct {
	Pos       r3.Vec
	Vel       r3.Vec
	Heading   float64 // Yaw in radians
	Size      float64
	Fuel      float64
	Trail     Trail
	Ornaments []Ornament

	MaxOrnaments int
}

// Ornament is a collected body trailing the player in a spiral formation.
type Ornament struct {
	ID   uint32 // ID of the collectible it came from
	Pos  r3.Vec
	Size float64
}

// NewPlayer creates a ship at pos with a full tank.
func NewPlayer(pos r3.Vec, size, fuel float64, trailLen, maxOrnaments int) *Player {
	return &Player{
		Pos:          pos,
		Size:         size,
		Fuel:         fuel,
		Trail:        NewTrail(trailLen),
		MaxOrnaments: maxOrnaments,
	}
}

// Speed returns the velocity magnitude.
func (p *Player) Speed() float64 {
	return r3.Norm(p.Vel)
}

// AddOrnament attaches a collected body, evicting the oldest past the cap.
func (p *Player) AddOrnament(o Ornament) {
	if p.MaxOrnaments <= 0 {
		return
	}
	if len(p.Ornaments) >= p.MaxOrnaments {
		copy(p.Ornaments, p.Ornaments[1:])
		p.Ornaments = p.Ornaments[:len(p.Ornaments)-1]
	}
	p.Ornaments = append(p.Ornaments, o)
}

// Trail is a fixed-capacity ring of past positions, oldest first.
type Trail struct {
	points []r3.Vec
	start  int
	n      int
}

// NewTrail allocates a trail holding at most capacity points.
func NewTrail(capacity int) Trail {
	if capacity < 0 {
		capacity = 0
	}
	return Trail{points: make([]r3.Vec, capacity)}
}

// Push appends a point, evicting the oldest when full.
func (t *Trail) Push(v r3.Vec) {
	c := len(t.points)
	if c == 0 {
		return
	}
	if t.n < c {
		t.points[(t.start+t.n)%c] = v
		t.n++
		return
	}
	t.points[t.start] = v
	t.start = (t.start + 1) % c
}

// Len returns the number of stored points.
func (t *Trail) Len() int { return t.n }

// Cap returns the maximum number of stored points.
func (t *Trail) Cap() int { return len(t.points) }

// At returns the i-th point, 0 being the oldest.
func (t *Trail) At(i int) r3.Vec {
	return t.points[(t.start+i)%len(t.points)]
}

// Points returns a copy of the stored points, oldest first.
func (t *Trail) Points() []r3.Vec {
	out := make([]r3.Vec, t.n)
	for i := range out {
		out[i] = t.At(i)
	}
	return out
}

// Reset empties the trail without reallocating.
func (t *Trail) Reset() {
	t.start = 0
	t.n = 0
}
