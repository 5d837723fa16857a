package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/galaxy/components"
	"github.com/pthm-cable/galaxy/config"
)

// SlotLayout is the precomputed ring arrangement collectibles spawn into.
// Slots are numbered ring by ring; odd rings are offset by half a slot so
// neighbouring rings interleave. The whole layout rotates about the galaxy
// center at a fixed angular speed.
type SlotLayout struct {
	radii      []float64
	perRing    int
	orbitSpeed float64
}

// NewSlotLayout builds the layout from collectible config.
func NewSlotLayout(cfg config.CollectibleConfig) *SlotLayout {
	radii := make([]float64, cfg.Rings)
	for r := range radii {
		radii[r] = cfg.FirstRingRadius + float64(r)*cfg.RingSpacing
	}
	return &SlotLayout{radii: radii, perRing: cfg.SlotsPerRing, orbitSpeed: cfg.OrbitSpeed}
}

// Radii returns the ring radii, innermost first.
func (l *SlotLayout) Radii() []float64 {
	return append([]float64(nil), l.radii...)
}

// Len returns the number of slots.
func (l *SlotLayout) Len() int { return len(l.radii) * l.perRing }

// Position returns the world position of slot at tick.
func (l *SlotLayout) Position(slot int, tick int64) r3.Vec {
	ring := slot / l.perRing
	idx := slot % l.perRing
	step := 2 * math.Pi / float64(l.perRing)
	angle := float64(idx) * step
	if ring%2 == 1 {
		angle += step / 2
	}
	// Outer rings orbit slower
	angle += float64(tick) * l.orbitSpeed / float64(ring+1)
	r := l.radii[ring]
	return r3.Vec{X: r * math.Cos(angle), Y: r * math.Sin(angle)}
}

// Occupied returns a per-slot occupancy mask for the live collectibles in s.
func (l *SlotLayout) Occupied(s *Store) []bool {
	used := make([]bool, l.Len())
	s.EachCollectible(func(_ *components.Position, _ *components.Body, c *components.Collectible) {
		if !c.Dead && c.Slot >= 0 && c.Slot < len(used) {
			used[c.Slot] = true
		}
	})
	return used
}
