package systems

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/galaxy/components"
	"github.com/pthm-cable/galaxy/config"
)

// Edge identifies a world side hazards enter from.
type Edge uint8

const (
	EdgeLeft Edge = iota
	EdgeRight
	EdgeTop
	EdgeBottom
)

// SpawnResult reports what a spawn pass created.
type SpawnResult struct {
	Hazards      int
	Collectibles int
}

// SpawnDirector schedules hazard and collectible spawns under population caps.
type SpawnDirector struct {
	cfg     *config.Config
	layout  *SlotLayout
	effects *EffectLifecycle
	rng     *rand.Rand

	// Ticks since the last spawn attempt per category
	HazardTimer      int
	CollectibleTimer int
}

// NewSpawnDirector creates a director with zeroed timers.
func NewSpawnDirector(cfg *config.Config, layout *SlotLayout, effects *EffectLifecycle, rng *rand.Rand) *SpawnDirector {
	return &SpawnDirector{cfg: cfg, layout: layout, effects: effects, rng: rng}
}

// Interval returns the level-scaled spawn interval, never below floor.
func Interval(base, shrink, floor, level int) int {
	iv := base - shrink*(level-1)
	if iv < floor {
		return floor
	}
	return iv
}

// HazardInterval returns the hazard spawn interval for level.
func (d *SpawnDirector) HazardInterval(level int) int {
	hc := d.cfg.Hazard
	return Interval(hc.SpawnInterval, hc.IntervalShrink, hc.IntervalFloor, level)
}

// CollectibleInterval returns the collectible spawn interval for level.
func (d *SpawnDirector) CollectibleInterval(level int) int {
	cc := d.cfg.Collectible
	return Interval(cc.SpawnInterval, cc.IntervalShrink, cc.IntervalFloor, level)
}

// Reset zeroes all spawn timers. Called on level start and restart.
func (d *SpawnDirector) Reset() {
	d.HazardTimer = 0
	d.CollectibleTimer = 0
}

// Update advances both timers by one tick and spawns when an interval elapses.
func (d *SpawnDirector) Update(s *Store, level int, tick int64) SpawnResult {
	var res SpawnResult

	d.HazardTimer++
	if d.HazardTimer >= d.HazardInterval(level) {
		d.HazardTimer = 0
		if s.LiveHazards() < d.cfg.Hazard.Cap && d.SpawnHazard(s, level) {
			res.Hazards++
		}
	}

	d.CollectibleTimer++
	if d.CollectibleTimer >= d.CollectibleInterval(level) {
		d.CollectibleTimer = 0
		if s.LiveCollectibles() < d.cfg.Collectible.Cap && d.SpawnCollectible(s, level, tick) {
			res.Collectibles++
		}
	}
	return res
}

// HazardSpeed returns the level-scaled hazard speed.
func (d *SpawnDirector) HazardSpeed(level int) float64 {
	hc := d.cfg.Hazard
	speed := hc.BaseSpeed + hc.SpeedPerLevel*float64(level-1)
	if hc.MaxSpeed > 0 && speed > hc.MaxSpeed {
		speed = hc.MaxSpeed
	}
	return speed
}

// SpawnHazard places a hazard on a random world edge aimed near the center.
func (d *SpawnDirector) SpawnHazard(s *Store, level int) bool {
	dc := d.cfg.Derived
	hc := d.cfg.Hazard

	var pos r3.Vec
	switch Edge(d.rng.IntN(4)) {
	case EdgeLeft:
		pos = r3.Vec{X: -dc.HalfW, Y: d.uniform(dc.HalfH)}
	case EdgeRight:
		pos = r3.Vec{X: dc.HalfW, Y: d.uniform(dc.HalfH)}
	case EdgeTop:
		pos = r3.Vec{X: d.uniform(dc.HalfW), Y: -dc.HalfH}
	case EdgeBottom:
		pos = r3.Vec{X: d.uniform(dc.HalfW), Y: dc.HalfH}
	}
	if dc.Is3D {
		pos.Z = d.uniform(dc.HalfD)
	}

	// Uniform point in a disc of radius TargetJitter
	r := hc.TargetJitter * math.Sqrt(d.rng.Float64())
	theta := d.rng.Float64() * 2 * math.Pi
	target := r3.Vec{X: r * math.Cos(theta), Y: r * math.Sin(theta)}
	if dc.Is3D && dc.HalfW > 0 {
		target.Z = d.uniform(hc.TargetJitter * dc.HalfD / dc.HalfW)
	}

	s.AddHazard(pos, target, d.HazardSpeed(level), hc.Size)
	d.effects.Emit(s, components.EffectSpawn, pos, hc.Size)
	return true
}

// SpawnCollectible fills a random free slot. Returns false when every slot is taken.
func (d *SpawnDirector) SpawnCollectible(s *Store, level int, tick int64) bool {
	used := d.layout.Occupied(s)
	free := make([]int, 0, len(used))
	for i, u := range used {
		if !u {
			free = append(free, i)
		}
	}
	if len(free) == 0 {
		return false
	}

	slot := free[d.rng.IntN(len(free))]
	pos := d.layout.Position(slot, tick)
	s.AddCollectible(pos, d.cfg.Collectible.Size, slot, d.RequiredHits(level))
	d.effects.Emit(s, components.EffectSpawn, pos, d.cfg.Collectible.Size)
	return true
}

// RequiredHits draws the hit threshold for a new collectible at level.
func (d *SpawnDirector) RequiredHits(level int) int {
	cc := d.cfg.Collectible
	hits := cc.BaseHits
	if cc.LevelsPerExtraHit > 0 {
		hits += (level - 1) / cc.LevelsPerExtraHit
	}
	if cc.HitVariance > 0 {
		hits += d.rng.IntN(cc.HitVariance + 1)
	}
	if cc.MaxHits > 0 && hits > cc.MaxHits {
		hits = cc.MaxHits
	}
	if hits < 1 {
		hits = 1
	}
	return hits
}

// PopulateLevel places the initial collectibles for a fresh level.
func (d *SpawnDirector) PopulateLevel(s *Store, level int, tick int64) int {
	n := 0
	for i := 0; i < d.cfg.Collectible.Initial && s.LiveCollectibles() < d.cfg.Collectible.Cap; i++ {
		if !d.SpawnCollectible(s, level, tick) {
			break
		}
		n++
	}
	return n
}

// uniform draws from [-half, half].
func (d *SpawnDirector) uniform(half float64) float64 {
	return (2*d.rng.Float64() - 1) * half
}
