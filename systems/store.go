// Package systems contains the simulation systems and the entity store they share.
package systems

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/galaxy/components"
)

// Removal reasons reported in the journal.
const (
	ReasonCollected = "collected"
	ReasonCollision = "collision"
	ReasonBomb      = "bomb"
	ReasonExpired   = "expired"
	ReasonDecayed   = "decayed"
)

// EntityRef identifies an entity in the journal.
type EntityRef struct {
	Kind   components.Kind
	ID     uint32
	Reason string // Empty for creations
}

// Store holds every simulated object. The player lives beside the ECS world;
// collectibles, hazards, effects and particles are ark entities.
//
// Systems mark entities dead during the tick; Compact removes them once at tick end.
type Store struct {
	world  *ecs.World
	Player *components.Player

	collectibleMap *ecs.Map3[components.Position, components.Body, components.Collectible]
	hazardMap      *ecs.Map4[components.Position, components.Velocity, components.Body, components.Hazard]
	effectMap      *ecs.Map2[components.Position, components.Effect]
	particleMap    *ecs.Map3[components.Position, components.Velocity, components.Particle]

	collectibles *ecs.Filter3[components.Position, components.Body, components.Collectible]
	hazards      *ecs.Filter4[components.Position, components.Velocity, components.Body, components.Hazard]
	effects      *ecs.Filter2[components.Position, components.Effect]
	particles    *ecs.Filter3[components.Position, components.Velocity, components.Particle]

	nextID uint32
	counts [components.KindParticle + 1]int

	// Journal of this tick's creations and removals, drained by the game.
	Created   []EntityRef
	Destroyed []EntityRef

	toRemove []ecs.Entity
}

// NewStore creates an empty store around a fresh ECS world.
func NewStore(player *components.Player) *Store {
	world := ecs.NewWorld()
	return &Store{
		world:          world,
		Player:         player,
		collectibleMap: ecs.NewMap3[components.Position, components.Body, components.Collectible](world),
		hazardMap:      ecs.NewMap4[components.Position, components.Velocity, components.Body, components.Hazard](world),
		effectMap:      ecs.NewMap2[components.Position, components.Effect](world),
		particleMap:    ecs.NewMap3[components.Position, components.Velocity, components.Particle](world),
		collectibles:   ecs.NewFilter3[components.Position, components.Body, components.Collectible](world),
		hazards:        ecs.NewFilter4[components.Position, components.Velocity, components.Body, components.Hazard](world),
		effects:        ecs.NewFilter2[components.Position, components.Effect](world),
		particles:      ecs.NewFilter3[components.Position, components.Velocity, components.Particle](world),
		nextID:         1,
	}
}

// NextID returns the next entity identifier without consuming it.
func (s *Store) NextID() uint32 { return s.nextID }

// SetNextID restores the identifier counter.
func (s *Store) SetNextID(id uint32) { s.nextID = id }

func (s *Store) allocID() uint32 {
	id := s.nextID
	s.nextID++
	return id
}

// Count returns the number of stored entities of a kind, including ones
// marked dead but not yet compacted.
func (s *Store) Count(kind components.Kind) int {
	if kind == components.KindPlayer {
		if s.Player != nil {
			return 1
		}
		return 0
	}
	return s.counts[kind]
}

// AddCollectible creates a collectible body.
func (s *Store) AddCollectible(pos r3.Vec, size float64, slot, requiredHits int) uint32 {
	id := s.allocID()
	s.collectibleMap.NewEntity(
		&components.Position{Vec: pos},
		&components.Body{Size: size, BaseSize: size},
		&components.Collectible{ID: id, Slot: slot, RequiredHits: requiredHits, LastHitTick: -1},
	)
	s.created(components.KindCollectible, id)
	return id
}

// RestoreCollectible re-creates a collectible with its full state.
func (s *Store) RestoreCollectible(pos r3.Vec, body components.Body, c components.Collectible) {
	s.collectibleMap.NewEntity(&components.Position{Vec: pos}, &body, &c)
	s.counts[components.KindCollectible]++
}

// AddHazard creates a hazard seeking target.
func (s *Store) AddHazard(pos, target r3.Vec, speed, size float64) uint32 {
	id := s.allocID()
	s.hazardMap.NewEntity(
		&components.Position{Vec: pos},
		&components.Velocity{},
		&components.Body{Size: size, BaseSize: size},
		&components.Hazard{ID: id, Target: target, Speed: speed},
	)
	s.created(components.KindHazard, id)
	return id
}

// RestoreHazard re-creates a hazard with its full state.
func (s *Store) RestoreHazard(pos, vel r3.Vec, body components.Body, h components.Hazard) {
	s.hazardMap.NewEntity(&components.Position{Vec: pos}, &components.Velocity{Vec: vel}, &body, &h)
	s.counts[components.KindHazard]++
}

// AddEffect creates an effect with full life.
func (s *Store) AddEffect(kind components.EffectKind, pos r3.Vec, decay, baseScale float64) uint32 {
	id := s.allocID()
	s.effectMap.NewEntity(
		&components.Position{Vec: pos},
		&components.Effect{ID: id, Kind: kind, Life: 1, Decay: decay, BaseScale: baseScale, Scale: baseScale},
	)
	s.created(components.KindEffect, id)
	return id
}

// RestoreEffect re-creates an effect with its full state.
func (s *Store) RestoreEffect(pos r3.Vec, e components.Effect) {
	s.effectMap.NewEntity(&components.Position{Vec: pos}, &e)
	s.counts[components.KindEffect]++
}

// AddParticle creates a particle. Particles are not journaled.
func (s *Store) AddParticle(pos, vel r3.Vec, p components.Particle) {
	s.particleMap.NewEntity(&components.Position{Vec: pos}, &components.Velocity{Vec: vel}, &p)
	s.counts[components.KindParticle]++
}

func (s *Store) created(kind components.Kind, id uint32) {
	s.counts[kind]++
	s.Created = append(s.Created, EntityRef{Kind: kind, ID: id})
}

// Destroy records a removal reason. The caller sets the entity's Dead flag.
func (s *Store) Destroy(kind components.Kind, id uint32, reason string) {
	s.Destroyed = append(s.Destroyed, EntityRef{Kind: kind, ID: id, Reason: reason})
}

// DrainJournal returns and clears this tick's journal.
func (s *Store) DrainJournal() (created, destroyed []EntityRef) {
	created, destroyed = s.Created, s.Destroyed
	s.Created, s.Destroyed = nil, nil
	return created, destroyed
}

// Iteration helpers. The world is locked while a callback runs,
// so callbacks must not create or remove entities.

// EachCollectible visits every collectible in storage order.
func (s *Store) EachCollectible(fn func(pos *components.Position, body *components.Body, c *components.Collectible)) {
	query := s.collectibles.Query()
	for query.Next() {
		fn(query.Get())
	}
}

// EachHazard visits every hazard in storage order.
func (s *Store) EachHazard(fn func(pos *components.Position, vel *components.Velocity, body *components.Body, h *components.Hazard)) {
	query := s.hazards.Query()
	for query.Next() {
		fn(query.Get())
	}
}

// EachEffect visits every effect in storage order.
func (s *Store) EachEffect(fn func(pos *components.Position, e *components.Effect)) {
	query := s.effects.Query()
	for query.Next() {
		fn(query.Get())
	}
}

// EachParticle visits every particle in storage order.
func (s *Store) EachParticle(fn func(pos *components.Position, vel *components.Velocity, p *components.Particle)) {
	query := s.particles.Query()
	for query.Next() {
		fn(query.Get())
	}
}

// LiveHazards counts hazards not marked dead.
func (s *Store) LiveHazards() int {
	n := 0
	s.EachHazard(func(_ *components.Position, _ *components.Velocity, _ *components.Body, h *components.Hazard) {
		if !h.Dead {
			n++
		}
	})
	return n
}

// LiveCollectibles counts collectibles neither collected nor dead.
func (s *Store) LiveCollectibles() int {
	n := 0
	s.EachCollectible(func(_ *components.Position, _ *components.Body, c *components.Collectible) {
		if !c.Dead {
			n++
		}
	})
	return n
}

// Compact removes every entity marked dead. Returns the number removed.
func (s *Store) Compact() int {
	s.toRemove = s.toRemove[:0]

	cq := s.collectibles.Query()
	for cq.Next() {
		if _, _, c := cq.Get(); c.Dead {
			s.toRemove = append(s.toRemove, cq.Entity())
			s.counts[components.KindCollectible]--
		}
	}
	hq := s.hazards.Query()
	for hq.Next() {
		if _, _, _, h := hq.Get(); h.Dead {
			s.toRemove = append(s.toRemove, hq.Entity())
			s.counts[components.KindHazard]--
		}
	}
	eq := s.effects.Query()
	for eq.Next() {
		if _, e := eq.Get(); e.Dead {
			s.toRemove = append(s.toRemove, eq.Entity())
			s.counts[components.KindEffect]--
		}
	}
	pq := s.particles.Query()
	for pq.Next() {
		if _, _, p := pq.Get(); p.Dead {
			s.toRemove = append(s.toRemove, pq.Entity())
			s.counts[components.KindParticle]--
		}
	}

	// Second pass: remove entities (query iteration complete)
	for _, e := range s.toRemove {
		s.world.RemoveEntity(e)
	}
	return len(s.toRemove)
}
