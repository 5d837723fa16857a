// Package components defines ECS components for the simulation.
package components

import "gonum.org/v1/gonum/spatial/r3"

// Kind identifies the entity category for snapshots and events.
type Kind uint8

const (
	KindPlayer Kind = iota
	KindCollectible
	KindHazard
	KindEffect
	KindParticle
)

func (k Kind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindCollectible:
		return "collectible"
	case KindHazard:
		return "hazard"
	case KindEffect:
		return "effect"
	case KindParticle:
		return "particle"
	}
	return "unknown"
}

// EffectKind tags an ephemeral effect for the renderer and audio cues.
type EffectKind uint8

const (
	EffectHit EffectKind = iota
	EffectCollect
	EffectExplosion
	EffectBomb
	EffectSpawn
)

func (k EffectKind) String() string {
	switch k {
	case EffectHit:
		return "hit"
	case EffectCollect:
		return "collect"
	case EffectExplosion:
		return "explosion"
	case EffectBomb:
		return "bomb"
	case EffectSpawn:
		return "spawn"
	}
	return "unknown"
}

// Position represents an entity's world position.
type Position struct {
	r3.Vec
}

// Velocity represents an entity's velocity in world units per tick.
type Velocity struct {
	r3.Vec
}

// Body holds collision and visual size.
// BaseSize is used for proximity tests; Size may pulse for display.
type Body struct {
	Size     float64
	BaseSize float64
}

// Collectible is an orbiting body absorbed after RequiredHits hits.
type Collectible struct {
	ID           uint32
	Slot         int
	RequiredHits int
	Hits         int
	LastHitTick  int64 // Tick of the most recent hit, -1 if never hit
	Collected    bool
	Dead         bool
}

// Hazard seeks a fixed target at constant speed.
type Hazard struct {
	ID     uint32
	Target r3.Vec
	Speed  float64
	Dead   bool
}

// Effect is an ephemeral marker whose life decays to zero.
type Effect struct {
	ID        uint32
	Kind      EffectKind
	Life      float64 // (0,1]
	Decay     float64 // Life lost per tick
	BaseScale float64
	Scale     float64 // BaseScale * Life
	Dead      bool
}

// Particle is a damped, shrinking spark.
type Particle struct {
	Kind     EffectKind
	Life     float64
	Decay    float64
	Friction float64
	BaseSize float64
	Size     float64 // BaseSize * Life
	Dead     bool
}
