package systems

import (
	"math/rand/v2"
	"testing"

	"github.com/ojrac/opensimplex-go"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/galaxy/components"
	"github.com/pthm-cable/galaxy/config"
)

// rig bundles a store and all systems wired the way the game wires them.
type rig struct {
	cfg       *config.Config
	store     *Store
	layout    *SlotLayout
	effects   *EffectLifecycle
	motion    *Motion
	spawner   *SpawnDirector
	collision *CollisionResolver
}

func newRig(t *testing.T, mutate func(*config.Config)) *rig {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
		if err := cfg.Validate(); err != nil {
			t.Fatalf("invalid test config: %v", err)
		}
		cfg.Recompute()
	}
	rng := rand.New(rand.NewPCG(1, 2))
	player := components.NewPlayer(r3.Vec{}, cfg.Player.Size, cfg.Fuel.Max, cfg.Player.TrailLength, cfg.Player.MaxOrnaments)
	store := NewStore(player)
	layout := NewSlotLayout(cfg.Collectible)
	effects := NewEffectLifecycle(cfg, rng)
	return &rig{
		cfg:       cfg,
		store:     store,
		layout:    layout,
		effects:   effects,
		motion:    NewMotion(cfg, layout, opensimplex.New(1)),
		spawner:   NewSpawnDirector(cfg, layout, effects, rng),
		collision: NewCollisionResolver(cfg, effects),
	}
}

func countEffects(s *Store, kind components.EffectKind) int {
	n := 0
	s.EachEffect(func(_ *components.Position, e *components.Effect) {
		if e.Kind == kind && !e.Dead {
			n++
		}
	})
	return n
}

func firstCollectible(s *Store) (pos components.Position, c components.Collectible, ok bool) {
	s.EachCollectible(func(p *components.Position, _ *components.Body, col *components.Collectible) {
		if !ok {
			pos, c, ok = *p, *col, true
		}
	})
	return pos, c, ok
}
