package game

import (
	"log/slog"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/galaxy/components"
	"github.com/pthm-cable/galaxy/systems"
)

// Commands are the only way input reaches the engine. Each returns whether it
// was accepted in the current state; rejected commands change nothing.

// SetThrust records the thrust intent used by the next tick. Magnitudes above
// 1 are clamped during integration and non-finite components read as zero.
// Always accepted.
func (g *Game) SetThrust(v r3.Vec) bool {
	g.thrust = r3.Vec{X: finite(v.X), Y: finite(v.Y), Z: finite(v.Z)}
	return true
}

func finite(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}

// Start leaves Idle and begins the first level.
func (g *Game) Start() bool {
	if g.prog.State != StateIdle {
		return false
	}
	g.setState(StateRunning)
	g.afterCommand()
	return true
}

// Pause freezes the simulation.
func (g *Game) Pause() bool {
	if g.prog.State != StateRunning {
		return false
	}
	g.setState(StatePaused)
	g.afterCommand()
	return true
}

// Resume continues a paused simulation.
func (g *Game) Resume() bool {
	if g.prog.State != StatePaused {
		return false
	}
	g.setState(StateRunning)
	g.afterCommand()
	return true
}

// ActivateBomb destroys every hazard at once and starts the cooldown and
// safe time. Accepted only while Running with the cooldown expired.
func (g *Game) ActivateBomb() bool {
	if g.prog.State != StateRunning || g.prog.BombCooldown > 0 {
		return false
	}
	g.applyBomb()
	g.afterCommand()
	return true
}

// RestartLevel rebuilds the current level with the score and coins the
// level started with.
func (g *Game) RestartLevel() bool {
	switch g.prog.State {
	case StateRunning, StatePaused, StateLevelComplete, StateGameOver:
	default:
		return false
	}

	g.destroyAll()
	g.prog.Score = g.prog.LevelStartScore
	g.prog.Coins = g.prog.LevelStartCoins
	g.buildLevel(g.prog.Level)
	g.setState(StateRunning)
	g.publishScore(0)
	g.afterCommand()

	slog.Info("level restarted", "level", g.prog.Level, "tick", g.tick)
	return true
}

// AdvanceLevel moves from LevelComplete to the next level.
func (g *Game) AdvanceLevel() bool {
	if g.prog.State != StateLevelComplete {
		return false
	}

	g.destroyAll()
	g.prog.LevelStartScore = g.prog.Score
	g.prog.LevelStartCoins = g.prog.Coins
	g.buildLevel(g.prog.Level + 1)
	g.setState(StateRunning)
	g.afterCommand()

	slog.Info("level advanced", "level", g.prog.Level, "required", g.prog.Required, "tick", g.tick)
	return true
}

// SetCinematic toggles automatic shot rotation. Always accepted.
func (g *Game) SetCinematic(on bool) bool {
	g.rig.SetCinematic(on)
	g.refreshSnapshot()
	return true
}

// Cinematic reports whether shot rotation is on.
func (g *Game) Cinematic() bool {
	return g.rig.Cinematic
}

// setState moves the state machine and publishes the transition.
func (g *Game) setState(to State) {
	from := g.prog.State
	if !CanTransition(from, to) {
		slog.Warn("illegal state transition", "from", from, "to", to)
		return
	}
	g.prog.State = to
	g.bus.publish(Event{Type: EventStateChanged, Tick: g.tick, From: from, To: to})
}

// destroyAll journals the removal of every entity before the store is replaced.
func (g *Game) destroyAll() {
	s := g.store
	s.EachCollectible(func(_ *components.Position, _ *components.Body, c *components.Collectible) {
		if !c.Dead {
			s.Destroy(components.KindCollectible, c.ID, systems.ReasonExpired)
		}
	})
	s.EachHazard(func(_ *components.Position, _ *components.Velocity, _ *components.Body, h *components.Hazard) {
		if !h.Dead {
			s.Destroy(components.KindHazard, h.ID, systems.ReasonExpired)
		}
	})
	s.EachEffect(func(_ *components.Position, e *components.Effect) {
		if !e.Dead {
			s.Destroy(components.KindEffect, e.ID, systems.ReasonExpired)
		}
	})
	g.publishJournal()
}

// afterCommand delivers events and refreshes the snapshot after an
// out-of-tick state change.
func (g *Game) afterCommand() {
	g.publishJournal()
	g.publishStats()
	g.refreshSnapshot()
	g.bus.flush()
}
