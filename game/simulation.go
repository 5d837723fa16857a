package game

import (
	"log/slog"
	"math"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/galaxy/components"
	"github.com/pthm-cable/galaxy/systems"
	"github.com/pthm-cable/galaxy/telemetry"
)

// Step advances the simulation by one tick. Outside Running it does nothing:
// countdowns, spawn timers and the tick counter stay frozen.
func (g *Game) Step() {
	if g.prog.State != StateRunning {
		return
	}

	g.tick++
	g.perf.StartTick()

	// 1. Countdowns
	g.perf.StartPhase(telemetry.PhaseCountdowns)
	g.prog.tickCountdowns()

	// 2. Motion
	g.perf.StartPhase(telemetry.PhaseMotion)
	drained := g.updateMotion()

	// 3. Collisions
	g.perf.StartPhase(telemetry.PhaseCollisions)
	g.resolveCollisions(drained)

	// 4. Spawn
	g.perf.StartPhase(telemetry.PhaseSpawn)
	if g.prog.State == StateRunning {
		res := g.spawner.Update(g.store, g.prog.Level, g.tick)
		g.collector.RecordSpawns(res.Hazards, res.Collectibles)
	}

	// 5. Effects
	g.perf.StartPhase(telemetry.PhaseEffects)
	g.effects.Update(g.store)

	// 6. Camera
	g.perf.StartPhase(telemetry.PhaseCamera)
	p := g.store.Player
	g.rig.Update(p.Pos, p.Heading, g.tick)

	// 7. Compaction
	g.perf.StartPhase(telemetry.PhaseCompact)
	g.store.Compact()

	// 8. Snapshot and events
	g.perf.StartPhase(telemetry.PhaseTelemetry)
	g.collector.Sample(p.Fuel, p.Speed())
	g.publishJournal()
	g.publishStats()
	g.refreshSnapshot()
	g.flushTelemetry()
	g.perf.EndTick()

	g.bus.flush()
}

// StepFrame runs n ticks, recording frame timing. Used by the windowed loop.
func (g *Game) StepFrame(n int) {
	start := time.Now()
	for i := 0; i < n; i++ {
		g.Step()
	}
	if n > 0 && g.prog.State == StateRunning {
		g.perf.RecordFrame()
	}
	if d := time.Since(start); d > 50*time.Millisecond {
		slog.Debug("slow frame", "ticks", n, "duration", d)
	}
}

// updateMotion integrates every moving object and drains fuel.
// Returns true if drain alone emptied the tank this tick.
func (g *Game) updateMotion() bool {
	p := g.store.Player
	fc := g.cfg.Fuel

	thrust := g.thrust
	if n := r3.Norm(thrust); n > 1 {
		thrust = r3.Scale(1/n, thrust)
	}

	g.motion.IntegratePlayer(p, thrust)

	drain := fc.DrainPerTick + fc.DrainPerThrust*r3.Norm(thrust)
	p.Fuel = math.Max(0, p.Fuel-drain)
	drained := p.Fuel <= 0

	g.motion.UpdateCollectibles(g.store, g.tick)
	if n := g.motion.IntegrateHazards(g.store); n > 0 {
		g.collector.RecordExpired(n)
	}
	g.motion.FollowOrnaments(p, g.tick)

	return drained
}

// resolveCollisions applies collision outcomes to progression, camera and
// telemetry, then checks for GameOver and LevelComplete. GameOver wins when
// both happen in the same tick. A ship whose tank ran dry during motion is
// out before any contact can refuel it.
func (g *Game) resolveCollisions(drained bool) {
	if drained {
		g.gameOver(CauseFuelExhausted)
		return
	}

	out := g.collision.Resolve(g.store, g.tick, g.prog.Safe())

	for _, cue := range out.Cues {
		g.bus.publish(Event{Type: EventSound, Tick: g.tick, Cue: cue})
	}
	if out.ScoreDelta != 0 {
		g.prog.Score += out.ScoreDelta
		g.publishScore(out.ScoreDelta)
	}
	if out.Shake > 0 {
		g.rig.AddShake(out.Shake)
	}
	g.prog.Collected += out.Collected
	g.prog.Coins += out.Collected

	g.collector.RecordHit(out.Hits)
	g.collector.RecordCollect(out.Collected)
	g.collector.RecordHazardHit(out.HazardHits)
	g.collector.RecordShielded(out.Shielded)
	g.collector.RecordScore(out.ScoreDelta)

	switch {
	case out.Fatal, g.store.Player.Fuel <= 0:
		g.gameOver(CauseCollision)
	case g.prog.LevelDone():
		g.levelComplete()
	}
}

// applyBomb destroys every hazard and starts the cooldown and safe time.
func (g *Game) applyBomb() {
	bc := g.cfg.Bomb
	p := g.store.Player

	g.prog.BombCooldown = bc.Cooldown
	g.prog.SafeTime = bc.SafeTime

	n := g.collision.DestroyAllHazards(g.store)
	g.effects.Emit(g.store, components.EffectBomb, p.Pos, p.Size*4)
	g.rig.AddShake(g.cfg.Camera.ShakeBomb)
	g.bus.publish(Event{Type: EventSound, Tick: g.tick, Cue: systems.CueBomb})
	g.collector.RecordBomb()

	slog.Debug("bomb", "tick", g.tick, "destroyed", n)
}

func (g *Game) gameOver(cause string) {
	g.prog.Cause = cause
	g.setState(StateGameOver)
	g.bus.publish(Event{Type: EventSound, Tick: g.tick, Cue: systems.CueGameOver})
	g.collector.RecordGameOver()
	g.publishResult(cause)

	slog.Info("game over", "cause", cause, "level", g.prog.Level, "score", g.prog.Score, "tick", g.tick)
}

func (g *Game) levelComplete() {
	bonus := g.cfg.Scoring.LevelBonus * g.prog.Level
	if bonus > 0 {
		g.prog.Score += bonus
		g.publishScore(bonus)
	}
	g.prog.Cause = CauseLevelComplete
	g.setState(StateLevelComplete)
	g.bus.publish(Event{Type: EventSound, Tick: g.tick, Cue: systems.CueLevelComplete})
	g.collector.RecordLevelComplete()
	g.publishResult(CauseLevelComplete)

	slog.Info("level complete", "level", g.prog.Level, "score", g.prog.Score, "tick", g.tick)
}

// publishJournal converts the store journal into entity events.
func (g *Game) publishJournal() {
	created, destroyed := g.store.DrainJournal()
	for _, ref := range created {
		g.bus.publish(Event{Type: EventEntityCreated, Tick: g.tick, Kind: ref.Kind, ID: ref.ID})
	}
	for _, ref := range destroyed {
		g.bus.publish(Event{Type: EventEntityDestroyed, Tick: g.tick, Kind: ref.Kind, ID: ref.ID, Reason: ref.Reason})
	}
}

func (g *Game) publishScore(delta int) {
	g.bus.publish(Event{Type: EventScoreChanged, Tick: g.tick, Delta: delta, Score: g.prog.Score})
}

func (g *Game) publishStats() {
	g.bus.publish(Event{
		Type:         EventStatsChanged,
		Tick:         g.tick,
		Fuel:         g.store.Player.Fuel,
		BombCooldown: g.prog.BombCooldown,
		SafeTime:     g.prog.SafeTime,
	})
}

func (g *Game) publishResult(cause string) {
	r := &RunResult{
		Score: g.prog.Score,
		Level: g.prog.Level,
		Fuel:  g.store.Player.Fuel,
		Coins: g.prog.Coins,
		Cause: cause,
		Tick:  g.tick,
	}
	g.bus.publish(Event{Type: EventRunResult, Tick: g.tick, Result: r})
	g.writeResult(r)
}
