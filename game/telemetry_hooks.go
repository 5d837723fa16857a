package game

import (
	"log/slog"
	"time"

	"github.com/pthm-cable/galaxy/components"
	"github.com/pthm-cable/galaxy/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and writes it out.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	pop := telemetry.Population{
		Hazards:      g.store.LiveHazards(),
		Collectibles: g.store.LiveCollectibles(),
		Effects:      g.store.Count(components.KindEffect),
		Particles:    g.store.Count(components.KindParticle),
	}
	stats := g.collector.Flush(g.tick, g.prog.Level, g.prog.Score, pop)
	perfStats := g.perf.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := g.outputManager.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
}

// writeResult appends a finished level or run to results.csv.
func (g *Game) writeResult(r *RunResult) {
	if err := g.outputManager.WriteResult(ResultRecord(*r, g.seed)); err != nil {
		slog.Error("failed to write result", "error", err)
	}
}

// ResultRecord converts a run result into a leaderboard row.
func ResultRecord(r RunResult, seed uint64) telemetry.RunRecord {
	return telemetry.RunRecord{
		Score:     r.Score,
		Level:     r.Level,
		Fuel:      r.Fuel,
		Coins:     r.Coins,
		Outcome:   r.Cause,
		Tick:      r.Tick,
		Seed:      seed,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
