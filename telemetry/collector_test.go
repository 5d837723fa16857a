package telemetry

import (
	"math"
	"testing"
)

func TestCollector_ShouldFlush(t *testing.T) {
	c := NewCollector(600, 60)

	if c.ShouldFlush(599) {
		t.Error("flushed before window elapsed")
	}
	if !c.ShouldFlush(600) {
		t.Error("did not flush at window end")
	}

	c.Flush(600, 1, 0, Population{})
	if c.ShouldFlush(1199) {
		t.Error("second window flushed early")
	}
	if !c.ShouldFlush(1200) {
		t.Error("second window did not flush")
	}
}

func TestCollector_Flush(t *testing.T) {
	c := NewCollector(60, 60)

	c.RecordHit(3)
	c.RecordCollect(1)
	c.RecordHazardHit(2)
	c.RecordShielded(4)
	c.RecordBomb()
	c.RecordSpawns(5, 6)
	c.RecordExpired(7)
	c.RecordScore(130)
	c.RecordScore(-50) // penalties are not "gained"
	c.RecordLevelComplete()
	for i := 0; i < 10; i++ {
		c.Sample(float64(10*(i+1)), 2)
	}

	stats := c.Flush(60, 2, 630, Population{Hazards: 3, Collectibles: 4, Effects: 5, Particles: 6})

	if stats.WindowStartTick != 0 || stats.WindowEndTick != 60 {
		t.Errorf("window = [%d,%d], want [0,60]", stats.WindowStartTick, stats.WindowEndTick)
	}
	if stats.SimTimeSec != 1 {
		t.Errorf("sim time = %v, want 1", stats.SimTimeSec)
	}
	if stats.Hits != 3 || stats.Collects != 1 {
		t.Errorf("hits/collects = %d/%d, want 3/1", stats.Hits, stats.Collects)
	}
	if math.Abs(stats.CollectRate-0.25) > 1e-9 {
		t.Errorf("collect rate = %v, want 0.25", stats.CollectRate)
	}
	if stats.HazardHits != 2 || stats.Shielded != 4 || stats.Bombs != 1 {
		t.Errorf("hazard hits/shielded/bombs = %d/%d/%d", stats.HazardHits, stats.Shielded, stats.Bombs)
	}
	if stats.HazardSpawns != 5 || stats.CollectibleSpawns != 6 || stats.Expired != 7 {
		t.Errorf("spawns/expired = %d/%d/%d", stats.HazardSpawns, stats.CollectibleSpawns, stats.Expired)
	}
	if stats.ScoreGained != 130 {
		t.Errorf("score gained = %d, want 130", stats.ScoreGained)
	}
	if stats.LevelsCompleted != 1 {
		t.Errorf("levels completed = %d, want 1", stats.LevelsCompleted)
	}
	if stats.Level != 2 || stats.Score != 630 || stats.Particles != 6 {
		t.Errorf("level/score/particles = %d/%d/%d", stats.Level, stats.Score, stats.Particles)
	}
	if math.Abs(stats.FuelMean-55) > 1e-9 {
		t.Errorf("fuel mean = %v, want 55", stats.FuelMean)
	}
	if stats.SpeedMean != 2 {
		t.Errorf("speed mean = %v, want 2", stats.SpeedMean)
	}

	// Counters reset after flush.
	next := c.Flush(120, 2, 630, Population{})
	if next.Hits != 0 || next.Bombs != 0 || next.ScoreGained != 0 || next.FuelMean != 0 {
		t.Errorf("counters not reset: %+v", next)
	}
	if next.WindowStartTick != 60 {
		t.Errorf("next window start = %d, want 60", next.WindowStartTick)
	}
}

func TestNewCollector_ClampsArguments(t *testing.T) {
	c := NewCollector(0, 0)
	if c.WindowDurationTicks() != 1 {
		t.Errorf("window = %d, want 1", c.WindowDurationTicks())
	}
	c.Sample(1, 1)
	if s := c.Flush(60, 1, 0, Population{}); s.SimTimeSec != 1 {
		t.Errorf("sim time = %v, want 1 (default 60 fps)", s.SimTimeSec)
	}
}
