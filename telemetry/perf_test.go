package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_PhaseShares(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseMotion)
		time.Sleep(50 * time.Microsecond)
		pc.StartPhase(PhaseCollisions)
		time.Sleep(500 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.Ticks != 5 {
		t.Errorf("ticks = %d, want 5", stats.Ticks)
	}
	if stats.TickUS.Mean <= 0 || stats.MaxUS < stats.TickUS.Mean {
		t.Errorf("tick timing = %+v max %v", stats.TickUS, stats.MaxUS)
	}
	motion, coll := stats.PhasePct[PhaseMotion], stats.PhasePct[PhaseCollisions]
	if coll <= motion {
		t.Errorf("collisions %.1f%% should exceed motion %.1f%%", coll, motion)
	}
	if sum := motion + coll; sum > 100.0001 {
		t.Errorf("phase shares sum to %v", sum)
	}
	if stats.PhasePct[PhaseSpawn] != 0 {
		t.Errorf("untimed phase has share %v", stats.PhasePct[PhaseSpawn])
	}
}

func TestPerfCollector_WindowWraps(t *testing.T) {
	pc := NewPerfCollector(4)
	for i := 0; i < 10; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseCompact)
		pc.EndTick()
	}
	stats := pc.Stats()
	if stats.Ticks != 4 {
		t.Errorf("ticks = %d, want window of 4", stats.Ticks)
	}
}

func TestPerfCollector_EmptyAndNil(t *testing.T) {
	if s := NewPerfCollector(0).Stats(); s.Ticks != 0 || s.TicksPerSecond() != 0 {
		t.Errorf("empty stats = %+v", s)
	}

	var pc *PerfCollector
	pc.StartTick()
	pc.StartPhase(PhaseMotion)
	pc.EndTick()
	pc.RecordFrame()
	if s := pc.Stats(); s.Ticks != 0 {
		t.Errorf("nil collector stats = %+v", s)
	}
}

func TestPerfCollector_FrameTiming(t *testing.T) {
	pc := NewPerfCollector(10)
	pc.RecordFrame()
	time.Sleep(20 * time.Millisecond)
	pc.RecordFrame()

	fps := pc.Stats().FPS
	if fps <= 0 || fps > 55 {
		t.Errorf("fps = %v, want (0, 55] for a 20ms frame", fps)
	}
}

func TestPhaseString(t *testing.T) {
	if PhaseCompact.String() != "compact" {
		t.Errorf("PhaseCompact = %q", PhaseCompact.String())
	}
	if Phase(99).String() != "unknown" {
		t.Errorf("out of range phase = %q", Phase(99).String())
	}
}

func TestPerfStats_ToCSV(t *testing.T) {
	var stats PerfStats
	stats.TickUS.Mean = 250
	stats.PhasePct[PhaseMotion] = 40
	stats.PhasePct[PhaseCompact] = 5

	row := stats.ToCSV(600)
	if row.WindowEnd != 600 || row.TickUSMean != 250 {
		t.Errorf("row = %+v", row)
	}
	if row.MotionPct != 40 || row.CompactPct != 5 || row.SpawnPct != 0 {
		t.Errorf("phase shares not mapped: %+v", row)
	}
	if stats.TicksPerSecond() != 4000 {
		t.Errorf("ticks/sec = %v, want 4000", stats.TicksPerSecond())
	}
}
