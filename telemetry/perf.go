package telemetry

import (
	"log/slog"
	"time"
)

// Phase is one stage of the tick pipeline.
type Phase int

// Pipeline phases, in execution order.
const (
	PhaseCountdowns Phase = iota
	PhaseMotion
	PhaseCollisions
	PhaseSpawn
	PhaseEffects
	PhaseCamera
	PhaseCompact
	PhaseTelemetry
	numPhases
)

var phaseNames = [numPhases]string{
	"countdowns", "motion", "collisions", "spawn",
	"effects", "camera", "compact", "telemetry",
}

func (p Phase) String() string {
	if p < 0 || p >= numPhases {
		return "unknown"
	}
	return phaseNames[p]
}

type phaseTimes [numPhases]time.Duration

// PerfCollector times pipeline phases over a rolling window of ticks.
// A nil collector records nothing, so callers need no guards.
type PerfCollector struct {
	ticks  []time.Duration
	phases []phaseTimes
	next   int
	filled int

	cur        phaseTimes
	phase      Phase
	inPhase    bool
	tickStart  time.Time
	phaseStart time.Time

	lastFrame time.Time
	frame     time.Duration
}

// NewPerfCollector keeps the last window ticks; window < 1 means 60.
func NewPerfCollector(window int) *PerfCollector {
	if window < 1 {
		window = 60
	}
	return &PerfCollector{
		ticks:  make([]time.Duration, window),
		phases: make([]phaseTimes, window),
	}
}

// StartTick begins timing a tick.
func (p *PerfCollector) StartTick() {
	if p == nil {
		return
	}
	p.tickStart = time.Now()
	p.cur = phaseTimes{}
	p.inPhase = false
}

// StartPhase closes the running phase, if any, and opens ph.
func (p *PerfCollector) StartPhase(ph Phase) {
	if p == nil {
		return
	}
	now := time.Now()
	p.closePhase(now)
	p.phase, p.inPhase, p.phaseStart = ph, true, now
}

// EndTick closes the last phase and stores the tick in the window.
func (p *PerfCollector) EndTick() {
	if p == nil {
		return
	}
	now := time.Now()
	p.closePhase(now)
	p.ticks[p.next] = now.Sub(p.tickStart)
	p.phases[p.next] = p.cur
	p.next = (p.next + 1) % len(p.ticks)
	if p.filled < len(p.ticks) {
		p.filled++
	}
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.inPhase && p.phase >= 0 && p.phase < numPhases {
		p.cur[p.phase] += now.Sub(p.phaseStart)
	}
	p.inPhase = false
}

// RecordFrame marks a rendered frame; the gap to the previous one is the
// frame time.
func (p *PerfCollector) RecordFrame() {
	if p == nil {
		return
	}
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frame = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats summarises the window. Tick times are in microseconds.
type PerfStats struct {
	Ticks    int
	TickUS   Summary
	MaxUS    float64
	PhasePct [numPhases]float64 // Share of mean tick time
	FPS      float64
}

// Stats aggregates the current window.
func (p *PerfCollector) Stats() PerfStats {
	var s PerfStats
	if p == nil {
		return s
	}
	if p.frame > 0 {
		s.FPS = float64(time.Second) / float64(p.frame)
	}
	if p.filled == 0 {
		return s
	}

	us := make([]float64, p.filled)
	var total time.Duration
	var sums phaseTimes
	for i := 0; i < p.filled; i++ {
		us[i] = float64(p.ticks[i]) / float64(time.Microsecond)
		if us[i] > s.MaxUS {
			s.MaxUS = us[i]
		}
		total += p.ticks[i]
		for ph, d := range p.phases[i] {
			sums[ph] += d
		}
	}
	s.Ticks = p.filled
	s.TickUS = Summarize(us)
	if total > 0 {
		for ph, d := range sums {
			s.PhasePct[ph] = float64(d) / float64(total) * 100
		}
	}
	return s
}

// TicksPerSecond is the throughput implied by the mean tick time.
func (s PerfStats) TicksPerSecond() float64 {
	if s.TickUS.Mean <= 0 {
		return 0
	}
	return 1e6 / s.TickUS.Mean
}

// LogValue implements slog.LogValuer.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Float64("tick_us_mean", s.TickUS.Mean),
		slog.Float64("tick_us_p90", s.TickUS.P90),
		slog.Float64("tick_us_max", s.MaxUS),
		slog.Int("ticks_per_sec", int(s.TicksPerSecond())),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Int("fps", int(s.FPS)))
	}
	for ph, pct := range s.PhasePct {
		if pct > 0.1 {
			attrs = append(attrs, slog.Float64(Phase(ph).String()+"_pct", float64(int(pct*10))/10))
		}
	}
	return slog.GroupValue(attrs...)
}

// LogStats logs the window at info level.
func (s PerfStats) LogStats() {
	slog.Info("perf", "stats", s)
}

// PerfStatsCSV is one perf.csv row.
type PerfStatsCSV struct {
	WindowEnd     int64   `csv:"window_end"`
	TickUSMean    float64 `csv:"tick_us_mean"`
	TickUSP90     float64 `csv:"tick_us_p90"`
	TickUSMax     float64 `csv:"tick_us_max"`
	FPS           float64 `csv:"fps"`
	CountdownsPct float64 `csv:"countdowns_pct"`
	MotionPct     float64 `csv:"motion_pct"`
	CollisionsPct float64 `csv:"collisions_pct"`
	SpawnPct      float64 `csv:"spawn_pct"`
	EffectsPct    float64 `csv:"effects_pct"`
	CameraPct     float64 `csv:"camera_pct"`
	CompactPct    float64 `csv:"compact_pct"`
	TelemetryPct  float64 `csv:"telemetry_pct"`
}

// ToCSV flattens the stats for the window ending at windowEnd.
func (s PerfStats) ToCSV(windowEnd int64) PerfStatsCSV {
	pct := s.PhasePct
	return PerfStatsCSV{
		WindowEnd:     windowEnd,
		TickUSMean:    s.TickUS.Mean,
		TickUSP90:     s.TickUS.P90,
		TickUSMax:     s.MaxUS,
		FPS:           s.FPS,
		CountdownsPct: pct[PhaseCountdowns],
		MotionPct:     pct[PhaseMotion],
		CollisionsPct: pct[PhaseCollisions],
		SpawnPct:      pct[PhaseSpawn],
		EffectsPct:    pct[PhaseEffects],
		CameraPct:     pct[PhaseCamera],
		CompactPct:    pct[PhaseCompact],
		TelemetryPct:  pct[PhaseTelemetry],
	}
}
