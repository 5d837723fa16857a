// Package telemetry provides run statistics, CSV output, performance timing,
// the high-score leaderboard and save-file helpers.
package telemetry

// Collector accumulates gameplay events within tick windows and produces WindowStats.
type Collector struct {
	windowDurationTicks int64
	fps                 float64

	// Current window tracking
	windowStartTick int64

	// Event counters for current window
	hits              int
	collects          int
	hazardHits        int
	shielded          int
	bombs             int
	hazardSpawns      int
	collectibleSpawns int
	expired           int
	scoreGained       int
	levelsCompleted   int
	gameOvers         int

	// Per-tick samples for distribution stats
	fuelSamples  []float64
	speedSamples []float64
}

// NewCollector creates a new stats collector.
// ticksPerWindow: how many ticks each stats window spans
// fps: ticks per simulated second (used for tick-to-time conversion)
func NewCollector(ticksPerWindow int, fps float64) *Collector {
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}
	if fps <= 0 {
		fps = 60
	}
	return &Collector{
		windowDurationTicks: int64(ticksPerWindow),
		fps:                 fps,
		fuelSamples:         make([]float64, 0, ticksPerWindow),
		speedSamples:        make([]float64, 0, ticksPerWindow),
	}
}

// RecordHit records a collectible hit that did not complete a collection.
func (c *Collector) RecordHit(n int) { c.hits += n }

// RecordCollect records absorbed collectibles.
func (c *Collector) RecordCollect(n int) { c.collects += n }

// RecordHazardHit records unshielded hazard contacts.
func (c *Collector) RecordHazardHit(n int) { c.hazardHits += n }

// RecordShielded records hazard contacts absorbed by safe time.
func (c *Collector) RecordShielded(n int) { c.shielded += n }

// RecordBomb records a bomb activation.
func (c *Collector) RecordBomb() { c.bombs++ }

// RecordSpawns records spawns by category.
func (c *Collector) RecordSpawns(hazards, collectibles int) {
	c.hazardSpawns += hazards
	c.collectibleSpawns += collectibles
}

// RecordExpired records hazards that reached their target or left the world.
func (c *Collector) RecordExpired(n int) { c.expired += n }

// RecordScore records score gained.
func (c *Collector) RecordScore(delta int) {
	if delta > 0 {
		c.scoreGained += delta
	}
}

// RecordLevelComplete records a finished level.
func (c *Collector) RecordLevelComplete() { c.levelsCompleted++ }

// RecordGameOver records a finished run.
func (c *Collector) RecordGameOver() { c.gameOvers++ }

// Sample records the ship state for one tick.
func (c *Collector) Sample(fuel, speed float64) {
	c.fuelSamples = append(c.fuelSamples, fuel)
	c.speedSamples = append(c.speedSamples, speed)
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int64) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Population holds entity counts at flush time.
type Population struct {
	Hazards      int
	Collectibles int
	Effects      int
	Particles    int
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int64, level, score int, pop Population) WindowStats {
	fuel := Summarize(c.fuelSamples)
	speed := Summarize(c.speedSamples)

	var collectRate float64
	if c.hits+c.collects > 0 {
		collectRate = float64(c.collects) / float64(c.hits+c.collects)
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) / c.fps,

		Level: level,
		Score: score,

		Hazards:      pop.Hazards,
		Collectibles: pop.Collectibles,
		Effects:      pop.Effects,
		Particles:    pop.Particles,

		Hits:              c.hits,
		Collects:          c.collects,
		CollectRate:       collectRate,
		HazardHits:        c.hazardHits,
		Shielded:          c.shielded,
		Bombs:             c.bombs,
		HazardSpawns:      c.hazardSpawns,
		CollectibleSpawns: c.collectibleSpawns,
		Expired:           c.expired,
		ScoreGained:       c.scoreGained,
		LevelsCompleted:   c.levelsCompleted,
		GameOvers:         c.gameOvers,

		FuelMean: fuel.Mean,
		FuelStd:  fuel.Std,
		FuelP10:  fuel.P10,
		FuelP50:  fuel.P50,
		FuelP90:  fuel.P90,

		SpeedMean: speed.Mean,
		SpeedP90:  speed.P90,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.hits = 0
	c.collects = 0
	c.hazardHits = 0
	c.shielded = 0
	c.bombs = 0
	c.hazardSpawns = 0
	c.collectibleSpawns = 0
	c.expired = 0
	c.scoreGained = 0
	c.levelsCompleted = 0
	c.gameOvers = 0
	c.fuelSamples = c.fuelSamples[:0]
	c.speedSamples = c.speedSamples[:0]

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int64 {
	return c.windowDurationTicks
}
