package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int64   `csv:"-"`
	WindowEndTick   int64   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Progression at window end
	Level int `csv:"level"`
	Score int `csv:"score"`

	// Population counts at window end
	Hazards      int `csv:"hazards"`
	Collectibles int `csv:"collectibles"`
	Effects      int `csv:"effects"`
	Particles    int `csv:"particles"`

	// Events during window
	Hits              int     `csv:"hits"`
	Collects          int     `csv:"collects"`
	CollectRate       float64 `csv:"collect_rate"` // Collects / (hits + collects)
	HazardHits        int     `csv:"hazard_hits"`
	Shielded          int     `csv:"shielded"`
	Bombs             int     `csv:"bombs"`
	HazardSpawns      int     `csv:"hazard_spawns"`
	CollectibleSpawns int     `csv:"collectible_spawns"`
	Expired           int     `csv:"expired"`
	ScoreGained       int     `csv:"score_gained"`
	LevelsCompleted   int     `csv:"levels_completed"`
	GameOvers         int     `csv:"game_overs"`

	// Fuel distribution (sampled every tick)
	FuelMean float64 `csv:"fuel_mean"`
	FuelStd  float64 `csv:"fuel_std"`
	FuelP10  float64 `csv:"fuel_p10"`
	FuelP50  float64 `csv:"fuel_p50"`
	FuelP90  float64 `csv:"fuel_p90"`

	// Ship speed
	SpeedMean float64 `csv:"speed_mean"`
	SpeedP90  float64 `csv:"speed_p90"`
}

// Summary is the distribution of a sample set.
type Summary struct {
	Mean, Std     float64
	P10, P50, P90 float64
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// Summarize computes mean, population standard deviation and percentiles.
func Summarize(values []float64) Summary {
	n := len(values)
	if n == 0 {
		return Summary{}
	}

	mean, variance := stat.PopMeanVariance(values, nil)
	std := math.Sqrt(math.Max(variance, 0))

	// Sort for percentiles
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	return Summary{
		Mean: mean,
		Std:  std,
		P10:  Percentile(sorted, 0.10),
		P50:  Percentile(sorted, 0.50),
		P90:  Percentile(sorted, 0.90),
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_start", s.WindowStartTick),
		slog.Int64("window_end", s.WindowEndTick),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("level", s.Level),
		slog.Int("score", s.Score),
		slog.Int("hazards", s.Hazards),
		slog.Int("collectibles", s.Collectibles),
		slog.Int("hits", s.Hits),
		slog.Int("collects", s.Collects),
		slog.Float64("collect_rate", s.CollectRate),
		slog.Int("hazard_hits", s.HazardHits),
		slog.Int("shielded", s.Shielded),
		slog.Int("bombs", s.Bombs),
		slog.Int("expired", s.Expired),
		slog.Int("score_gained", s.ScoreGained),
		slog.Int("levels_completed", s.LevelsCompleted),
		slog.Int("game_overs", s.GameOvers),
		slog.Float64("fuel_mean", s.FuelMean),
		slog.Float64("fuel_p10", s.FuelP10),
		slog.Float64("speed_mean", s.SpeedMean),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"level", s.Level,
		"score", s.Score,
		"hazards", s.Hazards,
		"collectibles", s.Collectibles,
		"effects", s.Effects,
		"particles", s.Particles,
		"hits", s.Hits,
		"collects", s.Collects,
		"collect_rate", s.CollectRate,
		"hazard_hits", s.HazardHits,
		"shielded", s.Shielded,
		"bombs", s.Bombs,
		"hazard_spawns", s.HazardSpawns,
		"collectible_spawns", s.CollectibleSpawns,
		"expired", s.Expired,
		"score_gained", s.ScoreGained,
		"levels_completed", s.LevelsCompleted,
		"game_overs", s.GameOvers,
		"fuel_mean", s.FuelMean,
		"fuel_std", s.FuelStd,
		"fuel_p10", s.FuelP10,
		"fuel_p50", s.FuelP50,
		"fuel_p90", s.FuelP90,
		"speed_mean", s.SpeedMean,
		"speed_p90", s.SpeedP90,
	)
}
