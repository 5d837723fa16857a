package main

import (
	"math"
	"sync"

	"github.com/pthm-cable/galaxy/config"
	"github.com/pthm-cable/galaxy/game"
)

// FitnessEvaluator runs autopilot games and scores how close their mean
// survival lands to the target.
type FitnessEvaluator struct {
	params     *ParamVector
	maxTicks   int64
	target     float64 // Desired mean survival in ticks
	seeds      []uint64
	baseConfig *config.Config

	mu   sync.Mutex
	last Evaluation
}

// Evaluation is the outcome of one parameter vector across all seeds.
type Evaluation struct {
	Fitness      float64 `csv:"fitness"`
	MeanSurvival float64 `csv:"mean_survival"`
	BestScore    int     `csv:"best_score"`
	MaxLevel     int     `csv:"max_level"`
	GameOvers    int     `csv:"game_overs"`
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int64, target float64, seeds []uint64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		maxTicks:   maxTicks,
		target:     target,
		seeds:      seeds,
		baseConfig: baseCfg,
	}
}

// Last returns the most recent evaluation.
func (fe *FitnessEvaluator) Last() Evaluation {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.last
}

// Evaluate runs one headless game per seed with the given raw parameters.
// Lower is better; 0 means every seed's mean survival hit the target.
func (fe *FitnessEvaluator) Evaluate(raw []float64) float64 {
	cfg := fe.baseConfig.Clone()
	fe.params.ApplyToConfig(cfg, raw)

	var ev Evaluation
	var survival float64
	for _, seed := range fe.seeds {
		g := game.New(game.Options{Config: cfg, Seed: seed})
		res := game.RunHeadless(g, game.NewAutopilot(), fe.maxTicks)
		g.Unload()

		survival += res.MeanSurvival
		ev.GameOvers += res.GameOvers
		if res.BestScore > ev.BestScore {
			ev.BestScore = res.BestScore
		}
		if res.MaxLevel > ev.MaxLevel {
			ev.MaxLevel = res.MaxLevel
		}
	}
	ev.MeanSurvival = survival / float64(len(fe.seeds))

	// Relative squared error so the scale does not depend on the target.
	rel := (ev.MeanSurvival - fe.target) / fe.target
	ev.Fitness = rel * rel

	// Parameters outside the bounds are clamped; nudge the search back inside.
	clamped := fe.params.Clamp(raw)
	for i := range raw {
		span := fe.params.Specs[i].Max - fe.params.Specs[i].Min
		ev.Fitness += math.Abs(raw[i]-clamped[i]) / span
	}

	fe.mu.Lock()
	fe.last = ev
	fe.mu.Unlock()
	return ev.Fitness
}
