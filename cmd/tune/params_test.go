package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/galaxy/config"
)

func TestParamVectorRoundTrip(t *testing.T) {
	cfg := config.Default()
	pv := NewParamVector(cfg)

	raw := pv.DefaultVector()
	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		if math.Abs(back[i]-raw[i]) > 1e-9 {
			t.Errorf("%s: %v -> %v", pv.Specs[i].Name, raw[i], back[i])
		}
	}
	extracted := pv.ExtractFromConfig(cfg)
	for i := range raw {
		if extracted[i] != raw[i] {
			t.Errorf("%s: extracted %v, default %v", pv.Specs[i].Name, extracted[i], raw[i])
		}
	}
}

func TestApplyToConfigClamps(t *testing.T) {
	cfg := config.Default()
	pv := NewParamVector(cfg)

	pv.ApplyToConfig(cfg, []float64{100, 1, -5, 0.05})

	if cfg.Hazard.BaseSpeed != pv.Specs[0].Max {
		t.Errorf("BaseSpeed = %v, want %v", cfg.Hazard.BaseSpeed, pv.Specs[0].Max)
	}
	if cfg.Hazard.MaxSpeed < cfg.Hazard.BaseSpeed {
		t.Errorf("MaxSpeed %v below BaseSpeed %v", cfg.Hazard.MaxSpeed, cfg.Hazard.BaseSpeed)
	}
	if cfg.Hazard.SpawnInterval < cfg.Hazard.IntervalFloor {
		t.Errorf("SpawnInterval %d below floor", cfg.Hazard.SpawnInterval)
	}
	if cfg.Fuel.CollisionPenalty != pv.Specs[2].Min {
		t.Errorf("CollisionPenalty = %v", cfg.Fuel.CollisionPenalty)
	}
	if cfg.Fuel.DrainPerTick != 0.05 {
		t.Errorf("DrainPerTick = %v", cfg.Fuel.DrainPerTick)
	}
}

func TestEvaluateIsDeterministic(t *testing.T) {
	cfg := config.Default()
	pv := NewParamVector(cfg)
	fe := NewFitnessEvaluator(pv, 600, 300, []uint64{1, 2}, cfg)

	a := fe.Evaluate(pv.DefaultVector())
	first := fe.Last()
	b := fe.Evaluate(pv.DefaultVector())
	if a != b || first != fe.Last() {
		t.Fatalf("evaluations differ: %v/%+v vs %v/%+v", a, first, b, fe.Last())
	}
	if first.MeanSurvival <= 0 {
		t.Errorf("mean survival = %v, want > 0", first.MeanSurvival)
	}
}
