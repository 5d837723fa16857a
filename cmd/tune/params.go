package main

import (
	"github.com/pthm-cable/galaxy/config"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the difficulty parameters, with defaults taken from cfg.
func NewParamVector(cfg *config.Config) *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "hazard_speed", Path: "hazard.base_speed", Min: 0.5, Max: 6.0, Default: cfg.Hazard.BaseSpeed},
			{Name: "hazard_interval", Path: "hazard.spawn_interval", Min: 20, Max: 600, Default: float64(cfg.Hazard.SpawnInterval)},
			{Name: "collision_penalty", Path: "fuel.collision_penalty", Min: 1, Max: 60, Default: cfg.Fuel.CollisionPenalty},
			{Name: "fuel_drain", Path: "fuel.drain_per_tick", Min: 0.001, Max: 0.2, Default: cfg.Fuel.DrainPerTick},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := v[i]
		if val < spec.Min {
			val = spec.Min
		}
		if val > spec.Max {
			val = spec.Max
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig applies parameter values to cfg. Order matches Specs.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)

	cfg.Hazard.BaseSpeed = clamped[0]
	if cfg.Hazard.MaxSpeed < cfg.Hazard.BaseSpeed {
		cfg.Hazard.MaxSpeed = cfg.Hazard.BaseSpeed
	}
	cfg.Hazard.SpawnInterval = int(clamped[1] + 0.5)
	if cfg.Hazard.SpawnInterval < cfg.Hazard.IntervalFloor {
		cfg.Hazard.SpawnInterval = cfg.Hazard.IntervalFloor
	}
	cfg.Fuel.CollisionPenalty = clamped[2]
	cfg.Fuel.DrainPerTick = clamped[3]
	cfg.Recompute()
}

// ExtractFromConfig extracts current parameter values from cfg.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Hazard.BaseSpeed,
		float64(cfg.Hazard.SpawnInterval),
		cfg.Fuel.CollisionPenalty,
		cfg.Fuel.DrainPerTick,
	}
}
