package main

import (
	"github.com/pthm-cable/ecosim/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "mutation_rate", Path: "mutation.rate", Min: 0.01, Max: 0.5, Default: 0.1},
			{Name: "food_spawn_rate", Path: "food.spawn_rate", Min: 1, Max: 50, Default: 5},
			{Name: "predator_ratio", Path: "population.predator_ratio", Min: 0.05, Max: 0.5, Default: 0.1},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values.
func (pv *ParamVector) DefaultVector() []float64 {
	x := make([]float64, len(pv.Specs))
	for i, s := range pv.Specs {
		x[i] = s.Default
	}
	return x
}

// Normalize maps raw parameter values to [0, 1].
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	x := make([]float64, len(raw))
	for i, s := range pv.Specs {
		x[i] = (raw[i] - s.Min) / (s.Max - s.Min)
	}
	return x
}

// Denormalize maps [0, 1] values back to raw parameter ranges.
func (pv *ParamVector) Denormalize(x []float64) []float64 {
	raw := make([]float64, len(x))
	for i, s := range pv.Specs {
		raw[i] = s.Min + x[i]*(s.Max-s.Min)
	}
	return raw
}

// Clamp restricts raw values to their bounds.
func (pv *ParamVector) Clamp(raw []float64) []float64 {
	out := make([]float64, len(raw))
	for i, s := range pv.Specs {
		v := raw[i]
		if v < s.Min {
			v = s.Min
		}
		if v > s.Max {
			v = s.Max
		}
		out[i] = v
	}
	return out
}

// ApplyToConfig writes clamped parameter values into cfg, in Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, raw []float64) {
	clamped := pv.Clamp(raw)
	cfg.Mutation.Rate = clamped[0]
	cfg.Food.SpawnRate = clamped[1]
	cfg.Population.PredatorRatio = clamped[2]
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Mutation.Rate,
		cfg.Food.SpawnRate,
		cfg.Population.PredatorRatio,
	}
}
