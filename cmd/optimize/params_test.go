package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/ecosim/config"
	"github.com/pthm-cable/ecosim/telemetry"
)

func TestNormalizeRoundtrip(t *testing.T) {
	pv := NewParamVector()
	def := pv.DefaultVector()
	back := pv.Denormalize(pv.Normalize(def))
	for i := range def {
		if math.Abs(back[i]-def[i]) > 1e-12 {
			t.Errorf("%s: got %v, want %v", pv.Specs[i].Name, back[i], def[i])
		}
	}
}

func TestDefaultsMatchConfig(t *testing.T) {
	pv := NewParamVector()
	got := pv.ExtractFromConfig(config.Default())
	want := pv.DefaultVector()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s: config has %v, default vector has %v", pv.Specs[i].Name, got[i], want[i])
		}
	}
}

func TestApplyToConfigClamps(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Default()
	pv.ApplyToConfig(cfg, []float64{2, -10, 0.2})

	if cfg.Mutation.Rate != 0.5 {
		t.Errorf("mutation rate: got %v, want 0.5", cfg.Mutation.Rate)
	}
	if cfg.Food.SpawnRate != 1 {
		t.Errorf("spawn rate: got %v, want 1", cfg.Food.SpawnRate)
	}
	if cfg.Population.PredatorRatio != 0.2 {
		t.Errorf("predator ratio: got %v, want 0.2", cfg.Population.PredatorRatio)
	}
}

func TestComputeFitness(t *testing.T) {
	tests := []struct {
		ticks   int64
		quality float64
		want    float64
	}{
		{0, 1, 0},
		{1000, 0, -1000},
		{1000, 1, -1200},
		{500, 0.5, -550},
	}
	for _, tt := range tests {
		if got := computeFitness(tt.ticks, tt.quality); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("computeFitness(%d, %v) = %v, want %v", tt.ticks, tt.quality, got, tt.want)
		}
	}
}

func TestComputeQuality(t *testing.T) {
	cfg := config.Default()

	if q := computeQuality(cfg, nil); q != 0 {
		t.Errorf("no snapshots: got %v, want 0", q)
	}

	// Every snapshot past warmup has too few predators
	sparse := make([]telemetry.Snapshot, 10)
	for i := range sparse {
		sparse[i] = telemetry.Snapshot{Herbivores: 20, Predators: 1}
	}
	if q := computeQuality(cfg, sparse); q != 0 {
		t.Errorf("sparse predators: got %v, want 0", q)
	}

	steady := make([]telemetry.Snapshot, 10)
	for i := range steady {
		steady[i] = telemetry.Snapshot{
			Herbivores:         45,
			Predators:          5,
			HerbivoreEnergyP50: cfg.Species.Herbivore.MaxEnergy / 2,
			PredatorEnergyP50:  cfg.Species.Predator.MaxEnergy / 2,
			Kills:              5,
		}
	}
	q := computeQuality(cfg, steady)
	if q <= 0.9 || q > 1 {
		t.Errorf("steady ecosystem: got %v, want in (0.9, 1]", q)
	}
}

func TestCV(t *testing.T) {
	if got := cv([]float64{5, 5, 5}); got != 0 {
		t.Errorf("constant series: got %v, want 0", got)
	}
	if got := cv([]float64{0, 0}); got != 0 {
		t.Errorf("zero mean: got %v, want 0", got)
	}
	// mean 2, population std 1
	if got := cv([]float64{1, 3}); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("cv: got %v, want 0.5", got)
	}
}
