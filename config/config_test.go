package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"initial", float64(cfg.Population.Initial), 20},
		{"max_creatures", float64(cfg.Population.MaxCreatures), 100},
		{"max_plants", float64(cfg.Population.MaxPlants), 150},
		{"predator_ratio", cfg.Population.PredatorRatio, 0.1},
		{"mutation_rate", cfg.Mutation.Rate, 0.1},
		{"spawn_rate", cfg.Food.SpawnRate, 5},
		{"herbivore_max_energy", cfg.Species.Herbivore.MaxEnergy, 100},
		{"predator_max_energy", cfg.Species.Predator.MaxEnergy, 150},
		{"predator_view", cfg.Species.Predator.ViewDistance, 150},
		{"herbivore_view", cfg.Species.Herbivore.ViewDistance, 100},
		{"mate_radius", cfg.Reproduction.MateRadius, 50},
		{"num_inputs", float64(cfg.Derived.NumInputs), 8},
		{"num_outputs", float64(cfg.Derived.NumOutputs), 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestLoadOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "override.yaml")
	data := []byte("mutation:\n  rate: 0.25\npopulation:\n  predator_ratio: 3\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Mutation.Rate != 0.25 {
		t.Errorf("Mutation.Rate = %v, want 0.25", cfg.Mutation.Rate)
	}
	// Out of range values are clamped
	if cfg.Population.PredatorRatio != 1 {
		t.Errorf("PredatorRatio = %v, want 1", cfg.Population.PredatorRatio)
	}
	// Untouched fields keep their defaults
	if cfg.Mutation.Strength != 0.5 {
		t.Errorf("Mutation.Strength = %v, want 0.5", cfg.Mutation.Strength)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Food.SpawnRate = 12

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Food.SpawnRate != 12 {
		t.Errorf("SpawnRate = %v, want 12", loaded.Food.SpawnRate)
	}
}

func TestRole(t *testing.T) {
	cfg := Default()
	if cfg.Species.Role(true).Radius != 10 {
		t.Errorf("predator radius = %v, want 10", cfg.Species.Role(true).Radius)
	}
	if cfg.Species.Role(false).Radius != 7 {
		t.Errorf("herbivore radius = %v, want 7", cfg.Species.Role(false).Radius)
	}
}

func TestValidateWorldAndCaps(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.yaml")
	data := []byte("world:\n  width: 0\n  height: -5\n  grid_cell_size: 0\npopulation:\n  max_creatures: -3\n  max_plants: -1\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.World.Width < 1 || cfg.World.Height < 1 {
		t.Errorf("world = %vx%v, want both >= 1", cfg.World.Width, cfg.World.Height)
	}
	if cfg.World.GridCellSize <= 0 {
		t.Errorf("GridCellSize = %v, want > 0", cfg.World.GridCellSize)
	}
	if cfg.Population.MaxCreatures != 0 || cfg.Population.MaxPlants != 0 {
		t.Errorf("caps = %d/%d, want 0/0", cfg.Population.MaxCreatures, cfg.Population.MaxPlants)
	}
	if cfg.Population.Initial != 0 {
		t.Errorf("Initial = %d, want clamped to the creature cap", cfg.Population.Initial)
	}
}
