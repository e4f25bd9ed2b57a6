// Package config provides configuration loading for the ecosystem simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
// It is passed explicitly to every component that needs it.
type Config struct {
	World        WorldConfig        `yaml:"world"`
	Population   PopulationConfig   `yaml:"population"`
	Species      SpeciesConfig      `yaml:"species"`
	Reproduction ReproductionConfig `yaml:"reproduction"`
	Mutation     MutationConfig     `yaml:"mutation"`
	Plants       PlantConfig        `yaml:"plants"`
	Food         FoodConfig         `yaml:"food"`
	Death        DeathConfig        `yaml:"death"`
	Predation    PredationConfig    `yaml:"predation"`
	Fitness      FitnessConfig      `yaml:"fitness"`
	Neural       NeuralConfig       `yaml:"neural"`
	Simulation   SimulationConfig   `yaml:"simulation"`
	Telemetry    TelemetryConfig    `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// WorldConfig holds world dimensions. Both axes wrap.
type WorldConfig struct {
	Width        float64 `yaml:"width"`
	Height       float64 `yaml:"height"`
	GridCellSize float64 `yaml:"grid_cell_size"`
}

// PopulationConfig holds population sizes, caps and floors.
type PopulationConfig struct {
	Initial          int     `yaml:"initial"`
	InitialPlants    int     `yaml:"initial_plants"`
	MaxCreatures     int     `yaml:"max_creatures"`
	MaxPlants        int     `yaml:"max_plants"`
	PredatorRatio    float64 `yaml:"predator_ratio"`
	RespawnThreshold int     `yaml:"respawn_threshold"` // Respawn when fewer creatures than this
	RespawnCount     int     `yaml:"respawn_count"`
	PlantFloor       int     `yaml:"plant_floor"` // Top up when fewer plants than this
	PlantFloorSpawn  int     `yaml:"plant_floor_spawn"`
}

// SpeciesConfig holds the per-role phenotype constants.
type SpeciesConfig struct {
	Herbivore RoleConfig `yaml:"herbivore"`
	Predator  RoleConfig `yaml:"predator"`
}

// RoleConfig holds fixed phenotype constants for one role.
type RoleConfig struct {
	Radius                float64 `yaml:"radius"`
	MaxSpeed              float64 `yaml:"max_speed"`
	MaxEnergy             float64 `yaml:"max_energy"`
	InitialEnergyFraction float64 `yaml:"initial_energy_fraction"`
	BaseCost              float64 `yaml:"base_cost"`
	ReproductionCost      float64 `yaml:"reproduction_cost"`
	ReproductionThreshold float64 `yaml:"reproduction_threshold"`
	ViewDistance          float64 `yaml:"view_distance"`
	MaxAgeBase            int     `yaml:"max_age_base"`
	MaxAgeJitter          int     `yaml:"max_age_jitter"`
}

// Role returns the role constants for predators or herbivores.
func (s *SpeciesConfig) Role(predator bool) *RoleConfig {
	if predator {
		return &s.Predator
	}
	return &s.Herbivore
}

// ReproductionConfig holds mating and offspring placement parameters.
type ReproductionConfig struct {
	MateRadius         float64 `yaml:"mate_radius"`
	MaturityAge        int     `yaml:"maturity_age"`
	DriveThreshold     float64 `yaml:"drive_threshold"`
	SexualCooldown     int     `yaml:"sexual_cooldown"`
	AsexualCooldown    int     `yaml:"asexual_cooldown"`
	AsexualFactor      float64 `yaml:"asexual_factor"` // Threshold and cost multiplier for asexual fallback
	SexualJitter       float64 `yaml:"sexual_jitter"`
	AsexualOffset      float64 `yaml:"asexual_offset"`
	ColorJitter        float64 `yaml:"color_jitter"`
	RefundOnCapReached bool    `yaml:"refund_on_cap_reached"` // Return the cost when the child is rejected at cap
}

// MutationConfig holds mutation parameters.
type MutationConfig struct {
	Rate     float64 `yaml:"rate"`
	Strength float64 `yaml:"strength"` // Perturbation drawn from U(-strength, strength)
}

// PlantConfig holds plant phenotype parameters.
type PlantConfig struct {
	MinRadius      float64 `yaml:"min_radius"`
	RadiusJitter   float64 `yaml:"radius_jitter"`
	RadiusScale    float64 `yaml:"radius_scale"` // Radius = min_radius + ratio * radius_scale
	BaseEnergy     float64 `yaml:"base_energy"`
	EnergyJitter   float64 `yaml:"energy_jitter"`
	MaxEnergy      float64 `yaml:"max_energy"`
	BaseGrowthRate float64 `yaml:"base_growth_rate"`
	GrowthJitter   float64 `yaml:"growth_jitter"`
}

// FoodConfig holds random plant spawning parameters.
type FoodConfig struct {
	SpawnRate float64 `yaml:"spawn_rate"` // Percent chance per tick of one new plant
}

// DeathConfig holds nutrient drop parameters.
type DeathConfig struct {
	NutrientChance   float64 `yaml:"nutrient_chance"`
	NutrientFraction float64 `yaml:"nutrient_fraction"`
}

// PredationConfig holds predator feeding parameters.
type PredationConfig struct {
	EnergyFraction float64 `yaml:"energy_fraction"`
	FoodCredit     int     `yaml:"food_credit"`
}

// FitnessConfig holds the weights of the fitness score.
type FitnessConfig struct {
	SurvivalWeight float64 `yaml:"survival_weight"`
	FoodWeight     float64 `yaml:"food_weight"`
	ChildrenWeight float64 `yaml:"children_weight"`
	EnergyWeight   float64 `yaml:"energy_weight"`
}

// NeuralConfig holds brain dimensions and steering parameters.
type NeuralConfig struct {
	NumHidden int     `yaml:"num_hidden"`
	TurnRate  float64 `yaml:"turn_rate"`
	SpeedCost float64 `yaml:"speed_cost"` // Energy per unit of |vx|+|vy|
}

// SimulationConfig holds scheduler parameters.
type SimulationConfig struct {
	Speed       int `yaml:"speed"`        // Steps per Update call
	MaxSpeed    int `yaml:"max_speed"`
	Workers     int `yaml:"workers"`      // 0 = GOMAXPROCS
	ParallelMin int `yaml:"parallel_min"` // Creature count below which thinking runs inline
}

// TelemetryConfig holds statistics parameters.
type TelemetryConfig struct {
	StatsInterval       int `yaml:"stats_interval"`
	HistoryLength       int `yaml:"history_length"`
	PerfCollectorWindow int `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	NumInputs  int
	NumOutputs int
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.Validate()
	cfg.computeDerived()

	return cfg, nil
}

// MustLoad is like Load but panics on error.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(fmt.Sprintf("config: failed to load: %v", err))
	}
	return cfg
}

// Default returns a config built from the embedded defaults only.
func Default() *Config {
	return MustLoad("")
}

// Clone returns an independent copy of the config.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// Validate clamps the caller-settable knobs to their allowed ranges.
func (c *Config) Validate() {
	if c.World.Width < 1 {
		c.World.Width = 1
	}
	if c.World.Height < 1 {
		c.World.Height = 1
	}
	if c.World.GridCellSize <= 0 {
		c.World.GridCellSize = 1
	}
	c.Population.MaxCreatures = max(c.Population.MaxCreatures, 0)
	c.Population.MaxPlants = max(c.Population.MaxPlants, 0)
	c.Population.Initial = clampInt(c.Population.Initial, 0, c.Population.MaxCreatures)
	c.Population.PredatorRatio = clampFloat(c.Population.PredatorRatio, 0, 1)
	c.Mutation.Rate = clampFloat(c.Mutation.Rate, 0, 1)
	c.Food.SpawnRate = clampFloat(c.Food.SpawnRate, 0, 100)
	if c.Simulation.MaxSpeed < 1 {
		c.Simulation.MaxSpeed = 1
	}
	c.Simulation.Speed = clampInt(c.Simulation.Speed, 1, c.Simulation.MaxSpeed)
	if c.Telemetry.StatsInterval < 1 {
		c.Telemetry.StatsInterval = 1
	}
	if c.Telemetry.HistoryLength < 1 {
		c.Telemetry.HistoryLength = 1
	}
	if c.Neural.NumHidden < 1 {
		c.Neural.NumHidden = 1
	}
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.NumInputs = 8  // food dx,dy + prey dx,dy + threat dx,dy + energy + noise
	c.Derived.NumOutputs = 4 // turn, speed, reproduction drive, intensity
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
