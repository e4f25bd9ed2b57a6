// Package telemetry provides population statistics, history and performance tracking.
package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Snapshot holds the population summary taken every stats interval,
// together with the events counted since the previous snapshot.
type Snapshot struct {
	Tick       int64 `csv:"tick"`
	Herbivores int   `csv:"herbivores"`
	Predators  int   `csv:"predators"`
	Plants     int   `csv:"plants"`
	Generation int   `csv:"generation"`

	// Fitness is floored to whole points
	BestFitness int     `csv:"best_fitness"`
	AvgFitness  int     `csv:"avg_fitness"`
	FitnessStd  float64 `csv:"fitness_std"`

	// Energy distribution at snapshot time
	HerbivoreEnergyMean float64 `csv:"herbivore_energy_mean"`
	HerbivoreEnergyP50  float64 `csv:"herbivore_energy_p50"`
	PredatorEnergyMean  float64 `csv:"predator_energy_mean"`
	PredatorEnergyP50   float64 `csv:"predator_energy_p50"`

	// Events during window
	HerbivoreBirths int `csv:"herbivore_births"`
	PredatorBirths  int `csv:"predator_births"`
	SexualBirths    int `csv:"sexual_births"`
	AsexualBirths   int `csv:"asexual_births"`
	RejectedBirths  int `csv:"rejected_births"`
	HerbivoreDeaths int `csv:"herbivore_deaths"`
	PredatorDeaths  int `csv:"predator_deaths"`
	Starvations     int `csv:"starvations"`
	OldAgeDeaths    int `csv:"old_age_deaths"`
	Kills           int `csv:"kills"`
	PlantsEaten     int `csv:"plants_eaten"`
	PlantsSpawned   int `csv:"plants_spawned"`
	Respawns        int `csv:"respawns"`
}

// Census is the population state sampled by the simulation at snapshot time.
type Census struct {
	Herbivores        int
	Predators         int
	Plants            int
	Generation        int
	Fitness           []float64
	HerbivoreEnergies []float64
	PredatorEnergies  []float64
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

// ComputeEnergyStats calculates mean and median from energy values.
func ComputeEnergyStats(values []float64) (mean, p50 float64) {
	if len(values) == 0 {
		return 0, 0
	}
	mean = stat.Mean(values, nil)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	p50 = Percentile(sorted, 0.50)

	return mean, p50
}

// ComputeFitnessStats returns the floored best and average fitness and the
// standard deviation. All are zero for an empty population.
func ComputeFitnessStats(values []float64) (best, avg int, std float64) {
	if len(values) == 0 {
		return 0, 0, 0
	}
	best = int(math.Floor(floats.Max(values)))
	mean, sd := stat.MeanStdDev(values, nil)
	avg = int(math.Floor(mean))
	if len(values) > 1 {
		std = sd
	}
	return best, avg, std
}

// LogValue implements slog.LogValuer for structured logging.
func (s Snapshot) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("tick", s.Tick),
		slog.Int("herbivores", s.Herbivores),
		slog.Int("predators", s.Predators),
		slog.Int("plants", s.Plants),
		slog.Int("generation", s.Generation),
		slog.Int("best_fitness", s.BestFitness),
		slog.Int("avg_fitness", s.AvgFitness),
		slog.Float64("fitness_std", s.FitnessStd),
		slog.Float64("herbivore_energy_mean", s.HerbivoreEnergyMean),
		slog.Float64("predator_energy_mean", s.PredatorEnergyMean),
		slog.Int("herbivore_births", s.HerbivoreBirths),
		slog.Int("predator_births", s.PredatorBirths),
		slog.Int("sexual_births", s.SexualBirths),
		slog.Int("asexual_births", s.AsexualBirths),
		slog.Int("rejected_births", s.RejectedBirths),
		slog.Int("herbivore_deaths", s.HerbivoreDeaths),
		slog.Int("predator_deaths", s.PredatorDeaths),
		slog.Int("starvations", s.Starvations),
		slog.Int("old_age_deaths", s.OldAgeDeaths),
		slog.Int("kills", s.Kills),
		slog.Int("plants_eaten", s.PlantsEaten),
		slog.Int("plants_spawned", s.PlantsSpawned),
		slog.Int("respawns", s.Respawns),
	)
}

// LogStats logs the snapshot using slog.
func (s Snapshot) LogStats() {
	slog.Info("stats", "snapshot", s)
}
