package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/ecosim/config"
	"github.com/pthm-cable/ecosim/game"
	"github.com/pthm-cable/ecosim/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	maxTicks   int64
	seeds      []int64
	baseConfig *config.Config

	mu          sync.Mutex
	lastQuality float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int64, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		maxTicks:   maxTicks,
		seeds:      seeds,
		baseConfig: baseCfg,
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// warmupTicks skips the founding population before extinction checks.
const warmupTicks = 100

// runResult holds the results from a single simulation run.
type runResult struct {
	coexistTicks int64                // ticks both kinds were alive
	snapshots    []telemetry.Snapshot // collected via StatsCallback each interval
}

type seedResult struct {
	fitness float64
	quality float64
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Each seed runs on its own goroutine; results are averaged.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			cfg := fe.baseConfig.Clone()
			fe.params.ApplyToConfig(cfg, x)
			result := fe.runSimulation(cfg, s)
			quality := computeQuality(cfg, result.snapshots)
			results[idx] = seedResult{
				fitness: computeFitness(result.coexistTicks, quality),
				quality: quality,
			}
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalQuality float64
	for _, r := range results {
		totalFitness += r.fitness
		totalQuality += r.quality
	}
	n := float64(len(fe.seeds))

	fe.mu.Lock()
	fe.lastQuality = totalQuality / n
	fe.mu.Unlock()

	return totalFitness / n
}

// runSimulation executes a single headless run until either kind dies out
// or maxTicks is reached.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed int64) *runResult {
	result := &runResult{}

	g := game.NewGame(cfg, game.Options{
		Seed: seed,
		StatsCallback: func(s telemetry.Snapshot) {
			result.snapshots = append(result.snapshots, s)
		},
	})
	defer g.Close()

	for g.Tick() < fe.maxTicks {
		g.Step()

		if g.Tick() < warmupTicks {
			continue
		}
		herbivores, predators := g.Population()
		if herbivores == 0 || predators == 0 {
			result.coexistTicks = g.Tick()
			return result
		}
	}

	result.coexistTicks = fe.maxTicks
	return result
}

// computeFitness calculates the scalar fitness (lower = better).
// Formula: -(coexistTicks × (1.0 + 0.2 × quality))
// Coexistence dominates; quality adds up to 20% to separate close runs.
func computeFitness(coexistTicks int64, quality float64) float64 {
	return -(float64(coexistTicks) * (1.0 + 0.2*quality))
}

// Quality component weights.
const (
	qualityWeightRatio     = 0.30
	qualityWeightStability = 0.25
	qualityWeightEnergy    = 0.25
	qualityWeightHunting   = 0.20

	qualityWarmupSnapshots = 3 // skip first N snapshots
	qualityMinPop          = 3 // exclude snapshots where either kind < this
	targetRatio            = 9.0
)

// computeQuality computes ecosystem quality in [0, 1] from snapshots.
func computeQuality(cfg *config.Config, snapshots []telemetry.Snapshot) float64 {
	if len(snapshots) <= qualityWarmupSnapshots {
		return 0
	}

	herbMax := cfg.Species.Herbivore.MaxEnergy
	predMax := cfg.Species.Predator.MaxEnergy

	var ratioSum, energySum, huntSum float64
	herbCounts := make([]float64, 0, len(snapshots))
	predCounts := make([]float64, 0, len(snapshots))

	for _, s := range snapshots[qualityWarmupSnapshots:] {
		if s.Herbivores < qualityMinPop || s.Predators < qualityMinPop {
			continue
		}
		herbCounts = append(herbCounts, float64(s.Herbivores))
		predCounts = append(predCounts, float64(s.Predators))

		// Population ratio score
		logErr := math.Log(float64(s.Herbivores) / float64(s.Predators) / targetRatio)
		ratioSum += math.Exp(-logErr * logErr)

		// Energy health score
		herbH := math.Exp(-math.Pow((s.HerbivoreEnergyP50/herbMax-0.5)/0.25, 2))
		predH := math.Exp(-math.Pow((s.PredatorEnergyP50/predMax-0.5)/0.25, 2))
		energySum += (herbH + predH) / 2.0

		// Hunting activity score
		killsPerPred := float64(s.Kills) / float64(s.Predators)
		huntSum += 1.0 - math.Exp(-killsPerPred)
	}

	count := float64(len(herbCounts))
	if count == 0 {
		return 0
	}

	stabilityScore := 0.0
	if len(herbCounts) >= 2 {
		cvHerb := cv(herbCounts)
		cvPred := cv(predCounts)
		stabilityScore = math.Exp(-(cvHerb*cvHerb + cvPred*cvPred))
	}

	quality := qualityWeightRatio*ratioSum/count +
		qualityWeightStability*stabilityScore +
		qualityWeightEnergy*energySum/count +
		qualityWeightHunting*huntSum/count

	return clamp01(quality)
}

// cv computes the coefficient of variation (std/mean).
func cv(values []float64) float64 {
	mean, std := stat.PopMeanStdDev(values, nil)
	if mean == 0 {
		return 0
	}
	return std / mean
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
