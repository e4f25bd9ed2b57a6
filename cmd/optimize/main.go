// Package main searches for ecology settings under which herbivores and
// predators coexist for as long as possible, using CMA-ES.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/ecosim/config"
)

// evalRecord is one row of optimize_log.csv. Parameter values are the
// clamped values the simulation actually ran with.
type evalRecord struct {
	Eval          int     `csv:"eval"`
	Fitness       float64 `csv:"fitness"`
	Quality       float64 `csv:"quality"`
	MutationRate  float64 `csv:"mutation_rate"`
	FoodSpawnRate float64 `csv:"food_spawn_rate"`
	PredatorRatio float64 `csv:"predator_ratio"`
}

// evalLog appends evalRecords to a CSV file, writing the header once.
type evalLog struct {
	f             *os.File
	headerWritten bool
}

func newEvalLog(path string) (*evalLog, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating eval log: %w", err)
	}
	return &evalLog{f: f}, nil
}

func (l *evalLog) Write(r evalRecord) error {
	rows := []evalRecord{r}
	if !l.headerWritten {
		l.headerWritten = true
		return gocsv.Marshal(rows, l.f)
	}
	return gocsv.MarshalWithoutHeaders(rows, l.f)
}

func (l *evalLog) Close() error { return l.f.Close() }

// formatDuration formats a duration as 1h02m03s or 2m03s.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	maxTicks := flag.Int("max-ticks", 20000, "Maximum ticks per simulation run")
	seeds := flag.Int("seeds", 3, "Number of seeds per evaluation")
	maxEvals := flag.Int("max-evals", 200, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	baseCfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	params := NewParamVector()
	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}
	evaluator := NewFitnessEvaluator(params, int64(*maxTicks), evalSeeds, baseCfg)

	evals, err := newEvalLog(filepath.Join(*outputDir, "optimize_log.csv"))
	if err != nil {
		log.Fatal(err)
	}
	defer evals.Close()

	var (
		evalCount   int
		bestFitness = math.Inf(1)
		bestParams  []float64
		startTime   = time.Now()
	)

	// CMA-ES works in the unit cube; parameters are denormalized per call.
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			clamped := params.Clamp(params.Denormalize(x))
			fitness := evaluator.Evaluate(clamped)
			quality := evaluator.LastQuality()
			evalCount++

			if fitness < bestFitness {
				bestFitness = fitness
				bestParams = clamped
			}

			if err := evals.Write(evalRecord{
				Eval:          evalCount,
				Fitness:       fitness,
				Quality:       quality,
				MutationRate:  clamped[0],
				FoodSpawnRate: clamped[1],
				PredatorRatio: clamped[2],
			}); err != nil {
				log.Printf("failed to write eval log: %v", err)
			}

			elapsed := time.Since(startTime)
			remaining := time.Duration(*maxEvals-evalCount) * (elapsed / time.Duration(evalCount))
			// Fitness = -(coexistTicks × (1 + 0.2×quality))
			coexist := -fitness / (1.0 + 0.2*quality)
			fmt.Printf("Eval %d/%d: coexisted=%.0f ticks quality=%.2f (best=%.0f) | elapsed: %s, ETA: %s\n",
				evalCount, *maxEvals, coexist, quality, bestFitness,
				formatDuration(elapsed), formatDuration(remaining))

			return fitness
		},
	}

	popSize := *population
	if popSize == 0 {
		// 4 + floor(3 ln n)
		popSize = 4 + int(3.0*math.Log(float64(params.Dim())))
	}
	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   popSize,
	}
	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
	}

	fmt.Printf("Starting CMA-ES with %d parameters, population=%d, max_evals=%d\n",
		params.Dim(), popSize, *maxEvals)
	fmt.Printf("Seeds per evaluation: %d, ticks per run: %d\n", *seeds, *maxTicks)

	result, err := optimize.Minimize(problem, params.Normalize(params.DefaultVector()), settings, method)
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}
	if bestParams == nil && result != nil {
		bestParams = params.Clamp(params.Denormalize(result.X))
	}
	if bestParams == nil {
		log.Fatal("no evaluations completed")
	}

	fmt.Printf("\nOptimization complete after %d evaluations in %s\n", evalCount, formatDuration(time.Since(startTime)))
	fmt.Printf("Best fitness: %.0f\n", bestFitness)
	fmt.Println("\nBest parameters:")
	for i, spec := range params.Specs {
		fmt.Printf("  %s (%s): %.6f\n", spec.Name, spec.Path, bestParams[i])
	}

	bestCfg := baseCfg.Clone()
	params.ApplyToConfig(bestCfg, bestParams)
	configOutPath := filepath.Join(*outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		log.Printf("failed to write best config: %v", err)
		return
	}
	fmt.Printf("\nBest config saved to: %s\n", configOutPath)
}
