package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/pthm-cable/ecosim/config"
	"github.com/pthm-cable/ecosim/game"
	"github.com/pthm-cable/ecosim/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per update call (clamped to the config's max speed)")
	parallel := flag.Bool("parallel", true, "Run perception and inference on a worker pool")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if !*parallel {
		cfg.Simulation.Workers = 1
	}

	// Set up seed
	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	output, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}
	defer output.Close()
	if err := output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
		os.Exit(1)
	}

	g := game.NewGame(cfg, game.Options{
		Seed:     rngSeed,
		LogStats: *logStats,
		Output:   output,
	})
	defer g.Close()

	g.SetSpeed(*stepsPerUpdate)
	g.Start()

	slog.Info("starting headless simulation",
		"seed", rngSeed,
		"max_ticks", *maxTicks,
		"steps_per_update", g.Speed(),
		"parallel", *parallel,
		"output_dir", output.Dir(),
	)

	for {
		g.Update()

		if *maxTicks > 0 && g.Tick() >= int64(*maxTicks) {
			s := g.Stats()
			slog.Info("max ticks reached",
				"tick", g.Tick(),
				"herbivores", s.Herbivores,
				"predators", s.Predators,
				"plants", s.Plants,
				"generation", s.Generation,
			)
			return
		}
	}
}
