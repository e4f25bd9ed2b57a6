package game

import (
	"log/slog"

	"github.com/pthm-cable/ecosim/telemetry"
)

// flushTelemetry records a snapshot at every stats interval and fans it out
// to history, the callback, logs and CSV output.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.takeCensus())
	perfStats := g.perfCollector.Stats()
	g.lastStats = stats
	g.history.Append(stats)

	if g.opts.StatsCallback != nil {
		g.opts.StatsCallback(stats)
	}

	if g.opts.LogStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.opts.Output != nil {
		if err := g.opts.Output.WriteSnapshot(stats); err != nil {
			slog.Error("failed to write stats", "error", err)
		}
		if err := g.opts.Output.WritePerf(perfStats, g.tick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}

// takeCensus samples the living population.
func (g *Game) takeCensus() telemetry.Census {
	c := telemetry.Census{
		Plants:     len(g.plants),
		Generation: g.generation,
	}

	query := g.creatureFilter.Query()
	for query.Next() {
		energy, org := query.Get()
		if org.Dead {
			continue
		}
		c.Fitness = append(c.Fitness, org.Fitness)
		if org.Kind.IsPredator() {
			c.Predators++
			c.PredatorEnergies = append(c.PredatorEnergies, energy.Value)
		} else {
			c.Herbivores++
			c.HerbivoreEnergies = append(c.HerbivoreEnergies, energy.Value)
		}
	}

	return c
}
