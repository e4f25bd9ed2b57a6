package telemetry

import "github.com/pthm-cable/ecosim/components"

// Collector accumulates events between snapshots and produces Snapshot values.
type Collector struct {
	interval int64

	herbivoreBirths int
	predatorBirths  int
	sexualBirths    int
	asexualBirths   int
	rejectedBirths  int
	herbivoreDeaths int
	predatorDeaths  int
	starvations     int
	oldAgeDeaths    int
	kills           int
	plantsEaten     int
	plantsSpawned   int
	respawns        int
}

// NewCollector creates a collector that flushes every interval ticks.
func NewCollector(interval int) *Collector {
	if interval < 1 {
		interval = 1
	}
	return &Collector{interval: int64(interval)}
}

// RecordBirth records an admitted child.
func (c *Collector) RecordBirth(kind components.Kind, sexual bool) {
	if kind.IsPredator() {
		c.predatorBirths++
	} else {
		c.herbivoreBirths++
	}
	if sexual {
		c.sexualBirths++
	} else {
		c.asexualBirths++
	}
}

// RecordRejectedBirth records a child refused because the population was at capacity.
func (c *Collector) RecordRejectedBirth() {
	c.rejectedBirths++
}

// RecordDeath records a death event.
func (c *Collector) RecordDeath(kind components.Kind, cause components.DeathCause) {
	if kind.IsPredator() {
		c.predatorDeaths++
	} else {
		c.herbivoreDeaths++
	}
	switch cause {
	case components.CauseStarvation:
		c.starvations++
	case components.CauseOldAge:
		c.oldAgeDeaths++
	case components.CausePredation:
		c.kills++
	}
}

// RecordPlantEaten records a consumed plant.
func (c *Collector) RecordPlantEaten() {
	c.plantsEaten++
}

// RecordPlantSpawned records an admitted plant.
func (c *Collector) RecordPlantSpawned() {
	c.plantsSpawned++
}

// RecordRespawn records creatures injected by the population floor.
func (c *Collector) RecordRespawn(n int) {
	c.respawns += n
}

// ShouldFlush reports whether tick is a snapshot tick.
func (c *Collector) ShouldFlush(tick int64) bool {
	return tick > 0 && tick%c.interval == 0
}

// Flush produces a Snapshot and resets counters for the next window.
func (c *Collector) Flush(tick int64, census Census) Snapshot {
	s := c.Sample(tick, census)
	*c = Collector{interval: c.interval}
	return s
}

// Sample produces a Snapshot of census and the events counted so far,
// leaving the window open.
func (c *Collector) Sample(tick int64, census Census) Snapshot {
	best, avg, std := ComputeFitnessStats(census.Fitness)
	herbMean, herbP50 := ComputeEnergyStats(census.HerbivoreEnergies)
	predMean, predP50 := ComputeEnergyStats(census.PredatorEnergies)

	s := Snapshot{
		Tick:       tick,
		Herbivores: census.Herbivores,
		Predators:  census.Predators,
		Plants:     census.Plants,
		Generation: census.Generation,

		BestFitness: best,
		AvgFitness:  avg,
		FitnessStd:  std,

		HerbivoreEnergyMean: herbMean,
		HerbivoreEnergyP50:  herbP50,
		PredatorEnergyMean:  predMean,
		PredatorEnergyP50:   predP50,

		HerbivoreBirths: c.herbivoreBirths,
		PredatorBirths:  c.predatorBirths,
		SexualBirths:    c.sexualBirths,
		AsexualBirths:   c.asexualBirths,
		RejectedBirths:  c.rejectedBirths,
		HerbivoreDeaths: c.herbivoreDeaths,
		PredatorDeaths:  c.predatorDeaths,
		Starvations:     c.starvations,
		OldAgeDeaths:    c.oldAgeDeaths,
		Kills:           c.kills,
		PlantsEaten:     c.plantsEaten,
		PlantsSpawned:   c.plantsSpawned,
		Respawns:        c.respawns,
	}
	return s
}
