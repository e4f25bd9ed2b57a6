// Package game runs the ecosystem: it owns the ECS world, advances ticks
// and exposes controls and read-only views to a driver.
package game

import (
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/config"
	"github.com/pthm-cable/ecosim/neural"
	"github.com/pthm-cable/ecosim/systems"
	"github.com/pthm-cable/ecosim/telemetry"
)

// Game holds the state of one simulation run.
type Game struct {
	cfg  *config.Config
	opts Options
	rng  *rand.Rand

	world *ecs.World

	// Creature archetype
	creatureMapper *ecs.Map7[
		components.Position,
		components.Velocity,
		components.Rotation,
		components.Body,
		components.Energy,
		components.Organism,
		components.Appearance,
	]
	creatureFilter *ecs.Filter2[components.Energy, components.Organism]

	// Plant archetype
	plantMapper *ecs.Map4[
		components.Position,
		components.Body,
		components.Flora,
		components.Appearance,
	]
	plantFilter *ecs.Filter2[components.Body, components.Flora]

	// Component maps for entity lookup
	posMap        *ecs.Map1[components.Position]
	velMap        *ecs.Map1[components.Velocity]
	rotMap        *ecs.Map1[components.Rotation]
	bodyMap       *ecs.Map1[components.Body]
	energyMap     *ecs.Map1[components.Energy]
	orgMap        *ecs.Map1[components.Organism]
	appearanceMap *ecs.Map1[components.Appearance]
	floraMap      *ecs.Map1[components.Flora]
	sensorMap     *ecs.Map1[components.Sensors]

	// Brains keyed by organism ID
	brains map[uint32]*neural.Brain

	// Collection order. Entities are appended on insertion and compacted on
	// removal, so iteration order is stable across ticks.
	creatures []ecs.Entity
	plants    []ecs.Entity

	creatureGrid *systems.SpatialGrid
	plantGrid    *systems.SpatialGrid

	// Buffered structural changes, applied between passes
	births        []birth
	pendingPlants []pendingPlant

	parallel *parallelState

	collector     *telemetry.Collector
	history       *telemetry.History
	perfCollector *telemetry.PerfCollector
	lastStats     telemetry.Snapshot

	tick       int64
	generation int
	running    bool
	nextID     uint32
	selected   uint32
}

// NewGame creates a game and seeds the initial population. The config is
// copied; later changes through the setters do not affect the caller's value.
func NewGame(cfg *config.Config, opts Options) *Game {
	cfg = cfg.Clone()
	cfg.Validate()
	g := &Game{
		cfg:          cfg,
		opts:         opts,
		brains:       make(map[uint32]*neural.Brain),
		creatures:    make([]ecs.Entity, 0, cfg.Population.MaxCreatures),
		plants:       make([]ecs.Entity, 0, cfg.Population.MaxPlants),
		creatureGrid: systems.NewSpatialGrid(cfg.World.Width, cfg.World.Height, cfg.World.GridCellSize),
		plantGrid:    systems.NewSpatialGrid(cfg.World.Width, cfg.World.Height, cfg.World.GridCellSize),
		parallel:     newParallelState(cfg.Simulation.Workers),
		history:      telemetry.NewHistory(cfg.Telemetry.HistoryLength),
	}
	g.initWorld()
	g.initialize()

	slog.Info("game created",
		"seed", opts.Seed,
		"world_width", g.cfg.World.Width,
		"world_height", g.cfg.World.Height,
		"creatures", len(g.creatures),
		"plants", len(g.plants),
		"workers", g.parallel.numWorkers,
	)
	return g
}

func (g *Game) initWorld() {
	world := ecs.NewWorld()
	g.world = world

	g.creatureMapper = ecs.NewMap7[
		components.Position,
		components.Velocity,
		components.Rotation,
		components.Body,
		components.Energy,
		components.Organism,
		components.Appearance,
	](world)
	g.creatureFilter = ecs.NewFilter2[components.Energy, components.Organism](world)

	g.plantMapper = ecs.NewMap4[
		components.Position,
		components.Body,
		components.Flora,
		components.Appearance,
	](world)
	g.plantFilter = ecs.NewFilter2[components.Body, components.Flora](world)

	g.posMap = ecs.NewMap1[components.Position](world)
	g.velMap = ecs.NewMap1[components.Velocity](world)
	g.rotMap = ecs.NewMap1[components.Rotation](world)
	g.bodyMap = ecs.NewMap1[components.Body](world)
	g.energyMap = ecs.NewMap1[components.Energy](world)
	g.orgMap = ecs.NewMap1[components.Organism](world)
	g.appearanceMap = ecs.NewMap1[components.Appearance](world)
	g.floraMap = ecs.NewMap1[components.Flora](world)
	g.sensorMap = ecs.NewMap1[components.Sensors](world)
}

// initialize resets counters and seeds plants and creatures from config.
func (g *Game) initialize() {
	g.rng = rand.New(rand.NewSource(g.opts.Seed))
	g.collector = telemetry.NewCollector(g.cfg.Telemetry.StatsInterval)
	g.history.Reset()
	g.perfCollector = telemetry.NewPerfCollector(g.cfg.Telemetry.PerfCollectorWindow)
	g.lastStats = telemetry.Snapshot{}
	g.tick = 0
	g.generation = 0
	g.nextID = 0
	g.selected = 0

	for i := 0; i < g.cfg.Population.InitialPlants; i++ {
		g.spawnRandomPlant()
	}

	n := g.cfg.Population.Initial
	predators := int(float64(n) * g.cfg.Population.PredatorRatio)
	for i := 0; i < n-predators; i++ {
		g.spawnRandomCreature(components.KindHerbivore)
	}
	for i := 0; i < predators; i++ {
		g.spawnRandomCreature(components.KindPredator)
	}

	// Seeding events stay in the window and reach the first interval snapshot.
	g.lastStats = g.collector.Sample(g.tick, g.takeCensus())
}

// Reset pauses the game, discards all entities and reseeds from config.
// A reset game matches a freshly created one with the same config and seed.
func (g *Game) Reset() {
	g.Pause()
	for _, e := range g.creatures {
		g.world.RemoveEntity(e)
	}
	for _, e := range g.plants {
		g.world.RemoveEntity(e)
	}
	g.creatures = g.creatures[:0]
	g.plants = g.plants[:0]
	g.births = g.births[:0]
	g.pendingPlants = g.pendingPlants[:0]
	clear(g.brains)

	g.initialize()
	slog.Info("game reset", "seed", g.opts.Seed)
}

// Close stops the worker pool.
func (g *Game) Close() {
	g.parallel.stopWorkers()
}

// Config returns the live simulation config. Callers must not modify it
// directly; use the setters.
func (g *Game) Config() *config.Config {
	return g.cfg
}

// Start resumes stepping in Update.
func (g *Game) Start() { g.running = true }

// Pause stops stepping in Update. A step in progress always completes.
func (g *Game) Pause() { g.running = false }

// Running reports whether Update advances the simulation.
func (g *Game) Running() bool { return g.running }

// Tick returns the number of completed steps.
func (g *Game) Tick() int64 { return g.tick }

// Generation returns the highest generation seen in the last step.
func (g *Game) Generation() int { return g.generation }

// SetSpeed sets the number of steps per Update, clamped to [1, MaxSpeed].
func (g *Game) SetSpeed(speed int) {
	g.cfg.Simulation.Speed = clampInt(speed, 1, g.cfg.Simulation.MaxSpeed)
}

// Speed returns the number of steps per Update.
func (g *Game) Speed() int { return g.cfg.Simulation.Speed }

// SetInitialPopulation sets the creature count used by the next Reset.
func (g *Game) SetInitialPopulation(n int) {
	g.cfg.Population.Initial = clampInt(n, 0, g.cfg.Population.MaxCreatures)
}

// SetMutationRate sets the per-gene mutation probability, clamped to [0, 1].
func (g *Game) SetMutationRate(rate float64) {
	g.cfg.Mutation.Rate = clampFloat(rate, 0, 1)
}

// SetFoodSpawnRate sets the per-tick plant spawn chance in percent, clamped to [0, 100].
func (g *Game) SetFoodSpawnRate(rate float64) {
	g.cfg.Food.SpawnRate = clampFloat(rate, 0, 100)
}

// SetPredatorRatio sets the predator share for seeding and respawns, clamped to [0, 1].
func (g *Game) SetPredatorRatio(ratio float64) {
	g.cfg.Population.PredatorRatio = clampFloat(ratio, 0, 1)
}

// Update runs Speed steps when the game is running.
func (g *Game) Update() {
	if !g.running {
		return
	}
	for i := 0; i < g.cfg.Simulation.Speed; i++ {
		g.Step()
	}
}

// Step advances the simulation by exactly one tick.
func (g *Game) Step() {
	g.perfCollector.StartTick()
	g.tick++

	g.perfCollector.StartPhase(telemetry.PhasePlants)
	g.updatePlants()

	g.perfCollector.StartPhase(telemetry.PhasePrepare)
	g.prepareCreatures()
	g.flushPendingPlants()

	g.perfCollector.StartPhase(telemetry.PhaseThink)
	g.think()

	g.perfCollector.StartPhase(telemetry.PhaseApply)
	g.applyActions()
	g.mergeBirths()
	g.updateGeneration()

	g.perfCollector.StartPhase(telemetry.PhaseInteractions)
	g.updateFeeding()
	g.updatePredation()
	g.flushPendingPlants()

	g.perfCollector.StartPhase(telemetry.PhaseSpawning)
	g.spawnFood()

	g.perfCollector.StartPhase(telemetry.PhaseCleanup)
	g.cleanupDead()

	g.perfCollector.StartPhase(telemetry.PhaseStats)
	g.flushTelemetry()

	g.perfCollector.EndTick()
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
