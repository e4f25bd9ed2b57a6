package game

import (
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/neural"
	"github.com/pthm-cable/ecosim/systems"
)

// creatureSeed carries everything inherited or rolled for a new creature.
// Role-specific phenotype comes from config at insertion.
type creatureSeed struct {
	kind       components.Kind
	pos        components.Position
	brain      *neural.Brain
	color      components.RGB
	generation int
}

// pendingPlant is a nutrient plant queued by a death.
type pendingPlant struct {
	pos    components.Position
	energy float64
}

// addCreature inserts a creature unless the population is at capacity.
// It returns false when the insert was rejected.
func (g *Game) addCreature(seed creatureSeed) (ecs.Entity, bool) {
	if len(g.creatures) >= g.cfg.Population.MaxCreatures {
		return ecs.Entity{}, false
	}
	role := g.cfg.Species.Role(seed.kind.IsPredator())
	g.nextID++

	pos := components.Position{
		X: systems.Wrap(seed.pos.X, g.cfg.World.Width),
		Y: systems.Wrap(seed.pos.Y, g.cfg.World.Height),
	}
	vel := components.Velocity{
		X: (g.rng.Float64()*2 - 1) * role.MaxSpeed,
		Y: (g.rng.Float64()*2 - 1) * role.MaxSpeed,
	}
	rot := components.Rotation{Heading: g.rng.Float64() * 2 * math.Pi}
	body := components.Body{Radius: role.Radius, MaxSpeed: role.MaxSpeed}
	energy := components.Energy{Value: role.MaxEnergy * role.InitialEnergyFraction, Max: role.MaxEnergy}
	org := components.Organism{
		ID:         g.nextID,
		Kind:       seed.kind,
		MaxAge:     role.MaxAgeBase + g.rng.Intn(role.MaxAgeJitter+1),
		Generation: seed.generation,
	}
	appearance := components.Appearance{Color: seed.color}

	entity := g.creatureMapper.NewEntity(&pos, &vel, &rot, &body, &energy, &org, &appearance)
	g.sensorMap.Add(entity, &components.Sensors{})

	g.brains[org.ID] = seed.brain
	g.creatures = append(g.creatures, entity)
	return entity, true
}

// spawnRandomCreature inserts a parentless creature at a random position.
func (g *Game) spawnRandomCreature(kind components.Kind) (ecs.Entity, bool) {
	cfg := g.cfg
	return g.addCreature(creatureSeed{
		kind: kind,
		pos: components.Position{
			X: g.rng.Float64() * cfg.World.Width,
			Y: g.rng.Float64() * cfg.World.Height,
		},
		brain: neural.NewBrain(g.rng, cfg.Derived.NumInputs, cfg.Neural.NumHidden, cfg.Derived.NumOutputs),
		color: initialColor(g.rng, kind),
	})
}

// initialColor rolls the founder color for a role: reddish predators and
// greenish herbivores.
func initialColor(rng *rand.Rand, kind components.Kind) components.RGB {
	if kind.IsPredator() {
		return components.RGB{
			R: uint8(200 + rng.Float64()*55),
			G: uint8(50 + rng.Float64()*50),
			B: uint8(50 + rng.Float64()*50),
		}
	}
	return components.RGB{
		R: uint8(50 + rng.Float64()*50),
		G: uint8(150 + rng.Float64()*105),
		B: uint8(50 + rng.Float64()*50),
	}
}

// addPlant inserts a plant unless the plant population is at capacity.
// A non-positive energy rolls the default store.
func (g *Game) addPlant(pos components.Position, energy float64) (ecs.Entity, bool) {
	if len(g.plants) >= g.cfg.Population.MaxPlants {
		return ecs.Entity{}, false
	}
	g.nextID++
	flora, body, appearance := systems.NewPlant(g.rng, &g.cfg.Plants, g.nextID, energy)

	entity := g.plantMapper.NewEntity(&pos, &body, &flora, &appearance)
	g.plants = append(g.plants, entity)
	g.collector.RecordPlantSpawned()
	return entity, true
}

// spawnRandomPlant inserts a plant with default energy at a random position.
func (g *Game) spawnRandomPlant() (ecs.Entity, bool) {
	return g.addPlant(components.Position{
		X: g.rng.Float64() * g.cfg.World.Width,
		Y: g.rng.Float64() * g.cfg.World.Height,
	}, 0)
}

// flushPendingPlants inserts nutrient plants queued since the last flush.
func (g *Game) flushPendingPlants() {
	for _, p := range g.pendingPlants {
		g.addPlant(p.pos, p.energy)
	}
	g.pendingPlants = g.pendingPlants[:0]
}
