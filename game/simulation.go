package game

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/neural"
	"github.com/pthm-cable/ecosim/systems"
)

// updatePlants grows every plant. Order does not matter, so the filter is used.
func (g *Game) updatePlants() {
	query := g.plantFilter.Query()
	for query.Next() {
		body, flora := query.Get()
		systems.GrowPlant(flora, body, &g.cfg.Plants)
	}
}

// applyActions runs the acting half of the per-creature update with the
// brain outputs from think: steering, reproduction, movement and fitness.
// Children are buffered in g.births; nothing structural changes here.
func (g *Game) applyActions() {
	cfg := g.cfg
	results := g.parallel.results

	cands := make([]systems.MateCandidate, len(g.creatures))
	for i, e := range g.creatures {
		cands[i] = systems.MateCandidate{Pos: g.posMap.Get(e), Org: g.orgMap.Get(e)}
	}

	for i, e := range g.creatures {
		org := cands[i].Org
		if org.Dead {
			continue
		}
		pos := cands[i].Pos
		vel := g.velMap.Get(e)
		rot := g.rotMap.Get(e)
		body := g.bodyMap.Get(e)
		energy := g.energyMap.Get(e)

		sensors := results[i]
		*g.sensorMap.Get(e) = sensors
		out := sensors.Outputs

		systems.Steer(rot, vel, out[0], out[1], cfg.Neural.TurnRate, body.MaxSpeed)

		if out[2] > cfg.Reproduction.DriveThreshold && org.CanReproduce {
			g.tryReproduce(i, cands)
		}

		systems.Integrate(pos, *vel, cfg.World.Width, cfg.World.Height)
		systems.AlignHeading(rot, *vel)
		org.Fitness = systems.Fitness(org, energy, cfg.Fitness)
	}
}

// tryReproduce pairs creature i with the first eligible mate, or falls back
// to budding when it has energy to spare. Parents pay immediately.
func (g *Game) tryReproduce(i int, cands []systems.MateCandidate) {
	cfg := g.cfg
	rcfg := &cfg.Reproduction
	self := cands[i]
	e := g.creatures[i]
	energy := g.energyMap.Get(e)
	role := cfg.Species.Role(self.Org.Kind.IsPredator())
	color := g.appearanceMap.Get(e).Color

	if j := systems.FindMate(i, cands, rcfg.MateRadius); j >= 0 {
		mate := cands[j]
		mateEntity := g.creatures[j]

		brain := neural.Crossover(g.rng, g.brains[self.Org.ID], g.brains[mate.Org.ID])
		brain.Mutate(g.rng, cfg.Mutation.Rate, cfg.Mutation.Strength)

		g.births = append(g.births, birth{
			seed: creatureSeed{
				kind:       self.Org.Kind,
				pos:        systems.SexualOffspringPosition(g.rng, *self.Pos, *mate.Pos, rcfg.SexualJitter),
				brain:      brain,
				color:      color.Blend(g.appearanceMap.Get(mateEntity).Color),
				generation: systems.ChildGeneration(self.Org, mate.Org),
			},
			sexual:  true,
			parents: [2]ecs.Entity{e, mateEntity},
			costs:   [2]float64{role.ReproductionCost, role.ReproductionCost},
		})

		energy.Spend(role.ReproductionCost)
		g.energyMap.Get(mateEntity).Spend(role.ReproductionCost)
		self.Org.Children++
		mate.Org.Children++
		self.Org.ReproCooldown = rcfg.SexualCooldown
		mate.Org.ReproCooldown = rcfg.SexualCooldown
		self.Org.CanReproduce = false
		mate.Org.CanReproduce = false
		return
	}

	if energy.Value <= role.ReproductionThreshold*rcfg.AsexualFactor {
		return
	}

	brain := g.brains[self.Org.ID].Clone()
	brain.Mutate(g.rng, cfg.Mutation.Rate, cfg.Mutation.Strength)
	cost := role.ReproductionCost * rcfg.AsexualFactor

	g.births = append(g.births, birth{
		seed: creatureSeed{
			kind:       self.Org.Kind,
			pos:        systems.AsexualOffspringPosition(g.rng, *self.Pos, rcfg.AsexualOffset),
			brain:      brain,
			color:      color.Jitter(g.rng, rcfg.ColorJitter),
			generation: systems.ChildGeneration(self.Org),
		},
		parents: [2]ecs.Entity{e},
		costs:   [2]float64{cost},
	})

	energy.Spend(cost)
	self.Org.Children++
	self.Org.ReproCooldown = rcfg.AsexualCooldown
	self.Org.CanReproduce = false
}

// updateFeeding lets each living herbivore eat at most one overlapping plant.
// Plants are scanned newest first; eaten plants are removed afterwards.
func (g *Game) updateFeeding() {
	eaten := 0
	for _, e := range g.creatures {
		org := g.orgMap.Get(e)
		if org.Dead || org.Kind.IsPredator() {
			continue
		}
		pos := g.posMap.Get(e)
		body := g.bodyMap.Get(e)
		energy := g.energyMap.Get(e)

		for j := len(g.plants) - 1; j >= 0; j-- {
			pe := g.plants[j]
			flora := g.floraMap.Get(pe)
			if flora.Consumed {
				continue
			}
			ppos := g.posMap.Get(pe)
			pbody := g.bodyMap.Get(pe)
			if !systems.Overlaps(pos.X, pos.Y, body.Radius, ppos.X, ppos.Y, pbody.Radius) {
				continue
			}
			systems.Graze(org, energy, flora)
			g.collector.RecordPlantEaten()
			eaten++
			break
		}
	}

	if eaten > 0 {
		g.removeConsumedPlants()
	}
}

func (g *Game) removeConsumedPlants() {
	kept := g.plants[:0]
	var removed []ecs.Entity
	for _, e := range g.plants {
		if g.floraMap.Get(e).Consumed {
			removed = append(removed, e)
			continue
		}
		kept = append(kept, e)
	}
	g.plants = kept
	for _, e := range removed {
		g.world.RemoveEntity(e)
	}
}

// updatePredation lets each living predator kill at most one overlapping
// living herbivore, scanning the collection in order.
func (g *Game) updatePredation() {
	for _, e := range g.creatures {
		org := g.orgMap.Get(e)
		if org.Dead || !org.Kind.IsPredator() {
			continue
		}
		pos := g.posMap.Get(e)
		body := g.bodyMap.Get(e)
		energy := g.energyMap.Get(e)

		for _, v := range g.creatures {
			vorg := g.orgMap.Get(v)
			if v == e || vorg.Dead || vorg.Kind.IsPredator() {
				continue
			}
			vpos := g.posMap.Get(v)
			vbody := g.bodyMap.Get(v)
			if !systems.Overlaps(pos.X, pos.Y, body.Radius, vpos.X, vpos.Y, vbody.Radius) {
				continue
			}
			systems.Hunt(org, energy, g.energyMap.Get(v).Value, &g.cfg.Predation)
			g.kill(v, components.CausePredation)
			break
		}
	}
}

// spawnFood rolls the per-tick plant spawn and tops up the plant floor.
func (g *Game) spawnFood() {
	pop := g.cfg.Population
	if g.rng.Float64() < g.cfg.Food.SpawnRate/100 && len(g.plants) < pop.MaxPlants {
		g.spawnRandomPlant()
	}

	if len(g.plants) < pop.PlantFloor {
		before := len(g.plants)
		for i := 0; i < pop.PlantFloorSpawn; i++ {
			g.spawnRandomPlant()
		}
		slog.Debug("plant_floor_respawn", "tick", g.tick, "before", before, "spawned", len(g.plants)-before)
	}
}
