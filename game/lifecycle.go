package game

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/systems"
)

// birth is a child produced during the apply pass, admitted by mergeBirths.
type birth struct {
	seed    creatureSeed
	sexual  bool
	parents [2]ecs.Entity
	costs   [2]float64 // energy paid by each parent; zero for an absent parent
}

// prepareCreatures runs the bookkeeping half of the per-creature update:
// ageing, metabolism, the death check, cooldown and the reproduction gate.
func (g *Game) prepareCreatures() {
	cfg := g.cfg
	for _, e := range g.creatures {
		org := g.orgMap.Get(e)
		if org.Dead {
			continue
		}
		energy := g.energyMap.Get(e)
		vel := g.velMap.Get(e)
		role := cfg.Species.Role(org.Kind.IsPredator())

		org.Age++
		org.SurvivalTime++
		energy.Spend(systems.MetabolicCost(*vel, role.BaseCost, cfg.Neural.SpeedCost))

		if dead, cause := systems.Starved(org, energy); dead {
			g.kill(e, cause)
			continue
		}

		if org.ReproCooldown > 0 {
			org.ReproCooldown--
		}
		org.CanReproduce = systems.CanReproduce(org, energy, role.ReproductionThreshold, cfg.Reproduction.MaturityAge)
	}
}

// kill marks a creature dead and may queue a nutrient plant at its position.
// The entity stays in the collection until cleanupDead.
func (g *Game) kill(e ecs.Entity, cause components.DeathCause) {
	org := g.orgMap.Get(e)
	if org.Dead {
		return
	}
	org.Dead = true
	org.Cause = cause
	org.CanReproduce = false
	g.collector.RecordDeath(org.Kind, cause)

	energy := g.energyMap.Get(e)
	if nutrient, ok := systems.NutrientDrop(g.rng, energy.Value, &g.cfg.Death); ok {
		g.pendingPlants = append(g.pendingPlants, pendingPlant{pos: *g.posMap.Get(e), energy: nutrient})
	}
}

// mergeBirths admits buffered children in the order they were conceived.
// Children beyond the cap are rejected; parents keep paying unless refunds
// are enabled.
func (g *Game) mergeBirths() {
	refund := g.cfg.Reproduction.RefundOnCapReached
	for i := range g.births {
		b := &g.births[i]
		if _, ok := g.addCreature(b.seed); ok {
			g.collector.RecordBirth(b.seed.kind, b.sexual)
			continue
		}
		g.collector.RecordRejectedBirth()
		if !refund {
			continue
		}
		for j, parent := range b.parents {
			if b.costs[j] == 0 || !g.world.Alive(parent) {
				continue
			}
			g.energyMap.Get(parent).Gain(b.costs[j])
		}
	}
	g.births = g.births[:0]
}

// updateGeneration records the highest generation in the collection.
func (g *Game) updateGeneration() {
	maxGen := 0
	for _, e := range g.creatures {
		if gen := g.orgMap.Get(e).Generation; gen > maxGen {
			maxGen = gen
		}
	}
	g.generation = maxGen
}

// cleanupDead removes dead creatures and their brains, then tops the
// population back up when it falls below the respawn threshold.
func (g *Game) cleanupDead() {
	alive := g.creatures[:0]
	var removed []ecs.Entity
	for _, e := range g.creatures {
		if g.orgMap.Get(e).Dead {
			removed = append(removed, e)
			continue
		}
		alive = append(alive, e)
	}
	g.creatures = alive

	for _, e := range removed {
		id := g.orgMap.Get(e).ID
		delete(g.brains, id)
		if g.selected == id {
			g.selected = 0
		}
		g.world.RemoveEntity(e)
	}

	pop := g.cfg.Population
	if len(g.creatures) >= pop.RespawnThreshold {
		return
	}
	spawned := 0
	for i := 0; i < pop.RespawnCount; i++ {
		kind := components.KindOf(g.rng.Float64() < pop.PredatorRatio)
		if _, ok := g.spawnRandomCreature(kind); ok {
			spawned++
		}
	}
	g.collector.RecordRespawn(spawned)
	slog.Info("population_floor_respawn",
		"tick", g.tick,
		"survivors", len(g.creatures)-spawned,
		"spawned", spawned,
	)
}
