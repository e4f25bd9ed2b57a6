package game

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ecosim/camera"
	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/neural"
	"github.com/pthm-cable/ecosim/systems"
	"github.com/pthm-cable/ecosim/telemetry"
)

// CreatureView is the per-frame render record of a living creature.
type CreatureView struct {
	ID           uint32
	Kind         components.Kind
	X, Y         float64
	Heading      float64
	Radius       float64
	Color        components.RGB
	Energy       float64
	MaxEnergy    float64
	Generation   int
	Fitness      float64
	CanReproduce bool
	Sensors      components.Sensors
}

// PlantView is the per-frame render record of a plant.
type PlantView struct {
	ID        uint32
	X, Y      float64
	Radius    float64
	Color     components.RGB // base color dimmed by energy ratio
	Energy    float64
	MaxEnergy float64
}

// CreatureInfo is the inspector summary of one creature.
type CreatureInfo struct {
	ID           uint32
	Kind         string
	Energy       int // floored
	MaxEnergy    float64
	Age          int
	Generation   int
	Children     int
	Fitness      int // floored
	FoodEaten    int
	CanReproduce bool
	Speed        float64
}

// Selection is the selected creature with its latest perception and brain.
type Selection struct {
	Info    CreatureInfo
	Sensors components.Sensors
	Brain   *neural.Brain
}

// Creatures returns render records for every living creature in collection order.
func (g *Game) Creatures() []CreatureView {
	views := make([]CreatureView, 0, len(g.creatures))
	for _, e := range g.creatures {
		org := g.orgMap.Get(e)
		if org.Dead {
			continue
		}
		pos := g.posMap.Get(e)
		body := g.bodyMap.Get(e)
		energy := g.energyMap.Get(e)
		views = append(views, CreatureView{
			ID:           org.ID,
			Kind:         org.Kind,
			X:            pos.X,
			Y:            pos.Y,
			Heading:      g.rotMap.Get(e).Heading,
			Radius:       body.Radius,
			Color:        g.appearanceMap.Get(e).Color,
			Energy:       energy.Value,
			MaxEnergy:    energy.Max,
			Generation:   org.Generation,
			Fitness:      org.Fitness,
			CanReproduce: org.CanReproduce,
			Sensors:      *g.sensorMap.Get(e),
		})
	}
	return views
}

// Plants returns render records for every plant in collection order.
func (g *Game) Plants() []PlantView {
	views := make([]PlantView, 0, len(g.plants))
	for _, e := range g.plants {
		pos := g.posMap.Get(e)
		flora := g.floraMap.Get(e)
		views = append(views, PlantView{
			ID:        flora.ID,
			X:         pos.X,
			Y:         pos.Y,
			Radius:    g.bodyMap.Get(e).Radius,
			Color:     systems.PlantDisplayColor(*flora, g.appearanceMap.Get(e).Color),
			Energy:    flora.Energy,
			MaxEnergy: flora.MaxEnergy,
		})
	}
	return views
}

// Stats returns the most recent statistics snapshot.
func (g *Game) Stats() telemetry.Snapshot {
	return g.lastStats
}

// History returns the recorded snapshots, oldest first.
func (g *Game) History() []telemetry.Snapshot {
	return g.history.All()
}

// PerfStats returns the rolling per-phase timing summary.
func (g *Game) PerfStats() telemetry.PerfStats {
	return g.perfCollector.Stats()
}

// PickCreature returns the ID of the living creature nearest to the world
// point (x, y) whose distance is below radius*zoom plus a small margin.
func (g *Game) PickCreature(x, y, zoom float64) (uint32, bool) {
	var (
		bestID   uint32
		bestDist = math.Inf(1)
	)
	for _, e := range g.creatures {
		org := g.orgMap.Get(e)
		if org.Dead {
			continue
		}
		pos := g.posMap.Get(e)
		d := systems.Distance(x, y, pos.X, pos.Y)
		if d >= camera.PickTolerance(g.bodyMap.Get(e).Radius, zoom) {
			continue
		}
		if d < bestDist {
			bestID, bestDist = org.ID, d
		}
	}
	return bestID, bestID != 0
}

// PickAtScreen picks the creature under a screen point seen through cam.
func (g *Game) PickAtScreen(cam *camera.Camera, sx, sy float64) (uint32, bool) {
	wx, wy := cam.ScreenToWorld(sx, sy)
	return g.PickCreature(wx, wy, cam.Zoom)
}

// Select marks a creature as selected. Zero clears the selection.
func (g *Game) Select(id uint32) {
	g.selected = id
}

// SelectedCreature returns the selected creature while it is alive.
func (g *Game) SelectedCreature() (Selection, bool) {
	if g.selected == 0 {
		return Selection{}, false
	}
	e, ok := g.findCreature(g.selected)
	if !ok {
		return Selection{}, false
	}
	return Selection{
		Info:    g.creatureInfo(e),
		Sensors: *g.sensorMap.Get(e),
		Brain:   g.brains[g.selected],
	}, true
}

// CreatureInfo returns the inspector summary of a living creature.
func (g *Game) CreatureInfo(id uint32) (CreatureInfo, bool) {
	e, ok := g.findCreature(id)
	if !ok {
		return CreatureInfo{}, false
	}
	return g.creatureInfo(e), true
}

func (g *Game) findCreature(id uint32) (ecs.Entity, bool) {
	for _, e := range g.creatures {
		org := g.orgMap.Get(e)
		if org.ID == id && !org.Dead {
			return e, true
		}
	}
	return ecs.Entity{}, false
}

func (g *Game) creatureInfo(e ecs.Entity) CreatureInfo {
	org := g.orgMap.Get(e)
	energy := g.energyMap.Get(e)
	vel := g.velMap.Get(e)
	return CreatureInfo{
		ID:           org.ID,
		Kind:         org.Kind.String(),
		Energy:       int(math.Floor(energy.Value)),
		MaxEnergy:    energy.Max,
		Age:          org.Age,
		Generation:   org.Generation,
		Children:     org.Children,
		Fitness:      int(math.Floor(org.Fitness)),
		FoodEaten:    org.FoodEaten,
		CanReproduce: org.CanReproduce,
		Speed:        math.Hypot(vel.X, vel.Y),
	}
}

// Population counts the living herbivores and predators.
func (g *Game) Population() (herbivores, predators int) {
	for _, e := range g.creatures {
		org := g.orgMap.Get(e)
		if org.Dead {
			continue
		}
		if org.Kind.IsPredator() {
			predators++
		} else {
			herbivores++
		}
	}
	return herbivores, predators
}
