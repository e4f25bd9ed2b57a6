package systems

import (
	"math"

	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/config"
)

// MetabolicCost returns the per-tick energy drain: a base cost plus a
// movement cost proportional to |vx| + |vy|.
func MetabolicCost(vel components.Velocity, baseCost, speedCost float64) float64 {
	return baseCost + (math.Abs(vel.X)+math.Abs(vel.Y))*speedCost
}

// Starved reports whether a creature should die this tick and why.
func Starved(org *components.Organism, energy *components.Energy) (bool, components.DeathCause) {
	if energy.Value <= 0 {
		return true, components.CauseStarvation
	}
	if org.Age > org.MaxAge {
		return true, components.CauseOldAge
	}
	return false, components.CauseNone
}

// CanReproduce evaluates the reproduction gate for this tick.
func CanReproduce(org *components.Organism, energy *components.Energy, threshold float64, maturityAge int) bool {
	return energy.Value > threshold && org.ReproCooldown == 0 && org.Age > maturityAge
}

// Fitness scores a creature from its survival, feeding, offspring and energy.
func Fitness(org *components.Organism, energy *components.Energy, w config.FitnessConfig) float64 {
	return float64(org.SurvivalTime)*w.SurvivalWeight +
		float64(org.FoodEaten)*w.FoodWeight +
		float64(org.Children)*w.ChildrenWeight +
		energy.Value*w.EnergyWeight
}
