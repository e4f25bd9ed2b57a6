package systems

import (
	"math/rand"

	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/config"
)

// Graze credits a herbivore with a consumed plant.
func Graze(org *components.Organism, energy *components.Energy, plant *components.Flora) {
	energy.Gain(plant.Energy)
	org.FoodEaten++
	plant.Consumed = true
}

// Hunt credits a predator with a kill and returns the energy it gained.
// The victim's own death is handled by the caller.
func Hunt(org *components.Organism, energy *components.Energy, victimEnergy float64, cfg *config.PredationConfig) float64 {
	gain := victimEnergy * cfg.EnergyFraction
	if gain < 0 {
		gain = 0
	}
	before := energy.Value
	energy.Gain(gain)
	org.FoodEaten += cfg.FoodCredit
	return energy.Value - before
}

// NutrientDrop decides whether a dying creature leaves a plant behind and
// returns the energy to seed it with.
func NutrientDrop(rng *rand.Rand, energy float64, cfg *config.DeathConfig) (float64, bool) {
	if rng.Float64() >= cfg.NutrientChance {
		return 0, false
	}
	return energy * cfg.NutrientFraction, true
}
