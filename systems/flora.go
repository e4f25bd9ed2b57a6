package systems

import (
	"math/rand"

	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/config"
)

// NewPlant rolls a plant phenotype. A positive energy is used as the initial
// store (clamped to the cap); otherwise the store is drawn from the defaults.
func NewPlant(rng *rand.Rand, cfg *config.PlantConfig, id uint32, energy float64) (components.Flora, components.Body, components.Appearance) {
	radius := cfg.MinRadius + rng.Float64()*cfg.RadiusJitter
	if energy <= 0 {
		energy = cfg.BaseEnergy + rng.Float64()*cfg.EnergyJitter
	}
	if energy > cfg.MaxEnergy {
		energy = cfg.MaxEnergy
	}
	flora := components.Flora{
		ID:         id,
		Energy:     energy,
		MaxEnergy:  cfg.MaxEnergy,
		GrowthRate: cfg.BaseGrowthRate + rng.Float64()*cfg.GrowthJitter,
	}
	color := components.RGB{
		R: 20,
		G: uint8(150 + rng.Float64()*100),
		B: uint8(100 + rng.Float64()*100),
	}
	return flora, components.Body{Radius: radius}, components.Appearance{Color: color}
}

// GrowPlant ages a plant, adds its growth rate while below the cap and
// resizes it to match its energy.
func GrowPlant(flora *components.Flora, body *components.Body, cfg *config.PlantConfig) {
	flora.Age++
	if flora.Energy < flora.MaxEnergy {
		flora.Energy += flora.GrowthRate
		if flora.Energy > flora.MaxEnergy {
			flora.Energy = flora.MaxEnergy
		}
	}
	body.Radius = cfg.MinRadius + flora.EnergyRatio()*cfg.RadiusScale
}

// PlantDisplayColor dims the base color by the plant's energy ratio.
func PlantDisplayColor(flora components.Flora, base components.RGB) components.RGB {
	return base.Scale(clampFloat(flora.EnergyRatio(), 0, 1))
}
