package components

import (
	"math"
	"math/rand"
)

// Body holds physical properties of an entity.
type Body struct {
	Radius   float64
	MaxSpeed float64
}

// RGB is an 8-bit per channel color.
type RGB struct {
	R, G, B uint8
}

// Blend returns the per-channel average of two colors.
func (c RGB) Blend(other RGB) RGB {
	return RGB{
		R: uint8((int(c.R) + int(other.R)) / 2),
		G: uint8((int(c.G) + int(other.G)) / 2),
		B: uint8((int(c.B) + int(other.B)) / 2),
	}
}

// Jitter offsets each channel by U(-amount, amount), clamped to [0, 255].
func (c RGB) Jitter(rng *rand.Rand, amount float64) RGB {
	return RGB{
		R: channel(float64(c.R) + (rng.Float64()*2-1)*amount),
		G: channel(float64(c.G) + (rng.Float64()*2-1)*amount),
		B: channel(float64(c.B) + (rng.Float64()*2-1)*amount),
	}
}

// Scale multiplies each channel by f, clamped to [0, 255].
func (c RGB) Scale(f float64) RGB {
	return RGB{
		R: channel(float64(c.R) * f),
		G: channel(float64(c.G) * f),
		B: channel(float64(c.B) * f),
	}
}

func channel(v float64) uint8 {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.Round(v))
}

// Appearance holds an entity's display color.
type Appearance struct {
	Color RGB
}
