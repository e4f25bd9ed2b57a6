package components

import (
	"math/rand"
	"testing"
)

func TestRGBBlend(t *testing.T) {
	got := RGB{200, 50, 0}.Blend(RGB{100, 151, 255})
	want := RGB{150, 100, 127}
	if got != want {
		t.Errorf("Blend = %v, want %v", got, want)
	}
}

func TestRGBJitterClamps(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		c := RGB{250, 5, 128}.Jitter(rng, 20)
		if c.R < 230 || c.G > 25 || c.B < 108 || c.B > 148 {
			t.Fatalf("Jitter = %v, out of expected band", c)
		}
	}
}

func TestRGBScale(t *testing.T) {
	tests := []struct {
		f    float64
		want RGB
	}{
		{0, RGB{0, 0, 0}},
		{0.5, RGB{10, 100, 50}},
		{1, RGB{20, 200, 100}},
		{2, RGB{40, 255, 200}},
	}
	for _, tt := range tests {
		if got := (RGB{20, 200, 100}).Scale(tt.f); got != tt.want {
			t.Errorf("Scale(%v) = %v, want %v", tt.f, got, tt.want)
		}
	}
}

func TestEnergyGain(t *testing.T) {
	e := Energy{Value: 90, Max: 100}
	e.Gain(25)
	if e.Value != 100 {
		t.Errorf("Value = %v, want 100", e.Value)
	}
	if e.Ratio() != 1 {
		t.Errorf("Ratio = %v, want 1", e.Ratio())
	}
}
