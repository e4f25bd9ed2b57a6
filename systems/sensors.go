package systems

import (
	"fmt"

	"github.com/pthm-cable/ecosim/components"
)

// CreatureSample is the read-only view of a creature used by perception.
type CreatureSample struct {
	ID       uint32
	Predator bool
	Dead     bool
}

// PlantSample is the read-only view of a plant used by perception.
type PlantSample struct {
	ID uint32
}

// WorldView is the read-only state perception runs against.
// Positions are parallel to the sample slices and indexed the same way.
type WorldView struct {
	Width, Height float64

	Creatures         []CreatureSample
	CreaturePositions []components.Position
	CreatureGrid      *SpatialGrid // optional; nil means linear scan

	Plants         []PlantSample
	PlantPositions []components.Position
	PlantGrid      *SpatialGrid // optional; nil means linear scan
}

// SenseSelf describes the creature doing the sensing.
type SenseSelf struct {
	Index        int // index into WorldView.Creatures
	Predator     bool
	EnergyRatio  float64
	ViewDistance float64
}

// Sense builds the fixed 8-element sensor vector:
//
//	0-1 offset to nearest plant
//	2-3 offset to nearest living herbivore (predators only)
//	4-5 offset to nearest living predator (herbivores only)
//	6   energy / max energy
//	7   noise
//
// Offsets are normalized by world size and zero when nothing is in view.
// noise must be drawn by the caller from U(-1, 1). scratch is reused and returned.
// Sense panics if any element is not finite.
func Sense(w *WorldView, self SenseSelf, noise float64, scratch []Neighbor) (components.Sensors, []Neighbor) {
	var s components.Sensors
	origin := w.CreaturePositions[self.Index]

	var idx int
	var ok bool

	idx, ok, scratch = nearestPlant(w, origin, self.ViewDistance, scratch)
	if ok {
		p := w.PlantPositions[idx]
		s.Inputs[0] = (p.X - origin.X) / w.Width
		s.Inputs[1] = (p.Y - origin.Y) / w.Height
		s.FoodID = w.Plants[idx].ID
	}

	if self.Predator {
		idx, ok, scratch = nearestCreature(w, origin, self.Index, self.ViewDistance, false, scratch)
		if ok {
			p := w.CreaturePositions[idx]
			s.Inputs[2] = (p.X - origin.X) / w.Width
			s.Inputs[3] = (p.Y - origin.Y) / w.Height
			s.PreyID = w.Creatures[idx].ID
		}
	} else {
		idx, ok, scratch = nearestCreature(w, origin, self.Index, self.ViewDistance, true, scratch)
		if ok {
			p := w.CreaturePositions[idx]
			s.Inputs[4] = (p.X - origin.X) / w.Width
			s.Inputs[5] = (p.Y - origin.Y) / w.Height
			s.ThreatID = w.Creatures[idx].ID
		}
	}

	s.Inputs[6] = self.EnergyRatio
	s.Inputs[7] = noise

	for i, v := range s.Inputs {
		if !isFinite(v) {
			panic(fmt.Sprintf("systems: non-finite sensor %d: %v", i, v))
		}
	}
	return s, scratch
}

func nearestPlant(w *WorldView, origin components.Position, view float64, scratch []Neighbor) (int, bool, []Neighbor) {
	if w.PlantGrid == nil {
		idx, ok := linearNearest(w.PlantPositions, origin, view, func(int) bool { return true })
		return idx, ok, scratch
	}
	scratch = w.PlantGrid.QueryRadiusInto(scratch[:0], origin.X, origin.Y, view, -1, w.PlantPositions)
	n, ok := Nearest(scratch)
	return n.Index, ok, scratch
}

// nearestCreature finds the nearest living creature other than self whose
// role matches wantPredator.
func nearestCreature(w *WorldView, origin components.Position, self int, view float64, wantPredator bool, scratch []Neighbor) (int, bool, []Neighbor) {
	match := func(i int) bool {
		c := w.Creatures[i]
		return i != self && !c.Dead && c.Predator == wantPredator
	}
	if w.CreatureGrid == nil {
		idx, ok := linearNearest(w.CreaturePositions, origin, view, match)
		return idx, ok, scratch
	}

	scratch = w.CreatureGrid.QueryRadiusInto(scratch[:0], origin.X, origin.Y, view, self, w.CreaturePositions)
	filtered := scratch[:0]
	for _, n := range scratch {
		if match(n.Index) {
			filtered = append(filtered, n)
		}
	}
	n, ok := Nearest(filtered)
	return n.Index, ok, scratch
}

// linearNearest scans positions in order; the first of equally near entries wins.
func linearNearest(positions []components.Position, origin components.Position, view float64, match func(int) bool) (int, bool) {
	best, bestDist := -1, view*view
	for i, p := range positions {
		if !match(i) {
			continue
		}
		if d := DistanceSq(origin.X, origin.Y, p.X, p.Y); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, best >= 0
}
