package systems

import (
	"math/rand"

	"github.com/pthm-cable/ecosim/components"
)

// MateCandidate is a live creature considered during reproduction.
// The pointers reference ECS storage and stay valid until the next
// structural change of the world.
type MateCandidate struct {
	Pos *components.Position
	Org *components.Organism
}

// FindMate returns the index of the first living creature of the same kind,
// other than self, that can reproduce and is closer than radius. It returns
// -1 when there is none.
func FindMate(self int, cands []MateCandidate, radius float64) int {
	me := cands[self]
	for i, c := range cands {
		if i == self || c.Org.Dead || c.Org.Kind != me.Org.Kind || !c.Org.CanReproduce {
			continue
		}
		if Distance(me.Pos.X, me.Pos.Y, c.Pos.X, c.Pos.Y) < radius {
			return i
		}
	}
	return -1
}

// SexualOffspringPosition places a child at the parents' midpoint plus
// U(-jitter, jitter) on each axis.
func SexualOffspringPosition(rng *rand.Rand, a, b components.Position, jitter float64) components.Position {
	return components.Position{
		X: (a.X+b.X)/2 + (rng.Float64()*2-1)*jitter,
		Y: (a.Y+b.Y)/2 + (rng.Float64()*2-1)*jitter,
	}
}

// AsexualOffspringPosition places a child at the parent plus U(-offset, offset)
// on each axis.
func AsexualOffspringPosition(rng *rand.Rand, p components.Position, offset float64) components.Position {
	return components.Position{
		X: p.X + (rng.Float64()*2-1)*offset,
		Y: p.Y + (rng.Float64()*2-1)*offset,
	}
}

// ChildGeneration returns one more than the highest parent generation.
func ChildGeneration(parents ...*components.Organism) int {
	gen := 0
	for _, p := range parents {
		if p != nil && p.Generation > gen {
			gen = p.Generation
		}
	}
	return gen + 1
}
