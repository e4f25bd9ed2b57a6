package components

// Energy tracks an entity's energy store.
// Value stays in [0, Max]; gains are clamped to Max.
type Energy struct {
	Value float64
	Max   float64
}

// Ratio returns Value/Max, or 0 when Max is zero.
func (e Energy) Ratio() float64 {
	if e.Max <= 0 {
		return 0
	}
	return e.Value / e.Max
}

// Gain adds amount and clamps to Max.
func (e *Energy) Gain(amount float64) {
	e.Value += amount
	if e.Value > e.Max {
		e.Value = e.Max
	}
}

// Spend subtracts amount and clamps to zero.
func (e *Energy) Spend(amount float64) {
	e.Value -= amount
	if e.Value < 0 {
		e.Value = 0
	}
}

// Organism bundles identity, lifecycle and reproduction state for a creature.
type Organism struct {
	ID            uint32
	Kind          Kind
	Age           int
	MaxAge        int
	Generation    int
	ReproCooldown int
	Children      int
	FoodEaten     int
	SurvivalTime  int
	Fitness       float64
	CanReproduce  bool // recomputed every tick
	Dead          bool
	Cause         DeathCause
}

// NumSensors and NumActions are the fixed perception and action widths.
const (
	NumSensors = 8
	NumActions = 4
)

// Sensors holds the latest perception and brain output of a creature.
// Target IDs are zero when nothing was perceived.
type Sensors struct {
	Inputs   [NumSensors]float64
	Outputs  [NumActions]float64
	FoodID   uint32
	PreyID   uint32
	ThreatID uint32
}

// Flora holds plant growth state.
type Flora struct {
	ID         uint32
	Energy     float64
	MaxEnergy  float64
	GrowthRate float64
	Age        int
	Consumed   bool
}

// EnergyRatio returns Energy/MaxEnergy.
func (f Flora) EnergyRatio() float64 {
	if f.MaxEnergy <= 0 {
		return 0
	}
	return f.Energy / f.MaxEnergy
}
