package telemetry

import (
	"log/slog"
	"time"
)

// Phase identifies one stage of a simulation step.
type Phase int

// Step phases, in execution order.
const (
	PhasePlants Phase = iota
	PhasePrepare
	PhaseThink
	PhaseApply
	PhaseInteractions
	PhaseSpawning
	PhaseCleanup
	PhaseStats
	numPhases
)

var phaseNames = [numPhases]string{
	"plants", "creatures_prepare", "creatures_think", "creatures_apply",
	"interactions", "spawning", "cleanup", "stats",
}

func (p Phase) String() string {
	if p < 0 || p >= numPhases {
		return "unknown"
	}
	return phaseNames[p]
}

// PhaseDurations holds one duration per step phase.
type PhaseDurations [numPhases]time.Duration

// perfSample is the timing of a single tick.
type perfSample struct {
	tick   time.Duration
	phases PhaseDurations
}

// PerfCollector keeps per-phase step timings over a rolling window of ticks.
type PerfCollector struct {
	samples []perfSample
	next    int
	count   int

	current    perfSample
	tickStart  time.Time
	phaseStart time.Time
	active     Phase
	inPhase    bool

	now func() time.Time
}

// NewPerfCollector creates a collector averaging over the last window ticks.
func NewPerfCollector(window int) *PerfCollector {
	if window < 1 {
		window = 60
	}
	return &PerfCollector{
		samples: make([]perfSample, window),
		now:     time.Now,
	}
}

// StartTick begins timing a new simulation tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = p.now()
	p.current = perfSample{}
	p.inPhase = false
}

// StartPhase closes the running phase, if any, and opens phase.
func (p *PerfCollector) StartPhase(phase Phase) {
	now := p.now()
	p.closePhase(now)
	p.phaseStart = now
	p.active = phase
	p.inPhase = true
}

// EndTick closes the running phase and stores the tick in the window.
func (p *PerfCollector) EndTick() {
	now := p.now()
	p.closePhase(now)
	p.inPhase = false
	p.current.tick = now.Sub(p.tickStart)

	p.samples[p.next] = p.current
	p.next = (p.next + 1) % len(p.samples)
	if p.count < len(p.samples) {
		p.count++
	}
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.inPhase && p.active >= 0 && p.active < numPhases {
		p.current.phases[p.active] += now.Sub(p.phaseStart)
	}
}

// PerfStats is the window summary of step timings.
type PerfStats struct {
	Ticks int // samples in the window

	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration

	PhaseAvg PhaseDurations
	PhasePct [numPhases]float64 // share of the average tick, in percent

	TicksPerSecond float64
}

// Stats summarizes the samples currently in the window.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{Ticks: p.count}
	if p.count == 0 {
		return s
	}

	var total time.Duration
	var phaseSum PhaseDurations
	for i := 0; i < p.count; i++ {
		sample := p.samples[i]
		total += sample.tick
		if i == 0 || sample.tick < s.MinTickDuration {
			s.MinTickDuration = sample.tick
		}
		if sample.tick > s.MaxTickDuration {
			s.MaxTickDuration = sample.tick
		}
		for ph, d := range sample.phases {
			phaseSum[ph] += d
		}
	}

	n := time.Duration(p.count)
	s.AvgTickDuration = total / n
	for ph := range phaseSum {
		s.PhaseAvg[ph] = phaseSum[ph] / n
		if s.AvgTickDuration > 0 {
			s.PhasePct[ph] = float64(s.PhaseAvg[ph]) / float64(s.AvgTickDuration) * 100
		}
	}
	if s.AvgTickDuration > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTickDuration)
	}
	return s
}

// LogStats logs the summary as a single "perf" event.
func (s PerfStats) LogStats() {
	slog.Info("perf", "timing", s)
}

// LogValue implements slog.LogValuer. Phases under 0.1% are omitted.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("ticks", s.Ticks),
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Int("ticks_per_sec", int(s.TicksPerSecond)),
	}
	for ph := Phase(0); ph < numPhases; ph++ {
		if pct := s.PhasePct[ph]; pct > 0.1 {
			attrs = append(attrs, slog.Float64(ph.String()+"_pct", float64(int(pct*10))/10))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfRecord is one row of perf.csv.
type PerfRecord struct {
	Tick            int64   `csv:"tick"`
	AvgTickUS       int64   `csv:"avg_tick_us"`
	MinTickUS       int64   `csv:"min_tick_us"`
	MaxTickUS       int64   `csv:"max_tick_us"`
	TicksPerSec     float64 `csv:"ticks_per_sec"`
	PlantsPct       float64 `csv:"plants_pct"`
	PreparePct      float64 `csv:"creatures_prepare_pct"`
	ThinkPct        float64 `csv:"creatures_think_pct"`
	ApplyPct        float64 `csv:"creatures_apply_pct"`
	InteractionsPct float64 `csv:"interactions_pct"`
	SpawningPct     float64 `csv:"spawning_pct"`
	CleanupPct      float64 `csv:"cleanup_pct"`
	StatsPct        float64 `csv:"stats_pct"`
}

// Record flattens the summary into a perf.csv row taken at tick.
func (s PerfStats) Record(tick int64) PerfRecord {
	return PerfRecord{
		Tick:            tick,
		AvgTickUS:       s.AvgTickDuration.Microseconds(),
		MinTickUS:       s.MinTickDuration.Microseconds(),
		MaxTickUS:       s.MaxTickDuration.Microseconds(),
		TicksPerSec:     s.TicksPerSecond,
		PlantsPct:       s.PhasePct[PhasePlants],
		PreparePct:      s.PhasePct[PhasePrepare],
		ThinkPct:        s.PhasePct[PhaseThink],
		ApplyPct:        s.PhasePct[PhaseApply],
		InteractionsPct: s.PhasePct[PhaseInteractions],
		SpawningPct:     s.PhasePct[PhaseSpawning],
		CleanupPct:      s.PhasePct[PhaseCleanup],
		StatsPct:        s.PhasePct[PhaseStats],
	}
}
