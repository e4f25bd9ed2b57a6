package game

import (
	"runtime"
	"sync"

	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/neural"
	"github.com/pthm-cable/ecosim/systems"
)

// thinkSnapshot captures the read-only state one creature thinks with.
type thinkSnapshot struct {
	Active bool // false for creatures that died earlier this tick
	Self   systems.SenseSelf
	Noise  float64
	Brain  *neural.Brain
}

// workerScratch holds per-worker reusable buffers.
type workerScratch struct {
	Neighbors []systems.Neighbor
}

// workChunk represents a range of creatures for a worker to process.
type workChunk struct {
	start, end int
}

// parallelState holds resources for the parallel think pass.
// Snapshots and results are indexed like Game.creatures.
type parallelState struct {
	view      systems.WorldView
	snapshots []thinkSnapshot
	results   []components.Sensors
	scratches []workerScratch

	numWorkers int

	// Worker pool channels
	workChan chan workChunk // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool           // true if workers are running
}

// newParallelState sizes the pool. workers <= 0 uses GOMAXPROCS.
func newParallelState(workers int) *parallelState {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	scratches := make([]workerScratch, workers)
	for i := range scratches {
		scratches[i].Neighbors = make([]systems.Neighbor, 0, 64)
	}
	return &parallelState{
		numWorkers: workers,
		scratches:  scratches,
		snapshots:  make([]thinkSnapshot, 0, 128),
		results:    make([]components.Sensors, 0, 128),
	}
}

// startWorkers launches persistent worker goroutines.
func (p *parallelState) startWorkers() {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// stopWorkers signals all workers to exit and waits for them.
func (p *parallelState) stopWorkers() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

// worker runs in a goroutine, processing chunks until stopped.
func (p *parallelState) worker(workerID int) {
	defer p.wg.Done()
	scratch := &p.scratches[workerID]

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			p.computeChunk(chunk.start, chunk.end, scratch)
			p.doneChan <- struct{}{}
		}
	}
}

// think runs perception and inference for every living creature against
// positions frozen after the prepare pass. Noise is drawn up front in
// collection order, so results do not depend on the worker count.
func (g *Game) think() {
	p := g.parallel
	n := len(g.creatures)

	p.snapshots = p.snapshots[:0]
	if cap(p.results) < n {
		p.results = make([]components.Sensors, n)
	}
	p.results = p.results[:n]
	if n == 0 {
		return
	}

	g.buildWorldView()

	for i, e := range g.creatures {
		org := g.orgMap.Get(e)
		if org.Dead {
			p.snapshots = append(p.snapshots, thinkSnapshot{})
			continue
		}
		energy := g.energyMap.Get(e)
		role := g.cfg.Species.Role(org.Kind.IsPredator())
		p.snapshots = append(p.snapshots, thinkSnapshot{
			Active: true,
			Self: systems.SenseSelf{
				Index:        i,
				Predator:     org.Kind.IsPredator(),
				EnergyRatio:  energy.Ratio(),
				ViewDistance: role.ViewDistance,
			},
			Noise: g.rng.Float64()*2 - 1,
			Brain: g.brains[org.ID],
		})
	}

	if n < g.cfg.Simulation.ParallelMin || p.numWorkers == 1 {
		p.computeChunk(0, n, &p.scratches[0])
		return
	}
	p.computeParallel(n)
}

// buildWorldView refreshes the perception view and spatial grids.
func (g *Game) buildWorldView() {
	v := &g.parallel.view
	v.Width = g.cfg.World.Width
	v.Height = g.cfg.World.Height

	v.Creatures = v.Creatures[:0]
	v.CreaturePositions = v.CreaturePositions[:0]
	for _, e := range g.creatures {
		org := g.orgMap.Get(e)
		v.Creatures = append(v.Creatures, systems.CreatureSample{
			ID:       org.ID,
			Predator: org.Kind.IsPredator(),
			Dead:     org.Dead,
		})
		v.CreaturePositions = append(v.CreaturePositions, *g.posMap.Get(e))
	}

	v.Plants = v.Plants[:0]
	v.PlantPositions = v.PlantPositions[:0]
	for _, e := range g.plants {
		v.Plants = append(v.Plants, systems.PlantSample{ID: g.floraMap.Get(e).ID})
		v.PlantPositions = append(v.PlantPositions, *g.posMap.Get(e))
	}

	g.creatureGrid.Rebuild(v.CreaturePositions)
	g.plantGrid.Rebuild(v.PlantPositions)
	v.CreatureGrid = g.creatureGrid
	v.PlantGrid = g.plantGrid
}

func (p *parallelState) computeParallel(n int) {
	if !p.running {
		p.startWorkers()
	}

	numWorkers := p.numWorkers
	chunkSize := (n + numWorkers - 1) / numWorkers

	chunksDispatched := 0
	for w := 0; w < numWorkers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}

		p.workChan <- workChunk{start: start, end: end}
		chunksDispatched++
	}

	// Wait for all chunks to complete
	for i := 0; i < chunksDispatched; i++ {
		<-p.doneChan
	}
}

// computeChunk senses and predicts for creatures [i0, i1). It only reads
// shared state and writes its own result slots.
func (p *parallelState) computeChunk(i0, i1 int, scratch *workerScratch) {
	for i := i0; i < i1; i++ {
		snap := &p.snapshots[i]
		if !snap.Active {
			p.results[i] = components.Sensors{}
			continue
		}

		var s components.Sensors
		s, scratch.Neighbors = systems.Sense(&p.view, snap.Self, snap.Noise, scratch.Neighbors)
		copy(s.Outputs[:], snap.Brain.Predict(s.Inputs[:]))
		p.results[i] = s
	}
}
