// Package systems provides the per-tick rules of the simulation.
package systems

import (
	"github.com/pthm-cable/ecosim/components"
)

// Neighbor holds a nearby entry with precomputed spatial data.
// Index refers to the slice the grid was built from.
type Neighbor struct {
	Index  int
	DX, DY float64 // Delta from query origin
	DistSq float64
}

// SpatialGrid provides near O(1) neighbor lookups using a cell-based grid.
// Entries are indices into a caller-owned position slice, which keeps
// collection order available for tie-breaking.
type SpatialGrid struct {
	cellSize float64
	cols     int
	rows     int
	cells    [][]int32
}

// NewSpatialGrid creates a spatial grid covering the given world size.
func NewSpatialGrid(width, height, cellSize float64) *SpatialGrid {
	if cellSize <= 0 {
		cellSize = 100
	}
	cols := int(width/cellSize) + 1
	rows := int(height/cellSize) + 1

	cells := make([][]int32, cols*rows)
	for i := range cells {
		cells[i] = make([]int32, 0, 8)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		cells:    cells,
	}
}

// Clear removes all entries from the grid.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds index at the given position.
func (g *SpatialGrid) Insert(index int, x, y float64) {
	idx := g.cellIndex(x, y)
	g.cells[idx] = append(g.cells[idx], int32(index))
}

// Rebuild clears the grid and inserts every position by its slice index.
func (g *SpatialGrid) Rebuild(positions []components.Position) {
	g.Clear()
	for i, p := range positions {
		g.Insert(i, p.X, p.Y)
	}
}

// QueryRadiusInto appends every entry strictly closer than radius to (x, y)
// and returns the updated slice. Distances are plain Euclidean; the query
// does not wrap around world edges. Reuse dst across calls to avoid allocations.
func (g *SpatialGrid) QueryRadiusInto(dst []Neighbor, x, y, radius float64, exclude int, positions []components.Position) []Neighbor {
	if radius <= 0 {
		return dst
	}
	radiusSq := radius * radius

	minCol, minRow := g.cellCoords(x-radius, y-radius)
	maxCol, maxRow := g.cellCoords(x+radius, y+radius)

	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			for _, i := range g.cells[row*g.cols+col] {
				idx := int(i)
				if idx == exclude {
					continue
				}
				p := positions[idx]
				dx, dy := p.X-x, p.Y-y
				distSq := dx*dx + dy*dy
				if distSq < radiusSq {
					dst = append(dst, Neighbor{Index: idx, DX: dx, DY: dy, DistSq: distSq})
				}
			}
		}
	}

	return dst
}

// cellCoords returns the clamped column and row for a world position.
func (g *SpatialGrid) cellCoords(x, y float64) (col, row int) {
	col = int(x / g.cellSize)
	row = int(y / g.cellSize)

	if x < 0 {
		col = 0
	} else if col >= g.cols {
		col = g.cols - 1
	}
	if y < 0 {
		row = 0
	} else if row >= g.rows {
		row = g.rows - 1
	}
	return col, row
}

// cellIndex returns the flat index for a world position.
func (g *SpatialGrid) cellIndex(x, y float64) int {
	col, row := g.cellCoords(x, y)
	return row*g.cols + col
}

// Nearest returns the neighbor with the smallest distance, preferring the
// lowest index on ties. ok is false when neighbors is empty.
func Nearest(neighbors []Neighbor) (n Neighbor, ok bool) {
	for i, c := range neighbors {
		if i == 0 || c.DistSq < n.DistSq || (c.DistSq == n.DistSq && c.Index < n.Index) {
			n = c
			ok = true
		}
	}
	return n, ok
}
