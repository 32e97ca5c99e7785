// Package occupancy holds the occupancy grid representation and the
// breadth-first static-obstacle extractor that turns nearby occupied cells
// into RVO-compatible zero-velocity neighbors.
package occupancy

import (
	"fmt"
	"math"

	"github.com/mtg-robotics/lazytraffic/spatialmath"
)

// CollisionThresh is the cell value at or above which a cell is occupied.
const CollisionThresh = 50

// Grid is a rectangular int8 occupancy grid: width, height, resolution
// (meters/cell), an origin in the map frame, and row-major cells.
type Grid struct {
	Width      int
	Height     int
	Resolution float64
	Origin     spatialmath.Vector2
	Cells      []int8
}

// NewGrid builds a Grid, validating that cells has exactly Width*Height
// entries.
func NewGrid(width, height int, resolution float64, origin spatialmath.Vector2, cells []int8) (*Grid, error) {
	if len(cells) != width*height {
		return nil, fmt.Errorf("occupancy: expected %d cells for a %dx%d grid, got %d", width*height, width, height, len(cells))
	}
	return &Grid{Width: width, Height: height, Resolution: resolution, Origin: origin, Cells: cells}, nil
}

// index returns the row-major index of (cx, cy) and whether it lies inside
// the grid.
func (g *Grid) index(cx, cy int) (int, bool) {
	if cx < 0 || cy < 0 || cx >= g.Width || cy >= g.Height {
		return 0, false
	}
	return cy*g.Width + cx, true
}

// At returns the cell value at (cx, cy) and whether that cell is in bounds.
func (g *Grid) At(cx, cy int) (int8, bool) {
	idx, ok := g.index(cx, cy)
	if !ok {
		return 0, false
	}
	return g.Cells[idx], true
}

// Occupied reports whether (cx, cy) is in bounds and occupied.
func (g *Grid) Occupied(cx, cy int) bool {
	v, ok := g.At(cx, cy)
	return ok && v >= CollisionThresh
}

// WorldToCell maps a world-frame point to the nearest cell index:
// (cx, cy) = round((P - origin) / resolution).
func (g *Grid) WorldToCell(p spatialmath.Vector2) (cx, cy int, ok bool) {
	if g.Resolution <= 0 {
		return 0, 0, false
	}
	cx = int(math.Round((p.X - g.Origin.X) / g.Resolution))
	cy = int(math.Round((p.Y - g.Origin.Y) / g.Resolution))
	_, inBounds := g.index(cx, cy)
	return cx, cy, inBounds
}

// CellCenter returns the world-frame coordinate of cell (cx, cy), the
// inverse of WorldToCell's rounding map.
func (g *Grid) CellCenter(cx, cy int) spatialmath.Vector2 {
	return spatialmath.Vector2{
		X: g.Origin.X + float64(cx)*g.Resolution,
		Y: g.Origin.Y + float64(cy)*g.Resolution,
	}
}
