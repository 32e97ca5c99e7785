package occupancy

import (
	"math"

	"github.com/mtg-robotics/lazytraffic/spatialmath"
)

// MaxStaticObsDist is the Euclidean BFS radius, in meters, beyond which
// the static-obstacle sweep stops searching.
const MaxStaticObsDist = 0.5

// RepulsionRadius is the combined-radius constant used for Minkowski sums
// across the module; a static obstacle's own radius is half of it.
const RepulsionRadius = 0.5

// octantCount is the size of the 8-connected direction table
// ({-1,-1},{-1,0},{-1,1},{0,-1},{0,1},{1,-1},{1,0},{1,1}): one slot per
// compass octant around the agent.
const octantCount = 8

// StaticObstacle is a point treated like a zero-velocity neighbor with a
// small inflation radius, extracted from the occupancy grid.
type StaticObstacle struct {
	Position spatialmath.Vector2
	Radius   float64
}

// cellKey packs a cell coordinate into a single comparable value for the
// duplicate-suppression set.
type cellKey struct{ cx, cy int }

// Extract performs an 8-direction breadth-first sweep of grid starting at
// the cell nearest pos, bounded by MaxStaticObsDist, and returns at most one
// obstacle record per compass octant: the first occupied cell encountered
// in that direction. Returns nil if grid is nil, pos maps outside the grid,
// or enabled is false.
func Extract(grid *Grid, pos spatialmath.Vector2, enabled bool) []StaticObstacle {
	if !enabled || grid == nil {
		return nil
	}
	startX, startY, ok := grid.WorldToCell(pos)
	if !ok {
		return nil
	}

	type queued struct{ cx, cy int }
	visited := map[cellKey]bool{{startX, startY}: true}
	queue := []queued{{startX, startY}}

	foundByOctant := make([]*StaticObstacle, octantCount)
	neighborDirs := [][2]int{{-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0}, {1, 1}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, d := range neighborDirs {
			nx, ny := cur.cx+d[0], cur.cy+d[1]
			key := cellKey{nx, ny}
			if visited[key] {
				continue
			}
			visited[key] = true

			center := grid.CellCenter(nx, ny)
			dist := spatialmath.Distance(pos, center)
			if dist > MaxStaticObsDist {
				continue
			}

			if grid.Occupied(nx, ny) {
				oct := octantOf(float64(nx-startX), float64(ny-startY))
				if foundByOctant[oct] == nil {
					foundByOctant[oct] = &StaticObstacle{Position: center, Radius: RepulsionRadius / 2}
				}
				// An occupied cell still ends that line of sight; don't
				// expand past it.
				continue
			}

			queue = append(queue, queued{nx, ny})
		}
	}

	obstacles := make([]StaticObstacle, 0, octantCount)
	for _, o := range foundByOctant {
		if o != nil {
			obstacles = append(obstacles, *o)
		}
	}
	return obstacles
}

// octantOf buckets a relative (dx, dy) direction into one of the 8 compass
// octants, used to deduplicate the BFS frontier into the original's
// per-direction obstacle list.
func octantOf(dx, dy float64) int {
	angle := math.Atan2(dy, dx)
	if angle < 0 {
		angle += 2 * math.Pi
	}
	const sector = math.Pi / 4
	oct := int(math.Round(angle/sector)) % octantCount
	return oct
}
