package occupancy

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.viam.com/test"

	"github.com/mtg-robotics/lazytraffic/spatialmath"
)

// gridWithWall builds a width x height grid at resolution res, centered on
// world (0,0) (i.e. cell (width/2, height/2) maps to world (0,0)), with the
// given cells occupied.
func gridWithWall(t *testing.T, width, height int, res float64, occupiedAt [][2]int) *Grid {
	t.Helper()
	cells := make([]int8, width*height)
	for _, c := range occupiedAt {
		cells[c[1]*width+c[0]] = 100
	}
	origin := spatialmath.Vector2{X: -float64(width/2) * res, Y: -float64(height/2) * res}
	g, err := NewGrid(width, height, res, origin, cells)
	test.That(t, err, test.ShouldBeNil)
	return g
}

func TestExtractDisabledReturnsNil(t *testing.T) {
	g := gridWithWall(t, 21, 21, 0.1, [][2]int{{11, 10}})
	obs := Extract(g, spatialmath.Vector2{X: 0, Y: 0}, false)
	test.That(t, obs, test.ShouldBeEmpty)
}

func TestExtractOutOfGridReturnsNil(t *testing.T) {
	g := gridWithWall(t, 20, 20, 0.1, nil)
	obs := Extract(g, spatialmath.Vector2{X: 100, Y: 100}, true)
	test.That(t, obs, test.ShouldBeEmpty)
}

func TestExtractFindsAdjacentOccupiedCell(t *testing.T) {
	// center cell (10,10) maps to world (0,0); (11,10) is one cell east.
	g := gridWithWall(t, 21, 21, 0.1, [][2]int{{11, 10}})
	obs := Extract(g, spatialmath.Vector2{X: 0, Y: 0}, true)
	test.That(t, len(obs), test.ShouldEqual, 1)
	test.That(t, spatialmath.AreSame(obs[0].Position.X, 0.1), test.ShouldBeTrue)
	test.That(t, spatialmath.AreSame(obs[0].Position.Y, 0.0), test.ShouldBeTrue)
	test.That(t, obs[0].Radius, test.ShouldEqual, RepulsionRadius/2)
}

func TestExtractBoundedByMaxDistance(t *testing.T) {
	// occupied cell 1m away (10 cells at 0.1m), far outside the 0.5m BFS radius.
	g := gridWithWall(t, 41, 41, 0.1, [][2]int{{30, 20}})
	obs := Extract(g, spatialmath.Vector2{X: 0, Y: 0}, true)
	test.That(t, obs, test.ShouldBeEmpty)
}

func TestExtractDedupesPerOctant(t *testing.T) {
	// two occupied cells in roughly the same direction; only the nearer
	// one (first encountered by the BFS) should be reported for that
	// octant.
	g := gridWithWall(t, 21, 21, 0.1, [][2]int{{11, 10}, {12, 10}})
	obs := Extract(g, spatialmath.Vector2{X: 0, Y: 0}, true)

	want := []StaticObstacle{{Position: g.CellCenter(11, 10), Radius: RepulsionRadius / 2}}
	if diff := cmp.Diff(want, obs); diff != "" {
		t.Errorf("unexpected obstacle list (-want +got):\n%s", diff)
	}
}
