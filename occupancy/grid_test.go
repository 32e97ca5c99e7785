package occupancy

import (
	"testing"

	"go.viam.com/test"

	"github.com/mtg-robotics/lazytraffic/spatialmath"
)

func TestNewGridValidatesLength(t *testing.T) {
	_, err := NewGrid(2, 2, 0.1, spatialmath.Vector2{}, []int8{0, 0, 0})
	test.That(t, err, test.ShouldNotBeNil)
}

func TestWorldToCellRoundTrip(t *testing.T) {
	g, err := NewGrid(10, 10, 0.1, spatialmath.Vector2{X: -0.5, Y: -0.5}, make([]int8, 100))
	test.That(t, err, test.ShouldBeNil)

	cx, cy, ok := g.WorldToCell(spatialmath.Vector2{X: 0, Y: 0})
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, cx, test.ShouldEqual, 5)
	test.That(t, cy, test.ShouldEqual, 5)

	back := g.CellCenter(cx, cy)
	test.That(t, spatialmath.AreSame(back.X, 0), test.ShouldBeTrue)
	test.That(t, spatialmath.AreSame(back.Y, 0), test.ShouldBeTrue)
}

func TestWorldToCellOutOfBounds(t *testing.T) {
	g, _ := NewGrid(4, 4, 0.1, spatialmath.Vector2{}, make([]int8, 16))
	_, _, ok := g.WorldToCell(spatialmath.Vector2{X: 100, Y: 100})
	test.That(t, ok, test.ShouldBeFalse)
}

func TestOccupied(t *testing.T) {
	cells := make([]int8, 9)
	cells[4] = 80 // center cell of a 3x3 grid
	g, _ := NewGrid(3, 3, 1.0, spatialmath.Vector2{}, cells)
	test.That(t, g.Occupied(1, 1), test.ShouldBeTrue)
	test.That(t, g.Occupied(0, 0), test.ShouldBeFalse)
	test.That(t, g.Occupied(10, 10), test.ShouldBeFalse)
}
