package neighbors

import (
	"testing"

	"go.viam.com/test"

	"github.com/mtg-robotics/lazytraffic/spatialmath"
)

func snap(id string, x, y float64) Snapshot {
	return Snapshot{ID: AgentID(id), Position: spatialmath.Vector2{X: x, Y: y}, MaxSpeed: 0.3}
}

func TestSelectExcludesSelf(t *testing.T) {
	pop := []Snapshot{snap("a", 0, 0), snap("b", 0.1, 0)}
	got := Select("a", spatialmath.Vector2{}, pop)
	test.That(t, len(got), test.ShouldEqual, 1)
	test.That(t, got[0].ID, test.ShouldEqual, AgentID("b"))
}

func TestSelectCullsByDistance(t *testing.T) {
	pop := []Snapshot{snap("near", 1.0, 0), snap("far", 5.0, 0)}
	got := Select("self", spatialmath.Vector2{}, pop)
	test.That(t, len(got), test.ShouldEqual, 1)
	test.That(t, got[0].ID, test.ShouldEqual, AgentID("near"))
}

func TestSelectTopKAscending(t *testing.T) {
	pop := []Snapshot{
		snap("c", 1.5, 0),
		snap("a", 0.5, 0),
		snap("b", 1.0, 0),
		snap("d", 1.9, 0),
		snap("e", 1.99, 0),
		snap("f", 0.1, 0),
	}
	got := Select("self", spatialmath.Vector2{}, pop)
	test.That(t, len(got), test.ShouldEqual, MaxNeighbors)
	ids := []AgentID{}
	for _, s := range got {
		ids = append(ids, s.ID)
	}
	test.That(t, ids, test.ShouldResemble, []AgentID{"f", "a", "b", "c", "d"})
}

func TestSelectBreaksTiesLexicographically(t *testing.T) {
	pop := []Snapshot{snap("zzz", 1.0, 0), snap("aaa", 1.0, 0)}
	got := Select("self", spatialmath.Vector2{}, pop)
	test.That(t, len(got), test.ShouldEqual, 2)
	test.That(t, got[0].ID, test.ShouldEqual, AgentID("aaa"))
	test.That(t, got[1].ID, test.ShouldEqual, AgentID("zzz"))
}
