package rvo

import (
	"testing"

	"go.viam.com/test"

	"github.com/mtg-robotics/lazytraffic/neighbors"
	"github.com/mtg-robotics/lazytraffic/occupancy"
	"github.com/mtg-robotics/lazytraffic/spatialmath"
)

// RVO identity law: zero neighbors, zero static obstacles ⇒ rvo velocity
// equals preferred velocity exactly.
func TestSolveIdentityWithNoConstraints(t *testing.T) {
	self := Self{
		Position:          spatialmath.Vector2{0, 0},
		PreferredVelocity: spatialmath.Vector2{0.3, 0},
		MaxSpeed:          0.3,
	}
	out := Solve(self, nil, nil, DefaultParams())
	test.That(t, out, test.ShouldResemble, self.PreferredVelocity)
}

func TestSolveZeroPreferredNeverInvokesSearch(t *testing.T) {
	self := Self{Position: spatialmath.Vector2{0, 0}, PreferredVelocity: spatialmath.Vector2{}, MaxSpeed: 0.3}
	peer := neighbors.Snapshot{ID: "b", Position: spatialmath.Vector2{0.1, 0}, MaxSpeed: 0.3}
	out := Solve(self, []neighbors.Snapshot{peer}, nil, DefaultParams())
	test.That(t, out, test.ShouldResemble, spatialmath.Vector2{})
}

func TestSolveStaysBoundedByMaxSpeed(t *testing.T) {
	self := Self{
		Position:          spatialmath.Vector2{0, 0},
		PreferredVelocity: spatialmath.Vector2{0.3, 0},
		MaxSpeed:          0.3,
	}
	peer := neighbors.Snapshot{
		ID:                "b",
		Position:          spatialmath.Vector2{0.3, 0},
		CurrentVelocity:   spatialmath.Vector2{-0.3, 0},
		PreferredVelocity: spatialmath.Vector2{-0.3, 0},
		MaxSpeed:          0.3,
	}
	out := Solve(self, []neighbors.Snapshot{peer}, nil, DefaultParams())
	test.That(t, out.Norm() <= 0.3+1e-9, test.ShouldBeTrue)
}

// S4: a head-on pair deflects laterally in opposite directions.
func TestSolveHeadOnPairDeflectsOppositeLaterally(t *testing.T) {
	params := DefaultParams()

	a := Self{
		Position:          spatialmath.Vector2{0, 0},
		CurrentVelocity:   spatialmath.Vector2{0.3, 0},
		PreferredVelocity: spatialmath.Vector2{0.3, 0},
		MaxSpeed:          0.3,
	}
	bAsNeighborOfA := neighbors.Snapshot{
		ID:                "b",
		Position:          spatialmath.Vector2{1, 0},
		CurrentVelocity:   spatialmath.Vector2{-0.3, 0},
		PreferredVelocity: spatialmath.Vector2{-0.3, 0},
		MaxSpeed:          0.3,
	}

	b := Self{
		Position:          spatialmath.Vector2{1, 0},
		CurrentVelocity:   spatialmath.Vector2{-0.3, 0},
		PreferredVelocity: spatialmath.Vector2{-0.3, 0},
		MaxSpeed:          0.3,
	}
	aAsNeighborOfB := neighbors.Snapshot{
		ID:                "a",
		Position:          spatialmath.Vector2{0, 0},
		CurrentVelocity:   spatialmath.Vector2{0.3, 0},
		PreferredVelocity: spatialmath.Vector2{0.3, 0},
		MaxSpeed:          0.3,
	}

	outA := Solve(a, []neighbors.Snapshot{bAsNeighborOfA}, nil, params)
	outB := Solve(b, []neighbors.Snapshot{aAsNeighborOfB}, nil, params)

	// Both must deviate from their straight-line preferred velocity...
	test.That(t, outA, test.ShouldNotResemble, a.PreferredVelocity)
	test.That(t, outB, test.ShouldNotResemble, b.PreferredVelocity)

	// ...with mirrored (opposite-sign) lateral components, by symmetry of
	// the scenario under x -> -x, vx -> -vx.
	test.That(t, spatialmath.AreSame(outA.Y, -outB.Y), test.ShouldBeTrue)
}

func TestSolveFallsBackToZeroWhenNoFeasibleCandidate(t *testing.T) {
	// A stationary "obstacle" neighbor occupying exactly the self position
	// with an enormous combined radius leaves nothing feasible.
	self := Self{
		Position:          spatialmath.Vector2{0, 0},
		PreferredVelocity: spatialmath.Vector2{0.3, 0},
		MaxSpeed:          0.3,
	}
	obs := occupancy.StaticObstacle{Position: spatialmath.Vector2{0, 0}, Radius: 100}
	out := Solve(self, nil, []occupancy.StaticObstacle{obs}, DefaultParams())
	test.That(t, out, test.ShouldResemble, spatialmath.Vector2{})
}

func TestInducesRVOCollisionHeadOn(t *testing.T) {
	blocked := inducesRVOCollision(
		spatialmath.Vector2{0, 0}, spatialmath.Vector2{0.3, 0},
		spatialmath.Vector2{0.3, 0},
		spatialmath.Vector2{1, 0}, spatialmath.Vector2{-0.3, 0},
		DefaultCombinedRadius, DefaultHorizon,
	)
	test.That(t, blocked, test.ShouldBeTrue)
}

func TestInducesRVOCollisionClearPath(t *testing.T) {
	blocked := inducesRVOCollision(
		spatialmath.Vector2{0, 0}, spatialmath.Vector2{0.3, 0},
		spatialmath.Vector2{0.3, 0},
		spatialmath.Vector2{0, 10}, spatialmath.Vector2{0, 0},
		DefaultCombinedRadius, DefaultHorizon,
	)
	test.That(t, blocked, test.ShouldBeFalse)
}
