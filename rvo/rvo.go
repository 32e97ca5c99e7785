// Package rvo selects a collision-avoiding velocity for one agent given its
// preferred velocity, its moving neighbors, and nearby static obstacles,
// using the reciprocal velocity obstacle (RVO) formulation.
//
// The solver is a deterministic sampling search rather than a linear-program
// (ORCA) solve: it enumerates candidate velocities around the preferred
// direction and speed, discards any that induce an RVO collision with a
// neighbor or static obstacle within the look-ahead horizon, and returns the
// feasible candidate closest to the preferred velocity. Sampling was chosen
// over the linear-constraint form because its feasibility test is a single
// closed form per candidate (see blockedByAny below), with no degenerate-LP
// edge cases to get subtly wrong without being able to run the code.
package rvo

import (
	"math"
	"sort"

	"github.com/mtg-robotics/lazytraffic/neighbors"
	"github.com/mtg-robotics/lazytraffic/occupancy"
	"github.com/mtg-robotics/lazytraffic/spatialmath"
)

// DefaultHorizon is the look-ahead time horizon τ, in seconds, over which a
// candidate velocity is checked for inducing a collision.
const DefaultHorizon = 2.0

// DefaultCombinedRadius is the combined-radius constant for neighbor-pair
// Minkowski sums. Static obstacles carry
// their own, smaller radius (occupancy.StaticObstacle.Radius).
const DefaultCombinedRadius = occupancy.RepulsionRadius

// angleStepsPerSide and speedSteps control the sampling grid's resolution.
// 36 angle steps per side (5° each, up to 180°) by 20 speed fractions keeps
// the per-agent, per-tick search bounded at a few thousand candidate
// evaluations, well within one tick's time budget.
const (
	angleStepsPerSide = 36
	speedSteps        = 20
)

// Self is the querying agent's own state.
type Self struct {
	Position          spatialmath.Vector2
	CurrentVelocity   spatialmath.Vector2
	PreferredVelocity spatialmath.Vector2
	MaxSpeed          float64
}

// Params configures the solver's avoidance geometry and search resolution.
type Params struct {
	Horizon        float64
	CombinedRadius float64
}

// DefaultParams returns the built-in solver defaults.
func DefaultParams() Params {
	return Params{Horizon: DefaultHorizon, CombinedRadius: DefaultCombinedRadius}
}

// Solve returns a velocity for self that avoids every neighbor and static
// obstacle under the RVO formulation, deviating from self.PreferredVelocity
// as little as possible, bounded by self.MaxSpeed. If no sampled candidate
// (including the zero velocity) is feasible, the zero vector is returned.
//
// If self.PreferredVelocity is the zero vector, RVO is not invoked at all
// (mirroring the source: no path to pursue means no avoidance is needed
// either) and the zero vector is returned.
func Solve(self Self, peers []neighbors.Snapshot, obstacles []occupancy.StaticObstacle, params Params) spatialmath.Vector2 {
	if self.PreferredVelocity.IsZero() {
		return spatialmath.Vector2{}
	}

	if len(peers) == 0 && len(obstacles) == 0 {
		// Solver property (i): with nothing to avoid, RVO is the identity.
		return self.PreferredVelocity
	}

	sortedPeers := make([]neighbors.Snapshot, len(peers))
	copy(sortedPeers, peers)
	sort.Slice(sortedPeers, func(i, j int) bool { return sortedPeers[i].ID < sortedPeers[j].ID })

	sortedObstacles := make([]occupancy.StaticObstacle, len(obstacles))
	copy(sortedObstacles, obstacles)
	sort.Slice(sortedObstacles, func(i, j int) bool {
		if sortedObstacles[i].Position.X != sortedObstacles[j].Position.X {
			return sortedObstacles[i].Position.X < sortedObstacles[j].Position.X
		}
		return sortedObstacles[i].Position.Y < sortedObstacles[j].Position.Y
	})

	best, found := searchFeasible(self, sortedPeers, sortedObstacles, params)
	if !found {
		return spatialmath.Vector2{}
	}
	return best
}

// candidate is one sampled velocity, with the keys used to pick the
// deterministically "best" feasible one.
type candidate struct {
	v          spatialmath.Vector2
	distToPref float64
	angleAbs   float64
	sign       int // +1 counterclockwise, -1 clockwise, 0 for angle==0
	speedFrac  float64
}

func searchFeasible(self Self, peers []neighbors.Snapshot, obstacles []occupancy.StaticObstacle, params Params) (spatialmath.Vector2, bool) {
	prefDir := self.PreferredVelocity.Normalize()
	angleStep := math.Pi / angleStepsPerSide

	candidates := make([]candidate, 0, (2*angleStepsPerSide+1)*speedSteps+1)
	seenZero := false

	for speedIdx := 0; speedIdx <= speedSteps; speedIdx++ {
		speedFrac := 1.0 - float64(speedIdx)/float64(speedSteps)
		speed := speedFrac * self.MaxSpeed

		if spatialmath.AreSame(speed, 0) {
			if seenZero {
				continue
			}
			seenZero = true
			candidates = append(candidates, candidate{v: spatialmath.Vector2{}, distToPref: self.PreferredVelocity.Norm(), speedFrac: speedFrac})
			continue
		}

		for angleIdx := 0; angleIdx <= angleStepsPerSide; angleIdx++ {
			signs := []int{1, -1}
			if angleIdx == 0 {
				signs = []int{0}
			}
			for _, sign := range signs {
				theta := float64(sign) * float64(angleIdx) * angleStep
				dir := rotate(prefDir, theta)
				v := dir.Scale(speed)
				candidates = append(candidates, candidate{
					v:          v,
					distToPref: spatialmath.Distance(v, self.PreferredVelocity),
					angleAbs:   math.Abs(theta),
					sign:       sign,
					speedFrac:  speedFrac,
				})
			}
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if !spatialmath.AreSame(a.distToPref, b.distToPref) {
			return a.distToPref < b.distToPref
		}
		if !spatialmath.AreSame(a.angleAbs, b.angleAbs) {
			return a.angleAbs < b.angleAbs
		}
		if a.sign != b.sign {
			return a.sign > b.sign // prefer counterclockwise on exact ties
		}
		return a.speedFrac > b.speedFrac
	})

	for _, c := range candidates {
		if !blockedByAny(self, c.v, peers, obstacles, params) {
			return c.v, true
		}
	}
	return spatialmath.Vector2{}, false
}

func rotate(v spatialmath.Vector2, theta float64) spatialmath.Vector2 {
	cosT, sinT := math.Cos(theta), math.Sin(theta)
	return spatialmath.Vector2{
		X: v.X*cosT - v.Y*sinT,
		Y: v.X*sinT + v.Y*cosT,
	}
}

func blockedByAny(self Self, v spatialmath.Vector2, peers []neighbors.Snapshot, obstacles []occupancy.StaticObstacle, params Params) bool {
	for _, peer := range peers {
		if inducesRVOCollision(self.Position, self.CurrentVelocity, v, peer.Position, peer.CurrentVelocity, params.CombinedRadius, params.Horizon) {
			return true
		}
	}
	for _, obs := range obstacles {
		// A static obstacle is a zero-velocity neighbor.
		if inducesRVOCollision(self.Position, self.CurrentVelocity, v, obs.Position, spatialmath.Vector2{}, obs.Radius, params.Horizon) {
			return true
		}
	}
	return false
}

// inducesRVOCollision applies the RVO test: the ray from A in direction
// d = 2v - vA - vB (expressed in the frame relative to A, so the ray
// starts at the origin) must come within combinedRadius of relPos within
// the look-ahead horizon τ for v to be excluded.
func inducesRVOCollision(posA, velA, v, posB, velB spatialmath.Vector2, combinedRadius, horizon float64) bool {
	relPos := posB.Sub(posA)

	d := v.Scale(2).Sub(velA).Sub(velB)
	if d.IsZero() {
		return relPos.Norm() < combinedRadius
	}

	tStar := relPos.Dot(d) / d.Dot(d)
	tEff := spatialmath.Clamp(tStar, 0, horizon)
	closest := d.Scale(tEff)
	dist := spatialmath.Distance(relPos, closest)
	return dist < combinedRadius
}
