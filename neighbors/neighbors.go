// Package neighbors selects the peers an agent must reason about for
// collision avoidance: the nearest few, within a cutoff radius, in a
// deterministic order.
package neighbors

import (
	"sort"

	"github.com/mtg-robotics/lazytraffic/spatialmath"
)

// AgentID is an opaque, stable identifier for a robot in the fleet.
type AgentID string

// MaxNeighbors is the maximum number of peers entering RVO.
const MaxNeighbors = 5

// MaxDistance is the neighbor cull radius in meters.
const MaxDistance = 2.0

// Snapshot is a tick-boundary snapshot of one agent's kinematic state, the
// unit both neighbor selection and the RVO solver operate on. It is always
// built from the *previous* tick's velocities, so no agent observes
// another's newly computed velocity within the same tick.
type Snapshot struct {
	ID                AgentID
	Position          spatialmath.Vector2
	CurrentVelocity   spatialmath.Vector2
	PreferredVelocity spatialmath.Vector2
	MaxSpeed          float64
}

// Select returns the up-to-MaxNeighbors snapshots from population nearest
// selfPosition, excluding selfID, retaining only peers within MaxDistance,
// sorted ascending by distance with ties broken by lexicographic id order.
func Select(selfID AgentID, selfPosition spatialmath.Vector2, population []Snapshot) []Snapshot {
	type candidate struct {
		snap Snapshot
		dist float64
	}

	candidates := make([]candidate, 0, len(population))
	for _, s := range population {
		if s.ID == selfID {
			continue
		}
		d := spatialmath.Distance(selfPosition, s.Position)
		if d < MaxDistance {
			candidates = append(candidates, candidate{s, d})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].dist != candidates[j].dist {
			return candidates[i].dist < candidates[j].dist
		}
		return candidates[i].snap.ID < candidates[j].snap.ID
	})

	n := len(candidates)
	if n > MaxNeighbors {
		n = MaxNeighbors
	}

	out := make([]Snapshot, n)
	for i := 0; i < n; i++ {
		out[i] = candidates[i].snap
	}
	return out
}
