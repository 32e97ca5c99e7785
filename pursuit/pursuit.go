package pursuit

import "github.com/mtg-robotics/lazytraffic/spatialmath"

// Outcome reports what happened during one ProcessTick call, beyond the
// returned preferred velocity, so the agent state machine can react (pop a
// SUCCEEDED status, skip publishing a stop twice, and so on).
type Outcome struct {
	// PreferredVelocity is the velocity to hand to the RVO solver.
	PreferredVelocity spatialmath.Vector2
	// Lookahead is the point the preferred velocity steers toward. Zero
	// value when the queue was empty.
	Lookahead spatialmath.Vector2
	// GoalReached is true exactly once, the tick the last waypoint is
	// consumed within goal_threshold.
	GoalReached bool
	// HasLookahead is false only when the queue started empty.
	HasLookahead bool
}

// Params bundles the tunables the pure-pursuit law needs; these come from
// an agent's configuration.
type Params struct {
	LookaheadDistance float64
	MaxSpeed          float64
	GoalThreshold     float64
}

// ProcessTick advances q in place and returns the preferred velocity the
// agent should steer with this tick:
//
//   - empty queue ⇒ zero preferred velocity
//   - single remaining waypoint within goal_threshold ⇒ pop it, report
//     GoalReached, zero preferred velocity
//   - otherwise: discard waypoints from the front while more than one
//     remains and the front is within LookaheadDistance; the new front is
//     the lookahead point, and the preferred velocity points from the
//     current position toward it at MaxSpeed.
func ProcessTick(pos spatialmath.Vector2, q *Queue, p Params) Outcome {
	if q.Empty() {
		return Outcome{}
	}

	if q.Len() == 1 && spatialmath.Distance(pos, q.Front().Position) <= p.GoalThreshold {
		wp := q.Pop()
		return Outcome{Lookahead: wp.Position, HasLookahead: true, GoalReached: true}
	}

	for q.Len() > 1 && spatialmath.Distance(pos, q.Front().Position) <= p.LookaheadDistance {
		q.Pop()
	}

	lookahead := q.Front().Position
	toLookahead := lookahead.Sub(pos)
	preferred := toLookahead.Normalize().Scale(p.MaxSpeed)
	if toLookahead.IsZero() {
		preferred = spatialmath.Vector2{}
	}

	return Outcome{
		PreferredVelocity: preferred,
		Lookahead:         lookahead,
		HasLookahead:      true,
	}
}
