// Package pursuit implements pure-pursuit path tracking: given a FIFO of
// waypoints and a lookahead distance, it picks a target point on the path
// and derives a preferred velocity toward it.
package pursuit

import "github.com/mtg-robotics/lazytraffic/spatialmath"

// Waypoint is a target planar pose on an agent's path. Only the position is
// consulted by the pursuit law; the full pose is kept so a caller can use
// waypoint orientation for docking-style final approaches later.
type Waypoint struct {
	Position spatialmath.Vector2
	Yaw      float64
}

// Queue is a FIFO of waypoints, the remaining path for one agent.
type Queue struct {
	items []Waypoint
}

// NewQueue builds a Queue from an ordered slice of waypoints.
func NewQueue(waypoints []Waypoint) *Queue {
	q := &Queue{items: make([]Waypoint, len(waypoints))}
	copy(q.items, waypoints)
	return q
}

// Len returns the number of waypoints remaining.
func (q *Queue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

// Empty reports whether the queue has no remaining waypoints.
func (q *Queue) Empty() bool {
	return q.Len() == 0
}

// Front returns the waypoint at the head of the queue. It panics if the
// queue is empty; callers must check Empty first rather than have this
// hot-path accessor return an (ok bool) pair.
func (q *Queue) Front() Waypoint {
	return q.items[0]
}

// Pop removes and returns the head waypoint.
func (q *Queue) Pop() Waypoint {
	w := q.items[0]
	q.items = q.items[1:]
	return w
}

// Reset replaces the queue's contents, used when a new path is assigned.
func (q *Queue) Reset(waypoints []Waypoint) {
	q.items = make([]Waypoint, len(waypoints))
	copy(q.items, waypoints)
}
