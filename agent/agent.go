// Package agent owns a single robot's per-tick state: its pursuit queue,
// search-rotation sub-state machine, and differential-drive command
// synthesis.
package agent

import (
	"github.com/mtg-robotics/lazytraffic/neighbors"
	"github.com/mtg-robotics/lazytraffic/occupancy"
	"github.com/mtg-robotics/lazytraffic/pursuit"
	"github.com/mtg-robotics/lazytraffic/spatialmath"
)

// Search-rotation tuning constants.
const (
	SearchAngularVelocity   = 0.5
	SearchPauseTimesteps    = 10
	SearchRotationTimesteps = 16
	SearchNumRotations      = 8
)

// Default per-agent configuration.
const (
	DefaultVMax          = 0.3
	DefaultWMax          = 0.5
	DefaultLookahead     = 0.4
	DefaultGoalThreshold = 0.2
	HomingGoalThreshold  = 0.4
)

// Config is an agent's kinematic and pursuit configuration. Values are
// copied in at registration time and held fixed for the agent's lifetime
// in the fleet.
type Config struct {
	VMax          float64
	WMax          float64
	Lookahead     float64
	GoalThreshold float64
}

// DefaultConfig returns the built-in default agent configuration.
func DefaultConfig() Config {
	return Config{VMax: DefaultVMax, WMax: DefaultWMax, Lookahead: DefaultLookahead, GoalThreshold: DefaultGoalThreshold}
}

// State is one robot's full mutable record, owned by exactly one
// goroutine at a time: the fleet coordinator's tick loop, or an external
// callback mutating it under the map lock.
type State struct {
	ID neighbors.AgentID

	Config Config

	CurrentPose       spatialmath.Pose
	CurrentVelocity   spatialmath.Vector2
	PreferredVelocity spatialmath.Vector2
	RVOVelocity       spatialmath.Vector2
	LastCommand       Command

	Path Queue

	Status   Status
	GoalID   string
	GoalType GoalType
	Homing   bool

	Search SearchSubState

	Neighbors []neighbors.Snapshot
	Obstacles []occupancy.StaticObstacle

	prevPose       spatialmath.Pose
	havePrevPose   bool
	lastCmdWasZero bool
}

// Queue is the FIFO of remaining waypoints, aliased from pursuit so callers
// of this package need not import it directly for the common case.
type Queue = pursuit.Queue

// SearchSubState is the search-rotation sub-state machine's mutable data:
// current state plus the two tick counters.
type SearchSubState struct {
	State         SearchState
	RotationTicks int
	PauseTicks    int
	RotationCount int
}

// NewState returns a freshly registered agent: IDLE, TRACKING, default
// configuration, empty path.
func NewState(id neighbors.AgentID) *State {
	return &State{
		ID:     id,
		Config: DefaultConfig(),
		Status: StatusIdle,
		Search: SearchSubState{State: StateTracking},

		// LastCommand starts as the zero command, so no stop is owed yet.
		lastCmdWasZero: true,
	}
}

// AssignPath replaces the agent's waypoint queue and goal metadata. An
// empty path is rejected; the caller reports the error and leaves the
// agent untouched.
func (s *State) AssignPath(waypoints []pursuit.Waypoint, goalType GoalType, goalID string) error {
	if len(waypoints) == 0 {
		return errEmptyPath
	}
	s.Path = *pursuit.NewQueue(waypoints)
	s.GoalID = goalID
	s.GoalType = goalType
	if goalType == GoalTypeNone {
		s.Config.GoalThreshold = HomingGoalThreshold
		s.Homing = true
	} else {
		s.Homing = false
	}
	s.Status = StatusBusy
	s.Search = SearchSubState{State: StateTracking}
	return nil
}

// RequestSearch transitions a TRACKING agent into the search-rotation
// sub-state machine. It is a no-op if the agent is already
// mid-search.
func (s *State) RequestSearch() {
	if s.Search.State != StateTracking {
		return
	}
	s.Search = SearchSubState{State: StateRotation}
}

// Stop clears the agent's path and zeroes its velocities, driving status to
// IDLE. Used by emergency_stop and by fleet removal.
func (s *State) Stop() Command {
	s.Path = pursuit.Queue{}
	s.PreferredVelocity = spatialmath.Vector2{}
	s.RVOVelocity = spatialmath.Vector2{}
	s.Status = StatusIdle
	s.Search = SearchSubState{State: StateTracking}
	s.LastCommand = Command{}
	s.lastCmdWasZero = true
	return Command{}
}

// RefreshPose updates CurrentPose and derives CurrentVelocity from the
// previous pose. If this is the first pose observed, or the
// elapsed time is zero, the velocity is left unchanged (no refresh).
func (s *State) RefreshPose(pose spatialmath.Pose) {
	if !s.havePrevPose {
		s.CurrentPose = pose
		s.prevPose = pose
		s.havePrevPose = true
		return
	}

	dt := pose.Timestamp.Sub(s.prevPose.Timestamp)
	if dt <= 0 {
		s.CurrentPose = pose
		return
	}

	prevPos := s.prevPose.Position()
	curPos := pose.Position()
	s.CurrentVelocity = curPos.Sub(prevPos).Scale(1.0 / dt.Seconds())

	s.prevPose = pose
	s.CurrentPose = pose
}

var errEmptyPath = emptyPathError{}

type emptyPathError struct{}

func (emptyPathError) Error() string { return "assign_paths: empty path rejected" }

// IsEmptyPathError reports whether err is the sentinel returned by
// AssignPath for an empty waypoint list.
func IsEmptyPathError(err error) bool {
	_, ok := err.(emptyPathError)
	return ok
}
