package agent

// Status is the coarse-grained controller status reported to the fleet
// layer and to external status subscribers.
type Status int

const (
	// StatusIdle is the initial and resting status: no path assigned, or
	// the agent was just emptied via emergency stop / fleet removal.
	StatusIdle Status = iota
	// StatusBusy means a non-empty path is assigned and pursuit is active.
	StatusBusy
	// StatusSucceeded means the current goal was reached.
	StatusSucceeded
	// StatusFailed means the current goal could not be completed.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "IDLE"
	case StatusBusy:
		return "BUSY"
	case StatusSucceeded:
		return "SUCCEEDED"
	case StatusFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// SearchState is the search-rotation sub-state machine,
// orthogonal to Status: an agent can be BUSY while in any of these.
type SearchState int

const (
	// StateTracking is the default sub-state: ordinary pure-pursuit.
	StateTracking SearchState = iota
	// StateRotation is spinning in place as part of a search request.
	StateRotation
	// StateSearching is paused mid-rotation to let perception capture a frame.
	StateSearching
	// StateRotationCompleted marks a finished search sequence, awaiting a
	// new path to resume TRACKING.
	StateRotationCompleted
	// StateGoalReached marks a completed pursuit goal, awaiting a new path.
	StateGoalReached
)

func (s SearchState) String() string {
	switch s {
	case StateTracking:
		return "TRACKING"
	case StateRotation:
		return "ROTATION"
	case StateSearching:
		return "SEARCHING"
	case StateRotationCompleted:
		return "ROTATION_COMPLETED"
	case StateGoalReached:
		return "GOAL_REACHED"
	default:
		return "UNKNOWN"
	}
}

// GoalType distinguishes an explicit path-following goal from a homing
// goal. GoalTypeNone means the request omitted a goal type entirely, which
// triggers the homing defaults.
type GoalType int

const (
	GoalTypeNone GoalType = iota
	GoalTypePath
	GoalTypeHoming
)
