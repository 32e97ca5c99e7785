package agent

import (
	"github.com/mtg-robotics/lazytraffic/pursuit"
	"github.com/mtg-robotics/lazytraffic/spatialmath"
)

// ComputePreferred runs the pure-pursuit law against the agent's current
// position and path, updating PreferredVelocity and popping the path as
// waypoints are consumed. It returns whether the goal was
// reached this tick, which Step needs to decide whether to enter
// GOAL_REACHED.
func (s *State) ComputePreferred() (reached bool) {
	outcome := pursuit.ProcessTick(s.CurrentPose.Position(), &s.Path, pursuit.Params{
		LookaheadDistance: s.Config.Lookahead,
		MaxSpeed:          s.Config.VMax,
		GoalThreshold:     s.Config.GoalThreshold,
	})
	s.PreferredVelocity = outcome.PreferredVelocity
	return outcome.GoalReached
}

// StepResult is what one full-pipeline tick produces for a
// single agent: the command to publish, and whether it must be published
// this tick at all (the "publish stop once" rule keys off Publish; the
// fast-tick republish resends LastCommand whenever it is non-zero).
type StepResult struct {
	Command Command
	Publish bool
}

// Step advances one agent's pursuit and search-rotation sub-state machine
// by one full-pipeline tick and returns the resulting command. rvoOut is
// the velocity already selected by the RVO solver for this tick; Step does
// not invoke RVO itself so that the fleet coordinator can build neighbor
// snapshots once, run RVO, and then fan the results back out.
//
// Callers compute rvoOut from pursuit.ProcessTick + rvo.Solve before
// calling Step. Only TRACKING uses rvoOut and goalReached; in the other
// sub-states both are ignored, since the search machine owns the command
// directly there.
func (s *State) Step(rvoOut spatialmath.Vector2, goalReached bool) StepResult {
	switch s.Search.State {
	case StateRotation:
		return s.stepRotation()
	case StateSearching:
		return s.stepSearching()
	case StateRotationCompleted:
		return s.publish(Command{})
	case StateGoalReached:
		return s.publish(Command{})
	default: // StateTracking
		return s.stepTracking(rvoOut, goalReached)
	}
}

func (s *State) stepTracking(rvoOut spatialmath.Vector2, goalReached bool) StepResult {
	s.RVOVelocity = rvoOut

	if goalReached {
		s.Search.State = StateGoalReached
		s.Status = StatusSucceeded
		return s.publish(Command{})
	}

	cmd := Synthesize(rvoOut, s.CurrentPose.Heading(), s.Config.VMax, s.Config.WMax)
	if !cmd.IsZero() {
		s.Status = StatusBusy
	}
	return s.publish(cmd)
}

func (s *State) stepRotation() StepResult {
	s.Status = StatusBusy
	cmd := Command{Linear: 0, Angular: SearchAngularVelocity}

	s.Search.RotationTicks++
	if s.Search.RotationTicks >= SearchRotationTimesteps {
		s.Search.RotationTicks = 0
		s.Search.State = StateSearching
	}
	return s.publish(cmd)
}

func (s *State) stepSearching() StepResult {
	s.Status = StatusBusy
	cmd := Command{}

	s.Search.PauseTicks++
	if s.Search.PauseTicks >= SearchPauseTimesteps {
		s.Search.PauseTicks = 0
		s.Search.RotationCount++
		if s.Search.RotationCount < SearchNumRotations {
			s.Search.State = StateRotation
		} else {
			s.Search.State = StateRotationCompleted
			s.Status = StatusSucceeded
		}
	}
	return s.publish(cmd)
}

// publish implements the "explicit stop once" rule: a zero command is only sent when the prior command was
// non-zero, but a non-zero command is always sent.
func (s *State) publish(cmd Command) StepResult {
	s.LastCommand = cmd
	zero := cmd.IsZero()

	publish := !zero || !s.lastCmdWasZero
	s.lastCmdWasZero = zero
	return StepResult{Command: cmd, Publish: publish}
}
