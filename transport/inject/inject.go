// Package inject provides test doubles for the transport package's
// interfaces: a struct standing in for each real interface, with one Func
// field per method that tests assign individually, and a default
// implementation for anything a test doesn't care about.
package inject

import (
	"context"
	"time"

	"github.com/mtg-robotics/lazytraffic/agent"
	"github.com/mtg-robotics/lazytraffic/neighbors"
	"github.com/mtg-robotics/lazytraffic/occupancy"
	"github.com/mtg-robotics/lazytraffic/spatialmath"
)

// TransformLookup is an injectable transport.TransformLookup.
type TransformLookup struct {
	LookupPoseFunc func(ctx context.Context, baseFrame string, at time.Time) (spatialmath.Pose, error)
}

func (t *TransformLookup) LookupPose(ctx context.Context, baseFrame string, at time.Time) (spatialmath.Pose, error) {
	if t.LookupPoseFunc == nil {
		return spatialmath.Pose{}, nil
	}
	return t.LookupPoseFunc(ctx, baseFrame, at)
}

// CommandPublisher is an injectable transport.CommandPublisher. Published
// commands accumulate in Commands for assertions.
type CommandPublisher struct {
	PublishCommandFunc func(ctx context.Context, id neighbors.AgentID, cmd agent.Command) error
	Commands           []PublishedCommand
}

// PublishedCommand records one PublishCommand call for inspection in tests
// that don't need a custom PublishCommandFunc.
type PublishedCommand struct {
	ID      neighbors.AgentID
	Command agent.Command
}

func (c *CommandPublisher) PublishCommand(ctx context.Context, id neighbors.AgentID, cmd agent.Command) error {
	c.Commands = append(c.Commands, PublishedCommand{ID: id, Command: cmd})
	if c.PublishCommandFunc == nil {
		return nil
	}
	return c.PublishCommandFunc(ctx, id, cmd)
}

// StatusPublisher is an injectable transport.StatusPublisher.
type StatusPublisher struct {
	PublishStatusFunc func(ctx context.Context, id neighbors.AgentID, status agent.Status, goalID string) error
	Statuses          []PublishedStatus
}

// PublishedStatus records one PublishStatus call.
type PublishedStatus struct {
	ID     neighbors.AgentID
	Status agent.Status
	GoalID string
}

func (s *StatusPublisher) PublishStatus(ctx context.Context, id neighbors.AgentID, status agent.Status, goalID string) error {
	s.Statuses = append(s.Statuses, PublishedStatus{ID: id, Status: status, GoalID: goalID})
	if s.PublishStatusFunc == nil {
		return nil
	}
	return s.PublishStatusFunc(ctx, id, status, goalID)
}

// MarkerSink is an injectable transport.MarkerSink.
type MarkerSink struct {
	PublishPreferredVelocityMarkerFunc func(ctx context.Context, id neighbors.AgentID, origin, preferred spatialmath.Vector2) error
}

func (m *MarkerSink) PublishPreferredVelocityMarker(ctx context.Context, id neighbors.AgentID, origin, preferred spatialmath.Vector2) error {
	if m.PublishPreferredVelocityMarkerFunc == nil {
		return nil
	}
	return m.PublishPreferredVelocityMarkerFunc(ctx, id, origin, preferred)
}

// FleetStatusSource is an injectable transport.FleetStatusSource.
type FleetStatusSource struct {
	ActiveAgentsFunc func(ctx context.Context) ([]neighbors.AgentID, error)
}

func (f *FleetStatusSource) ActiveAgents(ctx context.Context) ([]neighbors.AgentID, error) {
	if f.ActiveAgentsFunc == nil {
		return nil, nil
	}
	return f.ActiveAgentsFunc(ctx)
}

// FleetChangeNotifier is an injectable transport.FleetChangeNotifier backed
// by a channel tests can send on directly.
type FleetChangeNotifier struct {
	Ch chan struct{}
}

// NewFleetChangeNotifier returns a notifier whose Subscribe returns Ch.
func NewFleetChangeNotifier() *FleetChangeNotifier {
	return &FleetChangeNotifier{Ch: make(chan struct{}, 1)}
}

func (f *FleetChangeNotifier) Subscribe(ctx context.Context) <-chan struct{} {
	return f.Ch
}

// MapUpdateSource is an injectable transport.MapUpdateSource backed by a
// channel tests can send grids on directly.
type MapUpdateSource struct {
	Ch chan *occupancy.Grid
}

// NewMapUpdateSource returns a source whose Subscribe returns Ch.
func NewMapUpdateSource() *MapUpdateSource {
	return &MapUpdateSource{Ch: make(chan *occupancy.Grid, 1)}
}

func (m *MapUpdateSource) Subscribe(ctx context.Context) <-chan *occupancy.Grid {
	return m.Ch
}
