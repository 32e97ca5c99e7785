// Package transport defines the coordinator's boundary with the outside
// world: transform lookups, command and status publication, fleet
// membership, and occupancy-grid intake. Concrete
// implementations live outside this module (ROS2, gRPC, or otherwise); this
// package only states the contracts the fleet coordinator depends on.
package transport

import (
	"context"
	"time"

	"github.com/mtg-robotics/lazytraffic/agent"
	"github.com/mtg-robotics/lazytraffic/neighbors"
	"github.com/mtg-robotics/lazytraffic/occupancy"
	"github.com/mtg-robotics/lazytraffic/spatialmath"
)

// TransformLookup resolves an agent's current pose from the map frame to
// its base frame. Implementations may block on network or
// TF-tree I/O; callers must pass a context with an appropriate deadline.
type TransformLookup interface {
	LookupPose(ctx context.Context, baseFrame string, at time.Time) (spatialmath.Pose, error)
}

// CommandPublisher delivers one differential-drive command to one agent's
// command topic.
type CommandPublisher interface {
	PublishCommand(ctx context.Context, id neighbors.AgentID, cmd agent.Command) error
}

// StatusPublisher broadcasts one agent's controller status.
type StatusPublisher interface {
	PublishStatus(ctx context.Context, id neighbors.AgentID, status agent.Status, goalID string) error
}

// MarkerSink publishes a visualization arrow for an agent's preferred
// velocity in the map frame. It is optional: a nil MarkerSink
// disables visualization without otherwise affecting the pipeline.
type MarkerSink interface {
	PublishPreferredVelocityMarker(ctx context.Context, id neighbors.AgentID, origin, preferred spatialmath.Vector2) error
}

// FleetStatusSource answers "what agents are currently active".
type FleetStatusSource interface {
	ActiveAgents(ctx context.Context) ([]neighbors.AgentID, error)
}

// FleetChangeNotifier signals that fleet membership may have changed and
// FleetStatusSource should be re-queried. Subscribe returns a channel closed when the
// subscription ends; callers should range over it rather than poll.
type FleetChangeNotifier interface {
	Subscribe(ctx context.Context) <-chan struct{}
}

// MapUpdateSource delivers occupancy-grid updates.
type MapUpdateSource interface {
	Subscribe(ctx context.Context) <-chan *occupancy.Grid
}

// PathRequest is one agent's worth of the controller service's
// assign_paths request.
type PathRequest struct {
	AgentID  neighbors.AgentID
	Path     []Waypoint
	GoalType agent.GoalType
	GoalID   string
}

// Waypoint mirrors pursuit.Waypoint at the transport boundary so this
// package does not need to import pursuit just for wire shapes.
type Waypoint struct {
	Position spatialmath.Vector2
	Yaw      float64
}

// ControllerService is the inbound "controller service" contract: either
// an emergency stop or a batch path assignment.
type ControllerService interface {
	AssignPaths(ctx context.Context, requests []PathRequest) (ok bool, err error)
	EmergencyStop(ctx context.Context) (ok bool, err error)
}
