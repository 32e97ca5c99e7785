package fleet

import "fmt"

// UnknownAgentError reports assign_paths or another operation naming an
// agent id absent from the registry.
type UnknownAgentError struct {
	AgentID string
}

func (e *UnknownAgentError) Error() string {
	return fmt.Sprintf("fleet: unknown agent %q", e.AgentID)
}

// EmptyPathError reports assign_paths rejecting an empty waypoint list.
type EmptyPathError struct {
	AgentID string
}

func (e *EmptyPathError) Error() string {
	return fmt.Sprintf("fleet: empty path rejected for agent %q", e.AgentID)
}
