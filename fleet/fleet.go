// Package fleet owns the AgentState registry and the tick loop that drives
// every registered agent's pursuit, RVO, and command synthesis each
// velocity-calc period, republishing the last command every faster
// controller period in between.
package fleet

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/mtg-robotics/lazytraffic/agent"
	"github.com/mtg-robotics/lazytraffic/config"
	"github.com/mtg-robotics/lazytraffic/logging"
	"github.com/mtg-robotics/lazytraffic/neighbors"
	"github.com/mtg-robotics/lazytraffic/occupancy"
	"github.com/mtg-robotics/lazytraffic/pursuit"
	"github.com/mtg-robotics/lazytraffic/rvo"
	"github.com/mtg-robotics/lazytraffic/spatialmath"
	"github.com/mtg-robotics/lazytraffic/transport"
)

// Coordinator owns every registered agent's State, the current occupancy
// grid, and the tick loop that advances them. The zero value is not
// usable; build one with New.
type Coordinator struct {
	cfg    config.Coordinator
	logger logging.Logger

	transforms transport.TransformLookup
	commands   transport.CommandPublisher
	statuses   transport.StatusPublisher
	markers    transport.MarkerSink

	// mapMutex serializes grid writes against pipeline reads,
	// path-assignment writes against tick reads, and fleet-change mutations
	// against tick reads. The tick handler holds it for the duration of
	// RunTick; external callbacks hold it only long enough to mutate.
	mapMutex sync.Mutex
	agents   map[neighbors.AgentID]*agent.State
	grid     *occupancy.Grid
	baseFrame map[neighbors.AgentID]string

	active    atomic.Bool
	tickCount uint64
}

// New builds a Coordinator with an empty registry and no grid.
func New(cfg config.Coordinator, logger logging.Logger, transforms transport.TransformLookup,
	commands transport.CommandPublisher, statuses transport.StatusPublisher, markers transport.MarkerSink,
) *Coordinator {
	c := &Coordinator{
		cfg:        cfg,
		logger:     logger,
		transforms: transforms,
		commands:   commands,
		statuses:   statuses,
		markers:    markers,
		agents:     make(map[neighbors.AgentID]*agent.State),
		baseFrame:  make(map[neighbors.AgentID]string),
	}
	c.active.Store(true)
	return c
}

// Stop sets the coordinator's active flag false; the next Run iteration
// observes it and exits.
func (c *Coordinator) Stop() {
	c.active.Store(false)
}

// Run drives the tick loop at cfg.ControllerPeriodS until ctx is canceled
// or Stop is called.
func (c *Coordinator) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Duration(c.cfg.ControllerPeriodS * float64(time.Second)))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if !c.active.Load() {
				return nil
			}
			if err := c.RunTick(ctx); err != nil {
				c.logger.Errorw("tick failed", "error", err)
			}
		}
	}
}

// RunTick advances the schedule by one controller period: a fast republish
// of the last command on every tick, or the full pipeline every k-th tick
// where k = TickRatio().
func (c *Coordinator) RunTick(ctx context.Context) error {
	c.mapMutex.Lock()
	defer c.mapMutex.Unlock()

	c.tickCount++
	k := c.cfg.TickRatio()
	if k < 1 {
		k = 1
	}

	if c.tickCount%uint64(k) != 0 {
		c.republishLastCommands(ctx)
		return nil
	}

	return c.runFullPipeline(ctx)
}

// republishLastCommands re-sends every agent's last chosen command. A zero
// command is never republished on a fast tick: the explicit
// "publish stop once" already happened on the tick it was computed.
func (c *Coordinator) republishLastCommands(ctx context.Context) {
	for id, st := range c.agents {
		if st.LastCommand.IsZero() {
			continue
		}
		if err := c.commands.PublishCommand(ctx, id, st.LastCommand); err != nil {
			c.logger.Warnw("republish command failed", "agent_id", id, "error", err)
		}
	}
}

// runFullPipeline is the velocity_calc_period_s pipeline: refresh poses, snapshot the fleet's prior-tick kinematics once,
// then for each agent (in a stable, deterministic order) compute preferred
// velocity, neighbors, static obstacles, RVO, and the resulting command.
func (c *Coordinator) runFullPipeline(ctx context.Context) error {
	start := time.Now()
	tickID := uuid.New()
	c.refreshPoses(ctx, tickID)

	population := c.snapshotPopulation()
	ids := c.sortedAgentIDs()

	for _, id := range ids {
		st := c.agents[id]
		c.stepAgent(ctx, tickID, id, st, population)
	}

	c.logger.Debugw("full pipeline tick done", "tick_id", tickID, "agent_count", len(ids),
		"tick_duration_ms", float64(time.Since(start).Microseconds())/1000.0)
	return nil
}

// snapshotPopulation builds the immutable, tick-scoped neighbor population
// from every agent's state as it stood before this tick's preferred
// velocities are recomputed.
func (c *Coordinator) snapshotPopulation() []neighbors.Snapshot {
	out := make([]neighbors.Snapshot, 0, len(c.agents))
	for id, st := range c.agents {
		out = append(out, neighbors.Snapshot{
			ID:                id,
			Position:          st.CurrentPose.Position(),
			CurrentVelocity:   st.CurrentVelocity,
			PreferredVelocity: st.PreferredVelocity,
			MaxSpeed:          st.Config.VMax,
		})
	}
	return out
}

func (c *Coordinator) sortedAgentIDs() []neighbors.AgentID {
	ids := make([]neighbors.AgentID, 0, len(c.agents))
	for id := range c.agents {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (c *Coordinator) stepAgent(ctx context.Context, tickID uuid.UUID, id neighbors.AgentID, st *agent.State, population []neighbors.Snapshot) {
	goalReached := st.ComputePreferred()

	peers := neighbors.Select(id, st.CurrentPose.Position(), population)

	var obstacles []occupancy.StaticObstacle
	if c.grid != nil {
		obstacles = occupancy.Extract(c.grid, st.CurrentPose.Position(), c.cfg.StaticObstacleAvoidance)
	}

	rvoOut := rvo.Solve(rvo.Self{
		Position:          st.CurrentPose.Position(),
		CurrentVelocity:   st.CurrentVelocity,
		PreferredVelocity: st.PreferredVelocity,
		MaxSpeed:          st.Config.VMax,
	}, peers, obstacles, rvo.Params{
		Horizon:        rvo.DefaultHorizon,
		CombinedRadius: c.cfg.RepulsionRadius,
	})

	result := st.Step(rvoOut, goalReached)

	if c.markers != nil {
		if err := c.markers.PublishPreferredVelocityMarker(ctx, id, st.CurrentPose.Position(), st.PreferredVelocity); err != nil {
			c.logger.Warnw("marker publish failed", "tick_id", tickID, "agent_id", id, "error", err)
		}
	}

	if result.Publish {
		if err := c.commands.PublishCommand(ctx, id, result.Command); err != nil {
			c.logger.Warnw("command publish failed", "tick_id", tickID, "agent_id", id, "error", err)
		}
	}

	if err := c.statuses.PublishStatus(ctx, id, st.Status, st.GoalID); err != nil {
		c.logger.Warnw("status publish failed", "tick_id", tickID, "agent_id", id, "error", err)
	}
}

// refreshPoses fans out one transform lookup per agent concurrently,
// bounded by the agent count, joined with an errgroup. A single agent's
// lookup failure is logged and that agent's prior pose is kept; it never
// fails the tick.
func (c *Coordinator) refreshPoses(ctx context.Context, tickID uuid.UUID) {
	if c.transforms == nil {
		return
	}

	now := time.Now()
	g, gctx := errgroup.WithContext(ctx)

	for id, st := range c.agents {
		id, st := id, st
		baseFrame := c.baseFrame[id]
		g.Go(func() error {
			pose, err := c.transforms.LookupPose(gctx, baseFrame, now)
			if err != nil {
				c.logger.Warnw("transform lookup failed", "tick_id", tickID, "agent_id", id, "error", err)
				return nil
			}
			st.RefreshPose(pose)
			return nil
		})
	}

	// Errors are already handled per-agent above; Wait only blocks for
	// completion, never surfaces a combined fleet-wide error.
	_ = g.Wait()
}

// AssignPaths assigns one path to each requested agent: an unknown agent
// id or an empty path is reported as an error for that request and
// skipped; known agents with a non-empty path have their waypoint queue
// and goal metadata replaced.
func (c *Coordinator) AssignPaths(requests []transport.PathRequest) error {
	c.mapMutex.Lock()
	defer c.mapMutex.Unlock()

	var errs []error
	for _, req := range requests {
		st, ok := c.agents[req.AgentID]
		if !ok {
			errs = append(errs, &UnknownAgentError{AgentID: string(req.AgentID)})
			continue
		}

		waypoints := make([]pursuit.Waypoint, len(req.Path))
		for i, wp := range req.Path {
			waypoints[i] = pursuit.Waypoint{Position: wp.Position, Yaw: wp.Yaw}
		}

		if err := st.AssignPath(waypoints, req.GoalType, req.GoalID); err != nil {
			errs = append(errs, &EmptyPathError{AgentID: string(req.AgentID)})
			continue
		}
	}
	return errors.Join(errs...)
}

// EmergencyStop clears, stops, and drives every agent to IDLE, publishing
// a zero command for each.
func (c *Coordinator) EmergencyStop(ctx context.Context) {
	c.mapMutex.Lock()
	defer c.mapMutex.Unlock()

	for id, st := range c.agents {
		cmd := st.Stop()
		if err := c.commands.PublishCommand(ctx, id, cmd); err != nil {
			c.logger.Warnw("emergency stop publish failed", "agent_id", id, "error", err)
		}
		if err := c.statuses.PublishStatus(ctx, id, st.Status, st.GoalID); err != nil {
			c.logger.Warnw("emergency stop status publish failed", "agent_id", id, "error", err)
		}
	}
}

// OnMapUpdate replaces the current occupancy grid under the map lock.
func (c *Coordinator) OnMapUpdate(grid *occupancy.Grid) {
	c.mapMutex.Lock()
	defer c.mapMutex.Unlock()
	c.grid = grid
}

// RequestSearch issues a search request to one agent,
// transitioning it from TRACKING into the ROTATION sub-state.
func (c *Coordinator) RequestSearch(id neighbors.AgentID) error {
	c.mapMutex.Lock()
	defer c.mapMutex.Unlock()

	st, ok := c.agents[id]
	if !ok {
		return &UnknownAgentError{AgentID: string(id)}
	}
	st.RequestSearch()
	return nil
}

// OnFleetChange reconciles the agent registry against newSet: agents
// present in newSet but not the registry are added with default
// configuration; agents present in the registry but absent from newSet
// are stopped and removed.
func (c *Coordinator) OnFleetChange(ctx context.Context, newSet []neighbors.AgentID, baseFrames map[neighbors.AgentID]string) {
	c.mapMutex.Lock()
	defer c.mapMutex.Unlock()

	wanted := make(map[neighbors.AgentID]struct{}, len(newSet))
	for _, id := range newSet {
		wanted[id] = struct{}{}
	}

	for _, id := range newSet {
		if _, exists := c.agents[id]; exists {
			continue
		}
		st := agent.NewState(id)
		st.Config.VMax = c.cfg.DefaultVMax
		st.Config.WMax = c.cfg.DefaultWMax
		st.Config.Lookahead = c.cfg.DefaultLookahead
		st.Config.GoalThreshold = c.cfg.DefaultGoalThreshold
		c.agents[id] = st
		if bf, ok := baseFrames[id]; ok {
			c.baseFrame[id] = bf
		}
		c.logger.Infow("agent added", "agent_id", id)
	}

	for id, st := range c.agents {
		if _, stillWanted := wanted[id]; stillWanted {
			continue
		}
		cmd := st.Stop()
		if err := c.commands.PublishCommand(ctx, id, cmd); err != nil {
			c.logger.Warnw("fleet removal stop publish failed", "agent_id", id, "error", err)
		}
		delete(c.agents, id)
		delete(c.baseFrame, id)
		c.logger.Infow("agent removed", "agent_id", id)
	}
}

// Agent returns the registered state for id, for tests and diagnostics.
// The boolean result reports whether id is currently registered.
func (c *Coordinator) Agent(id neighbors.AgentID) (*agent.State, bool) {
	c.mapMutex.Lock()
	defer c.mapMutex.Unlock()
	st, ok := c.agents[id]
	return st, ok
}

// AgentCount returns the number of currently registered agents.
func (c *Coordinator) AgentCount() int {
	c.mapMutex.Lock()
	defer c.mapMutex.Unlock()
	return len(c.agents)
}
