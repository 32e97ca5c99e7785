// Package config loads and validates the coordinator's configuration: tick
// periods, RVO/neighbor constants, search-rotation constants, and default
// agent kinematics.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	mapstructure "github.com/go-viper/mapstructure/v2"
)

// Coordinator is the root JSON-loadable configuration. Every field has a
// built-in default and may be overridden; Default returns those defaults
// so a coordinator can run unconfigured.
//
// The fleet coordinator reads the two periods, RepulsionRadius (as the
// neighbor-pair combined radius), StaticObstacleAvoidance, and the four
// Default* agent kinematics fields. MaxNeighbors, MaxNeighDistance,
// CollisionThresh, MaxStaticObsDist, the Search* fields and
// HomingGoalThreshold are decoded but not read by it: the neighbors,
// occupancy and agent packages use their own package constants for those
// values.
type Coordinator struct {
	ControllerPeriodS    float64 `json:"controller_period_s" mapstructure:"controller_period_s"`
	VelocityCalcPeriodS  float64 `json:"velocity_calc_period_s" mapstructure:"velocity_calc_period_s"`

	MaxNeighbors      int     `json:"max_neighbors" mapstructure:"max_neighbors"`
	MaxNeighDistance  float64 `json:"max_neigh_distance" mapstructure:"max_neigh_distance"`
	RepulsionRadius   float64 `json:"repulsion_radius" mapstructure:"repulsion_radius"`
	CollisionThresh   int     `json:"collision_thresh" mapstructure:"collision_thresh"`
	MaxStaticObsDist  float64 `json:"max_static_obs_dist" mapstructure:"max_static_obs_dist"`

	StaticObstacleAvoidance bool `json:"static_obstacle_avoidance" mapstructure:"static_obstacle_avoidance"`

	SearchAngularVelocity   float64 `json:"search_angular_velocity" mapstructure:"search_angular_velocity"`
	SearchPauseTimesteps    int     `json:"search_pause_timesteps" mapstructure:"search_pause_timesteps"`
	SearchRotationTimesteps int     `json:"search_rotation_timesteps" mapstructure:"search_rotation_timesteps"`
	SearchNumRotations      int     `json:"search_num_rotations" mapstructure:"search_num_rotations"`

	DefaultVMax          float64 `json:"default_v_max" mapstructure:"default_v_max"`
	DefaultWMax          float64 `json:"default_w_max" mapstructure:"default_w_max"`
	DefaultLookahead     float64 `json:"default_lookahead" mapstructure:"default_lookahead"`
	DefaultGoalThreshold float64 `json:"default_goal_threshold" mapstructure:"default_goal_threshold"`
	HomingGoalThreshold  float64 `json:"homing_goal_threshold" mapstructure:"homing_goal_threshold"`
}

// Default returns the built-in coordinator defaults.
func Default() Coordinator {
	return Coordinator{
		ControllerPeriodS:   0.2,
		VelocityCalcPeriodS: 0.2,

		MaxNeighbors:     5,
		MaxNeighDistance: 2.0,
		RepulsionRadius:  0.5,
		CollisionThresh:  50,
		MaxStaticObsDist: 0.5,

		StaticObstacleAvoidance: true,

		SearchAngularVelocity:   0.5,
		SearchPauseTimesteps:    10,
		SearchRotationTimesteps: 16,
		SearchNumRotations:      8,

		DefaultVMax:          0.3,
		DefaultWMax:          0.5,
		DefaultLookahead:     0.4,
		DefaultGoalThreshold: 0.2,
		HomingGoalThreshold:  0.4,
	}
}

// Read loads a Coordinator config from a JSON file at path, starting from
// Default() so a partial file only overrides the fields it sets.
func Read(path string) (Coordinator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Coordinator{}, fmt.Errorf("config: reading %q: %w", path, err)
	}
	return decode(data)
}

func decode(data []byte) (Coordinator, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Coordinator{}, fmt.Errorf("config: parsing json: %w", err)
	}

	cfg := Default()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return Coordinator{}, fmt.Errorf("config: building decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return Coordinator{}, fmt.Errorf("config: decoding attributes: %w", err)
	}
	return cfg, nil
}

// Validate reports a non-nil error if cfg's periods or kinematics are
// nonsensical.
func (c Coordinator) Validate() error {
	if c.ControllerPeriodS <= 0 {
		return fmt.Errorf("config: controller_period_s must be positive, got %v", c.ControllerPeriodS)
	}
	if c.VelocityCalcPeriodS < c.ControllerPeriodS {
		return fmt.Errorf("config: velocity_calc_period_s (%v) must be >= controller_period_s (%v)",
			c.VelocityCalcPeriodS, c.ControllerPeriodS)
	}
	if c.DefaultVMax <= 0 || c.DefaultWMax <= 0 {
		return fmt.Errorf("config: default_v_max and default_w_max must be positive")
	}
	return nil
}

// TickRatio returns k = velocity_calc_period_s / controller_period_s, the
// number of fast ticks between full-pipeline runs.
func (c Coordinator) TickRatio() int {
	ratio := c.VelocityCalcPeriodS / c.ControllerPeriodS
	return int(ratio + 0.5)
}
