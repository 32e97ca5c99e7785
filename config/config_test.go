package config

import (
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"
)

func TestDefaultMatchesSpecConstants(t *testing.T) {
	cfg := Default()
	test.That(t, cfg.MaxNeighbors, test.ShouldEqual, 5)
	test.That(t, cfg.MaxNeighDistance, test.ShouldEqual, 2.0)
	test.That(t, cfg.RepulsionRadius, test.ShouldEqual, 0.5)
	test.That(t, cfg.CollisionThresh, test.ShouldEqual, 50)
	test.That(t, cfg.SearchNumRotations, test.ShouldEqual, 8)
	test.That(t, cfg.DefaultGoalThreshold, test.ShouldEqual, 0.2)
	test.That(t, cfg.HomingGoalThreshold, test.ShouldEqual, 0.4)
}

func TestReadOverridesOnlySpecifiedFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "coordinator.json")
	test.That(t, os.WriteFile(path, []byte(`{"max_neighbors": 3, "default_v_max": 0.5}`), 0o600), test.ShouldBeNil)

	cfg, err := Read(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.MaxNeighbors, test.ShouldEqual, 3)
	test.That(t, cfg.DefaultVMax, test.ShouldEqual, 0.5)
	// Untouched fields keep their defaults.
	test.That(t, cfg.RepulsionRadius, test.ShouldEqual, 0.5)
}

func TestValidateRejectsInvertedPeriods(t *testing.T) {
	cfg := Default()
	cfg.ControllerPeriodS = 0.5
	cfg.VelocityCalcPeriodS = 0.2
	err := cfg.Validate()
	test.That(t, err, test.ShouldNotBeNil)
}

func TestTickRatioRoundsToNearestInt(t *testing.T) {
	cfg := Default()
	cfg.ControllerPeriodS = 0.2
	cfg.VelocityCalcPeriodS = 1.0
	test.That(t, cfg.TickRatio(), test.ShouldEqual, 5)
}
