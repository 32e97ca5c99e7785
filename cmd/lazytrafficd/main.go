// Command lazytrafficd runs the multi-agent motion coordinator: it loads
// configuration, wires a coordinator to its transport collaborators, and
// drives the tick loop until canceled.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/mtg-robotics/lazytraffic/config"
	"github.com/mtg-robotics/lazytraffic/fleet"
	"github.com/mtg-robotics/lazytraffic/logging"
	"github.com/mtg-robotics/lazytraffic/transport/inject"
)

func main() {
	configPath := flag.String("config", "", "path to a coordinator config JSON file (optional)")
	flag.Parse()

	logger, err := logging.NewDevelopmentLogger("lazytrafficd")
	if err != nil {
		panic(err)
	}
	defer logger.Sync() //nolint:errcheck

	cfg := config.Default()
	if *configPath != "" {
		cfg, err = config.Read(*configPath)
		if err != nil {
			logger.Errorw("failed to read config", "error", err)
			os.Exit(1)
		}
	}
	if err := cfg.Validate(); err != nil {
		logger.Errorw("invalid config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// The real deployment wires ROS2 or gRPC-backed transport
	// implementations here; lacking a wire protocol in scope (SPEC_FULL.md
	// §11), the entrypoint runs against the inject fakes so the binary is
	// runnable standalone for local smoke testing.
	coordinator := fleet.New(cfg, logger,
		&inject.TransformLookup{},
		&inject.CommandPublisher{},
		&inject.StatusPublisher{},
		nil,
	)

	logger.Infow("coordinator starting", "controller_period_s", cfg.ControllerPeriodS, "velocity_calc_period_s", cfg.VelocityCalcPeriodS)
	if err := coordinator.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Errorw("coordinator exited with error", "error", err)
		os.Exit(1)
	}
	logger.Infow("coordinator stopped")
}
