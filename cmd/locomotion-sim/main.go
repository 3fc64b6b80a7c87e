// Package main runs a scripted locomotion scenario headless and reports
// whether its expectations held.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/locomotion/internal/animparams"
	"github.com/Faultbox/locomotion/internal/config"
	"github.com/Faultbox/locomotion/internal/gatescript"
	"github.com/Faultbox/locomotion/internal/locomotion"
	"github.com/Faultbox/locomotion/internal/logger"
	"github.com/Faultbox/locomotion/internal/scenario"
	"github.com/Faultbox/locomotion/internal/world"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Locomotion Simulator ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.Error("simulation failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Info("simulation finished normally")
}

func run(ctx context.Context, cfg *config.Config) error {
	sc, err := loadScenario(cfg.Simulation.Scenario)
	if err != nil {
		return err
	}
	if cfg.Simulation.Facing != 0 {
		sc.Facing = cfg.Simulation.Facing
	}

	board, err := cfg.Gates.NewBlackboard()
	if err != nil {
		return err
	}

	player := logger.Character("player")
	params := animparams.NewTable()
	controller, w, err := scenario.Prepare(sc, cfg.Movement.Settings(), cfg.Capsule.Capsule(),
		locomotion.WithLogger(player),
		locomotion.WithParamSink(animparams.NewLogging(params, player.Named("anim"))),
	)
	if err != nil {
		return err
	}
	if err := bindGates(controller.Gates(), cfg.Gates, board, player); err != nil {
		return err
	}
	controller.Listeners().OnAny(func(ev locomotion.Event) {
		player.Info("locomotion event", zap.Stringer("event", ev))
	})

	opts := scenario.Options{
		TickRate: cfg.Simulation.TickRate,
		Ticks:    cfg.Simulation.Ticks,
		Realtime: cfg.Simulation.Realtime,
		Board:    board,
		Log:      logger.Log,
	}
	if cfg.Simulation.Watch {
		reload, err := watchSettings(ctx)
		if err != nil {
			return err
		}
		opts.Reload = reload
	}

	logger.Info("running scenario",
		zap.String("scenario", sc.Name),
		zap.Int("ticks", sc.Length()),
		zap.Float32("tick_rate", cfg.Simulation.TickRate),
	)

	trace, err := scenario.Run(ctx, sc, controller, w, opts)
	if err != nil {
		return fmt.Errorf("run scenario %s: %w", sc.Name, err)
	}

	final := trace.Final()
	logger.Info("summary",
		zap.Int("ticks", len(trace.Frames)),
		zap.Stringer("state", final.State),
		zap.Stringer("pose", final.Pose),
		zap.Float32("distance", world.Distance(sc.World.Spawn, final.Position)),
		zap.Int("jumps", trace.Count(locomotion.Jumped)),
		zap.Int("slides", trace.Count(locomotion.SlideStarted)),
		zap.Stringer("params", params),
	)

	if err := sc.Check(trace); err != nil {
		return fmt.Errorf("scenario %s expectations: %w", sc.Name, err)
	}
	return nil
}

func loadScenario(path string) (*scenario.Scenario, error) {
	if path == "" {
		return scenario.Default()
	}
	return scenario.Load(path)
}

func bindGates(g *locomotion.Gates, cfg config.GatesConfig, board *gatescript.Blackboard, log *zap.Logger) error {
	if err := gatescript.Bind(&g.Sprint, cfg.Sprint, board, log); err != nil {
		return fmt.Errorf("sprint gate: %w", err)
	}
	if err := gatescript.Bind(&g.Prone, cfg.Prone, board, log); err != nil {
		return fmt.Errorf("prone gate: %w", err)
	}
	if err := gatescript.Bind(&g.Slide, cfg.Slide, board, log); err != nil {
		return fmt.Errorf("slide gate: %w", err)
	}
	return nil
}

// watchSettings returns a poll function yielding the movement tuning of
// each valid config reload.
func watchSettings(ctx context.Context) (func() *locomotion.Settings, error) {
	path := config.Path()
	if path == "" {
		return nil, fmt.Errorf("watch: no config file to watch")
	}
	updates, err := config.Watch(ctx, path, logger.Log.Named("config"))
	if err != nil {
		return nil, err
	}
	logger.Info("watching config", zap.String("path", path))

	return func() *locomotion.Settings {
		select {
		case cfg, ok := <-updates:
			if !ok {
				return nil
			}
			return cfg.Movement.Settings()
		default:
			return nil
		}
	}, nil
}
