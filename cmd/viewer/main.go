package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"slam-robot-sim/internal/app"
	"slam-robot-sim/internal/simulation"
	"slam-robot-sim/internal/visualization/window"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

const ticksPerStep = 30 // two steps per second at the default 60 TPS

func main() {
	os.Exit(run())
}

func run() int {
	var opts app.Options
	fs := app.NewFlagSet("viewer", &opts)
	if err := app.ParseArgs(fs, &opts, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	cfg, err := opts.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	env, err := app.Setup(cfg, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer func() { _ = env.Logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if cfg.MetricsAddr != "" {
		go func() {
			if err := app.ServeMetrics(ctx, cfg.MetricsAddr, env.Metrics.Handler(), env.Logger); err != nil {
				env.Logger.Error("metrics", zap.Error(err))
			}
		}()
	}

	env.Sim.MakeLandmarks(cfg.Landmarks)
	renderer := window.NewRenderer(env.Sim, ticksPerStep, env.Logger)

	ebiten.SetWindowSize(800, 800)
	ebiten.SetWindowTitle("Robot world")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(renderer); err != nil {
		env.Logger.Error("viewer", zap.Error(err))
		return 1
	}

	trace := renderer.Trace()
	stats := simulation.Summarize(trace, env.Robot.Landmarks())
	env.Logger.Info("viewer closed",
		zap.Int("steps", stats.Steps),
		zap.Int("observed_landmarks", len(trace.ObservedLandmarks())),
		zap.Int("rejected_moves", stats.RejectedMoves),
		zap.Float64("path_length", stats.PathLength),
	)
	return 0
}
