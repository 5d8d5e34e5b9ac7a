package app

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"slam-robot-sim/internal/simulation"
	"slam-robot-sim/internal/visualization"

	"go.uber.org/zap"
)

// RunContext runs the demonstration driver: it moves the robot once,
// generates landmarks, senses them, and then simulates the configured number
// of trace steps. It returns the process exit code.
func RunContext(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	var opts Options
	fs := NewFlagSet("simulation", &opts)
	fs.SetOutput(stderr)
	if err := ParseArgs(fs, &opts, argv); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := opts.LoadConfig()
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 1
	}
	env, err := Setup(cfg, stderr)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 1
	}
	defer func() { _ = env.Logger.Sync() }()

	out := bufio.NewWriter(stdout)
	err = runDemo(out, env)
	if ferr := out.Flush(); err == nil {
		err = ferr
	}
	if err != nil {
		env.Logger.Error("demo failed", zap.Error(err))
		return 1
	}

	if cfg.MetricsAddr != "" {
		if err := ServeMetrics(ctx, cfg.MetricsAddr, env.Metrics.Handler(), env.Logger); err != nil {
			env.Logger.Error("metrics", zap.Error(err))
			return 1
		}
	}
	return 0
}

func runDemo(w io.Writer, env *Env) error {
	robot := env.Robot
	cfg := env.Config
	cols := visualization.GridColumns(cfg.Robot.WorldSize)

	show := func() error {
		if _, err := fmt.Fprintln(w, robot); err != nil {
			return err
		}
		return visualization.RenderGrid(w, cfg.Robot.WorldSize, cols, robot.Objects())
	}

	if err := show(); err != nil {
		return err
	}

	moved := robot.Move(1, 2)
	env.Metrics.RecordMove(moved)
	if !moved {
		env.Logger.Warn("demonstration move rejected by world boundary")
	}
	if err := show(); err != nil {
		return err
	}

	env.Sim.MakeLandmarks(cfg.Landmarks)
	if err := show(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Landmark locations [x,y]: %s\n", formatLandmarks(robot.Landmarks())); err != nil {
		return err
	}

	measurements := robot.Sense()
	env.Metrics.RecordSense(len(measurements))
	if _, err := fmt.Fprintf(w, "Measurements: %v\n", measurements); err != nil {
		return err
	}

	if cfg.Steps == 0 {
		return nil
	}

	trace, err := env.Sim.Run(cfg.Steps)
	if err != nil {
		return fmt.Errorf("run trace: %w", err)
	}
	landmarks := robot.Landmarks()
	stats := simulation.Summarize(trace, landmarks)
	env.Logger.Info("trace summary",
		zap.Int("steps", stats.Steps),
		zap.Int("observations", stats.Observations),
		zap.Int("rejected_moves", stats.RejectedMoves),
		zap.Float64("path_length", stats.PathLength),
		zap.Float64("residual_mean_x", stats.ResidualMeanX),
		zap.Float64("residual_std_x", stats.ResidualStdX),
		zap.Float64("residual_mean_y", stats.ResidualMeanY),
		zap.Float64("residual_std_y", stats.ResidualStdY),
	)
	if !trace.AllLandmarksObserved(len(landmarks)) {
		env.Logger.Warn("some landmarks were never observed",
			zap.Int("observed", len(trace.ObservedLandmarks())),
			zap.Int("landmarks", len(landmarks)),
		)
	}

	if _, err := fmt.Fprintf(w, "Trace: %d steps, %.2f observations per step, %d rejected moves\n",
		stats.Steps, stats.MeanObservations, stats.RejectedMoves); err != nil {
		return err
	}
	return show()
}

func formatLandmarks(landmarks []simulation.Landmark) string {
	parts := make([]string, len(landmarks))
	for i, lm := range landmarks {
		parts[i] = fmt.Sprintf("[%g, %g]", lm.Position.X, lm.Position.Y)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
