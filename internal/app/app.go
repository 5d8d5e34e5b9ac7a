// Package app wires configuration, logging, metrics and the simulation
// together for the command-line binaries.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"time"

	"slam-robot-sim/internal/config"
	"slam-robot-sim/internal/observability/log"
	"slam-robot-sim/internal/observability/metrics"
	"slam-robot-sim/internal/simulation"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Env is a ready-to-run simulation with its supporting services.
type Env struct {
	Config  *config.Config
	Seed    uint64
	Logger  *zap.Logger
	Metrics *metrics.Collector
	Robot   *simulation.Robot
	Sim     *simulation.Simulation
}

// Setup builds the logger, the metrics collector, the robot and the
// simulation described by cfg. Landmarks are not generated yet.
func Setup(cfg *config.Config, logOut io.Writer) (*Env, error) {
	logger, err := log.New(log.Config{Level: cfg.Log.Level, Format: cfg.Log.Format}, logOut)
	if err != nil {
		return nil, err
	}

	collector, err := metrics.NewCollector(prometheus.NewRegistry())
	if err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	robot := simulation.NewRobot(cfg.Robot, NewSource(seed))

	sim, err := simulation.NewSimulation(robot,
		simulation.WithStepDistance(cfg.Distance),
		simulation.WithLogger(logger),
		simulation.WithMetrics(collector),
	)
	if err != nil {
		return nil, fmt.Errorf("create simulation: %w", err)
	}

	logger.Info("robot created",
		zap.String("robot", robot.GetID()),
		zap.Uint64("seed", seed),
		zap.Float64("world_size", cfg.Robot.WorldSize),
		zap.Float64("measurement_range", cfg.Robot.MeasurementRange),
		zap.Float64("motion_noise", cfg.Robot.MotionNoise),
		zap.Float64("measurement_noise", cfg.Robot.MeasurementNoise),
	)

	return &Env{
		Config:  cfg,
		Seed:    seed,
		Logger:  logger,
		Metrics: collector,
		Robot:   robot,
		Sim:     sim,
	}, nil
}

// NewSource returns the deterministic random source used for a seed.
func NewSource(seed uint64) rand.Source {
	return rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
}

// ServeMetrics serves /metrics on addr until ctx is done.
func ServeMetrics(ctx context.Context, addr string, handler http.Handler, logger *zap.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving metrics", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("metrics server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("metrics server shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server: %w", err)
	}
	return nil
}
