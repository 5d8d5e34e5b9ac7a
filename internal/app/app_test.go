package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"slam-robot-sim/internal/config"
	"slam-robot-sim/internal/simulation"
	"slam-robot-sim/internal/visualization"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sim.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestRunContextDemo(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := RunContext(context.Background(), []string{"-seed", "7", "-steps", "5"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	out := stdout.String()
	assert.True(t, strings.HasPrefix(out, "Robot: [x=5.00000 y=5.00000]\n+----------+\n"), out)
	assert.Contains(t, out, "Landmark locations [x,y]: [[")
	assert.Contains(t, out, "Measurements: [")
	assert.Contains(t, out, "Trace: 5 steps")
	assert.Contains(t, stderr.String(), "robot created")
	assert.Contains(t, stderr.String(), "trace summary")
}

func TestRunContextIsReproducibleForSeed(t *testing.T) {
	run := func() string {
		var stdout, stderr bytes.Buffer
		require.Equal(t, 0, RunContext(context.Background(), []string{"-seed", "99", "-steps", "10"}, &stdout, &stderr))
		return stdout.String()
	}
	assert.Equal(t, run(), run())
}

func TestRunContextExitCodes(t *testing.T) {
	tests := []struct {
		name string
		argv []string
		want int
	}{
		{"help", []string{"-h"}, 0},
		{"unknown flag", []string{"-bogus"}, 2},
		{"positional argument", []string{"extra"}, 2},
		{"missing config", []string{"-config", filepath.Join(t.TempDir(), "nope.yaml")}, 1},
		{"invalid override", []string{"-steps", "-1"}, 1},
		{"bad log level", []string{"-log-level", "loud"}, 1},
		{"no trace", []string{"-steps", "0", "-seed", "1"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			assert.Equal(t, tt.want, RunContext(context.Background(), tt.argv, &stdout, &stderr), stderr.String())
		})
	}
}

func TestRunContextReportsFlagErrorsOnce(t *testing.T) {
	tests := []struct {
		argv []string
		msg  string
	}{
		{[]string{"-bogus"}, "flag provided but not defined: -bogus"},
		{[]string{"extra"}, "unexpected arguments: [extra]"},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			require.Equal(t, 2, RunContext(context.Background(), tt.argv, &stdout, &stderr))
			assert.Equal(t, 1, strings.Count(stderr.String(), tt.msg), stderr.String())
			assert.Contains(t, stderr.String(), "Usage of simulation:")
			assert.Empty(t, stdout.String())
		})
	}
}

func TestRunContextBoundsGridForLargeWorlds(t *testing.T) {
	path := writeConfig(t, "robot:\n  world_size: 100000\nsteps: 0\nseed: 3\n")

	var stdout, stderr bytes.Buffer
	require.Equal(t, 0, RunContext(context.Background(), []string{"-config", path}, &stdout, &stderr), stderr.String())

	// Three robot lines and grids plus the landmark and measurement lines.
	gridBytes := (visualization.MaxGridColumns + 2) * (visualization.MaxGridColumns + 3)
	assert.Less(t, stdout.Len(), 3*gridBytes+1024)
	assert.Equal(t, 3, strings.Count(stdout.String(), "Robot: [x="))
}

func TestOptionsOverrideConfigFile(t *testing.T) {
	path := writeConfig(t, "steps: 3\nlandmarks: 8\nseed: 11\n")

	var opts Options
	fs := NewFlagSet("test", &opts)
	require.NoError(t, ParseArgs(fs, &opts, []string{"-config", path, "-steps", "9"}))
	cfg, err := opts.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Steps)
	assert.Equal(t, 8, cfg.Landmarks)
	assert.Equal(t, uint64(11), cfg.Seed)

	opts = Options{}
	fs = NewFlagSet("test", &opts)
	require.NoError(t, ParseArgs(fs, &opts, []string{"-config", path, "-landmarks", "0", "-seed", "0"}))
	cfg, err = opts.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Steps)
	assert.Equal(t, 0, cfg.Landmarks)
	assert.Equal(t, uint64(0), cfg.Seed)
}

func TestSetupWiresMetrics(t *testing.T) {
	cfg := config.Default()
	cfg.Seed = 5
	env, err := Setup(cfg, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, uint64(5), env.Seed)
	assert.Same(t, env.Robot, env.Sim.Robot())

	env.Sim.MakeLandmarks(4)
	_, err = env.Sim.Run(3)
	require.NoError(t, err)

	assert.Equal(t, 4.0, testutil.ToFloat64(env.Metrics.Landmarks))
	assert.Equal(t, 3.0, testutil.ToFloat64(env.Metrics.Moves.WithLabelValues("accepted")))
}

func TestSetupPicksSeedWhenZero(t *testing.T) {
	env, err := Setup(config.Default(), &bytes.Buffer{})
	require.NoError(t, err)
	assert.NotZero(t, env.Seed)
}

func TestNewSourceIsDeterministic(t *testing.T) {
	a := simulation.NewRobot(simulation.DefaultConfig(), NewSource(3))
	b := simulation.NewRobot(simulation.DefaultConfig(), NewSource(3))
	a.MakeLandmarks(10)
	b.MakeLandmarks(10)
	assert.Equal(t, a.Landmarks(), b.Landmarks())
}

func TestServeMetricsStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	env, err := Setup(config.Default(), &bytes.Buffer{})
	require.NoError(t, err)
	assert.NoError(t, ServeMetrics(ctx, "127.0.0.1:0", env.Metrics.Handler(), env.Logger))
}

func TestServeMetricsReportsListenError(t *testing.T) {
	env, err := Setup(config.Default(), &bytes.Buffer{})
	require.NoError(t, err)
	assert.Error(t, ServeMetrics(context.Background(), "256.0.0.1:bad", env.Metrics.Handler(), env.Logger))
}
