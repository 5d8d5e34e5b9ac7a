// Package metrics exposes robot activity as Prometheus metrics.
package metrics

import (
	"fmt"
	"net/http"

	"slam-robot-sim/internal/simulation"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ simulation.Recorder = (*Collector)(nil)

// Collector bundles the simulator's Prometheus metrics.
type Collector struct {
	gatherer prometheus.Gatherer

	Moves        *prometheus.CounterVec
	Measurements prometheus.Counter
	SenseCalls   prometheus.Counter
	Landmarks    prometheus.Gauge
}

// NewCollector registers the simulator metrics against reg, defaulting to the
// global Prometheus registry when nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	moves := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "robot_moves_total",
		Help: "Move attempts, labeled by result (accepted or rejected by the world boundary).",
	}, []string{"result"})
	if err := reg.Register(moves); err != nil {
		return nil, fmt.Errorf("register robot_moves_total: %w", err)
	}

	measurements := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "robot_measurements_total",
		Help: "Landmark measurements reported by sense calls.",
	})
	if err := reg.Register(measurements); err != nil {
		return nil, fmt.Errorf("register robot_measurements_total: %w", err)
	}

	senses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "robot_sense_calls_total",
		Help: "Sense calls made by the simulation.",
	})
	if err := reg.Register(senses); err != nil {
		return nil, fmt.Errorf("register robot_sense_calls_total: %w", err)
	}

	landmarks := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "robot_landmarks",
		Help: "Landmarks currently in the world.",
	})
	if err := reg.Register(landmarks); err != nil {
		return nil, fmt.Errorf("register robot_landmarks: %w", err)
	}

	return &Collector{
		gatherer:     gatherer,
		Moves:        moves,
		Measurements: measurements,
		SenseCalls:   senses,
		Landmarks:    landmarks,
	}, nil
}

// RecordMove counts one move attempt by its outcome.
func (c *Collector) RecordMove(accepted bool) {
	result := "rejected"
	if accepted {
		result = "accepted"
	}
	c.Moves.WithLabelValues(result).Inc()
}

// RecordSense counts a sense call and the measurements it returned.
func (c *Collector) RecordSense(observed int) {
	c.SenseCalls.Inc()
	c.Measurements.Add(float64(observed))
}

// SetLandmarks sets the current landmark count.
func (c *Collector) SetLandmarks(count int) {
	c.Landmarks.Set(float64(count))
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}
