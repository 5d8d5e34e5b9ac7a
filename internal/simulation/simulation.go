package simulation

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"slam-robot-sim/internal/common"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	DefaultStepDistance      = 20.0
	DefaultMaxHeadingRetries = 100
)

// ErrNoFeasibleMove is returned when no heading tried within the retry cap keeps the robot in the world.
var ErrNoFeasibleMove = errors.New("no feasible move")

// Recorder receives counts of robot activity. metrics.Collector implements it.
type Recorder interface {
	RecordMove(accepted bool)
	RecordSense(observed int)
	SetLandmarks(count int)
}

type nopRecorder struct{}

func (nopRecorder) RecordMove(bool)  {}
func (nopRecorder) RecordSense(int)  {}
func (nopRecorder) SetLandmarks(int) {}

// Step is one entry of a trace: what the robot sensed from Position and the
// motion it was then commanded.
type Step struct {
	Index        int
	Position     common.Vector // true position while sensing
	Measurements []Measurement
	Motion       common.Vector // commanded displacement of the accepted move
	Rejected     int           // moves rejected by the world boundary before the accepted one
}

// Trace is an ordered sequence of steps.
type Trace struct {
	Steps []Step
}

// ObservedLandmarks returns the sorted IDs of every landmark measured at least once.
func (t Trace) ObservedLandmarks() []int {
	seen := make(map[int]struct{})
	for _, st := range t.Steps {
		for _, m := range st.Measurements {
			seen[m.LandmarkID] = struct{}{}
		}
	}
	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// AllLandmarksObserved reports whether every landmark 0..count-1 appears in the trace.
func (t Trace) AllLandmarksObserved(count int) bool {
	observed := 0
	for _, id := range t.ObservedLandmarks() {
		if id >= 0 && id < count {
			observed++
		}
	}
	return observed == count
}

// Option configures a Simulation.
type Option func(*Simulation)

// WithStepDistance sets the length of each commanded move.
func WithStepDistance(distance float64) Option {
	return func(s *Simulation) { s.distance = distance }
}

// WithMaxHeadingRetries caps how many headings a step tries before giving up.
func WithMaxHeadingRetries(n int) Option {
	return func(s *Simulation) { s.maxRetries = n }
}

// WithLogger sets the logger; a nil logger keeps the no-op default.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Simulation) {
		if logger != nil {
			s.log = logger
		}
	}
}

// WithMetrics sets the recorder that receives move, sense and landmark counts.
func WithMetrics(rec Recorder) Option {
	return func(s *Simulation) {
		if rec != nil {
			s.metrics = rec
		}
	}
}

// Simulation drives a robot along straight lines, picking a new random
// heading whenever the world boundary rejects a move, and records what the
// robot senses at every step.
type Simulation struct {
	robot      *Robot
	distance   float64
	maxRetries int
	headings   distuv.Uniform
	heading    float64
	step       int
	log        *zap.Logger
	metrics    Recorder
}

// NewSimulation creates a trace generator around robot. The initial heading is
// drawn from the robot's random source.
func NewSimulation(robot *Robot, opts ...Option) (*Simulation, error) {
	if robot == nil {
		return nil, errors.New("robot is required")
	}
	s := &Simulation{
		robot:      robot,
		distance:   DefaultStepDistance,
		maxRetries: DefaultMaxHeadingRetries,
		headings:   distuv.Uniform{Min: 0, Max: 2 * math.Pi, Src: robot.src},
		log:        zap.NewNop(),
		metrics:    nopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if !(s.distance > 0) {
		return nil, fmt.Errorf("step distance must be positive, got %v", s.distance)
	}
	if s.maxRetries < 1 {
		return nil, fmt.Errorf("max heading retries must be at least 1, got %d", s.maxRetries)
	}

	s.heading = s.headings.Rand()
	s.log = s.log.With(zap.String("robot", robot.GetID()))
	s.metrics.SetLandmarks(len(robot.landmarks))
	return s, nil
}

// Robot returns the simulated robot.
func (s *Simulation) Robot() *Robot {
	return s.robot
}

// Heading returns the current heading in radians.
func (s *Simulation) Heading() float64 {
	return s.heading
}

// StepIndex returns the index the next step will carry.
func (s *Simulation) StepIndex() int {
	return s.step
}

// MakeLandmarks regenerates the robot's landmarks. Measurements taken earlier refer to stale IDs.
func (s *Simulation) MakeLandmarks(count int) {
	s.robot.MakeLandmarks(count)
	s.metrics.SetLandmarks(len(s.robot.landmarks))
	s.log.Info("landmarks generated", zap.Int("count", len(s.robot.landmarks)))
}

// Step senses from the current position and then moves one step along the
// current heading, re-drawing the heading after each rejected move.
func (s *Simulation) Step() (Step, error) {
	st := Step{
		Index:        s.step,
		Position:     s.robot.GetPosition(),
		Measurements: s.robot.Sense(),
	}
	s.metrics.SetLandmarks(len(s.robot.landmarks))
	s.metrics.RecordSense(len(st.Measurements))

	for attempt := 0; attempt < s.maxRetries; attempt++ {
		motion := common.NewVector(math.Cos(s.heading), math.Sin(s.heading)).MultiplyByScalar(s.distance)
		if s.robot.Move(motion.X, motion.Y) {
			s.metrics.RecordMove(true)
			st.Motion = motion
			s.step++
			s.log.Debug("step",
				zap.Int("index", st.Index),
				zap.Int("observed", len(st.Measurements)),
				zap.Stringer("motion", motion),
				zap.Stringer("position", s.robot.GetPosition()),
			)
			return st, nil
		}
		s.metrics.RecordMove(false)
		st.Rejected++
		s.log.Debug("move rejected by world boundary",
			zap.Int("index", st.Index),
			zap.Float64("heading", s.heading),
		)
		s.heading = s.headings.Rand()
	}
	return st, fmt.Errorf("step %d: %w after %d headings", st.Index, ErrNoFeasibleMove, s.maxRetries)
}

// Run executes n steps and returns the trace. On error the steps completed so far are returned.
func (s *Simulation) Run(n int) (Trace, error) {
	trace := Trace{Steps: make([]Step, 0, max(n, 0))}
	s.log.Info("starting simulation",
		zap.Int("steps", n),
		zap.Float64("distance", s.distance),
		zap.Stringer("position", s.robot.GetPosition()),
	)
	for i := 0; i < n; i++ {
		st, err := s.Step()
		if err != nil {
			return trace, err
		}
		trace.Steps = append(trace.Steps, st)
	}
	s.log.Info("simulation finished",
		zap.Int("steps", len(trace.Steps)),
		zap.Stringer("position", s.robot.GetPosition()),
	)
	return trace, nil
}
