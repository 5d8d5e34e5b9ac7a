package simulation

import (
	"fmt"
	"math"
	"math/rand/v2"

	"slam-robot-sim/internal/common"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	DefaultWorldSize        = 100.0
	DefaultMeasurementRange = 30.0
	DefaultMotionNoise      = 1.0
	DefaultMeasurementNoise = 1.0

	// NoRangeLimit disables measurement range filtering. Any negative range does the same.
	NoRangeLimit = -1.0
)

// Config holds the world and noise parameters of a robot.
type Config struct {
	WorldSize        float64 `yaml:"world_size"`
	MeasurementRange float64 `yaml:"measurement_range"`
	MotionNoise      float64 `yaml:"motion_noise"`
	MeasurementNoise float64 `yaml:"measurement_noise"`
}

// DefaultConfig returns a 100x100 world with a sensing range of 30 and unit noise.
func DefaultConfig() Config {
	return Config{
		WorldSize:        DefaultWorldSize,
		MeasurementRange: DefaultMeasurementRange,
		MotionNoise:      DefaultMotionNoise,
		MeasurementNoise: DefaultMeasurementNoise,
	}
}

// RangeLimited reports whether sensing filters landmarks by distance.
func (c Config) RangeLimited() bool {
	return c.MeasurementRange >= 0
}

// Landmark is a fixed point in the world. ID is its index in generation order.
type Landmark struct {
	ID       int
	Position common.Vector
}

// GetID returns the display identifier of the landmark.
func (l Landmark) GetID() string {
	return fmt.Sprintf("landmark-%d", l.ID)
}

// GetPosition returns the position of the landmark.
func (l Landmark) GetPosition() common.Vector {
	return l.Position
}

// Measurement is a noisy per-axis offset magnitude to one landmark.
type Measurement struct {
	LandmarkID int
	DX         float64
	DY         float64
}

func (m Measurement) String() string {
	return fmt.Sprintf("[%d, %.5f, %.5f]", m.LandmarkID, m.DX, m.DY)
}

// Robot lives in a square world [0, WorldSize] x [0, WorldSize]. It moves by
// requested displacements perturbed with motion noise and senses the x- and
// y-distance to landmarks. A Robot is not safe for concurrent use.
type Robot struct {
	id        string
	cfg       Config
	src       rand.Source
	noise     NoiseFunction
	position  common.Vector
	landmarks []Landmark
}

// NewRobot creates a robot at the center of the world with no landmarks.
// All randomness is drawn from src; a nil src uses the process-wide generator.
func NewRobot(cfg Config, src rand.Source) *Robot {
	return &Robot{
		id:       fmt.Sprintf("robot-%s", uuid.NewString()[:8]),
		cfg:      cfg,
		src:      src,
		noise:    UniformNoise(src),
		position: common.NewVector(cfg.WorldSize/2.0, cfg.WorldSize/2.0),
	}
}

// GetID returns the unique identifier of the robot.
func (r *Robot) GetID() string {
	return r.id
}

// GetPosition returns the current position of the robot.
func (r *Robot) GetPosition() common.Vector {
	return r.position
}

// Config returns the parameters the robot was built with.
func (r *Robot) Config() Config {
	return r.cfg
}

// Move attempts to move the robot by (dx, dy) plus motion noise on each axis.
// If the noisy candidate leaves the world the robot stays put and Move returns false.
func (r *Robot) Move(dx, dy float64) bool {
	nx := r.noise(r.cfg.MotionNoise)
	ny := r.noise(r.cfg.MotionNoise)
	candidate := r.position.Add(common.NewVector(dx, dy)).Add(common.NewVector(nx, ny))

	if !candidate.Within(0, r.cfg.WorldSize) {
		return false
	}
	r.position = candidate
	return true
}

// MakeLandmarks replaces all landmarks with count new ones placed at integer
// coordinates drawn uniformly over the world. IDs are 0..count-1.
// A Simulation wrapping the robot picks up the new count on its next step.
func (r *Robot) MakeLandmarks(count int) {
	spread := distuv.Uniform{Min: 0, Max: r.cfg.WorldSize, Src: r.src}
	landmarks := make([]Landmark, 0, max(count, 0))
	for i := 0; i < count; i++ {
		x := math.RoundToEven(spread.Rand())
		y := math.RoundToEven(spread.Rand())
		landmarks = append(landmarks, Landmark{ID: i, Position: common.NewVector(x, y)})
	}
	r.landmarks = landmarks
}

// Landmarks returns a copy of the current landmark set in ID order.
func (r *Robot) Landmarks() []Landmark {
	out := make([]Landmark, len(r.landmarks))
	copy(out, r.landmarks)
	return out
}

// Landmark returns the landmark with the given ID.
func (r *Robot) Landmark(id int) (Landmark, bool) {
	if id < 0 || id >= len(r.landmarks) {
		return Landmark{}, false
	}
	return r.landmarks[id], true
}

// Sense returns measurements to every landmark within the measurement range,
// in ascending landmark ID order. The range check applies to the noisy values.
func (r *Robot) Sense() []Measurement {
	measurements := make([]Measurement, 0, len(r.landmarks))
	for _, lm := range r.landmarks {
		nx := r.noise(r.cfg.MeasurementNoise)
		ny := r.noise(r.cfg.MeasurementNoise)
		offset := r.position.Subtract(lm.Position).Add(common.NewVector(nx, ny)).Abs()

		m := Measurement{LandmarkID: lm.ID, DX: offset.X, DY: offset.Y}
		if r.InRange(m) {
			measurements = append(measurements, m)
		}
	}
	return measurements
}

// InRange reports whether a measurement passes the robot's range filter.
func (r *Robot) InRange(m Measurement) bool {
	if !r.cfg.RangeLimited() {
		return true
	}
	return m.DX <= r.cfg.MeasurementRange && m.DY <= r.cfg.MeasurementRange
}

// Objects returns the robot followed by its landmarks, for display.
func (r *Robot) Objects() []Object {
	objects := make([]Object, 0, len(r.landmarks)+1)
	objects = append(objects, r)
	for _, lm := range r.landmarks {
		objects = append(objects, lm)
	}
	return objects
}

// String returns the robot position with five decimals.
func (r *Robot) String() string {
	return fmt.Sprintf("Robot: [x=%.5f y=%.5f]", r.position.X, r.position.Y)
}
