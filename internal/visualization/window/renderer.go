// Package window shows a running simulation in an ebiten window.
package window

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"slam-robot-sim/internal/common"
	"slam-robot-sim/internal/simulation"
	"slam-robot-sim/internal/visualization"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"go.uber.org/zap"
)

const (
	objectRadiusOnScreen = 5.0
	padding              = 50.0
)

var (
	backgroundColor  = color.RGBA{230, 230, 230, 255}
	worldBorderColor = color.RGBA{60, 60, 60, 255}
	rangeColor       = color.RGBA{0, 0, 200, 60}
	landmarkColor    = color.RGBA{120, 120, 120, 255}
	observedColor    = color.RGBA{0, 160, 0, 255}
	measurementColor = color.RGBA{0, 160, 0, 120}
	robotColor       = color.RGBA{255, 0, 0, 255}
)

// Renderer implements ebiten.Game. It advances the simulation by one step
// every ticksPerStep ticks and draws the world, the landmarks, the robot and
// the measurements of the latest step.
type Renderer struct {
	sim          *simulation.Simulation
	log          *zap.Logger
	ticksPerStep int

	tick  int
	trace simulation.Trace
	last  *simulation.Step
	err   error

	screenWidth  int
	screenHeight int
	viewport     visualization.Viewport
}

// NewRenderer creates a renderer for sim. ticksPerStep below 1 is treated as 1.
func NewRenderer(sim *simulation.Simulation, ticksPerStep int, logger *zap.Logger) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{
		sim:          sim,
		log:          logger,
		ticksPerStep: max(ticksPerStep, 1),
	}
}

// Trace returns the steps taken so far.
func (r *Renderer) Trace() simulation.Trace {
	return r.trace
}

// Update is called every tick.
func (r *Renderer) Update() error {
	r.tick++
	if r.err != nil || r.tick%r.ticksPerStep != 0 {
		return nil
	}

	st, err := r.sim.Step()
	if err != nil {
		// Keep the window open on the last good frame.
		r.err = err
		r.log.Error("simulation stopped", zap.Error(err))
		return nil
	}
	r.trace.Steps = append(r.trace.Steps, st)
	r.last = &r.trace.Steps[len(r.trace.Steps)-1]
	return nil
}

// Draw is called every frame to render the simulation.
func (r *Renderer) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	robot := r.sim.Robot()
	cfg := robot.Config()
	r.viewport = visualization.FitViewport(cfg.WorldSize, r.screenWidth, r.screenHeight, padding)

	// World border.
	x0, y0 := r.viewport.ToScreen(common.Vector{})
	side := r.viewport.Length(cfg.WorldSize)
	vector.StrokeRect(screen, x0, y0-side, side, side, 2, worldBorderColor, true)

	observed := make(map[int]bool)
	if r.last != nil {
		for _, m := range r.last.Measurements {
			observed[m.LandmarkID] = true
		}
		sx, sy := r.viewport.ToScreen(r.last.Position)
		for _, m := range r.last.Measurements {
			lm, ok := robot.Landmark(m.LandmarkID)
			if !ok {
				continue
			}
			lx, ly := r.viewport.ToScreen(lm.Position)
			vector.StrokeLine(screen, sx, sy, lx, ly, 1, measurementColor, true)
		}
	}

	for _, lm := range robot.Landmarks() {
		lx, ly := r.viewport.ToScreen(lm.Position)
		clr := landmarkColor
		if observed[lm.ID] {
			clr = observedColor
		}
		vector.DrawFilledRect(screen, lx-objectRadiusOnScreen, ly-objectRadiusOnScreen,
			2*objectRadiusOnScreen, 2*objectRadiusOnScreen, clr, true)
	}

	rx, ry := r.viewport.ToScreen(robot.GetPosition())
	if cfg.RangeLimited() {
		reach := r.viewport.Length(cfg.MeasurementRange)
		vector.DrawFilledRect(screen, rx-reach, ry-reach, 2*reach, 2*reach, rangeColor, true)
	}
	vector.DrawFilledCircle(screen, rx, ry, objectRadiusOnScreen, robotColor, true)

	r.drawDebugInfo(screen)
}

func (r *Renderer) drawDebugInfo(screen *ebiten.Image) {
	robot := r.sim.Robot()
	lines := []string{
		robot.String(),
		fmt.Sprintf("FPS: %.1f, TPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()),
		fmt.Sprintf("Step: %d  Heading: %.1f°  Landmarks: %d  Seen so far: %d",
			r.sim.StepIndex(), r.sim.Heading()*180/math.Pi, len(robot.Landmarks()), len(r.trace.ObservedLandmarks())),
	}
	if r.last != nil {
		lines = append(lines, fmt.Sprintf("Observed: %d  Rejected moves: %d  Motion: %s",
			len(r.last.Measurements), r.last.Rejected, r.last.Motion))
	}
	if r.err != nil {
		lines = append(lines, "Stopped: "+r.err.Error())
	}
	ebitenutil.DebugPrint(screen, strings.Join(lines, "\n"))
}

// Layout is called when the window size changes.
func (r *Renderer) Layout(outsideWidth, outsideHeight int) (int, int) {
	r.screenWidth = outsideWidth
	r.screenHeight = outsideHeight
	return r.screenWidth, r.screenHeight
}
