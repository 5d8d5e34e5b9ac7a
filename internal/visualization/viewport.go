package visualization

import (
	"math"

	"slam-robot-sim/internal/common"
)

// Viewport maps world coordinates onto a screen whose y axis points down.
type Viewport struct {
	Scale        float64
	OffsetX      float64
	OffsetY      float64
	ScreenHeight float64
}

// FitViewport centers the square world [0, worldSize]² on a screen of the
// given size, keeping padding pixels free on every side.
func FitViewport(worldSize float64, screenWidth, screenHeight int, padding float64) Viewport {
	w := float64(screenWidth)
	h := float64(screenHeight)
	vp := Viewport{Scale: 1, ScreenHeight: h}

	if worldSize > 0 {
		vp.Scale = math.Min(w-2*padding, h-2*padding) / worldSize
	}
	// Screens smaller than the padding would give a non-positive scale.
	if vp.Scale <= 0 || math.IsNaN(vp.Scale) || math.IsInf(vp.Scale, 0) {
		vp.Scale = 1
	}

	side := worldSize * vp.Scale
	vp.OffsetX = (w - side) / 2
	vp.OffsetY = (h - side) / 2
	return vp
}

// ToScreen converts a world position to screen coordinates.
func (vp Viewport) ToScreen(pos common.Vector) (float32, float32) {
	x := pos.X*vp.Scale + vp.OffsetX
	y := vp.ScreenHeight - (pos.Y*vp.Scale + vp.OffsetY)
	return float32(x), float32(y)
}

// Length converts a world distance to screen pixels.
func (vp Viewport) Length(d float64) float32 {
	return float32(d * vp.Scale)
}
