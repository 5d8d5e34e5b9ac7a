package simulation

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// NoiseFunction defines a function signature for drawing a perturbation.
// It takes the noise magnitude and returns a value in [-magnitude, magnitude).
type NoiseFunction func(magnitude float64) float64

// UniformNoise creates a NoiseFunction that draws from [-1, 1) scaled by the magnitude.
// A nil src draws from the process-wide generator.
func UniformNoise(src rand.Source) NoiseFunction {
	unit := distuv.Uniform{Min: -1, Max: 1, Src: src}
	return func(magnitude float64) float64 {
		return unit.Rand() * magnitude
	}
}
