package simulation

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Stats summarizes a trace against the true landmark positions.
type Stats struct {
	Steps            int
	Observations     int
	MeanObservations float64
	RejectedMoves    int
	PathLength       float64 // true distance between consecutive sensing positions

	// Residuals are measured magnitude minus true magnitude, per axis.
	ResidualMeanX float64
	ResidualStdX  float64
	ResidualMeanY float64
	ResidualStdY  float64
}

// Summarize computes trace statistics. Measurements whose landmark ID is not
// in landmarks are counted as observations but excluded from the residuals.
func Summarize(trace Trace, landmarks []Landmark) Stats {
	byID := make(map[int]Landmark, len(landmarks))
	for _, lm := range landmarks {
		byID[lm.ID] = lm
	}

	var st Stats
	var rx, ry []float64
	for i, step := range trace.Steps {
		if i > 0 {
			st.PathLength += trace.Steps[i-1].Position.Distance(step.Position)
		}
		st.Steps++
		st.RejectedMoves += step.Rejected
		st.Observations += len(step.Measurements)
		for _, m := range step.Measurements {
			lm, ok := byID[m.LandmarkID]
			if !ok {
				continue
			}
			truth := step.Position.Subtract(lm.Position).Abs()
			rx = append(rx, m.DX-truth.X)
			ry = append(ry, m.DY-truth.Y)
		}
	}
	if st.Steps > 0 {
		st.MeanObservations = float64(st.Observations) / float64(st.Steps)
	}
	st.ResidualMeanX, st.ResidualStdX = meanStdDev(rx)
	st.ResidualMeanY, st.ResidualStdY = meanStdDev(ry)
	return st
}

func meanStdDev(x []float64) (mean, std float64) {
	switch len(x) {
	case 0:
		return 0, 0
	case 1:
		return x[0], 0
	}
	mean, std = stat.MeanStdDev(x, nil)
	if math.IsNaN(std) {
		std = 0
	}
	return mean, std
}
