package forecast

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"
)

// Damping factor bounds.
const (
	minPhi = 0.8
	maxPhi = 0.98
)

// Holt is an additive damped-trend exponential smoothing model without
// seasonality.
type Holt struct {
	Alpha float64 // level smoothing, (0,1)
	Beta  float64 // trend smoothing, (0,Alpha)
	Phi   float64 // trend damping, [0.8,0.98]
	Level float64 // level after the last observation
	Trend float64 // trend after the last observation
	SSE   float64 // one-step-ahead squared error over the fit
}

// FitHolt estimates smoothing parameters and initial state by minimising
// the one-step-ahead squared error with Nelder-Mead.
func FitHolt(y []float64) (Holt, error) {
	if len(y) < 2 {
		return Holt{}, errors.New("holt: need at least two observations")
	}

	// Work on a unit scale so the initial state is comparable to the
	// smoothing parameters.
	scale := 0.0
	for _, v := range y {
		scale = math.Max(scale, math.Abs(v))
	}
	if scale == 0 {
		scale = 1
	}
	ys := make([]float64, len(y))
	for i, v := range y {
		ys[i] = v / scale
	}

	x0 := []float64{0, logit(0.1), logit((0.9 - minPhi) / (maxPhi - minPhi)), ys[0], ys[1] - ys[0]}
	objective := func(x []float64) float64 {
		sse, _, _ := run(ys, decode(x))
		return sse
	}

	// Hitting an evaluation limit still leaves a usable location, so only
	// a missing result is fatal.
	result, err := optimize.Minimize(
		optimize.Problem{Func: objective},
		x0,
		&optimize.Settings{MajorIterations: 2000, FuncEvaluations: 10000},
		&optimize.NelderMead{},
	)
	if result == nil {
		return Holt{}, fmt.Errorf("holt: %w", err)
	}
	best := x0
	if !math.IsNaN(result.F) && result.F < objective(x0) {
		best = result.X
	}

	h := decode(best)
	sse, level, trend := run(ys, h)
	h.Level = level * scale
	h.Trend = trend * scale
	h.SSE = sse * scale * scale
	return h, nil
}

// Forecast returns the next steps predictions.
func (h Holt) Forecast(steps int) []float64 {
	out := make([]float64, steps)
	damp := 0.0
	pow := 1.0
	for s := range steps {
		pow *= h.Phi
		damp += pow
		out[s] = h.Level + damp*h.Trend
	}
	return out
}

// decode maps unconstrained optimiser coordinates onto a model carrying
// the initial level and trend.
func decode(x []float64) Holt {
	alpha := sigmoid(x[0])
	return Holt{
		Alpha: alpha,
		Beta:  alpha * sigmoid(x[1]),
		Phi:   minPhi + (maxPhi-minPhi)*sigmoid(x[2]),
		Level: x[3],
		Trend: x[4],
	}
}

// run filters y through h starting from h.Level/h.Trend and returns the
// squared error with the final state.
func run(y []float64, h Holt) (sse, level, trend float64) {
	level, trend = h.Level, h.Trend
	for _, v := range y {
		f := level + h.Phi*trend
		e := v - f
		sse += e * e
		next := h.Alpha*v + (1-h.Alpha)*f
		trend = h.Beta*(next-level) + (1-h.Beta)*h.Phi*trend
		level = next
	}
	return sse, level, trend
}

func sigmoid(x float64) float64 { return 1 / (1 + math.Exp(-x)) }

func logit(p float64) float64 { return math.Log(p / (1 - p)) }
