package cluster

import (
	"slices"

	"gonum.org/v1/gonum/stat"
)

// Scaler standardizes a feature to zero mean and unit variance.
type Scaler struct {
	Mean float64
	Std  float64 // population standard deviation
}

// FitScaler computes the population mean and standard deviation of values.
func FitScaler(values []float64) Scaler {
	if len(values) == 0 {
		return Scaler{Std: 1}
	}
	mean, std := stat.PopMeanStdDev(values, nil)
	return Scaler{Mean: mean, Std: std}
}

// Transform rescales values. A zero deviation scales by 1 so constant
// input maps to all zeros.
func (s Scaler) Transform(values []float64) []float64 {
	scale := s.Std
	if scale == 0 {
		scale = 1
	}
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = (v - s.Mean) / scale
	}
	return out
}

// Normalize fits a Scaler on values and returns the rescaled values.
func Normalize(values []float64) ([]float64, Scaler) {
	s := FitScaler(values)
	return s.Transform(values), s
}

// Distinct returns the number of distinct values.
func Distinct(values []float64) int {
	if len(values) == 0 {
		return 0
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	return len(slices.Compact(sorted))
}
