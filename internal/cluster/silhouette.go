package cluster

import (
	"fmt"
	"math"
)

// Silhouette returns the mean silhouette coefficient of labels over x.
// It is defined only for 2 <= distinct labels <= len(x)-1. A point alone
// in its group scores 0.
func Silhouette(x []float64, labels []int) (float64, error) {
	if len(x) != len(labels) {
		return 0, fmt.Errorf("silhouette: %d points but %d labels", len(x), len(labels))
	}
	k := CountLabels(labels)
	if k < 2 || k > len(x)-1 {
		return 0, fmt.Errorf("silhouette: %d labels on %d points is undefined", k, len(x))
	}

	sizes := make(map[int]int, k)
	for _, l := range labels {
		sizes[l]++
	}

	total := 0.0
	dist := make(map[int]float64, k)
	for i, xi := range x {
		clear(dist)
		for j, xj := range x {
			if i != j {
				dist[labels[j]] += math.Abs(xi - xj)
			}
		}

		own := labels[i]
		if sizes[own] == 1 {
			continue
		}
		a := dist[own] / float64(sizes[own]-1)
		b := math.Inf(1)
		for l, n := range sizes {
			if l == own {
				continue
			}
			b = math.Min(b, dist[l]/float64(n))
		}
		if denom := math.Max(a, b); denom > 0 {
			total += (b - a) / denom
		}
	}
	return total / float64(len(x)), nil
}
