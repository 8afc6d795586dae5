package cluster

import (
	"fmt"
	"math"
	"sort"
)

const noise = -1

// DBSCAN groups points with at least MinSamples neighbours (itself
// included) within Eps. Points reachable from no core point are noise;
// noise is reported as a group of its own.
type DBSCAN struct {
	Eps        float64
	MinSamples int

	coreValues []float64 // fitted core points, ascending
	coreRaw    []int     // raw cluster id of each core point
	mapping    map[int]int
}

// Fit clusters x and returns canonical labels.
func (m *DBSCAN) Fit(x []float64) ([]int, error) {
	if m.Eps <= 0 || m.MinSamples < 1 || len(x) == 0 {
		return nil, fmt.Errorf("dbscan eps=%v min_samples=%d on %d points: %w", m.Eps, m.MinSamples, len(x), ErrUnfittable)
	}

	order := make([]int, len(x))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return x[order[a]] < x[order[b]] })
	sorted := make([]float64, len(x))
	for pos, i := range order {
		sorted[pos] = x[i]
	}

	// neighbours returns the sorted-position range [lo, hi) within Eps of v.
	neighbours := func(v float64) (int, int) {
		lo := sort.SearchFloat64s(sorted, v-m.Eps)
		hi := sort.Search(len(sorted), func(p int) bool { return sorted[p] > v+m.Eps })
		return lo, hi
	}

	core := make([]bool, len(x))
	for i, v := range x {
		lo, hi := neighbours(v)
		core[i] = hi-lo >= m.MinSamples
	}

	raw := make([]int, len(x))
	for i := range raw {
		raw[i] = noise
	}
	next := 0
	for i := range x {
		if raw[i] != noise || !core[i] {
			continue
		}
		raw[i] = next
		stack := []int{i}
		for len(stack) > 0 {
			p := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			lo, hi := neighbours(x[p])
			for pos := lo; pos < hi; pos++ {
				j := order[pos]
				if raw[j] != noise {
					continue
				}
				raw[j] = next
				if core[j] {
					stack = append(stack, j)
				}
			}
		}
		next++
	}

	labels, mapping := relabel(raw)
	m.mapping = mapping
	m.coreValues = m.coreValues[:0]
	m.coreRaw = m.coreRaw[:0]
	for _, i := range order {
		if core[i] {
			m.coreValues = append(m.coreValues, x[i])
			m.coreRaw = append(m.coreRaw, raw[i])
		}
	}
	return labels, nil
}

// Predict labels each point with the cluster of its nearest core point
// within Eps, or as noise.
func (m *DBSCAN) Predict(x []float64) []int {
	noiseLabel, ok := m.mapping[noise]
	if !ok {
		noiseLabel = len(m.mapping)
	}
	out := make([]int, len(x))
	for i, v := range x {
		out[i] = noiseLabel
		if j := nearestSorted(m.coreValues, v); j >= 0 && math.Abs(m.coreValues[j]-v) <= m.Eps {
			out[i] = m.mapping[m.coreRaw[j]]
		}
	}
	return out
}

// nearestSorted returns the position of the value closest to v in an
// ascending slice, or -1 if the slice is empty. Ties go to the lower position.
func nearestSorted(sorted []float64, v float64) int {
	if len(sorted) == 0 {
		return -1
	}
	pos := sort.SearchFloat64s(sorted, v)
	switch {
	case pos == 0:
		return 0
	case pos == len(sorted):
		return len(sorted) - 1
	case v-sorted[pos-1] <= sorted[pos]-v:
		return pos - 1
	default:
		return pos
	}
}
