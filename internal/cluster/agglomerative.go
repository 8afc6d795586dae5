package cluster

import (
	"fmt"
	"math"
	"sort"
)

// Agglomerative is bottom-up clustering with Ward linkage. On a single
// feature the groups are contiguous runs of the sorted values, so only
// neighbouring groups are considered for each merge.
type Agglomerative struct {
	K int

	trainSorted []float64
	trainLabels []int // canonical label of each trainSorted value
}

type wardGroup struct {
	n   int
	sum float64
	ids []int // input indices
}

func (g wardGroup) mean() float64 { return g.sum / float64(g.n) }

// wardCost is the increase in within-group variance caused by merging a and b.
func wardCost(a, b wardGroup) float64 {
	d := a.mean() - b.mean()
	return float64(a.n*b.n) / float64(a.n+b.n) * d * d
}

// Fit clusters x and returns canonical labels.
func (m *Agglomerative) Fit(x []float64) ([]int, error) {
	if m.K < 1 || len(x) < m.K {
		return nil, fmt.Errorf("agglomerative with %d clusters on %d points: %w", m.K, len(x), ErrUnfittable)
	}

	order := make([]int, len(x))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return x[order[a]] < x[order[b]] })

	groups := make([]wardGroup, len(order))
	for pos, i := range order {
		groups[pos] = wardGroup{n: 1, sum: x[i], ids: []int{i}}
	}

	for len(groups) > m.K {
		best := 0
		bestCost := math.Inf(1)
		for g := 0; g+1 < len(groups); g++ {
			if c := wardCost(groups[g], groups[g+1]); c < bestCost {
				best = g
				bestCost = c
			}
		}
		merged := wardGroup{
			n:   groups[best].n + groups[best+1].n,
			sum: groups[best].sum + groups[best+1].sum,
			ids: append(groups[best].ids, groups[best+1].ids...),
		}
		groups[best] = merged
		groups = append(groups[:best+1], groups[best+2:]...)
	}

	raw := make([]int, len(x))
	for g, grp := range groups {
		for _, i := range grp.ids {
			raw[i] = g
		}
	}
	labels, _ := relabel(raw)

	m.trainSorted = make([]float64, len(order))
	m.trainLabels = make([]int, len(order))
	for pos, i := range order {
		m.trainSorted[pos] = x[i]
		m.trainLabels[pos] = labels[i]
	}
	return labels, nil
}

// Predict gives each point the label of its nearest fitted point.
func (m *Agglomerative) Predict(x []float64) []int {
	out := make([]int, len(x))
	for i, v := range x {
		if pos := nearestSorted(m.trainSorted, v); pos >= 0 {
			out[i] = m.trainLabels[pos]
		}
	}
	return out
}
