package cluster

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
)

const (
	defaultRestarts = 10
	defaultMaxIter  = 300
)

// KMeans is Lloyd's algorithm. The first restart is seeded from evenly
// spaced quantiles, the rest with k-means++; the lowest inertia wins.
type KMeans struct {
	K        int
	Restarts int
	MaxIter  int
	Seed     uint64

	centroids []float64 // indexed by canonical label
}

// NewKMeans returns a KMeans with the default restart and iteration limits.
func NewKMeans(k int, seed uint64) *KMeans {
	return &KMeans{K: k, Restarts: defaultRestarts, MaxIter: defaultMaxIter, Seed: seed}
}

// Fit clusters x and returns canonical labels.
func (m *KMeans) Fit(x []float64) ([]int, error) {
	if m.K < 1 || len(x) < m.K {
		return nil, fmt.Errorf("k-means with %d clusters on %d points: %w", m.K, len(x), ErrUnfittable)
	}
	restarts := max(m.Restarts, 1)
	maxIter := max(m.MaxIter, 1)

	var bestCentroids []float64
	var bestRaw []int
	bestInertia := math.Inf(1)
	for r := range restarts {
		var centroids []float64
		if r == 0 {
			centroids = seedQuantiles(x, m.K)
		} else {
			centroids = seedPlusPlus(x, m.K, rand.New(rand.NewPCG(m.Seed, uint64(r))))
		}
		raw := lloyd(x, centroids, maxIter)
		if in := inertia(x, centroids, raw); in < bestInertia {
			bestInertia = in
			bestCentroids = centroids
			bestRaw = raw
		}
	}

	labels, mapping := relabel(bestRaw)
	m.centroids = make([]float64, len(mapping))
	for raw, c := range mapping {
		m.centroids[c] = bestCentroids[raw]
	}
	return labels, nil
}

// Predict assigns each point to its nearest centroid.
func (m *KMeans) Predict(x []float64) []int {
	out := make([]int, len(x))
	for i, v := range x {
		out[i] = nearest(m.centroids, v)
	}
	return out
}

func seedQuantiles(x []float64, k int) []float64 {
	sorted := slices.Clone(x)
	slices.Sort(sorted)
	centroids := make([]float64, k)
	for c := range k {
		pos := int((float64(c) + 0.5) / float64(k) * float64(len(sorted)))
		centroids[c] = sorted[min(pos, len(sorted)-1)]
	}
	return centroids
}

func seedPlusPlus(x []float64, k int, rng *rand.Rand) []float64 {
	centroids := make([]float64, 0, k)
	centroids = append(centroids, x[rng.IntN(len(x))])

	d2 := make([]float64, len(x))
	for len(centroids) < k {
		total := 0.0
		for i, v := range x {
			d := v - centroids[nearest(centroids, v)]
			d2[i] = d * d
			total += d2[i]
		}
		if total == 0 {
			centroids = append(centroids, x[rng.IntN(len(x))])
			continue
		}
		target := rng.Float64() * total
		pick := len(x) - 1
		acc := 0.0
		for i := range x {
			acc += d2[i]
			if acc >= target && d2[i] > 0 {
				pick = i
				break
			}
		}
		centroids = append(centroids, x[pick])
	}
	return centroids
}

// lloyd refines centroids in place and returns raw assignments.
// An emptied cluster keeps its previous centroid.
func lloyd(x, centroids []float64, maxIter int) []int {
	assign := make([]int, len(x))
	for i := range assign {
		assign[i] = -1
	}
	sums := make([]float64, len(centroids))
	counts := make([]int, len(centroids))

	for range maxIter {
		changed := false
		for i, v := range x {
			c := nearest(centroids, v)
			if c != assign[i] {
				assign[i] = c
				changed = true
			}
		}
		if !changed {
			break
		}
		clear(sums)
		clear(counts)
		for i, v := range x {
			sums[assign[i]] += v
			counts[assign[i]]++
		}
		for c := range centroids {
			if counts[c] > 0 {
				centroids[c] = sums[c] / float64(counts[c])
			}
		}
	}
	return assign
}

func inertia(x, centroids []float64, assign []int) float64 {
	total := 0.0
	for i, v := range x {
		d := v - centroids[assign[i]]
		total += d * d
	}
	return total
}

// nearest returns the index of the closest centroid; ties go to the lower index.
func nearest(centroids []float64, v float64) int {
	best := 0
	bestDist := math.Inf(1)
	for c, mu := range centroids {
		if d := math.Abs(v - mu); d < bestDist {
			best = c
			bestDist = d
		}
	}
	return best
}
