package cluster

import (
	"math/rand/v2"
	"slices"
)

// Fold is one train/test partition of sample indices. Both sides are ascending.
type Fold struct {
	Train []int
	Test  []int
}

// KFold shuffles 0..n-1 with seed and splits it into k test folds whose
// sizes differ by at most one; the first n%k folds take the extra sample.
// k is capped at n.
func KFold(n, k int, seed uint64) []Fold {
	if n <= 0 {
		return nil
	}
	k = max(1, min(k, n))

	perm := rand.New(rand.NewPCG(seed, seed)).Perm(n)
	folds := make([]Fold, 0, k)
	start := 0
	for f := range k {
		size := n / k
		if f < n%k {
			size++
		}
		test := slices.Clone(perm[start : start+size])
		slices.Sort(test)
		start += size

		inTest := make([]bool, n)
		for _, i := range test {
			inTest[i] = true
		}
		train := make([]int, 0, n-size)
		for i := range n {
			if !inTest[i] {
				train = append(train, i)
			}
		}
		folds = append(folds, Fold{Train: train, Test: test})
	}
	return folds
}

func take(x []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for i, j := range idx {
		out[i] = x[j]
	}
	return out
}
