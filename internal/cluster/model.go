// Package cluster implements the one-dimensional clustering families used to
// tier transactions, and the nested-resampling search that picks among them.
package cluster

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Family identifies a clustering algorithm family.
type Family string

const (
	FamilyCentroid     Family = "centroid"     // k-means
	FamilyDensity      Family = "density"      // DBSCAN
	FamilyHierarchical Family = "hierarchical" // agglomerative, Ward linkage
)

// Families lists the families in tie-break order.
var Families = []Family{FamilyCentroid, FamilyDensity, FamilyHierarchical}

// Hyperparameter names.
const (
	ParamNClusters  = "n_clusters"
	ParamEps        = "eps"
	ParamMinSamples = "min_samples"
)

// ErrUnfittable is returned when a configuration cannot be fitted to the
// given data, e.g. more clusters than points.
var ErrUnfittable = errors.New("configuration cannot be fitted")

// Params is one point of a hyperparameter grid.
type Params map[string]float64

// String renders params sorted by name: "eps=0.5 min_samples=3".
func (p Params) String() string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + strconv.FormatFloat(p[k], 'g', -1, 64)
	}
	return strings.Join(parts, " ")
}

// Candidate is a clustering family with its hyperparameter grid.
type Candidate struct {
	Family Family
	Grid   map[string][]float64
}

// Points enumerates the grid. Parameter names are visited in sorted order
// and the last name varies fastest.
func (c Candidate) Points() []Params {
	keys := make([]string, 0, len(c.Grid))
	for k := range c.Grid {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	points := []Params{{}}
	for _, k := range keys {
		var next []Params
		for _, base := range points {
			for _, v := range c.Grid[k] {
				p := make(Params, len(base)+1)
				for bk, bv := range base {
					p[bk] = bv
				}
				p[k] = v
				next = append(next, p)
			}
		}
		points = next
	}
	return points
}

// Clusterer fits labels to a one-dimensional sample and assigns labels to
// unseen points. Labels are canonical: groups are numbered by first
// appearance in the fitted sample, so sample 0 always carries label 0.
type Clusterer interface {
	Fit(x []float64) ([]int, error)
	Predict(x []float64) []int
}

// New builds the clusterer for family with params. seed drives any
// randomized initialization.
func New(family Family, params Params, seed uint64) (Clusterer, error) {
	switch family {
	case FamilyCentroid:
		k, err := intParam(params, ParamNClusters)
		if err != nil {
			return nil, err
		}
		return NewKMeans(k, seed), nil
	case FamilyDensity:
		eps, ok := params[ParamEps]
		if !ok {
			return nil, fmt.Errorf("missing parameter %q", ParamEps)
		}
		minSamples, err := intParam(params, ParamMinSamples)
		if err != nil {
			return nil, err
		}
		return &DBSCAN{Eps: eps, MinSamples: minSamples}, nil
	case FamilyHierarchical:
		k, err := intParam(params, ParamNClusters)
		if err != nil {
			return nil, err
		}
		return &Agglomerative{K: k}, nil
	}
	return nil, fmt.Errorf("unknown clustering family %q", family)
}

func intParam(params Params, name string) (int, error) {
	v, ok := params[name]
	if !ok {
		return 0, fmt.Errorf("missing parameter %q", name)
	}
	if v < 1 || v != float64(int(v)) {
		return 0, fmt.Errorf("parameter %q must be a positive integer, got %v", name, v)
	}
	return int(v), nil
}

// relabel numbers raw group ids by first appearance. It returns the
// canonical labels and the raw->canonical mapping.
func relabel(raw []int) ([]int, map[int]int) {
	mapping := make(map[int]int)
	out := make([]int, len(raw))
	for i, r := range raw {
		c, ok := mapping[r]
		if !ok {
			c = len(mapping)
			mapping[r] = c
		}
		out[i] = c
	}
	return out, mapping
}

// CountLabels returns the number of distinct labels.
func CountLabels(labels []int) int {
	seen := make(map[int]struct{}, 4)
	for _, l := range labels {
		seen[l] = struct{}{}
	}
	return len(seen)
}
