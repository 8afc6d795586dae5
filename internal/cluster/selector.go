package cluster

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/cleared-dev/spendwise/internal/logger"
)

// Selector chooses a clustering family and hyperparameters by nested
// resampling. The inner loop grid-searches each family against a constant
// placeholder label (the share of held-out points falling in cluster 0);
// the outer loop scores the inner winner on held-out folds by silhouette.
type Selector struct {
	Candidates []Candidate
	OuterFolds int
	InnerFolds int
	Seed       uint64
	Workers    int // concurrent (family, outer fold) jobs; results do not depend on it
}

// FamilyScore is the outer-loop outcome for one family.
type FamilyScore struct {
	Family Family
	Params Params    // inner winner of the last outer fold
	Scores []float64 // one per outer fold that produced a silhouette
	Mean   float64
}

// Scored reports whether the family produced any held-out score.
func (f FamilyScore) Scored() bool { return len(f.Scores) > 0 }

// Selection is the chosen model.
type Selection struct {
	Family    Family
	Params    Params
	MeanScore float64
	Fallback  bool // no family produced a held-out score
	Families  []FamilyScore
}

type outerResult struct {
	params Params
	score  float64
	scored bool
}

// Select runs the nested search over x, which must hold at least two
// distinct values.
func (s *Selector) Select(ctx context.Context, x []float64) (Selection, error) {
	log := logger.For(ctx, logger.ComponentCluster)
	if Distinct(x) < 2 {
		return Selection{}, errors.New("model selection needs at least two distinct values")
	}
	if len(s.Candidates) == 0 {
		return Selection{}, errors.New("model selection needs at least one candidate")
	}

	folds := KFold(len(x), s.OuterFolds, s.Seed)
	results := make([][]outerResult, len(s.Candidates))
	for c := range results {
		results[c] = make([]outerResult, len(folds))
	}

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(max(s.Workers, 1))
	for c, cand := range s.Candidates {
		for f, fold := range folds {
			g.Go(func() error {
				res, err := s.evaluateFold(cand, take(x, fold.Train), take(x, fold.Test))
				if err != nil {
					return fmt.Errorf("%s fold %d: %w", cand.Family, f, err)
				}
				results[c][f] = res
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return Selection{}, err
	}

	sel := Selection{MeanScore: math.Inf(-1)}
	for c, cand := range s.Candidates {
		fs := FamilyScore{Family: cand.Family, Params: results[c][len(folds)-1].params}
		for _, r := range results[c] {
			if r.scored {
				fs.Scores = append(fs.Scores, r.score)
			}
		}
		if fs.Scored() {
			fs.Mean = mean(fs.Scores)
		}
		sel.Families = append(sel.Families, fs)

		log.Debug().
			Str("family", string(fs.Family)).
			Str("params", fs.Params.String()).
			Int("scored_folds", len(fs.Scores)).
			Float64("mean_silhouette", fs.Mean).
			Msg("family evaluated")

		if fs.Scored() && fs.Mean > sel.MeanScore {
			sel.Family = fs.Family
			sel.Params = fs.Params
			sel.MeanScore = fs.Mean
		}
	}

	if sel.Family == "" {
		params, err := s.fallback()
		if err != nil {
			return Selection{}, err
		}
		sel.Family = FamilyCentroid
		sel.Params = params
		sel.MeanScore = 0
		sel.Fallback = true
		log.Warn().Str("params", params.String()).Msg("no family produced a held-out score, using centroid fallback")
	}
	return sel, nil
}

// FitFinal refits the selected configuration on all of x.
func (s *Selector) FitFinal(x []float64, sel Selection) ([]int, error) {
	m, err := New(sel.Family, sel.Params, s.Seed)
	if err != nil {
		return nil, err
	}
	labels, err := m.Fit(x)
	if err != nil {
		return nil, fmt.Errorf("fitting %s (%s): %w", sel.Family, sel.Params, err)
	}
	return labels, nil
}

// evaluateFold picks the inner-best configuration on train, refits it on
// all of train and scores its labels for test.
func (s *Selector) evaluateFold(cand Candidate, train, test []float64) (outerResult, error) {
	params, err := s.innerSearch(cand, train)
	if err != nil {
		return outerResult{}, err
	}
	res := outerResult{params: params}

	m, err := New(cand.Family, params, s.Seed)
	if err != nil {
		return outerResult{}, err
	}
	if _, err := m.Fit(train); err != nil {
		if errors.Is(err, ErrUnfittable) {
			return res, nil
		}
		return outerResult{}, err
	}

	labels := m.Predict(test)
	if k := CountLabels(labels); k < 2 || k > len(test)-1 {
		return res, nil
	}
	score, err := Silhouette(test, labels)
	if err != nil {
		return outerResult{}, err
	}
	res.score = score
	res.scored = true
	return res, nil
}

// innerSearch returns the first grid point with the best placeholder score.
// Points that cannot be fitted on every inner fold are skipped; if none
// can, the first grid point is returned.
func (s *Selector) innerSearch(cand Candidate, train []float64) (Params, error) {
	points := cand.Points()
	if len(points) == 0 {
		return nil, fmt.Errorf("%s has an empty grid", cand.Family)
	}
	if len(train) < 2 {
		return points[0], nil
	}

	folds := KFold(len(train), s.InnerFolds, s.Seed)
	best := points[0]
	bestScore := math.Inf(-1)
	for _, p := range points {
		score, ok, err := placeholderScore(cand.Family, p, train, folds, s.Seed)
		if err != nil {
			return nil, err
		}
		if ok && score > bestScore {
			best = p
			bestScore = score
		}
	}
	return best, nil
}

// placeholderScore is the mean share of held-out inner points assigned
// cluster 0, i.e. accuracy against an all-zero label.
func placeholderScore(family Family, p Params, x []float64, folds []Fold, seed uint64) (float64, bool, error) {
	scores := make([]float64, 0, len(folds))
	for _, fold := range folds {
		m, err := New(family, p, seed)
		if err != nil {
			return 0, false, err
		}
		if _, err := m.Fit(take(x, fold.Train)); err != nil {
			if errors.Is(err, ErrUnfittable) {
				return 0, false, nil
			}
			return 0, false, err
		}
		labels := m.Predict(take(x, fold.Test))
		hits := 0
		for _, l := range labels {
			if l == 0 {
				hits++
			}
		}
		scores = append(scores, float64(hits)/float64(len(labels)))
	}
	return mean(scores), true, nil
}

// fallback returns the centroid configuration with the fewest clusters.
func (s *Selector) fallback() (Params, error) {
	for _, cand := range s.Candidates {
		if cand.Family != FamilyCentroid {
			continue
		}
		if ks := cand.Grid[ParamNClusters]; len(ks) > 0 {
			return Params{ParamNClusters: slices.Min(ks)}, nil
		}
	}
	return Params{ParamNClusters: 2}, nil
}

func mean(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	total := 0.0
	for _, x := range v {
		total += x
	}
	return total / float64(len(v))
}
