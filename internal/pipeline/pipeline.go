// Package pipeline runs the analysis end to end: import, clustering, tier
// assignment, charts, savings and forecast.
package pipeline

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/spendwise/internal/charts"
	"github.com/cleared-dev/spendwise/internal/cluster"
	"github.com/cleared-dev/spendwise/internal/config"
	"github.com/cleared-dev/spendwise/internal/forecast"
	"github.com/cleared-dev/spendwise/internal/importer"
	"github.com/cleared-dev/spendwise/internal/logger"
	"github.com/cleared-dev/spendwise/internal/model"
)

// Step is a single stage of a run.
type Step interface {
	Name() string
	Execute(ctx context.Context, state *State) error
}

// State is shared by the steps of one run.
type State struct {
	Path   string
	Target decimal.Decimal

	Transactions []model.Transaction // tiered once AssignStep has run
	Stats        importer.Stats
	Features     []float64
	Scaler       cluster.Scaler
	Degenerate   bool // fewer than two distinct amounts; selection skipped
	Selection    cluster.Selection
	Labels       []int
	Charts       charts.Refs
	Savings      []model.SavingsRecord
	Forecast     []model.ForecastPoint
	Result       model.Result
}

// Pipeline is an ordered list of steps.
type Pipeline struct {
	Steps []Step
}

// New builds the standard pipeline from cfg.
func New(cfg *config.Config) *Pipeline {
	store := charts.Store{Dir: cfg.Artifacts.Dir, URLPrefix: cfg.Artifacts.URLPrefix}
	return &Pipeline{Steps: []Step{
		&ResetStep{Store: store},
		&ImportStep{Registry: importer.DefaultRegistry()},
		&NormalizeStep{},
		&ClusterStep{Selector: NewSelector(cfg)},
		&AssignStep{},
		&RenderStep{Store: store},
		&SavingsStep{},
		&ForecastStep{Forecaster: forecast.Forecaster{
			Horizon:    cfg.Forecast.Horizon,
			MinHistory: cfg.Forecast.MinHistory,
		}},
		&AssembleStep{},
	}}
}

// Run executes every step against the export at path. Any step failure
// aborts the run; there is no partial result.
func (p *Pipeline) Run(ctx context.Context, path string, target decimal.Decimal) (*State, error) {
	log := logger.For(ctx, logger.ComponentPipeline)
	state := &State{Path: path, Target: target}
	for _, step := range p.Steps {
		log.Debug().Str("step", step.Name()).Msg("running")
		if err := step.Execute(ctx, state); err != nil {
			return nil, err
		}
	}
	return state, nil
}

// NewSelector builds the model selector from the configured grids.
func NewSelector(cfg *config.Config) *cluster.Selector {
	return &cluster.Selector{
		Candidates: Candidates(cfg.Selection.Grids),
		OuterFolds: cfg.Selection.OuterFolds,
		InnerFolds: cfg.Selection.InnerFolds,
		Seed:       cfg.Selection.Seed,
		Workers:    cfg.Selection.Workers,
	}
}

// Candidates lists the clustering families in enumeration order. Families
// with an empty grid are left out.
func Candidates(g config.GridConfig) []cluster.Candidate {
	grids := map[cluster.Family]map[string][]float64{
		cluster.FamilyCentroid:     g.Centroid,
		cluster.FamilyDensity:      g.Density,
		cluster.FamilyHierarchical: g.Hierarchical,
	}
	var out []cluster.Candidate
	for _, f := range cluster.Families {
		if len(grids[f]) == 0 {
			continue
		}
		out = append(out, cluster.Candidate{Family: f, Grid: grids[f]})
	}
	return out
}

// Assemble packages the run's outputs. It computes nothing.
func Assemble(refs charts.Refs, savings []model.SavingsRecord, points []model.ForecastPoint) model.Result {
	return model.Result{
		PieChart:               refs.PieChart,
		ScatterPlot:            refs.ScatterPlot,
		SavingsRecommendations: savings,
		ExpenseForecast:        points,
	}
}

func stepError(name string, err error) error {
	return fmt.Errorf("%s: %w", name, err)
}
