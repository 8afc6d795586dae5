package pipeline

import (
	"context"
	"fmt"

	"github.com/cleared-dev/spendwise/internal/charts"
	"github.com/cleared-dev/spendwise/internal/cluster"
	"github.com/cleared-dev/spendwise/internal/forecast"
	"github.com/cleared-dev/spendwise/internal/id"
	"github.com/cleared-dev/spendwise/internal/importer"
	"github.com/cleared-dev/spendwise/internal/logger"
	"github.com/cleared-dev/spendwise/internal/model"
	"github.com/cleared-dev/spendwise/internal/savings"
	"github.com/cleared-dev/spendwise/internal/tiers"
)

// ResetStep clears the artifact directory before anything else runs, so a
// failed run never leaves the previous run's charts behind.
type ResetStep struct {
	Store charts.Store
}

func (s *ResetStep) Name() string { return "reset" }

func (s *ResetStep) Execute(ctx context.Context, state *State) error {
	return s.Store.Reset()
}

// ImportStep reads and filters the export.
type ImportStep struct {
	Registry *importer.Registry
}

func (s *ImportStep) Name() string { return "import" }

func (s *ImportStep) Execute(ctx context.Context, state *State) error {
	log := logger.For(ctx, logger.ComponentImporter)
	txns, stats, err := s.Registry.Load(state.Path)
	if err != nil {
		return err
	}
	log.Info().
		Int("rows", stats.Rows).
		Int("imported", stats.Imported).
		Int("bad_date", stats.BadDate).
		Int("bad_amount", stats.BadAmount).
		Int("short_rows", stats.ShortRows).
		Msg("transactions loaded")
	state.Transactions = txns
	state.Stats = stats
	return nil
}

// NormalizeStep standardizes the debit amounts.
type NormalizeStep struct{}

func (s *NormalizeStep) Name() string { return "normalize" }

func (s *NormalizeStep) Execute(ctx context.Context, state *State) error {
	state.Features, state.Scaler = cluster.Normalize(model.Amounts(state.Transactions))
	state.Degenerate = cluster.Distinct(state.Features) < 2
	return nil
}

// ClusterStep selects a clustering and labels every transaction. Input
// with no spread in amounts puts everything in cluster 0.
type ClusterStep struct {
	Selector *cluster.Selector
}

func (s *ClusterStep) Name() string { return "cluster" }

func (s *ClusterStep) Execute(ctx context.Context, state *State) error {
	log := logger.For(ctx, logger.ComponentCluster)
	if state.Degenerate {
		log.Warn().Int("transactions", len(state.Features)).
			Msg("amounts have no spread, assigning a single cluster")
		state.Labels = make([]int, len(state.Features))
		return nil
	}

	sel, err := s.Selector.Select(ctx, state.Features)
	if err != nil {
		return stepError("selecting clustering", err)
	}
	labels, err := s.Selector.FitFinal(state.Features, sel)
	if err != nil {
		return stepError("clustering", err)
	}
	log.Info().
		Str("family", string(sel.Family)).
		Str("params", sel.Params.String()).
		Float64("score", sel.MeanScore).
		Bool("fallback", sel.Fallback).
		Int("clusters", cluster.CountLabels(labels)).
		Msg("clustering selected")
	state.Selection = sel
	state.Labels = labels
	return nil
}

// AssignStep maps cluster labels onto tiers.
type AssignStep struct{}

func (s *AssignStep) Name() string { return "assign" }

func (s *AssignStep) Execute(ctx context.Context, state *State) error {
	txns, err := tiers.Assign(state.Transactions, state.Labels)
	if err != nil {
		return err
	}
	state.Transactions = txns
	return nil
}

// RenderStep draws the charts into the already cleared artifact directory.
type RenderStep struct {
	Store charts.Store
}

func (s *RenderStep) Name() string { return "render" }

func (s *RenderStep) Execute(ctx context.Context, state *State) error {
	log := logger.For(ctx, logger.ComponentCharts)
	refs, err := charts.Render(ctx, s.Store, state.Transactions)
	if err != nil {
		return err
	}
	arts, err := s.Store.Artifacts()
	if err != nil {
		return err
	}
	if n := len(arts[id.KindPieChart]); n > 1 {
		log.Warn().Int("pie_charts", n).Str("dir", s.Store.Dir).
			Msg("artifact directory shared with another run")
	}
	state.Charts = refs
	return nil
}

// SavingsStep spreads the target across the Low tier.
type SavingsStep struct{}

func (s *SavingsStep) Name() string { return "savings" }

func (s *SavingsStep) Execute(ctx context.Context, state *State) error {
	log := logger.For(ctx, logger.ComponentSavings)
	low := model.ByTier(state.Transactions, model.TierLow)
	recs, err := savings.Recommend(low, state.Target)
	if err != nil {
		return err
	}
	log.Debug().
		Int("transactions", len(recs)).
		Str("target", state.Target.String()).
		Str("allocated", savings.Total(recs).StringFixed(2)).
		Msg("savings allocated")
	state.Savings = recs
	return nil
}

// ForecastStep predicts the coming months per tier.
type ForecastStep struct {
	Forecaster forecast.Forecaster
}

func (s *ForecastStep) Name() string { return "forecast" }

func (s *ForecastStep) Execute(ctx context.Context, state *State) error {
	points, err := s.Forecaster.Forecast(ctx, state.Transactions)
	if err != nil {
		return err
	}
	state.Forecast = points
	return nil
}

// AssembleStep builds the final result.
type AssembleStep struct{}

func (s *AssembleStep) Name() string { return "assemble" }

func (s *AssembleStep) Execute(ctx context.Context, state *State) error {
	if state.Charts.PieChart == "" || state.Charts.ScatterPlot == "" {
		return fmt.Errorf("assembling result: charts were not rendered")
	}
	state.Result = Assemble(state.Charts, state.Savings, state.Forecast)
	return nil
}
