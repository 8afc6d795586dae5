// Package forecast predicts per-tier monthly spend with damped-trend
// exponential smoothing.
package forecast

import (
	"context"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/spendwise/internal/logger"
	"github.com/cleared-dev/spendwise/internal/model"
)

// Forecaster predicts the months following each tier's history.
type Forecaster struct {
	Horizon    int // months to predict
	MinHistory int // months of history required; tiers with less are skipped
}

// Forecast returns Horizon points for every tier with at least MinHistory
// months of transactions. Tiers keep their order of first appearance in
// txns; points within a tier are chronological.
func (f Forecaster) Forecast(ctx context.Context, txns []model.Transaction) ([]model.ForecastPoint, error) {
	log := logger.For(ctx, logger.ComponentForecast)

	var order []model.Tier
	byTier := make(map[model.Tier][]model.Transaction)
	for _, t := range txns {
		if !t.Category.Valid() {
			return nil, fmt.Errorf("forecasting: transaction %q has no tier (category %q)", t.RawDescription, t.Category)
		}
		if _, ok := byTier[t.Category]; !ok {
			order = append(order, t.Category)
		}
		byTier[t.Category] = append(byTier[t.Category], t)
	}

	var points []model.ForecastPoint
	for _, tier := range order {
		months := Monthly(byTier[tier])
		if len(months) < f.MinHistory {
			log.Debug().
				Str("tier", string(tier)).
				Int("months", len(months)).
				Int("required", f.MinHistory).
				Msg("not enough history, skipping forecast")
			continue
		}

		series := make([]float64, len(months))
		for i, m := range months {
			series[i] = m.Total.InexactFloat64()
		}
		h, err := FitHolt(series)
		if err != nil {
			return nil, fmt.Errorf("forecasting %s: %w", tier, err)
		}
		log.Debug().
			Str("tier", string(tier)).
			Float64("alpha", h.Alpha).
			Float64("beta", h.Beta).
			Float64("phi", h.Phi).
			Float64("sse", h.SSE).
			Msg("fitted damped trend")

		last := months[len(months)-1].Month
		for i, v := range h.Forecast(f.Horizon) {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("forecasting %s: non-finite prediction", tier)
			}
			points = append(points, model.ForecastPoint{
				Category:         tier,
				Month:            MonthLabel(last.AddDate(0, i+1, 0)),
				PredictedExpense: decimal.NewFromFloat(v).Round(2),
			})
		}
	}
	return points, nil
}
