package forecast

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/spendwise/internal/model"
)

func txn(tier model.Tier, date string, amount string) model.Transaction {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return model.Transaction{Date: d, Category: tier, DebitedAmount: decimal.RequireFromString(amount)}
}

func TestMonthly(t *testing.T) {
	got := Monthly([]model.Transaction{
		txn(model.TierLow, "2025-03-31", "5"),
		txn(model.TierLow, "2025-01-01", "10"),
		txn(model.TierLow, "2025-01-31", "2.50"),
		txn(model.TierLow, "2025-03-01", "1"),
		{DebitedAmount: decimal.NewFromInt(99), Category: model.TierLow}, // no date
	})
	require.Len(t, got, 2, "February has no observations and is absent")
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), got[0].Month)
	assert.Equal(t, "12.5", got[0].Total.String())
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), got[1].Month)
	assert.Equal(t, "6", got[1].Total.String())
}

func TestMonthLabel(t *testing.T) {
	assert.Equal(t, "February 2026", MonthLabel(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)))
}

func TestFitHolt_LinearTrend(t *testing.T) {
	y := []float64{100, 110, 120, 130, 140, 150, 160, 170}
	h, err := FitHolt(y)
	require.NoError(t, err)

	assert.Greater(t, h.Alpha, 0.0)
	assert.Less(t, h.Alpha, 1.0)
	assert.GreaterOrEqual(t, h.Beta, 0.0)
	assert.LessOrEqual(t, h.Beta, h.Alpha)
	assert.GreaterOrEqual(t, h.Phi, minPhi)
	assert.LessOrEqual(t, h.Phi, maxPhi)

	f := h.Forecast(3)
	require.Len(t, f, 3)
	// Damped: still rising, but by less than the undamped slope.
	assert.Greater(t, f[0], 165.0)
	assert.Greater(t, f[1], f[0])
	assert.Greater(t, f[2], f[1])
	assert.Less(t, f[2], 200.0)
	assert.Less(t, f[2]-f[1], 10.0+1e-6)
}

func TestFitHolt_Constant(t *testing.T) {
	h, err := FitHolt([]float64{50, 50, 50, 50})
	require.NoError(t, err)
	for _, v := range h.Forecast(3) {
		assert.InDelta(t, 50, v, 0.5)
	}
}

func TestFitHolt_Zeros(t *testing.T) {
	h, err := FitHolt([]float64{0, 0, 0})
	require.NoError(t, err)
	for _, v := range h.Forecast(2) {
		assert.InDelta(t, 0, v, 1e-9)
	}
}

func TestFitHolt_TooShort(t *testing.T) {
	_, err := FitHolt([]float64{1})
	assert.Error(t, err)
}

func TestHoltForecast_Damping(t *testing.T) {
	h := Holt{Phi: 0.9, Level: 100, Trend: 10}
	f := h.Forecast(3)
	assert.InDelta(t, 109, f[0], 1e-9)
	assert.InDelta(t, 100+10*(0.9+0.81), f[1], 1e-9)
	assert.InDelta(t, 100+10*(0.9+0.81+0.729), f[2], 1e-9)
}

func TestForecaster_SkipsShortHistory(t *testing.T) {
	txns := []model.Transaction{
		// High: only two months.
		txn(model.TierHigh, "2025-01-10", "1000"),
		txn(model.TierHigh, "2025-02-10", "1000"),
		// Low: four months.
		txn(model.TierLow, "2025-01-05", "10"),
		txn(model.TierLow, "2025-02-05", "12"),
		txn(model.TierLow, "2025-03-05", "11"),
		txn(model.TierLow, "2025-04-05", "13"),
	}
	fc := Forecaster{Horizon: 3, MinHistory: 3}
	points, err := fc.Forecast(context.Background(), txns)
	require.NoError(t, err)
	require.Len(t, points, 3)

	want := []string{"May 2025", "June 2025", "July 2025"}
	for i, p := range points {
		assert.Equal(t, model.TierLow, p.Category)
		assert.Equal(t, want[i], p.Month)
		assert.True(t, p.PredictedExpense.Equal(p.PredictedExpense.Round(2)), "rounded to 2 places: %s", p.PredictedExpense)
		v := p.PredictedExpense.InexactFloat64()
		assert.False(t, math.IsNaN(v))
		assert.InDelta(t, 12, v, 6)
	}
}

func TestForecaster_OrderOfFirstAppearance(t *testing.T) {
	var txns []model.Transaction
	for _, d := range []string{"2025-01-15", "2025-02-15", "2025-03-15"} {
		txns = append(txns, txn(model.TierMedium, d, "300"))
	}
	for _, d := range []string{"2024-11-15", "2024-12-15", "2025-01-15"} {
		txns = append(txns, txn(model.TierLow, d, "20"))
	}

	points, err := Forecaster{Horizon: 3, MinHistory: 3}.Forecast(context.Background(), txns)
	require.NoError(t, err)
	require.Len(t, points, 6)
	assert.Equal(t, model.TierMedium, points[0].Category)
	assert.Equal(t, "April 2025", points[0].Month)
	assert.Equal(t, model.TierLow, points[3].Category)
	assert.Equal(t, "February 2025", points[3].Month)
	assert.Equal(t, "April 2025", points[5].Month)
	assert.InDelta(t, 300, points[0].PredictedExpense.InexactFloat64(), 1)
}

func TestForecaster_YearRollover(t *testing.T) {
	txns := []model.Transaction{
		txn(model.TierLow, "2025-09-30", "5"),
		txn(model.TierLow, "2025-10-31", "5"),
		txn(model.TierLow, "2025-11-30", "5"),
	}
	points, err := Forecaster{Horizon: 3, MinHistory: 3}.Forecast(context.Background(), txns)
	require.NoError(t, err)
	require.Len(t, points, 3)
	assert.Equal(t, "December 2025", points[0].Month)
	assert.Equal(t, "January 2026", points[1].Month)
	assert.Equal(t, "February 2026", points[2].Month)
}

func TestForecaster_RequiresTier(t *testing.T) {
	txns := []model.Transaction{
		txn(model.TierLow, "2025-01-05", "10"),
		txn("", "2025-02-05", "10"),
	}
	_, err := Forecaster{Horizon: 3, MinHistory: 3}.Forecast(context.Background(), txns)
	assert.ErrorContains(t, err, "has no tier")
}

func TestForecaster_Empty(t *testing.T) {
	points, err := Forecaster{Horizon: 3, MinHistory: 3}.Forecast(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, points)
}
