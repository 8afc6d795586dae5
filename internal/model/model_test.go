package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNameFromDescription(t *testing.T) {
	tests := []struct {
		desc string
		want string
	}{
		{"UPI/DR/412/SWIGGY/YESB", "SWIGGY"},
		{"POS/AMAZON", "POS"},
		{"ATM WITHDRAWAL", ""},
		{"", ""},
		{"A/B/", "B"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NameFromDescription(tt.desc), "NameFromDescription(%q)", tt.desc)
	}
}

func TestTierValid(t *testing.T) {
	for _, tier := range Tiers {
		assert.True(t, tier.Valid())
	}
	assert.False(t, Tier("").Valid())
	assert.False(t, Tier("Extreme").Valid())
}

func TestByTier(t *testing.T) {
	txns := []Transaction{
		{TransactionName: "a", Category: TierLow},
		{TransactionName: "b", Category: TierHigh},
		{TransactionName: "c", Category: TierLow},
	}
	low := ByTier(txns, TierLow)
	require.Len(t, low, 2)
	assert.Equal(t, "a", low[0].TransactionName)
	assert.Equal(t, "c", low[1].TransactionName)
	assert.Empty(t, ByTier(txns, TierMedium))
}

func TestAmounts(t *testing.T) {
	txns := []Transaction{
		{DebitedAmount: decimal.RequireFromString("10.50"), Date: time.Now()},
		{DebitedAmount: decimal.RequireFromString("0")},
	}
	assert.Equal(t, []float64{10.5, 0}, Amounts(txns))
}

func TestResultJSON_KeysOnly(t *testing.T) {
	data, err := json.Marshal(Result{PieChart: "/static/p.png", ScatterPlot: "/static/s.png"})
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Len(t, raw, 4)
	assert.JSONEq(t, `[]`, string(raw["savingsRecommendations"]))
	assert.JSONEq(t, `[]`, string(raw["expenseForecast"]))
	assert.JSONEq(t, `"/static/p.png"`, string(raw["pieChart"]))
	assert.JSONEq(t, `"/static/s.png"`, string(raw["scatterPlot"]))
}

func TestResultJSON_Numbers(t *testing.T) {
	r := Result{
		SavingsRecommendations: []SavingsRecord{{
			TransactionName:    "SWIGGY",
			Category:           TierLow,
			DebitedAmount:      decimal.RequireFromString("10"),
			RecommendedSavings: decimal.RequireFromString("16.5"),
		}},
		ExpenseForecast: []ForecastPoint{{
			Category:         TierHigh,
			Month:            "May 2025",
			PredictedExpense: decimal.RequireFromString("1234.56"),
		}},
	}
	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(data), `{"TransactionName":"SWIGGY","Category":"Low","DebitedAmount":10,"RecommendedSavings":16.5}`)
	assert.Contains(t, string(data), `{"Category":"High","Month":"May 2025","PredictedExpense":1234.56}`)
}
