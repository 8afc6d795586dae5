package model

import "github.com/shopspring/decimal"

// ForecastPoint is one predicted monthly total for a tier.
type ForecastPoint struct {
	Category         Tier
	Month            string // "January 2026"
	PredictedExpense decimal.Decimal
}

// SavingsRecord is the recommended reduction for one Low-tier transaction.
type SavingsRecord struct {
	TransactionName    string
	Category           Tier
	DebitedAmount      decimal.Decimal
	RecommendedSavings decimal.Decimal
}

// Result is the terminal artifact of a run.
type Result struct {
	PieChart               string
	ScatterPlot            string
	SavingsRecommendations []SavingsRecord
	ExpenseForecast        []ForecastPoint
}
