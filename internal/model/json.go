package model

import "encoding/json"

type savingsJSON struct {
	TransactionName    string  `json:"TransactionName"`
	Category           Tier    `json:"Category"`
	DebitedAmount      float64 `json:"DebitedAmount"`
	RecommendedSavings float64 `json:"RecommendedSavings"`
}

type forecastJSON struct {
	Category         Tier    `json:"Category"`
	Month            string  `json:"Month"`
	PredictedExpense float64 `json:"PredictedExpense"`
}

type resultJSON struct {
	PieChart               string         `json:"pieChart"`
	ScatterPlot            string         `json:"scatterPlot"`
	SavingsRecommendations []savingsJSON  `json:"savingsRecommendations"`
	ExpenseForecast        []forecastJSON `json:"expenseForecast"`
}

// MarshalJSON encodes the result with the four public keys. Amounts are
// written as JSON numbers and empty sequences as [].
func (r Result) MarshalJSON() ([]byte, error) {
	out := resultJSON{
		PieChart:               r.PieChart,
		ScatterPlot:            r.ScatterPlot,
		SavingsRecommendations: make([]savingsJSON, 0, len(r.SavingsRecommendations)),
		ExpenseForecast:        make([]forecastJSON, 0, len(r.ExpenseForecast)),
	}
	for _, s := range r.SavingsRecommendations {
		out.SavingsRecommendations = append(out.SavingsRecommendations, savingsJSON{
			TransactionName:    s.TransactionName,
			Category:           s.Category,
			DebitedAmount:      s.DebitedAmount.InexactFloat64(),
			RecommendedSavings: s.RecommendedSavings.InexactFloat64(),
		})
	}
	for _, f := range r.ExpenseForecast {
		out.ExpenseForecast = append(out.ExpenseForecast, forecastJSON{
			Category:         f.Category,
			Month:            f.Month,
			PredictedExpense: f.PredictedExpense.InexactFloat64(),
		})
	}
	return json.Marshal(out)
}
