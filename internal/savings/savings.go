// Package savings spreads a savings target across low-tier spending.
package savings

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/spendwise/internal/model"
)

// ErrDivision is returned when the Low tier has no spend to scale.
var ErrDivision = errors.New("division error")

// Recommend allocates target across low in proportion to each debit. The
// records follow the order of low. Transactions outside the Low tier are
// ignored.
func Recommend(low []model.Transaction, target decimal.Decimal) ([]model.SavingsRecord, error) {
	var sel []model.Transaction
	total := decimal.Zero
	for _, t := range low {
		if t.Category != model.TierLow {
			continue
		}
		sel = append(sel, t)
		total = total.Add(t.DebitedAmount)
	}
	if total.IsZero() {
		return nil, fmt.Errorf("%w: total %s spend is zero, cannot apportion a target of %s",
			ErrDivision, model.TierLow, target)
	}

	ratio := target.Div(total)
	records := make([]model.SavingsRecord, 0, len(sel))
	for _, t := range sel {
		records = append(records, model.SavingsRecord{
			TransactionName:    t.TransactionName,
			Category:           t.Category,
			DebitedAmount:      t.DebitedAmount,
			RecommendedSavings: t.DebitedAmount.Mul(ratio),
		})
	}
	return records, nil
}

// Total sums the recommended savings.
func Total(records []model.SavingsRecord) decimal.Decimal {
	sum := decimal.Zero
	for _, r := range records {
		sum = sum.Add(r.RecommendedSavings)
	}
	return sum
}
