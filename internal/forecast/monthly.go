package forecast

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/spendwise/internal/model"
)

// MonthlyTotal is the sum of debits in one calendar month.
type MonthlyTotal struct {
	Month time.Time // first day of the month, UTC
	Total decimal.Decimal
}

// Monthly sums debits by calendar month in chronological order. Months
// without transactions are absent rather than zero.
func Monthly(txns []model.Transaction) []MonthlyTotal {
	byMonth := make(map[time.Time]decimal.Decimal)
	for _, t := range txns {
		if t.Date.IsZero() {
			continue
		}
		m := monthStart(t.Date)
		byMonth[m] = byMonth[m].Add(t.DebitedAmount)
	}

	out := make([]MonthlyTotal, 0, len(byMonth))
	for m, total := range byMonth {
		out = append(out, MonthlyTotal{Month: m, Total: total})
	}
	slices.SortFunc(out, func(a, b MonthlyTotal) int { return a.Month.Compare(b.Month) })
	return out
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// MonthLabel formats a month as "January 2026".
func MonthLabel(t time.Time) string {
	return t.Format("January 2006")
}
