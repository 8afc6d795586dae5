package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents one row of a transaction export.
type Transaction struct {
	Date            time.Time
	RawDescription  string
	DebitedAmount   decimal.Decimal // always >= 0 once imported
	TransactionName string
	Category        Tier // empty until tiers are assigned
}

// NameFromDescription returns the second-to-last "/"-delimited segment of
// a bank description, or "" when the description has no "/".
// "UPI/DR/412/SWIGGY/YESB" -> "SWIGGY"
func NameFromDescription(desc string) string {
	parts := strings.Split(desc, "/")
	if len(parts) < 2 {
		return ""
	}
	return parts[len(parts)-2]
}

// Amounts returns the debited amounts as float64 in input order.
func Amounts(txns []Transaction) []float64 {
	out := make([]float64, len(txns))
	for i, t := range txns {
		out[i] = t.DebitedAmount.InexactFloat64()
	}
	return out
}

// ByTier returns the transactions labeled with tier, preserving order.
func ByTier(txns []Transaction, tier Tier) []Transaction {
	var out []Transaction
	for _, t := range txns {
		if t.Category == tier {
			out = append(out, t)
		}
	}
	return out
}
