// Package tiers maps cluster labels onto spending tiers.
package tiers

import (
	"errors"
	"fmt"

	"github.com/cleared-dev/spendwise/internal/model"
)

// ErrModelOutput is returned when a clustering yields more groups than
// there are tiers.
var ErrModelOutput = errors.New("model output error")

// ForLabel returns the tier at position label: 0 is Low, 1 Medium, 2 High.
// The order is positional; it does not look at cluster magnitudes.
func ForLabel(label int) (model.Tier, error) {
	if label < 0 || label >= len(model.Tiers) {
		return "", fmt.Errorf("%w: cluster label %d has no tier (only %d tiers defined)", ErrModelOutput, label, len(model.Tiers))
	}
	return model.Tiers[label], nil
}

// Assign returns a copy of txns with Category set from labels, which must
// be parallel to txns.
func Assign(txns []model.Transaction, labels []int) ([]model.Transaction, error) {
	if len(txns) != len(labels) {
		return nil, fmt.Errorf("assigning tiers: %d transactions but %d labels", len(txns), len(labels))
	}
	out := make([]model.Transaction, len(txns))
	for i, t := range txns {
		tier, err := ForLabel(labels[i])
		if err != nil {
			return nil, err
		}
		t.Category = tier
		out[i] = t
	}
	return out, nil
}

// Counts returns how many transactions fall in each tier.
func Counts(txns []model.Transaction) map[model.Tier]int {
	counts := make(map[model.Tier]int, len(model.Tiers))
	for _, t := range txns {
		counts[t.Category]++
	}
	return counts
}
