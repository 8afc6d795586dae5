package tiers

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/spendwise/internal/model"
)

func txns(amounts ...int64) []model.Transaction {
	out := make([]model.Transaction, len(amounts))
	for i, a := range amounts {
		out[i] = model.Transaction{DebitedAmount: decimal.NewFromInt(a)}
	}
	return out
}

func TestForLabel(t *testing.T) {
	tests := []struct {
		label int
		want  model.Tier
	}{
		{0, model.TierLow},
		{1, model.TierMedium},
		{2, model.TierHigh},
	}
	for _, tt := range tests {
		got, err := ForLabel(tt.label)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestForLabel_OutOfRange(t *testing.T) {
	for _, label := range []int{3, 9, -1} {
		_, err := ForLabel(label)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrModelOutput)
	}
}

func TestAssign(t *testing.T) {
	in := txns(10, 1000, 10, 5000)
	out, err := Assign(in, []int{0, 1, 0, 2})
	require.NoError(t, err)

	assert.Equal(t, model.TierLow, out[0].Category)
	assert.Equal(t, model.TierMedium, out[1].Category)
	assert.Equal(t, model.TierLow, out[2].Category)
	assert.Equal(t, model.TierHigh, out[3].Category)
	assert.Empty(t, in[0].Category, "input is not mutated")
}

func TestAssign_PositionalNotMagnitude(t *testing.T) {
	// The large amount is seen first, so it takes label 0 and becomes Low.
	out, err := Assign(txns(5000, 10), []int{0, 1})
	require.NoError(t, err)
	assert.Equal(t, model.TierLow, out[0].Category)
	assert.Equal(t, model.TierMedium, out[1].Category)
}

func TestAssign_FourthLabel(t *testing.T) {
	_, err := Assign(txns(1, 2, 3, 4), []int{0, 1, 2, 3})
	assert.ErrorIs(t, err, ErrModelOutput)
}

func TestAssign_LengthMismatch(t *testing.T) {
	_, err := Assign(txns(1, 2), []int{0})
	assert.Error(t, err)
}

func TestCounts(t *testing.T) {
	out, err := Assign(txns(1, 2, 3), []int{0, 0, 1})
	require.NoError(t, err)
	counts := Counts(out)
	assert.Equal(t, 2, counts[model.TierLow])
	assert.Equal(t, 1, counts[model.TierMedium])
	assert.Equal(t, 0, counts[model.TierHigh])
}
