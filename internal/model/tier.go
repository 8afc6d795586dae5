package model

// Tier is an ordinal spending category derived from clustering.
type Tier string

const (
	TierLow    Tier = "Low"
	TierMedium Tier = "Medium"
	TierHigh   Tier = "High"
)

// Tiers lists every tier in ordinal order.
var Tiers = []Tier{TierLow, TierMedium, TierHigh}

// Valid reports whether t is one of the defined tiers.
func (t Tier) Valid() bool {
	switch t {
	case TierLow, TierMedium, TierHigh:
		return true
	}
	return false
}
