package domain

import "time"

// FeatureUsage is an account's usage ledger: one counter per feature,
// backed by a single user_usage row.
type FeatureUsage struct {
	UserID    string             `json:"user_id"`
	Counters  map[FeatureKey]int `json:"counters"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// NewFeatureUsage returns a zeroed ledger for an account.
func NewFeatureUsage(userID string) *FeatureUsage {
	counters := make(map[FeatureKey]int, len(AllFeatures))
	for _, feature := range AllFeatures {
		counters[feature] = 0
	}
	return &FeatureUsage{
		UserID:   userID,
		Counters: counters,
	}
}

// Count returns the current counter for a feature.
func (u *FeatureUsage) Count(feature FeatureKey) int {
	return u.Counters[feature]
}

// FeatureQuota is one dashboard line: usage against the plan's ceiling.
type FeatureQuota struct {
	Feature   FeatureKey `json:"feature"`
	Used      int        `json:"used"`
	Limit     int        `json:"limit"`
	Remaining int        `json:"remaining"`
	Unlimited bool       `json:"unlimited"`
}

// UsageSummary is the dashboard view of an account's quota state.
type UsageSummary struct {
	UserID   string         `json:"user_id"`
	Plan     PlanID         `json:"plan"`
	Features []FeatureQuota `json:"features"`
}
