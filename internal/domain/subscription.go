package domain

import (
	"time"
)

// SubscriptionStatus is the lifecycle state of a paid subscription.
// The only automatic transition is active -> expired, detected lazily on
// read once expires_on has passed. Going back to active is always an
// explicit payment or admin action.
type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionInactive SubscriptionStatus = "inactive"
	SubscriptionExpired  SubscriptionStatus = "expired"
)

// Subscription is one row per account. Absence of a row means the account
// is on the free plan.
type Subscription struct {
	UserID    string             `json:"user_id"`
	PlanID    PlanID             `json:"plan_id"`
	Status    SubscriptionStatus `json:"status"`
	ExpiresOn time.Time          `json:"expires_on"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// IsCurrent reports whether the subscription grants its plan right now.
// An active status is only meaningful while expires_on >= today.
func (s *Subscription) IsCurrent(now time.Time) bool {
	if s == nil || s.Status != SubscriptionActive {
		return false
	}
	today := now.UTC().Truncate(24 * time.Hour)
	return !s.ExpiresOn.UTC().Truncate(24 * time.Hour).Before(today)
}

// SubscriptionView is what the API returns for the account's subscription
// state, after expiry has been applied.
type SubscriptionView struct {
	Plan      PlanID             `json:"plan"`
	Status    SubscriptionStatus `json:"status"`
	ExpiresOn *time.Time         `json:"expires_on,omitempty"`
}
