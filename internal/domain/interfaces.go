package domain

import (
	"context"
	"time"
)

// Logger defines the interface for logging operations
type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, err error, fields ...interface{})
	Debug(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
}

// Config defines the interface for configuration management
type Config interface {
	GetServerPort() string
	GetLogLevel() string
	GetSupabaseURL() string
	GetSupabaseKey() string
	GetSupabaseServiceRoleKey() string
	GetAdminAPISecret() string
	GetN8NWebhookBaseURL() string
	GetN8NWebhookToken() string
	GetPaymentWebhookToken() string
	GetCORSAllowedOrigins() []string
}

// UsageRepository persists the per-account feature counters.
//
// Methods take the caller's access token so row-level security applies;
// an empty token selects the service-role client (admin and payment
// paths, which act on other users' rows).
type UsageRepository interface {
	// GetOrCreate reads the ledger row, inserting a zeroed one if absent.
	// The insert is an idempotent upsert on user_id so two concurrent
	// first uses cannot both create a row.
	GetOrCreate(ctx context.Context, userID string, token string) (*FeatureUsage, error)

	// ConsumeIfBelow atomically increments the feature counter only while
	// it is below ceiling, in a single remote call. It returns the counter
	// after the call and whether the increment was applied. A ceiling of
	// UnlimitedUsage always increments.
	ConsumeIfBelow(ctx context.Context, userID string, feature FeatureKey, ceiling int, token string) (count int, consumed bool, err error)

	// Decrement undoes one consumed use (floor zero). Used to release a
	// reservation when the workflow call fails after the quota was taken.
	Decrement(ctx context.Context, userID string, feature FeatureKey, token string) error

	// Reset zeroes every counter. Invoked on plan change.
	Reset(ctx context.Context, userID string, token string) error
}

// SubscriptionRepository persists the per-account subscription row.
type SubscriptionRepository interface {
	// GetByUserID returns the subscription row, or nil when the account
	// has none (free plan).
	GetByUserID(ctx context.Context, userID string, token string) (*Subscription, error)

	// MarkExpired demotes a stale active row. Called lazily on read once
	// expires_on has passed; a periodic external job does the same sweep.
	MarkExpired(ctx context.Context, userID string, token string) error

	// Activate upserts an active subscription with the given plan and
	// expiry. Privileged: payment webhook and admin only.
	Activate(ctx context.Context, userID string, planID PlanID, expiresOn time.Time) (*Subscription, error)

	// Deactivate sets status=inactive (refund/cancellation).
	Deactivate(ctx context.Context, userID string) error
}

// ProfileRepository persists the application-side account row.
type ProfileRepository interface {
	GetOrCreate(ctx context.Context, userID, email string, token string) (*Profile, error)
}

// HistoryRepository persists workflow results in per-feature history tables.
type HistoryRepository interface {
	Save(ctx context.Context, feature FeatureKey, entry *HistoryEntry, token string) error
	ListByUser(ctx context.Context, feature FeatureKey, userID string, token string) ([]*HistoryEntry, error)
}

// QuotaService is the quota guard: the single decision point in front of
// every billable action.
type QuotaService interface {
	// Check computes the decision without consuming quota.
	Check(ctx context.Context, userID string, feature FeatureKey, token string) (*QuotaDecision, error)

	// CheckAndConsume resolves the effective plan, checks the ceiling and
	// atomically consumes one use on success. A denied decision leaves
	// the ledger untouched.
	CheckAndConsume(ctx context.Context, userID string, feature FeatureKey, token string) (*QuotaDecision, error)

	// Release gives back one consumed use after a failed workflow call.
	Release(ctx context.Context, userID string, feature FeatureKey, token string) error

	// ResetUsage zeroes the account's ledger.
	ResetUsage(ctx context.Context, userID string, token string) error

	// Summary reports per-feature usage against the effective plan,
	// lazily creating the ledger row.
	Summary(ctx context.Context, userID string, token string) (*UsageSummary, error)
}

// SubscriptionService resolves and mutates the account's plan state.
type SubscriptionService interface {
	// EffectivePlan returns the plan governing the account right now:
	// the subscription's plan while active and unexpired, free otherwise.
	// Stale active rows are lazily demoted to expired.
	EffectivePlan(ctx context.Context, userID string, token string) (PlanID, *Subscription, error)

	// View returns the subscription state for the API, expiry applied.
	View(ctx context.Context, userID string, token string) (*SubscriptionView, error)

	// Reactivate forces an active subscription on the given plan for the
	// given number of days and resets the usage ledger. Privileged.
	Reactivate(ctx context.Context, userID string, planID PlanID, days int) (*Subscription, error)

	// Cancel marks the subscription inactive. Privileged.
	Cancel(ctx context.Context, userID string) error
}

// GenerationService runs a workflow behind the quota guard.
type GenerationService interface {
	// Generate reserves quota, calls the workflow and persists the result.
	// A nil result with a denied decision means the quota was exhausted.
	Generate(ctx context.Context, userID string, feature FeatureKey, fields map[string]interface{}, token string) (*GenerationResult, *QuotaDecision, error)

	// History lists past results for a feature.
	History(ctx context.Context, userID string, feature FeatureKey, token string) ([]*HistoryEntry, error)
}
