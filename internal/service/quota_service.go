package service

import (
	"context"
	"fmt"

	"mkranker-server/internal/domain"
)

// quotaService is the quota guard: every billable action goes through here
// before the real work happens. The guard itself never retries; remote
// failures propagate to the caller, which owns the user-facing messaging.
type quotaService struct {
	usageRepo     domain.UsageRepository
	subscriptions domain.SubscriptionService
	logger        domain.Logger
}

// NewQuotaService creates the quota guard.
func NewQuotaService(
	usageRepo domain.UsageRepository,
	subscriptions domain.SubscriptionService,
	logger domain.Logger,
) domain.QuotaService {
	return &quotaService{
		usageRepo:     usageRepo,
		subscriptions: subscriptions,
		logger:        logger,
	}
}

// resolve loads the effective plan's ceiling and the current ledger for a
// feature. The ledger row is created lazily here, so a brand-new account's
// first check evaluates against a zeroed ledger and the free plan.
func (s *quotaService) resolve(ctx context.Context, userID string, feature domain.FeatureKey, token string) (domain.Plan, *domain.FeatureUsage, error) {
	if !feature.Valid() {
		return domain.Plan{}, nil, domain.ErrUnknownFeature
	}

	planID, _, err := s.subscriptions.EffectivePlan(ctx, userID, token)
	if err != nil {
		return domain.Plan{}, nil, err
	}

	plan, err := domain.PlanByID(planID)
	if err != nil {
		return domain.Plan{}, nil, err
	}

	usage, err := s.usageRepo.GetOrCreate(ctx, userID, token)
	if err != nil {
		return domain.Plan{}, nil, fmt.Errorf("failed to load usage ledger: %w", err)
	}

	return plan, usage, nil
}

func decisionFor(plan domain.Plan, feature domain.FeatureKey, used int) *domain.QuotaDecision {
	ceiling := plan.LimitFor(feature)
	decision := &domain.QuotaDecision{
		Plan:    plan.ID,
		Feature: feature,
		Limit:   ceiling,
		Used:    used,
	}
	if domain.IsUnlimited(ceiling) {
		decision.Allowed = true
		decision.Unlimited = true
		decision.Remaining = domain.UnlimitedUsage
		return decision
	}

	remaining := ceiling - used
	if remaining < 0 {
		remaining = 0
	}
	decision.Remaining = remaining
	if remaining > 0 {
		decision.Allowed = true
	} else {
		decision.Reason = domain.DenyReasonLimitExceeded
	}
	return decision
}

// Check computes the decision without touching the ledger.
func (s *quotaService) Check(ctx context.Context, userID string, feature domain.FeatureKey, token string) (*domain.QuotaDecision, error) {
	plan, usage, err := s.resolve(ctx, userID, feature, token)
	if err != nil {
		return nil, err
	}
	return decisionFor(plan, feature, usage.Count(feature)), nil
}

// CheckAndConsume is the guard's single entry point for billable actions:
// resolve the effective plan, check the ceiling, consume one use. The
// consume is a single conditional increment on the store, so two
// near-simultaneous calls cannot both slip under the ceiling. A denied
// decision is side-effect free.
func (s *quotaService) CheckAndConsume(ctx context.Context, userID string, feature domain.FeatureKey, token string) (*domain.QuotaDecision, error) {
	plan, usage, err := s.resolve(ctx, userID, feature, token)
	if err != nil {
		return nil, err
	}

	ceiling := plan.LimitFor(feature)

	// Fast deny from the ledger we already read; the conditional increment
	// below re-checks at the store, this just avoids a pointless round trip.
	if !domain.IsUnlimited(ceiling) && usage.Count(feature) >= ceiling {
		return decisionFor(plan, feature, usage.Count(feature)), nil
	}

	count, consumed, err := s.usageRepo.ConsumeIfBelow(ctx, userID, feature, ceiling, token)
	if err != nil {
		return nil, fmt.Errorf("failed to consume quota: %w", err)
	}
	if !consumed {
		// Lost the race to a concurrent use that took the last slot.
		return decisionFor(plan, feature, count), nil
	}

	decision := decisionFor(plan, feature, count)
	decision.Allowed = true
	decision.Reason = ""
	s.logger.Debug("Quota consumed",
		"user_id", userID, "feature", feature, "plan", plan.ID, "used", count, "limit", ceiling)
	return decision, nil
}

// Release gives back one reserved use after the caller's workflow call
// failed, so a failed generation does not burn quota.
func (s *quotaService) Release(ctx context.Context, userID string, feature domain.FeatureKey, token string) error {
	if !feature.Valid() {
		return domain.ErrUnknownFeature
	}
	return s.usageRepo.Decrement(ctx, userID, feature, token)
}

// ResetUsage zeroes the account's ledger (plan change).
func (s *quotaService) ResetUsage(ctx context.Context, userID string, token string) error {
	return s.usageRepo.Reset(ctx, userID, token)
}

// Summary reports per-feature usage against the effective plan for the
// dashboard, lazily creating the ledger row on first load.
func (s *quotaService) Summary(ctx context.Context, userID string, token string) (*domain.UsageSummary, error) {
	planID, _, err := s.subscriptions.EffectivePlan(ctx, userID, token)
	if err != nil {
		return nil, err
	}
	plan, err := domain.PlanByID(planID)
	if err != nil {
		return nil, err
	}

	usage, err := s.usageRepo.GetOrCreate(ctx, userID, token)
	if err != nil {
		return nil, fmt.Errorf("failed to load usage ledger: %w", err)
	}

	summary := &domain.UsageSummary{
		UserID:   userID,
		Plan:     plan.ID,
		Features: make([]domain.FeatureQuota, 0, len(domain.AllFeatures)),
	}
	for _, feature := range domain.AllFeatures {
		decision := decisionFor(plan, feature, usage.Count(feature))
		summary.Features = append(summary.Features, domain.FeatureQuota{
			Feature:   feature,
			Used:      decision.Used,
			Limit:     decision.Limit,
			Remaining: decision.Remaining,
			Unlimited: decision.Unlimited,
		})
	}
	return summary, nil
}
