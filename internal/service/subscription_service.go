package service

import (
	"context"
	"fmt"
	"time"

	"mkranker-server/internal/domain"
)

type subscriptionService struct {
	subscriptionRepo domain.SubscriptionRepository
	usageRepo        domain.UsageRepository
	logger           domain.Logger
	now              func() time.Time
}

// NewSubscriptionService creates the plan-state service.
func NewSubscriptionService(
	subscriptionRepo domain.SubscriptionRepository,
	usageRepo domain.UsageRepository,
	logger domain.Logger,
) domain.SubscriptionService {
	return &subscriptionService{
		subscriptionRepo: subscriptionRepo,
		usageRepo:        usageRepo,
		logger:           logger,
		now:              time.Now,
	}
}

// EffectivePlan resolves the plan governing the account right now. No row,
// a non-active status or a past expiry all resolve to the free plan. A
// stale active row is demoted to expired on the way (best effort; the
// periodic sweep job corrects rows we miss).
func (s *subscriptionService) EffectivePlan(ctx context.Context, userID string, token string) (domain.PlanID, *domain.Subscription, error) {
	sub, err := s.subscriptionRepo.GetByUserID(ctx, userID, token)
	if err != nil {
		return "", nil, fmt.Errorf("failed to resolve subscription: %w", err)
	}
	if sub == nil {
		return domain.PlanFree, nil, nil
	}

	now := s.now().UTC()
	if sub.Status == domain.SubscriptionActive && !sub.IsCurrent(now) {
		if err := s.subscriptionRepo.MarkExpired(ctx, userID, token); err != nil {
			s.logger.Warn("Failed to demote expired subscription", "user_id", userID, "error", err)
		}
		sub.Status = domain.SubscriptionExpired
	}

	if !sub.IsCurrent(now) {
		return domain.PlanFree, sub, nil
	}
	return sub.PlanID, sub, nil
}

// View returns the subscription state for the API, expiry applied.
func (s *subscriptionService) View(ctx context.Context, userID string, token string) (*domain.SubscriptionView, error) {
	plan, sub, err := s.EffectivePlan(ctx, userID, token)
	if err != nil {
		return nil, err
	}

	view := &domain.SubscriptionView{Plan: plan}
	if sub == nil {
		view.Status = domain.SubscriptionInactive
		return view, nil
	}

	view.Status = sub.Status
	if !sub.ExpiresOn.IsZero() {
		expires := sub.ExpiresOn
		view.ExpiresOn = &expires
	}
	return view, nil
}

// Reactivate forces an active subscription on the given plan and resets the
// usage ledger, per the plan-change business rule. Privileged: callers have
// already authenticated as admin or as the payment gateway.
func (s *subscriptionService) Reactivate(ctx context.Context, userID string, planID domain.PlanID, days int) (*domain.Subscription, error) {
	if _, err := domain.PlanByID(planID); err != nil {
		return nil, err
	}
	if days <= 0 {
		days = 30
	}

	expiresOn := s.now().UTC().AddDate(0, 0, days)
	sub, err := s.subscriptionRepo.Activate(ctx, userID, planID, expiresOn)
	if err != nil {
		return nil, fmt.Errorf("failed to activate subscription: %w", err)
	}

	if err := s.usageRepo.Reset(ctx, userID, ""); err != nil {
		return nil, fmt.Errorf("subscription activated but usage reset failed: %w", err)
	}

	return sub, nil
}

// Cancel marks the subscription inactive (refund or chargeback).
func (s *subscriptionService) Cancel(ctx context.Context, userID string) error {
	return s.subscriptionRepo.Deactivate(ctx, userID)
}
