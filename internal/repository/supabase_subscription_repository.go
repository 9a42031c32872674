package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mkranker-server/internal/domain"

	"github.com/supabase-community/supabase-go"
)

// SupabaseSubscriptionRepository implements domain.SubscriptionRepository
// against the user_subscription table.
type SupabaseSubscriptionRepository struct {
	supabaseClient domain.SupabaseClient
	logger         domain.Logger
}

// NewSupabaseSubscriptionRepository creates a new Supabase subscription repository
func NewSupabaseSubscriptionRepository(supabaseClient domain.SupabaseClient, logger domain.Logger) domain.SubscriptionRepository {
	return &SupabaseSubscriptionRepository{
		supabaseClient: supabaseClient,
		logger:         logger,
	}
}

func (r *SupabaseSubscriptionRepository) client(token string) (*supabase.Client, error) {
	if token == "" {
		return r.supabaseClient.ServiceRoleClient()
	}
	return r.supabaseClient.GetClientWithToken(token)
}

// GetByUserID returns the account's subscription row, nil when none exists.
func (r *SupabaseSubscriptionRepository) GetByUserID(ctx context.Context, userID string, token string) (*domain.Subscription, error) {
	client, err := r.client(token)
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	data, _, err := client.From("user_subscription").
		Select("*", "", false).
		Eq("user_id", userID).
		Limit(1, "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	return r.mapToSubscription(rows[0]), nil
}

// MarkExpired demotes a stale active row to expired.
func (r *SupabaseSubscriptionRepository) MarkExpired(ctx context.Context, userID string, token string) error {
	client, err := r.client(token)
	if err != nil {
		return fmt.Errorf("failed to get client: %w", err)
	}

	data := map[string]interface{}{
		"status":     string(domain.SubscriptionExpired),
		"updated_at": time.Now().UTC(),
	}
	// Guard on status so a renewal that landed between our read and this
	// write is not clobbered back to expired.
	_, _, err = client.From("user_subscription").
		Update(data, "", "").
		Eq("user_id", userID).
		Eq("status", string(domain.SubscriptionActive)).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to mark subscription expired: %w", err)
	}

	return nil
}

// Activate upserts an active subscription row. Privileged paths only.
func (r *SupabaseSubscriptionRepository) Activate(ctx context.Context, userID string, planID domain.PlanID, expiresOn time.Time) (*domain.Subscription, error) {
	client, err := r.supabaseClient.ServiceRoleClient()
	if err != nil {
		return nil, fmt.Errorf("failed to get service role client: %w", err)
	}

	now := time.Now().UTC()
	data := map[string]interface{}{
		"user_id":    userID,
		"plan_id":    string(planID),
		"status":     string(domain.SubscriptionActive),
		"expires_on": expiresOn.UTC().Format("2006-01-02"),
		"updated_at": now,
	}

	_, _, err = client.From("user_subscription").
		Upsert(data, "user_id", "", "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to activate subscription: %w", err)
	}

	r.logger.Info("Subscription activated",
		"user_id", userID, "plan_id", planID, "expires_on", expiresOn.Format("2006-01-02"))

	return &domain.Subscription{
		UserID:    userID,
		PlanID:    planID,
		Status:    domain.SubscriptionActive,
		ExpiresOn: expiresOn,
		UpdatedAt: now,
	}, nil
}

// Deactivate sets the subscription inactive (refund or cancellation).
func (r *SupabaseSubscriptionRepository) Deactivate(ctx context.Context, userID string) error {
	client, err := r.supabaseClient.ServiceRoleClient()
	if err != nil {
		return fmt.Errorf("failed to get service role client: %w", err)
	}

	data := map[string]interface{}{
		"status":     string(domain.SubscriptionInactive),
		"updated_at": time.Now().UTC(),
	}
	_, _, err = client.From("user_subscription").
		Update(data, "", "").
		Eq("user_id", userID).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to deactivate subscription: %w", err)
	}

	r.logger.Info("Subscription deactivated", "user_id", userID)
	return nil
}

func (r *SupabaseSubscriptionRepository) mapToSubscription(row map[string]interface{}) *domain.Subscription {
	return &domain.Subscription{
		UserID:    getString(row, "user_id"),
		PlanID:    domain.PlanID(getString(row, "plan_id")),
		Status:    domain.SubscriptionStatus(getString(row, "status")),
		ExpiresOn: getTime(row, "expires_on"),
		UpdatedAt: getTime(row, "updated_at"),
	}
}
