package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mkranker-server/internal/domain"

	"github.com/supabase-community/supabase-go"
)

// SupabaseUsageRepository implements domain.UsageRepository against the
// user_usage table. One row per account, one counter column per feature.
type SupabaseUsageRepository struct {
	supabaseClient domain.SupabaseClient
	logger         domain.Logger
}

// NewSupabaseUsageRepository creates a new Supabase usage repository
func NewSupabaseUsageRepository(supabaseClient domain.SupabaseClient, logger domain.Logger) domain.UsageRepository {
	return &SupabaseUsageRepository{
		supabaseClient: supabaseClient,
		logger:         logger,
	}
}

// client resolves the postgrest client for a call. An empty token means a
// privileged path (admin, payment webhook) and selects the service role.
func (r *SupabaseUsageRepository) client(token string) (*supabase.Client, error) {
	if token == "" {
		return r.supabaseClient.ServiceRoleClient()
	}
	return r.supabaseClient.GetClientWithToken(token)
}

// GetOrCreate reads the ledger row for an account, inserting a zeroed row
// when absent. The insert is an upsert on user_id, so two concurrent first
// uses resolve at the store instead of racing in-process.
func (r *SupabaseUsageRepository) GetOrCreate(ctx context.Context, userID string, token string) (*domain.FeatureUsage, error) {
	client, err := r.client(token)
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	data, _, err := client.From("user_usage").
		Select("*", "", false).
		Eq("user_id", userID).
		Limit(1, "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get usage: %w", err)
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if len(rows) > 0 {
		return r.mapToUsage(rows[0]), nil
	}

	usage := domain.NewFeatureUsage(userID)
	usage.UpdatedAt = time.Now().UTC()

	row := map[string]interface{}{
		"user_id":    userID,
		"updated_at": usage.UpdatedAt,
	}
	for _, feature := range domain.AllFeatures {
		row[feature.Column()] = 0
	}

	// Upsert on user_id so a concurrent first use does not hit the unique
	// constraint; ignore-duplicates keeps an already-written row intact.
	_, _, err = client.From("user_usage").
		Insert(row, true, "user_id", "minimal", "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to create usage row: %w", err)
	}

	r.logger.Info("Created usage ledger", "user_id", userID)
	return usage, nil
}

// consumeFeatureResult is the JSON returned by the consume_feature function.
type consumeFeatureResult struct {
	Count    int  `json:"count"`
	Consumed bool `json:"consumed"`
}

// ConsumeIfBelow performs the increment as a single conditional statement
// on the store, via the consume_feature Postgres function:
//
//	consume_feature(p_user_id uuid, p_column text, p_ceiling int) -> json
//
// The function increments the counter only while it is below p_ceiling
// (always, when p_ceiling is -1) and returns {"count": n, "consumed": b}
// with the counter after the call. Doing check and increment in one round
// trip is what keeps two near-simultaneous uses from both passing the
// ceiling check.
func (r *SupabaseUsageRepository) ConsumeIfBelow(ctx context.Context, userID string, feature domain.FeatureKey, ceiling int, token string) (int, bool, error) {
	client, err := r.client(token)
	if err != nil {
		return 0, false, fmt.Errorf("failed to get client: %w", err)
	}

	params := map[string]interface{}{
		"p_user_id": userID,
		"p_column":  feature.Column(),
		"p_ceiling": ceiling,
	}

	raw := client.Rpc("consume_feature", "", params)
	if raw == "" {
		return 0, false, fmt.Errorf("consume_feature rpc failed for user %s", userID)
	}

	var result consumeFeatureResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return 0, false, fmt.Errorf("failed to unmarshal rpc response: %w", err)
	}

	return result.Count, result.Consumed, nil
}

// Decrement gives back one use, floored at zero. Only the reservation
// release path calls this, so plain read-modify-write is acceptable here.
func (r *SupabaseUsageRepository) Decrement(ctx context.Context, userID string, feature domain.FeatureKey, token string) error {
	usage, err := r.GetOrCreate(ctx, userID, token)
	if err != nil {
		return fmt.Errorf("failed to read usage for decrement: %w", err)
	}

	count := usage.Count(feature) - 1
	if count < 0 {
		count = 0
	}

	client, err := r.client(token)
	if err != nil {
		return fmt.Errorf("failed to get client: %w", err)
	}

	data := map[string]interface{}{
		feature.Column(): count,
		"updated_at":     time.Now().UTC(),
	}
	_, _, err = client.From("user_usage").
		Update(data, "", "").
		Eq("user_id", userID).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to decrement usage: %w", err)
	}

	return nil
}

// Reset zeroes every counter for the account.
func (r *SupabaseUsageRepository) Reset(ctx context.Context, userID string, token string) error {
	client, err := r.client(token)
	if err != nil {
		return fmt.Errorf("failed to get client: %w", err)
	}

	data := map[string]interface{}{
		"user_id":    userID,
		"updated_at": time.Now().UTC(),
	}
	for _, feature := range domain.AllFeatures {
		data[feature.Column()] = 0
	}

	// Upsert rather than update so resetting an account that never used a
	// feature still leaves a zeroed row behind.
	_, _, err = client.From("user_usage").
		Upsert(data, "user_id", "", "").
		Execute()
	if err != nil {
		return fmt.Errorf("failed to reset usage: %w", err)
	}

	r.logger.Info("Usage ledger reset", "user_id", userID)
	return nil
}

// mapToUsage converts a user_usage row to the domain ledger.
func (r *SupabaseUsageRepository) mapToUsage(row map[string]interface{}) *domain.FeatureUsage {
	usage := domain.NewFeatureUsage(getString(row, "user_id"))
	for _, feature := range domain.AllFeatures {
		usage.Counters[feature] = getInt(row, feature.Column())
	}
	usage.UpdatedAt = getTime(row, "updated_at")
	return usage
}
