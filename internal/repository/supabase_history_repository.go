package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"mkranker-server/internal/domain"
)

// SupabaseHistoryRepository implements domain.HistoryRepository. Each
// feature persists its results in its own table ("<column>_history"),
// mirroring how the frontend lists past runs per feature.
type SupabaseHistoryRepository struct {
	supabaseClient domain.SupabaseClient
	logger         domain.Logger
}

// NewSupabaseHistoryRepository creates a new Supabase history repository
func NewSupabaseHistoryRepository(supabaseClient domain.SupabaseClient, logger domain.Logger) domain.HistoryRepository {
	return &SupabaseHistoryRepository{
		supabaseClient: supabaseClient,
		logger:         logger,
	}
}

// Save stores one workflow result.
func (r *SupabaseHistoryRepository) Save(ctx context.Context, feature domain.FeatureKey, entry *domain.HistoryEntry, token string) error {
	client, err := r.supabaseClient.GetClientWithToken(token)
	if err != nil {
		return fmt.Errorf("failed to get client: %w", err)
	}

	inputJSON, err := json.Marshal(entry.Input)
	if err != nil {
		return fmt.Errorf("failed to encode history input: %w", err)
	}

	row := map[string]interface{}{
		"id":         entry.ID,
		"user_id":    entry.UserID,
		"input":      json.RawMessage(inputJSON),
		"output":     entry.Output,
		"created_at": entry.CreatedAt,
	}

	_, _, err = client.From(feature.HistoryTable()).
		Insert(row, false, "", "minimal", "").
		Execute()
	if err != nil {
		return fmt.Errorf("failed to save history entry: %w", err)
	}

	return nil
}

// ListByUser returns the account's past results for a feature, newest first.
func (r *SupabaseHistoryRepository) ListByUser(ctx context.Context, feature domain.FeatureKey, userID string, token string) ([]*domain.HistoryEntry, error) {
	client, err := r.supabaseClient.GetClientWithToken(token)
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	data, _, err := client.From(feature.HistoryTable()).
		Select("*", "", false).
		Eq("user_id", userID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	entries := make([]*domain.HistoryEntry, 0, len(rows))
	for _, row := range rows {
		entry := &domain.HistoryEntry{
			ID:        getString(row, "id"),
			UserID:    getString(row, "user_id"),
			Output:    getString(row, "output"),
			CreatedAt: getTime(row, "created_at"),
		}
		if input, ok := row["input"].(map[string]interface{}); ok {
			entry.Input = input
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
