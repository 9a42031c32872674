package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mkranker-server/internal/domain"
)

// SupabaseProfileRepository implements domain.ProfileRepository against the
// profiles table.
type SupabaseProfileRepository struct {
	supabaseClient domain.SupabaseClient
	logger         domain.Logger
}

// NewSupabaseProfileRepository creates a new Supabase profile repository
func NewSupabaseProfileRepository(supabaseClient domain.SupabaseClient, logger domain.Logger) domain.ProfileRepository {
	return &SupabaseProfileRepository{
		supabaseClient: supabaseClient,
		logger:         logger,
	}
}

// GetOrCreate reads the account's profile row, inserting one on first use.
func (r *SupabaseProfileRepository) GetOrCreate(ctx context.Context, userID, email string, token string) (*domain.Profile, error) {
	client, err := r.supabaseClient.GetClientWithToken(token)
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	data, _, err := client.From("profiles").
		Select("*", "", false).
		Eq("user_id", userID).
		Limit(1, "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if len(rows) > 0 {
		return &domain.Profile{
			UserID:    getString(rows[0], "user_id"),
			Email:     getString(rows[0], "email"),
			CreatedAt: getTime(rows[0], "created_at"),
			UpdatedAt: getTime(rows[0], "updated_at"),
		}, nil
	}

	now := time.Now().UTC()
	row := map[string]interface{}{
		"user_id":    userID,
		"email":      email,
		"created_at": now,
		"updated_at": now,
	}
	_, _, err = client.From("profiles").
		Insert(row, true, "user_id", "minimal", "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	r.logger.Info("Created profile", "user_id", userID)
	return &domain.Profile{
		UserID:    userID,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
