package service

import (
	"context"
	"fmt"
	"time"

	"mkranker-server/internal/domain"

	"github.com/google/uuid"
)

// generationService runs AI workflows behind the quota guard.
//
// Quota is handled as reserve/release: one use is consumed atomically
// before the workflow call, and given back if the call fails. The attempt
// therefore only sticks when the user actually got content.
type generationService struct {
	quota     domain.QuotaService
	generator domain.ContentGenerator
	history   domain.HistoryRepository
	logger    domain.Logger
}

// NewGenerationService creates the workflow orchestration service.
func NewGenerationService(
	quota domain.QuotaService,
	generator domain.ContentGenerator,
	history domain.HistoryRepository,
	logger domain.Logger,
) domain.GenerationService {
	return &generationService{
		quota:     quota,
		generator: generator,
		history:   history,
		logger:    logger,
	}
}

// Generate reserves quota, calls the workflow and persists the result.
func (s *generationService) Generate(ctx context.Context, userID string, feature domain.FeatureKey, fields map[string]interface{}, token string) (*domain.GenerationResult, *domain.QuotaDecision, error) {
	decision, err := s.quota.CheckAndConsume(ctx, userID, feature, token)
	if err != nil {
		return nil, nil, err
	}
	if !decision.Allowed {
		return nil, decision, nil
	}

	output, err := s.generator.Generate(ctx, &domain.GenerationRequest{
		UserID:  userID,
		Feature: feature,
		Fields:  fields,
	})
	if err != nil {
		if releaseErr := s.quota.Release(ctx, userID, feature, token); releaseErr != nil {
			s.logger.Error("Failed to release reserved quota after workflow failure", releaseErr,
				"user_id", userID, "feature", feature)
		}
		return nil, nil, fmt.Errorf("workflow call failed: %w", err)
	}

	entry := &domain.HistoryEntry{
		ID:        uuid.NewString(),
		UserID:    userID,
		Input:     fields,
		Output:    output,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.history.Save(ctx, feature, entry, token); err != nil {
		// The content exists and the quota was rightly spent; losing the
		// history row is not worth failing the request over.
		s.logger.Error("Failed to persist generation history", err,
			"user_id", userID, "feature", feature, "entry_id", entry.ID)
	}

	return &domain.GenerationResult{
		ID:        entry.ID,
		Feature:   feature,
		Output:    output,
		CreatedAt: entry.CreatedAt,
	}, decision, nil
}

// History lists past results for a feature.
func (s *generationService) History(ctx context.Context, userID string, feature domain.FeatureKey, token string) ([]*domain.HistoryEntry, error) {
	if !feature.Valid() {
		return nil, domain.ErrUnknownFeature
	}
	return s.history.ListByUser(ctx, feature, userID, token)
}
