package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"mkranker-server/internal/domain"

	"github.com/supabase-community/supabase-go"
)

func createContextWithUser(r *http.Request, user *domain.SupabaseUser) *http.Request {
	ctx := context.WithValue(r.Context(), userContextKey, user)
	return r.WithContext(ctx)
}

func createContextWithToken(r *http.Request, token string) *http.Request {
	ctx := context.WithValue(r.Context(), tokenContextKey, token)
	return r.WithContext(ctx)
}

// MockQuotaService returns scripted decisions.
type MockQuotaService struct {
	decision *domain.QuotaDecision
	summary  *domain.UsageSummary
	err      error
	resets   []string
}

func NewMockQuotaService() *MockQuotaService {
	return &MockQuotaService{
		decision: &domain.QuotaDecision{Allowed: true, Plan: domain.PlanFree, Limit: 3, Used: 1, Remaining: 2},
		summary:  &domain.UsageSummary{Plan: domain.PlanFree},
	}
}

func (m *MockQuotaService) Check(ctx context.Context, userID string, feature domain.FeatureKey, token string) (*domain.QuotaDecision, error) {
	return m.decision, m.err
}

func (m *MockQuotaService) CheckAndConsume(ctx context.Context, userID string, feature domain.FeatureKey, token string) (*domain.QuotaDecision, error) {
	return m.decision, m.err
}

func (m *MockQuotaService) Release(ctx context.Context, userID string, feature domain.FeatureKey, token string) error {
	return m.err
}

func (m *MockQuotaService) ResetUsage(ctx context.Context, userID string, token string) error {
	if m.err != nil {
		return m.err
	}
	m.resets = append(m.resets, userID)
	return nil
}

func (m *MockQuotaService) Summary(ctx context.Context, userID string, token string) (*domain.UsageSummary, error) {
	if m.err != nil {
		return nil, m.err
	}
	summary := *m.summary
	summary.UserID = userID
	return &summary, nil
}

// MockGenerationService scripts the generate/history endpoints.
type MockGenerationService struct {
	result   *domain.GenerationResult
	decision *domain.QuotaDecision
	entries  []*domain.HistoryEntry
	err      error
}

func NewMockGenerationService() *MockGenerationService {
	return &MockGenerationService{
		result:   &domain.GenerationResult{ID: "gen-1", Output: "generated text", CreatedAt: time.Now()},
		decision: &domain.QuotaDecision{Allowed: true, Plan: domain.PlanSolo, Limit: 20, Used: 1, Remaining: 19},
	}
}

func (m *MockGenerationService) Generate(ctx context.Context, userID string, feature domain.FeatureKey, fields map[string]interface{}, token string) (*domain.GenerationResult, *domain.QuotaDecision, error) {
	if m.err != nil {
		return nil, nil, m.err
	}
	if !m.decision.Allowed {
		return nil, m.decision, nil
	}
	result := *m.result
	result.Feature = feature
	return &result, m.decision, nil
}

func (m *MockGenerationService) History(ctx context.Context, userID string, feature domain.FeatureKey, token string) ([]*domain.HistoryEntry, error) {
	return m.entries, m.err
}

// MockSubscriptionService records privileged mutations.
type MockSubscriptionService struct {
	view        *domain.SubscriptionView
	reactivated []domain.PlanID
	canceled    []string
	err         error
}

func NewMockSubscriptionService() *MockSubscriptionService {
	return &MockSubscriptionService{
		view: &domain.SubscriptionView{Plan: domain.PlanFree, Status: domain.SubscriptionInactive},
	}
}

func (m *MockSubscriptionService) EffectivePlan(ctx context.Context, userID string, token string) (domain.PlanID, *domain.Subscription, error) {
	return m.view.Plan, nil, m.err
}

func (m *MockSubscriptionService) View(ctx context.Context, userID string, token string) (*domain.SubscriptionView, error) {
	return m.view, m.err
}

func (m *MockSubscriptionService) Reactivate(ctx context.Context, userID string, planID domain.PlanID, days int) (*domain.Subscription, error) {
	if m.err != nil {
		return nil, m.err
	}
	if _, err := domain.PlanByID(planID); err != nil {
		return nil, err
	}
	m.reactivated = append(m.reactivated, planID)
	return &domain.Subscription{
		UserID:    userID,
		PlanID:    planID,
		Status:    domain.SubscriptionActive,
		ExpiresOn: time.Now().UTC().AddDate(0, 0, 30),
	}, nil
}

func (m *MockSubscriptionService) Cancel(ctx context.Context, userID string) error {
	if m.err != nil {
		return m.err
	}
	m.canceled = append(m.canceled, userID)
	return nil
}

// MockProfileRepo satisfies domain.ProfileRepository for the usage handler.
type MockProfileRepo struct {
	created []string
}

func (m *MockProfileRepo) GetOrCreate(ctx context.Context, userID, email string, token string) (*domain.Profile, error) {
	m.created = append(m.created, userID)
	return &domain.Profile{UserID: userID, Email: email}, nil
}

// MockSupabaseClient satisfies domain.SupabaseClient for middleware tests.
type MockSupabaseClient struct {
	user *domain.SupabaseUser
	err  error
}

func (m *MockSupabaseClient) Initialize() error { return nil }

func (m *MockSupabaseClient) ValidateToken(token string) (*domain.SupabaseUser, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.user == nil {
		return nil, errors.New("invalid token")
	}
	return m.user, nil
}

func (m *MockSupabaseClient) DB() *supabase.Client { return nil }

func (m *MockSupabaseClient) GetClientWithToken(token string) (*supabase.Client, error) {
	return nil, nil
}

func (m *MockSupabaseClient) ServiceRoleClient() (*supabase.Client, error) {
	return nil, nil
}
