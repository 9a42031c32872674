package service

import (
	"context"
	"errors"
	"time"

	"mkranker-server/internal/domain"
)

// Mock logger used by service package tests.
type MockLogger struct{}

func NewMockLogger() domain.Logger {
	return &MockLogger{}
}

func (l *MockLogger) Info(msg string, fields ...interface{})             {}
func (l *MockLogger) Error(msg string, err error, fields ...interface{}) {}
func (l *MockLogger) Debug(msg string, fields ...interface{})            {}
func (l *MockLogger) Warn(msg string, fields ...interface{})             {}

// mockUsageRepo is an in-memory ledger with the same conditional-increment
// semantics as the consume_feature function on the store.
type mockUsageRepo struct {
	ledgers    map[string]*domain.FeatureUsage
	failRemote bool
	resets     int
}

func newMockUsageRepo() *mockUsageRepo {
	return &mockUsageRepo{ledgers: make(map[string]*domain.FeatureUsage)}
}

func (m *mockUsageRepo) ledger(userID string) *domain.FeatureUsage {
	if _, ok := m.ledgers[userID]; !ok {
		m.ledgers[userID] = domain.NewFeatureUsage(userID)
	}
	return m.ledgers[userID]
}

func (m *mockUsageRepo) GetOrCreate(ctx context.Context, userID string, token string) (*domain.FeatureUsage, error) {
	if m.failRemote {
		return nil, errors.New("remote store unavailable")
	}
	return m.ledger(userID), nil
}

func (m *mockUsageRepo) ConsumeIfBelow(ctx context.Context, userID string, feature domain.FeatureKey, ceiling int, token string) (int, bool, error) {
	if m.failRemote {
		return 0, false, errors.New("remote store unavailable")
	}
	ledger := m.ledger(userID)
	count := ledger.Counters[feature]
	if domain.IsUnlimited(ceiling) || count < ceiling {
		count++
		ledger.Counters[feature] = count
		ledger.UpdatedAt = time.Now()
		return count, true, nil
	}
	return count, false, nil
}

func (m *mockUsageRepo) Decrement(ctx context.Context, userID string, feature domain.FeatureKey, token string) error {
	if m.failRemote {
		return errors.New("remote store unavailable")
	}
	ledger := m.ledger(userID)
	if ledger.Counters[feature] > 0 {
		ledger.Counters[feature]--
	}
	return nil
}

func (m *mockUsageRepo) Reset(ctx context.Context, userID string, token string) error {
	if m.failRemote {
		return errors.New("remote store unavailable")
	}
	m.ledgers[userID] = domain.NewFeatureUsage(userID)
	m.resets++
	return nil
}

// mockSubscriptionRepo is an in-memory user_subscription table.
type mockSubscriptionRepo struct {
	subs        map[string]*domain.Subscription
	markExpired int
}

func newMockSubscriptionRepo() *mockSubscriptionRepo {
	return &mockSubscriptionRepo{subs: make(map[string]*domain.Subscription)}
}

func (m *mockSubscriptionRepo) GetByUserID(ctx context.Context, userID string, token string) (*domain.Subscription, error) {
	sub, ok := m.subs[userID]
	if !ok {
		return nil, nil
	}
	copied := *sub
	return &copied, nil
}

func (m *mockSubscriptionRepo) MarkExpired(ctx context.Context, userID string, token string) error {
	m.markExpired++
	if sub, ok := m.subs[userID]; ok && sub.Status == domain.SubscriptionActive {
		sub.Status = domain.SubscriptionExpired
	}
	return nil
}

func (m *mockSubscriptionRepo) Activate(ctx context.Context, userID string, planID domain.PlanID, expiresOn time.Time) (*domain.Subscription, error) {
	sub := &domain.Subscription{
		UserID:    userID,
		PlanID:    planID,
		Status:    domain.SubscriptionActive,
		ExpiresOn: expiresOn,
		UpdatedAt: time.Now(),
	}
	m.subs[userID] = sub
	copied := *sub
	return &copied, nil
}

func (m *mockSubscriptionRepo) Deactivate(ctx context.Context, userID string) error {
	if sub, ok := m.subs[userID]; ok {
		sub.Status = domain.SubscriptionInactive
	}
	return nil
}

// mockGenerator scripts the workflow webhook.
type mockGenerator struct {
	output string
	err    error
	calls  int
}

func (m *mockGenerator) Generate(ctx context.Context, req *domain.GenerationRequest) (string, error) {
	m.calls++
	if m.err != nil {
		return "", m.err
	}
	return m.output, nil
}

// mockHistoryRepo records saved entries in memory.
type mockHistoryRepo struct {
	saved   []*domain.HistoryEntry
	saveErr error
}

func (m *mockHistoryRepo) Save(ctx context.Context, feature domain.FeatureKey, entry *domain.HistoryEntry, token string) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, entry)
	return nil
}

func (m *mockHistoryRepo) ListByUser(ctx context.Context, feature domain.FeatureKey, userID string, token string) ([]*domain.HistoryEntry, error) {
	var entries []*domain.HistoryEntry
	for _, entry := range m.saved {
		if entry.UserID == userID {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}
