package service

import (
	"context"
	"testing"
	"time"

	"mkranker-server/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscriptionService_EffectivePlan_NoRow(t *testing.T) {
	usageRepo := newMockUsageRepo()
	subRepo := newMockSubscriptionRepo()
	svc := NewSubscriptionService(subRepo, usageRepo, NewMockLogger())

	plan, sub, err := svc.EffectivePlan(context.Background(), "user-1", "token")
	require.NoError(t, err)
	assert.Equal(t, domain.PlanFree, plan)
	assert.Nil(t, sub)
}

func TestSubscriptionService_EffectivePlan_Active(t *testing.T) {
	usageRepo := newMockUsageRepo()
	subRepo := newMockSubscriptionRepo()
	subRepo.subs["user-1"] = &domain.Subscription{
		UserID:    "user-1",
		PlanID:    domain.PlanSolo,
		Status:    domain.SubscriptionActive,
		ExpiresOn: time.Now().UTC().AddDate(0, 0, 10),
	}
	svc := NewSubscriptionService(subRepo, usageRepo, NewMockLogger())

	plan, sub, err := svc.EffectivePlan(context.Background(), "user-1", "token")
	require.NoError(t, err)
	assert.Equal(t, domain.PlanSolo, plan)
	require.NotNil(t, sub)
	assert.Equal(t, domain.SubscriptionActive, sub.Status)
	assert.Zero(t, subRepo.markExpired)
}

func TestSubscriptionService_EffectivePlan_LazyDemotion(t *testing.T) {
	usageRepo := newMockUsageRepo()
	subRepo := newMockSubscriptionRepo()
	subRepo.subs["user-1"] = &domain.Subscription{
		UserID:    "user-1",
		PlanID:    domain.PlanDiscovery,
		Status:    domain.SubscriptionActive,
		ExpiresOn: time.Now().UTC().AddDate(0, 0, -1),
	}
	svc := NewSubscriptionService(subRepo, usageRepo, NewMockLogger())

	plan, sub, err := svc.EffectivePlan(context.Background(), "user-1", "token")
	require.NoError(t, err)
	assert.Equal(t, domain.PlanFree, plan)
	require.NotNil(t, sub)
	assert.Equal(t, domain.SubscriptionExpired, sub.Status)
	assert.Equal(t, 1, subRepo.markExpired)
	assert.Equal(t, domain.SubscriptionExpired, subRepo.subs["user-1"].Status,
		"demotion must be written back to the store")
}

func TestSubscriptionService_View(t *testing.T) {
	usageRepo := newMockUsageRepo()
	subRepo := newMockSubscriptionRepo()
	svc := NewSubscriptionService(subRepo, usageRepo, NewMockLogger())

	view, err := svc.View(context.Background(), "user-1", "token")
	require.NoError(t, err)
	assert.Equal(t, domain.PlanFree, view.Plan)
	assert.Equal(t, domain.SubscriptionInactive, view.Status)
	assert.Nil(t, view.ExpiresOn)

	expires := time.Now().UTC().AddDate(0, 0, 15)
	subRepo.subs["user-2"] = &domain.Subscription{
		UserID:    "user-2",
		PlanID:    domain.PlanEscala,
		Status:    domain.SubscriptionActive,
		ExpiresOn: expires,
	}
	view, err = svc.View(context.Background(), "user-2", "token")
	require.NoError(t, err)
	assert.Equal(t, domain.PlanEscala, view.Plan)
	assert.Equal(t, domain.SubscriptionActive, view.Status)
	require.NotNil(t, view.ExpiresOn)
	assert.WithinDuration(t, expires, *view.ExpiresOn, time.Second)
}

func TestSubscriptionService_Reactivate(t *testing.T) {
	usageRepo := newMockUsageRepo()
	subRepo := newMockSubscriptionRepo()
	svc := NewSubscriptionService(subRepo, usageRepo, NewMockLogger())

	sub, err := svc.Reactivate(context.Background(), "user-1", domain.PlanSolo, 0)
	require.NoError(t, err)
	assert.Equal(t, domain.SubscriptionActive, sub.Status)
	assert.WithinDuration(t, time.Now().UTC().AddDate(0, 0, 30), sub.ExpiresOn, time.Minute,
		"zero days defaults to 30")
	assert.Equal(t, 1, usageRepo.resets)
}

func TestSubscriptionService_Reactivate_UnknownPlan(t *testing.T) {
	usageRepo := newMockUsageRepo()
	subRepo := newMockSubscriptionRepo()
	svc := NewSubscriptionService(subRepo, usageRepo, NewMockLogger())

	_, err := svc.Reactivate(context.Background(), "user-1", "platinum", 30)
	assert.ErrorIs(t, err, domain.ErrUnknownPlan)
	assert.Zero(t, usageRepo.resets)
}

func TestSubscriptionService_Cancel(t *testing.T) {
	usageRepo := newMockUsageRepo()
	subRepo := newMockSubscriptionRepo()
	subRepo.subs["user-1"] = &domain.Subscription{
		UserID: "user-1",
		PlanID: domain.PlanSolo,
		Status: domain.SubscriptionActive,
	}
	svc := NewSubscriptionService(subRepo, usageRepo, NewMockLogger())

	require.NoError(t, svc.Cancel(context.Background(), "user-1"))
	assert.Equal(t, domain.SubscriptionInactive, subRepo.subs["user-1"].Status)
}
