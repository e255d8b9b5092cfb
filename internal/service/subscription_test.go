package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/saglikasistani/backend/internal/config"
	"github.com/saglikasistani/backend/pkg/model"
)

var testSubCfg = config.SubscriptionConfig{FreeDailyLimit: 5, PremiumDailyLimit: 200}

func TestResolveSubscription_TrialCollapsesAfterEndDate(t *testing.T) {
	trialEnd := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	sub := &model.Subscription{
		UserID:            "u1",
		IsPremium:         true,
		Plan:              "trial",
		TrialEndDate:      &trialEnd,
		DailyMessageLimit: 200,
	}

	before := resolveSubscription(sub, trialEnd.Add(-time.Hour), testSubCfg)
	assert.True(t, before.IsPremium)
	assert.Equal(t, 200, before.DailyMessageLimit)

	after := resolveSubscription(sub, trialEnd.Add(time.Hour), testSubCfg)
	assert.False(t, after.IsPremium)
	assert.Equal(t, "free", after.Plan)
	assert.Equal(t, 5, after.DailyMessageLimit)
}

func TestResolveSubscription_PurchaseSurvivesTrialEndDate(t *testing.T) {
	sub := &model.Subscription{
		UserID:            "u1",
		IsPremium:         true,
		Plan:              "monthly",
		TrialEndDate:      nil,
		DailyMessageLimit: 200,
	}

	resolved := resolveSubscription(sub, time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), testSubCfg)
	assert.True(t, resolved.IsPremium)
	assert.Equal(t, "monthly", resolved.Plan)
}

func TestResolveSubscription_StaleCounterReadsAsZero(t *testing.T) {
	now := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	sub := &model.Subscription{
		UserID:            "u1",
		DailyMessageCount: 5,
		DailyMessageLimit: 5,
		LastResetDate:     "2026-05-09",
	}

	resolved := resolveSubscription(sub, now, testSubCfg)
	assert.Equal(t, 0, resolved.DailyMessageCount)

	sub.LastResetDate = "2026-05-10"
	resolved = resolveSubscription(sub, now, testSubCfg)
	assert.Equal(t, 5, resolved.DailyMessageCount)
}

func TestResolveSubscription_DoesNotMutateInput(t *testing.T) {
	trialEnd := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	sub := &model.Subscription{IsPremium: true, Plan: "trial", TrialEndDate: &trialEnd}

	_ = resolveSubscription(sub, trialEnd.Add(time.Hour), testSubCfg)

	assert.True(t, sub.IsPremium)
	assert.Equal(t, "trial", sub.Plan)
}

func TestRemainingMessages(t *testing.T) {
	premium := &model.Subscription{IsPremium: true}
	assert.Nil(t, RemainingMessages(premium))

	free := &model.Subscription{DailyMessageCount: 3, DailyMessageLimit: 5}
	remaining := RemainingMessages(free)
	assert.NotNil(t, remaining)
	assert.Equal(t, 2, *remaining)

	exhausted := &model.Subscription{DailyMessageCount: 7, DailyMessageLimit: 5}
	assert.Equal(t, 0, *RemainingMessages(exhausted))
}
