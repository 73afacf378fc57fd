package entitlement

import (
	"testing"
	"time"

	"github.com/caretrack/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func activeRecord(expiresAt *time.Time) *domain.SubscriptionRecord {
	return &domain.SubscriptionRecord{
		UserID:           "user-1",
		SubscriptionType: domain.SubscriptionPaid,
		AddedBy:          "subscription-flow:user-1",
		ExpiresAt:        expiresAt,
		IsActive:         true,
	}
}

func expiryIn(d time.Duration) *time.Time {
	t := now.Add(d)
	return &t
}

func TestEvaluateNoRecord(t *testing.T) {
	eval, err := Evaluate(nil, now)
	require.NoError(t, err)
	assert.Equal(t, StatusNone, eval.Status)
	assert.Nil(t, eval.DaysRemaining)

	// Regardless of now.
	eval, err = Evaluate(nil, now.AddDate(10, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, StatusNone, eval.Status)
}

func TestEvaluateDeactivatedRecord(t *testing.T) {
	rec := activeRecord(expiryIn(30 * 24 * time.Hour))
	rec.IsActive = false

	eval, err := Evaluate(rec, now)
	require.NoError(t, err)
	assert.Equal(t, StatusNone, eval.Status)
	assert.Nil(t, eval.DaysRemaining)
}

func TestEvaluateIndefiniteAdminGrant(t *testing.T) {
	rec := activeRecord(nil)
	rec.SubscriptionType = domain.SubscriptionAdminGrant

	for _, at := range []time.Time{now, now.AddDate(0, 0, 1), now.AddDate(50, 0, 0)} {
		eval, err := Evaluate(rec, at)
		require.NoError(t, err)
		assert.Equal(t, StatusActive, eval.Status)
		assert.Nil(t, eval.DaysRemaining)
	}
}

func TestEvaluateMissingExpiryOnPaidRecord(t *testing.T) {
	// Only admin grants may be indefinite.
	eval, err := Evaluate(activeRecord(nil), now)
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindData))
	assert.Equal(t, StatusNone, eval.Status)
}

func TestEvaluateBoundaries(t *testing.T) {
	days := func(n int) *int { return &n }

	tests := []struct {
		name      string
		expiresIn time.Duration
		status    Status
		remaining *int
	}{
		{"expired one second ago", -time.Second, StatusExpired, days(0)},
		{"expired five days ago", -5 * 24 * time.Hour, StatusExpired, days(0)},
		{"expires this instant is not yet expired", 0, StatusExpiringSoon, days(0)},
		{"expires later today", 6 * time.Hour, StatusExpiringSoon, days(0)},
		{"expires tomorrow", 36 * time.Hour, StatusExpiringSoon, days(1)},
		{"exactly seven days is still expiring soon", 7 * 24 * time.Hour, StatusExpiringSoon, days(7)},
		{"eight days is active", 8 * 24 * time.Hour, StatusActive, days(8)},
		{"thirty days is active", 30 * 24 * time.Hour, StatusActive, days(30)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eval, err := Evaluate(activeRecord(expiryIn(tt.expiresIn)), now)
			require.NoError(t, err)
			assert.Equal(t, tt.status, eval.Status)
			require.NotNil(t, eval.DaysRemaining)
			assert.Equal(t, *tt.remaining, *eval.DaysRemaining)
		})
	}
}

func TestEvaluateIsPure(t *testing.T) {
	rec := activeRecord(expiryIn(3 * 24 * time.Hour))

	first, err := Evaluate(rec, now)
	require.NoError(t, err)
	second, err := Evaluate(rec, now)
	require.NoError(t, err)

	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, *first.DaysRemaining, *second.DaysRemaining)
}

func TestEvaluationAllowed(t *testing.T) {
	assert.True(t, Evaluation{Status: StatusActive}.Allowed())
	assert.True(t, Evaluation{Status: StatusExpiringSoon}.Allowed())
	assert.False(t, Evaluation{Status: StatusExpired}.Allowed())
	assert.False(t, Evaluation{Status: StatusNone}.Allowed())
}

func TestNextExpiryCreatesFromNow(t *testing.T) {
	got := NextExpiry(nil, now, 30*24*time.Hour)
	require.NotNil(t, got)
	assert.Equal(t, now.Add(30*24*time.Hour), *got)
}

func TestNextExpiryPreservesRemainingTime(t *testing.T) {
	// Renewing 10 days early keeps the unused 10 days.
	rec := activeRecord(expiryIn(10 * 24 * time.Hour))
	got := NextExpiry(rec, now, 30*24*time.Hour)
	require.NotNil(t, got)
	assert.Equal(t, now.Add(40*24*time.Hour), *got)
}

func TestNextExpiryRestartsFromNowWhenExpired(t *testing.T) {
	// Time spent expired is not carried forward.
	rec := activeRecord(expiryIn(-5 * 24 * time.Hour))
	got := NextExpiry(rec, now, 30*24*time.Hour)
	require.NotNil(t, got)
	assert.Equal(t, now.Add(30*24*time.Hour), *got)
}

func TestNextExpiryNeverShortensIndefiniteGrant(t *testing.T) {
	rec := activeRecord(nil)
	rec.SubscriptionType = domain.SubscriptionAdminGrant
	assert.Nil(t, NextExpiry(rec, now, 30*24*time.Hour))
}
