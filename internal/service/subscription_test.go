package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/caretrack/backend/internal/domain"
	"github.com/caretrack/backend/internal/entitlement"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func testClock() time.Time { return testNow }

// fakeSubscriptionStore implements SubscriptionStore in memory. Its
// ExtendOrCreate honours the same extend-from-later contract as the SQL
// upsert, via entitlement.NextExpiry.
type fakeSubscriptionStore struct {
	records  map[string]*domain.SubscriptionRecord
	failWith error
	reads    int
	writes   int
}

func newFakeStore() *fakeSubscriptionStore {
	return &fakeSubscriptionStore{records: make(map[string]*domain.SubscriptionRecord)}
}

func (s *fakeSubscriptionStore) GetByUserID(_ context.Context, userID string) (*domain.SubscriptionRecord, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	s.reads++
	rec, ok := s.records[userID]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (s *fakeSubscriptionStore) ExtendOrCreate(_ context.Context, userID string, subType domain.SubscriptionType, addedBy string, period time.Duration, notes string) (*domain.SubscriptionRecord, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	s.writes++

	existing := s.records[userID]
	rec := &domain.SubscriptionRecord{
		UserID:           userID,
		SubscriptionType: subType,
		AddedBy:          addedBy,
		ExpiresAt:        entitlement.NextExpiry(existing, testNow, period),
		IsActive:         true,
		Notes:            notes,
		CreatedAt:        testNow,
		UpdatedAt:        testNow,
	}
	if existing != nil {
		rec.CreatedAt = existing.CreatedAt
		if notes == "" {
			rec.Notes = existing.Notes
		}
		// An indefinite record keeps its type and provenance; only the
		// expiry of a finite record is extended.
		if existing.ExpiresAt == nil {
			rec.SubscriptionType = existing.SubscriptionType
			rec.AddedBy = existing.AddedBy
		}
	}
	s.records[userID] = rec
	cp := *rec
	return &cp, nil
}

func (s *fakeSubscriptionStore) GrantIndefinite(_ context.Context, userID, addedBy, notes string) (*domain.SubscriptionRecord, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	s.writes++
	rec := &domain.SubscriptionRecord{
		UserID:           userID,
		SubscriptionType: domain.SubscriptionAdminGrant,
		AddedBy:          addedBy,
		IsActive:         true,
		Notes:            notes,
		CreatedAt:        testNow,
		UpdatedAt:        testNow,
	}
	s.records[userID] = rec
	cp := *rec
	return &cp, nil
}

func (s *fakeSubscriptionStore) SetActive(_ context.Context, userID string, active bool) (*domain.SubscriptionRecord, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	rec, ok := s.records[userID]
	if !ok {
		return nil, nil
	}
	rec.IsActive = active
	rec.UpdatedAt = testNow
	cp := *rec
	return &cp, nil
}

func (s *fakeSubscriptionStore) ListAll(_ context.Context) ([]*domain.SubscriptionRecord, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	var out []*domain.SubscriptionRecord
	for _, rec := range s.records {
		cp := *rec
		out = append(out, &cp)
	}
	return out, nil
}

func (s *fakeSubscriptionStore) seed(userID string, expiresAt *time.Time, active bool) {
	s.records[userID] = &domain.SubscriptionRecord{
		UserID:           userID,
		SubscriptionType: domain.SubscriptionPaid,
		AddedBy:          "subscription-flow:" + userID,
		ExpiresAt:        expiresAt,
		IsActive:         active,
		CreatedAt:        testNow.AddDate(0, -1, 0),
		UpdatedAt:        testNow.AddDate(0, -1, 0),
	}
}

func expiryIn(d time.Duration) *time.Time {
	t := testNow.Add(d)
	return &t
}

// fakeRecordCache implements RecordCache in memory. With failing set it
// behaves like an unreachable Redis: every read misses, every write is
// dropped.
type fakeRecordCache struct {
	entries       map[string]*domain.SubscriptionRecord
	failing       bool
	sets          int
	invalidations int
}

func newFakeCache() *fakeRecordCache {
	return &fakeRecordCache{entries: make(map[string]*domain.SubscriptionRecord)}
}

func (c *fakeRecordCache) Get(_ context.Context, userID string) (*domain.SubscriptionRecord, bool) {
	if c.failing {
		return nil, false
	}
	rec, ok := c.entries[userID]
	if !ok {
		return nil, false
	}
	cp := *rec
	return &cp, true
}

func (c *fakeRecordCache) Set(_ context.Context, rec *domain.SubscriptionRecord) {
	if c.failing {
		return
	}
	c.sets++
	cp := *rec
	c.entries[rec.UserID] = &cp
}

func (c *fakeRecordCache) Invalidate(_ context.Context, userID string) {
	c.invalidations++
	delete(c.entries, userID)
}

func TestStatusNoRecord(t *testing.T) {
	svc := NewSubscriptionService(newFakeStore(), nil, testClock)

	status, err := svc.Status(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, entitlement.StatusNone, status.Status)
	assert.Nil(t, status.Record)
}

func TestStatusStoreFailureIsNotDowngraded(t *testing.T) {
	store := newFakeStore()
	store.failWith = errors.New("connection refused")
	svc := NewSubscriptionService(store, nil, testClock)

	_, err := svc.Status(context.Background(), "user-1")
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindStore))
}

func TestStatusActiveRecord(t *testing.T) {
	store := newFakeStore()
	store.seed("user-1", expiryIn(30*24*time.Hour), true)
	svc := NewSubscriptionService(store, nil, testClock)

	status, err := svc.Status(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, entitlement.StatusActive, status.Status)
	require.NotNil(t, status.DaysRemaining)
	assert.Equal(t, 30, *status.DaysRemaining)
	require.NotNil(t, status.Record)
	assert.Equal(t, "user-1", status.Record.UserID)
}

func TestRenewRejectsNonPositivePeriod(t *testing.T) {
	store := newFakeStore()
	svc := NewSubscriptionService(store, nil, testClock)

	for _, period := range []time.Duration{0, -24 * time.Hour} {
		_, err := svc.Renew(context.Background(), "user-1", period, "subscription-flow:user-1")
		require.Error(t, err)
		assert.True(t, domain.IsKind(err, domain.KindValidation))
	}
	// Rejected before any store call.
	assert.Equal(t, 0, store.writes)
}

func TestRenewCreatesRecord(t *testing.T) {
	store := newFakeStore()
	svc := NewSubscriptionService(store, nil, testClock)

	status, err := svc.Renew(context.Background(), "user-1", 30*24*time.Hour, "subscription-flow:user-1")
	require.NoError(t, err)
	assert.Equal(t, entitlement.StatusActive, status.Status)
	require.NotNil(t, status.Record)
	assert.Equal(t, domain.SubscriptionPaid, status.Record.SubscriptionType)
	assert.True(t, status.Record.IsActive)
	require.NotNil(t, status.Record.ExpiresAt)
	assert.Equal(t, testNow.Add(30*24*time.Hour), *status.Record.ExpiresAt)
}

func TestRenewPreservesRemainingTime(t *testing.T) {
	store := newFakeStore()
	store.seed("user-1", expiryIn(10*24*time.Hour), true)
	svc := NewSubscriptionService(store, nil, testClock)

	status, err := svc.Renew(context.Background(), "user-1", 30*24*time.Hour, "subscription-flow:user-1")
	require.NoError(t, err)
	require.NotNil(t, status.Record.ExpiresAt)
	assert.Equal(t, testNow.Add(40*24*time.Hour), *status.Record.ExpiresAt)
}

func TestRenewOnExpiredRecordRestartsFromNow(t *testing.T) {
	store := newFakeStore()
	store.seed("user-1", expiryIn(-5*24*time.Hour), true)
	svc := NewSubscriptionService(store, nil, testClock)

	status, err := svc.Renew(context.Background(), "user-1", 30*24*time.Hour, "subscription-flow:user-1")
	require.NoError(t, err)
	require.NotNil(t, status.Record.ExpiresAt)
	assert.Equal(t, testNow.Add(30*24*time.Hour), *status.Record.ExpiresAt)
	assert.Equal(t, entitlement.StatusActive, status.Status)
}

func TestRenewOverIndefiniteGrantLeavesItIntact(t *testing.T) {
	store := newFakeStore()
	svc := NewSubscriptionService(store, nil, testClock)

	_, err := svc.Grant(context.Background(), &domain.GrantRequest{
		UserID:     "user-1",
		Indefinite: true,
	}, "root")
	require.NoError(t, err)

	// A self-service renewal must not demote the indefinite grant into
	// a paid record with no expiry.
	status, err := svc.Renew(context.Background(), "user-1", 30*24*time.Hour, "subscription-flow:user-1")
	require.NoError(t, err)
	assert.Equal(t, entitlement.StatusActive, status.Status)
	assert.Nil(t, status.DaysRemaining)
	assert.Equal(t, domain.SubscriptionAdminGrant, status.Record.SubscriptionType)
	assert.Equal(t, "admin:root", status.Record.AddedBy)
	assert.Nil(t, status.Record.ExpiresAt)

	// And the record stays readable afterwards.
	status, err = svc.Status(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, entitlement.StatusActive, status.Status)
}

func TestRenewByAdminProducesAdminGrant(t *testing.T) {
	store := newFakeStore()
	svc := NewSubscriptionService(store, nil, testClock)

	status, err := svc.Renew(context.Background(), "user-1", 30*24*time.Hour, "admin:root")
	require.NoError(t, err)
	assert.Equal(t, domain.SubscriptionAdminGrant, status.Record.SubscriptionType)
}

func TestRenewSurfacesStoreError(t *testing.T) {
	store := newFakeStore()
	store.failWith = errors.New("write rejected")
	svc := NewSubscriptionService(store, nil, testClock)

	_, err := svc.Renew(context.Background(), "user-1", 30*24*time.Hour, "subscription-flow:user-1")
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindStore))
}

func TestGrantIndefinite(t *testing.T) {
	store := newFakeStore()
	svc := NewSubscriptionService(store, nil, testClock)

	status, err := svc.Grant(context.Background(), &domain.GrantRequest{
		UserID:     "user-1",
		Indefinite: true,
		Notes:      "long-term program participant",
	}, "root")
	require.NoError(t, err)
	assert.Equal(t, entitlement.StatusActive, status.Status)
	assert.Nil(t, status.DaysRemaining)
	assert.Equal(t, domain.SubscriptionAdminGrant, status.Record.SubscriptionType)
	assert.Equal(t, "admin:root", status.Record.AddedBy)
	assert.Nil(t, status.Record.ExpiresAt)
}

func TestGrantRequiresDaysWhenNotIndefinite(t *testing.T) {
	store := newFakeStore()
	svc := NewSubscriptionService(store, nil, testClock)

	_, err := svc.Grant(context.Background(), &domain.GrantRequest{UserID: "user-1"}, "root")
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindValidation))
	assert.Equal(t, 0, store.writes)
}

func TestGrantFixedPeriod(t *testing.T) {
	store := newFakeStore()
	svc := NewSubscriptionService(store, nil, testClock)

	status, err := svc.Grant(context.Background(), &domain.GrantRequest{UserID: "user-1", Days: 90}, "root")
	require.NoError(t, err)
	require.NotNil(t, status.Record.ExpiresAt)
	assert.Equal(t, testNow.Add(90*24*time.Hour), *status.Record.ExpiresAt)
	assert.Equal(t, domain.SubscriptionAdminGrant, status.Record.SubscriptionType)
}

func TestToggleFlipsActivity(t *testing.T) {
	store := newFakeStore()
	store.seed("user-1", expiryIn(30*24*time.Hour), true)
	svc := NewSubscriptionService(store, nil, testClock)

	rec, err := svc.Toggle(context.Background(), "user-1")
	require.NoError(t, err)
	assert.False(t, rec.IsActive)

	// Deactivation hides the entitlement but keeps the record.
	status, err := svc.Status(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, entitlement.StatusNone, status.Status)

	rec, err = svc.Toggle(context.Background(), "user-1")
	require.NoError(t, err)
	assert.True(t, rec.IsActive)
}

func TestToggleUnknownUser(t *testing.T) {
	svc := NewSubscriptionService(newFakeStore(), nil, testClock)

	_, err := svc.Toggle(context.Background(), "nobody")
	require.Error(t, err)
	appErr, ok := domain.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.Code)
}

func TestListAttachesEvaluations(t *testing.T) {
	store := newFakeStore()
	store.seed("active", expiryIn(30*24*time.Hour), true)
	store.seed("expired", expiryIn(-24*time.Hour), true)
	store.seed("deactivated", expiryIn(30*24*time.Hour), false)
	svc := NewSubscriptionService(store, nil, testClock)

	entries, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 3)

	byUser := make(map[string]entitlement.Status)
	for _, e := range entries {
		byUser[e.Record.UserID] = e.Status
	}
	assert.Equal(t, entitlement.StatusActive, byUser["active"])
	assert.Equal(t, entitlement.StatusExpired, byUser["expired"])
	assert.Equal(t, entitlement.StatusNone, byUser["deactivated"])
}

func TestStatusPopulatesAndServesFromCache(t *testing.T) {
	store := newFakeStore()
	store.seed("user-1", expiryIn(30*24*time.Hour), true)
	cache := newFakeCache()
	svc := NewSubscriptionService(store, cache, testClock)

	status, err := svc.Status(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, entitlement.StatusActive, status.Status)
	assert.Equal(t, 1, store.reads)
	assert.Equal(t, 1, cache.sets)

	// Second read is served from the cache without touching the store.
	status, err = svc.Status(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, entitlement.StatusActive, status.Status)
	assert.Equal(t, 1, store.reads)
}

func TestStatusCacheFailureFallsThroughToStore(t *testing.T) {
	store := newFakeStore()
	store.seed("user-1", expiryIn(30*24*time.Hour), true)
	cache := newFakeCache()
	cache.failing = true
	svc := NewSubscriptionService(store, cache, testClock)

	// An unreachable cache is only ever a miss, never an error and
	// never a downgrade to "no subscription".
	status, err := svc.Status(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, entitlement.StatusActive, status.Status)
	assert.Equal(t, 1, store.reads)
}

func TestRenewInvalidatesCache(t *testing.T) {
	store := newFakeStore()
	store.seed("user-1", expiryIn(10*24*time.Hour), true)
	cache := newFakeCache()
	svc := NewSubscriptionService(store, cache, testClock)

	_, err := svc.Status(context.Background(), "user-1")
	require.NoError(t, err)

	_, err = svc.Renew(context.Background(), "user-1", 30*24*time.Hour, "subscription-flow:user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, cache.invalidations)

	// The next status read sees the extended expiry, not a stale entry.
	status, err := svc.Status(context.Background(), "user-1")
	require.NoError(t, err)
	require.NotNil(t, status.Record.ExpiresAt)
	assert.Equal(t, testNow.Add(40*24*time.Hour), *status.Record.ExpiresAt)
}

func TestGrantInvalidatesCache(t *testing.T) {
	store := newFakeStore()
	store.seed("user-1", expiryIn(-24*time.Hour), true)
	cache := newFakeCache()
	svc := NewSubscriptionService(store, cache, testClock)

	_, err := svc.Status(context.Background(), "user-1")
	require.NoError(t, err)

	_, err = svc.Grant(context.Background(), &domain.GrantRequest{UserID: "user-1", Days: 90}, "root")
	require.NoError(t, err)
	assert.Equal(t, 1, cache.invalidations)

	status, err := svc.Status(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, entitlement.StatusActive, status.Status)
}

func TestToggleInvalidatesCache(t *testing.T) {
	store := newFakeStore()
	store.seed("user-1", expiryIn(30*24*time.Hour), true)
	cache := newFakeCache()
	svc := NewSubscriptionService(store, cache, testClock)

	_, err := svc.Status(context.Background(), "user-1")
	require.NoError(t, err)

	_, err = svc.Toggle(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, cache.invalidations)

	// Deactivation shows up immediately instead of being masked by a
	// cached active record.
	status, err := svc.Status(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, entitlement.StatusNone, status.Status)
}
