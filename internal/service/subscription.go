package service

import (
	"context"
	"strings"
	"time"

	"github.com/caretrack/backend/internal/domain"
	"github.com/caretrack/backend/internal/entitlement"
)

// SubscriptionStore is the narrow persistence interface the service
// needs. ExtendOrCreate must apply the extend-from-later-of-now-and-
// expiry policy atomically (see entitlement.NextExpiry for the contract).
type SubscriptionStore interface {
	GetByUserID(ctx context.Context, userID string) (*domain.SubscriptionRecord, error)
	ExtendOrCreate(ctx context.Context, userID string, subType domain.SubscriptionType, addedBy string, period time.Duration, notes string) (*domain.SubscriptionRecord, error)
	GrantIndefinite(ctx context.Context, userID, addedBy, notes string) (*domain.SubscriptionRecord, error)
	SetActive(ctx context.Context, userID string, active bool) (*domain.SubscriptionRecord, error)
	ListAll(ctx context.Context) ([]*domain.SubscriptionRecord, error)
}

// RecordCache is the optional read-through cache in front of the store.
// Satisfied by *repository.SubscriptionCache. A cache failure looks like
// a miss: callers fall through to the store, it never substitutes for a
// store error.
type RecordCache interface {
	Get(ctx context.Context, userID string) (*domain.SubscriptionRecord, bool)
	Set(ctx context.Context, rec *domain.SubscriptionRecord)
	Invalidate(ctx context.Context, userID string)
}

// PremiumStatus is the evaluation of a user's subscription plus the
// underlying record, as returned to the presentation layer.
type PremiumStatus struct {
	entitlement.Evaluation
	Record *domain.SubscriptionRecord `json:"record,omitempty"`
}

// AdminPremiumEntry is one row of the admin premium manager list.
type AdminPremiumEntry struct {
	Record *domain.SubscriptionRecord `json:"record"`
	entitlement.Evaluation
}

// SubscriptionService evaluates entitlements and orchestrates renewals.
// It holds no state between calls; all state lives in the store.
type SubscriptionService struct {
	store SubscriptionStore
	cache RecordCache // nil when caching is disabled
	clock entitlement.Clock
}

// NewSubscriptionService creates a SubscriptionService. cache may be
// nil; clock defaults to time.Now when nil.
func NewSubscriptionService(store SubscriptionStore, cache RecordCache, clock entitlement.Clock) *SubscriptionService {
	if clock == nil {
		clock = time.Now
	}
	return &SubscriptionService{store: store, cache: cache, clock: clock}
}

func (s *SubscriptionService) fetchRecord(ctx context.Context, userID string) (*domain.SubscriptionRecord, error) {
	if s.cache != nil {
		if rec, ok := s.cache.Get(ctx, userID); ok {
			return rec, nil
		}
	}
	rec, err := s.store.GetByUserID(ctx, userID)
	if err != nil {
		// A store failure must surface as an error; treating it as
		// "no subscription" would downgrade a paying user.
		return nil, domain.ErrStore("failed to load subscription record", err)
	}
	if s.cache != nil && rec != nil {
		s.cache.Set(ctx, rec)
	}
	return rec, nil
}

// Status fetches the user's record and evaluates it at the current
// instant. A user with no record gets status none.
func (s *SubscriptionService) Status(ctx context.Context, userID string) (*PremiumStatus, error) {
	rec, err := s.fetchRecord(ctx, userID)
	if err != nil {
		return nil, err
	}
	eval, err := entitlement.Evaluate(rec, s.clock())
	if err != nil {
		return nil, err
	}
	return &PremiumStatus{Evaluation: eval, Record: rec}, nil
}

// Renew extends or creates the user's subscription by period. grantedBy
// records provenance; a granter of "admin" (or "admin:<id>") produces an
// admin_grant record, anything else a paid one. The extension itself is
// a single atomic store upsert, so concurrent renewals cannot lose an
// update — but each call extends, so the caller must not invoke Renew
// twice for one user action.
func (s *SubscriptionService) Renew(ctx context.Context, userID string, period time.Duration, grantedBy string) (*PremiumStatus, error) {
	if period <= 0 {
		return nil, domain.ErrValidation("renewal period must be positive")
	}

	subType := domain.SubscriptionPaid
	if grantedBy == "admin" || strings.HasPrefix(grantedBy, "admin:") {
		subType = domain.SubscriptionAdminGrant
	}

	rec, err := s.store.ExtendOrCreate(ctx, userID, subType, grantedBy, period, "")
	if err != nil {
		return nil, domain.ErrStore("failed to renew subscription", err)
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, userID)
	}

	// Re-evaluate against the written record so the caller sees the
	// post-renewal state without a separate fetch.
	eval, err := entitlement.Evaluate(rec, s.clock())
	if err != nil {
		return nil, err
	}
	return &PremiumStatus{Evaluation: eval, Record: rec}, nil
}

// Grant is the admin path: a fixed-period or indefinite admin_grant.
func (s *SubscriptionService) Grant(ctx context.Context, req *domain.GrantRequest, adminID string) (*PremiumStatus, error) {
	addedBy := "admin:" + adminID

	if req.Indefinite {
		rec, err := s.store.GrantIndefinite(ctx, req.UserID, addedBy, req.Notes)
		if err != nil {
			return nil, domain.ErrStore("failed to grant subscription", err)
		}
		if s.cache != nil {
			s.cache.Invalidate(ctx, req.UserID)
		}
		eval, err := entitlement.Evaluate(rec, s.clock())
		if err != nil {
			return nil, err
		}
		return &PremiumStatus{Evaluation: eval, Record: rec}, nil
	}

	if req.Days <= 0 {
		return nil, domain.ErrValidation("days is required for a non-indefinite grant")
	}

	period := time.Duration(req.Days) * 24 * time.Hour
	rec, err := s.store.ExtendOrCreate(ctx, req.UserID, domain.SubscriptionAdminGrant, addedBy, period, req.Notes)
	if err != nil {
		return nil, domain.ErrStore("failed to grant subscription", err)
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, req.UserID)
	}
	eval, err := entitlement.Evaluate(rec, s.clock())
	if err != nil {
		return nil, err
	}
	return &PremiumStatus{Evaluation: eval, Record: rec}, nil
}

// Toggle flips a record's activity flag (admin deactivate/reactivate).
// It never deletes: an expired or deactivated record stays as history.
func (s *SubscriptionService) Toggle(ctx context.Context, userID string) (*domain.SubscriptionRecord, error) {
	rec, err := s.store.GetByUserID(ctx, userID)
	if err != nil {
		return nil, domain.ErrStore("failed to load subscription record", err)
	}
	if rec == nil {
		return nil, domain.ErrNotFound("no premium record for user")
	}

	updated, err := s.store.SetActive(ctx, userID, !rec.IsActive)
	if err != nil {
		return nil, domain.ErrStore("failed to toggle subscription", err)
	}
	if updated == nil {
		return nil, domain.ErrNotFound("no premium record for user")
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, userID)
	}
	return updated, nil
}

// List returns every premium record with its current evaluation
// attached (admin premium manager view).
func (s *SubscriptionService) List(ctx context.Context) ([]*AdminPremiumEntry, error) {
	records, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, domain.ErrStore("failed to list subscriptions", err)
	}

	now := s.clock()
	entries := make([]*AdminPremiumEntry, 0, len(records))
	for _, rec := range records {
		eval, err := entitlement.Evaluate(rec, now)
		if err != nil {
			// A single malformed row must not hide the whole list from
			// the admin; it shows up as none.
			eval = entitlement.Evaluation{Status: entitlement.StatusNone}
		}
		entries = append(entries, &AdminPremiumEntry{Record: rec, Evaluation: eval})
	}
	return entries, nil
}
