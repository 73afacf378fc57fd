// Package entitlement computes premium access rights from a user's
// subscription record. Every screen that needs a gating decision goes
// through this package instead of re-deriving "is premium" on its own.
package entitlement

import (
	"time"

	"github.com/caretrack/backend/internal/domain"
)

// Status is the computed entitlement state at a given instant.
type Status string

const (
	// StatusNone means no usable record: never subscribed or deactivated.
	StatusNone Status = "none"
	// StatusActive means the subscription is valid with more than the
	// grace window remaining (or has no expiry at all).
	StatusActive Status = "active"
	// StatusExpiringSoon means the subscription is valid but inside the
	// renewal-prompt window. Access is still granted.
	StatusExpiringSoon Status = "expiring_soon"
	// StatusExpired means the expiry instant has passed.
	StatusExpired Status = "expired"
)

// ExpiringSoonDays is the grace window: the last N days before expiry
// during which access still works but a renewal prompt is shown. The
// boundary is inclusive — exactly N days left counts as expiring soon.
const ExpiringSoonDays = 7

// Clock supplies the current instant. Evaluation never reads the wall
// clock itself; callers inject a Clock so tests can pin time.
type Clock func() time.Time

// Evaluation is the result of evaluating a subscription record.
type Evaluation struct {
	Status Status `json:"status"`
	// DaysRemaining is nil when no expiry applies (no record, or an
	// indefinite grant). An expired subscription reports 0.
	DaysRemaining *int `json:"daysRemaining"`
}

// Allowed reports whether the status grants premium access. Expiring
// soon still grants access; only expired and none block.
func (e Evaluation) Allowed() bool {
	return e.Status == StatusActive || e.Status == StatusExpiringSoon
}

// Evaluate computes the entitlement status of a record at the instant
// now. It is pure: identical inputs always produce identical results.
//
// A nil record or a deactivated one evaluates to none. A nil ExpiresAt
// is an indefinite grant and evaluates to active, but only admin grants
// may be indefinite — anything else with no expiry is a data error.
func Evaluate(rec *domain.SubscriptionRecord, now time.Time) (Evaluation, error) {
	if rec == nil || !rec.IsActive {
		return Evaluation{Status: StatusNone}, nil
	}

	if rec.ExpiresAt == nil {
		if rec.SubscriptionType != domain.SubscriptionAdminGrant {
			return Evaluation{Status: StatusNone},
				domain.ErrData("subscription record has no expiry but is not an admin grant", nil)
		}
		return Evaluation{Status: StatusActive}, nil
	}

	delta := rec.ExpiresAt.Sub(now)
	if delta < 0 {
		zero := 0
		return Evaluation{Status: StatusExpired, DaysRemaining: &zero}, nil
	}

	// Whole days, rounded down. Expiring today (delta inside the same
	// day) is expiring_soon, not expired: expiry only triggers once the
	// instant has passed.
	days := int(delta / (24 * time.Hour))
	if days <= ExpiringSoonDays {
		return Evaluation{Status: StatusExpiringSoon, DaysRemaining: &days}, nil
	}
	return Evaluation{Status: StatusActive, DaysRemaining: &days}, nil
}

// NextExpiry is the renewal extension policy: extend from whichever of
// now and the current expiry is later, so early renewal never loses
// remaining time and an expired record restarts from now. An indefinite
// grant (nil expiry) is never shortened by a finite renewal.
//
// The authoritative implementation runs server-side in a single upsert
// (see repository.SubscriptionRepository.ExtendOrCreate); this function
// states the same contract in a form tests can pin down.
func NextExpiry(rec *domain.SubscriptionRecord, now time.Time, period time.Duration) *time.Time {
	if rec == nil {
		t := now.Add(period)
		return &t
	}
	if rec.ExpiresAt == nil {
		return nil
	}
	base := now
	if rec.ExpiresAt.After(now) {
		base = *rec.ExpiresAt
	}
	t := base.Add(period)
	return &t
}
