package domain

import "time"

// SubscriptionType says how a premium record came to exist.
type SubscriptionType string

const (
	SubscriptionFree       SubscriptionType = "free"
	SubscriptionPaid       SubscriptionType = "paid"
	SubscriptionAdminGrant SubscriptionType = "admin_grant"
)

// SubscriptionRecord is the persisted premium state for one user.
// There is at most one record per user; renewals and grants upsert it,
// admin deactivation flips IsActive, nothing ever deletes it.
type SubscriptionRecord struct {
	UserID           string           `json:"userId"`
	SubscriptionType SubscriptionType `json:"subscriptionType"`
	AddedBy          string           `json:"addedBy"`
	// ExpiresAt is nil for an indefinite admin grant. Expiry and
	// IsActive are orthogonal: a record can sit expired with
	// IsActive still true until a renewal or an admin touches it.
	ExpiresAt *time.Time `json:"expiresAt"`
	IsActive  bool       `json:"isActive"`
	Notes     string     `json:"notes"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// RenewRequest is the input for self-service renewal. Days defaults to
// the configured renewal period when omitted.
type RenewRequest struct {
	Days int `json:"days" validate:"omitempty,min=1,max=365"`
}

// GrantRequest is the admin input for granting premium access.
type GrantRequest struct {
	UserID     string `json:"userId" validate:"required"`
	Days       int    `json:"days" validate:"omitempty,min=1,max=3650"`
	Indefinite bool   `json:"indefinite"`
	Notes      string `json:"notes"`
}
