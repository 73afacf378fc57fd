package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/caretrack/backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SubscriptionRepository handles database operations for premium records.
type SubscriptionRepository struct {
	db *pgxpool.Pool
}

func NewSubscriptionRepository(db *pgxpool.Pool) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

const subscriptionColumns = `user_id, subscription_type, added_by, expires_at, is_active, notes, created_at, updated_at`

func scanSubscription(row pgx.Row) (*domain.SubscriptionRecord, error) {
	var rec domain.SubscriptionRecord
	err := row.Scan(
		&rec.UserID, &rec.SubscriptionType, &rec.AddedBy,
		&rec.ExpiresAt, &rec.IsActive, &rec.Notes,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetByUserID returns the premium record for a user, or nil if none exists.
func (r *SubscriptionRepository) GetByUserID(ctx context.Context, userID string) (*domain.SubscriptionRecord, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM premium_users WHERE user_id = $1`
	rec, err := scanSubscription(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find premium record: %w", err)
	}
	return rec, nil
}

// ExtendOrCreate creates a premium record expiring period from now, or
// extends an existing one from the later of now and its current expiry.
// The extension runs inside a single upsert so two concurrent renewals
// cannot lose an update. An indefinite record (NULL expires_at) is left
// untouched: a finite renewal never shortens it, and its type and
// provenance stay as granted — a NULL expiry on anything but an admin
// grant is an invalid record.
func (r *SubscriptionRepository) ExtendOrCreate(ctx context.Context, userID string, subType domain.SubscriptionType, addedBy string, period time.Duration, notes string) (*domain.SubscriptionRecord, error) {
	query := `
		INSERT INTO premium_users (user_id, subscription_type, added_by, expires_at, is_active, notes, created_at, updated_at)
		VALUES ($1, $2, $3, NOW() + make_interval(secs => $4), TRUE, $5, NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			subscription_type = CASE
				WHEN premium_users.expires_at IS NULL THEN premium_users.subscription_type
				ELSE EXCLUDED.subscription_type
			END,
			added_by = CASE
				WHEN premium_users.expires_at IS NULL THEN premium_users.added_by
				ELSE EXCLUDED.added_by
			END,
			expires_at = CASE
				WHEN premium_users.expires_at IS NULL THEN NULL
				ELSE GREATEST(premium_users.expires_at, NOW()) + make_interval(secs => $4)
			END,
			is_active  = TRUE,
			notes      = CASE WHEN $5 <> '' THEN $5 ELSE premium_users.notes END,
			updated_at = NOW()
		RETURNING ` + subscriptionColumns
	rec, err := scanSubscription(r.db.QueryRow(ctx, query, userID, subType, addedBy, period.Seconds(), notes))
	if err != nil {
		return nil, fmt.Errorf("failed to extend premium record: %w", err)
	}
	return rec, nil
}

// GrantIndefinite creates or converts a record into an indefinite admin
// grant (no expiry).
func (r *SubscriptionRepository) GrantIndefinite(ctx context.Context, userID, addedBy, notes string) (*domain.SubscriptionRecord, error) {
	query := `
		INSERT INTO premium_users (user_id, subscription_type, added_by, expires_at, is_active, notes, created_at, updated_at)
		VALUES ($1, $2, $3, NULL, TRUE, $4, NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			subscription_type = EXCLUDED.subscription_type,
			added_by          = EXCLUDED.added_by,
			expires_at        = NULL,
			is_active         = TRUE,
			notes             = CASE WHEN $4 <> '' THEN $4 ELSE premium_users.notes END,
			updated_at        = NOW()
		RETURNING ` + subscriptionColumns
	rec, err := scanSubscription(r.db.QueryRow(ctx, query, userID, domain.SubscriptionAdminGrant, addedBy, notes))
	if err != nil {
		return nil, fmt.Errorf("failed to grant premium record: %w", err)
	}
	return rec, nil
}

// SetActive flips the activity flag without touching the expiry. Returns
// nil when no record exists for the user.
func (r *SubscriptionRepository) SetActive(ctx context.Context, userID string, active bool) (*domain.SubscriptionRecord, error) {
	query := `
		UPDATE premium_users SET is_active = $2, updated_at = NOW()
		WHERE user_id = $1
		RETURNING ` + subscriptionColumns
	rec, err := scanSubscription(r.db.QueryRow(ctx, query, userID, active))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update premium record: %w", err)
	}
	return rec, nil
}

// ListAll returns every premium record, newest first.
func (r *SubscriptionRepository) ListAll(ctx context.Context) ([]*domain.SubscriptionRecord, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM premium_users ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list premium records: %w", err)
	}
	defer rows.Close()

	var records []*domain.SubscriptionRecord
	for rows.Next() {
		rec, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan premium record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
