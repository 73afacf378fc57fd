package repository

import (
	"context"
	"fmt"

	"github.com/caretrack/backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProfileRepository handles database operations for patient profiles.
type ProfileRepository struct {
	db *pgxpool.Pool
}

func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{db: db}
}

const profileColumns = `user_id, full_name, email, phone, illness_type, date_of_birth, emergency_contact, created_at, updated_at`

func scanProfile(row pgx.Row) (*domain.Profile, error) {
	var p domain.Profile
	err := row.Scan(
		&p.UserID, &p.FullName, &p.Email, &p.Phone, &p.IllnessType,
		&p.DateOfBirth, &p.EmergencyContact, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByUserID returns a profile, or nil if the user has none yet.
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1`
	p, err := scanProfile(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}
	return p, nil
}

// Upsert creates or replaces the profile for a user.
func (r *ProfileRepository) Upsert(ctx context.Context, p *domain.Profile) (*domain.Profile, error) {
	query := `
		INSERT INTO profiles (user_id, full_name, email, phone, illness_type, date_of_birth, emergency_contact, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			full_name         = EXCLUDED.full_name,
			email             = EXCLUDED.email,
			phone             = EXCLUDED.phone,
			illness_type      = EXCLUDED.illness_type,
			date_of_birth     = EXCLUDED.date_of_birth,
			emergency_contact = EXCLUDED.emergency_contact,
			updated_at        = NOW()
		RETURNING ` + profileColumns
	saved, err := scanProfile(r.db.QueryRow(ctx, query,
		p.UserID, p.FullName, p.Email, p.Phone, p.IllnessType, p.DateOfBirth, p.EmergencyContact,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert profile: %w", err)
	}
	return saved, nil
}
