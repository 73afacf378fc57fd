package repository

import (
	"context"
	"fmt"

	"github.com/caretrack/backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BookingRepository handles database operations for hospital bookings.
type BookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingColumns = `id, user_id, hospital, department, preferred_date, reason, status, created_at, updated_at`

func scanBooking(row pgx.Row) (*domain.HospitalBooking, error) {
	var b domain.HospitalBooking
	err := row.Scan(
		&b.ID, &b.UserID, &b.Hospital, &b.Department, &b.PreferredDate,
		&b.Reason, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Create inserts a new booking.
func (r *BookingRepository) Create(ctx context.Context, b *domain.HospitalBooking) error {
	query := `
		INSERT INTO hospital_bookings (id, user_id, hospital, department, preferred_date, reason, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(ctx, query,
		b.ID, b.UserID, b.Hospital, b.Department, b.PreferredDate,
		b.Reason, b.Status, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

// FindByID returns a booking by ID, or nil if it does not exist.
func (r *BookingRepository) FindByID(ctx context.Context, id string) (*domain.HospitalBooking, error) {
	query := `SELECT ` + bookingColumns + ` FROM hospital_bookings WHERE id = $1`
	b, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}
	return b, nil
}

// ListByUserID returns a patient's bookings, newest first.
func (r *BookingRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.HospitalBooking, error) {
	query := `SELECT ` + bookingColumns + ` FROM hospital_bookings WHERE user_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, userID)
}

// ListAll returns every booking, newest first (admin view).
func (r *BookingRepository) ListAll(ctx context.Context) ([]*domain.HospitalBooking, error) {
	query := `SELECT ` + bookingColumns + ` FROM hospital_bookings ORDER BY created_at DESC`
	return r.list(ctx, query)
}

func (r *BookingRepository) list(ctx context.Context, query string, args ...any) ([]*domain.HospitalBooking, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*domain.HospitalBooking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// UpdateStatus confirms or cancels a booking. Returns nil when it does
// not exist.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) (*domain.HospitalBooking, error) {
	query := `
		UPDATE hospital_bookings SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + bookingColumns
	b, err := scanBooking(r.db.QueryRow(ctx, query, id, status))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}
	return b, nil
}
