package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/caretrack/backend/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MealRepository handles database operations for meal completions.
type MealRepository struct {
	db *pgxpool.Pool
}

func NewMealRepository(db *pgxpool.Pool) *MealRepository {
	return &MealRepository{db: db}
}

// MarkCompleted records a meal as eaten. Marking an already-completed
// meal is a no-op that keeps the original completion time.
func (r *MealRepository) MarkCompleted(ctx context.Context, c *domain.MealCompletion) (*domain.MealCompletion, error) {
	query := `
		INSERT INTO meal_completions (id, user_id, day, meal_type, completed_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, day, meal_type) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING id, user_id, day, meal_type, completed_at
	`
	var saved domain.MealCompletion
	err := r.db.QueryRow(ctx, query, c.ID, c.UserID, c.Day, c.MealType, c.CompletedAt).
		Scan(&saved.ID, &saved.UserID, &saved.Day, &saved.MealType, &saved.CompletedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to mark meal completed: %w", err)
	}
	return &saved, nil
}

// Unmark removes a completion mark.
func (r *MealRepository) Unmark(ctx context.Context, userID string, day time.Time, meal domain.MealType) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM meal_completions WHERE user_id = $1 AND day = $2 AND meal_type = $3`,
		userID, day, meal,
	)
	if err != nil {
		return fmt.Errorf("failed to unmark meal: %w", err)
	}
	return nil
}

// ListByRange returns a patient's completions between from and to inclusive.
func (r *MealRepository) ListByRange(ctx context.Context, userID string, from, to time.Time) ([]*domain.MealCompletion, error) {
	query := `
		SELECT id, user_id, day, meal_type, completed_at
		FROM meal_completions
		WHERE user_id = $1 AND day BETWEEN $2 AND $3
		ORDER BY day, meal_type
	`
	rows, err := r.db.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list meal completions: %w", err)
	}
	defer rows.Close()

	var completions []*domain.MealCompletion
	for rows.Next() {
		var c domain.MealCompletion
		if err := rows.Scan(&c.ID, &c.UserID, &c.Day, &c.MealType, &c.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan meal completion: %w", err)
		}
		completions = append(completions, &c)
	}
	return completions, rows.Err()
}
