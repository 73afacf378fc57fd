package service

import (
	"context"
	"time"

	"github.com/caretrack/backend/internal/domain"
	"github.com/caretrack/backend/internal/repository"
	"github.com/google/uuid"
)

// MealService tracks meal-plan completions.
type MealService struct {
	repo *repository.MealRepository
}

func NewMealService(repo *repository.MealRepository) *MealService {
	return &MealService{repo: repo}
}

func parseDay(s string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, domain.ErrValidation("day must be YYYY-MM-DD")
	}
	return d, nil
}

// Complete marks a meal as eaten for the given day.
func (s *MealService) Complete(ctx context.Context, userID string, req *domain.CompleteMealRequest) (*domain.MealCompletion, error) {
	day, err := parseDay(req.Day)
	if err != nil {
		return nil, err
	}

	c := &domain.MealCompletion{
		ID:          uuid.New().String(),
		UserID:      userID,
		Day:         day,
		MealType:    domain.MealType(req.MealType),
		CompletedAt: time.Now(),
	}
	saved, err := s.repo.MarkCompleted(ctx, c)
	if err != nil {
		return nil, domain.ErrStore("failed to mark meal completed", err)
	}
	return saved, nil
}

// Uncomplete removes a completion mark.
func (s *MealService) Uncomplete(ctx context.Context, userID string, req *domain.CompleteMealRequest) error {
	day, err := parseDay(req.Day)
	if err != nil {
		return err
	}
	if err := s.repo.Unmark(ctx, userID, day, domain.MealType(req.MealType)); err != nil {
		return domain.ErrStore("failed to unmark meal", err)
	}
	return nil
}

// ListRange returns completions between two days inclusive. from and to
// default to the last seven days when empty.
func (s *MealService) ListRange(ctx context.Context, userID, fromStr, toStr string) ([]*domain.MealCompletion, error) {
	to := time.Now()
	from := to.AddDate(0, 0, -7)

	if fromStr != "" {
		d, err := parseDay(fromStr)
		if err != nil {
			return nil, err
		}
		from = d
	}
	if toStr != "" {
		d, err := parseDay(toStr)
		if err != nil {
			return nil, err
		}
		to = d
	}
	if to.Before(from) {
		return nil, domain.ErrValidation("to must not be before from")
	}

	completions, err := s.repo.ListByRange(ctx, userID, from, to)
	if err != nil {
		return nil, domain.ErrStore("failed to list meal completions", err)
	}
	return completions, nil
}
