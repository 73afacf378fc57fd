package service

import (
	"context"
	"time"

	"github.com/caretrack/backend/internal/domain"
	"github.com/caretrack/backend/internal/repository"
	"github.com/google/uuid"
)

// BookingService manages hospital appointment bookings.
type BookingService struct {
	repo *repository.BookingRepository
}

func NewBookingService(repo *repository.BookingRepository) *BookingService {
	return &BookingService{repo: repo}
}

// Create requests a new appointment in pending state.
func (s *BookingService) Create(ctx context.Context, userID string, req *domain.CreateBookingRequest) (*domain.HospitalBooking, error) {
	date, err := time.Parse("2006-01-02", req.PreferredDate)
	if err != nil {
		return nil, domain.ErrValidation("preferredDate must be YYYY-MM-DD")
	}

	now := time.Now()
	b := &domain.HospitalBooking{
		ID:            uuid.New().String(),
		UserID:        userID,
		Hospital:      req.Hospital,
		Department:    req.Department,
		PreferredDate: date,
		Reason:        req.Reason,
		Status:        domain.BookingPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, domain.ErrStore("failed to create booking", err)
	}
	return b, nil
}

// ListMine returns the caller's bookings.
func (s *BookingService) ListMine(ctx context.Context, userID string) ([]*domain.HospitalBooking, error) {
	bookings, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, domain.ErrStore("failed to list bookings", err)
	}
	return bookings, nil
}

// Cancel lets a patient withdraw their own booking before it is confirmed.
func (s *BookingService) Cancel(ctx context.Context, userID, bookingID string) error {
	b, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return domain.ErrStore("failed to load booking", err)
	}
	if b == nil || b.UserID != userID {
		return domain.ErrNotFound("booking not found")
	}
	if b.Status != domain.BookingPending {
		return domain.ErrBadRequest("only pending bookings can be cancelled")
	}

	if _, err := s.repo.UpdateStatus(ctx, bookingID, domain.BookingCancelled); err != nil {
		return domain.ErrStore("failed to cancel booking", err)
	}
	return nil
}

// ListAll returns every booking (admin view).
func (s *BookingService) ListAll(ctx context.Context) ([]*domain.HospitalBooking, error) {
	bookings, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, domain.ErrStore("failed to list bookings", err)
	}
	return bookings, nil
}

// UpdateStatus confirms or cancels a booking (admin only).
func (s *BookingService) UpdateStatus(ctx context.Context, bookingID string, status domain.BookingStatus) (*domain.HospitalBooking, error) {
	b, err := s.repo.UpdateStatus(ctx, bookingID, status)
	if err != nil {
		return nil, domain.ErrStore("failed to update booking", err)
	}
	if b == nil {
		return nil, domain.ErrNotFound("booking not found")
	}
	return b, nil
}
