package service

import (
	"context"
	"time"

	"github.com/caretrack/backend/internal/domain"
	"github.com/caretrack/backend/internal/repository"
)

// ProfileService manages patient profiles.
type ProfileService struct {
	repo *repository.ProfileRepository
}

func NewProfileService(repo *repository.ProfileRepository) *ProfileService {
	return &ProfileService{repo: repo}
}

// Get returns the user's profile.
func (s *ProfileService) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	p, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, domain.ErrStore("failed to load profile", err)
	}
	if p == nil {
		return nil, domain.ErrNotFound("profile not found")
	}
	return p, nil
}

// Upsert creates or updates the user's profile.
func (s *ProfileService) Upsert(ctx context.Context, userID, email string, req *domain.UpsertProfileRequest) (*domain.Profile, error) {
	var dob *time.Time
	if req.DateOfBirth != "" {
		d, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			return nil, domain.ErrValidation("dateOfBirth must be YYYY-MM-DD")
		}
		dob = &d
	}

	p := &domain.Profile{
		UserID:           userID,
		FullName:         req.FullName,
		Email:            email,
		Phone:            req.Phone,
		IllnessType:      domain.IllnessType(req.IllnessType),
		DateOfBirth:      dob,
		EmergencyContact: req.EmergencyContact,
	}

	saved, err := s.repo.Upsert(ctx, p)
	if err != nil {
		return nil, domain.ErrStore("failed to save profile", err)
	}
	return saved, nil
}
