package domain

import "time"

// IllnessType selects which chronic-condition program a patient is on.
type IllnessType string

const (
	IllnessDiabetes      IllnessType = "diabetes"
	IllnessHypertension  IllnessType = "hypertension"
	IllnessHeartDisease  IllnessType = "heart_disease"
	IllnessKidneyDisease IllnessType = "kidney_disease"
)

// Profile holds patient-facing account details, one row per user.
type Profile struct {
	UserID           string      `json:"userId"`
	FullName         string      `json:"fullName"`
	Email            string      `json:"email"`
	Phone            string      `json:"phone"`
	IllnessType      IllnessType `json:"illnessType"`
	DateOfBirth      *time.Time  `json:"dateOfBirth"`
	EmergencyContact string      `json:"emergencyContact"`
	CreatedAt        time.Time   `json:"createdAt"`
	UpdatedAt        time.Time   `json:"updatedAt"`
}

// UpsertProfileRequest is the input for creating or updating a profile.
type UpsertProfileRequest struct {
	FullName         string `json:"fullName" validate:"required,min=2,max=120"`
	Phone            string `json:"phone" validate:"omitempty,min=7,max=20"`
	IllnessType      string `json:"illnessType" validate:"required,oneof=diabetes hypertension heart_disease kidney_disease"`
	DateOfBirth      string `json:"dateOfBirth" validate:"omitempty,datetime=2006-01-02"`
	EmergencyContact string `json:"emergencyContact" validate:"omitempty,max=120"`
}
