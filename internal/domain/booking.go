package domain

import "time"

// BookingStatus is the lifecycle state of a hospital appointment.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

// HospitalBooking is a patient's appointment request.
type HospitalBooking struct {
	ID            string        `json:"id"`
	UserID        string        `json:"userId"`
	Hospital      string        `json:"hospital"`
	Department    string        `json:"department"`
	PreferredDate time.Time     `json:"preferredDate"`
	Reason        string        `json:"reason"`
	Status        BookingStatus `json:"status"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// CreateBookingRequest is the input for requesting an appointment.
type CreateBookingRequest struct {
	Hospital      string `json:"hospital" validate:"required,min=2,max=200"`
	Department    string `json:"department" validate:"required,min=2,max=100"`
	PreferredDate string `json:"preferredDate" validate:"required,datetime=2006-01-02"`
	Reason        string `json:"reason" validate:"omitempty,max=500"`
}

// UpdateBookingStatusRequest is the admin input for confirming or
// cancelling an appointment.
type UpdateBookingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed cancelled"`
}
