package handler

import (
	"net/http"

	"github.com/caretrack/backend/internal/contextkeys"
	"github.com/caretrack/backend/internal/domain"
	"github.com/caretrack/backend/internal/service"
	"github.com/go-chi/chi/v5"
)

// BookingHandler exposes hospital appointment booking for patients.
type BookingHandler struct {
	svc *service.BookingService
}

func NewBookingHandler(svc *service.BookingService) *BookingHandler {
	return &BookingHandler{svc: svc}
}

// Create handles POST /api/bookings.
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(contextkeys.UserID).(string)
	if !ok || userID == "" {
		JSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	var req domain.CreateBookingRequest
	if err := DecodeValid(r, &req); err != nil {
		Error(w, err)
		return
	}

	booking, err := h.svc.Create(r.Context(), userID, &req)
	if err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusCreated, booking)
}

// List handles GET /api/bookings.
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(contextkeys.UserID).(string)
	if !ok || userID == "" {
		JSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	bookings, err := h.svc.ListMine(r.Context(), userID)
	if err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusOK, bookings)
}

// Cancel handles DELETE /api/bookings/{id}.
func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(contextkeys.UserID).(string)
	if !ok || userID == "" {
		JSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	if err := h.svc.Cancel(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusOK, map[string]bool{"success": true})
}
