package handler

import (
	"net/http"

	"github.com/caretrack/backend/internal/contextkeys"
	"github.com/caretrack/backend/internal/domain"
	"github.com/caretrack/backend/internal/service"
)

// ProfileHandler exposes the patient's own profile.
type ProfileHandler struct {
	svc *service.ProfileService
}

func NewProfileHandler(svc *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

// Get handles GET /api/profile.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(contextkeys.UserID).(string)
	if !ok || userID == "" {
		JSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	profile, err := h.svc.Get(r.Context(), userID)
	if err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusOK, profile)
}

// Upsert handles PUT /api/profile.
func (h *ProfileHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(contextkeys.UserID).(string)
	if !ok || userID == "" {
		JSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}
	email, _ := r.Context().Value(contextkeys.UserEmail).(string)

	var req domain.UpsertProfileRequest
	if err := DecodeValid(r, &req); err != nil {
		Error(w, err)
		return
	}

	profile, err := h.svc.Upsert(r.Context(), userID, email, &req)
	if err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusOK, profile)
}
