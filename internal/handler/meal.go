package handler

import (
	"net/http"

	"github.com/caretrack/backend/internal/contextkeys"
	"github.com/caretrack/backend/internal/domain"
	"github.com/caretrack/backend/internal/service"
)

// MealHandler exposes meal-plan completion tracking. All routes sit
// behind the meal_planner premium gate.
type MealHandler struct {
	svc *service.MealService
}

func NewMealHandler(svc *service.MealService) *MealHandler {
	return &MealHandler{svc: svc}
}

// Complete handles POST /api/meals/complete.
func (h *MealHandler) Complete(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(contextkeys.UserID).(string)
	if !ok || userID == "" {
		JSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	var req domain.CompleteMealRequest
	if err := DecodeValid(r, &req); err != nil {
		Error(w, err)
		return
	}

	completion, err := h.svc.Complete(r.Context(), userID, &req)
	if err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusOK, completion)
}

// Uncomplete handles POST /api/meals/uncomplete.
func (h *MealHandler) Uncomplete(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(contextkeys.UserID).(string)
	if !ok || userID == "" {
		JSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	var req domain.CompleteMealRequest
	if err := DecodeValid(r, &req); err != nil {
		Error(w, err)
		return
	}

	if err := h.svc.Uncomplete(r.Context(), userID, &req); err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusOK, map[string]bool{"success": true})
}

// List handles GET /api/meals/completions?from=YYYY-MM-DD&to=YYYY-MM-DD.
func (h *MealHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(contextkeys.UserID).(string)
	if !ok || userID == "" {
		JSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	completions, err := h.svc.ListRange(r.Context(), userID, r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusOK, completions)
}
