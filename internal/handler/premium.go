package handler

import (
	"net/http"
	"time"

	"github.com/caretrack/backend/internal/contextkeys"
	"github.com/caretrack/backend/internal/domain"
	"github.com/caretrack/backend/internal/service"
)

// PremiumHandler exposes subscription status and renewal.
type PremiumHandler struct {
	svc         *service.SubscriptionService
	defaultDays int
}

func NewPremiumHandler(svc *service.SubscriptionService, defaultRenewalDays int) *PremiumHandler {
	return &PremiumHandler{svc: svc, defaultDays: defaultRenewalDays}
}

// Status handles GET /api/premium/status.
func (h *PremiumHandler) Status(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(contextkeys.UserID).(string)
	if !ok || userID == "" {
		JSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	status, err := h.svc.Status(r.Context(), userID)
	if err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusOK, status)
}

// Renew handles POST /api/premium/renew. The response carries the
// re-evaluated status so the client can refresh gated sections without
// a page reload.
func (h *PremiumHandler) Renew(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(contextkeys.UserID).(string)
	if !ok || userID == "" {
		JSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	// The body is optional; an empty POST renews for the configured
	// default period.
	var req domain.RenewRequest
	if r.ContentLength != 0 {
		if err := DecodeValid(r, &req); err != nil {
			Error(w, err)
			return
		}
	}

	days := req.Days
	if days == 0 {
		days = h.defaultDays
	}

	status, err := h.svc.Renew(r.Context(), userID, time.Duration(days)*24*time.Hour, "subscription-flow:"+userID)
	if err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusOK, status)
}
