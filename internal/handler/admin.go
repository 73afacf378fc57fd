package handler

import (
	"net/http"

	"github.com/caretrack/backend/internal/contextkeys"
	"github.com/caretrack/backend/internal/domain"
	"github.com/caretrack/backend/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// AdminHandler exposes the back-office views: order management,
// booking management, and the premium manager.
type AdminHandler struct {
	db       *pgxpool.Pool
	orders   *service.OrderService
	bookings *service.BookingService
	premium  *service.SubscriptionService
}

func NewAdminHandler(db *pgxpool.Pool, orders *service.OrderService, bookings *service.BookingService, premium *service.SubscriptionService) *AdminHandler {
	return &AdminHandler{db: db, orders: orders, bookings: bookings, premium: premium}
}

// GetStats returns system-wide counts for the admin dashboard.
func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	var profiles, orders, pendingOrders, bookings, activePremium int

	if err := h.db.QueryRow(r.Context(), "SELECT COUNT(*) FROM profiles").Scan(&profiles); err != nil {
		log.Warn().Err(err).Msg("failed to count profiles")
	}
	if err := h.db.QueryRow(r.Context(), "SELECT COUNT(*) FROM drug_orders").Scan(&orders); err != nil {
		log.Warn().Err(err).Msg("failed to count orders")
	}
	if err := h.db.QueryRow(r.Context(), "SELECT COUNT(*) FROM drug_orders WHERE status = 'pending'").Scan(&pendingOrders); err != nil {
		log.Warn().Err(err).Msg("failed to count pending orders")
	}
	if err := h.db.QueryRow(r.Context(), "SELECT COUNT(*) FROM hospital_bookings").Scan(&bookings); err != nil {
		log.Warn().Err(err).Msg("failed to count bookings")
	}
	if err := h.db.QueryRow(r.Context(), "SELECT COUNT(*) FROM premium_users WHERE is_active AND (expires_at IS NULL OR expires_at > NOW())").Scan(&activePremium); err != nil {
		log.Warn().Err(err).Msg("failed to count active premium users")
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"profiles":      profiles,
		"orders":        orders,
		"pendingOrders": pendingOrders,
		"bookings":      bookings,
		"activePremium": activePremium,
	})
}

// ListOrders handles GET /api/admin/orders.
func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListAll(r.Context())
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, orders)
}

// UpdateOrderStatus handles PATCH /api/admin/orders/{id}/status.
func (h *AdminHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateOrderStatusRequest
	if err := DecodeValid(r, &req); err != nil {
		Error(w, err)
		return
	}

	order, err := h.orders.UpdateStatus(r.Context(), chi.URLParam(r, "id"), domain.OrderStatus(req.Status))
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, order)
}

// ListBookings handles GET /api/admin/bookings.
func (h *AdminHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookings.ListAll(r.Context())
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, bookings)
}

// UpdateBookingStatus handles PATCH /api/admin/bookings/{id}/status.
func (h *AdminHandler) UpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateBookingStatusRequest
	if err := DecodeValid(r, &req); err != nil {
		Error(w, err)
		return
	}

	booking, err := h.bookings.UpdateStatus(r.Context(), chi.URLParam(r, "id"), domain.BookingStatus(req.Status))
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, booking)
}

// ListPremium handles GET /api/admin/premium.
func (h *AdminHandler) ListPremium(w http.ResponseWriter, r *http.Request) {
	entries, err := h.premium.List(r.Context())
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, entries)
}

// GrantPremium handles POST /api/admin/premium/grant.
func (h *AdminHandler) GrantPremium(w http.ResponseWriter, r *http.Request) {
	adminID, _ := r.Context().Value(contextkeys.UserID).(string)

	var req domain.GrantRequest
	if err := DecodeValid(r, &req); err != nil {
		Error(w, err)
		return
	}

	status, err := h.premium.Grant(r.Context(), &req, adminID)
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, status)
}

// TogglePremium handles POST /api/admin/premium/{userId}/toggle.
func (h *AdminHandler) TogglePremium(w http.ResponseWriter, r *http.Request) {
	rec, err := h.premium.Toggle(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, rec)
}
