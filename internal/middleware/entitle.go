package middleware

import (
	"context"
	"net/http"

	"github.com/caretrack/backend/internal/contextkeys"
	"github.com/caretrack/backend/internal/entitlement"
	"github.com/caretrack/backend/internal/handler"
	"github.com/caretrack/backend/internal/service"
)

// EntitlementSource evaluates the caller's premium status. Satisfied by
// *service.SubscriptionService; a narrow interface so tests can fake it.
type EntitlementSource interface {
	Status(ctx context.Context, userID string) (*service.PremiumStatus, error)
}

// RequirePremium gates a route behind a premium feature. Denied users
// get 402 with the upgrade path in the payload — the presentation layer
// performs the redirect. A store failure surfaces as an error rather
// than a denial, so an outage never silently downgrades a paying user.
// Must be used AFTER Auth middleware.
func RequirePremium(src EntitlementSource, feature entitlement.Feature) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := r.Context().Value(contextkeys.UserID).(string)
			if !ok || userID == "" {
				handler.JSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
				return
			}

			status, err := src.Status(r.Context(), userID)
			if err != nil {
				handler.Error(w, err)
				return
			}

			if entitlement.CanAccess(status.Status, feature) == entitlement.DecisionDenyRedirect {
				handler.JSON(w, http.StatusPaymentRequired, map[string]any{
					"error":      "premium subscription required",
					"status":     status.Status,
					"feature":    feature,
					"redirectTo": entitlement.UpgradePath,
				})
				return
			}

			ctx := context.WithValue(r.Context(), contextkeys.PremiumStatus, status)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
