package entitlement

// Feature identifies a gated (or open) part of the application.
type Feature string

const (
	FeatureMealPlanner   Feature = "meal_planner"
	FeatureDietConsult   Feature = "diet_consultation"
	FeatureHealthReports Feature = "health_reports"

	FeatureDrugOrders Feature = "drug_orders"
	FeatureBookings   Feature = "hospital_bookings"
	FeatureProfile    Feature = "profile"
)

// Decision is the outcome of a feature-gate check.
type Decision string

const (
	// DecisionAllow grants access.
	DecisionAllow Decision = "allow"
	// DecisionDenyRedirect blocks access; the caller should send the
	// user to the upgrade page rather than show an error.
	DecisionDenyRedirect Decision = "deny_redirect"
)

// UpgradePath is where denied users are redirected.
const UpgradePath = "/premium"

// premiumFeatures is the static set of features that require an active
// or expiring-soon subscription. Everything else is always allowed.
var premiumFeatures = map[Feature]struct{}{
	FeatureMealPlanner:   {},
	FeatureDietConsult:   {},
	FeatureHealthReports: {},
}

// IsPremiumFeature reports whether the feature is subscription-gated.
func IsPremiumFeature(f Feature) bool {
	_, ok := premiumFeatures[f]
	return ok
}

// CanAccess maps an entitlement status and a feature to an access
// decision. It has no side effects; the presentation layer performs the
// actual redirect on deny.
func CanAccess(status Status, feature Feature) Decision {
	if !IsPremiumFeature(feature) {
		return DecisionAllow
	}
	if status == StatusActive || status == StatusExpiringSoon {
		return DecisionAllow
	}
	return DecisionDenyRedirect
}
