package domain

// JWTClaims are the verified claims extracted from a bearer token.
// Tokens are issued by the external identity provider; this service
// only verifies them against the shared secret.
type JWTClaims struct {
	Sub   string
	Email string
	Role  string
}
