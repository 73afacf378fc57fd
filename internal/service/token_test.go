package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestVerifyTokenValid(t *testing.T) {
	v := NewTokenVerifier("secret")
	tokenStr := signToken(t, "secret", jwt.MapClaims{
		"sub":   "user-1",
		"email": "patient@example.com",
		"role":  "user",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	claims, err := v.VerifyToken(tokenStr)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Sub)
	assert.Equal(t, "patient@example.com", claims.Email)
	assert.Equal(t, "user", claims.Role)
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	v := NewTokenVerifier("secret")
	tokenStr := signToken(t, "other-secret", jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := v.VerifyToken(tokenStr)
	assert.Error(t, err)
}

func TestVerifyTokenExpired(t *testing.T) {
	v := NewTokenVerifier("secret")
	tokenStr := signToken(t, "secret", jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	_, err := v.VerifyToken(tokenStr)
	assert.Error(t, err)
}

func TestVerifyTokenGarbage(t *testing.T) {
	v := NewTokenVerifier("secret")
	_, err := v.VerifyToken("not-a-token")
	assert.Error(t, err)
}
