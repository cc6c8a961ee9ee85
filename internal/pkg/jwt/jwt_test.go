package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_GenerateAccessToken_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret-key-for-jwt")

	token, expiresAt, err := svc.GenerateAccessToken("u1", "admin", time.Hour)
	require.NoError(t, err)
	assert.Greater(t, expiresAt, time.Now().Unix())

	parsed, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	require.NoError(t, err)
	claims, err := parsed.AsMap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u1", claims["user_id"])
	assert.Equal(t, TokenTypeAccess, claims["type"])
}

func TestJWTService_GenerateAccessToken_RejectsBadTTL(t *testing.T) {
	svc := NewJWTService("test-secret-key-for-jwt")

	_, _, err := svc.GenerateAccessToken("u1", "admin", 0)

	assert.ErrorIs(t, err, ErrInvalidTTL)
}

func TestJWTService_VerifyToken_WrongSecret(t *testing.T) {
	issuer := NewJWTService("one-secret")
	verifier := NewJWTService("another-secret")
	token, _, err := issuer.GenerateAccessToken("u1", "admin", time.Hour)
	require.NoError(t, err)

	_, err = jwtauth.VerifyToken(verifier.JWTAuth(), token)

	assert.Error(t, err)
}
