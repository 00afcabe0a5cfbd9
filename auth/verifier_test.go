package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func mintToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestVerifyValidToken(t *testing.T) {
	v := NewJWTVerifier("test-secret")

	raw := mintToken(t, "test-secret", jwt.MapClaims{
		"sub":     "uid-42",
		"email":   "luna@example.com",
		"name":    "Luna",
		"picture": "https://example.com/a.png",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	claims, err := v.Verify(context.Background(), raw)
	require.NoError(t, err)
	require.Equal(t, "uid-42", claims.Subject)
	require.Equal(t, "luna@example.com", claims.Email)
	require.Equal(t, "Luna", claims.DisplayName)
	require.Equal(t, "https://example.com/a.png", claims.PhotoURL)
}

func TestVerifyWrongKey(t *testing.T) {
	v := NewJWTVerifier("test-secret")

	raw := mintToken(t, "other-secret", jwt.MapClaims{
		"sub": "uid-42",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := v.Verify(context.Background(), raw)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyExpiredToken(t *testing.T) {
	v := NewJWTVerifier("test-secret")

	raw := mintToken(t, "test-secret", jwt.MapClaims{
		"sub": "uid-42",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	_, err := v.Verify(context.Background(), raw)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyMissingSubject(t *testing.T) {
	v := NewJWTVerifier("test-secret")

	raw := mintToken(t, "test-secret", jwt.MapClaims{
		"email": "noone@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	_, err := v.Verify(context.Background(), raw)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyGarbage(t *testing.T) {
	v := NewJWTVerifier("test-secret")

	_, err := v.Verify(context.Background(), "not-a-token")
	require.ErrorIs(t, err, ErrInvalidToken)
}
