package token_test

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/inlyne/inlyne-server/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupTokenRoundTrip(t *testing.T) {
	svc := token.NewService("secret")

	raw, err := svc.Signup("alice@example.com", "Alice")
	require.NoError(t, err)

	claims, err := svc.VerifySignup(raw)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "Alice", claims.Name)
}

func TestSessionTokenRoundTrip(t *testing.T) {
	svc := token.NewService("secret")

	raw, err := svc.Session("656e6c796e65000000000001", "alice@example.com", "Alice", "ab12cd34")
	require.NoError(t, err)

	claims, err := svc.VerifySession(raw)
	require.NoError(t, err)
	assert.Equal(t, "656e6c796e65000000000001", claims.UserID)
	assert.Equal(t, "ab12cd34", claims.WorkspaceID)
	assert.Empty(t, claims.Type)
}

func TestExpiredTokenRejected(t *testing.T) {
	svc := token.NewService("secret")

	// Sign an already-expired token with the same secret and shape.
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, token.SignupClaims{
		Email: "alice@example.com",
		Name:  "Alice",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	raw, err := expired.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = svc.VerifySignup(raw)
	assert.ErrorIs(t, err, token.ErrExpired)
}

func TestTamperedTokenRejected(t *testing.T) {
	svc := token.NewService("secret")

	raw, err := svc.Signup("alice@example.com", "Alice")
	require.NoError(t, err)

	parts := strings.Split(raw, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	_, err = svc.VerifySignup(tampered)
	assert.ErrorIs(t, err, token.ErrInvalid)
}

func TestWrongSecretRejected(t *testing.T) {
	issuer := token.NewService("secret-a")
	verifier := token.NewService("secret-b")

	raw, err := issuer.Session("id", "a@b.com", "A", "ab12cd34")
	require.NoError(t, err)

	_, err = verifier.VerifySession(raw)
	assert.ErrorIs(t, err, token.ErrInvalid)
}

func TestResetTokenRejectedAsSession(t *testing.T) {
	svc := token.NewService("secret")

	raw, err := svc.Reset("656e6c796e65000000000001", "alice@example.com", "Alice")
	require.NoError(t, err)

	_, err = svc.VerifySession(raw)
	assert.ErrorIs(t, err, token.ErrInvalid)
}

func TestSessionTokenRejectedAsReset(t *testing.T) {
	svc := token.NewService("secret")

	raw, err := svc.Session("656e6c796e65000000000001", "alice@example.com", "Alice", "ab12cd34")
	require.NoError(t, err)

	_, err = svc.VerifyReset(raw)
	assert.ErrorIs(t, err, token.ErrInvalid)
}

func TestResetTokenRoundTrip(t *testing.T) {
	svc := token.NewService("secret")

	raw, err := svc.Reset("656e6c796e65000000000001", "alice@example.com", "Alice")
	require.NoError(t, err)

	claims, err := svc.VerifyReset(raw)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", claims.Email)
}
