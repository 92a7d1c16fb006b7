package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/inlyne/inlyne-server/internal/domain"
	"github.com/inlyne/inlyne-server/internal/testutil"
	"github.com/inlyne/inlyne-server/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func linkToken(t *testing.T, link string) string {
	t.Helper()
	_, raw, found := strings.Cut(link, "token=")
	require.True(t, found, "link %q carries no token", link)
	return raw
}

// signUp walks the full three-step flow and returns the created session.
func signUp(t *testing.T, h *testutil.Harness, email, name, password string) *domain.User {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, h.Services.Auth.Signup(ctx, email, name))
	raw := linkToken(t, h.Mailer.Last().Link)

	verified, err := h.Services.Auth.VerifyEmail(ctx, raw)
	require.NoError(t, err)

	result, err := h.Services.Auth.CreatePassword(ctx, verified.Token, password)
	require.NoError(t, err)
	return result.User
}

func TestSignupHappyPath(t *testing.T) {
	h := testutil.NewHarness(t)

	user := signUp(t, h, "alice@example.com", "Alice", "password123")

	assert.True(t, user.IsVerified)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Len(t, user.WorkspaceID, 8)
	assert.Equal(t, domain.RoleUser, user.Role)

	// The pending record is consumed; exactly one mail went out.
	assert.Equal(t, 0, testutil.TempUserCount(h.Repos))
	assert.Len(t, h.Mailer.Sent, 1)
	assert.Equal(t, "verification", h.Mailer.Sent[0].Kind)
}

func TestSignupTwiceReplacesPendingRecord(t *testing.T) {
	h := testutil.NewHarness(t)
	ctx := context.Background()

	require.NoError(t, h.Services.Auth.Signup(ctx, "alice@example.com", "Alice"))
	firstToken := linkToken(t, h.Mailer.Last().Link)

	require.NoError(t, h.Services.Auth.Signup(ctx, "alice@example.com", "Alice"))

	assert.Equal(t, 1, testutil.TempUserCount(h.Repos))

	// The first link no longer matches a stored record.
	_, err := h.Services.Auth.VerifyEmail(ctx, firstToken)
	assert.ErrorIs(t, err, domain.ErrLinkInvalid)
}

func TestSignupRejectsRegisteredEmail(t *testing.T) {
	h := testutil.NewHarness(t)
	h.CreateUser(t, "alice@example.com", "Alice", "password123", "ab12cd34")

	err := h.Services.Auth.Signup(context.Background(), "alice@example.com", "Alice")
	assert.ErrorIs(t, err, domain.ErrEmailInUse)
}

func TestSignupRejectsInvalidEmail(t *testing.T) {
	h := testutil.NewHarness(t)

	for _, email := range []string{"", "no-at-sign", "a@b", "spaces in@example.com"} {
		err := h.Services.Auth.Signup(context.Background(), email, "Alice")
		assert.ErrorIs(t, err, domain.ErrInvalidEmail, "email %q", email)
	}
}

func TestSignupFailsWhenMailFails(t *testing.T) {
	h := testutil.NewHarness(t)
	h.Mailer.Fail = true

	err := h.Services.Auth.Signup(context.Background(), "alice@example.com", "Alice")
	assert.Error(t, err)
}

func TestCreatePasswordRequiresVerifiedEmail(t *testing.T) {
	h := testutil.NewHarness(t)
	ctx := context.Background()

	require.NoError(t, h.Services.Auth.Signup(ctx, "alice@example.com", "Alice"))
	raw := linkToken(t, h.Mailer.Last().Link)

	// Skipping the verify step must fail.
	_, err := h.Services.Auth.CreatePassword(ctx, raw, "password123")
	assert.ErrorIs(t, err, domain.ErrNotVerified)
}

func TestCreatePasswordRejectsShortPassword(t *testing.T) {
	h := testutil.NewHarness(t)
	ctx := context.Background()

	require.NoError(t, h.Services.Auth.Signup(ctx, "alice@example.com", "Alice"))
	raw := linkToken(t, h.Mailer.Last().Link)
	_, err := h.Services.Auth.VerifyEmail(ctx, raw)
	require.NoError(t, err)

	_, err = h.Services.Auth.CreatePassword(ctx, raw, "short")
	assert.ErrorIs(t, err, domain.ErrPasswordTooShort)
}

func TestSignIn(t *testing.T) {
	h := testutil.NewHarness(t)
	signUp(t, h, "alice@example.com", "Alice", "password123")

	result, err := h.Services.Auth.SignIn(context.Background(), "alice@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, result.SessionToken)

	// The issued token is a usable session.
	claims, err := h.Tokens.VerifySession(result.SessionToken)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID.Hex(), claims.UserID)
}

func TestSignInWrongPassword(t *testing.T) {
	h := testutil.NewHarness(t)
	signUp(t, h, "alice@example.com", "Alice", "password123")

	_, err := h.Services.Auth.SignIn(context.Background(), "alice@example.com", "wrong-password")
	assert.ErrorIs(t, err, domain.ErrInvalidPassword)
}

func TestSignInUnknownEmail(t *testing.T) {
	h := testutil.NewHarness(t)

	_, err := h.Services.Auth.SignIn(context.Background(), "nobody@example.com", "password123")
	assert.ErrorIs(t, err, domain.ErrNoSuchAccount)
}

func TestPasswordResetFlow(t *testing.T) {
	h := testutil.NewHarness(t)
	ctx := context.Background()
	signUp(t, h, "alice@example.com", "Alice", "password123")

	require.NoError(t, h.Services.Auth.RequestPasswordReset(ctx, "alice@example.com"))
	require.Equal(t, "reset", h.Mailer.Last().Kind)
	raw := linkToken(t, h.Mailer.Last().Link)

	email, err := h.Services.Auth.VerifyResetToken(raw)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", email)

	require.NoError(t, h.Services.Auth.ResetPassword(ctx, raw, "newpassword456"))

	_, err = h.Services.Auth.SignIn(ctx, "alice@example.com", "password123")
	assert.ErrorIs(t, err, domain.ErrInvalidPassword)

	result, err := h.Services.Auth.SignIn(ctx, "alice@example.com", "newpassword456")
	require.NoError(t, err)
	assert.NotEmpty(t, result.SessionToken)
}

func TestResetRequestUnknownEmail(t *testing.T) {
	h := testutil.NewHarness(t)

	err := h.Services.Auth.RequestPasswordReset(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, domain.ErrNoSuchAccount)
}

func TestResetTokenNotUsableAsSignupLink(t *testing.T) {
	h := testutil.NewHarness(t)
	ctx := context.Background()
	signUp(t, h, "alice@example.com", "Alice", "password123")

	require.NoError(t, h.Services.Auth.RequestPasswordReset(ctx, "alice@example.com"))
	raw := linkToken(t, h.Mailer.Last().Link)

	_, err := h.Services.Auth.VerifyEmail(ctx, raw)
	assert.Error(t, err)
}

func TestSessionTokenNotUsableForReset(t *testing.T) {
	h := testutil.NewHarness(t)
	user := signUp(t, h, "alice@example.com", "Alice", "password123")

	session := h.SessionFor(t, user)
	err := h.Services.Auth.ResetPassword(context.Background(), session, "newpassword456")
	assert.ErrorIs(t, err, token.ErrInvalid)
}
