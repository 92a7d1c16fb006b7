package mail

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerificationEmail(t *testing.T) {
	email := buildVerificationEmail("http://localhost:3000/auth/sign-up/create-password?token=abc")

	assert.Equal(t, "Verify your email - Inlyne", email.Subject)
	assert.Contains(t, email.TextBody, "token=abc")
	assert.Contains(t, email.HTMLBody, `href="http://localhost:3000/auth/sign-up/create-password?token=abc"`)
	assert.Contains(t, email.HTMLBody, "1 hour")
}

func TestPasswordResetEmail(t *testing.T) {
	email := buildPasswordResetEmail("http://localhost:3000/auth/reset-password/create-password?token=xyz")

	assert.Equal(t, "Reset your password - Inlyne", email.Subject)
	assert.Contains(t, email.TextBody, "token=xyz")
	assert.Contains(t, email.HTMLBody, "15 minutes")
}

func TestSiteInviteEmail(t *testing.T) {
	email := buildSiteInviteEmail("Marketing Site", "http://localhost:3000/invite/tok123")

	assert.Equal(t, "You've been invited to Marketing Site - Inlyne", email.Subject)
	assert.Contains(t, email.TextBody, "http://localhost:3000/invite/tok123")
	assert.Contains(t, email.HTMLBody, "Marketing Site")
	assert.Contains(t, email.HTMLBody, "24 hours")
}

func TestHTMLEscapesSiteName(t *testing.T) {
	email := buildSiteInviteEmail("<script>alert(1)</script>", "http://localhost:3000/invite/tok123")

	assert.NotContains(t, email.HTMLBody, "<script>alert(1)</script>")
}
