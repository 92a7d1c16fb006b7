package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/inlyne/inlyne-server/internal/domain"
	"github.com/inlyne/inlyne-server/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInviteAndAccept(t *testing.T) {
	h := testutil.NewHarness(t)
	ctx := context.Background()
	owner := h.CreateUser(t, "owner@example.com", "Owner", "password123", "ab12cd34")
	guest := h.CreateUser(t, "guest@example.com", "Guest", "password123", "ef56ab78")
	site := h.CreateSite(t, owner, "Marketing Site", "https://example.com", "12345678")

	invite, err := h.Services.Invite.Invite(ctx, owner.ID, site.SiteID, "Guest@Example.com", domain.InviteRoleEditor)
	require.NoError(t, err)

	assert.Equal(t, "guest@example.com", invite.Email)
	assert.Equal(t, domain.InviteRoleEditor, invite.Role)
	assert.Len(t, invite.Token, 64)
	assert.WithinDuration(t, time.Now().Add(domain.SiteInviteTTL), invite.ExpiresAt, time.Minute)

	require.Equal(t, "invite", h.Mailer.Last().Kind)
	assert.Equal(t, "guest@example.com", h.Mailer.Last().To)
	assert.Contains(t, h.Mailer.Last().Link, invite.Token)

	accepted, err := h.Services.Invite.Accept(ctx, invite.Token)
	require.NoError(t, err)
	assert.Contains(t, accepted.AllowedUsers, guest.ID)

	// Redeeming again fails; access is unchanged.
	_, err = h.Services.Invite.Accept(ctx, invite.Token)
	assert.ErrorIs(t, err, domain.ErrInviteInvalid)

	got, err := h.Repos.Site.GetByRef(ctx, site.ID)
	require.NoError(t, err)
	assert.Len(t, got.AllowedUsers, 2)
}

func TestInviteDefaultsToViewer(t *testing.T) {
	h := testutil.NewHarness(t)
	owner := h.CreateUser(t, "owner@example.com", "Owner", "password123", "ab12cd34")
	site := h.CreateSite(t, owner, "Marketing Site", "https://example.com", "12345678")

	invite, err := h.Services.Invite.Invite(context.Background(), owner.ID, site.SiteID, "guest@example.com", "")
	require.NoError(t, err)
	assert.Equal(t, domain.InviteRoleViewer, invite.Role)
}

func TestInviteRejectsUnknownRole(t *testing.T) {
	h := testutil.NewHarness(t)
	owner := h.CreateUser(t, "owner@example.com", "Owner", "password123", "ab12cd34")
	site := h.CreateSite(t, owner, "Marketing Site", "https://example.com", "12345678")

	_, err := h.Services.Invite.Invite(context.Background(), owner.ID, site.SiteID, "guest@example.com", "superuser")
	assert.ErrorIs(t, err, domain.ErrInvalidRole)
}

func TestInviteForbiddenForOutsiders(t *testing.T) {
	h := testutil.NewHarness(t)
	owner := h.CreateUser(t, "owner@example.com", "Owner", "password123", "ab12cd34")
	outsider := h.CreateUser(t, "outsider@example.com", "Outsider", "password123", "ef56ab78")
	site := h.CreateSite(t, owner, "Marketing Site", "https://example.com", "12345678")

	_, err := h.Services.Invite.Invite(context.Background(), outsider.ID, site.SiteID, "guest@example.com", "")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestInviteRejectsPendingDuplicate(t *testing.T) {
	h := testutil.NewHarness(t)
	ctx := context.Background()
	owner := h.CreateUser(t, "owner@example.com", "Owner", "password123", "ab12cd34")
	site := h.CreateSite(t, owner, "Marketing Site", "https://example.com", "12345678")

	_, err := h.Services.Invite.Invite(ctx, owner.ID, site.SiteID, "guest@example.com", "")
	require.NoError(t, err)

	_, err = h.Services.Invite.Invite(ctx, owner.ID, site.SiteID, "guest@example.com", "")
	assert.ErrorIs(t, err, domain.ErrAlreadyInvited)
}

func TestInviteFailsWhenMailFails(t *testing.T) {
	h := testutil.NewHarness(t)
	h.Mailer.Fail = true
	owner := h.CreateUser(t, "owner@example.com", "Owner", "password123", "ab12cd34")
	site := h.CreateSite(t, owner, "Marketing Site", "https://example.com", "12345678")

	_, err := h.Services.Invite.Invite(context.Background(), owner.ID, site.SiteID, "guest@example.com", "")
	assert.Error(t, err)
}

func TestAcceptExpiredInvite(t *testing.T) {
	h := testutil.NewHarness(t)
	ctx := context.Background()
	owner := h.CreateUser(t, "owner@example.com", "Owner", "password123", "ab12cd34")
	h.CreateUser(t, "guest@example.com", "Guest", "password123", "ef56ab78")
	site := h.CreateSite(t, owner, "Marketing Site", "https://example.com", "12345678")

	invite := &domain.SiteInvite{
		SiteRef:   site.ID,
		Email:     "guest@example.com",
		Token:     "expired-token",
		Role:      domain.InviteRoleViewer,
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, h.Repos.SiteInvite.Create(ctx, invite))

	_, err := h.Services.Invite.Accept(ctx, "expired-token")
	assert.ErrorIs(t, err, domain.ErrInviteInvalid)
}

func TestAcceptUnknownToken(t *testing.T) {
	h := testutil.NewHarness(t)

	_, err := h.Services.Invite.Accept(context.Background(), "no-such-token")
	assert.ErrorIs(t, err, domain.ErrInviteInvalid)
}

func TestAcceptRequiresRegisteredUser(t *testing.T) {
	h := testutil.NewHarness(t)
	ctx := context.Background()
	owner := h.CreateUser(t, "owner@example.com", "Owner", "password123", "ab12cd34")
	site := h.CreateSite(t, owner, "Marketing Site", "https://example.com", "12345678")

	invite, err := h.Services.Invite.Invite(ctx, owner.ID, site.SiteID, "stranger@example.com", "")
	require.NoError(t, err)

	_, err = h.Services.Invite.Accept(ctx, invite.Token)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
