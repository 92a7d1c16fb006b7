package service_test

import (
	"context"
	"testing"

	"github.com/inlyne/inlyne-server/internal/domain"
	"github.com/inlyne/inlyne-server/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSite(t *testing.T) {
	h := testutil.NewHarness(t)
	owner := h.CreateUser(t, "owner@example.com", "Owner", "password123", "ab12cd34")

	site, err := h.Services.Site.Create(context.Background(), owner.ID, "Marketing Site", "https://example.com")
	require.NoError(t, err)

	assert.Equal(t, "Marketing Site", site.Name)
	assert.Len(t, site.SiteID, 8)
	require.Len(t, site.AllowedUsers, 1)
	assert.Equal(t, owner.ID, site.AllowedUsers[0])
	require.NotNil(t, site.CoverImage)
	assert.Contains(t, *site.CoverImage, site.SiteID)
}

func TestCreateSiteCoverFailureIsNonFatal(t *testing.T) {
	h := testutil.NewHarness(t)
	h.Capturer.Fail = true
	owner := h.CreateUser(t, "owner@example.com", "Owner", "password123", "ab12cd34")

	site, err := h.Services.Site.Create(context.Background(), owner.ID, "Marketing Site", "https://example.com")
	require.NoError(t, err)
	assert.Nil(t, site.CoverImage)
}

func TestCreateSiteRequiresNameAndURL(t *testing.T) {
	h := testutil.NewHarness(t)
	owner := h.CreateUser(t, "owner@example.com", "Owner", "password123", "ab12cd34")

	_, err := h.Services.Site.Create(context.Background(), owner.ID, "", "https://example.com")
	assert.ErrorIs(t, err, domain.ErrMissingFields)

	_, err = h.Services.Site.Create(context.Background(), owner.ID, "Marketing Site", "  ")
	assert.ErrorIs(t, err, domain.ErrMissingFields)
}

func TestListSites(t *testing.T) {
	h := testutil.NewHarness(t)
	ctx := context.Background()
	owner := h.CreateUser(t, "owner@example.com", "Owner", "password123", "ab12cd34")
	other := h.CreateUser(t, "other@example.com", "Other", "password123", "ef56ab78")

	_, err := h.Services.Site.Create(ctx, owner.ID, "First", "https://one.example.com")
	require.NoError(t, err)
	_, err = h.Services.Site.Create(ctx, owner.ID, "Second", "https://two.example.com")
	require.NoError(t, err)

	mine, err := h.Services.Site.List(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	theirs, err := h.Services.Site.List(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, theirs)
}

func TestAddAllowedUser(t *testing.T) {
	h := testutil.NewHarness(t)
	ctx := context.Background()
	owner := h.CreateUser(t, "owner@example.com", "Owner", "password123", "ab12cd34")
	guest := h.CreateUser(t, "guest@example.com", "Guest", "password123", "ef56ab78")
	site := h.CreateSite(t, owner, "Marketing Site", "https://example.com", "12345678")

	require.NoError(t, h.Services.Site.AddAllowedUser(ctx, owner.ID, site.SiteID, guest.Email))

	got, err := h.Repos.Site.GetByRef(ctx, site.ID)
	require.NoError(t, err)
	assert.Len(t, got.AllowedUsers, 2)
}

func TestAddAllowedUserIdempotentEffect(t *testing.T) {
	h := testutil.NewHarness(t)
	ctx := context.Background()
	owner := h.CreateUser(t, "owner@example.com", "Owner", "password123", "ab12cd34")
	guest := h.CreateUser(t, "guest@example.com", "Guest", "password123", "ef56ab78")
	site := h.CreateSite(t, owner, "Marketing Site", "https://example.com", "12345678")

	require.NoError(t, h.Services.Site.AddAllowedUser(ctx, owner.ID, site.SiteID, guest.Email))

	err := h.Services.Site.AddAllowedUser(ctx, owner.ID, site.SiteID, guest.Email)
	assert.ErrorIs(t, err, domain.ErrAlreadyAllowed)

	got, err := h.Repos.Site.GetByRef(ctx, site.ID)
	require.NoError(t, err)
	assert.Len(t, got.AllowedUsers, 2)
}

func TestAddAllowedUserForbiddenForOutsiders(t *testing.T) {
	h := testutil.NewHarness(t)
	ctx := context.Background()
	owner := h.CreateUser(t, "owner@example.com", "Owner", "password123", "ab12cd34")
	outsider := h.CreateUser(t, "outsider@example.com", "Outsider", "password123", "ef56ab78")
	site := h.CreateSite(t, owner, "Marketing Site", "https://example.com", "12345678")

	err := h.Services.Site.AddAllowedUser(ctx, outsider.ID, site.SiteID, owner.Email)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestAddAllowedUserUnknownEmail(t *testing.T) {
	h := testutil.NewHarness(t)
	ctx := context.Background()
	owner := h.CreateUser(t, "owner@example.com", "Owner", "password123", "ab12cd34")
	site := h.CreateSite(t, owner, "Marketing Site", "https://example.com", "12345678")

	err := h.Services.Site.AddAllowedUser(ctx, owner.ID, site.SiteID, "nobody@example.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
