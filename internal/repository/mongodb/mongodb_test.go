package mongodb

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/inlyne/inlyne-server/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// testDB connects to a local MongoDB, or skips the test when none is
// reachable. Each test gets its own throwaway database.
func testDB(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	client, db, err := NewConnection(uri, fmt.Sprintf("inlyne_test_%d", time.Now().UnixNano()))
	if err != nil {
		t.Skipf("mongodb not available: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	require.NoError(t, EnsureIndexes(ctx, db))
	return db
}

func TestUserRepositoryUniqueEmail(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &domain.User{Email: "Alice@Example.com", Name: "Alice", PasswordHash: "x", WorkspaceID: "ab12cd34"}
	require.NoError(t, repo.Create(ctx, user))
	assert.Equal(t, "alice@example.com", user.Email)

	dup := &domain.User{Email: "alice@example.com", Name: "Alice2", PasswordHash: "x", WorkspaceID: "ef56ab78"}
	err := repo.Create(ctx, dup)
	assert.ErrorIs(t, err, domain.ErrDuplicateKey)

	got, err := repo.GetByEmail(ctx, "ALICE@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestUserRepositoryWorkspaceIDProbesBothCollections(t *testing.T) {
	db := testDB(t)
	users := NewUserRepository(db)
	temps := NewTempUserRepository(db)
	ctx := context.Background()

	require.NoError(t, users.Create(ctx, &domain.User{Email: "a@example.com", Name: "A", PasswordHash: "x", WorkspaceID: "11111111"}))
	require.NoError(t, temps.Create(ctx, &domain.TempUser{Email: "b@example.com", Name: "B", VerificationToken: "tok", WorkspaceID: "22222222"}))

	for id, want := range map[string]bool{"11111111": true, "22222222": true, "33333333": false} {
		exists, err := users.WorkspaceIDExists(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, exists, "workspace id %s", id)
	}
}

func TestTempUserRepositoryLifecycle(t *testing.T) {
	db := testDB(t)
	repo := NewTempUserRepository(db)
	ctx := context.Background()

	tu := &domain.TempUser{Email: "alice@example.com", Name: "Alice", VerificationToken: "tok-1", WorkspaceID: "ab12cd34"}
	require.NoError(t, repo.Create(ctx, tu))

	// Wrong token does not match.
	_, err := repo.GetByToken(ctx, "alice@example.com", "Alice", "tok-2")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := repo.GetByToken(ctx, "alice@example.com", "Alice", "tok-1")
	require.NoError(t, err)
	assert.False(t, got.IsEmailVerified)

	require.NoError(t, repo.MarkEmailVerified(ctx, got.ID))
	got, err = repo.GetByToken(ctx, "alice@example.com", "Alice", "tok-1")
	require.NoError(t, err)
	assert.True(t, got.IsEmailVerified)

	require.NoError(t, repo.DeleteByEmail(ctx, "alice@example.com"))
	_, err = repo.GetByToken(ctx, "alice@example.com", "Alice", "tok-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSiteRepositoryAddAllowedUserSetSemantics(t *testing.T) {
	db := testDB(t)
	repo := NewSiteRepository(db)
	ctx := context.Background()

	owner := primitive.NewObjectID()
	guest := primitive.NewObjectID()

	site := &domain.Site{Name: "S", URL: "https://example.com", SiteID: "12345678", AllowedUsers: []primitive.ObjectID{owner}}
	require.NoError(t, repo.Create(ctx, site))

	require.NoError(t, repo.AddAllowedUser(ctx, site.ID, guest))
	require.NoError(t, repo.AddAllowedUser(ctx, site.ID, guest))

	got, err := repo.GetByRef(ctx, site.ID)
	require.NoError(t, err)
	assert.Len(t, got.AllowedUsers, 2)

	// Scoped lookup only matches allowed users.
	_, err = repo.GetBySiteIDForUser(ctx, "12345678", guest)
	require.NoError(t, err)
	_, err = repo.GetBySiteIDForUser(ctx, "12345678", primitive.NewObjectID())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSiteRepositoryUniqueSiteID(t *testing.T) {
	db := testDB(t)
	repo := NewSiteRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.Site{Name: "A", URL: "https://a.example.com", SiteID: "12345678"}))
	err := repo.Create(ctx, &domain.Site{Name: "B", URL: "https://b.example.com", SiteID: "12345678"})
	assert.ErrorIs(t, err, domain.ErrDuplicateKey)
}

func TestSiteInviteRepositoryPendingLookup(t *testing.T) {
	db := testDB(t)
	repo := NewSiteInviteRepository(db)
	ctx := context.Background()

	siteRef := primitive.NewObjectID()
	invite := &domain.SiteInvite{
		SiteRef:   siteRef,
		Email:     "guest@example.com",
		Token:     "tok-1",
		Role:      domain.InviteRoleViewer,
		ExpiresAt: time.Now().Add(domain.SiteInviteTTL),
	}
	require.NoError(t, repo.Create(ctx, invite))

	pending, err := repo.GetPending(ctx, siteRef, "guest@example.com")
	require.NoError(t, err)
	assert.Equal(t, invite.ID, pending.ID)

	require.NoError(t, repo.MarkAccepted(ctx, invite.ID))
	_, err = repo.GetPending(ctx, siteRef, "guest@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := repo.GetByToken(ctx, "tok-1")
	require.NoError(t, err)
	assert.True(t, got.Accepted)
}

func TestCommentRepositoryFilters(t *testing.T) {
	db := testDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	add := func(iframeID, page string, device domain.DeviceType) {
		c := &domain.Comment{
			UserID:      primitive.NewObjectID(),
			WorkspaceID: "ab12cd34",
			UserEmail:   "a@example.com",
			UserName:    "A",
			ProjectID:   "p",
			IframeID:    iframeID,
			IframePage:  page,
			Text:        "note",
			Meta:        domain.CommentMeta{DeviceType: device, Page: page},
		}
		require.NoError(t, repo.Create(ctx, c))
	}
	add("iframe-1", "/pricing", domain.DeviceMobile)
	add("iframe-1", "/pricing", domain.DeviceDesktop)
	add("iframe-1", "/about", domain.DeviceMobile)
	add("iframe-2", "/pricing", domain.DeviceMobile)

	both, err := repo.ListByIframe(ctx, "iframe-1", "/pricing", domain.DeviceMobile)
	require.NoError(t, err)
	assert.Len(t, both, 1)

	all, err := repo.ListByIframe(ctx, "iframe-1", "", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestCommentRepositoryNewestFirst(t *testing.T) {
	db := testDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		c := &domain.Comment{
			UserID:      primitive.NewObjectID(),
			WorkspaceID: "ab12cd34",
			UserEmail:   "a@example.com",
			UserName:    "A",
			ProjectID:   "p",
			IframeID:    "iframe-1",
			Text:        fmt.Sprintf("note %d", i),
		}
		require.NoError(t, repo.Create(ctx, c))
		time.Sleep(5 * time.Millisecond)
	}

	got, err := repo.ListByIframe(ctx, "iframe-1", "", "")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "note 2", got[0].Text)
	assert.Equal(t, "note 0", got[2].Text)
}
