// Package testutil provides in-memory repository fakes and outbound-call
// doubles so service and handler tests run without MongoDB, SMTP, or a
// browser.
package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/inlyne/inlyne-server/internal/domain"
	"github.com/inlyne/inlyne-server/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NewRepositories returns a bundle of in-memory fakes sharing one store,
// so cross-collection behavior (workspace id probing) works as in MongoDB.
func NewRepositories() *repository.Repositories {
	s := &memStore{}
	return &repository.Repositories{
		User:       &fakeUserRepo{s: s},
		TempUser:   &fakeTempUserRepo{s: s},
		Site:       &fakeSiteRepo{s: s},
		SiteInvite: &fakeInviteRepo{s: s},
		Comment:    &fakeCommentRepo{s: s},
	}
}

type memStore struct {
	mu        sync.Mutex
	users     []*domain.User
	tempUsers []*domain.TempUser
	sites     []*domain.Site
	invites   []*domain.SiteInvite
	comments  []*domain.Comment
}

type fakeUserRepo struct{ s *memStore }

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == user.Email || u.WorkspaceID == user.WorkspaceID {
			return domain.ErrDuplicateKey
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	user.Email = strings.ToLower(user.Email)
	clone := *user
	r.s.users = append(r.s.users, &clone)
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.ID == id {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	email = strings.ToLower(email)
	for _, u := range r.s.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeUserRepo) UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.ID == id {
			u.PasswordHash = passwordHash
			u.UpdatedAt = time.Now()
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeUserRepo) WorkspaceIDExists(ctx context.Context, workspaceID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.WorkspaceID == workspaceID {
			return true, nil
		}
	}
	for _, tu := range r.s.tempUsers {
		if tu.WorkspaceID == workspaceID {
			return true, nil
		}
	}
	return false, nil
}

type fakeTempUserRepo struct{ s *memStore }

func (r *fakeTempUserRepo) Create(ctx context.Context, tempUser *domain.TempUser) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, tu := range r.s.tempUsers {
		if tu.Email == tempUser.Email || tu.WorkspaceID == tempUser.WorkspaceID {
			return domain.ErrDuplicateKey
		}
	}
	for _, u := range r.s.users {
		if u.WorkspaceID == tempUser.WorkspaceID {
			return domain.ErrDuplicateKey
		}
	}
	if tempUser.ID.IsZero() {
		tempUser.ID = primitive.NewObjectID()
	}
	tempUser.CreatedAt = time.Now()
	clone := *tempUser
	r.s.tempUsers = append(r.s.tempUsers, &clone)
	return nil
}

func (r *fakeTempUserRepo) GetByToken(ctx context.Context, email, name, verificationToken string) (*domain.TempUser, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, tu := range r.s.tempUsers {
		if tu.Email == email && tu.Name == name && tu.VerificationToken == verificationToken {
			clone := *tu
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeTempUserRepo) MarkEmailVerified(ctx context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, tu := range r.s.tempUsers {
		if tu.ID == id {
			tu.IsEmailVerified = true
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeTempUserRepo) DeleteByEmail(ctx context.Context, email string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	kept := r.s.tempUsers[:0]
	for _, tu := range r.s.tempUsers {
		if tu.Email != email {
			kept = append(kept, tu)
		}
	}
	r.s.tempUsers = kept
	return nil
}

// TempUserCount reports how many pending signups a store holds. Only fakes
// created by NewRepositories support it.
func TempUserCount(repos *repository.Repositories) int {
	r := repos.TempUser.(*fakeTempUserRepo)
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.tempUsers)
}

type fakeSiteRepo struct{ s *memStore }

func (r *fakeSiteRepo) Create(ctx context.Context, site *domain.Site) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.sites {
		if existing.SiteID == site.SiteID {
			return domain.ErrDuplicateKey
		}
	}
	if site.ID.IsZero() {
		site.ID = primitive.NewObjectID()
	}
	now := time.Now()
	site.CreatedAt = now
	site.UpdatedAt = now
	clone := *site
	clone.AllowedUsers = append([]primitive.ObjectID(nil), site.AllowedUsers...)
	r.s.sites = append(r.s.sites, &clone)
	return nil
}

func (r *fakeSiteRepo) GetByRef(ctx context.Context, id primitive.ObjectID) (*domain.Site, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, site := range r.s.sites {
		if site.ID == id {
			return cloneSite(site), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeSiteRepo) GetBySiteID(ctx context.Context, siteID string) (*domain.Site, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, site := range r.s.sites {
		if site.SiteID == siteID {
			return cloneSite(site), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeSiteRepo) GetBySiteIDForUser(ctx context.Context, siteID string, userID primitive.ObjectID) (*domain.Site, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, site := range r.s.sites {
		if site.SiteID != siteID {
			continue
		}
		for _, allowed := range site.AllowedUsers {
			if allowed == userID {
				return cloneSite(site), nil
			}
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeSiteRepo) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]*domain.Site, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var result []*domain.Site
	for _, site := range r.s.sites {
		for _, allowed := range site.AllowedUsers {
			if allowed == userID {
				result = append(result, cloneSite(site))
				break
			}
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *fakeSiteRepo) AddAllowedUser(ctx context.Context, id primitive.ObjectID, userID primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, site := range r.s.sites {
		if site.ID != id {
			continue
		}
		for _, allowed := range site.AllowedUsers {
			if allowed == userID {
				return nil // $addToSet semantics
			}
		}
		site.AllowedUsers = append(site.AllowedUsers, userID)
		site.UpdatedAt = time.Now()
		return nil
	}
	return domain.ErrNotFound
}

func (r *fakeSiteRepo) SiteIDExists(ctx context.Context, siteID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, site := range r.s.sites {
		if site.SiteID == siteID {
			return true, nil
		}
	}
	return false, nil
}

func cloneSite(site *domain.Site) *domain.Site {
	clone := *site
	clone.AllowedUsers = append([]primitive.ObjectID(nil), site.AllowedUsers...)
	return &clone
}

type fakeInviteRepo struct{ s *memStore }

func (r *fakeInviteRepo) Create(ctx context.Context, invite *domain.SiteInvite) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.invites {
		if existing.Token == invite.Token {
			return domain.ErrDuplicateKey
		}
	}
	if invite.ID.IsZero() {
		invite.ID = primitive.NewObjectID()
	}
	invite.CreatedAt = time.Now()
	clone := *invite
	r.s.invites = append(r.s.invites, &clone)
	return nil
}

func (r *fakeInviteRepo) GetPending(ctx context.Context, siteRef primitive.ObjectID, email string) (*domain.SiteInvite, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, invite := range r.s.invites {
		if invite.SiteRef == siteRef && invite.Email == email && !invite.Accepted {
			clone := *invite
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeInviteRepo) GetByToken(ctx context.Context, token string) (*domain.SiteInvite, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, invite := range r.s.invites {
		if invite.Token == token {
			clone := *invite
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeInviteRepo) MarkAccepted(ctx context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, invite := range r.s.invites {
		if invite.ID == id {
			invite.Accepted = true
			return nil
		}
	}
	return domain.ErrNotFound
}

type fakeCommentRepo struct{ s *memStore }

func (r *fakeCommentRepo) Create(ctx context.Context, comment *domain.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if comment.ID.IsZero() {
		comment.ID = primitive.NewObjectID()
	}
	now := time.Now()
	comment.CreatedAt = now
	comment.UpdatedAt = now
	clone := *comment
	r.s.comments = append(r.s.comments, &clone)
	return nil
}

func (r *fakeCommentRepo) ListByIframe(ctx context.Context, iframeID, page string, deviceType domain.DeviceType) ([]*domain.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var result []*domain.Comment
	for _, c := range r.s.comments {
		if c.IframeID != iframeID {
			continue
		}
		if page != "" && c.IframePage != page {
			continue
		}
		if deviceType != "" && c.Meta.DeviceType != deviceType {
			continue
		}
		clone := *c
		result = append(result, &clone)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}
