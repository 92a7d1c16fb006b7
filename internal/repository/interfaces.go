package repository

import (
	"context"

	"github.com/inlyne/inlyne-server/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error
	// WorkspaceIDExists probes both users and temp users; workspace ids
	// must be unique across the two collections.
	WorkspaceIDExists(ctx context.Context, workspaceID string) (bool, error)
}

type TempUserRepository interface {
	Create(ctx context.Context, tempUser *domain.TempUser) error
	// GetByToken matches email+name+exact token string; the token is the
	// lookup key, not just a bearer credential.
	GetByToken(ctx context.Context, email, name, verificationToken string) (*domain.TempUser, error)
	MarkEmailVerified(ctx context.Context, id primitive.ObjectID) error
	DeleteByEmail(ctx context.Context, email string) error
}

type SiteRepository interface {
	Create(ctx context.Context, site *domain.Site) error
	GetByRef(ctx context.Context, id primitive.ObjectID) (*domain.Site, error)
	GetBySiteID(ctx context.Context, siteID string) (*domain.Site, error)
	// GetBySiteIDForUser returns the site only when userID is in its
	// allowed set.
	GetBySiteIDForUser(ctx context.Context, siteID string, userID primitive.ObjectID) (*domain.Site, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]*domain.Site, error)
	AddAllowedUser(ctx context.Context, id primitive.ObjectID, userID primitive.ObjectID) error
	SiteIDExists(ctx context.Context, siteID string) (bool, error)
}

type SiteInviteRepository interface {
	Create(ctx context.Context, invite *domain.SiteInvite) error
	GetPending(ctx context.Context, siteRef primitive.ObjectID, email string) (*domain.SiteInvite, error)
	GetByToken(ctx context.Context, token string) (*domain.SiteInvite, error)
	MarkAccepted(ctx context.Context, id primitive.ObjectID) error
}

type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	// ListByIframe filters by iframe id always, and by page and device
	// type only when non-empty. Newest first.
	ListByIframe(ctx context.Context, iframeID, page string, deviceType domain.DeviceType) ([]*domain.Comment, error)
}

type Repositories struct {
	User       UserRepository
	TempUser   TempUserRepository
	Site       SiteRepository
	SiteInvite SiteInviteRepository
	Comment    CommentRepository
}
