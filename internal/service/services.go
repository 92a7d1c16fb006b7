package service

import (
	"context"

	"github.com/inlyne/inlyne-server/internal/config"
	"github.com/inlyne/inlyne-server/internal/repository"
	"github.com/inlyne/inlyne-server/internal/token"
	"go.uber.org/zap"
)

// Mailer delivers the transactional emails the workflows depend on. Send
// failures propagate to the caller: a signup or invite whose link was never
// delivered is a failed request, not a silent success.
type Mailer interface {
	SendSignupVerification(ctx context.Context, to, link string) error
	SendPasswordReset(ctx context.Context, to, link string) error
	SendSiteInvite(ctx context.Context, to, siteName, link string) error
}

// CoverCapturer produces a cover image for a freshly created site and
// returns its public URL. Failures never block site creation.
type CoverCapturer interface {
	Capture(ctx context.Context, url, siteID string) (string, error)
}

// CommentPublisher receives newly created comments for live delivery.
type CommentPublisher interface {
	PublishComment(iframeID string, payload any)
}

type Services struct {
	Auth    *AuthService
	Site    *SiteService
	Invite  *InviteService
	Comment *CommentService
}

type Deps struct {
	Repos     *repository.Repositories
	Tokens    *token.Service
	Mailer    Mailer
	Covers    CoverCapturer    // nil disables cover capture
	Publisher CommentPublisher // nil disables the live feed
	Logger    *zap.Logger
	Config    *config.Config
}

func NewServices(d Deps) *Services {
	return &Services{
		Auth:    NewAuthService(d.Repos.User, d.Repos.TempUser, d.Tokens, d.Mailer, d.Config),
		Site:    NewSiteService(d.Repos.Site, d.Repos.User, d.Covers, d.Logger),
		Invite:  NewInviteService(d.Repos.Site, d.Repos.SiteInvite, d.Repos.User, d.Mailer, d.Config),
		Comment: NewCommentService(d.Repos.Comment, d.Publisher),
	}
}
