package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/inlyne/inlyne-server/internal/config"
	"github.com/inlyne/inlyne-server/internal/domain"
	"github.com/inlyne/inlyne-server/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InviteService issues and redeems time-boxed site invitations.
type InviteService struct {
	sites   repository.SiteRepository
	invites repository.SiteInviteRepository
	users   repository.UserRepository
	mailer  Mailer
	cfg     *config.Config
}

func NewInviteService(sites repository.SiteRepository, invites repository.SiteInviteRepository, users repository.UserRepository, mailer Mailer, cfg *config.Config) *InviteService {
	return &InviteService{
		sites:   sites,
		invites: invites,
		users:   users,
		mailer:  mailer,
		cfg:     cfg,
	}
}

// Invite creates a 24-hour invitation and emails the accept link. One
// outstanding invite per (site, email); a mail failure fails the request.
func (s *InviteService) Invite(ctx context.Context, requesterID primitive.ObjectID, siteID, email string, role domain.InviteRole) (*domain.SiteInvite, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || siteID == "" {
		return nil, domain.ErrMissingFields
	}
	if role == "" {
		role = domain.InviteRoleViewer
	}
	if !role.Valid() {
		return nil, domain.ErrInvalidRole
	}

	site, err := s.sites.GetBySiteIDForUser(ctx, siteID, requesterID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrForbidden
		}
		return nil, err
	}

	if _, err := s.invites.GetPending(ctx, site.ID, email); err == nil {
		return nil, domain.ErrAlreadyInvited
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	inviteToken, err := randomHex(32)
	if err != nil {
		return nil, err
	}

	invite := &domain.SiteInvite{
		SiteRef:   site.ID,
		Email:     email,
		Token:     inviteToken,
		Role:      role,
		Accepted:  false,
		ExpiresAt: time.Now().Add(domain.SiteInviteTTL),
	}
	if err := s.invites.Create(ctx, invite); err != nil {
		return nil, err
	}

	link := fmt.Sprintf("%s/invite/%s", s.cfg.ClientURL, inviteToken)
	if err := s.mailer.SendSiteInvite(ctx, email, site.Name, link); err != nil {
		return nil, fmt.Errorf("sending invite email: %w", err)
	}
	return invite, nil
}

// Accept redeems an invite token: it must exist, be unexpired and
// unaccepted, and the invited email must belong to a registered user. On
// success the user joins the site's allowed set and the invite is marked
// accepted.
func (s *InviteService) Accept(ctx context.Context, inviteToken string) (*domain.Site, error) {
	if inviteToken == "" {
		return nil, domain.ErrMissingFields
	}

	invite, err := s.invites.GetByToken(ctx, inviteToken)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInviteInvalid
		}
		return nil, err
	}
	// TTL deletion is eventually consistent; check the timestamp too.
	if invite.Accepted || time.Now().After(invite.ExpiresAt) {
		return nil, domain.ErrInviteInvalid
	}

	user, err := s.users.GetByEmail(ctx, invite.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	if err := s.sites.AddAllowedUser(ctx, invite.SiteRef, user.ID); err != nil {
		return nil, err
	}
	if err := s.invites.MarkAccepted(ctx, invite.ID); err != nil {
		return nil, err
	}

	return s.sites.GetByRef(ctx, invite.SiteRef)
}
