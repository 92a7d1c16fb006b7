package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/inlyne/inlyne-server/internal/domain"
	"github.com/inlyne/inlyne-server/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// SiteService creates sites and manages their allowed-user sets.
type SiteService struct {
	sites  repository.SiteRepository
	users  repository.UserRepository
	covers CoverCapturer
	logger *zap.Logger
}

func NewSiteService(sites repository.SiteRepository, users repository.UserRepository, covers CoverCapturer, logger *zap.Logger) *SiteService {
	return &SiteService{
		sites:  sites,
		users:  users,
		covers: covers,
		logger: logger,
	}
}

/// Create registers a site owned by ownerID. Cover capture is best effort:
// any failure leaves the cover null and the creation succeeds.
func (s *SiteService) Create(ctx context.Context, ownerID primitive.ObjectID, name, url string) (*domain.Site, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(url) == "" {
		return nil, domain.ErrMissingFields
	}

	for attempt := 0; attempt < idAttempts; attempt++ {
		siteID, err := s.generateSiteID(ctx)
		if err != nil {
			return nil, err
		}

		var coverImage *string
		if s.covers != nil {
			if cover, err := s.covers.Capture(ctx, url, siteID); err != nil {
				s.logger.Warn("cover image capture failed",
					zap.String("siteID", siteID),
					zap.String("url", url),
					zap.Error(err))
			} else {
				coverImage = &cover
			}
		}

		site := &domain.Site{
			Name:         name,
			URL:          url,
			CoverImage:   coverImage,
			SiteID:       siteID,
			AllowedUsers: []primitive.ObjectID{ownerID},
		}
		err = s.sites.Create(ctx, site)
		if errors.Is(err, domain.ErrDuplicateKey) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return site, nil
	}
	return nil, fmt.Errorf("could not allocate a unique site id after %d attempts", idAttempts)
}

// List returns every site the user can see, newest first.
func (s *SiteService) List(ctx context.Context, userID primitive.ObjectID) ([]*domain.Site, error) {
	return s.sites.ListByUser(ctx, userID)
}

// AddAllowedUser grants targetEmail's account access to the site. Only a
// user already in the allowed set may add more.
func (s *SiteService) AddAllowedUser(ctx context.Context, requesterID primitive.ObjectID, siteID, targetEmail string) error {
	site, err := s.sites.GetBySiteIDForUser(ctx, siteID, requesterID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrForbidden
		}
		return err
	}

	target, err := s.users.GetByEmail(ctx, targetEmail)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	for _, id := range site.AllowedUsers {
		if id == target.ID {
			return domain.ErrAlreadyAllowed
		}
	}

	return s.sites.AddAllowedUser(ctx, site.ID, target.ID)
}

func (s *SiteService) generateSiteID(ctx context.Context) (string, error) {
	for {
		id, err := randomHex(4)
		if err != nil {
			return "", err
		}
		exists, err := s.sites.SiteIDExists(ctx, id)
		if err != nil {
			return "", err
		}
		if !exists {
			return id, nil
		}
	}
}
