package testutil

import (
	"context"
	"testing"

	"github.com/inlyne/inlyne-server/internal/config"
	"github.com/inlyne/inlyne-server/internal/domain"
	"github.com/inlyne/inlyne-server/internal/repository"
	"github.com/inlyne/inlyne-server/internal/service"
	"github.com/inlyne/inlyne-server/internal/token"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Harness wires the full service layer onto in-memory fakes.
type Harness struct {
	Repos     *repository.Repositories
	Tokens    *token.Service
	Mailer    *FakeMailer
	Capturer  *FakeCapturer
	Publisher *FakePublisher
	Config    *config.Config
	Services  *service.Services
}

func NewHarness(t *testing.T) *Harness {
	t.Helper()

	cfg := &config.Config{
		Port:        "5000",
		Environment: "test",
		JWTSecret:   "test-secret",
		ClientURL:   "http://localhost:3000",
		AllowedOrigins: []string{
			"http://localhost:3000",
		},
	}

	h := &Harness{
		Repos:     NewRepositories(),
		Tokens:    token.NewService(cfg.JWTSecret),
		Mailer:    &FakeMailer{},
		Capturer:  &FakeCapturer{},
		Publisher: &FakePublisher{},
		Config:    cfg,
	}
	h.Services = service.NewServices(service.Deps{
		Repos:     h.Repos,
		Tokens:    h.Tokens,
		Mailer:    h.Mailer,
		Covers:    h.Capturer,
		Publisher: h.Publisher,
		Logger:    zap.NewNop(),
		Config:    cfg,
	})
	return h
}

// CreateUser inserts a registered user directly, bypassing the signup flow.
func (h *Harness) CreateUser(t *testing.T, email, name, password, workspaceID string) *domain.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}
	user := &domain.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		IsVerified:   true,
		WorkspaceID:  workspaceID,
		Role:         domain.RoleUser,
	}
	if err := h.Repos.User.Create(context.Background(), user); err != nil {
		t.Fatalf("creating user: %v", err)
	}
	return user
}

// CreateSite inserts a site owned by the given user.
func (h *Harness) CreateSite(t *testing.T, owner *domain.User, name, url, siteID string) *domain.Site {
	t.Helper()

	site := &domain.Site{
		Name:         name,
		URL:          url,
		SiteID:       siteID,
		AllowedUsers: []primitive.ObjectID{owner.ID},
	}
	if err := h.Repos.Site.Create(context.Background(), site); err != nil {
		t.Fatalf("creating site: %v", err)
	}
	return site
}

// SessionFor issues a session token for a user, for cookie-based requests.
func (h *Harness) SessionFor(t *testing.T, user *domain.User) string {
	t.Helper()

	raw, err := h.Tokens.Session(user.ID.Hex(), user.Email, user.Name, user.WorkspaceID)
	if err != nil {
		t.Fatalf("issuing session token: %v", err)
	}
	return raw
}
