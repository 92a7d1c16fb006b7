package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/inlyne/inlyne-server/internal/config"
	"github.com/inlyne/inlyne-server/internal/domain"
	"github.com/inlyne/inlyne-server/internal/repository"
	"github.com/inlyne/inlyne-server/internal/token"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches the hashing policy of the rest of the platform.
const bcryptCost = 10

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// AuthService drives the three-step signup state machine
// (NONE -> PENDING -> EMAIL_VERIFIED -> ACTIVE) plus sign-in and the
// password-reset flow. The TempUser record carries the state between steps;
// the TTL index reaps abandoned signups.
type AuthService struct {
	users     repository.UserRepository
	tempUsers repository.TempUserRepository
	tokens    *token.Service
	mailer    Mailer
	cfg       *config.Config
}

func NewAuthService(users repository.UserRepository, tempUsers repository.TempUserRepository, tokens *token.Service, mailer Mailer, cfg *config.Config) *AuthService {
	return &AuthService{
		users:     users,
		tempUsers: tempUsers,
		tokens:    tokens,
		mailer:    mailer,
		cfg:       cfg,
	}
}

// Signup starts the flow: validates the email, replaces any stale pending
// record for it, and emails a verification link. A mail delivery failure
// fails the whole request.
func (s *AuthService) Signup(ctx context.Context, email, name string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(email) {
		return domain.ErrInvalidEmail
	}
	if strings.TrimSpace(name) == "" {
		return domain.ErrMissingFields
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return domain.ErrEmailInUse
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	// A repeated signup replaces the earlier pending record.
	if err := s.tempUsers.DeleteByEmail(ctx, email); err != nil {
		return err
	}

	signupToken, err := s.tokens.Signup(email, name)
	if err != nil {
		return err
	}

	if err := s.createTempUser(ctx, email, name, signupToken); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/auth/sign-up/create-password?token=%s", s.cfg.ClientURL, signupToken)
	if err := s.mailer.SendSignupVerification(ctx, email, link); err != nil {
		return fmt.Errorf("sending verification email: %w", err)
	}
	return nil
}

// createTempUser inserts the pending record, drawing fresh workspace ids
// until the unique indexes accept one.
func (s *AuthService) createTempUser(ctx context.Context, email, name, signupToken string) error {
	for attempt := 0; attempt < idAttempts; attempt++ {
		workspaceID, err := s.generateWorkspaceID(ctx)
		if err != nil {
			return err
		}
		err = s.tempUsers.Create(ctx, &domain.TempUser{
			Email:             email,
			Name:              name,
			VerificationToken: signupToken,
			IsEmailVerified:   false,
			WorkspaceID:       workspaceID,
		})
		if errors.Is(err, domain.ErrDuplicateKey) {
			continue
		}
		return err
	}
	return fmt.Errorf("could not allocate a unique workspace id after %d attempts", idAttempts)
}

// generateWorkspaceID draws 8-hex-char candidates until one is unused by
// both users and temp users. The probe is advisory; the caller still
// retries on a duplicate-key insert.
func (s *AuthService) generateWorkspaceID(ctx context.Context) (string, error) {
	for {
		id, err := randomHex(4)
		if err != nil {
			return "", err
		}
		exists, err := s.users.WorkspaceIDExists(ctx, id)
		if err != nil {
			return "", err
		}
		if !exists {
			return id, nil
		}
	}
}

// VerifyEmailResult is returned to the client so the frontend can carry the
// token forward into the create-password step.
type VerifyEmailResult struct {
	Email string
	Token string
}

// VerifyEmail is step 2: the link token must verify AND match the stored
// verification token exactly; the token is the lookup key.
func (s *AuthService) VerifyEmail(ctx context.Context, rawToken string) (*VerifyEmailResult, error) {
	claims, err := s.tokens.VerifySignup(rawToken)
	if err != nil {
		return nil, err
	}

	tempUser, err := s.tempUsers.GetByToken(ctx, claims.Email, claims.Name, rawToken)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrLinkInvalid
		}
		return nil, err
	}

	if err := s.tempUsers.MarkEmailVerified(ctx, tempUser.ID); err != nil {
		return nil, err
	}

	return &VerifyEmailResult{Email: claims.Email, Token: rawToken}, nil
}

// CreatePasswordResult carries everything the handler needs to establish
// the session for the newly active account.
type CreatePasswordResult struct {
	User         *domain.User
	SessionToken string
}

// CreatePassword is step 3: consumes the verified TempUser, producing a
// permanent User and a session token. The email-in-use recheck covers a
// race with a concurrent registration.
func (s *AuthService) CreatePassword(ctx context.Context, rawToken, password string) (*CreatePasswordResult, error) {
	if rawToken == "" || password == "" {
		return nil, domain.ErrMissingFields
	}
	if len(password) < 8 {
		return nil, domain.ErrPasswordTooShort
	}

	claims, err := s.tokens.VerifySignup(rawToken)
	if err != nil {
		return nil, err
	}

	tempUser, err := s.tempUsers.GetByToken(ctx, claims.Email, claims.Name, rawToken)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotVerified
		}
		return nil, err
	}
	if !tempUser.IsEmailVerified {
		return nil, domain.ErrNotVerified
	}

	if _, err := s.users.GetByEmail(ctx, claims.Email); err == nil {
		_ = s.tempUsers.DeleteByEmail(ctx, claims.Email)
		return nil, domain.ErrAlreadyRegistered
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        claims.Email,
		Name:         claims.Name,
		PasswordHash: string(hash),
		IsVerified:   true,
		WorkspaceID:  tempUser.WorkspaceID,
		Role:         domain.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateKey) {
			_ = s.tempUsers.DeleteByEmail(ctx, claims.Email)
			return nil, domain.ErrAlreadyRegistered
		}
		return nil, err
	}

	if err := s.tempUsers.DeleteByEmail(ctx, claims.Email); err != nil {
		return nil, err
	}

	sessionToken, err := s.sessionToken(user)
	if err != nil {
		return nil, err
	}
	return &CreatePasswordResult{User: user, SessionToken: sessionToken}, nil
}

// SignIn is the stateless email/password login.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*CreatePasswordResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNoSuchAccount
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidPassword
	}

	sessionToken, err := s.sessionToken(user)
	if err != nil {
		return nil, err
	}
	return &CreatePasswordResult{User: user, SessionToken: sessionToken}, nil
}

// GetUser resolves the authenticated user for /me.
func (s *AuthService) GetUser(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// RequestPasswordReset emails a 15-minute reset link. Like signup, a mail
// failure fails the request.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNoSuchAccount
		}
		return err
	}

	resetToken, err := s.tokens.Reset(user.ID.Hex(), user.Email, user.Name)
	if err != nil {
		return err
	}

	link := fmt.Sprintf("%s/auth/reset-password/create-password?token=%s", s.cfg.ClientURL, resetToken)
	if err := s.mailer.SendPasswordReset(ctx, user.Email, link); err != nil {
		return fmt.Errorf("sending reset email: %w", err)
	}
	return nil
}

// VerifyResetToken checks a reset link before the frontend shows the
// new-password form; returns the email for display.
func (s *AuthService) VerifyResetToken(rawToken string) (string, error) {
	claims, err := s.tokens.VerifyReset(rawToken)
	if err != nil {
		return "", err
	}
	return claims.Email, nil
}

// ResetPassword overwrites the password. No session is established; the
// user signs in afterward.
func (s *AuthService) ResetPassword(ctx context.Context, rawToken, password string) error {
	if rawToken == "" || password == "" {
		return domain.ErrMissingFields
	}
	if len(password) < 8 {
		return domain.ErrPasswordTooShort
	}

	claims, err := s.tokens.VerifyReset(rawToken)
	if err != nil {
		return err
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return token.ErrInvalid
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, userID, string(hash))
}

func (s *AuthService) sessionToken(user *domain.User) (string, error) {
	return s.tokens.Session(user.ID.Hex(), user.Email, user.Name, user.WorkspaceID)
}
