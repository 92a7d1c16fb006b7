// Package token issues and verifies the signed, time-limited tokens used by
// the signup, session, and password-reset flows. All three shapes share one
// HMAC secret; reset tokens carry a type discriminator so they can never be
// used where a session token is expected, and vice versa.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	SignupTTL  = time.Hour
	SessionTTL = 7 * 24 * time.Hour
	ResetTTL   = 15 * time.Minute

	typeReset = "reset"
)

var (
	// ErrExpired is returned for structurally valid tokens past their
	// expiry. A token verified at exactly its expiry instant is treated
	// as expired.
	ErrExpired = errors.New("token expired")
	// ErrInvalid covers malformed tokens, bad signatures, and tokens of
	// the wrong type.
	ErrInvalid = errors.New("token invalid")
)

// SignupClaims is embedded in email verification links.
type SignupClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// AuthClaims backs both session and reset tokens; Type is "reset" for
// reset tokens and empty for sessions.
type AuthClaims struct {
	UserID      string `json:"userId"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	WorkspaceID string `json:"workspaceID,omitempty"`
	Type        string `json:"type,omitempty"`
	jwt.RegisteredClaims
}

type Service struct {
	secret []byte
}

func NewService(secret string) *Service {
	return &Service{secret: []byte(secret)}
}

func (s *Service) sign(claims jwt.Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func expiry(ttl time.Duration) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

// Signup issues the email verification token embedded in the signup link.
func (s *Service) Signup(email, name string) (string, error) {
	return s.sign(SignupClaims{
		Email:            email,
		Name:             name,
		RegisteredClaims: expiry(SignupTTL),
	})
}

// Session issues the bearer token carried by the access_token cookie.
func (s *Service) Session(userID, email, name, workspaceID string) (string, error) {
	return s.sign(AuthClaims{
		UserID:           userID,
		Email:            email,
		Name:             name,
		WorkspaceID:      workspaceID,
		RegisteredClaims: expiry(SessionTTL),
	})
}

// Reset issues a password-reset token.
func (s *Service) Reset(userID, email, name string) (string, error) {
	return s.sign(AuthClaims{
		UserID:           userID,
		Email:            email,
		Name:             name,
		Type:             typeReset,
		RegisteredClaims: expiry(ResetTTL),
	})
}

// VerifySignup validates a signup token and returns its claims.
func (s *Service) VerifySignup(raw string) (*SignupClaims, error) {
	var claims SignupClaims
	if err := s.parse(raw, &claims); err != nil {
		return nil, err
	}
	return &claims, nil
}

// VerifySession validates a session token. Reset-typed tokens are rejected
// as invalid even when their signature and expiry check out.
func (s *Service) VerifySession(raw string) (*AuthClaims, error) {
	var claims AuthClaims
	if err := s.parse(raw, &claims); err != nil {
		return nil, err
	}
	if claims.Type != "" {
		return nil, ErrInvalid
	}
	return &claims, nil
}

// VerifyReset validates a reset token; the type discriminator must be
// present, so session tokens are rejected here.
func (s *Service) VerifyReset(raw string) (*AuthClaims, error) {
	var claims AuthClaims
	if err := s.parse(raw, &claims); err != nil {
		return nil, err
	}
	if claims.Type != typeReset {
		return nil, ErrInvalid
	}
	return &claims, nil
}

func (s *Service) parse(raw string, claims jwt.Claims) error {
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	default:
		return ErrInvalid
	}
}
