package handlers

import (
	"net/http"
	"time"

	"github.com/inlyne/inlyne-server/internal/api/middleware"
	"github.com/inlyne/inlyne-server/internal/config"
	"github.com/inlyne/inlyne-server/internal/token"
)

// sessionCookie builds the access_token cookie. SameSite=None because the
// embed script posts from customer origins; the Domain attribute is only
// set in production where the API and frontend share a parent domain.
func sessionCookie(cfg *config.Config, value string) *http.Cookie {
	c := &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   int(token.SessionTTL / time.Second),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	}
	if cfg.IsProduction() && cfg.CookieDomain != "" {
		c.Domain = cfg.CookieDomain
	}
	return c
}

// clearedSessionCookie mirrors sessionCookie's attributes; browsers only
// drop a cookie when the clearing Set-Cookie matches them.
func clearedSessionCookie(cfg *config.Config) *http.Cookie {
	c := sessionCookie(cfg, "")
	c.MaxAge = -1
	return c
}
