package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/inlyne/inlyne-server/internal/domain"
	"github.com/inlyne/inlyne-server/internal/token"
	"go.uber.org/zap"
)

// Response is the envelope every JSON endpoint answers with. Handlers add
// endpoint-specific fields next to msg/success.
type Response map[string]any

func respondJSON(w http.ResponseWriter, status int, payload Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondMsg(w http.ResponseWriter, status int, msg string, success bool) {
	respondJSON(w, status, Response{"msg": msg, "success": success})
}

// statusAndMsg translates domain and token errors into the client-facing
// status and message. Expired and invalid tokens get distinct messages so
// the frontend can offer "resend link" vs a plain retry.
func statusAndMsg(err error) (int, string, bool) {
	switch {
	case errors.Is(err, domain.ErrInvalidEmail):
		return http.StatusBadRequest, "Please provide a valid email address", true
	case errors.Is(err, domain.ErrMissingFields):
		return http.StatusBadRequest, "Missing required fields", true
	case errors.Is(err, domain.ErrPasswordTooShort):
		return http.StatusBadRequest, "Password must be at least 8 characters", true
	case errors.Is(err, domain.ErrTextTooLong):
		return http.StatusBadRequest, "Comment text exceeds the maximum length", true
	case errors.Is(err, domain.ErrInvalidDeviceType):
		return http.StatusBadRequest, "Invalid device type", true
	case errors.Is(err, domain.ErrInvalidRole):
		return http.StatusBadRequest, "Invalid role", true
	case errors.Is(err, domain.ErrEmailInUse):
		return http.StatusBadRequest, "An account with this email already exists", true
	case errors.Is(err, domain.ErrAlreadyRegistered):
		return http.StatusBadRequest, "This account has already been registered", true
	case errors.Is(err, domain.ErrNotVerified):
		return http.StatusBadRequest, "Email has not been verified", true
	case errors.Is(err, domain.ErrLinkInvalid):
		return http.StatusBadRequest, "This link is invalid or has already been used", true
	case errors.Is(err, domain.ErrInviteInvalid):
		return http.StatusBadRequest, "This invitation is invalid or has expired", true
	case errors.Is(err, domain.ErrAlreadyAllowed):
		return http.StatusBadRequest, "User already has access to this site", true
	case errors.Is(err, domain.ErrAlreadyInvited):
		return http.StatusBadRequest, "An invitation for this email is already pending", true
	case errors.Is(err, domain.ErrNoSuchAccount):
		return http.StatusNotFound, "No account found with this email", true
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "User not found", true
	case errors.Is(err, domain.ErrSiteNotFound):
		return http.StatusNotFound, "Site not found", true
	case errors.Is(err, domain.ErrInvalidPassword):
		return http.StatusUnauthorized, "Incorrect password", true
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "You do not have access to this site", true
	case errors.Is(err, token.ErrExpired):
		return http.StatusBadRequest, "This link has expired, please request a new one", true
	case errors.Is(err, token.ErrInvalid):
		return http.StatusBadRequest, "Invalid token", true
	default:
		return http.StatusInternalServerError, "Something went wrong", false
	}
}

// respondError writes the mapped error body; unexpected errors are logged
// and answered with a generic 500.
func respondError(w http.ResponseWriter, logger *zap.Logger, r *http.Request, err error) {
	status, msg, known := statusAndMsg(err)
	if !known {
		logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
	}
	respondMsg(w, status, msg, false)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondMsg(w, http.StatusBadRequest, "Invalid request body", false)
		return false
	}
	return true
}
