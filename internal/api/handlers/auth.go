package handlers

import (
	"net/http"

	"github.com/inlyne/inlyne-server/internal/api/middleware"
	"github.com/inlyne/inlyne-server/internal/config"
	"github.com/inlyne/inlyne-server/internal/domain"
	"github.com/inlyne/inlyne-server/internal/service"
	"github.com/inlyne/inlyne-server/internal/token"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type AuthHandler struct {
	auth   *service.AuthService
	tokens *token.Service
	cfg    *config.Config
	logger *zap.Logger
}

func NewAuthHandler(auth *service.AuthService, tokens *token.Service, cfg *config.Config, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, tokens: tokens, cfg: cfg, logger: logger}
}

type SignupRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.auth.Signup(r.Context(), req.Email, req.Name); err != nil {
		respondError(w, h.logger, r, err)
		return
	}
	respondMsg(w, http.StatusCreated, "Verification email sent", true)
}

func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("token")
	if raw == "" {
		respondMsg(w, http.StatusBadRequest, "Missing token", false)
		return
	}

	result, err := h.auth.VerifyEmail(r.Context(), raw)
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}
	respondJSON(w, http.StatusOK, Response{
		"msg":     "Email verified",
		"success": true,
		"email":   result.Email,
		"token":   result.Token,
	})
}

type CreatePasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (h *AuthHandler) CreatePassword(w http.ResponseWriter, r *http.Request) {
	var req CreatePasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.auth.CreatePassword(r.Context(), req.Token, req.Password)
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	http.SetCookie(w, sessionCookie(h.cfg, result.SessionToken))
	respondJSON(w, http.StatusCreated, Response{
		"msg":         "Account created",
		"success":     true,
		"workspaceID": result.User.WorkspaceID,
	})
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req SignInRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		respondMsg(w, http.StatusBadRequest, "Email and password are required", false)
		return
	}

	result, err := h.auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		// Field-level keys so the form can highlight the failing input.
		switch err {
		case domain.ErrNoSuchAccount:
			respondJSON(w, http.StatusUnauthorized, Response{
				"msg": "No account found with this email", "success": false, "field": "email",
			})
		case domain.ErrInvalidPassword:
			respondJSON(w, http.StatusUnauthorized, Response{
				"msg": "Incorrect password", "success": false, "field": "password",
			})
		default:
			respondError(w, h.logger, r, err)
		}
		return
	}

	http.SetCookie(w, sessionCookie(h.cfg, result.SessionToken))
	respondJSON(w, http.StatusOK, Response{
		"msg":         "Signed in",
		"success":     true,
		"workspaceID": result.User.WorkspaceID,
	})
}

type ResetRequestRequest struct {
	Email string `json:"email"`
}

func (h *AuthHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req ResetRequestRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" {
		respondMsg(w, http.StatusBadRequest, "Email is required", false)
		return
	}

	if err := h.auth.RequestPasswordReset(r.Context(), req.Email); err != nil {
		respondError(w, h.logger, r, err)
		return
	}
	respondMsg(w, http.StatusOK, "Password reset email sent", true)
}

func (h *AuthHandler) VerifyResetToken(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("token")
	if raw == "" {
		respondMsg(w, http.StatusBadRequest, "Missing token", false)
		return
	}

	email, err := h.auth.VerifyResetToken(raw)
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}
	respondJSON(w, http.StatusOK, Response{"success": true, "email": email})
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req CreatePasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.auth.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		respondError(w, h.logger, r, err)
		return
	}
	respondMsg(w, http.StatusOK, "Password updated, please sign in", true)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, clearedSessionCookie(h.cfg))
	respondMsg(w, http.StatusOK, "Signed out", true)
}

// Me resolves the session cookie itself instead of sitting behind the auth
// middleware: an anonymous visitor gets a 200 with user null, which the
// frontend treats as "show the signed-out state" rather than an error.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")

	cookie, err := r.Cookie(middleware.SessionCookie)
	if err != nil || cookie.Value == "" {
		respondJSON(w, http.StatusOK, Response{"success": false, "user": nil})
		return
	}

	claims, err := h.tokens.VerifySession(cookie.Value)
	if err != nil {
		respondJSON(w, http.StatusOK, Response{"success": false, "user": nil})
		return
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		respondJSON(w, http.StatusOK, Response{"success": false, "user": nil})
		return
	}

	user, err := h.auth.GetUser(r.Context(), userID)
	if err != nil {
		respondJSON(w, http.StatusOK, Response{"success": false, "user": nil})
		return
	}

	respondJSON(w, http.StatusOK, Response{"success": true, "user": userProjection(user)})
}

// userProjection is the client-facing user shape; the password hash never
// leaves the server.
func userProjection(u *domain.User) Response {
	return Response{
		"id":          u.ID.Hex(),
		"email":       u.Email,
		"name":        u.Name,
		"workspaceID": u.WorkspaceID,
		"role":        u.Role,
		"isVerified":  u.IsVerified,
		"createdAt":   u.CreatedAt,
	}
}
