package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/inlyne/inlyne-server/internal/api/middleware"
	"github.com/inlyne/inlyne-server/internal/domain"
	"github.com/inlyne/inlyne-server/internal/service"
	"go.uber.org/zap"
)

type InviteHandler struct {
	invites *service.InviteService
	logger  *zap.Logger
}

func NewInviteHandler(invites *service.InviteService, logger *zap.Logger) *InviteHandler {
	return &InviteHandler{invites: invites, logger: logger}
}

type InviteRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Invite issues a time-limited email invitation to a site.
func (h *InviteHandler) Invite(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondMsg(w, http.StatusUnauthorized, "Authentication required", false)
		return
	}

	siteID := chi.URLParam(r, "siteID")
	var req InviteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" || siteID == "" {
		respondMsg(w, http.StatusBadRequest, "email and siteID are required", false)
		return
	}

	invite, err := h.invites.Invite(r.Context(), userID, siteID, req.Email, domain.InviteRole(req.Role))
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, Response{
		"msg":       "Invitation sent",
		"success":   true,
		"email":     invite.Email,
		"role":      invite.Role,
		"expiresAt": invite.ExpiresAt,
	})
}

type AcceptInviteRequest struct {
	Token string `json:"token"`
}

// Accept consumes an invite token and grants the invited user access.
func (h *InviteHandler) Accept(w http.ResponseWriter, r *http.Request) {
	var req AcceptInviteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Token == "" {
		respondMsg(w, http.StatusBadRequest, "token is required", false)
		return
	}

	site, err := h.invites.Accept(r.Context(), req.Token)
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}
	respondJSON(w, http.StatusOK, Response{
		"msg":     "Invitation accepted",
		"success": true,
		"site":    site,
	})
}
