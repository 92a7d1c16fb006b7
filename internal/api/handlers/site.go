package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/inlyne/inlyne-server/internal/api/middleware"
	"github.com/inlyne/inlyne-server/internal/service"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type SiteHandler struct {
	sites  *service.SiteService
	logger *zap.Logger
}

func NewSiteHandler(sites *service.SiteService, logger *zap.Logger) *SiteHandler {
	return &SiteHandler{sites: sites, logger: logger}
}

type CreateSiteRequest struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

func (h *SiteHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondMsg(w, http.StatusUnauthorized, "Authentication required", false)
		return
	}

	var req CreateSiteRequest
	if !decodeBody(w, r, &req) {
		return
	}

	site, err := h.sites.Create(r.Context(), userID, req.Name, req.URL)
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, Response{
		"msg":     "Site created",
		"success": true,
		"site":    site,
	})
}

// List returns the caller's sites. The userId path segment is kept for
// frontend routing compatibility but must match the session user.
func (h *SiteHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondMsg(w, http.StatusUnauthorized, "Authentication required", false)
		return
	}

	if pathID := chi.URLParam(r, "userId"); pathID != "" {
		requested, err := primitive.ObjectIDFromHex(pathID)
		if err != nil || requested != userID {
			respondMsg(w, http.StatusForbidden, "You can only list your own sites", false)
			return
		}
	}

	sites, err := h.sites.List(r.Context(), userID)
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}
	respondJSON(w, http.StatusOK, Response{"success": true, "sites": sites})
}

type AddAllowedUserRequest struct {
	UserEmail string `json:"userEmail"`
	SiteID    string `json:"siteID"`
}

// AddAllowedUser grants an already-registered user access to a site.
func (h *SiteHandler) AddAllowedUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondMsg(w, http.StatusUnauthorized, "Authentication required", false)
		return
	}

	var req AddAllowedUserRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.UserEmail == "" || req.SiteID == "" {
		respondMsg(w, http.StatusBadRequest, "userEmail and siteID are required", false)
		return
	}

	if err := h.sites.AddAllowedUser(r.Context(), userID, req.SiteID, req.UserEmail); err != nil {
		respondError(w, h.logger, r, err)
		return
	}
	respondMsg(w, http.StatusOK, "User added to site", true)
}
