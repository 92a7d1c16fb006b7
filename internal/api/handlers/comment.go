package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/inlyne/inlyne-server/internal/api/middleware"
	"github.com/inlyne/inlyne-server/internal/domain"
	"github.com/inlyne/inlyne-server/internal/service"
	"go.uber.org/zap"
)

type CommentHandler struct {
	comments *service.CommentService
	logger   *zap.Logger
}

func NewCommentHandler(comments *service.CommentService, logger *zap.Logger) *CommentHandler {
	return &CommentHandler{comments: comments, logger: logger}
}

type CreateCommentRequest struct {
	ProjectID  string             `json:"projectId"`
	IframeID   string             `json:"iframeId"`
	IframeURL  string             `json:"iframeUrl"`
	IframePage string             `json:"iframePage"`
	Text       string             `json:"text"`
	Meta       domain.CommentMeta `json:"meta"`
}

// Create records an annotation. The author identity is taken from the
// session claims, never from the request body.
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	claims, okClaims := middleware.GetClaims(r.Context())
	if !ok || !okClaims {
		respondMsg(w, http.StatusUnauthorized, "Authentication required", false)
		return
	}

	var req CreateCommentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	comment, err := h.comments.Create(r.Context(), service.CreateCommentInput{
		UserID:      userID,
		WorkspaceID: claims.WorkspaceID,
		UserEmail:   claims.Email,
		UserName:    claims.Name,
		ProjectID:   req.ProjectID,
		IframeID:    req.IframeID,
		IframeURL:   req.IframeURL,
		IframePage:  req.IframePage,
		Text:        req.Text,
		Meta:        req.Meta,
	})
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, Response{
		"msg":     "Comment created",
		"success": true,
		"comment": comment,
	})
}

// List returns comments for an iframe, optionally filtered by page and
// device type. Both filters must match when both are present.
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	iframeID := chi.URLParam(r, "iframeId")
	page := r.URL.Query().Get("page")
	deviceType := domain.DeviceType(r.URL.Query().Get("deviceType"))

	comments, err := h.comments.List(r.Context(), iframeID, page, deviceType)
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}
	if comments == nil {
		comments = []*domain.Comment{}
	}
	respondJSON(w, http.StatusOK, Response{"success": true, "comments": comments})
}
