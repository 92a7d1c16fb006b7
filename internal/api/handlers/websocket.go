package handlers

import (
	"net/http"

	"github.com/inlyne/inlyne-server/internal/api/middleware"
	"github.com/inlyne/inlyne-server/internal/token"
	"github.com/inlyne/inlyne-server/internal/websocket"
	ws "github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type WebSocketHandler struct {
	hub      *websocket.Hub
	tokens   *token.Service
	origins  map[string]bool
	logger   *zap.Logger
	upgrader ws.Upgrader
}

func NewWebSocketHandler(hub *websocket.Hub, tokens *token.Service, allowedOrigins []string, logger *zap.Logger) *WebSocketHandler {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = true
	}

	h := &WebSocketHandler{hub: hub, tokens: tokens, origins: origins, logger: logger}
	h.upgrader = ws.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			// Non-browser clients send no Origin header.
			return origin == "" || origins[origin]
		},
	}
	return h
}

// Handle upgrades a cookie-authenticated connection to the live comment
// feed. An iframeId query parameter subscribes immediately; clients can
// also subscribe (or resubscribe) over the socket.
func (h *WebSocketHandler) Handle(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(middleware.SessionCookie)
	if err != nil || cookie.Value == "" {
		respondMsg(w, http.StatusUnauthorized, "Authentication required", false)
		return
	}
	if _, err := h.tokens.VerifySession(cookie.Value); err != nil {
		respondMsg(w, http.StatusUnauthorized, "Invalid or expired session", false)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := websocket.NewClient(h.hub, conn)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	if iframeID := r.URL.Query().Get("iframeId"); iframeID != "" {
		client.Subscribe(iframeID)
	}
}
