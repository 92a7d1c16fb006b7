package testutil

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/inlyne/inlyne-server/internal/api"
	"github.com/inlyne/inlyne-server/internal/service"
	"github.com/inlyne/inlyne-server/internal/websocket"
	"go.uber.org/zap"
)

// TestServer runs the real router over the in-memory fakes, with a live
// websocket hub as the comment publisher.
type TestServer struct {
	*Harness
	Hub    *websocket.Hub
	Server *httptest.Server
}

func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	h := NewHarness(t)

	hub := websocket.NewHub(zap.NewNop())
	go hub.Run()
	t.Cleanup(hub.Stop)

	// Rewire the comment feed onto the live hub.
	h.Services = service.NewServices(service.Deps{
		Repos:     h.Repos,
		Tokens:    h.Tokens,
		Mailer:    h.Mailer,
		Covers:    h.Capturer,
		Publisher: hub,
		Logger:    zap.NewNop(),
		Config:    h.Config,
	})

	router := api.NewRouter(h.Services, h.Tokens, hub, h.Config, zap.NewNop())
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &TestServer{Harness: h, Hub: hub, Server: srv}
}

// URL joins a path onto the test server base URL.
func (ts *TestServer) URL(path string) string {
	return ts.Server.URL + path
}

// WSURL converts a path into a ws:// URL on the test server.
func (ts *TestServer) WSURL(path string) string {
	return strings.Replace(ts.Server.URL, "http", "ws", 1) + path
}
