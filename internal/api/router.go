package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/inlyne/inlyne-server/internal/api/handlers"
	"github.com/inlyne/inlyne-server/internal/api/middleware"
	"github.com/inlyne/inlyne-server/internal/config"
	"github.com/inlyne/inlyne-server/internal/service"
	"github.com/inlyne/inlyne-server/internal/token"
	"github.com/inlyne/inlyne-server/internal/websocket"
)

func NewRouter(services *service.Services, tokens *token.Service, hub *websocket.Hub, cfg *config.Config, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Locally stored cover images
	fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir)))
	r.Get("/uploads/*", fileServer.ServeHTTP)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.Auth, tokens, cfg, logger)
	siteHandler := handlers.NewSiteHandler(services.Site, logger)
	inviteHandler := handlers.NewInviteHandler(services.Invite, logger)
	commentHandler := handlers.NewCommentHandler(services.Comment, logger)
	wsHandler := handlers.NewWebSocketHandler(hub, tokens, cfg.AllowedOrigins, logger)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.Signup)
			r.Get("/verify-email", authHandler.VerifyEmail)
			r.Post("/create-password", authHandler.CreatePassword)
			r.Post("/signin", authHandler.SignIn)
			r.Post("/logout", authHandler.Logout)
			r.Get("/me", authHandler.Me)

			r.Route("/reset-password", func(r chi.Router) {
				r.Post("/request", authHandler.RequestPasswordReset)
				r.Get("/verify", authHandler.VerifyResetToken)
				r.Post("/create-password", authHandler.ResetPassword)
			})
		})

		r.Route("/site", func(r chi.Router) {
			// Invite acceptance is reached from an email link before the
			// invitee necessarily has a session on this device.
			r.Post("/invite/accept", inviteHandler.Accept)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(tokens))
				r.Post("/create", siteHandler.Create)
				r.Post("/invite", siteHandler.AddAllowedUser)
				r.Get("/get/{userId}", siteHandler.List)
				r.Post("/{siteID}/invite", inviteHandler.Invite)
			})
		})

		r.Route("/comment", func(r chi.Router) {
			r.Get("/ws", wsHandler.Handle)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(tokens))
				r.Post("/create", commentHandler.Create)
				r.Get("/get/{iframeId}", commentHandler.List)
			})
		})
	})

	return r
}
