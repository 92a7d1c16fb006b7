package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/inlyne/inlyne-server/internal/api"
	"github.com/inlyne/inlyne-server/internal/config"
	"github.com/inlyne/inlyne-server/internal/mail"
	"github.com/inlyne/inlyne-server/internal/repository/mongodb"
	"github.com/inlyne/inlyne-server/internal/screenshot"
	"github.com/inlyne/inlyne-server/internal/service"
	"github.com/inlyne/inlyne-server/internal/storage"
	"github.com/inlyne/inlyne-server/internal/token"
	"github.com/inlyne/inlyne-server/internal/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize database
	client, db, err := mongodb.NewConnection(cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		logger.Fatal("failed to connect to mongodb", zap.Error(err))
	}
	defer client.Disconnect(context.Background())

	indexCtx, cancelIndex := context.WithTimeout(context.Background(), 30*time.Second)
	if err := mongodb.EnsureIndexes(indexCtx, db); err != nil {
		cancelIndex()
		logger.Fatal("failed to create indexes", zap.Error(err))
	}
	cancelIndex()

	// Initialize repositories
	repos := mongodb.NewRepositories(db)

	tokens := token.NewService(cfg.JWTSecret)
	mailer := mail.New(cfg)

	covers, err := newCoverCapturer(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize cover storage", zap.Error(err))
	}

	// Initialize WebSocket hub
	hub := websocket.NewHub(logger)
	go hub.Run()

	// Initialize services
	services := service.NewServices(service.Deps{
		Repos:     repos,
		Tokens:    tokens,
		Mailer:    mailer,
		Covers:    covers,
		Publisher: hub,
		Logger:    logger,
		Config:    cfg,
	})

	// Initialize router
	router := api.NewRouter(services, tokens, hub, cfg, logger)

	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	hub.Stop()
	logger.Info("server stopped")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// newCoverCapturer wires screenshot capture to whichever object store is
// configured. Returns nil (capture disabled) when screenshots are off.
func newCoverCapturer(cfg *config.Config, logger *zap.Logger) (service.CoverCapturer, error) {
	if cfg.ScreenshotsDisabled {
		logger.Info("cover screenshots disabled")
		return nil, nil
	}

	var store storage.Store
	if cfg.SpacesConfigured() {
		spaces, err := storage.NewSpacesStore(context.Background(), cfg)
		if err != nil {
			return nil, err
		}
		store = spaces
		logger.Info("storing covers in spaces", zap.String("bucket", cfg.SpacesBucket))
	} else {
		local, err := storage.NewLocalStore(cfg.UploadDir, "http://localhost:"+cfg.Port)
		if err != nil {
			return nil, err
		}
		store = local
		logger.Info("storing covers locally", zap.String("dir", cfg.UploadDir))
	}

	return screenshot.NewCapturer(store, logger), nil
}
