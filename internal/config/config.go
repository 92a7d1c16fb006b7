package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config is built once at process start and passed by reference to every
// component that needs it. Nothing reads the environment after Load returns.
type Config struct {
	// Server
	Port        string
	Environment string

	// Database
	MongoURI      string
	MongoDatabase string

	// JWT
	JWTSecret string

	// Cookies
	CookieDomain string

	// CORS
	AllowedOrigins []string

	// Frontend base URL embedded in email links
	ClientURL string

	// Mail / SMTP
	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	MailFrom string

	// DigitalOcean Spaces (S3-compatible) object storage
	SpacesRegion   string
	SpacesEndpoint string
	SpacesKey      string
	SpacesSecret   string
	SpacesBucket   string
	SpacesUseCDN   bool

	// Screenshot capture
	ScreenshotsDisabled bool

	// Local uploads (cover images, served under /uploads)
	UploadDir string
}

func Load() (*Config, error) {
	// Best effort; a missing .env just means plain environment variables.
	_ = godotenv.Load()

	cfg := &Config{
		Port:                getEnv("PORT", "5000"),
		Environment:         getEnv("ENVIRONMENT", "development"),
		MongoURI:            getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:       getEnv("MONGO_DATABASE", "inlyne"),
		JWTSecret:           getEnv("JWT_SECRET", ""),
		CookieDomain:        getEnv("COOKIE_DOMAIN", ""),
		AllowedOrigins:      splitOrigins(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		ClientURL:           strings.TrimRight(getEnv("CLIENT_URL", "http://localhost:3000"), "/"),
		SMTPHost:            getEnv("SMTP_HOST", "localhost"),
		SMTPPort:            getEnvInt("SMTP_PORT", 587),
		SMTPUser:            getEnv("SMTP_USER", ""),
		SMTPPass:            getEnv("SMTP_PASS", ""),
		MailFrom:            getEnv("MAIL_FROM", "noreply@inlyne.app"),
		SpacesRegion:        getEnv("DO_SPACES_REGION", "nyc3"),
		SpacesEndpoint:      getEnv("DO_SPACES_ENDPOINT", ""),
		SpacesKey:           getEnv("DO_SPACES_KEY", ""),
		SpacesSecret:        getEnv("DO_SPACES_SECRET", ""),
		SpacesBucket:        getEnv("DO_SPACES_BUCKET", ""),
		SpacesUseCDN:        getEnvBool("DO_SPACES_USE_CDN", false),
		ScreenshotsDisabled: getEnvBool("SCREENSHOTS_DISABLED", false),
		UploadDir:           getEnv("UPLOAD_DIR", "uploads"),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	return cfg, nil
}

// IsProduction reports whether cookie attributes should be scoped to the
// configured cookie domain.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// SpacesConfigured reports whether cover images should be pushed to object
// storage instead of being served from local disk.
func (c *Config) SpacesConfigured() bool {
	return c.SpacesKey != "" && c.SpacesSecret != "" && c.SpacesBucket != ""
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimRight(strings.TrimSpace(p), "/")
		if p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}
