package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env      string // "development", "production", etc.
	LogLevel string // debug, info, warn, error

	// Server
	ServerAddr string
	BaseURL    string
	SiteTitle  string

	// Database
	DatabaseURL string

	// Access tokens
	JWTSecret string
	JWTTTL    time.Duration

	// Session
	SessionSecret string // base64 key for cookie encryption (32 bytes decoded)

	// CORS
	CORSOrigins string // Comma-separated allowed origins, e.g. "https://example.com,https://app.example.com"

	// Redis backs sessions and rate limiting when set; in-memory otherwise.
	RedisURL string

	// RabbitMQ activity publisher
	RabbitMQURL        string
	RabbitMQExchange   string
	RabbitMQRoutingKey string
	RabbitMQQueue      string

	// OIDC
	OIDCIssuer       string
	OIDCClientID     string
	OIDCClientSecret string
	OIDCRedirectURL  string

	// SMTP
	SMTPEnabled  bool
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	SMTPFromName string
	SMTPTLS      string // "tls", "starttls", or "none"

	// Activity log
	ActivityTimeout       time.Duration
	ActivityRetention     time.Duration // zero disables pruning
	ActivityPruneInterval time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is applied first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Env:         getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		ServerAddr:  getEnv("SERVER_ADDR", ":3000"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:3000"),
		SiteTitle:   getEnv("SITE_TITLE", "ArticleHub"),
		DatabaseURL: getEnv("DATABASE_URL", "postgres://localhost:5432/articlehub?sslmode=disable"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTTTL:    getDuration("JWT_TTL", 24*time.Hour),

		SessionSecret: getEnv("SESSION_SECRET", ""),
		CORSOrigins:   getEnv("CORS_ORIGINS", ""),
		RedisURL:      getEnv("REDIS_URL", ""),

		RabbitMQURL:        getEnv("RABBITMQ_URL", ""),
		RabbitMQExchange:   getEnv("RABBITMQ_EXCHANGE", "articlehub.activity"),
		RabbitMQRoutingKey: getEnv("RABBITMQ_ROUTING_KEY", "activity"),
		RabbitMQQueue:      getEnv("RABBITMQ_QUEUE", "articlehub.activity"),

		OIDCIssuer:       getEnv("OIDC_ISSUER", ""),
		OIDCClientID:     getEnv("OIDC_CLIENT_ID", ""),
		OIDCClientSecret: getEnv("OIDC_CLIENT_SECRET", ""),
		OIDCRedirectURL:  getEnv("OIDC_REDIRECT_URL", "http://localhost:3000/api/auth/oidc/callback"),

		SMTPEnabled:  getBool("SMTP_ENABLED", false),
		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getInt("SMTP_PORT", 587),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:     getEnv("SMTP_FROM", ""),
		SMTPFromName: getEnv("SMTP_FROM_NAME", "ArticleHub"),
		SMTPTLS:      strings.ToLower(getEnv("SMTP_TLS", "starttls")),

		ActivityTimeout:       getDuration("ACTIVITY_TIMEOUT", 5*time.Second),
		ActivityRetention:     getDuration("ACTIVITY_RETENTION", 90*24*time.Hour),
		ActivityPruneInterval: getDuration("ACTIVITY_PRUNE_INTERVAL", time.Hour),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return fallback
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// IsOIDCEnabled returns true if an OIDC provider is configured.
func (c *Config) IsOIDCEnabled() bool {
	return c.OIDCIssuer != "" && c.OIDCClientID != ""
}

// IsEmailEnabled returns true if SMTP notifications are configured.
func (c *Config) IsEmailEnabled() bool {
	return c.SMTPEnabled && c.SMTPHost != "" && c.SMTPFrom != ""
}

// IsRabbitMQEnabled returns true if activity events should also be published to RabbitMQ.
func (c *Config) IsRabbitMQEnabled() bool {
	return c.RabbitMQURL != ""
}
