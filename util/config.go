package util

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config struct.
// Values come from the process environment, optionally seeded from a .env file.
// The pricing schedule lives in its own YAML file (PricingFile) so it can be redeployed without touching code
type Config struct {
	// Server
	Port        string
	Environment string

	// Storage
	DbConn    string // Postgres connection string
	RedisAddr string // Redis address for cache and background workers

	// Auth
	SecretKey              string        // JWT signing key
	TokenExpiration        time.Duration // Access token lifetime
	RefreshTokenExpiration time.Duration // Refresh token lifetime

	// Operator created at startup when it does not exist yet
	AdminUsername string
	AdminPassword string
	AdminEventKey string

	// Mail
	Email       string // Platform email
	AppPassword string // Platform email's app password
	SMTPHost    string
	SMTPPort    string

	// Cloudinary, where rendered credentials are stored
	CloudStorageName   string
	CloudStorageKey    string
	CloudStorageSecret string

	// Ably API key for the live gate feed. Empty disables the feed
	AblyApiKey string

	// Event
	EventName string // Display name used in emails and credentials
	EventKey  string // Default tenant key for tickets created without one
	VerifyURL string // The URL embedded in QR codes; the token is appended as ?token=

	// Ticketing
	PricingFile          string        // YAML pricing schedule
	CredentialBackground string        // Optional background image for rendered credentials
	BackgroundTTL        time.Duration // How long the decoded background is trusted before re-validation
	AdmitMaxAttempts     int           // Conditional write attempts before a transient failure is reported
	MaxTicketQuantity    int           // Upper bound for a normal ticket's quantity
	StatusCacheTTL       time.Duration // Public status cache lifetime

	// Background workers
	MaxWorkers int
}

// Load config from the .env file at path (if it exists) and the environment
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	config := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		DbConn:    getEnv("DB_CONN", ""),
		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),

		SecretKey:              getEnv("SECRET_KEY", ""),
		TokenExpiration:        getEnvAsDuration("TOKEN_EXPIRATION", "15m"),
		RefreshTokenExpiration: getEnvAsDuration("REFRESH_TOKEN_EXPIRATION", "168h"),

		AdminUsername: getEnv("ADMIN_USERNAME", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		AdminEventKey: getEnv("ADMIN_EVENT_KEY", ""),

		Email:       getEnv("EMAIL", ""),
		AppPassword: getEnv("APP_PASSWORD", ""),
		SMTPHost:    getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:    getEnv("SMTP_PORT", "587"),

		CloudStorageName:   getEnv("CLOUDINARY_NAME", ""),
		CloudStorageKey:    getEnv("CLOUDINARY_APIKEY", ""),
		CloudStorageSecret: getEnv("CLOUDINARY_APISECRET", ""),

		AblyApiKey: getEnv("ABLY_API_KEY", ""),

		EventName: getEnv("EVENT_NAME", "Gatepass Live"),
		EventKey:  getEnv("EVENT_KEY", ""),
		VerifyURL: getEnv("VERIFY_URL", ""),

		PricingFile:          getEnv("PRICING_FILE", "pricing.yaml"),
		CredentialBackground: getEnv("CREDENTIAL_BACKGROUND", ""),
		BackgroundTTL:        getEnvAsDuration("BACKGROUND_TTL", "10m"),
		AdmitMaxAttempts:     getEnvAsInt("ADMIT_MAX_ATTEMPTS", 5),
		MaxTicketQuantity:    getEnvAsInt("MAX_TICKET_QUANTITY", 20),
		StatusCacheTTL:       getEnvAsDuration("STATUS_CACHE_TTL", "30s"),

		MaxWorkers: getEnvAsInt("MAX_WORKERS", 10),
	}

	if config.DbConn == "" {
		return nil, errors.New("DB_CONN is required")
	}
	if config.SecretKey == "" {
		return nil, errors.New("SECRET_KEY is required")
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	// If parsing fails, fall back to the default value
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
