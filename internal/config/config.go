// Package config handles loading and validation of application configuration
// from environment variables. Supports .env files via godotenv.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultBridgeURL is the Apps Script endpoint used as the Drive bridge
// fallback when the native Drive upload fails.
const DefaultBridgeURL = "https://script.google.com/macros/s/AKfycbzQ8lT0vPaX1dYhUCXSGRkWm4jU5r3uNpE9o2sHqFw/exec"

// Config holds all application configuration
type Config struct {
	// Server settings
	Port        int
	Environment string // "development" | "staging" | "production"

	// Database
	DatabaseURL string

	// Redis (monthly statistics counters)
	RedisURL string

	// Security
	JWTSecret      string
	AllowedOrigins []string
	RateLimitRPM   int

	// Evidence storage
	UploadDir             string // local disk root for the filesystem backend
	GoogleCredentials     string // service-account JSON, inline
	GoogleCredentialsFile string // path to a service-account JSON file
	DriveRootFolderID     string // parent folder for the yearly evidence tree
	DriveBridgeURL        string // Apps Script fallback endpoint
	BlobToken             string // presence selects the object-storage backend
	BlobEndpoint          string
	BlobAccessKey         string
	BlobSecretKey         string
	BlobBucket            string
	BlobUseSSL            bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (development)
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnvInt("PORT", 8080),
		Environment: getEnv("ENVIRONMENT", "development"),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379"),

		JWTSecret:      getEnv("JWT_SECRET", "dev-secret-change-in-production"),
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000"), ","),
		RateLimitRPM:   getEnvInt("RATE_LIMIT_RPM", 120),

		UploadDir:             getEnv("UPLOAD_DIR", "uploads"),
		GoogleCredentials:     getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
		GoogleCredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", "credentials.json"),
		DriveRootFolderID:     getEnv("DRIVE_ROOT_FOLDER_ID", ""),
		DriveBridgeURL:        getEnv("DRIVE_BRIDGE_URL", DefaultBridgeURL),
		BlobToken:             getEnv("BLOB_READ_WRITE_TOKEN", ""),
		BlobEndpoint:          getEnv("BLOB_ENDPOINT", ""),
		BlobAccessKey:         getEnv("BLOB_ACCESS_KEY", ""),
		BlobSecretKey:         getEnv("BLOB_SECRET_KEY", ""),
		BlobBucket:            getEnv("BLOB_BUCKET", "ssoma-evidencias"),
		BlobUseSSL:            getEnvBool("BLOB_USE_SSL", true),
	}

	// Validate required fields in production
	if cfg.Environment == "production" {
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required in production")
		}
		if cfg.JWTSecret == "dev-secret-change-in-production" {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
	}

	return cfg, nil
}

// HasDriveCredentials reports whether a Drive service account is configured,
// either inline or as a readable credentials file. Checked at call time so
// a credentials file dropped next to a running server is picked up without
// a restart.
func (c *Config) HasDriveCredentials() bool {
	if c.GoogleCredentials != "" {
		return true
	}
	if c.GoogleCredentialsFile == "" {
		return false
	}
	info, err := os.Stat(c.GoogleCredentialsFile)
	return err == nil && !info.IsDir()
}

// DriveCredentialsJSON returns the service-account JSON bytes.
func (c *Config) DriveCredentialsJSON() ([]byte, error) {
	if c.GoogleCredentials != "" {
		return []byte(c.GoogleCredentials), nil
	}
	return os.ReadFile(c.GoogleCredentialsFile)
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}
