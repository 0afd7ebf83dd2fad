package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageDriverLocal = "local"
	StorageDriverS3    = "s3"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	Port    string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Security
	SessionSecret    string
	SessionExpiry    time.Duration
	RememberMeExpiry time.Duration
	AuthRateLimit    int // login/register attempts per IP and window, 0 disables
	AuthRateWindow   time.Duration

	// Uploads
	StorageDriver string // "local" or "s3"
	UploadFolder  string
	UploadMaxSize int64

	// Observability (optional)
	SentryDSN      string
	MetricsEnabled bool

	// Storage (S3-compatible, only read when STORAGE_DRIVER=s3)
	S3Region        string
	S3Bucket        string
	S3AccessKey     string
	S3SecretKey     string
	S3Endpoint      string        // Optional: for S3-compatible services (MinIO, DO Spaces, R2, etc.)
	S3PresignExpiry time.Duration // Expiry for photo URLs - default: 7 days
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName: envString("APP_NAME", "Recipebox"),
		AppEnv:  envRequired("APP_ENV"), // Required: 'development' or 'production'
		Port:    envString("PORT", "8090"),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/recipebox.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),

		// Security
		SessionSecret:    envRequired("SESSION_SECRET"),
		SessionExpiry:    envDuration("SESSION_EXPIRY", 24*time.Hour),
		RememberMeExpiry: envDuration("REMEMBER_ME_EXPIRY", 30*24*time.Hour),
		AuthRateLimit:    envInt("AUTH_RATE_LIMIT", 5),
		AuthRateWindow:   envDuration("AUTH_RATE_WINDOW", 15*time.Minute),

		// Uploads
		StorageDriver: envString("STORAGE_DRIVER", StorageDriverLocal),
		UploadFolder:  envString("UPLOAD_FOLDER", "./data/uploads"),
		UploadMaxSize: envInt64("UPLOAD_MAX_SIZE", 5<<20),

		// Observability
		SentryDSN:      envString("SENTRY_DSN", ""),
		MetricsEnabled: envBool("METRICS_ENABLED", true),
	}

	if cfg.StorageDriver == StorageDriverS3 {
		cfg.S3Region = envRequired("S3_REGION")
		cfg.S3Bucket = envRequired("S3_BUCKET")
		cfg.S3AccessKey = envString("S3_ACCESS_KEY", "")
		cfg.S3SecretKey = envString("S3_SECRET_KEY", "")
		cfg.S3Endpoint = envString("S3_ENDPOINT", "")
		cfg.S3PresignExpiry = envDuration("S3_PRESIGN_EXPIRY", 168*time.Hour)
	}

	// Production: validate required services
	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction rejects settings that are only acceptable for local testing.
func validateProduction(cfg *Config) {
	if len(cfg.SessionSecret) < 32 {
		slog.Error("production deployment requires a SESSION_SECRET of at least 32 characters")
		os.Exit(1)
	}
	if cfg.StorageDriver != StorageDriverLocal && cfg.StorageDriver != StorageDriverS3 {
		slog.Error("unknown STORAGE_DRIVER", "value", cfg.StorageDriver)
		os.Exit(1)
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envInt64(key string, def int64) int64 {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		slog.Warn("config invalid integer, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		slog.Warn("config invalid integer, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Sanitized returns a copy of the config with only public/safe fields.
// Safe to expose in ctx, templates and client-facing contexts.
func (c *Config) Sanitized() *Config {
	return &Config{
		AppName:       c.AppName,
		AppEnv:        c.AppEnv,
		Port:          c.Port,
		StorageDriver: c.StorageDriver,
		UploadMaxSize: c.UploadMaxSize,

		// Needed for the img-src CSP directive
		S3Endpoint: c.S3Endpoint,
		S3Bucket:   c.S3Bucket,
		S3Region:   c.S3Region,
	}
}
