package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret string
	JWTExpiry time.Duration

	// Server
	Port             string
	CORSOrigins      string
	RateLimitPerMin  int
	LogRetentionDays int
	SentryDSN        string
	AppEnv           string

	// Redis-backed limiter storage; empty keeps the in-memory default.
	RedisURL string

	// Outbox relay
	KafkaBrokers   []string
	KafkaTopic     string
	OutboxInterval time.Duration
	OutboxBatch    int

	// Client (societyctl)
	BackendURL        string
	TokenFile         string
	CloudinaryBaseURL string
	CloudinaryCloud   string
	CloudinaryPreset  string
	HTTPTimeout       time.Duration
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env", "error", err)
	}

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "societyhub"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTExpiry: parseDuration(getEnv("JWT_EXPIRY", "24h"), 24*time.Hour),

		Port:             getEnv("PORT", "8080"),
		CORSOrigins:      getEnv("CORS_ORIGINS", "*"),
		RateLimitPerMin:  parseInt(getEnv("RATE_LIMIT_PER_MIN", "120"), 120),
		LogRetentionDays: parseInt(getEnv("LOG_RETENTION_DAYS", "30"), 30),
		SentryDSN:        getEnv("SENTRY_DSN", ""),
		AppEnv:           getEnv("APP_ENV", "development"),

		RedisURL: getEnv("REDIS_URL", ""),

		KafkaBrokers:   parseCSV(getEnv("KAFKA_BROKERS", "")),
		KafkaTopic:     getEnv("KAFKA_TOPIC", "societyhub.events"),
		OutboxInterval: parseDuration(getEnv("OUTBOX_INTERVAL", "5s"), 5*time.Second),
		OutboxBatch:    parseInt(getEnv("OUTBOX_BATCH", "100"), 100),

		BackendURL:        getEnv("BACKEND_URL", "http://localhost:8080/api"),
		TokenFile:         getEnv("SOCIETYHUB_TOKEN_FILE", defaultTokenFile()),
		CloudinaryBaseURL: getEnv("CLOUDINARY_BASE_URL", "https://api.cloudinary.com"),
		CloudinaryCloud:   getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryPreset:  getEnv("CLOUDINARY_UPLOAD_PRESET", ""),
		HTTPTimeout:       parseDuration(getEnv("HTTP_TIMEOUT", "15s"), 15*time.Second),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func defaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".societyhub-token"
	}
	return dir + "/societyhub/token"
}
