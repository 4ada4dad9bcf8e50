package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"soundwave/internal/logging"
	"soundwave/internal/objectstore"
)

// Config contains application-wide settings sourced from the environment.
type Config struct {
	DatabaseURL    string
	Database       databaseConfig
	Addr           string
	AllowedOrigins []string

	SessionSecret string
	SessionTTL    time.Duration
	SecureCookies bool

	ObjectStore objectstore.Config
	Logging     logging.Config
}

func loadConfig() (Config, error) {
	_ = godotenv.Load("config/local.env")

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return Config{}, errors.New("DATABASE_URL env var is required")
	}

	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		return Config{}, errors.New("SESSION_SECRET env var is required")
	}

	soundBucket := os.Getenv("S3_SOUND_BUCKET")
	imageBucket := os.Getenv("S3_IMAGE_BUCKET")
	if soundBucket == "" || imageBucket == "" {
		return Config{}, errors.New("S3_SOUND_BUCKET and S3_IMAGE_BUCKET env vars are required")
	}

	addr := fmt.Sprintf(":%s", envOrDefault("PORT", "8080"))
	origins := parseAllowedOrigins(envOrDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173"))

	return Config{
		DatabaseURL: dsn,
		Database: databaseConfig{
			MaxOpenConns:    envIntOrDefault("DB_MAX_OPEN_CONNS", 16),
			MaxIdleConns:    envIntOrDefault("DB_MAX_IDLE_CONNS", 8),
			ConnMaxLifetime: 30 * time.Minute,
			PingTimeout:     5 * time.Second,
			ConnectWait:     envDurationOrDefault("DB_CONNECT_WAIT", 30*time.Second),
		},
		Addr:           addr,
		AllowedOrigins: origins,
		SessionSecret:  secret,
		SessionTTL:     7 * 24 * time.Hour,
		SecureCookies:  envOrDefault("ENV", "development") == "production",
		ObjectStore: objectstore.Config{
			SoundBucket: soundBucket,
			ImageBucket: imageBucket,
			Region:      envOrDefault("S3_REGION", "us-east-1"),
			AccessKey:   os.Getenv("S3_KEY"),
			SecretKey:   os.Getenv("S3_SECRET"),
		},
		Logging: logging.Config{
			Level:  envOrDefault("LOG_LEVEL", "info"),
			Format: envOrDefault("LOG_FORMAT", "json"),
			Output: os.Stdout,
		},
	}, nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envIntOrDefault(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func envDurationOrDefault(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func parseAllowedOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	var origins []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
