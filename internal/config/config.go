package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration. Everything is sourced from the
// environment; a local .env file is honored for development.
type Config struct {
	DatabaseURL string
	Port        int

	// Remote identity service (the main auth backend).
	AuthServiceURL   string
	ServiceAuthToken string
	JWKSURL          string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool
	DocumentBucket string
}

// Load reads configuration from the environment. DATABASE_URL is the only
// required setting; SERVICE_AUTH_TOKEN may legitimately be absent, which
// puts reference validation into its degraded skip mode.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		Port:             8080,
		AuthServiceURL:   getEnv("AUTH_SERVICE_URL", "http://localhost:9000"),
		ServiceAuthToken: os.Getenv("SERVICE_AUTH_TOKEN"),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		MinioEndpoint:    getEnv("MINIO_ENDPOINT", "localhost:9090"),
		MinioAccessKey:   getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		MinioSecretKey:   getEnv("MINIO_SECRET_KEY", "minioadmin"),
		MinioUseSSL:      os.Getenv("MINIO_USE_SSL") == "true",
		DocumentBucket:   getEnv("DOCUMENT_BUCKET", "invoice-documents"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT %q: %w", portStr, err)
		}
		cfg.Port = port
	}

	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		db, err := strconv.Atoi(dbStr)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB %q: %w", dbStr, err)
		}
		cfg.RedisDB = db
	}

	cfg.JWKSURL = getEnv("AUTH_JWKS_URL", cfg.AuthServiceURL+"/.well-known/jwks.json")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
