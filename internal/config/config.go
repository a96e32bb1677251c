package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// MinSecretKeyLength is the minimum accepted length for AUTH_SECRET_KEY.
// Hashing refuses to run with a shorter pepper, so Load fails fast instead.
const MinSecretKeyLength = 32

// Config holds the process configuration read from the environment
type Config struct {
	Port      string
	Env       string // deployment tag, embedded in token headers
	DBPath    string
	ClientURL string

	AuthSecretKey string // pepper mixed into password hashing
	JWTSecret     string // token signing secret
}

// Load reads configuration from the environment. A .env file is loaded
// first if present (development convenience, ignored when absent).
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("APP_ENV", "development"),
		DBPath:        getEnv("DB_PATH", "./todostack.db"),
		ClientURL:     getEnv("CLIENT_URL", "http://localhost:5173"),
		AuthSecretKey: os.Getenv("AUTH_SECRET_KEY"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
	}

	if len(cfg.AuthSecretKey) < MinSecretKeyLength {
		return nil, fmt.Errorf("AUTH_SECRET_KEY must be set and at least %d characters", MinSecretKeyLength)
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
