package config

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv             string
	Port               string
	DatabaseURL        string
	DebugDatabaseURL   string
	TwitchClientID     string
	TwitchClientSecret string
	RedirectURI        string
	FrontendURL        string
	TokenEncryptionKey string
	LogLevel           string
	LogFormat          string
}

func Load() (*Config, error) {
	// Best effort: a missing .env file is normal outside local development.
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:             getEnv("APP_ENV", "development"),
		Port:               getEnv("PORT", "8080"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		DebugDatabaseURL:   getEnv("DEBUG_DATABASE_URL", ""),
		TwitchClientID:     getEnv("TWITCH_CLIENT_ID", ""),
		TwitchClientSecret: getEnv("TWITCH_CLIENT_SECRET", ""),
		RedirectURI:        getEnv("REDIRECT_URI", ""),
		FrontendURL:        getEnv("FRONTEND_URL", ""),
		TokenEncryptionKey: getEnv("TOKEN_ENCRYPTION_KEY", ""),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "text"),
	}

	// Debug mode points the service at a separate database.
	if cfg.AppEnv == "debug" && cfg.DebugDatabaseURL != "" {
		cfg.DatabaseURL = cfg.DebugDatabaseURL
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.TwitchClientID == "" {
		return nil, fmt.Errorf("TWITCH_CLIENT_ID is required")
	}
	if cfg.TwitchClientSecret == "" {
		return nil, fmt.Errorf("TWITCH_CLIENT_SECRET is required")
	}
	if cfg.RedirectURI == "" {
		return nil, fmt.Errorf("REDIRECT_URI is required")
	}
	if cfg.FrontendURL == "" {
		return nil, fmt.Errorf("FRONTEND_URL is required")
	}

	if cfg.TokenEncryptionKey != "" {
		keyBytes, err := hex.DecodeString(cfg.TokenEncryptionKey)
		if err != nil {
			return nil, fmt.Errorf("TOKEN_ENCRYPTION_KEY must be valid hex: %w", err)
		}
		if len(keyBytes) != 32 {
			return nil, fmt.Errorf("TOKEN_ENCRYPTION_KEY must be exactly 64 hex characters (32 bytes), got %d bytes", len(keyBytes))
		}
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
