package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all environment-driven settings.
type Config struct {
	GinMode        string
	LogFormat      string
	DatabaseFile   string
	JWTSecret      string
	TokenTTL       time.Duration
	AllowedOrigins string
}

// Load reads the configuration from the environment.
func Load() Config {
	return Config{
		GinMode:        getEnv("GIN_MODE", "release"),
		LogFormat:      getEnv("LOG_FORMAT", ""),
		DatabaseFile:   getEnv("DB_FILE", "data/centsible.db"),
		JWTSecret:      getEnv("JWT_SECRET", "dev-secret-change-me"),
		TokenTTL:       getDuration("TOKEN_TTL_MINUTES", 24*60),
		AllowedOrigins: getEnv("CORS_ALLOW_ORIGINS", ""),
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getDuration(key string, fallbackMinutes int) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return time.Duration(fallbackMinutes) * time.Minute
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return time.Duration(fallbackMinutes) * time.Minute
	}
	return time.Duration(parsed) * time.Minute
}
