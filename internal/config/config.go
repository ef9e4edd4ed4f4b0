// Package config loads environment-level settings for the server. Values come
// from the process environment, optionally seeded from a local .env file.
package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds the externally tunable knobs of the server.
type Config struct {
	Port          string
	AllowedOrigin string
	DatabasePath  string
	LogLevel      string
}

// Load reads configuration from the environment. A missing .env file is not an
// error; explicit environment variables always win over file contents.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:          getEnvOrDefault("PORT", "8008"),
		AllowedOrigin: getEnvOrDefault("ALLOWED_ORIGIN", "*"),
		DatabasePath:  getEnvOrDefault("DATABASE_PATH", "assistant.db"),
		LogLevel:      getEnvOrDefault("LOG_LEVEL", "info"),
	}
}

func getEnvOrDefault(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
