// Package config reads process configuration once at startup. Provider
// credentials live in an explicit struct handed to constructors instead of
// ambient environment lookups scattered through the code.
package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// Config is everything the server needs from the environment.
type Config struct {
	DatabaseURL string
	RedisURL    string

	// WeatherAPIKey may be empty: the server still starts and degrades the
	// provider paths as specified instead of refusing to boot.
	WeatherAPIKey string
	// YouTubeAPIKey is optional; without it video enrichment reports an
	// informational message.
	YouTubeAPIKey string

	Port string
}

// Load reads .env (when present) and the environment. DATABASE_URL and
// REDIS_URL are required; everything else has a default or degrades.
func Load(log *slog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Info("no .env file found, relying on environment variables")
	}

	cfg := &Config{
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisURL:      os.Getenv("REDIS_URL"),
		WeatherAPIKey: os.Getenv("WEATHER_API_KEY"),
		YouTubeAPIKey: os.Getenv("YOUTUBE_API_KEY"),
		Port:          getEnv("PORT", "8080"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL must be set")
	}
	if cfg.RedisURL == "" {
		return nil, fmt.Errorf("REDIS_URL must be set")
	}

	if cfg.WeatherAPIKey == "" {
		log.Warn("WEATHER_API_KEY not set, weather lookups will fail until configured")
	}
	if cfg.YouTubeAPIKey == "" {
		log.Info("YOUTUBE_API_KEY not set, video enrichment disabled")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
