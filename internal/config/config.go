package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/susu3304/geoguess/internal/geoscore"
)

type Config struct {
	// Discord Bot
	DiscordToken string

	// Discord OAuth2
	DiscordClientID     string
	DiscordClientSecret string
	DiscordRedirectURI  string

	// Database
	DatabaseURL string

	// Web Server
	WebBind string

	// Session
	JWTSecret string

	// Game
	DefaultDifficulty geoscore.Difficulty
	LocationsFile     string
	GameIdleTTL       time.Duration
}

func Load() (*Config, error) {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	cfg := &Config{
		DiscordToken:        os.Getenv("DISCORD_TOKEN"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		WebBind:             getEnvDefault("WEB_BIND", "0.0.0.0:3000"),
		DiscordClientID:     os.Getenv("DISCORD_CLIENT_ID"),
		DiscordClientSecret: os.Getenv("DISCORD_CLIENT_SECRET"),
		DiscordRedirectURI:  getEnvDefault("DISCORD_REDIRECT_URI", "http://localhost:3000/api/auth/callback"),
		JWTSecret:           getEnvDefault("JWT_SECRET", "dev-only-change-me"),
		LocationsFile:       os.Getenv("LOCATIONS_FILE"),
	}

	difficulty := getEnvDefault("DEFAULT_DIFFICULTY", string(geoscore.Easy))
	if !geoscore.Known(difficulty) {
		return nil, fmt.Errorf("DEFAULT_DIFFICULTY must be one of easy, medium, hard (got %q)", difficulty)
	}
	cfg.DefaultDifficulty = geoscore.ParseDifficulty(difficulty)

	ttl, err := time.ParseDuration(getEnvDefault("GAME_IDLE_TTL", "2h"))
	if err != nil {
		return nil, fmt.Errorf("invalid GAME_IDLE_TTL: %w", err)
	}
	if ttl < 0 {
		return nil, fmt.Errorf("GAME_IDLE_TTL must not be negative")
	}
	cfg.GameIdleTTL = ttl

	if (cfg.DiscordClientID == "") != (cfg.DiscordClientSecret == "") {
		return nil, fmt.Errorf("DISCORD_CLIENT_ID and DISCORD_CLIENT_SECRET must be set together")
	}

	return cfg, nil
}

// OAuthEnabled reports whether Discord login is configured.
func (c *Config) OAuthEnabled() bool {
	return c.DiscordClientID != "" && c.DiscordClientSecret != ""
}

func getEnvDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}
