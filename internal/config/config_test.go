package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/susu3304/geoguess/internal/geoscore"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DISCORD_TOKEN", "DATABASE_URL", "WEB_BIND", "DISCORD_CLIENT_ID", "DISCORD_CLIENT_SECRET",
		"DISCORD_REDIRECT_URI", "JWT_SECRET", "LOCATIONS_FILE", "DEFAULT_DIFFICULTY", "GAME_IDLE_TTL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:3000", cfg.WebBind)
	assert.Equal(t, "http://localhost:3000/api/auth/callback", cfg.DiscordRedirectURI)
	assert.Equal(t, geoscore.Easy, cfg.DefaultDifficulty)
	assert.Equal(t, 2*time.Hour, cfg.GameIdleTTL)
	assert.Empty(t, cfg.DiscordToken)
	assert.Empty(t, cfg.DatabaseURL)
	assert.False(t, cfg.OAuthEnabled())
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("WEB_BIND", "127.0.0.1:8080")
	t.Setenv("DEFAULT_DIFFICULTY", " Hard ")
	t.Setenv("GAME_IDLE_TTL", "15m")
	t.Setenv("DISCORD_CLIENT_ID", "id")
	t.Setenv("DISCORD_CLIENT_SECRET", "secret")
	t.Setenv("DISCORD_REDIRECT_URI", "https://geo.example.com/api/auth/callback")
	t.Setenv("LOCATIONS_FILE", "/etc/geoguess/locations.json")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", cfg.WebBind)
	assert.Equal(t, geoscore.Hard, cfg.DefaultDifficulty)
	assert.Equal(t, 15*time.Minute, cfg.GameIdleTTL)
	assert.True(t, cfg.OAuthEnabled())
	assert.Equal(t, "https://geo.example.com/api/auth/callback", cfg.DiscordRedirectURI)
	assert.Equal(t, "/etc/geoguess/locations.json", cfg.LocationsFile)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"unknown difficulty", map[string]string{"DEFAULT_DIFFICULTY": "insane"}, "DEFAULT_DIFFICULTY"},
		{"bad ttl", map[string]string{"GAME_IDLE_TTL": "soon"}, "invalid GAME_IDLE_TTL"},
		{"negative ttl", map[string]string{"GAME_IDLE_TTL": "-1m"}, "must not be negative"},
		{"half oauth", map[string]string{"DISCORD_CLIENT_ID": "id"}, "must be set together"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
