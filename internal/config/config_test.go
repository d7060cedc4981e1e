package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "production", cfg.Environment)
	assert.NotEmpty(t, cfg.AllowedOrigins)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENVIRONMENT", "staging")
	t.Setenv("ALLOWED_ORIGINS", "https://app.example.com, https://staging.example.com ,")
	t.Setenv("DATABASE_URL", "postgres://writer/db")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, []string{"https://app.example.com", "https://staging.example.com"}, cfg.AllowedOrigins)
	// The read URL falls back to the write URL when no replica is configured.
	assert.Equal(t, "postgres://writer/db", cfg.DatabaseReadURL)
}

func TestLoad_ReadReplicaURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://writer/db")
	t.Setenv("DATABASE_READ_URL", "postgres://reader/db")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://reader/db", cfg.DatabaseReadURL)
}

func TestFrontendURLs(t *testing.T) {
	cfg := &Config{FrontendURL: "https://app.example.com"}

	assert.Equal(t, "https://app.example.com/auth/callback", cfg.CallbackURL())
	assert.Equal(t, "https://app.example.com/reset-password", cfg.ResetPasswordURL())
}
