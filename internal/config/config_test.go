package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "./librarian.db", cfg.DatabasePath)
	assert.Equal(t, "./uploads", cfg.UploadPath)
	assert.Equal(t, "@daily", cfg.CoverSweepSchedule)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_SECRET", "prod-secret")
	t.Setenv("ALLOWED_ORIGIN", "https://library.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, "prod-secret", cfg.JWTSecret)
	assert.Equal(t, "https://library.example.com", cfg.AllowedOrigin)
}

func TestLoad_BadPort(t *testing.T) {
	t.Setenv("PORT", "not-a-port")

	_, err := Load()
	assert.Error(t, err)
}
