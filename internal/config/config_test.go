package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("JWT_SECRET_KEY", "")
	t.Setenv("ADMIN_EMAIL", "")
	t.Setenv("CORS_ALLOW_ORIGINS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StorageAuto, cfg.Storage.Backend)
	assert.Equal(t, "your-secret-key-change-in-production", cfg.Auth.JWTSecret)
	assert.Equal(t, "admin@greencampus.com", cfg.Bootstrap.AdminEmail)
	assert.Len(t, cfg.CORS.AllowOrigins, 3)
	assert.Equal(t, 5*time.Second, cfg.Mongo.ConnectTimeout())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "FILE")
	t.Setenv("DATA_DIR", "/tmp/campus")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example, https://b.example ,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StorageFile, cfg.Storage.Backend)
	assert.Equal(t, "/tmp/campus", cfg.Storage.DataDir)
	assert.Equal(t, 2525, cfg.Mail.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowOrigins)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "cassandra")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsBadSMTPPort(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("SMTP_PORT", "not-a-port")

	_, err := Load()
	assert.Error(t, err)
}
