package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("APP_TIMEZONE", "UTC")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, err)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 168*time.Hour, cfg.RefreshTokenTTL)
	assert.Equal(t, 3*time.Second, cfg.OutboxPollInterval)
	assert.Equal(t, 7*24*time.Hour, cfg.OutboxRetention)
	assert.Equal(t, 5*time.Minute, cfg.DashboardCacheTTL)
	assert.Equal(t, 5, cfg.DBMaxRetries)
	assert.Equal(t, "UTC", cfg.Location.String())
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "PLATOON_TEST_ONLY=1\n"
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("ACCESS_TOKEN_TTL", "30m")
	t.Setenv("DB_NAME", "cadets")
	t.Setenv("APP_TIMEZONE", "Asia/Jakarta")
	t.Cleanup(func() { os.Unsetenv("PLATOON_TEST_ONLY") })

	cfg, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, "1", os.Getenv("PLATOON_TEST_ONLY"))
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, 30*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, "cadets", cfg.Postgres.Name)
	assert.Equal(t, "Asia/Jakarta", cfg.Location.String())
	assert.NoError(t, cfg.RequireJWTSecret())
}

func TestLoad_InvalidTimezone(t *testing.T) {
	t.Setenv("APP_TIMEZONE", "Mars/Olympus")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestRequireKafka(t *testing.T) {
	assert.Error(t, Config{}.RequireKafka())
	assert.NoError(t, Config{KafkaBroker: "localhost:9092"}.RequireKafka())
}
