package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("DATABASE_DSN", "")
	t.Setenv("PORT", "")
	t.Setenv("SESSION_ID", "")
	t.Setenv("UPSTREAM_TIMEOUT", "")
	t.Setenv("CORS_ALLOW_ORIGINS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "guest-session", cfg.SessionID)
	assert.Equal(t, 10*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowOrigins)
	assert.False(t, cfg.UsesPostgres())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_DSN", "postgres://u:p@localhost/db")
	t.Setenv("RUN_MIGRATIONS", "false")
	t.Setenv("UPSTREAM_TIMEOUT", "3s")
	t.Setenv("CORS_ALLOW_ORIGINS", "http://a.test, http://b.test ,")
	t.Setenv("SESSION_ID", "sess-9")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.UsesPostgres())
	assert.False(t, cfg.RunMigrations)
	assert.Equal(t, 3*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowOrigins)
	assert.Equal(t, "sess-9", cfg.SessionID)
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "storefront.yaml")
	content := "port: \"7000\"\nlogLevel: debug\ngeminiModel: gemini-2.0-flash\nsessionId: file-session\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("GEMINI_MODEL", "")
	t.Setenv("SESSION_ID", "env-session")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "gemini-2.0-flash", cfg.GeminiModel)
	assert.Equal(t, "env-session", cfg.SessionID, "env should win over file")
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := Load()
	require.Error(t, err)
}

func TestParseDuration_InvalidFallsBack(t *testing.T) {
	assert.Equal(t, 5*time.Second, parseDuration("soon", 5*time.Second))
	assert.Equal(t, 5*time.Second, parseDuration("", 5*time.Second))
	assert.Equal(t, time.Minute, parseDuration("1m", 5*time.Second))
}
