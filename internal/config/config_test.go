package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"DAST_PORT", "DAST_ENV", "DAST_LOG_FILE", "DAST_CORS_ORIGINS", "DAST_ROOT_TAG", "DAST_CACHE_TTL", "DAST_MAX_BODY_BYTES"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "dastserver.log", cfg.App.LogFilePath)
	assert.Equal(t, []string{"*"}, cfg.App.CorsOrigins)
	assert.Equal(t, "div", cfg.Render.RootTag)
	assert.Equal(t, 5*time.Minute, cfg.Render.CacheTTL)
	assert.Equal(t, int64(2<<20), cfg.Render.MaxBodyBytes)
	assert.False(t, cfg.IsProduction())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DAST_PORT", "9090")
	t.Setenv("DAST_ENV", "production")
	t.Setenv("DAST_CORS_ORIGINS", "https://a.test, https://b.test")
	t.Setenv("DAST_CACHE_TTL", "30s")
	t.Setenv("DAST_MAX_BODY_BYTES", "1024")
	t.Setenv("DAST_ROOT_TAG", "article")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.App.CorsOrigins)
	assert.Equal(t, 30*time.Second, cfg.Render.CacheTTL)
	assert.Equal(t, int64(1024), cfg.Render.MaxBodyBytes)
	assert.Equal(t, "article", cfg.Render.RootTag)
}

func TestLoadDotEnvFile(t *testing.T) {
	os.Unsetenv("DAST_ROOT_TAG")
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("DAST_ROOT_TAG=section\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("DAST_ROOT_TAG") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "section", cfg.Render.RootTag)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"port", "DAST_PORT", "http"},
		{"environment", "DAST_ENV", "staging"},
		{"root tag", "DAST_ROOT_TAG", "<div>"},
		{"origins", "DAST_CORS_ORIGINS", " , "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			assert.Error(t, err)
		})
	}
}
