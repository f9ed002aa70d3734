package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"APP", "API_BASE_URL", "VITE_API_BASE_URL", "API_TIMEOUT", "STATE_DIR",
		"SERVER_ADDR", "SESSION_SECRET", "LOG_FORMAT", "LOG_LEVEL", "WATCH_SESSION"} {
		t.Setenv(key, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("STATE_DIR", t.TempDir())

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "admin", cfg.App)
	assert.Equal(t, DefaultAPIBaseURL, cfg.APIBaseURL)
	assert.Equal(t, 10*time.Second, cfg.APITimeout)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.False(t, cfg.WatchSession)
}

func TestFromEnv_DashboardUsesItsOwnBackend(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP", "dashboard")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, DashboardAPIBaseURL, cfg.APIBaseURL)
}

func TestFromEnv_BaseURLOverride(t *testing.T) {
	t.Run("API_BASE_URL wins", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("API_BASE_URL", "http://api.internal:9000")
		t.Setenv("VITE_API_BASE_URL", "http://vite.internal:9000")

		cfg, err := FromEnv()
		require.NoError(t, err)
		assert.Equal(t, "http://api.internal:9000", cfg.APIBaseURL)
	})

	t.Run("VITE_API_BASE_URL is honoured", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("VITE_API_BASE_URL", "http://vite.internal:9000")

		cfg, err := FromEnv()
		require.NoError(t, err)
		assert.Equal(t, "http://vite.internal:9000", cfg.APIBaseURL)
	})
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"unknown app", "APP", "spreadsheet"},
		{"bad timeout", "API_TIMEOUT", "soon"},
		{"bad base url", "API_BASE_URL", "not a url"},
		{"short secret", "SESSION_SECRET", "short"},
		{"bad watch flag", "WATCH_SESSION", "maybe"},
		{"bad log format", "LOG_FORMAT", "xml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.val)

			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestApply(t *testing.T) {
	t.Run("switching app re-derives defaults", func(t *testing.T) {
		clearEnv(t)
		cfg, err := FromEnv()
		require.NoError(t, err)

		require.NoError(t, cfg.Apply(Overrides{App: "dashboard"}))
		assert.Equal(t, "dashboard", cfg.App)
		assert.Equal(t, DashboardAPIBaseURL, cfg.APIBaseURL)
		assert.Equal(t, "dashboard", filepath.Base(cfg.StateDir))
	})

	t.Run("environment pins the base URL", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("API_BASE_URL", "http://api.internal:9000")
		cfg, err := FromEnv()
		require.NoError(t, err)

		require.NoError(t, cfg.Apply(Overrides{App: "dashboard"}))
		assert.Equal(t, "http://api.internal:9000", cfg.APIBaseURL)
	})

	t.Run("explicit values win", func(t *testing.T) {
		clearEnv(t)
		cfg, err := FromEnv()
		require.NoError(t, err)

		require.NoError(t, cfg.Apply(Overrides{App: "fms", APIBaseURL: "http://x:1", StateDir: "/tmp/s"}))
		assert.Equal(t, "http://x:1", cfg.APIBaseURL)
		assert.Equal(t, "/tmp/s", cfg.StateDir)
	})

	t.Run("unknown app", func(t *testing.T) {
		clearEnv(t)
		cfg, err := FromEnv()
		require.NoError(t, err)
		assert.Error(t, cfg.Apply(Overrides{App: "nope"}))
	})
}

func TestValidateServer_RequiresSessionSecret(t *testing.T) {
	clearEnv(t)
	cfg, err := FromEnv()
	require.NoError(t, err, "the CLI does not need a session secret")
	assert.Empty(t, cfg.SessionSecret)
	assert.ErrorIs(t, cfg.ValidateServer(), ErrNoSessionSecret)

	t.Setenv("SESSION_SECRET", "0123456789abcdef-local")
	cfg, err = FromEnv()
	require.NoError(t, err)
	assert.NoError(t, cfg.ValidateServer())
}
