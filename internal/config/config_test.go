package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("UPSTREAM_BASE_URL", "https://api.example.com/v1/")
	t.Setenv("SESSION_SECRET", "0123456789abcdef0123456789abcdef")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "https://api.example.com/v1", cfg.UpstreamBaseURL)
	require.Equal(t, "session", cfg.SessionCookieName)
	require.Equal(t, 7*24*time.Hour, cfg.SessionTTL)
	require.Equal(t, "NGN", cfg.DefaultCurrency)
	require.False(t, cfg.IsProduction())
}

func TestLoadRejectsShortSecret(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SESSION_SECRET", "short")

	_, err := Load()
	require.ErrorContains(t, err, "SESSION_SECRET")
}

func TestLoadRejectsRelativeUpstream(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("UPSTREAM_BASE_URL", "api/v1")

	_, err := Load()
	require.ErrorContains(t, err, "UPSTREAM_BASE_URL")
}

func TestSplitCSV(t *testing.T) {
	require.Nil(t, splitCSV("  "))
	require.Equal(t, []string{"https://a.test", "https://b.test"}, splitCSV(" https://a.test, ,https://b.test "))
}
