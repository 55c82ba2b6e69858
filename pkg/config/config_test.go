package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// chdir changes the working directory for the duration of the test,
// equivalent to testing.T.Chdir (Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", "test")
	t.Setenv("HTTP_ADDR", "127.0.0.1:3000")
	t.Setenv("SHUTDOWN_TIMEOUT", "1s")
	t.Setenv("LOG_LEVEL", "info")
	t.Setenv("LOG_FORMAT", "json")
}

func TestLoadFromEnv(t *testing.T) {
	setRequired(t)
	t.Setenv("RATE_LIMIT_RPS", "5")
	t.Setenv("RATE_LIMIT_BURST", "10")
	t.Setenv("SEED_ON_START", "false")
	chdir(t, t.TempDir())

	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, "test", c.AppEnv)
	require.Equal(t, time.Second, c.ShutdownTimeout)
	require.Equal(t, 5.0, c.RateLimitRPS)
	require.Equal(t, 10, c.RateLimitBurst)
	require.False(t, c.SeedOnStart)
	require.Equal(t, int64(10<<20), c.BodyLimitBytes)
	require.False(t, c.IsProduction())
	require.Same(t, c, Get())
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	chdir(t, t.TempDir())

	c, err := Load()
	require.NoError(t, err)
	require.True(t, c.SeedOnStart)
	require.Equal(t, 100, c.RateLimitBurst)
	require.InDelta(t, 100.0/900, c.RateLimitRPS, 1e-9)
	require.False(t, c.TrustProxy)
}

func TestLoadTrustProxy(t *testing.T) {
	setRequired(t)
	t.Setenv("TRUST_PROXY", "true")
	chdir(t, t.TempDir())

	c, err := Load()
	require.NoError(t, err)
	require.True(t, c.TrustProxy)
}

func TestLoadRejectsInvalid(t *testing.T) {
	setRequired(t)
	chdir(t, t.TempDir())

	t.Setenv("LOG_FORMAT", "xml")
	_, err := Load()
	require.ErrorContains(t, err, "invalid configuration")

	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("SHUTDOWN_TIMEOUT", "soon")
	_, err = Load()
	require.Error(t, err)
}
