package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"DATABASE_URL": "postgres://localhost/kelas",
		"REDIS_URL":    "redis://localhost:6379/0",
	})
	require.NoError(t, err)
	require.Equal(t, "development", cfg.AppEnv)
	require.Equal(t, ":8080", cfg.HTTPAddr())
	require.Equal(t, "X-Tenant-ID", cfg.TenantHeader)
	require.Equal(t, 10*time.Second, cfg.BackendTimeout)
	require.Equal(t, 3, cfg.BackendMaxAttempts)
	require.Equal(t, 0.5, cfg.BreakerFailureRatio)
	require.Equal(t, "default", cfg.ForwardQueue)
	require.Equal(t, 5*time.Minute, cfg.ItemCacheTTL)
	require.Equal(t, "30-M", cfg.OfferPreviewRate)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"DATABASE_URL":         "postgres://localhost/kelas",
		"REDIS_URL":            "redis://localhost:6379/0",
		"PORT":                 "9090",
		"TENANT_HEADER":        "X-Org",
		"BACKEND_TIMEOUT":      "2s",
		"BACKEND_MAX_ATTEMPTS": "5",
		"FORWARD_QUEUE":        "checkout",
		"CORS_ALLOWED_ORIGINS": "https://a.example.com, https://b.example.com",
	})
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTPAddr())
	require.Equal(t, "X-Org", cfg.TenantHeader)
	require.Equal(t, 2*time.Second, cfg.BackendTimeout)
	require.Equal(t, 5, cfg.BackendMaxAttempts)
	require.Equal(t, "checkout", cfg.ForwardQueue)
	require.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSAllowedOrigins)
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	_, err := LoadForTests(map[string]string{
		"DATABASE_URL": "",
		"REDIS_URL":    "redis://localhost:6379/0",
	})
	require.Error(t, err)
}

func TestLoadRequiresRedisURL(t *testing.T) {
	_, err := LoadForTests(map[string]string{
		"DATABASE_URL": "postgres://localhost/kelas",
		"REDIS_URL":    "",
	})
	require.Error(t, err)
}

func TestBadDurationFallsBack(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"DATABASE_URL":    "postgres://localhost/kelas",
		"REDIS_URL":       "redis://localhost:6379/0",
		"BACKEND_TIMEOUT": "soon",
	})
	require.NoError(t, err)
	require.Equal(t, 10*time.Second, cfg.BackendTimeout)
}
