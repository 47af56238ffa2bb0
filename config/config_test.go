package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alejandrodnm/calcdesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte(""))
	require.NoError(t, err)

	sc, err := cfg.SolverConfig()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSolverConfig(), sc)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "calcdesk.db", cfg.Storage.DSN)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL())
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestParse_Values(t *testing.T) {
	cfg, err := Parse([]byte(`
solver:
  upper_bound: 50
  max_iterations: 200
http:
  addr: "127.0.0.1:9000"
  rate_limit_burst: 3
cache:
  ttl_seconds: 30
log:
  level: debug
  format: json
`))
	require.NoError(t, err)

	sc, err := cfg.SolverConfig()
	require.NoError(t, err)
	assert.Equal(t, 50.0, sc.UpperBound)
	assert.Equal(t, 200, sc.MaxIterations)
	assert.Equal(t, -0.9999, sc.LowerBound, "unset fields keep their default")

	assert.Equal(t, "127.0.0.1:9000", cfg.HTTP.Addr)
	assert.Equal(t, 3, cfg.HTTP.RateLimitBurst)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL())
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestParse_InvalidSolver(t *testing.T) {
	_, err := Parse([]byte("solver:\n  lower_bound: -2\n"))
	assert.ErrorContains(t, err, "lower bound")

	_, err = Parse([]byte("solver:\n  lower_bound: 5\n  upper_bound: 1\n"))
	assert.ErrorContains(t, err, "upper bound")
}

func TestParse_BadYAML(t *testing.T) {
	_, err := Parse([]byte("solver: [1, 2"))
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("CALCDESK_DSN", ":memory:")
	t.Setenv("CALCDESK_ADDR", ":9999")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "2")

	cfg, err := Parse([]byte("log:\n  level: debug\nstorage:\n  dsn: file.db\n"))
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, ":memory:", cfg.Storage.DSN)
	assert.Equal(t, ":9999", cfg.HTTP.Addr)
	assert.Equal(t, "localhost:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, 2, cfg.Cache.RedisDB)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  dsn: test.db\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "test.db", cfg.Storage.DSN)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_ShippedConfig(t *testing.T) {
	cfg, err := Load("config.yaml")
	require.NoError(t, err)
	sc, err := cfg.SolverConfig()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSolverConfig(), sc)
}
