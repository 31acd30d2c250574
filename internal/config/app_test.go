package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestInit_ReadsYAMLAndDefaults(t *testing.T) {
	path := writeConfig(t, `
http_server:
  port: "9090"
db_server:
  host: db
  port: "5432"
  user: ecb
  pass: secret
  name: rates
cache:
  backend: redis
`)

	cfg, err := Init(path)
	require.NoError(t, err)

	require.Equal(t, "9090", cfg.HTTPServer.Port)
	require.Equal(t, "db", cfg.DbServer.Host)
	require.Equal(t, int32(10), cfg.DbServer.MaxConns)
	require.Equal(t, 10, cfg.HTTPClient.TimeoutSeconds)
	require.Equal(t, "info", cfg.Logging.Level)
	require.Equal(t, "https://www.ecb.europa.eu/stats/eurofxref/eurofxref-daily.xml", cfg.ECB.DailyURL)
	require.Equal(t, 3600, cfg.Scheduler.RefreshIntervalSec)
	require.Equal(t, "redis", cfg.Cache.Backend)
	require.Equal(t, 10*time.Minute, cfg.Cache.TTL())
	require.Equal(t,
		"user=ecb password=secret host=db port=5432 dbname=rates sslmode=disable",
		cfg.DbServer.GetConnectionStr(),
	)
}

func TestInit_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
db_server:
  host: from-file
logging:
  level: info
`)
	t.Setenv("DB_HOST", "from-env")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CACHE_BACKEND", "redis")

	cfg, err := Init(path)
	require.NoError(t, err)
	require.Equal(t, "from-env", cfg.DbServer.Host)
	require.Equal(t, "debug", cfg.Logging.Level)
	require.Equal(t, "redis", cfg.Cache.Backend)
}

func TestInit_MissingFile(t *testing.T) {
	_, err := Init(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "error reading config file")
}
