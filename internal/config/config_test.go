package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("log_level: debug\n"))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Remote.Timeout)
	assert.Equal(t, 3, cfg.Remote.Retry.MaxAttempts)
	assert.Equal(t, int64(5<<20), cfg.Local.QuotaBytes)
	assert.Equal(t, "sepri", cfg.RabbitMQ.Exchange)
	assert.False(t, cfg.RabbitMQ.Enabled)
	assert.Equal(t, 5*time.Minute, cfg.Sync.Interval)
}

func TestParse_ExpandsEnv(t *testing.T) {
	t.Setenv("SEPRI_TEST_SECRET", "s3cret")

	cfg, err := Parse([]byte(`
auth:
  token_secret: ${SEPRI_TEST_SECRET}
  admin:
    email: admin@example.org
    password: pw
remote:
  base_url: http://content:9000
  timeout: 2s
`))
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Auth.TokenSecret)
	assert.Equal(t, "admin@example.org", cfg.Auth.Admin.Email)
	assert.Equal(t, "Administrador SEPRI", cfg.Auth.Admin.Name)
	assert.Equal(t, "http://content:9000", cfg.Remote.BaseURL)
	assert.Equal(t, 2*time.Second, cfg.Remote.Timeout)
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("server: [unterminated"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database:\n  host: db\n  port: 5432\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Contains(t, cfg.Database.DSN(), "host=db port=5432")
}
