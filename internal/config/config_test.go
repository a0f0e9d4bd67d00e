package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://openrouter.ai/api/v1", cfg.Oracle.Endpoint)
	assert.Equal(t, "anthropic/claude-3-5-sonnet-20241022", cfg.Oracle.Model)
	assert.Equal(t, 60, cfg.Oracle.TimeoutSecs)
	assert.Empty(t, cfg.Oracle.APIKey)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "logsense.db", cfg.Store.DatabaseURL)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
oracle:
  api_key: test-key
  model: test/model
pii:
  detectors: "email|ip_address"
store:
  driver: postgres
  database_url: postgres://localhost/logsense
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-key", cfg.Oracle.APIKey)
	assert.Equal(t, "test/model", cfg.Oracle.Model)
	assert.Equal(t, "email|ip_address", cfg.PII.Detectors)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/logsense", cfg.Store.DatabaseURL)
	// Defaults still apply for everything the file omits.
	assert.Equal(t, 60, cfg.Oracle.TimeoutSecs)
}

func TestLoadFromEnv(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	t.Setenv("LOGSENSE_ORACLE_API_KEY", "env-key")
	t.Setenv("LOGSENSE_STORE_DRIVER", "postgres")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.Oracle.APIKey)
	assert.Equal(t, "postgres", cfg.Store.Driver)
}

func TestOracleTimeout(t *testing.T) {
	assert.Equal(t, 90*time.Second, OracleConfig{TimeoutSecs: 90}.Timeout())
}

func TestDetectorList(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "empty", in: "", want: nil},
		{name: "whitespace only", in: "  ", want: nil},
		{name: "single", in: "email", want: []string{"email"}},
		{name: "piped", in: "email|ip_address|ssn", want: []string{"email", "ip_address", "ssn"}},
		{name: "trims and drops blanks", in: " email | |url ", want: []string{"email", "url"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PIIConfig{Detectors: tt.in}.DetectorList())
		})
	}
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.NotNil(t, zap.L())

	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))

	assert.Error(t, InitLogger(LogConfig{Level: "not-a-level"}))
}
