package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaultsWhenFilesMissing(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(filepath.Join(dir, "missing.yaml"), filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "/app", cfg.Server.BasePath)
	assert.Equal(t, "My New Dashboard", cfg.Dashboard.DefaultName)
	assert.Equal(t, time.Minute, cfg.Dashboard.FragmentTTL.Std())
	assert.Equal(t, ":8080", cfg.Server.Addr())
}

func TestLoadYAMLThenEnv(t *testing.T) {
	path := writeFile(t, "dash.yaml", `
server:
  port: 9000
database:
  path: /tmp/dash.db
log:
  level: debug
  format: console
dashboard:
  default_name: Team Board
  fragment_ttl: 30s
auth:
  session_ttl: 2h
`)
	t.Setenv("DASH_PORT", "9100")
	t.Setenv("DASH_JWT_SECRET", "from-env")

	cfg, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "/tmp/dash.db", cfg.Database.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "Team Board", cfg.Dashboard.DefaultName)
	assert.Equal(t, 30*time.Second, cfg.Dashboard.FragmentTTL.Std())
	assert.Equal(t, 2*time.Hour, cfg.Auth.SessionTTL.Std())
	assert.Equal(t, "from-env", cfg.Auth.Secret)
}

func TestLoadEnvFile(t *testing.T) {
	env := writeFile(t, ".env", "DASH_LOG_FORMAT=console\nDASH_DEFAULT_NAME=From Dotenv\n")
	t.Setenv("DASH_LOG_FORMAT", "")
	t.Setenv("DASH_DEFAULT_NAME", "")
	require.NoError(t, os.Unsetenv("DASH_LOG_FORMAT"))
	require.NoError(t, os.Unsetenv("DASH_DEFAULT_NAME"))

	cfg, err := Load("", env)
	require.NoError(t, err)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "From Dotenv", cfg.Dashboard.DefaultName)
}

func TestLoadEmptyDBPathSelectsMemory(t *testing.T) {
	t.Setenv("DASH_DB_PATH", "")
	cfg, err := Load("", "")
	require.NoError(t, err)
	assert.Empty(t, cfg.Database.Path)
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Setenv("DASH_PORT", "abc")
	_, err := Load("", "")
	assert.Error(t, err)

	t.Setenv("DASH_PORT", "70000")
	_, err = Load("", "")
	assert.ErrorContains(t, err, "server.port")

	path := writeFile(t, "bad.yaml", "dashboard:\n  fragment_ttl: soon\n")
	t.Setenv("DASH_PORT", "")
	_, err = Load(path, "")
	assert.ErrorContains(t, err, "invalid duration")
}

func TestValidateCollectsErrors(t *testing.T) {
	cfg := Defaults()
	cfg.Log.Level = "trace"
	cfg.Log.Format = "xml"
	cfg.Server.BasePath = "app"
	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "log.level")
	assert.ErrorContains(t, err, "log.format")
	assert.ErrorContains(t, err, "base_path")
}
