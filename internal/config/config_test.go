package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	for _, k := range []string{
		"EVENTDESK_API_URL", "EVENTDESK_TIMEOUT", "EVENTDESK_TIMEOUT_SECONDS", "EVENTDESK_USER_AGENT",
		"EVENTDESK_STORAGE", "EVENTDESK_STORAGE_PATH", "EVENTDESK_NAMESPACE", "REDIS_URL", "DATABASE_URL",
	} {
		t.Setenv(k, "")
	}
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	dir := isolate(t)

	c, err := Load(filepath.Join(dir, "missing.yaml"), false)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", c.APIURL)
	assert.Equal(t, 15*time.Second, c.Timeout)
	assert.Equal(t, "file", c.Storage.Driver)
	assert.Equal(t, "http://localhost:8080", c.Storage.Namespace)
	assert.Equal(t, "storage.json", filepath.Base(c.Storage.Path))
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	dir := isolate(t)
	_, err := Load(filepath.Join(dir, "missing.yaml"), true)
	assert.Error(t, err)
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api_url: https://events.example.com
timeout: 3s
storage:
  driver: redis
  redis_url: redis://localhost:6379/1
  namespace: prod
`), 0o600))

	c, err := Load(path, true)
	require.NoError(t, err)
	assert.Equal(t, "https://events.example.com", c.APIURL)
	assert.Equal(t, 3*time.Second, c.Timeout)
	assert.Equal(t, "redis", c.Storage.Driver)
	assert.Equal(t, "prod", c.Storage.Namespace)

	t.Setenv("EVENTDESK_API_URL", "http://staging:8080")
	t.Setenv("EVENTDESK_TIMEOUT_SECONDS", "7")
	t.Setenv("EVENTDESK_STORAGE", "memory")

	c, err = Load(path, true)
	require.NoError(t, err)
	assert.Equal(t, "http://staging:8080", c.APIURL)
	assert.Equal(t, 7*time.Second, c.Timeout)
	assert.Equal(t, "memory", c.Storage.Driver)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("EVENTDESK_API_URL=http://from-dotenv\n"), 0o600))
	// t.Setenv("", ...) leaves the variable set to empty, which godotenv
	// treats as already defined; clear it for real.
	require.NoError(t, os.Unsetenv("EVENTDESK_API_URL"))
	t.Cleanup(func() { _ = os.Unsetenv("EVENTDESK_API_URL") })

	c, err := Load("", false)
	require.NoError(t, err)
	assert.Equal(t, "http://from-dotenv", c.APIURL)
}

func TestLoad_Invalid(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.yaml")

	require.NoError(t, os.WriteFile(path, []byte("storage:\n  driver: etcd\n"), 0o600))
	_, err := Load(path, true)
	assert.ErrorContains(t, err, "etcd")

	require.NoError(t, os.WriteFile(path, []byte("api_url: [\n"), 0o600))
	_, err = Load(path, true)
	assert.Error(t, err)
}
