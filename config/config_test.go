package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "leavedesk.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FileWithDefaults(t *testing.T) {
	path := writeConfigFile(t, `
store:
  backend: github
github:
  owner: yeorum
  repo: leave-data
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "github", cfg.Store.Backend)
	assert.Equal(t, 5*time.Minute, cfg.Store.CacheTTL)
	assert.Equal(t, "yeorum", cfg.GitHub.Owner)
	assert.Equal(t, "leave-data", cfg.GitHub.Repo)
	assert.Equal(t, "main", cfg.GitHub.Branch)
	assert.Equal(t, "gemini-1.5-pro-latest", cfg.Gemini.Model)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
store:
  backend: sqlite
server:
  port: 9000
`)
	t.Setenv("LEAVEDESK_SERVER_PORT", "9999")
	t.Setenv("LEAVEDESK_GITHUB_TOKEN", "ghp_test")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "ghp_test", cfg.GitHub.Token)
}

func TestLoad_SqliteBackendNeedsNoGitHub(t *testing.T) {
	t.Setenv("LEAVEDESK_STORE_BACKEND", "sqlite")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Store.Backend)
	assert.Equal(t, "leavedesk.db", cfg.Store.SQLitePath)
}

func TestValidate_Rejections(t *testing.T) {
	base := func() Config {
		return Config{
			Store:  StoreConfig{Backend: "sqlite", SQLitePath: "x.db", CacheTTL: time.Minute},
			GitHub: GitHubConfig{Owner: "o", Repo: "r"},
		}
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown backend", func(c *Config) { c.Store.Backend = "postgres" }},
		{"github without owner", func(c *Config) {
			c.Store.Backend = "github"
			c.GitHub.Owner = ""
		}},
		{"sqlite without path", func(c *Config) { c.Store.SQLitePath = "" }},
		{"non-positive cache ttl", func(c *Config) { c.Store.CacheTTL = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
