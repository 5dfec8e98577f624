// Package config loads application configuration.
//
// Sources, in priority order:
//  1. Environment variables (prefix LEAVEDESK_, e.g. LEAVEDESK_GITHUB_TOKEN)
//  2. An optional YAML file (leavedesk.yaml in the working directory, or the
//     path given to Load)
//  3. Defaults
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration structure.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Store     StoreConfig     `mapstructure:"store"`
	GitHub    GitHubConfig    `mapstructure:"github"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

// StoreConfig selects and tunes the document-store backend.
type StoreConfig struct {
	// Backend is "github" or "sqlite".
	Backend string `mapstructure:"backend"`

	// SQLitePath is the database file for the sqlite backend.
	SQLitePath string `mapstructure:"sqlite_path"`

	// CacheTTL bounds snapshot staleness between mutations.
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// GitHubConfig locates the data repository for the github backend.
type GitHubConfig struct {
	Token  string `mapstructure:"token"`
	Owner  string `mapstructure:"owner"`
	Repo   string `mapstructure:"repo"`
	Branch string `mapstructure:"branch"`
}

// GeminiConfig configures the assistant. An empty APIKey disables it.
type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// AuthConfig holds the placeholder password gate. This is access control for
// an internal tool, not a security boundary.
type AuthConfig struct {
	AppPassword   string `mapstructure:"app_password"`
	AdminPassword string `mapstructure:"admin_password"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
}

// Load reads configuration. path may be empty to use defaults + env only
// (plus leavedesk.yaml if present).
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173"})
	v.SetDefault("store.backend", "github")
	v.SetDefault("store.sqlite_path", "leavedesk.db")
	v.SetDefault("store.cache_ttl", 5*time.Minute)

	// Empty defaults register the keys so AutomaticEnv can fill them; viper's
	// Unmarshal only sees keys it already knows about.
	v.SetDefault("github.token", "")
	v.SetDefault("github.owner", "")
	v.SetDefault("github.repo", "")
	v.SetDefault("github.branch", "main")
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", "gemini-1.5-pro-latest")
	v.SetDefault("auth.app_password", "")
	v.SetDefault("auth.admin_password", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetEnvPrefix("LEAVEDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("leavedesk")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field requirements.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case "github":
		if c.GitHub.Owner == "" || c.GitHub.Repo == "" {
			return errors.New("github backend requires github.owner and github.repo")
		}
	case "sqlite":
		if c.Store.SQLitePath == "" {
			return errors.New("sqlite backend requires store.sqlite_path")
		}
	default:
		return fmt.Errorf("unknown store backend %q (want github or sqlite)", c.Store.Backend)
	}
	if c.Store.CacheTTL <= 0 {
		return errors.New("store.cache_ttl must be positive")
	}
	return nil
}
