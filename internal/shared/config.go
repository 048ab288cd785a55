package shared

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// EnvClientID names the environment variable that overrides [SoundCloudConfig.ClientID].
const EnvClientID = "SOUNDCLOUD_CLIENT_ID"

// Cursor scopes accepted by [ScrapeConfig.CursorScope].
const (
	ScopeRun      = "run"
	ScopeResource = "resource"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	SoundCloud SoundCloudConfig `toml:"soundcloud"`
	Scrape     ScrapeConfig     `toml:"scrape"`
	Log        LogConfig        `toml:"log"`
	Database   DatabaseConfig   `toml:"database"`
	Server     ServerConfig     `toml:"server"`
}

// SoundCloudConfig contains API access settings.
type SoundCloudConfig struct {
	ClientID       string  `toml:"client_id"`
	AccessToken    string  `toml:"access_token"`
	BaseURL        string  `toml:"base_url"`
	UserAgent      string  `toml:"user_agent"`
	RequestTimeout int     `toml:"request_timeout"` // seconds
	RateLimit      float64 `toml:"rate_limit"`      // requests per second, 0 disables pacing
}

// Timeout returns the request timeout as a [time.Duration].
func (c SoundCloudConfig) Timeout() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

// ScrapeConfig contains pagination and fetch settings for a run.
type ScrapeConfig struct {
	IncludeComments  bool   `toml:"include_comments"`
	EndPage          int    `toml:"end_page"`  // 0 = unlimited
	MaxItems         int    `toml:"max_items"` // 0 = unlimited
	CursorScope      string `toml:"cursor_scope"`
	CommentsPageSize int    `toml:"comments_page_size"`
	SearchPageSize   int    `toml:"search_page_size"`
	DedupeSearch     bool   `toml:"dedupe_search"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the values of [DefaultConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// SaveConfig encodes config as TOML and writes it to path.
func SaveConfig(path string, config *Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ApplyEnv loads envFile (if present) into the process environment and
// applies supported overrides to the config.
func (c *Config) ApplyEnv(envFile string) error {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return fmt.Errorf("failed to load %s: %w", envFile, err)
			}
		}
	}

	if id := strings.TrimSpace(os.Getenv(EnvClientID)); id != "" {
		c.SoundCloud.ClientID = id
	}
	return nil
}

// Validate checks values that cannot be corrected silently.
func (c *Config) Validate() error {
	switch c.Scrape.CursorScope {
	case ScopeRun, ScopeResource:
	case "":
		c.Scrape.CursorScope = ScopeRun
	default:
		return fmt.Errorf("%w: cursor_scope must be %q or %q, got %q", ErrInvalidConfig, ScopeRun, ScopeResource, c.Scrape.CursorScope)
	}

	// non-positive limits mean unlimited
	c.Scrape.EndPage = max(c.Scrape.EndPage, 0)
	c.Scrape.MaxItems = max(c.Scrape.MaxItems, 0)

	if c.SoundCloud.RateLimit < 0 {
		return fmt.Errorf("%w: rate_limit must not be negative", ErrInvalidConfig)
	}
	return nil
}
