package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
//
// It is constructed once and handed to every component that needs settings;
// nothing reads configuration through package-level state.
type Config struct {
	Remote    RemoteConfig    `toml:"remote"`
	Migration MigrationConfig `toml:"migration"`
	Database  DatabaseConfig  `toml:"database"`
	Server    ServerConfig    `toml:"server"`
}

// RemoteConfig identifies the site content is pulled from.
type RemoteConfig struct {
	URL string `toml:"url"`
	Key string `toml:"key"`
}

// MigrationConfig contains transfer tuning and reconciliation settings.
//
// Per-entity batch sizes exist so operators can stay under host request and
// execution-time limits. PageDelaySeconds paces cycles so a long transfer does
// not overwhelm the local store.
type MigrationConfig struct {
	FallbackAuthorID  int64 `toml:"fallback_author_id"`
	UsersPerPage      int   `toml:"users_per_page"`
	TermsPerPage      int   `toml:"terms_per_page"`
	PostsPerPage      int   `toml:"posts_per_page"`
	MediaPerPage      int   `toml:"media_per_page"`
	IncludeEmptyTerms bool  `toml:"include_empty_terms"`
	PageDelaySeconds  int   `toml:"page_delay_seconds"`
}

// PerPage returns the configured batch size for an entity kind, defaulting to 10.
func (m MigrationConfig) PerPage(kind string) int {
	var n int
	switch kind {
	case "user":
		n = m.UsersPerPage
	case "term":
		n = m.TermsPerPage
	case "post":
		n = m.PostsPerPage
	case "media":
		n = m.MediaPerPage
	}
	if n <= 0 {
		n = 10
	}
	return n
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP server settings for the serving side of a migration.
//
// Key is the shared secret incoming requests must present via the X-MMT-KEY header.
// URL is this site's public base URL, substituted into guids and content
// bodies in place of the remote URL during import.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
	URL  string `toml:"url"`
	Key  string `toml:"key"`
}

// Addr returns the host:port the server binds to.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// BaseURL returns the configured public URL, falling back to the bind address.
func (s ServerConfig) BaseURL() string {
	if s.URL != "" {
		return TrimSlash(s.URL)
	}
	return "http://" + s.Addr()
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
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
