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
type Config struct {
	Remote   RemoteConfig   `toml:"remote"`
	Sync     SyncConfig     `toml:"sync"`
	Matcher  MatcherConfig  `toml:"matcher"`
	Database DatabaseConfig `toml:"database"`
}

// RemoteConfig contains connection settings for the remote library proxy.
type RemoteConfig struct {
	ProxyURL      string  `toml:"proxy_url"`
	AuthFile      string  `toml:"auth_file"`
	Token         string  `toml:"token"`
	RateLimit     float64 `toml:"rate_limit"` // Requests per second
	CreatePrivate bool    `toml:"create_private"`
}

// SyncConfig contains default values for the sync policy flags.
type SyncConfig struct {
	RootDir     string `toml:"root_dir"`
	NoRemove    bool   `toml:"no_remove"`
	DryRun      bool   `toml:"dry_run"`
	AutoConfirm bool   `toml:"auto_confirm"`
}

// MatcherConfig selects the similarity measure used for fuzzy track matching.
type MatcherConfig struct {
	Threshold float64 `toml:"threshold"`
	Algorithm string  `toml:"algorithm"` // quick, levenshtein, jaro-winkler
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path          string `toml:"path"`
	MaxOpenConns  int    `toml:"max_open_conns"`
	MaxIdleConns  int    `toml:"max_idle_conns"`
	RecordHistory bool   `toml:"record_history"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys absent from the file keep the values of [DefaultConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks value ranges that TOML decoding cannot express.
func (c *Config) Validate() error {
	if c.Matcher.Threshold < 0 || c.Matcher.Threshold > 1 {
		return fmt.Errorf("%w: matcher threshold must be within [0, 1], got %v", ErrInvalidConfig, c.Matcher.Threshold)
	}
	switch c.Matcher.Algorithm {
	case "", "quick", "levenshtein", "jaro-winkler":
	default:
		return fmt.Errorf("%w: unknown matcher algorithm %q", ErrInvalidConfig, c.Matcher.Algorithm)
	}
	if c.Remote.RateLimit < 0 {
		return fmt.Errorf("%w: remote rate_limit must not be negative", ErrInvalidConfig)
	}
	return nil
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
