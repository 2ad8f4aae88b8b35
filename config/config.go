package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DefaultDateFormat   = "ordinal"
	DefaultFetchTimeout = 15 * time.Second
	DefaultWorkers      = 4
	DefaultUserAgent    = "feedagg/1.0 (+https://github.com/feedagg/feedagg)"
	DefaultMaxBodyBytes = 10 << 20
	DefaultOutputDir    = "_site/feeds"
)

// TomlFetch controls outbound feed requests
type TomlFetch struct {
	Timeout      time.Duration `toml:"timeout"`
	Workers      int           `toml:"workers"`
	UserAgent    string        `toml:"user_agent"`
	MaxBodyBytes int64         `toml:"max_body_bytes"`
}

// TomlLanguage enables language tagging of aggregated posts
type TomlLanguage struct {
	Detect    bool     `toml:"detect"`
	Languages []string `toml:"languages,omitempty"` // ISO 639-1 codes
}

type TomlOutput struct {
	Dir string `toml:"dir"`
}

// TomlConfig represents the top-level site configuration
type TomlConfig struct {
	DateFormat string       `toml:"date_format"`
	Fetch      TomlFetch    `toml:"fetch"`
	Language   TomlLanguage `toml:"language"`
	Output     TomlOutput   `toml:"output"`
}

// Default returns a configuration with every default applied
func Default() *TomlConfig {
	cfg := &TomlConfig{}
	cfg.applyDefaults()
	return cfg
}

// LoadConfig reads the site configuration. A missing file is not an error,
// the defaults are used instead.
func LoadConfig(path string) (*TomlConfig, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config TomlConfig
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	config.applyDefaults()

	return &config, nil
}

func (c *TomlConfig) applyDefaults() {
	if c.DateFormat == "" {
		c.DateFormat = DefaultDateFormat
	}
	if c.Fetch.Timeout <= 0 {
		c.Fetch.Timeout = DefaultFetchTimeout
	}
	if c.Fetch.Workers <= 0 {
		c.Fetch.Workers = DefaultWorkers
	}
	if c.Fetch.UserAgent == "" {
		c.Fetch.UserAgent = DefaultUserAgent
	}
	if c.Fetch.MaxBodyBytes <= 0 {
		c.Fetch.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if c.Output.Dir == "" {
		c.Output.Dir = DefaultOutputDir
	}
}
