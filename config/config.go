// Package config provides YAML configuration parsing for AssetBoard.
//
// This package enables running AssetBoard as a standalone binary with a
// configuration file, as an alternative to the programmatic SDK approach.
//
// Example configuration:
//
//	title: Asset Desk
//	port: 8080
//
//	asset:
//	  url: https://api.example.com/asset
//	  timeout: 5s
//	  overlap: latest_issued
//	  field1: demo
//	  refresh_interval: 1m
//
// Selected settings can be overridden from the environment, see [Parse].
package config

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/jpalmerr/assetboard/asset"
)

const (
	defaultPort    = 8080
	defaultTimeout = 10 * time.Second

	// minRefreshInterval prevents accidental hammering of the asset resource.
	minRefreshInterval = 1 * time.Second
)

// Config is the root configuration structure for AssetBoard.
//
// It maps directly to the YAML configuration file structure.
// Use [Load] or [Parse] to create a Config from YAML.
type Config struct {
	// Title is the page title. Defaults to "AssetBoard" if not set.
	Title string `yaml:"title"`

	// Port is the HTTP server port. Defaults to 8080.
	Port int `yaml:"port"`

	// Asset configures the asset facade and its remote resource.
	Asset AssetConfig `yaml:"asset"`
}

// AssetConfig configures the asset facade.
type AssetConfig struct {
	// URL is the remote resource fetched whenever field1 changes.
	// Empty means the host root. Relative URLs are resolved against BaseURL.
	// Supports environment variable substitution: ${VAR} or ${VAR:-default}
	URL string `yaml:"url"`

	// BaseURL is the absolute URL relative URLs are resolved against.
	// Defaults to the host itself.
	BaseURL string `yaml:"base_url"`

	// ResultsPath is the JSON path of the payload copied into field2.
	// Defaults to "results".
	ResultsPath string `yaml:"results_path"`

	// Timeout is the timeout of a single fetch. Defaults to 10s.
	Timeout Duration `yaml:"timeout"`

	// Overlap is "last_resolved" (default) or "latest_issued".
	Overlap string `yaml:"overlap"`

	// Field1 is the initial field1 value. Unset leaves field1 null.
	Field1 *string `yaml:"field1"`

	// RefreshInterval re-fetches periodically when set. Must be at least 1s.
	RefreshInterval Duration `yaml:"refresh_interval"`
}

// envOverrides holds settings read from the environment. Unset or empty
// variables leave the pointers nil.
type envOverrides struct {
	Title           *string        `env:"ASSETBOARD_TITLE"`
	Port            *int           `env:"ASSETBOARD_PORT"`
	AssetURL        *string        `env:"ASSETBOARD_ASSET_URL"`
	AssetBaseURL    *string        `env:"ASSETBOARD_ASSET_BASE_URL"`
	ResultsPath     *string        `env:"ASSETBOARD_ASSET_RESULTS_PATH"`
	Field1          *string        `env:"ASSETBOARD_ASSET_FIELD1"`
	AssetTimeout    *time.Duration `env:"ASSETBOARD_ASSET_TIMEOUT"`
	AssetOverlap    *string        `env:"ASSETBOARD_ASSET_OVERLAP"`
	RefreshInterval *time.Duration `env:"ASSETBOARD_REFRESH_INTERVAL"`
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// OverlapPolicy returns the parsed overlap policy.
func (a AssetConfig) OverlapPolicy() (asset.OverlapPolicy, error) {
	return asset.ParseOverlapPolicy(a.Overlap)
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
// Group 1: variable name
// Group 2: the ":-default" part (if present, indicates a default was specified)
// Group 3: the default value (may be empty for ${VAR:-})
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with environment values.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if firstErr != nil {
			return match
		}

		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		hasDefault := len(submatches) > 2 && submatches[2] != ""
		defaultVal := ""
		if hasDefault && len(submatches) > 3 {
			defaultVal = submatches[3]
		}

		value, exists := os.LookupEnv(varName)
		if !exists {
			if hasDefault {
				return defaultVal
			}
			firstErr = fmt.Errorf("environment variable %q is not set", varName)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// Default returns the configuration used when no file is given, with
// environment overrides applied.
func Default() (*Config, error) {
	return Parse(nil)
}

// Load reads and parses a YAML configuration file.
//
// Environment variables in the file are expanded before parsing.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration data.
//
// Environment variables are expanded in asset.url, asset.base_url and
// asset.field1. Then the ASSETBOARD_TITLE, ASSETBOARD_PORT,
// ASSETBOARD_ASSET_URL, ASSETBOARD_ASSET_BASE_URL,
// ASSETBOARD_ASSET_RESULTS_PATH, ASSETBOARD_ASSET_FIELD1,
// ASSETBOARD_ASSET_TIMEOUT, ASSETBOARD_ASSET_OVERLAP and
// ASSETBOARD_REFRESH_INTERVAL environment variables override the file.
// Defaults are applied for Port (8080) and asset.timeout (10s).
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.expand(); err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if cfg.Asset.Timeout == 0 {
		cfg.Asset.Timeout = Duration(defaultTimeout)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// expand substitutes environment variables in the fields that support it.
func (c *Config) expand() error {
	fields := []struct {
		name string
		ptr  *string
	}{
		{"asset.url", &c.Asset.URL},
		{"asset.base_url", &c.Asset.BaseURL},
		{"asset.field1", c.Asset.Field1},
	}

	for _, f := range fields {
		if f.ptr == nil {
			continue
		}
		expanded, err := expandEnvVars(*f.ptr)
		if err != nil {
			return fmt.Errorf("%s: %w", f.name, err)
		}
		*f.ptr = expanded
	}
	return nil
}

// applyEnv overrides file settings with ASSETBOARD_* environment variables.
func (c *Config) applyEnv() error {
	var overrides envOverrides
	if err := env.Parse(&overrides); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	if overrides.Title != nil {
		c.Title = *overrides.Title
	}
	if overrides.Port != nil {
		c.Port = *overrides.Port
	}
	if overrides.AssetURL != nil {
		c.Asset.URL = *overrides.AssetURL
	}
	if overrides.AssetBaseURL != nil {
		c.Asset.BaseURL = *overrides.AssetBaseURL
	}
	if overrides.ResultsPath != nil {
		c.Asset.ResultsPath = *overrides.ResultsPath
	}
	if overrides.Field1 != nil {
		field1 := *overrides.Field1
		c.Asset.Field1 = &field1
	}
	if overrides.AssetTimeout != nil {
		c.Asset.Timeout = Duration(*overrides.AssetTimeout)
	}
	if overrides.AssetOverlap != nil {
		c.Asset.Overlap = *overrides.AssetOverlap
	}
	if overrides.RefreshInterval != nil {
		c.Asset.RefreshInterval = Duration(*overrides.RefreshInterval)
	}
	return nil
}

// validate checks every field, naming the offending one in the error.
func (c *Config) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}

	a := &c.Asset

	if a.URL != "" {
		u, err := url.Parse(a.URL)
		if err != nil {
			return fmt.Errorf("asset.url: invalid url: %w", err)
		}
		if u.IsAbs() && u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("asset.url: scheme must be http or https, got %q", u.Scheme)
		}
	}

	if a.BaseURL != "" {
		u, err := url.Parse(a.BaseURL)
		if err != nil {
			return fmt.Errorf("asset.base_url: invalid url: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("asset.base_url: must be an absolute http or https url, got %q", a.BaseURL)
		}
	}

	if a.Timeout.Duration() < time.Second {
		return fmt.Errorf("asset.timeout: must be at least 1s, got %s", a.Timeout.Duration())
	}

	if _, err := a.OverlapPolicy(); err != nil {
		return fmt.Errorf("asset.overlap: %w", err)
	}

	if a.RefreshInterval != 0 && a.RefreshInterval.Duration() < minRefreshInterval {
		return fmt.Errorf("asset.refresh_interval: must be at least %s, got %s",
			minRefreshInterval, a.RefreshInterval.Duration())
	}

	return nil
}
