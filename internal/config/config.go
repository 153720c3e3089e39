// Package config provides configuration loading and management for splashd.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// CommentPrefix marks a splash entry or remote line as a comment.
const CommentPrefix = "#"

// Option defines the interface for configuration options
type Option func(*loaderConfig) error

// loaderConfig defines the configuration for loading a configuration
type loaderConfig struct {
	path string
}

// WithConfigPath loads configuration from a YAML file
func WithConfigPath(path string) Option {
	return func(cfg *loaderConfig) error {
		if path == "" {
			return fmt.Errorf("path is required")
		}

		// Resolve symlinks to prevent symlink attacks.
		// Note that this calls filepath.Clean internally.
		realPath, err := filepath.EvalSymlinks(path)
		if err != nil {
			return fmt.Errorf("failed to evaluate symlinks: %w", err)
		}

		// Validate the path to prevent path traversal attacks
		if !filepath.IsAbs(realPath) {
			if !filepath.IsLocal(realPath) {
				return fmt.Errorf("path is not local or contains invalid traversal: %s", path)
			}
		}

		cfg.path = realPath
		return nil
	}
}

// Config represents the root configuration structure
type Config struct {
	// Splashes configures the splash source hierarchy
	Splashes SplashSource `yaml:"splashes"`

	// Server configures the HTTP serving surface
	Server ServerConfig `yaml:"server,omitempty"`
}

// SplashSource is the source snapshot consumed by the resolver. It is
// treated as an immutable value per cache generation; a new snapshot is the
// trigger for cache invalidation.
type SplashSource struct {
	// UseRemote enables fetching splashes from RemoteURL before falling
	// back to the local list
	UseRemote bool `yaml:"useRemote"`

	// RemoteURL is the remote splash list location, one splash per line.
	// GitHub blob URLs are rewritten to their raw-content equivalent.
	RemoteURL string `yaml:"remoteUrl,omitempty"`

	// Local is the fallback splash list. Entries are cleaned at load time:
	// trimmed, with blank entries and "#" comments dropped.
	Local []string `yaml:"local,omitempty"`
}

// ServerConfig defines HTTP server settings
type ServerConfig struct {
	// Address is the listen address, e.g. ":8080"
	Address string `yaml:"address,omitempty"`
}

// LoadConfig loads and parses configuration from a YAML file
func LoadConfig(opts ...Option) (*Config, error) {
	loaderCfg := &loaderConfig{}
	for _, opt := range opts {
		if err := opt(loaderCfg); err != nil {
			return nil, err
		}
	}

	if loaderCfg.path == "" {
		return nil, fmt.Errorf("path is required")
	}

	data, err := os.ReadFile(loaderCfg.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	config.Splashes.Local = CleanSplashes(config.Splashes.Local)

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// CleanSplashes trims entries and drops blanks and "#" comments, preserving
// the declaration order of the rest. The resolver receives a pre-cleaned
// list and uses it as-is.
func CleanSplashes(entries []string) []string {
	cleaned := make([]string, 0, len(entries))
	for _, entry := range entries {
		trimmed := strings.TrimSpace(entry)
		if trimmed == "" || strings.HasPrefix(trimmed, CommentPrefix) {
			continue
		}
		cleaned = append(cleaned, trimmed)
	}
	return cleaned
}

// GetAddress returns the listen address, using ":8080" if not specified
func (c *Config) GetAddress() string {
	if c.Server.Address == "" {
		return ":8080"
	}
	return c.Server.Address
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c == nil {
		return fmt.Errorf("config cannot be nil")
	}

	if c.Splashes.UseRemote {
		if strings.TrimSpace(c.Splashes.RemoteURL) == "" {
			return fmt.Errorf("splashes.remoteUrl is required when splashes.useRemote is true")
		}
		parsed, err := url.Parse(c.Splashes.RemoteURL)
		if err != nil {
			return fmt.Errorf("splashes.remoteUrl is not a valid URL: %w", err)
		}
		if parsed.Scheme != "http" && parsed.Scheme != "https" {
			return fmt.Errorf("splashes.remoteUrl must use http or https, got %q", parsed.Scheme)
		}
	}

	return nil
}
