// Package config provides YAML configuration parsing for craftboard.
//
// This package enables running craftboard as a standalone binary with a
// configuration file, as an alternative to the programmatic SDK approach.
//
// Example configuration:
//
//	server_address: ${MC_SERVER_ADDRESS:-play.example.net}
//	title: Blockville
//	tagline: Join the adventure today!
//	background: https://example.net/spawn.png
//	port: 8080
//	poll_interval: 60s
//
//	features:
//	  - title: Survival Experience
//	    description: Pure vanilla survival gameplay with essential commands
//	    icon: "⚔️"
//
//	log:
//	  level: info
//	  format: json
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jpalmerr/craftboard/internal/logging"
)

// minPollInterval is the minimum allowed polling interval. The public status
// API rate-limits aggressive clients.
const minPollInterval = 1 * time.Second

const (
	defaultTitle        = "Minecraft Server"
	defaultTagline      = "Join the adventure today!"
	defaultPort         = 8080
	defaultPollInterval = 60 * time.Second
	defaultAPIBaseURL   = "https://api.mcsrvstat.us/2/"
)

// Config is the root configuration structure for craftboard.
//
// It maps directly to the YAML configuration file structure.
// Use [Load] or [Parse] to create a Config from YAML.
type Config struct {
	// ServerAddress is the Minecraft server to query, optionally with a port.
	// Required. Supports ${VAR} and ${VAR:-default} substitution.
	ServerAddress string `yaml:"server_address"`

	// Title is the page heading. Defaults to "Minecraft Server".
	Title string `yaml:"title"`

	// Tagline is shown under the title.
	Tagline string `yaml:"tagline"`

	// Background is an image URL used as the page background.
	Background string `yaml:"background"`

	// Port is the HTTP server port. Defaults to 8080.
	Port int `yaml:"port"`

	// PollInterval is the time between scheduled polls.
	// Accepts duration strings like "30s", "1m". Defaults to 60s.
	PollInterval Duration `yaml:"poll_interval"`

	// APIBaseURL is the status API prefix the address is appended to.
	APIBaseURL string `yaml:"api_base_url"`

	// UserAgent is sent with every status API request.
	UserAgent string `yaml:"user_agent"`

	// Features lists the marketed features. Omitted means the built-in list;
	// an explicit empty list hides the card.
	Features []FeatureConfig `yaml:"features"`

	// Log configures the process logger.
	Log LogConfig `yaml:"log"`
}

// FeatureConfig is one entry of the features card.
type FeatureConfig struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Icon        string `yaml:"icon"`
}

// LogConfig configures logging output.
type LogConfig struct {
	// Level is debug, info, warn or error. Defaults to info.
	Level string `yaml:"level"`

	// Format is json or text. Defaults to json.
	Format string `yaml:"format"`

	// File, when set, sends logs to a rotated file instead of stderr.
	File string `yaml:"file"`

	MaxSizeMB  int `yaml:"max_size_mb"`
	MaxBackups int `yaml:"max_backups"`
	MaxAgeDays int `yaml:"max_age_days"`
}

// Options converts the log settings for the logging package.
func (l LogConfig) Options() logging.Options {
	return logging.Options{
		Level:      l.Level,
		Format:     l.Format,
		File:       l.File,
		MaxSizeMB:  l.MaxSizeMB,
		MaxBackups: l.MaxBackups,
		MaxAgeDays: l.MaxAgeDays,
	}
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

// Default returns a configuration with every default applied and no server
// address. It is the starting point when running without a config file.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads, parses and validates a YAML configuration file.
//
// Environment variables in the file are expanded before validation.
// Returns an error if the file cannot be read, parsed or validated.
func Load(path string) (*Config, error) {
	cfg, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ReadFile reads and decodes a YAML configuration file without validating
// it, so that overrides can fill in missing values first.
func ReadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Decode(data)
}

// Parse parses and validates YAML configuration data.
func Parse(data []byte) (*Config, error) {
	cfg, err := Decode(data)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode parses YAML configuration data, expands environment variables and
// applies defaults. The result is not validated; call [Config.Validate].
func Decode(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.expand(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	return &cfg, nil
}

// expand substitutes environment variables in the string settings.
func (c *Config) expand() error {
	fields := []struct {
		name string
		val  *string
	}{
		{"server_address", &c.ServerAddress},
		{"title", &c.Title},
		{"tagline", &c.Tagline},
		{"background", &c.Background},
		{"api_base_url", &c.APIBaseURL},
		{"user_agent", &c.UserAgent},
		{"log.file", &c.Log.File},
	}

	for _, f := range fields {
		expanded, err := expandEnvVars(*f.val)
		if err != nil {
			return fmt.Errorf("%s: %w", f.name, err)
		}
		*f.val = expanded
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Title == "" {
		c.Title = defaultTitle
	}
	if c.Tagline == "" {
		c.Tagline = defaultTagline
	}
	if c.Port == 0 {
		c.Port = defaultPort
	}
	if c.PollInterval == 0 {
		c.PollInterval = Duration(defaultPollInterval)
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = defaultAPIBaseURL
	}
	if c.Features == nil {
		c.Features = defaultFeatures()
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
}

// Validate checks the configuration for missing or out-of-range values.
func (c *Config) Validate() error {
	c.ServerAddress = strings.TrimSpace(c.ServerAddress)
	if c.ServerAddress == "" {
		return errors.New("server_address is required")
	}
	if strings.ContainsAny(c.ServerAddress, "/?# ") {
		return fmt.Errorf("server_address must be a host or host:port, got %q", c.ServerAddress)
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}

	if c.PollInterval.Duration() < minPollInterval {
		return fmt.Errorf("poll_interval must be at least %s, got %s", minPollInterval, c.PollInterval.Duration())
	}

	parsedURL, err := url.Parse(c.APIBaseURL)
	if err != nil {
		return fmt.Errorf("invalid api_base_url: %w", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("api_base_url scheme must be http or https, got %q", parsedURL.Scheme)
	}
	if parsedURL.Host == "" {
		return errors.New("api_base_url must include a host")
	}

	for i, f := range c.Features {
		if f.Title == "" {
			return fmt.Errorf("features[%d]: title is required", i)
		}
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return fmt.Errorf("log.format must be json or text, got %q", c.Log.Format)
	}

	return nil
}

func defaultFeatures() []FeatureConfig {
	return []FeatureConfig{
		{
			Title:       "Survival Experience",
			Description: "Pure vanilla survival gameplay with essential commands",
			Icon:        "⚔️",
		},
		{
			Title:       "Active Community",
			Description: "Friendly players and regular community events",
			Icon:        "🏰",
		},
		{
			Title:       "Anti-Grief Protection",
			Description: "Advanced protection systems to keep your builds safe",
			Icon:        "🛡️",
		},
	}
}
