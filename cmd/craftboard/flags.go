package main

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jpalmerr/craftboard/config"
)

// overrideFlags maps command-line flags to configuration keys.
var overrideFlags = []struct {
	flag  string
	key   string
	usage string
}{
	{"address", config.KeyServerAddress, "Minecraft server address, optionally host:port"},
	{"title", config.KeyTitle, "page title"},
	{"tagline", config.KeyTagline, "line shown under the title"},
	{"background", config.KeyBackground, "background image URL"},
	{"api-base-url", config.KeyAPIBaseURL, "status API base URL"},
	{"user-agent", config.KeyUserAgent, "User-Agent sent to the status API"},
	{"log-level", config.KeyLogLevel, "log level (debug, info, warn, error)"},
	{"log-format", config.KeyLogFormat, "log format (json, text)"},
	{"log-file", config.KeyLogFile, "write logs to a rotated file instead of stderr"},
}

// addOverrideFlags registers the flags that override file settings.
func addOverrideFlags(fs *pflag.FlagSet) {
	for _, f := range overrideFlags {
		fs.String(f.flag, "", f.usage)
	}
	fs.Int("port", 0, "HTTP port (default 8080)")
	fs.Duration("poll-interval", 0, "time between polls (default 60s)")
}

// newOverrides binds fs to a viper instance that also reads CRAFTBOARD_*
// environment variables.
func newOverrides(fs *pflag.FlagSet) (*viper.Viper, error) {
	v := config.NewViper()
	if fs == nil {
		return v, nil
	}

	bind := func(key, flag string) error {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return fmt.Errorf("failed to bind flag %q: %w", flag, err)
		}
		return nil
	}

	for _, f := range overrideFlags {
		if err := bind(f.key, f.flag); err != nil {
			return nil, err
		}
	}
	if err := bind(config.KeyPort, "port"); err != nil {
		return nil, err
	}
	if err := bind(config.KeyPollInterval, "poll-interval"); err != nil {
		return nil, err
	}
	return v, nil
}

// resolveConfig reads the optional config file, applies flag and environment
// overrides and validates the result.
func resolveConfig(path string, v *viper.Viper) (*config.Config, error) {
	cfg := config.Default()
	if path != "" {
		var err error
		cfg, err = config.ReadFile(path)
		if err != nil {
			return nil, err
		}
	}

	config.ApplyOverrides(cfg, v)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
