package config

import (
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment variables that override file settings,
// for example CRAFTBOARD_SERVER_ADDRESS or CRAFTBOARD_LOG_LEVEL.
const EnvPrefix = "CRAFTBOARD"

// Override keys. Nested keys use a dot, which maps to an underscore in the
// environment variable name.
const (
	KeyServerAddress = "server_address"
	KeyTitle         = "title"
	KeyTagline       = "tagline"
	KeyBackground    = "background"
	KeyPort          = "port"
	KeyPollInterval  = "poll_interval"
	KeyAPIBaseURL    = "api_base_url"
	KeyUserAgent     = "user_agent"
	KeyLogLevel      = "log.level"
	KeyLogFormat     = "log.format"
	KeyLogFile       = "log.file"
)

// NewViper returns a viper instance that reads CRAFTBOARD_* environment
// variables. Callers bind command-line flags to it with BindPFlag.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// ApplyOverrides copies every key explicitly set in v (a changed flag or a
// present environment variable) onto cfg. Flags take precedence over the
// environment, which takes precedence over the file.
//
// The result is not validated; call [Config.Validate] afterwards.
func ApplyOverrides(cfg *Config, v *viper.Viper) {
	strs := []struct {
		key string
		dst *string
	}{
		{KeyServerAddress, &cfg.ServerAddress},
		{KeyTitle, &cfg.Title},
		{KeyTagline, &cfg.Tagline},
		{KeyBackground, &cfg.Background},
		{KeyAPIBaseURL, &cfg.APIBaseURL},
		{KeyUserAgent, &cfg.UserAgent},
		{KeyLogLevel, &cfg.Log.Level},
		{KeyLogFormat, &cfg.Log.Format},
		{KeyLogFile, &cfg.Log.File},
	}
	for _, s := range strs {
		if v.IsSet(s.key) {
			*s.dst = v.GetString(s.key)
		}
	}

	if v.IsSet(KeyPort) {
		cfg.Port = v.GetInt(KeyPort)
	}
	if v.IsSet(KeyPollInterval) {
		cfg.PollInterval = Duration(v.GetDuration(KeyPollInterval))
	}
}
