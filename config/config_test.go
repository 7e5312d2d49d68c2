package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParse_MinimalConfig(t *testing.T) {
	yaml := `
server_address: play.example.net
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	// check defaults applied
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.PollInterval.Duration() != 60*time.Second {
		t.Errorf("PollInterval = %v, want 60s", cfg.PollInterval.Duration())
	}
	if cfg.Title != "Minecraft Server" {
		t.Errorf("Title = %q, want %q", cfg.Title, "Minecraft Server")
	}
	if cfg.Tagline != "Join the adventure today!" {
		t.Errorf("Tagline = %q, want default tagline", cfg.Tagline)
	}
	if cfg.APIBaseURL != "https://api.mcsrvstat.us/2/" {
		t.Errorf("APIBaseURL = %q, want mcsrvstat", cfg.APIBaseURL)
	}
	if len(cfg.Features) != 3 {
		t.Errorf("len(Features) = %d, want 3 default features", len(cfg.Features))
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v, want info/json", cfg.Log)
	}
}

func TestParse_FullConfig(t *testing.T) {
	yaml := `
server_address: play.example.net:25566
title: Blockville
tagline: Dig deeper
background: https://example.net/bg.png
port: 9090
poll_interval: 30s
api_base_url: http://127.0.0.1:9000/2/
user_agent: blockville-status
features:
  - title: Skyblock
    description: Islands in the sky
    icon: "🏝️"
log:
  level: debug
  format: text
  file: /var/log/craftboard.log
  max_size_mb: 5
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.ServerAddress != "play.example.net:25566" {
		t.Errorf("ServerAddress = %q", cfg.ServerAddress)
	}
	if cfg.Title != "Blockville" || cfg.Tagline != "Dig deeper" {
		t.Errorf("Title/Tagline = %q/%q", cfg.Title, cfg.Tagline)
	}
	if cfg.Background != "https://example.net/bg.png" {
		t.Errorf("Background = %q", cfg.Background)
	}
	if cfg.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Port)
	}
	if cfg.PollInterval.Duration() != 30*time.Second {
		t.Errorf("PollInterval = %v, want 30s", cfg.PollInterval.Duration())
	}
	if cfg.APIBaseURL != "http://127.0.0.1:9000/2/" {
		t.Errorf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.UserAgent != "blockville-status" {
		t.Errorf("UserAgent = %q", cfg.UserAgent)
	}
	if len(cfg.Features) != 1 || cfg.Features[0].Icon != "🏝️" {
		t.Errorf("Features = %+v", cfg.Features)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "text" || cfg.Log.MaxSizeMB != 5 {
		t.Errorf("Log = %+v", cfg.Log)
	}
}

func TestParse_EmptyFeatureList(t *testing.T) {
	yaml := `
server_address: play.example.net
features: []
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(cfg.Features) != 0 {
		t.Errorf("len(Features) = %d, want 0 for explicit empty list", len(cfg.Features))
	}
}

func TestParse_EnvVarSubstitution(t *testing.T) {
	t.Setenv("MC_ADDRESS", "mc.example.org")
	t.Setenv("MC_BACKGROUND", "https://cdn.example.org/bg.jpg")

	yaml := `
server_address: ${MC_ADDRESS}
background: ${MC_BACKGROUND}
title: ${MC_NAME:-Fallback Name}
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.ServerAddress != "mc.example.org" {
		t.Errorf("ServerAddress = %q, want %q", cfg.ServerAddress, "mc.example.org")
	}
	if cfg.Background != "https://cdn.example.org/bg.jpg" {
		t.Errorf("Background = %q", cfg.Background)
	}
	if cfg.Title != "Fallback Name" {
		t.Errorf("Title = %q, want %q", cfg.Title, "Fallback Name")
	}
}

func TestParse_EnvVarMissing(t *testing.T) {
	yaml := `
server_address: ${CRAFTBOARD_TEST_MISSING_VAR}
`
	_, err := Parse([]byte(yaml))
	if err == nil {
		t.Fatal("Parse() expected error for missing env var, got nil")
	}
	if !strings.Contains(err.Error(), "server_address") {
		t.Errorf("error = %v, want mention of server_address", err)
	}
}

func TestParse_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing address",
			yaml:    `title: Blockville`,
			wantErr: "server_address is required",
		},
		{
			name:    "address with path",
			yaml:    `server_address: play.example.net/status`,
			wantErr: "host or host:port",
		},
		{
			name: "port too high",
			yaml: `
server_address: play.example.net
port: 70000`,
			wantErr: "port must be between",
		},
		{
			name: "poll interval too short",
			yaml: `
server_address: play.example.net
poll_interval: 500ms`,
			wantErr: "poll_interval must be at least",
		},
		{
			name: "api base url scheme",
			yaml: `
server_address: play.example.net
api_base_url: ftp://status.example.net/`,
			wantErr: "scheme must be http or https",
		},
		{
			name: "api base url host",
			yaml: `
server_address: play.example.net
api_base_url: "https:///2/"`,
			wantErr: "must include a host",
		},
		{
			name: "feature without title",
			yaml: `
server_address: play.example.net
features:
  - description: untitled`,
			wantErr: "features[0]: title is required",
		},
		{
			name: "log level",
			yaml: `
server_address: play.example.net
log:
  level: verbose`,
			wantErr: "log.level",
		},
		{
			name: "log format",
			yaml: `
server_address: play.example.net
log:
  format: xml`,
			wantErr: "log.format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("Parse() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Parse() error = %q, want containing %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestParse_AddressTrimmed(t *testing.T) {
	cfg, err := Parse([]byte(`server_address: "  play.example.net  "`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.ServerAddress != "play.example.net" {
		t.Errorf("ServerAddress = %q, want trimmed", cfg.ServerAddress)
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("server_address: [unclosed"))
	if err == nil {
		t.Fatal("Parse() expected error for invalid YAML, got nil")
	}
}

func TestParse_InvalidDuration(t *testing.T) {
	yaml := `
server_address: play.example.net
poll_interval: soon
`
	_, err := Parse([]byte(yaml))
	if err == nil {
		t.Fatal("Parse() expected error for invalid duration, got nil")
	}
	if !strings.Contains(err.Error(), "invalid duration") {
		t.Errorf("error = %v, want invalid duration", err)
	}
}

func TestDecode_DoesNotValidate(t *testing.T) {
	cfg, err := Decode([]byte(`title: Blockville`))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if cfg.ServerAddress != "" {
		t.Errorf("ServerAddress = %q, want empty", cfg.ServerAddress)
	}
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() expected error for missing address")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Port != 8080 || cfg.PollInterval.Duration() != time.Minute {
		t.Errorf("Default() = port %d interval %v", cfg.Port, cfg.PollInterval.Duration())
	}
	cfg.ServerAddress = "play.example.net"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "craftboard.yaml")
	if err := os.WriteFile(path, []byte("server_address: play.example.net\nport: 9191\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != 9191 {
		t.Errorf("Port = %d, want 9191", cfg.Port)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("Load() expected error for missing file, got nil")
	}
	if !strings.Contains(err.Error(), "failed to read config file") {
		t.Errorf("error = %v", err)
	}
}

func TestLogConfig_Options(t *testing.T) {
	lc := LogConfig{Level: "warn", Format: "text", File: "x.log", MaxSizeMB: 1, MaxBackups: 2, MaxAgeDays: 3}
	opts := lc.Options()
	if opts.Level != "warn" || opts.Format != "text" || opts.File != "x.log" {
		t.Errorf("Options() = %+v", opts)
	}
	if opts.MaxSizeMB != 1 || opts.MaxBackups != 2 || opts.MaxAgeDays != 3 {
		t.Errorf("Options() rotation = %+v", opts)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TEST_VAR", "value")
	t.Setenv("EMPTY_VAR", "") // set but empty

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"no vars", "plain text", "plain text", false},
		{"simple var", "${TEST_VAR}", "value", false},
		{"var in text", "prefix ${TEST_VAR} suffix", "prefix value suffix", false},
		{"multiple vars", "${TEST_VAR}-${TEST_VAR}", "value-value", false},
		{"with default (var set)", "${TEST_VAR:-default}", "value", false},
		{"with default (var unset)", "${UNSET:-default}", "default", false},
		{"missing required", "${MISSING}", "", true},
		{"empty default (var unset)", "${UNSET:-}", "", false},
		{"set but empty var", "${EMPTY_VAR}", "", false},
		{"set but empty with default", "${EMPTY_VAR:-fallback}", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := expandEnvVars(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expandEnvVars() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("expandEnvVars() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("expandEnvVars() = %q, want %q", got, tt.want)
			}
		})
	}
}
