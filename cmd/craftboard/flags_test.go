package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpalmerr/craftboard/config"
)

func newTestFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	addOverrideFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestResolveConfig_FlagsOnly(t *testing.T) {
	fs := newTestFlags(t, "--address", "play.example.net", "--port", "9090", "--poll-interval", "2m")
	v, err := newOverrides(fs)
	require.NoError(t, err)

	cfg, err := resolveConfig("", v)
	require.NoError(t, err)

	assert.Equal(t, "play.example.net", cfg.ServerAddress)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 2*time.Minute, cfg.PollInterval.Duration())
	assert.Equal(t, "Minecraft Server", cfg.Title)
}

func TestResolveConfig_FlagOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server_address: file.example.net\ntitle: From File\nport: 8181\n"), 0o644))

	fs := newTestFlags(t, "--title", "From Flag")
	v, err := newOverrides(fs)
	require.NoError(t, err)

	cfg, err := resolveConfig(path, v)
	require.NoError(t, err)

	assert.Equal(t, "file.example.net", cfg.ServerAddress)
	assert.Equal(t, "From Flag", cfg.Title)
	assert.Equal(t, 8181, cfg.Port)
}

func TestResolveConfig_EnvOverridesFile(t *testing.T) {
	t.Setenv("CRAFTBOARD_LOG_FORMAT", "text")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server_address: file.example.net\n"), 0o644))

	v, err := newOverrides(newTestFlags(t))
	require.NoError(t, err)

	cfg, err := resolveConfig(path, v)
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestResolveConfig_MissingAddress(t *testing.T) {
	v, err := newOverrides(newTestFlags(t))
	require.NoError(t, err)

	_, err = resolveConfig("", v)
	assert.ErrorContains(t, err, "server_address is required")
}

func TestRestartRequired(t *testing.T) {
	base := config.Default()
	base.ServerAddress = "play.example.net"

	same := *base
	same.Title = "New Title"
	same.Features = nil
	assert.False(t, restartRequired(base, &same), "presentation changes apply live")

	moved := *base
	moved.Port = 9999
	assert.True(t, restartRequired(base, &moved))

	renamed := *base
	renamed.ServerAddress = "other.example.net"
	assert.True(t, restartRequired(base, &renamed))
}
