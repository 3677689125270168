package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/strpbridge/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := load(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 10000, cfg.BasePort)
	assert.Equal(t, 10578, cfg.ConnectPort)
	assert.Equal(t, []string{"SkyrimSE.exe", "SkyrimTogether.exe"}, cfg.ProcessNames)
}

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bridge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
base_port: 11000
process_names: [host.exe]
require_token: true
tick_interval: 50ms
redis:
  addr: 127.0.0.1:6379
  ttl: 1m
`), 0o644))

	cfg, err := load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 11000, cfg.BasePort)
	assert.Equal(t, []string{"host.exe"}, cfg.ProcessNames)
	assert.True(t, cfg.RequireToken)
	assert.Equal(t, 50*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, "127.0.0.1:6379", cfg.Redis.Addr)
	assert.Equal(t, time.Minute, cfg.Redis.TTL)
	assert.Equal(t, "strpbridge:idsmap", cfg.Redis.Key, "unset keys keep defaults")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bridge.yaml")
	require.NoError(t, os.WriteFile(path, []byte("base_port: 11000\n"), 0o644))

	cfg, err := load(path, []string{
		"STRPBRIDGE_BASE_PORT=12000",
		"STRPBRIDGE_PROCESS_NAMES=a.exe,b.exe",
		"STRPBRIDGE_REQUIRE_TOKEN=true",
		"STRPBRIDGE_REDIS__ADDR=localhost:6380",
		"UNRELATED=1",
	})
	require.NoError(t, err)
	assert.Equal(t, 12000, cfg.BasePort)
	assert.Equal(t, []string{"a.exe", "b.exe"}, cfg.ProcessNames)
	assert.True(t, cfg.RequireToken)
	assert.Equal(t, "localhost:6380", cfg.Redis.Addr)
}

func TestLoad_UnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bridge.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bogus: 1\n"), 0o644))

	_, err := load(path, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bridge.yaml")
	require.NoError(t, os.WriteFile(path, []byte("base_port: [\n"), 0o644))

	_, err := load(path, nil)
	assert.Error(t, err)
}

func TestValidate_RejectsNonLoopbackHost(t *testing.T) {
	cfg := Default()
	cfg.Host = "0.0.0.0"

	err := cfg.Validate()
	assert.ErrorIs(t, err, domain.ErrNotLoopback)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"base port zero", func(c *Config) { c.BasePort = 0 }},
		{"port too high", func(c *Config) { c.Port = 70000 }},
		{"connect port zero", func(c *Config) { c.ConnectPort = 0 }},
		{"negative capacity", func(c *Config) { c.QueueCapacity = -1 }},
		{"zero tick interval", func(c *Config) { c.TickInterval = 0 }},
		{"unknown log level", func(c *Config) { c.LogLevel = "loud" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), domain.ErrInvalidConfig)
		})
	}
}

func TestLoad_UnknownLogLevelFromEnv(t *testing.T) {
	_, err := load("", []string{"STRPBRIDGE_LOG_LEVEL=loud"})
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)

	cfg, err := load("", []string{"STRPBRIDGE_LOG_LEVEL=debug"})
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestIsLoopback(t *testing.T) {
	assert.True(t, IsLoopback("127.0.0.1"))
	assert.True(t, IsLoopback("127.3.2.1"))
	assert.True(t, IsLoopback("::1"))
	assert.True(t, IsLoopback("LOCALHOST"))
	assert.False(t, IsLoopback("0.0.0.0"))
	assert.False(t, IsLoopback("192.168.1.10"))
	assert.False(t, IsLoopback("example.org"))
	assert.False(t, IsLoopback(""))
}

func TestLoad_ExampleFile(t *testing.T) {
	cfg, err := load("example.yaml", nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}
