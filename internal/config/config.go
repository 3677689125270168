// Package config loads the bridge configuration from an optional YAML file
// and STRPBRIDGE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/aretw0/strpbridge/internal/logging"
	"github.com/aretw0/strpbridge/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "STRPBRIDGE_"

// Config is the full bridge configuration.
type Config struct {
	BasePort     int      `yaml:"base_port" mapstructure:"base_port"`
	ProcessNames []string `yaml:"process_names" mapstructure:"process_names"`
	ConnectPort  int      `yaml:"connect_port" mapstructure:"connect_port"`
	Host         string   `yaml:"host" mapstructure:"host"`
	// Port skips allocation when set.
	Port int `yaml:"port" mapstructure:"port"`

	// RequireToken drops /connect requests that carry no token.
	RequireToken  bool `yaml:"require_token" mapstructure:"require_token"`
	QueueCapacity int  `yaml:"queue_capacity" mapstructure:"queue_capacity"`

	TickInterval    time.Duration `yaml:"tick_interval" mapstructure:"tick_interval"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
	LogLevel        string        `yaml:"log_level" mapstructure:"log_level"`
	Metrics         bool          `yaml:"metrics" mapstructure:"metrics"`

	Redis RedisConfig `yaml:"redis" mapstructure:"redis"`
}

// RedisConfig configures the optional snapshot mirror. Empty Addr disables it.
type RedisConfig struct {
	Addr     string        `yaml:"addr" mapstructure:"addr"`
	Password string        `yaml:"password" mapstructure:"password"`
	DB       int           `yaml:"db" mapstructure:"db"`
	Key      string        `yaml:"key" mapstructure:"key"`
	Channel  string        `yaml:"channel" mapstructure:"channel"`
	TTL      time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		BasePort:        domain.DefaultBasePort,
		ProcessNames:    slices.Clone(domain.DefaultProcessNames),
		ConnectPort:     domain.DefaultConnectPort,
		Host:            "127.0.0.1",
		TickInterval:    100 * time.Millisecond,
		ShutdownTimeout: 5 * time.Second,
		LogLevel:        "info",
		Metrics:         true,
		Redis: RedisConfig{
			Key: "strpbridge:idsmap",
		},
	}
}

// Load reads path (if it exists), applies environment overrides and
// validates the result. An empty path skips the file.
func Load(path string) (Config, error) {
	return load(path, os.Environ())
}

func load(path string, environ []string) (Config, error) {
	raw := map[string]any{}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// Missing file means defaults.
		case err != nil:
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &raw); err != nil {
				return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
			}
		}
	}

	applyEnv(raw, environ)

	cfg := Default()
	if err := decode(raw, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overlays STRPBRIDGE_<KEY> variables; nested keys use a double
// underscore (STRPBRIDGE_REDIS__ADDR).
func applyEnv(raw map[string]any, environ []string) {
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, EnvPrefix) {
			continue
		}
		path := strings.Split(strings.ToLower(strings.TrimPrefix(name, EnvPrefix)), "__")

		node := raw
		for _, part := range path[:len(path)-1] {
			child, ok := node[part].(map[string]any)
			if !ok {
				child = map[string]any{}
				node[part] = child
			}
			node = child
		}
		node[path[len(path)-1]] = value
	}
}

func decode(raw map[string]any, out *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		ZeroFields:       true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return fmt.Errorf("failed to build config decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
	}
	return nil
}

// Validate checks ranges and the loopback constraint.
func (c Config) Validate() error {
	var errs []error
	if c.BasePort < 1 || c.BasePort > 65535 {
		errs = append(errs, fmt.Errorf("base_port %d out of range", c.BasePort))
	}
	if c.Port < 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.ConnectPort < 1 || c.ConnectPort > 65535 {
		errs = append(errs, fmt.Errorf("connect_port %d out of range", c.ConnectPort))
	}
	if !IsLoopback(c.Host) {
		errs = append(errs, fmt.Errorf("host %q: %w", c.Host, domain.ErrNotLoopback))
	}
	if c.QueueCapacity < 0 {
		errs = append(errs, fmt.Errorf("queue_capacity must not be negative"))
	}
	if c.TickInterval <= 0 {
		errs = append(errs, fmt.Errorf("tick_interval must be positive"))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", domain.ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// IsLoopback reports whether host only resolves to the loopback interface
// without a DNS lookup: "localhost" or a loopback IP literal.
func IsLoopback(host string) bool {
	if strings.EqualFold(host, "localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
