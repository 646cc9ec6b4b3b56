// Package config loads server configuration from defaults, an optional YAML file
// and STREAMISH_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvPrefix prefixes every environment override, e.g. STREAMISH_DATABASE_URL.
const EnvPrefix = "STREAMISH_"

// PathEnvVar overrides the config file location when no path is passed to Load.
const PathEnvVar = EnvPrefix + "CONFIG"

// DefaultPaths are searched in order when neither a path nor PathEnvVar is set.
var DefaultPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/streamish/config.yaml",
}

// Config is the full server configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Log      LogConfig      `koanf:"log"`
	HTTP     HTTPConfig     `koanf:"http"`
}

// ServerConfig holds listener addresses and timeouts.
type ServerConfig struct {
	Addr            string        `koanf:"addr"`
	GRPCAddr        string        `koanf:"grpc_addr"` // empty disables the gRPC health listener
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	RequestTimeout  time.Duration `koanf:"request_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Dev             bool          `koanf:"dev"` // enables gRPC reflection
}

// DatabaseConfig selects and prepares the storage backend.
type DatabaseConfig struct {
	// URL scheme picks the backend: memory://, sqlite://path, postgres://...
	URL      string `koanf:"url"`
	Migrate  bool   `koanf:"migrate"`
	SeedFile string `koanf:"seed_file"`
	IDStart  int64  `koanf:"id_start"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level       string `koanf:"level"`
	Development bool   `koanf:"development"`
}

// HTTPConfig configures cross-origin access and request rate limiting.
type HTTPConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitRequests int           `koanf:"rate_limit_requests"` // 0 disables limiting
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			RequestTimeout:  15 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Database: DatabaseConfig{
			URL:     "memory://",
			Migrate: true,
			IDStart: 1,
		},
		Log: LogConfig{Level: "info"},
		HTTP: HTTPConfig{
			CORSOrigins:       []string{"http://localhost:3000"},
			RateLimitRequests: 100,
			RateLimitWindow:   time.Minute,
		},
	}
}

// sliceKeys are split on commas when they arrive as plain strings from the environment.
var sliceKeys = []string{"http.cors_origins"}

// Load builds the configuration. path may be empty, in which case PathEnvVar
// and DefaultPaths are consulted; a missing file is not an error.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path == "" {
		path = findFile()
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	if err := splitSlices(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// envKey maps STREAMISH_DATABASE_SEED_FILE to database.seed_file.
func envKey(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	return strings.Replace(key, "_", ".", 1)
}

func findFile() string {
	if p := os.Getenv(PathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func splitSlices(k *koanf.Koanf) error {
	for _, key := range sliceKeys {
		s, ok := k.Get(key).(string)
		if !ok {
			continue
		}
		parts := []string{}
		for _, p := range strings.Split(s, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if err := k.Set(key, parts); err != nil {
			return fmt.Errorf("set %s: %w", key, err)
		}
	}
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Server.Addr == "":
		return errors.New("server.addr is required")
	case c.Database.URL == "":
		return errors.New("database.url is required")
	case c.Database.IDStart < 1:
		return fmt.Errorf("database.id_start must be >= 1, got %d", c.Database.IDStart)
	case c.Server.ReadTimeout <= 0, c.Server.WriteTimeout <= 0, c.Server.IdleTimeout <= 0,
		c.Server.RequestTimeout <= 0, c.Server.ShutdownTimeout <= 0:
		return errors.New("server timeouts must be positive")
	case c.HTTP.RateLimitRequests < 0:
		return errors.New("http.rate_limit_requests must not be negative")
	case c.HTTP.RateLimitRequests > 0 && c.HTTP.RateLimitWindow <= 0:
		return errors.New("http.rate_limit_window must be positive when rate limiting is on")
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// NewLogger builds a zap logger: production JSON output, or the development
// console encoder when Development is set.
func (c LogConfig) NewLogger() (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(c.Level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	if c.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = lvl
	return zc.Build()
}
