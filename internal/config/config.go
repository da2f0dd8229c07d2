// Package config loads jsongraph's optional TOML configuration file.
//
// The file lives at $XDG_CONFIG_HOME/jsongraph/config.toml (falling back to
// ~/.config/jsongraph/config.toml) unless --config names another path.
// Every key is optional; command-line flags override file values.
//
//	depth = 3
//
//	[cache]
//	backend = "redis"   # file | redis | none
//	ttl = "24h"
//	namespace = "staging:"
//
//	[cache.redis]
//	addr = "localhost:6379"
//
//	[server]
//	addr = ":8080"
//
//	[render]
//	format = "svg"
//	edge_labels = true
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	jgerrors "github.com/matzehuels/jsongraph/pkg/errors"
	"github.com/matzehuels/jsongraph/pkg/pipeline"
)

const appName = "jsongraph"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

var backends = []string{BackendFile, BackendRedis, BackendNone}

// Config is the decoded configuration file.
type Config struct {
	Depth  int          `toml:"depth"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
	Render RenderConfig `toml:"render"`
}

// CacheConfig selects and tunes the cache backend.
type CacheConfig struct {
	Backend   string      `toml:"backend"`
	TTL       Duration    `toml:"ttl"`
	Dir       string      `toml:"dir"` // file backend; empty means the XDG cache dir
	Namespace string      `toml:"namespace"`
	Redis     RedisConfig `toml:"redis"`
}

// RedisConfig holds the connection settings of the redis backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Addr         string   `toml:"addr"`
	MaxBodyBytes int64    `toml:"max_body_bytes"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
}

// RenderConfig holds render defaults.
type RenderConfig struct {
	Format     string  `toml:"format"`
	EdgeLabels bool    `toml:"edge_labels"`
	Scale      float64 `toml:"scale"`
}

// Duration is a time.Duration written as a string such as "90s" or "24h".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Depth: int(pipeline.DefaultDepth),
		Cache: CacheConfig{
			Backend: BackendFile,
			TTL:     Duration{7 * 24 * time.Hour},
			Redis:   RedisConfig{Addr: "localhost:6379"},
		},
		Server: ServerConfig{
			Addr:         ":8080",
			MaxBodyBytes: 8 << 20,
			ReadTimeout:  Duration{30 * time.Second},
			WriteTimeout: Duration{60 * time.Second},
		},
		Render: RenderConfig{
			Format: pipeline.FormatSVG,
			Scale:  1,
		},
	}
}

// Load reads path over the defaults. An empty path means [DefaultPath];
// a missing default file is not an error, a missing explicit one is.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return Default(), nil
	}
	if err != nil {
		return Config{}, jgerrors.Wrap(jgerrors.ErrCodeIO, err, "read config %s", path)
	}
	return Parse(data)
}

// Parse decodes TOML over the defaults and validates the result.
// Unknown keys are rejected so typos do not pass silently.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, jgerrors.Wrap(jgerrors.ErrCodeParse, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, jgerrors.New(jgerrors.ErrCodeInvalidInput, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	if err := jgerrors.ValidateDepth(c.Depth); err != nil {
		return err
	}
	if !slices.Contains(backends, c.Cache.Backend) {
		return jgerrors.New(jgerrors.ErrCodeInvalidBackend, "unknown cache backend %q (want one of %s)",
			c.Cache.Backend, strings.Join(backends, ", "))
	}
	if c.Cache.Backend == BackendRedis && c.Cache.Redis.Addr == "" {
		return jgerrors.New(jgerrors.ErrCodeInvalidBackend, "cache.redis.addr is required for the redis backend")
	}
	if c.Cache.TTL.Duration < 0 {
		return jgerrors.New(jgerrors.ErrCodeInvalidInput, "cache.ttl must not be negative")
	}
	if err := pipeline.ValidateFormat(c.Render.Format); err != nil {
		return err
	}
	if c.Render.Scale <= 0 {
		return jgerrors.New(jgerrors.ErrCodeInvalidInput, "render.scale must be positive, got %g", c.Render.Scale)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return jgerrors.New(jgerrors.ErrCodeInvalidInput, "server.max_body_bytes must be positive")
	}
	return nil
}

// DefaultPath returns the XDG location of the config file.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// CacheDir returns the file backend's directory: cache.dir when set, else
// $XDG_CACHE_HOME/jsongraph or ~/.cache/jsongraph.
func (c Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(home, ".cache", appName), nil
}
