// Package config loads gridmesh configuration from a TOML file.
//
// The file is optional: a missing file yields the built-in defaults, and CLI
// flags override file values. The default location is
// ~/.config/gridmesh/config.toml.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/gridmesh/gridmesh/pkg/errors"
	"github.com/gridmesh/gridmesh/pkg/layout"
	"github.com/gridmesh/gridmesh/pkg/mesh"
)

// Config is the full application configuration.
type Config struct {
	Layout LayoutConfig `toml:"layout"`
	Cache  CacheConfig  `toml:"cache"`
	Store  StoreConfig  `toml:"store"`
	Server ServerConfig `toml:"server"`
}

// LayoutConfig holds the engine constants.
type LayoutConfig struct {
	// Spacing is the world-space distance between adjacent grid cells.
	Spacing float64 `toml:"spacing"`
	// Buffer is the inter-group spacing buffer in grid cells.
	Buffer int `toml:"buffer"`
	// Padding is the boundary half-extent around each node, in world units.
	Padding float64 `toml:"padding"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	// Dir is the file cache directory. Empty means
	// ~/.cache/gridmesh.
	Dir string `toml:"dir"`
	// RedisAddr switches the service to the redis backend when non-empty.
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// StoreConfig configures layout persistence for the service.
type StoreConfig struct {
	// MongoURI enables the mongo-backed store when non-empty; otherwise the
	// service keeps layouts in memory.
	MongoURI string `toml:"mongo_uri"`
	Database string `toml:"database"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	// Addr is the listen address, e.g. ":8423".
	Addr string `toml:"addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Layout: LayoutConfig{
			Spacing: layout.DefaultSpacing,
			Buffer:  layout.DefaultBuffer,
			Padding: mesh.DefaultPadding,
		},
		Store:  StoreConfig{Database: "gridmesh"},
		Server: ServerConfig{Addr: ":8423"},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "gridmesh", "config.toml")
}

// CacheDir returns the configured file cache directory, falling back to
// ~/.cache/gridmesh.
func (c *Config) CacheDir() string {
	if c.Cache.Dir != "" {
		return c.Cache.Dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gridmesh-cache"
	}
	return filepath.Join(home, ".cache", "gridmesh")
}

// Load reads a config file, layering it over the defaults.
// A missing file is not an error; a malformed file is.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Layout.Spacing < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "layout.spacing must be non-negative")
	}
	if c.Layout.Padding < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "layout.padding must be non-negative")
	}
	return nil
}
