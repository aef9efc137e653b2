// Package config loads shapereach settings from a TOML file.
//
// The file is located in this order:
//
//  1. the path passed to [Load] (the --config flag)
//  2. $SHAPEREACH_CONFIG
//  3. $XDG_CONFIG_HOME/shapereach/config.toml (or the OS equivalent)
//
// If none exists the defaults from [Default] are used. Unknown keys are an
// error so that typos do not silently fall back to defaults.
//
// Example file:
//
//	width = 4
//	max_height = 5
//	table = "creatable.bin"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl = "24h"
//
//	[store]
//	backend = "badger"
//	badger_path = "/var/lib/shapereach/badger"
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/shapereach/pkg/catalog"
	errs "github.com/matzehuels/shapereach/pkg/errors"
)

// EnvPath names the environment variable holding a config file path.
const EnvPath = "SHAPEREACH_CONFIG"

// Cache backends.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// Store backends.
const (
	StoreTable  = "table"
	StoreBadger = "badger"
	StoreMongo  = "mongo"
)

// Config is the effective configuration.
type Config struct {
	Width     int    `toml:"width"`
	MaxHeight int    `toml:"max_height"`
	Table     string `toml:"table"`

	Cache     CacheConfig     `toml:"cache"`
	Store     StoreConfig     `toml:"store"`
	Enumerate EnumerateConfig `toml:"enumerate"`
	Server    ServerConfig    `toml:"server"`
}

type CacheConfig struct {
	Backend       string        `toml:"backend"`
	Dir           string        `toml:"dir"`
	RedisAddr     string        `toml:"redis_addr"`
	RedisPassword string        `toml:"redis_password"`
	RedisDB       int           `toml:"redis_db"`
	TTL           time.Duration `toml:"ttl"`
}

type StoreConfig struct {
	Backend         string `toml:"backend"`
	BadgerPath      string `toml:"badger_path"`
	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

type EnumerateConfig struct {
	// Workers of 0 means runtime.NumCPU().
	Workers   int `toml:"workers"`
	MaxRounds int `toml:"max_rounds"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Default returns the built-in configuration: width 4, height 5, a file
// cache and the binary table as the derivation store.
func Default() *Config {
	return &Config{
		Width:     4,
		MaxHeight: 5,
		Table:     "creatable.bin",
		Cache: CacheConfig{
			Backend: CacheFile,
			TTL:     7 * 24 * time.Hour,
		},
		Store: StoreConfig{
			Backend:         StoreTable,
			MongoDatabase:   "shapereach",
			MongoCollection: "derivations",
		},
		Enumerate: EnumerateConfig{
			MaxRounds: 64,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// Path resolves which config file to read. It returns "" when no file
// exists and explicit is empty. An explicit path that does not exist is an
// error.
func Path(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", errs.Wrap(errs.ErrCodeFileNotFound, err, "config file")
		}
		return explicit, nil
	}
	if p := os.Getenv(EnvPath); p != "" {
		if _, err := os.Stat(p); err != nil {
			return "", errs.Wrap(errs.ErrCodeFileNotFound, err, "$%s", EnvPath)
		}
		return p, nil
	}
	if p := userPath(); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", nil
}

// Load resolves the config file and decodes it over the defaults. It
// returns the path that was read, or "" if only defaults apply.
func Load(explicit string) (*Config, string, error) {
	path, err := Path(explicit)
	if err != nil {
		return nil, "", err
	}
	cfg := Default()
	if path == "" {
		return cfg, "", nil
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, path, errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, path, errs.New(errs.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// Validate checks that packed values fit in 64 bits (index bits plus eight
// method bits) and that backend names are known.
func (c *Config) Validate() error {
	if c.Width < 2 || c.Width%2 != 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "width must be even and at least 2, got %d", c.Width)
	}
	if c.MaxHeight < 1 {
		return errs.New(errs.ErrCodeInvalidConfig, "max_height must be positive, got %d", c.MaxHeight)
	}
	if err := c.Codec().Validate(); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidConfig, err, "width %d x max_height %d", c.Width, c.MaxHeight)
	}
	switch c.Cache.Backend {
	case CacheNone, CacheFile, "":
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return errs.New(errs.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
		}
	default:
		return errs.New(errs.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	switch c.Store.Backend {
	case StoreTable, "":
	case StoreBadger:
		if c.Store.BadgerPath == "" {
			return errs.New(errs.ErrCodeInvalidConfig, "store.badger_path is required for the badger backend")
		}
	case StoreMongo:
		if c.Store.MongoURI == "" {
			return errs.New(errs.ErrCodeInvalidConfig, "store.mongo_uri is required for the mongo backend")
		}
	default:
		return errs.New(errs.ErrCodeInvalidConfig, "unknown store backend %q", c.Store.Backend)
	}
	if c.Enumerate.Workers < 0 || c.Enumerate.MaxRounds < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "enumerate.workers and enumerate.max_rounds must not be negative")
	}
	return nil
}

// Codec returns the value codec for the configured dimensions.
func (c *Config) Codec() catalog.Codec {
	return catalog.Codec{Width: c.Width, MaxHeight: c.MaxHeight}
}

// Encode writes c as TOML.
func (c *Config) Encode() (string, error) {
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(c); err != nil {
		return "", err
	}
	return b.String(), nil
}

func userPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "shapereach", "config.toml")
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "shapereach", "config.toml")
}
