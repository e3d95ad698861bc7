// Package config loads comment board server configuration from a .env file,
// an optional YAML file and CB_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/evcraddock/comment-board/internal/db"
)

// Config holds server configuration. Later sources override earlier ones:
// defaults, then the YAML file, then environment variables.
type Config struct {
	Addr         string `yaml:"addr"`
	DBDriver     string `yaml:"db_driver"`
	DBDSN        string `yaml:"db_dsn"`
	APIPrefix    string `yaml:"api_prefix"`
	TimeZone     string `yaml:"time_zone"`
	DevMode      bool   `yaml:"dev_mode"`
	MaxBodyBytes int64  `yaml:"max_body_bytes"`

	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db"`
	RedisTLS      bool          `yaml:"redis_tls"`
	CacheTTL      time.Duration `yaml:"cache_ttl"`
	CachePrefix   string        `yaml:"cache_prefix"`

	AMQPURL   string `yaml:"amqp_url"`
	AMQPQueue string `yaml:"amqp_queue"`
}

// Default returns the built-in configuration. DBDSN is left empty and
// resolved to db.DefaultPath by Load when the driver is sqlite3.
func Default() Config {
	return Config{
		Addr:         ":8080",
		DBDriver:     db.DriverSQLite,
		APIPrefix:    "/api",
		TimeZone:     "UTC",
		MaxBodyBytes: 64 << 10,
		CacheTTL:     30 * time.Second,
		CachePrefix:  "cb",
		AMQPQueue:    "comment.created",
	}
}

// Load builds a Config. A .env file in the working directory is loaded
// first if present; it never overrides variables already set. path names
// an optional YAML file; when empty, CB_CONFIG is consulted.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}

	cfg := Default()

	if path == "" {
		path = os.Getenv("CB_CONFIG")
	}
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.mergeEnv(); err != nil {
		return Config{}, err
	}

	if cfg.DBDSN == "" && cfg.DBDriver == db.DriverSQLite {
		p, err := db.DefaultPath()
		if err != nil {
			return Config{}, err
		}
		cfg.DBDSN = p
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// mergeFile overlays the YAML file at path onto cfg.
func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

// mergeEnv overlays CB_* environment variables onto cfg.
func (c *Config) mergeEnv() error {
	strs := []struct {
		key string
		dst *string
	}{
		{"CB_ADDR", &c.Addr},
		{"CB_DB_DRIVER", &c.DBDriver},
		{"CB_DB_DSN", &c.DBDSN},
		{"CB_API_PREFIX", &c.APIPrefix},
		{"CB_TIME_ZONE", &c.TimeZone},
		{"CB_REDIS_ADDR", &c.RedisAddr},
		{"CB_REDIS_PASSWORD", &c.RedisPassword},
		{"CB_CACHE_PREFIX", &c.CachePrefix},
		{"CB_AMQP_URL", &c.AMQPURL},
		{"CB_AMQP_QUEUE", &c.AMQPQueue},
	}
	for _, s := range strs {
		if v := os.Getenv(s.key); v != "" {
			*s.dst = v
		}
	}

	bools := []struct {
		key string
		dst *bool
	}{
		{"CB_DEV_MODE", &c.DevMode},
		{"CB_REDIS_TLS", &c.RedisTLS},
	}
	for _, b := range bools {
		v := os.Getenv(b.key)
		if v == "" {
			continue
		}
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", b.key, v, err)
		}
		*b.dst = parsed
	}
	if v := os.Getenv("CB_REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid CB_REDIS_DB %q: %w", v, err)
		}
		c.RedisDB = n
	}
	if v := os.Getenv("CB_MAX_BODY_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid CB_MAX_BODY_BYTES %q: %w", v, err)
		}
		c.MaxBodyBytes = n
	}
	if v := os.Getenv("CB_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid CB_CACHE_TTL %q: %w", v, err)
		}
		c.CacheTTL = d
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch c.DBDriver {
	case db.DriverSQLite, db.DriverMySQL:
	default:
		return fmt.Errorf("unsupported db_driver %q (sqlite3|mysql)", c.DBDriver)
	}
	if c.DBDSN == "" {
		return fmt.Errorf("db_dsn is required for %s", c.DBDriver)
	}
	if c.Addr == "" {
		return fmt.Errorf("addr is required")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("max_body_bytes must be positive, got %d", c.MaxBodyBytes)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("cache_ttl must be positive, got %s", c.CacheTTL)
	}
	return nil
}

// Location resolves TimeZone.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid time_zone %q: %w", c.TimeZone, err)
	}
	return loc, nil
}
