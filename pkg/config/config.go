// Package config loads runtime settings for the CLI and the HTTP server.
//
// Settings come from three layers, later ones winning:
//
//  1. Built-in defaults ([Default])
//  2. A TOML file, given by --config or LBLP_CONFIG
//  3. Environment variables, optionally seeded from a .env file
//
// Example file:
//
//	[archive]
//	name = "archive.zip"
//
//	[host]
//	backend = "s3"
//
//	[host.s3]
//	endpoint = "localhost:9000"
//	bucket = "courses"
//	prefix = "builds"
//
//	[server]
//	addr = ":8080"
package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/v-nys/lblp-build-zip-plugin/pkg/host"
	"github.com/v-nys/lblp-build-zip-plugin/pkg/pipeline"
)

// Host backends.
const (
	BackendFS     = "fs"
	BackendMemory = "memory"
	BackendS3     = "s3"
	BackendRedis  = "redis"
)

// EnvConfigPath names the environment variable holding the config file path.
const EnvConfigPath = "LBLP_CONFIG"

// Config is the complete runtime configuration.
type Config struct {
	Archive ArchiveConfig `toml:"archive"`
	Host    HostConfig    `toml:"host"`
	Server  ServerConfig  `toml:"server"`
	Log     LogConfig     `toml:"log"`
}

// ArchiveConfig controls the produced archive.
type ArchiveConfig struct {
	Name     string `toml:"name"`
	MemoSize int    `toml:"memo_size"`
}

// HostConfig selects and configures the host backend.
type HostConfig struct {
	Backend string      `toml:"backend"`
	FS      FSConfig    `toml:"fs"`
	S3      S3Config    `toml:"s3"`
	Redis   RedisConfig `toml:"redis"`
}

// FSConfig configures the filesystem host.
type FSConfig struct {
	WriteRoot string `toml:"write_root"`
	ReadBase  string `toml:"read_base"`
}

// S3Config configures the S3 host.
type S3Config struct {
	Endpoint  string `toml:"endpoint"`
	Region    string `toml:"region"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
	Bucket    string `toml:"bucket"`
	Prefix    string `toml:"prefix"`
	UseSSL    bool   `toml:"use_ssl"`
}

// RedisConfig configures the Redis host.
type RedisConfig struct {
	Addr     string   `toml:"addr"`
	Password string   `toml:"password"`
	DB       int      `toml:"db"`
	Prefix   string   `toml:"prefix"`
	TTL      Duration `toml:"ttl"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr            string   `toml:"addr"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `toml:"level"`
}

// Duration is a time.Duration written as a string such as "30s" in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration: a filesystem host writing to
// the working directory and a server on :8080.
func Default() *Config {
	return &Config{
		Archive: ArchiveConfig{Name: pipeline.DefaultArchiveName, MemoSize: pipeline.DefaultMemoSize},
		Host: HostConfig{
			Backend: BackendFS,
			FS:      FSConfig{WriteRoot: "."},
			Redis:   RedisConfig{Addr: "localhost:6379", Prefix: "lblp:"},
		},
		Server: ServerConfig{Addr: ":8080", ShutdownTimeout: Duration{10 * time.Second}},
		Log:    LogConfig{Level: "info"},
	}
}

// Load builds the configuration from defaults, the TOML file at path (if
// path is non-empty) and the environment. A .env file in the working
// directory is loaded first when present; variables already set win.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes TOML data on top of the defaults without consulting the
// environment.
func Parse(data string) (*Config, error) {
	cfg := Default()
	if _, err := toml.Decode(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Host.Backend, "LBLP_HOST_BACKEND")
	setString(&c.Host.FS.WriteRoot, "LBLP_WRITE_ROOT")
	setString(&c.Host.FS.ReadBase, "LBLP_READ_BASE")
	setString(&c.Archive.Name, "LBLP_ARCHIVE_NAME")

	setString(&c.Host.S3.Endpoint, "LBLP_S3_ENDPOINT")
	setString(&c.Host.S3.Region, "LBLP_S3_REGION")
	setString(&c.Host.S3.AccessKey, "LBLP_S3_ACCESS_KEY")
	setString(&c.Host.S3.SecretKey, "LBLP_S3_SECRET_KEY")
	setString(&c.Host.S3.Bucket, "LBLP_S3_BUCKET")
	setString(&c.Host.S3.Prefix, "LBLP_S3_PREFIX")
	if err := setBool(&c.Host.S3.UseSSL, "LBLP_S3_USE_SSL"); err != nil {
		return err
	}

	setString(&c.Host.Redis.Addr, "LBLP_REDIS_ADDR")
	setString(&c.Host.Redis.Password, "LBLP_REDIS_PASSWORD")
	setString(&c.Host.Redis.Prefix, "LBLP_REDIS_PREFIX")
	if v := strings.TrimSpace(os.Getenv("LBLP_REDIS_DB")); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("LBLP_REDIS_DB: %w", err)
		}
		c.Host.Redis.DB = db
	}

	setString(&c.Server.Addr, "LBLP_SERVER_ADDR")
	setString(&c.Log.Level, "LBLP_LOG_LEVEL")
	return nil
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) error {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = v
	return nil
}

// Validate checks that the selected backend is known and configured.
func (c *Config) Validate() error {
	if c.Archive.Name == "" {
		return fmt.Errorf("archive.name is required")
	}
	switch c.Host.Backend {
	case BackendFS:
		if c.Host.FS.WriteRoot == "" {
			return fmt.Errorf("host.fs.write_root is required")
		}
	case BackendMemory:
	case BackendS3:
		if c.Host.S3.Endpoint == "" || c.Host.S3.Bucket == "" {
			return fmt.Errorf("host.s3.endpoint and host.s3.bucket are required")
		}
	case BackendRedis:
		if c.Host.Redis.Addr == "" {
			return fmt.Errorf("host.redis.addr is required")
		}
	default:
		return fmt.Errorf("invalid host backend: %q (must be one of: fs, memory, s3, redis)", c.Host.Backend)
	}
	return nil
}

// OpenHost constructs the configured host backend. For Redis, the
// connection is checked with a ping.
func (c *Config) OpenHost(ctx context.Context) (host.Host, error) {
	switch c.Host.Backend {
	case BackendFS:
		return &host.FS{Root: c.Host.FS.WriteRoot, Base: c.Host.FS.ReadBase}, nil
	case BackendMemory:
		return host.NewMemory(nil), nil
	case BackendS3:
		s := c.Host.S3
		h, err := host.NewS3(host.S3Config{
			Endpoint:  s.Endpoint,
			Region:    s.Region,
			AccessKey: s.AccessKey,
			SecretKey: s.SecretKey,
			Bucket:    s.Bucket,
			Prefix:    s.Prefix,
			UseSSL:    s.UseSSL,
		})
		if err != nil {
			return nil, err
		}
		return h, nil
	case BackendRedis:
		rc := c.Host.Redis
		r, err := host.NewRedis(host.RedisConfig{
			Addr:     rc.Addr,
			Password: rc.Password,
			DB:       rc.DB,
			Prefix:   rc.Prefix,
			TTL:      rc.TTL.Duration,
		})
		if err != nil {
			return nil, err
		}
		if err := r.Ping(ctx); err != nil {
			_ = r.Close()
			return nil, fmt.Errorf("connect redis %s: %w", rc.Addr, err)
		}
		return r, nil
	default:
		return nil, fmt.Errorf("invalid host backend: %q", c.Host.Backend)
	}
}

// Runner returns a pipeline runner wired to h and logger with the archive
// settings of c.
func (c *Config) Runner(h host.Host, logger *log.Logger) *pipeline.Runner {
	r := pipeline.NewRunner(h, logger)
	r.ArchiveName = c.Archive.Name
	if c.Archive.MemoSize > 0 {
		r.MemoSize = c.Archive.MemoSize
	}
	return r
}
