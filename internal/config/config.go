package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/validation"
)

// ConfigPathEnvVar points to an optional YAML file.
const ConfigPathEnvVar = "CONFIG_FILE"

const defaultConfigPath = "config.yaml"

// defaultJWTSecret only exists so local runs work out of the box; release
// mode refuses it.
const defaultJWTSecret = "change-me-change-me"

var ErrDefaultJWTSecret = errors.New("auth.jwt_secret must be set (JWT_SECRET) in release mode")

type Config struct {
	Server   Server   `koanf:"server"`
	Database Database `koanf:"database"`
	Auth     Auth     `koanf:"auth"`
	Cache    Cache    `koanf:"cache"`
	Media    Media    `koanf:"media"`
	Log      Log      `koanf:"log"`
}

type Server struct {
	Addr                   string `koanf:"addr" validate:"required"`
	Mode                   string `koanf:"mode" validate:"oneof=debug release test"`
	ShutdownTimeoutSeconds int    `koanf:"shutdown_timeout_seconds" validate:"min=1"`
}

type Database struct {
	Driver       string `koanf:"driver" validate:"oneof=postgres sqlite"`
	DSN          string `koanf:"dsn" validate:"required"`
	MaxOpenConns int    `koanf:"max_open_conns" validate:"min=1"`
	MaxIdleConns int    `koanf:"max_idle_conns" validate:"min=0"`
	LogLevel     string `koanf:"log_level" validate:"oneof=silent error warn info"`
}

type Auth struct {
	JWTSecret        string `koanf:"jwt_secret" validate:"required,min=16"`
	TokenTTLMinutes  int    `koanf:"token_ttl_minutes" validate:"min=1"`
	CookieSecure     bool   `koanf:"cookie_secure"`
	LoginRatePerMin  int    `koanf:"login_rate_per_min" validate:"min=1"`
	PasswordHashCost int    `koanf:"password_hash_cost" validate:"min=4,max=31"`
}

type Cache struct {
	Backend    string `koanf:"backend" validate:"oneof=memory badger"`
	Path       string `koanf:"path"`
	TTLSeconds int    `koanf:"ttl_seconds" validate:"min=1"`
}

type Media struct {
	Backend   string `koanf:"backend" validate:"oneof=local s3"`
	Dir       string `koanf:"dir"`
	BaseURL   string `koanf:"base_url"`
	S3Bucket  string `koanf:"s3_bucket" validate:"required_if=Backend s3"`
	S3Region  string `koanf:"s3_region" validate:"required_if=Backend s3"`
	AccessKey string `koanf:"access_key"`
	SecretKey string `koanf:"secret_key"`
	MaxUpload int64  `koanf:"max_upload" validate:"min=1"`
}

type Log struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

// Default returns a configuration that runs locally against SQLite, in
// debug mode.
func Default() *Config {
	return &Config{
		Server: Server{
			Addr:                   ":8080",
			Mode:                   "debug",
			ShutdownTimeoutSeconds: 10,
		},
		Database: Database{
			Driver:       "sqlite",
			DSN:          "blog.db?_pragma=foreign_keys(1)",
			MaxOpenConns: 25,
			MaxIdleConns: 25,
			LogLevel:     "warn",
		},
		Auth: Auth{
			JWTSecret:        defaultJWTSecret,
			TokenTTLMinutes:  60 * 24 * 14,
			LoginRatePerMin:  10,
			PasswordHashCost: 12,
		},
		Cache: Cache{
			Backend:    "memory",
			TTLSeconds: 20,
		},
		Media: Media{
			Backend:   "local",
			Dir:       "media",
			BaseURL:   "/media/",
			MaxUpload: 5 << 20,
		},
		Log: Log{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadConfig reads .env, then layers defaults, the optional YAML file and
// the environment, in that order of precedence.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// PORT=8080 style values
	if !strings.Contains(cfg.Server.Addr, ":") {
		cfg.Server.Addr = ":" + cfg.Server.Addr
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the struct tags of every section. In release mode the
// built-in JWT secret is rejected.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Server.Mode == "release" && c.Auth.JWTSecret == defaultJWTSecret {
		return fmt.Errorf("invalid configuration: %w", ErrDefaultJWTSecret)
	}
	return nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
		return ""
	}
	if _, err := os.Stat(defaultConfigPath); err == nil {
		return defaultConfigPath
	}
	return ""
}

// Names kept from the previous deployment scripts.
var legacyEnv = map[string]string{
	"database_url":          "database.dsn",
	"jwt_secret":            "auth.jwt_secret",
	"aws_bucket_name":       "media.s3_bucket",
	"aws_region":            "media.s3_region",
	"aws_access_key_id":     "media.access_key",
	"aws_secret_access_key": "media.secret_key",
	"port":                  "server.addr",
}

var sections = map[string]bool{
	"server": true, "database": true, "auth": true,
	"cache": true, "media": true, "log": true,
}

// envTransform maps SECTION_SOME_KEY to section.some_key. Variables that do
// not belong to a known section are skipped.
func envTransform(key string) string {
	key = strings.ToLower(key)
	if mapped, ok := legacyEnv[key]; ok {
		return mapped
	}
	section, rest, ok := strings.Cut(key, "_")
	if !ok || !sections[section] || rest == "" {
		return ""
	}
	return section + "." + rest
}
