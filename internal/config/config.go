package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all process-wide configuration. It is loaded once at startup
// and passed by reference into the components that need it; nothing reads the
// environment after Load returns.
type Config struct {
	APIPort int `mapstructure:"apiPort"`

	Database struct {
		Driver          string        `mapstructure:"driver"`
		Host            string        `mapstructure:"host"`
		Port            int           `mapstructure:"port"`
		User            string        `mapstructure:"user"`
		Password        string        `mapstructure:"password"`
		Name            string        `mapstructure:"name"`
		SSLMode         string        `mapstructure:"sslMode"`
		Path            string        `mapstructure:"path"`
		MaxConns        int           `mapstructure:"maxConns"`
		MaxIdle         int           `mapstructure:"maxIdle"`
		ConnMaxLifetime time.Duration `mapstructure:"connMaxLifetime"`
		QueryTimeout    time.Duration `mapstructure:"queryTimeout"`
	} `mapstructure:"database"`

	Auth struct {
		JWTSecret     string        `mapstructure:"jwtSecret"`
		TokenDuration time.Duration `mapstructure:"tokenDuration"`
	} `mapstructure:"auth"`

	Archive struct {
		Enabled         bool          `mapstructure:"enabled"`
		Bucket          string        `mapstructure:"bucket"`
		Region          string        `mapstructure:"region"`
		Endpoint        string        `mapstructure:"endpoint"`
		AccessKeyID     string        `mapstructure:"accessKeyId"`
		SecretAccessKey string        `mapstructure:"secretAccessKey"`
		Retention       time.Duration `mapstructure:"retention"`
		Interval        time.Duration `mapstructure:"interval"`
	} `mapstructure:"archive"`
}

// ErrMissingJWTSecret is returned when no signing secret is configured.
// There is deliberately no fallback secret; the process refuses to start.
var ErrMissingJWTSecret = errors.New("auth.jwtSecret is not configured")

// Load reads configuration from the given yaml file and the environment.
// Environment variables override file values (AUTH_JWTSECRET, DATABASE_HOST, ...).
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// AutomaticEnv alone is invisible to Unmarshal for keys absent from the
	// file; bind every key so env-only deployments work without a config file.
	for _, key := range []string{
		"apiPort",
		"database.driver", "database.host", "database.port", "database.user",
		"database.password", "database.name", "database.sslMode", "database.path",
		"database.maxConns", "database.maxIdle", "database.connMaxLifetime",
		"database.queryTimeout",
		"auth.jwtSecret", "auth.tokenDuration",
		"archive.enabled", "archive.bucket", "archive.region", "archive.endpoint",
		"archive.accessKeyId", "archive.secretAccessKey", "archive.retention",
		"archive.interval",
	} {
		v.BindEnv(key)
	}

	if err := v.ReadInConfig(); err != nil {
		_, notFound := err.(viper.ConfigFileNotFoundError)
		if !notFound && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		log.Printf("Warning: config file %s not found, using environment and defaults", path)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.APIPort == 0 {
		cfg.APIPort = 8081
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "postgres"
	}
	// Development-only defaults. Production deployments set these explicitly.
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "socialm"
	}
	if cfg.Database.Password == "" {
		cfg.Database.Password = "socialm"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "socialm"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/socialm.db"
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = 10
	}
	if cfg.Database.MaxIdle == 0 {
		cfg.Database.MaxIdle = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = time.Hour
	}
	if cfg.Database.QueryTimeout == 0 {
		cfg.Database.QueryTimeout = 5 * time.Second
	}

	if cfg.Auth.JWTSecret == "" {
		return nil, ErrMissingJWTSecret
	}
	if cfg.Auth.TokenDuration == 0 {
		cfg.Auth.TokenDuration = time.Hour
	}

	if cfg.Archive.Retention == 0 {
		cfg.Archive.Retention = 90 * 24 * time.Hour
	}
	if cfg.Archive.Interval == 0 {
		cfg.Archive.Interval = time.Hour
	}
	if cfg.Archive.Enabled && cfg.Archive.Bucket == "" {
		return nil, errors.New("archive.bucket is required when archive is enabled")
	}

	return &cfg, nil
}
