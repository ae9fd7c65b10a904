// Package config loads process configuration from TALLY_* environment variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config is the process-wide configuration, passed explicitly to whatever needs it.
type Config struct {
	Port      string `env:"TALLY_PORT" envDefault:"8080"`
	Mount     string `env:"TALLY_MOUNT" envDefault:"/coverage"`
	LogLevel  string `env:"TALLY_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"TALLY_LOG_FORMAT" envDefault:"text"`
	Version   string `env:"-"`

	Store StoreConfig

	ReportBackend string `env:"TALLY_REPORT_BACKEND" envDefault:"file"`
	ReportDir     string `env:"TALLY_REPORT_DIR" envDefault:".tally/reports"`
	S3            S3Config

	SafeReloadFiles []string `env:"TALLY_SAFE_RELOAD_FILES" envSeparator:","`
	ProfilePaths    []string `env:"TALLY_PROFILES" envSeparator:","`
}

// StoreConfig selects and configures the coverage store.
type StoreConfig struct {
	Backend       string `env:"TALLY_STORE" envDefault:"memory"`
	RedisAddr     string `env:"TALLY_REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"TALLY_REDIS_PASSWORD"`
	RedisDB       int    `env:"TALLY_REDIS_DB" envDefault:"0"`
	RedisPrefix   string `env:"TALLY_REDIS_PREFIX" envDefault:"tally:coverage:"`
	SQLitePath    string `env:"TALLY_SQLITE_PATH" envDefault:".tally/coverage.db"`
	// Exclude holds regular expressions; matching files are never stored.
	Exclude []string `env:"TALLY_EXCLUDE" envSeparator:","`
}

// S3Config configures report object storage on S3.
type S3Config struct {
	Bucket          string `env:"TALLY_S3_BUCKET" envDefault:"tally"`
	Region          string `env:"TALLY_S3_REGION"`
	AccessKeyID     string `env:"TALLY_S3_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"TALLY_S3_SECRET_ACCESS_KEY"`
	Endpoint        string `env:"TALLY_S3_ENDPOINT"`
	UsePathStyle    bool   `env:"TALLY_S3_PATH_STYLE"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load returns the configuration read from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
