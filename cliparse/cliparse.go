// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Supported store types
const (
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
	TypeMongo    = "mongo"
	TypeRedis    = "redis"
	TypeMemory   = "memory"
)

type Config struct {
	Port          int    `env:"PORT" envDefault:"3318"`
	DatabaseType  string `env:"DATABASE_TYPE" envDefault:"sqlite"`
	DatabaseURL   string `env:"DATABASE_URL"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"voting"`

	EligibilityURL     string        `env:"ELIGIBILITY_URL"`
	EligibilityTimeout time.Duration `env:"ELIGIBILITY_TIMEOUT" envDefault:"5s"`
	EligibilityRetries int           `env:"ELIGIBILITY_RETRIES" envDefault:"3"`

	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"0s"`
}

// ParseFlags loads .env if present, reads the environment, then applies
// command-line flags on top.
func ParseFlags(args []string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	// Flags default to the environment values so only set flags override.
	flags := pflag.NewFlagSet("voting-sessions", pflag.ContinueOnError)
	flags.IntVarP(&cfg.Port, "port", "p", cfg.Port, "Server port")
	flags.StringVarP(&cfg.DatabaseURL, "database-url", "d", cfg.DatabaseURL, "Database URL")
	flags.StringVarP(&cfg.DatabaseType, "database-type", "t", cfg.DatabaseType, "Store type (sqlite, postgres, mongo, redis, memory)")
	flags.StringVar(&cfg.MongoDatabase, "mongo-database", cfg.MongoDatabase, "MongoDB database name")
	flags.StringVar(&cfg.EligibilityURL, "eligibility-url", cfg.EligibilityURL, "Eligibility service base URL (empty allows every member)")
	flags.DurationVar(&cfg.EligibilityTimeout, "eligibility-timeout", cfg.EligibilityTimeout, "Timeout per eligibility request")
	flags.IntVar(&cfg.EligibilityRetries, "eligibility-retries", cfg.EligibilityRetries, "Retries for failed eligibility requests")
	flags.DurationVar(&cfg.SweepInterval, "sweep-interval", cfg.SweepInterval, "Interval for closing expired sessions (0 disables)")

	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}

	switch c.DatabaseType {
	case TypeSQLite, TypePostgres, TypeMongo, TypeRedis:
		if c.DatabaseURL == "" {
			return errors.New("database URL required (use -d or DATABASE_URL env)")
		}
	case TypeMemory:
	default:
		return fmt.Errorf("unsupported database type %q", c.DatabaseType)
	}

	if c.DatabaseType == TypeMongo && c.MongoDatabase == "" {
		return errors.New("MONGO_DATABASE required for mongo")
	}
	if c.EligibilityTimeout <= 0 {
		return errors.New("eligibility timeout must be positive")
	}
	if c.EligibilityRetries < 0 {
		return errors.New("eligibility retries must not be negative")
	}
	if c.SweepInterval < 0 {
		return errors.New("sweep interval must not be negative")
	}
	return nil
}
