package config

import (
	"errors"
	"fmt"
	"os"
	"time"
)

type Config struct {
	Env       string
	Addr      string
	DBDSN     string
	JWTSecret string
	TokenTTL  time.Duration
	LogLevel  string

	// MigrationsDir is where goose looks for schema migrations. Empty
	// disables automatic migration at startup.
	MigrationsDir string
}

func Load() (Config, error) {
	return LoadFromEnv(os.Getenv)
}

func LoadFromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		Env:           getenv("APP_ENV"),
		Addr:          getenv("APP_ADDR"),
		DBDSN:         getenv("APP_DB_DSN"),
		JWTSecret:     getenv("APP_JWT_SECRET"),
		LogLevel:      getenv("APP_LOG_LEVEL"),
		MigrationsDir: getenv("APP_MIGRATIONS_DIR"),
	}

	if cfg.Env == "" {
		cfg.Env = "dev"
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8080"
	}

	switch cfg.Env {
	case "dev", "prod", "test":
	default:
		return Config{}, errors.New("APP_ENV: must be one of dev, test, prod")
	}

	ttlRaw := getenv("APP_TOKEN_TTL")
	if ttlRaw == "" {
		cfg.TokenTTL = 7 * 24 * time.Hour
	} else {
		ttl, err := time.ParseDuration(ttlRaw)
		if err != nil {
			return Config{}, fmt.Errorf("APP_TOKEN_TTL: %w", err)
		}
		if ttl <= 0 {
			return Config{}, errors.New("APP_TOKEN_TTL: must be > 0")
		}
		cfg.TokenTTL = ttl
	}

	if cfg.IsProd() {
		if cfg.DBDSN == "" {
			return Config{}, errors.New("APP_DB_DSN: required in prod")
		}
		if len(cfg.JWTSecret) < 32 {
			return Config{}, errors.New("APP_JWT_SECRET: must be at least 32 bytes in prod")
		}
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "dev-only-secret-do-not-use-in-prod"
	}

	return cfg, nil
}

func (c Config) IsProd() bool { return c.Env == "prod" }
