package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"
)

const envProduction = "production"

// ErrMissingSessionSecret is returned by Load in production when SESSION_SECRET is empty.
var ErrMissingSessionSecret = errors.New("SESSION_SECRET is required in production")

// Config holds application configuration sourced from environment variables.
type Config struct {
	Env           string `env:"APP_ENV" envDefault:"development"`
	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
	SessionSecret string `env:"SESSION_SECRET"`
	DBPath        string `env:"DB_PATH" envDefault:"./dev.db"`
	Port          string `env:"PORT" envDefault:"8080"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	LogJSON       bool   `env:"LOG_JSON" envDefault:"false"`
	SeedOnStart   bool   `env:"SEED_ON_START" envDefault:"true"`
}

// Load reads environment variables and returns a populated Config.
// Outside production a local .env file is loaded first when present.
// Production refuses to start without a session secret.
func Load() (Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if !cfg.IsDev() && cfg.SessionSecret == "" {
		return Config{}, ErrMissingSessionSecret
	}
	return cfg, nil
}

// IsDev reports whether the app runs outside production.
func (c Config) IsDev() bool {
	return c.Env != envProduction
}

// Warn logs the settings that are empty but expected in a real deployment.
func (c Config) Warn(log *zap.Logger) {
	if c.AdminEmail == "" {
		log.Warn("ADMIN_EMAIL is not set")
	}
	if c.AdminPassword == "" {
		log.Warn("ADMIN_PASSWORD is not set")
	}
	if c.SessionSecret == "" {
		log.Warn("SESSION_SECRET is not set")
	}
}
