// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Environment     string        `env:"APP_ENV" envDefault:"development"`
	Host            string        `env:"HOST"`
	Port            int           `env:"PORT" envDefault:"8000"`
	WebDir          string        `env:"WEB_DIR" envDefault:"./web"`
	DatabaseURL     string        `env:"DATABASE_URL"`
	MetricsEnabled  bool          `env:"METRICS_ENABLED" envDefault:"true"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	Logging         LoggingConfig
}

// LoggingConfig selects the log level and output format.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// Load reads a .env file outside production, then parses the environment.
// A missing .env file is not an error.
func Load() (Config, error) {
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if cfg.Port < 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("PORT %d out of range", cfg.Port)
	}
	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// JournalEnabled reports whether a database was configured.
func (c Config) JournalEnabled() bool {
	return c.DatabaseURL != ""
}
