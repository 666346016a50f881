package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Store backends selectable with STORE_BACKEND.
const (
	BackendCookie = "cookie"
	BackendSQLite = "sqlite"
	BackendBolt   = "bolt"
	BackendMemory = "memory"
)

// Config holds process configuration read from the environment.
type Config struct {
	Port          string        `env:"PORT" envDefault:"8080"`
	StoreBackend  string        `env:"STORE_BACKEND" envDefault:"cookie"`
	DBPath        string        `env:"DB_PATH" envDefault:"./data/todolist.db"`
	BoltPath      string        `env:"BOLT_PATH" envDefault:"./data/todolist.bolt"`
	TaskTTLDays   int           `env:"TASK_TTL_DAYS" envDefault:"7"`
	SecureCookies bool          `env:"SECURE_COOKIES" envDefault:"false"`
	PurgeInterval time.Duration `env:"PURGE_INTERVAL" envDefault:"1h"`
}

// Load parses the environment into a Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	switch c.StoreBackend {
	case BackendCookie, BackendSQLite, BackendBolt, BackendMemory:
	default:
		return fmt.Errorf("STORE_BACKEND must be one of cookie, sqlite, bolt, memory; got %q", c.StoreBackend)
	}

	if c.TaskTTLDays <= 0 {
		return fmt.Errorf("TASK_TTL_DAYS must be positive, got %d", c.TaskTTLDays)
	}

	if c.PurgeInterval <= 0 {
		return fmt.Errorf("PURGE_INTERVAL must be positive, got %s", c.PurgeInterval)
	}

	return nil
}

// TaskTTL is how long persisted task sequences live after each write.
func (c Config) TaskTTL() time.Duration {
	return time.Duration(c.TaskTTLDays) * 24 * time.Hour
}
