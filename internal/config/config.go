package config

import (
	"time"

	"github.com/caarlos0/env/v9"
)

type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	DBDriver string `env:"DB_DRIVER" envDefault:"postgres"` // postgres, mysql or sqlite
	StoreURL string `env:"STORE_URL,required"`              // e.g. postgres://app@db.example.com:5432/points
	StoreKey string `env:"STORE_KEY"`                       // used as the password when STORE_URL has none

	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	DBMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	DBConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"5m"`
	DBAutoMigrate     bool          `env:"DB_AUTO_MIGRATE" envDefault:"false"`

	AllowOrigins      []string `env:"CORS_ALLOW_ORIGINS" envDefault:"*" envSeparator:","`
	ExposeStoreErrors bool     `env:"EXPOSE_STORE_ERRORS" envDefault:"false"`

	// ResetSchedule is a cron expression; empty disables the scheduled reset.
	ResetSchedule string `env:"RESET_SCHEDULE"`
}

func Load() (*Config, error) {
	return parse(env.Options{})
}

func parse(opts env.Options) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, err
	}
	return &cfg, nil
}
