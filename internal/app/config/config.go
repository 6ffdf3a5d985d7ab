// Package config loads the server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"account_backend/internal/platform/db"
	"account_backend/internal/platform/mongodb"
	"account_backend/internal/platform/redis"
)

// StoreMongo selects the MongoDB user store.
const StoreMongo = "mongo"

// Config is the full server configuration.
type Config struct {
	Port    string `env:"PORT" envDefault:"8080"`
	GinMode string `env:"GIN_MODE" envDefault:"release"`

	JWTSecret     string        `env:"JWT_SECRET"`
	JWTExpiration time.Duration `env:"JWT_EXPIRATION" envDefault:"24h"`
	BcryptCost    int           `env:"BCRYPT_COST" envDefault:"10"`
	StoreTimeout  time.Duration `env:"STORE_TIMEOUT" envDefault:"5s"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	StaticDir          string   `env:"STATIC_DIR"`

	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`

	EmailVerificationEnabled bool `env:"EMAIL_VERIFICATION_ENABLED"`

	DB    db.Config
	Mongo mongodb.Config
	Redis redis.Config
}

// Load reads an optional .env file and then parses the environment.
// Variables already set in the environment win over .env values.
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c Config) Validate() error {
	switch c.DB.Driver {
	case db.DriverPostgres, db.DriverSQLite, StoreMongo:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.DB.Driver)
	}
	if c.StoreTimeout <= 0 {
		return errors.New("STORE_TIMEOUT must be positive")
	}
	if c.JWTExpiration <= 0 {
		return errors.New("JWT_EXPIRATION must be positive")
	}
	if c.JWTSecret == "" {
		slog.Warn("JWT_SECRET is not set. Set a strong secret in production.")
	}
	return nil
}

// UsesMongo reports whether the user store is MongoDB.
func (c Config) UsesMongo() bool {
	return c.DB.Driver == StoreMongo
}
