package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	env "github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	// DATABASE_URL wins over the discrete DB_* keys when set.
	DBUrl          string `env:"DATABASE_URL"`
	DBHost         string `env:"DB_HOST" envDefault:"localhost"`
	DBPort         int    `env:"DB_PORT" envDefault:"5432"`
	DBUser         string `env:"DB_USER" envDefault:"cleanpro"`
	DBPassword     string `env:"DB_PASSWORD" envDefault:"cleanpro"`
	DBName         string `env:"DB_NAME" envDefault:"cleanpro"`
	DBSSLMode      string `env:"DB_SSLMODE" envDefault:"disable"`
	DBMaxOpenConns int    `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`

	ServerPort  string   `env:"SERVER_PORT" envDefault:"8080"`
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:","`
	Timezone    string   `env:"APP_TIMEZONE" envDefault:"America/Sao_Paulo"`

	JWTSecret  string        `env:"JWT_SECRET" envDefault:"changeme"`
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"720h"`

	// OwnerOpenID is promoted to admin on sign-in when no role is given.
	OwnerOpenID        string `env:"OWNER_OPEN_ID"`
	ProviderSecretHash string `env:"PROVIDER_SECRET_HASH"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	AppEnv   string `env:"APP_ENV" envDefault:"development"`

	RedisAddr        string `env:"REDIS_ADDR"`
	RedisPassword    string `env:"REDIS_PASSWORD"`
	RedisDB          int    `env:"REDIS_DB" envDefault:"0"`
	RedisAuditStream string `env:"REDIS_AUDIT_STREAM" envDefault:"cleanpro:audit"`
}

// Load reads an optional .env file and then the process environment.
func Load(envPath string) (*Config, error) {
	if err := godotenv.Load(envPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envPath, err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%s", c.ServerPort)
}

// DSN assembles the postgres connection string.
func (c *Config) DSN() string {
	if c.DBUrl != "" {
		return c.DBUrl
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     net.JoinHostPort(c.DBHost, strconv.Itoa(c.DBPort)),
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": []string{c.DBSSLMode}}.Encode(),
	}
	return u.String()
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
