package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvProduction  = "prod"
	EnvDevelopment = "dev"
	EnvTesting     = "test"

	devJWTSecret = "your-secret-key-change-this-in-production"
)

// Config is built once by main and passed to everything that needs it.
type Config struct {
	AppEnv string
	Port   string

	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string

	JWTSecret     []byte
	JWTExpiration time.Duration

	PageLimitDefault int
	PageLimitMax     int

	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// Load reads a .env file when present and then the process environment.
func Load() (*Config, error) {
	// a missing .env is fine, the environment may be set by the host
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:      GetEnv("APP_ENV", EnvProduction),
		Port:        GetEnv("PORT", "8080"),
		DatabaseURL: GetEnv("DATABASE_URL"),
		DBHost:      GetEnv("DB_HOST", "localhost"),
		DBPort:      GetEnv("DB_PORT", "5432"),
		DBUser:      GetEnv("DB_USER", "postgres"),
		DBPassword:  GetEnv("DB_PASSWORD"),
		DBName:      GetEnv("DB_NAME", "conduit"),
		DBSSLMode:   GetEnv("DB_SSLMODE", "disable"),
	}

	var err error
	if cfg.JWTExpiration, err = durationEnv("JWT_EXPIRATION", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.RateLimitWindow, err = durationEnv("RATE_LIMIT_WINDOW", time.Minute); err != nil {
		return nil, err
	}
	if cfg.PageLimitDefault, err = intEnv("PAGE_LIMIT_DEFAULT", 20); err != nil {
		return nil, err
	}
	if cfg.PageLimitMax, err = intEnv("PAGE_LIMIT_MAX", 20); err != nil {
		return nil, err
	}
	if cfg.RateLimitRequests, err = intEnv("RATE_LIMIT_REQUESTS", 100); err != nil {
		return nil, err
	}

	secret := GetEnv("JWT_SECRET")
	if secret == "" {
		if cfg.IsProduction() {
			return nil, errors.New("JWT_SECRET must be set in production")
		}
		secret = devJWTSecret
	}
	cfg.JWTSecret = []byte(secret)

	if cfg.PageLimitMax < cfg.PageLimitDefault {
		cfg.PageLimitMax = cfg.PageLimitDefault
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv != EnvDevelopment && c.AppEnv != EnvTesting
}

// DSN prefers DATABASE_URL and falls back to the discrete DB_* settings.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func intEnv(key string, def int) (int, error) {
	raw := GetEnv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := GetEnv(key)
	if raw == "" {
		return def, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}
