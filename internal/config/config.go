package config

import (
	"errors"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultSessionSecret is only acceptable outside production.
const DefaultSessionSecret = "linkadmin-dev-secret-change-me-0123456789"

type Config struct {
	AppEnv            string        `mapstructure:"APP_ENV"`
	Port              string        `mapstructure:"PORT"`
	APIBaseURL        string        `mapstructure:"API_BASE_URL"`
	APIKey            string        `mapstructure:"API_KEY"`
	APITimeout        time.Duration `mapstructure:"API_TIMEOUT"`
	BulkConcurrency   int           `mapstructure:"BULK_CONCURRENCY"`
	SessionSecret     string        `mapstructure:"SESSION_SECRET"`
	SessionMaxAge     time.Duration `mapstructure:"SESSION_MAX_AGE"`
	AdminUsername     string        `mapstructure:"ADMIN_USERNAME"`
	AdminPassword     string        `mapstructure:"ADMIN_PASSWORD"`
	AdminPasswordHash string        `mapstructure:"ADMIN_PASSWORD_HASH"`
	HealthInterval    time.Duration `mapstructure:"HEALTH_POLL_INTERVAL"`
	HealthHistorySize int           `mapstructure:"HEALTH_HISTORY_SIZE"`
	RedisURL          string        `mapstructure:"REDIS_URL"`
	RedisPassword     string        `mapstructure:"REDIS_PASSWORD"`
	DatabaseURL       string        `mapstructure:"DATABASE_URL"`
	RateLimitRPS      float64       `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst    int           `mapstructure:"RATE_LIMIT_BURST"`
	TrustedProxies    []string      `mapstructure:"TRUSTED_PROXIES"`
}

func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func LoadConfig() (config Config, err error) {
	_ = godotenv.Load() // .env is optional

	v := viper.New()
	v.SetDefault("APP_ENV", "local")
	v.SetDefault("PORT", "8080")
	v.SetDefault("API_BASE_URL", "https://link-api.c.ch3n.cc")
	v.SetDefault("API_KEY", "")
	v.SetDefault("API_TIMEOUT", "10s")
	v.SetDefault("BULK_CONCURRENCY", 0)
	v.SetDefault("SESSION_SECRET", DefaultSessionSecret)
	v.SetDefault("SESSION_MAX_AGE", "720h")
	v.SetDefault("ADMIN_USERNAME", "")
	v.SetDefault("ADMIN_PASSWORD", "")
	v.SetDefault("ADMIN_PASSWORD_HASH", "")
	v.SetDefault("HEALTH_POLL_INTERVAL", "30s")
	v.SetDefault("HEALTH_HISTORY_SIZE", 20)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("DATABASE_URL", "sqlite://linkadmin.db")
	v.SetDefault("RATE_LIMIT_RPS", 5)
	v.SetDefault("RATE_LIMIT_BURST", 10)
	v.SetDefault("TRUSTED_PROXIES", []string{})

	v.AutomaticEnv()

	err = v.Unmarshal(&config)
	if err != nil {
		log.Printf("unable to decode into struct, %v", err)
		return
	}

	return
}

// Validate rejects settings that are only tolerable in local development.
func (c Config) Validate() error {
	if c.APIBaseURL == "" {
		return errors.New("API_BASE_URL is required")
	}
	if c.HealthInterval <= 0 {
		return errors.New("HEALTH_POLL_INTERVAL must be positive")
	}
	if !c.IsProduction() {
		return nil
	}

	var errs []error
	if c.APIKey == "" {
		errs = append(errs, errors.New("API_KEY is required in production"))
	}
	if c.SessionSecret == DefaultSessionSecret || len(c.SessionSecret) < 32 {
		errs = append(errs, errors.New("SESSION_SECRET must be set to at least 32 characters in production"))
	}
	if c.AdminPasswordHash == "" && (c.AdminUsername == "" || c.AdminPassword == "") {
		errs = append(errs, errors.New("admin credentials are required in production"))
	}
	return errors.Join(errs...)
}
