// Package config reads the ledger settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	APIKey   string
	RatesURL string

	// CachePath file the rate table is persisted to when no redis is configured
	CachePath string
	TTL       time.Duration
	Timeout   time.Duration

	RedisAddr string
	RedisKey  string

	HTTPAddr string
	LogLevel string
}

// UseRedis reports whether the rate table is persisted to redis rather than a file.
func (c *Config) UseRedis() bool {
	return c.RedisAddr != ""
}

func defaults(v *viper.Viper) {
	v.SetDefault("API_KEY", "")
	v.SetDefault("RATES_URL", "https://openexchangerates.org/api")
	v.SetDefault("RATES_CACHE_PATH", "wechselkurse.json")
	v.SetDefault("RATES_TTL", "1h")
	v.SetDefault("RATES_HTTP_TIMEOUT", "5s")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_KEY", "ledger:rates")
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("LOG_LEVEL", "info")
}

// Load loads configuration from environment variables and .env file if present.
func Load() (*Config, error) {
	// a missing .env is fine, the environment alone is enough
	_ = godotenv.Load()

	v := viper.New()
	defaults(v)
	v.AutomaticEnv()

	ttl, err := duration(v, "RATES_TTL")
	if err != nil {
		return nil, err
	}
	timeout, err := duration(v, "RATES_HTTP_TIMEOUT")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		APIKey:    v.GetString("API_KEY"),
		RatesURL:  v.GetString("RATES_URL"),
		CachePath: v.GetString("RATES_CACHE_PATH"),
		TTL:       ttl,
		Timeout:   timeout,
		RedisAddr: v.GetString("REDIS_ADDR"),
		RedisKey:  v.GetString("REDIS_KEY"),
		HTTPAddr:  v.GetString("HTTP_ADDR"),
		LogLevel:  v.GetString("LOG_LEVEL"),
	}
	if cfg.RatesURL == "" {
		return nil, errors.New("RATES_URL must not be empty")
	}
	return cfg, nil
}

func duration(v *viper.Viper, key string) (time.Duration, error) {
	s := v.GetString(key)
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %v (%q): %w", key, s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid value for %v (%q): must be positive", key, s)
	}
	return d, nil
}
