package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "voltlog/libs/config"
)

// Config defines forecast service configuration.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"FORECAST_HTTP_PORT"`
	} `yaml:"http"`
	Database struct {
		DSN      string `yaml:"dsn" env:"FORECAST_POSTGRES_DSN"`
		MaxConns int    `yaml:"maxConns" env:"FORECAST_POSTGRES_MAX_CONNS"`
	} `yaml:"database"`
	Redis struct {
		Addr     string             `yaml:"addr" env:"FORECAST_REDIS_ADDR"`
		Password string             `yaml:"password" env:"FORECAST_REDIS_PASSWORD"`
		DB       int                `yaml:"db" env:"FORECAST_REDIS_DB"`
		TTL      libconfig.Duration `yaml:"ttl" env:"FORECAST_REDIS_TTL"`
	} `yaml:"redis"`
	Forecast struct {
		// Window bounds sample recency; only locally consistent data inside
		// it feeds the extrapolation.
		Window   libconfig.Duration `yaml:"window" env:"FORECAST_WINDOW"`
		Schedule string             `yaml:"schedule" env:"FORECAST_SCHEDULE"`
		Workers  int                `yaml:"workers" env:"FORECAST_WORKERS"`
	} `yaml:"forecast"`
}

// Load reads configuration via the shared helper and applies defaults.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = "8086"
	cfg.Database.MaxConns = 6
	cfg.Redis.Addr = "localhost:6379"
	cfg.Redis.TTL = libconfig.Duration(time.Hour)
	cfg.Forecast.Window = libconfig.Duration(24 * time.Hour)
	cfg.Forecast.Schedule = "@every 10m"
	cfg.Forecast.Workers = 4

	if err := libconfig.Load(cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return nil, errors.New("config: database dsn required")
	}
	if strings.TrimSpace(cfg.Redis.Addr) == "" {
		return nil, errors.New("config: redis addr required")
	}
	if cfg.Forecast.Window <= 0 {
		return nil, errors.New("config: forecast window must be positive")
	}
	return cfg, nil
}

// HTTPAddress returns :port style.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8086"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}
