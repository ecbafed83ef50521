package config

import (
	"errors"
	"strings"
	"time"

	libconfig "voltlog/libs/config"
)

// Config defines logbook service configuration.
type Config struct {
	Database struct {
		DSN      string `yaml:"dsn" env:"LOGBOOK_POSTGRES_DSN"`
		MaxConns int    `yaml:"maxConns" env:"LOGBOOK_POSTGRES_MAX_CONNS"`
	} `yaml:"database"`
	Pipeline struct {
		// Schedule is a robfig/cron spec; empty means run once and exit.
		Schedule string `yaml:"schedule" env:"LOGBOOK_SCHEDULE"`
		// Gap is the silence threshold that ends a session. Source
		// revisions used anything from 10 minutes to 4 hours; 2h is the
		// documented default.
		Gap        libconfig.Duration `yaml:"gap" env:"LOGBOOK_GAP"`
		MinSession libconfig.Duration `yaml:"minSession" env:"LOGBOOK_MIN_SESSION"`
		// DriveSpeed is in m/s; 1.389 is 5 km/h, below which gps jitter
		// while parked would register as movement.
		DriveSpeed float64            `yaml:"driveSpeed" env:"LOGBOOK_DRIVE_SPEED"`
		RunTimeout libconfig.Duration `yaml:"runTimeout" env:"LOGBOOK_RUN_TIMEOUT"`
	} `yaml:"pipeline"`
}

// Load reads configuration via the shared helper and applies defaults.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.Database.MaxConns = 4
	cfg.Pipeline.Schedule = "@every 15m"
	cfg.Pipeline.Gap = libconfig.Duration(2 * time.Hour)
	cfg.Pipeline.MinSession = libconfig.Duration(5 * time.Minute)
	cfg.Pipeline.DriveSpeed = 1.389
	cfg.Pipeline.RunTimeout = libconfig.Duration(10 * time.Minute)

	if err := libconfig.Load(cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return nil, errors.New("config: database dsn required")
	}
	if cfg.Pipeline.Gap <= 0 {
		return nil, errors.New("config: pipeline gap must be positive")
	}
	if cfg.Pipeline.MinSession < 0 {
		return nil, errors.New("config: pipeline minSession must not be negative")
	}
	return cfg, nil
}
