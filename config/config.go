/*
Package config loads deployment configuration with viper.

PURPOSE:
  All runtime knobs in one mapstructure-tagged tree, read from a YAML file
  with environment-friendly defaults. Notable sections:

  clock.timezone    THE local zone. Every day-of-week / time-of-day
                    decision evaluates here; defaults to Asia/Jakarta,
                    the original deployment's zone.
  scoring.xp_weight How strongly XP folds into the daily score. Zero (the
                    default) keeps ranking purely duration-based; any
                    other value is a business decision, not engine logic.
  scoring.xp_table  Activity type -> XP amount, the opaque leveling input.
  scheduler.*       Cron specs for the nightly and month-rollover
                    recompute passes.

EXAMPLE (config.yaml):
  server:
    port: 8080
  database:
    path: ./data/attendance.db
  clock:
    timezone: Asia/Jakarta
  scheduler:
    enabled: true
    daily_spec: "30 0 * * *"
    monthly_spec: "0 1 1 * *"
  scoring:
    xp_weight: 0
    xp_table:
      apel: 10
      ibadah: 15
*/
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Clock     ClockConfig     `mapstructure:"clock"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Scoring   ScoringConfig   `mapstructure:"scoring"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	// Path is the SQLite database file; ":memory:" for ephemeral runs.
	Path string `mapstructure:"path"`
}

type ClockConfig struct {
	Timezone string `mapstructure:"timezone"`
}

// Location resolves the configured zone.
func (c ClockConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

type SchedulerConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// DailySpec recomputes the previous day's ranks (cron, 5 fields).
	DailySpec string `mapstructure:"daily_spec"`

	// MonthlySpec recomputes the previous month on rollover.
	MonthlySpec string `mapstructure:"monthly_spec"`
}

type ScoringConfig struct {
	XPWeight float64        `mapstructure:"xp_weight"`
	XPTable  map[string]int `mapstructure:"xp_table"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// Load reads the config file at path ("" means ./config.yaml if present)
// and applies defaults for everything unset.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15)
	v.SetDefault("server.write_timeout", 15)
	v.SetDefault("database.path", "./attendance.db")
	v.SetDefault("clock.timezone", "Asia/Jakarta")
	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.daily_spec", "30 0 * * *")
	v.SetDefault("scheduler.monthly_spec", "0 1 1 * *")
	v.SetDefault("scoring.xp_weight", 0.0)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.output", "stdout")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			// Missing file is fine; defaults carry a dev setup.
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}
