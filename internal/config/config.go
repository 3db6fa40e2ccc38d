// Package config loads lanes settings from defaults, YAML files, and the environment.
package config

import (
	"time"
)

// Config is the full lanes configuration.
type Config struct {
	Storage StorageConfig `yaml:"storage" mapstructure:"storage"`
	Board   BoardConfig   `yaml:"board" mapstructure:"board"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// StorageConfig selects where the board is mirrored.
type StorageConfig struct {
	// file, sqlite, redis, postgres or memory
	Backend string `yaml:"backend" mapstructure:"backend"`
	// Board directory (file) or database file (sqlite). Empty means ~/.lanes/<board>.
	Path        string `yaml:"path,omitempty" mapstructure:"path"`
	Key         string `yaml:"key" mapstructure:"key"`
	RedisURL    string `yaml:"redis_url,omitempty" mapstructure:"redis_url"`
	PostgresDSN string `yaml:"postgres_dsn,omitempty" mapstructure:"postgres_dsn"`
	// Whether clearing the whole board is written through.
	PersistEmpty bool `yaml:"persist_empty" mapstructure:"persist_empty"`
}

// BoardConfig holds board-level behavior.
type BoardConfig struct {
	// Name overrides the namespace derived from the git root.
	Name string `yaml:"name,omitempty" mapstructure:"name"`
	// Seed is a YAML or JSON file of default tasks. Empty uses the bundled set.
	Seed string `yaml:"seed,omitempty" mapstructure:"seed"`
	// Timezone for calendar-day comparisons and date entry, e.g. "Europe/Berlin".
	Timezone string `yaml:"timezone" mapstructure:"timezone"`
}

type ServerConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Location resolves the configured timezone. "" and "Local" mean the system zone.
func (b BoardConfig) Location() (*time.Location, error) {
	switch b.Timezone {
	case "", "Local", "local":
		return time.Local, nil
	default:
		return time.LoadLocation(b.Timezone)
	}
}
