// Package config loads legostore configuration with Viper: TOML files plus
// LEGOSTORE_* environment overrides.
package config

import "time"

// Config is the root legostore configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Stamp    StampConfig    `mapstructure:"stamp"`
	Filter   FilterConfig   `mapstructure:"filter"`
}

// DatabaseConfig configures the SQLite database.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// StampConfig supplies the default concept identifiers used to complete a
// partial Stamp at commit time.
type StampConfig struct {
	Status string `mapstructure:"status"`
	Author string `mapstructure:"author"`
	Module string `mapstructure:"module"`
	Path   string `mapstructure:"path"`
}

// FilterConfig tunes the hierarchy filter's memo cache and its external
// hierarchy-service boundary.
type FilterConfig struct {
	CacheSize                  int     `mapstructure:"cache_size"`
	HierarchyTimeoutSeconds    int     `mapstructure:"hierarchy_timeout_seconds"`
	FailOpen                   bool    `mapstructure:"fail_open"`
	MaxHierarchyCallsPerSecond float64 `mapstructure:"max_hierarchy_calls_per_second"`
}

// HierarchyTimeout returns the configured timeout as a duration.
func (f FilterConfig) HierarchyTimeout() time.Duration {
	return time.Duration(f.HierarchyTimeoutSeconds) * time.Second
}
