package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

var globalConfig *Config
var viperInstance *viper.Viper

// Load reads the legostore configuration using Viper.
func Load() (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	v := initViper()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	globalConfig = &config
	return globalConfig, nil
}

// LoadWithViper loads configuration using a provided Viper instance.
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &config, nil
}

// LoadFromFile loads configuration from a specific file path.
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config from %s: %w", configPath, err)
	}

	return &config, nil
}

// Reset clears the cached configuration (useful for testing).
func Reset() {
	globalConfig = nil
	viperInstance = nil
}

// GetDatabasePath returns the configured database path.
func GetDatabasePath() (string, error) {
	cfg, err := Load()
	if err != nil {
		return "", err
	}
	return cfg.Database.Path, nil
}

// SetDefaults configures default values for all configuration options.
func SetDefaults(v *viper.Viper) {
	// Database defaults
	v.SetDefault("database.path", "legostore.db")

	// Stamp defaults: SNOMED CT core module / development path provenance
	v.SetDefault("stamp.status", "900000000000073002") // defined (status concept)
	v.SetDefault("stamp.author", "user")
	v.SetDefault("stamp.module", "900000000000207008") // SNOMED CT core module
	v.SetDefault("stamp.path", "900000000000443000")   // development path

	// Hierarchy filter defaults
	v.SetDefault("filter.cache_size", 1000)
	v.SetDefault("filter.hierarchy_timeout_seconds", 30)
	v.SetDefault("filter.fail_open", false)
	v.SetDefault("filter.max_hierarchy_calls_per_second", 0) // unlimited
}

// initViper initializes Viper with configuration sources and defaults.
func initViper() *viper.Viper {
	if viperInstance != nil {
		return viperInstance
	}

	v := viper.New()

	v.SetEnvPrefix("LEGOSTORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	// Merge configs in precedence order: user -> project -> env vars
	v.SetConfigType("toml")
	if home, err := os.UserHomeDir(); err == nil {
		userConfig := filepath.Join(home, ".legostore", "config.toml")
		if _, err := os.Stat(userConfig); err == nil {
			v.SetConfigFile(userConfig)
			v.ReadInConfig()
		}
	}
	if _, err := os.Stat("legostore.toml"); err == nil {
		v.SetConfigFile("legostore.toml")
		v.MergeInConfig()
	}

	viperInstance = v
	return v
}
