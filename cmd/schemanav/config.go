package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds CLI defaults so the database URL does not have to be
// repeated on every invocation.
type Config struct {
	Database DatabaseConfig
	Output   OutputConfig
}

// DatabaseConfig holds connection settings.
type DatabaseConfig struct {
	URL    string
	Schema string
}

// OutputConfig holds presentation settings.
type OutputConfig struct {
	Format string
}

// LoadConfig reads configuration from file and env. Env var overrides use
// prefix SCHEMANAV_.
func LoadConfig() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("database.url", "")
	v.SetDefault("database.schema", "")
	v.SetDefault("output.format", "text")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("SCHEMANAV_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "schemanav"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("SCHEMANAV")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}
