// Package config holds the daemon configuration.
package config

import (
	"fmt"
)

// Config is the dmktd configuration, loadable from file, environment and
// flags through viper.
type Config struct {
	// Address the transaction socket listens on.
	ListenAddr string `mapstructure:"listen_addr"`

	// Database backend: memdb or goleveldb.
	DBBackend string `mapstructure:"db_backend"`

	// Directory holding the database files.
	DBDir string `mapstructure:"db_dir"`

	// Minimum log level: debug, info or error.
	LogLevel string `mapstructure:"log_level"`

	// When true, serve prometheus metrics on PrometheusAddr.
	Prometheus     bool   `mapstructure:"prometheus"`
	PrometheusAddr string `mapstructure:"prometheus_addr"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ListenAddr:     "tcp://127.0.0.1:26658",
		DBBackend:      "goleveldb",
		DBDir:          "data",
		LogLevel:       "info",
		Prometheus:     false,
		PrometheusAddr: ":26660",
	}
}

// ValidateBasic performs basic validation and returns an error if any check
// fails.
func (cfg *Config) ValidateBasic() error {
	if cfg.ListenAddr == "" {
		return fmt.Errorf("listen_addr must not be empty")
	}
	switch cfg.DBBackend {
	case "memdb", "goleveldb":
	default:
		return fmt.Errorf("unknown db_backend %q", cfg.DBBackend)
	}
	if cfg.DBDir == "" {
		return fmt.Errorf("db_dir must not be empty")
	}
	switch cfg.LogLevel {
	case "debug", "info", "error":
	default:
		return fmt.Errorf("unknown log_level %q", cfg.LogLevel)
	}
	if cfg.Prometheus && cfg.PrometheusAddr == "" {
		return fmt.Errorf("prometheus_addr must not be empty when prometheus is enabled")
	}
	return nil
}
