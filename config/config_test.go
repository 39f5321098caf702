package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, DefaultConfig().ValidateBasic())
}

func TestValidateBasic(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty listen addr", func(c *Config) { c.ListenAddr = "" }},
		{"unknown backend", func(c *Config) { c.DBBackend = "rocksdb" }},
		{"empty db dir", func(c *Config) { c.DBDir = "" }},
		{"unknown log level", func(c *Config) { c.LogLevel = "trace" }},
		{"prometheus without addr", func(c *Config) { c.Prometheus = true; c.PrometheusAddr = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			assert.Error(t, cfg.ValidateBasic())
		})
	}
}
