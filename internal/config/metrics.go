package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// MetricsConfig is the listener of the prometheus scrape endpoint, kept off
// the public API port.
type MetricsConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Path string `mapstructure:"path"`
}

func (cfg *MetricsConfig) Validate() error {
	if cfg.Port < 1024 || cfg.Port > 65535 {
		return fmt.Errorf("metrics server port must be between 1024 and 65535 (inclusive)")
	}

	if net.ParseIP(cfg.Host) == nil {
		return fmt.Errorf("invalid metrics server host: %v", cfg.Host)
	}

	if !strings.HasPrefix(cfg.Path, "/") {
		return fmt.Errorf("metrics path must start with /: %q", cfg.Path)
	}

	return nil
}

func (cfg *MetricsConfig) Address() string {
	return net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
}

func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Host: "0.0.0.0",
		Port: 2112,
		Path: "/metrics",
	}
}
