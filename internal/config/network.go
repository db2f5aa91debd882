package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// NetworkConfig describes the single chain served by the process and how to
// reach its RPC endpoints.
type NetworkConfig struct {
	Name            string        `mapstructure:"name"`
	ChainID         uint64        `mapstructure:"chain-id"`
	RpcURL          string        `mapstructure:"rpc-url"`
	FallbackRpcURLs []string      `mapstructure:"fallback-rpc-urls"`
	NativeSymbol    string        `mapstructure:"native-symbol"`
	NativeDecimals  uint8         `mapstructure:"native-decimals"`
	DialTimeout     time.Duration `mapstructure:"dial-timeout"`
	RpcTimeout      time.Duration `mapstructure:"rpc-timeout"`
	// RateLimit is the sustained RPC calls per second, 0 disables limiting.
	RateLimit  float64 `mapstructure:"rate-limit"`
	BurstLimit int     `mapstructure:"burst-limit"`
}

func (cfg *NetworkConfig) Validate() error {
	if cfg.Name == "" {
		return errors.New("network name cannot be empty")
	}

	if cfg.ChainID == 0 {
		return errors.New("chain-id must be positive")
	}

	for _, u := range append([]string{cfg.RpcURL}, cfg.FallbackRpcURLs...) {
		if err := validateRpcURL(u); err != nil {
			return err
		}
	}

	if cfg.NativeDecimals == 0 {
		return errors.New("native-decimals must be positive")
	}

	if cfg.DialTimeout <= 0 {
		return errors.New("dial-timeout must be positive")
	}

	if cfg.RpcTimeout <= 0 {
		return errors.New("rpc-timeout must be positive")
	}

	if cfg.RateLimit < 0 {
		return errors.New("rate-limit cannot be negative")
	}

	if cfg.RateLimit > 0 && cfg.BurstLimit <= 0 {
		return errors.New("burst-limit must be positive when rate-limit is set")
	}

	return nil
}

// RpcURLs returns the primary endpoint followed by the fallbacks.
func (cfg *NetworkConfig) RpcURLs() []string {
	return append([]string{cfg.RpcURL}, cfg.FallbackRpcURLs...)
}

func validateRpcURL(raw string) error {
	if raw == "" {
		return errors.New("rpc-url cannot be empty")
	}

	parsedURL, err := url.ParseRequestURI(raw)
	if err != nil {
		return fmt.Errorf("invalid rpc url: %s", raw)
	}

	switch parsedURL.Scheme {
	case "http", "https", "ws", "wss":
		return nil
	default:
		return fmt.Errorf("rpc url must use http, https, ws or wss: %s", raw)
	}
}
