package config

import (
	"fmt"
	"net/url"
	"strconv"
)

const (
	DbTypeMemory = "memory"
	DbTypeMongo  = "mongo"
)

// DbConfig selects the pending withdrawal tracking store. The memory store
// loses its records on restart, mongo persists them.
type DbConfig struct {
	Type    string `mapstructure:"type"`
	DbName  string `mapstructure:"db-name"`
	Address string `mapstructure:"address"`
}

func (cfg *DbConfig) IsMongo() bool {
	return cfg.Type == DbTypeMongo
}

func (cfg *DbConfig) Validate() error {
	switch cfg.Type {
	case DbTypeMemory:
		return nil
	case DbTypeMongo:
	default:
		return fmt.Errorf("unsupported db type: %q", cfg.Type)
	}

	if cfg.Address == "" {
		return fmt.Errorf("missing db address")
	}

	if cfg.DbName == "" {
		return fmt.Errorf("missing db name")
	}

	u, err := url.Parse(cfg.Address)
	if err != nil {
		return fmt.Errorf("invalid db address: %w", err)
	}

	if u.Scheme != "mongodb" {
		return fmt.Errorf("unsupported db scheme: %s", u.Scheme)
	}

	if u.Host == "" {
		return fmt.Errorf("missing host in db address")
	}

	port := u.Port()
	if port == "" {
		return fmt.Errorf("missing port in db address")
	}

	portNum, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("invalid port in db address: %w", err)
	}

	if portNum < 1024 || portNum > 65535 {
		return fmt.Errorf("port number must be between 1024 and 65535 (inclusive)")
	}

	return nil
}
