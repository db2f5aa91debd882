package config

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
)

// SignerConfig holds the hex encoded keys of the local signer. When set
// through the environment (SIGNER_PRIVATE__KEYS) the keys are comma separated.
// An empty list runs the service read-only: every write is denied.
type SignerConfig struct {
	PrivateKeys []string `mapstructure:"private-keys"`
}

func (cfg *SignerConfig) Validate() error {
	for i, k := range cfg.PrivateKeys {
		if _, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(k), "0x")); err != nil {
			return fmt.Errorf("invalid signer private key at position %d", i)
		}
	}
	return nil
}
