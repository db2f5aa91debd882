// Package signer provides the signing capability consumed by the pipeline.
package signer

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/rs/zerolog/log"

	"github.com/lstlabs/lst-staking-service/internal/config"
)

// ErrSigningDenied is returned when the signer holds no key for the sender
// or refuses to sign the payload.
var ErrSigningDenied = errors.New("signing denied")

type Signer interface {
	// Sign returns tx signed by the key of from for chainID.
	Sign(chainID *big.Int, from common.Address, tx *ethtypes.Transaction) (*ethtypes.Transaction, error)
	// Addresses lists the senders the signer can sign for.
	Addresses() []common.Address
}

// LocalSigner signs with an in-process set of ECDSA keys.
type LocalSigner struct {
	keys  map[common.Address]*ecdsa.PrivateKey
	order []common.Address
}

func New(cfg *config.SignerConfig) (*LocalSigner, error) {
	keys := make([]*ecdsa.PrivateKey, 0, len(cfg.PrivateKeys))
	for i, raw := range cfg.PrivateKeys {
		key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(raw), "0x"))
		if err != nil {
			return nil, fmt.Errorf("invalid signer private key at position %d", i)
		}
		keys = append(keys, key)
	}
	s := NewLocalSigner(keys...)
	if len(s.order) == 0 {
		log.Warn().Msg("no signer keys configured, every write request will be denied")
	}
	return s, nil
}

func NewLocalSigner(keys ...*ecdsa.PrivateKey) *LocalSigner {
	s := &LocalSigner{keys: make(map[common.Address]*ecdsa.PrivateKey, len(keys))}
	for _, key := range keys {
		addr := crypto.PubkeyToAddress(key.PublicKey)
		if _, ok := s.keys[addr]; ok {
			continue
		}
		s.keys[addr] = key
		s.order = append(s.order, addr)
	}
	return s
}

func (s *LocalSigner) Sign(chainID *big.Int, from common.Address, tx *ethtypes.Transaction) (*ethtypes.Transaction, error) {
	key, ok := s.keys[from]
	if !ok {
		return nil, fmt.Errorf("%w: no key for %s", ErrSigningDenied, from.Hex())
	}
	signed, err := ethtypes.SignTx(tx, ethtypes.LatestSignerForChainID(chainID), key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSigningDenied, err)
	}
	return signed, nil
}

func (s *LocalSigner) Addresses() []common.Address {
	out := make([]common.Address, len(s.order))
	copy(out, s.order)
	return out
}
