package registry

import (
	"errors"
	"fmt"

	"github.com/lstlabs/lst-staking-service/internal/types"
)

var (
	ErrUnknownProtocol      = errors.New("unknown protocol")
	ErrClaimNotSupported    = errors.New("protocol does not support claim")
	ErrNoExchangeRate       = errors.New("protocol exposes no exchange rate")
	ErrWithdrawalIDNotFound = errors.New("withdrawal id not found")
)

// Registry holds one compiled Protocol per symbol, in registration order.
type Registry struct {
	ordered  []*Protocol
	bySymbol map[string]*Protocol
}

func New(descriptors []types.ProtocolDescriptor) (*Registry, error) {
	r := &Registry{
		ordered:  make([]*Protocol, 0, len(descriptors)),
		bySymbol: make(map[string]*Protocol, len(descriptors)),
	}
	for _, d := range descriptors {
		if _, ok := r.bySymbol[d.Symbol]; ok {
			return nil, fmt.Errorf("duplicate protocol symbol: %s", d.Symbol)
		}
		p, err := newProtocol(d)
		if err != nil {
			return nil, fmt.Errorf("invalid protocol %s: %w", d.Symbol, err)
		}
		r.ordered = append(r.ordered, p)
		r.bySymbol[d.Symbol] = p
	}
	return r, nil
}

// Resolve returns the protocol registered under symbol.
func (r *Registry) Resolve(symbol string) (*Protocol, error) {
	p, ok := r.bySymbol[symbol]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProtocol, symbol)
	}
	return p, nil
}

// ListAll returns every protocol in registration order.
func (r *Registry) ListAll() []*Protocol {
	out := make([]*Protocol, len(r.ordered))
	copy(out, r.ordered)
	return out
}
