package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/lstlabs/lst-staking-service/internal/types"
)

type NetworkPublic struct {
	Name           string `json:"name"`
	ChainID        string `json:"chainId"`
	NativeSymbol   string `json:"nativeSymbol"`
	NativeDecimals uint8  `json:"nativeDecimals"`
}

// GetNetworks lists the networks served by the process, which is always the
// configured one.
func (s *Services) GetNetworks(ctx context.Context) []NetworkPublic {
	return []NetworkPublic{{
		Name:           s.Network.Name,
		ChainID:        s.Network.ChainID.String(),
		NativeSymbol:   s.Network.NativeSymbol,
		NativeDecimals: s.Network.NativeDecimals,
	}}
}

func (s *Services) checkNetwork(ctx context.Context, network string) *types.Error {
	if network != s.Network.Name {
		log.Ctx(ctx).Debug().Str("network", network).Msg("unknown network requested")
		return types.NewErrorWithMsg(
			http.StatusNotFound, types.UnknownNetwork, fmt.Sprintf("unknown network: %s", network),
		)
	}
	return nil
}
