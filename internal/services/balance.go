package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/lstlabs/lst-staking-service/internal/types"
	"github.com/lstlabs/lst-staking-service/internal/utils"
)

// GetBalance reads the LST balance of address. It never signs nor mutates.
func (s *Services) GetBalance(ctx context.Context, network, address, symbol string) (*AmountPublic, *types.Error) {
	proto, apiErr := s.resolve(ctx, network, symbol)
	if apiErr != nil {
		return nil, apiErr
	}
	owner, err := utils.ParseAddress(address)
	if err != nil {
		return nil, toApiError(err)
	}

	call, err := proto.BalanceCall(owner)
	if err != nil {
		return nil, toApiError(err)
	}
	amount, block, err := s.readAmount(ctx, proto, "balance", call, nil)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("protocol", symbol).Str("address", address).
			Msg("error while reading balance")
		return nil, toApiError(err)
	}
	return newAmountPublic(amount, proto.Descriptor.Decimals, block), nil
}
