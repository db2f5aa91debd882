package services

import (
	"context"
	"fmt"
	"math/big"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/lstlabs/lst-staking-service/internal/observability/tracing"
	"github.com/lstlabs/lst-staking-service/internal/registry"
	"github.com/lstlabs/lst-staking-service/internal/types"
	"github.com/lstlabs/lst-staking-service/internal/utils"
)

type LstTvlPublic struct {
	Symbol string `json:"symbol"`
	AmountPublic
}

// GetTvl reads the total value locked of one protocol, in the native asset.
func (s *Services) GetTvl(ctx context.Context, network, symbol string) (*AmountPublic, *types.Error) {
	proto, apiErr := s.resolve(ctx, network, symbol)
	if apiErr != nil {
		return nil, apiErr
	}
	tvl, err := s.tvl(ctx, proto)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("protocol", symbol).Msg("error while reading tvl")
		return nil, toApiError(err)
	}
	return tvl, nil
}

// GetNetworkTvl reads the tvl of every protocol concurrently.
func (s *Services) GetNetworkTvl(ctx context.Context, network string) ([]LstTvlPublic, *types.Error) {
	if apiErr := s.checkNetwork(ctx, network); apiErr != nil {
		return nil, apiErr
	}

	protocols := s.Registry.ListAll()
	results := make([]LstTvlPublic, len(protocols))
	g, gctx := errgroup.WithContext(ctx)
	for i, proto := range protocols {
		i, proto := i, proto
		g.Go(func() error {
			tvl, err := s.tvl(gctx, proto)
			if err != nil {
				return fmt.Errorf("%s: %w", proto.Symbol(), err)
			}
			results[i] = LstTvlPublic{Symbol: proto.Symbol(), AmountPublic: *tvl}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("error while reading network tvl")
		return nil, toApiError(err)
	}
	return results, nil
}

func (s *Services) tvl(ctx context.Context, proto *registry.Protocol) (*AmountPublic, error) {
	decimals := s.Network.NativeDecimals

	switch proto.Descriptor.Tvl.Source {
	case types.TvlSupplyTimesRate:
		amount, block, err := s.supplyTimesRate(ctx, proto)
		if err != nil {
			return nil, err
		}
		return newAmountPublic(amount, decimals, block), nil
	default:
		call, err := proto.TvlCall()
		if err != nil {
			return nil, err
		}
		amount, block, err := s.readAmount(ctx, proto, "tvl", call, nil)
		if err != nil {
			return nil, err
		}
		return newAmountPublic(amount, decimals, block), nil
	}
}

// supplyTimesRate reads supply and rate at one pinned block and rounds the
// product down.
func (s *Services) supplyTimesRate(ctx context.Context, proto *registry.Protocol) (*big.Int, uint64, error) {
	supplyCall, err := proto.SupplyCall()
	if err != nil {
		return nil, 0, err
	}
	head, err := tracing.WrapWithSpan(ctx, "block_number", func() (uint64, error) {
		return s.Chain.BlockNumber(ctx)
	})
	if err != nil {
		return nil, 0, err
	}
	block := new(big.Int).SetUint64(head)

	var supply, rate *big.Int
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		supply, _, err = s.readAmount(gctx, proto, "total_supply", supplyCall, block)
		return err
	})
	g.Go(func() error {
		var err error
		rate, _, err = s.exchangeRate(gctx, proto, block)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return utils.MulDivDown(supply, rate, proto.Descriptor.RateDecimals), head, nil
}
