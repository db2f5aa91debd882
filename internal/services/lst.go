package services

import (
	"context"
	"math/big"

	"github.com/rs/zerolog/log"

	"github.com/lstlabs/lst-staking-service/internal/chain"
	"github.com/lstlabs/lst-staking-service/internal/observability/tracing"
	"github.com/lstlabs/lst-staking-service/internal/registry"
	"github.com/lstlabs/lst-staking-service/internal/types"
	"github.com/lstlabs/lst-staking-service/internal/utils"
)

type LstPublic struct {
	Symbol          string `json:"symbol"`
	Name            string `json:"name"`
	ContractAddress string `json:"contractAddress"`
	TokenAddress    string `json:"tokenAddress"`
	Decimals        uint8  `json:"decimals"`
	UnstakeMode     string `json:"unstakeMode"`
}

type ExchangeRatePublic struct {
	Rate         string `json:"rate"`
	Formatted    string `json:"formatted"`
	RateDecimals uint8  `json:"rateDecimals"`
	AsOf         uint64 `json:"asOf"`
}

type LstDetailPublic struct {
	LstPublic
	Description string `json:"description"`
	// UnbondingPeriodSeconds is zero for instant protocols.
	UnbondingPeriodSeconds uint64              `json:"unbondingPeriodSeconds"`
	ExchangeRate           *ExchangeRatePublic `json:"exchangeRate,omitempty"`
}

// AmountPublic is an on-chain amount read at block AsOf.
type AmountPublic struct {
	Amount    string `json:"amount"`
	Formatted string `json:"formatted"`
	Decimals  uint8  `json:"decimals"`
	AsOf      uint64 `json:"asOf"`
}

func newAmountPublic(amount *big.Int, decimals uint8, block uint64) *AmountPublic {
	return &AmountPublic{
		Amount:    amount.String(),
		Formatted: utils.FormatUnits(amount, decimals),
		Decimals:  decimals,
		AsOf:      block,
	}
}

func fromProtocol(p *registry.Protocol) LstPublic {
	return LstPublic{
		Symbol:          p.Symbol(),
		Name:            p.Descriptor.Name,
		ContractAddress: p.StakingContract.Hex(),
		TokenAddress:    p.Token.Hex(),
		Decimals:        p.Descriptor.Decimals,
		UnstakeMode:     p.UnstakeMode().ToString(),
	}
}

// ListLsts returns the registered protocols in registration order.
func (s *Services) ListLsts(ctx context.Context, network string) ([]LstPublic, *types.Error) {
	if err := s.checkNetwork(ctx, network); err != nil {
		return nil, err
	}
	protocols := s.Registry.ListAll()
	lsts := make([]LstPublic, 0, len(protocols))
	for _, p := range protocols {
		lsts = append(lsts, fromProtocol(p))
	}
	return lsts, nil
}

func (s *Services) GetLst(ctx context.Context, network, symbol string) (*LstDetailPublic, *types.Error) {
	proto, apiErr := s.resolve(ctx, network, symbol)
	if apiErr != nil {
		return nil, apiErr
	}

	detail := &LstDetailPublic{
		LstPublic:              fromProtocol(proto),
		Description:            proto.Descriptor.Description,
		UnbondingPeriodSeconds: proto.Descriptor.UnbondingPeriodSeconds,
	}
	if !proto.HasExchangeRate() {
		return detail, nil
	}

	rate, block, err := s.exchangeRate(ctx, proto, nil)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("protocol", symbol).Msg("error while reading exchange rate")
		return nil, toApiError(err)
	}
	detail.ExchangeRate = &ExchangeRatePublic{
		Rate:         rate.String(),
		Formatted:    utils.FormatUnits(rate, proto.Descriptor.RateDecimals),
		RateDecimals: proto.Descriptor.RateDecimals,
		AsOf:         block,
	}
	return detail, nil
}

func (s *Services) resolve(ctx context.Context, network, symbol string) (*registry.Protocol, *types.Error) {
	if err := s.checkNetwork(ctx, network); err != nil {
		return nil, err
	}
	proto, err := s.Registry.Resolve(symbol)
	if err != nil {
		return nil, toApiError(err)
	}
	return proto, nil
}

// readAmount executes a uint256 accessor. A nil block reads the head.
func (s *Services) readAmount(
	ctx context.Context, proto *registry.Protocol, span string, call *registry.TxCall, block *big.Int,
) (*big.Int, uint64, error) {
	read, err := tracing.WrapWithSpan(ctx, span, func() (*chain.StateRead, error) {
		return s.Chain.ReadState(ctx, call.To, call.Data, block)
	})
	if err != nil {
		return nil, 0, err
	}
	amount, err := proto.DecodeAmount(read.Data)
	if err != nil {
		return nil, 0, err
	}
	return amount, read.BlockNumber, nil
}

func (s *Services) exchangeRate(ctx context.Context, proto *registry.Protocol, block *big.Int) (*big.Int, uint64, error) {
	call, err := proto.ExchangeRateCall()
	if err != nil {
		return nil, 0, err
	}
	return s.readAmount(ctx, proto, "exchange_rate", call, block)
}
