package registry

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/lstlabs/lst-staking-service/internal/types"
)

// TxCall is a ready-to-send contract invocation.
type TxCall struct {
	To     common.Address
	Data   []byte
	Value  *big.Int
	Method string
}

// Protocol is a registered descriptor with its contract calls compiled.
// It is immutable once the registry is built.
type Protocol struct {
	Descriptor      types.ProtocolDescriptor
	Token           common.Address
	StakingContract common.Address

	stake    *boundCall
	unstake  *boundCall
	claim    *boundCall
	balance  *boundCall
	rate     *boundCall
	tvl      *boundCall
	supply   *boundCall
	oneShare *big.Int

	withdrawalTopic common.Hash
}

func newProtocol(d types.ProtocolDescriptor) (*Protocol, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	p := &Protocol{
		Descriptor:      d,
		Token:           common.HexToAddress(d.Token),
		StakingContract: common.HexToAddress(d.StakingContract),
		oneShare:        new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(d.Decimals)), nil),
	}

	var err error
	if p.stake, err = compileCall(d.Stake, p.StakingContract); err != nil {
		return nil, fmt.Errorf("stake: %w", err)
	}
	if p.unstake, err = compileCall(d.Unstake, p.StakingContract); err != nil {
		return nil, fmt.Errorf("unstake: %w", err)
	}
	if p.balance, err = compileCall(d.Balance, p.Token); err != nil {
		return nil, fmt.Errorf("balance: %w", err)
	}
	if d.Claim != nil {
		if p.claim, err = compileCall(*d.Claim, p.StakingContract); err != nil {
			return nil, fmt.Errorf("claim: %w", err)
		}
	}
	if d.ExchangeRate != nil {
		if p.rate, err = compileCall(*d.ExchangeRate, p.Token); err != nil {
			return nil, fmt.Errorf("exchange rate: %w", err)
		}
	}
	if d.Tvl.Call != nil {
		if p.tvl, err = compileCall(*d.Tvl.Call, p.StakingContract); err != nil {
			return nil, fmt.Errorf("tvl: %w", err)
		}
	}
	if d.Tvl.Supply != nil {
		if p.supply, err = compileCall(*d.Tvl.Supply, p.Token); err != nil {
			return nil, fmt.Errorf("tvl supply: %w", err)
		}
	}
	if d.WithdrawalEvent != nil {
		if p.withdrawalTopic, err = eventTopic(d.WithdrawalEvent.Signature); err != nil {
			return nil, fmt.Errorf("withdrawal event: %w", err)
		}
	}
	return p, nil
}

func (p *Protocol) Symbol() string {
	return p.Descriptor.Symbol
}

func (p *Protocol) UnstakeMode() types.UnstakeMode {
	return p.Descriptor.UnstakeMode
}

func (p *Protocol) HasExchangeRate() bool {
	return p.rate != nil
}

// BuildIntentCall encodes the contract call that carries out intent.
func (p *Protocol) BuildIntentCall(intent types.Intent) (*TxCall, error) {
	values := callValues{
		owner:        intent.From,
		amount:       intent.Amount,
		withdrawalID: intent.WithdrawalID,
		oneShare:     p.oneShare,
	}
	switch intent.Kind {
	case types.StakeIntent:
		return p.stake.encode(values)
	case types.UnstakeIntent:
		return p.unstake.encode(values)
	case types.ClaimIntent:
		if p.claim == nil {
			return nil, fmt.Errorf("%w: %s", ErrClaimNotSupported, p.Symbol())
		}
		return p.claim.encode(values)
	default:
		return nil, fmt.Errorf("unknown intent kind: %q", intent.Kind)
	}
}

func (p *Protocol) BalanceCall(owner common.Address) (*TxCall, error) {
	return p.balance.encode(callValues{owner: owner, oneShare: p.oneShare})
}

func (p *Protocol) ExchangeRateCall() (*TxCall, error) {
	if p.rate == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoExchangeRate, p.Symbol())
	}
	return p.rate.encode(callValues{oneShare: p.oneShare})
}

// TvlCall is the direct total-locked accessor, nil for supply_times_rate protocols.
func (p *Protocol) TvlCall() (*TxCall, error) {
	if p.tvl == nil {
		return nil, nil
	}
	return p.tvl.encode(callValues{oneShare: p.oneShare})
}

// SupplyCall is the total supply accessor of supply_times_rate protocols.
func (p *Protocol) SupplyCall() (*TxCall, error) {
	if p.supply == nil {
		return nil, nil
	}
	return p.supply.encode(callValues{oneShare: p.oneShare})
}

// DecodeAmount decodes a uint256 accessor result.
func (p *Protocol) DecodeAmount(data []byte) (*big.Int, error) {
	return decodeUint256(data)
}

// WithdrawalID extracts the protocol-assigned withdrawal id from the logs of
// a confirmed unstake request.
func (p *Protocol) WithdrawalID(logs []*ethtypes.Log) (*big.Int, error) {
	ev := p.Descriptor.WithdrawalEvent
	if ev == nil {
		return nil, fmt.Errorf("%w: %s has no withdrawal event", ErrWithdrawalIDNotFound, p.Symbol())
	}
	for _, l := range logs {
		if l == nil || len(l.Topics) == 0 || l.Topics[0] != p.withdrawalTopic {
			continue
		}
		if l.Address != p.unstake.to {
			continue
		}
		if ev.Indexed {
			if len(l.Topics) <= ev.Position {
				continue
			}
			return new(big.Int).SetBytes(l.Topics[ev.Position].Bytes()), nil
		}
		start := ev.Position * 32
		if len(l.Data) < start+32 {
			continue
		}
		return new(big.Int).SetBytes(l.Data[start : start+32]), nil
	}
	return nil, fmt.Errorf("%w: no %s log in receipt", ErrWithdrawalIDNotFound, ev.Signature)
}
