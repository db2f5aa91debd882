package types

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

type UnstakeMode string

const (
	// Instant unstake completes within one transaction.
	Instant UnstakeMode = "instant"
	// RequestThenClaim unstake records a pending withdrawal that is claimed
	// after the unbonding period.
	RequestThenClaim UnstakeMode = "request_then_claim"
)

func (m UnstakeMode) ToString() string {
	return string(m)
}

// CallArg names the intent value bound to a contract call argument.
type CallArg string

const (
	ArgAmount       CallArg = "amount"
	ArgOwner        CallArg = "owner"
	ArgWithdrawalID CallArg = "withdrawal_id"
	// ArgOneShare is 10^decimals of the protocol token.
	ArgOneShare CallArg = "one_share"
)

type TvlSource string

const (
	TvlDirect          TvlSource = "direct"
	TvlSupplyTimesRate TvlSource = "supply_times_rate"
)

// ContractCall describes how to reach one contract function.
type ContractCall struct {
	// Contract overrides the default target of the call.
	Contract string `json:"contract,omitempty"`
	// Method is the canonical signature, e.g. "deposit(uint256,address)".
	Method  string    `json:"method"`
	Args    []CallArg `json:"args"`
	Payable bool      `json:"payable,omitempty"`
}

type TvlSpec struct {
	Source TvlSource     `json:"source"`
	Call   *ContractCall `json:"call,omitempty"`
	Supply *ContractCall `json:"supply,omitempty"`
}

// WithdrawalEvent locates the protocol-assigned withdrawal id in the logs of
// a confirmed unstake request.
type WithdrawalEvent struct {
	Signature string `json:"signature"`
	Indexed   bool   `json:"indexed"`
	// Position is the topic index when Indexed, the data word index otherwise.
	Position int `json:"position"`
}

type ProtocolDescriptor struct {
	Symbol                 string           `json:"symbol"`
	Name                   string           `json:"name"`
	Description            string           `json:"description"`
	Token                  string           `json:"token"`
	StakingContract        string           `json:"staking_contract"`
	Decimals               uint8            `json:"decimals"`
	UnstakeMode            UnstakeMode      `json:"unstake_mode"`
	Stake                  ContractCall     `json:"stake"`
	Unstake                ContractCall     `json:"unstake"`
	Claim                  *ContractCall    `json:"claim,omitempty"`
	Balance                ContractCall     `json:"balance"`
	ExchangeRate           *ContractCall    `json:"exchange_rate,omitempty"`
	RateDecimals           uint8            `json:"rate_decimals"`
	Tvl                    TvlSpec          `json:"tvl"`
	WithdrawalEvent        *WithdrawalEvent `json:"withdrawal_event,omitempty"`
	UnbondingPeriodSeconds uint64           `json:"unbonding_period_seconds"`
}

func (d *ProtocolDescriptor) UnbondingPeriod() time.Duration {
	return time.Duration(d.UnbondingPeriodSeconds) * time.Second
}

type ProtocolDescriptors struct {
	Protocols []ProtocolDescriptor `json:"protocols"`
}

func NewProtocolDescriptors(filePath string) (*ProtocolDescriptors, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var descriptors ProtocolDescriptors
	err = json.Unmarshal(data, &descriptors)
	if err != nil {
		return nil, err
	}
	err = ValidateProtocols(&descriptors)
	if err != nil {
		return nil, err
	}

	return &descriptors, nil
}

// ValidateProtocols checks the structure of every descriptor. Method
// signatures are compiled, and therefore checked, by the registry.
func ValidateProtocols(p *ProtocolDescriptors) error {
	if len(p.Protocols) == 0 {
		return fmt.Errorf("protocols must have at least one entry")
	}

	seen := make(map[string]struct{}, len(p.Protocols))
	for i := range p.Protocols {
		d := &p.Protocols[i]
		if d.Symbol == "" {
			return fmt.Errorf("protocol at position %d has an empty symbol", i)
		}
		if _, ok := seen[d.Symbol]; ok {
			return fmt.Errorf("duplicate protocol symbol: %s", d.Symbol)
		}
		seen[d.Symbol] = struct{}{}

		if err := d.Validate(); err != nil {
			return fmt.Errorf("invalid protocol %s: %w", d.Symbol, err)
		}
	}
	return nil
}

func (d *ProtocolDescriptor) Validate() error {
	if !common.IsHexAddress(d.Token) {
		return fmt.Errorf("invalid token address: %q", d.Token)
	}
	if !common.IsHexAddress(d.StakingContract) {
		return fmt.Errorf("invalid staking contract address: %q", d.StakingContract)
	}

	calls := []*ContractCall{&d.Stake, &d.Unstake, &d.Balance, d.ExchangeRate, d.Claim, d.Tvl.Call, d.Tvl.Supply}
	for _, c := range calls {
		if c == nil {
			continue
		}
		if c.Method == "" {
			return fmt.Errorf("contract call with empty method")
		}
		if c.Contract != "" && !common.IsHexAddress(c.Contract) {
			return fmt.Errorf("invalid contract address for %s: %q", c.Method, c.Contract)
		}
	}

	switch d.UnstakeMode {
	case Instant:
		if d.Claim != nil {
			return fmt.Errorf("instant protocols cannot define a claim call")
		}
	case RequestThenClaim:
		if d.Claim == nil {
			return fmt.Errorf("request_then_claim protocols must define a claim call")
		}
		if d.WithdrawalEvent == nil || d.WithdrawalEvent.Signature == "" {
			return fmt.Errorf("request_then_claim protocols must define a withdrawal event")
		}
		if d.WithdrawalEvent.Indexed && (d.WithdrawalEvent.Position < 1 || d.WithdrawalEvent.Position > 3) {
			return fmt.Errorf("indexed withdrawal id must be in topic 1 to 3")
		}
		if !d.WithdrawalEvent.Indexed && d.WithdrawalEvent.Position < 0 {
			return fmt.Errorf("withdrawal id data word cannot be negative")
		}
		if d.UnbondingPeriodSeconds == 0 {
			return fmt.Errorf("request_then_claim protocols must define an unbonding period")
		}
	default:
		return fmt.Errorf("unknown unstake mode: %q", d.UnstakeMode)
	}

	switch d.Tvl.Source {
	case TvlDirect:
		if d.Tvl.Call == nil {
			return fmt.Errorf("direct tvl requires a call")
		}
	case TvlSupplyTimesRate:
		if d.Tvl.Supply == nil {
			return fmt.Errorf("supply_times_rate tvl requires a supply call")
		}
		if d.ExchangeRate == nil {
			return fmt.Errorf("supply_times_rate tvl requires an exchange rate call")
		}
	default:
		return fmt.Errorf("unknown tvl source: %q", d.Tvl.Source)
	}

	return nil
}
