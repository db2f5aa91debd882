package types

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

type IntentKind string

const (
	StakeIntent   IntentKind = "stake"
	UnstakeIntent IntentKind = "unstake"
	ClaimIntent   IntentKind = "claim"
)

func (k IntentKind) ToString() string {
	return string(k)
}

// Intent is a single write request. Amounts are always in the smallest unit.
type Intent struct {
	Kind     IntentKind
	Protocol string
	From     common.Address
	// Amount is set for stake and unstake.
	Amount *big.Int
	// WithdrawalID is set for claim.
	WithdrawalID *big.Int
	// IdempotencyToken is optional and supplied by the caller.
	IdempotencyToken string
}

func NewStakeIntent(protocol string, from common.Address, amount *big.Int, token string) Intent {
	return Intent{Kind: StakeIntent, Protocol: protocol, From: from, Amount: amount, IdempotencyToken: token}
}

func NewUnstakeIntent(protocol string, from common.Address, amount *big.Int, token string) Intent {
	return Intent{Kind: UnstakeIntent, Protocol: protocol, From: from, Amount: amount, IdempotencyToken: token}
}

func NewClaimIntent(protocol string, from common.Address, withdrawalID *big.Int, token string) Intent {
	return Intent{Kind: ClaimIntent, Protocol: protocol, From: from, WithdrawalID: withdrawalID, IdempotencyToken: token}
}

// Fingerprint identifies the logical intent for duplicate detection.
func (i Intent) Fingerprint() string {
	quantity := "-"
	switch {
	case i.Kind == ClaimIntent && i.WithdrawalID != nil:
		quantity = i.WithdrawalID.String()
	case i.Amount != nil:
		quantity = i.Amount.String()
	}
	return strings.Join([]string{
		i.Kind.ToString(),
		i.Protocol,
		strings.ToLower(i.From.Hex()),
		quantity,
		i.IdempotencyToken,
	}, "|")
}
