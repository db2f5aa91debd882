package types

import (
	"fmt"
	"math/big"
	"strings"
	"time"
)

type WithdrawalState string

const (
	WithdrawalPending  WithdrawalState = "pending"
	WithdrawalClaiming WithdrawalState = "claiming"
	WithdrawalClaimed  WithdrawalState = "claimed"
)

func (s WithdrawalState) ToString() string {
	return string(s)
}

func FromStringToWithdrawalState(s string) (WithdrawalState, error) {
	switch s {
	case "pending":
		return WithdrawalPending, nil
	case "claiming":
		return WithdrawalClaiming, nil
	case "claimed":
		return WithdrawalClaimed, nil
	default:
		return "", fmt.Errorf("invalid withdrawal state: %s", s)
	}
}

// WithdrawalKey identifies a pending withdrawal in the tracking store.
type WithdrawalKey struct {
	Protocol string
	Owner    string
	ID       string
}

// NewWithdrawalKey normalizes the owner address so that checksummed and
// lower-case spellings map to the same record.
func NewWithdrawalKey(protocol, owner string, id *big.Int) WithdrawalKey {
	return WithdrawalKey{
		Protocol: protocol,
		Owner:    strings.ToLower(owner),
		ID:       id.String(),
	}
}

func (k WithdrawalKey) String() string {
	return k.Protocol + "/" + k.Owner + "/" + k.ID
}

// PendingWithdrawal is created when an unstake request of a request-then-claim
// protocol confirms, and is marked claimed once the matching claim confirms.
type PendingWithdrawal struct {
	Protocol      string
	Owner         string
	ID            *big.Int
	Amount        *big.Int
	UnlockAt      time.Time
	RequestTxHash string
	ClaimTxHash   string
	State         WithdrawalState
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (w *PendingWithdrawal) Key() WithdrawalKey {
	return NewWithdrawalKey(w.Protocol, w.Owner, w.ID)
}

// IsUnlocked reports whether the unbonding delay has elapsed at now.
func (w *PendingWithdrawal) IsUnlocked(now time.Time) bool {
	return !now.Before(w.UnlockAt)
}
