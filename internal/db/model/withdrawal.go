package model

import (
	"fmt"
	"math/big"
	"time"

	"github.com/lstlabs/lst-staking-service/internal/types"
)

// PendingWithdrawalDocument is keyed by "protocol/owner/id". Amounts and ids
// are stored as decimal strings since they can exceed int64. UnlockAt is in
// unix milliseconds rounded up, it never reads back earlier than recorded.
type PendingWithdrawalDocument struct {
	Key           string                `bson:"_id"` // Primary key of db collection
	Protocol      string                `bson:"protocol"`
	Owner         string                `bson:"owner"`
	WithdrawalID  string                `bson:"withdrawal_id"`
	Amount        string                `bson:"amount"`
	UnlockAt      int64                 `bson:"unlock_at"`
	RequestTxHash string                `bson:"request_tx_hash"`
	ClaimTxHash   string                `bson:"claim_tx_hash,omitempty"`
	State         types.WithdrawalState `bson:"state"`
	CreatedAt     int64                 `bson:"created_at"`
	UpdatedAt     int64                 `bson:"updated_at"`
}

func FromPendingWithdrawal(w *types.PendingWithdrawal) PendingWithdrawalDocument {
	return PendingWithdrawalDocument{
		Key:           w.Key().String(),
		Protocol:      w.Protocol,
		Owner:         w.Key().Owner,
		WithdrawalID:  w.ID.String(),
		Amount:        w.Amount.String(),
		UnlockAt:      unixMilliCeil(w.UnlockAt),
		RequestTxHash: w.RequestTxHash,
		ClaimTxHash:   w.ClaimTxHash,
		State:         w.State,
		CreatedAt:     w.CreatedAt.Unix(),
		UpdatedAt:     w.UpdatedAt.Unix(),
	}
}

func (d *PendingWithdrawalDocument) ToPendingWithdrawal() (*types.PendingWithdrawal, error) {
	id, ok := new(big.Int).SetString(d.WithdrawalID, 10)
	if !ok {
		return nil, fmt.Errorf("invalid withdrawal id in document %s", d.Key)
	}
	amount, ok := new(big.Int).SetString(d.Amount, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount in document %s", d.Key)
	}
	return &types.PendingWithdrawal{
		Protocol:      d.Protocol,
		Owner:         d.Owner,
		ID:            id,
		Amount:        amount,
		UnlockAt:      time.UnixMilli(d.UnlockAt).UTC(),
		RequestTxHash: d.RequestTxHash,
		ClaimTxHash:   d.ClaimTxHash,
		State:         d.State,
		CreatedAt:     time.Unix(d.CreatedAt, 0).UTC(),
		UpdatedAt:     time.Unix(d.UpdatedAt, 0).UTC(),
	}, nil
}

func unixMilliCeil(t time.Time) int64 {
	ms := t.UnixMilli()
	if time.UnixMilli(ms).Before(t) {
		ms++
	}
	return ms
}
