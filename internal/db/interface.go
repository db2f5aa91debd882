package db

import (
	"context"

	"github.com/lstlabs/lst-staking-service/internal/types"
)

// DBClient is the PendingWithdrawal tracking store.
type DBClient interface {
	Ping(ctx context.Context) error
	// SavePendingWithdrawal returns a DuplicateKeyError if the key is already tracked.
	SavePendingWithdrawal(ctx context.Context, withdrawal *types.PendingWithdrawal) error
	FindPendingWithdrawal(ctx context.Context, key types.WithdrawalKey) (*types.PendingWithdrawal, error)
	// FindPendingWithdrawalsByOwner returns every tracked withdrawal of owner,
	// soonest unlock first.
	FindPendingWithdrawalsByOwner(ctx context.Context, owner string) ([]*types.PendingWithdrawal, error)
	TransitionToClaimingState(ctx context.Context, key types.WithdrawalKey) error
	TransitionToClaimedState(ctx context.Context, key types.WithdrawalKey, claimTxHash string) error
	// RollbackToPendingState releases a withdrawal whose claim did not land.
	RollbackToPendingState(ctx context.Context, key types.WithdrawalKey) error
}

var (
	_ DBClient = (*Database)(nil)
	_ DBClient = (*MemoryStore)(nil)
)
