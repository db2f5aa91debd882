package db

import (
	"context"
	"fmt"
	"math/big"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lstlabs/lst-staking-service/internal/types"
	"github.com/lstlabs/lst-staking-service/internal/utils"
)

// MemoryStore is an in-process DBClient. Records live in a map keyed by the
// withdrawal key and are copied on every read and write.
type MemoryStore struct {
	mu          sync.RWMutex
	withdrawals map[string]*types.PendingWithdrawal
	now         func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		withdrawals: make(map[string]*types.PendingWithdrawal),
		now:         time.Now,
	}
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *MemoryStore) SavePendingWithdrawal(ctx context.Context, withdrawal *types.PendingWithdrawal) error {
	key := withdrawal.Key().String()

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.withdrawals[key]; ok {
		return &DuplicateKeyError{
			Key:     key,
			Message: "Withdrawal already tracked",
		}
	}
	stored := copyWithdrawal(withdrawal)
	stored.Owner = withdrawal.Key().Owner
	s.withdrawals[key] = stored
	return nil
}

func (s *MemoryStore) FindPendingWithdrawal(ctx context.Context, key types.WithdrawalKey) (*types.PendingWithdrawal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.withdrawals[key.String()]
	if !ok {
		return nil, &NotFoundError{
			Key:     key.String(),
			Message: "Withdrawal not found",
		}
	}
	return copyWithdrawal(w), nil
}

func (s *MemoryStore) FindPendingWithdrawalsByOwner(ctx context.Context, owner string) ([]*types.PendingWithdrawal, error) {
	owner = strings.ToLower(owner)

	s.mu.RLock()
	out := make([]*types.PendingWithdrawal, 0)
	for _, w := range s.withdrawals {
		if w.Owner == owner {
			out = append(out, copyWithdrawal(w))
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].UnlockAt.Equal(out[j].UnlockAt) {
			return out[i].UnlockAt.Before(out[j].UnlockAt)
		}
		return out[i].Key().String() < out[j].Key().String()
	})
	return out, nil
}

func (s *MemoryStore) TransitionToClaimingState(ctx context.Context, key types.WithdrawalKey) error {
	return s.transitionState(key, types.WithdrawalClaiming, utils.QualifiedStatesToClaiming(), "")
}

func (s *MemoryStore) TransitionToClaimedState(ctx context.Context, key types.WithdrawalKey, claimTxHash string) error {
	return s.transitionState(key, types.WithdrawalClaimed, utils.QualifiedStatesToClaimed(), claimTxHash)
}

func (s *MemoryStore) RollbackToPendingState(ctx context.Context, key types.WithdrawalKey) error {
	return s.transitionState(key, types.WithdrawalPending, utils.QualifiedStatesToPending(), "")
}

func (s *MemoryStore) transitionState(
	key types.WithdrawalKey, newState types.WithdrawalState,
	eligiblePreviousState []types.WithdrawalState, claimTxHash string,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.withdrawals[key.String()]
	if !ok {
		return &NotFoundError{
			Key:     key.String(),
			Message: "Withdrawal not found",
		}
	}
	if !slices.Contains(eligiblePreviousState, w.State) {
		return &InvalidStateTransitionError{
			Key:          key.String(),
			CurrentState: w.State.ToString(),
			Message:      fmt.Sprintf("Withdrawal in state %s cannot transition to %s", w.State, newState),
		}
	}
	w.State = newState
	if claimTxHash != "" {
		w.ClaimTxHash = claimTxHash
	}
	w.UpdatedAt = s.now()
	return nil
}

func copyWithdrawal(w *types.PendingWithdrawal) *types.PendingWithdrawal {
	out := *w
	if w.ID != nil {
		out.ID = new(big.Int).Set(w.ID)
	}
	if w.Amount != nil {
		out.Amount = new(big.Int).Set(w.Amount)
	}
	return &out
}
