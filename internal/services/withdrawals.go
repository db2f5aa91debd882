package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/lstlabs/lst-staking-service/internal/types"
	"github.com/lstlabs/lst-staking-service/internal/utils"
)

type WithdrawalPublic struct {
	Protocol      string `json:"protocol"`
	WithdrawalID  string `json:"withdrawalId"`
	Amount        string `json:"amount"`
	UnlockAt      string `json:"unlockAt"`
	State         string `json:"state"`
	Claimable     bool   `json:"claimable"`
	RequestTxHash string `json:"requestTxHash"`
	ClaimTxHash   string `json:"claimTxHash,omitempty"`
}

// GetWithdrawals lists the tracked withdrawals of address, oldest unlock first.
func (s *Services) GetWithdrawals(ctx context.Context, network, address string) ([]WithdrawalPublic, *types.Error) {
	if apiErr := s.checkNetwork(ctx, network); apiErr != nil {
		return nil, apiErr
	}
	owner, err := utils.ParseAddress(address)
	if err != nil {
		return nil, toApiError(err)
	}

	withdrawals, err := s.Pipeline.Withdrawals(ctx, owner)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("address", address).Msg("error while fetching withdrawals")
		return nil, types.NewInternalServiceError(err)
	}

	now := s.Pipeline.Now()
	result := make([]WithdrawalPublic, 0, len(withdrawals))
	for _, w := range withdrawals {
		result = append(result, WithdrawalPublic{
			Protocol:      w.Protocol,
			WithdrawalID:  w.ID.String(),
			Amount:        w.Amount.String(),
			UnlockAt:      utils.FormatTimestamp(w.UnlockAt),
			State:         w.State.ToString(),
			Claimable:     w.State == types.WithdrawalPending && w.IsUnlocked(now),
			RequestTxHash: w.RequestTxHash,
			ClaimTxHash:   w.ClaimTxHash,
		})
	}
	return result, nil
}
