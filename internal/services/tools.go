package services

import (
	"context"
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog/log"

	"github.com/lstlabs/lst-staking-service/internal/pipeline"
	"github.com/lstlabs/lst-staking-service/internal/types"
	"github.com/lstlabs/lst-staking-service/internal/utils"
)

// ToolRequest is the body of a stake, unstake or claim call. Amount and
// WithdrawalID are base-10 integers in the smallest unit.
type ToolRequest struct {
	Amount           string `json:"amount,omitempty"`
	WithdrawalID     string `json:"withdrawalId,omitempty"`
	From             string `json:"from"`
	IdempotencyToken string `json:"idempotencyToken,omitempty"`
}

type JobPublic struct {
	JobID        string `json:"jobId"`
	Kind         string `json:"kind"`
	Protocol     string `json:"protocol"`
	From         string `json:"from"`
	State        string `json:"state"`
	TxHash       string `json:"txHash,omitempty"`
	Attempts     int    `json:"attempts"`
	WithdrawalID string `json:"withdrawalId,omitempty"`
	UnlockAt     string `json:"unlockAt,omitempty"`
	RevertReason string `json:"revertReason,omitempty"`
	Error        string `json:"error,omitempty"`
	CreatedAt    string `json:"createdAt"`
	UpdatedAt    string `json:"updatedAt"`
}

func newJobPublic(snapshot pipeline.JobSnapshot) *JobPublic {
	job := &JobPublic{
		JobID:        snapshot.ID,
		Kind:         snapshot.Intent.Kind.ToString(),
		Protocol:     snapshot.Intent.Protocol,
		From:         snapshot.Intent.From.Hex(),
		State:        snapshot.State.ToString(),
		TxHash:       snapshot.TxHash,
		Attempts:     snapshot.Attempts,
		UnlockAt:     utils.FormatTimestamp(snapshot.UnlockAt),
		RevertReason: snapshot.RevertReason,
		CreatedAt:    utils.FormatTimestamp(snapshot.CreatedAt),
		UpdatedAt:    utils.FormatTimestamp(snapshot.UpdatedAt),
	}
	if snapshot.WithdrawalID != nil {
		job.WithdrawalID = snapshot.WithdrawalID.String()
	}
	if snapshot.Err != nil {
		job.Error = snapshot.Err.Error()
	}
	return job
}

func (s *Services) Stake(ctx context.Context, network, symbol string, req ToolRequest) (*JobPublic, bool, *types.Error) {
	return s.runAmountTool(ctx, network, symbol, req, types.NewStakeIntent)
}

// Unstake returns the withdrawal id and unlock time when the protocol
// settles through a later claim.
func (s *Services) Unstake(ctx context.Context, network, symbol string, req ToolRequest) (*JobPublic, bool, *types.Error) {
	return s.runAmountTool(ctx, network, symbol, req, types.NewUnstakeIntent)
}

func (s *Services) Claim(ctx context.Context, network, symbol string, req ToolRequest) (*JobPublic, bool, *types.Error) {
	if apiErr := s.checkNetwork(ctx, network); apiErr != nil {
		return nil, false, apiErr
	}
	from, err := utils.ParseAddress(req.From)
	if err != nil {
		return nil, false, toApiError(err)
	}
	id, err := utils.ParseWithdrawalID(req.WithdrawalID)
	if err != nil {
		return nil, false, types.NewError(http.StatusBadRequest, types.ValidationError, err)
	}
	return s.run(ctx, types.NewClaimIntent(symbol, from, id, req.IdempotencyToken))
}

type amountIntentFunc func(protocol string, from common.Address, amount *big.Int, token string) types.Intent

func (s *Services) runAmountTool(
	ctx context.Context, network, symbol string, req ToolRequest, newIntent amountIntentFunc,
) (*JobPublic, bool, *types.Error) {
	if apiErr := s.checkNetwork(ctx, network); apiErr != nil {
		return nil, false, apiErr
	}
	from, err := utils.ParseAddress(req.From)
	if err != nil {
		return nil, false, toApiError(err)
	}
	amount, err := utils.ParseAmount(req.Amount)
	if err != nil {
		return nil, false, toApiError(err)
	}
	return s.run(ctx, newIntent(symbol, from, amount, req.IdempotencyToken))
}

// run submits intent and waits for the job up to the request wait timeout.
// The bool reports whether the job finished; an unfinished job keeps running.
// A caller that goes away abandons the job only if it is not signed yet.
func (s *Services) run(ctx context.Context, intent types.Intent) (*JobPublic, bool, *types.Error) {
	job, err := s.Pipeline.Submit(ctx, intent)
	if err != nil {
		log.Ctx(ctx).Debug().Err(err).Str("protocol", intent.Protocol).Str("kind", intent.Kind.ToString()).
			Msg("intent rejected")
		return nil, false, toApiError(err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, s.cfg.Server.RequestWaitTimeout)
	defer cancel()
	snapshot, _ := job.Wait(waitCtx)

	select {
	case <-job.Done():
		done := job.Snapshot()
		if err := job.Err(); err != nil {
			if done.State != types.Confirmed {
				return nil, true, toApiError(err)
			}
			// the transaction landed, only the bookkeeping after it failed
			log.Ctx(ctx).Warn().Err(err).Str("jobId", job.ID).Str("txHash", done.TxHash).
				Msg("job confirmed with an error")
		}
		return newJobPublic(done), true, nil
	default:
	}

	if ctx.Err() != nil {
		log.Ctx(ctx).Warn().Str("jobId", job.ID).Msg("caller went away, abandoning the job unless already signed")
		job.Cancel()
		return nil, false, toApiError(ctx.Err())
	}
	return newJobPublic(snapshot), false, nil
}
