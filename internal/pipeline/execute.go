package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/lstlabs/lst-staking-service/internal/chain"
	"github.com/lstlabs/lst-staking-service/internal/observability/metrics"
	"github.com/lstlabs/lst-staking-service/internal/registry"
	"github.com/lstlabs/lst-staking-service/internal/signer"
	"github.com/lstlabs/lst-staking-service/internal/types"
	"github.com/lstlabs/lst-staking-service/internal/utils"
)

const eventPublishTimeout = 10 * time.Second

// payload is one signed version of the job's transaction.
type payload struct {
	call  *registry.TxCall
	fee   *chain.FeeEstimate
	nonce uint64
	tx    *ethtypes.Transaction
}

func (p *Pipeline) execute(ctx context.Context, job *Job, proto *registry.Protocol, claimKey *types.WithdrawalKey) {
	logger := log.With().
		Str("jobId", job.ID).
		Str("protocol", proto.Symbol()).
		Str("kind", job.Intent.Kind.ToString()).
		Str("from", job.Intent.From.Hex()).
		Logger()
	logger.Info().Msg("job started")

	state, receipt, err := p.run(ctx, job, proto, &logger)
	if err == nil && state == types.Confirmed {
		err = p.onConfirmed(job, proto, receipt, &logger)
	}
	p.finish(job, proto, claimKey, state, err, &logger)
}

// run drives the job to a terminal state. The returned error is a *JobError
// for every state other than Confirmed.
func (p *Pipeline) run(
	ctx context.Context, job *Job, proto *registry.Protocol, logger *zerolog.Logger,
) (types.TxState, *chain.Receipt, error) {
	sender := job.Intent.From
	unlock, err := p.senderLocks.Lock(ctx, proto.Symbol()+"/"+strings.ToLower(sender.Hex()))
	if err != nil {
		return types.Abandoned, nil, job.fail(types.Abandoned, err)
	}
	defer unlock()

	call, err := proto.BuildIntentCall(job.Intent)
	if err != nil {
		return types.Abandoned, nil, job.fail(types.Abandoned, fmt.Errorf("%w: %w", ErrInvalidIntent, err))
	}

	current, err := p.buildAndSign(ctx, job, call, nil)
	if err != nil {
		return types.Abandoned, nil, job.fail(types.Abandoned, err)
	}

	// Signed: from here on the caller can no longer abandon the job.
	detached := context.WithoutCancel(ctx)
	receipt, last, err := p.submit(detached, job, call, current, logger)
	if err != nil {
		if last != nil && !job.hasBroadcast() {
			p.nonces.release(sender, last.nonce)
		}
		return types.Abandoned, nil, job.fail(types.Abandoned, err)
	}
	unlock()

	if receipt == nil {
		receipt, err = p.awaitReceipt(detached, job, logger)
		if err != nil {
			return types.Abandoned, nil, job.fail(types.Abandoned, err)
		}
	}

	if !receipt.Succeeded() {
		// replay against the state the transaction executed on
		replayAt := receipt.BlockNumber
		if replayAt > 0 {
			replayAt--
		}
		reason, reasonErr := p.chain.RevertReason(detached, callMsg(sender, call), replayAt)
		if reasonErr != nil {
			logger.Warn().Err(reasonErr).Msg("failed to replay reverted transaction")
		}
		job.setRevertReason(reason)
		cause := &chain.RevertError{Reason: reason}
		return types.Reverted, receipt, job.fail(types.Reverted, cause)
	}
	return types.Confirmed, receipt, nil
}

// buildAndSign assigns a nonce, prices and signs the call. A previous payload
// means this is the nonce repair: its nonce is released, the next one is
// re-read from the chain and fees are bumped. On error no nonce stays
// assigned to the job.
func (p *Pipeline) buildAndSign(
	ctx context.Context, job *Job, call *registry.TxCall, previous *payload,
) (*payload, error) {
	sender := job.Intent.From

	var fee *chain.FeeEstimate
	if previous == nil {
		estimate, err := p.chain.EstimateFee(ctx, callMsg(sender, call))
		if err != nil {
			var revert *chain.RevertError
			if errors.As(err, &revert) {
				job.setRevertReason(revert.Reason)
			}
			return nil, err
		}
		fee = estimate.WithGasMargin(p.cfg.GasLimitMargin)
	} else {
		p.nonces.release(sender, previous.nonce)
		fee = previous.fee.Bumped(p.cfg.FeeBump)
	}

	nonce, err := p.nonces.next(ctx, p.chain, sender)
	if err != nil {
		return nil, err
	}

	tx := newTransaction(p.chain.ChainID(), nonce, call, fee)
	signed, err := p.signer.Sign(p.chain.ChainID(), sender, tx)
	if err != nil {
		p.nonces.release(sender, nonce)
		return nil, err
	}
	job.signed(signed.Hash(), p.now())
	return &payload{call: call, fee: fee, nonce: nonce, tx: signed}, nil
}

func newTransaction(chainID *big.Int, nonce uint64, call *registry.TxCall, fee *chain.FeeEstimate) *ethtypes.Transaction {
	to := call.To
	if fee.IsDynamic() {
		return ethtypes.NewTx(&ethtypes.DynamicFeeTx{
			ChainID:   chainID,
			Nonce:     nonce,
			GasTipCap: fee.GasTipCap,
			GasFeeCap: fee.GasFeeCap,
			Gas:       fee.GasLimit,
			To:        &to,
			Value:     call.Value,
			Data:      call.Data,
		})
	}
	return ethtypes.NewTx(&ethtypes.LegacyTx{
		Nonce:    nonce,
		GasPrice: fee.GasPrice,
		Gas:      fee.GasLimit,
		To:       &to,
		Value:    call.Value,
		Data:     call.Data,
	})
}

// submit sends the signed payload until the node accepts it. Every retry
// resends the exact same signed bytes; the only rebuild is the single nonce
// repair, and it is refused once a submission may already have landed.
// A non-nil receipt means the transaction was found mined while resolving
// a nonce conflict. The returned payload is the last one still holding its
// nonce, nil when a failed repair already released it.
func (p *Pipeline) submit(
	ctx context.Context, job *Job, call *registry.TxCall, current *payload, logger *zerolog.Logger,
) (*chain.Receipt, *payload, error) {
	repaired := false
	mayHaveLanded := false
	payloadAttempts := 0

	for {
		payloadAttempts++
		_, err := p.chain.Submit(ctx, current.tx)
		ambiguous := errors.Is(err, chain.ErrRpcUnavailable)
		attempts := job.recordAttempt(err == nil || ambiguous)
		metrics.RecordSubmission(submissionOutcome(err))

		switch {
		case err == nil:
			job.transition(types.Submitted, p.now())
			logger.Info().Str("txHash", current.tx.Hash().Hex()).Int("attempts", attempts).Msg("transaction submitted")
			return nil, current, nil

		case ambiguous:
			mayHaveLanded = true
			if payloadAttempts >= p.cfg.MaxSubmitAttempts {
				return nil, current, err
			}
			backoff := utils.Backoff(p.cfg.InitialBackoff, p.cfg.BackoffFactor, payloadAttempts)
			logger.Warn().Err(err).Int("attempt", payloadAttempts).Dur("backoff", backoff).
				Msg("rpc unavailable, resubmitting the same signed transaction")
			utils.Sleep(backoff)

		case errors.Is(err, chain.ErrNonceConflict):
			if mayHaveLanded {
				receipt, resolveErr := p.resolveOwnSubmission(ctx, job, current, err, logger)
				return receipt, current, resolveErr
			}
			if repaired {
				return nil, current, err
			}
			repaired = true
			logger.Warn().Err(err).Uint64("nonce", current.nonce).Msg("nonce conflict, rebuilding once")
			job.transition(types.Building, p.now())
			current, err = p.buildAndSign(ctx, job, call, current)
			if err != nil {
				return nil, nil, err
			}
			payloadAttempts = 0

		default:
			return nil, current, err
		}
	}
}

// resolveOwnSubmission handles a nonce conflict after an ambiguous
// submission: the conflicting transaction may be our own.
func (p *Pipeline) resolveOwnSubmission(
	ctx context.Context, job *Job, current *payload, conflict error, logger *zerolog.Logger,
) (*chain.Receipt, error) {
	receipt, err := p.chain.PollReceipt(ctx, current.tx.Hash(), p.cfg.ReceiptTimeout)
	if err != nil {
		logger.Warn().Err(conflict).Str("txHash", current.tx.Hash().Hex()).
			Msg("nonce conflict after an ambiguous submission, not rebuilding")
		return nil, conflict
	}
	job.transition(types.Submitted, p.now())
	return receipt, nil
}

// awaitReceipt polls a bounded number of times. Running out of polls does not
// mean the transaction failed, only that it was not seen in time.
func (p *Pipeline) awaitReceipt(ctx context.Context, job *Job, logger *zerolog.Logger) (*chain.Receipt, error) {
	hash := common.HexToHash(job.Snapshot().TxHash)
	for poll := 1; poll <= p.cfg.MaxReceiptPolls; poll++ {
		receipt, err := p.chain.PollReceipt(ctx, hash, p.cfg.ReceiptTimeout)
		if err == nil {
			return receipt, nil
		}
		if !errors.Is(err, chain.ErrNotYetMined) {
			logger.Debug().Err(err).Int("poll", poll).Msg("receipt poll failed")
		}
		if poll < p.cfg.MaxReceiptPolls {
			utils.Sleep(p.cfg.PollInterval)
		}
	}
	return nil, ErrConfirmationTimeout
}

// onConfirmed records the pending withdrawal of a request-then-claim unstake.
func (p *Pipeline) onConfirmed(job *Job, proto *registry.Protocol, receipt *chain.Receipt, logger *zerolog.Logger) error {
	if job.Intent.Kind != types.UnstakeIntent || proto.UnstakeMode() != types.RequestThenClaim {
		return nil
	}

	id, err := proto.WithdrawalID(receipt.Logs)
	if err != nil {
		logger.Error().Err(err).Str("txHash", receipt.TxHash.Hex()).Msg("confirmed unstake request carries no withdrawal id")
		return job.fail(types.Confirmed, err)
	}

	now := p.now()
	unlockAt := now.Add(proto.Descriptor.UnbondingPeriod())
	job.setWithdrawal(id, unlockAt)

	withdrawal := &types.PendingWithdrawal{
		Protocol:      proto.Symbol(),
		Owner:         job.Intent.From.Hex(),
		ID:            id,
		Amount:        job.Intent.Amount,
		UnlockAt:      unlockAt,
		RequestTxHash: receipt.TxHash.Hex(),
		State:         types.WithdrawalPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := p.store.SavePendingWithdrawal(context.Background(), withdrawal); err != nil {
		logger.Error().Err(err).Str("withdrawalId", id.String()).Msg("failed to record pending withdrawal")
		return job.fail(types.Confirmed, fmt.Errorf("failed to record pending withdrawal: %w", err))
	}
	logger.Info().Str("withdrawalId", id.String()).Time("unlockAt", unlockAt).Msg("pending withdrawal recorded")
	return nil
}

// finish settles the claimed withdrawal, retires the job and reports it.
func (p *Pipeline) finish(
	job *Job, proto *registry.Protocol, claimKey *types.WithdrawalKey,
	state types.TxState, err error, logger *zerolog.Logger,
) {
	ctx := context.Background()
	if claimKey != nil {
		unlock, _ := p.withdrawalLocks.Lock(ctx, claimKey.String())
		var storeErr error
		if state == types.Confirmed {
			storeErr = p.store.TransitionToClaimedState(ctx, *claimKey, job.Snapshot().TxHash)
		} else {
			storeErr = p.store.RollbackToPendingState(ctx, *claimKey)
		}
		if storeErr != nil {
			logger.Error().Err(storeErr).Str("withdrawal", claimKey.String()).Msg("failed to settle withdrawal state")
		}
		p.jobs.retire(job)
		job.complete(state, err, p.now())
		unlock()
	} else {
		p.jobs.retire(job)
		job.complete(state, err, p.now())
	}
	metrics.RecordJobOutcome(proto.Symbol(), job.Intent.Kind.ToString(), state.ToString(), job.CreatedAt)

	snapshot := job.Snapshot()
	event := logger.Info()
	if err != nil {
		event = logger.Warn().Err(err)
	}
	event.Str("state", state.ToString()).Str("txHash", snapshot.TxHash).Int("attempts", snapshot.Attempts).
		Msg("job finished")

	if p.events != nil {
		publishCtx, cancel := context.WithTimeout(ctx, eventPublishTimeout)
		defer cancel()
		if pubErr := p.events.PublishJobEvent(publishCtx, snapshot); pubErr != nil {
			logger.Error().Err(pubErr).Msg("failed to publish job event")
		}
	}
}

func callMsg(sender common.Address, call *registry.TxCall) chain.CallMsg {
	return chain.CallMsg{From: sender, To: call.To, Data: call.Data, Value: call.Value}
}

func submissionOutcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, chain.ErrRpcUnavailable):
		return "rpc_unavailable"
	case errors.Is(err, chain.ErrNonceConflict):
		return "nonce_conflict"
	case errors.Is(err, chain.ErrInsufficientBalance):
		return "insufficient_balance"
	case errors.Is(err, signer.ErrSigningDenied):
		return "signing_denied"
	default:
		return "rejected"
	}
}
