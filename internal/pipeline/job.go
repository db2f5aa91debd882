package pipeline

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/lstlabs/lst-staking-service/internal/types"
	"github.com/lstlabs/lst-staking-service/internal/utils"
)

// Job tracks one intent through the pipeline. All fields behind mu change
// only from the job's own goroutine; readers take snapshots.
type Job struct {
	ID          string
	Intent      types.Intent
	CreatedAt   time.Time
	fingerprint string

	mu           sync.RWMutex
	state        types.TxState
	txHash       common.Hash
	broadcast    bool
	attempts     int
	withdrawalID *big.Int
	unlockAt     time.Time
	revertReason string
	updatedAt    time.Time
	err          error

	cancelBuild context.CancelFunc
	done        chan struct{}
}

// JobSnapshot is a point in time copy of a job.
type JobSnapshot struct {
	ID     string
	Intent types.Intent
	State  types.TxState
	// TxHash is empty until a submission may have reached the network.
	TxHash   string
	Attempts int
	// WithdrawalID is set by a confirmed request-then-claim unstake.
	WithdrawalID *big.Int
	UnlockAt     time.Time
	RevertReason string
	Err          error
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func newJob(intent types.Intent, now time.Time) *Job {
	return &Job{
		ID:          uuid.NewString(),
		Intent:      intent,
		CreatedAt:   now,
		fingerprint: intent.Fingerprint(),
		state:       types.Building,
		updatedAt:   now,
		done:        make(chan struct{}),
	}
}

func (j *Job) Snapshot() JobSnapshot {
	j.mu.RLock()
	defer j.mu.RUnlock()
	s := JobSnapshot{
		ID:           j.ID,
		Intent:       j.Intent,
		State:        j.state,
		Attempts:     j.attempts,
		UnlockAt:     j.unlockAt,
		RevertReason: j.revertReason,
		Err:          j.err,
		CreatedAt:    j.CreatedAt,
		UpdatedAt:    j.updatedAt,
	}
	if j.broadcast {
		s.TxHash = j.txHash.Hex()
	}
	if j.withdrawalID != nil {
		s.WithdrawalID = new(big.Int).Set(j.withdrawalID)
	}
	return s
}

func (j *Job) State() types.TxState {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.state
}

// Done is closed once the job reaches a terminal state.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Err is the failure of a finished job, a *JobError, or nil.
func (j *Job) Err() error {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.err
}

// Wait blocks until the job finishes or ctx is done. Giving up waiting never
// affects the job itself.
func (j *Job) Wait(ctx context.Context) (JobSnapshot, error) {
	select {
	case <-j.done:
		return j.Snapshot(), j.Err()
	case <-ctx.Done():
		return j.Snapshot(), ctx.Err()
	}
}

// Cancel abandons the job if it has not been signed yet. A signed job always
// runs to completion.
func (j *Job) Cancel() {
	j.mu.RLock()
	cancel := j.cancelBuild
	j.mu.RUnlock()
	if cancel != nil {
		cancel()
	}
}

func (j *Job) setCancel(cancel context.CancelFunc) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.cancelBuild = cancel
}

func (j *Job) transition(to types.TxState, now time.Time) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if !utils.CanTransitionTx(j.state, to) {
		log.Error().Str("jobId", j.ID).Str("from", j.state.ToString()).Str("to", to.ToString()).
			Msg("unexpected job state transition")
	}
	j.state = to
	j.updatedAt = now
}

// signed records the payload about to be submitted.
func (j *Job) signed(hash common.Hash, now time.Time) {
	j.transition(types.Signed, now)
	j.mu.Lock()
	defer j.mu.Unlock()
	j.txHash = hash
}

func (j *Job) recordAttempt(mayHaveLanded bool) int {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.attempts++
	if mayHaveLanded {
		j.broadcast = true
	}
	return j.attempts
}

func (j *Job) setWithdrawal(id *big.Int, unlockAt time.Time) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.withdrawalID = new(big.Int).Set(id)
	j.unlockAt = unlockAt
}

func (j *Job) setRevertReason(reason string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.revertReason = reason
}

func (j *Job) hasBroadcast() bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.broadcast
}

// fail builds the JobError for the job's current view.
func (j *Job) fail(state types.TxState, cause error) *JobError {
	j.mu.RLock()
	defer j.mu.RUnlock()
	jobErr := &JobError{
		JobID:        j.ID,
		State:        state,
		Attempts:     j.attempts,
		RevertReason: j.revertReason,
		Cause:        cause,
	}
	if j.broadcast {
		jobErr.TxHash = j.txHash.Hex()
	}
	return jobErr
}

func (j *Job) complete(state types.TxState, err error, now time.Time) {
	j.transition(state, now)
	j.mu.Lock()
	j.err = err
	j.cancelBuild = nil
	j.mu.Unlock()
	close(j.done)
}
