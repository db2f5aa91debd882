package pipeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/lstlabs/lst-staking-service/internal/types"
)

var (
	ErrInvalidAmount = errors.New("amount must be a positive integer")
	ErrInvalidIntent = errors.New("invalid intent")
	// ErrWithdrawalNotYetUnlocked is returned before any transaction is built.
	ErrWithdrawalNotYetUnlocked = errors.New("withdrawal not yet unlocked")
	ErrWithdrawalNotFound       = errors.New("withdrawal not found")
	ErrWithdrawalAlreadyClaimed = errors.New("withdrawal already claimed")
	ErrClaimInProgress          = errors.New("claim already in progress")
	ErrConfirmationTimeout      = errors.New("transaction not confirmed within the polling window")
	ErrJobNotFound              = errors.New("job not found")
	ErrPipelineClosed           = errors.New("pipeline is shutting down")
)

// LockedWithdrawalError carries the unlock time of a withdrawal claimed too early.
type LockedWithdrawalError struct {
	Key      types.WithdrawalKey
	UnlockAt time.Time
}

func (e *LockedWithdrawalError) Error() string {
	return fmt.Sprintf("%s: %s unlocks at %s", ErrWithdrawalNotYetUnlocked, e.Key, e.UnlockAt.UTC().Format(time.RFC3339))
}

func (e *LockedWithdrawalError) Is(target error) bool {
	return target == ErrWithdrawalNotYetUnlocked
}

// JobError is the failure of a job. TxHash is set whenever a submission of
// the job may have reached the network, so the caller can check the chain.
type JobError struct {
	JobID        string
	State        types.TxState
	TxHash       string
	Attempts     int
	RevertReason string
	Cause        error
}

func (e *JobError) Error() string {
	msg := fmt.Sprintf("job %s %s after %d submission attempts", e.JobID, e.State, e.Attempts)
	if e.TxHash != "" {
		msg += " (tx " + e.TxHash + ")"
	}
	return msg + ": " + e.Cause.Error()
}

func (e *JobError) Unwrap() error {
	return e.Cause
}
