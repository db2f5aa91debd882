// Package pipeline turns stake, unstake and claim intents into confirmed
// transactions: Building -> Signed -> Submitted -> Confirmed | Reverted | Abandoned.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog/log"

	"github.com/lstlabs/lst-staking-service/internal/chain"
	"github.com/lstlabs/lst-staking-service/internal/config"
	"github.com/lstlabs/lst-staking-service/internal/db"
	"github.com/lstlabs/lst-staking-service/internal/registry"
	"github.com/lstlabs/lst-staking-service/internal/signer"
	"github.com/lstlabs/lst-staking-service/internal/types"
	"github.com/lstlabs/lst-staking-service/internal/utils"
)

// EventPublisher receives a snapshot of every job that reaches a terminal state.
type EventPublisher interface {
	PublishJobEvent(ctx context.Context, snapshot JobSnapshot) error
}

type Pipeline struct {
	chain    chain.Client
	registry *registry.Registry
	signer   signer.Signer
	store    db.DBClient
	events   EventPublisher
	cfg      config.PipelineConfig
	now      func() time.Time

	jobs            *jobStore
	senderLocks     *KeyedMutex
	withdrawalLocks *KeyedMutex
	nonces          *nonceTracker

	baseCtx    context.Context
	cancelBase context.CancelFunc
	closeMu    sync.RWMutex
	closed     bool
	wg         sync.WaitGroup
}

type Option func(*Pipeline)

// WithClock replaces time.Now, used for unlock times and claim checks.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

func WithEventPublisher(events EventPublisher) Option {
	return func(p *Pipeline) {
		p.events = events
	}
}

func New(
	chainClient chain.Client, reg *registry.Registry, s signer.Signer, store db.DBClient,
	cfg config.PipelineConfig, opts ...Option,
) *Pipeline {
	baseCtx, cancel := context.WithCancel(context.Background())
	p := &Pipeline{
		chain:           chainClient,
		registry:        reg,
		signer:          s,
		store:           store,
		cfg:             cfg,
		now:             time.Now,
		jobs:            newJobStore(cfg.JobRetention),
		senderLocks:     NewKeyedMutex(),
		withdrawalLocks: NewKeyedMutex(),
		nonces:          newNonceTracker(),
		baseCtx:         baseCtx,
		cancelBase:      cancel,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Submit validates intent and starts a job for it, or returns the in-flight
// job of an identical intent. Caller mistakes are returned synchronously and
// no job is created for them. ctx only bounds the synchronous checks: use
// Job.Wait to wait for the outcome and Job.Cancel to abandon unsigned work.
func (p *Pipeline) Submit(ctx context.Context, intent types.Intent) (*Job, error) {
	p.closeMu.RLock()
	defer p.closeMu.RUnlock()
	if p.closed {
		return nil, ErrPipelineClosed
	}

	proto, err := p.registry.Resolve(intent.Protocol)
	if err != nil {
		return nil, err
	}
	if err := validateIntent(proto, intent); err != nil {
		return nil, err
	}

	if intent.Kind == types.ClaimIntent {
		return p.submitClaim(ctx, proto, intent)
	}

	job, created := p.jobs.getOrCreate(intent.Fingerprint(), func() *Job {
		return newJob(intent, p.now())
	})
	if !created {
		log.Ctx(ctx).Info().Str("jobId", job.ID).Msg("duplicate intent, returning in-flight job")
		return job, nil
	}
	p.start(job, proto, nil)
	return job, nil
}

func validateIntent(proto *registry.Protocol, intent types.Intent) error {
	if intent.From == (common.Address{}) {
		return fmt.Errorf("%w: missing sender address", ErrInvalidIntent)
	}
	switch intent.Kind {
	case types.StakeIntent, types.UnstakeIntent:
		if intent.Amount == nil || intent.Amount.Sign() <= 0 {
			return ErrInvalidAmount
		}
		if !utils.FitsUint256(intent.Amount) {
			return fmt.Errorf("%w: exceeds %d bits", ErrInvalidAmount, utils.Uint256Bits)
		}
	case types.ClaimIntent:
		if proto.UnstakeMode() != types.RequestThenClaim {
			return fmt.Errorf("%w: %s", registry.ErrClaimNotSupported, proto.Symbol())
		}
		if intent.WithdrawalID == nil || intent.WithdrawalID.Sign() < 0 {
			return fmt.Errorf("%w: missing withdrawal id", ErrInvalidIntent)
		}
		if !utils.FitsUint256(intent.WithdrawalID) {
			return fmt.Errorf("%w: withdrawal id exceeds %d bits", ErrInvalidIntent, utils.Uint256Bits)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidIntent, intent.Kind)
	}
	return nil
}

// submitClaim checks the tracked withdrawal under its key lock and moves it to
// claiming before any transaction is built.
func (p *Pipeline) submitClaim(ctx context.Context, proto *registry.Protocol, intent types.Intent) (*Job, error) {
	key := types.NewWithdrawalKey(proto.Symbol(), intent.From.Hex(), intent.WithdrawalID)
	unlock, err := p.withdrawalLocks.Lock(ctx, key.String())
	if err != nil {
		return nil, err
	}
	defer unlock()

	if job, ok := p.jobs.inFlight(intent.Fingerprint()); ok {
		return job, nil
	}

	withdrawal, err := p.store.FindPendingWithdrawal(ctx, key)
	if err != nil {
		if db.IsNotFoundError(err) {
			return nil, fmt.Errorf("%w: %s", ErrWithdrawalNotFound, key)
		}
		return nil, fmt.Errorf("failed to load withdrawal %s: %w", key, err)
	}

	if slices.Contains(utils.OutdatedStatesForClaim, withdrawal.State) {
		return nil, fmt.Errorf("%w: %s", ErrWithdrawalAlreadyClaimed, key)
	}
	if withdrawal.State == types.WithdrawalClaiming {
		return nil, fmt.Errorf("%w: %s", ErrClaimInProgress, key)
	}
	if !withdrawal.IsUnlocked(p.now()) {
		return nil, &LockedWithdrawalError{Key: key, UnlockAt: withdrawal.UnlockAt}
	}

	if err := p.store.TransitionToClaimingState(ctx, key); err != nil {
		return nil, fmt.Errorf("failed to mark withdrawal %s as claiming: %w", key, err)
	}

	job, _ := p.jobs.getOrCreate(intent.Fingerprint(), func() *Job {
		return newJob(intent, p.now())
	})
	p.start(job, proto, &key)
	return job, nil
}

func (p *Pipeline) start(job *Job, proto *registry.Protocol, claimKey *types.WithdrawalKey) {
	buildCtx, cancel := context.WithCancel(p.baseCtx)
	job.setCancel(cancel)

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer cancel()
		p.execute(buildCtx, job, proto, claimKey)
	}()
}

// Job returns an in-flight or retained job by id.
func (p *Pipeline) Job(id string) (*Job, error) {
	job, ok := p.jobs.get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}
	return job, nil
}

// Now is the pipeline clock, the one claims are checked against.
func (p *Pipeline) Now() time.Time {
	return p.now()
}

// Withdrawals lists the tracked withdrawals of owner.
func (p *Pipeline) Withdrawals(ctx context.Context, owner common.Address) ([]*types.PendingWithdrawal, error) {
	return p.store.FindPendingWithdrawalsByOwner(ctx, owner.Hex())
}

// Shutdown refuses new intents, abandons jobs that are not signed yet and
// waits for the others to finish until ctx is done.
func (p *Pipeline) Shutdown(ctx context.Context) error {
	p.closeMu.Lock()
	p.closed = true
	p.closeMu.Unlock()
	p.cancelBase()

	finished := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return errors.Join(
			fmt.Errorf("%d jobs still running", p.jobs.inFlightCount()),
			ctx.Err(),
		)
	}
}
