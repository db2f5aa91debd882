package pipeline

import (
	"context"
	"math/big"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lstlabs/lst-staking-service/internal/testutil/fakechain"
	"github.com/lstlabs/lst-staking-service/internal/types"
)

func TestKeyedMutexSerializesPerKey(t *testing.T) {
	m := NewKeyedMutex()
	var (
		wg      sync.WaitGroup
		active  atomic.Int32
		overlap atomic.Bool
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := m.Lock(context.Background(), "aprMON/0xabc")
			if !assert.NoError(t, err) {
				return
			}
			if active.Add(1) > 1 {
				overlap.Store(true)
			}
			time.Sleep(time.Millisecond)
			active.Add(-1)
			unlock()
		}()
	}
	wg.Wait()

	assert.False(t, overlap.Load())
	assert.Equal(t, 0, m.size())
}

func TestKeyedMutexIndependentKeys(t *testing.T) {
	m := NewKeyedMutex()
	unlockA, err := m.Lock(context.Background(), "a")
	require.NoError(t, err)
	defer unlockA()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	unlockB, err := m.Lock(ctx, "b")
	require.NoError(t, err)
	unlockB()
	assert.Equal(t, 1, m.size())
}

func TestKeyedMutexWaitAbandonedByContext(t *testing.T) {
	m := NewKeyedMutex()
	unlock, err := m.Lock(context.Background(), "k")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = m.Lock(ctx, "k")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()
	unlock()
	assert.Equal(t, 0, m.size())

	again, err := m.Lock(context.Background(), "k")
	require.NoError(t, err)
	again()
}

func TestNonceTrackerAssignsPastPending(t *testing.T) {
	chain := fakechain.New(1)
	sender := common.HexToAddress("0x0000000000000000000000000000000000000001")
	tracker := newNonceTracker()
	ctx := context.Background()

	first, err := tracker.next(ctx, chain, sender)
	require.NoError(t, err)
	second, err := tracker.next(ctx, chain, sender)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), first)
	assert.Equal(t, uint64(1), second)

	// the chain moving ahead wins over the local view
	chain.SetPendingNonce(sender, 5)
	third, err := tracker.next(ctx, chain, sender)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), third)

	// a stale release is ignored, the last one is handed out again
	tracker.release(sender, 1)
	tracker.release(sender, 5)
	fourth, err := tracker.next(ctx, chain, sender)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), fourth)

	fresh := newNonceTracker()
	chain.SetPendingNonce(sender, 0)
	first, err = fresh.next(ctx, chain, sender)
	require.NoError(t, err)
	fresh.release(sender, first)
	again, err := fresh.next(ctx, chain, sender)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), again)
}

func TestNonceReleaseKeepsLaterAssignments(t *testing.T) {
	chain := fakechain.New(1)
	sender := common.HexToAddress("0x0000000000000000000000000000000000000001")
	tracker := newNonceTracker()
	ctx := context.Background()

	// an aprMON job takes 0, a shMON job of the same sender takes 1
	aprmon, err := tracker.next(ctx, chain, sender)
	require.NoError(t, err)
	shmon, err := tracker.next(ctx, chain, sender)
	require.NoError(t, err)
	require.Equal(t, uint64(1), shmon)

	// aprMON fails before broadcast: shMON's slot is not handed out again
	tracker.release(sender, aprmon)
	next, err := tracker.next(ctx, chain, sender)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), next)

	// the last slot is rolled back
	tracker.release(sender, next)
	again, err := tracker.next(ctx, chain, sender)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), again)
}

func TestJobStoreRetiresFinishedJobs(t *testing.T) {
	store := newJobStore(time.Minute)
	now := time.Unix(1_700_000_000, 0)
	intent := types.NewStakeIntent("aprMON",
		common.HexToAddress("0x0000000000000000000000000000000000000001"), big.NewInt(1), "")

	job, created := store.getOrCreate(intent.Fingerprint(), func() *Job { return newJob(intent, now) })
	require.True(t, created)
	dup, created := store.getOrCreate(intent.Fingerprint(), func() *Job { return newJob(intent, now) })
	assert.False(t, created)
	assert.Same(t, job, dup)
	assert.Equal(t, 1, store.inFlightCount())

	store.retire(job)
	assert.Equal(t, 0, store.inFlightCount())
	_, ok := store.inFlight(intent.Fingerprint())
	assert.False(t, ok)

	retained, ok := store.get(job.ID)
	require.True(t, ok)
	assert.Same(t, job, retained)

	next, created := store.getOrCreate(intent.Fingerprint(), func() *Job { return newJob(intent, now) })
	assert.True(t, created)
	assert.NotEqual(t, job.ID, next.ID)
}
