package pipeline

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/lstlabs/lst-staking-service/internal/chain"
)

// nonceTracker hands out sender nonces as max(chain pending, last assigned + 1),
// so back-to-back jobs of one sender do not wait for the node's mempool view.
type nonceTracker struct {
	mu       sync.Mutex
	assigned map[common.Address]uint64
}

func newNonceTracker() *nonceTracker {
	return &nonceTracker{assigned: make(map[common.Address]uint64)}
}

func (t *nonceTracker) next(ctx context.Context, client chain.Client, sender common.Address) (uint64, error) {
	pending, err := client.PendingNonce(ctx, sender)
	if err != nil {
		return 0, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	nonce := pending
	if last, ok := t.assigned[sender]; ok && last+1 > nonce {
		nonce = last + 1
	}
	t.assigned[sender] = nonce
	return nonce, nil
}

// release hands back a nonce that was never broadcast. Only the last
// assigned nonce can be rolled back: a later one is already held by another
// job of the sender, in which case the local view is kept as is.
func (t *nonceTracker) release(sender common.Address, nonce uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	last, ok := t.assigned[sender]
	if !ok || last != nonce {
		return
	}
	if nonce == 0 {
		delete(t.assigned, sender)
		return
	}
	t.assigned[sender] = nonce - 1
}
