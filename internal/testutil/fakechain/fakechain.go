// Package fakechain is an in-memory chain.Client for tests. Submissions are
// checked against per-sender nonces, mined into one block each after a
// configurable number of polls, and failures can be scripted per call.
package fakechain

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/lstlabs/lst-staking-service/internal/chain"
)

// SubmitOutcome scripts the result of one Submit call. Accept makes the
// transaction reach the mempool even though Err is returned to the caller.
type SubmitOutcome struct {
	Err    error
	Accept bool
}

// MineResult is what a mined transaction produces.
type MineResult struct {
	Status       uint64
	Logs         []*ethtypes.Log
	RevertReason string
}

// MineFunc decides the outcome of a transaction when it is mined.
type MineFunc func(tx *ethtypes.Transaction, from common.Address, block uint64) MineResult

// CallFunc answers read-only calls.
type CallFunc func(to common.Address, data []byte, block uint64) ([]byte, error)

// EstimateFunc lets a test fail fee estimation, e.g. with a simulated revert.
type EstimateFunc func(msg chain.CallMsg) error

type pendingTx struct {
	tx      *ethtypes.Transaction
	from    common.Address
	polls   int
	receipt *chain.Receipt
}

var _ chain.Client = (*Chain)(nil)

type Chain struct {
	mu sync.Mutex

	chainID *big.Int
	signer  ethtypes.Signer
	head    uint64
	nonces  map[common.Address]uint64

	txs           map[common.Hash]*pendingTx
	submissions   []*ethtypes.Transaction
	submitScript  []SubmitOutcome
	receiptDelay  int
	holdReceipts  bool
	// revertReasons are keyed by the block whose state a reverted
	// transaction executed against, the parent of its receipt block.
	revertReasons map[uint64]string
	replayBlocks  []uint64

	blockNumberErr error
	baseFee        *big.Int
	tipCap         *big.Int
	gasEstimate    uint64

	mine     MineFunc
	call     CallFunc
	estimate EstimateFunc
}

func New(chainID int64) *Chain {
	id := big.NewInt(chainID)
	return &Chain{
		chainID:       id,
		signer:        ethtypes.LatestSignerForChainID(id),
		head:          100,
		nonces:        make(map[common.Address]uint64),
		txs:           make(map[common.Hash]*pendingTx),
		revertReasons: make(map[uint64]string),
		baseFee:       big.NewInt(50_000_000_000),
		tipCap:        big.NewInt(2_000_000_000),
		gasEstimate:   80_000,
	}
}

// ScriptSubmits queues outcomes for the next Submit calls, in order.
func (c *Chain) ScriptSubmits(outcomes ...SubmitOutcome) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitScript = append(c.submitScript, outcomes...)
}

// SetReceiptDelay makes every transaction report NotYetMined for n polls.
func (c *Chain) SetReceiptDelay(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.receiptDelay = n
}

// HoldReceipts keeps every transaction unmined while hold is true.
func (c *Chain) HoldReceipts(hold bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.holdReceipts = hold
}

// SetPendingNonce moves the next expected nonce of account, e.g. to simulate
// a transaction sent by another wallet.
func (c *Chain) SetPendingNonce(account common.Address, nonce uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nonces[account] = nonce
}

func (c *Chain) SetBlockNumberErr(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.blockNumberErr = err
}

// UseLegacyFees drops the base fee so EstimateFee returns a legacy gas price.
func (c *Chain) UseLegacyFees() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.baseFee = nil
}

func (c *Chain) OnMine(fn MineFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mine = fn
}

func (c *Chain) OnCall(fn CallFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.call = fn
}

func (c *Chain) OnEstimate(fn EstimateFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.estimate = fn
}

// Submissions returns every transaction passed to Submit, failed ones included.
func (c *Chain) Submissions() []*ethtypes.Transaction {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*ethtypes.Transaction, len(c.submissions))
	copy(out, c.submissions)
	return out
}

// Accepted returns the number of distinct transactions that reached the mempool.
func (c *Chain) Accepted() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.txs)
}

func (c *Chain) Head() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.head
}

func (c *Chain) ChainID() *big.Int {
	return new(big.Int).Set(c.chainID)
}

func (c *Chain) BlockNumber(ctx context.Context) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.blockNumberErr != nil {
		return 0, c.blockNumberErr
	}
	return c.head, nil
}

func (c *Chain) ReadState(ctx context.Context, contract common.Address, calldata []byte, block *big.Int) (*chain.StateRead, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	at := c.head
	call := c.call
	c.mu.Unlock()
	if block != nil {
		at = block.Uint64()
	}
	if call == nil {
		return nil, fmt.Errorf("%w: no call handler", chain.ErrRejected)
	}
	data, err := call(contract, calldata, at)
	if err != nil {
		return nil, err
	}
	return &chain.StateRead{Data: data, BlockNumber: at}, nil
}

func (c *Chain) EstimateFee(ctx context.Context, msg chain.CallMsg) (*chain.FeeEstimate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	estimate := c.estimate
	fee := &chain.FeeEstimate{GasLimit: c.gasEstimate}
	if c.baseFee != nil {
		fee.GasTipCap = new(big.Int).Set(c.tipCap)
		fee.GasFeeCap = new(big.Int).Add(new(big.Int).Mul(c.baseFee, big.NewInt(2)), c.tipCap)
	} else {
		fee.GasPrice = new(big.Int).Set(c.tipCap)
	}
	c.mu.Unlock()

	if estimate != nil {
		if err := estimate(msg); err != nil {
			return nil, err
		}
	}
	return fee, nil
}

func (c *Chain) PendingNonce(ctx context.Context, account common.Address) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nonces[account], nil
}

func (c *Chain) Submit(ctx context.Context, tx *ethtypes.Transaction) (common.Hash, error) {
	if err := ctx.Err(); err != nil {
		return common.Hash{}, err
	}
	from, err := ethtypes.Sender(c.signer, tx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("%w: invalid sender: %w", chain.ErrRejected, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.submissions = append(c.submissions, tx)

	var outcome SubmitOutcome
	if len(c.submitScript) > 0 {
		outcome = c.submitScript[0]
		c.submitScript = c.submitScript[1:]
	}
	if outcome.Err != nil {
		if outcome.Accept {
			c.acceptLocked(tx, from)
		}
		return common.Hash{}, outcome.Err
	}

	if _, known := c.txs[tx.Hash()]; known {
		// already known
		return tx.Hash(), nil
	}
	if tx.Nonce() != c.nonces[from] {
		return common.Hash{}, fmt.Errorf(
			"%w: nonce %d, expected %d", chain.ErrNonceConflict, tx.Nonce(), c.nonces[from],
		)
	}
	c.acceptLocked(tx, from)
	return tx.Hash(), nil
}

func (c *Chain) acceptLocked(tx *ethtypes.Transaction, from common.Address) {
	if _, known := c.txs[tx.Hash()]; known {
		return
	}
	c.txs[tx.Hash()] = &pendingTx{tx: tx, from: from}
	if tx.Nonce() >= c.nonces[from] {
		c.nonces[from] = tx.Nonce() + 1
	}
}

func (c *Chain) PollReceipt(ctx context.Context, hash common.Hash, timeout time.Duration) (*chain.Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	p, ok := c.txs[hash]
	if !ok || c.holdReceipts {
		c.mu.Unlock()
		return nil, chain.ErrNotYetMined
	}
	if p.receipt != nil {
		receipt := *p.receipt
		c.mu.Unlock()
		return &receipt, nil
	}
	if p.polls < c.receiptDelay {
		p.polls++
		c.mu.Unlock()
		return nil, chain.ErrNotYetMined
	}
	c.head++
	block := c.head
	mine := c.mine
	c.mu.Unlock()

	result := MineResult{Status: ethtypes.ReceiptStatusSuccessful}
	if mine != nil {
		result = mine(p.tx, p.from, block)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if p.receipt == nil {
		p.receipt = &chain.Receipt{
			TxHash:      hash,
			Status:      result.Status,
			BlockNumber: block,
			GasUsed:     p.tx.Gas() / 2,
			Logs:        result.Logs,
		}
		if result.RevertReason != "" {
			c.revertReasons[block-1] = result.RevertReason
		}
	}
	receipt := *p.receipt
	return &receipt, nil
}

func (c *Chain) RevertReason(ctx context.Context, msg chain.CallMsg, blockNumber uint64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.replayBlocks = append(c.replayBlocks, blockNumber)
	return c.revertReasons[blockNumber], nil
}

// ReplayBlocks lists the blocks RevertReason was asked to replay at.
func (c *Chain) ReplayBlocks() []uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]uint64(nil), c.replayBlocks...)
}

func (c *Chain) Close() {}
