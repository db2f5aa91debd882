package chain

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
)

// Client is a thin adapter over the network RPC. It never retries: retry
// policy belongs to the caller.
type Client interface {
	ChainID() *big.Int
	BlockNumber(ctx context.Context) (uint64, error)
	// ReadState executes a read-only call. A nil block reads the latest head,
	// and the returned StateRead records which block was used.
	ReadState(ctx context.Context, contract common.Address, calldata []byte, block *big.Int) (*StateRead, error)
	EstimateFee(ctx context.Context, msg CallMsg) (*FeeEstimate, error)
	PendingNonce(ctx context.Context, account common.Address) (uint64, error)
	Submit(ctx context.Context, tx *ethtypes.Transaction) (common.Hash, error)
	// PollReceipt returns ErrNotYetMined while the transaction is pending and
	// never blocks longer than timeout.
	PollReceipt(ctx context.Context, hash common.Hash, timeout time.Duration) (*Receipt, error)
	// RevertReason replays msg at blockNumber and decodes the revert reason.
	RevertReason(ctx context.Context, msg CallMsg, blockNumber uint64) (string, error)
	Close()
}

type CallMsg struct {
	From  common.Address
	To    common.Address
	Data  []byte
	Value *big.Int
}

type StateRead struct {
	Data        []byte
	BlockNumber uint64
}

// FeeEstimate carries either dynamic fee caps or a legacy gas price.
type FeeEstimate struct {
	GasLimit  uint64
	GasTipCap *big.Int
	GasFeeCap *big.Int
	GasPrice  *big.Int
}

func (f *FeeEstimate) IsDynamic() bool {
	return f.GasFeeCap != nil
}

// WithGasMargin returns a copy whose gas limit is raised by percent.
func (f *FeeEstimate) WithGasMargin(percent uint64) *FeeEstimate {
	out := f.copy()
	out.GasLimit = f.GasLimit + f.GasLimit*percent/100
	return out
}

// Bumped returns a copy whose prices are raised by percent, rounding up so a
// positive bump always changes the price.
func (f *FeeEstimate) Bumped(percent uint64) *FeeEstimate {
	out := f.copy()
	out.GasTipCap = bump(f.GasTipCap, percent)
	out.GasFeeCap = bump(f.GasFeeCap, percent)
	out.GasPrice = bump(f.GasPrice, percent)
	return out
}

func (f *FeeEstimate) copy() *FeeEstimate {
	out := *f
	return &out
}

func bump(v *big.Int, percent uint64) *big.Int {
	if v == nil {
		return nil
	}
	num := new(big.Int).Mul(v, new(big.Int).SetUint64(100+percent))
	num.Add(num, big.NewInt(99))
	return num.Quo(num, big.NewInt(100))
}

type Receipt struct {
	TxHash      common.Hash
	Status      uint64
	BlockNumber uint64
	GasUsed     uint64
	Logs        []*ethtypes.Log
}

func (r *Receipt) Succeeded() bool {
	return r.Status == ethtypes.ReceiptStatusSuccessful
}
