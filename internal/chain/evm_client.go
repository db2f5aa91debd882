package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/lstlabs/lst-staking-service/internal/config"
	"github.com/lstlabs/lst-staking-service/internal/observability/metrics"
)

// EVMClient implements Client over go-ethereum's ethclient.
type EVMClient struct {
	eth        *ethclient.Client
	chainID    *big.Int
	rpcTimeout time.Duration
	limiter    *rate.Limiter
}

// NewEVMClient dials the primary endpoint, then each fallback in order, and
// keeps the first one that answers with the configured chain id.
func NewEVMClient(ctx context.Context, cfg *config.NetworkConfig) (*EVMClient, error) {
	expected := new(big.Int).SetUint64(cfg.ChainID)
	var lastErr error

	for _, rpcURL := range cfg.RpcURLs() {
		dialCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
		client, err := ethclient.DialContext(dialCtx, rpcURL)
		if err != nil {
			cancel()
			lastErr = fmt.Errorf("failed to connect to RPC %s: %w", rpcURL, err)
			continue
		}

		chainID, err := client.ChainID(dialCtx)
		cancel()
		if err != nil {
			client.Close()
			lastErr = fmt.Errorf("failed to read chain id from %s: %w", rpcURL, err)
			continue
		}
		if chainID.Cmp(expected) != 0 {
			client.Close()
			lastErr = fmt.Errorf("chain id mismatch for %s: expected %s, got %s", rpcURL, expected, chainID)
			continue
		}

		log.Info().Str("rpcUrl", rpcURL).Str("chainId", chainID.String()).Msg("connected to chain rpc")
		return NewEVMClientFromEthClient(client, expected, cfg.RpcTimeout, cfg.RateLimit, cfg.BurstLimit), nil
	}

	return nil, fmt.Errorf("all RPC connection attempts failed for network %s: %w", cfg.Name, lastErr)
}

// NewEVMClientFromEthClient wraps an already dialed client.
func NewEVMClientFromEthClient(
	client *ethclient.Client, chainID *big.Int, rpcTimeout time.Duration, rateLimit float64, burst int,
) *EVMClient {
	limit := rate.Inf
	if rateLimit > 0 {
		limit = rate.Limit(rateLimit)
	}
	return &EVMClient{
		eth:        client,
		chainID:    new(big.Int).Set(chainID),
		rpcTimeout: rpcTimeout,
		limiter:    rate.NewLimiter(limit, burst),
	}
}

func (c *EVMClient) ChainID() *big.Int {
	return new(big.Int).Set(c.chainID)
}

func (c *EVMClient) Close() {
	c.eth.Close()
}

// call rate limits fn, bounds it by timeout and records its duration.
func (c *EVMClient) call(ctx context.Context, op string, timeout time.Duration, fn func(ctx context.Context) error) (err error) {
	started := time.Now()
	defer func() {
		metrics.ObserveRpcCall(op, err, started)
	}()

	if err = c.limiter.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %w", ErrRpcUnavailable, err)
	}

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return fn(callCtx)
}

func (c *EVMClient) BlockNumber(ctx context.Context) (uint64, error) {
	var head uint64
	err := c.call(ctx, "block_number", c.rpcTimeout, func(ctx context.Context) error {
		var err error
		head, err = c.eth.BlockNumber(ctx)
		return classifyError(err)
	})
	return head, err
}

func (c *EVMClient) ReadState(ctx context.Context, contract common.Address, calldata []byte, block *big.Int) (*StateRead, error) {
	if block == nil {
		head, err := c.BlockNumber(ctx)
		if err != nil {
			return nil, err
		}
		block = new(big.Int).SetUint64(head)
	}

	var data []byte
	err := c.call(ctx, "read_state", c.rpcTimeout, func(ctx context.Context) error {
		var err error
		data, err = c.eth.CallContract(ctx, ethereum.CallMsg{To: &contract, Data: calldata}, block)
		return classifyError(err)
	})
	if err != nil {
		return nil, err
	}
	return &StateRead{Data: data, BlockNumber: block.Uint64()}, nil
}

func (c *EVMClient) EstimateFee(ctx context.Context, msg CallMsg) (*FeeEstimate, error) {
	fee := &FeeEstimate{}
	err := c.call(ctx, "estimate_fee", c.rpcTimeout, func(ctx context.Context) error {
		to := msg.To
		gas, err := c.eth.EstimateGas(ctx, ethereum.CallMsg{
			From:  msg.From,
			To:    &to,
			Value: msg.Value,
			Data:  msg.Data,
		})
		if err != nil {
			return classifyError(err)
		}
		fee.GasLimit = gas

		header, err := c.eth.HeaderByNumber(ctx, nil)
		if err != nil {
			return classifyError(err)
		}
		if header.BaseFee == nil {
			fee.GasPrice, err = c.eth.SuggestGasPrice(ctx)
			return classifyError(err)
		}

		tip, err := c.eth.SuggestGasTipCap(ctx)
		if err != nil {
			return classifyError(err)
		}
		fee.GasTipCap = tip
		fee.GasFeeCap = new(big.Int).Add(new(big.Int).Mul(header.BaseFee, big.NewInt(2)), tip)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fee, nil
}

func (c *EVMClient) PendingNonce(ctx context.Context, account common.Address) (uint64, error) {
	var nonce uint64
	err := c.call(ctx, "pending_nonce", c.rpcTimeout, func(ctx context.Context) error {
		var err error
		nonce, err = c.eth.PendingNonceAt(ctx, account)
		return classifyError(err)
	})
	return nonce, err
}

// Submit broadcasts a signed transaction. A node that already holds the
// exact same transaction is treated as a successful submission.
func (c *EVMClient) Submit(ctx context.Context, tx *ethtypes.Transaction) (common.Hash, error) {
	err := c.call(ctx, "submit", c.rpcTimeout, func(ctx context.Context) error {
		err := c.eth.SendTransaction(ctx, tx)
		if isAlreadyKnown(err) {
			return nil
		}
		return classifyError(err)
	})
	if err != nil {
		return common.Hash{}, err
	}
	return tx.Hash(), nil
}

func (c *EVMClient) PollReceipt(ctx context.Context, hash common.Hash, timeout time.Duration) (*Receipt, error) {
	var receipt *ethtypes.Receipt
	err := c.call(ctx, "poll_receipt", timeout, func(ctx context.Context) error {
		var err error
		receipt, err = c.eth.TransactionReceipt(ctx, hash)
		if errors.Is(err, ethereum.NotFound) {
			return ErrNotYetMined
		}
		return classifyError(err)
	})
	if err != nil {
		return nil, err
	}
	return &Receipt{
		TxHash:      receipt.TxHash,
		Status:      receipt.Status,
		BlockNumber: receipt.BlockNumber.Uint64(),
		GasUsed:     receipt.GasUsed,
		Logs:        receipt.Logs,
	}, nil
}

func (c *EVMClient) RevertReason(ctx context.Context, msg CallMsg, blockNumber uint64) (string, error) {
	var reason string
	err := c.call(ctx, "revert_reason", c.rpcTimeout, func(ctx context.Context) error {
		to := msg.To
		_, err := c.eth.CallContract(ctx, ethereum.CallMsg{
			From:  msg.From,
			To:    &to,
			Value: msg.Value,
			Data:  msg.Data,
		}, new(big.Int).SetUint64(blockNumber))
		if err == nil {
			return nil
		}
		classified := classifyError(err)
		var revert *RevertError
		if errors.As(classified, &revert) {
			reason = revert.Reason
			return nil
		}
		return classified
	})
	return reason, err
}
