package services

import (
	"bytes"
	"context"
	"math/big"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lstlabs/lst-staking-service/internal/chain"
	"github.com/lstlabs/lst-staking-service/internal/config"
	"github.com/lstlabs/lst-staking-service/internal/db"
	"github.com/lstlabs/lst-staking-service/internal/pipeline"
	"github.com/lstlabs/lst-staking-service/internal/registry"
	"github.com/lstlabs/lst-staking-service/internal/signer"
	"github.com/lstlabs/lst-staking-service/internal/testutil"
	"github.com/lstlabs/lst-staking-service/internal/testutil/fakechain"
	"github.com/lstlabs/lst-staking-service/internal/types"
	"github.com/lstlabs/lst-staking-service/internal/utils"
)

const testNetwork = "monadTestnet"

func selector(signature string) []byte {
	return crypto.Keccak256([]byte(signature))[:4]
}

func word(v *big.Int) []byte {
	return common.LeftPadBytes(v.Bytes(), 32)
}

func eth(units int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(units), utils.Pow10(18))
}

// ledger is a minimal model of the fixture contracts: vault deposits mint
// shares one to one and accessors answer from fixed values.
type ledger struct {
	mu          sync.Mutex
	balances    map[common.Address]*big.Int
	totalAssets *big.Int
	gmonTvl     *big.Int
	supply      *big.Int
	rate        *big.Int
	readBlocks  map[string][]uint64
	readErr     error
	// set before the first unstake, RedeemRequest logs are left out
	dropRedeemEvents bool
}

func newLedger() *ledger {
	return &ledger{
		balances:    make(map[common.Address]*big.Int),
		totalAssets: eth(5),
		gmonTvl:     eth(2),
		supply:      eth(10),
		rate:        new(big.Int).Div(new(big.Int).Mul(eth(1), big.NewInt(105)), big.NewInt(100)),
		readBlocks:  make(map[string][]uint64),
	}
}

func (l *ledger) mine(tx *ethtypes.Transaction, from common.Address, block uint64) fakechain.MineResult {
	result := fakechain.MineResult{Status: ethtypes.ReceiptStatusSuccessful}
	if tx.To() != nil && *tx.To() == common.HexToAddress(testutil.AprMONAddress) &&
		bytes.HasPrefix(tx.Data(), selector("deposit(uint256,address)")) {
		l.mu.Lock()
		defer l.mu.Unlock()
		current, ok := l.balances[from]
		if !ok {
			current = new(big.Int)
		}
		l.balances[from] = new(big.Int).Add(current, tx.Value())
	}
	if tx.To() != nil && *tx.To() == common.HexToAddress(testutil.ShMONAddress) &&
		bytes.HasPrefix(tx.Data(), selector("requestRedeem(uint256,address,address)")) && !l.dropRedeemEvents {
		result.Logs = []*ethtypes.Log{{
			Address: common.HexToAddress(testutil.ShMONAddress),
			Topics: []common.Hash{
				crypto.Keccak256Hash([]byte(testutil.RedeemRequestEvent)),
				common.BytesToHash(from.Bytes()),
				common.BytesToHash(from.Bytes()),
				common.BigToHash(big.NewInt(11)),
			},
		}}
	}
	return result
}

func (l *ledger) call(to common.Address, data []byte, block uint64) ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.readErr != nil {
		return nil, l.readErr
	}
	record := func(name string) {
		l.readBlocks[name] = append(l.readBlocks[name], block)
	}
	switch {
	case bytes.HasPrefix(data, selector("balanceOf(address)")):
		record("balanceOf")
		balance, ok := l.balances[common.BytesToAddress(data[4:36])]
		if !ok {
			balance = new(big.Int)
		}
		return word(balance), nil
	case bytes.HasPrefix(data, selector("totalAssets()")):
		record("totalAssets")
		return word(l.totalAssets), nil
	case bytes.HasPrefix(data, selector("calculateTVL()")):
		record("calculateTVL")
		return word(l.gmonTvl), nil
	case bytes.HasPrefix(data, selector("totalSupply()")):
		record("totalSupply")
		return word(l.supply), nil
	case bytes.HasPrefix(data, selector("convertToAssets(uint256)")):
		record("convertToAssets")
		return word(l.rate), nil
	}
	return nil, &chain.RevertError{Reason: "unknown selector"}
}

type testEnv struct {
	svc      *Services
	chain    *fakechain.Chain
	ledger   *ledger
	pipeline *pipeline.Pipeline
	from     common.Address
	now      time.Time
	nowMu    sync.Mutex
	gate     chan struct{}
	gateOnce sync.Once
}

func (e *testEnv) clock() time.Time {
	e.nowMu.Lock()
	defer e.nowMu.Unlock()
	return e.now
}

func (e *testEnv) advance(d time.Duration) {
	e.nowMu.Lock()
	defer e.nowMu.Unlock()
	e.now = e.now.Add(d)
}

func (e *testEnv) release() {
	e.gateOnce.Do(func() { close(e.gate) })
}

type envOption func(*config.Config, *[]types.ProtocolDescriptor)

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()
	cfg := &config.Config{
		Server: config.ServerConfig{RequestWaitTimeout: 5 * time.Second},
		Network: config.NetworkConfig{
			Name:           testNetwork,
			ChainID:        10143,
			RpcURL:         "https://testnet-rpc.monad.xyz",
			NativeSymbol:   "MON",
			NativeDecimals: 18,
		},
		Pipeline: config.DefaultPipelineConfig(),
	}
	cfg.Pipeline.MaxReceiptPolls = 5
	descriptors := testutil.Descriptors()
	for _, opt := range opts {
		opt(cfg, &descriptors)
	}

	reg, err := registry.New(descriptors)
	require.NoError(t, err)
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	env := &testEnv{
		chain:  fakechain.New(10143),
		ledger: newLedger(),
		from:   crypto.PubkeyToAddress(key.PublicKey),
		now:    time.Unix(1_700_000_000, 0).UTC(),
		gate:   make(chan struct{}),
	}
	env.chain.OnMine(env.ledger.mine)
	env.chain.OnCall(env.ledger.call)

	// polling sleeps wait for release only while receipts are held
	utils.SetSleepFunc(func(time.Duration) {})
	t.Cleanup(utils.ResetSleepFunc)

	store := db.NewMemoryStore()
	env.pipeline = pipeline.New(env.chain, reg, signer.NewLocalSigner(key), store, cfg.Pipeline,
		pipeline.WithClock(env.clock))
	env.svc = New(cfg, reg, env.chain, store, env.pipeline)
	t.Cleanup(func() {
		env.release()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		require.NoError(t, env.pipeline.Shutdown(ctx))
	})
	return env
}

func requireApiError(t *testing.T, err *types.Error, status int, code types.ErrorCode) {
	t.Helper()
	require.NotNil(t, err)
	assert.Equal(t, status, err.StatusCode, err.Error())
	assert.Equal(t, code, err.ErrorCode, err.Error())
}

func TestGetNetworks(t *testing.T) {
	env := newTestEnv(t)
	networks := env.svc.GetNetworks(context.Background())
	require.Len(t, networks, 1)
	assert.Equal(t, testNetwork, networks[0].Name)
	assert.Equal(t, "10143", networks[0].ChainID)
	assert.Equal(t, "MON", networks[0].NativeSymbol)
}

func TestUnknownNetwork(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.svc.ListLsts(context.Background(), "ethereum")
	requireApiError(t, err, http.StatusNotFound, types.UnknownNetwork)

	_, err = env.svc.GetTvl(context.Background(), "ethereum", "aprMON")
	requireApiError(t, err, http.StatusNotFound, types.UnknownNetwork)
}

func TestListLstsKeepsRegistrationOrder(t *testing.T) {
	env := newTestEnv(t)
	lsts, err := env.svc.ListLsts(context.Background(), testNetwork)
	require.Nil(t, err)
	require.Len(t, lsts, 3)
	assert.Equal(t, []string{"aprMON", "gMON", "shMON"}, []string{lsts[0].Symbol, lsts[1].Symbol, lsts[2].Symbol})
	assert.Equal(t, "request_then_claim", lsts[2].UnstakeMode)
	assert.Equal(t, common.HexToAddress(testutil.GMONManagerAddress).Hex(), lsts[1].ContractAddress)
	assert.Equal(t, common.HexToAddress(testutil.GMONTokenAddress).Hex(), lsts[1].TokenAddress)
}

func TestGetLstDetail(t *testing.T) {
	env := newTestEnv(t)

	detail, err := env.svc.GetLst(context.Background(), testNetwork, "aprMON")
	require.Nil(t, err)
	assert.Equal(t, "aPriori Monad LST", detail.Name)
	assert.NotEmpty(t, detail.Description)
	require.NotNil(t, detail.ExchangeRate)
	assert.Equal(t, "1.05", detail.ExchangeRate.Formatted)
	assert.Equal(t, uint8(18), detail.ExchangeRate.RateDecimals)
	assert.Equal(t, env.chain.Head(), detail.ExchangeRate.AsOf)

	gmon, err := env.svc.GetLst(context.Background(), testNetwork, "gMON")
	require.Nil(t, err)
	assert.Nil(t, gmon.ExchangeRate)

	_, err = env.svc.GetLst(context.Background(), testNetwork, "stMON")
	requireApiError(t, err, http.StatusNotFound, types.UnknownProtocol)
}

func TestGetTvlDirect(t *testing.T) {
	env := newTestEnv(t)

	tvl, err := env.svc.GetTvl(context.Background(), testNetwork, "aprMON")
	require.Nil(t, err)
	assert.Equal(t, eth(5).String(), tvl.Amount)
	assert.Equal(t, "5", tvl.Formatted)
	assert.Equal(t, uint8(18), tvl.Decimals)
	assert.Equal(t, env.chain.Head(), tvl.AsOf)
}

func TestGetTvlSupplyTimesRateRoundsDown(t *testing.T) {
	env := newTestEnv(t, func(cfg *config.Config, descriptors *[]types.ProtocolDescriptor) {
		(*descriptors)[2].RateDecimals = 3
	})
	env.ledger.supply = big.NewInt(100)
	env.ledger.rate = big.NewInt(1005)

	tvl, err := env.svc.GetTvl(context.Background(), testNetwork, "shMON")
	require.Nil(t, err)
	// 100 * 1.005 = 100.5 truncates to 100
	assert.Equal(t, "100", tvl.Amount)
	assert.Equal(t, env.chain.Head(), tvl.AsOf)

	// both reads are pinned to the same block
	assert.Equal(t, []uint64{tvl.AsOf}, env.ledger.readBlocks["totalSupply"])
	assert.Equal(t, []uint64{tvl.AsOf}, env.ledger.readBlocks["convertToAssets"])
}

func TestGetNetworkTvl(t *testing.T) {
	env := newTestEnv(t)

	tvls, err := env.svc.GetNetworkTvl(context.Background(), testNetwork)
	require.Nil(t, err)
	require.Len(t, tvls, 3)
	assert.Equal(t, "aprMON", tvls[0].Symbol)
	assert.Equal(t, "5", tvls[0].Formatted)
	assert.Equal(t, "gMON", tvls[1].Symbol)
	assert.Equal(t, "2", tvls[1].Formatted)
	assert.Equal(t, "shMON", tvls[2].Symbol)
	// 10 shares at 1.05
	assert.Equal(t, "10.5", tvls[2].Formatted)
}

func TestReadFailuresAreMapped(t *testing.T) {
	env := newTestEnv(t)
	env.ledger.readErr = chain.ErrRpcUnavailable

	_, err := env.svc.GetBalance(context.Background(), testNetwork, env.from.Hex(), "aprMON")
	requireApiError(t, err, http.StatusServiceUnavailable, types.RpcUnavailable)

	_, err = env.svc.GetNetworkTvl(context.Background(), testNetwork)
	requireApiError(t, err, http.StatusServiceUnavailable, types.RpcUnavailable)

	env.ledger.readErr = nil
	env.chain.SetBlockNumberErr(chain.ErrRpcUnavailable)
	_, err = env.svc.GetTvl(context.Background(), testNetwork, "shMON")
	requireApiError(t, err, http.StatusServiceUnavailable, types.RpcUnavailable)
}

func TestGetBalanceValidation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.GetBalance(context.Background(), testNetwork, "0x1234", "aprMON")
	requireApiError(t, err, http.StatusBadRequest, types.ValidationError)

	_, err = env.svc.GetBalance(context.Background(), testNetwork, env.from.Hex(), "stMON")
	requireApiError(t, err, http.StatusNotFound, types.UnknownProtocol)
}

func TestStakeThenBalance(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	before, err := env.svc.GetBalance(ctx, testNetwork, env.from.Hex(), "aprMON")
	require.Nil(t, err)
	assert.Equal(t, "0", before.Amount)

	job, finished, err := env.svc.Stake(ctx, testNetwork, "aprMON", ToolRequest{Amount: "1000000", From: env.from.Hex()})
	require.Nil(t, err)
	require.True(t, finished)
	assert.Equal(t, "confirmed", job.State)
	assert.NotEmpty(t, job.TxHash)
	assert.Empty(t, job.WithdrawalID)

	after, err := env.svc.GetBalance(ctx, testNetwork, env.from.Hex(), "aprMON")
	require.Nil(t, err)
	amount, ok := new(big.Int).SetString(after.Amount, 10)
	require.True(t, ok)
	assert.GreaterOrEqual(t, amount.Cmp(big.NewInt(1_000_000)), 0)
	assert.Greater(t, after.AsOf, before.AsOf)
}

func TestStakeRejectsInvalidInput(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, amount := range []string{"", "0", "-1", "1.5", "1e18", "0x10", "abc"} {
		_, _, err := env.svc.Stake(ctx, testNetwork, "aprMON", ToolRequest{Amount: amount, From: env.from.Hex()})
		requireApiError(t, err, http.StatusBadRequest, types.InvalidAmount)
	}

	// 2^256+7
	overflow := "115792089237316195423570985008687907853269984665640564039457584007913129639943"
	_, _, err := env.svc.Unstake(ctx, testNetwork, "gMON", ToolRequest{Amount: overflow, From: env.from.Hex()})
	requireApiError(t, err, http.StatusBadRequest, types.InvalidAmount)

	_, _, err = env.svc.Stake(ctx, testNetwork, "aprMON", ToolRequest{Amount: "1", From: "not-an-address"})
	requireApiError(t, err, http.StatusBadRequest, types.ValidationError)

	_, _, err = env.svc.Stake(ctx, testNetwork, "stMON", ToolRequest{Amount: "1", From: env.from.Hex()})
	requireApiError(t, err, http.StatusNotFound, types.UnknownProtocol)

	_, _, err = env.svc.Claim(ctx, testNetwork, "aprMON", ToolRequest{WithdrawalID: "1", From: env.from.Hex()})
	requireApiError(t, err, http.StatusBadRequest, types.UnsupportedOperation)

	assert.Empty(t, env.chain.Submissions())
}

func TestUnstakeThenClaim(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	from := env.from.Hex()

	request, finished, err := env.svc.Unstake(ctx, testNetwork, "shMON", ToolRequest{Amount: "500000", From: from})
	require.Nil(t, err)
	require.True(t, finished)
	assert.Equal(t, "confirmed", request.State)
	assert.Equal(t, "11", request.WithdrawalID)
	assert.Equal(t, utils.FormatTimestamp(env.clock().Add(48*time.Hour)), request.UnlockAt)

	withdrawals, err := env.svc.GetWithdrawals(ctx, testNetwork, from)
	require.Nil(t, err)
	require.Len(t, withdrawals, 1)
	assert.Equal(t, "pending", withdrawals[0].State)
	assert.Equal(t, "500000", withdrawals[0].Amount)
	assert.False(t, withdrawals[0].Claimable)

	submitted := len(env.chain.Submissions())
	_, _, err = env.svc.Claim(ctx, testNetwork, "shMON", ToolRequest{WithdrawalID: "11", From: from})
	requireApiError(t, err, http.StatusBadRequest, types.WithdrawalNotYetUnlocked)
	assert.Equal(t, request.UnlockAt, err.Details["unlockAt"])
	assert.Len(t, env.chain.Submissions(), submitted)

	env.advance(48 * time.Hour)
	withdrawals, err = env.svc.GetWithdrawals(ctx, testNetwork, from)
	require.Nil(t, err)
	assert.True(t, withdrawals[0].Claimable)

	claim, finished, err := env.svc.Claim(ctx, testNetwork, "shMON", ToolRequest{WithdrawalID: "11", From: from})
	require.Nil(t, err)
	require.True(t, finished)
	assert.Equal(t, "confirmed", claim.State)
	assert.Equal(t, "claim", claim.Kind)
	assert.Empty(t, claim.WithdrawalID)

	_, _, err = env.svc.Claim(ctx, testNetwork, "shMON", ToolRequest{WithdrawalID: "11", From: from})
	requireApiError(t, err, http.StatusConflict, types.WithdrawalAlreadyClaimed)

	_, _, err = env.svc.Claim(ctx, testNetwork, "shMON", ToolRequest{WithdrawalID: "12", From: from})
	requireApiError(t, err, http.StatusNotFound, types.WithdrawalNotFound)

	_, _, err = env.svc.Claim(ctx, testNetwork, "shMON", ToolRequest{WithdrawalID: "x", From: from})
	requireApiError(t, err, http.StatusBadRequest, types.ValidationError)
}

func TestRevertedJobReportsTxHash(t *testing.T) {
	env := newTestEnv(t)
	env.chain.OnMine(func(tx *ethtypes.Transaction, from common.Address, block uint64) fakechain.MineResult {
		return fakechain.MineResult{Status: ethtypes.ReceiptStatusFailed, RevertReason: "ERC4626: redeem more than max"}
	})

	_, finished, err := env.svc.Unstake(context.Background(), testNetwork, "aprMON",
		ToolRequest{Amount: "10", From: env.from.Hex()})
	assert.True(t, finished)
	requireApiError(t, err, http.StatusUnprocessableEntity, types.ContractReverted)
	assert.Equal(t, "ERC4626: redeem more than max", err.Details["revertReason"])
	assert.Equal(t, "reverted", err.Details["state"])
	assert.Equal(t, 1, err.Details["attempts"])
	txHash, ok := err.Details["txHash"].(string)
	require.True(t, ok)
	assert.Equal(t, env.chain.Submissions()[0].Hash().Hex(), txHash)
}

func TestAbandonedJobReportsAttempts(t *testing.T) {
	env := newTestEnv(t)
	env.chain.ScriptSubmits(
		fakechain.SubmitOutcome{Err: chain.ErrRpcUnavailable},
		fakechain.SubmitOutcome{Err: chain.ErrRpcUnavailable},
		fakechain.SubmitOutcome{Err: chain.ErrRpcUnavailable},
		fakechain.SubmitOutcome{Err: chain.ErrRpcUnavailable},
	)

	_, _, err := env.svc.Stake(context.Background(), testNetwork, "aprMON",
		ToolRequest{Amount: "10", From: env.from.Hex()})
	requireApiError(t, err, http.StatusServiceUnavailable, types.RpcUnavailable)
	assert.Equal(t, "abandoned", err.Details["state"])
	assert.Equal(t, 4, err.Details["attempts"])
	assert.NotEmpty(t, err.Details["txHash"])
}

func TestToolAcceptedWhileJobRuns(t *testing.T) {
	env := newTestEnv(t, func(cfg *config.Config, _ *[]types.ProtocolDescriptor) {
		cfg.Server.RequestWaitTimeout = 20 * time.Millisecond
	})
	env.chain.SetReceiptDelay(1)
	utils.SetSleepFunc(func(time.Duration) { <-env.gate })

	job, finished, err := env.svc.Stake(context.Background(), testNetwork, "aprMON",
		ToolRequest{Amount: "10", From: env.from.Hex()})
	require.Nil(t, err)
	assert.False(t, finished)
	assert.Equal(t, "submitted", job.State)
	assert.NotEmpty(t, job.TxHash)

	env.release()
	running, err := env.svc.GetJob(context.Background(), job.JobID)
	require.Nil(t, err)
	assert.Equal(t, job.JobID, running.JobID)

	handle, jobErr := env.pipeline.Job(job.JobID)
	require.NoError(t, jobErr)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	snapshot, waitErr := handle.Wait(ctx)
	require.NoError(t, waitErr)
	assert.Equal(t, types.Confirmed, snapshot.State)

	done, err := env.svc.GetJob(context.Background(), job.JobID)
	require.Nil(t, err)
	assert.Equal(t, "confirmed", done.State)
	assert.Equal(t, job.TxHash, done.TxHash)
}

func TestCallerGoneAbandonsUnsignedJob(t *testing.T) {
	env := newTestEnv(t)
	estimating := make(chan struct{})
	var once sync.Once
	env.chain.OnEstimate(func(chain.CallMsg) error {
		once.Do(func() { close(estimating) })
		<-env.gate
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-estimating
		cancel()
	}()
	_, finished, err := env.svc.Stake(ctx, testNetwork, "aprMON", ToolRequest{Amount: "10", From: env.from.Hex()})
	assert.False(t, finished)
	requireApiError(t, err, http.StatusRequestTimeout, types.RequestCanceled)

	env.release()
	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	require.NoError(t, env.pipeline.Shutdown(shutdownCtx))
	assert.Empty(t, env.chain.Submissions())
}

func TestGetJobNotFound(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.svc.GetJob(context.Background(), "missing")
	requireApiError(t, err, http.StatusNotFound, types.NotFound)
}

func TestConfirmedUnstakeWithoutWithdrawalEvent(t *testing.T) {
	env := newTestEnv(t)
	env.ledger.dropRedeemEvents = true

	job, finished, err := env.svc.Unstake(context.Background(), testNetwork, "shMON",
		ToolRequest{Amount: "500000", From: env.from.Hex()})
	require.Nil(t, err)
	require.True(t, finished)
	assert.Equal(t, "confirmed", job.State)
	assert.NotEmpty(t, job.TxHash)
	assert.Empty(t, job.WithdrawalID)
	assert.Contains(t, job.Error, "withdrawal")

	withdrawals, err := env.svc.GetWithdrawals(context.Background(), testNetwork, env.from.Hex())
	require.Nil(t, err)
	assert.Empty(t, withdrawals)
}
