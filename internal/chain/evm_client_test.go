package chain

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lstlabs/lst-staking-service/internal/config"
)

const testChainID = 10143

type rpcRequest struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

type rpcFailure struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data,omitempty"`
}

type rpcHandlerFunc func(params []json.RawMessage) (interface{}, *rpcFailure)

// fakeNode answers JSON-RPC calls from a method table and records what it saw.
type fakeNode struct {
	mu       sync.Mutex
	handlers map[string]rpcHandlerFunc
	calls    []rpcRequest
}

func newFakeNode(chainID int64) *fakeNode {
	return &fakeNode{handlers: map[string]rpcHandlerFunc{
		"eth_chainId": func([]json.RawMessage) (interface{}, *rpcFailure) {
			return hexutil.EncodeBig(big.NewInt(chainID)), nil
		},
	}}
}

func (n *fakeNode) handle(method string, fn rpcHandlerFunc) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.handlers[method] = fn
}

func (n *fakeNode) callsTo(method string) []rpcRequest {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []rpcRequest
	for _, c := range n.calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

func (n *fakeNode) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req rpcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	n.mu.Lock()
	n.calls = append(n.calls, req)
	fn, ok := n.handlers[req.Method]
	n.mu.Unlock()

	resp := map[string]interface{}{"jsonrpc": "2.0", "id": req.ID}
	if !ok {
		resp["error"] = rpcFailure{Code: -32601, Message: "method not found"}
	} else if result, failure := fn(req.Params); failure != nil {
		resp["error"] = failure
	} else {
		resp["result"] = result
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func bigInt(v int64) *big.Int {
	return big.NewInt(v)
}

func networkConfig(urls ...string) *config.NetworkConfig {
	return &config.NetworkConfig{
		Name:            "testnet",
		ChainID:         testChainID,
		RpcURL:          urls[0],
		FallbackRpcURLs: urls[1:],
		NativeSymbol:    "MON",
		NativeDecimals:  18,
		DialTimeout:     2 * time.Second,
		RpcTimeout:      2 * time.Second,
	}
}

func setupClient(t *testing.T) (*EVMClient, *fakeNode) {
	node := newFakeNode(testChainID)
	server := httptest.NewServer(node)
	t.Cleanup(server.Close)

	client, err := NewEVMClient(context.Background(), networkConfig(server.URL))
	require.NoError(t, err)
	t.Cleanup(client.Close)
	return client, node
}

func TestNewEVMClientRejectsWrongChain(t *testing.T) {
	server := httptest.NewServer(newFakeNode(1))
	defer server.Close()

	_, err := NewEVMClient(context.Background(), networkConfig(server.URL))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chain id mismatch")
}

func TestNewEVMClientFallsBack(t *testing.T) {
	wrong := httptest.NewServer(newFakeNode(1))
	defer wrong.Close()
	right := httptest.NewServer(newFakeNode(testChainID))
	defer right.Close()

	client, err := NewEVMClient(context.Background(), networkConfig(wrong.URL, right.URL))
	require.NoError(t, err)
	defer client.Close()
	assert.Equal(t, int64(testChainID), client.ChainID().Int64())
}

func TestReadStatePinsLatestBlock(t *testing.T) {
	client, node := setupClient(t)
	node.handle("eth_blockNumber", func([]json.RawMessage) (interface{}, *rpcFailure) {
		return "0x10", nil
	})
	node.handle("eth_call", func(params []json.RawMessage) (interface{}, *rpcFailure) {
		return hexutil.Encode(common.LeftPadBytes([]byte{0x2a}, 32)), nil
	})

	read, err := client.ReadState(context.Background(), common.HexToAddress("0x01"), []byte{0x18, 0x16, 0x0d, 0xdd}, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(16), read.BlockNumber)
	assert.Equal(t, byte(0x2a), read.Data[31])

	calls := node.callsTo("eth_call")
	require.Len(t, calls, 1)
	require.Len(t, calls[0].Params, 2)
	assert.JSONEq(t, `"0x10"`, string(calls[0].Params[1]))
}

func TestReadStateAtGivenBlock(t *testing.T) {
	client, node := setupClient(t)
	node.handle("eth_call", func(params []json.RawMessage) (interface{}, *rpcFailure) {
		return hexutil.Encode(make([]byte, 32)), nil
	})

	read, err := client.ReadState(context.Background(), common.HexToAddress("0x01"), nil, big.NewInt(7))
	require.NoError(t, err)
	assert.Equal(t, uint64(7), read.BlockNumber)
	assert.Empty(t, node.callsTo("eth_blockNumber"))
}

func TestReadStateRevert(t *testing.T) {
	client, node := setupClient(t)
	data := encodeRevert(t, "paused")
	node.handle("eth_call", func(params []json.RawMessage) (interface{}, *rpcFailure) {
		return nil, &rpcFailure{Code: 3, Message: "execution reverted: paused", Data: data}
	})

	_, err := client.ReadState(context.Background(), common.HexToAddress("0x01"), nil, big.NewInt(1))
	require.ErrorIs(t, err, ErrContractReverted)

	var revert *RevertError
	require.ErrorAs(t, err, &revert)
	assert.Equal(t, "paused", revert.Reason)
}

func TestRevertReason(t *testing.T) {
	client, node := setupClient(t)
	data := encodeRevert(t, "not unlocked")
	node.handle("eth_call", func(params []json.RawMessage) (interface{}, *rpcFailure) {
		return nil, &rpcFailure{Code: 3, Message: "execution reverted: not unlocked", Data: data}
	})

	reason, err := client.RevertReason(context.Background(), CallMsg{To: common.HexToAddress("0x01")}, 12)
	require.NoError(t, err)
	assert.Equal(t, "not unlocked", reason)
}

func signedTx(t *testing.T) *ethtypes.Transaction {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	to := common.HexToAddress("0x02")
	tx, err := ethtypes.SignTx(ethtypes.NewTx(&ethtypes.DynamicFeeTx{
		ChainID:   big.NewInt(testChainID),
		Nonce:     3,
		GasTipCap: big.NewInt(1),
		GasFeeCap: big.NewInt(100),
		Gas:       21000,
		To:        &to,
		Value:     big.NewInt(1),
	}), ethtypes.LatestSignerForChainID(big.NewInt(testChainID)), key)
	require.NoError(t, err)
	return tx
}

func TestSubmitTreatsAlreadyKnownAsSuccess(t *testing.T) {
	client, node := setupClient(t)
	node.handle("eth_sendRawTransaction", func([]json.RawMessage) (interface{}, *rpcFailure) {
		return nil, &rpcFailure{Code: -32000, Message: "already known"}
	})

	tx := signedTx(t)
	hash, err := client.Submit(context.Background(), tx)
	require.NoError(t, err)
	assert.Equal(t, tx.Hash(), hash)
}

func TestSubmitClassifiesNonceConflict(t *testing.T) {
	client, node := setupClient(t)
	node.handle("eth_sendRawTransaction", func([]json.RawMessage) (interface{}, *rpcFailure) {
		return nil, &rpcFailure{Code: -32000, Message: "nonce too low: next nonce 4, tx nonce 3"}
	})

	_, err := client.Submit(context.Background(), signedTx(t))
	assert.ErrorIs(t, err, ErrNonceConflict)
}

func TestSubmitClassifiesUnavailableNode(t *testing.T) {
	server := httptest.NewServer(newFakeNode(testChainID))
	client, err := NewEVMClient(context.Background(), networkConfig(server.URL))
	require.NoError(t, err)
	defer client.Close()
	server.Close()

	_, err = client.Submit(context.Background(), signedTx(t))
	assert.ErrorIs(t, err, ErrRpcUnavailable)
}

func TestPollReceiptNotYetMined(t *testing.T) {
	client, node := setupClient(t)
	node.handle("eth_getTransactionReceipt", func([]json.RawMessage) (interface{}, *rpcFailure) {
		return nil, nil
	})

	_, err := client.PollReceipt(context.Background(), common.HexToHash("0xabc"), time.Second)
	assert.ErrorIs(t, err, ErrNotYetMined)
}

func TestPollReceiptMined(t *testing.T) {
	client, node := setupClient(t)
	hash := common.HexToHash("0xabc")
	node.handle("eth_getTransactionReceipt", func([]json.RawMessage) (interface{}, *rpcFailure) {
		return &ethtypes.Receipt{
			Type:              ethtypes.DynamicFeeTxType,
			Status:            ethtypes.ReceiptStatusSuccessful,
			CumulativeGasUsed: 21000,
			Logs:              []*ethtypes.Log{},
			TxHash:            hash,
			GasUsed:           21000,
			BlockHash:         common.HexToHash("0x01"),
			BlockNumber:       big.NewInt(99),
		}, nil
	})

	receipt, err := client.PollReceipt(context.Background(), hash, time.Second)
	require.NoError(t, err)
	assert.True(t, receipt.Succeeded())
	assert.Equal(t, uint64(99), receipt.BlockNumber)
	assert.Equal(t, hash, receipt.TxHash)
}

func TestPendingNonce(t *testing.T) {
	client, node := setupClient(t)
	node.handle("eth_getTransactionCount", func(params []json.RawMessage) (interface{}, *rpcFailure) {
		return "0x5", nil
	})

	nonce, err := client.PendingNonce(context.Background(), common.HexToAddress("0x03"))
	require.NoError(t, err)
	assert.Equal(t, uint64(5), nonce)

	calls := node.callsTo("eth_getTransactionCount")
	require.Len(t, calls, 1)
	assert.JSONEq(t, `"pending"`, string(calls[0].Params[1]))
}
