package registry

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lstlabs/lst-staking-service/internal/testutil"
	"github.com/lstlabs/lst-staking-service/internal/types"
)

var owner = common.HexToAddress("0x00000000000000000000000000000000000000aa")

func newTestRegistry(t *testing.T) *Registry {
	r, err := New(testutil.Descriptors())
	require.NoError(t, err)
	return r
}

func TestResolveRoundTrip(t *testing.T) {
	r := newTestRegistry(t)
	all := r.ListAll()
	require.Len(t, all, 3)

	for i, p := range all {
		resolved, err := r.Resolve(p.Symbol())
		require.NoError(t, err)
		assert.Same(t, all[i], resolved)
	}
}

func TestListAllKeepsRegistrationOrder(t *testing.T) {
	r := newTestRegistry(t)
	var symbols []string
	for _, p := range r.ListAll() {
		symbols = append(symbols, p.Symbol())
	}
	assert.Equal(t, []string{"aprMON", "gMON", "shMON"}, symbols)

	// mutating the returned slice does not affect the registry
	listed := r.ListAll()
	listed[0] = nil
	assert.NotNil(t, r.ListAll()[0])
}

func TestResolveUnknownProtocol(t *testing.T) {
	r := newTestRegistry(t)
	_, err := r.Resolve("stMON")
	assert.ErrorIs(t, err, ErrUnknownProtocol)
}

func TestNewRejectsDuplicateSymbols(t *testing.T) {
	_, err := New([]types.ProtocolDescriptor{testutil.AprMON(), testutil.AprMON()})
	assert.ErrorContains(t, err, "duplicate protocol symbol")
}

func TestNewRejectsArgTypeMismatch(t *testing.T) {
	d := testutil.AprMON()
	d.Balance.Args = []types.CallArg{types.ArgAmount}
	_, err := New([]types.ProtocolDescriptor{d})
	assert.ErrorContains(t, err, "amount must bind to uint256")

	d = testutil.AprMON()
	d.Stake.Args = []types.CallArg{types.ArgAmount}
	_, err = New([]types.ProtocolDescriptor{d})
	assert.ErrorContains(t, err, "declares 2 inputs but 1 args are bound")
}

func TestNewRejectsClaimOnInstantProtocol(t *testing.T) {
	d := testutil.AprMON()
	d.Claim = &types.ContractCall{Method: "claim(uint256)", Args: []types.CallArg{types.ArgWithdrawalID}}
	_, err := New([]types.ProtocolDescriptor{d})
	assert.ErrorContains(t, err, "instant protocols cannot define a claim call")
}

func TestBuildStakeCall(t *testing.T) {
	r := newTestRegistry(t)
	amount := big.NewInt(1_000_000)

	apr, err := r.Resolve("aprMON")
	require.NoError(t, err)
	call, err := apr.BuildIntentCall(types.NewStakeIntent("aprMON", owner, amount, ""))
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress(testutil.AprMONAddress), call.To)
	assert.Equal(t, "0x6e553f65", hexutil.Encode(call.Data[:4]))
	assert.Len(t, call.Data, 4+64)
	assert.Equal(t, 0, amount.Cmp(new(big.Int).SetBytes(call.Data[4:36])))
	assert.Equal(t, owner, common.BytesToAddress(call.Data[36:68]))
	assert.Equal(t, 0, amount.Cmp(call.Value))

	gmon, err := r.Resolve("gMON")
	require.NoError(t, err)
	call, err = gmon.BuildIntentCall(types.NewStakeIntent("gMON", owner, amount, ""))
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress(testutil.GMONManagerAddress), call.To)
	assert.Equal(t, "0xd5575982", hexutil.Encode(call.Data))
	assert.Equal(t, 0, amount.Cmp(call.Value))
}

func TestBuildUnstakeCallIsNotPayable(t *testing.T) {
	r := newTestRegistry(t)
	gmon, err := r.Resolve("gMON")
	require.NoError(t, err)

	call, err := gmon.BuildIntentCall(types.NewUnstakeIntent("gMON", owner, big.NewInt(42), ""))
	require.NoError(t, err)
	assert.Equal(t, "0x6fed1ea7", hexutil.Encode(call.Data[:4]))
	assert.Equal(t, 0, call.Value.Sign())
}

func TestBuildClaimCall(t *testing.T) {
	r := newTestRegistry(t)

	apr, err := r.Resolve("aprMON")
	require.NoError(t, err)
	_, err = apr.BuildIntentCall(types.NewClaimIntent("aprMON", owner, big.NewInt(1), ""))
	assert.ErrorIs(t, err, ErrClaimNotSupported)

	sh, err := r.Resolve("shMON")
	require.NoError(t, err)
	call, err := sh.BuildIntentCall(types.NewClaimIntent("shMON", owner, big.NewInt(7), ""))
	require.NoError(t, err)
	expected := crypto.Keccak256([]byte("claimRedeem(uint256,address)"))[:4]
	assert.Equal(t, expected, call.Data[:4])
	assert.Equal(t, int64(7), new(big.Int).SetBytes(call.Data[4:36]).Int64())
}

func TestReadCalls(t *testing.T) {
	r := newTestRegistry(t)
	apr, err := r.Resolve("aprMON")
	require.NoError(t, err)

	balance, err := apr.BalanceCall(owner)
	require.NoError(t, err)
	assert.Equal(t, "0x70a08231", hexutil.Encode(balance.Data[:4]))

	rate, err := apr.ExchangeRateCall()
	require.NoError(t, err)
	oneShare := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	assert.Equal(t, 0, oneShare.Cmp(new(big.Int).SetBytes(rate.Data[4:36])))

	tvl, err := apr.TvlCall()
	require.NoError(t, err)
	require.NotNil(t, tvl)
	supply, err := apr.SupplyCall()
	require.NoError(t, err)
	assert.Nil(t, supply)

	gmon, err := r.Resolve("gMON")
	require.NoError(t, err)
	assert.False(t, gmon.HasExchangeRate())
	_, err = gmon.ExchangeRateCall()
	assert.ErrorIs(t, err, ErrNoExchangeRate)

	sh, err := r.Resolve("shMON")
	require.NoError(t, err)
	supply, err = sh.SupplyCall()
	require.NoError(t, err)
	assert.Equal(t, "0x18160ddd", hexutil.Encode(supply.Data))
}

func TestDecodeAmount(t *testing.T) {
	r := newTestRegistry(t)
	apr, err := r.Resolve("aprMON")
	require.NoError(t, err)

	word := common.LeftPadBytes(big.NewInt(123456).Bytes(), 32)
	v, err := apr.DecodeAmount(word)
	require.NoError(t, err)
	assert.Equal(t, int64(123456), v.Int64())

	_, err = apr.DecodeAmount(nil)
	assert.Error(t, err)
}

func TestWithdrawalID(t *testing.T) {
	r := newTestRegistry(t)
	sh, err := r.Resolve("shMON")
	require.NoError(t, err)

	topic := crypto.Keccak256Hash([]byte(testutil.RedeemRequestEvent))
	id := common.BigToHash(big.NewInt(99))
	logs := []*ethtypes.Log{
		{Address: common.HexToAddress(testutil.AprMONAddress), Topics: []common.Hash{topic, {}, {}, common.BigToHash(big.NewInt(1))}},
		{Address: common.HexToAddress(testutil.ShMONAddress), Topics: []common.Hash{topic, common.BytesToHash(owner.Bytes()), common.BytesToHash(owner.Bytes()), id}},
	}
	got, err := sh.WithdrawalID(logs)
	require.NoError(t, err)
	assert.Equal(t, int64(99), got.Int64())

	_, err = sh.WithdrawalID(logs[:1])
	assert.ErrorIs(t, err, ErrWithdrawalIDNotFound)

	apr, err := r.Resolve("aprMON")
	require.NoError(t, err)
	_, err = apr.WithdrawalID(logs)
	assert.ErrorIs(t, err, ErrWithdrawalIDNotFound)
}

func TestShippedProtocolsCompile(t *testing.T) {
	descriptors, err := types.NewProtocolDescriptors("../../config/protocols.json")
	require.NoError(t, err)

	r, err := New(descriptors.Protocols)
	require.NoError(t, err)
	symbols := make([]string, 0, len(r.ListAll()))
	for _, p := range r.ListAll() {
		symbols = append(symbols, p.Symbol())
	}
	assert.Equal(t, []string{"aprMON", "gMON", "shMON"}, symbols)

	shmon, err := r.Resolve("shMON")
	require.NoError(t, err)
	assert.Equal(t, types.RequestThenClaim, shmon.UnstakeMode())
	assert.True(t, shmon.HasExchangeRate())

	gmon, err := r.Resolve("gMON")
	require.NoError(t, err)
	assert.NotEqual(t, gmon.Token, gmon.StakingContract)
}
