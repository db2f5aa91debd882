package signer

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lstlabs/lst-staking-service/internal/config"
)

var chainID = big.NewInt(10143)

func unsignedTx() *ethtypes.Transaction {
	to := common.HexToAddress("0xb2f82D0f38dc453D596Ad40A37799446Cc89274A")
	return ethtypes.NewTx(&ethtypes.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     0,
		GasTipCap: big.NewInt(1),
		GasFeeCap: big.NewInt(2),
		Gas:       50_000,
		To:        &to,
		Value:     big.NewInt(1_000_000),
	})
}

func TestSignRecoversSender(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	s := NewLocalSigner(key)
	from := crypto.PubkeyToAddress(key.PublicKey)

	signed, err := s.Sign(chainID, from, unsignedTx())
	require.NoError(t, err)

	sender, err := ethtypes.Sender(ethtypes.LatestSignerForChainID(chainID), signed)
	require.NoError(t, err)
	assert.Equal(t, from, sender)
}

func TestSignUnknownSenderIsDenied(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	s := NewLocalSigner(key)

	_, err = s.Sign(chainID, common.HexToAddress("0x01"), unsignedTx())
	assert.ErrorIs(t, err, ErrSigningDenied)
}

func TestNewFromConfig(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	encoded := hexutil.Encode(crypto.FromECDSA(key))

	s, err := New(&config.SignerConfig{PrivateKeys: []string{encoded, encoded[2:]}})
	require.NoError(t, err)
	assert.Equal(t, []common.Address{crypto.PubkeyToAddress(key.PublicKey)}, s.Addresses())

	_, err = New(&config.SignerConfig{PrivateKeys: []string{"not-a-key"}})
	assert.Error(t, err)

	empty, err := New(&config.SignerConfig{})
	require.NoError(t, err)
	assert.Empty(t, empty.Addresses())
}
