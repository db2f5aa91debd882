package model

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lstlabs/lst-staking-service/internal/types"
)

func TestPendingWithdrawalDocumentRoundTrip(t *testing.T) {
	id, _ := new(big.Int).SetString("340282366920938463463374607431768211457", 10)
	w := &types.PendingWithdrawal{
		Protocol:      "shMON",
		Owner:         "0xAbCdEf0000000000000000000000000000000001",
		ID:            id,
		Amount:        big.NewInt(500_000),
		UnlockAt:      time.Unix(1_700_172_800, 0).UTC(),
		RequestTxHash: "0xrequest",
		State:         types.WithdrawalPending,
		CreatedAt:     time.Unix(1_700_000_000, 0).UTC(),
		UpdatedAt:     time.Unix(1_700_000_000, 0).UTC(),
	}

	doc := FromPendingWithdrawal(w)
	assert.Equal(t, "shMON/0xabcdef0000000000000000000000000000000001/340282366920938463463374607431768211457", doc.Key)
	assert.Equal(t, "0xabcdef0000000000000000000000000000000001", doc.Owner)

	back, err := doc.ToPendingWithdrawal()
	require.NoError(t, err)
	assert.Equal(t, id.String(), back.ID.String())
	assert.Equal(t, w.UnlockAt, back.UnlockAt)
	assert.Equal(t, w.Key(), back.Key())

	doc.Amount = "x"
	_, err = doc.ToPendingWithdrawal()
	assert.Error(t, err)
}

func TestUnlockTimeNeverReadsBackEarlier(t *testing.T) {
	unlockAt := time.Date(2026, 10, 21, 12, 0, 20, 900_000_500, time.UTC)
	w := &types.PendingWithdrawal{
		Protocol: "shMON",
		Owner:    "0x0000000000000000000000000000000000000001",
		ID:       big.NewInt(11),
		Amount:   big.NewInt(500_000),
		UnlockAt: unlockAt,
		State:    types.WithdrawalPending,
	}

	doc := FromPendingWithdrawal(w)
	back, err := doc.ToPendingWithdrawal()
	require.NoError(t, err)
	assert.False(t, back.UnlockAt.Before(unlockAt))
	assert.Less(t, back.UnlockAt.Sub(unlockAt), time.Millisecond)

	for _, now := range []time.Time{
		unlockAt.Add(-800 * time.Millisecond),
		unlockAt.Add(-time.Nanosecond),
	} {
		assert.False(t, w.IsUnlocked(now))
		assert.False(t, back.IsUnlocked(now), "claim allowed at %s", now)
	}
	assert.True(t, back.IsUnlocked(back.UnlockAt))

	exact := time.UnixMilli(1_700_172_800_123).UTC()
	w.UnlockAt = exact
	doc = FromPendingWithdrawal(w)
	assert.Equal(t, int64(1_700_172_800_123), doc.UnlockAt)
}
