package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pmwatch/internal/domain/model"
)

func TestMemoryRepo(t *testing.T) {
	ctx := context.Background()
	r := New()

	for _, a := range []model.Activity{
		{TransactionHash: "0xA", Wallet: "0xw", Timestamp: 90},
		{TransactionHash: "0xOLDER", Wallet: "0xw", Timestamp: 100},
		{TransactionHash: "0xNEWER", Wallet: "0xw", Timestamp: 100},
		{TransactionHash: "0xX", Wallet: "0xother", Timestamp: 500},
	} {
		inserted, err := r.InsertActivity(ctx, &a)
		require.NoError(t, err)
		assert.True(t, inserted)
	}

	inserted, err := r.InsertActivity(ctx, &model.Activity{TransactionHash: "0xA", Wallet: "0xw", Timestamp: 90})
	require.NoError(t, err)
	assert.False(t, inserted)

	latest, err := r.LatestActivity(ctx, "0xw")
	require.NoError(t, err)
	assert.Equal(t, "0xNEWER", latest.TransactionHash)

	list, err := r.ListActivities(ctx, "0xw", 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "0xNEWER", list[0].TransactionHash)
	assert.Equal(t, "0xOLDER", list[1].TransactionHash)

	deleted, err := r.DeleteActivity(ctx, "0xNEWER")
	require.NoError(t, err)
	assert.True(t, deleted)

	latest, err = r.LatestActivity(ctx, "0xw")
	require.NoError(t, err)
	assert.Equal(t, "0xOLDER", latest.TransactionHash)

	n, err := r.CountActivities(ctx, "0xw")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	none, err := r.LatestActivity(ctx, "0xnobody")
	require.NoError(t, err)
	assert.Nil(t, none)
}
