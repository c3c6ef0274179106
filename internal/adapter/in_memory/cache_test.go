package in_memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndmitrieva/lob-engine/internal/domain"
)

func TestCacheSetGetInvalidate(t *testing.T) {
	ctx := context.Background()
	c := NewCache()

	miss, err := c.GetDepth(ctx, "BTC-USD")
	require.NoError(t, err)
	assert.Nil(t, miss)

	snap := &domain.DepthSnapshot{
		Asks: []domain.LevelView{{Price: "10.00", Volume: "5.00", Orders: 1}},
	}
	require.NoError(t, c.SetDepth(ctx, "BTC-USD", snap))

	got, err := c.GetDepth(ctx, "BTC-USD")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, snap.Asks, got.Asks)

	// stored copies are isolated from the caller's snapshot
	snap.Asks[0].Price = "mutated"
	got, err = c.GetDepth(ctx, "BTC-USD")
	require.NoError(t, err)
	assert.Equal(t, "10.00", got.Asks[0].Price)

	require.NoError(t, c.Invalidate(ctx, "BTC-USD"))
	miss, err = c.GetDepth(ctx, "BTC-USD")
	require.NoError(t, err)
	assert.Nil(t, miss)
}
