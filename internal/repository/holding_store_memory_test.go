package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockSense/internal/domain/models"
)

func testHolding(qty int64, version uint64) *models.Holding {
	return &models.Holding{
		UserID:      "u1",
		Symbol:      "AAPL",
		Quantity:    qty,
		AverageCost: decimal.NewFromInt(100),
		Version:     version,
	}
}

func TestGetMissingHolding(t *testing.T) {
	s := NewMemoryHoldingStore()
	_, err := s.Get(context.Background(), "u1", "AAPL")
	var nf *models.NotFoundError
	require.True(t, errors.As(err, &nf))
}

func TestSwapCreateAndUpdate(t *testing.T) {
	s := NewMemoryHoldingStore()
	ctx := context.Background()

	require.NoError(t, s.Swap(ctx, "u1", "AAPL", nil, testHolding(10, 0)))

	got, err := s.Get(ctx, "u1", "AAPL")
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.Quantity)

	next := testHolding(20, got.Version)
	require.NoError(t, s.Swap(ctx, "u1", "AAPL", got, next))

	got2, err := s.Get(ctx, "u1", "AAPL")
	require.NoError(t, err)
	assert.Equal(t, int64(20), got2.Quantity)
	assert.Equal(t, got.Version+1, got2.Version)
}

func TestSwapCreateConflictsWithExisting(t *testing.T) {
	s := NewMemoryHoldingStore()
	ctx := context.Background()
	require.NoError(t, s.Swap(ctx, "u1", "AAPL", nil, testHolding(10, 0)))

	err := s.Swap(ctx, "u1", "AAPL", nil, testHolding(5, 0))
	var cm *models.ConcurrentModificationError
	require.True(t, errors.As(err, &cm))
}

func TestSwapStaleVersionRejected(t *testing.T) {
	s := NewMemoryHoldingStore()
	ctx := context.Background()
	require.NoError(t, s.Swap(ctx, "u1", "AAPL", nil, testHolding(10, 0)))

	first, err := s.Get(ctx, "u1", "AAPL")
	require.NoError(t, err)

	// a winning writer bumps the version
	require.NoError(t, s.Swap(ctx, "u1", "AAPL", first, testHolding(11, first.Version)))

	// the loser's snapshot is now stale
	err = s.Swap(ctx, "u1", "AAPL", first, testHolding(12, first.Version))
	var cm *models.ConcurrentModificationError
	require.True(t, errors.As(err, &cm))

	got, err := s.Get(ctx, "u1", "AAPL")
	require.NoError(t, err)
	assert.Equal(t, int64(11), got.Quantity)
}

func TestSwapDelete(t *testing.T) {
	s := NewMemoryHoldingStore()
	ctx := context.Background()
	require.NoError(t, s.Swap(ctx, "u1", "AAPL", nil, testHolding(10, 0)))

	cur, err := s.Get(ctx, "u1", "AAPL")
	require.NoError(t, err)
	require.NoError(t, s.Swap(ctx, "u1", "AAPL", cur, nil))

	_, err = s.Get(ctx, "u1", "AAPL")
	var nf *models.NotFoundError
	require.True(t, errors.As(err, &nf))

	// deleting an already-gone position is a conflict, not a no-op
	err = s.Swap(ctx, "u1", "AAPL", cur, nil)
	var cm *models.ConcurrentModificationError
	require.True(t, errors.As(err, &cm))
}

func TestListReturnsCopiesSorted(t *testing.T) {
	s := NewMemoryHoldingStore()
	ctx := context.Background()
	for _, sym := range []string{"MSFT", "AAPL"} {
		h := testHolding(1, 0)
		h.Symbol = sym
		require.NoError(t, s.Swap(ctx, "u1", sym, nil, h))
	}

	list, err := s.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "AAPL", list[0].Symbol)

	// mutating the returned copy must not leak into the store
	list[0].Quantity = 999
	got, err := s.Get(ctx, "u1", "AAPL")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Quantity)
}
