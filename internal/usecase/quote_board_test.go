package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockSense/internal/domain/models"
)

func boardQuote(sym, price string, asOf time.Time) *models.Quote {
	return &models.Quote{Symbol: sym, Price: decimal.RequireFromString(price), AsOf: asOf}
}

func TestBoardLatestUnknownSymbol(t *testing.T) {
	b := NewQuoteBoard()
	_, err := b.Latest(context.Background(), "AAPL")
	var nf *models.NotFoundError
	require.True(t, errors.As(err, &nf))
}

func TestBoardIgnoresOutOfOrderUpdates(t *testing.T) {
	b := NewQuoteBoard()
	now := time.Now()
	b.Update(boardQuote("AAPL", "150", now))
	b.Update(boardQuote("AAPL", "140", now.Add(-time.Second)))

	q, err := b.Latest(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.True(t, q.Price.Equal(decimal.RequireFromString("150")))

	b.Update(boardQuote("AAPL", "155", now.Add(time.Second)))
	q, err = b.Latest(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.True(t, q.Price.Equal(decimal.RequireFromString("155")))
}

func TestBoardLatestReturnsCopy(t *testing.T) {
	b := NewQuoteBoard()
	b.Update(boardQuote("AAPL", "150", time.Now()))

	q, err := b.Latest(context.Background(), "AAPL")
	require.NoError(t, err)
	q.Price = decimal.NewFromInt(1)

	again, err := b.Latest(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.True(t, again.Price.Equal(decimal.RequireFromString("150")))
}
