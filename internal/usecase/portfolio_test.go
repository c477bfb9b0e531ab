package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockSense/internal/domain/models"
)

func newPortfolioFixture() (*PortfolioService, *HoldingsLedger, *QuoteBoard, *memJournal) {
	board := NewQuoteBoard()
	ledger := newTestLedger()
	journal := &memJournal{}
	svc := NewPortfolioService(ledger, board, journal, NewValuationEngine(), noopMetrics{})
	return svc, ledger, board, journal
}

func TestPortfolioValuesOpenPositions(t *testing.T) {
	svc, ledger, board, _ := newPortfolioFixture()
	ctx := context.Background()

	_, err := ledger.ApplyTrade(ctx, trade("u1", "AAPL", models.ActionBuy, 10, "100"))
	require.NoError(t, err)
	board.Update(boardQuote("AAPL", "130", time.Now()))

	rows, err := svc.Portfolio(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].Valuation)
	assert.True(t, rows[0].Valuation.MarketValue.Equal(decimal.RequireFromString("1300")))
	assert.True(t, rows[0].Valuation.UnrealizedPL.Equal(decimal.RequireFromString("300")))
}

func TestPortfolioShowsPositionWithoutQuote(t *testing.T) {
	svc, ledger, _, _ := newPortfolioFixture()
	ctx := context.Background()

	_, err := ledger.ApplyTrade(ctx, trade("u1", "AAPL", models.ActionBuy, 5, "100"))
	require.NoError(t, err)

	rows, err := svc.Portfolio(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].Quote)
	assert.Nil(t, rows[0].Valuation)
	assert.Equal(t, int64(5), rows[0].Holding.Quantity)
}

func TestPortfolioEmptyForUnknownUser(t *testing.T) {
	svc, _, _, _ := newPortfolioFixture()
	rows, err := svc.Portfolio(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestTradesDelegatesToJournal(t *testing.T) {
	svc, _, _, journal := newPortfolioFixture()
	ctx := context.Background()

	tr := trade("u1", "AAPL", models.ActionBuy, 1, "100")
	require.NoError(t, journal.Append(ctx, tr))

	got, err := svc.Trades(ctx, "u1", "", time.Time{}, time.Now().Add(time.Hour), 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, tr.ID, got[0].ID)
}
