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
	"StockSense/internal/repository"
)

type executorFixture struct {
	board    *QuoteBoard
	ledger   *HoldingsLedger
	journal  *memJournal
	pub      *memPublisher
	executor *OrderExecutor
}

func newExecutorFixture(backend string) *executorFixture {
	f := &executorFixture{
		board:   NewQuoteBoard(),
		ledger:  NewHoldingsLedger(repository.NewMemoryHoldingStore(), noopMetrics{}),
		journal: &memJournal{},
		pub:     &memPublisher{},
	}
	f.executor = NewOrderExecutor(f.board, f.ledger, f.journal, f.pub, noopMetrics{}, testLogger(), backend, 60*time.Second)
	return f
}

func (f *executorFixture) postQuote(sym, price string, age time.Duration) {
	f.board.Update(&models.Quote{
		Symbol: sym,
		Price:  decimal.RequireFromString(price),
		AsOf:   time.Now().Add(-age),
	})
}

func TestExecuteBuyCommitsAndJournals(t *testing.T) {
	f := newExecutorFixture("clickhouse")
	f.postQuote("AAPL", "150.25", time.Second)

	tr, err := f.executor.Execute(context.Background(), "u1", "AAPL", models.ActionBuy, 3)
	require.NoError(t, err)
	assert.NotEmpty(t, tr.ID)
	assert.True(t, tr.ExecutionPrice.Equal(decimal.RequireFromString("150.25")))

	h, err := f.ledger.Holding(context.Background(), "u1", "AAPL")
	require.NoError(t, err)
	assert.Equal(t, int64(3), h.Quantity)
	assert.Equal(t, 1, f.journal.len())
}

func TestExecuteKafkaBackendPublishes(t *testing.T) {
	f := newExecutorFixture("kafka")
	f.postQuote("AAPL", "100", time.Second)

	_, err := f.executor.Execute(context.Background(), "u1", "AAPL", models.ActionBuy, 1)
	require.NoError(t, err)
	assert.Len(t, f.pub.published, 1)
	assert.Equal(t, 0, f.journal.len(), "kafka backend must not write the journal directly")
}

func TestExecuteStaleQuoteLeavesLedgerUnchanged(t *testing.T) {
	f := newExecutorFixture("clickhouse")
	f.postQuote("AAPL", "150", 2*time.Minute)

	_, err := f.executor.Execute(context.Background(), "u1", "AAPL", models.ActionBuy, 3)
	var sq *models.StaleQuoteError
	require.True(t, errors.As(err, &sq))
	assert.Equal(t, "AAPL", sq.Symbol)

	_, err = f.ledger.Holding(context.Background(), "u1", "AAPL")
	var nf *models.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, 0, f.journal.len())
}

func TestExecuteUnknownSymbolRejected(t *testing.T) {
	f := newExecutorFixture("clickhouse")

	_, err := f.executor.Execute(context.Background(), "u1", "ZZZZ", models.ActionBuy, 1)
	var nf *models.NotFoundError
	require.True(t, errors.As(err, &nf))
}

func TestExecuteSellWithoutPositionRejected(t *testing.T) {
	f := newExecutorFixture("clickhouse")
	f.postQuote("AAPL", "150", time.Second)

	_, err := f.executor.Execute(context.Background(), "u1", "AAPL", models.ActionSell, 1)
	var ip *models.InsufficientPositionError
	require.True(t, errors.As(err, &ip))
	assert.Equal(t, 0, f.journal.len(), "rejected trade must not be journaled")
}

func TestExecuteValidatesQuantityAndAction(t *testing.T) {
	f := newExecutorFixture("clickhouse")
	f.postQuote("AAPL", "150", time.Second)

	_, err := f.executor.Execute(context.Background(), "u1", "AAPL", models.ActionBuy, 0)
	require.Error(t, err)
	_, err = f.executor.Execute(context.Background(), "u1", "AAPL", models.ActionBuy, -5)
	require.Error(t, err)
	_, err = f.executor.Execute(context.Background(), "u1", "AAPL", models.TradeAction("HOLD"), 1)
	require.Error(t, err)
	assert.Equal(t, 0, f.journal.len())
}

func TestExecuteSellJournalsCostBasis(t *testing.T) {
	f := newExecutorFixture("clickhouse")
	f.postQuote("AAPL", "100", time.Second)
	_, err := f.executor.Execute(context.Background(), "u1", "AAPL", models.ActionBuy, 10)
	require.NoError(t, err)

	f.postQuote("AAPL", "130", time.Second)
	tr, err := f.executor.Execute(context.Background(), "u1", "AAPL", models.ActionSell, 5)
	require.NoError(t, err)
	assert.True(t, tr.CostBasis.Equal(decimal.RequireFromString("100")))
	assert.True(t, tr.RealizedPL().Equal(decimal.RequireFromString("150")))
	assert.Equal(t, 2, f.journal.len())
}
