package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockSense/internal/domain/models"
	"StockSense/internal/repository"
)

func newTestLedger() *HoldingsLedger {
	return NewHoldingsLedger(repository.NewMemoryHoldingStore(), noopMetrics{})
}

func trade(user, sym string, action models.TradeAction, qty int64, price string) *models.Trade {
	return &models.Trade{
		ID:             user + sym + string(action),
		UserID:         user,
		Symbol:         sym,
		Action:         action,
		Quantity:       qty,
		ExecutionPrice: decimal.RequireFromString(price),
		Timestamp:      time.Now(),
	}
}

func TestBuyOpensPosition(t *testing.T) {
	l := newTestLedger()
	h, err := l.ApplyTrade(context.Background(), trade("u1", "AAPL", models.ActionBuy, 10, "100"))
	require.NoError(t, err)
	assert.Equal(t, int64(10), h.Quantity)
	assert.True(t, h.AverageCost.Equal(decimal.RequireFromString("100")))
}

func TestBuyAveragesCost(t *testing.T) {
	l := newTestLedger()
	ctx := context.Background()
	_, err := l.ApplyTrade(ctx, trade("u1", "AAPL", models.ActionBuy, 10, "100"))
	require.NoError(t, err)
	h, err := l.ApplyTrade(ctx, trade("u1", "AAPL", models.ActionBuy, 10, "120"))
	require.NoError(t, err)
	assert.Equal(t, int64(20), h.Quantity)
	assert.True(t, h.AverageCost.Equal(decimal.RequireFromString("110")), "got %s", h.AverageCost)
}

func TestSellKeepsAverageCostAndFillsBasis(t *testing.T) {
	l := newTestLedger()
	ctx := context.Background()
	_, err := l.ApplyTrade(ctx, trade("u1", "AAPL", models.ActionBuy, 10, "100"))
	require.NoError(t, err)
	_, err = l.ApplyTrade(ctx, trade("u1", "AAPL", models.ActionBuy, 10, "120"))
	require.NoError(t, err)

	sell := trade("u1", "AAPL", models.ActionSell, 5, "130")
	h, err := l.ApplyTrade(ctx, sell)
	require.NoError(t, err)
	assert.Equal(t, int64(15), h.Quantity)
	assert.True(t, h.AverageCost.Equal(decimal.RequireFromString("110")))
	// basis captured at commit time drives realized P/L: 5 * (130-110) = 100
	assert.True(t, sell.CostBasis.Equal(decimal.RequireFromString("110")))
	assert.True(t, sell.RealizedPL().Equal(decimal.RequireFromString("100")), "got %s", sell.RealizedPL())
}

func TestSellAllClosesPosition(t *testing.T) {
	l := newTestLedger()
	ctx := context.Background()
	_, err := l.ApplyTrade(ctx, trade("u1", "AAPL", models.ActionBuy, 10, "100"))
	require.NoError(t, err)

	h, err := l.ApplyTrade(ctx, trade("u1", "AAPL", models.ActionSell, 10, "90"))
	require.NoError(t, err)
	assert.Equal(t, int64(0), h.Quantity)

	_, err = l.Holding(ctx, "u1", "AAPL")
	var nf *models.NotFoundError
	require.True(t, errors.As(err, &nf))

	// position is Empty again; selling must fail, buying must reopen
	_, err = l.ApplyTrade(ctx, trade("u1", "AAPL", models.ActionSell, 1, "90"))
	var ip *models.InsufficientPositionError
	require.True(t, errors.As(err, &ip))
	assert.Equal(t, int64(0), ip.Held)

	h, err = l.ApplyTrade(ctx, trade("u1", "AAPL", models.ActionBuy, 3, "80"))
	require.NoError(t, err)
	assert.True(t, h.AverageCost.Equal(decimal.RequireFromString("80")))
}

func TestOversellRejected(t *testing.T) {
	l := newTestLedger()
	ctx := context.Background()
	_, err := l.ApplyTrade(ctx, trade("u1", "AAPL", models.ActionBuy, 5, "100"))
	require.NoError(t, err)

	_, err = l.ApplyTrade(ctx, trade("u1", "AAPL", models.ActionSell, 6, "100"))
	var ip *models.InsufficientPositionError
	require.True(t, errors.As(err, &ip))
	assert.Equal(t, int64(6), ip.Requested)
	assert.Equal(t, int64(5), ip.Held)

	// rejection left the position untouched
	h, err := l.Holding(ctx, "u1", "AAPL")
	require.NoError(t, err)
	assert.Equal(t, int64(5), h.Quantity)
}

func TestApplyTradeValidatesInput(t *testing.T) {
	l := newTestLedger()
	ctx := context.Background()

	_, err := l.ApplyTrade(ctx, trade("u1", "AAPL", models.ActionBuy, 0, "100"))
	require.Error(t, err)
	_, err = l.ApplyTrade(ctx, trade("u1", "AAPL", models.ActionBuy, -3, "100"))
	require.Error(t, err)
	_, err = l.ApplyTrade(ctx, trade("u1", "AAPL", models.TradeAction("SHORT"), 1, "100"))
	require.Error(t, err)
}

func TestConcurrentBuysAllApply(t *testing.T) {
	l := newTestLedger()
	ctx := context.Background()
	const n = 32

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.ApplyTrade(ctx, trade("u1", "AAPL", models.ActionBuy, 1, "100"))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	h, err := l.Holding(ctx, "u1", "AAPL")
	require.NoError(t, err)
	assert.Equal(t, int64(n), h.Quantity)
	assert.True(t, h.AverageCost.Equal(decimal.RequireFromString("100")))
}

func TestConcurrentMixedTradesConserveQuantity(t *testing.T) {
	l := newTestLedger()
	ctx := context.Background()
	_, err := l.ApplyTrade(ctx, trade("u1", "AAPL", models.ActionBuy, 100, "50"))
	require.NoError(t, err)

	const n = 20
	var wg sync.WaitGroup
	var applied int64
	var mu sync.Mutex
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			action := models.ActionBuy
			if i%2 == 0 {
				action = models.ActionSell
			}
			if _, err := l.ApplyTrade(ctx, trade("u1", "AAPL", action, 2, "50")); err == nil {
				mu.Lock()
				if action == models.ActionBuy {
					applied += 2
				} else {
					applied -= 2
				}
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	h, err := l.Holding(ctx, "u1", "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 100+applied, h.Quantity)
}

func TestHoldingsSortedBySymbol(t *testing.T) {
	l := newTestLedger()
	ctx := context.Background()
	for _, sym := range []string{"MSFT", "AAPL", "GOOG"} {
		_, err := l.ApplyTrade(ctx, trade("u1", sym, models.ActionBuy, 1, "10"))
		require.NoError(t, err)
	}
	hs, err := l.Holdings(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, hs, 3)
	assert.Equal(t, "AAPL", hs[0].Symbol)
	assert.Equal(t, "GOOG", hs[1].Symbol)
	assert.Equal(t, "MSFT", hs[2].Symbol)
}
