package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockSense/internal/domain/models"
)

func holding(sym string, qty int64, avg string) *models.Holding {
	return &models.Holding{
		UserID:      "u1",
		Symbol:      sym,
		Quantity:    qty,
		AverageCost: decimal.RequireFromString(avg),
	}
}

func quote(sym, price string) *models.Quote {
	return &models.Quote{Symbol: sym, Price: decimal.RequireFromString(price), AsOf: time.Now()}
}

func TestValueGain(t *testing.T) {
	v, err := NewValuationEngine().Value(holding("AAPL", 10, "100"), quote("AAPL", "130"))
	require.NoError(t, err)
	assert.True(t, v.MarketValue.Equal(decimal.RequireFromString("1300")))
	assert.True(t, v.UnrealizedPL.Equal(decimal.RequireFromString("300")))
	// fraction of cost, not a percentage
	assert.True(t, v.UnrealizedPLPercent.Equal(decimal.RequireFromString("0.3")))
}

func TestValueLoss(t *testing.T) {
	v, err := NewValuationEngine().Value(holding("AAPL", 4, "50"), quote("AAPL", "40"))
	require.NoError(t, err)
	assert.True(t, v.MarketValue.Equal(decimal.RequireFromString("160")))
	assert.True(t, v.UnrealizedPL.Equal(decimal.RequireFromString("-40")))
	assert.True(t, v.UnrealizedPLPercent.Equal(decimal.RequireFromString("-0.2")))
}

func TestValueFractionalAverageCost(t *testing.T) {
	// avg cost with repeating decimals must not lose money to rounding
	v, err := NewValuationEngine().Value(holding("AAPL", 3, "33.333333333333333333"), quote("AAPL", "33.34"))
	require.NoError(t, err)
	assert.True(t, v.MarketValue.Equal(decimal.RequireFromString("100.02")))
	assert.True(t, v.UnrealizedPL.GreaterThan(decimal.Zero))
}

func TestValueEmptyHolding(t *testing.T) {
	v, err := NewValuationEngine().Value(holding("AAPL", 0, "0"), quote("AAPL", "130"))
	require.NoError(t, err)
	assert.True(t, v.MarketValue.IsZero())
	assert.True(t, v.UnrealizedPL.IsZero())
	assert.True(t, v.UnrealizedPLPercent.IsZero())
}

func TestValueSymbolMismatch(t *testing.T) {
	_, err := NewValuationEngine().Value(holding("AAPL", 10, "100"), quote("MSFT", "130"))
	var mm *models.ValuationMismatchError
	require.True(t, errors.As(err, &mm))
	assert.Equal(t, "AAPL", mm.HoldingSymbol)
	assert.Equal(t, "MSFT", mm.QuoteSymbol)
}
