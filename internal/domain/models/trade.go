package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeAction is the direction of a trade.
type TradeAction string

const (
	ActionBuy  TradeAction = "BUY"
	ActionSell TradeAction = "SELL"
)

// Valid reports whether the action is BUY or SELL.
func (a TradeAction) Valid() bool {
	return a == ActionBuy || a == ActionSell
}

// Trade is the immutable record of an applied position change. It is the
// sole mutator of Holding state; once committed it is never edited, only
// offset by a later trade.
//
// CostBasis is the holding's average cost at execution time. It is zero for
// BUYs and set for SELLs so realized P/L stays derivable from the trade log
// alone, without duplicating it as stored state.
type Trade struct {
	ID             string
	UserID         string
	Symbol         string
	Action         TradeAction
	Quantity       int64
	ExecutionPrice decimal.Decimal
	CostBasis      decimal.Decimal
	Timestamp      time.Time
}

// RealizedPL returns Quantity × (ExecutionPrice − CostBasis) for SELL trades
// and zero otherwise.
func (t *Trade) RealizedPL() decimal.Decimal {
	if t.Action != ActionSell {
		return decimal.Zero
	}
	return t.ExecutionPrice.Sub(t.CostBasis).Mul(decimal.NewFromInt(t.Quantity))
}
