package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is an immutable snapshot of the latest market data for a symbol.
// Adapters replace the whole snapshot on refresh; nothing mutates it in place.
type Quote struct {
	Symbol        string
	Price         decimal.Decimal
	PercentChange decimal.Decimal
	Volume        int64
	MarketCap     decimal.Decimal // zero when the provider did not report one
	AsOf          time.Time
}

// FreshAt reports whether the quote is usable for order execution at the
// given instant under the configured freshness bound.
func (q *Quote) FreshAt(now time.Time, bound time.Duration) bool {
	if q == nil {
		return false
	}
	return now.Sub(q.AsOf) <= bound
}
