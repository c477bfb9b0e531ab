package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Holding is one open position in a user's portfolio.
// Quantity is strictly positive: a position that reaches zero is deleted
// from the store, so AverageCost is always meaningful on a stored Holding.
// Version supports optimistic concurrency in stores that use compare-and-swap.
type Holding struct {
	UserID      string
	Symbol      string
	Quantity    int64
	AverageCost decimal.Decimal
	Version     uint64
	UpdatedAt   time.Time
}

// CostValue returns Quantity × AverageCost, the total cost basis of the position.
func (h *Holding) CostValue() decimal.Decimal {
	return h.AverageCost.Mul(decimal.NewFromInt(h.Quantity))
}
