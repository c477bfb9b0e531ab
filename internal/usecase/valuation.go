package usecase

import (
	"github.com/shopspring/decimal"

	"StockSense/internal/domain/models"
	domsvc "StockSense/internal/domain/service"
)

// ValuationEngine computes market value and unrealized P/L for a holding
// against the caller-supplied quote. Pure; the engine never fetches.
type ValuationEngine struct{}

func NewValuationEngine() *ValuationEngine { return &ValuationEngine{} }

// Value requires holding and quote to refer to the same symbol; a mismatch
// is *models.ValuationMismatchError. UnrealizedPLPercent is the P/L as a
// fraction of cost, reported as zero for an empty holding (no division).
func (ValuationEngine) Value(h *models.Holding, q *models.Quote) (models.Valuation, error) {
	if h.Symbol != q.Symbol {
		return models.Valuation{}, &models.ValuationMismatchError{HoldingSymbol: h.Symbol, QuoteSymbol: q.Symbol}
	}

	qty := decimal.NewFromInt(h.Quantity)
	marketValue := q.Price.Mul(qty)
	cost := h.AverageCost.Mul(qty)
	unrealized := marketValue.Sub(cost)

	v := models.Valuation{
		MarketValue:  marketValue,
		UnrealizedPL: unrealized,
	}
	if h.Quantity > 0 && !cost.IsZero() {
		v.UnrealizedPLPercent = unrealized.Div(cost)
	}
	return v, nil
}

var _ domsvc.Valuer = ValuationEngine{}
