package models

import "github.com/shopspring/decimal"

// Valuation is the market view of a single holding against a fresh quote.
type Valuation struct {
	MarketValue         decimal.Decimal `json:"market_value"`
	UnrealizedPL        decimal.Decimal `json:"unrealized_pl"`
	UnrealizedPLPercent decimal.Decimal `json:"unrealized_pl_percent"`
}

// PortfolioRow pairs a holding with its valuation for the portfolio view.
// Quote may be nil when no quote is currently known for the symbol; the
// valuation fields are zero in that case.
type PortfolioRow struct {
	Holding   Holding    `json:"holding"`
	Quote     *Quote     `json:"quote,omitempty"`
	Valuation *Valuation `json:"valuation,omitempty"`
}
