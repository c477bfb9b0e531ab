package usecase

import (
	"context"
	"errors"
	"time"

	"StockSense/internal/domain/models"
	drepo "StockSense/internal/domain/repository"
	domsvc "StockSense/internal/domain/service"
)

// PortfolioService assembles the valued portfolio view: each open holding
// paired with the latest quote and its valuation.
type PortfolioService struct {
	ledger  *HoldingsLedger
	quotes  drepo.QuoteProvider
	journal drepo.TradeJournal
	valuer  domsvc.Valuer
	metrics drepo.Metrics
}

func NewPortfolioService(ledger *HoldingsLedger, quotes drepo.QuoteProvider, journal drepo.TradeJournal, valuer domsvc.Valuer, metrics drepo.Metrics) *PortfolioService {
	return &PortfolioService{ledger: ledger, quotes: quotes, journal: journal, valuer: valuer, metrics: metrics}
}

// Portfolio returns the user's positions ordered by symbol. A symbol with no
// known quote still appears, without a valuation, so the view never hides a
// position behind a feed gap.
func (s *PortfolioService) Portfolio(ctx context.Context, userID string) ([]models.PortfolioRow, error) {
	start := time.Now()
	holdings, err := s.ledger.Holdings(ctx, userID)
	if err != nil {
		return nil, err
	}

	rows := make([]models.PortfolioRow, 0, len(holdings))
	for _, h := range holdings {
		row := models.PortfolioRow{Holding: *h}
		quote, err := s.quotes.Latest(ctx, h.Symbol)
		var nf *models.NotFoundError
		if err != nil && !errors.As(err, &nf) {
			return nil, err
		}
		if quote != nil {
			v, err := s.valuer.Value(h, quote)
			if err != nil {
				return nil, err
			}
			row.Quote = quote
			row.Valuation = &v
		}
		rows = append(rows, row)
	}
	s.metrics.RecordLatency("portfolio_view", time.Since(start).Seconds())
	return rows, nil
}

// Trades returns the user's trade history from the journal, newest first.
// Realized P/L on SELL rows is derived from the stored cost basis, never
// persisted as separate state.
func (s *PortfolioService) Trades(ctx context.Context, userID, symbol string, from, to time.Time, limit int) ([]*models.Trade, error) {
	return s.journal.Query(ctx, userID, symbol, from, to, limit)
}
