package usecase

import (
	"context"
	"sync"

	"StockSense/internal/domain/models"
	drepo "StockSense/internal/domain/repository"
)

// QuoteBoard keeps the latest quote snapshot per symbol. Writers replace
// snapshots wholesale; readers get copies, so a quote is never observed
// mid-update.
type QuoteBoard struct {
	mu     sync.RWMutex
	quotes map[string]models.Quote
}

func NewQuoteBoard() *QuoteBoard {
	return &QuoteBoard{quotes: make(map[string]models.Quote)}
}

// Update replaces the snapshot for q.Symbol, ignoring out-of-order updates
// older than the one already held.
func (b *QuoteBoard) Update(q *models.Quote) {
	if q == nil || q.Symbol == "" {
		return
	}
	b.mu.Lock()
	if cur, ok := b.quotes[q.Symbol]; !ok || !q.AsOf.Before(cur.AsOf) {
		b.quotes[q.Symbol] = *q
	}
	b.mu.Unlock()
}

// Latest implements repository.QuoteProvider.
func (b *QuoteBoard) Latest(_ context.Context, symbol string) (*models.Quote, error) {
	b.mu.RLock()
	q, ok := b.quotes[symbol]
	b.mu.RUnlock()
	if !ok {
		return nil, &models.NotFoundError{Kind: "quote", Key: symbol}
	}
	cp := q
	return &cp, nil
}

var _ drepo.QuoteProvider = (*QuoteBoard)(nil)
