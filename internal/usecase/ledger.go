package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"StockSense/internal/domain/models"
	drepo "StockSense/internal/domain/repository"
)

// casRetries bounds internal compare-and-swap retries before surfacing
// ConcurrentModificationError. Trades themselves are never retried.
const casRetries = 3

// HoldingsLedger owns all Holding state transitions. Trades for the same
// (user, symbol) pair are serialized with a keyed mutex; the store's
// versioned Swap catches anything that slips past it (e.g. a second ledger
// instance against a shared store).
type HoldingsLedger struct {
	store   drepo.HoldingStore
	metrics drepo.Metrics
	now     func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewHoldingsLedger(store drepo.HoldingStore, metrics drepo.Metrics) *HoldingsLedger {
	return &HoldingsLedger{
		store:   store,
		metrics: metrics,
		now:     time.Now,
		locks:   make(map[string]*sync.Mutex),
	}
}

func (l *HoldingsLedger) keyLock(userID, symbol string) *sync.Mutex {
	key := userID + "|" + symbol
	l.mu.Lock()
	lk, ok := l.locks[key]
	if !ok {
		lk = &sync.Mutex{}
		l.locks[key] = lk
	}
	l.mu.Unlock()
	return lk
}

// ApplyTrade validates the trade against the current position and commits
// the transition as one atomic replacement. On SELL it fills t.CostBasis
// with the pre-trade average cost so realized P/L stays derivable from the
// trade record. The returned Holding is the post-trade state; Quantity zero
// means the position was closed and removed.
func (l *HoldingsLedger) ApplyTrade(ctx context.Context, t *models.Trade) (*models.Holding, error) {
	if t.Quantity <= 0 {
		return nil, fmt.Errorf("trade quantity must be positive, got %d", t.Quantity)
	}
	if !t.Action.Valid() {
		return nil, fmt.Errorf("unknown trade action %q", t.Action)
	}

	lk := l.keyLock(t.UserID, t.Symbol)
	lk.Lock()
	defer lk.Unlock()

	for attempt := 1; attempt <= casRetries; attempt++ {
		cur, err := l.store.Get(ctx, t.UserID, t.Symbol)
		var nf *models.NotFoundError
		if err != nil && !errors.As(err, &nf) {
			return nil, fmt.Errorf("read holding: %w", err)
		}

		next, err := l.transition(cur, t)
		if err != nil {
			return nil, err
		}

		if err := l.store.Swap(ctx, t.UserID, t.Symbol, cur, next); err != nil {
			var cm *models.ConcurrentModificationError
			if errors.As(err, &cm) {
				l.metrics.RecordError("ledger_cas_conflict")
				continue
			}
			return nil, fmt.Errorf("swap holding: %w", err)
		}

		if next == nil {
			// closed out; report the empty state
			return &models.Holding{UserID: t.UserID, Symbol: t.Symbol}, nil
		}
		return next, nil
	}
	return nil, &models.ConcurrentModificationError{UserID: t.UserID, Symbol: t.Symbol, Attempts: casRetries}
}

// transition computes the post-trade holding from the pre-trade snapshot.
// cur == nil means Empty; a nil result means the position closes.
func (l *HoldingsLedger) transition(cur *models.Holding, t *models.Trade) (*models.Holding, error) {
	switch t.Action {
	case models.ActionBuy:
		if cur == nil {
			return &models.Holding{
				UserID:      t.UserID,
				Symbol:      t.Symbol,
				Quantity:    t.Quantity,
				AverageCost: t.ExecutionPrice,
				UpdatedAt:   l.now(),
			}, nil
		}
		newQty := cur.Quantity + t.Quantity
		// weighted-average cost basis over the combined position
		totalCost := cur.CostValue().Add(t.ExecutionPrice.Mul(decimal.NewFromInt(t.Quantity)))
		return &models.Holding{
			UserID:      cur.UserID,
			Symbol:      cur.Symbol,
			Quantity:    newQty,
			AverageCost: totalCost.Div(decimal.NewFromInt(newQty)),
			Version:     cur.Version,
			UpdatedAt:   l.now(),
		}, nil

	case models.ActionSell:
		if cur == nil {
			return nil, &models.InsufficientPositionError{UserID: t.UserID, Symbol: t.Symbol, Requested: t.Quantity, Held: 0}
		}
		if t.Quantity > cur.Quantity {
			return nil, &models.InsufficientPositionError{UserID: t.UserID, Symbol: t.Symbol, Requested: t.Quantity, Held: cur.Quantity}
		}
		t.CostBasis = cur.AverageCost
		if t.Quantity == cur.Quantity {
			return nil, nil
		}
		return &models.Holding{
			UserID:      cur.UserID,
			Symbol:      cur.Symbol,
			Quantity:    cur.Quantity - t.Quantity,
			AverageCost: cur.AverageCost, // unchanged on SELL
			Version:     cur.Version,
			UpdatedAt:   l.now(),
		}, nil
	}
	return nil, fmt.Errorf("unknown trade action %q", t.Action)
}

// Holdings returns the user's open positions ordered by symbol.
func (l *HoldingsLedger) Holdings(ctx context.Context, userID string) ([]*models.Holding, error) {
	return l.store.List(ctx, userID)
}

// Holding reads one position under the same per-key discipline used for
// trades, so callers never observe a half-updated state.
func (l *HoldingsLedger) Holding(ctx context.Context, userID, symbol string) (*models.Holding, error) {
	lk := l.keyLock(userID, symbol)
	lk.Lock()
	defer lk.Unlock()
	return l.store.Get(ctx, userID, symbol)
}
