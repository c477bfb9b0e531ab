package repository

import (
	"context"
	"time"

	"StockSense/internal/domain/models"
)

// HoldingStore is the authoritative keyed store of positions. Get returns
// *models.NotFoundError when the position is absent. Swap replaces the
// stored holding atomically:
//
//   - prev == nil creates the position and fails if one already exists;
//   - next == nil deletes the position;
//   - otherwise prev.Version must match the stored version.
//
// A version conflict surfaces as *models.ConcurrentModificationError so the
// ledger can re-read and retry.
type HoldingStore interface {
	Get(ctx context.Context, userID, symbol string) (*models.Holding, error)
	List(ctx context.Context, userID string) ([]*models.Holding, error)
	Swap(ctx context.Context, userID, symbol string, prev, next *models.Holding) error
}

// TradeJournal is the append-only log of committed trades.
type TradeJournal interface {
	Append(ctx context.Context, t *models.Trade) error
	Query(ctx context.Context, userID, symbol string, from, to time.Time, limit int) ([]*models.Trade, error)
	Health(ctx context.Context) error
	Close() error
}

// WatchStore keeps per-user watch sets.
type WatchStore interface {
	Add(ctx context.Context, userID, symbol string) error
	Remove(ctx context.Context, userID, symbol string) error
	List(ctx context.Context, userID string) ([]string, error)
}

// QuoteProvider serves the most recent known quote for a symbol.
// Returns *models.NotFoundError when no quote has been seen.
type QuoteProvider interface {
	Latest(ctx context.Context, symbol string) (*models.Quote, error)
}

// QuoteStream is a live market-data feed delivering quote snapshots.
type QuoteStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.Quote, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// SentimentProvider fetches the raw per-source samples for a symbol.
// The returned set may be empty; staleness filtering is the aggregator's job.
type SentimentProvider interface {
	FetchSamples(ctx context.Context, symbol string) ([]models.SentimentSample, error)
}

// Publisher emits committed trades to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, t *models.Trade) error
	Close() error
}

// Metrics records operational metrics.
type Metrics interface {
	RecordTradeApplied(action, symbol string)
	RecordTradeRejected(kind string)
	RecordLastPrice(symbol string, price float64)
	RecordComposite(symbol string, score float64)
	RecordLatency(op string, seconds float64)
	RecordError(kind string)
}
