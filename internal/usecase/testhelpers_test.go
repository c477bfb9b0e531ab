package usecase

import (
	"context"
	"sync"
	"time"

	"StockSense/internal/domain/models"
	applogger "StockSense/pkg/logger"
)

// noopMetrics satisfies repository.Metrics for tests.
type noopMetrics struct{}

func (noopMetrics) RecordTradeApplied(string, string) {}
func (noopMetrics) RecordTradeRejected(string)        {}
func (noopMetrics) RecordLastPrice(string, float64)   {}
func (noopMetrics) RecordComposite(string, float64)   {}
func (noopMetrics) RecordLatency(string, float64)     {}
func (noopMetrics) RecordError(string)                {}

// memJournal is an in-process TradeJournal for executor tests.
type memJournal struct {
	mu     sync.Mutex
	trades []*models.Trade
}

func (j *memJournal) Append(_ context.Context, t *models.Trade) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	cp := *t
	j.trades = append(j.trades, &cp)
	return nil
}

func (j *memJournal) Query(_ context.Context, userID, symbol string, from, to time.Time, limit int) ([]*models.Trade, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	var out []*models.Trade
	for _, t := range j.trades {
		if t.UserID != userID {
			continue
		}
		if symbol != "" && t.Symbol != symbol {
			continue
		}
		if t.Timestamp.Before(from) || t.Timestamp.After(to) {
			continue
		}
		cp := *t
		out = append(out, &cp)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (j *memJournal) Health(context.Context) error { return nil }
func (j *memJournal) Close() error                 { return nil }

func (j *memJournal) len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.trades)
}

// memPublisher records published trades.
type memPublisher struct {
	mu        sync.Mutex
	published []*models.Trade
}

func (p *memPublisher) Publish(_ context.Context, t *models.Trade) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	cp := *t
	p.published = append(p.published, &cp)
	return nil
}

func (p *memPublisher) Close() error { return nil }

func testLogger() *applogger.Logger {
	l, _ := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stdout"})
	return l
}
