package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"StockSense/internal/domain/models"
	domrepo "StockSense/internal/domain/repository"
)

// Sink receives validated quote snapshots from the pipeline.
type Sink interface {
	Update(q *models.Quote)
}

// QuotePipeline sits between the market stream and the quote board. It
// validates snapshots at the adapter boundary so the core only ever sees
// well-formed quotes, throttles per-symbol update bursts, and carries an
// overflow buffer so a slow consumer never blocks the stream reader.
type QuotePipeline struct {
	sink    Sink
	metrics domrepo.Metrics
	maxRPS  int
	bufSize int
	bufCh   chan *models.Quote
	stopCh  chan struct{}
	started bool
	mu      sync.Mutex

	lastSeen map[string]time.Time // per-symbol last accepted time
}

type PipelineOption func(*QuotePipeline)

// WithMaxRPS sets the max accepted updates per second per symbol.
func WithMaxRPS(n int) PipelineOption {
	return func(p *QuotePipeline) {
		if n > 0 {
			p.maxRPS = n
		}
	}
}

// WithBufferSize sets the overflow buffer size.
func WithBufferSize(n int) PipelineOption {
	return func(p *QuotePipeline) {
		if n > 0 {
			p.bufSize = n
		}
	}
}

// NewQuotePipeline creates a new pipeline in front of sink.
func NewQuotePipeline(sink Sink, metrics domrepo.Metrics, opts ...PipelineOption) *QuotePipeline {
	p := &QuotePipeline{
		sink:     sink,
		metrics:  metrics,
		maxRPS:   20,
		bufSize:  1000,
		stopCh:   make(chan struct{}),
		lastSeen: make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.bufCh = make(chan *models.Quote, p.bufSize)
	return p
}

// Start launches background draining of buffered quotes.
func (p *QuotePipeline) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	go func() {
		for {
			select {
			case <-p.stopCh:
				return
			case <-ctx.Done():
				return
			case q := <-p.bufCh:
				if q != nil {
					p.sink.Update(q)
				}
			}
		}
	}()
}

// Stop stops background draining.
func (p *QuotePipeline) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.started = false
	p.mu.Unlock()
	close(p.stopCh)
}

// Process validates and throttles one snapshot, then hands it to the sink.
func (p *QuotePipeline) Process(ctx context.Context, q *models.Quote) error {
	start := time.Now()
	if err := validateQuote(q); err != nil {
		p.metrics.RecordError("pipeline_validate")
		return err
	}
	p.mu.Lock()
	ok := p.allow(q.Symbol, start)
	p.mu.Unlock()
	if !ok {
		// throttled; the next accepted snapshot supersedes this one anyway
		p.metrics.RecordError("pipeline_throttle")
		return nil
	}

	select {
	case p.bufCh <- q:
	default:
		p.metrics.RecordError("pipeline_buffer_full")
		// deliver inline rather than drop the freshest snapshot
		p.sink.Update(q)
	}
	p.metrics.RecordLatency("pipeline_process", time.Since(start).Seconds())
	return nil
}

func validateQuote(q *models.Quote) error {
	if q == nil {
		return fmt.Errorf("quote nil")
	}
	if q.Symbol == "" {
		return fmt.Errorf("symbol empty")
	}
	if q.AsOf.IsZero() {
		return fmt.Errorf("timestamp invalid")
	}
	if q.Price.Sign() <= 0 {
		return fmt.Errorf("price must be positive")
	}
	if q.Volume < 0 {
		return fmt.Errorf("negative volume")
	}
	return nil
}

func (p *QuotePipeline) allow(symbol string, now time.Time) bool {
	if p.maxRPS <= 0 {
		return true
	}
	last := p.lastSeen[symbol]
	if last.IsZero() || now.Sub(last) >= time.Second/time.Duration(p.maxRPS) {
		p.lastSeen[symbol] = now
		return true
	}
	return false
}
