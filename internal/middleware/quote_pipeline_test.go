package middleware

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockSense/internal/domain/models"
)

type recordingSink struct {
	mu     sync.Mutex
	quotes []*models.Quote
}

func (s *recordingSink) Update(q *models.Quote) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quotes = append(s.quotes, q)
}

func (s *recordingSink) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.quotes)
}

type pipeMetrics struct {
	mu     sync.Mutex
	errors map[string]int
}

func (m *pipeMetrics) RecordTradeApplied(string, string)     {}
func (m *pipeMetrics) RecordTradeRejected(string)            {}
func (m *pipeMetrics) RecordLastPrice(string, float64)       {}
func (m *pipeMetrics) RecordComposite(string, float64)       {}
func (m *pipeMetrics) RecordLatency(string, float64)         {}
func (m *pipeMetrics) RecordError(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.errors == nil {
		m.errors = make(map[string]int)
	}
	m.errors[kind]++
}

func (m *pipeMetrics) errCount(kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errors[kind]
}

func goodQuote(sym string) *models.Quote {
	return &models.Quote{
		Symbol: sym,
		Price:  decimal.RequireFromString("150.25"),
		AsOf:   time.Now(),
	}
}

func TestProcessRejectsMalformedQuotes(t *testing.T) {
	sink := &recordingSink{}
	m := &pipeMetrics{}
	p := NewQuotePipeline(sink, m)

	cases := []struct {
		name string
		q    *models.Quote
	}{
		{"nil quote", nil},
		{"empty symbol", &models.Quote{Price: decimal.NewFromInt(1), AsOf: time.Now()}},
		{"zero timestamp", &models.Quote{Symbol: "AAPL", Price: decimal.NewFromInt(1)}},
		{"zero price", &models.Quote{Symbol: "AAPL", AsOf: time.Now()}},
		{"negative price", &models.Quote{Symbol: "AAPL", Price: decimal.NewFromInt(-1), AsOf: time.Now()}},
		{"negative volume", &models.Quote{Symbol: "AAPL", Price: decimal.NewFromInt(1), AsOf: time.Now(), Volume: -5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Error(t, p.Process(context.Background(), tc.q))
		})
	}
	assert.Equal(t, 0, sink.len())
	assert.Equal(t, len(cases), m.errCount("pipeline_validate"))
}

func TestProcessThrottlesBursts(t *testing.T) {
	sink := &recordingSink{}
	m := &pipeMetrics{}
	p := NewQuotePipeline(sink, m, WithMaxRPS(1), WithBufferSize(16))

	// second update inside the window is dropped silently
	require.NoError(t, p.Process(context.Background(), goodQuote("AAPL")))
	require.NoError(t, p.Process(context.Background(), goodQuote("AAPL")))
	assert.Equal(t, 1, m.errCount("pipeline_throttle"))

	// a different symbol has its own budget
	require.NoError(t, p.Process(context.Background(), goodQuote("MSFT")))
	assert.Equal(t, 1, m.errCount("pipeline_throttle"))
}

func TestStartDrainsBufferToSink(t *testing.T) {
	sink := &recordingSink{}
	m := &pipeMetrics{}
	p := NewQuotePipeline(sink, m, WithMaxRPS(1000), WithBufferSize(16))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)
	defer p.Stop()

	require.NoError(t, p.Process(ctx, goodQuote("AAPL")))
	require.NoError(t, p.Process(ctx, goodQuote("MSFT")))

	require.Eventually(t, func() bool { return sink.len() == 2 }, time.Second, 5*time.Millisecond)
}

func TestProcessDeliversInlineWhenBufferFull(t *testing.T) {
	sink := &recordingSink{}
	m := &pipeMetrics{}
	p := NewQuotePipeline(sink, m, WithMaxRPS(1000), WithBufferSize(1))

	// not started, so the single buffer slot fills and the next goes inline
	require.NoError(t, p.Process(context.Background(), goodQuote("AAPL")))
	require.NoError(t, p.Process(context.Background(), goodQuote("MSFT")))

	assert.Equal(t, 1, sink.len())
	assert.Equal(t, 1, m.errCount("pipeline_buffer_full"))
}
