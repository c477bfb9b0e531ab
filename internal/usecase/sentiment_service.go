package usecase

import (
	"context"
	"sync"
	"time"

	"StockSense/internal/domain/models"
	drepo "StockSense/internal/domain/repository"
	domsvc "StockSense/internal/domain/service"
	pkgcache "StockSense/pkg/cache"
	applogger "StockSense/pkg/logger"
)

const (
	compositeCachePrefix = "sentiment:composite"
	trendDepth           = 96 // ring depth per symbol
)

// SentimentService runs the aggregation pipeline for the read side: fetch
// raw samples, combine them, cache the result, and keep a short trend ring.
// The composite is a cache over the sample feeds; the ledger remains the
// only authoritative state in the system.
type SentimentService struct {
	provider drepo.SentimentProvider
	agg      domsvc.Aggregator
	cache    pkgcache.Service
	cacheTTL time.Duration
	metrics  drepo.Metrics
	logger   *applogger.Logger

	mu    sync.Mutex
	trend map[string][]models.CompositeSentiment
}

func NewSentimentService(
	provider drepo.SentimentProvider,
	agg domsvc.Aggregator,
	cache pkgcache.Service,
	cacheTTL time.Duration,
	metrics drepo.Metrics,
	logger *applogger.Logger,
) *SentimentService {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &SentimentService{
		provider: provider,
		agg:      agg,
		cache:    cache,
		cacheTTL: cacheTTL,
		metrics:  metrics,
		logger:   logger,
		trend:    make(map[string][]models.CompositeSentiment),
	}
}

// Composite recomputes the composite for symbol from live samples. When the
// feed yields nothing fresh, the last good composite is served marked stale;
// with no fallback either, the aggregation error propagates to the caller.
func (s *SentimentService) Composite(ctx context.Context, symbol string) (models.CompositeSentiment, error) {
	start := time.Now()
	samples, ferr := s.provider.FetchSamples(ctx, symbol)
	if ferr != nil {
		s.metrics.RecordError("sentiment_fetch")
		s.logger.Warn("sentiment fetch failed", applogger.String("symbol", symbol), applogger.Error(ferr))
	}

	cs, err := s.agg.Aggregate(symbol, samples)
	if err != nil {
		if cached, ok := s.cachedComposite(ctx, symbol); ok {
			cached.Stale = true
			return cached, nil
		}
		return models.CompositeSentiment{}, err
	}

	if cerr := s.cache.Set(ctx, cacheKey(symbol), cs, s.cacheTTL); cerr != nil {
		s.metrics.RecordError("sentiment_cache_set")
	}
	s.pushTrend(cs)
	s.metrics.RecordComposite(symbol, cs.Composite)
	s.metrics.RecordLatency("sentiment_composite", time.Since(start).Seconds())
	return cs, nil
}

// Warm precomputes and caches the composite; used by the watchlist warmup
// queue so first reads hit the cache.
func (s *SentimentService) Warm(ctx context.Context, symbol string) error {
	_, err := s.Composite(ctx, symbol)
	return err
}

// Trend returns the recent composites for symbol, oldest first.
func (s *SentimentService) Trend(symbol string) []models.CompositeSentiment {
	s.mu.Lock()
	defer s.mu.Unlock()
	ring := s.trend[symbol]
	out := make([]models.CompositeSentiment, len(ring))
	copy(out, ring)
	return out
}

func (s *SentimentService) cachedComposite(ctx context.Context, symbol string) (models.CompositeSentiment, bool) {
	var cached models.CompositeSentiment
	if err := s.cache.Get(ctx, cacheKey(symbol), &cached); err != nil {
		return models.CompositeSentiment{}, false
	}
	return cached, cached.Symbol == symbol
}

func (s *SentimentService) pushTrend(cs models.CompositeSentiment) {
	s.mu.Lock()
	ring := append(s.trend[cs.Symbol], cs)
	if len(ring) > trendDepth {
		ring = ring[len(ring)-trendDepth:]
	}
	s.trend[cs.Symbol] = ring
	s.mu.Unlock()
}

func cacheKey(symbol string) string {
	return pkgcache.GenerateKey(compositeCachePrefix, symbol)
}
