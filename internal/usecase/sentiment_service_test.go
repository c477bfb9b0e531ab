package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockSense/internal/domain/models"
	pkgcache "StockSense/pkg/cache"
)

type fakeProvider struct {
	samples []models.SentimentSample
	err     error
}

func (p *fakeProvider) FetchSamples(context.Context, string) ([]models.SentimentSample, error) {
	return p.samples, p.err
}

func newSentimentFixture(p *fakeProvider) (*SentimentService, *pkgcache.MemoryCache) {
	mem := pkgcache.NewMemoryCache()
	agg := newTestAggregator()
	svc := NewSentimentService(p, agg, mem, time.Minute, noopMetrics{}, testLogger())
	return svc, mem
}

func TestCompositeComputesAndCaches(t *testing.T) {
	p := &fakeProvider{samples: []models.SentimentSample{
		sample("AAPL", models.SourceNews, 0.8, time.Hour),
		sample("AAPL", models.SourceSocial, 0.2, time.Hour),
	}}
	svc, mem := newSentimentFixture(p)

	cs, err := svc.Composite(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.InDelta(t, 0.7, cs.Composite, 1e-9)
	assert.False(t, cs.Stale)

	var cached models.CompositeSentiment
	require.NoError(t, mem.Get(context.Background(), cacheKey("AAPL"), &cached))
	assert.Equal(t, "AAPL", cached.Symbol)
}

func TestCompositeFallsBackToCachedWhenFeedDies(t *testing.T) {
	p := &fakeProvider{samples: []models.SentimentSample{
		sample("AAPL", models.SourceNews, 0.5, time.Hour),
	}}
	svc, _ := newSentimentFixture(p)

	_, err := svc.Composite(context.Background(), "AAPL")
	require.NoError(t, err)

	// feed goes dark; the last good composite is served marked stale
	p.samples = nil
	p.err = fmt.Errorf("connection refused")
	cs, err := svc.Composite(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.True(t, cs.Stale)
	assert.InDelta(t, 0.5, cs.Composite, 1e-9)
}

func TestCompositeErrorsWithNoFallback(t *testing.T) {
	p := &fakeProvider{err: fmt.Errorf("connection refused")}
	svc, _ := newSentimentFixture(p)

	_, err := svc.Composite(context.Background(), "AAPL")
	var sig *models.InsufficientSignalError
	require.True(t, errors.As(err, &sig))
}

func TestTrendAccumulates(t *testing.T) {
	p := &fakeProvider{samples: []models.SentimentSample{
		sample("AAPL", models.SourceNews, 0.1, time.Hour),
	}}
	svc, _ := newSentimentFixture(p)

	for i := 0; i < 3; i++ {
		_, err := svc.Composite(context.Background(), "AAPL")
		require.NoError(t, err)
	}
	trend := svc.Trend("AAPL")
	assert.Len(t, trend, 3)
	assert.Empty(t, svc.Trend("MSFT"))
}

func TestWarmPrimesCache(t *testing.T) {
	p := &fakeProvider{samples: []models.SentimentSample{
		sample("AAPL", models.SourceAnalyst, -0.4, time.Hour),
	}}
	svc, mem := newSentimentFixture(p)

	require.NoError(t, svc.Warm(context.Background(), "AAPL"))
	var cached models.CompositeSentiment
	require.NoError(t, mem.Get(context.Background(), cacheKey("AAPL"), &cached))
	assert.InDelta(t, -0.4, cached.Composite, 1e-9)
}
