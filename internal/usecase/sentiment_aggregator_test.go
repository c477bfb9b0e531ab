package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockSense/internal/domain/models"
)

var aggNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestAggregator(opts ...AggregatorOption) *SentimentAggregator {
	opts = append(opts, WithClock(func() time.Time { return aggNow }))
	return NewSentimentAggregator(opts...)
}

func sample(sym string, src models.SourceKind, score float64, age time.Duration) models.SentimentSample {
	return models.SentimentSample{Symbol: sym, Source: src, Score: score, AsOf: aggNow.Add(-age)}
}

func TestAggregateAllSources(t *testing.T) {
	agg := newTestAggregator()
	cs, err := agg.Aggregate("AAPL", []models.SentimentSample{
		sample("AAPL", models.SourceNews, 0.6, time.Hour),
		sample("AAPL", models.SourceAnalyst, 0.2, time.Hour),
		sample("AAPL", models.SourceSocial, -1.0, time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, "AAPL", cs.Symbol)
	// 0.6*0.5 + 0.2*0.4 + (-1.0)*0.1
	assert.InDelta(t, 0.28, cs.Composite, 1e-9)
	assert.Len(t, cs.PerSource, 3)
	assert.Equal(t, aggNow, cs.ComputedAt)
	assert.False(t, cs.Stale)
}

func TestAggregateRenormalizesOverPresentSources(t *testing.T) {
	agg := newTestAggregator()
	cs, err := agg.Aggregate("AAPL", []models.SentimentSample{
		sample("AAPL", models.SourceNews, 0.8, time.Hour),
		sample("AAPL", models.SourceSocial, 0.2, time.Hour),
	})
	require.NoError(t, err)
	// (0.8*0.5 + 0.2*0.1) / (0.5+0.1); the missing analyst source carries no
	// weight instead of counting as zero
	assert.InDelta(t, 0.7, cs.Composite, 1e-9)
	assert.Len(t, cs.PerSource, 2)
	assert.NotContains(t, cs.PerSource, models.SourceAnalyst)
}

func TestAggregateSingleSourceIsItsOwnComposite(t *testing.T) {
	agg := newTestAggregator()
	cs, err := agg.Aggregate("AAPL", []models.SentimentSample{
		sample("AAPL", models.SourceSocial, -0.35, time.Minute),
	})
	require.NoError(t, err)
	assert.InDelta(t, -0.35, cs.Composite, 1e-9)
}

func TestAggregateDropsStaleSamples(t *testing.T) {
	agg := newTestAggregator()
	cs, err := agg.Aggregate("AAPL", []models.SentimentSample{
		sample("AAPL", models.SourceNews, 0.9, 25*time.Hour),
		sample("AAPL", models.SourceAnalyst, 0.1, time.Hour),
	})
	require.NoError(t, err)
	assert.InDelta(t, 0.1, cs.Composite, 1e-9)
	assert.NotContains(t, cs.PerSource, models.SourceNews)
}

func TestAggregateKeepsLatestPerSource(t *testing.T) {
	agg := newTestAggregator()
	cs, err := agg.Aggregate("AAPL", []models.SentimentSample{
		sample("AAPL", models.SourceNews, -0.9, 10*time.Hour),
		sample("AAPL", models.SourceNews, 0.4, time.Hour),
		sample("AAPL", models.SourceNews, -0.2, 5*time.Hour),
	})
	require.NoError(t, err)
	assert.InDelta(t, 0.4, cs.Composite, 1e-9)
}

func TestAggregateIgnoresOtherSymbols(t *testing.T) {
	agg := newTestAggregator()
	_, err := agg.Aggregate("AAPL", []models.SentimentSample{
		sample("MSFT", models.SourceNews, 0.9, time.Hour),
	})
	var sig *models.InsufficientSignalError
	require.True(t, errors.As(err, &sig))
	assert.Equal(t, "AAPL", sig.Symbol)
}

func TestAggregateNoFreshSamples(t *testing.T) {
	agg := newTestAggregator()
	_, err := agg.Aggregate("AAPL", []models.SentimentSample{
		sample("AAPL", models.SourceNews, 0.9, 48*time.Hour),
	})
	var sig *models.InsufficientSignalError
	require.True(t, errors.As(err, &sig))
}

func TestAggregateEmptyInput(t *testing.T) {
	agg := newTestAggregator()
	_, err := agg.Aggregate("AAPL", nil)
	var sig *models.InsufficientSignalError
	require.True(t, errors.As(err, &sig))
}

func TestAggregateCustomWeightsAndStaleness(t *testing.T) {
	agg := newTestAggregator(
		WithWeights(map[models.SourceKind]float64{
			models.SourceNews:   0.9,
			models.SourceSocial: 0.1,
		}),
		WithStaleness(time.Hour),
	)
	cs, err := agg.Aggregate("AAPL", []models.SentimentSample{
		sample("AAPL", models.SourceNews, 1.0, 30*time.Minute),
		sample("AAPL", models.SourceSocial, -1.0, 90*time.Minute), // beyond the tighter window
	})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, cs.Composite, 1e-9)
}

func TestAggregateCompositeStaysInBounds(t *testing.T) {
	agg := newTestAggregator()
	cs, err := agg.Aggregate("AAPL", []models.SentimentSample{
		sample("AAPL", models.SourceNews, 1.0, time.Hour),
		sample("AAPL", models.SourceAnalyst, 1.0, time.Hour),
		sample("AAPL", models.SourceSocial, 1.0, time.Hour),
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, cs.Composite, 1.0)
	assert.GreaterOrEqual(t, cs.Composite, -1.0)
}
